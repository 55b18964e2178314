package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const checkerboardTileset = `name: checkerboard
dimensions: 2
sockets: [w, b]
connections:
  - from: w
    to: [b]
models:
  - name: white
    symbol: "."
    sockets: {x_pos: [w], x_neg: [w], y_pos: [w], y_neg: [w]}
  - name: black
    symbol: "#"
    sockets: {x_pos: [b], x_neg: [b], y_pos: [b], y_neg: [b]}
`

// gapTileset has no model that fits a node with an X+ neighbour.
const gapTileset = `name: gap
dimensions: 2
sockets: [s, dead]
connections:
  - from: s
    to: [s]
models:
  - name: gap
    symbol: "|"
    sockets: {x_pos: [dead], x_neg: [s], y_pos: [s], y_neg: [s]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeTileset(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "tileset.yaml", content)
}

// runCLI executes the root command with args and returns stdout, stderr
// and the command error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse decodes a JSON CLIResponse whose data is decoded into data.
func decodeResponse(t *testing.T, raw string, data any) CLIResponse {
	t.Helper()
	var resp struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp.CLIResponse
}
