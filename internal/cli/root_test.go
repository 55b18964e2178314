package cli

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "wfcgen", cmd.Use)
	assert.Contains(t, cmd.Long, "wave function collapse")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "generate", "trace", "batch", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestGenerationCommandFlags(t *testing.T) {
	for _, name := range []string{"generate", "trace", "batch"} {
		t.Run(name, func(t *testing.T) {
			cmd := NewRootCommand()
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			for flag, def := range map[string]string{
				"size":      "16x16",
				"loop":      "",
				"retries":   "50",
				"heuristic": "mrv",
				"seed":      "0",
				"pin":       "[]",
			} {
				f := sub.Flags().Lookup(flag)
				require.NotNil(t, f, "--%s", flag)
				assert.Equal(t, def, f.DefValue, "--%s", flag)
			}
		})
	}
}

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	kindFlag := traceCmd.Flags().Lookup("kind")
	require.NotNil(t, kindFlag)
	assert.Equal(t, "", kindFlag.DefValue)
}

func TestBatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	batchCmd, _, err := cmd.Find([]string{"batch"})
	require.NoError(t, err)

	countFlag := batchCmd.Flags().Lookup("count")
	require.NotNil(t, countFlag)
	assert.Equal(t, "4", countFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, _, err := runCLI(t, "--format", "invalid", "validate", "tileset.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestNewLogger_Level(t *testing.T) {
	buf := &bytes.Buffer{}

	quiet := (&RootOptions{}).newLogger(buf)
	quiet.Info("hidden")
	quiet.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	verbose := (&RootOptions{Verbose: true}).newLogger(buf)
	assert.True(t, verbose.Enabled(t.Context(), slog.LevelDebug))
}
