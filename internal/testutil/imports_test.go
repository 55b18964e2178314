package testutil

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The harness links testutil into the wfcgen binary, so its non-test files
// must not pull in testing or testify.
func TestNonTestFiles_DoNotImportTestingPackages(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	checked := 0
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
		require.NoError(t, err)
		checked++
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.NotEqual(t, "testing", path, "%s imports testing", file)
			assert.False(t, strings.HasPrefix(path, "github.com/stretchr/testify"),
				"%s imports %s", file, path)
		}
	}
	assert.Positive(t, checked)
}
