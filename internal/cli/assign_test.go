package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunksplit/chunksplit/internal/graph"
)

func writeGraph(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

const flatGraph = `
minChunkSize: 0
entries: [a, b]
modules:
  - id: a
    size: 10
    dependencies: [shared]
  - id: b
    size: 20
    dependencies: [shared]
  - id: shared
    size: 10
`

func TestAssignFromFile(t *testing.T) {
	chunks, err := assignFromFile(writeGraph(t, flatGraph))
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestAssignFromFileEnvOverridesMinChunkSize(t *testing.T) {
	// The graph file disables merging; the environment turns it back on
	// and folds everything into one chunk.
	t.Setenv("CHUNKSPLIT_MINCHUNKSIZE", "100000")

	chunks, err := assignFromFile(writeGraph(t, flatGraph))
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestAssignFromFileRejectsNegativeEnvMinChunkSize(t *testing.T) {
	t.Setenv("CHUNKSPLIT_MINCHUNKSIZE", "-5")

	_, err := assignFromFile(writeGraph(t, flatGraph))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestAssignFromFileMissingGraph(t *testing.T) {
	_, err := assignFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestChunkName(t *testing.T) {
	alias := "vendor"
	assert.Equal(t, "vendor", chunkName(graph.Chunk{Alias: &alias}, 0))
	assert.Equal(t, "chunk-2", chunkName(graph.Chunk{}, 2))
}
