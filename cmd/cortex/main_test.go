package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "1.json")
	second := filepath.Join(dir, "2.json")
	require.NoError(t, os.WriteFile(first, []byte(`{"nodes":[{"id":"Dog","group":"Living","category":"motor"}]}`), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`{"nodes":[{"id":"Dog"}],"links":[{"source":"Dog","target":"Bone","type":"eats"}]}`), 0o644))

	out := run(t, "", "ingest", "-o", "context", first, second)
	assert.Contains(t, out, "Concepts: Dog (is a motor)")
	assert.Contains(t, out, "- Dog eats Bone")

	out = run(t, `{"nodes":[{"id":"Red","category":"visual"}]}`, "ingest", "-o", "json")
	assert.Contains(t, out, `"category": "visual"`)
}

func TestGraphCommand(t *testing.T) {
	out := run(t, `{"nodes":[{"id":"Dog","category":"motor"}]}`, "graph")
	assert.Contains(t, out, "subgraph region_motor")
}

func TestRegionsAndClassify(t *testing.T) {
	out := run(t, "", "regions")
	assert.Contains(t, out, "* memory")
	assert.Contains(t, out, "visual")

	out = run(t, "", "classify", "feelings")
	assert.Equal(t, "emotion\n", out)
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, run(t, "", "version"), "cortex version")
}
