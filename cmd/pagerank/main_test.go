package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pagerank/pkg/docno"
	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
	"github.com/dd0wney/cluso-pagerank/pkg/logging"
	"github.com/dd0wney/cluso-pagerank/pkg/passfile"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunPrintsTopByDocid(t *testing.T) {
	dir := t.TempDir()
	graph := writeFile(t, dir, "graph.txt", "# hub at 500\n100 500\n200 500\n300 500 100\n500 100\n")
	cfgPath := writeFile(t, dir, "run.yaml", "iterations: 15\npartitions: 2\nworkers: 2\ntop: 2\n")

	opts := options{
		configPath:  cfgPath,
		graphPath:   graph,
		outPath:     filepath.Join(dir, "final.prnf"),
		mappingPath: filepath.Join(dir, "docno.bin"),
		top:         -1,
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, logging.NewNopLogger(), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1\t500\t"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2\t100\t"), lines[1])

	fr, err := passfile.OpenFile(opts.outPath)
	require.NoError(t, err)
	defer fr.Close()
	nodes, err := fr.ReadAll()
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	for _, n := range nodes {
		assert.Equal(t, graphnode.Complete, n.Variant())
	}

	f, err := os.Open(opts.mappingPath)
	require.NoError(t, err)
	defer f.Close()
	m, err := docno.ReadMapping(f)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())
}

func TestRunTopFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	graph := writeFile(t, dir, "graph.txt", "1 2\n2 3\n3 1\n")

	var out bytes.Buffer
	opts := options{graphPath: graph, top: 1}
	require.NoError(t, run(context.Background(), opts, logging.NewNopLogger(), &out))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 1)
}

func TestRunRequiresGraph(t *testing.T) {
	err := run(context.Background(), options{top: -1}, logging.NewNopLogger(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	graph := writeFile(t, dir, "graph.txt", "1 2\n")
	cfgPath := writeFile(t, dir, "run.yaml", "damping: 2\n")

	err := run(context.Background(), options{configPath: cfgPath, graphPath: graph, top: -1}, logging.NewNopLogger(), &bytes.Buffer{})
	assert.Error(t, err)
}
