package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gymDataset = filepath.Join("..", "..", "testdata", "gym.yaml")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BLUEPRINT_REDIS_ADDR", "")
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateJSON(t *testing.T) {
	out, err := run(t, "generate", "--data", "", "--dataset", gymDataset, "--format", "json", "--client", "", "tuesday-6am")
	require.NoError(t, err)

	var bp domain.Blueprint
	require.NoError(t, json.Unmarshal([]byte(out), &bp))
	assert.Equal(t, "tuesday-6am", bp.SessionID)
	assert.Len(t, bp.Blocks, 4)
}

func TestGenerateMarkdownAndMermaid(t *testing.T) {
	out, err := run(t, "generate", "--data", "", "--dataset", gymDataset, "--format", "markdown", "--client", "", "tuesday-6am")
	require.NoError(t, err)
	assert.Contains(t, out, "# Session tuesday-6am")

	out, err = run(t, "generate", "--data", "", "--dataset", gymDataset, "--format", "mermaid", "--client", "ana", "tuesday-6am")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "client;")
}

func TestGenerateErrors(t *testing.T) {
	_, err := run(t, "generate", "--data", "", "--dataset", gymDataset, "--format", "json", "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = run(t, "generate", "--data", "", "--dataset", gymDataset, "--format", "pdf", "tuesday-6am")
	assert.ErrorContains(t, err, "unknown format")
}

func TestFileBackendPersistsSeed(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "sessions", "--data", dir, "--dataset", gymDataset)
	require.NoError(t, err)

	// The second run reads the directory without reseeding.
	out, err := run(t, "sessions", "--data", dir, "--dataset", "")
	require.NoError(t, err)
	assert.Equal(t, "solo\ntuesday-6am\n", out)
}

func TestTemplatesAndVersion(t *testing.T) {
	out, err := run(t, "templates", "--data", "", "--dataset", "")
	require.NoError(t, err)
	assert.Contains(t, out, "full_body_bmf")
	assert.Contains(t, out, "circuit_training")

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "blueprint version")
}
