package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/blueprint"
	"github.com/aretw0/blueprint/pkg/adapters/file"
	"github.com/aretw0/blueprint/pkg/adapters/memory"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *blueprint.Service {
	t.Helper()
	ds, err := file.LoadDataset(filepath.Join("..", "..", "..", "testdata", "gym.yaml"))
	require.NoError(t, err)
	roster := memory.NewRoster()
	require.NoError(t, ds.Seed(context.Background(), roster, roster))
	return blueprint.New(roster, roster, blueprint.WithCache(memory.NewCache()))
}

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestNewServerConfigures(t *testing.T) {
	s := NewServer(newService(t), nil)
	require.NotNil(t, s.mcpServer)
}

func TestHandleGenerate(t *testing.T) {
	s := NewServer(newService(t), nil)
	ctx := context.Background()

	res, err := s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "tuesday-6am"})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Len(t, res.Blueprint.Blocks, 4)

	res, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "tuesday-6am"})
	require.NoError(t, err)
	assert.True(t, res.Cached)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]any{})
	assert.Error(t, err)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "missing"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestInvalidateHandler(t *testing.T) {
	svc := newService(t)
	handler := invalidateHandler(svc)

	res, err := handler(context.Background(), newCallToolRequest("invalidate_blueprint", map[string]any{"session_id": "tuesday-6am"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "invalidated")

	res, err = handler(context.Background(), newCallToolRequest("invalidate_blueprint", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestUpdatePreferencesHandler(t *testing.T) {
	svc := newService(t)
	handler := updatePreferencesHandler(svc)
	ctx := context.Background()

	res, err := handler(ctx, newCallToolRequest("update_preferences", map[string]any{
		"session_id":  "tuesday-6am",
		"client_id":   "ana",
		"preferences": `{"intensity":"low"}`,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError, text(t, res))

	group, err := svc.Sessions().Load(ctx, "tuesday-6am")
	require.NoError(t, err)
	assert.Equal(t, domain.IntensityLow, group.Clients[0].Intensity)

	for name, args := range map[string]map[string]any{
		"bad json":       {"session_id": "tuesday-6am", "client_id": "ana", "preferences": "{"},
		"bad intensity":  {"session_id": "tuesday-6am", "client_id": "ana", "preferences": `{"intensity":"max"}`},
		"unknown client": {"session_id": "tuesday-6am", "client_id": "zed", "preferences": `{}`},
		"missing field":  {"session_id": "tuesday-6am"},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := handler(ctx, newCallToolRequest("update_preferences", args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestListTemplatesHandler(t *testing.T) {
	res, err := listTemplatesHandler(newService(t))(context.Background(), newCallToolRequest("list_templates", nil))
	require.NoError(t, err)
	out := text(t, res)
	assert.Contains(t, out, "full_body_bmf: Full Body BMF (4 blocks, 6 exercises per client)")
	assert.Contains(t, out, "circuit_training")
}
