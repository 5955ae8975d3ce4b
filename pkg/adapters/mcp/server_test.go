package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestHandleIntegrate(t *testing.T) {
	brain := cortex.New()
	s := NewServer(brain)
	ctx := context.Background()

	args := map[string]any{
		"extraction": `{"nodes":[{"id":"Dog","category":"motor"},{"id":"dog"}],"links":[{"source":"Dog","target":"Bone","type":"eats"}]}`,
	}
	resp, err := s.handleIntegrate(ctx, callRequest("integrate_knowledge", args), args)
	require.NoError(t, err)

	assert.True(t, resp.Changed)
	assert.Empty(t, resp.Errors)
	assert.Contains(t, resp.Context, "Dog eats Bone")

	n, ok := brain.Snapshot().Node("dog")
	require.True(t, ok)
	assert.Equal(t, 1.0, n.Strength, "duplicates within one extraction collapse")
}

func TestHandleIntegrate_ObjectPayload(t *testing.T) {
	brain := cortex.New()
	s := NewServer(brain)

	args := map[string]any{
		"extraction": map[string]any{
			"nodes": []any{map[string]any{"id": "Red", "category": "visual"}},
		},
	}
	resp, err := s.handleIntegrate(context.Background(), callRequest("integrate_knowledge", args), args)
	require.NoError(t, err)
	assert.True(t, resp.Changed)

	n, _ := brain.Snapshot().Node("red")
	assert.Equal(t, domain.RegionVisual, n.Category)
}

func TestHandleIntegrate_Failures(t *testing.T) {
	s := NewServer(cortex.New())
	ctx := context.Background()

	for _, args := range []map[string]any{
		{},
		{"extraction": "{broken"},
		{"extraction": `{"error":"rate limited"}`},
	} {
		_, err := s.handleIntegrate(ctx, callRequest("integrate_knowledge", args), args)
		assert.Error(t, err)
	}
}

func TestHandleActivate(t *testing.T) {
	brain := cortex.New()
	s := NewServer(brain)
	ctx := context.Background()
	_, _ = brain.Integrate(ctx, []domain.NodeInit{{ID: "Sun"}}, nil)
	brain.DecayTick(ctx)

	res, err := s.handleActivate(ctx, callRequest("activate_concepts", map[string]any{"ids": []any{"sun"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"changed":true}`, resultText(t, res))

	res, err = s.handleActivate(ctx, callRequest("activate_concepts", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleSignal(t *testing.T) {
	brain := cortex.New()
	s := NewServer(brain)
	ctx := context.Background()

	res, err := s.handleSignal(ctx, callRequest("trigger_signal", map[string]any{"from": "Motor", "to": "emotion"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, brain.Snapshot().Signals, 1)
	assert.Equal(t, brain.Snapshot().Signals[0].ID, resultText(t, res))

	res, err = s.handleSignal(ctx, callRequest("trigger_signal", map[string]any{"from": "motor", "to": "spleen"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "signal ignored")
	assert.Len(t, brain.Snapshot().Signals, 1)

	res, err = s.handleSignal(ctx, callRequest("trigger_signal", map[string]any{"from": "motor"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReadSnapshot(t *testing.T) {
	brain := cortex.New()
	s := NewServer(brain)
	_, _ = brain.Integrate(context.Background(), []domain.NodeInit{{ID: "Moon"}}, nil)

	contents, err := s.readSnapshot(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, SnapshotURI, text.URI)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text.Text), &snap))
	assert.Len(t, snap.Nodes, 1)
}
