package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*cortex.Brain, *Server) {
	t.Helper()
	brain := cortex.New(cortex.WithSeed(7))
	srv := NewServer(brain, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "cortex_nodes 0\n")
	})))
	t.Cleanup(srv.Close)
	return brain, srv
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIntegrate(t *testing.T) {
	brain, srv := newTestServer(t)

	w := do(t, srv, "POST", "/integrate", `{
		"nodes": [{"id": "Dog", "group": "Living", "category": "motor"}, {"id": ""}],
		"links": [{"source": "Dog", "target": "Bone", "type": "eats"}]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp IntegrateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Len(t, resp.Errors, 1)

	snap := brain.Snapshot()
	assert.Len(t, snap.Nodes, 1)
	assert.Len(t, snap.Links, 1)
}

func TestIntegrate_BadPayloads(t *testing.T) {
	_, srv := newTestServer(t)

	w := do(t, srv, "POST", "/integrate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, "POST", "/integrate", `{"error": "model unavailable"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestActivate(t *testing.T) {
	brain, srv := newTestServer(t)
	ctx := context.Background()
	_, _ = brain.Integrate(ctx, []domain.NodeInit{{ID: "Apple"}}, nil)
	for i := 0; i < 10; i++ {
		brain.DecayTick(ctx)
	}

	w := do(t, srv, "POST", "/activate", `{"ids": ["apple"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"changed": true}`, w.Body.String())

	w = do(t, srv, "POST", "/activate", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerSignal(t *testing.T) {
	brain, srv := newTestServer(t)

	w := do(t, srv, "POST", "/signals", `{"from": "Visual", "to": "logic", "color": "#fff"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])

	sigs := brain.Snapshot().Signals
	require.Len(t, sigs, 1)
	assert.Equal(t, "#fff", sigs[0].Color)

	w = do(t, srv, "POST", "/signals", `{"from": "visual", "to": "nowhere"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, brain.Snapshot().Signals, 1)
}

func TestReadEndpoints(t *testing.T) {
	brain, srv := newTestServer(t)
	_, _ = brain.Ingest(context.Background(), domain.ExtractionResult{
		Nodes: []domain.ExtractedNode{{ID: "Dog", Category: "motor"}},
		Links: []domain.ExtractedLink{{Source: "Dog", Target: "Bone", Type: "eats"}},
	})

	tests := []struct {
		path     string
		contains string
	}{
		{"/health", `"status":"ok"`},
		{"/info", `"app":"cortex-http"`},
		{"/snapshot", `"activationLevel":1`},
		{"/regions", `"id":"visual"`},
		{"/context", "Dog eats Bone"},
		{"/graph.mmd", "subgraph region_motor"},
		{"/metrics", "cortex_nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, srv, "GET", tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestCORS(t *testing.T) {
	_, srv := newTestServer(t)

	w := do(t, srv, "OPTIONS", "/integrate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	brain, srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	lines.Buffer(make([]byte, 64*1024), 1<<20)

	next := func() domain.Snapshot {
		for lines.Scan() {
			line := lines.Text()
			if data, ok := strings.CutPrefix(line, "data: "); ok && data != "connected" {
				var snap domain.Snapshot
				require.NoError(t, json.Unmarshal([]byte(data), &snap))
				return snap
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return domain.Snapshot{}
	}

	initial := next()
	assert.Empty(t, initial.Nodes)

	require.Eventually(t, func() bool { return srv.Streams.Len() == 1 }, time.Second, 10*time.Millisecond)
	_, _ = brain.Ingest(context.Background(), domain.ExtractionResult{
		Nodes: []domain.ExtractedNode{{ID: "Dog"}},
	})

	update := next()
	require.Len(t, update.Nodes, 1)
	assert.Equal(t, "Dog", update.Nodes[0].ID)
	assert.Greater(t, update.Version, initial.Version)
}

func TestSubscribeEvents_SkipsRepeatedVersions(t *testing.T) {
	brain, srv := newTestServer(t)
	_, _ = brain.Ingest(context.Background(), domain.ExtractionResult{
		Nodes: []domain.ExtractedNode{{ID: "Dog"}},
	})

	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	lines.Buffer(make([]byte, 64*1024), 1<<20)
	next := func() domain.Snapshot {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok && data != "connected" {
				var snap domain.Snapshot
				require.NoError(t, json.Unmarshal([]byte(data), &snap))
				return snap
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return domain.Snapshot{}
	}

	initial := next()
	require.Equal(t, uint64(1), initial.Version)
	require.Eventually(t, func() bool { return srv.Streams.Len() == 1 }, time.Second, 10*time.Millisecond)

	// A publish racing the initial read arrives again, followed by an older one.
	srv.Streams.OnSnapshot(initial)
	srv.Streams.OnSnapshot(domain.Snapshot{Version: 0})
	_, _ = brain.Ingest(context.Background(), domain.ExtractionResult{
		Nodes: []domain.ExtractedNode{{ID: "Bone"}},
	})

	update := next()
	assert.Equal(t, uint64(2), update.Version)
	assert.Len(t, update.Nodes, 2)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, release := sm.Subscribe()

	for i := 0; i < 20; i++ {
		sm.OnSnapshot(domain.Snapshot{Version: uint64(i)})
	}
	assert.Len(t, ch, 10)

	release()
	assert.Equal(t, 0, sm.Len())
	_, open := <-ch
	for open {
		_, open = <-ch
	}

	sm.Close()
	late, _ := sm.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
