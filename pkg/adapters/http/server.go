package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/internal/logging"
	"github.com/aretw0/cortex/internal/presentation/graph"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/extraction"
	cgraph "github.com/aretw0/cortex/pkg/graph"
	"github.com/aretw0/cortex/pkg/ports"
	"github.com/aretw0/cortex/pkg/signals"
	"github.com/go-chi/chi/v5"
)

// maxBodySize caps request bodies; extraction payloads are small.
const maxBodySize = 1 << 20

// Server serves the brain to rendering and extraction collaborators.
type Server struct {
	Brain   ports.Brain
	Streams *StreamManager

	router  chi.Router
	metrics http.Handler
	logger  *slog.Logger
	sub     *cgraph.Subscription
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer builds the router and subscribes the stream manager to the brain.
// Call Close to detach it.
func NewServer(brain ports.Brain, opts ...Option) *Server {
	s := &Server{
		Brain:  brain,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.sub = brain.Subscribe(s.Streams)

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/snapshot", s.GetSnapshot)
	r.Get("/regions", s.GetRegions)
	r.Get("/context", s.GetContext)
	r.Get("/graph.mmd", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/integrate", s.Integrate)
	r.Post("/activate", s.Activate)
	r.Post("/signals", s.TriggerSignal)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close detaches the server from the brain and ends every open event stream.
func (s *Server) Close() {
	s.sub.Unsubscribe()
	s.Streams.Close()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IntegrateResponse reports the outcome of POST /integrate.
type IntegrateResponse struct {
	Changed bool     `json:"changed"`
	Errors  []string `json:"errors"`
}

// Integrate handles the POST /integrate request.
func (s *Server) Integrate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := extraction.Parse(data)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, extraction.ErrExtractionFailed) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		s.logger.Warn("Integrate: payload rejected", "error", err)
		return
	}

	changed, err := s.Brain.Ingest(r.Context(), result)
	resp := IntegrateResponse{Changed: changed, Errors: splitErrors(err)}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

// ActivateRequest is the body of POST /activate.
type ActivateRequest struct {
	IDs []string `json:"ids"`
}

// Activate handles the POST /activate request.
func (s *Server) Activate(w http.ResponseWriter, r *http.Request) {
	var body ActivateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Activate: Invalid request body", "error", err)
		return
	}

	changed := s.Brain.ActivateConcepts(r.Context(), body.IDs)
	writeJSON(w, http.StatusOK, map[string]bool{"changed": changed}, s.logger)
}

// SignalRequest is the body of POST /signals.
type SignalRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Color string `json:"color,omitempty"`
}

// TriggerSignal handles the POST /signals request.
// Unknown regions are not an error: the request is accepted and ignored (204).
func (s *Server) TriggerSignal(w http.ResponseWriter, r *http.Request) {
	var body SignalRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("TriggerSignal: Invalid request body", "error", err)
		return
	}

	var opts []signals.Option
	if body.Color != "" {
		opts = append(opts, signals.WithColor(body.Color))
	}

	id, ok := s.Brain.TriggerSignal(r.Context(),
		domain.NormalizeRegionID(body.From), domain.NormalizeRegionID(body.To), opts...)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id}, s.logger)
}

// GetSnapshot handles the GET /snapshot request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Brain.Snapshot(), s.logger)
}

// GetRegions handles the GET /regions request.
func (s *Server) GetRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Brain.Regions(), s.logger)
}

// GetContext handles the GET /context request.
func (s *Server) GetContext(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.Brain.Describe())
}

// GetGraph handles the GET /graph.mmd request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.Brain.Snapshot(), s.Brain.Regions()))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	snap := s.Brain.Snapshot()
	resp := map[string]any{
		"app":     "cortex-http",
		"version": strings.TrimSpace(cortex.Version),
		"regions": len(s.Brain.Regions()),
		"nodes":   len(snap.Nodes),
		"links":   len(snap.Links),
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

// StreamManager fans brain snapshots out to active SSE connections.
// It is a graph.Observer: subscribe it to the brain once.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan domain.Snapshot]struct{}
	closed      bool
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan domain.Snapshot]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a client channel. The returned func releases it.
// The channel is closed when the client is released or the manager is closed.
func (sm *StreamManager) Subscribe() (<-chan domain.Snapshot, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan domain.Snapshot, 10)
	if sm.closed {
		close(ch)
		return ch, func() {}
	}
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// OnSnapshot implements graph.Observer. It never blocks the publisher.
func (sm *StreamManager) OnSnapshot(snap domain.Snapshot) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop snapshot if channel is full (slow client); the next one supersedes it.
			sm.logger.Warn("SSE: Client buffer full, dropping snapshot", "version", snap.Version)
		}
	}
}

// Len reports the number of connected clients.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Close releases every client.
func (sm *StreamManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.closed = true
	for ch := range sm.subscribers {
		delete(sm.subscribers, ch)
		close(ch)
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// The current snapshot is sent right after the ping, then one per change.
// Versions never repeat or go backwards on a stream.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	initial := s.Brain.Snapshot()
	if !s.writeEvent(w, initial) {
		return
	}
	sent := initial.Version
	flusher.Flush()
	s.logger.Info("SSE: client connected", "clients", s.Streams.Len())

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected")
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if snap.Version <= sent {
				continue
			}
			if !s.writeEvent(w, snap) {
				return
			}
			sent = snap.Version
			flusher.Flush()
		}
	}
}

func (s *Server) writeEvent(w io.Writer, snap domain.Snapshot) bool {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("SSE: snapshot encode failed", "error", err)
		return false
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err == nil
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

// splitErrors flattens a joined error into one message per rejected candidate.
func splitErrors(err error) []string {
	if err == nil {
		return []string{}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		out := make([]string, 0, len(errs))
		for _, e := range errs {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
