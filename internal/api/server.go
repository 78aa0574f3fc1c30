// Package api serves the simulation over HTTP: read-only state queries,
// control endpoints for stepping and pacing, and an SSE stream of snapshots.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/loolos/Antarctica/internal/engine"
	"github.com/loolos/Antarctica/internal/persistence"
)

const maxSSEConns = 8

// Server serves the simulation state over HTTP.
type Server struct {
	Driver *engine.Driver
	DB     *persistence.DB // optional; enables GET /events history
	Port   int

	// POST /step calls per hour per IP. 0 disables limiting.
	StepRateLimit int

	// Active SSE connection count (atomic).
	sseConns int32
}

// Handler builds the route table. Exposed separately from Start for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /stream", s.handleStream)

	stepHandler := s.handleStep
	if s.StepRateLimit > 0 {
		limiter := NewRateLimiter(s.StepRateLimit, time.Hour)
		stepHandler = RateLimitMiddleware(limiter, stepHandler)
	}
	mux.HandleFunc("POST /step", stepHandler)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /stop", s.handleStop)
	mux.HandleFunc("POST /speed", s.handleSpeed)

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start(ctx context.Context) {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleRoot returns a service banner so the bare URL answers something
// useful.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"service": "antarctica",
		"message": "Antarctic ecosystem simulation",
		"running": s.Driver.Running(),
		"tick":    s.Driver.Snapshot().Tick,
	})
}

// handleState returns the full world snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Driver.Snapshot())
}

// handleStats returns the run statistics summary.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Driver.Stats())
}

// handleEvents returns recent journaled events. Without a database the
// endpoint reports an empty list.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events := []engine.Event{}
	if s.DB != nil {
		found, err := s.DB.RecentEvents(limit)
		if err != nil {
			slog.Error("event query failed", "error", err)
			http.Error(w, "event query failed", http.StatusInternalServerError)
			return
		}
		if found != nil {
			events = found
		}
	}
	writeJSON(w, map[string]any{"events": events})
}

// handleStep advances the simulation by n ticks (default 1).
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	n := 1
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "n must be an integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	if err := s.Driver.Step(n); err != nil {
		if errors.Is(err, engine.ErrStepCount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("step failed", "error", err)
		http.Error(w, "step failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.Driver.Snapshot())
}

// handleReset rebuilds the world.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Driver.Reset()
	writeJSON(w, s.Driver.Snapshot())
}

// handleStart resumes the background tick loop.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.Driver.Start()
	writeJSON(w, map[string]any{"running": true})
}

// handleStop pauses the background tick loop.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.Driver.Stop()
	writeJSON(w, map[string]any{"running": false})
}

// handleSpeed sets the tick rate multiplier from the "multiplier" query
// parameter or a JSON body {"multiplier": x}.
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var mult float64
	if v := r.URL.Query().Get("multiplier"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "multiplier must be a number", http.StatusBadRequest)
			return
		}
		mult = parsed
	} else {
		var body struct {
			Multiplier float64 `json:"multiplier"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		mult = body.Multiplier
	}

	if err := s.Driver.SetSpeed(mult); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"multiplier": mult})
}

// handleStream streams world snapshots over SSE, one event per driver tick.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	current := atomic.AddInt32(&s.sseConns, 1)
	if current > maxSSEConns {
		atomic.AddInt32(&s.sseConns, -1)
		http.Error(w, "too many SSE connections", http.StatusServiceUnavailable)
		return
	}
	defer atomic.AddInt32(&s.sseConns, -1)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	subID, ch := s.Driver.Subscribe()
	defer s.Driver.Unsubscribe(subID)

	// Current state first so the client never starts blind.
	writeSSESnapshot(w, s.Driver.Snapshot())
	flusher.Flush()

	slog.Info("SSE client connected", "sub_id", subID)

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			writeSSESnapshot(w, snap)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			slog.Info("SSE client disconnected", "sub_id", subID)
			return
		}
	}
}

// writeSSESnapshot writes a single snapshot in SSE format.
func writeSSESnapshot(w http.ResponseWriter, snap engine.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
