package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// server wraps the preview HTTP server: static site, health and metrics.
type server struct {
	httpServer *http.Server
	status     *buildStatus
}

func newServer(outputDir string, port int, status *buildStatus, recorder *metrics.PrometheusRecorder) *server {
	s := &server{status: status}

	mux := http.NewServeMux()
	mux.Handle("/", noCache(http.FileServer(http.Dir(outputDir))))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", recorder.Handler())

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *server) start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", logfields.Error(err))
		}
	}()
	return nil
}

func (s *server) stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status       string `json:"status"`
	HasGoodBuild bool   `json:"has_good_build"`
	LastBuild    string `json:"last_build,omitempty"`
	LastError    string `json:"last_error,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	buildErr, lastBuild, hasGoodBuild := s.status.snapshot()

	resp := healthResponse{Status: "ok", HasGoodBuild: hasGoodBuild}
	if !lastBuild.IsZero() {
		resp.LastBuild = lastBuild.Format(time.RFC3339)
	}
	if buildErr != nil {
		resp.Status = "build_failed"
		resp.LastError = buildErr.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if !hasGoodBuild {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// noCache disables caching so edits show up on plain reload.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}
