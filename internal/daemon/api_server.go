package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"skywatch/internal/api"
	"skywatch/internal/config"
	"skywatch/internal/logging"
	"skywatch/internal/votes"
)

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	voteSvc *api.VoteService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:    bind,
		logger:  logger,
		daemon:  d,
		voteSvc: api.NewVoteService(d.votes),
	}

	token := strings.TrimSpace(cfg.Paths.APIToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.requireAuth(token, srv.handleStatus))
	mux.HandleFunc("/api/check", srv.requireAuth(token, srv.handleCheck))
	mux.HandleFunc("/api/priority", srv.requireAuth(token, srv.handlePriority))
	mux.HandleFunc("/api/votes/", srv.requireAuth(token, srv.handleVotes))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// addr returns the bound address, which differs from the configured bind when
// the port was chosen by the kernel.
func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.DaemonStatus{
		Running:       status.Running,
		PID:           status.PID,
		LedgerDBPath:  status.LedgerDBPath,
		VotingDBPath:  status.VotingDBPath,
		LockFilePath:  status.LockFilePath,
		LedgerEntries: status.LedgerEntries,
	}
	if status.LastRun != nil {
		payload.LastRun = &api.RunSummary{
			RunID:       status.LastRun.RunID,
			Bootstrap:   status.LastRun.Bootstrap,
			FeedRows:    status.LastRun.FeedRows,
			Announced:   status.LastRun.Announced,
			Recorded:    status.LastRun.Recorded,
			CompletedAt: status.LastRun.CompletedAt,
			Error:       status.LastRunError,
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.daemon.TriggerRun(r.Context())
	summary := api.RunSummary{
		RunID:       result.RunID,
		Bootstrap:   result.Bootstrap,
		FeedRows:    result.FeedRows,
		Announced:   result.Announced,
		Recorded:    result.Recorded,
		CompletedAt: result.CompletedAt,
	}
	if err != nil {
		summary.Error = err.Error()
		s.writeJSON(w, http.StatusInternalServerError, summary)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *apiServer) handlePriority(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries, err := s.voteSvc.Priority(r.Context(), 0)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.PriorityResponse{Entries: entries})
}

func (s *apiServer) handleVotes(w http.ResponseWriter, r *http.Request) {
	transientID := strings.TrimPrefix(r.URL.Path, "/api/votes/")
	if transientID == "" || strings.Contains(transientID, "/") {
		s.writeError(w, http.StatusNotFound, "transient not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		status, err := s.voteSvc.Describe(r.Context(), transientID)
		if err != nil {
			if errors.Is(err, votes.ErrUnknownTransient) {
				s.writeError(w, http.StatusNotFound, "transient not found")
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, status)
	case http.MethodPost:
		var req api.UpdateVotesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		status, err := s.voteSvc.Update(r.Context(), transientID, req.Reactions)
		if err != nil {
			if errors.Is(err, votes.ErrNegativeCount) {
				s.writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, status)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
