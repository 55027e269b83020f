package daemon

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"memekiosk/internal/api"
	"memekiosk/internal/config"
	"memekiosk/internal/logging"
)

//go:embed recent.html
var recentTemplateHTML string

var recentTemplate = template.Must(template.New("recent").Parse(recentTemplateHTML))

const recentPageCount = 10

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

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
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleIndex)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/recent", srv.handleRecent)
	mux.HandleFunc("/memes/", srv.handleMeme)
	mux.HandleFunc("/last_meme", srv.handleLastMeme)
	mux.HandleFunc("/report/", srv.handleReport)
	mux.HandleFunc("/ask_commercial", srv.handleAskCommercial)
	mux.HandleFunc("/kill_commercial", srv.handleKillCommercial)

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

func (s *apiServer) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "api"))
}

func (s *apiServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	page := api.RecentResponse{Memes: api.FromItems(s.daemon.RecentMemes(recentPageCount))}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := recentTemplate.Execute(w, page); err != nil {
		s.log().Warn("render recent page failed", logging.Error(err))
	}
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	payload := api.DaemonStatus{
		Running:            status.Running,
		PID:                status.PID,
		LockFilePath:       status.LockFilePath,
		MemeCount:          status.MemeCount,
		BlockedMemes:       status.BlockedMemes,
		DisplayedMemes:     status.DisplayedMemes,
		CommercialsEnabled: status.CommercialsEnabled,
		CommercialCount:    status.CommercialCount,
	}
	if status.LastMeme != nil {
		view := api.FromItem(*status.LastMeme)
		payload.LastMeme = &view
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = recentPageCount
	}
	s.writeJSON(w, http.StatusOK, api.RecentResponse{
		Memes: api.FromItems(s.daemon.RecentMemes(limit)),
	})
}

func (s *apiServer) handleMeme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/memes/")
	path, err := s.daemon.MemeFilePath(name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, statErr := os.Stat(path); statErr != nil {
		s.writeError(w, http.StatusNotFound, "meme not found")
		return
	}
	http.ServeFile(w, r, path)
}

func (s *apiServer) handleLastMeme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	last, ok := s.daemon.LastMeme()
	if !ok {
		fmt.Fprint(w, "No meme for u")
		return
	}
	fmt.Fprint(w, last.Name())
}

func (s *apiServer) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/report/")
	if err := s.daemon.BlockMeme(name); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log().Info("meme reported", logging.String("name", name))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "OK!")
}

func (s *apiServer) handleAskCommercial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.daemon.RequestCommercial()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Ok!")
}

func (s *apiServer) handleKillCommercial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.daemon.KillCommercial()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Ok!")
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Warn("write response failed", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
