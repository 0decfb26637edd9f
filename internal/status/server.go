// Package status serves the game state on a loopback HTTP port for
// external dashboards.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/state"
)

// maxBody bounds PUT payloads.
const maxBody = 1 << 20

// SaveFunc persists preferences after a write through the API.
type SaveFunc func(state.Preferences) error

type Server struct {
	router      *chi.Mux
	store       *state.Store
	broadcaster *Broadcaster
	save        SaveFunc
	log         logrus.FieldLogger
}

// NewServer wires the routes. save may be nil.
func NewServer(store *state.Store, b *Broadcaster, save SaveFunc, log logrus.FieldLogger) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		store:       store,
		broadcaster: b,
		save:        save,
		log:         log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/api/state", s.handleState)
	r.Get("/api/autopick", s.handleGetAutoPick)
	r.Put("/api/autopick", s.handlePutAutoPick)
	r.Get("/ws", s.handleWS)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleGetAutoPick(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.AutoPick())
}

func (s *Server) handlePutAutoPick(w http.ResponseWriter, r *http.Request) {
	var cfg state.AutoPickConfig
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		http.Error(w, "invalid autopick config: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateAutoPick(cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.store.SetAutoPick(cfg)
	if s.save != nil {
		if err := s.save(s.store.Preferences()); err != nil {
			s.log.WithError(err).Error("failed to save preferences")
			http.Error(w, "saving preferences failed", http.StatusInternalServerError)
			return
		}
	}
	s.log.WithField("selected", len(cfg.Selected)).Info("pick list updated over the status API")
	writeJSON(w, http.StatusOK, s.store.AutoPick())
}

func validateAutoPick(cfg state.AutoPickConfig) error {
	seen := make(map[uint16]bool, len(cfg.Selected)+len(cfg.Unselected))
	for _, list := range [][]state.Champion{cfg.Selected, cfg.Unselected} {
		for _, ch := range list {
			if ch.ID == 0 {
				return errors.New("champion id must not be zero")
			}
			if seen[ch.ID] {
				return errors.New("champion listed twice")
			}
			seen[ch.ID] = true
		}
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("ws upgrade failed")
		return
	}

	s.log.WithField("remote", r.RemoteAddr).Debug("status client connected")
	c := s.broadcaster.AddClient(conn)

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			s.log.WithField("remote", r.RemoteAddr).Debug("status client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// checkOrigin admits same-host and loopback origins only.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := parsed.Host
	if host == r.Host {
		return true
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return strings.HasPrefix(host, "[::1]:")
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves h on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("status server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
