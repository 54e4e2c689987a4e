package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"konstruksi-backend/internal/auth"
	"konstruksi-backend/internal/config"
	"konstruksi-backend/internal/transport"
	"konstruksi-backend/internal/validation"
)

// Server serves the admin login gate and the liveness probes.
type Server struct {
	Cfg    *config.Config
	Users  UserStore
	Val    *validation.Validator
	Log    *slog.Logger
	Tokens *auth.Manager
	Ping   func(ctx context.Context) error
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports 503 while the primary store is unreachable.
func (s *Server) Readyz(w http.ResponseWriter, r *http.Request) {
	if s.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			s.Log.Warn("readyz: store unavailable", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusServiceUnavailable, "store unavailable", nil)
			return
		}
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) now() time.Time {
	if s.Cfg != nil && s.Cfg.Timezone != nil {
		return time.Now().In(s.Cfg.Timezone)
	}
	return time.Now()
}
