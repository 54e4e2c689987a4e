package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"konstruksi-backend/internal/auth"
	"konstruksi-backend/internal/httpx"
	"konstruksi-backend/internal/middleware"
	"konstruksi-backend/internal/models"
	"konstruksi-backend/internal/transport"
)

const refreshCookiePath = "/api/v1/admin"

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Status   string `json:"status"`
	Username string `json:"username,omitempty"`
}

type AdminSessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(s.Log, r)
	var req AdminLoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	req.Username, _ = normalizeAdminUserIdentity(req.Username, "")
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	if s.Tokens == nil || (s.Users == nil && s.Cfg.AdminPassword == "") {
		log.Warn("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	subject, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if subject == "" {
		log.Warn("admin login: invalid credentials", slog.String("username", req.Username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	if err := s.issueAdminSession(w, subject); err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	log.Info("admin login: ok", slog.String("username", subject))
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{Status: "ok", Username: subject})
}

// authenticate returns the username the session is issued for, or "" when the
// credentials match neither a stored admin nor the bootstrap account.
func (s *Server) authenticate(ctx context.Context, login, password string) (string, error) {
	if s.Users != nil {
		user, err := s.Users.FindByLogin(ctx, login)
		switch {
		case err == nil:
			if auth.ComparePassword(user.PasswordHash, password) != nil {
				return "", nil
			}
			if auth.NeedsRehash(user.PasswordHash) {
				s.rehash(ctx, user, password)
			}
			return user.Username, nil
		case !errors.Is(err, ErrUserNotFound):
			return "", err
		}
	}

	if s.Cfg.AdminPassword == "" {
		return "", nil
	}
	userOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.Cfg.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Cfg.AdminPassword)) == 1
	if userOK && passOK {
		return s.Cfg.AdminUser, nil
	}
	return "", nil
}

// rehash upgrades a stored hash to the current cost. Failures only get logged;
// the login itself already succeeded.
func (s *Server) rehash(ctx context.Context, user models.User, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.Users.UpdatePassword(ctx, user.ID, hash, s.now())
	}
	if err != nil {
		s.Log.Warn("admin login: rehash failed", slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}
}

func (s *Server) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(s.Log, r)
	if s.Tokens == nil {
		log.Warn("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	refreshCookie, err := r.Cookie(auth.RefreshCookieName)
	if err != nil || refreshCookie.Value == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	claims, err := s.Tokens.ParseKind(refreshCookie.Value, auth.TokenRefresh)
	if err != nil || claims.Role != auth.RoleAdmin {
		log.Warn("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	if err := s.issueAdminSession(w, claims.Subject); err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	log.Info("admin refresh: ok", slog.String("username", claims.Subject))
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{Status: "ok", Username: claims.Subject})
}

func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(s.Log, r)
	clearAuthCookies(w, s.Cfg.CookieSecure)
	log.Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{Status: "ok"})
}

// AdminSession sits behind AdminAuth, so reaching it means the caller holds a
// valid session.
func (s *Server) AdminSession(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, AdminSessionResponse{
		Authenticated: true,
		Username:      middleware.AdminSubjectFromContext(r.Context()),
	})
}

func (s *Server) issueAdminSession(w http.ResponseWriter, subject string) error {
	accessToken, err := s.Tokens.NewAccessToken(subject, auth.RoleAdmin)
	if err != nil {
		return err
	}
	refreshToken, err := s.Tokens.NewRefreshToken(subject, auth.RoleAdmin)
	if err != nil {
		return err
	}
	setAuthCookies(w, accessToken, refreshToken, s.Tokens.AccessTTL, s.Tokens.RefreshTTL, s.Cfg.CookieSecure)
	return nil
}

func setAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookieName,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(accessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshCookieName,
		Value:    refresh,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshTTL.Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter, secure bool) {
	expire := time.Now().Add(-1 * time.Hour)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshCookieName,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
}
