package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"konstruksi-backend/internal/auth"
	"konstruksi-backend/internal/httpx"
	"konstruksi-backend/internal/middleware"
	"konstruksi-backend/internal/models"
	"konstruksi-backend/internal/transport"
)

type AdminUserCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type AdminRegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	SetupKey string `json:"setup_key" validate:"required"`
}

type AdminUserPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (s *Server) AdminRegister(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(s.Log, r)
	var req AdminRegisterRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin register: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	req.Username, req.Email = normalizeAdminUserIdentity(req.Username, req.Email)
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin register: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}
	if s.Users == nil {
		log.Warn("admin register: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin users not configured", nil)
		return
	}
	if s.Cfg.AdminSetupKey == "" {
		log.Warn("admin register: setup key missing")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin registration not configured", nil)
		return
	}
	if s.Tokens == nil {
		log.Warn("admin register: jwt secret missing")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.SetupKey), []byte(s.Cfg.AdminSetupKey)) != 1 {
		log.Warn("admin register: invalid setup key", slog.String("username", req.Username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid setup key", nil)
		return
	}

	user, ok := s.createUser(w, r, log, "admin register", req.Username, req.Email, req.Password)
	if !ok {
		return
	}

	if err := s.issueAdminSession(w, user.Username); err != nil {
		log.Error("admin register: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, AdminLoginResponse{Status: "ok", Username: user.Username})
}

func (s *Server) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(s.Log, r)
	var req AdminUserCreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin users create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	req.Username, req.Email = normalizeAdminUserIdentity(req.Username, req.Email)
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin users create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}
	if s.Users == nil {
		log.Warn("admin users create: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin users not configured", nil)
		return
	}

	user, ok := s.createUser(w, r, log, "admin users create", req.Username, req.Email, req.Password)
	if !ok {
		return
	}
	transport.WriteJSON(w, http.StatusCreated, user)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request, log *slog.Logger, op, username, email, password string) (models.User, bool) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		log.Warn(op + ": password too long")
		transport.WriteError(w, http.StatusBadRequest, "password too long", nil)
		return models.User{}, false
	}
	if err != nil {
		log.Error(op+": hash error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "password error", nil)
		return models.User{}, false
	}

	now := s.now()
	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			log.Warn(op+": duplicate", slog.String("username", username))
			transport.WriteError(w, http.StatusConflict, "username or email already exists", nil)
			return models.User{}, false
		}
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return models.User{}, false
	}

	log.Info(op+": ok", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, true
}

func (s *Server) AdminUpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(s.Log, r)
	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("admin users password: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req AdminUserPasswordRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin users password: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin users password: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}
	if s.Users == nil {
		log.Warn("admin users password: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin users not configured", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		log.Warn("admin users password: password too long")
		transport.WriteError(w, http.StatusBadRequest, "password too long", nil)
		return
	}
	if err != nil {
		log.Error("admin users password: hash error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "password error", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.Users.UpdatePassword(ctx, id, hash, s.now()); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn("admin users password: not found", slog.String("user_id", id))
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("admin users password: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin users password: ok", slog.String("user_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// normalizeAdminUserIdentity trims both values and lowercases e-mail style
// logins, so "Admin@Example.co.id" and "admin@example.co.id" are one account.
func normalizeAdminUserIdentity(username, email string) (string, string) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if strings.Contains(username, "@") {
		username = strings.ToLower(username)
	}
	email = strings.ToLower(email)
	return username, email
}
