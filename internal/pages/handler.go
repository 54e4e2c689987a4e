package pages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"konstruksi-backend/internal/httpx"
	"konstruksi-backend/internal/middleware"
	"konstruksi-backend/internal/transport"
	"konstruksi-backend/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	key := chi.URLParam(r, "key")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, err := h.service.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidKey), errors.Is(err, ErrNotFound):
			log.Warn("pages public get: not found", slog.String("key", key))
			transport.WriteError(w, http.StatusNotFound, "page not found", nil)
		default:
			log.Error("pages public get: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("pages public get: ok", slog.String("key", page.Key))
	transport.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("admin pages list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin pages list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) AdminUpsert(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	key := chi.URLParam(r, "key")

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin pages upsert: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin pages upsert: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	page, err := h.service.Upsert(ctx, key, req, middleware.AdminSubjectFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrInvalidKey) {
			log.Warn("admin pages upsert: invalid key", slog.String("key", key))
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"key": "invalid"})
			return
		}
		log.Error("admin pages upsert: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin pages upsert: ok", slog.String("key", page.Key))
	transport.WriteJSON(w, http.StatusOK, page)
}
