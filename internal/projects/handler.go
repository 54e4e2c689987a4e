package projects

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"konstruksi-backend/internal/gallery"
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

// PublicGallery serves one page of the merged project gallery. A failed
// source load is logged and rendered as the empty state.
func (h *Handler) PublicGallery(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	page, err := httpx.ParsePage(r.URL.Query())
	if err != nil {
		log.Warn("projects gallery: invalid page", slog.String("page", r.URL.Query().Get("page")))
		transport.WriteError(w, http.StatusBadRequest, "invalid page", nil)
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	session := gallery.NewSession(h.service.Loader())
	done := session.Start(ctx)
	select {
	case <-done:
	case <-r.Context().Done():
		session.Close()
		log.Info("projects gallery: client gone")
		return
	}

	result := session.Result()
	if result.State == gallery.StateFailed {
		log.Error("projects gallery: sources failed", slog.String("error", result.Err.Error()))
	}

	out, err := BuildPage(result, category, page, h.service.images)
	if err != nil {
		if errors.Is(err, gallery.ErrPageOutOfRange) {
			log.Warn("projects gallery: page out of range", slog.Int("page", page))
			transport.WriteError(w, http.StatusBadRequest, "page out of range", nil)
			return
		}
		log.Error("projects gallery: build error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	log.Info("projects gallery: ok",
		slog.String("category", out.Category),
		slog.Int("page", out.Page),
		slog.Int("count", len(out.Items)),
	)
	transport.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		log.Warn("projects public get: missing slug")
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("projects public get: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		log.Error("projects public get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("projects public get: ok", slog.String("slug", slug))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin projects list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	filter := AdminListFilter{Category: r.URL.Query().Get("category")}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListProjectsAdmin(ctx, filter, limit, offset)
	if err != nil {
		log.Error("admin projects list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin projects list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, transport.ListResponse[Project]{
		Items:  items,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req UpsertRequest
	if !h.decode(w, r, log, "admin projects create", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.CreateProject(ctx, req)
	if err != nil {
		h.writeServiceError(w, log, "admin projects create", err)
		return
	}

	log.Info("admin projects create: ok", slog.String("project_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id, ok := h.pathID(w, r, log, "admin projects update")
	if !ok {
		return
	}

	var req UpsertRequest
	if !h.decode(w, r, log, "admin projects update", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.UpdateProject(ctx, id, req)
	if err != nil {
		h.writeServiceError(w, log.With(slog.String("project_id", id)), "admin projects update", err)
		return
	}

	log.Info("admin projects update: ok", slog.String("project_id", id), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id, ok := h.pathID(w, r, log, "admin projects delete")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.DeleteProject(ctx, id); err != nil {
		h.writeServiceError(w, log.With(slog.String("project_id", id)), "admin projects delete", err)
		return
	}

	log.Info("admin projects delete: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminGalleryList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin gallery projects list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	filter := AdminListFilter{Category: r.URL.Query().Get("category")}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListGalleryAdmin(ctx, filter, limit, offset)
	if err != nil {
		log.Error("admin gallery projects list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin gallery projects list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, transport.ListResponse[GalleryProject]{
		Items:  items,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

func (h *Handler) AdminGalleryCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req GalleryUpsertRequest
	if !h.decode(w, r, log, "admin gallery projects create", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.CreateGalleryProject(ctx, req)
	if err != nil {
		h.writeServiceError(w, log, "admin gallery projects create", err)
		return
	}

	log.Info("admin gallery projects create: ok", slog.String("gallery_project_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminGalleryUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id, ok := h.pathID(w, r, log, "admin gallery projects update")
	if !ok {
		return
	}

	var req GalleryUpsertRequest
	if !h.decode(w, r, log, "admin gallery projects update", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.UpdateGalleryProject(ctx, id, req)
	if err != nil {
		h.writeServiceError(w, log.With(slog.String("gallery_project_id", id)), "admin gallery projects update", err)
		return
	}

	log.Info("admin gallery projects update: ok", slog.String("gallery_project_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminGalleryDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id, ok := h.pathID(w, r, log, "admin gallery projects delete")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.DeleteGalleryProject(ctx, id); err != nil {
		h.writeServiceError(w, log.With(slog.String("gallery_project_id", id)), "admin gallery projects delete", err)
		return
	}

	log.Info("admin gallery projects delete: ok", slog.String("gallery_project_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn(op + ": missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return "", false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, dst interface{}) bool {
	if err := httpx.DecodeJSON(r.Body, dst); err != nil {
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "project not found", nil)
	case errors.Is(err, ErrSlugExists):
		log.Warn(op + ": slug exists")
		transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
	case errors.Is(err, ErrInvalidSlug):
		log.Warn(op + ": invalid slug")
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"slug": "invalid"})
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}
