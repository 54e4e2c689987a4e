package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"konstruksi-backend/internal/cache"
	"konstruksi-backend/internal/gallery"
	"konstruksi-backend/internal/utils"
)

var (
	ErrNotFound    = errors.New("project not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

const (
	cacheKeyGallerySource  = "projects:gallery-source"
	cacheKeyDetailedSource = "projects:detailed-source"
)

type ImageResolver interface {
	URL(path string) string
	URLs(paths []string) []string
}

type MarkdownRenderer interface {
	Render(source string) (string, error)
}

type Service struct {
	projects ProjectRepository
	gallery  GalleryRepository
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
	images   ImageResolver
	markdown MarkdownRenderer
	now      func() time.Time
}

type ServiceConfig struct {
	Projects ProjectRepository
	Gallery  GalleryRepository
	Cache    cache.Cache
	CacheTTL time.Duration
	Location *time.Location
	Images   ImageResolver
	Markdown MarkdownRenderer
}

func NewService(cfg ServiceConfig) *Service {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNoop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		projects: cfg.Projects,
		gallery:  cfg.Gallery,
		cache:    c,
		cacheTTL: cfg.CacheTTL,
		location: loc,
		images:   cfg.Images,
		markdown: cfg.Markdown,
		now:      time.Now,
	}
}

// GalleryProjects returns the published gallery collection in source order.
func (s *Service) GalleryProjects(ctx context.Context) ([]gallery.GalleryProject, error) {
	var items []gallery.GalleryProject
	if cache.GetJSON(ctx, s.cache, cacheKeyGallerySource, &items) {
		return items, nil
	}

	stored, err := s.gallery.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	items = make([]gallery.GalleryProject, 0, len(stored))
	for _, p := range stored {
		items = append(items, p.source())
	}
	_ = cache.SetJSON(ctx, s.cache, cacheKeyGallerySource, items, s.cacheTTL)
	return items, nil
}

// DetailedProjects returns the published detailed collection in source order.
func (s *Service) DetailedProjects(ctx context.Context) ([]gallery.DetailedProject, error) {
	var items []gallery.DetailedProject
	if cache.GetJSON(ctx, s.cache, cacheKeyDetailedSource, &items) {
		return items, nil
	}

	stored, err := s.projects.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	items = make([]gallery.DetailedProject, 0, len(stored))
	for _, p := range stored {
		items = append(items, p.source())
	}
	_ = cache.SetJSON(ctx, s.cache, cacheKeyDetailedSource, items, s.cacheTTL)
	return items, nil
}

func (s *Service) Loader() *gallery.Loader {
	return gallery.NewLoader(s, s)
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Detail, error) {
	item, err := s.projects.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return Detail{}, err
	}

	detail := Detail{
		Project:       item,
		CoverImageURL: item.CoverImage,
		ImageURLs:     item.Images,
	}
	if s.images != nil {
		detail.CoverImageURL = s.images.URL(item.CoverImage)
		detail.ImageURLs = s.images.URLs(item.Images)
	}
	if detail.ImageURLs == nil {
		detail.ImageURLs = []string{}
	}
	if s.markdown != nil {
		html, err := s.markdown.Render(item.Description)
		if err != nil {
			return Detail{}, err
		}
		detail.DescriptionHTML = html
	}
	return detail, nil
}

func (s *Service) CreateProject(ctx context.Context, req UpsertRequest) (Project, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Project{}, ErrInvalidSlug
	}

	now := s.now().In(s.location)
	item := projectFromRequest(req)
	item.ID = primitive.NewObjectID().Hex()
	item.Slug = slug
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.projects.Create(ctx, item); err != nil {
		return Project{}, err
	}
	s.invalidate(ctx, cacheKeyDetailedSource)
	return item, nil
}

func (s *Service) UpdateProject(ctx context.Context, id string, req UpsertRequest) (Project, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Project{}, ErrInvalidSlug
	}

	item := projectFromRequest(req)
	item.Slug = slug
	item.UpdatedAt = s.now().In(s.location)

	updated, err := s.projects.Update(ctx, strings.TrimSpace(id), item)
	if err != nil {
		return Project{}, err
	}
	s.invalidate(ctx, cacheKeyDetailedSource)
	return updated, nil
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.invalidate(ctx, cacheKeyDetailedSource)
	return nil
}

func (s *Service) ListProjectsAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	items, err := s.projects.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projects.CountAdmin(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) CreateGalleryProject(ctx context.Context, req GalleryUpsertRequest) (GalleryProject, error) {
	now := s.now().In(s.location)
	item := galleryFromRequest(req)
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.gallery.Create(ctx, item); err != nil {
		return GalleryProject{}, err
	}
	s.invalidate(ctx, cacheKeyGallerySource)
	return item, nil
}

func (s *Service) UpdateGalleryProject(ctx context.Context, id string, req GalleryUpsertRequest) (GalleryProject, error) {
	item := galleryFromRequest(req)
	item.UpdatedAt = s.now().In(s.location)

	updated, err := s.gallery.Update(ctx, strings.TrimSpace(id), item)
	if err != nil {
		return GalleryProject{}, err
	}
	s.invalidate(ctx, cacheKeyGallerySource)
	return updated, nil
}

func (s *Service) DeleteGalleryProject(ctx context.Context, id string) error {
	if err := s.gallery.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.invalidate(ctx, cacheKeyGallerySource)
	return nil
}

func (s *Service) ListGalleryAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]GalleryProject, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	items, err := s.gallery.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.gallery.CountAdmin(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	_ = s.cache.Delete(ctx, keys...)
}

func projectFromRequest(req UpsertRequest) Project {
	isPublished := false
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	return Project{
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		ClientName:  strings.TrimSpace(req.ClientName),
		Value:       strings.TrimSpace(req.Value),
		Location:    strings.TrimSpace(req.Location),
		Period:      strings.TrimSpace(req.Period),
		Summary:     strings.TrimSpace(req.Summary),
		Description: strings.TrimSpace(req.Description),
		CoverImage:  strings.TrimSpace(req.CoverImage),
		Images:      trimAll(req.Images),
		IsPublished: isPublished,
		SortOrder:   sortOrder,
	}
}

func galleryFromRequest(req GalleryUpsertRequest) GalleryProject {
	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	return GalleryProject{
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		ClientName:  strings.TrimSpace(req.ClientName),
		Value:       strings.TrimSpace(req.Value),
		Image:       strings.TrimSpace(req.Image),
		StartDate:   strings.TrimSpace(req.StartDate),
		EndDate:     strings.TrimSpace(req.EndDate),
		IsPublished: isPublished,
		SortOrder:   sortOrder,
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeSlug(slug, title string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(title)
	}
	return utils.Slugify(raw)
}
