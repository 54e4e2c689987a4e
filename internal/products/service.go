package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"konstruksi-backend/internal/cache"
	"konstruksi-backend/internal/utils"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

const cacheKeyPublished = "products:published"

type ImageResolver interface {
	URL(path string) string
}

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
	images   ImageResolver
	now      func() time.Time
}

func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, location *time.Location, images ImageResolver) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		location: location,
		images:   images,
		now:      time.Now,
	}
}

// ListPublic returns published products, optionally restricted to one
// category. The full published list is cached; filtering happens after.
func (s *Service) ListPublic(ctx context.Context, category string) ([]Product, bool, error) {
	var items []Product
	hit := cache.GetJSON(ctx, s.cache, cacheKeyPublished, &items)
	if !hit {
		stored, err := s.repo.ListPublished(ctx)
		if err != nil {
			return nil, false, err
		}
		items = make([]Product, 0, len(stored))
		for _, p := range stored {
			items = append(items, s.withImage(p))
		}
		_ = cache.SetJSON(ctx, s.cache, cacheKeyPublished, items, s.cacheTTL)
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return items, hit, nil
	}
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, hit, nil
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Product, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return s.withImage(item), nil
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Product, error) {
	slug := normalizeSlug(req.Slug, req.Name)
	if slug == "" {
		return Product{}, ErrInvalidSlug
	}

	isPublished, sortOrder := flags(req)
	now := s.now().In(s.location)
	item := Product{
		ID:             primitive.NewObjectID().Hex(),
		Slug:           slug,
		Name:           strings.TrimSpace(req.Name),
		Category:       strings.TrimSpace(req.Category),
		Summary:        strings.TrimSpace(req.Summary),
		Description:    strings.TrimSpace(req.Description),
		Specifications: cleanSpecs(req.Specifications),
		Image:          strings.TrimSpace(req.Image),
		IsPublished:    isPublished,
		SortOrder:      sortOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Product{}, ErrSlugExists
		}
		return Product{}, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Product, error) {
	slug := normalizeSlug(req.Slug, req.Name)
	if slug == "" {
		return Product{}, ErrInvalidSlug
	}

	isPublished, sortOrder := flags(req)
	set := bson.M{
		"slug":           slug,
		"name":           strings.TrimSpace(req.Name),
		"category":       strings.TrimSpace(req.Category),
		"summary":        strings.TrimSpace(req.Summary),
		"description":    strings.TrimSpace(req.Description),
		"specifications": cleanSpecs(req.Specifications),
		"image":          strings.TrimSpace(req.Image),
		"is_published":   isPublished,
		"sort_order":     sortOrder,
		"updated_at":     s.now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Product{}, ErrSlugExists
		}
		return Product{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Product, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	items, err := s.repo.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAdmin(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cacheKeyPublished)
}

func (s *Service) withImage(p Product) Product {
	if s.images != nil {
		p.ImageURL = s.images.URL(p.Image)
	}
	return p
}

func flags(req UpsertRequest) (bool, int) {
	isPublished := false
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	return isPublished, sortOrder
}

func cleanSpecs(specs []Specification) []Specification {
	out := make([]Specification, 0, len(specs))
	for _, sp := range specs {
		label := strings.TrimSpace(sp.Label)
		value := strings.TrimSpace(sp.Value)
		if label == "" || value == "" {
			continue
		}
		out = append(out, Specification{Label: label, Value: value})
	}
	return out
}

func normalizeSlug(slug, name string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(name)
	}
	return utils.Slugify(raw)
}
