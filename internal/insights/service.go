package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"konstruksi-backend/internal/cache"
	"konstruksi-backend/internal/utils"
)

var (
	ErrNotFound    = errors.New("insight not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

const cacheKeyPublished = "insights:published"

type ImageResolver interface {
	URL(path string) string
}

type MarkdownRenderer interface {
	Render(source string) (string, error)
}

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
	images   ImageResolver
	markdown MarkdownRenderer
	now      func() time.Time
}

func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, location *time.Location, images ImageResolver, md MarkdownRenderer) *Service {
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
		markdown: md,
		now:      time.Now,
	}
}

// ListPublic pages through published insights, newest first, optionally
// keeping only those carrying tag.
func (s *Service) ListPublic(ctx context.Context, filter PublicListFilter) ([]Summary, int64, error) {
	var all []Summary
	if !cache.GetJSON(ctx, s.cache, cacheKeyPublished, &all) {
		stored, err := s.repo.ListPublished(ctx)
		if err != nil {
			return nil, 0, err
		}
		all = make([]Summary, 0, len(stored))
		for _, it := range stored {
			all = append(all, s.summary(it))
		}
		_ = cache.SetJSON(ctx, s.cache, cacheKeyPublished, all, s.cacheTTL)
	}

	tag := strings.ToLower(strings.TrimSpace(filter.Tag))
	matched := all
	if tag != "" {
		matched = make([]Summary, 0, len(all))
		for _, it := range all {
			if hasTag(it.Tags, tag) {
				matched = append(matched, it)
			}
		}
	}

	total := int64(len(matched))
	start := filter.Offset
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return matched[start:end], total, nil
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Detail, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}

	detail := Detail{Insight: item, CoverImageURL: item.CoverImage}
	if s.images != nil {
		detail.CoverImageURL = s.images.URL(item.CoverImage)
	}
	if s.markdown != nil {
		html, err := s.markdown.Render(item.Body)
		if err != nil {
			return Detail{}, fmt.Errorf("render body: %w", err)
		}
		detail.BodyHTML = html
	}
	return detail, nil
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Insight, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Insight{}, ErrInvalidSlug
	}

	now := s.now().In(s.location)
	item := Insight{
		ID:          primitive.NewObjectID().Hex(),
		Slug:        slug,
		Title:       strings.TrimSpace(req.Title),
		Excerpt:     strings.TrimSpace(req.Excerpt),
		Body:        req.Body,
		CoverImage:  strings.TrimSpace(req.CoverImage),
		Author:      strings.TrimSpace(req.Author),
		Tags:        normalizeTags(req.Tags),
		IsPublished: req.IsPublished != nil && *req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	publishedAt, err := s.publishedAt(req.PublishedAt)
	if err != nil {
		return Insight{}, err
	}
	if publishedAt == nil && item.IsPublished {
		publishedAt = &now
	}
	item.PublishedAt = publishedAt

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Insight{}, ErrSlugExists
		}
		return Insight{}, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Insight, error) {
	id = strings.TrimSpace(id)
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Insight{}, ErrInvalidSlug
	}

	now := s.now().In(s.location)
	set := bson.M{
		"slug":         slug,
		"title":        strings.TrimSpace(req.Title),
		"excerpt":      strings.TrimSpace(req.Excerpt),
		"body":         req.Body,
		"cover_image":  strings.TrimSpace(req.CoverImage),
		"author":       strings.TrimSpace(req.Author),
		"tags":         normalizeTags(req.Tags),
		"is_published": req.IsPublished != nil && *req.IsPublished,
		"updated_at":   now,
	}
	publishedAt, err := s.publishedAt(req.PublishedAt)
	if err != nil {
		return Insight{}, err
	}
	if publishedAt != nil {
		set["published_at"] = *publishedAt
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return Insight{}, mapWriteError(err)
	}
	// First publication without an explicit date is stamped now.
	if updated.IsPublished && updated.PublishedAt == nil {
		updated, err = s.repo.Update(ctx, id, bson.M{"published_at": now})
		if err != nil {
			return Insight{}, mapWriteError(err)
		}
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

func (s *Service) ListAdmin(ctx context.Context, limit, offset int64) ([]Insight, int64, error) {
	items, err := s.repo.ListAdmin(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAdmin(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) publishedAt(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, s.location)
	if err != nil {
		return nil, fmt.Errorf("parse published_at: %w", err)
	}
	return &t, nil
}

func (s *Service) summary(it Insight) Summary {
	cover := it.CoverImage
	if s.images != nil {
		cover = s.images.URL(it.CoverImage)
	}
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}
	return Summary{
		ID:            it.ID,
		Slug:          it.Slug,
		Title:         it.Title,
		Excerpt:       it.Excerpt,
		CoverImageURL: cover,
		Author:        it.Author,
		Tags:          tags,
		PublishedAt:   it.PublishedAt,
	}
}

func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cacheKeyPublished)
}

func mapWriteError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlugExists
	}
	return err
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping first-seen
// order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
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
