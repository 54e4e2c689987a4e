package pages

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"konstruksi-backend/internal/cache"
)

var (
	ErrNotFound   = errors.New("page not found")
	ErrInvalidKey = errors.New("invalid page key")
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,39}$`)

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

func cacheKey(key string) string {
	return "pages:" + key
}

func normalizeKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !keyPattern.MatchString(key) {
		return "", ErrInvalidKey
	}
	return key, nil
}

// Get returns the public form of a page, with section image URLs resolved.
func (s *Service) Get(ctx context.Context, key string) (Page, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Page{}, err
	}

	var page Page
	if cache.GetJSON(ctx, s.cache, cacheKey(key), &page) {
		return page, nil
	}

	page, err = s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	page = s.resolve(page)
	_ = cache.SetJSON(ctx, s.cache, cacheKey(key), page, s.cacheTTL)
	return page, nil
}

func (s *Service) Upsert(ctx context.Context, key string, req UpsertRequest, editor string) (Page, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Page{}, err
	}

	sections := make([]Section, 0, len(req.Sections))
	for _, sec := range req.Sections {
		sections = append(sections, Section{
			Heading: strings.TrimSpace(sec.Heading),
			Body:    strings.TrimSpace(sec.Body),
			Image:   strings.TrimSpace(sec.Image),
		})
	}
	page := Page{
		Key:       key,
		Title:     strings.TrimSpace(req.Title),
		Subtitle:  strings.TrimSpace(req.Subtitle),
		Sections:  sections,
		UpdatedAt: s.now().In(s.location),
		UpdatedBy: editor,
	}

	stored, err := s.repo.Upsert(ctx, page)
	if err != nil {
		return Page{}, err
	}
	_ = s.cache.Delete(ctx, cacheKey(key))
	return stored, nil
}

func (s *Service) List(ctx context.Context) ([]Page, error) {
	return s.repo.List(ctx)
}

func (s *Service) resolve(page Page) Page {
	if s.images == nil {
		return page
	}
	sections := make([]Section, len(page.Sections))
	for i, sec := range page.Sections {
		if sec.Image != "" {
			sec.ImageURL = s.images.URL(sec.Image)
		}
		sections[i] = sec
	}
	page.Sections = sections
	return page
}
