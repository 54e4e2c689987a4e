package projects

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"konstruksi-backend/internal/gallery"
	"konstruksi-backend/internal/markdown"
	"konstruksi-backend/internal/media"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func newTestService(projects *mockProjectRepo, galleryRepo *mockGalleryRepo) *Service {
	svc := NewService(ServiceConfig{
		Projects: projects,
		Gallery:  galleryRepo,
		Cache:    newMemoryCache(),
		CacheTTL: time.Minute,
		Images:   media.NewResolver("https://cdn.example.co.id/img", "/images/placeholder.jpg"),
		Markdown: markdown.New(),
	})
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateProjectDerivesSlugFromTitle(t *testing.T) {
	repo := &mockProjectRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p Project) bool {
		return p.Slug == "gudang-semen-cikarang" && p.ID != "" && !p.CreatedAt.IsZero()
	})).Return(nil)
	svc := newTestService(repo, &mockGalleryRepo{})

	item, err := svc.CreateProject(context.Background(), UpsertRequest{
		Title:    "  Gudang Semen Cikarang ",
		Category: "Gudang",
		Images:   []string{" a.jpg ", "", "b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gudang Semen Cikarang", item.Title)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, item.Images)
	assert.False(t, item.IsPublished)
	repo.AssertExpectations(t)
}

func TestCreateProjectDuplicateSlug(t *testing.T) {
	repo := &mockProjectRepo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrSlugExists)
	svc := newTestService(repo, &mockGalleryRepo{})

	_, err := svc.CreateProject(context.Background(), UpsertRequest{Title: "Jembatan", Category: "Infrastruktur"})
	require.ErrorIs(t, err, ErrSlugExists)
}

func TestCreateProjectInvalidSlug(t *testing.T) {
	repo := &mockProjectRepo{}
	svc := newTestService(repo, &mockGalleryRepo{})

	_, err := svc.CreateProject(context.Background(), UpsertRequest{Title: "!!!", Category: "Gudang"})
	require.ErrorIs(t, err, ErrInvalidSlug)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProjectNotFound(t *testing.T) {
	repo := &mockProjectRepo{}
	repo.On("Update", mock.Anything, "abc", mock.Anything).Return(Project{}, ErrNotFound)
	svc := newTestService(repo, &mockGalleryRepo{})

	_, err := svc.UpdateProject(context.Background(), " abc ", UpsertRequest{Title: "Ruko", Category: "Komersial"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDetailedSourceIsCachedUntilWrite(t *testing.T) {
	repo := &mockProjectRepo{}
	repo.On("ListPublished", mock.Anything).Return([]Project{
		{ID: "p1", Slug: "pabrik-baja", Title: "Pabrik Baja", Category: "Industri", CoverImage: "pabrik.jpg", Period: "2021 - 2022"},
	}, nil)
	repo.On("Delete", mock.Anything, "p1").Return(nil)
	svc := newTestService(repo, &mockGalleryRepo{})
	ctx := context.Background()

	first, err := svc.DetailedProjects(ctx)
	require.NoError(t, err)
	second, err := svc.DetailedProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "ListPublished", 1)

	require.NoError(t, svc.DeleteProject(ctx, "p1"))
	_, err = svc.DetailedProjects(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListPublished", 2)

	assert.Equal(t, gallery.DetailedProject{
		ID: "p1", Title: "Pabrik Baja", Category: "Industri", Image: "pabrik.jpg", Period: "2021 - 2022", Slug: "pabrik-baja",
	}, first[0])
}

func TestGallerySourceErrorIsNotCached(t *testing.T) {
	galleryRepo := &mockGalleryRepo{}
	galleryRepo.On("ListPublished", mock.Anything).Return(nil, errors.New("timeout")).Once()
	galleryRepo.On("ListPublished", mock.Anything).Return([]GalleryProject{{ID: "g1", Title: "Gudang"}}, nil).Once()
	svc := newTestService(&mockProjectRepo{}, galleryRepo)

	_, err := svc.GalleryProjects(context.Background())
	require.Error(t, err)

	items, err := svc.GalleryProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "g1", items[0].ID)
}

func TestCreateGalleryProjectDefaultsToPublished(t *testing.T) {
	galleryRepo := &mockGalleryRepo{}
	galleryRepo.On("Create", mock.Anything, mock.MatchedBy(func(g GalleryProject) bool {
		return g.IsPublished && g.StartDate == "2023-01-15"
	})).Return(nil)
	svc := newTestService(&mockProjectRepo{}, galleryRepo)

	item, err := svc.CreateGalleryProject(context.Background(), GalleryUpsertRequest{
		Title:     "Renovasi Gudang",
		Category:  "Gudang",
		StartDate: "2023-01-15",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	galleryRepo.AssertExpectations(t)
}

func TestGetPublishedBySlugBuildsDetail(t *testing.T) {
	repo := &mockProjectRepo{}
	repo.On("GetPublishedBySlug", mock.Anything, "pabrik-baja").Return(Project{
		ID:          "p1",
		Slug:        "pabrik-baja",
		Title:       "Pabrik Baja",
		Description: "Pekerjaan **struktur** baja.",
		Images:      []string{"proyek/pabrik 1.jpg"},
	}, nil)
	svc := newTestService(repo, &mockGalleryRepo{})

	detail, err := svc.GetPublishedBySlug(context.Background(), " pabrik-baja ")
	require.NoError(t, err)
	assert.Equal(t, "/images/placeholder.jpg", detail.CoverImageURL)
	assert.Equal(t, []string{"https://cdn.example.co.id/img/proyek/pabrik%201.jpg"}, detail.ImageURLs)
	assert.Contains(t, detail.DescriptionHTML, "<strong>struktur</strong>")
}

func TestGetPublishedBySlugNotFound(t *testing.T) {
	repo := &mockProjectRepo{}
	repo.On("GetPublishedBySlug", mock.Anything, "hilang").Return(Project{}, ErrNotFound)
	svc := newTestService(repo, &mockGalleryRepo{})

	_, err := svc.GetPublishedBySlug(context.Background(), "hilang")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProjectsAdmin(t *testing.T) {
	repo := &mockProjectRepo{}
	filter := AdminListFilter{Category: "Gudang"}
	repo.On("ListAdmin", mock.Anything, filter, int64(20), int64(0)).Return([]Project{{ID: "p1"}}, nil)
	repo.On("CountAdmin", mock.Anything, filter).Return(int64(7), nil)
	svc := newTestService(repo, &mockGalleryRepo{})

	items, total, err := svc.ListProjectsAdmin(context.Background(), AdminListFilter{Category: " Gudang "}, 20, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(7), total)
}
