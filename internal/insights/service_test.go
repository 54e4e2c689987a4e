package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"konstruksi-backend/internal/cache"
	"konstruksi-backend/internal/markdown"
	"konstruksi-backend/internal/media"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, item Insight) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, id string, set bson.M) (Insight, error) {
	args := m.Called(ctx, id, set)
	return args.Get(0).(Insight), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) ListPublished(ctx context.Context) ([]Insight, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]Insight)
	return items, args.Error(1)
}

func (m *mockRepo) GetPublishedBySlug(ctx context.Context, slug string) (Insight, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(Insight), args.Error(1)
}

func (m *mockRepo) ListAdmin(ctx context.Context, limit, offset int64) ([]Insight, error) {
	args := m.Called(ctx, limit, offset)
	items, _ := args.Get(0).([]Insight)
	return items, args.Error(1)
}

func (m *mockRepo) CountAdmin(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var fixedNow = time.Date(2024, 8, 17, 10, 0, 0, 0, time.UTC)

func newService(repo Repository) *Service {
	svc := NewService(repo, cache.NewNoop(), time.Minute, time.UTC, media.NewResolver("/images", "/images/placeholder.jpg"), markdown.New())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestListPublicFiltersByTagAndPages(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListPublished", mock.Anything).Return([]Insight{
		{ID: "1", Slug: "a", Tags: []string{"beton"}},
		{ID: "2", Slug: "b", Tags: []string{"baja"}},
		{ID: "3", Slug: "c", Tags: []string{"beton", "baja"}},
		{ID: "4", Slug: "d", Tags: []string{"beton"}},
	}, nil)
	svc := newService(repo)

	items, total, err := svc.ListPublic(context.Background(), PublicListFilter{Tag: " Beton ", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "3", items[0].ID)
	assert.Equal(t, "4", items[1].ID)

	items, total, err = svc.ListPublic(context.Background(), PublicListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Empty(t, items)
}

func TestGetPublishedBySlugRendersBody(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetPublishedBySlug", mock.Anything, "tips-beton").Return(Insight{
		Slug: "tips-beton",
		Body: "# Tips\n\nGunakan *air bersih*.\n\n<script>alert(1)</script>",
	}, nil)
	repo.On("GetPublishedBySlug", mock.Anything, "hilang").Return(Insight{}, mongo.ErrNoDocuments)
	svc := newService(repo)

	detail, err := svc.GetPublishedBySlug(context.Background(), "tips-beton")
	require.NoError(t, err)
	assert.Contains(t, detail.BodyHTML, "<h1")
	assert.Contains(t, detail.BodyHTML, "<em>air bersih</em>")
	assert.NotContains(t, detail.BodyHTML, "<script>")
	assert.Equal(t, "/images/placeholder.jpg", detail.CoverImageURL)

	_, err = svc.GetPublishedBySlug(context.Background(), "hilang")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateStampsPublishedAt(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(it Insight) bool {
		return it.PublishedAt != nil && it.PublishedAt.Equal(fixedNow)
	})).Return(nil)
	svc := newService(repo)

	published := true
	item, err := svc.Create(context.Background(), UpsertRequest{
		Title:       "Memilih Semen",
		Body:        "isi",
		Tags:        []string{"Semen", "semen ", ""},
		IsPublished: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, "memilih-semen", item.Slug)
	assert.Equal(t, []string{"semen"}, item.Tags)
	repo.AssertExpectations(t)
}

func TestUpdateStampsFirstPublication(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Update", mock.Anything, "i1", mock.MatchedBy(func(set bson.M) bool {
		_, hasDate := set["published_at"]
		return !hasDate && set["is_published"] == true
	})).Return(Insight{ID: "i1", IsPublished: true}, nil).Once()
	stamped := fixedNow
	repo.On("Update", mock.Anything, "i1", bson.M{"published_at": fixedNow}).
		Return(Insight{ID: "i1", IsPublished: true, PublishedAt: &stamped}, nil).Once()
	svc := newService(repo)

	published := true
	item, err := svc.Update(context.Background(), "i1", UpsertRequest{Title: "Judul", Body: "isi", IsPublished: &published})
	require.NoError(t, err)
	require.NotNil(t, item.PublishedAt)
	repo.AssertExpectations(t)
}

func TestUpdateNotFound(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Update", mock.Anything, "i1", mock.Anything).Return(Insight{}, mongo.ErrNoDocuments)
	svc := newService(repo)

	_, err := svc.Update(context.Background(), "i1", UpsertRequest{Title: "Judul", Body: "isi"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsBadPublishedAt(t *testing.T) {
	svc := newService(&mockRepo{})
	_, err := svc.Create(context.Background(), UpsertRequest{Title: "Judul", Body: "isi", PublishedAt: "17-08-2024"})
	require.Error(t, err)
}
