package projects

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Create(ctx context.Context, item Project) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockProjectRepo) Update(ctx context.Context, id string, item Project) (Project, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(Project), args.Error(1)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProjectRepo) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(Project), args.Error(1)
}

func (m *mockProjectRepo) ListPublished(ctx context.Context) ([]Project, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]Project)
	return items, args.Error(1)
}

func (m *mockProjectRepo) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, error) {
	args := m.Called(ctx, filter, limit, offset)
	items, _ := args.Get(0).([]Project)
	return items, args.Error(1)
}

func (m *mockProjectRepo) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockGalleryRepo struct {
	mock.Mock
}

func (m *mockGalleryRepo) Create(ctx context.Context, item GalleryProject) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockGalleryRepo) Update(ctx context.Context, id string, item GalleryProject) (GalleryProject, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(GalleryProject), args.Error(1)
}

func (m *mockGalleryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGalleryRepo) ListPublished(ctx context.Context) ([]GalleryProject, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]GalleryProject)
	return items, args.Error(1)
}

func (m *mockGalleryRepo) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]GalleryProject, error) {
	args := m.Called(ctx, filter, limit, offset)
	items, _ := args.Get(0).([]GalleryProject)
	return items, args.Error(1)
}

func (m *mockGalleryRepo) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
