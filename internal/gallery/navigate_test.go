package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchNavigatesDetailedOnly(t *testing.T) {
	var visited []string
	d := NewDispatcher(NavigatorFunc(func(path string) { visited = append(visited, path) }))

	assert.True(t, d.Dispatch(FromDetailed(DetailedProject{ID: "d", Slug: "jalan-tol-cipali"})))
	assert.False(t, d.Dispatch(FromGallery(GalleryProject{ID: "g"})))
	assert.False(t, d.Dispatch(FromDetailed(DetailedProject{ID: "d2"})))

	assert.Equal(t, []string{"/projects/jalan-tol-cipali"}, visited)
}

func TestClickable(t *testing.T) {
	assert.True(t, Clickable(FromDetailed(DetailedProject{Slug: "x"})))
	assert.False(t, Clickable(FromGallery(GalleryProject{})))

	// A gallery record never exposes a slug even if one is forced into it.
	r := FromGallery(GalleryProject{})
	r.Detailed = &DetailedFields{Slug: "leak"}
	assert.False(t, Clickable(r))
}

func TestDetailPathEscapes(t *testing.T) {
	path, ok := DetailPath(FromDetailed(DetailedProject{Slug: "a b"}))
	assert.True(t, ok)
	assert.Equal(t, "/projects/a%20b", path)

	_, ok = DetailPath(FromGallery(GalleryProject{}))
	assert.False(t, ok)
}

func TestDispatchWithoutNavigator(t *testing.T) {
	assert.False(t, NewDispatcher(nil).Dispatch(FromDetailed(DetailedProject{Slug: "x"})))
}
