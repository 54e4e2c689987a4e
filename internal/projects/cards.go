package projects

import (
	"konstruksi-backend/internal/gallery"
)

const EmptyMessage = "Belum ada proyek untuk kategori ini."

// BuildPage turns a load result into one page of gallery cards. A failed load
// renders the same empty state as a category without projects. Pages outside
// 1..TotalPages are rejected with gallery.ErrPageOutOfRange when there is at
// least one page.
func BuildPage(result gallery.Result, category string, page int, images ImageResolver) (GalleryPage, error) {
	if category == "" {
		category = gallery.AllCategory
	}

	var records []gallery.Record
	if result.State == gallery.StateReady {
		records = result.Records
	}

	view := gallery.NewView(records)
	view.SetCategory(category)
	if view.TotalPages() > 0 {
		if err := view.GoTo(page); err != nil {
			return GalleryPage{}, err
		}
	}

	items := view.Items()
	cards := make([]Card, 0, len(items))
	for _, r := range items {
		cards = append(cards, cardFor(r, images))
	}

	out := GalleryPage{
		State:      result.State.String(),
		Items:      cards,
		Category:   view.Category(),
		Categories: append([]string{gallery.AllCategory}, gallery.Categories(records)...),
		Page:       view.Page(),
		TotalPages: view.TotalPages(),
		Total:      len(view.Filtered()),
		HasNext:    view.HasNext(),
		HasPrev:    view.HasPrev(),
	}
	if len(cards) == 0 {
		out.EmptyMessage = EmptyMessage
	}
	return out, nil
}

func cardFor(r gallery.Record, images ImageResolver) Card {
	image := r.Image
	if images != nil {
		image = images.URL(r.Image)
	}
	href, clickable := gallery.DetailPath(r)
	return Card{
		ID:          r.ID,
		Variant:     r.Variant,
		Title:       r.Title,
		Category:    r.Category,
		ImageURL:    image,
		Value:       r.Value,
		Client:      r.Client,
		DateDisplay: gallery.FormatDate(r),
		Clickable:   clickable,
		Href:        href,
	}
}
