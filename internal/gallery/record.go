// Package gallery merges the two project collections shown on the projects
// page into one list and provides the filtering, paging, date display and
// navigation rules the page applies to it.
package gallery

// Variant tags a Record with the collection it was read from.
type Variant string

const (
	VariantGallery  Variant = "gallery"
	VariantDetailed Variant = "detailed"
)

const (
	// AllCategory is the filter value that disables category filtering.
	AllCategory = "semua"

	PageSize = 9
)

// GalleryProject is a showcase entry without a detail page.
type GalleryProject struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Image     string `json:"image,omitempty"`
	Value     string `json:"value,omitempty"`
	Client    string `json:"client,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// DetailedProject is a project with its own page under /projects/{slug}.
type DetailedProject struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
	Value    string `json:"value,omitempty"`
	Client   string `json:"client,omitempty"`
	Period   string `json:"period,omitempty"`
	Slug     string `json:"slug"`
}

type GalleryFields struct {
	StartDate string
	EndDate   string
}

type DetailedFields struct {
	Period string
	Slug   string
}

// Record is the normalized display shape. Exactly one of Gallery and Detailed
// is set, matching Variant.
type Record struct {
	ID       string
	Variant  Variant
	Title    string
	Category string
	Image    string
	Value    string
	Client   string

	Gallery  *GalleryFields
	Detailed *DetailedFields
}

func FromGallery(p GalleryProject) Record {
	return Record{
		ID:       p.ID,
		Variant:  VariantGallery,
		Title:    p.Title,
		Category: p.Category,
		Image:    p.Image,
		Value:    p.Value,
		Client:   p.Client,
		Gallery: &GalleryFields{
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
		},
	}
}

func FromDetailed(p DetailedProject) Record {
	return Record{
		ID:       p.ID,
		Variant:  VariantDetailed,
		Title:    p.Title,
		Category: p.Category,
		Image:    p.Image,
		Value:    p.Value,
		Client:   p.Client,
		Detailed: &DetailedFields{
			Period: p.Period,
			Slug:   p.Slug,
		},
	}
}

// Slug returns the routable slug of a detailed record and "" otherwise.
func (r Record) Slug() string {
	if r.Variant != VariantDetailed || r.Detailed == nil {
		return ""
	}
	return r.Detailed.Slug
}
