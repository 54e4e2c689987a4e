package projects

import (
	"time"

	"konstruksi-backend/internal/gallery"
)

// Project is a completed or running project with its own detail page.
type Project struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Slug        string    `bson:"slug" json:"slug"`
	Title       string    `bson:"title" json:"title"`
	Category    string    `bson:"category" json:"category"`
	ClientName  string    `bson:"client_name" json:"client_name"`
	Value       string    `bson:"value" json:"value"`
	Location    string    `bson:"location" json:"location"`
	Period      string    `bson:"period" json:"period"`
	Summary     string    `bson:"summary" json:"summary"`
	Description string    `bson:"description" json:"description"`
	CoverImage  string    `bson:"cover_image" json:"cover_image"`
	Images      []string  `bson:"images" json:"images"`
	IsPublished bool      `bson:"is_published" json:"is_published"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// GalleryProject is a showcase-only entry: a photo with dates and no page.
type GalleryProject struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Category    string    `bson:"category" json:"category"`
	ClientName  string    `bson:"client_name" json:"client_name"`
	Value       string    `bson:"value" json:"value"`
	Image       string    `bson:"image" json:"image"`
	StartDate   string    `bson:"start_date" json:"start_date"`
	EndDate     string    `bson:"end_date" json:"end_date"`
	IsPublished bool      `bson:"is_published" json:"is_published"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (p Project) source() gallery.DetailedProject {
	return gallery.DetailedProject{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Image:    p.CoverImage,
		Value:    p.Value,
		Client:   p.ClientName,
		Period:   p.Period,
		Slug:     p.Slug,
	}
}

func (p GalleryProject) source() gallery.GalleryProject {
	return gallery.GalleryProject{
		ID:        p.ID,
		Title:     p.Title,
		Category:  p.Category,
		Image:     p.Image,
		Value:     p.Value,
		Client:    p.ClientName,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}
}

type UpsertRequest struct {
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Title       string   `json:"title" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=80"`
	ClientName  string   `json:"client_name" validate:"max=200"`
	Value       string   `json:"value" validate:"max=80"`
	Location    string   `json:"location" validate:"max=200"`
	Period      string   `json:"period" validate:"max=80"`
	Summary     string   `json:"summary" validate:"max=500"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	Images      []string `json:"images" validate:"omitempty,max=30,dive,required"`
	IsPublished *bool    `json:"is_published"`
	SortOrder   *int     `json:"sort_order" validate:"omitempty,gte=0"`
}

type GalleryUpsertRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=80"`
	ClientName  string `json:"client_name" validate:"max=200"`
	Value       string `json:"value" validate:"max=80"`
	Image       string `json:"image"`
	StartDate   string `json:"start_date" validate:"omitempty,date"`
	EndDate     string `json:"end_date" validate:"omitempty,date"`
	IsPublished *bool  `json:"is_published"`
	SortOrder   *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

type AdminListFilter struct {
	Category string
}

// Card is one tile of the public projects gallery.
type Card struct {
	ID          string          `json:"id"`
	Variant     gallery.Variant `json:"variant"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Value       string          `json:"value,omitempty"`
	Client      string          `json:"client,omitempty"`
	DateDisplay string          `json:"date_display"`
	Clickable   bool            `json:"clickable"`
	Href        string          `json:"href,omitempty"`
}

type GalleryPage struct {
	State        string   `json:"state"`
	Items        []Card   `json:"items"`
	Category     string   `json:"category"`
	Categories   []string `json:"categories"`
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	Total        int      `json:"total"`
	HasNext      bool     `json:"has_next"`
	HasPrev      bool     `json:"has_prev"`
	EmptyMessage string   `json:"empty_message,omitempty"`
}

// Detail is the public shape of a project page.
type Detail struct {
	Project
	CoverImageURL   string   `json:"cover_image_url"`
	ImageURLs       []string `json:"image_urls"`
	DescriptionHTML string   `json:"description_html"`
}
