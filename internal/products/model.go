package products

import "time"

type Specification struct {
	Label string `bson:"label" json:"label" validate:"required,max=80"`
	Value string `bson:"value" json:"value" validate:"required,max=200"`
}

type Product struct {
	ID             string          `bson:"_id,omitempty" json:"id"`
	Slug           string          `bson:"slug" json:"slug"`
	Name           string          `bson:"name" json:"name"`
	Category       string          `bson:"category" json:"category"`
	Summary        string          `bson:"summary" json:"summary"`
	Description    string          `bson:"description" json:"description"`
	Specifications []Specification `bson:"specifications" json:"specifications"`
	Image          string          `bson:"image" json:"image"`
	ImageURL       string          `bson:"-" json:"image_url,omitempty"`
	IsPublished    bool            `bson:"is_published" json:"is_published"`
	SortOrder      int             `bson:"sort_order" json:"sort_order"`
	CreatedAt      time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Slug           string          `json:"slug" validate:"omitempty,slug"`
	Name           string          `json:"name" validate:"required,max=200"`
	Category       string          `json:"category" validate:"required,max=80"`
	Summary        string          `json:"summary" validate:"max=500"`
	Description    string          `json:"description"`
	Specifications []Specification `json:"specifications" validate:"omitempty,max=40,dive"`
	Image          string          `json:"image"`
	IsPublished    *bool           `json:"is_published"`
	SortOrder      *int            `json:"sort_order" validate:"omitempty,gte=0"`
}

type AdminListFilter struct {
	Category string
}
