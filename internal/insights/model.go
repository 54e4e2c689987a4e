package insights

import "time"

type Insight struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Slug        string     `bson:"slug" json:"slug"`
	Title       string     `bson:"title" json:"title"`
	Excerpt     string     `bson:"excerpt" json:"excerpt"`
	Body        string     `bson:"body" json:"body,omitempty"`
	CoverImage  string     `bson:"cover_image" json:"cover_image"`
	Author      string     `bson:"author" json:"author"`
	Tags        []string   `bson:"tags" json:"tags"`
	IsPublished bool       `bson:"is_published" json:"is_published"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Summary is the list form of an insight, without the body.
type Summary struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	CoverImageURL string     `json:"cover_image_url"`
	Author        string     `json:"author"`
	Tags          []string   `json:"tags"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

type Detail struct {
	Insight
	CoverImageURL string `json:"cover_image_url"`
	BodyHTML      string `json:"body_html"`
}

type UpsertRequest struct {
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Title       string   `json:"title" validate:"required,max=200"`
	Excerpt     string   `json:"excerpt" validate:"max=500"`
	Body        string   `json:"body" validate:"required"`
	CoverImage  string   `json:"cover_image"`
	Author      string   `json:"author" validate:"max=120"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,required,max=40"`
	IsPublished *bool    `json:"is_published"`
	PublishedAt string   `json:"published_at" validate:"omitempty,date"`
}

type PublicListFilter struct {
	Tag    string
	Limit  int64
	Offset int64
}
