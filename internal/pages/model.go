package pages

import "time"

type Section struct {
	Heading  string `bson:"heading" json:"heading" validate:"max=200"`
	Body     string `bson:"body" json:"body"`
	Image    string `bson:"image" json:"image"`
	ImageURL string `bson:"-" json:"image_url,omitempty"`
}

// Page is an editable content block of the site, such as the homepage hero or
// the about page, addressed by a fixed key.
type Page struct {
	Key       string    `bson:"_id" json:"key"`
	Title     string    `bson:"title" json:"title"`
	Subtitle  string    `bson:"subtitle" json:"subtitle"`
	Sections  []Section `bson:"sections" json:"sections"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

type UpsertRequest struct {
	Title    string    `json:"title" validate:"required,max=200"`
	Subtitle string    `json:"subtitle" validate:"max=500"`
	Sections []Section `json:"sections" validate:"omitempty,max=30,dive"`
}
