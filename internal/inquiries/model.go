package inquiries

import "time"

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusClosed    = "closed"

	SourceWebsite  = "website"
	SourceWhatsApp = "whatsapp"
	SourceManual   = "manual"
)

var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusClosed:    {},
}

var validSources = map[string]struct{}{
	SourceWebsite:  {},
	SourceWhatsApp: {},
	SourceManual:   {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func IsValidSource(value string) bool {
	_, ok := validSources[value]
	return ok
}

// Inquiry is a contact or quotation request left by a visitor.
type Inquiry struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Company         string    `bson:"company,omitempty" json:"company,omitempty"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone           string    `bson:"phone" json:"phone"`
	ProductInterest string    `bson:"product_interest,omitempty" json:"product_interest,omitempty"`
	Message         string    `bson:"message" json:"message"`
	Status          string    `bson:"status" json:"status"`
	Source          string    `bson:"source" json:"source"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Company         string `json:"company" validate:"max=160"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"required,phone"`
	ProductInterest string `json:"product_interest" validate:"max=160"`
	Message         string `json:"message" validate:"required,max=4000"`
	Source          string `json:"source" validate:"omitempty,oneof=website whatsapp manual"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted closed"`
}

type ListFilter struct {
	Status string
	Source string
}
