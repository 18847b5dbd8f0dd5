package domain

import (
	"encoding/json"
	"time"
)

// Card is a badge template rendered to PDF.
type Card struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Template   string          `json:"template"`
	SampleData json.RawMessage `json:"sample_data,omitempty"`
	Width      float64         `json:"width,omitempty"`
	Height     float64         `json:"height,omitempty"`
}

// CardPayload is the request body for creating or updating a card.
type CardPayload struct {
	Name       string          `json:"name"     validate:"required"`
	Template   string          `json:"template" validate:"required"`
	SampleData json.RawMessage `json:"sample_data,omitempty"`
	Width      float64         `json:"width,omitempty"`
	Height     float64         `json:"height,omitempty"`
}

// CmsPage is a content page managed from the admin.
type CmsPage struct {
	ID      int64           `json:"id"`
	Slug    string          `json:"slug"`
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

// CmsPagePayload is the request body for a CMS page.
type CmsPagePayload struct {
	Slug    string          `json:"slug"  validate:"required"`
	Title   string          `json:"title" validate:"required"`
	Content string          `json:"content"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

// University holds the institution's identity shown on documents.
type University struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
	Address string `json:"address"`
	Phone   string `json:"phone_number"`
	Email   string `json:"email"`
	Logo    string `json:"logo,omitempty"`
}

// UniversityPayload is the request body for updating university info.
type UniversityPayload struct {
	Name    string `json:"name"    validate:"required"`
	Acronym string `json:"acronym" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone_number"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// User is an admin account.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
}

// UserPayload is the request body for creating or updating a user.
type UserPayload struct {
	Email       string `json:"email"      validate:"required,email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"  validate:"required"`
	Password    string `json:"password,omitempty"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
}

// AvailableService is an administrative service students can request.
type AvailableService struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Documents []ServiceDocument `json:"required_documents,omitempty"`
}

// AvailableServicePayload is the request body for an available service.
type AvailableServicePayload struct {
	Name string `json:"name" validate:"required"`
}

// ServiceDocument links a required document to an available service.
type ServiceDocument struct {
	ID          int64  `json:"id"`
	ServiceID   int64  `json:"id_service"`
	DocumentID  int64  `json:"id_document"`
	Description string `json:"description,omitempty"`
}

// ServiceDocumentPayload is the request body for a service/document link.
type ServiceDocumentPayload struct {
	ServiceID  int64 `json:"id_service"  validate:"required"`
	DocumentID int64 `json:"id_document" validate:"required"`
}

// AccessToken is the response of the login endpoint.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Notification is an event pushed by the notifications socket.
type Notification struct {
	ID         string          `json:"id,omitempty"`
	Type       string          `json:"type"`
	Title      string          `json:"title,omitempty"`
	Message    string          `json:"message"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	ReceivedAt time.Time       `json:"-"`
}
