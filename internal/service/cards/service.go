// Package cards manages badge templates and renders them to PDF.
package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
	"github.com/heartmarshall/scolary/internal/service/resource"
)

const renderPath = "/cards/render-pdf/"

// Def is the card endpoint.
var Def = resource.Definition{Name: "cards", Path: "/cards/"}

// api defines the HTTP client interface needed by the card service.
type api interface {
	Do(ctx context.Context, path string, req scolaryapi.Request, out any) error
	DoBlob(ctx context.Context, path string, req scolaryapi.Request) (*scolaryapi.Blob, error)
}

// Service exposes card CRUD plus PDF rendering.
type Service struct {
	*resource.Service[domain.Card, domain.CardPayload]

	log *slog.Logger
	api api
}

// NewService creates a card service.
func NewService(logger *slog.Logger, client api, cache *querycache.Cache) *Service {
	return &Service{
		Service: resource.New[domain.Card, domain.CardPayload](logger, client, cache, Def),
		log:     logger.With("service", "cards"),
		api:     client,
	}
}

// RenderInput selects what to render. Either CardID or Template is required;
// Data fills the template placeholders.
type RenderInput struct {
	CardID   int64           `json:"id,omitempty"`
	Template string          `json:"template,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Validate validates the render input.
func (i RenderInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == 0 && strings.TrimSpace(i.Template) == "" {
		errs = append(errs, domain.FieldError{Field: "template", Message: "card id or template required"})
	}
	if len(i.Data) > 0 && !json.Valid(i.Data) {
		errs = append(errs, domain.FieldError{Field: "data", Message: "invalid JSON"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RenderPDF renders a card (or an unsaved template) to PDF.
func (s *Service) RenderPDF(ctx context.Context, input RenderInput) (*scolaryapi.Blob, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	blob, err := s.api.DoBlob(ctx, renderPath, scolaryapi.Request{Method: http.MethodPost, JSON: input})
	if err != nil {
		return nil, err
	}
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("cards.RenderPDF: empty document")
	}

	s.log.InfoContext(ctx, "card rendered",
		slog.Int64("card_id", input.CardID),
		slog.Int("bytes", len(blob.Data)))
	return blob, nil
}
