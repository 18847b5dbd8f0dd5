package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/scolary/internal/auth"
	"github.com/heartmarshall/scolary/internal/domain"
)

// loginAPI defines the backend call needed by the auth service.
type loginAPI interface {
	Login(ctx context.Context, username, password string) (*domain.AccessToken, error)
}

// sessionStore defines the credential storage needed by the auth service.
type sessionStore interface {
	Token(ctx context.Context) (string, bool)
	Save(ctx context.Context, token, tokenType string) error
	Clear(ctx context.Context) error
	State(ctx context.Context) auth.State
}

// Service implements login, logout and session inspection.
type Service struct {
	log     *slog.Logger
	api     loginAPI
	session sessionStore
	now     func() time.Time
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, api loginAPI, session sessionStore) *Service {
	return &Service{
		log:     logger.With("service", "auth"),
		api:     api,
		session: session,
		now:     time.Now,
	}
}
