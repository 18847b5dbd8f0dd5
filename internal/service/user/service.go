// Package user manages admin accounts.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
	"github.com/heartmarshall/scolary/internal/service/resource"
)

const mePath = "/users/me"

// ErrAlreadySuperuser is returned by Promote for an account that is already admin.
var ErrAlreadySuperuser = errors.New("user is already a superuser")

// Def is the user endpoint.
var Def = resource.Definition{Name: "users", Path: "/users/"}

// api defines the HTTP client interface needed by the user service.
type api interface {
	Do(ctx context.Context, path string, req scolaryapi.Request, out any) error
}

// Service exposes user CRUD and the current account.
type Service struct {
	*resource.Service[domain.User, domain.UserPayload]

	log   *slog.Logger
	api   api
	cache *querycache.Cache
}

// NewService creates a user service.
func NewService(logger *slog.Logger, client api, cache *querycache.Cache) *Service {
	return &Service{
		Service: resource.New[domain.User, domain.UserPayload](logger, client, cache, Def),
		log:     logger.With("service", "user"),
		api:     client,
		cache:   cache,
	}
}

// Me returns the account of the current token.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	u, err := querycache.Fetch(ctx, s.cache, Def.Name, "me", func(ctx context.Context) (domain.User, error) {
		var u domain.User
		err := s.api.Do(ctx, mePath, scolaryapi.Request{}, &u)
		return u, err
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Promote grants superuser rights to the account with the given email. Only
// is_superuser is sent, so profile fields the account lacks are not checked.
func (s *Service) Promote(ctx context.Context, email string) (*domain.User, error) {
	resp, err := s.Fetch(ctx, domain.ListQuery{
		Where: []domain.Clause{{Key: "email", Operator: domain.OpEqual, Value: email}},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("user.Promote: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no user with email %q", domain.ErrNotFound, email)
	}
	u := resp.Data[0]
	if u.IsSuperuser {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySuperuser, email)
	}

	patch := struct {
		IsSuperuser bool `json:"is_superuser"`
	}{IsSuperuser: true}
	var out domain.User
	if err := s.api.Do(ctx, Def.ItemPath(u.ID), scolaryapi.Request{Method: http.MethodPut, JSON: patch}, &out); err != nil {
		s.log.WarnContext(ctx, "promote failed", slog.Int64("id", u.ID), slog.String("error", err.Error()))
		return nil, err
	}
	s.Invalidate()
	s.log.InfoContext(ctx, "user promoted", slog.Int64("id", u.ID))
	return &out, nil
}
