package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/scolary/internal/auth"
	"github.com/heartmarshall/scolary/internal/domain"
)

// Login exchanges credentials for an access token and stores it.
// Returns the stored auth snapshot.
func (s *Service) Login(ctx context.Context, input LoginInput) (auth.State, error) {
	input.Username = strings.TrimSpace(input.Username)

	if err := input.Validate(); err != nil {
		return auth.State{}, err
	}

	token, err := s.api.Login(ctx, input.Username, input.Password)
	if err != nil {
		return auth.State{}, fmt.Errorf("auth.Login: %w", err)
	}

	if err := s.session.Save(ctx, token.AccessToken, token.TokenType); err != nil {
		return auth.State{}, fmt.Errorf("auth.Login save session: %w", err)
	}

	state := s.session.State(ctx)
	s.log.InfoContext(ctx, "logged in",
		slog.String("username", input.Username),
		slog.String("subject", state.Subject))
	return state, nil
}

// Current returns the snapshot of the stored session.
// Returns ErrUnauthorized when no token is stored or it has expired.
func (s *Service) Current(ctx context.Context) (auth.State, error) {
	token, ok := s.session.Token(ctx)
	if !ok {
		return auth.State{}, domain.ErrUnauthorized
	}

	if claims, err := auth.ParseClaims(token); err == nil && claims.Expired(s.now()) {
		return auth.State{}, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}

	return s.session.State(ctx), nil
}
