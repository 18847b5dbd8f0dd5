package auth

import (
	"context"
	"fmt"
)

// Logout wipes every stored credential. It is safe to call without a session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	s.log.InfoContext(ctx, "logged out")
	return nil
}
