package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scolary/internal/adapter/localstore"
	"github.com/heartmarshall/scolary/internal/auth"
	"github.com/heartmarshall/scolary/internal/domain"
)

//go:generate moq -out login_api_mock_test.go -pkg auth . loginAPI

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret-at-least-32-chars-long"))
	require.NoError(t, err)
	return s
}

func newTestService(api loginAPI) (*Service, *auth.Session) {
	session := auth.NewSession(localstore.NewMemory(), localstore.NewMemory())
	return NewService(newTestLogger(), api, session), session
}

// ─── Login ──────────────────────────────────────────────────────────────────

func TestService_Login_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	token := signToken(t, "12", time.Now().Add(time.Hour))

	api := &loginAPIMock{
		LoginFunc: func(ctx context.Context, username, password string) (*domain.AccessToken, error) {
			return &domain.AccessToken{AccessToken: token, TokenType: "bearer"}, nil
		},
	}
	svc, session := newTestService(api)

	state, err := svc.Login(ctx, LoginInput{Username: "  admin@univ.mg ", Password: "secret"})
	require.NoError(t, err)

	require.Len(t, api.LoginCalls(), 1)
	assert.Equal(t, "admin@univ.mg", api.LoginCalls()[0].Username)
	assert.True(t, state.Authenticated)
	assert.Equal(t, "12", state.Subject)

	got, ok := session.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, token, got)
}

func TestService_Login_ValidationError(t *testing.T) {
	t.Parallel()

	api := &loginAPIMock{}
	svc, _ := newTestService(api)

	_, err := svc.Login(context.Background(), LoginInput{Username: " ", Password: ""})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "required", ve.Field("username"))
	assert.Equal(t, "required", ve.Field("password"))
	assert.Empty(t, api.LoginCalls())
}

func TestService_Login_BackendError(t *testing.T) {
	t.Parallel()

	api := &loginAPIMock{
		LoginFunc: func(ctx context.Context, username, password string) (*domain.AccessToken, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	svc, session := newTestService(api)

	_, err := svc.Login(context.Background(), LoginInput{Username: "a", Password: "b"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, ok := session.Token(context.Background())
	assert.False(t, ok)
}

// ─── Current / Logout ───────────────────────────────────────────────────────

func TestService_Current(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, session := newTestService(&loginAPIMock{})

	_, err := svc.Current(ctx)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, session.Save(ctx, signToken(t, "3", time.Now().Add(time.Hour)), "bearer"))
	state, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", state.Subject)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Current(ctx)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_Logout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, session := newTestService(&loginAPIMock{})
	require.NoError(t, session.Save(ctx, "opaque-token", "bearer"))

	require.NoError(t, svc.Logout(ctx))
	_, ok := session.Token(ctx)
	assert.False(t, ok)

	require.NoError(t, svc.Logout(ctx))
}
