package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Storage keys shared with the web admin.
const (
	TokenKey       = "token"
	LegacyTokenKey = "scolary_token_value"
	StateKey       = "scolary-auth-state"
)

// KV is the key/value store a Session reads and writes.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// State is the auth snapshot persisted under StateKey.
type State struct {
	Authenticated bool      `json:"authenticated"`
	TokenType     string    `json:"token_type,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitzero"`
	LoggedInAt    time.Time `json:"logged_in_at,omitzero"`
}

type legacyToken struct {
	Value string `json:"value"`
}

// Session resolves and stores the bearer token.
// session holds process-scoped values, local holds persisted ones.
type Session struct {
	session KV
	local   KV
	now     func() time.Time
}

// NewSession creates a Session over the two stores.
func NewSession(session, local KV) *Session {
	return &Session{session: session, local: local, now: time.Now}
}

// Token returns the current bearer token. Lookup order: session store,
// local "token", then the legacy JSON-wrapped local key.
func (s *Session) Token(ctx context.Context) (string, bool) {
	if v, ok := lookup(ctx, s.session, TokenKey); ok {
		return v, true
	}
	if v, ok := lookup(ctx, s.local, TokenKey); ok {
		return v, true
	}
	raw, ok := lookup(ctx, s.local, LegacyTokenKey)
	if !ok {
		return "", false
	}
	var legacy legacyToken
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return "", false
	}
	v := strings.TrimSpace(legacy.Value)
	return v, v != ""
}

// Save stores token in both stores, the legacy key and the auth snapshot.
func (s *Session) Save(ctx context.Context, token, tokenType string) error {
	if token == "" {
		return fmt.Errorf("auth: empty token")
	}

	state := State{
		Authenticated: true,
		TokenType:     tokenType,
		LoggedInAt:    s.now().UTC(),
	}
	if c, err := ParseClaims(token); err == nil {
		state.Subject = c.Subject
		state.ExpiresAt = c.ExpiresAt
	}

	legacy, err := json.Marshal(legacyToken{Value: token})
	if err != nil {
		return fmt.Errorf("auth: encode legacy token: %w", err)
	}
	snapshot, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("auth: encode state: %w", err)
	}

	if err := s.session.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("auth: save session token: %w", err)
	}
	if err := s.local.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("auth: save token: %w", err)
	}
	if err := s.local.Set(ctx, LegacyTokenKey, string(legacy)); err != nil {
		return fmt.Errorf("auth: save legacy token: %w", err)
	}
	if err := s.local.Set(ctx, StateKey, string(snapshot)); err != nil {
		return fmt.Errorf("auth: save state: %w", err)
	}
	return nil
}

// Clear removes every credential and the auth snapshot.
func (s *Session) Clear(ctx context.Context) error {
	return errors.Join(
		s.session.Delete(ctx, TokenKey),
		s.local.Delete(ctx, TokenKey, LegacyTokenKey, StateKey),
	)
}

// State returns the persisted snapshot. A missing or unreadable snapshot
// yields an unauthenticated State.
func (s *Session) State(ctx context.Context) State {
	raw, ok := lookup(ctx, s.local, StateKey)
	if !ok {
		return State{}
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}
	}
	if _, ok := s.Token(ctx); !ok {
		st.Authenticated = false
	}
	return st
}

func lookup(ctx context.Context, kv KV, key string) (string, bool) {
	if kv == nil {
		return "", false
	}
	v, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
