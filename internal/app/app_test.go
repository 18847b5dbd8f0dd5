package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scolary/internal/config"
	"github.com/heartmarshall/scolary/internal/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		API:        config.APIConfig{BaseURL: "http://127.0.0.1:1/api/v1", Timeout: time.Second},
		Storage:    config.StorageConfig{Path: filepath.Join(t.TempDir(), "scolary.db")},
		Log:        config.LogConfig{Level: "error", Format: "text"},
		Pagination: config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 50},
		Notify:     config.NotifyConfig{ReconnectDelay: time.Second},
	}
	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_PageSize(t *testing.T) {
	t.Parallel()
	a := newTestApp(t)

	assert.Equal(t, 10, a.PageSize(0))
	assert.Equal(t, 25, a.PageSize(25))
	assert.Equal(t, 50, a.PageSize(500))
	assert.Equal(t, 50, a.MentionsPage(500).Pager().PageSize)
}

func TestApp_Theme(t *testing.T) {
	t.Parallel()
	a := newTestApp(t)
	ctx := context.Background()

	theme, err := a.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	require.NoError(t, a.SetTheme(ctx, " Dark "))
	theme, err = a.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	err = a.SetTheme(ctx, "neon")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "must be light or dark", ve.Field("theme"))
}

func TestApp_NoSessionByDefault(t *testing.T) {
	t.Parallel()
	a := newTestApp(t)

	_, ok := a.Session.Token(context.Background())
	assert.False(t, ok)
	assert.Equal(t, 0, a.Notify.Subscribers())
}

func TestNew_BadBaseURL(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		API:     config.APIConfig{BaseURL: "not a url", Timeout: time.Second},
		Storage: config.StorageConfig{Path: filepath.Join(t.TempDir(), "scolary.db")},
	}
	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
