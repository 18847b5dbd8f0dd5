package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/scolary/internal/domain"
)

// ThemeKey is the local storage key of the UI theme.
const ThemeKey = "theme"

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme returns the stored theme, ThemeLight when unset or unrecognized.
func (a *App) Theme(ctx context.Context) (string, error) {
	v, ok, err := a.Store.Get(ctx, ThemeKey)
	if err != nil {
		return "", fmt.Errorf("app.Theme: %w", err)
	}
	if !ok || (v != ThemeLight && v != ThemeDark) {
		return ThemeLight, nil
	}
	return v, nil
}

// SetTheme stores theme, which must be ThemeLight or ThemeDark.
func (a *App) SetTheme(ctx context.Context, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeLight && theme != ThemeDark {
		return domain.NewValidationError("theme", "must be light or dark")
	}
	if err := a.Store.Set(ctx, ThemeKey, theme); err != nil {
		return fmt.Errorf("app.SetTheme: %w", err)
	}
	return nil
}
