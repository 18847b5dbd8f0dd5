package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}

	if err := c.Pagination.validate(); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}

	if c.Notify.ReconnectDelay <= 0 {
		return fmt.Errorf("notify.reconnect_delay must be > 0 (got %v)", c.Notify.ReconnectDelay)
	}

	return nil
}

func (a *APIConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https (got %q)", a.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must include a host (got %q)", a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", a.Timeout)
	}
	if a.WSURL != "" {
		w, err := url.Parse(a.WSURL)
		if err != nil {
			return fmt.Errorf("ws_url: %w", err)
		}
		if w.Scheme != "ws" && w.Scheme != "wss" {
			return fmt.Errorf("ws_url must be ws or wss (got %q)", a.WSURL)
		}
	}
	return nil
}

func (p *PaginationConfig) validate() error {
	if p.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", p.DefaultPageSize)
	}
	if p.MaxPageSize < p.DefaultPageSize {
		return fmt.Errorf("max_page_size must be >= default_page_size (got %d < %d)", p.MaxPageSize, p.DefaultPageSize)
	}
	return nil
}
