package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
	Pagination PaginationConfig `yaml:"pagination"`
	Notify     NotifyConfig     `yaml:"notify"`
}

// APIConfig holds the REST backend connection settings.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"SCOLARY_API_URL"     env-required:"true"`
	Timeout time.Duration `yaml:"timeout"  env:"SCOLARY_API_TIMEOUT" env-default:"15s"`
	// WSURL overrides the notifications socket URL derived from BaseURL.
	WSURL string `yaml:"ws_url" env:"SCOLARY_WS_URL"`
}

// StorageConfig holds the local persistence settings (auth, theme, page filters).
type StorageConfig struct {
	Path string `yaml:"path" env:"SCOLARY_STORAGE_PATH" env-default:"./scolary.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// PaginationConfig holds list view defaults.
type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size" env:"SCOLARY_PAGE_SIZE"     env-default:"10"`
	MaxPageSize     int `yaml:"max_page_size"     env:"SCOLARY_MAX_PAGE_SIZE" env-default:"100"`
}

// NotifyConfig holds notification socket settings.
type NotifyConfig struct {
	ReconnectDelay time.Duration `yaml:"reconnect_delay" env:"SCOLARY_WS_RECONNECT_DELAY" env-default:"5s"`
}
