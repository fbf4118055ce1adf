package config

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/blackwell-systems/opacctl/internal/session"
	"golang.org/x/text/language"
)

// Config is the top-level opacctl configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Serve   ServeConfig   `mapstructure:"serve" yaml:"serve"`
}

// APIConfig holds library REST API connection settings.
type APIConfig struct {
	BaseURL          string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold" yaml:"failure_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
}

// CatalogConfig says where the catalog comes from.
type CatalogConfig struct {
	Path    string `mapstructure:"path" yaml:"path,omitempty"` // optional YAML catalog
	Offline bool   `mapstructure:"offline" yaml:"offline"`     // never fetch /books
}

// SessionConfig selects the local persistence backend.
type SessionConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "file", "badger" or "memory"
	Dir     string `mapstructure:"dir" yaml:"dir"`
}

// DisplayConfig holds presentation defaults.
type DisplayConfig struct {
	Layout string `mapstructure:"layout" yaml:"layout"` // "grid" or "list"
	Locale string `mapstructure:"locale" yaml:"locale"` // BCP 47 tag for title collation
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// ServeConfig holds the local JSON endpoint address.
type ServeConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// Addr returns host:port.
func (s ServeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ParsedLayout returns the parsed display layout, falling back to grid.
func (d DisplayConfig) ParsedLayout() search.Layout {
	l, err := search.ParseLayout(d.Layout)
	if err != nil {
		return search.LayoutGrid
	}
	return l
}

// Language returns the collation locale, falling back to Traditional Chinese.
func (d DisplayConfig) Language() language.Tag {
	if d.Locale == "" {
		return search.DefaultLocale
	}
	tag, err := language.Parse(d.Locale)
	if err != nil {
		return search.DefaultLocale
	}
	return tag
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := search.ParseLayout(c.Display.Layout); err != nil {
		return fmt.Errorf("display.layout: %w", err)
	}
	if c.Display.Locale != "" {
		if _, err := language.Parse(c.Display.Locale); err != nil {
			return fmt.Errorf("display.locale: %w", err)
		}
	}
	switch session.Backend(c.Session.Backend) {
	case "", session.BackendFile, session.BackendBadger, session.BackendMemory:
	default:
		return fmt.Errorf("session.backend: unknown backend %q (want file, badger or memory)", c.Session.Backend)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (want console or json)", c.Log.Format)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port: %d out of range", c.Serve.Port)
	}
	return nil
}
