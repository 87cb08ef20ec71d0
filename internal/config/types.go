package config

import (
	"github.com/vnykmshr/livetime/pkg/logx"
)

// Config is the host configuration. Files may be JSON or YAML; unknown fields
// are rejected.
type Config struct {
	Logging  logx.Config    `json:"logging"`
	Metrics  MetricsConfig  `json:"metrics"`
	Provider ProviderConfig `json:"provider"`
	Render   RenderConfig   `json:"render"`
	Redis    *RedisConfig   `json:"redis,omitempty"`
	Widgets  []WidgetConfig `json:"widgets"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default ":9090"
	Path    string `json:"path,omitempty"` // default "/metrics"
}

// ProviderConfig toggles optional date provider capabilities.
// Omitted fields default to enabled.
type ProviderConfig struct {
	Timezone *bool `json:"timezone,omitempty"`
	Duration *bool `json:"duration,omitempty"`
}

// RenderConfig controls terminal output.
//
// In "lines" mode (the default) every update is printed as "name value".
// In "board" mode the screen is redrawn with all widgets every Interval.
type RenderConfig struct {
	Mode       string `json:"mode,omitempty"`
	Interval   string `json:"interval,omitempty"` // board redraw cadence, default "1s"
	Visibility bool   `json:"visibility"`         // resync on SIGCONT
}

// RedisConfig enables publishing every value to Redis pub/sub.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Timeout  string `json:"timeout,omitempty"` // Go duration, default "500ms"
}

// WidgetConfig describes one live display.
//
// Interval accepts anything package interval understands ("250ms", "2s",
// "1.5m", "00:00:05", "@every 10s"); invalid values fall back to one second.
// Anchor is RFC 3339 and required for relative and until widgets.
type WidgetConfig struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"` // now, relative, until
	Format        string `json:"format,omitempty"`
	Interval      string `json:"interval,omitempty"`
	Anchor        string `json:"anchor,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	WithoutSuffix bool   `json:"without_suffix,omitempty"`
	ClampToZero   *bool  `json:"clamp_to_zero,omitempty"` // default true
}

// Render modes.
const (
	RenderLines = "lines"
	RenderBoard = "board"
)

// MetricsAddr returns the listen address with its default applied.
func (m MetricsConfig) MetricsAddr() string {
	if m.Addr == "" {
		return ":9090"
	}
	return m.Addr
}

// MetricsPath returns the HTTP path with its default applied.
func (m MetricsConfig) MetricsPath() string {
	if m.Path == "" {
		return "/metrics"
	}
	return m.Path
}

// TimezoneEnabled reports whether timezone support is on.
func (p ProviderConfig) TimezoneEnabled() bool { return p.Timezone == nil || *p.Timezone }

// DurationEnabled reports whether humanization is on.
func (p ProviderConfig) DurationEnabled() bool { return p.Duration == nil || *p.Duration }
