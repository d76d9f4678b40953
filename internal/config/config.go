package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds everything the client needs to talk to the hospital API.
type Config struct {
	BaseURL         string
	SessionEndpoint string
	CurrencySymbol  string
	CurrencyLocale  string
	LogLevel        string
	LogFormat       string
	LogFile         string
	Theme           string
	Timeout         time.Duration
	Debounce        time.Duration
	Retries         int
	ExpiringDays    int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:4000",
		SessionEndpoint: "/auth/status",
		Timeout:         15 * time.Second,
		Retries:         1,
		Debounce:        500 * time.Millisecond,
		ExpiringDays:    30,
		CurrencySymbol:  "$",
		CurrencyLocale:  "en-US",
		LogLevel:        "info",
		LogFormat:       "console",
		Theme:           "default",
	}
}

// SetDefaults registers defaults so unset keys resolve predictably.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("api.base_url", d.BaseURL)
	v.SetDefault("api.timeout", d.Timeout)
	v.SetDefault("api.retries", d.Retries)
	v.SetDefault("session.endpoint", d.SessionEndpoint)
	v.SetDefault("search.debounce", d.Debounce)
	v.SetDefault("medicines.expiring_days", d.ExpiringDays)
	v.SetDefault("currency.symbol", d.CurrencySymbol)
	v.SetDefault("currency.locale", d.CurrencyLocale)
	v.SetDefault("logging.level", d.LogLevel)
	v.SetDefault("logging.format", d.LogFormat)
	v.SetDefault("logging.file", "")
	v.SetDefault("ui.theme", d.Theme)
}

// Load reads a validated Config from v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		BaseURL:         strings.TrimRight(v.GetString("api.base_url"), "/"),
		Timeout:         v.GetDuration("api.timeout"),
		Retries:         v.GetInt("api.retries"),
		SessionEndpoint: v.GetString("session.endpoint"),
		Debounce:        v.GetDuration("search.debounce"),
		ExpiringDays:    v.GetInt("medicines.expiring_days"),
		CurrencySymbol:  v.GetString("currency.symbol"),
		CurrencyLocale:  v.GetString("currency.locale"),
		LogLevel:        v.GetString("logging.level"),
		LogFormat:       v.GetString("logging.format"),
		LogFile:         ExpandPath(v.GetString("logging.file")),
		Theme:           v.GetString("ui.theme"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", common.ErrInvalidConfig, c.BaseURL)
	}
	if !strings.HasPrefix(c.SessionEndpoint, "/") {
		return fmt.Errorf("%w: session.endpoint must start with /", common.ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.Retries < 1 {
		return fmt.Errorf("%w: api.retries must be at least 1", common.ErrInvalidConfig)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: search.debounce must not be negative", common.ErrInvalidConfig)
	}
	if c.ExpiringDays < 0 {
		return fmt.Errorf("%w: medicines.expiring_days must not be negative", common.ErrInvalidConfig)
	}
	if _, err := language.Parse(c.CurrencyLocale); err != nil {
		return fmt.Errorf("%w: currency.locale %q: %v", common.ErrInvalidConfig, c.CurrencyLocale, err)
	}
	return nil
}

// Locale returns the parsed currency locale.
func (c Config) Locale() language.Tag {
	tag, err := language.Parse(c.CurrencyLocale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}
