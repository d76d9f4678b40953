package config

import (
	"testing"
	"time"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "en-US", cfg.Locale().String())
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("api.base_url", "https://hospital.example.com/")
	v.Set("search.debounce", "250ms")
	v.Set("session.endpoint", "/me")
	v.Set("currency.locale", "de-DE")
	v.Set("ui.theme", "catppuccin-mocha")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://hospital.example.com", cfg.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "/me", cfg.SessionEndpoint)
	assert.Equal(t, "de-DE", cfg.Locale().String())
	assert.Equal(t, "catppuccin-mocha", cfg.Theme)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		mutate func(*Config)
		name   string
	}{
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "localhost:4000" }},
		{name: "session endpoint without slash", mutate: func(c *Config) { c.SessionEndpoint = "me" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }},
		{name: "zero retries", mutate: func(c *Config) { c.Retries = 0 }},
		{name: "negative debounce", mutate: func(c *Config) { c.Debounce = -time.Second }},
		{name: "bad locale", mutate: func(c *Config) { c.CurrencyLocale = "not a locale!" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)
		})
	}
}
