package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/carepoint/internal/api"
	"github.com/Veraticus/carepoint/internal/auth"
	"github.com/Veraticus/carepoint/internal/cli"
	"github.com/Veraticus/carepoint/internal/config"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/tui/viewmodel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// loadConfig resolves the configuration from flags, environment and config file.
func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper())
}

// newClient creates an API client. Its cookie jar lives only as long as the process.
func newClient(cfg config.Config) (*api.Client, error) {
	client, err := api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

func currencyFor(cfg config.Config) viewmodel.Currency {
	return viewmodel.Currency{Symbol: cfg.CurrencySymbol, Locale: cfg.Locale()}
}

// connect loads the config, creates a client and logs in when an account was given
// with --email. The password comes from CAREPOINT_AUTH_PASSWORD or a prompt.
func connect(cmd *cobra.Command) (config.Config, *api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}

	email := strings.TrimSpace(viper.GetString("auth.email"))
	if email == "" {
		return cfg, client, nil
	}

	password := viper.GetString("auth.password")
	if password == "" {
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		password, err = prompter.Ask(cmd.Context(), "Password for "+email)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("failed to read password: %w", err)
		}
	}

	if _, err := auth.NewService(client).Login(cmd.Context(), model.Credentials{Email: email, Password: password}); err != nil {
		return config.Config{}, nil, err
	}
	slog.Debug("Logged in", "email", email)
	return cfg, client, nil
}

// outputFormat reads the --format flag of cmd.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	switch format {
	case "table", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table or json)", format)
	}
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "table", "Output format (table, json)")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
