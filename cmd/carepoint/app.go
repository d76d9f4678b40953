package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/tui"
	"github.com/Veraticus/carepoint/internal/tui/components"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startPages = map[string]components.Page{
	"home":      components.PageHome,
	"login":     components.PageLogin,
	"register":  components.PageRegister,
	"medicines": components.PageMedicines,
	"dashboard": components.PageDashboard,
	"book":      components.PageBooking,
}

func appCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Open the interactive terminal client",
		Long: `Open the full-screen client with the navbar, medicine inventory, finance
dashboard, booking form and account pages.

Log lines go to logging.file when set and are discarded otherwise, so they never
draw over the screen.`,
		RunE: runApp,
	}

	cmd.Flags().String("theme", "", "Color theme (default, catppuccin-mocha)")
	cmd.Flags().String("page", "home", "Page to open first (home, login, register, medicines, dashboard, book)")

	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runApp(cmd *cobra.Command, _ []string) error {
	pageName, err := cmd.Flags().GetString("page")
	if err != nil {
		return err
	}
	page, ok := startPages[pageName]
	if !ok {
		return fmt.Errorf("unknown page %q", pageName)
	}

	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}

	closer, err := common.RedirectLogger(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() {
		_ = closer.Close()
	}()
	slog.Info("Starting terminal client", "api", cfg.BaseURL, "theme", cfg.Theme, "page", page.String())

	return tui.Run(cmd.Context(),
		tui.WithBackend(client),
		tui.WithTheme(themes.GetTheme(cfg.Theme)),
		tui.WithCurrency(currencyFor(cfg)),
		tui.WithSessionEndpoint(cfg.SessionEndpoint),
		tui.WithDebounce(cfg.Debounce),
		tui.WithExpiringDays(cfg.ExpiringDays),
		tui.WithStartPage(page),
	)
}
