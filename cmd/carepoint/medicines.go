package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/carepoint/internal/cli"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/tui/viewmodel"
	"github.com/spf13/cobra"
)

func medicinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "medicines",
		Aliases: []string{"med"},
		Short:   "Browse the medicine inventory",
	}

	cmd.AddCommand(medicinesListCmd())
	cmd.AddCommand(medicinesExpiringCmd())

	return cmd
}

func medicinesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List medicines, optionally filtered",
		Long: `List the inventory. Filters combine: --name matches part of the name,
--category matches the category and --from keeps medicines added on or after a date.`,
		Example: `  carepoint medicines list --name asp
  carepoint medicines list --category Analgesic --from 2026-01-01`,
		RunE: runMedicinesList,
	}

	cmd.Flags().String("name", "", "Name contains")
	cmd.Flags().String("category", "", "Category")
	cmd.Flags().String("from", "", "Added on or after (YYYY-MM-DD)")
	addFormatFlag(cmd)

	return cmd
}

func runMedicinesList(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	category, _ := cmd.Flags().GetString("category")
	from, _ := cmd.Flags().GetString("from")

	start, err := model.ParseDate(from)
	if err != nil {
		return fmt.Errorf("--from must be a date like 2026-01-31: %w", err)
	}

	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}

	meds, err := client.SearchMedicines(cmd.Context(), model.FilterCriteria{
		Name:      name,
		Category:  category,
		StartDate: start,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, meds)
	}
	if len(meds) == 0 {
		_, err = fmt.Fprintln(out, cli.FormatInfo("No medicines found"))
		return err
	}
	return printMedicines(out, meds, currencyFor(cfg), time.Now())
}

func medicinesExpiringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "Show medicines that expire soon",
		Long: `Show the medicines the server lists as close to expiry, narrowed to those
that have not expired yet and expire within --days days.`,
		RunE: runMedicinesExpiring,
	}

	cmd.Flags().Int("days", 0, "Window in days (default: medicines.expiring_days)")
	addFormatFlag(cmd)

	return cmd
}

func runMedicinesExpiring(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = cfg.ExpiringDays
	}

	meds, err := client.ExpiringMedicines(cmd.Context())
	if err != nil {
		return err
	}
	now := time.Now()
	soon := viewmodel.ExpiringSoon(meds, days, now)

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, soon)
	}
	title := viewmodel.ExpiringBannerTitle(len(soon))
	if title == "" {
		_, err = fmt.Fprintln(out, cli.FormatSuccess("Nothing expires in the next "+strconv.Itoa(days)+" days"))
		return err
	}
	if _, err := fmt.Fprintln(out, cli.FormatWarning(title)); err != nil {
		return err
	}
	return printMedicines(out, soon, currencyFor(cfg), now)
}

func printMedicines(w io.Writer, meds []model.Medicine, currency viewmodel.Currency, now time.Time) error {
	rows := make([][]string, 0, len(meds))
	for _, m := range meds {
		rows = append(rows, []string{
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(m.Name), 32),
			viewmodel.SanitizeForDisplay(m.Category),
			strconv.Itoa(m.Quantity),
			currency.FormatAmount(m.Price),
			viewmodel.FormatDate(m.ExpiryDate),
			viewmodel.ExpiryLabel(m.ExpiryDate, now),
		})
	}
	_, err := fmt.Fprintln(w, cli.RenderTable(
		[]string{"Name", "Category", "Qty", "Price", "Expires", ""},
		rows,
	))
	return err
}
