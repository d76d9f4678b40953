package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/carepoint/internal/auth"
	"github.com/Veraticus/carepoint/internal/booking"
	"github.com/Veraticus/carepoint/internal/cli"
	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/spf13/cobra"
)

func whoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the server sees",
		Long: `Probe the session endpoint and print who is logged in. Without --email the
client has no session cookie and is always anonymous.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, client, err := connect(cmd)
			if err != nil {
				return err
			}

			s := session.NewProber(client, cfg.SessionEndpoint).Probe(cmd.Context())
			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, s)
			}
			if s == nil {
				_, err = fmt.Fprintln(out, cli.FormatInfo("Not logged in"))
				return err
			}
			_, err = fmt.Fprintln(out, cli.RenderBox(s.Initial()+"  "+s.Email, fmt.Sprintf(
				"Name: %s\nRole: %s\nUser ID: %s", s.Firstname, s.Role, s.UserID)))
			return err
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. New accounts are USER accounts; an admin logged in with
--email may pass --role to create staff accounts.`,
		Example: `  carepoint register --firstname John --lastname Doe --new-email john@example.com --password secret1
  carepoint --email admin@hospital.org register --firstname Greg --lastname House \
    --new-email house@hospital.org --password vicodin --role DOCTOR`,
		RunE: runRegister,
	}

	cmd.Flags().String("firstname", "", "First name")
	cmd.Flags().String("lastname", "", "Last name")
	cmd.Flags().String("new-email", "", "Email of the new account")
	cmd.Flags().String("password", "", "Password of the new account (prompted when empty)")
	cmd.Flags().String("role", "", "Role for the new account (admins only)")

	return cmd
}

func runRegister(cmd *cobra.Command, _ []string) error {
	reg := model.Registration{}
	reg.Firstname, _ = cmd.Flags().GetString("firstname")
	reg.Lastname, _ = cmd.Flags().GetString("lastname")
	reg.Email, _ = cmd.Flags().GetString("new-email")
	reg.Password, _ = cmd.Flags().GetString("password")
	roleName, _ := cmd.Flags().GetString("role")

	if roleName != "" {
		role, ok := model.ParseRole(roleName)
		if !ok {
			return common.NewValidationError("role", "must be one of ADMIN, DOCTOR, MODERATOR, USER")
		}
		reg.Role = role
	}

	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}

	if reg.Password == "" {
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		if reg.Password, err = prompter.Ask(cmd.Context(), "Password for "+reg.Email); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	sessions := session.NewProber(client, cfg.SessionEndpoint)
	sessions.Probe(cmd.Context())
	if reg.Role != "" && reg.Role != model.RoleUser && !sessions.IsAdmin() {
		return errors.New("only an admin may choose a role; log in with --email as an admin")
	}

	msg, err := auth.NewService(client).Register(cmd.Context(), reg, sessions.IsAdmin())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
	return err
}

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		Long: `Book an appointment slot. Booking needs a logged-in account, so pass --email.
Available times: ` + strings.Join(model.TimeSlots, ", ") + `.`,
		Example: `  carepoint --email ada@example.com book --date 2026-10-20 --time 09:00`,
		RunE:    runBook,
	}

	cmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "Time slot")

	return cmd
}

func runBook(cmd *cobra.Command, _ []string) error {
	date, _ := cmd.Flags().GetString("date")
	slot, _ := cmd.Flags().GetString("time")

	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}

	sessions := session.NewProber(client, cfg.SessionEndpoint)
	sessions.Probe(cmd.Context())
	controller := booking.NewController(client, sessions)
	if !controller.CanSubmit(false) {
		return common.NewUserError("Log in with --email to book an appointment", common.ErrNoSession)
	}

	msg, err := controller.Book(cmd.Context(), booking.Form{Date: date, Time: slot})
	if err != nil {
		return common.NewUserError(msg, err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s %s at %s", msg, date, slot)))
	return err
}
