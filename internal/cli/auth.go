package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/usecase"
)

func loginCmd(opts *globalOptions) *cobra.Command {
	var creds domain.Credentials

	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if err := p.fill(&creds.Username, "Username"); err != nil {
				return err
			}
			if err := p.fill(&creds.Password, "Password"); err != nil {
				return err
			}

			uc := usecase.NewAuthenticate(app.sessions)
			if err := uc.Login(cmd.Context(), creds, app.cfg.Chat.Language); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", creds.Username)
			return nil
		},
	}

	c.Flags().StringVarP(&creds.Username, "username", "u", "", "Username (prompted if omitted)")
	c.Flags().StringVarP(&creds.Password, "password", "p", "", "Password (prompted if omitted)")
	return c
}

func registerCmd(opts *globalOptions) *cobra.Command {
	var reg domain.Registration

	c := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			for _, f := range []struct {
				dst   *string
				label string
			}{
				{&reg.Username, "Username"},
				{&reg.Email, "Email"},
				{&reg.Phone, "Phone"},
				{&reg.Password, "Password"},
			} {
				if err := p.fill(f.dst, f.label); err != nil {
					return err
				}
			}

			uc := usecase.NewAuthenticate(app.sessions)
			if err := uc.Register(cmd.Context(), reg, app.cfg.Chat.Language); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account created; signed in as %s\n", reg.Username)
			return nil
		},
	}

	c.Flags().StringVarP(&reg.Username, "username", "u", "", "Username (prompted if omitted)")
	c.Flags().StringVar(&reg.Email, "email", "", "Email address (prompted if omitted)")
	c.Flags().StringVar(&reg.Phone, "phone", "", "10-digit phone number; checked locally, never sent")
	c.Flags().StringVarP(&reg.Password, "password", "p", "", "Password, at least 6 characters (prompted if omitted)")
	return c
}

func logoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := usecase.NewAuthenticate(app.sessions).Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func statusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and workspace in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Workspace: %s\n", app.root)
			fmt.Fprintf(w, "API:       %s\n", app.cfg.API.BaseURL)
			fmt.Fprintf(w, "Language:  %s\n", app.cfg.Chat.Language)
			fmt.Fprintf(w, "Session:   %s\n", app.sessions.State())

			claims, ok := app.sessions.Claims()
			if !ok {
				return nil
			}
			if claims.Username != "" {
				fmt.Fprintf(w, "User:      %s\n", claims.Username)
			}
			if claims.UserID != "" {
				fmt.Fprintf(w, "User ID:   %s\n", claims.UserID)
			}
			if !claims.ExpiresAt.IsZero() {
				state := "valid"
				if claims.Expired(time.Now()) {
					state = "expired, refreshed on next call"
				}
				fmt.Fprintf(w, "Access:    %s (%s)\n", claims.ExpiresAt.Local().Format(time.RFC3339), state)
			}
			return nil
		},
	}
}
