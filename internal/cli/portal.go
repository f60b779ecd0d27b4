package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/usecase"
)

func profileCmd(opts *globalOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := usecase.NewLoadProfile(app.sessions).Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printProfile(cmd.OutOrStdout(), p, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printProfile(w io.Writer, p domain.Profile, format string) error {
	switch format {
	case "json":
		payload := map[string]any{}
		for k, v := range p.Extra {
			payload[k] = v
		}
		payload["username"] = p.Username
		payload["email"] = p.Email
		if p.Message != "" {
			payload["message"] = p.Message
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty", "":
		fmt.Fprintf(w, "Username: %s\n", p.Username)
		fmt.Fprintf(w, "Email:    %s\n", p.Email)
		if p.Message != "" {
			fmt.Fprintf(w, "Message:  %s\n", p.Message)
		}
		keys := make([]string, 0, len(p.Extra))
		for k := range p.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %v\n", k, p.Extra[k])
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func healthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the portal API is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			w := cmd.OutOrStdout()
			h, err := app.api.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %s\n", app.api.BaseURL(), h.Status)

			// The root endpoint is informational; older portals do not serve it.
			if info, err := app.api.Info(cmd.Context()); err == nil && info.Service != "" {
				fmt.Fprintf(w, "service: %s %s\n", info.Service, info.Version)
			}
			return nil
		},
	}
}
