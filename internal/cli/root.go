package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/fsworkspace"
	"github.com/sihhealth/healthbot/internal/infra/workspacefinder"
	"github.com/sihhealth/healthbot/internal/ui/tui"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	debug     bool
	api       string
	lang      string
	workspace string
	noPersist bool
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		lang, _ := cmd.PersistentFlags().GetString("lang")
		l, _ := domain.ParseLanguage(lang)
		fmt.Fprintln(os.Stderr, "Error:", tui.UserMessage(err, l))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "healthbot",
		Short:         "healthbot: terminal client for the health assistant portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			deps := tui.Deps{
				Sessions:             app.sessions,
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				WorkspaceRoot:        app.root,
				APIBaseURL:           app.cfg.API.BaseURL,
				Language:             app.cfg.Chat.Language,
				Logger:               app.log,
				Debug:                app.cfg.Logging.Debug,
			}

			return tui.Run(deps)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.debug, "debug", false, "enable verbose logging to .healthbot/logs/healthbot.log")
	pf.StringVar(&opts.api, "api", "", "portal API base URL (overrides healthbot.yaml and "+workspacefinder.EnvAPIURL+")")
	pf.StringVar(&opts.lang, "lang", "", "conversation language: en|hi")
	pf.StringVarP(&opts.workspace, "workspace", "w", "", "workspace root (optional; autodetected if omitted)")
	pf.BoolVar(&opts.noPersist, "no-persist", false, "keep the session in memory only")

	cmd.AddCommand(
		loginCmd(opts),
		registerCmd(opts),
		logoutCmd(opts),
		statusCmd(opts),
		profileCmd(opts),
		chatCmd(opts),
		healthCmd(opts),
		initCmd(opts),
		versionCmd(),
	)
	return cmd
}
