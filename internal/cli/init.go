package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sihhealth/healthbot/internal/buildinfo"
	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/fsworkspace"
	"github.com/sihhealth/healthbot/internal/usecase"
)

func initCmd(opts *globalOptions) *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create healthbot.yaml and the .healthbot state directory (honours --api and --lang)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := path
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			spec := domain.WorkspaceSpec{
				Root:       root,
				APIBaseURL: strings.TrimSpace(opts.api),
				Language:   domain.Language(strings.ToLower(strings.TrimSpace(opts.lang))),
			}
			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(spec, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Workspace ready: %s\n", root)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "", "Directory to initialize (default: current directory)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite an existing healthbot.yaml")
	return c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
