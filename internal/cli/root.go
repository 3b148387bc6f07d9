package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/infra/fsworkspace"
	"github.com/aalvaropc/monoledger/internal/infra/logger"
	"github.com/aalvaropc/monoledger/internal/infra/workspacefinder"
	"github.com/aalvaropc/monoledger/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "monoledger",
		Short:        "monoledger: bookkeeping for a Monopoly table",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			finder := workspacefinder.NewFinder()

			logRoot := wd
			rotate := domain.DefaultConfig().Logging
			if root, ferr := finder.FindRoot(wd); ferr == nil && root != "" {
				logRoot = root
				if cfg, cerr := workspacefinder.LoadConfig(root); cerr == nil {
					rotate = cfg.Logging
				}
			}

			cleanup, _ := logger.Setup(logger.Config{
				Root:   logRoot,
				Debug:  debug,
				Rotate: rotate,
			})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}

			deps := tui.Deps{
				WorkspaceLocator:     finder,
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Logger:               logger.L(),
				Debug:                debug,
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .monoledger/logs/monoledger.log")

	cmd.AddCommand(
		initCmd(),
		cardsCmd(),
		newSessionCmd(),
		execCmd(),
		showCmd(),
		versionCmd(),
	)
	return cmd
}
