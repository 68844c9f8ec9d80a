package main

import (
	"fmt"
	"log/slog"
	"mysite/internal/domain/config"
	"os"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "mysite",
		Short:         "Serve, build and check the marketing site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "site.yaml", "path to the site config")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newServeCmd(g), newBuildCmd(g), newCheckCmd(g))
	return root
}

// load reads the config and sets up the logger. A missing config file is fine;
// an invalid one is not.
func (g *globalFlags) load() error {
	cfg, err := config.LoadOrDefault(g.configPath)
	if err != nil {
		return fmt.Errorf("config %s: %w", g.configPath, err)
	}
	level := cfg.LogLevel()
	if g.verbose {
		level = slog.LevelDebug
	}
	g.cfg = cfg
	g.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.log)
	return nil
}
