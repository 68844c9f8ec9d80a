package main

import (
	"fmt"
	"mysite/internal/build"

	"github.com/spf13/cobra"
)

func newBuildCmd(g *globalFlags) *cobra.Command {
	var (
		force  bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export every page as static HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if outDir != "" {
				cfg.Build.PublicDir = outDir
			}
			b := &build.Builder{Cfg: cfg, Force: force, Log: g.log}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				g.log.Warn("ingest warning", "detail", w.String())
			}
			for _, c := range res.Collisions {
				g.log.Warn("feature slug shared by several services", "slug", c.Slug, "services", c.Services)
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "up to date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", res.Pages, cfg.Build.PublicDir)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "rebuild even if nothing changed")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides build.public_dir)")
	return cmd
}
