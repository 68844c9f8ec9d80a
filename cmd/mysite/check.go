package main

import (
	"errors"
	"fmt"
	"mysite/internal/index"
	"mysite/internal/ingest"
	"mysite/internal/render"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var errProblems = errors.New("check found problems")

func newCheckCmd(g *globalFlags) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate config, theme and content without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := g.cfg

			theme, err := render.ThemeFS(cfg.Build.ThemeDir, cfg.Site.Theme)
			if err != nil {
				return err
			}
			if err := render.CheckThemeTemplates(theme); err != nil {
				return fmt.Errorf("theme %s: %w", cfg.Site.Theme, err)
			}

			src := ingest.FromConfig(cfg.Content)
			lib, warns, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}

			tmp, err := os.MkdirTemp("", "mysite-check-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tmp)
			st, err := index.Open(index.OpenOptions{Path: filepath.Join(tmp, "index.db")})
			if err != nil {
				return err
			}
			defer st.Close()
			rep, err := st.Rebuild(lib)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s: %d blogs, %d projects, %d services, %d glossary terms\n",
				src, rep.Blogs, rep.Projects, rep.Services, rep.Glossary)
			for _, w := range warns {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, c := range rep.Collisions {
				fmt.Fprintf(out, "collision: feature slug %q is used by %v\n", c.Slug, c.Services)
			}
			if strict && (len(warns) > 0 || len(rep.Collisions) > 0) {
				return errProblems
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings and slug collisions")
	return cmd
}
