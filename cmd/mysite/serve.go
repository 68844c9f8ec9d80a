package main

import (
	"mysite/internal/serve"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr    string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the site server with live content reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if noWatch {
				cfg.Serve.Watch = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := serve.New(cfg, serve.Options{Logger: g.log})
			if err != nil {
				return err
			}
			defer s.Close()
			return s.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides serve.addr)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when content files change")
	return cmd
}
