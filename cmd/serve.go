package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reliability/config"
	"reliability/logger"
	"reliability/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive charts that re-solve on every parameter change.",
		Long: `Starts an HTTP server. Every request re-solves the model with the query
parameters applied on top of the configuration, e.g.

  /?model=recoverable&mu1h=0.05     interactive chart page
  /plot/png?lambda1=1e-3            static plot (png, svg, pdf)
  /data.json                        raw grid, state probabilities and operational curve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if err := config.ValidateListen(cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()
			if err := server.New(cfg).Run(ctx); err != nil {
				logger.Errorf(ctx, "服务异常退出: %v", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}
