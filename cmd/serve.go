package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"opportunity-radar/handlers"
	"opportunity-radar/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := loadApp(ctx, cfgFile)
	if err != nil {
		return err
	}
	defer a.Close()

	router, err := server.SetupRouter(a.logger, a.metrics, a.cfg.GinMode)
	if err != nil {
		return err
	}
	handlers.New(handlers.Deps{
		Session: a.session,
		Tickets: a.tickets,
		News:    a.news,
		Engine:  a.engine,
		Logger:  a.logger,
	}).Register(router)

	a.logger.WithField("dashboard", "http://localhost:"+a.cfg.Port+"/dashboard").Info("Opportunity Radar ready")
	return server.Start(ctx, server.DefaultConfig(a.cfg.Port), router, a.logger)
}
