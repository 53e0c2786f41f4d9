package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sieve/pkg/form"
	"github.com/dmitrymomot/sieve/pkg/httpserver"
	"github.com/dmitrymomot/sieve/pkg/logger"
	"github.com/dmitrymomot/sieve/pkg/redis"
	"github.com/dmitrymomot/sieve/pkg/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the validation HTTP API",
		Long:  `Serves the registered forms over HTTP until interrupted. See HTTP_*, REDIS_* and RATE_LIMIT_* variables for tuning.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a := appFrom(cmd)
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}

			client, err := a.redisClient(ctx)
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
			}

			forms, err := form.NewRegistry(ctx, a.formSources(client)...)
			if err != nil {
				return err
			}
			tr, err := a.translator(ctx)
			if err != nil {
				return err
			}
			v, err := a.validator(tr)
			if err != nil {
				return err
			}

			opts := []server.Option{
				server.WithLogger(a.log),
				server.WithMetrics(server.NewMetrics()),
				server.WithTrustProxy(a.cfg.TrustProxy),
			}
			if tr != nil {
				opts = append(opts, server.WithTranslator(tr))
			}
			if client != nil {
				opts = append(opts, server.WithHealthCheck("redis", redis.Healthcheck(client)))
			}
			limiter, err := a.rateLimiter(client)
			if err != nil {
				return err
			}
			if limiter != nil {
				opts = append(opts, server.WithRateLimiter(limiter))
			}
			srv, err := server.New(forms, v, opts...)
			if err != nil {
				return err
			}

			a.log.InfoContext(ctx, "forms loaded",
				logger.Component("sieve"),
				slog.Int("forms", len(forms.Names())),
			)
			return httpserver.NewFromConfig(a.cfg.HTTP, httpserver.WithLogger(a.log)).Run(ctx, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}
