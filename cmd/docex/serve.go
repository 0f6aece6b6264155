package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docex/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var (
		addr           string
		corsOrigins    string
		timeoutSeconds int64
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the local HTTP API",
		Example: "  docex serve --bucket document-samples --addr :8080",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			svc, err := buildService(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Storage reachability is reported via /readyz, not fatal here.
			if err := svc.Warmup(ctx); err != nil {
				logger.Warn().Err(err).Msg("storage not reachable yet")
			}

			httpapi.SetLogger(logger)
			httpapi.SetBaseContext(ctx)
			httpapi.SetExtractTimeoutSeconds(timeoutSeconds)
			if origins := splitCSV(corsOrigins); len(origins) > 0 {
				httpapi.SetCORSOptions(true, origins,
					[]string{"GET", "POST", "OPTIONS"}, []string{"Content-Type", "X-Log-Level"})
			}

			srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(svc)}
			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", cfg.Addr).Str("storage", svc.Status().Storage).
					Msg("docex listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("graceful shutdown")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated origins allowed for CORS")
	cmd.Flags().Int64Var(&timeoutSeconds, "extract-timeout", 0, "Per-request extract timeout in seconds (0 disables)")
	return cmd
}
