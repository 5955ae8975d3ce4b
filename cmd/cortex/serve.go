package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/internal/presentation/tui"
	"github.com/aretw0/cortex/internal/runtime"
	httpAdapter "github.com/aretw0/cortex/pkg/adapters/http"
	"github.com/aretw0/cortex/pkg/adapters/redis"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the brain with its HTTP API",
	Long: `Starts the brain, ticks it on the configured cadence, and exposes it over HTTP:
a JSON API for extractors, an SSE stream of snapshots for renderers, and Prometheus metrics.
When redis.addr is set, every snapshot is also mirrored to Redis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}
		logger := cfg.Logger()

		metrics := observability.NewMetrics()
		brain, err := newBrain(cfg, logger, cortex.WithLifecycleHooks(metrics.Hooks(domain.LifecycleHooks{})))
		if err != nil {
			return err
		}
		metricsSub := brain.Subscribe(metrics)
		defer metricsSub.Unsubscribe()

		// Create a context that cancels on interrupt signal
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Redis.Addr != "" {
			mirror := redis.New(cfg.Redis.Addr,
				redis.WithChannel(cfg.Redis.Channel),
				redis.WithKey(cfg.Redis.Key),
				redis.WithLogger(logger),
			)
			defer mirror.Close()
			if err := mirror.Ping(ctx); err != nil {
				return fmt.Errorf("redis mirror unavailable at %s: %w", cfg.Redis.Addr, err)
			}
			mirrorSub := brain.Subscribe(mirror)
			defer mirrorSub.Unsubscribe()
			go mirror.Run(ctx)
			logger.Info("mirroring snapshots to redis", "addr", cfg.Redis.Addr, "channel", mirror.Channel(), "key", mirror.Key())
		}

		scheduler := runtime.NewScheduler(brain,
			runtime.WithInterval(cfg.Interval()),
			runtime.WithLogger(logger),
		)
		go scheduler.Run(ctx)

		api := httpAdapter.NewServer(brain,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(metrics.Handler()),
		)
		defer api.Close()

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: api,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			serverErrors <- srv.ListenAndServe()
		}()

		if isTerminal() {
			tui.PrintBanner(os.Stdout)
		}
		logger.Info("cortex listening", "address", srv.Addr, "regions", len(brain.Regions()), "tick", cfg.Interval())

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil

		case <-ctx.Done():
			logger.Info("shutdown signal received")

			// End event streams first so Shutdown does not wait on them.
			api.Close()

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			logger.Info("cortex stopped gracefully", "ticks", scheduler.Ticks())
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on, overrides http.addr")
}
