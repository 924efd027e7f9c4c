package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
	"github.com/jaminalder/tic-tac-toe-history/internal/config"
	"github.com/jaminalder/tic-tac-toe-history/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("TTT_CONFIG"), "YAML config file (env: TTT_CONFIG)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides config")
	return cmd
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	log := logger.With("component", "server")

	svc := app.NewService()
	svc.SetLogger(logger)
	svc.SetTTL(cfg.Sessions.TTL)
	web.SetHeartbeat(cfg.HTTP.Heartbeat)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           web.NewServer(svc, logger),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		// event streams end when ctx does, so Shutdown is not held up by them
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	if cfg.Sessions.TTL > 0 && cfg.Sessions.SweepInterval > 0 {
		go svc.RunSweeper(sweepCtx, cfg.Sessions.SweepInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	log.Info("server stopped")
	return nil
}
