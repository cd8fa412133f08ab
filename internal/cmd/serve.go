package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/eventra-io/eventra/internal/actor"
	"github.com/eventra-io/eventra/internal/config"
	"github.com/eventra-io/eventra/internal/dispatch"
	"github.com/eventra-io/eventra/internal/retention"
	"github.com/eventra-io/eventra/internal/scope"
	"github.com/eventra-io/eventra/internal/server"
	"github.com/eventra-io/eventra/internal/store"
	"github.com/eventra-io/eventra/internal/tool"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Eventra API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}
	if len(cfg.APIKeys) == 0 {
		log.Warn().Msg("EVENTRA_API_KEYS not set — all API endpoints will return 401. Set for production.")
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	catalogs := tool.BuildCatalogs()
	builder := scope.NewBuilder(st)
	dispatcher := dispatch.New(st, catalogs,
		dispatch.WithFailureTracker(dispatch.NewFailureTracker(0, 0)))
	limiter := actor.NewLimiter(cfg.RateLimitRPS)

	sweeper := retention.NewSweeper(st, cfg.RetentionDays)
	if err := sweeper.Register(cfg.SweepSchedule); err != nil {
		return fmt.Errorf("registering retention sweep: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv := server.NewServer(st, builder, dispatcher, catalogs, cfg.APIKeys,
		server.WithLimiter(limiter))

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("db", cfg.DBPath()).
		Str("sweep_schedule", cfg.SweepSchedule).
		Msg("eventra_serve_started")

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown_signal_received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server_stopped")
	return nil
}
