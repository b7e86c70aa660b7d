package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vytor/pixelplay/internal/api"
	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/game"
	"github.com/vytor/pixelplay/internal/jobs"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/notify"
	"github.com/vytor/pixelplay/internal/services"
	"github.com/vytor/pixelplay/internal/worker"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

// newRecordPool runs recording on one worker. Streaks and played days are
// folded in the order sessions finish, so jobs must not overtake each other.
func newRecordPool(queueSize int) *worker.Pool {
	return worker.NewPool(1, queueSize)
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Default()

	log.Info("===========================================")
	log.Info("PixelPlay Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("storage=%s db_path=%s", cfg.Storage, cfg.DBPath)
	log.Debug("log_level=%s timezone=%s", cfg.LogLevel, cfg.Timezone)
	log.Debug("record_queue_size=%d", cfg.RecordQueueSize)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open storage: %v", err)
		return err
	}
	defer st.Close()

	clk := clock.Real()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.NotificationsEnabled {
		timers := notify.NewTimerNotifier(nil)
		defer timers.Close()
		notifier = timers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsService := services.NewStatsService(st.repos, clk, loc)
	recordPool := newRecordPool(cfg.RecordQueueSize)
	recordPool.Start(context.WithoutCancel(ctx))
	queue := jobs.NewWorkerQueue(recordPool, statsService)

	gameService := services.NewGameService(st.repos.Profiles, st.repos.Games, queue, game.WithClock(clk))
	focusService := services.NewFocusService(st.repos.Profiles, st.repos.Focus, queue, clk, loc, notifier)

	srv := &api.Server{
		GameService:    gameService,
		FocusService:   focusService,
		ProfileService: services.NewProfileService(st.repos.Profiles, clk),
		StatsService:   statsService,
		HistoryLimit:   cfg.HistoryLimit,
	}
	if st.database != nil {
		srv.DB = st.database
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error: %v", err)
			gameService.Close()
			focusService.Close()
			recordPool.Stop()
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("closing session engines")
	gameService.Close()
	focusService.Close()

	log.Debug("draining record pool")
	recordPool.Stop()

	log.Info("===========================================")
	log.Info("PixelPlay Server Stopped")
	log.Info("===========================================")
	return nil
}
