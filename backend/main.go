package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	tickInterval    = 50 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("config-invalid")
	}
	if err := configStore.Update(cfg); err != nil {
		log.Fatal().Err(err).Msg("config-invalid")
	}
	applyLogLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("backend-exit")
		os.Exit(1)
	}
}

func run(cfg Config) error {
	if cfg.ProfileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfileDir), profile.Quiet, profile.NoShutdownHook).Stop()
	}

	settings := DefaultGameSettings()
	settings.BoardSize = cfg.Engine.BoardSize
	controller := NewGameController(settings)
	hub := NewHub()
	analysisHub := NewAnalysisHub()
	moveCache := NewMoveCache(cfg.MoveCacheLimit)

	controller.SetAnalysisPublisher(
		func() bool { return analysisHub.HasClients() && GetConfig().AnalysisStream },
		func(player PlayerColor, stones int) RootObserver {
			throttle := time.Duration(GetConfig().AiThrottleMs) * time.Millisecond
			return analysisHub.Observer(player, stones, throttle)
		},
	)

	srv := newServer(controller, hub, analysisHub, moveCache)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		analysisHub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		runTickLoop(ctx, controller, hub)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Msg("backend-listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("backend-shutting-down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("graceful-shutdown-failed")
			return httpServer.Close()
		}
		return nil
	})
	return g.Wait()
}

// runTickLoop drives AI turns and pushes every placed stone to the hub.
func runTickLoop(ctx context.Context, controller *GameController, hub *Hub) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !controller.Tick() {
				continue
			}
			if entry, ok := controller.LatestHistoryEntry(); ok {
				hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
			}
			hub.PublishStatus(controllerStatus(controller))
		}
	}
}

func applyLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
