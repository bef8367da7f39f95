package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/api/espn"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/api/fantasy"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/api/snapshot"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/bot"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/config"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/repository/memory"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/repository/postgres"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/scheduler"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/server"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/service"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var espnAPI *espn.API
	if cfg.ESPNAPI.Enabled() {
		espnAPI = espn.NewAPI(espn.NewClient(cfg.ESPNAPI))
	}
	fantasyAPI := fantasy.NewAPI(snapshot.NewClient(cfg.Snapshot), espnAPI, cfg.ESPNAPI.MyTeamID)

	repo := memory.NewRepository()
	var settings service.SettingsStore = repo
	if cfg.Database.URL != "" {
		store, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer store.Close()
		settings = store
		slog.Info("Scoring settings stored in Postgres")
	}

	if fantasyAPI.SyncEnabled() {
		metadata, err := fantasyAPI.GetLeagueMetadata(ctx)
		if err != nil {
			slog.Error("Failed to load league metadata", "error", err)
		} else {
			repo.SaveMetadata(metadata)
			slog.Info("League loaded", "name", metadata.Name, "week", metadata.CurrentWeek)
		}
	}

	classifier := engine.NewClassifier(cfg.Games.Location, cfg.Games.LiveWindow)
	kickerService := service.NewKickerService(fantasyAPI, repo, settings, classifier, nil)

	if err := kickerService.RefreshSnapshot(ctx); err != nil {
		// The scheduled refresh retries; the API answers 503 until then.
		slog.Error("Initial snapshot load failed", "error", err)
	}

	var sendMessage func(string) error
	var telegramBot *bot.TelegramBot
	if cfg.TelegramBot.Enabled() {
		telegramBot, err = bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, kickerService)
		if err != nil {
			return err
		}
		sendMessage = telegramBot.SendMessage
	}

	sched, err := scheduler.NewScheduler(kickerService, cfg, sendMessage)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	srv := server.New(cfg.Server.Addr, kickerService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	if telegramBot != nil {
		g.Go(func() error {
			return telegramBot.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
