package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/config"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/service"
	"github.com/go-co-op/gocron/v2"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	s             gocron.Scheduler
	kickerService *service.KickerService
	cfg           *config.Config
	sendMessage   func(string) error
}

// NewScheduler builds the job scheduler. sendMessage may be nil, in which
// case the weekly posts are not scheduled.
func NewScheduler(kickerService *service.KickerService, cfg *config.Config, sendMessage func(string) error, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	location := cfg.Schedule.Location
	if location == nil {
		slog.Error("Schedule location not resolved, using UTC")
		location = time.UTC
	}

	s, err := gocron.NewScheduler(append([]gocron.SchedulerOption{gocron.WithLocation(location)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:             s,
		kickerService: kickerService,
		cfg:           cfg,
		sendMessage:   sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	_, err = s.s.NewJob(
		gocron.CronJob(s.cfg.Snapshot.Refresh, false),
		gocron.NewTask(s.refreshSnapshot),
		gocron.WithName("snapshot-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create snapshot refresh job: %w", err)
	}

	// Live sync - every interval, skipped outside game windows
	_, err = s.s.NewJob(
		gocron.DurationJob(s.cfg.Schedule.LiveSyncInterval),
		gocron.NewTask(s.syncLive),
		gocron.WithName("live-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create live sync job: %w", err)
	}

	if s.sendMessage != nil {
		// Rankings - Thursday 18:30 CDT, ahead of the Thursday night game
		_, err = s.s.NewJob(
			gocron.WeeklyJob(1, gocron.NewWeekdays(time.Thursday), gocron.NewAtTimes(gocron.NewAtTime(18, 30, 0))),
			gocron.NewTask(s.postRankings),
			gocron.WithName("rankings-post"),
		)
		if err != nil {
			return fmt.Errorf("failed to create rankings job: %w", err)
		}

		// Accuracy - Tuesday 7:30 CDT, after Monday night
		_, err = s.s.NewJob(
			gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
			gocron.NewTask(s.postAccuracy),
			gocron.WithName("accuracy-post"),
		)
		if err != nil {
			return fmt.Errorf("failed to create accuracy job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refreshSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.kickerService.RefreshSnapshot(ctx); err != nil {
		slog.Error("Failed to refresh snapshot", "error", err)
	}
}

func (s *Scheduler) syncLive() {
	if !s.kickerService.HasLiveGames() {
		slog.Debug("No live games, skipping live sync")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.kickerService.SyncLive(ctx); err != nil {
		slog.Error("Failed to sync live scores", "error", err)
	}
}

func (s *Scheduler) postRankings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.kickerService.GetRankingsReport(ctx, s.cfg.TelegramBot.ChatID, "")
	if err != nil {
		slog.Error("Failed to get rankings report", "error", err)
		return
	}
	s.send(report)
}

func (s *Scheduler) postAccuracy() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	week, err := s.kickerService.LastCompletedWeek()
	if err != nil {
		slog.Error("Failed to resolve last completed week", "error", err)
		return
	}
	report, err := s.kickerService.GetAccuracyReport(ctx, s.cfg.TelegramBot.ChatID, week)
	if err != nil {
		slog.Error("Failed to get accuracy report", "error", err)
		return
	}
	s.send(report)
}

func (s *Scheduler) send(text string) {
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send scheduled message", "error", err)
	}
}
