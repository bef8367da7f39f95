package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/metrics"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/repository/memory"
	"github.com/jonboulle/clockwork"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	ErrSnapshotNotLoaded = errors.New("snapshot not loaded")
	ErrPlayerNotFound    = errors.New("player not found")
)

// LeagueSource supplies the snapshot and, when a league is configured, the
// live roster sync.
type LeagueSource interface {
	GetSnapshot(ctx context.Context) (*models.Snapshot, error)
	SyncEnabled() bool
	GetLiveState(ctx context.Context, week int, joinNames []string) (*models.LiveState, error)
}

// SettingsStore keeps one scoring config per chat.
type SettingsStore interface {
	GetScoring(ctx context.Context, chatID int64) (engine.ScoringConfig, bool, error)
	SaveScoring(ctx context.Context, chatID int64, cfg engine.ScoringConfig) error
	DeleteScoring(ctx context.Context, chatID int64) error
}

type KickerService struct {
	source     LeagueSource
	repo       *memory.Repository
	settings   SettingsStore
	classifier engine.Classifier
	clock      clockwork.Clock
}

func NewKickerService(source LeagueSource, repo *memory.Repository, settings SettingsStore, classifier engine.Classifier, clock clockwork.Clock) *KickerService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &KickerService{
		source:     source,
		repo:       repo,
		settings:   settings,
		classifier: classifier,
		clock:      clock,
	}
}

// RefreshSnapshot reloads the feed and replaces the cached copy.
func (s *KickerService) RefreshSnapshot(ctx context.Context) error {
	snap, err := s.source.GetSnapshot(ctx)
	metrics.SnapshotRefreshes.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("error fetching snapshot: %w", err)
	}
	s.repo.SaveSnapshot(snap, s.clock.Now())
	metrics.SnapshotWeek.Set(float64(snap.Meta.Week))
	metrics.SnapshotPlayers.Set(float64(len(snap.Rankings)))
	slog.Info("Snapshot refreshed", "week", snap.Meta.Week, "rankings", len(snap.Rankings), "updated", snap.Meta.Updated)
	return nil
}

// SyncLive pulls live kicker points and ownership from the league. It is a
// no-op when no league is configured.
func (s *KickerService) SyncLive(ctx context.Context) error {
	if !s.source.SyncEnabled() {
		return nil
	}
	snap, err := s.snapshot()
	if err != nil {
		return err
	}

	state, err := s.source.GetLiveState(ctx, snap.Meta.Week, joinNames(snap))
	metrics.LiveSyncs.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("error syncing live scores: %w", err)
	}
	s.repo.SaveLiveState(state)
	metrics.LiveOverrides.Set(float64(len(state.Overrides)))
	slog.Info("Live scores synced", "week", state.Week, "overrides", len(state.Overrides))
	return nil
}

// HasLiveGames reports whether any ranked kicker's game is in progress.
func (s *KickerService) HasLiveGames() bool {
	snap, err := s.snapshot()
	if err != nil {
		return false
	}
	now := s.clock.Now()
	for _, rec := range snap.Rankings {
		if s.classifier.Classify(rec.GameTime, now) == engine.StateLive {
			return true
		}
	}
	return false
}

// League returns the league metadata loaded at startup, or nil when no
// league is configured.
func (s *KickerService) League() *models.LeagueMetadata {
	return s.repo.GetMetadata()
}

func (s *KickerService) CurrentWeek() (int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	return snap.Meta.Week, nil
}

// LastCompletedWeek is the snapshot week once every ranked game is final,
// otherwise the week before it. Kickers on a bye (grade 0 or no parseable
// kickoff) have no game to wait for.
func (s *KickerService) LastCompletedWeek() (int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	for _, rec := range snap.Rankings {
		if rec.Grade == 0 {
			continue
		}
		if _, ok := s.classifier.ParseKickoff(rec.GameTime); !ok {
			continue
		}
		if s.classifier.Classify(rec.GameTime, now) != engine.StateFinished {
			return max(snap.Meta.Week-1, 1), nil
		}
	}
	return snap.Meta.Week, nil
}

// Scoring returns the chat's scoring config or the default.
func (s *KickerService) Scoring(ctx context.Context, chatID int64) (engine.ScoringConfig, error) {
	cfg, ok, err := s.settings.GetScoring(ctx, chatID)
	if err != nil {
		return engine.ScoringConfig{}, err
	}
	if !ok {
		return engine.DefaultScoring(), nil
	}
	return cfg, nil
}

// SetScoring changes one value of the chat's scoring config.
func (s *KickerService) SetScoring(ctx context.Context, chatID int64, key string, value float64) (engine.ScoringConfig, error) {
	cfg, err := s.Scoring(ctx, chatID)
	if err != nil {
		return engine.ScoringConfig{}, err
	}
	if err := cfg.Set(key, value); err != nil {
		return engine.ScoringConfig{}, err
	}
	cfg.Name = "custom"
	if err := s.settings.SaveScoring(ctx, chatID, cfg); err != nil {
		return engine.ScoringConfig{}, err
	}
	return cfg, nil
}

func (s *KickerService) ResetScoring(ctx context.Context, chatID int64) error {
	return s.settings.DeleteScoring(ctx, chatID)
}

// RankingFilter narrows a ranking list. Zero values keep everything.
type RankingFilter struct {
	Team         string
	Ownership    models.Ownership
	HideInactive bool
	Limit        int
}

// Rankings enriches the snapshot's ranking rows under scoring, ordered by
// projection, then season points, then name.
func (s *KickerService) Rankings(ctx context.Context, scoring engine.ScoringConfig, filter RankingFilter) ([]models.KickerView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	live := s.liveFor(snap.Meta.Week)
	now := s.clock.Now()

	views := make([]models.KickerView, 0, len(snap.Rankings))
	for _, rec := range snap.Rankings {
		if filter.Team != "" && !strings.EqualFold(rec.Team, filter.Team) {
			continue
		}
		if filter.HideInactive && isInactive(rec.InjuryStatus) {
			continue
		}
		v := s.enrich(rec, scoring, live, now).view
		if filter.Ownership != models.OwnershipUnknown && v.Ownership != filter.Ownership {
			continue
		}
		views = append(views, v)
	}

	sortViews(views)
	if filter.Limit > 0 && len(views) > filter.Limit {
		views = views[:filter.Limit]
	}
	return views, nil
}

// Leaders enriches the year-to-date rows, ordered by season points.
func (s *KickerService) Leaders(ctx context.Context, scoring engine.ScoringConfig, limit int) ([]models.KickerView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	live := s.liveFor(snap.Meta.Week)
	now := s.clock.Now()

	views := make([]models.KickerView, 0, len(snap.YTD))
	for _, rec := range snap.YTD {
		views = append(views, s.enrich(rec, scoring, live, now).view)
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].SeasonPoints != views[j].SeasonPoints {
			return views[i].SeasonPoints > views[j].SeasonPoints
		}
		return views[i].Name < views[j].Name
	})
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

// Explain finds the player closest to query and itemizes their points and
// projection under scoring.
func (s *KickerService) Explain(ctx context.Context, scoring engine.ScoringConfig, query string) (*models.PlayerExplanation, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	rec, ok := findPlayer(snap.Rankings, query)
	if !ok {
		rec, ok = findPlayer(snap.YTD, query)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, query)
	}

	e := s.enrich(rec, scoring, s.liveFor(snap.Meta.Week), s.clock.Now())
	return &models.PlayerExplanation{
		View:       e.view,
		Scoring:    scoring,
		Season:     e.season,
		Week:       e.week,
		Inputs:     e.inputs,
		Projection: e.projection,
		History:    rec.History,
	}, nil
}

// Accuracy compares live scores with projections for week. The current
// week uses ranked kickers whose games have started; earlier weeks use the
// projected games in each player's history. week <= 0 means current.
func (s *KickerService) Accuracy(ctx context.Context, scoring engine.ScoringConfig, week int) (*models.AccuracyReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if week <= 0 {
		week = snap.Meta.Week
	}

	report := &models.AccuracyReport{Week: week, Current: week == snap.Meta.Week}
	if report.Current {
		live := s.liveFor(week)
		now := s.clock.Now()
		for _, rec := range snap.Rankings {
			v := s.enrich(rec, scoring, live, now).view
			if v.Status == engine.StateUpcoming {
				continue
			}
			report.Rows = append(report.Rows, accuracyRow(v.Name, v.Team, v.LivePoints, float64(v.Projection)))
		}
	} else {
		for _, rec := range historyRecords(snap) {
			for _, h := range rec.History {
				if h.Week != week || h.Projected == nil {
					continue
				}
				report.Rows = append(report.Rows, accuracyRow(rec.Name, rec.Team, h.Points, *h.Projected))
			}
		}
	}

	samples := make([]engine.AccuracySample, len(report.Rows))
	for i, row := range report.Rows {
		samples[i] = engine.AccuracySample{LiveScore: row.Live, ProjectedScore: row.Projected}
	}
	report.Summary = engine.Aggregate(samples)

	sort.SliceStable(report.Rows, func(i, j int) bool {
		if report.Rows[i].Diff != report.Rows[j].Diff {
			return report.Rows[i].Diff > report.Rows[j].Diff
		}
		return report.Rows[i].Name < report.Rows[j].Name
	})
	return report, nil
}

// Injuries returns the snapshot's injury report ordered by team.
func (s *KickerService) Injuries(ctx context.Context) ([]models.PlayerRecord, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]models.PlayerRecord, len(snap.Injuries))
	copy(out, snap.Injuries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *KickerService) snapshot() (*models.Snapshot, error) {
	snap, _ := s.repo.GetSnapshot()
	if snap == nil {
		return nil, ErrSnapshotNotLoaded
	}
	return snap, nil
}

// liveFor returns the synced live state if it belongs to week.
func (s *KickerService) liveFor(week int) *models.LiveState {
	live := s.repo.GetLiveState()
	if live == nil || live.Week != week {
		return nil
	}
	return live
}

func accuracyRow(name, team string, live, projected float64) models.AccuracyRow {
	diff := live - projected
	return models.AccuracyRow{
		Name:      name,
		Team:      team,
		Live:      live,
		Projected: projected,
		Diff:      diff,
		Outcome:   engine.ClassifyDiff(diff),
	}
}

// historyRecords returns every player once, preferring ranking rows over
// year-to-date rows.
func historyRecords(snap *models.Snapshot) []models.PlayerRecord {
	seen := make(map[string]bool, len(snap.Rankings))
	var out []models.PlayerRecord
	for _, list := range [][]models.PlayerRecord{snap.Rankings, snap.YTD} {
		for _, rec := range list {
			key := rec.JoinName()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, rec)
		}
	}
	return out
}

func joinNames(snap *models.Snapshot) []string {
	names := make([]string, 0, len(snap.Rankings))
	for _, rec := range snap.Rankings {
		names = append(names, rec.JoinName())
	}
	return names
}

func isInactive(status string) bool {
	switch strings.ToUpper(status) {
	case "OUT", "IR", "INJURY_RESERVE", "SUSPENSION":
		return true
	}
	return false
}

func sortViews(views []models.KickerView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Projection != views[j].Projection {
			return views[i].Projection > views[j].Projection
		}
		if views[i].SeasonPoints != views[j].SeasonPoints {
			return views[i].SeasonPoints > views[j].SeasonPoints
		}
		return views[i].Name < views[j].Name
	})
}

// findPlayer matches query against display and join names: exact
// (case-insensitive) first, then the closest fuzzy match.
func findPlayer(records []models.PlayerRecord, query string) (models.PlayerRecord, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.PlayerRecord{}, false
	}
	for _, rec := range records {
		if strings.EqualFold(rec.Name, query) || strings.EqualFold(rec.JoinName(), query) {
			return rec, true
		}
	}

	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return models.PlayerRecord{}, false
	}
	sort.Sort(ranks)
	return records[ranks[0].OriginalIndex], true
}
