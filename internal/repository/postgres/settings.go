package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS scoring_settings (
	chat_id    BIGINT PRIMARY KEY,
	config     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SettingsStore persists per-chat scoring configs in Postgres.
type SettingsStore struct {
	DB *sql.DB
}

// Open connects to dsn and makes sure the settings table exists.
func Open(ctx context.Context, dsn string) (*SettingsStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating scoring_settings: %w", err)
	}
	return &SettingsStore{DB: db}, nil
}

func (s *SettingsStore) Close() error {
	return s.DB.Close()
}

func (s *SettingsStore) GetScoring(ctx context.Context, chatID int64) (engine.ScoringConfig, bool, error) {
	var raw []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT config FROM scoring_settings WHERE chat_id = $1`, chatID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.ScoringConfig{}, false, nil
	}
	if err != nil {
		return engine.ScoringConfig{}, false, fmt.Errorf("loading scoring for chat %d: %w", chatID, err)
	}

	var cfg engine.ScoringConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return engine.ScoringConfig{}, false, fmt.Errorf("decoding scoring for chat %d: %w", chatID, err)
	}
	return cfg, true, nil
}

func (s *SettingsStore) SaveScoring(ctx context.Context, chatID int64, cfg engine.ScoringConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding scoring: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO scoring_settings (chat_id, config, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (chat_id) DO UPDATE SET config = EXCLUDED.config, updated_at = now()`,
		chatID, raw)
	if err != nil {
		return fmt.Errorf("saving scoring for chat %d: %w", chatID, err)
	}
	return nil
}

func (s *SettingsStore) DeleteScoring(ctx context.Context, chatID int64) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM scoring_settings WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("deleting scoring for chat %d: %w", chatID, err)
	}
	return nil
}
