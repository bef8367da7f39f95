package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	ESPNAPI     ESPNAPI
	Snapshot    Snapshot
	Schedule    Schedule
	Games       Games
	Server      Server
	Database    Database
	Log         Log
}

// TelegramBot is optional; the bot does not start without a token.
type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

func (t TelegramBot) Enabled() bool {
	return t.Token != ""
}

// ESPNAPI is optional; roster sync is off without a league id.
type ESPNAPI struct {
	Year     string `envconfig:"YEAR"`
	LeagueID string `envconfig:"LEAGUE_ID"`
	SWID     string `envconfig:"SWID"`
	ESPNS2   string `envconfig:"ESPN_S2"`
	MyTeamID int    `envconfig:"MY_TEAM_ID"`
	BaseURL  string `envconfig:"ESPN_BASE_URL" default:"https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"`
}

func (e ESPNAPI) Enabled() bool {
	return e.LeagueID != ""
}

type Snapshot struct {
	URL     string        `envconfig:"SNAPSHOT_URL" required:"true"`
	Refresh string        `envconfig:"SNAPSHOT_REFRESH" default:"*/15 * * * *"`
	Timeout time.Duration `envconfig:"SNAPSHOT_TIMEOUT" default:"10s"`
	// Attempts counts the first try; transient failures back off from RetryDelay.
	Attempts   uint          `envconfig:"SNAPSHOT_ATTEMPTS" default:"3"`
	RetryDelay time.Duration `envconfig:"SNAPSHOT_RETRY_DELAY" default:"500ms"`
}

type Schedule struct {
	Timezone         string         `envconfig:"SCHEDULE_TIMEZONE" default:"America/Chicago"`
	LiveSyncInterval time.Duration  `envconfig:"LIVE_SYNC_INTERVAL" default:"5m"`
	Location         *time.Location `ignored:"true"`
}

// Games controls kickoff parsing. Kickoff strings without an offset are
// read as wall-clock time in KickoffTimezone.
type Games struct {
	KickoffTimezone string         `envconfig:"KICKOFF_TIMEZONE" default:"America/New_York"`
	LiveWindow      time.Duration  `envconfig:"LIVE_WINDOW" default:"4h30m"`
	Location        *time.Location `ignored:"true"`
}

type Server struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

// Database is optional; scoring settings stay in memory without a URL.
type Database struct {
	URL string `envconfig:"DATABASE_URL"`
}

type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) resolve() error {
	if c.Snapshot.URL == "" {
		return fmt.Errorf("SNAPSHOT_URL must not be empty")
	}
	if _, err := cron.ParseStandard(c.Snapshot.Refresh); err != nil {
		return fmt.Errorf("invalid SNAPSHOT_REFRESH %q: %w", c.Snapshot.Refresh, err)
	}

	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", c.Schedule.Timezone, err)
	}
	c.Schedule.Location = loc

	loc, err = time.LoadLocation(c.Games.KickoffTimezone)
	if err != nil {
		return fmt.Errorf("invalid KICKOFF_TIMEZONE %q: %w", c.Games.KickoffTimezone, err)
	}
	c.Games.Location = loc

	if c.Games.LiveWindow <= 0 {
		return fmt.Errorf("LIVE_WINDOW must be positive, got %s", c.Games.LiveWindow)
	}
	if c.Schedule.LiveSyncInterval <= 0 {
		return fmt.Errorf("LIVE_SYNC_INTERVAL must be positive, got %s", c.Schedule.LiveSyncInterval)
	}
	if c.ESPNAPI.Enabled() && c.ESPNAPI.Year == "" {
		return fmt.Errorf("YEAR is required when LEAGUE_ID is set")
	}
	return nil
}
