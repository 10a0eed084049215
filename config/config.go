package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds the MongoDB connection settings.
type DatabaseConfig struct {
	URI             string        `yaml:"uri"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	DatabaseName    string        `yaml:"database"`
	RetryWrites     bool          `yaml:"retry_writes"`
}

// Collections names every Mongo collection the service writes to.
type Collections struct {
	Users       string `yaml:"users"`
	Sessions    string `yaml:"sessions"`
	Events      string `yaml:"events"`
	Goals       string `yaml:"goals"`
	Habits      string `yaml:"habits"`
	Completions string `yaml:"habit_completions"`
	Memos       string `yaml:"habit_memos"`
	Settings    string `yaml:"settings"`
}

type AuthConfig struct {
	JWTSecretKey         string `yaml:"jwt_secret_key"`
	JWTExpiration        int64  `yaml:"jwt_expiration"`         // seconds
	RefreshExpiration    int64  `yaml:"refresh_expiration"`     // seconds
	SessionDurationHours int    `yaml:"session_duration_hours"` // cookie lifetime
}

type Config struct {
	Env              string         `yaml:"env"`
	Port             string         `yaml:"port"`
	LogLevel         string         `yaml:"log_level"`
	RedisURL         string         `yaml:"redis_url"`
	AllowedOrigins   []string       `yaml:"allowed_origins"`
	SessionSweepCron string         `yaml:"session_sweep_cron"`
	SettingsCacheTTL time.Duration  `yaml:"settings_cache_ttl"`
	Database         DatabaseConfig `yaml:"database"`
	Collections      Collections    `yaml:"collections"`
	Auth             AuthConfig     `yaml:"auth"`
}

func DefaultConfig() *Config {
	return &Config{
		Env:              "development",
		Port:             "8080",
		LogLevel:         "info",
		SessionSweepCron: "*/15 * * * *",
		SettingsCacheTTL: 30 * time.Minute,
		Database: DatabaseConfig{
			URI:             "mongodb://localhost:27017",
			MaxPoolSize:     100,
			MinPoolSize:     10,
			MaxConnIdleTime: 60 * time.Second,
			DatabaseName:    "timetrack",
			RetryWrites:     true,
		},
		Collections: Collections{
			Users:       "users",
			Sessions:    "sessions",
			Events:      "events",
			Goals:       "goals",
			Habits:      "habits",
			Completions: "habit_completions",
			Memos:       "habit_memos",
			Settings:    "settings",
		},
		Auth: AuthConfig{
			JWTExpiration:        3600,
			RefreshExpiration:    604800,
			SessionDurationHours: 24,
		},
	}
}

// Load builds the configuration in three layers: defaults, the optional YAML
// file named by CONFIG_FILE, then environment variables (after .env is read).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := DefaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	cfg.Env = utils.GetEnvAsString("GO_ENV", cfg.Env)
	cfg.Port = utils.GetEnvAsString("PORT", cfg.Port)
	cfg.LogLevel = utils.GetEnvAsString("LOG_LEVEL", cfg.LogLevel)
	cfg.RedisURL = utils.GetEnvAsString("REDIS_URL", cfg.RedisURL)
	cfg.SessionSweepCron = utils.GetEnvAsString("SESSION_SWEEP_CRON", cfg.SessionSweepCron)
	cfg.SettingsCacheTTL = utils.GetEnvAsDuration("SETTINGS_CACHE_TTL", cfg.SettingsCacheTTL)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	cfg.Database.URI = utils.GetEnvAsString("MONGO_URI", cfg.Database.URI)
	cfg.Database.DatabaseName = utils.GetEnvAsString("MONGO_DB", cfg.Database.DatabaseName)
	cfg.Database.MaxPoolSize = utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", cfg.Database.MaxPoolSize)
	cfg.Database.MinPoolSize = utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", cfg.Database.MinPoolSize)
	cfg.Database.MaxConnIdleTime = time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME",
		int(cfg.Database.MaxConnIdleTime/time.Second))) * time.Second
	cfg.Database.RetryWrites = utils.GetEnvAsBool("MONGO_RETRY_WRITES", cfg.Database.RetryWrites)

	cfg.Collections.Users = utils.GetEnvAsString("USERS_COLLECTION", cfg.Collections.Users)
	cfg.Collections.Sessions = utils.GetEnvAsString("SESSIONS_COLLECTION", cfg.Collections.Sessions)
	cfg.Collections.Events = utils.GetEnvAsString("EVENTS_COLLECTION", cfg.Collections.Events)
	cfg.Collections.Goals = utils.GetEnvAsString("GOALS_COLLECTION", cfg.Collections.Goals)
	cfg.Collections.Habits = utils.GetEnvAsString("HABITS_COLLECTION", cfg.Collections.Habits)
	cfg.Collections.Completions = utils.GetEnvAsString("COMPLETIONS_COLLECTION", cfg.Collections.Completions)
	cfg.Collections.Memos = utils.GetEnvAsString("MEMOS_COLLECTION", cfg.Collections.Memos)
	cfg.Collections.Settings = utils.GetEnvAsString("SETTINGS_COLLECTION", cfg.Collections.Settings)

	cfg.Auth.JWTSecretKey = utils.GetEnvAsString("JWT_SECRET_KEY", cfg.Auth.JWTSecretKey)
	cfg.Auth.JWTExpiration = int64(utils.GetEnvAsInt("JWT_EXPIRATION_TIME", int(cfg.Auth.JWTExpiration)))
	cfg.Auth.RefreshExpiration = int64(utils.GetEnvAsInt("REFRESH_TOKEN_EXPIRATION_TIME", int(cfg.Auth.RefreshExpiration)))
	cfg.Auth.SessionDurationHours = utils.GetEnvAsInt("SESSION_DURATION", cfg.Auth.SessionDurationHours)
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	switch {
	case c.Auth.JWTSecretKey == "":
		return errors.New("JWT_SECRET_KEY is not set")
	case c.Auth.JWTExpiration <= 0:
		return errors.New("JWT_EXPIRATION_TIME must be positive")
	case c.Auth.RefreshExpiration <= 0:
		return errors.New("REFRESH_TOKEN_EXPIRATION_TIME must be positive")
	case c.Database.URI == "":
		return errors.New("MONGO_URI is not set")
	case c.Database.DatabaseName == "":
		return errors.New("MONGO_DB is not set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) SessionDuration() time.Duration {
	return time.Duration(c.Auth.SessionDurationHours) * time.Hour
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
