package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type Config struct {
	Addr            string `env:"APP_ADDR" envDefault:":8080"`
	DatabaseURL     string `env:"DATABASE_URL"`
	JWTSecret       string `env:"JWT_SECRET"`
	Environment     string `env:"APP_ENV" envDefault:"development"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	RunMigrations   bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir   string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	RunSeed         bool   `env:"RUN_SEED" envDefault:"false"`
	MaxBodyBytes    int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	MetricsEnabled  bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPath     string `env:"METRICS_PATH" envDefault:"/metrics"`
	ReportsDir      string `env:"REPORTS_DIR" envDefault:"storage/reports"`
	JobQueueSize    int    `env:"JOB_QUEUE_SIZE" envDefault:"64"`
	TeamFanoutLimit int    `env:"TEAM_FANOUT_LIMIT" envDefault:"8"`
	RateLimit       int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`

	EmailEnabled bool   `env:"EMAIL_ENABLED" envDefault:"false"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"no-reply@example.com"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"true"`
}

// Load reads .env and .env.local when present, then parses the environment.
// Variables already set in the process win over the files.
func Load() (Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c Config) IsProduction() bool {
	return c.Environment == Production
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.JobQueueSize <= 0 {
		return fmt.Errorf("JOB_QUEUE_SIZE must be positive")
	}
	if c.TeamFanoutLimit <= 0 {
		return fmt.Errorf("TEAM_FANOUT_LIMIT must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.EmailEnabled && strings.TrimSpace(c.SMTPHost) == "" {
		return fmt.Errorf("SMTP_HOST is required when EMAIL_ENABLED is set")
	}
	return nil
}
