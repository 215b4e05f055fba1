// config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port           int      `env:"PORT" envDefault:"5200"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	StaticDir      string   `env:"STATIC_DIR" envDefault:"./build"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"json"`

	// 0 disables the sweep
	AggregationSweepInterval time.Duration `env:"AGGREGATION_SWEEP_INTERVAL" envDefault:"1m"`

	Database Database
	NATS     NATS
	R2       R2
}

type Database struct {
	URL    string `env:"DATABASE_URL,required,notEmpty"`
	Driver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
}

// NATS relays live messages between server instances when URL is set
type NATS struct {
	URL     string `env:"NATS_URL"`
	Subject string `env:"NATS_SUBJECT" envDefault:"slam.live"`
}

// R2 is the Cloudflare R2 bucket used for results archives
type R2 struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

// Enabled reports whether enough R2 settings are present to upload archives.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.Bucket != ""
}

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading environment variables directly")
	}
	return Parse()
}

// Parse decodes the process environment into a Config and validates it.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q (use postgres or sqlite)", cfg.Database.Driver)
	}

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg.AllowedOrigins = origins

	if cfg.Port <= 0 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.AggregationSweepInterval < 0 {
		return Config{}, fmt.Errorf("AGGREGATION_SWEEP_INTERVAL must not be negative")
	}
	return cfg, nil
}

// NewLogger builds the process logger from LogFormat
func (c Config) NewLogger() *slog.Logger {
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
