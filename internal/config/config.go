// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "HQ_"

type Config struct {
	DBPath          string        `env:"DB_PATH" envDefault:"~/.habitquest.db"`
	User            string        `env:"USER" envDefault:"main_user"`
	DisplayName     string        `env:"DISPLAY_NAME" envDefault:"You"`
	StreakCap       int           `env:"STREAK_CAP" envDefault:"14"`
	WheelExtraTurns int           `env:"WHEEL_EXTRA_TURNS" envDefault:"5"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	FeedURL         string        `env:"FEED_URL"`
	FeedTimeout     time.Duration `env:"FEED_TIMEOUT" envDefault:"3s"`
}

// ParseEnv fills target from HQ_-prefixed environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files (".env" when none are given) and then
// parses and validates the environment. Variables already set win over the
// files. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.User) == "" {
		errs = append(errs, errors.New("user must not be empty"))
	}
	if c.StreakCap <= 0 {
		errs = append(errs, fmt.Errorf("streak cap must be positive, got %d", c.StreakCap))
	}
	if c.WheelExtraTurns < 0 {
		errs = append(errs, fmt.Errorf("wheel extra turns must not be negative, got %d", c.WheelExtraTurns))
	}
	if c.FeedTimeout <= 0 {
		errs = append(errs, fmt.Errorf("feed timeout must be positive, got %s", c.FeedTimeout))
	}
	return errors.Join(errs...)
}
