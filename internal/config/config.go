// Package config loads runtime settings from the environment, reading a
// .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"habitTrackerAPI/internal/progress"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBMaxConns  int32

	ClerkSecretKey     string
	ClerkWebhookSecret string

	MetricsUser string
	MetricsPass string
	PprofSecret string

	DefaultTimezone *time.Location

	PointsPerCompletion int
	LevelMultiplier     float64
	BaseLevelPoints     int
	StreakWindowDays    int
	StreakMilestones    []int

	RateLimitRPS   float64
	RateLimitBurst int

	FCMCredentialsFile string

	// ReminderHour is the local hour for daily habit reminders; -1 turns them off.
	ReminderHour int
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	var errs []error
	p := parser{getenv: getenv, errs: &errs}

	cfg := &Config{
		Port:                p.str("PORT", "3333"),
		DatabaseURL:         p.str("DATABASE_URL", ""),
		DBMaxConns:          int32(p.int("DB_MAX_CONNS", 25)),
		ClerkSecretKey:      p.str("CLERK_SECRET_KEY", ""),
		ClerkWebhookSecret:  p.str("CLERK_WEBHOOK_SECRET", ""),
		MetricsUser:         p.str("METRICS_USER", ""),
		MetricsPass:         p.str("METRICS_PASS", ""),
		PprofSecret:         p.str("PPROF_SECRET", ""),
		PointsPerCompletion: p.int("POINTS_PER_COMPLETION", progress.DefaultCompletionXP),
		LevelMultiplier:     p.float("LEVEL_MULTIPLIER", progress.DefaultLevelMultiplier),
		BaseLevelPoints:     p.int("BASE_LEVEL_POINTS", progress.DefaultBaseThreshold),
		StreakWindowDays:    p.int("STREAK_WINDOW_DAYS", 30),
		StreakMilestones:    p.ints("STREAK_MILESTONES", []int{7, 30, 100}),
		RateLimitRPS:        p.float("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      p.int("RATE_LIMIT_BURST", 30),
		FCMCredentialsFile:  p.str("FCM_CREDENTIALS_FILE", "./serviceAccountKey.json"),
		ReminderHour:        p.int("REMINDER_HOUR", 20),
	}

	tz := p.str("DEFAULT_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_TIMEZONE: unknown zone %q", tz))
		loc = time.Local
	}
	cfg.DefaultTimezone = loc

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable is not set"))
	}
	if c.ClerkSecretKey == "" {
		errs = append(errs, errors.New("CLERK_SECRET_KEY environment variable is not set"))
	}
	if c.PointsPerCompletion <= 0 || c.PointsPerCompletion > progress.MaxPointsAward {
		errs = append(errs, fmt.Errorf("POINTS_PER_COMPLETION must be in 1..%d, got %d", progress.MaxPointsAward, c.PointsPerCompletion))
	}
	if c.StreakWindowDays < 0 {
		errs = append(errs, fmt.Errorf("STREAK_WINDOW_DAYS must not be negative, got %d", c.StreakWindowDays))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns))
	}
	if c.ReminderHour < -1 || c.ReminderHour > 23 {
		errs = append(errs, fmt.Errorf("REMINDER_HOUR must be between -1 and 23, got %d", c.ReminderHour))
	}
	if _, err := c.LevelCurve(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) LevelCurve() (progress.LevelCurve, error) {
	return progress.NewLevelCurve(c.LevelMultiplier, c.BaseLevelPoints)
}

type parser struct {
	getenv func(string) string
	errs   *[]error
}

func (p parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p parser) int(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (p parser) float(key string, def float64) float64 {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %q is not a number", key, v))
		return def
	}
	return f
}

// ints parses a comma separated list such as "7,30,100".
func (p parser) ints(key string, def []int) []int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			*p.errs = append(*p.errs, fmt.Errorf("%s: %q is not a positive integer", key, part))
			continue
		}
		out = append(out, n)
	}
	return out
}
