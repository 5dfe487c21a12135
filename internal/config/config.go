package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken       string `yaml:"telegram_token"`
	DatabaseURL         string `yaml:"database_url"`
	ReminderIntervalMin int    `yaml:"reminder_interval_minutes"`
	DailyAgendaTime     string `yaml:"daily_agenda_time"` // HH:MM, empty disables
	StartupAnnouncement string `yaml:"startup_announcement"`
}

// ReminderInterval is the due-task scan period.
func (c Config) ReminderInterval() time.Duration {
	return time.Duration(c.ReminderIntervalMin) * time.Minute
}

// Load reads an optional YAML file (CONFIG_PATH, default config.yaml),
// then applies environment overrides and defaults.
func Load() (Config, error) {
	var cfg Config

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.TelegramToken = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("REMINDER_INTERVAL_MINUTES")); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			cfg.ReminderIntervalMin = minutes
		}
	}
	if v := strings.TrimSpace(os.Getenv("DAILY_AGENDA_TIME")); v != "" {
		cfg.DailyAgendaTime = v
	}
	if v := strings.TrimSpace(os.Getenv("STARTUP_ANNOUNCEMENT")); v != "" {
		cfg.StartupAnnouncement = v
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskbuddy.db"
	}
	if cfg.ReminderIntervalMin <= 0 {
		cfg.ReminderIntervalMin = 1
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}
