// Package config reads the loan book settings from the environment.
package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/etnz/loanbook/reminder"
	"github.com/etnz/loanbook/store"
)

type Config struct {
	Store      string `env:"LB_STORE" envDefault:"file"`
	Dir        string `env:"LB_DIR" envDefault:"."`
	SQLitePath string `env:"LB_SQLITE_PATH" envDefault:"loanbook.sqlite"`
	RedisAddr  string `env:"LB_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB    int    `env:"LB_REDIS_DB" envDefault:"0"`
	Key        string `env:"LB_KEY" envDefault:"loans.json"`
	Currency   string `env:"LB_CURRENCY" envDefault:"THB"`

	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	Model           string        `env:"LB_MODEL" envDefault:"gemini-2.5-flash"`
	AdvisorLanguage string        `env:"LB_ADVISOR_LANGUAGE" envDefault:"Thai"`
	AdvisorTimeout  time.Duration `env:"LB_ADVISOR_TIMEOUT" envDefault:"30s"`

	SMTPHost       string   `env:"LB_SMTP_HOST"`
	SMTPPort       string   `env:"LB_SMTP_PORT" envDefault:"587"`
	SMTPUsername   string   `env:"LB_SMTP_USERNAME"`
	SMTPPassword   string   `env:"LB_SMTP_PASSWORD"`
	SMTPFrom       string   `env:"LB_SMTP_FROM"`
	RemindTo       []string `env:"LB_REMIND_TO" envSeparator:","`
	RemindDays     int      `env:"LB_REMIND_DAYS" envDefault:"3"`
	RemindSchedule string   `env:"LB_REMIND_SCHEDULE" envDefault:"0 9 * * *"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// StoreOptions returns the store selection of the configuration.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:    store.Backend(c.Store),
		Dir:        c.Dir,
		SQLitePath: c.SQLitePath,
		RedisAddr:  c.RedisAddr,
		RedisDB:    c.RedisDB,
	}
}

// Mailer returns the email reminder settings of the configuration.
func (c *Config) Mailer() *reminder.Mailer {
	return &reminder.Mailer{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
		To:       c.RemindTo,
		Currency: c.Currency,
	}
}
