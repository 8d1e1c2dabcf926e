package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

// Config aggregates every environment-driven setting of the service.
type Config struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080"`

	// Storage
	LogDir    string `env:"LOG_DIR" envDefault:"logs"`
	LogPrefix string `env:"LOG_PREFIX" envDefault:"stt-messages"`

	// Browser capture UI; empty disables static serving.
	StaticRoot string `env:"STATIC_ROOT"`

	// Session boundary trigger; empty disables intro-based restarts.
	IntroPhrase string `env:"INTRO_PHRASE" envDefault:"신한투자증권서인원입니다"`

	// Scheduled daily report export
	ReportScheduleEnabled bool   `env:"REPORT_SCHEDULE_ENABLED" envDefault:"false"`
	ReportCron            string `env:"REPORT_CRON" envDefault:"0 21 * * *"`
	ReportDir             string `env:"REPORT_DIR" envDefault:"reports"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address. PORT may carry a full address like
// ":8080" or "127.0.0.1:8080" directly.
func (c *Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return c.Host + ":" + port
}
