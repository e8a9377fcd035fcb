package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultEnvFiles are read, when present, before the environment is parsed.
// Variables already set in the environment win.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	DBPath      string `env:"CAPPLAN_DB"`
	Scenario    string `env:"CAPPLAN_SCENARIO" envDefault:"effectiveBIS"`
	UseNet      bool   `env:"CAPPLAN_USE_NET" envDefault:"true"`
	Year        int    `env:"CAPPLAN_YEAR"`
	LogLevel    string `env:"CAPPLAN_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"CAPPLAN_LOG_FORMAT" envDefault:"text"`
	MetricsFile string `env:"CAPPLAN_METRICS_FILE"`
}

// Load reads the given env files that exist, then parses the environment.
func Load(envFiles []string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, errors.Wrap(err, "loading env files")
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, errors.Wrap(err, "parsing environment")
	}
	if err := c.applyDefaults(time.Now()); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadEnvFiles(files []string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c *Config) applyDefaults(now time.Time) error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "resolving home directory")
		}
		c.DBPath = filepath.Join(home, ".capplan", "capplan.db")
	}
	if c.Year == 0 {
		c.Year = now.Year()
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := domain.ParseScenario(c.Scenario); err != nil {
		return errors.Wrap(err, "CAPPLAN_SCENARIO")
	}
	if c.Year <= 0 {
		return errors.Errorf("CAPPLAN_YEAR must be positive, got %d", c.Year)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.Errorf("CAPPLAN_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// DefaultScenario is the configured scenario; Validate has already
// guaranteed it parses.
func (c *Config) DefaultScenario() domain.Scenario {
	s, _ := domain.ParseScenario(c.Scenario)
	return s
}

func (c *Config) LogrusLevel() logrus.Level {
	if strings.EqualFold(c.LogLevel, "silent") {
		return logrus.PanicLevel
	}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(c.LogrusLevel())
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger
}
