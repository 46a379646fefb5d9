package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/xraysync/internal/domain"
)

// Environment variable names read by the tool.
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvAuthURL      = "AUTH_URL"
	EnvImportURL    = "XRAY_IMPORT_URL"
	EnvExcelDir     = "PATH_EXCEL"
	EnvJSONDir      = "PATH_JSON"
)

// Config is the top-level configuration struct.
type Config struct {
	Env      EnvConfig      `yaml:"-"` // never read from the YAML file
	Input    InputConfig    `yaml:"input"`
	Grouping GroupingConfig `yaml:"grouping"`
	Output   OutputConfig   `yaml:"output"`
	HTTP     HTTPConfig     `yaml:"http"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
	DryRun   bool           `yaml:"dry_run"`
}

// EnvConfig holds the values that must come from the environment.
type EnvConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	ImportURL    string
	ExcelDir     string
	JSONDir      string
}

type InputConfig struct {
	Sheet   string   `yaml:"sheet"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

type GroupingConfig struct {
	Mode string `yaml:"mode"`
}

type OutputConfig struct {
	TestType string `yaml:"test_type"`
}

type HTTPConfig struct {
	Timeout string `yaml:"timeout"`
}

type ReportConfig struct {
	Enabled           bool   `yaml:"enabled"`
	TemplateDirectory string `yaml:"template_directory"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds a Config from defaults, the optional YAML file at path and
// the environment. A .env file in the working directory is merged into the
// environment first; variables already set win over it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.NewError("config", path, 0, "failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewError("config", ".env", 0, "failed to parse .env file", err)
	}

	ApplyEnv(cfg, os.Getenv)
	return cfg, nil
}

// ApplyEnv fills cfg.Env using getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	cfg.Env = EnvConfig{
		ClientID:     getenv(EnvClientID),
		ClientSecret: getenv(EnvClientSecret),
		AuthURL:      getenv(EnvAuthURL),
		ImportURL:    getenv(EnvImportURL),
		ExcelDir:     getenv(EnvExcelDir),
		JSONDir:      getenv(EnvJSONDir),
	}
}

// Timeout returns the HTTP timeout, falling back to the default when unset
// or unparsable. Validate reports unparsable values.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// GroupingMode returns the configured grouping mode.
func (c *Config) GroupingMode() domain.GroupingMode {
	return domain.GroupingMode(c.Grouping.Mode)
}
