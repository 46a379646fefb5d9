package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fjglira/xraysync/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Environment
	if missing := MissingEnv(cfg); len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("environment variables not set: %s", strings.Join(missing, ", ")))
	}

	if !cfg.GroupingMode().Valid() {
		errs = append(errs, fmt.Sprintf("grouping.mode must be one of: %s, %s (got %q)",
			domain.GroupContiguous, domain.GroupByID, cfg.Grouping.Mode))
	}

	if cfg.Output.TestType == "" {
		errs = append(errs, "output.test_type must not be empty")
	}

	if d, err := time.ParseDuration(cfg.HTTP.Timeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Sprintf("http.timeout must be a positive duration (got %q)", cfg.HTTP.Timeout))
	}

	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

// MissingEnv returns the names of required environment variables that are
// empty, in a stable order.
func MissingEnv(cfg *Config) []string {
	required := []struct {
		name  string
		value string
	}{
		{EnvClientID, cfg.Env.ClientID},
		{EnvClientSecret, cfg.Env.ClientSecret},
		{EnvAuthURL, cfg.Env.AuthURL},
		{EnvImportURL, cfg.Env.ImportURL},
		{EnvExcelDir, cfg.Env.ExcelDir},
		{EnvJSONDir, cfg.Env.JSONDir},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}
