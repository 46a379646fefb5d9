package config

import (
	"time"

	"github.com/fjglira/xraysync/internal/domain"
)

const defaultTimeout = 10 * time.Second

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Include: []string{"*.xlsx", "*.xlsm", "*.csv"},
			Exclude: []string{"~$*"},
		},
		Grouping: GroupingConfig{
			Mode: string(domain.GroupContiguous),
		},
		Output: OutputConfig{
			TestType: "Manual",
		},
		HTTP: HTTPConfig{
			Timeout: defaultTimeout.String(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
