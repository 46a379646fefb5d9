package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/xraysync/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the environment and optional config file",
	Long:  `Loads the configuration and checks for missing environment variables and invalid values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
		log.Debugf("Loaded config: grouping=%s timeout=%s sheet=%q", cfg.Grouping.Mode, cfg.Timeout(), cfg.Input.Sheet)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
