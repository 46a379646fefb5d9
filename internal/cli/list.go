package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fjglira/xraysync/internal/config"
	"github.com/fjglira/xraysync/internal/domain"
	"github.com/fjglira/xraysync/internal/scanner"
)

var recursive bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the spreadsheets available in PATH_EXCEL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Env.ExcelDir == "" {
			return domain.NewError("config", "", 0, config.EnvExcelDir+" is not set", nil)
		}

		files, err := scanner.NewScanner(recursive).Scan(cfg.Env.ExcelDir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Warnf("No spreadsheets found in %s", cfg.Env.ExcelDir)
			return nil
		}
		for _, f := range files {
			name := filepath.Base(f)
			if recursive {
				if rel, err := filepath.Rel(cfg.Env.ExcelDir, f); err == nil {
					name = rel
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "also list spreadsheets in subdirectories of PATH_EXCEL")
	rootCmd.AddCommand(listCmd)
}
