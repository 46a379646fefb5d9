package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/xraysync/internal/config"
	"github.com/fjglira/xraysync/internal/domain"
	"github.com/fjglira/xraysync/internal/exporter"
	"github.com/fjglira/xraysync/internal/grouper"
	"github.com/fjglira/xraysync/internal/parser"
	"github.com/fjglira/xraysync/internal/report"
	"github.com/fjglira/xraysync/internal/scanner"
	"github.com/fjglira/xraysync/internal/xray"
)

var (
	projectKey    string
	featureNumber string
	fileName      string
	upload        bool
	withReport    bool
	groupingMode  string
	sheetName     string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert one spreadsheet into Xray import JSON",
	Long: `Reads --file from PATH_EXCEL, groups its rows into tests and writes
PATH_JSON/<file>.json. Rows that fail validation are skipped with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("grouping") {
			cfg.Grouping.Mode = groupingMode
		}
		if cmd.Flags().Changed("sheet") {
			cfg.Input.Sheet = sheetName
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		log.Infof("Grouping mode: %s", cfg.GroupingMode())

		res, err := runProcess(cmd, cfg)
		if err != nil {
			return err
		}
		if res.UploadErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Upload failed, JSON kept at %s: %v\n", res.JSONPath, res.UploadErr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %s: %d test(s), %d skipped row(s)\n",
			fileName, len(res.Tests), len(res.Diagnostics))
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&projectKey, "project", "p", "", "Jira project key")
	processCmd.Flags().StringVarP(&featureNumber, "feature", "f", "", "feature number used in the repository folder")
	processCmd.Flags().StringVar(&fileName, "file", "", "spreadsheet name inside PATH_EXCEL")
	processCmd.Flags().BoolVar(&upload, "upload", false, "send the payload to Xray after writing it")
	processCmd.Flags().BoolVar(&withReport, "report", false, "also write an HTML summary next to the JSON")
	processCmd.Flags().StringVar(&groupingMode, "grouping", string(domain.GroupContiguous),
		"how rows sharing a test id are merged: contiguous or by-id")
	processCmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet to read (default: active sheet)")
	_ = processCmd.MarkFlagRequired("project")
	_ = processCmd.MarkFlagRequired("feature")
	_ = processCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(processCmd)
}

// runProcess wires all components and runs the exporter.
func runProcess(cmd *cobra.Command, cfg *config.Config) (*exporter.Result, error) {
	s := scanner.NewScanner(false)
	registry := parser.NewDefaultRegistry(cfg.Input.Sheet)
	g := grouper.NewGrouper(cfg.GroupingMode())

	var engine report.Engine
	if withReport || cfg.Report.Enabled {
		e, err := report.NewEngine(cfg.Report.TemplateDirectory, report.DefaultTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to create report engine: %w", err)
		}
		engine = e
	}

	client := xray.NewClient(cfg.Env.AuthURL, cfg.Env.ImportURL, xray.Credentials{
		ClientID:     cfg.Env.ClientID,
		ClientSecret: cfg.Env.ClientSecret,
	}, cfg.Timeout())

	x := exporter.NewExporter(cfg, s, registry, g, engine, client, log)
	return x.Export(cmd.Context(), exporter.Request{
		FileName:      fileName,
		ProjectKey:    projectKey,
		FeatureNumber: featureNumber,
		Upload:        upload,
		Report:        withReport || cfg.Report.Enabled,
	})
}
