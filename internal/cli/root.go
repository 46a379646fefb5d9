package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/xraysync/internal/config"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     *logrus.Logger
)

// rootCmd is the base command for xraysync.
var rootCmd = &cobra.Command{
	Use:   "xraysync",
	Short: "Convert spreadsheet test cases into Xray import payloads",
	Long: `xraysync reads manual test cases from a spreadsheet (one row per step),
groups them into tests, files each test under Feature-N/HU-M and writes the
Xray test-import JSON. With --upload it also sends the payload to Xray.

Credentials and directories come from the environment (or a .env file):
CLIENT_ID, CLIENT_SECRET, AUTH_URL, XRAY_IMPORT_URL, PATH_EXCEL, PATH_JSON.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "optional YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse and group but don't write or upload anything")

	log = newLogger()
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// loadConfig loads and validates the configuration, applying global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dryRun {
		cfg.DryRun = true
	}
	if !verbose && cfg.Logging.Level != "" {
		if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
			log.SetLevel(level)
		}
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
