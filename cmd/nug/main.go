// Package main provides the nug CLI entry point.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	dataFlag    string
	verbose     bool
)

// Resolved once per invocation in PersistentPreRunE.
var (
	globalCfg   *config.GlobalConfig
	dataRoot    string
	logger      *slog.Logger
	closeLogger = func() error { return nil }
)

func main() {
	err := rootCmd.Execute()
	closeLogger()
	if err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nug",
	Short: "Personal library of podcast and video nuggets",
	Long: `nug manages a personal library of nuggets: insights, quotes, actions,
concepts and stories extracted from episodes.

Episode records live as JSON files under <data>/analysis. The library index
(<data>/library/index.json) is rebuilt from them and answers searches,
statistics and curation queries. All commands output JSON by default for
easy integration with scripts and agents.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "Data directory (default: $NUGGETS_DATA, config data_path, or ./data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.Version = Version
}

// setup loads .env and the global config, resolves the data root and
// installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	globalCfg = cfg
	dataRoot = cfg.ResolveDataPath(dataFlag)

	level := config.ParseLogLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logger, closeLogger = config.SetupLogger(os.Stderr, config.ExpandPath(cfg.LogFile), level)
	slog.SetDefault(logger)

	logger.Debug("resolved data root", "path", dataRoot)
	return nil
}
