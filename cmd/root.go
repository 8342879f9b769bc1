package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glbter/distributed-systems/advisor/config"
	"github.com/glbter/distributed-systems/advisor/engine"
)

var (
	settings    config.Settings
	catalogPath string
	logLevel    string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "advisor",
	Short:         "Risk questionnaire scoring and portfolio return simulation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("catalog") {
			settings.CatalogPath = catalogPath
		}
		if cmd.Flags().Changed("log-level") {
			settings.LogLevel = logLevel
		}
		logger = InitLogger(settings.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	settings = config.LoadSettings()

	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", settings.CatalogPath, "path to the asset catalog YAML")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", settings.LogLevel, "log level")

	rootCmd.AddCommand(serveCmd, workerCmd, simulateCmd, assessCmd, summarizeCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newEngine() (*engine.PortfolioEngine, error) {
	catalog, err := config.LoadCatalog(settings.CatalogPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	limits := engine.Limits{MaxTrials: settings.MaxTrials, MaxPeriods: settings.MaxPeriods}
	return engine.NewPortfolioEngine(catalog, limits, settings.SimulationWorkers, logger), nil
}
