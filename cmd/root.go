// Package cmd wires the command line.
package cmd

import (
	"fmt"

	"diabetescheck/config"
	"diabetescheck/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "diabetescheck",
	Short: "Diabetes prediction form with feedback-based accuracy tracking",
	Long: `diabetescheck serves a form that sends eight patient measurements to a
pre-trained classifier, shows the predicted outcome and records whether the
user confirmed it, so accuracy can be followed over time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logCfg := cfg.Log
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err = logging.New(logCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(accuracyCmd)
	rootCmd.AddCommand(recordsCmd)
}
