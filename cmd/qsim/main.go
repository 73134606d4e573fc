package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qtermsim/internal/config"
	"qtermsim/internal/logging"
	"qtermsim/internal/render"
)

var (
	// Global flags
	configPath string
	logLevel   string
	verbose    bool

	// Set up in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qsim",
	Short: "qsim - statevector quantum circuit simulator",
	Long: `qsim simulates quantum circuits written in OpenQASM 2.0.

Circuits are executed on a dense state vector and sampled to produce
measurement histograms. Run "qsim view" for the interactive editor.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	runCmd.Flags().IntVarP(&runShots, "shots", "s", 0, "Number of shots (default from config)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Sampling seed")
	runCmd.Flags().BoolVar(&runState, "state", false, "Print amplitudes and per-qubit probabilities")
	runCmd.Flags().IntVarP(&runParallel, "parallel", "p", 4, "Circuits simulated concurrently")
	watchCmd.Flags().IntVarP(&runShots, "shots", "s", 0, "Number of shots (default from config)")
	watchCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Sampling seed")
	viewCmd.Flags().IntVarP(&runShots, "shots", "s", 0, "Number of shots (default from config)")
	viewCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Sampling seed")

	rootCmd.AddCommand(runCmd, drawCmd, qasmCmd, viewCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger. Flags win over the file
// and the environment.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(loaded.Logging.Level, loaded.Logging.Format)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	logger.Debug("config loaded", zap.String("path", configPath))
	return nil
}

// settings returns the loaded config, or the defaults when setup has not run.
func settings() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

func appLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func styles() render.Styles {
	if settings().Viewer.Color {
		return render.DefaultStyles()
	}
	return render.PlainStyles()
}
