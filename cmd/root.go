package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "v2x-cosim",
	Short: "Scenario compiler for coupled traffic and V2X network simulations",
	Long: "v2x-cosim turns a batch of scenario definitions into the full artifact tree " +
		"both simulators consume: demand matrices, routes, run configs and service " +
		"definitions, with optional simulator launch and scratch cleanup.",
}

// configureLogging applies the --log flag. Called first by every command.
func configureLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
