package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/adit9852/ChurnAI-Dashboard/internal/config"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	flagData string

	// Loaded configuration
	cfg *cfgpkg.Settings
)

var rootCmd = &cobra.Command{
	Use:   "churnai",
	Short: "ChurnAI: customer churn analytics dashboard",
	Long:  `ChurnAI loads a customer churn dataset, trains a churn classifier and a segmentation model, and serves an interactive analytics dashboard.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./churnai.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "dataset CSV path (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = cfgpkg.Default()
	} else {
		cfg = c
	}
	if rootCmd.PersistentFlags().Changed("data") && flagData != "" {
		cfg.Data.Filename = flagData
	}
}
