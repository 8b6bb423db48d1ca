package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [file.csv]",
	Short: "Start the churn analytics dashboard",
	Long:  `Loads the dataset and serves the dashboard pages and JSON API. The dataset path comes from the argument, the --data flag, or the configured filename, in that order.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Data.Filename
		if len(args) == 1 {
			path = args[0]
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		table, err := dataset.Load(path, cfg)
		if err != nil {
			return fmt.Errorf("load dataset %s: %w", path, err)
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		srv, err := server.New(cfg, table, log)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Loaded %d customers from %s\n", table.Len(), path)
		fmt.Printf("→ Dashboard on http://localhost%s\n", cfg.Server.Addr)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
