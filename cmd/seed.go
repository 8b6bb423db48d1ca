package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

var (
	seedCount int
	seedOut   string
	seedValue int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic churn dataset CSV",
	Long:  `Writes a reproducible synthetic customer churn dataset. The same seed always produces the same file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount < 1 {
			return fmt.Errorf("customer count must be positive, got %d", seedCount)
		}
		table := dataset.Generate(seedCount, seedValue)
		if err := dataset.WriteCSV(table, seedOut); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d customers to %s (churn rate %.1f%%)\n",
			table.Len(), seedOut, dataset.ChurnRate(table)*100)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 1000, "number of customers")
	seedCmd.Flags().StringVarP(&seedOut, "out", "o", "customer_churn.csv", "output CSV path")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 42, "random seed")
	rootCmd.AddCommand(seedCmd)
}
