package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/model"
)

var (
	trainTrees int
	trainDepth int
)

var trainCmd = &cobra.Command{
	Use:   "train <file.csv>",
	Short: "Train the churn classifier and print evaluation metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trainTrees > 0 {
			cfg.Model.NEstimators = trainTrees
		}
		if trainDepth > 0 {
			cfg.Model.MaxDepth = trainDepth
		}

		table, err := dataset.Load(args[0], cfg)
		if err != nil {
			return err
		}
		artifact, err := model.Train(table, cfg)
		if err != nil {
			return err
		}

		m := artifact.Metrics
		fmt.Printf("✓ Trained model %s on %d customers\n\n", artifact.ID, table.Len())
		fmt.Printf("Accuracy: %.3f\n", m.Accuracy)
		cv := make([]string, len(m.CVScores))
		for i, s := range m.CVScores {
			cv[i] = fmt.Sprintf("%.3f", s)
		}
		fmt.Printf("CV scores: %s\n\n", strings.Join(cv, " "))

		for _, class := range []string{"retained", "churned"} {
			c := m.PerClass[class]
			fmt.Printf("%-9s precision %.3f  recall %.3f  f1 %.3f  (n=%d)\n",
				class, c.Precision, c.Recall, c.F1, c.Support)
		}
		fmt.Printf("\nConfusion matrix (rows=actual, cols=predicted):\n")
		fmt.Printf("          retained  churned\n")
		fmt.Printf("retained  %8d  %7d\n", m.Confusion[0][0], m.Confusion[0][1])
		fmt.Printf("churned   %8d  %7d\n", m.Confusion[1][0], m.Confusion[1][1])

		fmt.Printf("\nTop features:\n")
		imps := m.Importances
		if len(imps) > 10 {
			imps = imps[:10]
		}
		for _, fi := range imps {
			fmt.Printf("  %-20s %.4f\n", fi.Feature, fi.Importance)
		}
		return nil
	},
}

func init() {
	trainCmd.Flags().IntVar(&trainTrees, "trees", 0, "number of trees (overrides config)")
	trainCmd.Flags().IntVar(&trainDepth, "max-depth", 0, "max tree depth (overrides config)")
	rootCmd.AddCommand(trainCmd)
}
