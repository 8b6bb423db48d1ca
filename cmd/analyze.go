package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

var analyzeCorr bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv>",
	Short: "Print a descriptive-statistics report of a churn CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := dataset.Load(args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Print(analysisReport(table, args[0]))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeCorr, "correlations", true, "include the correlation matrix")
	rootCmd.AddCommand(analyzeCmd)
}

// analysisReport renders a markdown summary of the loaded table.
func analysisReport(t *dataset.Table, name string) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	fmt.Fprintf(&b, "File: %s\n", name)
	fmt.Fprintf(&b, "Customers: %d\n", t.Len())
	fmt.Fprintf(&b, "Churn rate: %.1f%%\n\n", dataset.ChurnRate(t)*100)

	b.WriteString("[NUMERIC COLUMNS]\n")
	for _, s := range dataset.Summarize(t, cfg.Data.NumericalColumns) {
		fmt.Fprintf(&b, "- %s: min %.4g, max %.4g, mean %.4g, std %.4g, median %.4g\n",
			s.Column, s.Min, s.Max, s.Mean, s.Std, s.Median)
	}

	b.WriteString("\n[CATEGORICAL COLUMNS]\n")
	for _, col := range cfg.Data.CategoricalColumns {
		tops := dataset.TopValues(t, col)
		if len(tops) == 0 {
			continue
		}
		if len(tops) > 6 {
			tops = tops[:6]
		}
		parts := make([]string, 0, len(tops))
		for _, tv := range tops {
			parts = append(parts, fmt.Sprintf("%s(%d)", tv.Value, tv.Count))
		}
		fmt.Fprintf(&b, "- %s: %s\n", col, strings.Join(parts, ", "))
	}

	b.WriteString("\n[CHURN BY CONTRACT]\n")
	rates := churnRateByContract(t)
	contracts := make([]string, 0, len(rates))
	for ct := range rates {
		contracts = append(contracts, ct)
	}
	sort.Strings(contracts)
	for _, ct := range contracts {
		fmt.Fprintf(&b, "- %s: %.1f%%\n", ct, rates[ct]*100)
	}

	if analyzeCorr {
		cols := append([]string(nil), cfg.Data.NumericalColumns...)
		cols = append(cols, "Churn")
		corr := dataset.Correlations(t, cols)

		type pair struct {
			a, b string
			r    float64
		}
		var pairs []pair
		for i := 0; i < len(corr.Columns); i++ {
			for j := i + 1; j < len(corr.Columns); j++ {
				pairs = append(pairs, pair{corr.Columns[i], corr.Columns[j], corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := abs(pairs[i].r), abs(pairs[j].r)
			if ai == aj {
				return pairs[i].a+pairs[i].b < pairs[j].a+pairs[j].b
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs {
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f\n", p.a, p.b, p.r)
		}
	}
	return b.String()
}

func churnRateByContract(t *dataset.Table) map[string]float64 {
	counts := map[string][2]int{}
	for _, c := range t.Customers {
		v := counts[c.ContractType]
		v[c.Churn]++
		counts[c.ContractType] = v
	}
	out := make(map[string]float64, len(counts))
	for ct, v := range counts {
		total := v[0] + v[1]
		if total > 0 {
			out[ct] = float64(v[1]) / float64(total)
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
