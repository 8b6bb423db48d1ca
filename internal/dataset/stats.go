package dataset

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for one numeric column.
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
}

// Column extracts a numeric column as a slice; unknown columns yield nil.
func Column(t *Table, col string) []float64 {
	out := make([]float64, 0, t.Len())
	for _, c := range t.Customers {
		v, ok := c.NumericValue(col)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// Summarize computes per-column summaries for the given numeric columns.
func Summarize(t *Table, cols []string) []Summary {
	out := make([]Summary, 0, len(cols))
	for _, col := range cols {
		vals := Column(t, col)
		if len(vals) == 0 {
			continue
		}
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		out = append(out, Summary{
			Column: col,
			Count:  len(vals),
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			Mean:   stat.Mean(vals, nil),
			Std:    stat.StdDev(vals, nil),
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		})
	}
	return out
}

// Quantile returns the q-quantile of a numeric column (empirical, the same
// convention the summaries use). Returns 0 on an empty table.
func Quantile(t *Table, col string, q float64) float64 {
	vals := Column(t, col)
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	return stat.Quantile(q, stat.Empirical, vals, nil)
}

// CorrMatrix is a symmetric Pearson correlation matrix over numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Correlations computes pairwise Pearson correlations for the given columns.
// Values are clamped to [-1, 1]; degenerate (constant) columns correlate 0.
func Correlations(t *Table, cols []string) *CorrMatrix {
	series := make([][]float64, 0, len(cols))
	names := make([]string, 0, len(cols))
	for _, col := range cols {
		vals := Column(t, col)
		if len(vals) == 0 {
			continue
		}
		series = append(series, vals)
		names = append(names, col)
	}
	n := len(series)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := stat.Correlation(series[i], series[j], nil)
			if r != r { // NaN from a zero-variance column
				r = 0
			}
			r = clamp(r, -1, 1)
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &CorrMatrix{Columns: names, Values: values}
}

// CategoryCount is one categorical value with its frequency.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopValues returns category frequencies for a categorical column, most
// frequent first; ties break alphabetically for stable output.
func TopValues(t *Table, col string) []CategoryCount {
	counts := map[string]int{}
	for _, c := range t.Customers {
		if v, ok := c.CategoricalValue(col); ok && v != "" {
			counts[v]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// GroupMeans averages a numeric column per level of a categorical column.
func GroupMeans(t *Table, by, col string) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, c := range t.Customers {
		g, ok := c.CategoricalValue(by)
		if !ok || g == "" {
			continue
		}
		v, ok := c.NumericValue(col)
		if !ok {
			continue
		}
		sums[g] += v
		counts[g]++
	}
	out := make(map[string]float64, len(sums))
	for g, s := range sums {
		out[g] = s / float64(counts[g])
	}
	return out
}

// CrossTab counts customers per pair of categorical levels.
func CrossTab(t *Table, rowCol, colCol string) map[string]map[string]int {
	out := map[string]map[string]int{}
	for _, c := range t.Customers {
		r, ok := c.CategoricalValue(rowCol)
		if !ok {
			continue
		}
		cl, ok := c.CategoricalValue(colCol)
		if !ok {
			continue
		}
		if out[r] == nil {
			out[r] = map[string]int{}
		}
		out[r][cl]++
	}
	return out
}

// ChurnRate is the share of churned customers; 0 for an empty table.
func ChurnRate(t *Table) float64 {
	if t.Len() == 0 {
		return 0
	}
	churned := 0
	for _, c := range t.Customers {
		churned += c.Churn
	}
	return float64(churned) / float64(t.Len())
}
