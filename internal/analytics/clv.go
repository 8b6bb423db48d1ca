// Package analytics derives per-customer and per-segment metrics from the
// processed table and model outputs: lifetime value, risk, engagement,
// recommendations and cohorts.
package analytics

import (
	"fmt"

	"github.com/ezoic/scigo/linear"
	"gonum.org/v1/gonum/mat"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// clvFeatures drive the predicted-CLV regression.
var clvFeatures = []string{"Tenure", "MonthlyCharges", "SatisfactionScore"}

// BasicCLV returns the simple lifetime value per customer, monthly charges
// times tenure, in table order. The loader stores the same value on each row
// at load time; this derives it without touching the rows.
func BasicCLV(t *dataset.Table) []float64 {
	out := make([]float64, t.Len())
	for i, c := range t.Customers {
		out[i] = c.MonthlyCharges * c.Tenure
	}
	return out
}

// PredictedCLV fits a linear regression of total charges on tenure, monthly
// charges and satisfaction, then replays every customer with tenure advanced
// by months. The result is the predicted additional revenue per customer.
func PredictedCLV(t *dataset.Table, months int) ([]float64, error) {
	n := t.Len()
	if n == 0 {
		return nil, &dataset.ParseError{Detail: "cannot predict CLV on an empty table"}
	}
	x := mat.NewDense(n, len(clvFeatures), nil)
	future := mat.NewDense(n, len(clvFeatures), nil)
	y := mat.NewDense(n, 1, nil)
	for i, c := range t.Customers {
		for j, col := range clvFeatures {
			v, ok := c.NumericValue(col)
			if !ok {
				return nil, &dataset.SchemaError{Column: col, Detail: "unknown CLV regression feature"}
			}
			x.Set(i, j, v)
			if col == "Tenure" {
				v += float64(months)
			}
			future.Set(i, j, v)
		}
		y.Set(i, 0, c.TotalCharges)
	}

	reg := linear.NewLinearRegression()
	if err := reg.Fit(x, y); err != nil {
		return nil, fmt.Errorf("fit CLV regression: %w", err)
	}
	pred, err := reg.Predict(future)
	if err != nil {
		return nil, fmt.Errorf("predict CLV: %w", err)
	}

	out := make([]float64, n)
	for i, c := range t.Customers {
		out[i] = pred.At(i, 0) - c.TotalCharges
	}
	return out, nil
}

// ValueTier orders customers by total charges into quartile tiers.
type ValueTier struct {
	Tier           string  `json:"tier"`
	Customers      int     `json:"customers"`
	MeanMonthly    float64 `json:"mean_monthly_charges"`
	MeanTenure     float64 `json:"mean_tenure"`
	ChurnRate      float64 `json:"churn_rate"`
	TotalRevenue   float64 `json:"total_revenue"`
	MinTotal       float64 `json:"min_total_charges"`
	MaxTotalCharge float64 `json:"max_total_charges"`
}

var valueTierNames = []string{"Bronze", "Silver", "Gold", "Platinum"}

// ValueSegments splits customers into total-charges quartiles
// (Bronze/Silver/Gold/Platinum) and aggregates each tier.
func ValueSegments(t *dataset.Table) []ValueTier {
	if t.Len() == 0 {
		return nil
	}
	q1 := dataset.Quantile(t, "TotalCharges", 0.25)
	q2 := dataset.Quantile(t, "TotalCharges", 0.50)
	q3 := dataset.Quantile(t, "TotalCharges", 0.75)

	tierOf := func(total float64) int {
		switch {
		case total <= q1:
			return 0
		case total <= q2:
			return 1
		case total <= q3:
			return 2
		default:
			return 3
		}
	}

	type acc struct {
		n                  int
		monthly, tenure    float64
		churned            int
		revenue            float64
		minTotal, maxTotal float64
	}
	accs := make([]acc, len(valueTierNames))
	for i := range accs {
		accs[i].minTotal = -1
	}
	for _, c := range t.Customers {
		i := tierOf(c.TotalCharges)
		a := &accs[i]
		a.n++
		a.monthly += c.MonthlyCharges
		a.tenure += c.Tenure
		a.churned += c.Churn
		a.revenue += c.TotalCharges
		if a.minTotal < 0 || c.TotalCharges < a.minTotal {
			a.minTotal = c.TotalCharges
		}
		if c.TotalCharges > a.maxTotal {
			a.maxTotal = c.TotalCharges
		}
	}

	out := make([]ValueTier, 0, len(valueTierNames))
	for i, name := range valueTierNames {
		a := accs[i]
		if a.n == 0 {
			continue
		}
		out = append(out, ValueTier{
			Tier:           name,
			Customers:      a.n,
			MeanMonthly:    a.monthly / float64(a.n),
			MeanTenure:     a.tenure / float64(a.n),
			ChurnRate:      float64(a.churned) / float64(a.n),
			TotalRevenue:   a.revenue,
			MinTotal:       a.minTotal,
			MaxTotalCharge: a.maxTotal,
		})
	}
	return out
}
