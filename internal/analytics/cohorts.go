package analytics

import (
	"math"
	"sort"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// HighRiskCohort returns customers paying above the 75th percentile of
// monthly charges, below the 25th percentile of tenure, on month-to-month
// contracts. These are the expensive-to-lose newcomers the overview page
// highlights.
func HighRiskCohort(t *dataset.Table) []*dataset.Customer {
	if t.Len() == 0 {
		return nil
	}
	p75 := dataset.Quantile(t, "MonthlyCharges", 0.75)
	p25 := dataset.Quantile(t, "Tenure", 0.25)
	var out []*dataset.Customer
	for _, c := range t.Customers {
		if c.MonthlyCharges > p75 && c.Tenure < p25 && c.ContractType == "Month-to-Month" {
			out = append(out, c)
		}
	}
	return out
}

// ValuableCohort returns retained customers above the 75th percentile on both
// monthly charges and tenure.
func ValuableCohort(t *dataset.Table) []*dataset.Customer {
	if t.Len() == 0 {
		return nil
	}
	p75Charges := dataset.Quantile(t, "MonthlyCharges", 0.75)
	p75Tenure := dataset.Quantile(t, "Tenure", 0.75)
	var out []*dataset.Customer
	for _, c := range t.Customers {
		if c.MonthlyCharges > p75Charges && c.Tenure > p75Tenure && c.Churn == 0 {
			out = append(out, c)
		}
	}
	return out
}

// SimilarCustomers finds up to limit customers resembling the reference: same
// contract type, monthly charges within ±20%, tenure within ±6 months.
// Results are ordered by closeness in monthly charges.
func SimilarCustomers(t *dataset.Table, ref *dataset.Customer, limit int) []*dataset.Customer {
	var out []*dataset.Customer
	for _, c := range t.Customers {
		if c.ID == ref.ID {
			continue
		}
		if c.ContractType != ref.ContractType {
			continue
		}
		if math.Abs(c.MonthlyCharges-ref.MonthlyCharges) > ref.MonthlyCharges*0.2 {
			continue
		}
		if math.Abs(c.Tenure-ref.Tenure) > 6 {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		di := math.Abs(out[i].MonthlyCharges - ref.MonthlyCharges)
		dj := math.Abs(out[j].MonthlyCharges - ref.MonthlyCharges)
		if di == dj {
			return out[i].ID < out[j].ID
		}
		return di < dj
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
