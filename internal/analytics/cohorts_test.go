package analytics_test

import (
	"testing"

	"github.com/adit9852/ChurnAI-Dashboard/internal/analytics"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

func TestHighRiskCohort(t *testing.T) {
	table := analyticsTable(t)
	cohort := analytics.HighRiskCohort(table)
	// C4 is the only customer above the charges p75, below the tenure p25 and
	// on a month-to-month contract.
	if len(cohort) != 1 || cohort[0].ID != "C4" {
		ids := make([]string, 0, len(cohort))
		for _, c := range cohort {
			ids = append(ids, c.ID)
		}
		t.Fatalf("expected [C4], got %v", ids)
	}
}

func TestValuableCohort(t *testing.T) {
	table := analyticsTable(t)
	for _, c := range analytics.ValuableCohort(table) {
		if c.Churn != 0 {
			t.Fatalf("valuable cohort must not contain churned customers: %s", c.ID)
		}
	}
}

func TestSimilarCustomers(t *testing.T) {
	customers := []*dataset.Customer{
		{ID: "REF", ContractType: "Month-to-Month", MonthlyCharges: 100, Tenure: 10},
		{ID: "A", ContractType: "Month-to-Month", MonthlyCharges: 102, Tenure: 12},
		{ID: "B", ContractType: "Month-to-Month", MonthlyCharges: 115, Tenure: 8},
		// C has the wrong contract, D is 30% off on charges, E is too far on tenure.
		{ID: "C", ContractType: "Two Year", MonthlyCharges: 100, Tenure: 10},
		{ID: "D", ContractType: "Month-to-Month", MonthlyCharges: 130, Tenure: 10},
		{ID: "E", ContractType: "Month-to-Month", MonthlyCharges: 100, Tenure: 40},
	}
	table, err := dataset.NewTable(customers)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	ref, _ := table.ByID("REF")
	got := analytics.SimilarCustomers(table, ref, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 similar customers, got %d", len(got))
	}
	// Ordered by closeness in monthly charges.
	if got[0].ID != "A" || got[1].ID != "B" {
		t.Fatalf("expected [A B], got [%s %s]", got[0].ID, got[1].ID)
	}

	if limited := analytics.SimilarCustomers(table, ref, 1); len(limited) != 1 {
		t.Fatalf("limit should cap results, got %d", len(limited))
	}
}
