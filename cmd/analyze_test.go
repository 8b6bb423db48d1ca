package cmd

import (
	"strings"
	"testing"

	cfgpkg "github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

func TestAnalysisReportSections(t *testing.T) {
	cfg = cfgpkg.Default()
	table := dataset.Generate(150, 42)
	dataset.ComputeMetrics(table, cfg)

	analyzeCorr = true
	out := analysisReport(table, "synthetic.csv")

	for _, section := range []string{
		"[DATASET SUMMARY]",
		"[NUMERIC COLUMNS]",
		"[CATEGORICAL COLUMNS]",
		"[CHURN BY CONTRACT]",
		"[CORRELATIONS]",
	} {
		if !strings.Contains(out, section) {
			t.Fatalf("report missing %s:\n%s", section, out)
		}
	}
	if !strings.Contains(out, "Customers: 150") {
		t.Fatalf("report should state the row count:\n%s", out)
	}
	if !strings.Contains(out, "Month-to-Month") {
		t.Fatalf("report should break churn down by contract:\n%s", out)
	}

	analyzeCorr = false
	if out := analysisReport(table, "synthetic.csv"); strings.Contains(out, "[CORRELATIONS]") {
		t.Fatalf("correlations section should be optional")
	}
}

func TestChurnRateByContract(t *testing.T) {
	customers := []*dataset.Customer{
		{ID: "1", ContractType: "Month-to-Month", Churn: 1},
		{ID: "2", ContractType: "Month-to-Month", Churn: 0},
		{ID: "3", ContractType: "Two Year", Churn: 0},
	}
	table, err := dataset.NewTable(customers)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	rates := churnRateByContract(table)
	if rates["Month-to-Month"] != 0.5 {
		t.Fatalf("expected 0.5 for month-to-month, got %v", rates["Month-to-Month"])
	}
	if rates["Two Year"] != 0 {
		t.Fatalf("expected 0 for two-year, got %v", rates["Two Year"])
	}
}
