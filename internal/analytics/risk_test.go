package analytics_test

import (
	"math"
	"strings"
	"testing"

	"github.com/adit9852/ChurnAI-Dashboard/internal/analytics"
	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// analyticsTable is the shared fixture: five customers spanning the contract,
// payment and satisfaction ranges the scoring rules key on.
func analyticsTable(t *testing.T) *dataset.Table {
	t.Helper()
	csv := "CustomerID,Gender,Tenure,ContractType,MonthlyCharges,TotalCharges,InternetService,PaymentMethod,StreamingTV,StreamingMovies,PhoneService,SatisfactionScore,Churn\n" +
		"C1,Male,60,Two Year,55.00,3300.00,DSL,Credit Card,Yes,Yes,Yes,5.0,No\n" +
		"C2,Female,24,One Year,70.00,1680.00,Fiber Optic,Mailed Check,Yes,No,Yes,4.0,No\n" +
		"C3,Male,12,Month-to-Month,90.00,1080.00,Fiber Optic,Bank Transfer,No,No,Yes,3.0,No\n" +
		"C4,Female,2,Month-to-Month,110.00,220.00,Fiber Optic,Electronic Check,No,No,Yes,1.5,Yes\n" +
		"C5,Male,30,One Year,60.00,1800.00,DSL,Bank Transfer,No,Yes,Yes,4.2,No\n"
	table, err := dataset.Read(strings.NewReader(csv), config.Default())
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return table
}

func TestFactorScoreKnownValues(t *testing.T) {
	table := analyticsTable(t)
	maxTenure := table.MaxTenure()
	if maxTenure != 60 {
		t.Fatalf("max tenure should be 60, got %v", maxTenure)
	}

	// C1: tenure risk 0, satisfaction risk 0, two-year 0.25, auto payment 0.4.
	c1, _ := table.ByID("C1")
	want := 0.25*0.2 + 0.4*0.2
	if got := analytics.FactorScore(c1, maxTenure); math.Abs(got-want) > 1e-9 {
		t.Fatalf("C1 factor score %v, want %v", got, want)
	}

	// C4: short tenure, low satisfaction, month-to-month, electronic check.
	c4, _ := table.ByID("C4")
	want = (1-2.0/60)*0.3 + (1-1.5/5)*0.3 + 1.0*0.2 + 0.8*0.2
	if got := analytics.FactorScore(c4, maxTenure); math.Abs(got-want) > 1e-9 {
		t.Fatalf("C4 factor score %v, want %v", got, want)
	}
}

func TestRiskScoreBlendAndClamp(t *testing.T) {
	if got := analytics.RiskScore(0.8, 0.4); math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("blend wrong: %v", got)
	}
	if got := analytics.RiskScore(2, 2); got != 1 {
		t.Fatalf("score should clamp to 1, got %v", got)
	}
	if got := analytics.RiskScore(-1, -1); got != 0 {
		t.Fatalf("score should clamp to 0, got %v", got)
	}
}

func TestRiskTiers(t *testing.T) {
	cases := map[float64]string{
		0.0:  "Low Risk",
		0.30: "Low Risk",
		0.31: "Medium Risk",
		0.60: "Medium Risk",
		0.61: "High Risk",
		1.0:  "High Risk",
	}
	for score, want := range cases {
		if got := analytics.RiskTier(score); got != want {
			t.Fatalf("tier(%v) = %q, want %q", score, got, want)
		}
	}
}

func TestScoreTableOrdersAndBounds(t *testing.T) {
	table := analyticsTable(t)
	probs := []float64{0.05, 0.2, 0.5, 0.9, 0.15}
	scores := analytics.ScoreTable(table, probs)
	if len(scores) != table.Len() {
		t.Fatalf("expected %d scores, got %d", table.Len(), len(scores))
	}
	for i := range scores {
		if scores[i] < 0 || scores[i] > 1 {
			t.Fatalf("score outside [0,1]: %v", scores[i])
		}
	}
	// The safest profile should score below the riskiest one.
	if scores[0] >= scores[3] {
		t.Fatalf("expected C1 (%v) below C4 (%v)", scores[0], scores[3])
	}

	dist := analytics.RiskDistribution(scores)
	total := dist["Low Risk"] + dist["Medium Risk"] + dist["High Risk"]
	if total != table.Len() {
		t.Fatalf("distribution should cover every customer, got %d", total)
	}
}

// Scoring shares the table with other request handlers, so it must treat the
// rows as read-only.
func TestScoreTableLeavesRowsUnchanged(t *testing.T) {
	table := analyticsTable(t)
	before := make([]dataset.Customer, table.Len())
	for i, c := range table.Customers {
		before[i] = *c
	}
	analytics.ScoreTable(table, []float64{0.05, 0.2, 0.5, 0.9, 0.15})
	analytics.ScoreTable(table, nil)
	for i, c := range table.Customers {
		if *c != before[i] {
			t.Fatalf("row %s changed during scoring", c.ID)
		}
	}
}
