package viz_test

import (
	"strings"
	"testing"

	"github.com/adit9852/ChurnAI-Dashboard/internal/analytics"
	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/model"
	"github.com/adit9852/ChurnAI-Dashboard/internal/viz"
)

func vizTable(t *testing.T) *dataset.Table {
	t.Helper()
	csv := "CustomerID,Gender,Tenure,ContractType,MonthlyCharges,TotalCharges,InternetService,PaymentMethod,StreamingTV,StreamingMovies,PhoneService,SatisfactionScore,Churn\n" +
		"C1,Male,60,Two Year,55.00,3300.00,DSL,Credit Card,Yes,Yes,Yes,5.0,No\n" +
		"C2,Female,24,One Year,70.00,1680.00,Fiber Optic,Mailed Check,Yes,No,Yes,4.0,No\n" +
		"C3,Male,12,Month-to-Month,90.00,1080.00,Fiber Optic,Bank Transfer,No,No,Yes,3.0,Yes\n" +
		"C4,Female,2,Month-to-Month,110.00,220.00,Fiber Optic,Electronic Check,No,No,Yes,1.5,Yes\n"
	table, err := dataset.Read(strings.NewReader(csv), config.Default())
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return table
}

func testBuilder() *viz.Builder {
	return viz.NewBuilder(config.Default().Visualization)
}

func TestChurnDonutTotals(t *testing.T) {
	table := vizTable(t)
	chart := testBuilder().ChurnDonut(table)
	if chart.ChartType != "donut" {
		t.Fatalf("expected donut, got %q", chart.ChartType)
	}
	if len(chart.Series) != 1 || len(chart.Series[0].Data) != 2 {
		t.Fatalf("unexpected series layout: %+v", chart.Series)
	}
	retained := chart.Series[0].Data[0]
	churned := chart.Series[0].Data[1]
	if retained.Value+churned.Value != float64(table.Len()) {
		t.Fatalf("donut slices should sum to the table size")
	}
	if churned.Value != 2 {
		t.Fatalf("expected 2 churned, got %v", churned.Value)
	}
	if !strings.Contains(chart.Annotation, "4 customers") {
		t.Fatalf("annotation should carry the total, got %q", chart.Annotation)
	}
}

func TestChurnByContractGroups(t *testing.T) {
	table := vizTable(t)
	chart := testBuilder().ChurnByContract(table)
	if len(chart.Series) != 2 {
		t.Fatalf("expected retained+churned series, got %d", len(chart.Series))
	}
	// Labels are sorted contract types, identical across the two series.
	for i := range chart.Series[0].Data {
		if chart.Series[0].Data[i].Label != chart.Series[1].Data[i].Label {
			t.Fatalf("series labels diverge at %d", i)
		}
	}
	total := 0.0
	for _, s := range chart.Series {
		for _, p := range s.Data {
			total += p.Value
		}
	}
	if total != float64(table.Len()) {
		t.Fatalf("bar counts should sum to the table size, got %v", total)
	}
}

func TestProbabilityGaugeBands(t *testing.T) {
	chart := testBuilder().ProbabilityGauge(0.42)
	g := chart.Gauge
	if g == nil {
		t.Fatalf("gauge data missing")
	}
	if g.Value != 0.42 || g.Min != 0 || g.Max != 1 {
		t.Fatalf("gauge scale wrong: %+v", g)
	}
	if len(g.Bands) != 3 {
		t.Fatalf("expected 3 bands, got %d", len(g.Bands))
	}
	if g.Bands[0].To != 0.30 || g.Bands[1].To != 0.70 {
		t.Fatalf("band boundaries wrong: %+v", g.Bands)
	}
	// Bands must tile [0,1] without gaps.
	if g.Bands[0].From != 0 || g.Bands[2].To != 1 {
		t.Fatalf("bands do not cover the scale: %+v", g.Bands)
	}
	for i := 1; i < len(g.Bands); i++ {
		if g.Bands[i].From != g.Bands[i-1].To {
			t.Fatalf("gap between bands %d and %d", i-1, i)
		}
	}
}

func TestFeatureImportancesTopN(t *testing.T) {
	imps := []model.FeatureImportance{
		{Feature: "Tenure", Importance: 0.5},
		{Feature: "MonthlyCharges", Importance: 0.3},
		{Feature: "ContractType", Importance: 0.2},
	}
	chart := testBuilder().FeatureImportances(imps, 2)
	if len(chart.Series[0].Data) != 2 {
		t.Fatalf("expected top-2 cut, got %d points", len(chart.Series[0].Data))
	}
	if chart.Series[0].Data[0].Label != "Tenure" {
		t.Fatalf("expected Tenure first, got %q", chart.Series[0].Data[0].Label)
	}
}

func TestCorrelationHeatmapRange(t *testing.T) {
	table := vizTable(t)
	chart := testBuilder().CorrelationHeatmap(dataset.Correlations(table, []string{"Tenure", "MonthlyCharges"}))
	h := chart.Heatmap
	if h == nil {
		t.Fatalf("heatmap data missing")
	}
	if h.Min != -1 || h.Max != 1 {
		t.Fatalf("heatmap must use the fixed [-1,1] range, got [%v,%v]", h.Min, h.Max)
	}
	if len(h.Rows) != 2 || len(h.Values) != 2 {
		t.Fatalf("heatmap shape wrong: %d rows, %d value rows", len(h.Rows), len(h.Values))
	}
}

// The scatter must follow the segmentation's own labels; the table carries no
// cluster state, so a cached run with a smaller k stays renderable after runs
// with a larger k.
func TestSegmentScatterFollowsRunLabels(t *testing.T) {
	table := vizTable(t)
	seg := &analytics.Segmentation{
		K:        2,
		Features: []string{"Tenure", "MonthlyCharges", "SatisfactionScore"},
		Labels:   []int{0, 1, 0, 1},
	}
	chart := testBuilder().SegmentScatter(table, seg)
	if len(chart.Series) != 2 {
		t.Fatalf("expected one series per segment, got %d", len(chart.Series))
	}
	if len(chart.Series[0].Data) != 2 || len(chart.Series[1].Data) != 2 {
		t.Fatalf("points not split by label: %d/%d",
			len(chart.Series[0].Data), len(chart.Series[1].Data))
	}
	if chart.XAxis != "Tenure" || chart.YAxis != "MonthlyCharges" {
		t.Fatalf("axes should follow the clustering features: %q/%q", chart.XAxis, chart.YAxis)
	}
	// C1 (tenure 60) carries label 0, so it lands in the first series.
	if chart.Series[0].Data[0].Label != "C1" || chart.Series[0].Data[0].Value != 60 {
		t.Fatalf("unexpected first point: %+v", chart.Series[0].Data[0])
	}
}

func TestDistributionBarsStableOrder(t *testing.T) {
	counts := map[string]int{"Low Risk": 3, "Medium Risk": 2, "High Risk": 1}
	chart := testBuilder().DistributionBars("Risk Tiers", counts, []string{"Low Risk", "Medium Risk", "High Risk"})
	data := chart.Series[0].Data
	if data[0].Label != "Low Risk" || data[1].Label != "Medium Risk" || data[2].Label != "High Risk" {
		t.Fatalf("bars not in requested order: %+v", data)
	}
	if data[0].Value != 3 {
		t.Fatalf("counts not carried over: %+v", data[0])
	}
}
