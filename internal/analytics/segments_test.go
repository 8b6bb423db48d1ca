package analytics_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/adit9852/ChurnAI-Dashboard/internal/analytics"
	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/feature"
)

// segmentTable builds two obvious groups: loyal low-spend veterans and new
// high-spend month-to-month customers.
func segmentTable(t *testing.T) *dataset.Table {
	t.Helper()
	var b strings.Builder
	b.WriteString("CustomerID,Gender,Tenure,ContractType,MonthlyCharges,TotalCharges,InternetService,PaymentMethod,StreamingTV,StreamingMovies,PhoneService,SatisfactionScore,Churn\n")
	for i := 0; i < 10; i++ {
		b.WriteString("L" + strconv.Itoa(i) + ",Male," + strconv.Itoa(58+i) + ",Two Year,5" + strconv.Itoa(i) + ".00,3000.00,DSL,Credit Card,Yes,Yes,Yes,4.5,No\n")
		b.WriteString("N" + strconv.Itoa(i) + ",Female," + strconv.Itoa(1+i) + ",Month-to-Month,10" + strconv.Itoa(i) + ".00,150.00,Fiber Optic,Electronic Check,No,No,Yes,2.0,Yes\n")
	}
	table, err := dataset.Read(strings.NewReader(b.String()), config.Default())
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return table
}

func TestSegmentProfilesAndLabels(t *testing.T) {
	table := segmentTable(t)
	cfg := config.Default()

	seg, err := analytics.Segment(table, cfg, 2, []string{"Tenure", "MonthlyCharges"}, feature.ScaleStandard)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if seg.K != 2 || len(seg.Profiles) != 2 || len(seg.Labels) != table.Len() {
		t.Fatalf("unexpected segmentation shape: %+v", seg)
	}

	for _, l := range seg.Labels {
		if l < 0 || l >= seg.K {
			t.Fatalf("label outside [0,%d): %d", seg.K, l)
		}
	}

	// The two designed groups must not be mixed.
	loyal := seg.Labels[0]
	for i, c := range table.Customers {
		if strings.HasPrefix(c.ID, "L") && seg.Labels[i] != loyal {
			t.Fatalf("loyal group split: %s in segment %d", c.ID, seg.Labels[i])
		}
		if strings.HasPrefix(c.ID, "N") && seg.Labels[i] == loyal {
			t.Fatalf("groups merged: %s in segment %d", c.ID, seg.Labels[i])
		}
	}

	sizes := 0
	for _, p := range seg.Profiles {
		sizes += p.Size
		if p.Size == 0 {
			t.Fatalf("segment %d is empty", p.Segment)
		}
		if p.Share <= 0 || p.Share > 1 {
			t.Fatalf("segment %d share outside (0,1]: %v", p.Segment, p.Share)
		}
	}
	if sizes != table.Len() {
		t.Fatalf("profile sizes should sum to the table, got %d", sizes)
	}

	// The churn-heavy newcomer segment earns retention recommendations.
	for _, p := range seg.Profiles {
		if p.ChurnRate > 0.30 && len(p.Recommendations) == 0 {
			t.Fatalf("high-churn segment %d has no recommendations", p.Segment)
		}
		if p.TopContract == "" || p.TopInternet == "" {
			t.Fatalf("segment %d missing dominant categories", p.Segment)
		}
	}
}

// Segmentations are cached per parameter set, so a run must stay consistent
// with its own labels even after later runs with a different k.
func TestSegmentRunsAreIndependent(t *testing.T) {
	table := segmentTable(t)
	cfg := config.Default()

	first, err := analytics.Segment(table, cfg, 2, []string{"Tenure", "MonthlyCharges"}, feature.ScaleStandard)
	if err != nil {
		t.Fatalf("k=2: %v", err)
	}
	if _, err := analytics.Segment(table, cfg, 4, []string{"Tenure", "MonthlyCharges"}, feature.ScaleStandard); err != nil {
		t.Fatalf("k=4: %v", err)
	}

	counts := make([]int, first.K)
	for i, l := range first.Labels {
		if l < 0 || l >= first.K {
			t.Fatalf("k=2 label outside [0,%d) at row %d: %d", first.K, i, l)
		}
		counts[l]++
	}
	for _, p := range first.Profiles {
		if p.Size != counts[p.Segment] {
			t.Fatalf("segment %d profile size %d disagrees with its labels (%d)",
				p.Segment, p.Size, counts[p.Segment])
		}
	}
}

func TestSegmentDefaultsAndErrors(t *testing.T) {
	table := segmentTable(t)
	cfg := config.Default()

	seg, err := analytics.Segment(table, cfg, 2, nil, feature.ScaleMinMax)
	if err != nil {
		t.Fatalf("segment with defaults: %v", err)
	}
	if len(seg.Features) != len(cfg.Cluster.DefaultFeatures) {
		t.Fatalf("expected configured default features, got %v", seg.Features)
	}

	if _, err := analytics.Segment(table, cfg, 2, []string{"NoSuchColumn"}, feature.ScaleStandard); err == nil {
		t.Fatalf("expected error for unknown feature column")
	}
}
