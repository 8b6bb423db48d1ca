package dataset_test

import (
	"testing"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

func fptr(v float64) *float64 { return &v }

func TestFilterRangesAndSets(t *testing.T) {
	table := statsTable(t)

	f := &dataset.Filter{Tenure: &dataset.Range{Min: fptr(10), Max: fptr(25)}}
	got := f.Apply(table)
	if got.Len() != 2 {
		t.Fatalf("tenure range should keep C1 and C2, got %d rows", got.Len())
	}

	f = &dataset.Filter{Contracts: []string{"Month-to-Month"}, Payments: []string{"Electronic Check"}}
	got = f.Apply(table)
	if got.Len() != 2 {
		t.Fatalf("contract+payment sets should keep 2 rows, got %d", got.Len())
	}

	f = &dataset.Filter{
		Contracts:      []string{"Month-to-Month"},
		MonthlyCharges: &dataset.Range{Min: fptr(100)},
	}
	got = f.Apply(table)
	if got.Len() != 1 {
		t.Fatalf("dimensions must AND together, got %d rows", got.Len())
	}
	if got.Customers[0].ID != "C4" {
		t.Fatalf("expected C4, got %s", got.Customers[0].ID)
	}
}

func TestFilterEmptyMatchesEverything(t *testing.T) {
	table := statsTable(t)
	var f *dataset.Filter
	if !f.IsEmpty() {
		t.Fatalf("nil filter should be empty")
	}
	if got := f.Apply(table); got.Len() != table.Len() {
		t.Fatalf("nil filter should keep all rows, got %d", got.Len())
	}
	if got := (&dataset.Filter{}).Apply(table); got != table {
		t.Fatalf("empty filter should return the table unchanged")
	}
}

func TestFilterCanExcludeEverything(t *testing.T) {
	table := statsTable(t)
	f := &dataset.Filter{Satisfaction: &dataset.Range{Min: fptr(99)}}
	got := f.Apply(table)
	if got.Len() != 0 {
		t.Fatalf("expected empty result, got %d rows", got.Len())
	}
}
