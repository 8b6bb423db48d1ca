package dataset

// Range is an inclusive numeric bound; nil means unbounded.
type Range struct {
	Min *float64
	Max *float64
}

func (r *Range) contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Filter selects customers for the dashboard pages. Value sets OR within a
// dimension and AND across dimensions; empty sets match everything.
type Filter struct {
	Tenure         *Range
	MonthlyCharges *Range
	Satisfaction   *Range
	Contracts      []string
	Internet       []string
	Payments       []string
}

// IsEmpty reports whether the filter matches every customer.
func (f *Filter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Tenure == nil && f.MonthlyCharges == nil && f.Satisfaction == nil &&
		len(f.Contracts) == 0 && len(f.Internet) == 0 && len(f.Payments) == 0
}

// Matches reports whether a single customer passes the filter.
func (f *Filter) Matches(c *Customer) bool {
	if f == nil {
		return true
	}
	if !f.Tenure.contains(c.Tenure) {
		return false
	}
	if !f.MonthlyCharges.contains(c.MonthlyCharges) {
		return false
	}
	if !f.Satisfaction.contains(c.SatisfactionScore) {
		return false
	}
	if !inSet(f.Contracts, c.ContractType) {
		return false
	}
	if !inSet(f.Internet, c.InternetService) {
		return false
	}
	if !inSet(f.Payments, c.PaymentMethod) {
		return false
	}
	return true
}

// Apply returns a new table holding only matching customers. A filter that
// excludes everything yields an empty table, not an error; pages render
// zero-count placeholders.
func (f *Filter) Apply(t *Table) *Table {
	if f.IsEmpty() {
		return t
	}
	var kept []*Customer
	for _, c := range t.Customers {
		if f.Matches(c) {
			kept = append(kept, c)
		}
	}
	out, _ := NewTable(kept) // subset of a table with unique ids
	return out
}

func inSet(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
