package dataset

import "time"

// Customer is one row of the churn dataset. Rows are immutable after the
// load-time metrics pass fills the derived columns; the analytics layer
// returns its scores in table order instead of writing onto rows, so the
// shared table is safe under concurrent request handlers.
type Customer struct {
	ID               string
	Gender           string
	SeniorCitizen    int
	Partner          string
	Dependents       string
	Tenure           float64
	PhoneService     string
	MultipleLines    string
	InternetService  string
	OnlineSecurity   string
	OnlineBackup     string
	DeviceProtection string
	TechSupport      string
	StreamingTV      string
	StreamingMovies  string
	ContractType     string
	PaperlessBilling string
	PaymentMethod    string
	MonthlyCharges   float64
	TotalCharges     float64
	Churn            int

	// Derived at load time.
	Age               int
	SatisfactionScore float64
	LastUpdate        time.Time

	// Filled by the load-time metrics pass.
	CLV               float64
	ARPU              float64
	ServiceUsageScore int
}

// CategoricalValue resolves a configured categorical column name to its value
// for this customer. The registry keeps config-driven code from switching on
// column literals all over the tree.
func (c *Customer) CategoricalValue(col string) (string, bool) {
	switch col {
	case "Gender":
		return c.Gender, true
	case "Partner":
		return c.Partner, true
	case "Dependents":
		return c.Dependents, true
	case "PhoneService":
		return c.PhoneService, true
	case "MultipleLines":
		return c.MultipleLines, true
	case "InternetService":
		return c.InternetService, true
	case "OnlineSecurity":
		return c.OnlineSecurity, true
	case "OnlineBackup":
		return c.OnlineBackup, true
	case "DeviceProtection":
		return c.DeviceProtection, true
	case "TechSupport":
		return c.TechSupport, true
	case "StreamingTV":
		return c.StreamingTV, true
	case "StreamingMovies":
		return c.StreamingMovies, true
	case "ContractType":
		return c.ContractType, true
	case "PaperlessBilling":
		return c.PaperlessBilling, true
	case "PaymentMethod":
		return c.PaymentMethod, true
	}
	return "", false
}

// NumericValue resolves a configured numerical column name.
func (c *Customer) NumericValue(col string) (float64, bool) {
	switch col {
	case "Tenure":
		return c.Tenure, true
	case "MonthlyCharges":
		return c.MonthlyCharges, true
	case "TotalCharges":
		return c.TotalCharges, true
	case "SatisfactionScore":
		return c.SatisfactionScore, true
	case "Age":
		return float64(c.Age), true
	case "SeniorCitizen":
		return float64(c.SeniorCitizen), true
	case "Churn":
		return float64(c.Churn), true
	case "CLV":
		return c.CLV, true
	case "ARPU":
		return c.ARPU, true
	case "ServiceUsageScore":
		return float64(c.ServiceUsageScore), true
	}
	return 0, false
}

// Table is an in-memory churn dataset with unique customer IDs.
type Table struct {
	Customers []*Customer
	byID      map[string]*Customer
}

// NewTable builds a table and enforces ID uniqueness.
func NewTable(customers []*Customer) (*Table, error) {
	byID := make(map[string]*Customer, len(customers))
	for i, c := range customers {
		if _, dup := byID[c.ID]; dup {
			return nil, &ParseError{Row: i + 1, Detail: "duplicate customer id " + c.ID}
		}
		byID[c.ID] = c
	}
	return &Table{Customers: customers, byID: byID}, nil
}

// Len returns the number of customers.
func (t *Table) Len() int { return len(t.Customers) }

// ByID looks up a customer by identifier.
func (t *Table) ByID(id string) (*Customer, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// MaxTenure returns the largest tenure in the table, at least 1 so score
// normalizations never divide by zero.
func (t *Table) MaxTenure() float64 {
	max := 1.0
	for _, c := range t.Customers {
		if c.Tenure > max {
			max = c.Tenure
		}
	}
	return max
}
