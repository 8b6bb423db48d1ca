package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
)

// Raw IBM Telco exports use slightly different header names; normalize them
// before validation so both the telco file and our own seeder output load.
var headerRenames = map[string]string{
	"customerID": "CustomerID",
	"gender":     "Gender",
	"tenure":     "Tenure",
	"Contract":   "ContractType",
}

var contractRenames = map[string]string{
	"Month-to-month": "Month-to-Month",
	"One year":       "One Year",
	"Two year":       "Two Year",
}

// Columns synthesized after load when absent from the input file. Every other
// configured column must be present in the header.
var derivedColumns = map[string]bool{
	"Age":               true,
	"SatisfactionScore": true,
	"LastUpdate":        true,
}

const synthSeed = 42

// Load reads a churn CSV into a Table. The header must contain the configured
// id and target columns plus every configured categorical and numerical
// column (derived columns excepted); anything missing is a SchemaError.
// Missing TotalCharges values fall back to MonthlyCharges*Tenure, contract
// labels are normalized, and Age/SatisfactionScore/LastUpdate are synthesized
// deterministically when the file does not carry them.
func Load(path string, cfg *config.Settings) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f, cfg)
}

// Read is Load over an arbitrary reader.
func Read(r io.Reader, cfg *config.Settings) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Detail: "empty file"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if renamed, ok := headerRenames[name]; ok {
			name = renamed
		}
		idx[name] = i
	}

	if err := validateHeader(idx, cfg); err != nil {
		return nil, err
	}

	var customers []*Customer
	row := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		c, err := parseRow(rec, idx, row, cfg.Data.IDColumn, cfg.Data.TargetColumn)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if len(customers) == 0 {
		return nil, &ParseError{Detail: "no data rows"}
	}

	synthesize(customers, idx)

	t, err := NewTable(customers)
	if err != nil {
		return nil, err
	}
	ComputeMetrics(t, cfg)
	return t, nil
}

func validateHeader(idx map[string]int, cfg *config.Settings) error {
	required := []string{cfg.Data.IDColumn, cfg.Data.TargetColumn}
	required = append(required, cfg.Data.CategoricalColumns...)
	for _, col := range cfg.Data.NumericalColumns {
		if !derivedColumns[col] {
			required = append(required, col)
		}
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return &SchemaError{Column: col, Detail: "declared in configuration but missing from input"}
		}
	}
	return nil
}

// parseRow maps one record onto the typed row. The id and target columns
// carry whatever names the configuration declares; the attribute columns are
// fixed by the Customer schema.
func parseRow(rec []string, idx map[string]int, row int, idCol, targetCol string) (*Customer, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(col string) (float64, error) {
		s := field(col)
		if s == "" {
			return math.NaN(), nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &ParseError{Row: row, Detail: fmt.Sprintf("column %s: %q is not numeric", col, s)}
		}
		return v, nil
	}

	c := &Customer{
		ID:               field(idCol),
		Gender:           field("Gender"),
		Partner:          field("Partner"),
		Dependents:       field("Dependents"),
		PhoneService:     field("PhoneService"),
		MultipleLines:    field("MultipleLines"),
		InternetService:  field("InternetService"),
		OnlineSecurity:   field("OnlineSecurity"),
		OnlineBackup:     field("OnlineBackup"),
		DeviceProtection: field("DeviceProtection"),
		TechSupport:      field("TechSupport"),
		StreamingTV:      field("StreamingTV"),
		StreamingMovies:  field("StreamingMovies"),
		ContractType:     field("ContractType"),
		PaperlessBilling: field("PaperlessBilling"),
		PaymentMethod:    field("PaymentMethod"),
	}
	if c.ID == "" {
		return nil, &ParseError{Row: row, Detail: "missing customer id"}
	}
	if norm, ok := contractRenames[c.ContractType]; ok {
		c.ContractType = norm
	}

	var err error
	if c.Tenure, err = num("Tenure"); err != nil {
		return nil, err
	}
	if math.IsNaN(c.Tenure) {
		return nil, &ParseError{Row: row, Detail: "missing Tenure"}
	}
	if c.MonthlyCharges, err = num("MonthlyCharges"); err != nil {
		return nil, err
	}
	if math.IsNaN(c.MonthlyCharges) {
		return nil, &ParseError{Row: row, Detail: "missing MonthlyCharges"}
	}
	// Telco exports contain blank TotalCharges for brand-new customers.
	if tc := field("TotalCharges"); tc == "" {
		c.TotalCharges = c.MonthlyCharges * c.Tenure
	} else if v, perr := strconv.ParseFloat(tc, 64); perr == nil {
		c.TotalCharges = v
	} else {
		c.TotalCharges = c.MonthlyCharges * c.Tenure
	}

	if sc := field("SeniorCitizen"); sc != "" {
		if v, perr := strconv.Atoi(sc); perr == nil {
			c.SeniorCitizen = v
		}
	}

	switch field(targetCol) {
	case "Yes", "1":
		c.Churn = 1
	case "No", "0", "":
		c.Churn = 0
	default:
		return nil, &ParseError{Row: row, Detail: fmt.Sprintf("column %s: %q is not a yes/no label", targetCol, field(targetCol))}
	}

	if _, present := idx["Age"]; present {
		if v, perr := num("Age"); perr == nil && !math.IsNaN(v) {
			c.Age = int(v)
		}
	}
	if _, present := idx["SatisfactionScore"]; present {
		if v, perr := num("SatisfactionScore"); perr == nil && !math.IsNaN(v) {
			c.SatisfactionScore = v
		}
	}
	return c, nil
}

// synthesize fills Age, SatisfactionScore and LastUpdate for files that do
// not carry them, with a fixed seed so repeated loads agree.
func synthesize(customers []*Customer, idx map[string]int) {
	rng := rand.New(rand.NewSource(synthSeed))
	n := len(customers)

	_, hasAge := idx["Age"]
	_, hasSat := idx["SatisfactionScore"]

	for _, c := range customers {
		if !hasAge {
			age := int(rng.NormFloat64()*15 + 45)
			c.Age = clampInt(age, 18, 85)
		}
		if !hasSat {
			// Churned customers trend lower.
			s := 5 - float64(c.Churn)*2 + rng.NormFloat64()*0.5
			c.SatisfactionScore = math.Round(clamp(s, 1, 5)*10) / 10
		}
	}

	end := time.Now().Truncate(24 * time.Hour)
	perm := rng.Perm(n)
	for i, c := range customers {
		c.LastUpdate = end.AddDate(0, 0, -perm[i])
	}
}

// ComputeMetrics fills the per-customer derived metrics: CLV, ARPU and the
// service usage count over the configured service columns.
func ComputeMetrics(t *Table, cfg *config.Settings) {
	for _, c := range t.Customers {
		c.CLV = c.MonthlyCharges * c.Tenure
		c.ARPU = c.TotalCharges / math.Max(c.Tenure, 1)
		used := 0
		for _, col := range cfg.Data.ServiceColumns {
			if v, ok := c.CategoricalValue(col); ok && v != "No" && v != "" {
				used++
			}
		}
		c.ServiceUsageScore = used
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
