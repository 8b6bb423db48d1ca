package feature

import (
	"fmt"
	"math"

	"github.com/ezoic/scigo/preprocessing"
	"gonum.org/v1/gonum/mat"

	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// Design is the numeric feature matrix for one table: standard-scaled
// numerical columns followed by label-encoded categorical columns, with the
// fitted scaler and encoder retained so single prediction rows go through the
// exact same transform.
type Design struct {
	X        *mat.Dense
	Features []string
	Labels   []int
	Encoder  *Encoder

	numCols []string
	scaler  *preprocessing.StandardScaler
}

// NewDesign builds the design matrix from a table. It is a pure transform:
// the table is not mutated. NaN or infinite values in a declared numerical
// column are rejected, so the resulting matrix never carries missing values.
func NewDesign(t *dataset.Table, cfg *config.Settings) (*Design, error) {
	if t.Len() == 0 {
		return nil, &dataset.ParseError{Detail: "cannot build features from an empty table"}
	}
	enc, err := BuildEncoder(t, cfg.Data.CategoricalColumns)
	if err != nil {
		return nil, err
	}

	numCols := cfg.Data.NumericalColumns
	n := t.Len()
	raw := mat.NewDense(n, len(numCols), nil)
	for j, col := range numCols {
		for i, c := range t.Customers {
			v, ok := c.NumericValue(col)
			if !ok {
				return nil, &dataset.SchemaError{Column: col, Detail: "declared numerical column is unknown"}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &dataset.ParseError{Row: i + 1, Detail: fmt.Sprintf("column %s: missing or non-finite value", col)}
			}
			raw.Set(i, j, v)
		}
	}

	scaler := preprocessing.NewStandardScaler(true, true)
	if err := scaler.Fit(raw); err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	scaled, err := scaler.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("scale features: %w", err)
	}

	features := append([]string(nil), numCols...)
	features = append(features, enc.Columns...)
	x := mat.NewDense(n, len(features), nil)
	labels := make([]int, n)
	for i, c := range t.Customers {
		for j := range numCols {
			x.Set(i, j, scaled.At(i, j))
		}
		for k, col := range enc.Columns {
			v, _ := c.CategoricalValue(col)
			code, err := enc.Encode(col, v)
			if err != nil {
				return nil, err
			}
			x.Set(i, len(numCols)+k, float64(code))
		}
		labels[i] = c.Churn
	}

	return &Design{
		X:        x,
		Features: features,
		Labels:   labels,
		Encoder:  enc,
		numCols:  append([]string(nil), numCols...),
		scaler:   scaler,
	}, nil
}

// Row encodes a single customer against the fitted schema. Unknown
// categorical levels and non-finite numerics fail the same way training rows
// would, which is what keeps prediction inputs honest.
func (d *Design) Row(c *dataset.Customer) ([]float64, error) {
	raw := mat.NewDense(1, len(d.numCols), nil)
	for j, col := range d.numCols {
		v, ok := c.NumericValue(col)
		if !ok {
			return nil, &dataset.SchemaError{Column: col, Detail: "declared numerical column is unknown"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &dataset.ParseError{Detail: fmt.Sprintf("column %s: missing or non-finite value", col)}
		}
		raw.Set(0, j, v)
	}
	scaled, err := d.scaler.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("scale row: %w", err)
	}

	row := make([]float64, len(d.Features))
	for j := range d.numCols {
		row[j] = scaled.At(0, j)
	}
	for k, col := range d.Encoder.Columns {
		v, _ := c.CategoricalValue(col)
		code, err := d.Encoder.Encode(col, v)
		if err != nil {
			return nil, err
		}
		row[len(d.numCols)+k] = float64(code)
	}
	return row, nil
}

// ScalingMethod selects how clustering features are normalized.
type ScalingMethod string

const (
	ScaleStandard ScalingMethod = "standard"
	ScaleMinMax   ScalingMethod = "minmax"
)

// ColumnsMatrix extracts and scales a subset of numeric columns for
// clustering. Standard scaling goes through the same scaler the design matrix
// uses; min-max rescales each column to [0, 1].
func ColumnsMatrix(t *dataset.Table, cols []string, method ScalingMethod) (*mat.Dense, error) {
	if t.Len() == 0 {
		return nil, &dataset.ParseError{Detail: "cannot build features from an empty table"}
	}
	n := t.Len()
	raw := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		for i, c := range t.Customers {
			v, ok := c.NumericValue(col)
			if !ok {
				return nil, &dataset.SchemaError{Column: col, Detail: "unknown clustering feature"}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &dataset.ParseError{Row: i + 1, Detail: fmt.Sprintf("column %s: missing or non-finite value", col)}
			}
			raw.Set(i, j, v)
		}
	}

	switch method {
	case ScaleMinMax:
		for j := range cols {
			lo, hi := math.Inf(1), math.Inf(-1)
			for i := 0; i < n; i++ {
				v := raw.At(i, j)
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			span := hi - lo
			for i := 0; i < n; i++ {
				if span == 0 {
					raw.Set(i, j, 0)
					continue
				}
				raw.Set(i, j, (raw.At(i, j)-lo)/span)
			}
		}
		return raw, nil
	case ScaleStandard, "":
		scaler := preprocessing.NewStandardScaler(true, true)
		if err := scaler.Fit(raw); err != nil {
			return nil, fmt.Errorf("fit scaler: %w", err)
		}
		scaled, err := scaler.Transform(raw)
		if err != nil {
			return nil, fmt.Errorf("scale features: %w", err)
		}
		return scaled.(*mat.Dense), nil
	default:
		return nil, fmt.Errorf("unknown scaling method %q", method)
	}
}
