// Package feature turns a loaded customer table into the numeric design
// matrix the models consume, keeping the mapping from encoded columns back to
// their original categorical values.
package feature

import (
	"fmt"
	"sort"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// Encoder label-encodes the configured categorical columns. Levels are sorted
// distinct values; codes are their ordinals. The reverse mapping is retained
// so analytics can report original labels.
type Encoder struct {
	Columns []string
	Levels  map[string][]string
	index   map[string]map[string]int
}

// BuildEncoder scans the table and fits one label map per configured column.
// A column declared in configuration but absent from the data is a
// configuration mismatch.
func BuildEncoder(t *dataset.Table, cols []string) (*Encoder, error) {
	e := &Encoder{
		Columns: append([]string(nil), cols...),
		Levels:  make(map[string][]string, len(cols)),
		index:   make(map[string]map[string]int, len(cols)),
	}
	for _, col := range cols {
		distinct := map[string]bool{}
		for _, c := range t.Customers {
			v, ok := c.CategoricalValue(col)
			if !ok {
				return nil, &dataset.SchemaError{Column: col, Detail: "declared categorical column is unknown"}
			}
			distinct[v] = true
		}
		levels := make([]string, 0, len(distinct))
		for v := range distinct {
			levels = append(levels, v)
		}
		sort.Strings(levels)
		idx := make(map[string]int, len(levels))
		for i, v := range levels {
			idx[v] = i
		}
		e.Levels[col] = levels
		e.index[col] = idx
	}
	return e, nil
}

// Encode maps a value to its ordinal. Unknown levels are schema errors that
// list the valid levels, so what-if inputs fail loudly instead of being
// silently mis-encoded.
func (e *Encoder) Encode(col, val string) (int, error) {
	idx, ok := e.index[col]
	if !ok {
		return 0, &dataset.SchemaError{Column: col, Detail: "column was not encoded"}
	}
	code, ok := idx[val]
	if !ok {
		return 0, &dataset.SchemaError{
			Column: col,
			Detail: fmt.Sprintf("unknown level %q, valid levels: %v", val, e.Levels[col]),
		}
	}
	return code, nil
}

// Decode maps an ordinal back to the original value.
func (e *Encoder) Decode(col string, code int) (string, bool) {
	levels, ok := e.Levels[col]
	if !ok || code < 0 || code >= len(levels) {
		return "", false
	}
	return levels[code], true
}
