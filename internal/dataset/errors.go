package dataset

import "fmt"

// SchemaError indicates a mismatch between the configured column set and the
// data actually present (missing columns, unknown categorical levels).
type SchemaError struct {
	Column string
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema mismatch on column %q: %s", e.Column, e.Detail)
	}
	return fmt.Sprintf("schema mismatch: %s", e.Detail)
}

// ParseError indicates malformed input data. Row is the 1-based data row
// (excluding the header), or 0 when the problem is not row-specific.
type ParseError struct {
	Row    int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed data at row %d: %s", e.Row, e.Detail)
	}
	return fmt.Sprintf("malformed data: %s", e.Detail)
}
