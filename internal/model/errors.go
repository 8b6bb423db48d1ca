package model

import "fmt"

// FitError indicates model training could not proceed, e.g. the label column
// carries fewer than two classes. No model is returned alongside it.
type FitError struct {
	Detail string
}

func (e *FitError) Error() string { return "model fit: " + e.Detail }

// DimensionError indicates prediction input whose feature columns do not
// match the schema the model was trained on.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("prediction input has %d feature columns, model was trained on %d", e.Got, e.Want)
}
