package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/feature"
)

// Artifact is one trained model: the fitted forest, the feature schema it was
// trained on (with encoding maps), and its evaluation. Analytics treat it as
// read-only; it lives in memory only and is identified by its uuid.
type Artifact struct {
	ID        string          `json:"id"`
	TrainedAt time.Time       `json:"trained_at"`
	Forest    *Forest         `json:"-"`
	Design    *feature.Design `json:"-"`
	Metrics   *Metrics        `json:"metrics"`
}

// Train builds the design matrix for a table, trains and evaluates a forest
// on it, and wraps the result into an artifact.
func Train(t *dataset.Table, cfg *config.Settings) (*Artifact, error) {
	design, err := feature.NewDesign(t, cfg)
	if err != nil {
		return nil, err
	}
	forest, metrics, err := TrainEvaluate(design.X, design.Labels, design.Features, cfg.Model)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		ID:        uuid.NewString(),
		TrainedAt: time.Now(),
		Forest:    forest,
		Design:    design,
		Metrics:   metrics,
	}, nil
}

// PredictCustomer runs one customer through the trained schema and returns
// P(churn). Schema violations (unknown levels, missing features) surface as
// the encoding errors, not as silent zeros.
func (a *Artifact) PredictCustomer(c *dataset.Customer) (float64, error) {
	row, err := a.Design.Row(c)
	if err != nil {
		return 0, err
	}
	return a.Forest.PredictRow(row)
}

// PredictTable scores every customer in a table.
func (a *Artifact) PredictTable(t *dataset.Table) ([]float64, error) {
	out := make([]float64, t.Len())
	for i, c := range t.Customers {
		p, err := a.PredictCustomer(c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
