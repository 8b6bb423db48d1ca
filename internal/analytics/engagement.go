package analytics

import (
	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// EngagementInsight is the per-customer engagement breakdown.
type EngagementInsight struct {
	CustomerID         string  `json:"customer_id"`
	EngagementScore    float64 `json:"engagement_score"`
	ServiceAdoption    float64 `json:"service_adoption"`
	ContractCommitment string  `json:"contract_commitment"`
	Tenure             float64 `json:"tenure"`
}

// EngagementScores computes a 0-100 engagement score per customer: service
// adoption (share of configured services in use) at 0.4, tenure relative to
// the cohort maximum at 0.3, and contract commitment at 0.3. Scores come back
// in table order; the rows stay untouched.
func EngagementScores(t *dataset.Table, cfg *config.Settings) []float64 {
	maxTenure := t.MaxTenure()
	nServices := len(cfg.Data.ServiceColumns)
	out := make([]float64, t.Len())
	for i, c := range t.Customers {
		adoption := 0.0
		if nServices > 0 {
			adoption = float64(c.ServiceUsageScore) / float64(nServices) * 100
		}
		tenureScore := c.Tenure / maxTenure * 100
		contractScore := 33.0
		switch c.ContractType {
		case "One Year":
			contractScore = 66
		case "Two Year":
			contractScore = 100
		}
		out[i] = adoption*0.4 + tenureScore*0.3 + contractScore*0.3
	}
	return out
}

// EngagementInsights pairs each score with its components.
func EngagementInsights(t *dataset.Table, cfg *config.Settings) []EngagementInsight {
	scores := EngagementScores(t, cfg)
	nServices := len(cfg.Data.ServiceColumns)
	out := make([]EngagementInsight, 0, t.Len())
	for i, c := range t.Customers {
		adoption := 0.0
		if nServices > 0 {
			adoption = float64(c.ServiceUsageScore) / float64(nServices)
		}
		commitment := "Low"
		switch c.ContractType {
		case "One Year":
			commitment = "Medium"
		case "Two Year":
			commitment = "High"
		}
		out = append(out, EngagementInsight{
			CustomerID:         c.ID,
			EngagementScore:    scores[i],
			ServiceAdoption:    adoption,
			ContractCommitment: commitment,
			Tenure:             c.Tenure,
		})
	}
	return out
}
