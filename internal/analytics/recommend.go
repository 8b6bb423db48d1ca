package analytics

import (
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// Recommendation is one suggested action with a priority.
type Recommendation struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // High, Medium, Low
}

// CustomerRecommendations applies the personalized rule set to one customer:
// contract upgrades for month-to-month customers (high priority when charges
// run high), streaming add-ons for internet customers missing them, and a
// retention review when satisfaction dips below 3.
func CustomerRecommendations(c *dataset.Customer) []Recommendation {
	var out []Recommendation

	if c.ContractType == "Month-to-Month" {
		priority := "Medium"
		if c.MonthlyCharges > 70 {
			priority = "High"
		}
		out = append(out, Recommendation{
			Type:        "Contract Upgrade",
			Description: "Consider upgrading to an annual contract for better rates",
			Priority:    priority,
		})
	}

	if c.InternetService != "No" && c.InternetService != "" {
		if c.StreamingTV == "No" {
			out = append(out, Recommendation{
				Type:        "Service Addition",
				Description: "Add StreamingTV service to your package",
				Priority:    "Medium",
			})
		}
		if c.StreamingMovies == "No" {
			out = append(out, Recommendation{
				Type:        "Service Addition",
				Description: "Add StreamingMovies service to your package",
				Priority:    "Medium",
			})
		}
	}

	if c.SatisfactionScore < 3 {
		out = append(out, Recommendation{
			Type:        "Retention",
			Description: "Schedule customer satisfaction review",
			Priority:    "High",
		})
	}

	return out
}

// SegmentRecommendations applies the segment-level rule set to the aggregate
// profile of one cluster.
func SegmentRecommendations(p SegmentProfile) []Recommendation {
	var out []Recommendation

	if p.ChurnRate > 0.30 {
		out = append(out, Recommendation{
			Type:        "Retention",
			Description: "Implement targeted retention program",
			Priority:    "High",
		})
	} else if p.ChurnRate > 0.15 {
		out = append(out, Recommendation{
			Type:        "Retention",
			Description: "Monitor churn drivers and pre-empt with offers",
			Priority:    "Medium",
		})
	}

	if p.MeanSatisfaction < 3.5 {
		out = append(out, Recommendation{
			Type:        "Satisfaction",
			Description: "Launch satisfaction improvement initiative",
			Priority:    "High",
		})
	}

	if p.MeanTenure < 12 {
		out = append(out, Recommendation{
			Type:        "Engagement",
			Description: "Develop early-stage engagement program",
			Priority:    "Medium",
		})
	}

	return out
}
