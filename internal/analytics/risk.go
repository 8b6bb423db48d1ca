package analytics

import (
	"strings"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
)

// Risk tier boundaries over the [0,1] score.
const (
	riskLowMax    = 0.30
	riskMediumMax = 0.60
)

// FactorScore is the auxiliary risk signal in [0,1]: short tenure, low
// satisfaction, loose contracts and manual payment methods all raise it.
// Weights: tenure 0.3, satisfaction 0.3, contract 0.2, payment 0.2.
func FactorScore(c *dataset.Customer, maxTenure float64) float64 {
	tenureRisk := 1 - c.Tenure/maxTenure
	satisfactionRisk := 1 - c.SatisfactionScore/5

	contractRisk := 1.0
	switch c.ContractType {
	case "One Year":
		contractRisk = 0.5
	case "Two Year":
		contractRisk = 0.25
	}

	paymentRisk := 0.4 // automatic methods are the safest
	switch {
	case strings.HasPrefix(strings.ToLower(c.PaymentMethod), "electronic"):
		paymentRisk = 0.8
	case strings.HasPrefix(strings.ToLower(c.PaymentMethod), "mailed"):
		paymentRisk = 0.6
	}

	s := tenureRisk*0.3 + satisfactionRisk*0.3 + contractRisk*0.2 + paymentRisk*0.2
	return clamp01(s)
}

// RiskScore blends the classifier probability with the factor signal, half
// and half, and clamps the result to [0,1].
func RiskScore(prob, factor float64) float64 {
	return clamp01(0.5*prob + 0.5*factor)
}

// ScoreTable computes blended risk scores for every customer, returned in
// table order. probs must align with the table; pass nil to score on factors
// alone. The rows are read-only here so concurrent scorings never interfere.
func ScoreTable(t *dataset.Table, probs []float64) []float64 {
	maxTenure := t.MaxTenure()
	out := make([]float64, t.Len())
	for i, c := range t.Customers {
		factor := FactorScore(c, maxTenure)
		if probs != nil {
			out[i] = RiskScore(probs[i], factor)
		} else {
			out[i] = factor
		}
	}
	return out
}

// RiskTier buckets a score into Low/Medium/High.
func RiskTier(score float64) string {
	switch {
	case score <= riskLowMax:
		return "Low Risk"
	case score <= riskMediumMax:
		return "Medium Risk"
	default:
		return "High Risk"
	}
}

// RiskDistribution counts customers per risk tier.
func RiskDistribution(scores []float64) map[string]int {
	out := map[string]int{"Low Risk": 0, "Medium Risk": 0, "High Risk": 0}
	for _, s := range scores {
		out[RiskTier(s)]++
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
