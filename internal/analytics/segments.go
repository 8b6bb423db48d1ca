package analytics

import (
	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/feature"
	"github.com/adit9852/ChurnAI-Dashboard/internal/model"
)

// SegmentProfile aggregates one cluster of customers.
type SegmentProfile struct {
	Segment          int              `json:"segment"`
	Size             int              `json:"size"`
	Share            float64          `json:"share"`
	MeanTenure       float64          `json:"mean_tenure"`
	MeanMonthly      float64          `json:"mean_monthly_charges"`
	MeanSatisfaction float64          `json:"mean_satisfaction"`
	ChurnRate        float64          `json:"churn_rate"`
	TopContract      string           `json:"top_contract"`
	TopInternet      string           `json:"top_internet"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// Segmentation is the result of one clustering run.
type Segmentation struct {
	K         int              `json:"k"`
	Features  []string         `json:"features"`
	Scaling   string           `json:"scaling"`
	Labels    []int            `json:"labels"`
	Centroids [][]float64      `json:"centroids"`
	Profiles  []SegmentProfile `json:"profiles"`
}

// Segment clusters the table on the given numeric features with k-means and
// profiles each cluster. Labels align with t.Customers; the table itself is
// never touched, so concurrent runs with different k stay independent.
// Features default to the configured cluster feature set.
func Segment(t *dataset.Table, cfg *config.Settings, k int, features []string, scaling feature.ScalingMethod) (*Segmentation, error) {
	if len(features) == 0 {
		features = cfg.Cluster.DefaultFeatures
	}
	x, err := feature.ColumnsMatrix(t, features, scaling)
	if err != nil {
		return nil, err
	}
	labels, centroids, err := model.Cluster(x, k, cfg.Model.RandomState)
	if err != nil {
		return nil, err
	}

	seg := &Segmentation{
		K:         k,
		Features:  features,
		Scaling:   string(scaling),
		Labels:    labels,
		Centroids: centroids,
	}
	seg.Profiles = profileSegments(t, labels, k)
	for i := range seg.Profiles {
		seg.Profiles[i].Recommendations = SegmentRecommendations(seg.Profiles[i])
	}
	return seg, nil
}

func profileSegments(t *dataset.Table, labels []int, k int) []SegmentProfile {
	type acc struct {
		n                             int
		tenure, monthly, satisfaction float64
		churned                       int
		contracts                     map[string]int
		internet                      map[string]int
	}
	accs := make([]acc, k)
	for i := range accs {
		accs[i].contracts = map[string]int{}
		accs[i].internet = map[string]int{}
	}
	for i, c := range t.Customers {
		a := &accs[labels[i]]
		a.n++
		a.tenure += c.Tenure
		a.monthly += c.MonthlyCharges
		a.satisfaction += c.SatisfactionScore
		a.churned += c.Churn
		a.contracts[c.ContractType]++
		a.internet[c.InternetService]++
	}

	total := float64(t.Len())
	profiles := make([]SegmentProfile, k)
	for s := 0; s < k; s++ {
		a := accs[s]
		p := SegmentProfile{Segment: s, Size: a.n}
		if a.n > 0 {
			n := float64(a.n)
			p.Share = n / total
			p.MeanTenure = a.tenure / n
			p.MeanMonthly = a.monthly / n
			p.MeanSatisfaction = a.satisfaction / n
			p.ChurnRate = float64(a.churned) / n
			p.TopContract = dominant(a.contracts)
			p.TopInternet = dominant(a.internet)
		}
		profiles[s] = p
	}
	return profiles
}

func dominant(counts map[string]int) string {
	best, bestN := "", -1
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}
