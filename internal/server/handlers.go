package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gonum.org/v1/gonum/stat"

	"github.com/adit9852/ChurnAI-Dashboard/internal/analytics"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/feature"
	"github.com/adit9852/ChurnAI-Dashboard/internal/model"
	"github.com/adit9852/ChurnAI-Dashboard/internal/viz"
)

// KPI is one headline number with its delta against the unfiltered table.
type KPI struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Delta float64 `json:"delta"`
}

func filterFromQuery(q map[string][]string) *dataset.Filter {
	get := func(key string) string {
		if v, ok := q[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}
	rangeOf := func(minKey, maxKey string) *dataset.Range {
		var r dataset.Range
		set := false
		if v, err := strconv.ParseFloat(get(minKey), 64); err == nil {
			r.Min = &v
			set = true
		}
		if v, err := strconv.ParseFloat(get(maxKey), 64); err == nil {
			r.Max = &v
			set = true
		}
		if !set {
			return nil
		}
		return &r
	}
	listOf := func(key string) []string {
		raw := get(key)
		if raw == "" {
			return nil
		}
		var out []string
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	return &dataset.Filter{
		Tenure:         rangeOf("tenure_min", "tenure_max"),
		MonthlyCharges: rangeOf("monthly_min", "monthly_max"),
		Satisfaction:   rangeOf("satisfaction_min", "satisfaction_max"),
		Contracts:      listOf("contracts"),
		Internet:       listOf("internet"),
		Payments:       listOf("payments"),
	}
}

func meanOf(t *dataset.Table, col string) float64 {
	vals := dataset.Column(t, col)
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r.URL.Query())
	filtered := f.Apply(s.table)

	kpis := []KPI{
		{Label: "Customers", Value: float64(filtered.Len()), Delta: float64(filtered.Len() - s.table.Len())},
		{Label: "Churn Rate", Value: dataset.ChurnRate(filtered), Delta: dataset.ChurnRate(filtered) - dataset.ChurnRate(s.table)},
		{Label: "Avg Monthly Charges", Value: meanOf(filtered, "MonthlyCharges"), Delta: meanOf(filtered, "MonthlyCharges") - meanOf(s.table, "MonthlyCharges")},
		{Label: "Avg Satisfaction", Value: meanOf(filtered, "SatisfactionScore"), Delta: meanOf(filtered, "SatisfactionScore") - meanOf(s.table, "SatisfactionScore")},
	}

	charts := []*viz.ChartConfig{
		s.builder.ChurnDonut(filtered),
		s.builder.ChurnByContract(filtered),
		s.builder.NumericHistogramByChurn(filtered, "MonthlyCharges", 20),
		s.builder.ServiceUsage(filtered, s.cfg.Data.ServiceColumns),
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"kpis":      kpis,
		"charts":    nonNil(charts),
		"highRisk":  len(analytics.HighRiskCohort(filtered)),
		"valuable":  len(analytics.ValuableCohort(filtered)),
		"summaries": dataset.Summarize(filtered, s.cfg.Data.NumericalColumns),
	})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r.URL.Query())
	filtered := f.Apply(s.table)

	corrCols := append([]string(nil), s.cfg.Data.NumericalColumns...)
	corrCols = append(corrCols, "Churn")

	revenueByContract := dataset.GroupMeans(filtered, "ContractType", "TotalCharges")
	charts := []*viz.ChartConfig{
		s.builder.SatisfactionByChurn(filtered),
		s.builder.TenureChargeLines(filtered),
		s.builder.CorrelationHeatmap(dataset.Correlations(filtered, corrCols)),
		s.builder.NumericHistogramByChurn(filtered, "CLV", 20),
		s.builder.BarFromValues("Average Revenue by Contract", "Contract Type", revenueByContract),
	}

	crosstab := dataset.CrossTab(filtered, "PaymentMethod", "ContractType")
	writeSuccess(w, http.StatusOK, map[string]any{
		"charts":          nonNil(charts),
		"paymentCrosstab": crosstabTable("Payment Method by Contract", crosstab),
	})
}

type trainRequest struct {
	NEstimators int     `json:"n_estimators"`
	MaxDepth    int     `json:"max_depth"`
	TestSize    float64 `json:"test_size"`
}

// trainedArtifact trains (or recalls) a model for the given hyperparameters.
func (s *Server) trainedArtifact(req trainRequest) (*model.Artifact, error) {
	cfg := *s.cfg
	if req.NEstimators > 0 {
		cfg.Model.NEstimators = req.NEstimators
	}
	if req.MaxDepth > 0 {
		cfg.Model.MaxDepth = req.MaxDepth
	}
	if req.TestSize > 0 && req.TestSize < 1 {
		cfg.Model.TestSize = req.TestSize
	}
	key := memoKey("train", map[string]string{
		"trees": strconv.Itoa(cfg.Model.NEstimators),
		"depth": strconv.Itoa(cfg.Model.MaxDepth),
		"test":  fmt.Sprintf("%.3f", cfg.Model.TestSize),
		"seed":  strconv.FormatInt(cfg.Model.RandomState, 10),
	})
	if v, ok := s.memo.get(key); ok {
		return v.(*model.Artifact), nil
	}
	artifact, err := model.Train(s.table, &cfg)
	if err != nil {
		return nil, err
	}
	s.memo.set(key, artifact)
	return artifact, nil
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body keeps defaults
	}
	artifact, err := s.trainedArtifact(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"model": map[string]any{
			"id":         artifact.ID,
			"trained_at": artifact.TrainedAt,
			"features":   artifact.Design.Features,
		},
		"metrics":         artifact.Metrics,
		"importanceChart": s.builder.FeatureImportances(artifact.Metrics.Importances, 10),
	})
}

type predictRequest struct {
	Gender            string  `json:"gender"`
	Tenure            float64 `json:"tenure"`
	ContractType      string  `json:"contract_type"`
	InternetService   string  `json:"internet_service"`
	PaymentMethod     string  `json:"payment_method"`
	PhoneService      string  `json:"phone_service"`
	StreamingTV       string  `json:"streaming_tv"`
	StreamingMovies   string  `json:"streaming_movies"`
	MonthlyCharges    float64 `json:"monthly_charges"`
	TotalCharges      float64 `json:"total_charges"`
	SatisfactionScore float64 `json:"satisfaction_score"`
}

func (r predictRequest) customer() *dataset.Customer {
	total := r.TotalCharges
	if total == 0 {
		total = r.MonthlyCharges * r.Tenure
	}
	return &dataset.Customer{
		ID:                "what-if",
		Gender:            r.Gender,
		Tenure:            r.Tenure,
		ContractType:      r.ContractType,
		InternetService:   r.InternetService,
		PaymentMethod:     r.PaymentMethod,
		PhoneService:      r.PhoneService,
		StreamingTV:       r.StreamingTV,
		StreamingMovies:   r.StreamingMovies,
		MonthlyCharges:    r.MonthlyCharges,
		TotalCharges:      total,
		SatisfactionScore: r.SatisfactionScore,
	}
}

func adviceFor(prob float64) string {
	switch {
	case prob < 0.30:
		return "Low churn risk: maintain standard engagement"
	case prob < 0.70:
		return "Moderate churn risk: schedule proactive outreach"
	default:
		return "High churn risk: take immediate retention action"
	}
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_DATA", "invalid JSON body: "+err.Error())
		return
	}
	artifact, err := s.trainedArtifact(trainRequest{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	c := req.customer()
	prob, err := artifact.PredictCustomer(c)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	similar := analytics.SimilarCustomers(s.table, c, 10)
	rows := make([][]string, 0, len(similar))
	for _, sc := range similar {
		rows = append(rows, []string{
			sc.ID, sc.ContractType,
			fmt.Sprintf("%.0f", sc.Tenure),
			fmt.Sprintf("%.2f", sc.MonthlyCharges),
			strconv.Itoa(sc.Churn),
		})
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"probability": prob,
		"advice":      adviceFor(prob),
		"gauge":       s.builder.ProbabilityGauge(prob),
		"similarCustomers": &viz.TableData{
			Title: "Similar Customers",
			Columns: []viz.Column{
				{Key: "id", Label: "Customer", Type: "text"},
				{Key: "contract", Label: "Contract", Type: "text"},
				{Key: "tenure", Label: "Tenure", Type: "number"},
				{Key: "monthly", Label: "Monthly Charges", Type: "currency"},
				{Key: "churned", Label: "Churned", Type: "number"},
			},
			Rows: rows,
		},
	})
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	k := s.cfg.Cluster.DefaultK
	if v, err := strconv.Atoi(q.Get("k")); err == nil {
		k = v
	}
	if k < s.cfg.Cluster.MinK || k > s.cfg.Cluster.MaxK {
		writeError(w, http.StatusBadRequest, "MALFORMED_DATA",
			fmt.Sprintf("k must be between %d and %d", s.cfg.Cluster.MinK, s.cfg.Cluster.MaxK))
		return
	}
	features := s.cfg.Cluster.DefaultFeatures
	if raw := q.Get("features"); raw != "" {
		features = strings.Split(raw, ",")
	}
	scaling := feature.ScalingMethod(q.Get("scaling"))
	if scaling == "" {
		scaling = feature.ScaleStandard
	}

	key := memoKey("segments", map[string]string{
		"k":        strconv.Itoa(k),
		"features": strings.Join(features, ","),
		"scaling":  string(scaling),
	})
	var seg *analytics.Segmentation
	if v, ok := s.memo.get(key); ok {
		seg = v.(*analytics.Segmentation)
	} else {
		var err error
		seg, err = analytics.Segment(s.table, s.cfg, k, features, scaling)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.memo.set(key, seg)
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"segmentation": seg,
		"charts": []*viz.ChartConfig{
			s.builder.SegmentScatter(s.table, seg),
			s.builder.SegmentSizes(seg),
		},
	})
}

func (s *Server) handleCLV(w http.ResponseWriter, r *http.Request) {
	predicted, err := analytics.PredictedCLV(s.table, 12)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"valueSegments": analytics.ValueSegments(s.table),
		"predicted": map[string]any{
			"horizonMonths":  12,
			"meanAdditional": stat.Mean(predicted, nil),
		},
		"charts": []*viz.ChartConfig{
			s.builder.NumericHistogramByChurn(s.table, "CLV", 20),
		},
	})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.trainedArtifact(trainRequest{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	probs, err := artifact.PredictTable(s.table)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	scores := analytics.ScoreTable(s.table, probs)

	type risky struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
		Tier  string  `json:"tier"`
	}
	ranked := make([]risky, 0, s.table.Len())
	for i, c := range s.table.Customers {
		ranked = append(ranked, risky{ID: c.ID, Score: scores[i], Tier: analytics.RiskTier(scores[i])})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].ID < ranked[j].ID
		}
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > 20 {
		ranked = ranked[:20]
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"distribution": analytics.RiskDistribution(scores),
		"topRisk":      ranked,
		"charts": []*viz.ChartConfig{
			s.builder.DistributionBars("Risk Tiers", analytics.RiskDistribution(scores),
				[]string{"Low Risk", "Medium Risk", "High Risk"}),
		},
	})
}

func (s *Server) handleEngagement(w http.ResponseWriter, r *http.Request) {
	insights := analytics.EngagementInsights(s.table, s.cfg)
	buckets := map[string]int{"0-25": 0, "25-50": 0, "50-75": 0, "75-100": 0}
	for _, in := range insights {
		switch {
		case in.EngagementScore < 25:
			buckets["0-25"]++
		case in.EngagementScore < 50:
			buckets["25-50"]++
		case in.EngagementScore < 75:
			buckets["50-75"]++
		default:
			buckets["75-100"]++
		}
	}
	sort.Slice(insights, func(i, j int) bool { return insights[i].EngagementScore < insights[j].EngagementScore })
	lowest := insights
	if len(lowest) > 20 {
		lowest = lowest[:20]
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"distribution": buckets,
		"leastEngaged": lowest,
		"charts": []*viz.ChartConfig{
			s.builder.DistributionBars("Engagement Score Distribution", buckets,
				[]string{"0-25", "25-50", "50-75", "75-100"}),
		},
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("customer_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MALFORMED_DATA", "customer_id query parameter is required")
		return
	}
	c, ok := s.table.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown customer "+id)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"customer":        c.ID,
		"recommendations": analytics.CustomerRecommendations(c),
	})
}

// handleExport streams page data as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report := chi.URLParam(r, "report")
	f := filterFromQuery(r.URL.Query())
	filtered := f.Apply(s.table)

	var header []string
	var rows [][]string
	switch report {
	case "overview":
		header = []string{"CustomerID", "ContractType", "Tenure", "MonthlyCharges", "TotalCharges", "SatisfactionScore", "Churn"}
		for _, c := range filtered.Customers {
			rows = append(rows, []string{
				c.ID, c.ContractType,
				fmt.Sprintf("%.0f", c.Tenure),
				fmt.Sprintf("%.2f", c.MonthlyCharges),
				fmt.Sprintf("%.2f", c.TotalCharges),
				fmt.Sprintf("%.1f", c.SatisfactionScore),
				strconv.Itoa(c.Churn),
			})
		}
	case "clv":
		header = []string{"CustomerID", "CLV", "ARPU", "TotalCharges"}
		for _, c := range filtered.Customers {
			rows = append(rows, []string{
				c.ID,
				fmt.Sprintf("%.2f", c.CLV),
				fmt.Sprintf("%.2f", c.ARPU),
				fmt.Sprintf("%.2f", c.TotalCharges),
			})
		}
	case "engagement":
		header = []string{"CustomerID", "EngagementScore", "ServiceAdoption", "ContractCommitment"}
		for _, in := range analytics.EngagementInsights(filtered, s.cfg) {
			rows = append(rows, []string{
				in.CustomerID,
				fmt.Sprintf("%.1f", in.EngagementScore),
				fmt.Sprintf("%.2f", in.ServiceAdoption),
				in.ContractCommitment,
			})
		}
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown report "+report)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", report))
	cw := csv.NewWriter(w)
	_ = cw.Write(header)
	for _, row := range rows {
		_ = cw.Write(row)
	}
	cw.Flush()
}

func nonNil(charts []*viz.ChartConfig) []*viz.ChartConfig {
	out := charts[:0]
	for _, c := range charts {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func crosstabTable(title string, crosstab map[string]map[string]int) *viz.TableData {
	colSet := map[string]bool{}
	rowKeys := make([]string, 0, len(crosstab))
	for r, cols := range crosstab {
		rowKeys = append(rowKeys, r)
		for c := range cols {
			colSet[c] = true
		}
	}
	sort.Strings(rowKeys)
	colKeys := make([]string, 0, len(colSet))
	for c := range colSet {
		colKeys = append(colKeys, c)
	}
	sort.Strings(colKeys)

	columns := []viz.Column{{Key: "value", Label: "", Type: "text"}}
	for _, c := range colKeys {
		columns = append(columns, viz.Column{Key: c, Label: c, Type: "number"})
	}
	rows := make([][]string, 0, len(rowKeys))
	for _, r := range rowKeys {
		row := []string{r}
		for _, c := range colKeys {
			row = append(row, strconv.Itoa(crosstab[r][c]))
		}
		rows = append(rows, row)
	}
	return &viz.TableData{Title: title, Columns: columns, Rows: rows}
}
