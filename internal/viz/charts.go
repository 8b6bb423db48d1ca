package viz

import (
	"fmt"
	"math"
	"sort"

	"github.com/adit9852/ChurnAI-Dashboard/internal/analytics"
	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/model"
)

// Builder constructs chart specs with the configured theme.
type Builder struct {
	theme config.Visualization
}

// NewBuilder wires the visualization settings into every chart.
func NewBuilder(theme config.Visualization) *Builder {
	return &Builder{theme: theme}
}

func (b *Builder) color(i int) string {
	if len(b.theme.ColorScheme) == 0 {
		return ""
	}
	return b.theme.ColorScheme[i%len(b.theme.ColorScheme)]
}

func (b *Builder) paletteColor(i int) string {
	if len(b.theme.CategoricalPalette) == 0 {
		return b.color(i)
	}
	return b.theme.CategoricalPalette[i%len(b.theme.CategoricalPalette)]
}

// ChurnDonut shows retained vs churned counts with the total annotated in the
// middle.
func (b *Builder) ChurnDonut(t *dataset.Table) *ChartConfig {
	retained, churned := 0, 0
	for _, c := range t.Customers {
		if c.Churn == 1 {
			churned++
		} else {
			retained++
		}
	}
	return &ChartConfig{
		ChartType:  "donut",
		Title:      "Churn Distribution",
		ShowLegend: true,
		Annotation: fmt.Sprintf("%d customers", t.Len()),
		Colors:     []string{b.color(0), b.color(1)},
		Series: []ChartSeries{{
			Name: "Customers",
			Data: []ChartPoint{
				{Label: "Retained", Value: float64(retained)},
				{Label: "Churned", Value: float64(churned)},
			},
		}},
	}
}

// ChurnByContract is a grouped bar chart of retained/churned counts per
// contract type.
func (b *Builder) ChurnByContract(t *dataset.Table) *ChartConfig {
	counts := map[string][2]int{}
	for _, c := range t.Customers {
		v := counts[c.ContractType]
		v[c.Churn]++
		counts[c.ContractType] = v
	}
	contracts := make([]string, 0, len(counts))
	for k := range counts {
		contracts = append(contracts, k)
	}
	sort.Strings(contracts)

	retained := make([]ChartPoint, 0, len(contracts))
	churned := make([]ChartPoint, 0, len(contracts))
	for _, ct := range contracts {
		retained = append(retained, ChartPoint{Label: ct, Value: float64(counts[ct][0])})
		churned = append(churned, ChartPoint{Label: ct, Value: float64(counts[ct][1])})
	}
	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Churn by Contract Type",
		XAxis:      "Contract Type",
		YAxis:      "Customers",
		ShowLegend: true,
		ShowGrid:   true,
		Series: []ChartSeries{
			{Name: "Retained", Data: retained, Color: b.color(0)},
			{Name: "Churned", Data: churned, Color: b.color(1)},
		},
	}
}

// NumericHistogramByChurn bins a numeric column into bins buckets, one series
// per churn outcome.
func (b *Builder) NumericHistogramByChurn(t *dataset.Table, col string, bins int) *ChartConfig {
	vals := dataset.Column(t, col)
	if len(vals) == 0 {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if bins < 1 {
		bins = 20
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	counts := make([][2]int, bins)
	for i, c := range t.Customers {
		bin := int((vals[i] - lo) / width)
		if bin >= bins {
			bin = bins - 1
		}
		counts[bin][c.Churn]++
	}
	retained := make([]ChartPoint, bins)
	churned := make([]ChartPoint, bins)
	for i := 0; i < bins; i++ {
		label := fmt.Sprintf("%.0f", lo+width*(float64(i)+0.5))
		retained[i] = ChartPoint{Label: label, Value: float64(counts[i][0])}
		churned[i] = ChartPoint{Label: label, Value: float64(counts[i][1])}
	}
	return &ChartConfig{
		ChartType:  "histogram",
		Title:      fmt.Sprintf("%s Distribution by Churn", col),
		XAxis:      col,
		YAxis:      "Customers",
		ShowLegend: true,
		ShowGrid:   true,
		Series: []ChartSeries{
			{Name: "Retained", Data: retained, Color: b.color(0)},
			{Name: "Churned", Data: churned, Color: b.color(1)},
		},
	}
}

// ServiceUsage shows adoption counts per configured service column.
func (b *Builder) ServiceUsage(t *dataset.Table, serviceCols []string) *ChartConfig {
	points := make([]ChartPoint, 0, len(serviceCols))
	for _, col := range serviceCols {
		used := 0
		for _, c := range t.Customers {
			if v, ok := c.CategoricalValue(col); ok && v != "No" && v != "" {
				used++
			}
		}
		points = append(points, ChartPoint{Label: col, Value: float64(used)})
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     "Service Usage",
		XAxis:     "Service",
		YAxis:     "Subscribers",
		ShowGrid:  true,
		Colors:    []string{b.color(2)},
		Series:    []ChartSeries{{Name: "Subscribers", Data: points, Color: b.color(2)}},
	}
}

// SatisfactionByChurn is a box chart: five-number summary of satisfaction per
// churn outcome.
func (b *Builder) SatisfactionByChurn(t *dataset.Table) *ChartConfig {
	groups := map[int][]float64{}
	for _, c := range t.Customers {
		groups[c.Churn] = append(groups[c.Churn], c.SatisfactionScore)
	}
	series := make([]ChartSeries, 0, 2)
	for _, churn := range []int{0, 1} {
		vals := groups[churn]
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		name := "Retained"
		color := b.color(0)
		if churn == 1 {
			name = "Churned"
			color = b.color(1)
		}
		series = append(series, ChartSeries{
			Name:  name,
			Color: color,
			Data: []ChartPoint{
				{Label: "min", Value: vals[0]},
				{Label: "q1", Value: quantileSorted(vals, 0.25)},
				{Label: "median", Value: quantileSorted(vals, 0.5)},
				{Label: "q3", Value: quantileSorted(vals, 0.75)},
				{Label: "max", Value: vals[len(vals)-1]},
			},
		})
	}
	return &ChartConfig{
		ChartType:  "box",
		Title:      "Satisfaction Score by Churn",
		XAxis:      "Churn",
		YAxis:      "Satisfaction Score",
		ShowLegend: true,
		ShowGrid:   true,
		Series:     series,
	}
}

// TenureChargeLines plots average monthly charges per tenure month, one line
// per churn outcome.
func (b *Builder) TenureChargeLines(t *dataset.Table) *ChartConfig {
	type acc struct {
		sum float64
		n   int
	}
	byTenure := map[int]map[int]*acc{0: {}, 1: {}}
	maxTenure := 0
	for _, c := range t.Customers {
		m := int(c.Tenure)
		if m > maxTenure {
			maxTenure = m
		}
		a := byTenure[c.Churn][m]
		if a == nil {
			a = &acc{}
			byTenure[c.Churn][m] = a
		}
		a.sum += c.MonthlyCharges
		a.n++
	}
	series := make([]ChartSeries, 0, 2)
	for _, churn := range []int{0, 1} {
		var points []ChartPoint
		for m := 0; m <= maxTenure; m++ {
			if a := byTenure[churn][m]; a != nil {
				points = append(points, ChartPoint{Label: fmt.Sprintf("%d", m), Value: a.sum / float64(a.n)})
			}
		}
		name, color := "Retained", b.color(0)
		if churn == 1 {
			name, color = "Churned", b.color(1)
		}
		series = append(series, ChartSeries{Name: name, Data: points, Color: color})
	}
	return &ChartConfig{
		ChartType:  "line",
		Title:      "Average Monthly Charges by Tenure",
		XAxis:      "Tenure (months)",
		YAxis:      "Avg Monthly Charges",
		ShowLegend: true,
		ShowGrid:   true,
		Series:     series,
	}
}

// CorrelationHeatmap renders a correlation matrix with a fixed [-1, 1] range.
func (b *Builder) CorrelationHeatmap(m *dataset.CorrMatrix) *ChartConfig {
	return &ChartConfig{
		ChartType: "heatmap",
		Title:     "Correlation Matrix",
		Heatmap: &HeatmapData{
			Rows:     m.Columns,
			Columns:  m.Columns,
			Values:   m.Values,
			Min:      -1,
			Max:      1,
			ColorLow: b.theme.CorrelationColorsLow,
			ColorHi:  b.theme.CorrelationColorsHi,
		},
	}
}

// ProbabilityGauge shows a churn probability with low/medium/high bands at
// 0.30 and 0.70.
func (b *Builder) ProbabilityGauge(prob float64) *ChartConfig {
	return &ChartConfig{
		ChartType: "gauge",
		Title:     "Churn Probability",
		Gauge: &GaugeData{
			Value: prob,
			Min:   0,
			Max:   1,
			Bands: []GaugeBand{
				{From: 0, To: 0.30, Color: b.color(0), Label: "Low"},
				{From: 0.30, To: 0.70, Color: b.color(2), Label: "Medium"},
				{From: 0.70, To: 1, Color: b.color(1), Label: "High"},
			},
		},
	}
}

// FeatureImportances is a horizontal bar chart of the top n features.
func (b *Builder) FeatureImportances(imps []model.FeatureImportance, n int) *ChartConfig {
	if n > 0 && len(imps) > n {
		imps = imps[:n]
	}
	points := make([]ChartPoint, 0, len(imps))
	for _, fi := range imps {
		points = append(points, ChartPoint{Label: fi.Feature, Value: fi.Importance})
	}
	return &ChartConfig{
		ChartType: "hbar",
		Title:     "Feature Importance",
		XAxis:     "Importance",
		YAxis:     "Feature",
		ShowGrid:  true,
		Colors:    []string{b.color(2)},
		Series:    []ChartSeries{{Name: "Importance", Data: points, Color: b.color(2)}},
	}
}

// SegmentScatter is a 3D scatter of the first three clustering features, one
// series per segment.
func (b *Builder) SegmentScatter(t *dataset.Table, seg *analytics.Segmentation) *ChartConfig {
	axes := seg.Features
	if len(axes) > 3 {
		axes = axes[:3]
	}
	val := func(c *dataset.Customer, i int) float64 {
		if i >= len(axes) {
			return 0
		}
		v, _ := c.NumericValue(axes[i])
		return v
	}
	series := make([]ChartSeries, seg.K)
	for s := 0; s < seg.K; s++ {
		series[s] = ChartSeries{
			Name:  fmt.Sprintf("Segment %d", s),
			Color: b.paletteColor(s),
		}
	}
	// seg.Labels aligns with t.Customers; rows carry no cluster state, so a
	// memoized segmentation stays consistent with its own labels.
	for i, c := range t.Customers {
		if i >= len(seg.Labels) {
			break
		}
		s := seg.Labels[i]
		series[s].Data = append(series[s].Data, ChartPoint{
			Label: c.ID,
			Value: val(c, 0),
			Y:     val(c, 1),
			Z:     val(c, 2),
		})
	}
	cfg := &ChartConfig{
		ChartType:  "scatter3d",
		Title:      "Customer Segments",
		ShowLegend: true,
		Series:     series,
	}
	if len(axes) > 0 {
		cfg.XAxis = axes[0]
	}
	if len(axes) > 1 {
		cfg.YAxis = axes[1]
	}
	if len(axes) > 2 {
		cfg.ZAxis = axes[2]
	}
	return cfg
}

// SegmentSizes is a pie of cluster sizes.
func (b *Builder) SegmentSizes(seg *analytics.Segmentation) *ChartConfig {
	points := make([]ChartPoint, 0, seg.K)
	colors := make([]string, 0, seg.K)
	for _, p := range seg.Profiles {
		points = append(points, ChartPoint{Label: fmt.Sprintf("Segment %d", p.Segment), Value: float64(p.Size)})
		colors = append(colors, b.paletteColor(p.Segment))
	}
	return &ChartConfig{
		ChartType:  "pie",
		Title:      "Segment Sizes",
		ShowLegend: true,
		Colors:     colors,
		Series:     []ChartSeries{{Name: "Customers", Data: points}},
	}
}

// DistributionBars turns tier counts (risk, engagement buckets) into a bar
// chart in a stable label order.
func (b *Builder) DistributionBars(title string, counts map[string]int, order []string) *ChartConfig {
	labels := order
	if len(labels) == 0 {
		for k := range counts {
			labels = append(labels, k)
		}
		sort.Strings(labels)
	}
	points := make([]ChartPoint, 0, len(labels))
	for _, l := range labels {
		points = append(points, ChartPoint{Label: l, Value: float64(counts[l])})
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     title,
		YAxis:     "Customers",
		ShowGrid:  true,
		Colors:    []string{b.color(2)},
		Series:    []ChartSeries{{Name: "Customers", Data: points, Color: b.color(2)}},
	}
}

// BarFromValues renders a label→value map as a bar chart with sorted labels.
func (b *Builder) BarFromValues(title, xAxis string, values map[string]float64) *ChartConfig {
	labels := make([]string, 0, len(values))
	for k := range values {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	points := make([]ChartPoint, 0, len(labels))
	for _, l := range labels {
		points = append(points, ChartPoint{Label: l, Value: values[l]})
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     title,
		XAxis:     xAxis,
		ShowGrid:  true,
		Colors:    []string{b.color(2)},
		Series:    []ChartSeries{{Name: title, Data: points, Color: b.color(2)}},
	}
}

func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
