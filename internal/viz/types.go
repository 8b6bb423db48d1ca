// Package viz turns computed tables and metrics into render-ready chart
// specifications. The JSON shapes are consumed unchanged by the dashboard
// pages; no rendering happens server-side.
package viz

// ChartConfig defines how the frontend should render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // bar, line, pie, donut, histogram, box, scatter3d, heatmap, gauge
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	ZAxis      string        `json:"zAxis,omitempty"`
	Series     []ChartSeries `json:"series,omitempty"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`

	// Populated only for the chart types that need them.
	Annotation string       `json:"annotation,omitempty"`
	Heatmap    *HeatmapData `json:"heatmap,omitempty"`
	Gauge      *GaugeData   `json:"gauge,omitempty"`
}

// ChartSeries is one data series.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a single data point. Y and Z are used by scatter series; bar,
// line and pie series carry Label/Value only.
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
	Y     float64 `json:"y,omitempty"`
	Z     float64 `json:"z,omitempty"`
}

// HeatmapData is a dense matrix with row/column labels and a fixed value
// range, used by the correlation chart.
type HeatmapData struct {
	Rows     []string    `json:"rows"`
	Columns  []string    `json:"columns"`
	Values   [][]float64 `json:"values"`
	Min      float64     `json:"min"`
	Max      float64     `json:"max"`
	ColorLow string      `json:"colorLow,omitempty"`
	ColorHi  string      `json:"colorHigh,omitempty"`
}

// GaugeData is a single value with colored bands.
type GaugeData struct {
	Value float64     `json:"value"`
	Min   float64     `json:"min"`
	Max   float64     `json:"max"`
	Bands []GaugeBand `json:"bands"`
}

// GaugeBand colors one sub-range of a gauge.
type GaugeBand struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
	Label string  `json:"label,omitempty"`
}

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"` // text, number, percent, currency
}
