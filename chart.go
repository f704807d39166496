package godeck

// ChartKind identifies a chart type understood by the authoring deck
// and the rasterizing collaborator.
type ChartKind string

const (
	ChartBar      ChartKind = "bar"
	ChartPie      ChartKind = "pie"
	ChartLine     ChartKind = "line"
	ChartDoughnut ChartKind = "doughnut"
)

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Title      string
	Categories []string
	Values     []float64
	FillColors []Color // per-point colors; empty means renderer default
}

// NewChartSeriesOrdered creates a series with ordered categories.
// If len(values) < len(categories), missing values default to 0.
// Extra values beyond len(categories) are ignored.
func NewChartSeriesOrdered(title string, categories []string, values []float64) *ChartSeries {
	vals := make([]float64, len(categories))
	for i := range categories {
		if i < len(values) {
			vals[i] = values[i]
		}
	}
	return &ChartSeries{
		Title:      title,
		Categories: categories,
		Values:     vals,
	}
}

// SetFillColors sets per-point fill colors and returns the series for
// chaining.
func (s *ChartSeries) SetFillColors(colors []Color) *ChartSeries {
	s.FillColors = colors
	return s
}

// ChartSpec describes a chart to be drawn natively or rasterized.
type ChartSpec struct {
	Kind            ChartKind
	Title           string
	Series          []*ChartSeries
	HoleSizePercent int // doughnut only, 10-90
}

// NewChartSpec creates a chart spec of the given kind.
func NewChartSpec(kind ChartKind) *ChartSpec {
	spec := &ChartSpec{Kind: kind}
	if kind == ChartDoughnut {
		spec.HoleSizePercent = 50
	}
	return spec
}

// SetTitle sets the chart title.
func (c *ChartSpec) SetTitle(title string) *ChartSpec {
	c.Title = title
	return c
}

// AddSeries adds a data series.
func (c *ChartSpec) AddSeries(s *ChartSeries) *ChartSpec {
	c.Series = append(c.Series, s)
	return c
}

// SetHoleSize sets the doughnut hole size percentage (clamped 10-90).
func (c *ChartSpec) SetHoleSize(pct int) *ChartSpec {
	if pct < 10 {
		pct = 10
	}
	if pct > 90 {
		pct = 90
	}
	c.HoleSizePercent = pct
	return c
}
