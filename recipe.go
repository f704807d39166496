package godeck

import (
	"encoding/json"
	"fmt"
)

// Recipe kind names. The set is closed: the decoder table below is the
// single dispatch surface, and unknown kinds deliberately decode to a
// nil drawer that renders nothing.
const (
	KindBarChart     = "bar_chart"
	KindPieChart     = "pie_chart"
	KindLineChart    = "line_chart"
	KindKPICard      = "kpi_card"
	KindKPIGrid      = "kpi_grid"
	KindKPIDonut     = "kpi_donut"
	KindProgressBars = "progress_bars"
	KindGantt        = "gantt"
	KindHeatmap      = "heatmap"
	KindVenn         = "venn"
	KindPyramid      = "pyramid"
	KindWaterfall    = "waterfall"
	KindBulletGraph  = "bullet_graph"
	KindMapMarkers   = "map_markers"
	KindCallouts     = "callouts"
	KindChecklist    = "checklist"
	KindMatrix       = "matrix"
	KindTable        = "table"
	KindFunnel       = "funnel"
	KindProcessSteps = "process_steps"
	KindRoadmap      = "roadmap"
	KindComparison   = "comparison"
	KindTimeline     = "timeline"
)

// recipeDrawer turns one recipe payload into drawing primitives for a
// bounded region.
type recipeDrawer interface {
	draw(rg Region, rc *RenderContext) []Primitive
}

// VisualRecipe is the tagged union over all diagram kinds. The JSON
// "type" field selects exactly one drawer; unknown types keep a nil
// drawer and render nothing.
type VisualRecipe struct {
	Kind   string
	drawer recipeDrawer
}

// NewVisualRecipe builds a recipe directly from a kind and drawer
// payload; used by tests and programmatic callers.
func NewVisualRecipe(kind string, d recipeDrawer) *VisualRecipe {
	return &VisualRecipe{Kind: kind, drawer: d}
}

// Drawable reports whether the recipe decoded to a known kind.
func (v *VisualRecipe) Drawable() bool {
	return v != nil && v.drawer != nil
}

// Draw renders the recipe into the region. Nil or unknown recipes
// produce no primitives.
func (v *VisualRecipe) Draw(rg Region, rc *RenderContext) []Primitive {
	if !v.Drawable() {
		return nil
	}
	return v.drawer.draw(rg, rc)
}

// UnmarshalJSON decodes the tagged union. An unknown "type" is not an
// error; the recipe simply becomes non-drawable.
func (v *VisualRecipe) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("failed to decode visual recipe: %w", err)
	}
	v.Kind = head.Type
	dec, ok := recipeDecoders[head.Type]
	if !ok {
		return nil
	}
	d, err := dec(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s recipe: %w", head.Type, err)
	}
	v.drawer = d
	return nil
}

func decodeInto[T any](data []byte) (*T, error) {
	var p T
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

var recipeDecoders = map[string]func([]byte) (recipeDrawer, error){
	KindBarChart:     func(d []byte) (recipeDrawer, error) { return decodeChart(d, ChartBar) },
	KindPieChart:     func(d []byte) (recipeDrawer, error) { return decodeChart(d, ChartPie) },
	KindLineChart:    func(d []byte) (recipeDrawer, error) { return decodeChart(d, ChartLine) },
	KindKPICard:      func(d []byte) (recipeDrawer, error) { return decodeInto[KPICardRecipe](d) },
	KindKPIGrid:      func(d []byte) (recipeDrawer, error) { return decodeInto[KPIGridRecipe](d) },
	KindKPIDonut:     func(d []byte) (recipeDrawer, error) { return decodeInto[KPIDonutRecipe](d) },
	KindProgressBars: func(d []byte) (recipeDrawer, error) { return decodeInto[ProgressBarsRecipe](d) },
	KindGantt:        func(d []byte) (recipeDrawer, error) { return decodeInto[GanttRecipe](d) },
	KindHeatmap:      func(d []byte) (recipeDrawer, error) { return decodeInto[HeatmapRecipe](d) },
	KindVenn:         func(d []byte) (recipeDrawer, error) { return decodeInto[VennRecipe](d) },
	KindPyramid:      func(d []byte) (recipeDrawer, error) { return decodeInto[PyramidRecipe](d) },
	KindWaterfall:    func(d []byte) (recipeDrawer, error) { return decodeInto[WaterfallRecipe](d) },
	KindBulletGraph:  func(d []byte) (recipeDrawer, error) { return decodeInto[BulletGraphRecipe](d) },
	KindMapMarkers:   func(d []byte) (recipeDrawer, error) { return decodeInto[MapMarkersRecipe](d) },
	KindCallouts:     func(d []byte) (recipeDrawer, error) { return decodeInto[CalloutsRecipe](d) },
	KindChecklist:    func(d []byte) (recipeDrawer, error) { return decodeInto[ChecklistRecipe](d) },
	KindMatrix:       func(d []byte) (recipeDrawer, error) { return decodeInto[MatrixRecipe](d) },
	KindTable:        func(d []byte) (recipeDrawer, error) { return decodeInto[TableRecipe](d) },
	KindFunnel:       func(d []byte) (recipeDrawer, error) { return decodeInto[FunnelRecipe](d) },
	KindProcessSteps: func(d []byte) (recipeDrawer, error) { return decodeInto[ProcessStepsRecipe](d) },
	KindRoadmap:      func(d []byte) (recipeDrawer, error) { return decodeInto[RoadmapRecipe](d) },
	KindComparison:   func(d []byte) (recipeDrawer, error) { return decodeInto[ComparisonRecipe](d) },
	KindTimeline:     func(d []byte) (recipeDrawer, error) { return decodeInto[TimelineRecipe](d) },
}

func decodeChart(data []byte, kind ChartKind) (recipeDrawer, error) {
	p, err := decodeInto[ChartRecipe](data)
	if err != nil {
		return nil, err
	}
	p.chartKind = kind
	return p, nil
}

// --- recipe payloads ---

// ChartRecipe backs the bar, pie and line chart kinds.
type ChartRecipe struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Title  string    `json:"title"`

	chartKind ChartKind
}

// KPIItem is one label/value pair of a KPI kind.
type KPIItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Note  string `json:"note"`
}

// KPICardRecipe renders a single emphasized metric.
type KPICardRecipe struct {
	KPIItem
	UnifySize bool `json:"unifySize"`
}

// KPIGridRecipe renders a grid of metric cards.
type KPIGridRecipe struct {
	Items     []KPIItem `json:"items"`
	UnifySize bool      `json:"unifySize"`
}

// DonutSegment is one wedge of a KPI donut.
type DonutSegment struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// KPIDonutRecipe renders a donut chart with outside labels.
type KPIDonutRecipe struct {
	Items       []DonutSegment `json:"items"`
	CenterLabel string         `json:"centerLabel"`
}

// ProgressItem is one bar of a progress or bullet-graph kind.
type ProgressItem struct {
	Label  string   `json:"label"`
	Value  float64  `json:"value"`
	Target *float64 `json:"target"`
}

// ProgressBarsRecipe renders horizontal progress bars.
type ProgressBarsRecipe struct {
	Items []ProgressItem `json:"items"`
	Max   *float64       `json:"max"`
}

// BulletGraphRecipe renders bullet graphs (bar + target tick).
type BulletGraphRecipe struct {
	Items []ProgressItem `json:"items"`
	Max   *float64       `json:"max"`
}

// GanttTask is one bar of a Gantt chart. Dates are ISO; a task with no
// valid end may supply a duration in days instead.
type GanttTask struct {
	Label        string   `json:"label"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	DurationDays *float64 `json:"durationDays"`
}

// GanttRecipe renders a time-scaled task chart.
type GanttRecipe struct {
	Tasks []GanttTask `json:"tasks"`
}

// HeatmapRecipe renders an x×y grid of value-blended cells.
type HeatmapRecipe struct {
	X    []string    `json:"x"`
	Y    []string    `json:"y"`
	Z    [][]float64 `json:"z"`
	MinZ *float64    `json:"minZ"`
	MaxZ *float64    `json:"maxZ"`
}

// VennSet is one of the two sets of a Venn recipe.
type VennSet struct {
	Label string `json:"label"`
}

// VennRecipe renders a two-set Venn diagram.
type VennRecipe struct {
	A            VennSet `json:"a"`
	B            VennSet `json:"b"`
	OverlapLabel string  `json:"overlapLabel"`
}

// StepItem is one step of the sequential kinds (process, roadmap,
// timeline, funnel, pyramid).
type StepItem struct {
	Label string   `json:"label"`
	Date  string   `json:"date"`
	Desc  string   `json:"desc"`
	Value *float64 `json:"value"`
}

// PyramidRecipe renders stacked narrowing levels, top first.
type PyramidRecipe struct {
	Levels []StepItem `json:"levels"`
}

// WaterfallItem is one signed delta of a waterfall.
type WaterfallItem struct {
	Label string  `json:"label"`
	Delta float64 `json:"delta"`
}

// WaterfallRecipe renders signed deltas around a baseline.
type WaterfallRecipe struct {
	Items         []WaterfallItem `json:"items"`
	BaselineRatio *float64        `json:"baselineRatio"`
}

// MapMarker is a labeled point in relative [0,1] map coordinates.
type MapMarker struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// MapMarkersRecipe renders markers over a schematic map frame.
type MapMarkersRecipe struct {
	Markers []MapMarker `json:"markers"`
	Caption string      `json:"caption"`
}

// Callout is one label/text pair.
type Callout struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// CalloutsRecipe renders labeled callout bubbles.
type CalloutsRecipe struct {
	Items []Callout `json:"items"`
}

// CheckItem is one checklist entry.
type CheckItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ChecklistRecipe renders check rows.
type ChecklistRecipe struct {
	Items []CheckItem `json:"items"`
}

// MatrixQuadrant is one cell of the 2×2 matrix.
type MatrixQuadrant struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// MatrixRecipe renders a 2×2 matrix with axis labels. Quadrant order:
// top-left, top-right, bottom-left, bottom-right.
type MatrixRecipe struct {
	XLow      string           `json:"xLow"`
	XHigh     string           `json:"xHigh"`
	YLow      string           `json:"yLow"`
	YHigh     string           `json:"yHigh"`
	Quadrants []MatrixQuadrant `json:"quadrants"`
}

// TableRecipe renders a data table.
type TableRecipe struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FunnelRecipe renders narrowing horizontal stages.
type FunnelRecipe struct {
	Steps []StepItem `json:"steps"`
}

// ProcessStepsRecipe renders chevron process steps.
type ProcessStepsRecipe struct {
	Steps []StepItem `json:"steps"`
}

// RoadmapRecipe renders dated milestones on a horizontal track.
type RoadmapRecipe struct {
	Steps []StepItem `json:"steps"`
}

// CompareSide is one side of an A/B comparison.
type CompareSide struct {
	Label  string   `json:"label"`
	Value  string   `json:"value"`
	Points []string `json:"points"`
}

// ComparisonRecipe renders an A/B comparison pair.
type ComparisonRecipe struct {
	A CompareSide `json:"a"`
	B CompareSide `json:"b"`
}

// TimelineRecipe renders dated events along an axis.
type TimelineRecipe struct {
	Steps []StepItem `json:"steps"`
}
