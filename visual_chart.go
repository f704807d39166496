package godeck

import (
	"errors"
	"math"
)

// chartSpec assembles the native chart payload with theme palette
// colors applied per data point.
func (c *ChartRecipe) chartSpec(rc *RenderContext) *ChartSpec {
	colors := make([]Color, len(c.Values))
	for i := range c.Values {
		colors[i] = NewColor(rc.Theme.PaletteColor(i))
	}
	series := NewChartSeriesOrdered("", c.Labels, c.Values).SetFillColors(colors)
	return NewChartSpec(c.chartKind).SetTitle(c.Title).AddSeries(series)
}

func (c *ChartRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	if len(c.Values) == 0 {
		return placeholder(rg, "no data", rc)
	}
	if err := rc.NativeChart(rg, c.chartSpec(rc)); err == nil {
		return nil
	} else if !errors.Is(err, ErrUnsupported) {
		rc.Log.Warn("native chart failed", "kind", c.chartKind, "error", err)
	}
	path, err := rc.Charts.Render(c.chartKind, c.Labels, c.Values, c.Title)
	if err != nil {
		rc.Log.Warn("chart rasterization failed", "kind", c.chartKind, "error", err)
		label := c.Title
		if label == "" {
			label = string(c.chartKind) + " chart"
		}
		return placeholder(rg, label, rc)
	}
	rc.Tracker.Track(path)
	return []Primitive{ImagePrimitive{Region: rg, Path: path, Description: c.Title}}
}

// donutHoleRatio is the diameter of the white inner circle relative to
// the donut diameter.
const donutHoleRatio = 0.52

func (k *KPIDonutRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	if len(k.Items) == 0 {
		return placeholder(rg, "no data", rc)
	}
	labels := make([]string, len(k.Items))
	values := make([]float64, len(k.Items))
	colors := make([]Color, len(k.Items))
	for i, it := range k.Items {
		labels[i] = it.Label
		values[i] = it.Value
		colors[i] = NewColor(rc.Theme.PaletteColor(i))
	}

	spec := NewChartSpec(ChartDoughnut).
		SetHoleSize(55).
		AddSeries(NewChartSeriesOrdered("", labels, values).SetFillColors(colors))
	if err := rc.NativeChart(rg, spec); err == nil {
		if k.CenterLabel != "" {
			return []Primitive{text(rg, k.CenterLabel, titleFont(rc, 16), AlignCenter, AnchorMiddle)}
		}
		return nil
	} else if !errors.Is(err, ErrUnsupported) {
		rc.Log.Warn("native donut failed", "error", err)
	}

	if path, err := rc.Charts.Render(ChartPie, labels, values, k.CenterLabel); err == nil {
		rc.Tracker.Track(path)
		return []Primitive{ImagePrimitive{Region: rg, Path: path, Description: k.CenterLabel}}
	} else {
		rc.Log.Warn("donut rasterization failed, drawing wedges", "error", err)
	}
	return k.drawWedges(rg, rc)
}

// drawWedges is the last-resort donut: stacked pie wedges, a white
// inner circle for the hole, and per-segment leader lines to outside
// labels at each wedge's angular midpoint.
func (k *KPIDonutRecipe) drawWedges(rg Region, rc *RenderContext) []Primitive {
	total := 0.0
	for _, it := range k.Items {
		if it.Value > 0 {
			total += it.Value
		}
	}
	if total <= 0 {
		return placeholder(rg, "no data", rc)
	}
	diam := math.Min(rg.W, rg.H) * 0.72
	circle := Rect(rg.CenterX()-diam/2, rg.CenterY()-diam/2, diam, diam)
	cx, cy := rg.CenterX(), rg.CenterY()
	radius := diam / 2

	var prims []Primitive
	start := 0.0
	for i, it := range k.Items {
		if it.Value <= 0 {
			continue
		}
		sweep := it.Value / total * 360
		prims = append(prims, ShapePrimitive{
			Region:     circle,
			Shape:      ShapePieWedge,
			Fill:       SolidFill(NewColor(rc.Theme.PaletteColor(i))),
			StartAngle: start,
			SweepAngle: sweep,
		})
		// Leader line and label at the wedge midpoint.
		mid := (start + sweep/2 - 90) * math.Pi / 180
		x1 := cx + math.Cos(mid)*radius
		y1 := cy + math.Sin(mid)*radius
		x2 := cx + math.Cos(mid)*radius*1.16
		y2 := cy + math.Sin(mid)*radius*1.16
		prims = append(prims, LinePrimitive{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Color: NewColor(rc.Theme.Outline), WidthPt: 1,
		})
		labelW := 1.3
		lx := x2
		align := AlignLeft
		if math.Cos(mid) < 0 {
			lx = x2 - labelW
			align = AlignRight
		}
		label := it.Label + " " + fmtFloat(it.Value)
		prims = append(prims, text(Rect(lx, y2-0.12, labelW, 0.24), label, bodyFont(rc, 10), align, AnchorMiddle))
		start += sweep
	}

	hole := diam * donutHoleRatio
	holeRg := Rect(cx-hole/2, cy-hole/2, hole, hole)
	prims = append(prims, ShapePrimitive{Region: holeRg, Shape: ShapeEllipse, Fill: SolidFill(ColorWhite)})
	if k.CenterLabel != "" {
		fit := rc.Fitter.FitToLines(k.CenterLabel, FitOptions{InitialSize: 14, MinSize: 9, BaseCols: 8, MaxLines: 2})
		prims = append(prims, text(holeRg, fit.Text, titleFont(rc, fit.FontSize), AlignCenter, AnchorMiddle))
	}
	return prims
}
