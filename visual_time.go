package godeck

import (
	"math"
	"time"
)

// Sequential and time-scaled drawers: gantt, timeline, roadmap,
// process steps, funnel, pyramid, waterfall.

var ganttDateLayouts = []string{"2006-01-02", time.RFC3339}

func parseGanttDate(s string) (time.Time, bool) {
	for _, layout := range ganttDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// taskSpan resolves a task's start and end. A missing end falls back
// to start plus durationDays (default one day).
func taskSpan(t GanttTask) (time.Time, time.Time, bool) {
	start, ok := parseGanttDate(t.Start)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if end, ok := parseGanttDate(t.End); ok && end.After(start) {
		return start, end, true
	}
	days := 1.0
	if t.DurationDays != nil && *t.DurationDays > 0 {
		days = *t.DurationDays
	}
	return start, start.Add(time.Duration(days * 24 * float64(time.Hour))), true
}

// ganttGridUnit picks the grid line spacing for a span: months past 60
// days, weeks past 14, days past 2, hours below that.
func ganttGridUnit(span time.Duration) time.Duration {
	days := span.Hours() / 24
	switch {
	case days >= 60:
		return 30 * 24 * time.Hour
	case days >= 14:
		return 7 * 24 * time.Hour
	case days >= 2:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

func (g *GanttRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(g.Tasks)
	if n == 0 {
		return placeholder(rg, "no tasks", rc)
	}

	type span struct {
		start, end time.Time
		ok         bool
	}
	spans := make([]span, n)
	anyDated := false
	var minStart, maxEnd time.Time
	for i, t := range g.Tasks {
		s, e, ok := taskSpan(t)
		spans[i] = span{s, e, ok}
		if !ok {
			continue
		}
		if !anyDated || s.Before(minStart) {
			minStart = s
		}
		if !anyDated || e.After(maxEnd) {
			maxEnd = e
		}
		anyDated = true
	}

	labelW := rg.W * 0.24
	chart := Rect(rg.X+labelW, rg.Y, rg.W-labelW, rg.H)
	gap := rc.Theme.SpacingUnit * 0.4
	var prims []Primitive

	if !anyDated {
		// No task carries a usable date range: fall back to evenly
		// cascaded bars in list order.
		for i, t := range g.Tasks {
			row := rg.Row(i, n, gap)
			bar := Rect(chart.X+float64(i)/float64(n)*chart.W*0.5, row.CenterY()-0.12, chart.W*0.5, 0.24)
			prims = append(prims,
				text(Rect(rg.X, row.Y, labelW-0.08, row.H), t.Label, bodyFont(rc, 11), AlignLeft, AnchorMiddle),
				ShapePrimitive{Region: bar, Shape: ShapeRound, Fill: SolidFill(NewColor(rc.Theme.PaletteColor(i))), CornerRadius: 0.08},
			)
		}
		return prims
	}

	total := maxEnd.Sub(minStart)
	if total <= 0 {
		total = 24 * time.Hour
	}
	xAt := func(t time.Time) float64 {
		return chart.X + t.Sub(minStart).Seconds()/total.Seconds()*chart.W
	}

	unit := ganttGridUnit(total)
	for tick := minStart.Truncate(unit).Add(unit); tick.Before(maxEnd); tick = tick.Add(unit) {
		x := xAt(tick)
		prims = append(prims, LinePrimitive{
			X1: x, Y1: rg.Y, X2: x, Y2: rg.Bottom(),
			Color: NewColor(rc.Theme.Outline), WidthPt: 0.75, Dashed: true,
		})
	}

	for i, t := range g.Tasks {
		row := rg.Row(i, n, gap)
		prims = append(prims, text(Rect(rg.X, row.Y, labelW-0.08, row.H), t.Label, bodyFont(rc, 11), AlignLeft, AnchorMiddle))
		sp := spans[i]
		if !sp.ok {
			continue
		}
		x := xAt(sp.start)
		w := xAt(sp.end) - x
		barH := math.Min(row.H*0.6, 0.28)
		prims = append(prims, ShapePrimitive{
			Region:       Rect(x, row.CenterY()-barH/2, w, barH),
			Shape:        ShapeRound,
			Fill:         SolidFill(NewColor(rc.Theme.PaletteColor(i))),
			CornerRadius: barH / 2,
		})
	}
	return prims
}

func (t *TimelineRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(t.Steps)
	if n == 0 {
		return placeholder(rg, "no steps", rc)
	}
	axisY := rg.Y + rg.H*0.45
	prims := []Primitive{LinePrimitive{
		X1: rg.X + 0.2, Y1: axisY, X2: rg.Right() - 0.2, Y2: axisY,
		Color: NewColor(rc.Theme.Primary), WidthPt: 2.5,
	}}
	for i, step := range t.Steps {
		cell := rg.Col(i, n, 0)
		cx := cell.CenterX()
		dot := 0.14
		prims = append(prims, ShapePrimitive{
			Region: Rect(cx-dot/2, axisY-dot/2, dot, dot),
			Shape:  ShapeEllipse,
			Fill:   SolidFill(NewColor(rc.Theme.PaletteColor(i))),
			Border: SolidBorder(ColorWhite, 1.5),
		})
		if step.Date != "" {
			prims = append(prims, text(Rect(cell.X, axisY-0.42, cell.W, 0.3), step.Date, bodyFont(rc, 10).SetColor(NewColor(rc.Theme.Primary)), AlignCenter, AnchorBottom))
		}
		lf := rc.Fitter.FitToLines(step.Label, FitOptions{InitialSize: 12, MinSize: 9, BaseCols: 8, MaxLines: 2})
		prims = append(prims, text(Rect(cell.X+0.04, axisY+0.14, cell.W-0.08, 0.5), lf.Text, bodyFont(rc, lf.FontSize).SetBold(true), AlignCenter, AnchorTop))
		if step.Desc != "" {
			df := rc.Fitter.FitToLines(step.Desc, FitOptions{InitialSize: 10, MinSize: 8, BaseCols: 9, MaxLines: 2})
			prims = append(prims, text(Rect(cell.X+0.04, axisY+0.66, cell.W-0.08, rg.Bottom()-axisY-0.7), df.Text, bodyFont(rc, df.FontSize), AlignCenter, AnchorTop))
		}
	}
	return prims
}

func (r *RoadmapRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(r.Steps)
	if n == 0 {
		return placeholder(rg, "no steps", rc)
	}
	gap := rc.Theme.SpacingUnit
	var prims []Primitive
	for i, step := range r.Steps {
		cell := rg.Col(i, n, gap)
		fill, textColor := cardColors(rc, i)
		header := Rect(cell.X, cell.Y, cell.W, math.Min(cell.H*0.28, 0.5))
		prims = append(prims,
			box(header, ShapeRound, fill, rc),
			text(header, step.Date, bodyFont(rc, 11).SetBold(true).SetColor(textColor), AlignCenter, AnchorMiddle),
		)
		body := Rect(cell.X, header.Bottom()+0.08, cell.W, cell.Bottom()-header.Bottom()-0.08)
		prims = append(prims, outlineBox(body, rc))
		inner := body.Inset(0.08, 0.08)
		lf := rc.Fitter.FitToLines(step.Label, FitOptions{InitialSize: 12, MinSize: 9, BaseCols: 9, MaxLines: 2})
		prims = append(prims, text(Rect(inner.X, inner.Y, inner.W, inner.H*0.4), lf.Text, bodyFont(rc, lf.FontSize).SetBold(true), AlignCenter, AnchorTop))
		if step.Desc != "" {
			df := rc.Fitter.FitToLines(step.Desc, FitOptions{InitialSize: 10, MinSize: 8, BaseCols: 10, MaxLines: 3})
			prims = append(prims, text(Rect(inner.X, inner.Y+inner.H*0.42, inner.W, inner.H*0.58), df.Text, bodyFont(rc, df.FontSize), AlignLeft, AnchorTop))
		}
	}
	return prims
}

func (p *ProcessStepsRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(p.Steps)
	if n == 0 {
		return placeholder(rg, "no steps", rc)
	}
	gap := 0.06
	var prims []Primitive
	for i, step := range p.Steps {
		cell := rg.Col(i, n, gap)
		fill, textColor := cardColors(rc, i)
		shape := ShapeChevron
		if i == 0 {
			shape = ShapeHomePlate
		}
		chevH := math.Min(cell.H, 0.9)
		chev := Rect(cell.X, rg.Y+rg.H*0.2, cell.W, chevH)
		lf := rc.Fitter.FitToLines(step.Label, FitOptions{InitialSize: 12, MinSize: 8, BaseCols: 7, MaxLines: 2})
		prims = append(prims, ShapePrimitive{
			Region:   chev,
			Shape:    shape,
			Fill:     SolidFill(NewColor(fill)),
			Text:     lf.Text,
			TextFont: bodyFont(rc, lf.FontSize).SetBold(true).SetColor(textColor),
		})
		if step.Desc != "" {
			df := rc.Fitter.FitToLines(step.Desc, FitOptions{InitialSize: 9, MinSize: 8, BaseCols: 8, MaxLines: 2})
			prims = append(prims, text(Rect(cell.X+0.04, chev.Bottom()+0.08, cell.W-0.08, rg.Bottom()-chev.Bottom()-0.1), df.Text, bodyFont(rc, df.FontSize), AlignCenter, AnchorTop))
		}
	}
	return prims
}

func (f *FunnelRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(f.Steps)
	if n == 0 {
		return placeholder(rg, "no steps", rc)
	}
	gap := 0.05
	var prims []Primitive
	for i, step := range f.Steps {
		row := rg.Row(i, n, gap)
		// Width narrows linearly toward the bottom stage.
		ratio := 1.0 - 0.6*float64(i)/math.Max(float64(n-1), 1)
		w := rg.W * ratio
		band := Rect(rg.CenterX()-w/2, row.Y, w, row.H)
		fill, textColor := cardColors(rc, i)
		label := step.Label
		if step.Value != nil {
			label += "  " + fmtFloat(*step.Value)
		}
		lf := rc.Fitter.FitToLines(label, FitOptions{InitialSize: 13, MinSize: 9, BaseCols: 16, MaxLines: 1})
		prims = append(prims, ShapePrimitive{
			Region:   band,
			Shape:    ShapeTrapezoid,
			Fill:     SolidFill(NewColor(fill)),
			Text:     lf.Text,
			TextFont: bodyFont(rc, lf.FontSize).SetBold(true).SetColor(textColor),
		})
	}
	return prims
}

func (p *PyramidRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(p.Levels)
	if n == 0 {
		return placeholder(rg, "no levels", rc)
	}
	gap := 0.04
	var prims []Primitive
	for i, lvl := range p.Levels {
		row := rg.Row(i, n, gap)
		// Narrow at the apex, widening toward the base.
		ratio := 0.35 + 0.65*float64(i+1)/float64(n)
		w := rg.W * ratio
		band := Rect(rg.CenterX()-w/2, row.Y, w, row.H)
		fill, textColor := cardColors(rc, i)
		shape := ShapeTrapezoid
		if i == 0 {
			shape = ShapeTriangle
		}
		lf := rc.Fitter.FitToLines(lvl.Label, FitOptions{InitialSize: 12, MinSize: 8, BaseCols: 12, MaxLines: 1})
		prims = append(prims, ShapePrimitive{
			Region:   band,
			Shape:    shape,
			Fill:     SolidFill(NewColor(fill)),
			Text:     lf.Text,
			TextFont: bodyFont(rc, lf.FontSize).SetBold(true).SetColor(textColor),
		})
		if lvl.Desc != "" {
			prims = append(prims, text(Rect(band.Right()+0.1, row.Y, rg.Right()-band.Right()-0.1, row.H), lvl.Desc, bodyFont(rc, 9), AlignLeft, AnchorMiddle))
		}
	}
	return prims
}

const defaultWaterfallBaseline = 0.55

func (w *WaterfallRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(w.Items)
	if n == 0 {
		return placeholder(rg, "no data", rc)
	}
	baseline := defaultWaterfallBaseline
	if w.BaselineRatio != nil {
		baseline = clamp01(*w.BaselineRatio)
	}
	baseY := rg.Y + rg.H*baseline

	maxAbs := 0.0
	for _, it := range w.Items {
		maxAbs = math.Max(maxAbs, math.Abs(it.Delta))
	}
	if maxAbs <= 0 {
		maxAbs = 1
	}
	maxBarH := rg.H * math.Min(baseline, 1-baseline) * 0.9

	prims := []Primitive{LinePrimitive{
		X1: rg.X, Y1: baseY, X2: rg.Right(), Y2: baseY,
		Color: NewColor(rc.Theme.Outline), WidthPt: 1.25,
	}}
	slotGap := rc.Theme.SpacingUnit * 0.5
	for i, it := range w.Items {
		cell := rg.Col(i, n, slotGap)
		barW := cell.W * 0.7
		barX := cell.CenterX() - barW/2
		h := math.Abs(it.Delta) / maxAbs * maxBarH
		fill := rc.Theme.Primary
		barY := baseY - h
		if it.Delta < 0 {
			fill = rc.Theme.Accent
			barY = baseY
		}
		prims = append(prims, ShapePrimitive{
			Region: Rect(barX, barY, barW, h),
			Shape:  ShapeRect,
			Fill:   SolidFill(NewColor(fill)),
		})
		valueY := barY - 0.26
		if it.Delta < 0 {
			valueY = barY + h + 0.02
		}
		// Extreme baselines push labels past the region edges; keep
		// the value row inside.
		if valueY < rg.Y {
			valueY = rg.Y
		} else if limit := rg.Bottom() - 0.24; valueY > limit {
			valueY = limit
		}
		delta := fmtFloat(it.Delta)
		if it.Delta > 0 {
			delta = "+" + delta
		}
		lf := rc.Fitter.FitToLines(it.Label, FitOptions{InitialSize: 10, MinSize: 8, BaseCols: 8, MaxLines: 1})
		prims = append(prims,
			text(Rect(cell.X, valueY, cell.W, 0.24), delta, bodyFont(rc, 10).SetBold(true), AlignCenter, AnchorMiddle),
			text(Rect(cell.X, rg.Bottom()-0.28, cell.W, 0.28), lf.Text, bodyFont(rc, lf.FontSize), AlignCenter, AnchorMiddle),
		)
	}
	return prims
}
