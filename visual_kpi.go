package godeck

import "math"

func (k *KPICardRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	card := rg.Inset(rc.Theme.SpacingUnit, rc.Theme.SpacingUnit)
	fill, textColor := cardColors(rc, 0)
	lf, vf := fitCard(rc, k.Label, k.Value, 16, 12, k.UnifySize)

	prims := []Primitive{box(card, ShapeRound, fill, rc)}
	inner := card.Inset(0.15, 0.12)
	labelRg := Rect(inner.X, inner.Y, inner.W, inner.H*0.3)
	valueRg := Rect(inner.X, inner.Y+inner.H*0.3, inner.W, inner.H*0.45)
	prims = append(prims,
		text(labelRg, lf.Text, bodyFont(rc, lf.FontSize).SetColor(textColor), AlignCenter, AnchorMiddle),
		text(valueRg, vf.Text, titleFont(rc, vf.FontSize).SetColor(textColor), AlignCenter, AnchorMiddle),
	)
	if k.Note != "" {
		noteRg := Rect(inner.X, inner.Y+inner.H*0.78, inner.W, inner.H*0.22)
		prims = append(prims, text(noteRg, k.Note, bodyFont(rc, 10).SetColor(textColor), AlignCenter, AnchorMiddle))
	}
	return prims
}

func (k *KPIGridRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(k.Items)
	if n == 0 {
		return placeholder(rg, "no data", rc)
	}
	cols := 2
	if rg.W > rg.H*2 {
		cols = n
		if cols > 4 {
			cols = 4
		}
	}
	if cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols
	gap := rc.Theme.SpacingUnit

	// Fit all cards first so a unified size can take the minimum over
	// the whole grid, not per card.
	labelFits := make([]FitResult, n)
	valueFits := make([]FitResult, n)
	minLabel, minValue := math.MaxFloat64, math.MaxFloat64
	for i, it := range k.Items {
		lf, vf := fitCard(rc, it.Label, it.Value, 12, 9, false)
		labelFits[i], valueFits[i] = lf, vf
		minLabel = math.Min(minLabel, lf.FontSize)
		minValue = math.Min(minValue, vf.FontSize)
	}
	var prims []Primitive
	for i := range k.Items {
		cell := rg.Row(i/cols, rows, gap).Col(i%cols, cols, gap)
		fill, textColor := cardColors(rc, i)
		lf, vf := labelFits[i], valueFits[i]
		if k.UnifySize {
			lf.FontSize = minLabel
			vf.FontSize = minValue
		}
		prims = append(prims, box(cell, ShapeRound, fill, rc))
		inner := cell.Inset(0.1, 0.08)
		prims = append(prims,
			text(Rect(inner.X, inner.Y, inner.W, inner.H*0.38), lf.Text, bodyFont(rc, lf.FontSize).SetColor(textColor), AlignCenter, AnchorMiddle),
			text(Rect(inner.X, inner.Y+inner.H*0.38, inner.W, inner.H*0.62), vf.Text, titleFont(rc, vf.FontSize).SetColor(textColor), AlignCenter, AnchorMiddle),
		)
	}
	return prims
}

// progressScale picks the bar scale: the explicit max, else the
// largest value or target present.
func progressScale(items []ProgressItem, max *float64) float64 {
	if max != nil && *max > 0 {
		return *max
	}
	scale := 0.0
	for _, it := range items {
		scale = math.Max(scale, it.Value)
		if it.Target != nil {
			scale = math.Max(scale, *it.Target)
		}
	}
	if scale <= 0 {
		scale = 1
	}
	return scale
}

func (p *ProgressBarsRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	return drawValueBars(rg, rc, p.Items, p.Max, false)
}

func (b *BulletGraphRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	return drawValueBars(rg, rc, b.Items, b.Max, true)
}

// drawValueBars renders labeled horizontal bars; withTarget adds the
// bullet-graph target tick.
func drawValueBars(rg Region, rc *RenderContext, items []ProgressItem, max *float64, withTarget bool) []Primitive {
	n := len(items)
	if n == 0 {
		return placeholder(rg, "no data", rc)
	}
	scale := progressScale(items, max)
	gap := rc.Theme.SpacingUnit * 0.6
	labelW := rg.W * 0.28
	valueW := rg.W * 0.13
	trackX := rg.X + labelW + 0.08
	trackW := rg.W - labelW - valueW - 0.16

	var prims []Primitive
	for i, it := range items {
		row := rg.Row(i, n, gap)
		barH := math.Min(row.H*0.55, 0.32)
		barY := row.CenterY() - barH/2
		fit := rc.Fitter.FitToLines(it.Label, FitOptions{InitialSize: 12, MinSize: 8, BaseCols: 10, MaxLines: 1})
		prims = append(prims,
			text(Rect(row.X, row.Y, labelW, row.H), fit.Text, bodyFont(rc, fit.FontSize), AlignLeft, AnchorMiddle),
			ShapePrimitive{Region: Rect(trackX, barY, trackW, barH), Shape: ShapeRound, Fill: SolidFill(NewColor(Lighten(rc.Theme.Primary, 150))), CornerRadius: barH / 2},
		)
		w := clamp01(it.Value/scale) * trackW
		if w > 0 {
			prims = append(prims, ShapePrimitive{
				Region:       Rect(trackX, barY, w, barH),
				Shape:        ShapeRound,
				Fill:         SolidFill(NewColor(rc.Theme.PaletteColor(i))),
				CornerRadius: barH / 2,
			})
		}
		if withTarget && it.Target != nil {
			tx := trackX + clamp01(*it.Target/scale)*trackW
			prims = append(prims, LinePrimitive{
				X1: tx, Y1: barY - 0.05, X2: tx, Y2: barY + barH + 0.05,
				Color: NewColor(rc.Theme.Accent), WidthPt: 2,
			})
		}
		prims = append(prims, text(Rect(trackX+trackW+0.08, row.Y, valueW, row.H), fmtFloat(it.Value), bodyFont(rc, 11).SetBold(true), AlignLeft, AnchorMiddle))
	}
	return prims
}

// minCompareBoxWidth is the narrowest usable side-by-side comparison
// box; below 2× this the pair stacks vertically.
const minCompareBoxWidth = 2.2

func (c *ComparisonRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	gap := rc.Theme.SpacingUnit
	sides := []CompareSide{c.A, c.B}
	horizontal := rg.W >= 2*minCompareBoxWidth+gap

	var prims []Primitive
	for i, side := range sides {
		var cell Region
		if horizontal {
			cell = rg.Col(i, 2, gap)
		} else {
			cell = rg.Row(i, 2, gap)
		}
		fill, textColor := cardColors(rc, i)
		prims = append(prims, box(cell, ShapeRound, fill, rc))
		inner := cell.Inset(0.14, 0.1)
		lf, vf := fitCard(rc, side.Label, side.Value, 14, 10, true)
		prims = append(prims,
			text(Rect(inner.X, inner.Y, inner.W, inner.H*0.25), lf.Text, bodyFont(rc, lf.FontSize).SetBold(true).SetColor(textColor), AlignCenter, AnchorTop),
			text(Rect(inner.X, inner.Y+inner.H*0.25, inner.W, inner.H*0.3), vf.Text, titleFont(rc, vf.FontSize).SetColor(textColor), AlignCenter, AnchorMiddle),
		)
		if len(side.Points) > 0 {
			var body string
			for j, p := range side.Points {
				if j > 0 {
					body += "\n"
				}
				body += "・" + p
			}
			fit := rc.Fitter.FitToLines(body, FitOptions{
				InitialSize: 12, MinSize: 8, BaseCols: 14, MaxLines: 4, SuppressEllipsis: false,
			})
			prims = append(prims, text(Rect(inner.X, inner.Y+inner.H*0.58, inner.W, inner.H*0.42), fit.Text, bodyFont(rc, fit.FontSize).SetColor(textColor), AlignLeft, AnchorTop))
		}
	}
	return prims
}

func (c *ChecklistRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(c.Items)
	if n == 0 {
		return placeholder(rg, "no items", rc)
	}
	gap := rc.Theme.SpacingUnit * 0.5
	var prims []Primitive
	for i, it := range c.Items {
		row := rg.Row(i, n, gap)
		markSize := math.Min(row.H*0.6, 0.26)
		mark := Rect(row.X, row.CenterY()-markSize/2, markSize, markSize)
		if it.Done {
			prims = append(prims, ShapePrimitive{
				Region:   mark,
				Shape:    ShapeEllipse,
				Fill:     SolidFill(NewColor(rc.Theme.Primary)),
				Text:     "✓",
				TextFont: bodyFont(rc, 10).SetBold(true).SetColor(TextColorFor(rc.Theme.Primary)),
			})
		} else {
			prims = append(prims, ShapePrimitive{
				Region: mark,
				Shape:  ShapeEllipse,
				Border: SolidBorder(NewColor(rc.Theme.Outline), 1.5),
			})
		}
		fit := rc.Fitter.FitToLines(it.Text, FitOptions{InitialSize: 13, MinSize: 9, BaseCols: 24, MaxLines: 2})
		textRg := Rect(mark.Right()+0.12, row.Y, row.W-markSize-0.12, row.H)
		prims = append(prims, text(textRg, fit.Text, bodyFont(rc, fit.FontSize), AlignLeft, AnchorMiddle))
	}
	return prims
}

func (c *CalloutsRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	n := len(c.Items)
	if n == 0 {
		return placeholder(rg, "no items", rc)
	}
	gap := rc.Theme.SpacingUnit
	var prims []Primitive
	for i, it := range c.Items {
		cell := rg.Row(i, n, gap)
		fill, textColor := cardColors(rc, i)
		prims = append(prims, ShapePrimitive{
			Region:       cell,
			Shape:        ShapeCallout,
			Fill:         SolidFill(NewColor(fill)),
			CornerRadius: rc.Theme.CornerRadius,
		})
		inner := cell.Inset(0.16, 0.08)
		lf := rc.Fitter.FitToLines(it.Label, FitOptions{InitialSize: 13, MinSize: 9, BaseCols: 20, MaxLines: 1})
		tf := rc.Fitter.FitToLines(it.Text, FitOptions{InitialSize: 11, MinSize: 8, BaseCols: 26, MaxLines: 2})
		prims = append(prims,
			text(Rect(inner.X, inner.Y, inner.W, inner.H*0.4), lf.Text, bodyFont(rc, lf.FontSize).SetBold(true).SetColor(textColor), AlignLeft, AnchorMiddle),
			text(Rect(inner.X, inner.Y+inner.H*0.4, inner.W, inner.H*0.6), tf.Text, bodyFont(rc, tf.FontSize).SetColor(textColor), AlignLeft, AnchorTop),
		)
	}
	return prims
}
