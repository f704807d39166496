package godeck

import (
	"fmt"
	"math"
)

// Grid-shaped drawers: heatmap, 2×2 matrix, venn, table, map markers.

// blendFromWhite interpolates from white toward the given color;
// t=0 is white, t=1 the full color.
func blendFromWhite(hex string, t float64) string {
	t = clamp01(t)
	r, g, b := hexChannels(hex)
	mix := func(c int) int {
		return int(math.Round(255 + (float64(c)-255)*t))
	}
	return fmt.Sprintf("%02X%02X%02X", mix(r), mix(g), mix(b))
}

func (h *HeatmapRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	if len(h.Z) == 0 || len(h.X) == 0 {
		return placeholder(rg, "no data", rc)
	}
	minZ, maxZ := math.MaxFloat64, -math.MaxFloat64
	if h.MinZ != nil && h.MaxZ != nil {
		minZ, maxZ = *h.MinZ, *h.MaxZ
	} else {
		for _, row := range h.Z {
			for _, v := range row {
				minZ = math.Min(minZ, v)
				maxZ = math.Max(maxZ, v)
			}
		}
	}
	if maxZ <= minZ {
		minZ, maxZ = 0, 1
	}

	leftPad := rg.W * 0.16
	topPad := 0.3
	grid := Rect(rg.X+leftPad, rg.Y+topPad, rg.W-leftPad, rg.H-topPad)
	nCols := len(h.X)
	nRows := len(h.Z)
	cellW := grid.W / float64(nCols)
	cellH := grid.H / float64(nRows)

	var prims []Primitive
	for j, lbl := range h.X {
		prims = append(prims, text(Rect(grid.X+float64(j)*cellW, rg.Y, cellW, topPad), lbl, bodyFont(rc, 9), AlignCenter, AnchorMiddle))
	}
	for i, row := range h.Z {
		if i < len(h.Y) {
			prims = append(prims, text(Rect(rg.X, grid.Y+float64(i)*cellH, leftPad-0.06, cellH), h.Y[i], bodyFont(rc, 9), AlignRight, AnchorMiddle))
		}
		for j, v := range row {
			if j >= nCols {
				break
			}
			t := (v - minZ) / (maxZ - minZ)
			cell := Rect(grid.X+float64(j)*cellW, grid.Y+float64(i)*cellH, cellW, cellH)
			fill := blendFromWhite(rc.Theme.Primary, t)
			prims = append(prims, ShapePrimitive{
				Region:   cell.Inset(0.015, 0.015),
				Shape:    ShapeRect,
				Fill:     SolidFill(NewColor(fill)),
				Text:     formatChartValue(v),
				TextFont: bodyFont(rc, 9).SetColor(TextColorFor(fill)),
			})
		}
	}
	return prims
}

func (m *MatrixRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	pad := 0.32
	grid := Rect(rg.X+pad, rg.Y+pad, rg.W-2*pad, rg.H-2*pad)
	mid := NewColor(rc.Theme.Outline)

	prims := []Primitive{
		outlineBox(grid, rc),
		LinePrimitive{X1: grid.CenterX(), Y1: grid.Y, X2: grid.CenterX(), Y2: grid.Bottom(), Color: mid, WidthPt: 1},
		LinePrimitive{X1: grid.X, Y1: grid.CenterY(), X2: grid.Right(), Y2: grid.CenterY(), Color: mid, WidthPt: 1},
		// Axis extremes: x along the bottom, y along the left.
		text(Rect(grid.X, grid.Bottom(), grid.W/2, pad), m.XLow, bodyFont(rc, 9), AlignLeft, AnchorMiddle),
		text(Rect(grid.CenterX(), grid.Bottom(), grid.W/2, pad), m.XHigh, bodyFont(rc, 9), AlignRight, AnchorMiddle),
		text(Rect(rg.X, grid.Y, pad-0.04, grid.H/2), m.YHigh, bodyFont(rc, 9), AlignCenter, AnchorTop),
		text(Rect(rg.X, grid.CenterY(), pad-0.04, grid.H/2), m.YLow, bodyFont(rc, 9), AlignCenter, AnchorBottom),
	}

	for i := 0; i < 4 && i < len(m.Quadrants); i++ {
		q := m.Quadrants[i]
		cell := grid.Row(i/2, 2, 0).Col(i%2, 2, 0).Inset(0.08, 0.08)
		tf := rc.Fitter.FitToLines(q.Title, FitOptions{InitialSize: 12, MinSize: 9, BaseCols: 10, MaxLines: 1})
		prims = append(prims, text(Rect(cell.X, cell.Y, cell.W, 0.28), tf.Text, bodyFont(rc, tf.FontSize).SetBold(true).SetColor(NewColor(rc.Theme.PaletteColor(i))), AlignLeft, AnchorTop))
		var body string
		for j, item := range q.Items {
			if j > 0 {
				body += "\n"
			}
			body += "・" + item
		}
		if body != "" {
			bf := rc.Fitter.FitToLines(body, FitOptions{InitialSize: 10, MinSize: 8, BaseCols: 12, MaxLines: 4})
			prims = append(prims, text(Rect(cell.X, cell.Y+0.3, cell.W, cell.H-0.3), bf.Text, bodyFont(rc, bf.FontSize), AlignLeft, AnchorTop))
		}
	}
	return prims
}

func (v *VennRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	diam := math.Min(rg.W*0.55, rg.H*0.85)
	overlap := diam * 0.35
	totalW := 2*diam - overlap
	left := Rect(rg.CenterX()-totalW/2, rg.CenterY()-diam/2, diam, diam)
	right := Rect(left.Right()-overlap, left.Y, diam, diam)

	// A0 alpha keeps the lens readable where the ellipses overlap.
	a := NewColor("A0" + rc.Theme.Primary)
	b := NewColor("A0" + rc.Theme.Accent)

	prims := []Primitive{
		ShapePrimitive{Region: left, Shape: ShapeEllipse, Fill: SolidFill(a), Border: SolidBorder(NewColor(rc.Theme.Primary), 1.5)},
		ShapePrimitive{Region: right, Shape: ShapeEllipse, Fill: SolidFill(b), Border: SolidBorder(NewColor(rc.Theme.Accent), 1.5)},
		text(Rect(left.X, left.Y, diam-overlap, diam), v.A.Label, bodyFont(rc, 12).SetBold(true).SetColor(TextColorFor(rc.Theme.Primary)), AlignCenter, AnchorMiddle),
		text(Rect(right.X+overlap, right.Y, diam-overlap, diam), v.B.Label, bodyFont(rc, 12).SetBold(true).SetColor(TextColorFor(rc.Theme.Accent)), AlignCenter, AnchorMiddle),
	}
	if v.OverlapLabel != "" {
		lens := Rect(left.Right()-overlap, left.Y, overlap, diam)
		lf := rc.Fitter.FitToLines(v.OverlapLabel, FitOptions{InitialSize: 11, MinSize: 8, BaseCols: 5, MaxLines: 2})
		prims = append(prims, text(lens, lf.Text, bodyFont(rc, lf.FontSize).SetBold(true).SetColor(ColorWhite), AlignCenter, AnchorMiddle))
	}
	return prims
}

func (t *TableRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return placeholder(rg, "no data", rc)
	}
	return []Primitive{TablePrimitive{
		Region:     rg,
		Headers:    t.Headers,
		Rows:       t.Rows,
		HeaderFill: SolidFill(NewColor(rc.Theme.Primary)),
		HeaderFont: bodyFont(rc, 12).SetBold(true).SetColor(TextColorFor(rc.Theme.Primary)),
		CellFont:   bodyFont(rc, 11),
		Border:     SolidBorder(NewColor(rc.Theme.Outline), 0.75),
	}}
}

func (m *MapMarkersRecipe) draw(rg Region, rc *RenderContext) []Primitive {
	frame := rg.Inset(0.1, 0.1)
	if m.Caption != "" {
		frame.H -= 0.3
	}
	prims := []Primitive{
		ShapePrimitive{
			Region:       frame,
			Shape:        ShapeRound,
			Fill:         SolidFill(NewColor(blendFromWhite(rc.Theme.Secondary, 0.25))),
			Border:       SolidBorder(NewColor(rc.Theme.Outline), 1),
			CornerRadius: rc.Theme.CornerRadius,
		},
	}
	dot := 0.16
	for i, mk := range m.Markers {
		cx := frame.X + clamp01(mk.X)*frame.W
		cy := frame.Y + clamp01(mk.Y)*frame.H
		prims = append(prims,
			ShapePrimitive{
				Region: Rect(cx-dot/2, cy-dot/2, dot, dot),
				Shape:  ShapeEllipse,
				Fill:   SolidFill(NewColor(rc.Theme.PaletteColor(i))),
				Border: SolidBorder(ColorWhite, 1.5),
			},
			text(Rect(cx-0.6, cy+dot/2, 1.2, 0.22), mk.Label, bodyFont(rc, 9).SetBold(true), AlignCenter, AnchorTop),
		)
	}
	if m.Caption != "" {
		prims = append(prims, text(Rect(frame.X, frame.Bottom()+0.04, frame.W, 0.26), m.Caption, bodyFont(rc, 10), AlignCenter, AnchorMiddle))
	}
	return prims
}
