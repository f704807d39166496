package godeck

import "fmt"

// Placement and shared drawing helpers for the infographic engine.
// Every drawer consumes a bounded region plus the render context and
// returns primitives; nothing draws outside its region.

// WantsBottomBand reports whether the recipe should take a full-width
// bottom band instead of the narrower right panel: inherently
// horizontal kinds always do, and list-shaped kinds do once their item
// counts cross the crowding thresholds.
func WantsBottomBand(v *VisualRecipe) bool {
	if !v.Drawable() {
		return false
	}
	switch d := v.drawer.(type) {
	case *GanttRecipe, *RoadmapRecipe, *ProcessStepsRecipe, *FunnelRecipe, *WaterfallRecipe, *HeatmapRecipe:
		return true
	case *TimelineRecipe:
		return true
	case *KPIGridRecipe:
		return len(d.Items) >= 3
	case *ChecklistRecipe:
		return len(d.Items) >= 5
	case *ProgressBarsRecipe:
		return len(d.Items) >= 5
	case *BulletGraphRecipe:
		return len(d.Items) >= 5
	case *CalloutsRecipe:
		return len(d.Items) >= 3
	}
	return false
}

// label/value font parameters shared by the card-shaped drawers.
const (
	cardLabelSize    = 14.0
	cardLabelMinSize = 9.0
	cardValueSize    = 24.0
	cardValueMinSize = 12.0
)

func bodyFont(rc *RenderContext, size float64) *Font {
	return NewFont().SetName(rc.Theme.BodyFont).SetSize(size)
}

func titleFont(rc *RenderContext, size float64) *Font {
	return NewFont().SetName(rc.Theme.TitleFont).SetSize(size).SetBold(true)
}

func text(rg Region, s string, f *Font, align HorizontalAlignment, anchor VerticalAlignment) TextPrimitive {
	return TextPrimitive{Region: rg, Text: s, Font: f, Align: align, Anchor: anchor}
}

func box(rg Region, shape AutoShapeKind, fillHex string, rc *RenderContext) ShapePrimitive {
	p := ShapePrimitive{
		Region: rg,
		Shape:  shape,
		Fill:   SolidFill(NewColor(fillHex)),
	}
	if shape == ShapeRound {
		p.CornerRadius = rc.Theme.CornerRadius
	}
	if rc.Theme.Shadow != nil {
		sh := *rc.Theme.Shadow
		p.Shadow = &sh
	}
	return p
}

func outlineBox(rg Region, rc *RenderContext) ShapePrimitive {
	return ShapePrimitive{
		Region: rg,
		Shape:  ShapeRect,
		Border: SolidBorder(NewColor(rc.Theme.Outline), 1),
	}
}

// placeholder is the minimal visible stand-in for a recipe element
// that failed to render.
func placeholder(rg Region, label string, rc *RenderContext) []Primitive {
	return []Primitive{
		outlineBox(rg, rc),
		text(rg, label, bodyFont(rc, 12), AlignCenter, AnchorMiddle),
	}
}

// fitCard runs label and value through the shared shrink-to-fit and,
// when unify is set, applies the smaller of the two resulting sizes to
// both so the pair reads as one unit.
func fitCard(rc *RenderContext, label, value string, labelCols, valueCols int, unify bool) (FitResult, FitResult) {
	lf := rc.Fitter.FitToLines(label, FitOptions{
		InitialSize: cardLabelSize, MinSize: cardLabelMinSize, BaseCols: labelCols, MaxLines: 2,
	})
	vf := rc.Fitter.FitToLines(value, FitOptions{
		InitialSize: cardValueSize, MinSize: cardValueMinSize, BaseCols: valueCols, MaxLines: 1,
	})
	if unify {
		size := lf.FontSize
		if vf.FontSize < size {
			size = vf.FontSize
		}
		lf.FontSize = size
		vf.FontSize = size
	}
	return lf, vf
}

// cardColors returns the palette fill for the i-th card and a readable
// text color for it.
func cardColors(rc *RenderContext, i int) (string, Color) {
	fill := rc.Theme.PaletteColor(i)
	return fill, TextColorFor(fill)
}

func fmtFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
