package godeck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestResolveAreaAbsentYieldsDefault(t *testing.T) {
	def := Rect(1, 2, 3, 4)
	assert.Equal(t, def, ResolveArea(nil, LayoutContentOnly, "body", def))
	assert.Equal(t, def, ResolveArea(&TemplateConfig{}, LayoutContentOnly, "body", def))
}

func TestResolveAreaExplicitFieldsOverride(t *testing.T) {
	tpl := &TemplateConfig{Layouts: map[string]*LayoutTemplate{
		"content_only": {Areas: map[string]*AreaGeometry{
			"body": {X: fp(0.5), W: fp(10)},
		}},
	}}
	got := ResolveArea(tpl, LayoutContentOnly, "body", Rect(1, 2, 3, 4))
	assert.Equal(t, Rect(0.5, 2, 10, 4), got)
}

func TestResolveAreaRefInheritsSizeOnly(t *testing.T) {
	tpl := &TemplateConfig{
		Regions: map[string]*AreaGeometry{
			"wide": {X: fp(9), Y: fp(9), W: fp(12), H: fp(2)},
		},
		Layouts: map[string]*LayoutTemplate{
			"content_only": {Areas: map[string]*AreaGeometry{
				"body": {Ref: "wide"},
			}},
		},
	}
	got := ResolveArea(tpl, LayoutContentOnly, "body", Rect(1, 2, 3, 4))
	// Width and height come from the referenced region; position stays
	// with the default.
	assert.Equal(t, Rect(1, 2, 12, 2), got)
}

func TestResolveAreaRefOverriddenByExplicit(t *testing.T) {
	tpl := &TemplateConfig{
		Regions: map[string]*AreaGeometry{
			"wide": {W: fp(12), H: fp(2)},
		},
		Layouts: map[string]*LayoutTemplate{
			"content_only": {Areas: map[string]*AreaGeometry{
				"body": {Ref: "wide", H: fp(5)},
			}},
		},
	}
	got := ResolveArea(tpl, LayoutContentOnly, "body", Rect(1, 2, 3, 4))
	assert.Equal(t, Rect(1, 2, 12, 5), got)
}

func TestResolveTitleBarColorChain(t *testing.T) {
	theme := &ResolvedTheme{Primary: "336699"}

	// Explicit layout color wins.
	tpl := &TemplateConfig{Layouts: map[string]*LayoutTemplate{
		"content_only": {TitleBarColor: "#FF0000"},
	}}
	assert.Equal(t, "FF0000", ResolveTitleBarColor(tpl, theme, LayoutContentOnly, "#00FF00"))

	// Fixed-color template pins the primary.
	fixed := &ResolvedTheme{Primary: "336699", FixedColors: true}
	assert.Equal(t, "336699", ResolveTitleBarColor(nil, fixed, LayoutContentOnly, "#00FF00"))

	// Valid slide accent next.
	assert.Equal(t, "00FF00", ResolveTitleBarColor(nil, theme, LayoutContentOnly, "#00FF00"))

	// Otherwise the lightened primary.
	assert.Equal(t, Lighten("336699", titleBarLightenAmount),
		ResolveTitleBarColor(nil, theme, LayoutContentOnly, ""))
}

func TestRegionHelpers(t *testing.T) {
	rg := Rect(1, 1, 4, 2)
	assert.Equal(t, 5.0, rg.Right())
	assert.Equal(t, 3.0, rg.Bottom())
	assert.Equal(t, 3.0, rg.CenterX())
	assert.Equal(t, 2.0, rg.CenterY())
	assert.Equal(t, Rect(1.5, 1.25, 3, 1.5), rg.Inset(0.5, 0.25))

	top := rg.Row(0, 2, 0.2)
	bottom := rg.Row(1, 2, 0.2)
	assert.InDelta(t, rg.Y, top.Y, 1e-9)
	assert.InDelta(t, rg.Bottom(), bottom.Bottom(), 1e-9)
	assert.InDelta(t, top.H, bottom.H, 1e-9)
	assert.InDelta(t, 0.2, bottom.Y-top.Bottom(), 1e-9)

	left := rg.Col(0, 2, 0.2)
	right := rg.Col(1, 2, 0.2)
	assert.InDelta(t, rg.X, left.X, 1e-9)
	assert.InDelta(t, rg.Right(), right.Right(), 1e-9)
	assert.InDelta(t, 0.2, right.X-left.Right(), 1e-9)
}
