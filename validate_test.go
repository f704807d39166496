package godeck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visualSlide(layout LayoutKind) *SlideSpec {
	return &SlideSpec{
		Layout: layout,
		VisualRecipe: &VisualRecipe{
			Kind:   KindKPIGrid,
			drawer: &KPIGridRecipe{Items: []KPIItem{{Label: "a", Value: "1"}}},
		},
	}
}

func TestValidateBuiltinLayouts(t *testing.T) {
	slides := []*SlideSpec{
		{Layout: LayoutTitle},
		{Layout: LayoutContentOnly},
		visualSlide(LayoutContentWithVisual),
	}
	assert.NoError(t, ValidateTemplate(nil, slides))
}

func TestValidateUnknownLayoutWithoutTemplate(t *testing.T) {
	err := ValidateTemplate(nil, []*SlideSpec{{Layout: "custom_x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown layout "custom_x"`)
}

func TestValidateCollectsAllFindings(t *testing.T) {
	slides := []*SlideSpec{
		{Layout: "bogus_one"},
		{Layout: LayoutContentOnly},
		{Layout: "bogus_two"},
	}
	findings := TemplateFindings(nil, slides)
	require.Len(t, findings, 2)
	assert.Contains(t, findings[0], "slide 1")
	assert.Contains(t, findings[1], "slide 3")
}

func TestValidateTemplatedLayoutMustExist(t *testing.T) {
	tpl := &TemplateConfig{Layouts: map[string]*LayoutTemplate{
		"content_only": {},
	}}
	err := ValidateTemplate(tpl, []*SlideSpec{
		{Layout: LayoutContentOnly},
		{Layout: LayoutTitle}, // built-in, but absent from this template
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `layout "title" not defined in template`)
}

func TestValidateVisualNeedsElementAndArea(t *testing.T) {
	noElement := &TemplateConfig{Layouts: map[string]*LayoutTemplate{
		"content_with_visual": {},
	}}
	err := ValidateTemplate(noElement, []*SlideSpec{visualSlide(LayoutContentWithVisual)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no visual element")

	badArea := &TemplateConfig{Layouts: map[string]*LayoutTemplate{
		"content_with_visual": {
			Elements: []*TemplateElement{{Type: ElementVisual, Area: "missing"}},
		},
	}}
	err = ValidateTemplate(badArea, []*SlideSpec{visualSlide(LayoutContentWithVisual)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `area "missing" does not exist`)

	ok := &TemplateConfig{Layouts: map[string]*LayoutTemplate{
		"content_with_visual": {
			Areas:    map[string]*AreaGeometry{"chart": {X: fp(1), Y: fp(1), W: fp(5), H: fp(4)}},
			Elements: []*TemplateElement{{Type: ElementVisual, Area: "chart"}},
		},
	}}
	assert.NoError(t, ValidateTemplate(ok, []*SlideSpec{visualSlide(LayoutContentWithVisual)}))
}

func TestValidateErrorJoinsFindings(t *testing.T) {
	err := ValidateTemplate(nil, []*SlideSpec{{Layout: "a"}, {Layout: "b"}})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "template validation failed:"))
	assert.Equal(t, 2, strings.Count(err.Error(), "\n"))
}
