package godeck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textsOf(s *MemorySlide) []TextPrimitive {
	var out []TextPrimitive
	for _, p := range s.Primitives {
		if tp, ok := p.(TextPrimitive); ok {
			out = append(out, tp)
		}
	}
	return out
}

func containsText(s *MemorySlide, substr string) bool {
	for _, tp := range textsOf(s) {
		if strings.Contains(tp.Text, substr) {
			return true
		}
	}
	return false
}

type failingCharts struct{}

func (failingCharts) Render(kind ChartKind, labels []string, values []float64, title string) (string, error) {
	return "", fmt.Errorf("render disabled in test")
}

func TestGenerateEndToEnd(t *testing.T) {
	reqJSON := `{
		"fileName": "deck.json",
		"primaryColor": "#2E5C8A",
		"slides": [
			{"title": "年次報告", "layout": "title", "bullets": ["2026年度"], "notes": "opening"},
			{"title": "業績", "layout": "content_only", "bullets": ["売上：前年比120%", "利益率の改善"]},
			{"title": "指標", "layout": "content_with_visual",
			 "visualRecipe": {"type": "kpi_grid", "items": [
				{"label": "MRR", "value": "¥12M"}, {"label": "Churn", "value": "1.2%"}]}}
		]
	}`
	req, err := ParsePresentationRequest([]byte(reqJSON))
	require.NoError(t, err)

	deck := NewMemoryDeck()
	outDir := t.TempDir()
	gen := NewGenerator(Options{Deck: deck, OutputDir: outDir})
	res := gen.Generate(req)
	require.True(t, res.Success, "message: %s", res.Message)

	path := filepath.Join(outDir, "deck.json")
	assert.Equal(t, path, res.FilePath)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Slides []json.RawMessage `json:"slides"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Slides, 3)

	require.Equal(t, 3, deck.SlideCount())
	assert.Equal(t, "opening", deck.Slides[0].Notes)
	// First slide gets a flat theme background when no image source is
	// available.
	require.NotNil(t, deck.Slides[0].BackgroundColor)
	assert.Equal(t, NewColor("2E5C8A"), *deck.Slides[0].BackgroundColor)
	// Body slides get a near-white tint of the theme primary, never a
	// theme-independent white.
	require.NotNil(t, deck.Slides[1].BackgroundColor)
	assert.Equal(t, NewColor(blendFromWhite("2E5C8A", bodyBackgroundTint)), *deck.Slides[1].BackgroundColor)
	assert.NotEqual(t, ColorWhite, *deck.Slides[1].BackgroundColor)

	assert.True(t, containsText(deck.Slides[0], "年次報告"))
	assert.True(t, containsText(deck.Slides[1], "業績"))
	assert.True(t, containsText(deck.Slides[1], "売上："))
	assert.True(t, containsText(deck.Slides[2], "MRR"))
}

func TestGenerateAbortsOnInvalidLayoutBeforeDrawing(t *testing.T) {
	outDir := t.TempDir()
	deck := NewMemoryDeck()
	gen := NewGenerator(Options{Deck: deck, OutputDir: outDir})
	res := gen.Generate(&PresentationRequest{
		FileName: "bad.json",
		Slides:   []*SlideSpec{{Title: "x", Layout: "custom_x"}},
	})
	require.False(t, res.Success)
	assert.Contains(t, res.Message, `unknown layout "custom_x"`)
	assert.Equal(t, 0, deck.SlideCount(), "nothing may be drawn after a validation failure")
	_, err := os.Stat(filepath.Join(outDir, "bad.json"))
	assert.True(t, os.IsNotExist(err), "no output file may be written")
}

func TestGenerateRejectsEmptyRequests(t *testing.T) {
	gen := NewGenerator(Options{})
	assert.False(t, gen.Generate(nil).Success)
	assert.False(t, gen.Generate(&PresentationRequest{FileName: "a.json"}).Success)
	assert.False(t, gen.Generate(&PresentationRequest{
		Slides: []*SlideSpec{{Layout: LayoutContentOnly}},
	}).Success)
}

func TestGenerateFooterBranding(t *testing.T) {
	deck := NewMemoryDeck()
	gen := NewGenerator(Options{Deck: deck, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "footer.json",
		Branding: &Branding{CompanyName: "Acme"},
		Template: &TemplateConfig{
			Branding: &BrandingRules{
				CopyrightSkipTitle:  true,
				PageNumberSkipTitle: true,
			},
		},
		Slides: []*SlideSpec{
			{Title: "cover", Layout: LayoutTitle},
			{Title: "body", Layout: LayoutContentOnly},
		},
	})
	require.True(t, res.Success, res.Message)

	want := fmt.Sprintf("© %d Acme", time.Now().Year())
	assert.False(t, containsText(deck.Slides[0], want), "copyright must be skipped on the title slide")
	assert.True(t, containsText(deck.Slides[1], want))
	assert.True(t, containsText(deck.Slides[1], "2"), "page number on slide 2")
}

func TestGenerateFooterFormatSubstitution(t *testing.T) {
	deck := NewMemoryDeck()
	gen := NewGenerator(Options{Deck: deck, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "fmt.json",
		Branding: &Branding{CompanyName: "Acme"},
		Template: &TemplateConfig{
			Branding: &BrandingRules{
				CopyrightFormat:  "<companyName> confidential <year>",
				PageNumberFormat: "p.<pageNo>",
			},
		},
		Slides: []*SlideSpec{{Title: "one", Layout: LayoutContentOnly}},
	})
	require.True(t, res.Success, res.Message)
	assert.True(t, containsText(deck.Slides[0], fmt.Sprintf("Acme confidential %d", time.Now().Year())))
	assert.True(t, containsText(deck.Slides[0], "p.1"))
}

func TestGenerateTemplateElementPathOverridesFallback(t *testing.T) {
	deck := NewMemoryDeck()
	gen := NewGenerator(Options{Deck: deck, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "tpl.json",
		Template: &TemplateConfig{
			Tokens: &StyleTokens{Accent: "#AA0000"},
			Layouts: map[string]*LayoutTemplate{
				"content_only": {
					Areas: map[string]*AreaGeometry{
						"headline": {X: fp(1), Y: fp(1), W: fp(8), H: fp(1)},
					},
					Elements: []*TemplateElement{
						{Type: ElementText, Area: "headline", ContentRef: "title", StyleRef: "tokens.accent"},
					},
				},
			},
		},
		Slides: []*SlideSpec{{Title: "templated headline", Layout: LayoutContentOnly, Bullets: []string{"unused"}}},
	})
	require.True(t, res.Success, res.Message)

	texts := textsOf(deck.Slides[0])
	var headline *TextPrimitive
	for i := range texts {
		if strings.Contains(texts[i].Text, "templated headline") {
			headline = &texts[i]
		}
	}
	require.NotNil(t, headline)
	assert.InDelta(t, 1.0, headline.Region.X, 1e-9)
	assert.Equal(t, NewColor("AA0000"), headline.Font.Color)
	assert.False(t, containsText(deck.Slides[0], "unused"), "code-side bullet fallback must not run")
}

func TestGenerateNativeChartGoesThroughDeck(t *testing.T) {
	deck := NewMemoryDeck()
	gen := NewGenerator(Options{Deck: deck, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "chart.json",
		Slides: []*SlideSpec{{
			Title:  "sales",
			Layout: LayoutVisualOnly,
			VisualRecipe: &VisualRecipe{
				Kind:   KindBarChart,
				drawer: &ChartRecipe{Labels: []string{"Q1", "Q2"}, Values: []float64{10, 20}, chartKind: ChartBar},
			},
		}},
	})
	require.True(t, res.Success, res.Message)

	found := false
	for _, p := range deck.Slides[0].Primitives {
		if _, ok := p.(ChartPrimitive); ok {
			found = true
		}
	}
	assert.True(t, found, "bar chart should use the deck's native chart capability")
}

func TestGenerateChartFallsBackToPlaceholder(t *testing.T) {
	deck := NewMemoryDeck()
	deck.DisableNativeCharts = true
	gen := NewGenerator(Options{Deck: deck, Charts: failingCharts{}, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "fallback.json",
		Slides: []*SlideSpec{{
			Title:  "sales",
			Layout: LayoutVisualOnly,
			VisualRecipe: &VisualRecipe{
				Kind:   KindBarChart,
				drawer: &ChartRecipe{Labels: []string{"Q1"}, Values: []float64{10}, Title: "quarterly", chartKind: ChartBar},
			},
		}},
	})
	require.True(t, res.Success, res.Message)
	assert.True(t, containsText(deck.Slides[0], "quarterly"), "placeholder should carry the chart title")
}

func TestGenerateComparisonLayoutWithoutRecipe(t *testing.T) {
	deck := NewMemoryDeck()
	gen := NewGenerator(Options{Deck: deck, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "cmp.json",
		Slides: []*SlideSpec{{
			Title:   "A/B",
			Layout:  LayoutComparisonCards,
			Bullets: []string{"left point", "right point"},
		}},
	})
	require.True(t, res.Success, res.Message)
	assert.True(t, containsText(deck.Slides[0], "left point"))
	assert.True(t, containsText(deck.Slides[0], "right point"))
}

func TestGenerateFreeformCompanyOverview(t *testing.T) {
	deck := NewMemoryDeck()
	gen := NewGenerator(Options{Deck: deck, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "overview.json",
		Branding: &Branding{
			CompanyName: "Acme",
			CompanyOverview: []OverviewRow{
				{Label: "設立", Value: "2010年"},
				{Label: "従業員数", Value: "250名"},
			},
		},
		Slides: []*SlideSpec{{
			Title:          "会社概要",
			Layout:         LayoutFreeform,
			SpecialContent: "company_overview",
		}},
	})
	require.True(t, res.Success, res.Message)

	var table *TablePrimitive
	for _, p := range deck.Slides[0].Primitives {
		if tp, ok := p.(TablePrimitive); ok {
			table = &tp
		}
	}
	require.NotNil(t, table)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"設立", "2010年"}, table.Rows[0])
}

func TestGenerateRecoversFromPanic(t *testing.T) {
	gen := NewGenerator(Options{Deck: &panicDeck{}, OutputDir: t.TempDir()})
	res := gen.Generate(&PresentationRequest{
		FileName: "boom.json",
		Slides:   []*SlideSpec{{Title: "x", Layout: LayoutContentOnly}},
	})
	require.False(t, res.Success)
	assert.Contains(t, res.Message, "internal error")
}

type panicDeck struct{ MemoryDeck }

func (d *panicDeck) Add(p Primitive) { panic("deck exploded") }

func TestLoadPresentationRequestDefaultsLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "req.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fileName":"d.json","slides":[{"title":"t"}]}`), 0640))
	req, err := LoadPresentationRequest(path)
	require.NoError(t, err)
	assert.Equal(t, LayoutContentOnly, req.Slides[0].Layout)
}
