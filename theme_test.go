package godeck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateWithPolicy(policy ColorPolicy, tokens *StyleTokens) *TemplateConfig {
	return &TemplateConfig{
		Tokens: tokens,
		Rules:  &ColorRules{Policy: policy},
	}
}

func TestResolveThemeDefaults(t *testing.T) {
	theme := ResolveTheme(&PresentationRequest{})
	assert.Equal(t, defaultPrimary, theme.Primary)
	assert.Equal(t, defaultSecondary, theme.Secondary)
	assert.Equal(t, defaultAccent, theme.Accent)
	assert.Equal(t, defaultOutline, theme.Outline)
	assert.False(t, theme.FixedColors)
	assert.Len(t, theme.Palette, paletteSize)
	require.NotNil(t, theme.Shadow)
}

func TestResolveThemePolicyDisabled(t *testing.T) {
	req := &PresentationRequest{
		PrimaryColor: "#112233",
		Template:     templateWithPolicy(PolicyDisabled, &StyleTokens{Primary: "#445566"}),
	}
	theme := ResolveTheme(req)
	assert.Equal(t, defaultPrimary, theme.Primary)
}

func TestResolveThemePolicyTemplateOnly(t *testing.T) {
	req := &PresentationRequest{
		PrimaryColor: "#112233",
		Template:     templateWithPolicy(PolicyTemplateOnly, &StyleTokens{Primary: "#445566"}),
	}
	theme := ResolveTheme(req)
	assert.Equal(t, "445566", theme.Primary)
	assert.True(t, theme.FixedColors)
}

func TestResolveThemePolicyPreferAIFillsGaps(t *testing.T) {
	req := &PresentationRequest{
		PrimaryColor:   "#112233",
		SecondaryColor: "#778899",
		Template:       templateWithPolicy(PolicyPreferAI, &StyleTokens{Primary: "#445566"}),
	}
	theme := ResolveTheme(req)
	// Template wins where it has a value; the request fills the gap.
	assert.Equal(t, "445566", theme.Primary)
	assert.Equal(t, "778899", theme.Secondary)
	assert.False(t, theme.FixedColors)
}

func TestResolveThemePolicyAIOverride(t *testing.T) {
	req := &PresentationRequest{
		PrimaryColor: "#112233",
		Template:     templateWithPolicy(PolicyAIOverride, &StyleTokens{Primary: "#445566"}),
	}
	theme := ResolveTheme(req)
	assert.Equal(t, "112233", theme.Primary)
	// ai_override clamps the palette to the brand family: every entry
	// stays within a few degrees of one of the seed hues.
	var seedHues []float64
	for _, seed := range []string{theme.Primary, theme.Secondary, theme.Accent} {
		h, _, _ := rgbToHSL(hexChannels(seed))
		seedHues = append(seedHues, h)
	}
	for _, hex := range theme.Palette {
		h, s, _ := rgbToHSL(hexChannels(hex))
		if s == 0 {
			continue
		}
		best := 360.0
		for _, sh := range seedHues {
			diff := sh - h
			if diff < 0 {
				diff = -diff
			}
			if diff > 180 {
				diff = 360 - diff
			}
			if diff < best {
				best = diff
			}
		}
		assert.LessOrEqual(t, best, 7.0, "entry %s off brand", hex)
	}
}

func TestResolveThemeInvalidRequestColorIgnored(t *testing.T) {
	req := &PresentationRequest{PrimaryColor: "definitely-not-a-color"}
	theme := ResolveTheme(req)
	assert.Equal(t, defaultPrimary, theme.Primary)
}

func TestResolveThemeTypographyAndShadow(t *testing.T) {
	req := &PresentationRequest{
		Template: &TemplateConfig{
			Typography: &Typography{TitleFont: "Meiryo", BodyFont: "Yu Gothic"},
			Tokens:     &StyleTokens{Shadow: "none"},
		},
	}
	theme := ResolveTheme(req)
	assert.Equal(t, "Meiryo", theme.TitleFont)
	assert.Equal(t, "Yu Gothic", theme.BodyFont)
	assert.Nil(t, theme.Shadow)
}

func TestPaletteColorCycles(t *testing.T) {
	theme := &ResolvedTheme{Palette: []string{"AAAAAA", "BBBBBB"}}
	assert.Equal(t, "AAAAAA", theme.PaletteColor(0))
	assert.Equal(t, "BBBBBB", theme.PaletteColor(1))
	assert.Equal(t, "AAAAAA", theme.PaletteColor(2))
	assert.Equal(t, "BBBBBB", theme.PaletteColor(-1))
}

func TestPaletteColorEmptyFallsBackToPrimary(t *testing.T) {
	theme := &ResolvedTheme{Primary: "123456"}
	assert.Equal(t, "123456", theme.PaletteColor(3))
}
