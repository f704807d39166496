package godeck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColorForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#1a2b3c", "1A2B3C", true},
		{"1A2B3C", "1A2B3C", true},
		{"#abc", "AABBCC", true},
		{"#1a2b3c80", "1A2B3C", true},
		{"rgb(26, 43, 60)", "1A2B3C", true},
		{"rgba(26,43,60,0.5)", "1A2B3C", true},
		{"transparent", "", false},
		{"none", "", false},
		{"", "", false},
		{"rgb(300,0,0)", "", false},
		{"#12", "", false},
		{"nothex", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeColor(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParseColorWithAlpha(t *testing.T) {
	hex, a, ok := ParseColorWithAlpha("#11223344")
	require.True(t, ok)
	assert.Equal(t, "112233", hex)
	assert.InDelta(t, float64(0x44)/255, a, 1e-9)

	hex, a, ok = ParseColorWithAlpha("rgba(255, 0, 0, 0.25)")
	require.True(t, ok)
	assert.Equal(t, "FF0000", hex)
	assert.InDelta(t, 0.25, a, 1e-9)

	_, a, ok = ParseColorWithAlpha("#336699")
	require.True(t, ok)
	assert.Equal(t, 1.0, a)
}

func TestTextColorForContrast(t *testing.T) {
	assert.Equal(t, ColorBlack, TextColorFor("FFFFFF"))
	assert.Equal(t, ColorWhite, TextColorFor("000000"))
	assert.Equal(t, ColorWhite, TextColorFor("4472C4"))
	// FFFF00 (yellow) has luminance well above the threshold.
	assert.Equal(t, ColorBlack, TextColorFor("FFFF00"))
}

func TestLightenClamps(t *testing.T) {
	assert.Equal(t, "181818", Lighten("000000", 24))
	assert.Equal(t, "FFFFFF", Lighten("F0F0F0", 100))
	assert.Equal(t, "000000", Lighten("101010", -100))
}

func TestBuildPaletteCountAndDistinctness(t *testing.T) {
	p := BuildPalette([]string{"4472C4"}, 12, PaletteBalanced)
	require.Len(t, p, 12)
	seen := map[string]bool{}
	for _, hex := range p {
		require.Len(t, hex, 6)
		seen[hex] = true
	}
	assert.Greater(t, len(seen), 8, "palette entries collapsed: %v", p)
}

func TestBuildPaletteBrandStaysNearSeedHue(t *testing.T) {
	p := BuildPalette([]string{"4472C4"}, 8, PaletteBrand)
	require.Len(t, p, 8)
	seedH, _, _ := rgbToHSL(hexChannels("4472C4"))
	for _, hex := range p {
		h, s, _ := rgbToHSL(hexChannels(hex))
		if s == 0 {
			continue // achromatic entries carry no hue
		}
		diff := seedH - h
		if diff < 0 {
			diff = -diff
		}
		if diff > 180 {
			diff = 360 - diff
		}
		assert.LessOrEqual(t, diff, 7.0, "entry %s drifted %f degrees", hex, diff)
	}
}

func TestBuildPaletteInvalidSeedsFallBack(t *testing.T) {
	p := BuildPalette([]string{"", "oops"}, 3, PaletteBalanced)
	require.Len(t, p, 3)
}

func TestResolveShadowPresets(t *testing.T) {
	sh := ResolveShadow("strong", nil, "soft")
	require.NotNil(t, sh)
	assert.Equal(t, ShadowOuter, sh.Type)
	assert.Equal(t, 0.55, sh.Opacity)

	assert.Nil(t, ResolveShadow("none", nil, "soft"))

	def := ResolveShadow("", nil, "soft")
	require.NotNil(t, def)
	assert.Equal(t, 0.25, def.Opacity)
}

func TestResolveShadowSpecOverrides(t *testing.T) {
	op := 0.8
	sh := ResolveShadow("soft", &ShadowSpec{Color: "#FF0000", Opacity: &op, Type: string(ShadowInner)}, "soft")
	require.NotNil(t, sh)
	assert.Equal(t, ShadowInner, sh.Type)
	assert.Equal(t, 0.8, sh.Opacity)
	assert.Equal(t, "FF0000", sh.Color.Hex())
}

func TestResolveShadowUnknownPresetWithoutSpec(t *testing.T) {
	assert.Nil(t, ResolveShadow("glow", nil, "soft"))
}
