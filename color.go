package godeck

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Color parsing and palette math. All resolver functions speak
// 6-character uppercase hex (no leading "#"); Color values are built
// from those at the primitive boundary.

var (
	rgbFuncRe  = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	rgbaFuncRe = regexp.MustCompile(`^rgba\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*([0-9.]+)\s*\)$`)
)

// NormalizeColor parses #RGB, #RRGGBB, #RRGGBBAA, rgb() and rgba()
// notations into a 6-character uppercase hex string. The alpha channel
// is dropped on this path. Empty input, "transparent", "none" and
// anything unparsable return ok=false.
func NormalizeColor(input string) (string, bool) {
	hex, _, ok := ParseColorWithAlpha(input)
	return hex, ok
}

// ParseColorWithAlpha parses the same surface as NormalizeColor but
// preserves alpha, taken from the AA channel of #RRGGBBAA or the
// fourth rgba() argument. Colors without an alpha component report 1.
func ParseColorWithAlpha(input string) (string, float64, bool) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" || s == "transparent" || s == "none" {
		return "", 0, false
	}
	if m := rgbFuncRe.FindStringSubmatch(s); m != nil {
		r, g, b, ok := rgbTriple(m[1], m[2], m[3])
		if !ok {
			return "", 0, false
		}
		return fmt.Sprintf("%02X%02X%02X", r, g, b), 1, true
	}
	if m := rgbaFuncRe.FindStringSubmatch(s); m != nil {
		r, g, b, ok := rgbTriple(m[1], m[2], m[3])
		if !ok {
			return "", 0, false
		}
		a, err := strconv.ParseFloat(m[4], 64)
		if err != nil || a < 0 || a > 1 {
			return "", 0, false
		}
		return fmt.Sprintf("%02X%02X%02X", r, g, b), a, true
	}
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		var sb strings.Builder
		for i := 0; i < 3; i++ {
			sb.WriteByte(s[i])
			sb.WriteByte(s[i])
		}
		s = sb.String()
	case 6:
	case 8:
		aa := s[6:]
		s = s[:6]
		av, err := strconv.ParseUint(aa, 16, 8)
		if err != nil {
			return "", 0, false
		}
		if !isHex6(strings.ToUpper(s)) {
			return "", 0, false
		}
		return strings.ToUpper(s), float64(av) / 255, true
	default:
		return "", 0, false
	}
	up := strings.ToUpper(s)
	if !isHex6(up) {
		return "", 0, false
	}
	return up, 1, true
}

func rgbTriple(rs, gs, bs string) (int, int, int, bool) {
	r, _ := strconv.Atoi(rs)
	g, _ := strconv.Atoi(gs)
	b, _ := strconv.Atoi(bs)
	if r > 255 || g > 255 || b > 255 {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

func isHex6(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if hexVal(s[i]) < 0 {
			return false
		}
	}
	return true
}

func hexChannels(hex string) (r, g, b int) {
	r = int(parseHexByte("00"+hex, 2))
	g = int(parseHexByte("00"+hex, 4))
	b = int(parseHexByte("00"+hex, 6))
	return
}

// RelativeLuminance computes the WCAG relative luminance of a hex6
// color using sRGB linearization.
func RelativeLuminance(hex string) float64 {
	r, g, b := hexChannels(hex)
	lin := func(c int) float64 {
		v := float64(c) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(r) + 0.7152*lin(g) + 0.0722*lin(b)
}

// TextColorFor picks black or white text for the given background.
// The comparator is strictly ">": a luminance of exactly 0.6 gets
// white text.
func TextColorFor(backgroundHex string) Color {
	if RelativeLuminance(backgroundHex) > 0.6 {
		return ColorBlack
	}
	return ColorWhite
}

// Lighten adds amount to each channel of a hex6 color, clamping to 255.
// Negative amounts darken, clamping to 0.
func Lighten(hex string, amount int) string {
	r, g, b := hexChannels(hex)
	cl := func(c int) int {
		c += amount
		if c > 255 {
			return 255
		}
		if c < 0 {
			return 0
		}
		return c
	}
	return fmt.Sprintf("%02X%02X%02X", cl(r), cl(g), cl(b))
}

// PaletteMode selects the hue distribution strategy for BuildPalette.
type PaletteMode int

const (
	// PaletteBalanced rotates hue by the golden angle per entry for a
	// spread spectrum.
	PaletteBalanced PaletteMode = iota
	// PaletteBrand keeps hue drift within ±6° of the seed so every
	// entry stays inside the brand family.
	PaletteBrand
)

// goldenAngle is the hue step, in degrees, used by PaletteBalanced.
const goldenAngle = 137.508

// BuildPalette generates count categorical colors from the seed
// colors. Invalid seeds are skipped; with no usable seed a neutral
// blue anchors the palette. Lightness and saturation oscillate by
// small per-index deltas so neighboring entries never collapse into
// the same swatch.
func BuildPalette(seeds []string, count int, mode PaletteMode) []string {
	if count <= 0 {
		return nil
	}
	var anchors []string
	for _, s := range seeds {
		if hex, ok := NormalizeColor(s); ok {
			anchors = append(anchors, hex)
		}
	}
	if len(anchors) == 0 {
		anchors = []string{"4472C4"}
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		base := anchors[i%len(anchors)]
		h, s, l := rgbToHSL(hexChannels(base))
		step := i / len(anchors)
		if step > 0 {
			switch mode {
			case PaletteBrand:
				drift := 6.0
				if step%2 == 0 {
					drift = -6.0
				}
				h = math.Mod(h+drift+360, 360)
			default:
				h = math.Mod(h+float64(step)*goldenAngle, 360)
			}
		}
		if i%2 == 1 {
			l += 0.06
			s -= 0.05
		} else if i > 0 {
			l -= 0.04
			s += 0.03
		}
		l = clamp01(l)
		s = clamp01(s)
		r, g, b := hslToRGB(h, s, l)
		out = append(out, fmt.Sprintf("%02X%02X%02X", r, g, b))
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// rgbToHSL converts 0-255 channels to hue (degrees), saturation and
// lightness in [0,1].
func rgbToHSL(r, g, b int) (float64, float64, float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l := (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	var s float64
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	var h float64
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	return h * 60, s, l
}

// hslToRGB converts hue (degrees), saturation and lightness back to
// 0-255 channels.
func hslToRGB(h, s, l float64) (int, int, int) {
	if s == 0 {
		v := int(math.Round(l * 255))
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360
	conv := func(t float64) int {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 1.0/2:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return int(math.Round(v * 255))
	}
	return conv(hk + 1.0/3), conv(hk), conv(hk - 1.0/3)
}

// shadowPresets are the named shadow defaults addressable from style
// tokens and recipe styles.
var shadowPresets = map[string]Shadow{
	"soft":   {Type: ShadowOuter, Color: ColorBlack, Opacity: 0.25, Blur: 4, Offset: 2, Angle: 90},
	"medium": {Type: ShadowOuter, Color: ColorBlack, Opacity: 0.4, Blur: 6, Offset: 3, Angle: 90},
	"strong": {Type: ShadowOuter, Color: ColorBlack, Opacity: 0.55, Blur: 9, Offset: 4, Angle: 90},
	"inner":  {Type: ShadowInner, Color: ColorBlack, Opacity: 0.3, Blur: 5, Offset: 2, Angle: 90},
}

// ShadowSpec is a literal shadow description as it appears in template
// tokens. Zero fields inherit from the resolved preset.
type ShadowSpec struct {
	Type    string   `json:"type" yaml:"type"`
	Color   string   `json:"color" yaml:"color"`
	Opacity *float64 `json:"opacity" yaml:"opacity"`
	Blur    *float64 `json:"blur" yaml:"blur"`
	Offset  *float64 `json:"offset" yaml:"offset"`
	Angle   *int     `json:"angle" yaml:"angle"`
}

// ResolveShadow maps a preset name or literal spec to a normalized
// Shadow. An empty name falls back to defaultPreset; "none" (or an
// unknown preset with no spec) yields nil, meaning no shadow.
func ResolveShadow(name string, spec *ShadowSpec, defaultPreset string) *Shadow {
	if name == "" {
		name = defaultPreset
	}
	if name == "none" {
		return nil
	}
	base, ok := shadowPresets[name]
	if !ok && spec == nil {
		return nil
	}
	if !ok {
		base = shadowPresets["soft"]
	}
	sh := base
	if spec != nil {
		if spec.Type == string(ShadowInner) {
			sh.Type = ShadowInner
		} else if spec.Type == string(ShadowOuter) {
			sh.Type = ShadowOuter
		}
		if hex, ok := NormalizeColor(spec.Color); ok {
			sh.Color = NewColor(hex)
		}
		if spec.Opacity != nil {
			sh.Opacity = clamp01(*spec.Opacity)
		}
		if spec.Blur != nil && *spec.Blur >= 0 {
			sh.Blur = *spec.Blur
		}
		if spec.Offset != nil && *spec.Offset >= 0 {
			sh.Offset = *spec.Offset
		}
		if spec.Angle != nil {
			sh.SetAngle(*spec.Angle)
		}
	}
	return &sh
}
