package godeck

import "strings"

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack = Color{ARGB: "FF000000"}
	ColorWhite = Color{ARGB: "FFFFFFFF"}
)

// NewColor creates a new Color from a hex string. Accepts 6-char RGB
// (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000"). A leading "#" is
// stripped automatically. Invalid input falls back to black.
func NewColor(argb string) Color {
	argb = strings.TrimPrefix(argb, "#")
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	argb = strings.ToUpper(argb)
	if !isValidARGB(argb) {
		return Color{ARGB: "FF000000"}
	}
	return Color{ARGB: argb}
}

// Hex returns the 6-character RGB portion of the color.
func (c Color) Hex() string {
	if len(c.ARGB) == 8 {
		return c.ARGB[2:]
	}
	return c.ARGB
}

// GetRed returns the red component (0-255).
func (c Color) GetRed() uint8 { return parseHexByte(c.ARGB, 2) }

// GetGreen returns the green component (0-255).
func (c Color) GetGreen() uint8 { return parseHexByte(c.ARGB, 4) }

// GetBlue returns the blue component (0-255).
func (c Color) GetBlue() uint8 { return parseHexByte(c.ARGB, 6) }

// GetAlpha returns the alpha component (0-255).
func (c Color) GetAlpha() uint8 { return parseHexByte(c.ARGB, 0) }

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// Font represents text font properties.
type Font struct {
	Name   string
	Size   float64 // in points
	Bold   bool
	Italic bool
	Color  Color
}

// NewFont creates a new Font with defaults.
func NewFont() *Font {
	return &Font{
		Name:  "Calibri",
		Size:  14,
		Color: ColorBlack,
	}
}

// SetBold sets the bold property and returns the font for chaining.
func (f *Font) SetBold(bold bool) *Font {
	f.Bold = bold
	return f
}

// SetSize sets the font size in points (clamped to 1–400).
func (f *Font) SetSize(size float64) *Font {
	if size < 1 {
		size = 1
	}
	if size > 400 {
		size = 400
	}
	f.Size = size
	return f
}

// SetColor sets the font color.
func (f *Font) SetColor(color Color) *Font {
	f.Color = color
	return f
}

// SetName sets the font name.
func (f *Font) SetName(name string) *Font {
	f.Name = name
	return f
}

// HorizontalAlignment represents horizontal text alignment.
type HorizontalAlignment string

const (
	AlignLeft   HorizontalAlignment = "l"
	AlignCenter HorizontalAlignment = "ctr"
	AlignRight  HorizontalAlignment = "r"
)

// VerticalAlignment represents vertical text alignment.
type VerticalAlignment string

const (
	AnchorTop    VerticalAlignment = "t"
	AnchorMiddle VerticalAlignment = "ctr"
	AnchorBottom VerticalAlignment = "b"
)

// FillType represents the type of fill.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
	FillGradientLinear
)

// Fill represents a shape fill.
type Fill struct {
	Type     FillType
	Color    Color
	EndColor Color // for gradient fills
	Rotation int   // gradient rotation in degrees
	Opacity  float64
}

// NewFill creates a new Fill with no fill.
func NewFill() *Fill {
	return &Fill{Type: FillNone, Opacity: 1}
}

// SetSolid sets a solid fill.
func (f *Fill) SetSolid(color Color) *Fill {
	f.Type = FillSolid
	f.Color = color
	return f
}

// SetGradientLinear sets a linear gradient fill. Rotation is normalized to 0–359.
func (f *Fill) SetGradientLinear(startColor, endColor Color, rotation int) *Fill {
	f.Type = FillGradientLinear
	f.Color = startColor
	f.EndColor = endColor
	f.Rotation = ((rotation % 360) + 360) % 360
	return f
}

// SolidFill is shorthand for a solid fill of the given color.
func SolidFill(c Color) *Fill {
	return NewFill().SetSolid(c)
}

// BorderStyle represents the border line style.
type BorderStyle string

const (
	BorderNone  BorderStyle = "none"
	BorderSolid BorderStyle = "solid"
	BorderDash  BorderStyle = "dash"
)

// Border represents a shape outline.
type Border struct {
	Style BorderStyle
	Width float64 // in points
	Color Color
}

// NewBorder creates a new Border with no border.
func NewBorder() *Border {
	return &Border{Style: BorderNone}
}

// SolidBorder is shorthand for a solid border.
func SolidBorder(c Color, widthPt float64) *Border {
	return &Border{Style: BorderSolid, Width: widthPt, Color: c}
}

// ShadowType identifies the shadow rendering mode.
type ShadowType string

const (
	ShadowOuter ShadowType = "outer"
	ShadowInner ShadowType = "inner"
)

// Shadow is a normalized shadow specification.
type Shadow struct {
	Type    ShadowType
	Color   Color
	Opacity float64 // 0-1
	Blur    float64 // in points
	Offset  float64 // in points
	Angle   int     // in degrees
}

// SetAngle sets the shadow angle in degrees (normalized to 0–359).
func (s *Shadow) SetAngle(d int) *Shadow {
	s.Angle = ((d % 360) + 360) % 360
	return s
}
