package godeck

import "math"

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU.

const (
	emuPerInch  = 914400
	emuPerPoint = 12700
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU = math.MaxInt64 / 2
)

// Canvas dimensions of the fixed 16:9 page coordinate space, in inches.
// All regions produced by the engine live inside this rectangle.
const (
	PageWidth  = 13.333
	PageHeight = 7.5
)

// Inch converts inches to EMU. Clamps to safe range.
func Inch(n float64) int64 {
	return clampEMU(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(n * emuPerPoint)
}

// EMUToInch converts EMU to inches.
func EMUToInch(emu int64) float64 {
	return float64(emu) / emuPerInch
}

// EMUToPoint converts EMU to points.
func EMUToPoint(emu int64) float64 {
	return float64(emu) / emuPerPoint
}

// clampEMU converts a float64 to int64, clamping to prevent overflow.
func clampEMU(v float64) int64 {
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}

// Region is an axis-aligned rectangle in page coordinates (inches).
type Region struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is shorthand for constructing a Region.
func Rect(x, y, w, h float64) Region {
	return Region{X: x, Y: y, W: w, H: h}
}

// Right returns the X coordinate of the right edge.
func (r Region) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r Region) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center.
func (r Region) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center.
func (r Region) CenterY() float64 { return r.Y + r.H/2 }

// Inset returns a region shrunk by dx on the left/right and dy on the
// top/bottom. Width and height never go below zero.
func (r Region) Inset(dx, dy float64) Region {
	w := r.W - 2*dx
	h := r.H - 2*dy
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Region{X: r.X + dx, Y: r.Y + dy, W: w, H: h}
}

// Row returns a horizontal slice of the region: the i-th of n equal
// rows separated by gap.
func (r Region) Row(i, n int, gap float64) Region {
	if n < 1 {
		n = 1
	}
	h := (r.H - float64(n-1)*gap) / float64(n)
	return Region{X: r.X, Y: r.Y + float64(i)*(h+gap), W: r.W, H: h}
}

// Col returns a vertical slice of the region: the i-th of n equal
// columns separated by gap.
func (r Region) Col(i, n int, gap float64) Region {
	if n < 1 {
		n = 1
	}
	w := (r.W - float64(n-1)*gap) / float64(n)
	return Region{X: r.X + float64(i)*(w+gap), Y: r.Y, W: w, H: r.H}
}
