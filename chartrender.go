package godeck

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// ChartRenderer rasterizes a chart to a PNG file and returns its path.
// A failed render degrades to a text placeholder upstream; it never
// aborts the run.
type ChartRenderer interface {
	Render(kind ChartKind, labels []string, values []float64, title string) (string, error)
}

// Candidate font files for chart text, tried in order.
var chartFontCandidates = []string{
	"DejaVuSans.ttf",
	"Arial.ttf",
	"LiberationSans-Regular.ttf",
	"NotoSansCJK-Regular.ttc",
}

// RasterChartRenderer draws bar, pie and line charts with fogleman/gg.
// The chart font is located once via findfont and the parsed font is
// cached; per-size faces are cached on demand.
type RasterChartRenderer struct {
	log *slog.Logger
	// Assets receives every written PNG path; when nil, paths are
	// minted under the system temp directory and the caller tracks
	// them itself.
	Assets *ResourceTracker

	WidthPx  int
	HeightPx int

	mu      sync.Mutex
	scanned bool
	parsed  *truetype.Font
	faces   map[float64]font.Face
}

// NewRasterChartRenderer creates a renderer with default pixel
// dimensions.
func NewRasterChartRenderer(log *slog.Logger) *RasterChartRenderer {
	return &RasterChartRenderer{
		log:      log,
		WidthPx:  800,
		HeightPx: 500,
		faces:    make(map[float64]font.Face),
	}
}

// face returns a cached font face at the given size, or nil when no
// usable font file exists; gg then falls back to its built-in face.
func (r *RasterChartRenderer) face(size float64) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.scanned {
		r.scanned = true
		for _, name := range chartFontCandidates {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			ft, err := truetype.Parse(data)
			if err != nil {
				continue
			}
			r.parsed = ft
			break
		}
		if r.parsed == nil && r.log != nil {
			r.log.Warn("no chart font found, using built-in face")
		}
	}
	if r.parsed == nil {
		return nil
	}
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.parsed, &truetype.Options{Size: size, DPI: 96, Hinting: font.HintingFull})
	r.faces[size] = f
	return f
}

func (r *RasterChartRenderer) setFace(dc *gg.Context, size float64) {
	if f := r.face(size); f != nil {
		dc.SetFontFace(f)
	}
}

// chartPalette is the renderer's own categorical palette; resolved
// theme colors travel through native chart specs, not the rasterizer.
var chartPalette = BuildPalette([]string{defaultPrimary, defaultAccent}, 10, PaletteBalanced)

func setHex(dc *gg.Context, hex string) {
	red, green, blue := hexChannels(hex)
	dc.SetRGB(float64(red)/255, float64(green)/255, float64(blue)/255)
}

// Render draws the chart and writes it to a fresh PNG under the
// system temp directory.
func (r *RasterChartRenderer) Render(kind ChartKind, labels []string, values []float64, title string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("chart has no values")
	}
	dc := gg.NewContext(r.WidthPx, r.HeightPx)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	top := 30.0
	if title != "" {
		r.setFace(dc, 22)
		dc.SetRGB(0.15, 0.15, 0.15)
		dc.DrawStringAnchored(title, float64(r.WidthPx)/2, 24, 0.5, 0.5)
		top = 56
	}
	plot := Rect(60, top, float64(r.WidthPx)-90, float64(r.HeightPx)-top-50)

	switch kind {
	case ChartBar:
		r.drawBars(dc, plot, labels, values)
	case ChartPie:
		r.drawPie(dc, plot, labels, values)
	case ChartLine:
		r.drawLine(dc, plot, labels, values)
	default:
		return "", fmt.Errorf("unsupported chart kind %q", kind)
	}

	tracker := r.Assets
	if tracker == nil {
		tracker = NewResourceTracker()
	}
	path := tracker.TempAssetPath(".png")
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to save chart png: %w", err)
	}
	if r.Assets != nil {
		r.Assets.Track(path)
	}
	return path, nil
}

func (r *RasterChartRenderer) drawBars(dc *gg.Context, plot Region, labels []string, values []float64) {
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	n := len(values)
	slot := plot.W / float64(n)
	barW := slot * 0.6
	r.setFace(dc, 14)
	for i, v := range values {
		h := v / maxVal * (plot.H - 20)
		x := plot.X + float64(i)*slot + (slot-barW)/2
		y := plot.Bottom() - h
		setHex(dc, chartPalette[i%len(chartPalette)])
		dc.DrawRectangle(x, y, barW, h)
		dc.Fill()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(formatChartValue(v), x+barW/2, y-10, 0.5, 0.5)
		if i < len(labels) {
			dc.DrawStringAnchored(labels[i], x+barW/2, plot.Bottom()+18, 0.5, 0.5)
		}
	}
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(1.5)
	dc.DrawLine(plot.X, plot.Bottom(), plot.Right(), plot.Bottom())
	dc.Stroke()
}

func (r *RasterChartRenderer) drawPie(dc *gg.Context, plot Region, labels []string, values []float64) {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		total = 1
	}
	cx, cy := plot.CenterX(), plot.CenterY()
	radius := math.Min(plot.W, plot.H) / 2 * 0.8
	angle := -math.Pi / 2
	r.setFace(dc, 14)
	for i, v := range values {
		if v <= 0 {
			continue
		}
		sweep := v / total * 2 * math.Pi
		setHex(dc, chartPalette[i%len(chartPalette)])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()
		mid := angle + sweep/2
		lx := cx + math.Cos(mid)*radius*1.18
		ly := cy + math.Sin(mid)*radius*1.18
		dc.SetRGB(0.2, 0.2, 0.2)
		label := formatChartValue(v)
		if i < len(labels) {
			label = labels[i] + " " + label
		}
		dc.DrawStringAnchored(label, lx, ly, 0.5, 0.5)
		angle += sweep
	}
}

func (r *RasterChartRenderer) drawLine(dc *gg.Context, plot Region, labels []string, values []float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}
	n := len(values)
	xAt := func(i int) float64 {
		if n == 1 {
			return plot.CenterX()
		}
		return plot.X + float64(i)/float64(n-1)*plot.W
	}
	yAt := func(v float64) float64 {
		return plot.Bottom() - (v-minVal)/(maxVal-minVal)*(plot.H-20)
	}
	setHex(dc, chartPalette[0])
	dc.SetLineWidth(3)
	for i, v := range values {
		if i == 0 {
			dc.MoveTo(xAt(i), yAt(v))
		} else {
			dc.LineTo(xAt(i), yAt(v))
		}
	}
	dc.Stroke()
	r.setFace(dc, 14)
	for i, v := range values {
		setHex(dc, chartPalette[0])
		dc.DrawCircle(xAt(i), yAt(v), 5)
		dc.Fill()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(formatChartValue(v), xAt(i), yAt(v)-16, 0.5, 0.5)
		if i < len(labels) {
			dc.DrawStringAnchored(labels[i], xAt(i), plot.Bottom()+18, 0.5, 0.5)
		}
	}
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(1.5)
	dc.DrawLine(plot.X, plot.Bottom(), plot.Right(), plot.Bottom())
	dc.Stroke()
}

// formatChartValue trims trailing zeros from a value label.
func formatChartValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
