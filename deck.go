package godeck

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnsupported is returned by optional deck capabilities the backing
// implementation does not provide.
var ErrUnsupported = errors.New("deck: capability not supported")

// Primitive is one drawing instruction in page coordinates. The engine
// only ever talks to the authoring collaborator in primitives; it
// never touches a container format.
type Primitive interface {
	primitiveKind() string
}

// TextPrimitive places (possibly multi-line) text in a region.
type TextPrimitive struct {
	Region      Region              `json:"region"`
	Text        string              `json:"text"`
	Font        *Font               `json:"font"`
	Align       HorizontalAlignment `json:"align"`
	Anchor      VerticalAlignment   `json:"anchor"`
	Segments    []TextSegment       `json:"segments,omitempty"`
	LineSpacing float64             `json:"lineSpacing,omitempty"`
}

func (TextPrimitive) primitiveKind() string { return "text" }

// AutoShapeKind names the preset geometry of a shape primitive.
type AutoShapeKind string

const (
	ShapeRect      AutoShapeKind = "rect"
	ShapeRound     AutoShapeKind = "roundRect"
	ShapeEllipse   AutoShapeKind = "ellipse"
	ShapePieWedge  AutoShapeKind = "pie"
	ShapeChevron   AutoShapeKind = "chevron"
	ShapeTriangle  AutoShapeKind = "triangle"
	ShapeDiamond   AutoShapeKind = "diamond"
	ShapeTrapezoid AutoShapeKind = "trapezoid"
	ShapeCallout   AutoShapeKind = "wedgeRoundRectCallout"
	ShapeHomePlate AutoShapeKind = "homePlate"
)

// ShapePrimitive places a filled auto shape, optionally carrying text.
// StartAngle/SweepAngle apply to pie wedges only, in degrees measured
// clockwise from 12 o'clock.
type ShapePrimitive struct {
	Region       Region        `json:"region"`
	Shape        AutoShapeKind `json:"shape"`
	Fill         *Fill         `json:"fill,omitempty"`
	Border       *Border       `json:"border,omitempty"`
	Shadow       *Shadow       `json:"shadow,omitempty"`
	CornerRadius float64       `json:"cornerRadius,omitempty"`
	StartAngle   float64       `json:"startAngle,omitempty"`
	SweepAngle   float64       `json:"sweepAngle,omitempty"`
	Text         string        `json:"text,omitempty"`
	TextFont     *Font         `json:"textFont,omitempty"`
	Rotation     int           `json:"rotation,omitempty"`
}

func (ShapePrimitive) primitiveKind() string { return "shape" }

// LinePrimitive places a straight line segment.
type LinePrimitive struct {
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Color   Color   `json:"color"`
	WidthPt float64 `json:"widthPt"`
	Dashed  bool    `json:"dashed,omitempty"`
}

func (LinePrimitive) primitiveKind() string { return "line" }

// ImagePrimitive places an image file.
type ImagePrimitive struct {
	Region      Region `json:"region"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

func (ImagePrimitive) primitiveKind() string { return "image" }

// TablePrimitive places a simple data table.
type TablePrimitive struct {
	Region     Region     `json:"region"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
	HeaderFill *Fill      `json:"headerFill,omitempty"`
	HeaderFont *Font      `json:"headerFont,omitempty"`
	CellFont   *Font      `json:"cellFont,omitempty"`
	Border     *Border    `json:"border,omitempty"`
}

func (TablePrimitive) primitiveKind() string { return "table" }

// ChartPrimitive places a natively drawn chart.
type ChartPrimitive struct {
	Region Region     `json:"region"`
	Spec   *ChartSpec `json:"spec"`
}

func (ChartPrimitive) primitiveKind() string { return "chart" }

// Deck is the presentation-authoring capability the engine renders
// into. Implementations own the container format; the engine only
// appends slides and primitives and finally asks for the document to
// be written.
type Deck interface {
	// AddSlide appends a slide and makes it current.
	AddSlide(notes string)
	// SetBackgroundColor sets the current slide's background fill.
	SetBackgroundColor(c Color)
	// SetBackgroundImage sets the current slide's background image.
	SetBackgroundImage(path string) error
	// Add appends a primitive to the current slide.
	Add(p Primitive)
	// AddNativeChart draws a chart natively if the backing format
	// supports it; otherwise it returns ErrUnsupported.
	AddNativeChart(rg Region, spec *ChartSpec) error
	// Save writes the finished document to path.
	Save(path string) error
	// SlideCount returns the number of slides added so far.
	SlideCount() int
}

// MemorySlide is one recorded slide of a MemoryDeck.
type MemorySlide struct {
	BackgroundColor *Color      `json:"backgroundColor,omitempty"`
	BackgroundImage string      `json:"backgroundImage,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	Primitives      []Primitive `json:"-"`
}

// MarshalJSON emits primitives with an explicit kind tag.
func (s *MemorySlide) MarshalJSON() ([]byte, error) {
	type alias MemorySlide
	prims := make([]map[string]any, 0, len(s.Primitives))
	for _, p := range s.Primitives {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		m := map[string]any{}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		m["kind"] = p.primitiveKind()
		prims = append(prims, m)
	}
	return json.Marshal(struct {
		*alias
		Primitives []map[string]any `json:"primitives"`
	}{(*alias)(s), prims})
}

// MemoryDeck records slides and primitives in memory and saves them as
// a JSON document. It is the deterministic default backend used by
// tests and the CLI; container-format writers live outside this
// module.
type MemoryDeck struct {
	Slides []*MemorySlide
	// DisableNativeCharts makes AddNativeChart report ErrUnsupported,
	// forcing callers onto their raster fallbacks.
	DisableNativeCharts bool
}

// NewMemoryDeck creates an empty MemoryDeck.
func NewMemoryDeck() *MemoryDeck {
	return &MemoryDeck{}
}

func (d *MemoryDeck) current() *MemorySlide {
	if len(d.Slides) == 0 {
		d.AddSlide("")
	}
	return d.Slides[len(d.Slides)-1]
}

// AddSlide appends a slide and makes it current.
func (d *MemoryDeck) AddSlide(notes string) {
	d.Slides = append(d.Slides, &MemorySlide{Notes: notes})
}

// SetBackgroundColor sets the current slide's background fill.
func (d *MemoryDeck) SetBackgroundColor(c Color) {
	d.current().BackgroundColor = &c
}

// SetBackgroundImage sets the current slide's background image path.
func (d *MemoryDeck) SetBackgroundImage(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("background image unreadable: %w", err)
	}
	d.current().BackgroundImage = path
	return nil
}

// Add appends a primitive to the current slide.
func (d *MemoryDeck) Add(p Primitive) {
	s := d.current()
	s.Primitives = append(s.Primitives, p)
}

// AddNativeChart records the chart as a primitive unless native charts
// are disabled.
func (d *MemoryDeck) AddNativeChart(rg Region, spec *ChartSpec) error {
	if d.DisableNativeCharts {
		return ErrUnsupported
	}
	d.Add(ChartPrimitive{Region: rg, Spec: spec})
	return nil
}

// SlideCount returns the number of slides added so far.
func (d *MemoryDeck) SlideCount() int { return len(d.Slides) }

// Save writes the recorded document as indented JSON.
func (d *MemoryDeck) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(struct {
		Slides []*MemorySlide `json:"slides"`
	}{d.Slides}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	return nil
}
