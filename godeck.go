// Package godeck renders structured slide descriptions into a
// presentation document through a template-driven engine: text fitting
// and CJK-aware line breaking, color and theme resolution, layout-area
// resolution with template overrides, template/slide validation, and
// an infographic subsystem turning diagram recipes into positioned
// shapes, text and images.
//
// The engine never manipulates a container format itself; it draws
// into an injected Deck capability and delegates chart rasterization
// and image generation to collaborator interfaces.
package godeck

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// RenderContext is the per-invocation state threaded through every
// drawing call: the resolved theme, the memoizing fitter, collaborator
// capabilities and the page index. One context lives exactly as long
// as one Generate call.
type RenderContext struct {
	Theme    *ResolvedTheme
	Fitter   *Fitter
	Template *TemplateConfig
	Tracker  *ResourceTracker
	Charts   ChartRenderer
	Images   ImageGenerator
	Log      *slog.Logger

	deck       Deck
	PageNo     int // 1-based index of the slide being drawn
	TotalPages int
}

// NativeChart asks the deck to draw a chart natively. ErrUnsupported
// means the caller should fall back to rasterization.
func (rc *RenderContext) NativeChart(rg Region, spec *ChartSpec) error {
	if rc.deck == nil {
		return ErrUnsupported
	}
	return rc.deck.AddNativeChart(rg, spec)
}

// Options configures a Generator. Zero-value fields get working
// defaults: a MemoryDeck, the gg-based chart rasterizer, a disabled
// image generator and slog.Default().
type Options struct {
	Deck      Deck
	Charts    ChartRenderer
	Images    ImageGenerator
	Logger    *slog.Logger
	OutputDir string
	// TempRoots are extra directories cleanup may delete under, in
	// addition to the system temp directory.
	TempRoots []string
}

// Generator produces presentation documents from requests.
type Generator struct {
	opts Options
}

// NewGenerator creates a Generator with the given options.
func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Result is the all-or-nothing outcome of one generation run.
type Result struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath,omitempty"`
	Message  string `json:"message,omitempty"`
	Err      error  `json:"-"`
}

func failure(msg string, err error) Result {
	return Result{Success: false, Message: msg, Err: err}
}

// Generate renders the request into a document. Validation errors
// abort the run before any slide is drawn; per-element failures are
// logged and degraded; only fatal I/O aborts after drawing starts.
// The engine never panics past this boundary.
func (g *Generator) Generate(req *PresentationRequest) (res Result) {
	logger := g.opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("render panicked", "panic", r)
			res = failure(fmt.Sprintf("internal error: %v", r), fmt.Errorf("panic: %v", r))
		}
	}()
	if req == nil || len(req.Slides) == 0 {
		return failure("request has no slides", nil)
	}
	if req.FileName == "" {
		return failure("request is missing fileName", nil)
	}
	if err := ValidateTemplate(req.Template, req.Slides); err != nil {
		logger.Error("template validation failed", "error", err)
		return failure(err.Error(), err)
	}

	deck := g.opts.Deck
	if deck == nil {
		deck = NewMemoryDeck()
	}
	tracker := NewResourceTracker(g.opts.TempRoots...)
	charts := g.opts.Charts
	if charts == nil {
		charts = NewRasterChartRenderer(logger)
	}
	images := g.opts.Images
	if images == nil {
		images = DisabledImageGenerator{}
	}

	rc := &RenderContext{
		Theme:      ResolveTheme(req),
		Fitter:     NewFitter(),
		Template:   req.Template,
		Tracker:    tracker,
		Charts:     charts,
		Images:     images,
		Log:        logger,
		deck:       deck,
		TotalPages: len(req.Slides),
	}

	composer := newSlideComposer(req, rc)
	for i, slide := range req.Slides {
		rc.PageNo = i + 1
		composer.compose(deck, slide)
	}

	outPath := req.FileName
	if g.opts.OutputDir != "" {
		outPath = filepath.Join(g.opts.OutputDir, req.FileName)
	}
	if err := deck.Save(outPath); err != nil {
		logger.Error("failed to write document", "path", outPath, "error", err)
		return failure("failed to write document: "+err.Error(), err)
	}
	// Cleanup runs only after the document is on disk; its failures
	// never change the reported outcome.
	tracker.Cleanup(logger)
	logger.Info("presentation written", "path", outPath, "slides", len(req.Slides))
	return Result{Success: true, FilePath: outPath}
}
