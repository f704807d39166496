package godeck

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// Margins and fixed bands of the code-side layout scenes, in inches.
const (
	marginX        = 0.45
	titleBarY      = 0.32
	titleBarH      = 0.78
	bodyTop        = titleBarY + titleBarH + 0.22
	footerH        = 0.34
	rightPanelFrac = 0.42
	bottomBandFrac = 0.46
)

// backgroundPixelW/H are the cover-crop dimensions for background
// images at 16:9.
const (
	backgroundPixelW = 1600
	backgroundPixelH = 900
)

// bodyBackgroundTint is how far body-slide backgrounds blend from
// white toward the theme primary.
const bodyBackgroundTint = 0.04

// slideComposer turns one SlideSpec after another into deck slides. It
// owns the scene composition order: background, layout body, visual,
// branding footer.
type slideComposer struct {
	req      *PresentationRequest
	rc       *RenderContext
	branding *Branding
	rules    *BrandingRules
	year     int
}

func newSlideComposer(req *PresentationRequest, rc *RenderContext) *slideComposer {
	branding := req.Branding
	if branding == nil {
		branding = &Branding{}
	}
	var rules *BrandingRules
	if req.Template != nil {
		rules = req.Template.Branding
	}
	if rules == nil {
		rules = &BrandingRules{}
	}
	return &slideComposer{
		req:      req,
		rc:       rc,
		branding: branding,
		rules:    rules,
		year:     time.Now().Year(),
	}
}

func (c *slideComposer) compose(deck Deck, slide *SlideSpec) {
	deck.AddSlide(slide.Notes)
	c.composeBackground(deck, slide)

	if lt := c.rc.Template.Layout(slide.Layout); lt != nil && len(lt.Elements) > 0 {
		c.composeTemplateElements(deck, slide, lt)
	} else {
		switch slide.Layout {
		case LayoutTitle:
			c.composeTitle(deck, slide)
		case LayoutSectionHeader:
			c.composeSectionHeader(deck, slide)
		case LayoutQuote:
			c.composeQuote(deck, slide)
		case LayoutContentWithVisual:
			c.composeContentWithVisual(deck, slide, false)
		case LayoutContentWithBottomVisual:
			c.composeContentWithVisual(deck, slide, true)
		case LayoutContentWithImage:
			c.composeContentWithImage(deck, slide)
		case LayoutComparisonCards:
			c.composeComparisonCards(deck, slide)
		case LayoutChecklistTopBullets:
			c.composeChecklistTopBullets(deck, slide)
		case LayoutVisualOnly:
			c.composeVisualOnly(deck, slide)
		case LayoutVisualHeroSplit:
			c.composeVisualHeroSplit(deck, slide)
		case LayoutFreeform:
			c.composeFreeform(deck, slide)
		default:
			c.composeContentOnly(deck, slide)
		}
	}
	if len(slide.Elements) > 0 && slide.Layout != LayoutFreeform {
		c.drawElements(deck, slide, slide.Elements)
	}

	c.composeFooter(deck, slide)
}

// composeBackground sets the slide background. The first slide walks a
// fallback chain: a readable request image, then a generated abstract,
// then the flat theme color. Every later slide gets a near-white tint
// of the theme primary.
func (c *slideComposer) composeBackground(deck Deck, slide *SlideSpec) {
	if c.rc.PageNo != 1 {
		deck.SetBackgroundColor(NewColor(blendFromWhite(c.rc.Theme.Primary, bodyBackgroundTint)))
		return
	}
	if path := c.req.TitleBackgroundImage; path != "" {
		if cropped, err := c.coverCrop(path); err == nil {
			if deck.SetBackgroundImage(cropped) == nil {
				return
			}
		} else {
			c.rc.Log.Warn("title background unusable", "path", path, "error", err)
		}
	}
	if img := c.rc.Images.Generate(
		"abstract gradient background, corporate, subtle geometry, color #"+c.rc.Theme.Primary,
		"text, letters, logos, people", "16:9"); img.Success {
		if deck.SetBackgroundImage(img.Path) == nil {
			c.rc.Tracker.Track(img.Path)
			return
		}
	}
	deck.SetBackgroundColor(NewColor(c.rc.Theme.Primary))
}

// coverCrop scales and center-crops an image to the 16:9 background
// size and writes the result to a tracked temp file.
func (c *slideComposer) coverCrop(path string) (string, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	filled := imaging.Fill(src, backgroundPixelW, backgroundPixelH, imaging.Center, imaging.Lanczos)
	out := c.rc.Tracker.TempAssetPath(".png")
	if err := imaging.Save(filled, out); err != nil {
		return "", fmt.Errorf("failed to save cropped image: %w", err)
	}
	c.rc.Tracker.Track(out)
	return out, nil
}

// --- template-driven composition ---

func (c *slideComposer) composeTemplateElements(deck Deck, slide *SlideSpec, lt *LayoutTemplate) {
	c.drawElements(deck, slide, lt.Elements)
}

func (c *slideComposer) drawElements(deck Deck, slide *SlideSpec, elems []*TemplateElement) {
	body := Rect(marginX, bodyTop, PageWidth-2*marginX, PageHeight-bodyTop-footerH)
	for _, el := range elems {
		if el == nil {
			continue
		}
		rg := ResolveArea(c.rc.Template, slide.Layout, el.Area, body)
		switch el.Type {
		case ElementShape:
			c.drawShapeElement(deck, el, rg)
		case ElementText:
			c.drawTextElement(deck, slide, el, rg)
		case ElementImage:
			if path, ok := ResolveContentRef(slide, el.ContentRef); ok && path != "" {
				deck.Add(ImagePrimitive{Region: rg, Path: path})
			}
		case ElementTable:
			c.drawOverviewTable(deck, rg)
		case ElementVisual:
			if slide.HasVisual() {
				c.drawVisual(deck, slide, rg)
			}
		default:
			c.rc.Log.Warn("unknown template element type skipped", "type", el.Type)
		}
	}
}

// elementColor resolves an element's color: its style reference first,
// then its literal color, then the theme primary.
func (c *slideComposer) elementColor(el *TemplateElement) string {
	if hexStr, ok := c.rc.Template.ResolveStyleRef(el.StyleRef); ok {
		if hex, valid := NormalizeColor(hexStr); valid {
			return hex
		}
	}
	if hex, ok := NormalizeColor(el.Color); ok {
		return hex
	}
	return c.rc.Theme.Primary
}

func (c *slideComposer) drawShapeElement(deck Deck, el *TemplateElement, rg Region) {
	shape := AutoShapeKind(el.Shape)
	if shape == "" {
		shape = ShapeRect
	}
	deck.Add(box(rg, shape, c.elementColor(el), c.rc))
}

func (c *slideComposer) drawTextElement(deck Deck, slide *SlideSpec, el *TemplateElement, rg Region) {
	content := el.Text
	if v, ok := ResolveContentRef(slide, el.ContentRef); ok {
		content = v
	}
	if content == "" {
		return
	}
	fit := c.rc.Fitter.FitToLines(content, FitOptions{
		InitialSize: 16, MinSize: 10,
		BaseCols: colsFor(rg.W, 16), MaxLines: 4,
	})
	f := bodyFont(c.rc, fit.FontSize).SetColor(NewColor(c.elementColor(el)))
	deck.Add(text(rg, fit.Text, f, AlignLeft, AnchorTop))
}

// --- code-side layout scenes ---

func (c *slideComposer) composeTitle(deck Deck, slide *SlideSpec) {
	onImage := c.rc.PageNo == 1
	titleColor := ColorWhite
	if !onImage {
		titleColor = NewColor(c.rc.Theme.Primary)
	}
	fit := c.rc.Fitter.FitToLines(slide.Title, FitOptions{
		InitialSize: 40, MinSize: 26, BaseCols: 18, MaxLines: 2,
	})
	titleRg := Rect(marginX+0.4, PageHeight*0.32, PageWidth-2*(marginX+0.4), 1.7)
	deck.Add(text(titleRg, fit.Text, titleFont(c.rc, fit.FontSize).SetColor(titleColor), AlignCenter, AnchorMiddle))

	sub := slide.SpecialContent
	if sub == "" && len(slide.Bullets) > 0 {
		sub = strings.Join(slide.Bullets, "　")
	}
	if sub != "" {
		sf := c.rc.Fitter.FitToLines(sub, FitOptions{InitialSize: 18, MinSize: 12, BaseCols: 32, MaxLines: 2})
		subRg := Rect(titleRg.X, titleRg.Bottom()+0.15, titleRg.W, 0.8)
		deck.Add(text(subRg, sf.Text, bodyFont(c.rc, sf.FontSize).SetColor(titleColor), AlignCenter, AnchorTop))
	}
	if c.branding.CompanyName != "" {
		nameRg := Rect(marginX, PageHeight-1.0, PageWidth-2*marginX, 0.4)
		deck.Add(text(nameRg, c.branding.CompanyName, bodyFont(c.rc, 14).SetColor(titleColor), AlignCenter, AnchorMiddle))
	}
}

func (c *slideComposer) composeSectionHeader(deck Deck, slide *SlideSpec) {
	barColor := ResolveTitleBarColor(c.rc.Template, c.rc.Theme, slide.Layout, slide.AccentColor)
	deck.Add(ShapePrimitive{
		Region: Rect(marginX, PageHeight*0.38, 0.12, 1.5),
		Shape:  ShapeRect,
		Fill:   SolidFill(NewColor(barColor)),
	})
	fit := c.rc.Fitter.FitToLines(slide.Title, FitOptions{
		InitialSize: 34, MinSize: 22, BaseCols: 20, MaxLines: 2,
	})
	titleRg := Rect(marginX+0.35, PageHeight*0.38, PageWidth-2*marginX-0.35, 1.5)
	deck.Add(text(titleRg, fit.Text, titleFont(c.rc, fit.FontSize).SetColor(NewColor(c.rc.Theme.Primary)), AlignLeft, AnchorMiddle))
	if len(slide.Bullets) > 0 {
		sf := c.rc.Fitter.FitToLines(strings.Join(slide.Bullets, "　"), FitOptions{InitialSize: 14, MinSize: 11, BaseCols: 40, MaxLines: 2})
		deck.Add(text(Rect(titleRg.X, titleRg.Bottom()+0.1, titleRg.W, 0.7), sf.Text, bodyFont(c.rc, sf.FontSize), AlignLeft, AnchorTop))
	}
}

func (c *slideComposer) composeQuote(deck Deck, slide *SlideSpec) {
	body := slide.SpecialContent
	if body == "" {
		body = slide.Title
	}
	lines := c.rc.Fitter.FormatQuoteLines(body, 22)
	deck.Add(text(Rect(marginX+0.5, PageHeight*0.16, 1.0, 1.0), "“",
		titleFont(c.rc, 96).SetColor(NewColor(Lighten(c.rc.Theme.Primary, 90))), AlignLeft, AnchorTop))
	quoteRg := Rect(marginX+1.0, PageHeight*0.3, PageWidth-2*(marginX+1.0), PageHeight*0.38)
	deck.Add(TextPrimitive{
		Region:      quoteRg,
		Text:        strings.Join(lines, "\n"),
		Font:        titleFont(c.rc, 24),
		Align:       AlignCenter,
		Anchor:      AnchorMiddle,
		LineSpacing: 1.4,
	})
	// Attribution comes from the first bullet when present.
	if len(slide.Bullets) > 0 {
		attrRg := Rect(quoteRg.X, quoteRg.Bottom()+0.2, quoteRg.W, 0.4)
		deck.Add(text(attrRg, "— "+slide.Bullets[0], bodyFont(c.rc, 14), AlignRight, AnchorTop))
	}
}

// composeTitleBar draws the standard content-slide title bar and
// returns the body region under it.
func (c *slideComposer) composeTitleBar(deck Deck, slide *SlideSpec) Region {
	barColor := ResolveTitleBarColor(c.rc.Template, c.rc.Theme, slide.Layout, slide.AccentColor)
	bar := ResolveArea(c.rc.Template, slide.Layout, "titleBar",
		Rect(marginX, titleBarY, PageWidth-2*marginX, titleBarH))
	deck.Add(ShapePrimitive{
		Region:       bar,
		Shape:        ShapeRound,
		Fill:         SolidFill(NewColor(barColor)),
		CornerRadius: c.rc.Theme.CornerRadius,
	})
	fit := c.rc.Fitter.FitToLines(slide.Title, FitOptions{
		InitialSize: 32, MinSize: 20, BaseCols: 22, MaxLines: 1,
	})
	deck.Add(text(bar.Inset(0.2, 0), fit.Text,
		titleFont(c.rc, fit.FontSize).SetColor(TextColorFor(barColor)), AlignLeft, AnchorMiddle))
	return ResolveArea(c.rc.Template, slide.Layout, "body",
		Rect(marginX, bar.Bottom()+0.22, PageWidth-2*marginX, PageHeight-bar.Bottom()-0.22-footerH))
}

// drawBullets renders the bullet block into rg: quoted continuations
// merged, colon bullets aligned, leading punctuation suppressed, bold
// markup split into segments.
func (c *slideComposer) drawBullets(deck Deck, bullets []string, rg Region) {
	merged := MergeQuotedContinuations(bullets)
	if len(merged) == 0 {
		return
	}
	baseCols := colsFor(rg.W, 16)
	gap := c.rc.Theme.SpacingUnit * 0.4
	for i, b := range merged {
		row := rg.Row(i, len(merged), gap)
		formatted := c.rc.Fitter.FormatColonBullet(b, baseCols-2, 4)
		formatted = PreventLeadingPunctuation(formatted)
		fit := c.rc.Fitter.FitToLines(formatted, FitOptions{
			InitialSize: 16, MinSize: 11, BaseCols: baseCols, MaxLines: 3,
		})
		p := TextPrimitive{
			Region: row,
			Text:   "・" + fit.Text,
			Font:   bodyFont(c.rc, fit.FontSize),
			Align:  AlignLeft,
			Anchor: AnchorMiddle,
		}
		if segs := SplitBoldRuns(p.Text); len(segs) > 1 {
			p.Segments = segs
		}
		deck.Add(p)
	}
}

func (c *slideComposer) drawVisual(deck Deck, slide *SlideSpec, rg Region) {
	if !slide.VisualRecipe.Drawable() {
		c.rc.Log.Warn("visual recipe not drawable", "kind", slide.VisualRecipe.Kind, "page", c.rc.PageNo)
		return
	}
	for _, p := range slide.VisualRecipe.Draw(rg, c.rc) {
		deck.Add(p)
	}
}

func (c *slideComposer) composeContentOnly(deck Deck, slide *SlideSpec) {
	body := c.composeTitleBar(deck, slide)
	c.drawBullets(deck, slide.Bullets, body.Inset(0.1, 0.1))
}

func (c *slideComposer) composeContentWithVisual(deck Deck, slide *SlideSpec, forceBottom bool) {
	body := c.composeTitleBar(deck, slide)
	if !slide.HasVisual() {
		c.drawBullets(deck, slide.Bullets, body.Inset(0.1, 0.1))
		return
	}
	if forceBottom || WantsBottomBand(slide.VisualRecipe) {
		bandH := body.H * bottomBandFrac
		c.drawBullets(deck, slide.Bullets, Rect(body.X+0.1, body.Y+0.05, body.W-0.2, body.H-bandH-0.15))
		c.drawVisual(deck, slide, Rect(body.X, body.Bottom()-bandH, body.W, bandH))
		return
	}
	panelW := body.W * rightPanelFrac
	c.drawBullets(deck, slide.Bullets, Rect(body.X+0.1, body.Y+0.05, body.W-panelW-0.3, body.H-0.1))
	c.drawVisual(deck, slide, Rect(body.Right()-panelW, body.Y, panelW, body.H))
}

func (c *slideComposer) composeContentWithImage(deck Deck, slide *SlideSpec) {
	body := c.composeTitleBar(deck, slide)
	imgW := body.W * 0.44
	c.drawBullets(deck, slide.Bullets, Rect(body.X+0.1, body.Y+0.05, body.W-imgW-0.3, body.H-0.1))
	imgRg := Rect(body.Right()-imgW, body.Y, imgW, body.H)
	if slide.ImagePath != "" {
		if _, err := os.Stat(slide.ImagePath); err == nil {
			deck.Add(ImagePrimitive{Region: imgRg, Path: slide.ImagePath, Description: slide.Title})
			return
		}
		c.rc.Log.Warn("slide image missing", "path", slide.ImagePath, "page", c.rc.PageNo)
	}
	for _, p := range placeholder(imgRg.Inset(0.1, 0.1), "image", c.rc) {
		deck.Add(p)
	}
}

func (c *slideComposer) composeComparisonCards(deck Deck, slide *SlideSpec) {
	body := c.composeTitleBar(deck, slide)
	if slide.HasVisual() {
		c.drawVisual(deck, slide, body)
		return
	}
	// Without a recipe, bullets alternate across the two cards.
	var a, b CompareSide
	for i, blt := range slide.Bullets {
		if i%2 == 0 {
			a.Points = append(a.Points, blt)
		} else {
			b.Points = append(b.Points, blt)
		}
	}
	rec := &ComparisonRecipe{A: a, B: b}
	for _, p := range rec.draw(body, c.rc) {
		deck.Add(p)
	}
}

func (c *slideComposer) composeChecklistTopBullets(deck Deck, slide *SlideSpec) {
	body := c.composeTitleBar(deck, slide)
	if !slide.HasVisual() {
		c.drawBullets(deck, slide.Bullets, body.Inset(0.1, 0.1))
		return
	}
	top := Rect(body.X, body.Y, body.W, body.H*0.55)
	bottom := Rect(body.X, top.Bottom()+0.1, body.W, body.H-top.H-0.1)
	c.drawVisual(deck, slide, top)
	c.drawBullets(deck, slide.Bullets, bottom.Inset(0.1, 0.05))
}

func (c *slideComposer) composeVisualOnly(deck Deck, slide *SlideSpec) {
	body := c.composeTitleBar(deck, slide)
	if slide.HasVisual() {
		c.drawVisual(deck, slide, body)
		return
	}
	for _, p := range placeholder(body.Inset(0.3, 0.3), "no visual", c.rc) {
		deck.Add(p)
	}
}

func (c *slideComposer) composeVisualHeroSplit(deck Deck, slide *SlideSpec) {
	heroW := PageWidth * 0.55
	hero := Rect(0, 0, heroW, PageHeight)
	side := Rect(heroW+0.3, 0.6, PageWidth-heroW-0.3-marginX, PageHeight-1.2)

	deck.Add(ShapePrimitive{
		Region: hero,
		Shape:  ShapeRect,
		Fill:   SolidFill(NewColor(Lighten(c.rc.Theme.Primary, 105))),
	})
	if slide.HasVisual() {
		c.drawVisual(deck, slide, hero.Inset(0.4, 0.5))
	} else if slide.ImagePath != "" {
		deck.Add(ImagePrimitive{Region: hero, Path: slide.ImagePath})
	}

	fit := c.rc.Fitter.FitToLines(slide.Title, FitOptions{
		InitialSize: 28, MinSize: 18, BaseCols: 12, MaxLines: 3,
	})
	deck.Add(text(Rect(side.X, side.Y, side.W, 1.4), fit.Text,
		titleFont(c.rc, fit.FontSize).SetColor(NewColor(c.rc.Theme.Primary)), AlignLeft, AnchorTop))
	c.drawBullets(deck, slide.Bullets, Rect(side.X, side.Y+1.6, side.W, side.H-1.6))
}

func (c *slideComposer) composeFreeform(deck Deck, slide *SlideSpec) {
	if slide.Title != "" {
		c.composeTitleBar(deck, slide)
	}
	if len(slide.Elements) > 0 {
		c.drawElements(deck, slide, slide.Elements)
	}
	if slide.SpecialContent == "company_overview" && len(c.branding.CompanyOverview) > 0 {
		body := Rect(marginX+0.6, bodyTop+0.1, PageWidth-2*(marginX+0.6), PageHeight-bodyTop-footerH-0.3)
		c.drawOverviewTable(deck, body)
	}
}

// drawOverviewTable renders the branding company record as a two-column
// table.
func (c *slideComposer) drawOverviewTable(deck Deck, rg Region) {
	rows := make([][]string, 0, len(c.branding.CompanyOverview))
	for _, r := range c.branding.CompanyOverview {
		rows = append(rows, []string{r.Label, r.Value})
	}
	if len(rows) == 0 {
		return
	}
	deck.Add(TablePrimitive{
		Region:     rg,
		Rows:       rows,
		HeaderFill: SolidFill(NewColor(c.rc.Theme.Primary)),
		CellFont:   bodyFont(c.rc, 13),
		Border:     SolidBorder(NewColor(c.rc.Theme.Outline), 0.75),
	})
}

// --- branding footer ---

// substituteTokens expands <companyName>, <year> and <pageNo> in a
// branding format string.
func (c *slideComposer) substituteTokens(format string) string {
	s := strings.ReplaceAll(format, "<companyName>", c.branding.CompanyName)
	s = strings.ReplaceAll(s, "<year>", fmt.Sprintf("%d", c.year))
	s = strings.ReplaceAll(s, "<pageNo>", fmt.Sprintf("%d", c.rc.PageNo))
	return s
}

func (c *slideComposer) copyrightLine() string {
	if c.branding.CopyrightText != "" {
		return c.branding.CopyrightText
	}
	format := c.rules.CopyrightFormat
	if format == "" {
		format = c.branding.CopyrightFormat
	}
	if format == "" {
		if c.branding.CompanyName == "" {
			return ""
		}
		format = "© <year> <companyName>"
	}
	return c.substituteTokens(format)
}

// composeFooter draws the copyright line, page number and logo, each
// independently skippable on the title slide.
func (c *slideComposer) composeFooter(deck Deck, slide *SlideSpec) {
	isTitle := slide.Layout == LayoutTitle
	bottom := PageHeight - footerH
	if c.rules.BottomMargin != nil {
		bottom = PageHeight - *c.rules.BottomMargin
	}
	footColor := NewColor("808080")
	if isTitle && c.rc.PageNo == 1 {
		footColor = ColorWhite
	}

	if line := c.copyrightLine(); line != "" && !(isTitle && c.rules.CopyrightSkipTitle) {
		deck.Add(text(Rect(marginX, bottom, PageWidth-2*marginX, footerH), line,
			bodyFont(c.rc, 9).SetColor(footColor), AlignCenter, AnchorMiddle))
	}
	if !(isTitle && c.rules.PageNumberSkipTitle) {
		format := c.rules.PageNumberFormat
		if format == "" {
			format = "<pageNo>"
		}
		deck.Add(text(Rect(PageWidth-marginX-0.8, bottom, 0.8, footerH), c.substituteTokens(format),
			bodyFont(c.rc, 9).SetColor(footColor), AlignRight, AnchorMiddle))
	}
	if c.branding.LogoPath != "" && !(isTitle && c.rules.LogoSkipTitle) {
		if _, err := os.Stat(c.branding.LogoPath); err == nil {
			deck.Add(ImagePrimitive{
				Region: Rect(marginX, bottom-0.02, 0.9, footerH),
				Path:   c.branding.LogoPath,
			})
		}
	}
}

// colsFor estimates how many full-width columns of text at the given
// point size fit across w inches.
func colsFor(w, size float64) int {
	cols := int(w * 72 / size)
	if cols < 4 {
		cols = 4
	}
	return cols
}
