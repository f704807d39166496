package godeck

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TemplateConfig is the typed template tree: per-layout geometry and
// elements plus global tokens, typography, branding and color rules.
// Every field is optional; absent values fall back to code-side
// defaults at resolution time.
type TemplateConfig struct {
	Layouts    map[string]*LayoutTemplate `yaml:"layouts" json:"layouts"`
	Regions    map[string]*AreaGeometry   `yaml:"regions" json:"regions"`
	Tokens     *StyleTokens               `yaml:"tokens" json:"tokens"`
	Typography *Typography                `yaml:"typography" json:"typography"`
	Branding   *BrandingRules             `yaml:"branding" json:"branding"`
	Rules      *ColorRules                `yaml:"rules" json:"rules"`
}

// LayoutTemplate describes one layout kind: its named areas and the
// ordered elements drawn for slides using it.
type LayoutTemplate struct {
	Areas         map[string]*AreaGeometry `yaml:"areas" json:"areas"`
	Elements      []*TemplateElement       `yaml:"elements" json:"elements"`
	TitleBarColor string                   `yaml:"titleBarColor" json:"titleBarColor"`
}

// AreaGeometry is a rectangle with optional fields; Ref names a global
// region whose width/height are inherited unless overridden here.
type AreaGeometry struct {
	Ref string   `yaml:"ref" json:"ref"`
	X   *float64 `yaml:"x" json:"x"`
	Y   *float64 `yaml:"y" json:"y"`
	W   *float64 `yaml:"w" json:"w"`
	H   *float64 `yaml:"h" json:"h"`
}

// ElementType enumerates drawable template element types.
type ElementType string

const (
	ElementShape  ElementType = "shape"
	ElementText   ElementType = "text"
	ElementImage  ElementType = "image"
	ElementTable  ElementType = "table"
	ElementVisual ElementType = "visual"
)

// TemplateElement is one drawable entry of a layout. ContentRef and
// StyleRef are dot paths resolved against the slide and tokens.
type TemplateElement struct {
	Type       ElementType `yaml:"type" json:"type"`
	Area       string      `yaml:"area" json:"area"`
	ContentRef string      `yaml:"contentRef" json:"contentRef"`
	StyleRef   string      `yaml:"styleRef" json:"styleRef"`
	Shape      string      `yaml:"shape" json:"shape"`
	Text       string      `yaml:"text" json:"text"`
	Color      string      `yaml:"color" json:"color"`
}

// StyleTokens are the theme-level visual defaults.
type StyleTokens struct {
	Primary      string      `yaml:"primary" json:"primary"`
	Secondary    string      `yaml:"secondary" json:"secondary"`
	Accent       string      `yaml:"accent" json:"accent"`
	Outline      string      `yaml:"outline" json:"outline"`
	CornerRadius *float64    `yaml:"cornerRadius" json:"cornerRadius"`
	SpacingUnit  *float64    `yaml:"spacingUnit" json:"spacingUnit"`
	Shadow       string      `yaml:"shadow" json:"shadow"`
	ShadowSpec   *ShadowSpec `yaml:"shadowSpec" json:"shadowSpec"`
}

// Typography maps text roles to font families.
type Typography struct {
	TitleFont string `yaml:"titleFont" json:"titleFont"`
	BodyFont  string `yaml:"bodyFont" json:"bodyFont"`
}

// BrandingRules control the copyright line, page number and logo.
// Format strings may contain <companyName>, <year> and <pageNo>
// substitution tokens.
type BrandingRules struct {
	CopyrightFormat     string   `yaml:"copyrightFormat" json:"copyrightFormat"`
	CopyrightSkipTitle  bool     `yaml:"copyrightSkipTitle" json:"copyrightSkipTitle"`
	PageNumberFormat    string   `yaml:"pageNumberFormat" json:"pageNumberFormat"`
	PageNumberSkipTitle bool     `yaml:"pageNumberSkipTitle" json:"pageNumberSkipTitle"`
	LogoSkipTitle       bool     `yaml:"logoSkipTitle" json:"logoSkipTitle"`
	BottomMargin        *float64 `yaml:"bottomMargin" json:"bottomMargin"`
}

// ColorPolicy selects how request-supplied (AI-suggested) colors and
// template tokens reconcile. The policy is consulted exactly once, in
// ResolveTheme.
type ColorPolicy string

const (
	// PolicyTemplateOnly ignores request colors entirely.
	PolicyTemplateOnly ColorPolicy = "template_only"
	// PolicyPreferAI lets request colors fill slots the template
	// leaves empty.
	PolicyPreferAI ColorPolicy = "prefer_ai"
	// PolicyAIOverride lets request colors win over template tokens;
	// palette hue drift is clamped to the brand family.
	PolicyAIOverride ColorPolicy = "ai_override"
	// PolicyDisabled uses built-in defaults only.
	PolicyDisabled ColorPolicy = "disabled"
)

// ColorRules hold the color policy and palette strategy.
type ColorRules struct {
	Policy  ColorPolicy `yaml:"policy" json:"policy"`
	Palette string      `yaml:"palette" json:"palette"` // "balanced" or "brand"
}

// LoadTemplateConfig reads a template from a YAML (or JSON, which YAML
// subsumes) file.
func LoadTemplateConfig(path string) (*TemplateConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template config: %w", err)
	}
	return ParseTemplateConfig(data)
}

// ParseTemplateConfig parses template YAML bytes.
func ParseTemplateConfig(data []byte) (*TemplateConfig, error) {
	var tc TemplateConfig
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("failed to parse template config: %w", err)
	}
	return &tc, nil
}

// Layout returns the layout template for the given kind, or nil.
func (tc *TemplateConfig) Layout(kind LayoutKind) *LayoutTemplate {
	if tc == nil || tc.Layouts == nil {
		return nil
	}
	return tc.Layouts[string(kind)]
}

// tokens returns the style tokens, never nil.
func (tc *TemplateConfig) tokens() *StyleTokens {
	if tc == nil || tc.Tokens == nil {
		return &StyleTokens{}
	}
	return tc.Tokens
}

// ResolveContentRef resolves a template element's dot-path content
// reference against a slide. Supported roots: "title", "notes",
// "special", "imagePath", "bullets" (joined), "bullets.N", and
// "fields.<key>" into the slide's freeform field map. This is the one
// place genuine dynamic lookup happens; everything else in the
// template tree is typed.
func ResolveContentRef(slide *SlideSpec, path string) (string, bool) {
	if slide == nil || path == "" {
		return "", false
	}
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "title":
		return slide.Title, true
	case "notes":
		return slide.Notes, slide.Notes != ""
	case "special":
		return slide.SpecialContent, slide.SpecialContent != ""
	case "imagePath":
		return slide.ImagePath, slide.ImagePath != ""
	case "bullets":
		if len(parts) == 1 {
			return strings.Join(slide.Bullets, "\n"), len(slide.Bullets) > 0
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil || i < 0 || i >= len(slide.Bullets) {
			return "", false
		}
		return slide.Bullets[i], true
	case "fields":
		if len(parts) < 2 || slide.Fields == nil {
			return "", false
		}
		v, ok := slide.Fields[strings.Join(parts[1:], ".")]
		return v, ok
	}
	return "", false
}

// ResolveStyleRef resolves a template element's style reference
// against the global tokens. Known paths: "tokens.primary",
// "tokens.secondary", "tokens.accent", "tokens.outline".
func (tc *TemplateConfig) ResolveStyleRef(path string) (string, bool) {
	t := tc.tokens()
	switch path {
	case "tokens.primary":
		return t.Primary, t.Primary != ""
	case "tokens.secondary":
		return t.Secondary, t.Secondary != ""
	case "tokens.accent":
		return t.Accent, t.Accent != ""
	case "tokens.outline":
		return t.Outline, t.Outline != ""
	}
	return "", false
}
