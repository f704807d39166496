package godeck

import (
	"encoding/json"
	"fmt"
	"os"
)

// LayoutKind is the closed set of slide layouts.
type LayoutKind string

const (
	LayoutTitle                   LayoutKind = "title"
	LayoutSectionHeader           LayoutKind = "section_header"
	LayoutQuote                   LayoutKind = "quote"
	LayoutContentOnly             LayoutKind = "content_only"
	LayoutContentWithVisual       LayoutKind = "content_with_visual"
	LayoutContentWithBottomVisual LayoutKind = "content_with_bottom_visual"
	LayoutContentWithImage        LayoutKind = "content_with_image"
	LayoutComparisonCards         LayoutKind = "comparison_cards"
	LayoutChecklistTopBullets     LayoutKind = "checklist_top_bullets_bottom"
	LayoutVisualOnly              LayoutKind = "visual_only"
	LayoutVisualHeroSplit         LayoutKind = "visual_hero_split"
	LayoutFreeform                LayoutKind = "freeform"
)

// KnownLayouts is the set of layout kinds the code-side fallback paths
// can populate without a template.
var KnownLayouts = map[LayoutKind]bool{
	LayoutTitle:                   true,
	LayoutSectionHeader:           true,
	LayoutQuote:                   true,
	LayoutContentOnly:             true,
	LayoutContentWithVisual:       true,
	LayoutContentWithBottomVisual: true,
	LayoutContentWithImage:        true,
	LayoutComparisonCards:         true,
	LayoutChecklistTopBullets:     true,
	LayoutVisualOnly:              true,
	LayoutVisualHeroSplit:         true,
	LayoutFreeform:                true,
}

// SlideSpec describes one slide of the request.
type SlideSpec struct {
	Title          string             `json:"title"`
	Bullets        []string           `json:"bullets"`
	Notes          string             `json:"notes"`
	Layout         LayoutKind         `json:"layout"`
	ImagePath      string             `json:"imagePath"`
	SpecialContent string             `json:"specialContent"`
	AccentColor    string             `json:"accentColor"`
	VisualRecipe   *VisualRecipe      `json:"visualRecipe"`
	Fields         map[string]string  `json:"fields"`
	Elements       []*TemplateElement `json:"elements"`
}

// HasVisual reports whether the slide carries a drawable recipe.
func (s *SlideSpec) HasVisual() bool {
	return s.VisualRecipe != nil && s.VisualRecipe.Kind != ""
}

// OverviewRow is one label/value pair of the company overview record.
type OverviewRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Branding carries the logo, copyright and company record applied to
// every slide.
type Branding struct {
	LogoPath        string        `json:"logoPath"`
	CompanyName     string        `json:"companyName"`
	CopyrightText   string        `json:"copyrightText"`
	CopyrightFormat string        `json:"copyrightFormat"`
	CompanyOverview []OverviewRow `json:"companyOverview"`
}

// PresentationRequest is the immutable input of one generation run.
type PresentationRequest struct {
	FileName             string          `json:"fileName"`
	Slides               []*SlideSpec    `json:"slides"`
	PrimaryColor         string          `json:"primaryColor"`
	SecondaryColor       string          `json:"secondaryColor"`
	TitleBackgroundImage string          `json:"titleBackgroundImage"`
	Tokens               *StyleTokens    `json:"tokens"`
	Template             *TemplateConfig `json:"template"`
	Branding             *Branding       `json:"branding"`
}

// LoadPresentationRequest reads a request from a JSON file.
func LoadPresentationRequest(path string) (*PresentationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	return ParsePresentationRequest(data)
}

// ParsePresentationRequest parses request JSON and checks the required
// fields.
func ParsePresentationRequest(data []byte) (*PresentationRequest, error) {
	var req PresentationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.FileName == "" {
		return nil, fmt.Errorf("request is missing fileName")
	}
	if len(req.Slides) == 0 {
		return nil, fmt.Errorf("request has no slides")
	}
	for i, s := range req.Slides {
		if s == nil {
			return nil, fmt.Errorf("slide %d is null", i+1)
		}
		if s.Layout == "" {
			s.Layout = LayoutContentOnly
		}
	}
	return &req, nil
}
