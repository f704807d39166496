package godeck

import (
	"fmt"
	"strings"
)

// TemplateFindings checks every slide against the template and returns
// all problems found, not just the first. A slide's layout key must
// exist (in the template when one defines layouts, otherwise among the
// built-in layouts), and a slide carrying a visual recipe needs a
// drawable visual element whose declared area exists in that layout.
func TemplateFindings(tpl *TemplateConfig, slides []*SlideSpec) []string {
	var findings []string
	templated := tpl != nil && len(tpl.Layouts) > 0
	for i, slide := range slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide == nil {
			findings = append(findings, prefix+": slide is nil")
			continue
		}
		var lt *LayoutTemplate
		if templated {
			lt = tpl.Layouts[string(slide.Layout)]
			if lt == nil {
				findings = append(findings, fmt.Sprintf("%s: layout %q not defined in template", prefix, slide.Layout))
				continue
			}
		} else if !KnownLayouts[slide.Layout] {
			findings = append(findings, fmt.Sprintf("%s: unknown layout %q", prefix, slide.Layout))
			continue
		}
		if !slide.HasVisual() {
			continue
		}
		if lt == nil {
			// Code-side fallbacks can place a visual on any built-in layout.
			continue
		}
		if err := visualElementFinding(lt, slide.Layout); err != "" {
			findings = append(findings, prefix+": "+err)
		}
	}
	return findings
}

func visualElementFinding(lt *LayoutTemplate, layout LayoutKind) string {
	found := false
	for _, el := range lt.Elements {
		if el == nil || el.Type != ElementVisual {
			continue
		}
		found = true
		if el.Area == "" {
			return fmt.Sprintf("layout %q visual element has no area", layout)
		}
		if lt.Areas == nil || lt.Areas[el.Area] == nil {
			return fmt.Sprintf("layout %q visual element area %q does not exist", layout, el.Area)
		}
		return ""
	}
	if !found {
		return fmt.Sprintf("layout %q has no visual element for the slide's recipe", layout)
	}
	return ""
}

// ValidateTemplate runs TemplateFindings and joins the results into a
// single error, or nil if the template and slides are consistent. The
// engine aborts the whole run before drawing anything when this fails.
func ValidateTemplate(tpl *TemplateConfig, slides []*SlideSpec) error {
	findings := TemplateFindings(tpl, slides)
	if len(findings) == 0 {
		return nil
	}
	return fmt.Errorf("template validation failed:\n  %s", strings.Join(findings, "\n  "))
}
