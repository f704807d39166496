package godeck

// titleBarLightenAmount is added to the primary color when no other
// title-bar color source applies.
const titleBarLightenAmount = 24

// ResolveArea resolves a named region of a layout from the template.
// An area may reference a named global region, inheriting its width
// and height unless overridden; any numeric field still missing falls
// back to the caller-supplied default. A layout or area absent from
// the template yields the default untouched.
func ResolveArea(tpl *TemplateConfig, layout LayoutKind, areaName string, def Region) Region {
	lt := tpl.Layout(layout)
	if lt == nil || lt.Areas == nil {
		return def
	}
	ag := lt.Areas[areaName]
	if ag == nil {
		return def
	}
	out := def
	if ag.Ref != "" && tpl.Regions != nil {
		if ref := tpl.Regions[ag.Ref]; ref != nil {
			if ref.W != nil {
				out.W = *ref.W
			}
			if ref.H != nil {
				out.H = *ref.H
			}
		}
	}
	if ag.X != nil {
		out.X = *ag.X
	}
	if ag.Y != nil {
		out.Y = *ag.Y
	}
	if ag.W != nil {
		out.W = *ag.W
	}
	if ag.H != nil {
		out.H = *ag.H
	}
	return out
}

// ResolveTitleBarColor picks the title-bar color for a layout.
// Priority: explicit per-layout template color, then the global
// primary under a fixed-color template, then a valid per-slide accent,
// then the theme primary lightened by a fixed amount.
func ResolveTitleBarColor(tpl *TemplateConfig, theme *ResolvedTheme, layout LayoutKind, slideAccent string) string {
	if lt := tpl.Layout(layout); lt != nil {
		if hex, ok := NormalizeColor(lt.TitleBarColor); ok {
			return hex
		}
	}
	if theme.FixedColors {
		return theme.Primary
	}
	if hex, ok := NormalizeColor(slideAccent); ok {
		return hex
	}
	return Lighten(theme.Primary, titleBarLightenAmount)
}
