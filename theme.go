package godeck

// Built-in theme defaults used when neither the template nor the
// request supplies a value.
const (
	defaultPrimary      = "4472C4"
	defaultSecondary    = "8FAADC"
	defaultAccent       = "ED7D31"
	defaultOutline      = "D9D9D9"
	defaultCornerRadius = 0.06 // inches
	defaultSpacingUnit  = 0.15 // inches
	defaultShadowPreset = "soft"
	defaultTitleFont    = "Calibri"
	defaultBodyFont     = "Calibri"
	paletteSize         = 12
)

// ResolvedTheme is the request's color and style state, computed once
// before any drawing under the active color policy and read-only
// afterward. No component re-inspects the raw policy; the few places
// that behave differently under a fixed-color template consult
// FixedColors.
type ResolvedTheme struct {
	Primary      string // hex6
	Secondary    string
	Accent       string
	Outline      string
	CornerRadius float64
	SpacingUnit  float64
	Shadow       *Shadow
	Palette      []string
	TitleFont    string
	BodyFont     string
	FixedColors  bool
}

// PaletteColor returns the i-th categorical color, cycling.
func (t *ResolvedTheme) PaletteColor(i int) string {
	if len(t.Palette) == 0 {
		return t.Primary
	}
	return t.Palette[((i%len(t.Palette))+len(t.Palette))%len(t.Palette)]
}

// ResolveTheme reconciles request-supplied (AI-suggested) colors with
// template tokens under the template's color policy and derives the
// categorical palette. The precedence is applied here exactly once:
//
//	disabled      built-in defaults only
//	template_only template tokens over defaults, request ignored
//	prefer_ai     template tokens win; request colors fill gaps
//	ai_override   request colors win; palette stays in brand family
func ResolveTheme(req *PresentationRequest) *ResolvedTheme {
	tpl := req.Template
	tokens := tpl.tokens()
	policy := PolicyPreferAI
	paletteMode := PaletteBalanced
	if tpl != nil && tpl.Rules != nil {
		if tpl.Rules.Policy != "" {
			policy = tpl.Rules.Policy
		}
		if tpl.Rules.Palette == "brand" {
			paletteMode = PaletteBrand
		}
	}

	reqTokens := req.Tokens
	if reqTokens == nil {
		reqTokens = &StyleTokens{}
	}
	reqPrimary := firstValidHex(req.PrimaryColor, reqTokens.Primary)
	reqSecondary := firstValidHex(req.SecondaryColor, reqTokens.Secondary)
	reqAccent := firstValidHex(reqTokens.Accent)
	reqOutline := firstValidHex(reqTokens.Outline)
	tplPrimary := firstValidHex(tokens.Primary)
	tplSecondary := firstValidHex(tokens.Secondary)
	tplAccent := firstValidHex(tokens.Accent)
	tplOutline := firstValidHex(tokens.Outline)

	var primary, secondary, accent, outline string
	switch policy {
	case PolicyDisabled:
		// defaults only
	case PolicyTemplateOnly:
		primary, secondary, accent, outline = tplPrimary, tplSecondary, tplAccent, tplOutline
	case PolicyAIOverride:
		primary = firstNonEmpty(reqPrimary, tplPrimary)
		secondary = firstNonEmpty(reqSecondary, tplSecondary)
		accent = firstNonEmpty(reqAccent, tplAccent)
		outline = firstNonEmpty(reqOutline, tplOutline)
		paletteMode = PaletteBrand
	default: // PolicyPreferAI
		primary = firstNonEmpty(tplPrimary, reqPrimary)
		secondary = firstNonEmpty(tplSecondary, reqSecondary)
		accent = firstNonEmpty(tplAccent, reqAccent)
		outline = firstNonEmpty(tplOutline, reqOutline)
	}
	primary = firstNonEmpty(primary, defaultPrimary)
	secondary = firstNonEmpty(secondary, defaultSecondary)
	accent = firstNonEmpty(accent, defaultAccent)
	outline = firstNonEmpty(outline, defaultOutline)

	theme := &ResolvedTheme{
		Primary:      primary,
		Secondary:    secondary,
		Accent:       accent,
		Outline:      outline,
		CornerRadius: defaultCornerRadius,
		SpacingUnit:  defaultSpacingUnit,
		TitleFont:    defaultTitleFont,
		BodyFont:     defaultBodyFont,
		FixedColors:  policy == PolicyTemplateOnly,
	}
	if tokens.CornerRadius != nil && *tokens.CornerRadius >= 0 {
		theme.CornerRadius = *tokens.CornerRadius
	} else if reqTokens.CornerRadius != nil && *reqTokens.CornerRadius >= 0 {
		theme.CornerRadius = *reqTokens.CornerRadius
	}
	if tokens.SpacingUnit != nil && *tokens.SpacingUnit > 0 {
		theme.SpacingUnit = *tokens.SpacingUnit
	} else if reqTokens.SpacingUnit != nil && *reqTokens.SpacingUnit > 0 {
		theme.SpacingUnit = *reqTokens.SpacingUnit
	}
	shadowName := firstNonEmpty(tokens.Shadow, reqTokens.Shadow)
	theme.Shadow = ResolveShadow(shadowName, tokens.ShadowSpec, defaultShadowPreset)
	if tpl != nil && tpl.Typography != nil {
		theme.TitleFont = firstNonEmpty(tpl.Typography.TitleFont, theme.TitleFont)
		theme.BodyFont = firstNonEmpty(tpl.Typography.BodyFont, theme.BodyFont)
	}
	theme.Palette = BuildPalette([]string{primary, secondary, accent}, paletteSize, paletteMode)
	return theme
}

func firstValidHex(candidates ...string) string {
	for _, c := range candidates {
		if hex, ok := NormalizeColor(c); ok {
			return hex
		}
	}
	return ""
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
