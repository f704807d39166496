package godeck

// GeneratedImage is the outcome of an image-generation call.
type GeneratedImage struct {
	Success bool
	Path    string
}

// ImageGenerator produces optional AI imagery (abstract backgrounds,
// icons). Failures degrade to a flat-color background or no icon;
// they never abort a run.
type ImageGenerator interface {
	Generate(prompt, negativePrompt, aspectRatio string) GeneratedImage
}

// DisabledImageGenerator is the default collaborator: it never
// produces an image, so callers always take their flat-color path.
type DisabledImageGenerator struct{}

// Generate reports no image.
func (DisabledImageGenerator) Generate(prompt, negativePrompt, aspectRatio string) GeneratedImage {
	return GeneratedImage{}
}
