package docfields

// RenderFunc is the bridge to the external template engine: it receives
// the template text and the context map and returns rendered markup. The
// engine's expression syntax and rendering semantics are entirely the
// collaborator's business; the core only guarantees that placeholder
// values in the context stringify to round-trip-safe tokens.
type RenderFunc func(text string, ctx map[string]any) (string, error)

// PassthroughRenderer returns the template text unchanged. It is the
// default when no renderer is configured.
func PassthroughRenderer(text string, _ map[string]any) (string, error) {
	return text, nil
}

// Template pairs a template body with the earliest pipeline phase at
// which it may render.
type Template struct {
	// Text is the template body, in the external engine's syntax.
	Text string
	// Phase is the earliest phase the template may render in. Templates
	// rendered before Resolving receive placeholder tokens for deferred
	// keys.
	Phase Phase
	// Deferred lists extra context keys the template needs that only
	// become available during Resolving, beyond the transform providers'
	// own keys. Each gets a placeholder during Parsing.
	Deferred []string
}

// NewTemplate creates a template rendering at the given phase.
func NewTemplate(text string, phase Phase) *Template {
	return &Template{Text: text, Phase: phase}
}

// Render delegates to the external renderer. A nil renderer falls back to
// PassthroughRenderer.
func (t *Template) Render(render RenderFunc, ctx map[string]any) (string, error) {
	if render == nil {
		render = PassthroughRenderer
	}
	return render(t.Text, ctx)
}
