package docfields

// RawData is one document element's data exactly as captured from markup:
// wholly untyped strings. The markup-processing layer supplies it; the
// core never parses markup syntax itself. Created once per element at
// parse time and immutable thereafter.
type RawData struct {
	// Name is the element's primary argument or label. Empty means absent.
	Name string
	// Attrs holds the element's attribute values, keyed by attribute name.
	Attrs map[string]string
	// Content is the element's body text. Empty means absent.
	Content string
}

// ParsedData has the same shape as RawData with attribute values and
// content converted to typed Values by a Schema.
type ParsedData struct {
	Name    Value
	Attrs   map[string]Value
	Content Value
}

// AsContext converts the parsed data into a template context map. Attrs
// are additionally lifted to top level when their key does not collide
// with an existing one, so templates can say {{ color }} instead of
// {{ attrs.color }} — but never shadow name/attrs/content.
func (d *ParsedData) AsContext() map[string]any {
	ctx := map[string]any{
		ContextKeyName:    d.Name,
		ContextKeyAttrs:   d.Attrs,
		ContextKeyContent: d.Content,
	}
	for k, v := range d.Attrs {
		if _, taken := ctx[k]; !taken {
			ctx[k] = v
		}
	}
	return ctx
}

// ValidationMode selects how Schema.Apply treats attributes the schema
// does not declare.
type ValidationMode int

const (
	// ValidationLenient ignores unknown attributes.
	ValidationLenient ValidationMode = iota
	// ValidationStrict fails validation on unknown attributes.
	ValidationStrict
)

// Validation mode string values
const (
	ValidationModeNameLenient = "lenient"
	ValidationModeNameStrict  = "strict"
)

// String returns the string representation of the validation mode.
func (m ValidationMode) String() string {
	if m == ValidationStrict {
		return ValidationModeNameStrict
	}
	return ValidationModeNameLenient
}
