package docfields

import "github.com/google/uuid"

// placeholder is the opaque token left in rendered output wherever full
// resolution is not yet possible. It stringifies to a tag-shaped marker
// (see PlaceholderTokenPrefix) that survives the external template and
// render steps unaltered; Resolving replaces every token occurrence with
// the resolved value's rendered form.
//
// Placeholders are created and consumed entirely within the pipeline and
// never escape it.
type placeholder struct {
	id      string
	key     string
	element string
}

func newPlaceholder(element, key string) *placeholder {
	return &placeholder{
		id:      uuid.NewString(),
		key:     key,
		element: element,
	}
}

// Token returns the inline marker embedded in intermediate rendered text.
func (p *placeholder) Token() string {
	return PlaceholderTokenPrefix + p.id + PlaceholderTokenSuffix
}

// String makes the placeholder stringify to its token, so external
// renderers that interpolate the context value emit the marker.
func (p *placeholder) String() string {
	return p.Token()
}
