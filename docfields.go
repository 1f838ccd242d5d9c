// Package docfields validates and types the structured fields that
// document-authoring extensions declare inside free-form markup.
//
// A field is described by a small comma-separated DSL combining a type
// modifier, an optional container ("form") modifier, boolean flags and
// key/value "by-options":
//
//	int
//	list of int
//	str, required
//	words of str, sep by '|'
//
// # Basic Usage
//
// Build a Field once, reuse it to parse arbitrarily many raw strings:
//
//	reg := docfields.NewRegistry(nil)
//	field, err := docfields.FieldFromDSL(reg, "list of int")
//	val, err := field.Parse("1, 2, 3")
//	// val: []any{1, 2, 3}
//
// # Schemas
//
// A Schema groups the Fields of one document-element kind and converts a
// RawData record (untyped strings captured from markup) into a ParsedData
// record of typed values:
//
//	schema, _ := docfields.SchemaFromDSL(reg, "recipe",
//	    "str, required",
//	    map[string]string{"servings": "int", "tags": "list of str"},
//	    "lines of str",
//	)
//	parsed, err := schema.Apply(raw, docfields.ValidationStrict)
//
// # Phased Rendering
//
// Some template context is only available late in a document build
// (cross-references, document-wide statistics). The Pipeline builds the
// rendering context in phases: Parsing renders a first draft in which
// late values are represented by opaque placeholder tokens, and Resolving
// splices the final values back into the stored fragment:
//
//	engine := docfields.MustNew(docfields.WithRenderer(myRenderer))
//	pl := engine.NewPipeline()
//	pc, _ := pl.Begin(raw, origin, schema, tmpl)
//	_ = pl.MarkParsed(pc)                 // host: source read finished
//	text, rc, err := pl.Resolve(pc)       // host: doctree transforms done
//
// Extra context beyond the schema's fields comes from Providers, each
// tagged with the pipeline scope it may run in (Global, Parse, Transform).
// Provider output is namespaced with a leading underscore so it can never
// shadow an author-declared field.
//
// # Error Handling
//
// All errors are cuserr.CustomError values carrying a category code
// (ErrCode* constants) and machine-readable metadata (MetaKey* constants).
// Author mistakes (bad values, unknown attributes) are aggregated per
// element and never abort a build; registration and phase misuse are
// programming errors and surface immediately.
package docfields
