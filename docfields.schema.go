package docfields

import (
	"errors"
	"sort"

	"github.com/itsatony/go-cuserr"
	"go.uber.org/multierr"
)

// Schema is the field-level contract for one document-element kind: a
// Field per attribute plus optional fields for the element's name
// argument and body content. Built at extension-setup time, immutable and
// shared read-only afterwards.
type Schema struct {
	// Kind names the document-element kind this schema describes.
	Kind string
	// Name types the element's primary argument; nil forbids one.
	Name *Field
	// Attrs types the declared attributes, keyed by attribute name.
	// Attribute names are unique within a schema by construction.
	Attrs map[string]*Field
	// AnyAttr, when non-nil, types any attribute not covered by Attrs.
	AnyAttr *Field
	// Content types the element's body; nil forbids content.
	Content *Field
}

// SchemaFromDSL builds a Schema from DSL declaration strings. Empty
// strings leave the corresponding field nil.
func SchemaFromDSL(reg *Registry, kind, nameDSL string, attrDSLs map[string]string, contentDSL string) (*Schema, error) {
	s := &Schema{Kind: kind, Attrs: make(map[string]*Field, len(attrDSLs))}

	var err error
	if nameDSL != "" {
		if s.Name, err = FieldFromDSL(reg, nameDSL); err != nil {
			return nil, withFieldMeta(err, ContextKeyName)
		}
	}
	for attr, dsl := range attrDSLs {
		field, ferr := FieldFromDSL(reg, dsl)
		if ferr != nil {
			return nil, withFieldMeta(ferr, attr)
		}
		s.Attrs[attr] = field
	}
	if contentDSL != "" {
		if s.Content, err = FieldFromDSL(reg, contentDSL); err != nil {
			return nil, withFieldMeta(err, ContextKeyContent)
		}
	}
	return s, nil
}

// withFieldMeta tags an error with the field it was raised for.
func withFieldMeta(err error, field string) error {
	var custom *cuserr.CustomError
	if errors.As(err, &custom) {
		return custom.WithMetadata(MetaKeyField, field)
	}
	return err
}

// Apply validates raw against the schema and produces typed ParsedData.
// All field-level failures (missing required field, unknown attribute
// under strict mode, value-parse failures) are aggregated into a single
// SchemaValidationError so document authors see every mistake in one
// report. Recoverable per document element; never fatal to the build.
func (s *Schema) Apply(raw RawData, mode ValidationMode) (*ParsedData, error) {
	var errs error
	parsed := &ParsedData{Attrs: make(map[string]Value)}

	parsed.Name = s.applySingle(ContextKeyName, s.Name, raw.Name, &errs)

	rest := make(map[string]string, len(raw.Attrs))
	for k, v := range raw.Attrs {
		rest[k] = v
	}
	attrNames := make([]string, 0, len(s.Attrs))
	for attr := range s.Attrs {
		attrNames = append(attrNames, attr)
	}
	sort.Strings(attrNames)
	for _, attr := range attrNames {
		field := s.Attrs[attr]
		rawval, supplied := rest[attr]
		delete(rest, attr)
		if !supplied {
			if field.Required() {
				errs = multierr.Append(errs, NewMissingRequiredError(attr))
			} else {
				parsed.Attrs[attr] = field.ParseAbsent()
			}
			continue
		}
		if v, err := field.Parse(rawval); err != nil {
			errs = multierr.Append(errs, withFieldMeta(err, attr))
		} else {
			parsed.Attrs[attr] = v
		}
	}

	// Attributes the schema does not declare.
	restNames := make([]string, 0, len(rest))
	for attr := range rest {
		restNames = append(restNames, attr)
	}
	sort.Strings(restNames)
	for _, attr := range restNames {
		switch {
		case s.AnyAttr != nil:
			if v, err := s.AnyAttr.Parse(rest[attr]); err != nil {
				errs = multierr.Append(errs, withFieldMeta(err, attr))
			} else {
				parsed.Attrs[attr] = v
			}
		case mode == ValidationStrict:
			errs = multierr.Append(errs, NewUnknownAttributeError(attr))
		}
	}

	parsed.Content = s.applySingle(ContextKeyContent, s.Content, raw.Content, &errs)

	if errs != nil {
		return nil, NewSchemaValidationError(s.Kind, len(multierr.Errors(errs)), errs)
	}
	return parsed, nil
}

// applySingle handles the name and content slots, which unlike attributes
// have no key of their own: a supplied value with no declared field is an
// error, an absent value falls back to the field's absent form.
func (s *Schema) applySingle(slot string, field *Field, raw string, errs *error) Value {
	if raw == "" {
		if field == nil {
			return nil
		}
		if field.Required() {
			*errs = multierr.Append(*errs, NewMissingRequiredError(slot))
			return nil
		}
		return field.ParseAbsent()
	}
	if field == nil {
		*errs = multierr.Append(*errs, NewNoArgumentAllowedError(slot, raw))
		return nil
	}
	v, err := field.Parse(raw)
	if err != nil {
		*errs = multierr.Append(*errs, withFieldMeta(err, slot))
		return nil
	}
	return v
}

// NamedField pairs a context key with its Field for callers that
// enumerate a schema's contract.
type NamedField struct {
	Key   string
	Field *Field
}

// Fields enumerates the schema's declared fields: name, the attributes in
// sorted order, then content. Nil slots are skipped.
func (s *Schema) Fields() []NamedField {
	var out []NamedField
	if s.Name != nil {
		out = append(out, NamedField{Key: ContextKeyName, Field: s.Name})
	}
	attrNames := make([]string, 0, len(s.Attrs))
	for attr := range s.Attrs {
		attrNames = append(attrNames, attr)
	}
	sort.Strings(attrNames)
	for _, attr := range attrNames {
		out = append(out, NamedField{Key: attr, Field: s.Attrs[attr]})
	}
	if s.AnyAttr != nil {
		out = append(out, NamedField{Key: ContextKeyAttrs, Field: s.AnyAttr})
	}
	if s.Content != nil {
		out = append(out, NamedField{Key: ContextKeyContent, Field: s.Content})
	}
	return out
}

// NamedValue is a NamedField joined with the value it produced.
type NamedValue struct {
	Key   string
	Field *Field
	Value Value
}

// Items joins the schema's fields with the values of one ParsedData.
func (s *Schema) Items(d *ParsedData) []NamedValue {
	var out []NamedValue
	for _, nf := range s.Fields() {
		switch nf.Key {
		case ContextKeyName:
			out = append(out, NamedValue{Key: nf.Key, Field: nf.Field, Value: d.Name})
		case ContextKeyContent:
			out = append(out, NamedValue{Key: nf.Key, Field: nf.Field, Value: d.Content})
		case ContextKeyAttrs:
			// wildcard slot has no single value
		default:
			out = append(out, NamedValue{Key: nf.Key, Field: nf.Field, Value: d.Attrs[nf.Key]})
		}
	}
	return out
}
