package docfields

import (
	"reflect"
	"strings"
)

// Field is an immutable specification built once from a DSL string and
// reused to parse arbitrarily many raw strings. It stores resolved
// registry references: exactly one type, at most one form (absence means
// scalar), the active flags and the by-option values.
type Field struct {
	dsl    string
	typ    *TypeSpec
	form   *FormSpec
	flags  map[string]bool
	byopts map[string]Value
	reg    *Registry
}

// DSL returns the declaration string the field was built from.
func (f *Field) DSL() string { return f.dsl }

// Type returns the field's resolved type spec.
func (f *Field) Type() *TypeSpec { return f.typ }

// Form returns the field's resolved form spec, or nil for scalar fields.
func (f *Field) Form() *FormSpec { return f.form }

// Required reports the built-in required flag.
func (f *Field) Required() bool { return f.flags[FlagNameRequired] }

// Sep returns the effective separator: the sep by-option when given,
// otherwise the form's default. Empty for scalar fields without an
// explicit sep.
func (f *Field) Sep() string {
	if v, ok := f.byopts[ByOptionNameSep]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	if f.form != nil {
		return f.form.sep
	}
	return ""
}

// Flag looks up a flag value by registered name or alias. The second
// return is false when no such flag is registered.
func (f *Field) Flag(name string) (bool, bool) {
	spec, ok := f.reg.LookupFlag(name)
	if !ok {
		return false, false
	}
	v, ok := f.flags[spec.name]
	return v, ok
}

// ByOption looks up a by-option value by registered name or alias.
// Replace-strategy options that were never supplied return (nil, false);
// append-strategy options always return their accumulator, possibly empty.
func (f *Field) ByOption(name string) (Value, bool) {
	spec, ok := f.reg.LookupByOption(name)
	if !ok {
		return nil, false
	}
	v, ok := f.byopts[spec.name]
	return v, ok
}

// Parse applies the field specification to a raw string and produces a
// typed Value. With a form modifier the raw string is split by the
// effective separator and each element parsed with the type's parse
// function; without one the whole trimmed string is parsed as a scalar.
// The required flag is NOT enforced here: an empty raw value is a
// data-presence question that Schema answers.
func (f *Field) Parse(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)

	if f.form == nil {
		v, err := f.typ.parse(raw)
		if err != nil {
			return nil, NewValueParseError(raw, f.typ.name, err)
		}
		return v, nil
	}

	items := splitRaw(raw, f.Sep())
	elems := make([]Value, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		v, err := f.typ.parse(item)
		if err != nil {
			return nil, NewValueParseError(item, f.typ.name, err)
		}
		elems = append(elems, v)
	}
	if f.form.kind == FormKindSet {
		elems = dedupeValues(elems)
	}
	return elems, nil
}

// ParseAbsent produces the value of a field that was not supplied at all:
// an empty container for forms, false for a bare bool (a flag-style field
// is valid without a value), nil otherwise.
func (f *Field) ParseAbsent() Value {
	if f.form != nil {
		return []Value{}
	}
	if f.typ.kind == KindBool {
		return false
	}
	return nil
}

// splitRaw splits by the effective separator: SepWhitespace means any
// whitespace run, the empty separator splits into single characters.
func splitRaw(raw, sep string) []string {
	switch sep {
	case SepWhitespace:
		return strings.Fields(raw)
	case "":
		return strings.Split(raw, "")
	default:
		return strings.Split(raw, sep)
	}
}

// dedupeValues drops repeated scalars, preserving first-seen order.
// Values of uncomparable types (a custom parse function may return a
// slice or map) cannot be deduplicated and are kept as-is.
func dedupeValues(elems []Value) []Value {
	seen := make(map[Value]bool, len(elems))
	out := make([]Value, 0, len(elems))
	for _, v := range elems {
		if v == nil || !reflect.TypeOf(v).Comparable() {
			out = append(out, v)
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
