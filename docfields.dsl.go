package docfields

import (
	"strings"

	"github.com/itsatony/go-docfields/internal"
)

// FieldFromDSL parses a comma-separated modifier string against the
// registry into a Field specification.
//
// Grammar:
//
//	dsl       := modifier ("," modifier)*
//	modifier  := type | form "of" type | flag | by-option "by" value
//
// Whitespace around modifiers and keywords is insignificant; modifier
// order does not matter, except that append-strategy by-options preserve
// their left-to-right declaration order. Exactly one type modifier must
// be present and at most one form modifier; "sep by" without a form
// implies the list form.
func FieldFromDSL(reg *Registry, dsl string) (*Field, error) {
	f := &Field{
		dsl:    dsl,
		reg:    reg,
		flags:  make(map[string]bool),
		byopts: make(map[string]Value),
	}
	var typeCount, formCount int

	for _, mod := range internal.SplitModifiers(dsl) {
		// form "of" type. Both sides must be single words: an "of" inside
		// a multiword by-option value (sep by x of y) is not a form clause.
		if formName, typeName, ok := internal.CutKeyword(mod, DSLKeywordOf); ok &&
			isWord(formName) && isWord(typeName) {
			form, okf := reg.LookupForm(formName)
			typ, okt := reg.LookupType(typeName)
			if !okf || !okt {
				return nil, NewUnknownModifierError(mod, dsl)
			}
			formCount++
			typeCount++
			f.form = form
			f.typ = typ
			continue
		}

		// bare type
		if typ, ok := reg.LookupType(mod); ok {
			typeCount++
			f.typ = typ
			continue
		}

		// by-option "by" value
		if optName, rawVal, ok := internal.CutKeyword(mod, DSLKeywordBy); ok {
			opt, okb := reg.LookupByOption(optName)
			if !okb {
				return nil, NewUnknownModifierError(mod, dsl)
			}
			v, err := opt.typ.parse(rawVal)
			if err != nil {
				return nil, NewValueParseError(rawVal, opt.typ.name, err)
			}
			if opt.strategy == MergeAppend {
				list, _ := f.byopts[opt.name].([]Value)
				f.byopts[opt.name] = append(list, v)
			} else {
				f.byopts[opt.name] = v
			}
			continue
		}

		// flag
		if flag, ok := reg.LookupFlag(mod); ok {
			f.flags[flag.name] = !flag.def
			continue
		}

		return nil, NewUnknownModifierError(mod, dsl)
	}

	if formCount > 1 {
		return nil, NewMultipleFormModifiersError(dsl)
	}
	switch {
	case typeCount == 0:
		return nil, NewNoTypeModifierError(dsl)
	case typeCount > 1:
		return nil, NewMultipleTypeModifiersError(dsl)
	}

	// A custom separator without a form implies the list form.
	if _, ok := f.byopts[ByOptionNameSep]; ok && f.form == nil {
		form, _ := reg.LookupForm(FormNameList)
		f.form = form
	}

	// Unset flags take their registry defaults; append-strategy by-options
	// always carry an accumulator.
	for _, spec := range reg.Flags() {
		if _, ok := f.flags[spec.name]; !ok {
			f.flags[spec.name] = spec.def
		}
	}
	for _, name := range reg.appendOptionNames() {
		if _, ok := f.byopts[name]; !ok {
			f.byopts[name] = []Value{}
		}
	}

	return f, nil
}

// isWord reports whether s contains no whitespace, i.e. can be a
// registered form or type name.
func isWord(s string) bool {
	return !strings.ContainsAny(s, " \t\n\r")
}

// MustFieldFromDSL builds a Field and panics on a DSL syntax error. Use
// for compiled-in field declarations that must always be valid.
func MustFieldFromDSL(reg *Registry, dsl string) *Field {
	f, err := FieldFromDSL(reg, dsl)
	if err != nil {
		panic(err)
	}
	return f
}
