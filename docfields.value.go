package docfields

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Value is a parsed field value: a scalar (bool, int, float64 or string),
// an ordered []Value container, or nil when the field is absent.
type Value = any

// ParseFunc converts the raw textual form of a single element into a typed
// scalar.
type ParseFunc func(raw string) (Value, error)

// StringifyFunc renders a typed scalar back into text.
type StringifyFunc func(v Value) string

// Kind identifies the underlying scalar kind of a registered type.
type Kind int

// Kind constants
const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
)

// Kind string names
const (
	KindNameBool   = "bool"
	KindNameInt    = "int"
	KindNameFloat  = "float"
	KindNameString = "string"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return KindNameBool
	case KindInt:
		return KindNameInt
	case KindFloat:
		return KindNameFloat
	case KindString:
		return KindNameString
	default:
		return strconv.Itoa(int(k))
	}
}

// parseBoolLiteral accepts the usual directive-flag spellings. An empty
// string means the flag was supplied without a value and counts as true.
func parseBoolLiteral(raw string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "on", "y", "":
		return true, nil
	case "false", "no", "0", "off", "n":
		return false, nil
	}
	return nil, errors.New(ErrMsgBoolLiteral)
}

func parseIntLiteral(raw string) (Value, error) {
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return i, nil
}

func parseFloatLiteral(raw string) (Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func parseStringLiteral(raw string) (Value, error) {
	return decodeLiteral(raw), nil
}

// decodeLiteral decodes input that is a single quoted string literal
// ('a\nb', "x", `y`) to its underlying string. Anything else, including
// quote-delimited input that parses to more than one literal, passes
// through unchanged.
func decodeLiteral(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if quote != '\'' && quote != '"' && quote != '`' {
		return raw
	}
	if raw[len(raw)-1] != quote {
		return raw
	}
	tree, err := parser.Parse(raw)
	if err != nil {
		return raw
	}
	if lit, ok := tree.Node.(*ast.StringNode); ok {
		return lit.Value
	}
	return raw
}

func stringifyBool(v Value) string {
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return fmt.Sprintf("%v", v)
}

func stringifyInt(v Value) string {
	if i, ok := v.(int); ok {
		return strconv.Itoa(i)
	}
	return fmt.Sprintf("%v", v)
}

func stringifyFloat(v Value) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

func stringifyString(v Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// ValueWrapper provides shape-tolerant accessors over a Value for
// template-side consumers that do not care whether a field was declared
// scalar or container.
type ValueWrapper struct {
	v   Value
	reg *Registry
}

// Wrap returns a ValueWrapper bound to this registry's stringify functions.
func (r *Registry) Wrap(v Value) ValueWrapper {
	return ValueWrapper{v: v, reg: r}
}

// Value returns the wrapped value unchanged.
func (w ValueWrapper) Value() Value {
	return w.v
}

// AsPlain returns the value as a scalar: containers yield their first
// element, empty containers and nil yield nil.
func (w ValueWrapper) AsPlain() Value {
	switch v := w.v.(type) {
	case nil:
		return nil
	case []Value:
		if len(v) == 0 {
			return nil
		}
		return v[0]
	default:
		return v
	}
}

// AsList returns the value as a container: scalars yield a single-element
// slice, nil yields an empty slice. The returned slice is a copy.
func (w ValueWrapper) AsList() []Value {
	switch v := w.v.(type) {
	case nil:
		return []Value{}
	case []Value:
		out := make([]Value, len(v))
		copy(out, v)
		return out
	default:
		return []Value{v}
	}
}

// AsString returns the scalar form rendered to text. The second return is
// false when the value is absent.
func (w ValueWrapper) AsString() (string, bool) {
	p := w.AsPlain()
	if p == nil {
		return "", false
	}
	return w.reg.Stringify(p), true
}

// AsStringList returns every element rendered to text.
func (w ValueWrapper) AsStringList() []string {
	list := w.AsList()
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = w.reg.Stringify(v)
	}
	return out
}
