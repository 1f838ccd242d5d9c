package docfields

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// TypeSpec describes a registered value type: its underlying scalar kind
// plus the parse and to-string functions applied to single elements.
type TypeSpec struct {
	name      string
	kind      Kind
	parse     ParseFunc
	stringify StringifyFunc
}

// Name returns the canonical (non-alias) type name.
func (t *TypeSpec) Name() string { return t.name }

// Kind returns the underlying scalar kind.
func (t *TypeSpec) Kind() Kind { return t.kind }

// FormKind identifies the container shape a form produces.
type FormKind int

// Form kind constants. Both produce an ordered []Value; FormKindSet
// additionally deduplicates, preserving first-seen order.
const (
	FormKindSequence FormKind = iota
	FormKindSet
)

// FormSpec describes a registered container form: its shape and the
// default separator used to split raw input.
type FormSpec struct {
	name string
	kind FormKind
	sep  string
}

// Name returns the canonical form name.
func (f *FormSpec) Name() string { return f.name }

// Kind returns the container shape.
func (f *FormSpec) Kind() FormKind { return f.kind }

// Sep returns the form's default separator. SepWhitespace means any
// whitespace run.
func (f *FormSpec) Sep() string { return f.sep }

// FlagSpec describes a registered boolean flag and its default when unset.
type FlagSpec struct {
	name string
	def  bool
}

// Name returns the canonical flag name.
func (f *FlagSpec) Name() string { return f.name }

// Default returns the flag's value when the modifier is not present.
func (f *FlagSpec) Default() bool { return f.def }

// MergeStrategy controls how repeated by-option modifiers combine.
type MergeStrategy int

const (
	// MergeReplace keeps only the latest value.
	MergeReplace MergeStrategy = iota
	// MergeAppend accumulates values in declaration order.
	MergeAppend
)

// Merge strategy string values
const (
	MergeStrategyNameReplace = "replace"
	MergeStrategyNameAppend  = "append"
)

// String returns the string representation of the merge strategy.
func (s MergeStrategy) String() string {
	if s == MergeAppend {
		return MergeStrategyNameAppend
	}
	return MergeStrategyNameReplace
}

// ByOptionSpec describes a registered key/value modifier: the type its
// values are converted with and the merge strategy for repetitions.
type ByOptionSpec struct {
	name     string
	typ      *TypeSpec
	strategy MergeStrategy
}

// Name returns the canonical by-option name.
func (b *ByOptionSpec) Name() string { return b.name }

// Strategy returns the by-option's merge strategy.
func (b *ByOptionSpec) Strategy() MergeStrategy { return b.strategy }

// Registry is the catalogue of known value types, container forms, flags
// and by-options. It must be fully populated before any FieldFromDSL call:
// a built Field stores resolved spec references, not names, so registering
// a name after fields were built never retroactively changes them.
//
// The registry is safe for concurrent reads; the intended lifecycle is
// populate once at extension-setup time, then read-only for the rest of
// the process.
type Registry struct {
	mu     sync.RWMutex
	logger *zap.Logger

	types       map[string]*TypeSpec
	forms       map[string]*FormSpec
	flags       map[string]*FlagSpec
	byopts      map[string]*ByOptionSpec
	stringifies map[Kind]StringifyFunc

	// appendOpts lists canonical names of append-strategy by-options, in
	// registration order, so Fields can pre-seed their accumulators.
	appendOpts []string
}

// NewRegistry creates a registry pre-populated with the built-in types
// (bool, int, float, str), forms (list, lines, words, set), the required
// flag and the sep by-option.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		logger:      logger,
		types:       make(map[string]*TypeSpec),
		forms:       make(map[string]*FormSpec),
		flags:       make(map[string]*FlagSpec),
		byopts:      make(map[string]*ByOptionSpec),
		stringifies: make(map[Kind]StringifyFunc),
	}

	mustNil(r.AddType(TypeNameBool, KindBool, parseBoolLiteral, stringifyBool, TypeAliasFlag))
	mustNil(r.AddType(TypeNameInt, KindInt, parseIntLiteral, stringifyInt, TypeAliasInt))
	mustNil(r.AddType(TypeNameFloat, KindFloat, parseFloatLiteral, stringifyFloat, TypeAliasNumber, TypeAliasNum))
	mustNil(r.AddType(TypeNameStr, KindString, parseStringLiteral, stringifyString, TypeAliasString))

	mustNil(r.AddForm(FormNameList, FormKindSequence, SepComma))
	mustNil(r.AddForm(FormNameLines, FormKindSequence, SepNewline))
	mustNil(r.AddForm(FormNameWords, FormKindSequence, SepWhitespace))
	mustNil(r.AddForm(FormNameSet, FormKindSet, SepWhitespace))

	mustNil(r.AddFlag(FlagNameRequired, false, FlagAliasRequire, FlagAliasReq))

	mustNil(r.AddByOption(ByOptionNameSep, TypeNameStr, MergeReplace, ByOptionAliasSeparate))

	logger.Debug(LogMsgRegistryCreated)
	return r
}

func mustNil(err error) {
	if err != nil {
		panic(err)
	}
}

// AddType registers a value type under name and aliases. parse and
// stringify may be nil, in which case the built-in functions for kind are
// used. Fails with a duplicate-registration error if name or any alias is
// already taken; the first registration stays active.
//
// parse should return comparable scalar values; the set form can only
// deduplicate comparable elements.
func (r *Registry) AddType(name string, kind Kind, parse ParseFunc, stringify StringifyFunc, aliases ...string) error {
	if parse == nil {
		parse = builtinParse(kind)
	}
	if stringify == nil {
		stringify = builtinStringify(kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.checkNames(NamespaceType, name, aliases, func(n string) bool {
		_, ok := r.types[n]
		return ok
	})
	if err != nil {
		return err
	}

	spec := &TypeSpec{name: name, kind: kind, parse: parse, stringify: stringify}
	for _, n := range names {
		r.types[n] = spec
	}
	if _, ok := r.stringifies[kind]; !ok {
		r.stringifies[kind] = stringify
	}
	r.logger.Debug(LogMsgTypeRegistered, zap.String(LogFieldName, name))
	return nil
}

// AddForm registers a container form under name and aliases.
func (r *Registry) AddForm(name string, kind FormKind, sep string, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.checkNames(NamespaceForm, name, aliases, func(n string) bool {
		_, ok := r.forms[n]
		return ok
	})
	if err != nil {
		return err
	}

	spec := &FormSpec{name: name, kind: kind, sep: sep}
	for _, n := range names {
		r.forms[n] = spec
	}
	r.logger.Debug(LogMsgFormRegistered, zap.String(LogFieldName, name))
	return nil
}

// AddFlag registers a boolean flag under name and aliases. def is the
// flag's value when the modifier is absent from a declaration; the
// modifier's presence yields the negation.
func (r *Registry) AddFlag(name string, def bool, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.checkNames(NamespaceFlag, name, aliases, func(n string) bool {
		_, ok := r.flags[n]
		return ok
	})
	if err != nil {
		return err
	}

	spec := &FlagSpec{name: name, def: def}
	for _, n := range names {
		r.flags[n] = spec
	}
	r.logger.Debug(LogMsgFlagRegistered, zap.String(LogFieldName, name))
	return nil
}

// AddByOption registers a key/value modifier under name and aliases.
// Values are converted with the named type's parse function, which must
// already be registered.
func (r *Registry) AddByOption(name string, typeName string, strategy MergeStrategy, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	typ, ok := r.types[typeName]
	if !ok {
		return NewUnknownTypeError(typeName)
	}

	names, err := r.checkNames(NamespaceByOption, name, aliases, func(n string) bool {
		_, ok := r.byopts[n]
		return ok
	})
	if err != nil {
		return err
	}

	spec := &ByOptionSpec{name: name, typ: typ, strategy: strategy}
	for _, n := range names {
		r.byopts[n] = spec
	}
	if strategy == MergeAppend {
		r.appendOpts = append(r.appendOpts, name)
	}
	r.logger.Debug(LogMsgByOptionRegistered, zap.String(LogFieldName, name))
	return nil
}

// checkNames validates name plus aliases against a namespace and returns
// the full list to insert. Caller must hold the write lock.
func (r *Registry) checkNames(namespace, name string, aliases []string, taken func(string) bool) ([]string, error) {
	names := append([]string{name}, aliases...)
	for _, n := range names {
		if n == "" {
			return nil, NewEmptyNameError(namespace)
		}
		if taken(n) {
			r.logger.Warn(LogMsgNameCollision,
				zap.String(LogFieldNamespace, namespace),
				zap.String(LogFieldName, n),
			)
			return nil, NewRegistrationError(namespace, n)
		}
	}
	return names, nil
}

// LookupType resolves a type name or alias. Lookups are case-sensitive
// exact matches; there is no fuzzy matching.
func (r *Registry) LookupType(name string) (*TypeSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// LookupForm resolves a form name or alias.
func (r *Registry) LookupForm(name string) (*FormSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.forms[name]
	return f, ok
}

// LookupFlag resolves a flag name or alias.
func (r *Registry) LookupFlag(name string) (*FlagSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flags[name]
	return f, ok
}

// LookupByOption resolves a by-option name or alias.
func (r *Registry) LookupByOption(name string) (*ByOptionSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byopts[name]
	return b, ok
}

// TypeNames returns all registered type names and aliases, sorted.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Flags returns the canonical specs of all registered flags.
func (r *Registry) Flags() []*FlagSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool, len(r.flags))
	specs := make([]*FlagSpec, 0, len(r.flags))
	for _, f := range r.flags {
		if !seen[f.name] {
			seen[f.name] = true
			specs = append(specs, f)
		}
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].name < specs[j].name })
	return specs
}

// appendOptionNames returns canonical names of append-strategy by-options
// in registration order.
func (r *Registry) appendOptionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.appendOpts))
	copy(out, r.appendOpts)
	return out
}

// Stringify renders a scalar Value to text using the to-string function
// registered for its kind. Unknown kinds fall back to fmt formatting.
func (r *Registry) Stringify(v Value) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var kind Kind
	switch v.(type) {
	case bool:
		kind = KindBool
	case int:
		kind = KindInt
	case float64:
		kind = KindFloat
	case string:
		kind = KindString
	default:
		return stringifyString(v)
	}
	if fn, ok := r.stringifies[kind]; ok {
		return fn(v)
	}
	return stringifyString(v)
}

func builtinParse(kind Kind) ParseFunc {
	switch kind {
	case KindBool:
		return parseBoolLiteral
	case KindInt:
		return parseIntLiteral
	case KindFloat:
		return parseFloatLiteral
	default:
		return parseStringLiteral
	}
}

func builtinStringify(kind Kind) StringifyFunc {
	switch kind {
	case KindBool:
		return stringifyBool
	case KindInt:
		return stringifyInt
	case KindFloat:
		return stringifyFloat
	default:
		return stringifyString
	}
}
