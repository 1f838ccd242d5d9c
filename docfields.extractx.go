package docfields

import (
	"sync"

	"go.uber.org/zap"
)

// ProviderScope tags a Provider with the pipeline phase it may run in.
type ProviderScope int

const (
	// ScopeGlobal providers may run in every phase; their output is
	// computed once and cached for the process lifetime.
	ScopeGlobal ProviderScope = iota
	// ScopeParse providers may only run while the element is being parsed.
	ScopeParse
	// ScopeTransform providers may only run once the whole document tree
	// exists, i.e. during Resolving.
	ScopeTransform
)

// Provider scope string values
const (
	ScopeNameGlobal    = "global"
	ScopeNameParse     = "parse"
	ScopeNameTransform = "transform"
)

// String returns the string representation of the scope.
func (s ProviderScope) String() string {
	switch s {
	case ScopeParse:
		return ScopeNameParse
	case ScopeTransform:
		return ScopeNameTransform
	default:
		return ScopeNameGlobal
	}
}

// allows reports whether a provider with this scope may run in phase.
func (s ProviderScope) allows(phase Phase) bool {
	switch s {
	case ScopeGlobal:
		return true
	case ScopeParse:
		return phase == PhaseParsing
	case ScopeTransform:
		return phase == PhaseResolving
	default:
		return false
	}
}

// GenerateFunc produces a provider's extra context for one pending
// element.
type GenerateFunc func(pc *PendingContext) (map[string]any, error)

// Provider generates additional template context keyed by pipeline scope.
// Its output lands in the context under the namespaced key returned by
// ContextKey, so it can never shadow an author-declared field.
type Provider struct {
	name     string
	scope    ProviderScope
	generate GenerateFunc
}

// NewGlobalProvider creates a provider that may run in every phase.
func NewGlobalProvider(name string, fn GenerateFunc) *Provider {
	return &Provider{name: name, scope: ScopeGlobal, generate: fn}
}

// NewParseProvider creates a provider restricted to the Parsing phase.
func NewParseProvider(name string, fn GenerateFunc) *Provider {
	return &Provider{name: name, scope: ScopeParse, generate: fn}
}

// NewTransformProvider creates a provider restricted to the Resolving
// phase.
func NewTransformProvider(name string, fn GenerateFunc) *Provider {
	return &Provider{name: name, scope: ScopeTransform, generate: fn}
}

// Name returns the provider's registered name.
func (p *Provider) Name() string { return p.name }

// Scope returns the provider's pipeline scope.
func (p *Provider) Scope() ProviderScope { return p.scope }

// ContextKey returns the namespaced context key the provider's output is
// merged under.
func (p *Provider) ContextKey() string { return ExtraContextPrefix + p.name }

// Generate runs the provider for one pending element. Invoking a provider
// during a phase its scope does not allow fails with a phase-violation
// error.
func (p *Provider) Generate(pc *PendingContext) (map[string]any, error) {
	if !p.scope.allows(pc.Phase()) {
		return nil, NewPhaseViolationError(p.name, p.scope, pc.Phase())
	}
	out, err := p.generate(pc)
	if err != nil {
		return nil, NewProviderError(p.name, err)
	}
	return out, nil
}

// ProviderSet holds the registered providers of one Engine, in
// registration order, and caches Global provider output.
type ProviderSet struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	providers map[string]*Provider
	order     []string
	cache     map[string]map[string]any
}

// NewProviderSet creates an empty provider set.
func NewProviderSet(logger *zap.Logger) *ProviderSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderSet{
		logger:    logger,
		providers: make(map[string]*Provider),
		cache:     make(map[string]map[string]any),
	}
}

// Register adds a provider. A duplicate name fails with a
// duplicate-registration error; the first registration stays active.
func (ps *ProviderSet) Register(p *Provider) error {
	if p == nil || p.name == "" {
		return NewEmptyNameError(NamespaceProvider)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.providers[p.name]; exists {
		ps.logger.Warn(LogMsgProviderCollision, zap.String(LogFieldProvider, p.name))
		return NewRegistrationError(NamespaceProvider, p.name)
	}
	ps.providers[p.name] = p
	ps.order = append(ps.order, p.name)
	ps.logger.Debug(LogMsgProviderRegistered,
		zap.String(LogFieldProvider, p.name),
		zap.String(LogFieldScope, p.scope.String()),
	)
	return nil
}

// Get retrieves a provider by name.
func (ps *ProviderSet) Get(name string) (*Provider, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.providers[name]
	return p, ok
}

// Names returns registered provider names in registration order.
func (ps *ProviderSet) Names() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]string, len(ps.order))
	copy(out, ps.order)
	return out
}

// ordered returns the providers in registration order.
func (ps *ProviderSet) ordered() []*Provider {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]*Provider, 0, len(ps.order))
	for _, name := range ps.order {
		out = append(out, ps.providers[name])
	}
	return out
}

// transformKeys returns the context keys of transform-scoped providers in
// registration order. These keys become placeholders during Parsing.
func (ps *ProviderSet) transformKeys() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	var keys []string
	for _, name := range ps.order {
		if ps.providers[name].scope == ScopeTransform {
			keys = append(keys, ps.providers[name].ContextKey())
		}
	}
	return keys
}

// run invokes a provider for pc, serving Global providers from the
// process-lifetime cache.
func (ps *ProviderSet) run(p *Provider, pc *PendingContext) (map[string]any, error) {
	if p.scope == ScopeGlobal {
		ps.mu.RLock()
		cached, ok := ps.cache[p.name]
		ps.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	out, err := p.Generate(pc)
	if err != nil {
		return nil, err
	}

	if p.scope == ScopeGlobal {
		ps.mu.Lock()
		ps.cache[p.name] = out
		ps.mu.Unlock()
	}
	return out, nil
}

// Context keys produced by the built-in markup provider
const (
	MarkupKeyKind    = "kind"
	MarkupKeyDocname = "docname"
	MarkupKeyLine    = "line"
	MarkupKeyElement = "element"
)

// newMarkupProvider supplies the element's markup-level origin: directive
// or role kind, source document and line. Parse scope, since origin comes
// from parse-time state.
func newMarkupProvider() *Provider {
	return NewParseProvider(ProviderNameMarkup, func(pc *PendingContext) (map[string]any, error) {
		o := pc.Origin()
		return map[string]any{
			MarkupKeyKind:    o.Kind,
			MarkupKeyDocname: o.Docname,
			MarkupKeyLine:    o.Line,
			MarkupKeyElement: pc.ElementID(),
		}, nil
	})
}

// newBuildProvider exposes static build metadata supplied at engine
// construction. Global scope: computed once, valid everywhere.
func newBuildProvider(info map[string]any) *Provider {
	return NewGlobalProvider(ProviderNameBuild, func(*PendingContext) (map[string]any, error) {
		out := make(map[string]any, len(info))
		for k, v := range info {
			out[k] = v
		}
		return out, nil
	})
}
