package docfields

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Origin records where in the host document an element was declared. It
// feeds the built-in markup provider; the core never reads it otherwise.
type Origin struct {
	// Kind of markup construct, e.g. "directive" or "role".
	Kind string
	// Docname of the source document.
	Docname string
	// Line number within the source document, 1-indexed.
	Line int
}

// PendingContext is the pipeline's per-element state for the lifetime of
// one document element's rendering: the raw data, the current phase, the
// context resolved so far (values or placeholders) and the rendered
// fragment. It is never shared across elements.
type PendingContext struct {
	id     string
	raw    RawData
	origin Origin
	schema *Schema
	tmpl   *Template

	phase        Phase
	parsed       *ParsedData
	draft        map[string]any
	placeholders map[string]*placeholder
	fragment     string
	rendered     bool
	resolved     *ResolvedContext
}

// ElementID returns the pipeline-assigned unique element identifier.
func (pc *PendingContext) ElementID() string { return pc.id }

// Phase returns the element's current pipeline phase.
func (pc *PendingContext) Phase() Phase { return pc.phase }

// Raw returns the element's raw data as captured from markup.
func (pc *PendingContext) Raw() RawData { return pc.raw }

// Origin returns the element's markup origin.
func (pc *PendingContext) Origin() Origin { return pc.origin }

// Parsed returns the typed data produced by the schema.
func (pc *PendingContext) Parsed() *ParsedData { return pc.parsed }

// Fragment returns the rendered text as of the current phase and whether
// the template has rendered yet. Before Resolved it may contain
// placeholder tokens.
func (pc *PendingContext) Fragment() (string, bool) {
	return pc.fragment, pc.rendered
}

// Context returns a copy of the context resolved so far. Deferred keys
// hold opaque placeholder values until Resolving settles them.
func (pc *PendingContext) Context() map[string]any {
	out := make(map[string]any, len(pc.draft))
	for k, v := range pc.draft {
		out[k] = v
	}
	return out
}

// Resolved returns the final context once the element has reached the
// Resolved phase.
func (pc *PendingContext) Resolved() (*ResolvedContext, bool) {
	return pc.resolved, pc.resolved != nil
}

// ResolvedContext is the terminal artifact handed to the template engine:
// an immutable mapping with no outstanding placeholders.
type ResolvedContext struct {
	data map[string]any
}

func newResolvedContext(src map[string]any) *ResolvedContext {
	data := make(map[string]any, len(src))
	for k, v := range src {
		data[k] = v
	}
	return &ResolvedContext{data: data}
}

// Get retrieves a context value by key.
func (rc *ResolvedContext) Get(key string) (any, bool) {
	v, ok := rc.data[key]
	return v, ok
}

// Keys returns all context keys, sorted.
func (rc *ResolvedContext) Keys() []string {
	keys := make([]string, 0, len(rc.data))
	for k := range rc.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of context entries.
func (rc *ResolvedContext) Len() int { return len(rc.data) }

// Map returns a copy of the context as a plain map.
func (rc *ResolvedContext) Map() map[string]any {
	out := make(map[string]any, len(rc.data))
	for k, v := range rc.data {
		out[k] = v
	}
	return out
}

// Pipeline advances document elements through the build phases. It owns
// one PendingContext per element; phase transitions are triggered by the
// host framework's build events, never scheduled by the pipeline itself.
// Elements are independent: pipelines for multiple elements may
// interleave across phases without shared mutable state.
type Pipeline struct {
	engine *Engine

	mu      sync.Mutex
	pending map[string]*PendingContext
}

// NewPipeline creates a pipeline for one build run.
func (e *Engine) NewPipeline() *Pipeline {
	return &Pipeline{
		engine:  e,
		pending: make(map[string]*PendingContext),
	}
}

// PendingCount returns the number of elements not yet resolved.
func (pl *Pipeline) PendingCount() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.pending)
}

// Begin enters the Parsing phase for one element: applies the schema,
// merges Global and Parse provider output into the first-draft context,
// records a placeholder for every key that only becomes available later,
// and renders the template if its phase allows. Schema failures are
// recoverable: they abort this element only, never the build.
func (pl *Pipeline) Begin(raw RawData, origin Origin, schema *Schema, tmpl *Template) (*PendingContext, error) {
	cfg := pl.engine.config
	log := pl.engine.logger

	pc := &PendingContext{
		id:           uuid.NewString(),
		raw:          raw,
		origin:       origin,
		schema:       schema,
		tmpl:         tmpl,
		phase:        PhaseParsing,
		placeholders: make(map[string]*placeholder),
	}

	parsed, err := schema.Apply(raw, cfg.mode)
	if err != nil {
		log.Warn(LogMsgElementRejected,
			zap.String(LogFieldSchema, schema.Kind),
			zap.Error(err),
		)
		return nil, err
	}
	pc.parsed = parsed
	draft := parsed.AsContext()

	// Extra context never overrides an author-declared key.
	for _, p := range pl.engine.providers.ordered() {
		if p.scope == ScopeTransform {
			continue
		}
		out, err := pl.engine.providers.run(p, pc)
		if err != nil {
			return nil, err
		}
		key := p.ContextKey()
		if _, taken := draft[key]; taken {
			log.Debug(LogMsgExtraKeyDropped,
				zap.String(LogFieldProvider, p.name),
				zap.String(LogFieldKey, key),
			)
			continue
		}
		draft[key] = out
	}

	for _, key := range pl.deferredKeys(tmpl) {
		if _, taken := draft[key]; taken {
			continue
		}
		ph := newPlaceholder(pc.id, key)
		draft[key] = ph
		pc.placeholders[key] = ph
		log.Debug(LogMsgPlaceholderLeft,
			zap.String(LogFieldElement, pc.id),
			zap.String(LogFieldKey, key),
		)
	}
	pc.draft = draft

	if tmpl.Phase == PhaseParsing {
		if err := pl.render(pc); err != nil {
			return nil, err
		}
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	if cfg.maxPending > 0 && len(pl.pending) >= cfg.maxPending {
		return nil, NewTooManyPendingError(len(pl.pending))
	}
	pl.pending[pc.id] = pc

	log.Debug(LogMsgElementBegun,
		zap.String(LogFieldElement, pc.id),
		zap.String(LogFieldSchema, schema.Kind),
	)
	return pc, nil
}

// deferredKeys lists the context keys that cannot be computed before
// Resolving: every transform provider's key plus the template's own
// declared deferred keys.
func (pl *Pipeline) deferredKeys(tmpl *Template) []string {
	keys := pl.engine.providers.transformKeys()
	return append(keys, tmpl.Deferred...)
}

// MarkParsed advances an element from Parsing to Parsed. The host calls
// this when the element's source has been fully read. Templates whose
// phase is Parsed render here.
func (pl *Pipeline) MarkParsed(pc *PendingContext) error {
	if pc.phase != PhaseParsing {
		return NewPhaseOrderError(pc.phase, PhaseParsed)
	}
	pc.phase = PhaseParsed

	if !pc.rendered && pc.tmpl.Phase <= PhaseParsed {
		if err := pl.render(pc); err != nil {
			return err
		}
	}
	pl.engine.logger.Debug(LogMsgElementParsed, zap.String(LogFieldElement, pc.id))
	return nil
}

// Resolve advances an element through Resolving to the terminal Resolved
// phase: runs the transform providers, splices every settled placeholder's
// rendered form into the stored fragment, and returns the final text plus
// the immutable ResolvedContext. A placeholder no provider supplied is
// fatal for this element — there is no phase after Resolving to try again.
func (pl *Pipeline) Resolve(pc *PendingContext) (string, *ResolvedContext, error) {
	if pc.phase != PhaseParsed {
		return "", nil, NewPhaseOrderError(pc.phase, PhaseResolving)
	}
	pc.phase = PhaseResolving
	log := pl.engine.logger

	for _, p := range pl.engine.providers.ordered() {
		if p.scope != ScopeTransform {
			continue
		}
		out, err := pl.engine.providers.run(p, pc)
		if err != nil {
			pl.discard(pc)
			return "", nil, err
		}
		key := p.ContextKey()
		ph, deferred := pc.placeholders[key]
		if !deferred {
			if _, taken := pc.draft[key]; !taken {
				pc.draft[key] = out
			}
			continue
		}
		pc.draft[key] = out
		delete(pc.placeholders, key)
		if pc.rendered {
			pc.fragment = strings.ReplaceAll(pc.fragment, ph.Token(), pl.splice(out))
		}
		log.Debug(LogMsgPlaceholderFilled,
			zap.String(LogFieldElement, pc.id),
			zap.String(LogFieldKey, key),
		)
	}

	if len(pc.placeholders) > 0 {
		keys := make([]string, 0, len(pc.placeholders))
		for key := range pc.placeholders {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pl.discard(pc)
		return "", nil, NewUnresolvedPlaceholderError(pc.id, keys[0])
	}

	if !pc.rendered {
		if err := pl.render(pc); err != nil {
			pl.discard(pc)
			return "", nil, err
		}
	}

	pc.phase = PhaseResolved
	pc.resolved = newResolvedContext(pc.draft)
	pl.discard(pc)

	log.Debug(LogMsgElementResolved,
		zap.String(LogFieldElement, pc.id),
		zap.Int(LogFieldFragment, len(pc.fragment)),
	)
	return pc.fragment, pc.resolved, nil
}

// render hands the draft context to the external renderer and stores the
// produced fragment.
func (pl *Pipeline) render(pc *PendingContext) error {
	ctx := pc.Context()
	text, err := pc.tmpl.Render(pl.engine.renderer, ctx)
	if err != nil {
		return NewRenderError(pc.id, err)
	}
	pc.fragment = text
	pc.rendered = true

	if pl.engine.config.templateDebug {
		keys := make([]string, 0, len(ctx))
		for k := range ctx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pl.engine.logger.Debug(LogMsgTemplateRendered,
			zap.String(LogFieldElement, pc.id),
			zap.String(LogFieldPhase, pc.phase.String()),
			zap.Strings(LogFieldKey, keys),
			zap.Int(LogFieldFragment, len(text)),
		)
	}
	return nil
}

// splice renders a resolved value into the text form substituted for a
// placeholder token.
func (pl *Pipeline) splice(v any) string {
	reg := pl.engine.registry
	switch val := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = pl.splice(elem)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + pl.splice(val[k])
		}
		return strings.Join(parts, ", ")
	default:
		return reg.Stringify(val)
	}
}

// discard drops an element from the pending table, either because it
// resolved or because an unrecoverable error aborted it.
func (pl *Pipeline) discard(pc *PendingContext) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	delete(pl.pending, pc.id)
}
