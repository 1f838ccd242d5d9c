package docfields

import (
	"go.uber.org/zap"
)

// engineSettings is the resolved runtime configuration of an Engine,
// after defaults, config file and options have been merged.
type engineSettings struct {
	mode          ValidationMode
	templateDebug bool
	maxPending    int
}

// Engine is the main entry point for the docfields system. It owns the
// modifier registry, the extra-context providers and the renderer bridge,
// and hands out per-build pipelines.
type Engine struct {
	registry  *Registry
	providers *ProviderSet
	renderer  RenderFunc
	config    engineSettings
	logger    *zap.Logger
}

// New creates a new docfields Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	settings, err := resolveSettings(config, logger)
	if err != nil {
		return nil, err
	}

	registry := config.registry
	if registry == nil {
		registry = NewRegistry(logger)
	}

	providers := NewProviderSet(logger)
	if err := providers.Register(newMarkupProvider()); err != nil {
		return nil, err
	}
	if config.buildInfo != nil {
		if err := providers.Register(newBuildProvider(config.buildInfo)); err != nil {
			return nil, err
		}
	}
	for _, p := range config.providers {
		if err := providers.Register(p); err != nil {
			return nil, err
		}
	}

	return &Engine{
		registry:  registry,
		providers: providers,
		renderer:  config.renderer,
		config:    settings,
		logger:    logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// resolveSettings merges defaults, config file, explicit Config and
// per-setting options, in that order.
func resolveSettings(c *engineConfig, logger *zap.Logger) (engineSettings, error) {
	cfg := DefaultConfig()
	if c.configFile != "" {
		loaded, err := LoadConfig(c.configFile)
		if err != nil {
			return engineSettings{}, err
		}
		cfg = loaded
		logger.Debug(LogMsgConfigLoaded, zap.String(LogFieldPath, c.configFile))
	}
	if c.config != nil {
		cfg = *c.config
	}

	settings := engineSettings{
		mode:          cfg.Mode(),
		templateDebug: cfg.TemplateDebug,
		maxPending:    cfg.MaxPending,
	}
	if c.mode != nil {
		settings.mode = *c.mode
	}
	if c.templateDebug != nil {
		settings.templateDebug = *c.templateDebug
	}
	if c.maxPending != nil {
		settings.maxPending = *c.maxPending
	}
	return settings, nil
}

// Registry returns the engine's modifier registry, for registering custom
// types, forms, flags and by-options.
func (e *Engine) Registry() *Registry { return e.registry }

// Providers returns the engine's provider set.
func (e *Engine) Providers() *ProviderSet { return e.providers }

// ValidationMode returns the engine's schema validation mode.
func (e *Engine) ValidationMode() ValidationMode { return e.config.mode }

// Field builds a Field from its DSL against the engine's registry.
func (e *Engine) Field(dsl string) (*Field, error) {
	return FieldFromDSL(e.registry, dsl)
}

// Schema builds a Schema from per-slot DSLs against the engine's
// registry.
func (e *Engine) Schema(kind string, nameDSL string, attrDSLs map[string]string, contentDSL string) (*Schema, error) {
	return SchemaFromDSL(e.registry, kind, nameDSL, attrDSLs, contentDSL)
}
