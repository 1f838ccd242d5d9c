package docfields

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	logger     *zap.Logger
	registry   *Registry
	renderer   RenderFunc
	providers  []*Provider
	buildInfo  map[string]any
	configFile string
	config     *Config

	// Per-setting overrides, applied after any config file. nil = unset.
	templateDebug *bool
	maxPending    *int
	mode          *ValidationMode
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		logger: nil,
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithRegistry supplies a pre-populated registry, e.g. one carrying custom
// types or flags. Default: a fresh registry with the built-ins.
func WithRegistry(reg *Registry) Option {
	return func(c *engineConfig) {
		c.registry = reg
	}
}

// WithRenderer sets the external template renderer.
// Default: PassthroughRenderer
func WithRenderer(render RenderFunc) Option {
	return func(c *engineConfig) {
		c.renderer = render
	}
}

// WithProvider registers an extra-context provider at construction.
// Repeatable; providers run in the order given, after the built-ins.
func WithProvider(p *Provider) Option {
	return func(c *engineConfig) {
		c.providers = append(c.providers, p)
	}
}

// WithValidationMode sets how schemas treat unknown attributes.
// Default: ValidationLenient
func WithValidationMode(mode ValidationMode) Option {
	return func(c *engineConfig) {
		c.mode = &mode
	}
}

// WithTemplateDebug toggles per-render debug logging.
// Default: false
func WithTemplateDebug(on bool) Option {
	return func(c *engineConfig) {
		c.templateDebug = &on
	}
}

// WithMaxPending caps in-flight pipeline elements. Use 0 for unlimited.
// Default: DefaultMaxPending
func WithMaxPending(n int) Option {
	return func(c *engineConfig) {
		c.maxPending = &n
	}
}

// WithBuildInfo supplies static build metadata, exposed to templates by
// the built-in build provider under the "_build" context key.
func WithBuildInfo(info map[string]any) Option {
	return func(c *engineConfig) {
		c.buildInfo = info
	}
}

// WithConfig supplies a complete Config, replacing the defaults and any
// config file values. Per-setting options still win.
func WithConfig(cfg Config) Option {
	return func(c *engineConfig) {
		c.config = &cfg
	}
}

// WithConfigFile loads engine settings from a YAML file during New. File
// values replace the defaults; per-setting options win over the file.
func WithConfigFile(path string) Option {
	return func(c *engineConfig) {
		c.configFile = path
	}
}
