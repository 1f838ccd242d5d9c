package docfields

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultMaxPending caps how many elements a pipeline may hold in flight
// before Begin refuses new ones. Use 0 for unlimited.
const DefaultMaxPending = 10000

// Configuration keys
const (
	ConfigKeyTemplateDebug    = "template_debug"
	ConfigKeyStrictValidation = "strict_validation"
	ConfigKeyMaxPending       = "max_pending"
)

// Config holds the engine settings that can come from a configuration
// file. Values set through functional options win over file values.
type Config struct {
	// TemplateDebug logs the context keys and fragment size of every
	// template render.
	TemplateDebug bool `koanf:"template_debug"`
	// StrictValidation makes unknown attributes a schema error instead of
	// a logged skip.
	StrictValidation bool `koanf:"strict_validation"`
	// MaxPending caps in-flight pipeline elements. 0 disables the cap.
	MaxPending int `koanf:"max_pending"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		TemplateDebug:    false,
		StrictValidation: false,
		MaxPending:       DefaultMaxPending,
	}
}

// Mode translates the strictness toggle into a ValidationMode.
func (c Config) Mode() ValidationMode {
	if c.StrictValidation {
		return ValidationStrict
	}
	return ValidationLenient
}

// LoadConfig reads a YAML configuration file, merging file values over the
// built-in defaults.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	defaults := confmap.Provider(map[string]interface{}{
		ConfigKeyTemplateDebug:    false,
		ConfigKeyStrictValidation: false,
		ConfigKeyMaxPending:       DefaultMaxPending,
	}, ".")
	if err := k.Load(defaults, nil); err != nil {
		return Config{}, NewConfigLoadError(path, err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, NewConfigLoadError(path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, NewConfigLoadError(path, err)
	}
	return cfg, nil
}
