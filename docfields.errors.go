package docfields

import (
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Registry errors
	ErrMsgDuplicateName = "name already registered in namespace"
	ErrMsgEmptyName     = "registration name cannot be empty"
	ErrMsgUnknownType   = "unknown type name"

	// DSL syntax errors
	ErrMsgNoTypeModifier        = "field declaration has no type modifier"
	ErrMsgMultipleTypeModifiers = "field declaration has more than one type modifier"
	ErrMsgMultipleFormModifiers = "field declaration has more than one form modifier"
	ErrMsgUnknownModifier       = "unknown modifier"

	// Value errors
	ErrMsgValueParse  = "value conversion failed"
	ErrMsgBoolLiteral = "invalid boolean literal"

	// Schema errors
	ErrMsgSchemaValidation  = "schema validation failed"
	ErrMsgMissingRequired   = "required field missing"
	ErrMsgUnknownAttribute  = "unknown attribute"
	ErrMsgNoArgumentAllowed = "no argument is allowed"
	ErrMsgSchemaSetDecode   = "schema set decoding failed"

	// Phase errors
	ErrMsgPhaseViolation = "provider invoked outside its allowed phase"
	ErrMsgPhaseOrder     = "invalid phase transition"

	// Resolution errors
	ErrMsgUnresolvedPlaceholder = "placeholder never resolved"
	ErrMsgProviderFailed        = "extra-context provider failed"
	ErrMsgRenderFailed          = "template rendering failed"
	ErrMsgTooManyPending        = "too many pending elements"

	// Config errors
	ErrMsgConfigLoad = "configuration loading failed"
)

// Error code constants for categorization
const (
	ErrCodeRegistry = "DOCFIELDS_REGISTRY"
	ErrCodeDSL      = "DOCFIELDS_DSL"
	ErrCodeValue    = "DOCFIELDS_VALUE"
	ErrCodeSchema   = "DOCFIELDS_SCHEMA"
	ErrCodePhase    = "DOCFIELDS_PHASE"
	ErrCodeResolve  = "DOCFIELDS_RESOLVE"
	ErrCodeConfig   = "DOCFIELDS_CONFIG"
)

// NewRegistrationError creates a duplicate-registration error.
// The first registration under the colliding name stays active.
func NewRegistrationError(namespace, name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgDuplicateName).
		WithMetadata(MetaKeyNamespace, namespace).
		WithMetadata(MetaKeyName, name)
}

// NewEmptyNameError creates an error for registration with an empty name.
func NewEmptyNameError(namespace string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyName).
		WithMetadata(MetaKeyNamespace, namespace)
}

// NewUnknownTypeError creates an error for a reference to an unregistered type.
func NewUnknownTypeError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyType, ErrMsgUnknownType).
		WithMetadata(MetaKeyName, name)
}

// NewNoTypeModifierError creates a DSL syntax error for a declaration
// without a type modifier.
func NewNoTypeModifierError(dsl string) error {
	return cuserr.NewValidationError(ErrCodeDSL, ErrMsgNoTypeModifier).
		WithMetadata(MetaKeyDSL, dsl)
}

// NewMultipleTypeModifiersError creates a DSL syntax error for a declaration
// with more than one type modifier.
func NewMultipleTypeModifiersError(dsl string) error {
	return cuserr.NewValidationError(ErrCodeDSL, ErrMsgMultipleTypeModifiers).
		WithMetadata(MetaKeyDSL, dsl)
}

// NewMultipleFormModifiersError creates a DSL syntax error for a declaration
// with more than one form modifier.
func NewMultipleFormModifiersError(dsl string) error {
	return cuserr.NewValidationError(ErrCodeDSL, ErrMsgMultipleFormModifiers).
		WithMetadata(MetaKeyDSL, dsl)
}

// NewUnknownModifierError creates a DSL syntax error for a token that matches
// no registered type, form, flag or by-option.
func NewUnknownModifierError(modifier, dsl string) error {
	return cuserr.NewNotFoundError(MetaKeyModifier, ErrMsgUnknownModifier).
		WithMetadata(MetaKeyModifier, modifier).
		WithMetadata(MetaKeyDSL, dsl)
}

// NewValueParseError creates a per-value conversion error. Recoverable:
// Schema aggregates these instead of aborting.
func NewValueParseError(raw, typeName string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeValue, ErrMsgValueParse)
	} else {
		err = cuserr.NewValidationError(ErrCodeValue, ErrMsgValueParse)
	}
	return err.
		WithMetadata(MetaKeyRaw, raw).
		WithMetadata(MetaKeyType, typeName)
}

// NewSchemaValidationError wraps the aggregated field-level failures of one
// Schema.Apply call.
func NewSchemaValidationError(schema string, count int, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeSchema, ErrMsgSchemaValidation).
		WithMetadata(MetaKeySchema, schema).
		WithMetadata(MetaKeyErrors, strconv.Itoa(count))
}

// NewMissingRequiredError creates an error for an absent required field.
func NewMissingRequiredError(field string) error {
	return cuserr.NewValidationError(ErrCodeSchema, ErrMsgMissingRequired).
		WithMetadata(MetaKeyField, field)
}

// NewUnknownAttributeError creates a strict-mode error for an attribute the
// schema does not declare.
func NewUnknownAttributeError(attr string) error {
	return cuserr.NewValidationError(ErrCodeSchema, ErrMsgUnknownAttribute).
		WithMetadata(MetaKeyAttribute, attr)
}

// NewNoArgumentAllowedError creates an error for a supplied value on a field
// the schema declares as absent.
func NewNoArgumentAllowedError(field, raw string) error {
	return cuserr.NewValidationError(ErrCodeSchema, ErrMsgNoArgumentAllowed).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyRaw, raw)
}

// NewSchemaSetDecodeError wraps a YAML schema-set decoding failure.
func NewSchemaSetDecodeError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeSchema, ErrMsgSchemaSetDecode)
}

// NewPhaseViolationError creates an error for a provider invoked outside its
// allowed phase. This is a programming error in extension code and should
// abort immediately.
func NewPhaseViolationError(provider string, scope ProviderScope, phase Phase) error {
	return cuserr.NewValidationError(ErrCodePhase, ErrMsgPhaseViolation).
		WithMetadata(MetaKeyProvider, provider).
		WithMetadata(MetaKeyScope, scope.String()).
		WithMetadata(MetaKeyPhase, phase.String())
}

// NewPhaseOrderError creates an error for a skipped or backward phase
// transition.
func NewPhaseOrderError(from, to Phase) error {
	return cuserr.NewValidationError(ErrCodePhase, ErrMsgPhaseOrder).
		WithMetadata(MetaKeyFromPhase, from.String()).
		WithMetadata(MetaKeyToPhase, to.String())
}

// NewUnresolvedPlaceholderError creates a terminal-phase error for a
// placeholder no provider ever supplied. Fatal for the document element;
// surfaces the element's identity and the missing key.
func NewUnresolvedPlaceholderError(element, key string) error {
	return cuserr.NewValidationError(ErrCodeResolve, ErrMsgUnresolvedPlaceholder).
		WithMetadata(MetaKeyElement, element).
		WithMetadata(MetaKeyKey, key)
}

// NewProviderError wraps a failure inside a provider's generate function.
func NewProviderError(provider string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeResolve, ErrMsgProviderFailed).
		WithMetadata(MetaKeyProvider, provider)
}

// NewRenderError wraps a failure of the external markup renderer.
func NewRenderError(element string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeResolve, ErrMsgRenderFailed).
		WithMetadata(MetaKeyElement, element)
}

// NewTooManyPendingError creates an error for exceeding the pipeline's
// pending-element cap.
func NewTooManyPendingError(pending int) error {
	return cuserr.NewValidationError(ErrCodeResolve, ErrMsgTooManyPending).
		WithMetadata(MetaKeyPending, strconv.Itoa(pending))
}

// NewConfigLoadError wraps a configuration file loading failure.
func NewConfigLoadError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgConfigLoad).
		WithMetadata(MetaKeyPath, path)
}
