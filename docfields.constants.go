package docfields

// Built-in type names and aliases
const (
	TypeNameBool    = "bool"
	TypeAliasFlag   = "flag"
	TypeNameInt     = "int"
	TypeAliasInt    = "integer"
	TypeNameFloat   = "float"
	TypeAliasNumber = "number"
	TypeAliasNum    = "num"
	TypeNameStr     = "str"
	TypeAliasString = "string"
)

// Built-in form names
const (
	FormNameList  = "list"
	FormNameLines = "lines"
	FormNameWords = "words"
	FormNameSet   = "set"
)

// Built-in form separators. SepWhitespace means "any whitespace run".
const (
	SepComma      = ","
	SepNewline    = "\n"
	SepWhitespace = " "
)

// Built-in flag names and aliases
const (
	FlagNameRequired = "required"
	FlagAliasRequire = "require"
	FlagAliasReq     = "req"
)

// Built-in by-option names and aliases
const (
	ByOptionNameSep       = "sep"
	ByOptionAliasSeparate = "separate"
)

// DSL keywords connecting modifier parts
const (
	DSLKeywordOf = "of"
	DSLKeywordBy = "by"
)

// Registry namespace names, used in error metadata
const (
	NamespaceType     = "type"
	NamespaceForm     = "form"
	NamespaceFlag     = "flag"
	NamespaceByOption = "by-option"
	NamespaceProvider = "provider"
)

// Context key constants for the template variable namespace
const (
	ContextKeyName    = "name"
	ContextKeyAttrs   = "attrs"
	ContextKeyContent = "content"

	// ExtraContextPrefix namespaces provider-supplied keys so they can
	// never shadow an author-declared field.
	ExtraContextPrefix = "_"
)

// Built-in provider names
const (
	ProviderNameMarkup = "markup"
	ProviderNameBuild  = "build"
)

// Placeholder token delimiters. The token must survive the external
// template/render step unaltered, so it reuses a tag-like shape that no
// markup renderer rewrites.
const (
	PlaceholderTokenPrefix = `{~docfields.pending id="`
	PlaceholderTokenSuffix = `" /~}`
)

// Metadata keys attached to errors
const (
	MetaKeyNamespace = "namespace"
	MetaKeyName      = "name"
	MetaKeyDSL       = "dsl"
	MetaKeyModifier  = "modifier"
	MetaKeyField     = "field"
	MetaKeyRaw       = "raw"
	MetaKeyType      = "type"
	MetaKeyAttribute = "attribute"
	MetaKeySchema    = "schema"
	MetaKeyErrors    = "error_count"
	MetaKeyElement   = "element"
	MetaKeyKey       = "key"
	MetaKeyProvider  = "provider"
	MetaKeyScope     = "scope"
	MetaKeyPhase     = "phase"
	MetaKeyFromPhase = "from_phase"
	MetaKeyToPhase   = "to_phase"
	MetaKeyPending   = "pending"
	MetaKeyPath      = "path"
)

// Log message constants
const (
	LogMsgRegistryCreated    = "registry created"
	LogMsgTypeRegistered     = "type registered"
	LogMsgFormRegistered     = "form registered"
	LogMsgFlagRegistered     = "flag registered"
	LogMsgByOptionRegistered = "by-option registered"
	LogMsgNameCollision      = "duplicate registration rejected"
	LogMsgProviderRegistered = "provider registered"
	LogMsgProviderCollision  = "duplicate provider rejected"
	LogMsgExtraKeyDropped    = "extra context key dropped"
	LogMsgElementRejected    = "element rejected by schema"
	LogMsgElementBegun       = "element entered pipeline"
	LogMsgElementParsed      = "element marked parsed"
	LogMsgElementResolved    = "element resolved"
	LogMsgPlaceholderLeft    = "placeholder left in fragment"
	LogMsgPlaceholderFilled  = "placeholder resolved"
	LogMsgTemplateRendered   = "template rendered"
	LogMsgConfigLoaded       = "configuration loaded"
)

// Log field name constants
const (
	LogFieldName      = "name"
	LogFieldNamespace = "namespace"
	LogFieldElement   = "element"
	LogFieldSchema    = "schema"
	LogFieldKey       = "key"
	LogFieldProvider  = "provider"
	LogFieldPhase     = "phase"
	LogFieldScope     = "scope"
	LogFieldPath      = "path"
	LogFieldFragment  = "fragment_len"
)
