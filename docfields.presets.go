package docfields

// Element kinds used by the preset schemas.
const (
	PresetKindDirective = "directive"
	PresetKindRole      = "role"
)

// Fallback template bodies, rendered when an extension declares data
// without a template of its own. Expression syntax belongs to the
// external renderer.
const (
	directiveTemplateText = `.. note::

   This is a default template for rendering the declared data.
   Define a template of your own to replace it.

:Name: ` + "``{{ name or 'None' }}``" + `
{% for k, v in attrs.items() %}
:{{ k }}: ` + "``{{ v or 'None' }}``" + `
{%- endfor %}
:content:
    ::

        {{ content or 'None' }}`

	roleTemplateText = "``{{ content or 'None' }}``"
)

// DirectiveSchema returns the permissive default schema for directive-like
// elements: an optional string name, any attribute accepted as a string,
// string content.
func DirectiveSchema(reg *Registry) *Schema {
	return &Schema{
		Kind:    PresetKindDirective,
		Name:    MustFieldFromDSL(reg, TypeNameStr),
		AnyAttr: MustFieldFromDSL(reg, TypeNameStr),
		Attrs:   map[string]*Field{},
		Content: MustFieldFromDSL(reg, TypeNameStr),
	}
}

// DirectiveTemplate returns the fallback template for directive-like
// elements. It needs no deferred context, so it renders during Parsing.
func DirectiveTemplate() *Template {
	return NewTemplate(directiveTemplateText, PhaseParsing)
}

// RoleSchema returns the default schema for role-like elements: no name,
// no attributes, string content.
func RoleSchema(reg *Registry) *Schema {
	return &Schema{
		Kind:    PresetKindRole,
		Attrs:   map[string]*Field{},
		Content: MustFieldFromDSL(reg, TypeNameStr),
	}
}

// RoleTemplate returns the fallback template for role-like elements.
func RoleTemplate() *Template {
	return NewTemplate(roleTemplateText, PhaseParsing)
}
