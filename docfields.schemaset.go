package docfields

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// SchemaDecl is the YAML shape of one schema declaration: every slot is a
// DSL string, attributes keyed by name. Empty strings mean "slot absent".
type SchemaDecl struct {
	Name    string            `yaml:"name,omitempty"`
	Attrs   map[string]string `yaml:"attrs,omitempty"`
	AnyAttr string            `yaml:"anyattr,omitempty"`
	Content string            `yaml:"content,omitempty"`
}

// SchemaSet maps element kinds to their schemas, typically the full
// contract of one extension loaded from a YAML document.
type SchemaSet map[string]*Schema

// LoadSchemaSet decodes a YAML document of schema declarations and builds
// every schema against reg. The document maps element kinds to SchemaDecl
// shapes:
//
//	topic:
//	  name: "str, required"
//	  attrs:
//	    tags: "list of str"
//	  content: "str"
func LoadSchemaSet(reg *Registry, data []byte) (SchemaSet, error) {
	var decls map[string]SchemaDecl
	if err := yaml.Unmarshal(data, &decls); err != nil {
		return nil, NewSchemaSetDecodeError(err)
	}

	set := make(SchemaSet, len(decls))
	for kind, decl := range decls {
		schema, err := SchemaFromDecl(reg, kind, decl)
		if err != nil {
			return nil, err
		}
		set[kind] = schema
	}
	return set, nil
}

// SchemaFromDecl builds one Schema from its declaration shape.
func SchemaFromDecl(reg *Registry, kind string, decl SchemaDecl) (*Schema, error) {
	schema, err := SchemaFromDSL(reg, kind, decl.Name, decl.Attrs, decl.Content)
	if err != nil {
		return nil, err
	}
	if decl.AnyAttr != "" {
		anyattr, err := FieldFromDSL(reg, decl.AnyAttr)
		if err != nil {
			return nil, withFieldMeta(err, ContextKeyAttrs)
		}
		schema.AnyAttr = anyattr
	}
	return schema, nil
}

// Decl reduces a Schema back to its declaration shape, using each field's
// original DSL text.
func (s *Schema) Decl() SchemaDecl {
	decl := SchemaDecl{}
	if s.Name != nil {
		decl.Name = s.Name.DSL()
	}
	if len(s.Attrs) > 0 {
		decl.Attrs = make(map[string]string, len(s.Attrs))
		for attr, field := range s.Attrs {
			decl.Attrs[attr] = field.DSL()
		}
	}
	if s.AnyAttr != nil {
		decl.AnyAttr = s.AnyAttr.DSL()
	}
	if s.Content != nil {
		decl.Content = s.Content.DSL()
	}
	return decl
}

// DumpSchemaSet encodes a schema set back to its YAML document form, the
// round-trip counterpart of LoadSchemaSet. Kinds are emitted in sorted
// order.
func DumpSchemaSet(set SchemaSet) ([]byte, error) {
	kinds := make([]string, 0, len(set))
	for kind := range set {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, kind := range kinds {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: kind}
		val := &yaml.Node{}
		if err := val.Encode(set[kind].Decl()); err != nil {
			return nil, NewSchemaSetDecodeError(err)
		}
		root.Content = append(root.Content, key, val)
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, NewSchemaSetDecodeError(err)
	}
	return out, nil
}
