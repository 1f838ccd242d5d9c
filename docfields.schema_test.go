package docfields

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func testSchema(t *testing.T, reg *Registry) *Schema {
	t.Helper()
	schema, err := SchemaFromDSL(reg, "recipe",
		"str, required",
		map[string]string{
			"servings": "int",
			"tags":     "list of str",
			"draft":    "bool",
		},
		"str")
	require.NoError(t, err)
	return schema
}

func TestSchemaFromDSL(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)

	assert.Equal(t, "recipe", schema.Kind)
	assert.True(t, schema.Name.Required())
	assert.Len(t, schema.Attrs, 3)
	assert.Nil(t, schema.AnyAttr)
	assert.NotNil(t, schema.Content)
}

func TestSchemaFromDSL_EmptySlots(t *testing.T) {
	reg := NewRegistry(nil)

	schema, err := SchemaFromDSL(reg, "marker", "", nil, "")
	require.NoError(t, err)
	assert.Nil(t, schema.Name)
	assert.Empty(t, schema.Attrs)
	assert.Nil(t, schema.Content)
}

func TestSchemaFromDSL_BadDSLNamesField(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := SchemaFromDSL(reg, "recipe", "str",
		map[string]string{"servings": "sparkly"}, "")
	require.Error(t, err)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	field, ok := customErr.GetMetadata(MetaKeyField)
	assert.True(t, ok)
	assert.Equal(t, "servings", field)
}

func TestSchema_Apply(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)

	parsed, err := schema.Apply(RawData{
		Name: "Pancakes",
		Attrs: map[string]string{
			"servings": "4",
			"tags":     "breakfast, sweet",
			"draft":    "",
		},
		Content: "Mix and fry.",
	}, ValidationLenient)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", parsed.Name)
	assert.Equal(t, 4, parsed.Attrs["servings"])
	assert.Equal(t, []Value{"breakfast", "sweet"}, parsed.Attrs["tags"])
	assert.Equal(t, true, parsed.Attrs["draft"])
	assert.Equal(t, "Mix and fry.", parsed.Content)
}

func TestSchema_Apply_AbsentOptionalAttrs(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)

	parsed, err := schema.Apply(RawData{Name: "Toast"}, ValidationLenient)
	require.NoError(t, err)

	assert.Nil(t, parsed.Attrs["servings"])
	assert.Equal(t, []Value{}, parsed.Attrs["tags"])
	assert.Equal(t, false, parsed.Attrs["draft"])
	assert.Nil(t, parsed.Content)
}

func TestSchema_Apply_MissingRequired(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)

	_, err := schema.Apply(RawData{}, ValidationLenient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMissingRequired)
}

func TestSchema_Apply_AggregatesAllFailures(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)

	_, err := schema.Apply(RawData{
		Attrs: map[string]string{
			"servings": "plenty",
			"draft":    "perhaps",
		},
	}, ValidationLenient)
	require.Error(t, err)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	count, ok := customErr.GetMetadata(MetaKeyErrors)
	assert.True(t, ok)
	assert.Equal(t, "3", count)

	assert.Len(t, multierr.Errors(errors.Unwrap(customErr)), 3)
}

func TestSchema_Apply_UnknownAttribute(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)
	raw := RawData{
		Name:  "Toast",
		Attrs: map[string]string{"color": "golden"},
	}

	t.Run("lenient skips", func(t *testing.T) {
		parsed, err := schema.Apply(raw, ValidationLenient)
		require.NoError(t, err)
		_, ok := parsed.Attrs["color"]
		assert.False(t, ok)
	})

	t.Run("strict fails", func(t *testing.T) {
		_, err := schema.Apply(raw, ValidationStrict)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnknownAttribute)
	})
}

func TestSchema_Apply_AnyAttr(t *testing.T) {
	reg := NewRegistry(nil)
	schema, err := SchemaFromDSL(reg, "env", "str", nil, "")
	require.NoError(t, err)
	schema.AnyAttr = MustFieldFromDSL(reg, "int")

	parsed, err := schema.Apply(RawData{
		Name:  "limits",
		Attrs: map[string]string{"cpu": "4", "mem": "2048"},
	}, ValidationStrict)
	require.NoError(t, err)

	assert.Equal(t, 4, parsed.Attrs["cpu"])
	assert.Equal(t, 2048, parsed.Attrs["mem"])
}

func TestSchema_Apply_NoArgumentAllowed(t *testing.T) {
	reg := NewRegistry(nil)
	schema, err := SchemaFromDSL(reg, "hr", "", nil, "")
	require.NoError(t, err)

	_, err = schema.Apply(RawData{Name: "unexpected"}, ValidationLenient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNoArgumentAllowed)
}

func TestSchema_Fields(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)

	fields := schema.Fields()
	keys := make([]string, len(fields))
	for i, nf := range fields {
		keys[i] = nf.Key
	}
	assert.Equal(t, []string{ContextKeyName, "draft", "servings", "tags", ContextKeyContent}, keys)
}

func TestSchema_Items(t *testing.T) {
	reg := NewRegistry(nil)
	schema := testSchema(t, reg)

	parsed, err := schema.Apply(RawData{
		Name:  "Pancakes",
		Attrs: map[string]string{"servings": "4"},
	}, ValidationLenient)
	require.NoError(t, err)

	items := schema.Items(parsed)
	require.Len(t, items, 5)
	assert.Equal(t, ContextKeyName, items[0].Key)
	assert.Equal(t, "Pancakes", items[0].Value)
	assert.Equal(t, "servings", items[2].Key)
	assert.Equal(t, 4, items[2].Value)
}

func TestParsedData_AsContext(t *testing.T) {
	t.Run("attrs lifted to top level", func(t *testing.T) {
		d := &ParsedData{
			Name:    "x",
			Attrs:   map[string]Value{"color": "red"},
			Content: "body",
		}
		ctx := d.AsContext()
		assert.Equal(t, "red", ctx["color"])
		assert.Equal(t, "x", ctx[ContextKeyName])
		assert.Equal(t, "body", ctx[ContextKeyContent])
	})

	t.Run("colliding attr never shadows", func(t *testing.T) {
		d := &ParsedData{
			Name:  "x",
			Attrs: map[string]Value{ContextKeyName: "shadow"},
		}
		ctx := d.AsContext()
		assert.Equal(t, "x", ctx[ContextKeyName])
		attrs := ctx[ContextKeyAttrs].(map[string]Value)
		assert.Equal(t, "shadow", attrs[ContextKeyName])
	})
}
