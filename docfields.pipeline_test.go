package docfields

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// substRenderer stands in for the external template engine: it replaces
// {{key}} with the context value's default formatting. Placeholder values
// stringify to their tokens, exactly as a real engine would interpolate
// them.
func substRenderer(text string, ctx map[string]any) (string, error) {
	for k, v := range ctx {
		text = strings.ReplaceAll(text, "{{"+k+"}}", fmt.Sprint(v))
	}
	return text, nil
}

func pipelineFixture(t *testing.T, opts ...Option) (*Engine, *Pipeline, *Schema) {
	t.Helper()
	opts = append([]Option{
		WithRenderer(substRenderer),
		WithProvider(NewTransformProvider("doc", func(*PendingContext) (map[string]any, error) {
			return map[string]any{"backrefs": 3}, nil
		})),
	}, opts...)
	engine, err := New(opts...)
	require.NoError(t, err)

	schema, err := engine.Schema("recipe", "str, required",
		map[string]string{"servings": "int"}, "str")
	require.NoError(t, err)

	return engine, engine.NewPipeline(), schema
}

func TestPipeline_FullLifecycle(t *testing.T) {
	_, pl, schema := pipelineFixture(t)
	tmpl := NewTemplate("{{name}} serves {{servings}}, seen by {{_doc}}", PhaseParsing)

	pc, err := pl.Begin(RawData{
		Name:  "Pancakes",
		Attrs: map[string]string{"servings": "4"},
	}, Origin{Kind: PresetKindDirective, Docname: "food", Line: 3}, schema, tmpl)
	require.NoError(t, err)
	assert.Equal(t, PhaseParsing, pc.Phase())
	assert.Equal(t, 1, pl.PendingCount())

	// Rendered during Parsing: deferred key left as an opaque token.
	fragment, rendered := pc.Fragment()
	require.True(t, rendered)
	assert.Contains(t, fragment, "Pancakes serves 4")
	assert.Contains(t, fragment, PlaceholderTokenPrefix)

	require.NoError(t, pl.MarkParsed(pc))
	assert.Equal(t, PhaseParsed, pc.Phase())

	final, rc, err := pl.Resolve(pc)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes serves 4, seen by backrefs: 3", final)
	assert.Equal(t, PhaseResolved, pc.Phase())
	assert.Equal(t, 0, pl.PendingCount())

	v, ok := rc.Get("_doc")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"backrefs": 3}, v)
}

func TestPipeline_TokenSurvivesAdversarialRenderer(t *testing.T) {
	// A renderer that rewraps all text must not break the token.
	wrapping := func(text string, ctx map[string]any) (string, error) {
		out, err := substRenderer(text, ctx)
		if err != nil {
			return "", err
		}
		return ">> " + out + " <<", nil
	}
	_, pl, schema := pipelineFixture(t, WithRenderer(wrapping))
	tmpl := NewTemplate("refs: {{_doc}}", PhaseParsing)

	pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, tmpl)
	require.NoError(t, err)
	require.NoError(t, pl.MarkParsed(pc))

	final, _, err := pl.Resolve(pc)
	require.NoError(t, err)
	assert.Equal(t, ">> refs: backrefs: 3 <<", final)
}

func TestPipeline_UnresolvedPlaceholderIsFatal(t *testing.T) {
	_, pl, schema := pipelineFixture(t)
	tmpl := NewTemplate("needs {{_never}}", PhaseParsing)
	tmpl.Deferred = []string{"_never"}

	pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, tmpl)
	require.NoError(t, err)
	require.NoError(t, pl.MarkParsed(pc))

	_, _, err = pl.Resolve(pc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnresolvedPlaceholder)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	key, ok := customErr.GetMetadata(MetaKeyKey)
	assert.True(t, ok)
	assert.Equal(t, "_never", key)
	element, ok := customErr.GetMetadata(MetaKeyElement)
	assert.True(t, ok)
	assert.Equal(t, pc.ElementID(), element)

	// The element is gone; nothing to retry.
	assert.Equal(t, 0, pl.PendingCount())
}

func TestPipeline_PhaseOrder(t *testing.T) {
	t.Run("cannot skip parsed", func(t *testing.T) {
		_, pl, schema := pipelineFixture(t)
		pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
		require.NoError(t, err)

		_, _, err = pl.Resolve(pc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgPhaseOrder)
	})

	t.Run("cannot mark parsed twice", func(t *testing.T) {
		_, pl, schema := pipelineFixture(t)
		pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
		require.NoError(t, err)

		require.NoError(t, pl.MarkParsed(pc))
		err = pl.MarkParsed(pc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgPhaseOrder)
	})

	t.Run("cannot resolve twice", func(t *testing.T) {
		_, pl, schema := pipelineFixture(t)
		pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
		require.NoError(t, err)
		require.NoError(t, pl.MarkParsed(pc))

		_, _, err = pl.Resolve(pc)
		require.NoError(t, err)
		_, _, err = pl.Resolve(pc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgPhaseOrder)
	})
}

func TestPipeline_SchemaFailureAbortsElementOnly(t *testing.T) {
	_, pl, schema := pipelineFixture(t)

	_, err := pl.Begin(RawData{
		Name:  "x",
		Attrs: map[string]string{"servings": "plenty"},
	}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgSchemaValidation)
	assert.Equal(t, 0, pl.PendingCount())

	// The pipeline keeps accepting elements.
	_, err = pl.Begin(RawData{Name: "y"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.NoError(t, err)
}

func TestPipeline_MaxPending(t *testing.T) {
	_, pl, schema := pipelineFixture(t, WithMaxPending(1))

	_, err := pl.Begin(RawData{Name: "a"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.NoError(t, err)

	_, err = pl.Begin(RawData{Name: "b"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgTooManyPending)
}

func TestPipeline_MarkupProviderContext(t *testing.T) {
	_, pl, schema := pipelineFixture(t)

	pc, err := pl.Begin(RawData{Name: "x"},
		Origin{Kind: PresetKindRole, Docname: "api/ref", Line: 7},
		schema, NewTemplate("t", PhaseParsing))
	require.NoError(t, err)

	ctx := pc.Context()
	markup, ok := ctx[ExtraContextPrefix+ProviderNameMarkup].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, PresetKindRole, markup[MarkupKeyKind])
	assert.Equal(t, "api/ref", markup[MarkupKeyDocname])
	assert.Equal(t, 7, markup[MarkupKeyLine])
}

func TestPipeline_AuthorKeysAreNeverOverridden(t *testing.T) {
	engine, err := New(
		WithRenderer(substRenderer),
		WithProvider(NewParseProvider("servings", func(*PendingContext) (map[string]any, error) {
			return map[string]any{"stolen": true}, nil
		})),
	)
	require.NoError(t, err)

	schema, err := engine.Schema("recipe", "str",
		map[string]string{"_servings": "str"}, "")
	require.NoError(t, err)

	pl := engine.NewPipeline()
	pc, err := pl.Begin(RawData{
		Name:  "x",
		Attrs: map[string]string{"_servings": "four"},
	}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.NoError(t, err)

	ctx := pc.Context()
	assert.Equal(t, "four", ctx["_servings"])
}

func TestPipeline_LateTemplatePhases(t *testing.T) {
	t.Run("parsed-phase template renders at MarkParsed", func(t *testing.T) {
		_, pl, schema := pipelineFixture(t)
		pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema,
			NewTemplate("hello {{name}}", PhaseParsed))
		require.NoError(t, err)

		_, rendered := pc.Fragment()
		assert.False(t, rendered)

		require.NoError(t, pl.MarkParsed(pc))
		fragment, rendered := pc.Fragment()
		assert.True(t, rendered)
		assert.Equal(t, "hello x", fragment)
	})

	t.Run("resolving-phase template sees real values, no tokens", func(t *testing.T) {
		_, pl, schema := pipelineFixture(t)
		pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema,
			NewTemplate("refs {{_doc}}", PhaseResolving))
		require.NoError(t, err)
		require.NoError(t, pl.MarkParsed(pc))

		final, _, err := pl.Resolve(pc)
		require.NoError(t, err)
		assert.Equal(t, "refs map[backrefs:3]", final)
		assert.NotContains(t, final, PlaceholderTokenPrefix)
	})
}

func TestPipeline_ProviderFailureDiscardsElement(t *testing.T) {
	failing := NewTransformProvider("flaky", func(*PendingContext) (map[string]any, error) {
		return nil, errors.New("backend gone")
	})
	_, pl, schema := pipelineFixture(t, WithProvider(failing))

	pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.NoError(t, err)
	require.NoError(t, pl.MarkParsed(pc))

	_, _, err = pl.Resolve(pc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgProviderFailed)
	assert.Equal(t, 0, pl.PendingCount())
}

func TestPipeline_RenderFailure(t *testing.T) {
	broken := func(string, map[string]any) (string, error) {
		return "", errors.New("template exploded")
	}
	_, pl, schema := pipelineFixture(t, WithRenderer(broken))

	_, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgRenderFailed)
}

func TestPipeline_InterleavedElements(t *testing.T) {
	_, pl, schema := pipelineFixture(t)
	tmpl := NewTemplate("{{name}}/{{_doc}}", PhaseParsing)

	a, err := pl.Begin(RawData{Name: "a"}, Origin{}, schema, tmpl)
	require.NoError(t, err)
	b, err := pl.Begin(RawData{Name: "b"}, Origin{}, schema, tmpl)
	require.NoError(t, err)
	assert.Equal(t, 2, pl.PendingCount())

	require.NoError(t, pl.MarkParsed(b))
	require.NoError(t, pl.MarkParsed(a))

	finalB, _, err := pl.Resolve(b)
	require.NoError(t, err)
	finalA, _, err := pl.Resolve(a)
	require.NoError(t, err)

	assert.Equal(t, "b/backrefs: 3", finalB)
	assert.Equal(t, "a/backrefs: 3", finalA)
}

func TestResolvedContext_Immutable(t *testing.T) {
	_, pl, schema := pipelineFixture(t)
	pc, err := pl.Begin(RawData{Name: "x"}, Origin{}, schema, NewTemplate("t", PhaseParsing))
	require.NoError(t, err)
	require.NoError(t, pl.MarkParsed(pc))

	_, rc, err := pl.Resolve(pc)
	require.NoError(t, err)

	m := rc.Map()
	m[ContextKeyName] = "tampered"

	v, ok := rc.Get(ContextKeyName)
	require.True(t, ok)
	assert.Equal(t, "x", v)

	assert.Contains(t, rc.Keys(), ContextKeyName)
	assert.Equal(t, rc.Len(), len(rc.Map()))
}
