package docfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderScope_Allows(t *testing.T) {
	phases := []Phase{PhaseParsing, PhaseParsed, PhaseResolving, PhaseResolved}

	t.Run("global allows every phase", func(t *testing.T) {
		for _, phase := range phases {
			assert.True(t, ScopeGlobal.allows(phase), phase.String())
		}
	})

	t.Run("parse allows only parsing", func(t *testing.T) {
		assert.True(t, ScopeParse.allows(PhaseParsing))
		assert.False(t, ScopeParse.allows(PhaseParsed))
		assert.False(t, ScopeParse.allows(PhaseResolving))
	})

	t.Run("transform allows only resolving", func(t *testing.T) {
		assert.False(t, ScopeTransform.allows(PhaseParsing))
		assert.False(t, ScopeTransform.allows(PhaseParsed))
		assert.True(t, ScopeTransform.allows(PhaseResolving))
	})
}

func TestProvider_ContextKey(t *testing.T) {
	p := NewParseProvider("markup", nil)
	assert.Equal(t, "_markup", p.ContextKey())
}

func TestProvider_Generate_PhaseViolation(t *testing.T) {
	p := NewTransformProvider("doc", func(*PendingContext) (map[string]any, error) {
		return map[string]any{}, nil
	})
	pc := &PendingContext{phase: PhaseParsing}

	_, err := p.Generate(pc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPhaseViolation)
}

func TestProvider_Generate_WrapsFailure(t *testing.T) {
	cause := errors.New("no database")
	p := NewParseProvider("doc", func(*PendingContext) (map[string]any, error) {
		return nil, cause
	})
	pc := &PendingContext{phase: PhaseParsing}

	_, err := p.Generate(pc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgProviderFailed)
	assert.True(t, errors.Is(err, cause))
}

func TestProviderSet_Register(t *testing.T) {
	ps := NewProviderSet(nil)

	t.Run("duplicate name rejected", func(t *testing.T) {
		require.NoError(t, ps.Register(NewGlobalProvider("build", nil)))
		err := ps.Register(NewParseProvider("build", nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgDuplicateName)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ps.Register(NewGlobalProvider("", nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyName)
	})

	t.Run("first registration stays active", func(t *testing.T) {
		p, ok := ps.Get("build")
		require.True(t, ok)
		assert.Equal(t, ScopeGlobal, p.Scope())
	})
}

func TestProviderSet_OrderAndTransformKeys(t *testing.T) {
	ps := NewProviderSet(nil)
	require.NoError(t, ps.Register(NewParseProvider("markup", nil)))
	require.NoError(t, ps.Register(NewTransformProvider("doc", nil)))
	require.NoError(t, ps.Register(NewTransformProvider("refs", nil)))

	assert.Equal(t, []string{"markup", "doc", "refs"}, ps.Names())
	assert.Equal(t, []string{"_doc", "_refs"}, ps.transformKeys())
}

func TestProviderSet_GlobalCache(t *testing.T) {
	ps := NewProviderSet(nil)
	calls := 0
	require.NoError(t, ps.Register(NewGlobalProvider("build", func(*PendingContext) (map[string]any, error) {
		calls++
		return map[string]any{"version": "1.0"}, nil
	})))

	p, _ := ps.Get("build")
	pc := &PendingContext{phase: PhaseParsing}

	for i := 0; i < 3; i++ {
		out, err := ps.run(p, pc)
		require.NoError(t, err)
		assert.Equal(t, "1.0", out["version"])
	}
	assert.Equal(t, 1, calls)
}

func TestMarkupProvider(t *testing.T) {
	p := newMarkupProvider()
	pc := &PendingContext{
		id:     "el-1",
		phase:  PhaseParsing,
		origin: Origin{Kind: PresetKindDirective, Docname: "guide/intro", Line: 12},
	}

	out, err := p.Generate(pc)
	require.NoError(t, err)
	assert.Equal(t, PresetKindDirective, out[MarkupKeyKind])
	assert.Equal(t, "guide/intro", out[MarkupKeyDocname])
	assert.Equal(t, 12, out[MarkupKeyLine])
	assert.Equal(t, "el-1", out[MarkupKeyElement])
}

func TestBuildProvider_CopiesInfo(t *testing.T) {
	info := map[string]any{"version": "2.1"}
	p := newBuildProvider(info)
	pc := &PendingContext{phase: PhaseResolved}

	out, err := p.Generate(pc)
	require.NoError(t, err)
	assert.Equal(t, "2.1", out["version"])

	out["version"] = "tampered"
	assert.Equal(t, "2.1", info["version"])
}
