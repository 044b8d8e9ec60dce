package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantExpression(t *testing.T) {
	e, err := Compile("8")
	require.NoError(t, err)
	v, err := e.Eval(MapEnv{})
	require.NoError(t, err)
	assert.EqualValues(t, 8, v)
}

func TestParameterReferenceAndArithmetic(t *testing.T) {
	e, err := Compile("num_inputs * 2 + 1")
	require.NoError(t, err)
	v, err := e.Eval(MapEnv{"num_inputs": 4})
	require.NoError(t, err)
	assert.EqualValues(t, 9, v)
}

func TestClog2Intrinsic(t *testing.T) {
	cases := map[string]int64{
		"clog2(1)":  0,
		"clog2(2)":  1,
		"clog2(3)":  2,
		"clog2(4)":  2,
		"clog2(5)":  3,
		"clog2(16)": 4,
	}
	for src, want := range cases {
		e, err := Compile(src)
		require.NoError(t, err)
		v, err := e.Eval(MapEnv{})
		require.NoError(t, err)
		assert.Equalf(t, want, v, "source %q", src)
	}
}

func TestClog2OfParameter(t *testing.T) {
	e, err := Compile("clog2(num_outputs)")
	require.NoError(t, err)
	v, err := e.Eval(MapEnv{"num_outputs": 18})
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
}

func TestChainEnvFallsBackToParent(t *testing.T) {
	e, err := Compile("local_width + shared_width")
	require.NoError(t, err)
	env := ChainEnv{
		Local:  MapEnv{"local_width": 2},
		Parent: MapEnv{"shared_width": 10},
	}
	v, err := e.Eval(env)
	require.NoError(t, err)
	assert.EqualValues(t, 12, v)
}

func TestUnresolvedParameterErrors(t *testing.T) {
	e, err := Compile("missing_param")
	require.NoError(t, err)
	_, err = e.Eval(MapEnv{})
	assert.Error(t, err)
}
