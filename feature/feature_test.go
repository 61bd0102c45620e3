package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscreteFeatureValid(t *testing.T) {
	closed := NewDiscreteFeature("color", []string{"red", "yellow"})
	ok, err := closed.Valid("red")
	require.True(t, ok)
	require.NoError(t, err)
	ok, err = closed.Valid("blue")
	require.False(t, ok)
	require.Error(t, err)
	ok, err = closed.Valid(1.0)
	require.False(t, ok)
	require.Error(t, err)
	ok, err = closed.Valid(nil)
	require.True(t, ok)
	require.NoError(t, err)

	open := NewDiscreteFeature("day", nil)
	ok, err = open.Valid("Sunday")
	require.True(t, ok)
	require.NoError(t, err)
}

func TestNumericFeatureValid(t *testing.T) {
	f := NewNumericFeature("age")
	ok, err := f.Valid(3.5)
	require.True(t, ok)
	require.NoError(t, err)
	ok, err = f.Valid("3.5")
	require.False(t, ok)
	require.Error(t, err)
	ok, err = f.Valid(math.NaN())
	require.False(t, ok)
	require.Error(t, err)
	ok, err = f.Valid(math.Inf(1))
	require.True(t, ok)
	require.NoError(t, err)
}

func TestFeatureIdentity(t *testing.T) {
	var a, b Feature = NewDiscreteFeature("x", nil), NewDiscreteFeature("x", nil)
	require.Equal(t, a.Name(), b.Name())
	require.False(t, a == b)
	require.True(t, a == a)
}
