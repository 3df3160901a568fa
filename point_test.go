package goprob_test

import (
	"testing"

	"github.com/samuelfneumann/goprob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointCopyIsDeep(t *testing.T) {
	pt := goprob.Point{"a": fvec(1, 2)}
	cp := pt.Copy()

	data, err := goprob.Float64s(cp["a"])
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, data)

	// Mutating the copy's backing must not reach the original.
	cp["a"].Data().([]float64)[0] = 99
	orig, err := goprob.Float64s(pt["a"])
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, orig)
}

func TestPointMerge(t *testing.T) {
	base := goprob.Point{"a": fvec(1), "b": fvec(2)}
	over := goprob.Point{"b": fvec(20), "c": fvec(30)}

	merged := base.Merge(over)
	require.Len(t, merged, 3)
	assert.Equal(t, 1.0, scalarOf(t, merged, "a"))
	assert.Equal(t, 20.0, scalarOf(t, merged, "b"))
	assert.Equal(t, 30.0, scalarOf(t, merged, "c"))

	// Neither input changes.
	assert.Equal(t, 2.0, scalarOf(t, base, "b"))
	require.Len(t, base, 2)
}

func TestPointNamesSorted(t *testing.T) {
	pt := goprob.Point{"b": fvec(1), "a": fvec(2), "c": fvec(3)}
	assert.Equal(t, []string{"a", "b", "c"}, pt.Names())
}

func scalarOf(t *testing.T, pt goprob.Point, name string) float64 {
	t.Helper()
	data, err := goprob.Float64s(pt[name])
	require.NoError(t, err)
	require.Len(t, data, 1)
	return data[0]
}
