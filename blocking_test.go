package goprob_test

import (
	"testing"

	"github.com/samuelfneumann/goprob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func fvec(vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
}

func fmat(rows, cols int, vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(vals))
}

func ivec(vals ...int64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
}

// contVar and discVar build free-standing variables for bijection
// tests, which never touch the variable's distribution.
func contVar(name string, shape ...int) *goprob.RandomVariable {
	return &goprob.RandomVariable{
		Name:  name,
		Shape: tensor.Shape(shape),
		Dtype: tensor.Float64,
	}
}

func discVar(name string, shape ...int) *goprob.RandomVariable {
	return &goprob.RandomVariable{
		Name:  name,
		Shape: tensor.Shape(shape),
		Dtype: tensor.Int64,
	}
}

func TestArrayOrderingLayout(t *testing.T) {
	vars := []*goprob.RandomVariable{
		contVar("a", 1),
		contVar("b", 3),
		contVar("c", 2, 2),
	}
	ord := goprob.NewArrayOrdering(vars)

	require.Equal(t, 8, ord.Dimensions)
	require.Len(t, ord.VMap, 3)

	// Contiguous, non-overlapping slices in supplied order.
	next := 0
	for i, vm := range ord.VMap {
		assert.Same(t, vars[i], vm.Var)
		assert.Equal(t, next, vm.Start)
		assert.Equal(t, vm.Start+vm.Shape.TotalSize(), vm.Stop)
		next = vm.Stop
	}
}

func TestBijectionRoundTrip(t *testing.T) {
	vars := []*goprob.RandomVariable{
		contVar("a", 1),
		contVar("b", 3),
		contVar("c", 2, 2),
		discVar("d", 2),
	}
	pt := goprob.Point{
		"a": fvec(0.5),
		"b": fvec(1, 2, 3),
		"c": fmat(2, 2, 4, 5, 6, 7),
		"d": ivec(8, -9),
	}

	bij, err := goprob.NewBijection(goprob.NewArrayOrdering(vars), pt)
	require.NoError(t, err)

	flat, err := bij.Map(pt)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1, 2, 3, 4, 5, 6, 7, 8, -9}, flat)

	back, err := bij.Rmap(flat)
	require.NoError(t, err)
	require.Len(t, back, len(vars))
	for name, val := range pt {
		require.True(t, val.Shape().Eq(back[name].Shape()),
			"variable %v changed shape", name)
		require.Equal(t, val.Dtype(), back[name].Dtype(),
			"variable %v changed dtype", name)
		want, err := goprob.Float64s(val)
		require.NoError(t, err)
		got, err := goprob.Float64s(back[name])
		require.NoError(t, err)
		assert.Equal(t, want, got,
			"variable %v did not survive the round trip", name)
	}
}

func TestBijectionMapErrors(t *testing.T) {
	vars := []*goprob.RandomVariable{contVar("a", 2)}
	ord := goprob.NewArrayOrdering(vars)

	// Construction fails fast on a missing or misshapen reference.
	_, err := goprob.NewBijection(ord, goprob.Point{})
	require.ErrorContains(t, err, "a")

	_, err = goprob.NewBijection(ord, goprob.Point{"a": fvec(1, 2, 3)})
	require.ErrorContains(t, err, "a")

	bij, err := goprob.NewBijection(ord, goprob.Point{"a": fvec(1, 2)})
	require.NoError(t, err)

	_, err = bij.Map(goprob.Point{})
	assert.ErrorContains(t, err, "a")

	_, err = bij.Map(goprob.Point{"a": fvec(1, 2, 3)})
	assert.ErrorContains(t, err, "a")

	_, err = bij.Rmap([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestBijectionRmapCastsDtype(t *testing.T) {
	vars := []*goprob.RandomVariable{discVar("k", 2)}
	bij, err := goprob.NewBijection(goprob.NewArrayOrdering(vars),
		goprob.Point{"k": ivec(0, 0)})
	require.NoError(t, err)

	// Casting truncates toward zero.
	pt, err := bij.Rmap([]float64{2.9, -1.7})
	require.NoError(t, err)
	require.Equal(t, tensor.Int64, pt["k"].Dtype())
	assert.Equal(t, []int64{2, -1}, pt["k"].Data())
}

func TestBijectionMapf(t *testing.T) {
	vars := []*goprob.RandomVariable{contVar("a", 1), contVar("b", 2)}
	pt := goprob.Point{"a": fvec(1), "b": fvec(2, 3)}

	bij, err := goprob.NewBijection(goprob.NewArrayOrdering(vars), pt)
	require.NoError(t, err)

	// Sum every element of every variable in the point.
	sum := func(p goprob.Point) (float64, error) {
		total := 0.0
		for _, name := range p.Names() {
			data, err := goprob.Float64s(p[name])
			if err != nil {
				return 0, err
			}
			for _, v := range data {
				total += v
			}
		}
		return total, nil
	}

	flatSum := bij.Mapf(sum)
	got, err := flatSum([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)

	_, err = flatSum([]float64{1, 2})
	assert.Error(t, err)
}
