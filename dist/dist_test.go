package dist

import (
	"testing"

	"github.com/samuelfneumann/goprob"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"
)

// vec returns a Float64 vector tensor with the given backing.
func vec(vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
}

// ivec returns an Int64 vector tensor with the given backing.
func ivec(vals ...int64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
}

// f64s extracts a tensor's data as float64s, failing the test on
// error.
func f64s(t *testing.T, d *tensor.Dense) []float64 {
	t.Helper()
	data, err := goprob.Float64s(d)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// logpOf computes the elementwise log density of value under d with
// no evaluation point and returns its flat data.
func logpOf(t *testing.T, d goprob.Distribution, value *tensor.Dense) []float64 {
	t.Helper()
	lp, err := d.Logp(value, nil)
	if err != nil {
		t.Fatal(err)
	}
	return f64s(t, lp)
}

// sampleData draws size variates from d and returns their flat data.
func sampleData(t *testing.T, d goprob.Distribution, size int) []float64 {
	t.Helper()
	samples, err := d.Random(nil, size)
	if err != nil {
		t.Fatal(err)
	}
	return f64s(t, samples)
}

// sampleMean draws size variates from d and returns their mean.
func sampleMean(t *testing.T, d goprob.Distribution, size int) float64 {
	t.Helper()
	return stat.Mean(sampleData(t, d, size), nil)
}

// modeOf returns the flat data of d's mode.
func modeOf(t *testing.T, d goprob.Distribution) []float64 {
	t.Helper()
	m, err := d.Mode(nil)
	if err != nil {
		t.Fatal(err)
	}
	return f64s(t, m)
}
