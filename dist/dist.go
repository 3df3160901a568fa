// Package dist provides the probability distributions used to build
// models: a family of discrete distributions over integer support and
// a small set of continuous distributions, each exposing a pointwise
// log-density, a random sampler, and a cheap mode.
//
// Distribution parameters are Params: constant scalars (C), constant
// arrays (A), or references to other model variables (RV) that are
// resolved against the evaluation Point. Log-densities follow the
// bound convention: any value or parameter combination outside a
// distribution's support yields -Inf, never an error and never a
// panic.
package dist

import (
	"errors"
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// ErrSampleNotImplemented is returned by Random on distributions
// without a sampler.
var ErrSampleNotImplemented = errors.New("dist: sampling not implemented")

// machEps is the double precision machine epsilon, used to keep
// samplers away from closed support boundaries.
const machEps = 2.220446049250313e-16

// A Param is a distribution parameter: a constant scalar, a constant
// array, or a reference to another model variable whose current value
// is taken from the evaluation Point. The set of implementations is
// closed.
type Param interface {
	resolve(pt goprob.Point) (*tensor.Dense, error)
}

// C is a constant scalar parameter.
type C float64

func (c C) resolve(goprob.Point) (*tensor.Dense, error) {
	return tensor.New(tensor.WithShape(1),
		tensor.WithBacking([]float64{float64(c)})), nil
}

// RV is a reference to another model variable by name. Its value is
// looked up in the Point at evaluation time.
type RV string

func (r RV) resolve(pt goprob.Point) (*tensor.Dense, error) {
	val, ok := pt[string(r)]
	if !ok {
		return nil, fmt.Errorf("resolve: point has no value for variable %q",
			string(r))
	}
	return asFloat64(val)
}

type arrayParam struct {
	t *tensor.Dense
}

// A wraps a tensor as a constant array parameter. The tensor is not
// copied; callers must not mutate it afterwards.
func A(t *tensor.Dense) Param {
	return arrayParam{t: t}
}

func (a arrayParam) resolve(goprob.Point) (*tensor.Dense, error) {
	return asFloat64(a.t)
}

// Resolve evaluates params against pt, returning one float64 tensor
// per parameter. It is pure: neither params nor pt is modified, and
// scalar-shaped results are normalized to shape (1).
func Resolve(pt goprob.Point, params ...Param) ([]*tensor.Dense, error) {
	out := make([]*tensor.Dense, len(params))
	for i, p := range params {
		val, err := p.resolve(pt)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// asFloat64 converts a tensor to a fresh Float64 tensor, normalizing
// scalar shapes to shape (1).
func asFloat64(t *tensor.Dense) (*tensor.Dense, error) {
	data, err := goprob.Float64s(t)
	if err != nil {
		return nil, err
	}
	shape := t.Shape()
	if len(shape) == 0 {
		shape = tensor.Shape{1}
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data)), nil
}

// literalShape returns the broadcast shape of the literal parameters,
// or nil when any parameter is a variable reference.
func literalShape(params ...Param) (tensor.Shape, error) {
	shapes := make([]tensor.Shape, 0, len(params))
	for _, p := range params {
		switch v := p.(type) {
		case C:
			shapes = append(shapes, tensor.Shape{1})
		case arrayParam:
			s := v.t.Shape()
			if len(s) == 0 {
				s = tensor.Shape{1}
			}
			shapes = append(shapes, s)
		default:
			return nil, nil
		}
	}
	return Reconcile(shapes...)
}

// distShape resolves a distribution's event shape: an explicit
// override wins, otherwise the broadcast shape of the literal
// parameters, otherwise (1).
func distShape(override []int, params ...Param) (tensor.Shape, error) {
	if len(override) > 0 {
		return tensor.Shape(append([]int{}, override...)), nil
	}
	s, err := literalShape(params...)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return tensor.Shape{1}, nil
	}
	return s, nil
}

// sampleShape returns the output shape for size batched draws from a
// distribution with event shape shape.
func sampleShape(shape tensor.Shape, size int) tensor.Shape {
	if size <= 0 {
		out := make(tensor.Shape, len(shape))
		copy(out, shape)
		return out
	}
	return append(tensor.Shape{size}, shape...)
}

// drawEach fills a flat sample buffer by calling draw once per
// element. The argument to draw is the flat index into the event
// shape, so batched draws reuse the same parameter layout row by row.
func drawEach(shape tensor.Shape, size int, draw func(i int) float64) []float64 {
	n := shape.TotalSize()
	total := n
	if size > 0 {
		total *= size
	}
	backing := make([]float64, total)
	for j := range backing {
		backing[j] = draw(j % n)
	}
	return backing
}

// drawFloat64 assembles size draws into a Float64 sample tensor.
func drawFloat64(shape tensor.Shape, size int, draw func(i int) float64) *tensor.Dense {
	backing := drawEach(shape, size, draw)
	return tensor.New(tensor.WithShape(sampleShape(shape, size)...),
		tensor.WithBacking(backing))
}

// drawInt64 assembles size draws into an Int64 sample tensor,
// rounding each draw to protect against floating point dust.
func drawInt64(shape tensor.Shape, size int, draw func(i int) float64) *tensor.Dense {
	data := drawEach(shape, size, draw)
	backing := make([]int64, len(data))
	for i, v := range data {
		backing[i] = int64(math.Round(v))
	}
	return tensor.New(tensor.WithShape(sampleShape(shape, size)...),
		tensor.WithBacking(backing))
}

// expandParams materializes resolved parameters at the distribution's
// event shape, returning the flat data of each.
func expandParams(shape tensor.Shape, params ...*tensor.Dense) ([][]float64, error) {
	out := make([][]float64, len(params))
	for i, t := range params {
		e, err := Expand(t, shape)
		if err != nil {
			return nil, err
		}
		data, err := goprob.Float64s(e)
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}

// fillFloat64 builds a Float64 tensor of the given shape with f
// evaluated at every flat index.
func fillFloat64(shape tensor.Shape, f func(i int) float64) *tensor.Dense {
	backing := make([]float64, shape.TotalSize())
	for i := range backing {
		backing[i] = f(i)
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
}

// fillInt64 builds an Int64 tensor of the given shape with f
// evaluated and rounded at every flat index.
func fillInt64(shape tensor.Shape, f func(i int) float64) *tensor.Dense {
	backing := make([]int64, shape.TotalSize())
	for i := range backing {
		backing[i] = int64(math.Round(f(i)))
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
}

// uniform01 draws from [0, 1).
func uniform01(src rand.Source) float64 {
	return distuv.Uniform{Min: 0, Max: 1, Src: src}.Rand()
}
