package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Exponential is the exponential distribution with rate lam. Support
// is the non-negative reals.
type Exponential struct {
	lam   Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewExponential returns an exponential distribution with rate lam.
func NewExponential(lam Param, seed uint64, shape ...int) (*Exponential, error) {
	s, err := distShape(shape, lam)
	if err != nil {
		return nil, fmt.Errorf("newExponential: %v", err)
	}
	e := &Exponential{lam: lam, shape: s, src: rand.NewSource(seed)}
	e.mode, _ = e.modeAt(nil)
	return e, nil
}

// Logp returns the elementwise log-density of value.
func (e *Exponential) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, e.lam)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, lam := data[0], data[1]
	return fillFloat64(shape, func(i int) float64 {
		return bound(
			math.Log(lam[i])-lam[i]*v[i],
			v[i] >= 0, lam[i] > 0,
		)
	}), nil
}

// Random draws exponential variates.
func (e *Exponential) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, e.lam)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(e.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	lam := params[0]
	return drawFloat64(e.shape, size, func(i int) float64 {
		return distuv.Exponential{Rate: lam[i], Src: e.src}.Rand()
	}), nil
}

// Mode returns the mean 1 / lam rather than the true mode at zero, so
// that default points start inside the support instead of on its
// boundary.
func (e *Exponential) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if e.mode != nil {
		return e.mode.Clone().(*tensor.Dense), nil
	}
	m, err := e.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (e *Exponential) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, e.lam)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(e.shape, resolved...)
	if err != nil {
		return nil, err
	}
	lam := params[0]
	return fillFloat64(e.shape, func(i int) float64 {
		return 1 / lam[i]
	}), nil
}

// Shape returns the event shape.
func (e *Exponential) Shape() tensor.Shape { return e.shape }

// Dtype returns tensor.Float64.
func (e *Exponential) Dtype() tensor.Dtype { return tensor.Float64 }
