package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Uniform is the continuous uniform distribution on the interval
// [lower, upper].
type Uniform struct {
	lower Param
	upper Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewUniform returns a uniform distribution on [lower, upper].
func NewUniform(lower, upper Param, seed uint64, shape ...int) (*Uniform, error) {
	s, err := distShape(shape, lower, upper)
	if err != nil {
		return nil, fmt.Errorf("newUniform: %v", err)
	}
	u := &Uniform{lower: lower, upper: upper, shape: s, src: rand.NewSource(seed)}
	u.mode, _ = u.modeAt(nil)
	return u, nil
}

// Logp returns the elementwise log-density of value.
func (u *Uniform) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, u.lower, u.upper)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, lower, upper := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		return bound(
			-math.Log(upper[i]-lower[i]),
			lower[i] <= v[i], v[i] <= upper[i],
		)
	}), nil
}

// Random draws uniform variates from [lower, upper).
func (u *Uniform) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, u.lower, u.upper)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(u.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	lower, upper := params[0], params[1]
	return drawFloat64(u.shape, size, func(i int) float64 {
		return distuv.Uniform{Min: lower[i], Max: upper[i], Src: u.src}.Rand()
	}), nil
}

// Mode returns the interval midpoint.
func (u *Uniform) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if u.mode != nil {
		return u.mode.Clone().(*tensor.Dense), nil
	}
	m, err := u.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (u *Uniform) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, u.lower, u.upper)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(u.shape, resolved...)
	if err != nil {
		return nil, err
	}
	lower, upper := params[0], params[1]
	return fillFloat64(u.shape, func(i int) float64 {
		return (lower[i] + upper[i]) / 2
	}), nil
}

// Shape returns the event shape.
func (u *Uniform) Shape() tensor.Shape { return u.shape }

// Dtype returns tensor.Float64.
func (u *Uniform) Dtype() tensor.Dtype { return tensor.Float64 }
