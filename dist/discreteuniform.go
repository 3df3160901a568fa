package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// DiscreteUniform assigns equal mass to every integer between lower
// and upper inclusive. Non-integer bounds are floored.
type DiscreteUniform struct {
	lower Param
	upper Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewDiscreteUniform returns a discrete uniform distribution on the
// integers [lower, upper].
func NewDiscreteUniform(lower, upper Param, seed uint64, shape ...int) (*DiscreteUniform, error) {
	s, err := distShape(shape, lower, upper)
	if err != nil {
		return nil, fmt.Errorf("newDiscreteUniform: %v", err)
	}
	d := &DiscreteUniform{lower: lower, upper: upper, shape: s, src: rand.NewSource(seed)}
	d.mode, _ = d.modeAt(nil)
	return d, nil
}

// Logp returns the elementwise log-mass of value.
func (d *DiscreteUniform) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, d.lower, d.upper)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, lower, upper := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		l, u := math.Floor(lower[i]), math.Floor(upper[i])
		return bound(-math.Log(u-l+1), l <= v[i], v[i] <= u)
	}), nil
}

// Random draws uniformly from the integers [lower, upper], both ends
// included.
func (d *DiscreteUniform) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, d.lower, d.upper)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(d.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	lower, upper := params[0], params[1]
	return drawInt64(d.shape, size, func(i int) float64 {
		l, u := math.Floor(lower[i]), math.Floor(upper[i])
		// Half-open span of u-l+1 so that both endpoints are
		// reachable after flooring.
		k := l + math.Floor(distuv.Uniform{Min: 0, Max: u - l + 1, Src: d.src}.Rand())
		if k > u {
			k = u
		}
		return k
	}), nil
}

// Mode returns the floored midpoint of the support.
func (d *DiscreteUniform) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if d.mode != nil {
		return d.mode.Clone().(*tensor.Dense), nil
	}
	m, err := d.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (d *DiscreteUniform) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, d.lower, d.upper)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(d.shape, resolved...)
	if err != nil {
		return nil, err
	}
	lower, upper := params[0], params[1]
	return fillInt64(d.shape, func(i int) float64 {
		return math.Floor((math.Floor(upper[i]) + math.Floor(lower[i])) / 2)
	}), nil
}

// Shape returns the event shape.
func (d *DiscreteUniform) Shape() tensor.Shape { return d.shape }

// Dtype returns tensor.Int64.
func (d *DiscreteUniform) Dtype() tensor.Dtype { return tensor.Int64 }
