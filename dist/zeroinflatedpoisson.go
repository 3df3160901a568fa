package dist

import (
	"fmt"

	"github.com/samuelfneumann/goprob"
	"gorgonia.org/tensor"
)

// ZeroInflatedPoisson mixes a Poisson distribution with a point mass
// at zero: elements whose mixing indicator z is nonzero follow
// Poisson(theta), the rest are exactly zero. Support is the
// non-negative integers.
type ZeroInflatedPoisson struct {
	theta Param
	z     Param
	pois  *Poisson
	zero  *Constant
	shape tensor.Shape
	mode  *tensor.Dense
}

// NewZeroInflatedPoisson returns a zero-inflated Poisson distribution
// with rate theta and mixing indicator z.
func NewZeroInflatedPoisson(theta, z Param, seed uint64, shape ...int) (*ZeroInflatedPoisson, error) {
	s, err := distShape(shape, theta, z)
	if err != nil {
		return nil, fmt.Errorf("newZeroInflatedPoisson: %v", err)
	}
	pois, err := NewPoisson(theta, seed, s...)
	if err != nil {
		return nil, fmt.Errorf("newZeroInflatedPoisson: %v", err)
	}
	zero, err := NewConstant(C(0), s...)
	if err != nil {
		return nil, fmt.Errorf("newZeroInflatedPoisson: %v", err)
	}
	d := &ZeroInflatedPoisson{theta: theta, z: z, pois: pois, zero: zero, shape: s}
	d.mode, _ = d.pois.modeAt(nil)
	return d, nil
}

// Logp returns the elementwise log-mass of value: the Poisson
// log-mass where z is nonzero and the point-mass-at-zero log-mass
// elsewhere.
func (d *ZeroInflatedPoisson) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	poisLogp, err := d.pois.Logp(value, pt)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	zeroLogp, err := d.zero.Logp(value, pt)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	resolved, err := Resolve(pt, d.z)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}

	data, shape, err := broadcastAll(poisLogp, zeroLogp, resolved[0])
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	pl, zl, z := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		if z[i] != 0 {
			return pl[i]
		}
		return zl[i]
	}), nil
}

// Random is not implemented for the zero-inflated Poisson; it always
// returns ErrSampleNotImplemented.
func (d *ZeroInflatedPoisson) Random(goprob.Point, int) (*tensor.Dense, error) {
	return nil, fmt.Errorf("random: %w", ErrSampleNotImplemented)
}

// Mode returns the mode of the Poisson component, floor(theta).
func (d *ZeroInflatedPoisson) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if d.mode != nil {
		return d.mode.Clone().(*tensor.Dense), nil
	}
	m, err := d.pois.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

// Shape returns the event shape.
func (d *ZeroInflatedPoisson) Shape() tensor.Shape { return d.shape }

// Dtype returns tensor.Int64.
func (d *ZeroInflatedPoisson) Dtype() tensor.Dtype { return tensor.Int64 }
