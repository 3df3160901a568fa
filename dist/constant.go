package dist

import (
	"fmt"

	"github.com/samuelfneumann/goprob"
	"gorgonia.org/tensor"
)

// Constant is the degenerate distribution placing all mass on a
// single value c.
type Constant struct {
	c     Param
	shape tensor.Shape
	mode  *tensor.Dense
}

// NewConstant returns the distribution concentrated at c.
func NewConstant(c Param, shape ...int) (*Constant, error) {
	s, err := distShape(shape, c)
	if err != nil {
		return nil, fmt.Errorf("newConstant: %v", err)
	}
	d := &Constant{c: c, shape: s}
	d.mode, _ = d.modeAt(nil)
	return d, nil
}

// Logp returns 0 where value equals c and -Inf elsewhere.
func (d *Constant) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, d.c)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, c := data[0], data[1]
	return fillFloat64(shape, func(i int) float64 {
		return constantLogp(v[i], c[i])
	}), nil
}

// Random fills a sample with c.
func (d *Constant) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, d.c)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(d.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	c := params[0]
	return drawInt64(d.shape, size, func(i int) float64 {
		return c[i]
	}), nil
}

// Mode returns c.
func (d *Constant) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if d.mode != nil {
		return d.mode.Clone().(*tensor.Dense), nil
	}
	m, err := d.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (d *Constant) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, d.c)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(d.shape, resolved...)
	if err != nil {
		return nil, err
	}
	c := params[0]
	return fillInt64(d.shape, func(i int) float64 {
		return c[i]
	}), nil
}

// Shape returns the event shape.
func (d *Constant) Shape() tensor.Shape { return d.shape }

// Dtype returns tensor.Int64.
func (d *Constant) Dtype() tensor.Dtype { return tensor.Int64 }
