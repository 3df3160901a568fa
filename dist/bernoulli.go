package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Bernoulli is the distribution of a single trial succeeding with
// probability p. Support is {0, 1}.
type Bernoulli struct {
	p     Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewBernoulli returns a Bernoulli distribution with success
// probability p.
func NewBernoulli(p Param, seed uint64, shape ...int) (*Bernoulli, error) {
	s, err := distShape(shape, p)
	if err != nil {
		return nil, fmt.Errorf("newBernoulli: %v", err)
	}
	b := &Bernoulli{p: p, shape: s, src: rand.NewSource(seed)}
	b.mode, _ = b.modeAt(nil)
	return b, nil
}

// Logp returns the elementwise log-mass of value. The density has two
// branches selected by the value: log(p) for nonzero values and
// log(1-p) for zero.
func (b *Bernoulli) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.p)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, p := data[0], data[1]
	return fillFloat64(shape, func(i int) float64 {
		lp := math.Log(1 - p[i])
		if v[i] != 0 {
			lp = math.Log(p[i])
		}
		return bound(lp, v[i] >= 0, v[i] <= 1, p[i] >= 0, p[i] <= 1)
	}), nil
}

// Random draws Bernoulli variates.
func (b *Bernoulli) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.p)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	p := params[0]
	return drawInt64(b.shape, size, func(i int) float64 {
		return distuv.Bernoulli{P: p[i], Src: b.src}.Rand()
	}), nil
}

// Mode returns round(p).
func (b *Bernoulli) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if b.mode != nil {
		return b.mode.Clone().(*tensor.Dense), nil
	}
	m, err := b.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (b *Bernoulli) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.p)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, err
	}
	p := params[0]
	return fillInt64(b.shape, func(i int) float64 {
		return p[i]
	}), nil
}

// Shape returns the event shape.
func (b *Bernoulli) Shape() tensor.Shape { return b.shape }

// Dtype returns tensor.Int64.
func (b *Bernoulli) Dtype() tensor.Dtype { return tensor.Int64 }
