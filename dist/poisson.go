package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Poisson is the distribution of the number of events occurring in a
// fixed interval when events arrive independently at rate mu. Support
// is the non-negative integers.
type Poisson struct {
	mu    Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewPoisson returns a Poisson distribution with expected rate mu.
func NewPoisson(mu Param, seed uint64, shape ...int) (*Poisson, error) {
	s, err := distShape(shape, mu)
	if err != nil {
		return nil, fmt.Errorf("newPoisson: %v", err)
	}
	p := &Poisson{mu: mu, shape: s, src: rand.NewSource(seed)}
	p.mode, _ = p.modeAt(nil)
	return p, nil
}

// Logp returns the elementwise log-mass of value.
func (p *Poisson) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, p.mu)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, mu := data[0], data[1]
	return fillFloat64(shape, func(i int) float64 {
		return poissonLogp(v[i], mu[i])
	}), nil
}

// Random draws Poisson variates.
func (p *Poisson) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, p.mu)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(p.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	mu := params[0]
	return drawInt64(p.shape, size, func(i int) float64 {
		return distuv.Poisson{Lambda: mu[i], Src: p.src}.Rand()
	}), nil
}

// Mode returns floor(mu).
func (p *Poisson) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if p.mode != nil {
		return p.mode.Clone().(*tensor.Dense), nil
	}
	m, err := p.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (p *Poisson) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, p.mu)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(p.shape, resolved...)
	if err != nil {
		return nil, err
	}
	mu := params[0]
	return fillInt64(p.shape, func(i int) float64 {
		return math.Floor(mu[i])
	}), nil
}

// Shape returns the event shape.
func (p *Poisson) Shape() tensor.Shape { return p.shape }

// Dtype returns tensor.Int64.
func (p *Poisson) Dtype() tensor.Dtype { return tensor.Int64 }
