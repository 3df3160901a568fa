package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Geometric is the distribution of the number of independent trials
// needed to get one success, where each trial succeeds with
// probability p. Support is the integers {1, 2, ...}.
type Geometric struct {
	p     Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewGeometric returns a geometric distribution with per-trial
// success probability p.
func NewGeometric(p Param, seed uint64, shape ...int) (*Geometric, error) {
	s, err := distShape(shape, p)
	if err != nil {
		return nil, fmt.Errorf("newGeometric: %v", err)
	}
	g := &Geometric{p: p, shape: s, src: rand.NewSource(seed)}
	g.mode, _ = g.modeAt(nil)
	return g, nil
}

// Logp returns the elementwise log-mass of value.
func (g *Geometric) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, g.p)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, p := data[0], data[1]
	return fillFloat64(shape, func(i int) float64 {
		return bound(
			math.Log(p[i])+logpow(1-p[i], v[i]-1),
			p[i] >= 0, p[i] <= 1, v[i] >= 1,
		)
	}), nil
}

// Random draws geometric variates by inverting the CDF: the draw is
// the smallest k with F(k) >= u for uniform u.
func (g *Geometric) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, g.p)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(g.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	p := params[0]
	return drawInt64(g.shape, size, func(i int) float64 {
		if p[i] >= 1 {
			return 1
		}
		u := uniform01(g.src)
		k := math.Ceil(math.Log(1-u) / math.Log(1-p[i]))
		if k < 1 {
			k = 1
		}
		return k
	}), nil
}

// Mode returns 1.
func (g *Geometric) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if g.mode != nil {
		return g.mode.Clone().(*tensor.Dense), nil
	}
	m, err := g.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (g *Geometric) modeAt(goprob.Point) (*tensor.Dense, error) {
	return fillInt64(g.shape, func(int) float64 { return 1 }), nil
}

// Shape returns the event shape.
func (g *Geometric) Shape() tensor.Shape { return g.shape }

// Dtype returns tensor.Int64.
func (g *Geometric) Dtype() tensor.Dtype { return tensor.Int64 }
