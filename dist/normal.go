package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Normal is the normal distribution parameterized by its mean mu and
// standard deviation sigma. Support is the whole real line.
//
// Normal is the workhorse prior: its log-density is a smooth
// quadratic in the value, which makes it well behaved under
// gradient-based point estimation.
type Normal struct {
	mu    Param
	sigma Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewNormal returns a normal distribution with mean mu and standard
// deviation sigma.
func NewNormal(mu, sigma Param, seed uint64, shape ...int) (*Normal, error) {
	s, err := distShape(shape, mu, sigma)
	if err != nil {
		return nil, fmt.Errorf("newNormal: %v", err)
	}
	n := &Normal{mu: mu, sigma: sigma, shape: s, src: rand.NewSource(seed)}
	n.mode, _ = n.modeAt(nil)
	return n, nil
}

// Logp returns the elementwise log-density of value.
func (n *Normal) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, n.mu, n.sigma)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, mu, sigma := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		z := (v[i] - mu[i]) / sigma[i]
		return bound(
			-0.5*z*z-math.Log(sigma[i])-0.5*math.Log(2*math.Pi),
			sigma[i] > 0,
		)
	}), nil
}

// Random draws normal variates.
func (n *Normal) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, n.mu, n.sigma)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(n.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	mu, sigma := params[0], params[1]
	return drawFloat64(n.shape, size, func(i int) float64 {
		return distuv.Normal{Mu: mu[i], Sigma: sigma[i], Src: n.src}.Rand()
	}), nil
}

// Mode returns mu.
func (n *Normal) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if n.mode != nil {
		return n.mode.Clone().(*tensor.Dense), nil
	}
	m, err := n.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (n *Normal) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, n.mu)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(n.shape, resolved...)
	if err != nil {
		return nil, err
	}
	mu := params[0]
	return fillFloat64(n.shape, func(i int) float64 {
		return mu[i]
	}), nil
}

// Shape returns the event shape.
func (n *Normal) Shape() tensor.Shape { return n.shape }

// Dtype returns tensor.Float64.
func (n *Normal) Dtype() tensor.Dtype { return tensor.Float64 }
