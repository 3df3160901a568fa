package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Gamma is the gamma distribution with shape alpha and rate beta.
// Support is the positive reals; it is the usual prior for rates and
// precisions.
type Gamma struct {
	alpha Param
	beta  Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewGamma returns a gamma distribution with shape alpha and rate
// beta.
func NewGamma(alpha, beta Param, seed uint64, shape ...int) (*Gamma, error) {
	s, err := distShape(shape, alpha, beta)
	if err != nil {
		return nil, fmt.Errorf("newGamma: %v", err)
	}
	g := &Gamma{alpha: alpha, beta: beta, shape: s, src: rand.NewSource(seed)}
	g.mode, _ = g.modeAt(nil)
	return g, nil
}

// Logp returns the elementwise log-density of value.
func (g *Gamma) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, g.alpha, g.beta)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, alpha, beta := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		lg, _ := math.Lgamma(alpha[i])
		return bound(
			alpha[i]*math.Log(beta[i])+logpow(v[i], alpha[i]-1)-
				beta[i]*v[i]-lg,
			v[i] >= 0, alpha[i] > 0, beta[i] > 0,
		)
	}), nil
}

// Random draws gamma variates.
func (g *Gamma) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, g.alpha, g.beta)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(g.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	alpha, beta := params[0], params[1]
	return drawFloat64(g.shape, size, func(i int) float64 {
		return distuv.Gamma{Alpha: alpha[i], Beta: beta[i], Src: g.src}.Rand()
	}), nil
}

// Mode returns (alpha - 1) / beta, floored at zero for alpha < 1
// where the density peaks at the origin.
func (g *Gamma) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if g.mode != nil {
		return g.mode.Clone().(*tensor.Dense), nil
	}
	m, err := g.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (g *Gamma) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, g.alpha, g.beta)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(g.shape, resolved...)
	if err != nil {
		return nil, err
	}
	alpha, beta := params[0], params[1]
	return fillFloat64(g.shape, func(i int) float64 {
		m := (alpha[i] - 1) / beta[i]
		if m < 0 {
			m = 0
		}
		return m
	}), nil
}

// Shape returns the event shape.
func (g *Gamma) Shape() tensor.Shape { return g.shape }

// Dtype returns tensor.Float64.
func (g *Gamma) Dtype() tensor.Dtype { return tensor.Float64 }
