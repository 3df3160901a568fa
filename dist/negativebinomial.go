package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// poissonLimit is the dispersion above which the negative binomial
// log-mass switches to the exact Poisson log-mass, which it converges
// to as alpha grows.
const poissonLimit = 1e10

// NegativeBinomial is an overdispersed Poisson distribution: a
// Poisson whose rate is gamma distributed with mean mu and dispersion
// alpha. Smaller alpha means more dispersion; as alpha grows the
// distribution converges to Poisson(mu). Support is the non-negative
// integers.
type NegativeBinomial struct {
	mu    Param
	alpha Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewNegativeBinomial returns a negative binomial distribution with
// mean mu and dispersion alpha.
func NewNegativeBinomial(mu, alpha Param, seed uint64, shape ...int) (*NegativeBinomial, error) {
	s, err := distShape(shape, mu, alpha)
	if err != nil {
		return nil, fmt.Errorf("newNegativeBinomial: %v", err)
	}
	nb := &NegativeBinomial{mu: mu, alpha: alpha, shape: s, src: rand.NewSource(seed)}
	nb.mode, _ = nb.modeAt(nil)
	return nb, nil
}

// Logp returns the elementwise log-mass of value. Elements whose
// dispersion exceeds 1e10 use the exact Poisson log-mass instead of
// the negative binomial expression, which loses precision there.
func (nb *NegativeBinomial) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, nb.mu, nb.alpha)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, mu, alpha := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		if alpha[i] > poissonLimit {
			return poissonLogp(v[i], mu[i])
		}
		return bound(
			binomln(v[i]+alpha[i]-1, v[i])+
				logpow(mu[i]/(mu[i]+alpha[i]), v[i])+
				logpow(alpha[i]/(mu[i]+alpha[i]), alpha[i]),
			v[i] >= 0, mu[i] > 0, alpha[i] > 0,
		)
	}), nil
}

// Random draws negative binomial variates as a gamma-Poisson mixture:
// a gamma rate with mean mu and shape alpha, then a Poisson count at
// that rate. Zero gamma draws are nudged to machine epsilon so the
// Poisson stage stays defined.
func (nb *NegativeBinomial) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, nb.mu, nb.alpha)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(nb.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	mu, alpha := params[0], params[1]
	return drawInt64(nb.shape, size, func(i int) float64 {
		g := distuv.Gamma{Alpha: alpha[i], Beta: alpha[i] / mu[i], Src: nb.src}.Rand()
		if g == 0 {
			g = machEps
		}
		return distuv.Poisson{Lambda: g, Src: nb.src}.Rand()
	}), nil
}

// Mode returns floor(mu).
func (nb *NegativeBinomial) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if nb.mode != nil {
		return nb.mode.Clone().(*tensor.Dense), nil
	}
	m, err := nb.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (nb *NegativeBinomial) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, nb.mu)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(nb.shape, resolved...)
	if err != nil {
		return nil, err
	}
	mu := params[0]
	return fillInt64(nb.shape, func(i int) float64 {
		return math.Floor(mu[i])
	}), nil
}

// Shape returns the event shape.
func (nb *NegativeBinomial) Shape() tensor.Shape { return nb.shape }

// Dtype returns tensor.Int64.
func (nb *NegativeBinomial) Dtype() tensor.Dtype { return tensor.Int64 }
