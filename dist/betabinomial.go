package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// BetaBinomial is a binomial distribution whose success probability
// is itself beta distributed with concentrations alpha and beta,
// marginalized over that probability. Support is {0, ..., n}.
type BetaBinomial struct {
	alpha Param
	beta  Param
	n     Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewBetaBinomial returns a beta-binomial distribution with n trials
// and beta concentrations alpha and beta.
func NewBetaBinomial(alpha, beta, n Param, seed uint64, shape ...int) (*BetaBinomial, error) {
	s, err := distShape(shape, alpha, beta, n)
	if err != nil {
		return nil, fmt.Errorf("newBetaBinomial: %v", err)
	}
	b := &BetaBinomial{
		alpha: alpha,
		beta:  beta,
		n:     n,
		shape: s,
		src:   rand.NewSource(seed),
	}
	b.mode, _ = b.modeAt(nil)
	return b, nil
}

// Logp returns the elementwise log-mass of value.
func (b *BetaBinomial) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.alpha, b.beta, b.n)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, alpha, beta, n := data[0], data[1], data[2], data[3]
	return fillFloat64(shape, func(i int) float64 {
		return bound(
			binomln(n[i], v[i])+
				betaln(v[i]+alpha[i], n[i]-v[i]+beta[i])-
				betaln(alpha[i], beta[i]),
			v[i] >= 0, v[i] <= n[i], alpha[i] > 0, beta[i] > 0,
		)
	}), nil
}

// Random draws beta-binomial variates by sampling a success
// probability from the beta distribution and then a binomial count
// with it. Non-finite beta draws are retried until one succeeds.
func (b *BetaBinomial) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.alpha, b.beta, b.n)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	alpha, beta, n := params[0], params[1], params[2]
	return drawInt64(b.shape, size, func(i int) float64 {
		p := distuv.Beta{Alpha: alpha[i], Beta: beta[i], Src: b.src}.Rand()
		for math.IsNaN(p) || math.IsInf(p, 0) {
			p = distuv.Beta{Alpha: alpha[i], Beta: beta[i], Src: b.src}.Rand()
		}
		return distuv.Binomial{N: n[i], P: p, Src: b.src}.Rand()
	}), nil
}

// Mode returns round(alpha / (alpha + beta)).
func (b *BetaBinomial) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if b.mode != nil {
		return b.mode.Clone().(*tensor.Dense), nil
	}
	m, err := b.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (b *BetaBinomial) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.alpha, b.beta)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, err
	}
	alpha, beta := params[0], params[1]
	return fillInt64(b.shape, func(i int) float64 {
		return alpha[i] / (alpha[i] + beta[i])
	}), nil
}

// Shape returns the event shape.
func (b *BetaBinomial) Shape() tensor.Shape { return b.shape }

// Dtype returns tensor.Int64.
func (b *BetaBinomial) Dtype() tensor.Dtype { return tensor.Int64 }
