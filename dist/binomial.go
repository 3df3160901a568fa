package dist

import (
	"fmt"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Binomial is the distribution of the number of successes in n
// independent Bernoulli trials, each with success probability p.
// Support is the integers {0, ..., n}.
type Binomial struct {
	n     Param
	p     Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewBinomial returns a binomial distribution with n trials and
// success probability p. When shape is omitted, the event shape is
// the broadcast shape of the literal parameters, or (1) if no
// parameter is literal.
func NewBinomial(n, p Param, seed uint64, shape ...int) (*Binomial, error) {
	s, err := distShape(shape, n, p)
	if err != nil {
		return nil, fmt.Errorf("newBinomial: %v", err)
	}
	b := &Binomial{n: n, p: p, shape: s, src: rand.NewSource(seed)}
	b.mode, _ = b.modeAt(nil)
	return b, nil
}

// Logp returns the elementwise log-mass of value.
func (b *Binomial) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.n, b.p)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, n, p := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		return bound(
			binomln(n[i], v[i])+logpow(p[i], v[i])+logpow(1-p[i], n[i]-v[i]),
			v[i] >= 0, v[i] <= n[i], p[i] >= 0, p[i] <= 1,
		)
	}), nil
}

// Random draws binomial variates.
func (b *Binomial) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.n, b.p)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	n, p := params[0], params[1]
	return drawInt64(b.shape, size, func(i int) float64 {
		return distuv.Binomial{N: n[i], P: p[i], Src: b.src}.Rand()
	}), nil
}

// Mode returns round(n * p).
func (b *Binomial) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if b.mode != nil {
		return b.mode.Clone().(*tensor.Dense), nil
	}
	m, err := b.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (b *Binomial) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.n, b.p)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, err
	}
	n, p := params[0], params[1]
	return fillInt64(b.shape, func(i int) float64 {
		return n[i] * p[i]
	}), nil
}

// Shape returns the event shape.
func (b *Binomial) Shape() tensor.Shape { return b.shape }

// Dtype returns tensor.Int64.
func (b *Binomial) Dtype() tensor.Dtype { return tensor.Int64 }
