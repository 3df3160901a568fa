package dist

import (
	"fmt"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Beta is the beta distribution with concentrations alpha and beta.
// Support is the unit interval, which makes it the usual prior for
// probabilities.
type Beta struct {
	alpha Param
	beta  Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewBeta returns a beta distribution with concentrations alpha and
// beta.
func NewBeta(alpha, beta Param, seed uint64, shape ...int) (*Beta, error) {
	s, err := distShape(shape, alpha, beta)
	if err != nil {
		return nil, fmt.Errorf("newBeta: %v", err)
	}
	b := &Beta{alpha: alpha, beta: beta, shape: s, src: rand.NewSource(seed)}
	b.mode, _ = b.modeAt(nil)
	return b, nil
}

// Logp returns the elementwise log-density of value.
func (b *Beta) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.alpha, b.beta)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	data, shape, err := broadcastAll(value, resolved...)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, alpha, beta := data[0], data[1], data[2]
	return fillFloat64(shape, func(i int) float64 {
		return bound(
			logpow(v[i], alpha[i]-1)+logpow(1-v[i], beta[i]-1)-
				betaln(alpha[i], beta[i]),
			v[i] >= 0, v[i] <= 1, alpha[i] > 0, beta[i] > 0,
		)
	}), nil
}

// Random draws beta variates.
func (b *Beta) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.alpha, b.beta)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	alpha, beta := params[0], params[1]
	return drawFloat64(b.shape, size, func(i int) float64 {
		return distuv.Beta{Alpha: alpha[i], Beta: beta[i], Src: b.src}.Rand()
	}), nil
}

// Mode returns the mean alpha / (alpha + beta), which unlike the true
// mode is defined for every valid parameter pair and always lies in
// the open unit interval.
func (b *Beta) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if b.mode != nil {
		return b.mode.Clone().(*tensor.Dense), nil
	}
	m, err := b.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (b *Beta) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	resolved, err := Resolve(pt, b.alpha, b.beta)
	if err != nil {
		return nil, err
	}
	params, err := expandParams(b.shape, resolved...)
	if err != nil {
		return nil, err
	}
	alpha, beta := params[0], params[1]
	return fillFloat64(b.shape, func(i int) float64 {
		return alpha[i] / (alpha[i] + beta[i])
	}), nil
}

// Shape returns the event shape.
func (b *Beta) Shape() tensor.Shape { return b.shape }

// Dtype returns tensor.Float64.
func (b *Beta) Dtype() tensor.Dtype { return tensor.Float64 }
