package tuning

import (
	"math"
	"testing"

	"github.com/samuelfneumann/goprob"
	"github.com/samuelfneumann/goprob/dist"
	"github.com/samuelfneumann/goprob/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

// mapTol is how far a MAP estimate may sit from the closed form
// optimum.
const mapTol float64 = 1e-3

func fvec(vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
}

func scalar(t *testing.T, pt goprob.Point, name string) float64 {
	t.Helper()
	data, err := goprob.Float64s(pt[name])
	require.NoError(t, err)
	require.Len(t, data, 1)
	return data[0]
}

// betaModel is a one variable model with the closed form MAP
// (alpha-1) / (alpha+beta-2).
func betaModel(t *testing.T, alpha, beta float64) *goprob.Model {
	t.Helper()
	b, err := dist.NewBeta(dist.C(alpha), dist.C(beta), 1)
	require.NoError(t, err)
	m := goprob.NewModel()
	_, err = m.Register("p", b)
	require.NoError(t, err)
	return m
}

// spyOptimizer counts its invocations and hands back the starting
// point unchanged unless next is set.
type spyOptimizer struct {
	calls int
	grad  bool
	next  []float64
}

func (s *spyOptimizer) Name() string       { return "spy" }
func (s *spyOptimizer) UsesGradient() bool { return s.grad }

func (s *spyOptimizer) Minimize(fn Func, grad Grad, x0 []float64) ([]float64, interface{}, error) {
	s.calls++
	if s.next != nil {
		return s.next, nil, nil
	}
	return x0, nil, nil
}

func TestFindMAPBeta(t *testing.T) {
	m := betaModel(t, 3, 2)

	mx, err := FindMAP(m)
	require.NoError(t, err)

	want := (3.0 - 1) / (3 + 2 - 2)
	assert.InDelta(t, want, scalar(t, mx, "p"), mapTol)
}

func TestFindMAPBetaGradientFree(t *testing.T) {
	m := betaModel(t, 3, 2)

	mx, err := FindMAP(m, WithOptimizer(NewNelderMead()))
	require.NoError(t, err)

	want := (3.0 - 1) / (3 + 2 - 2)
	assert.InDelta(t, want, scalar(t, mx, "p"), mapTol)
}

func TestFindMAPObservedModel(t *testing.T) {
	// Beta prior with a binomial likelihood: the posterior is
	// Beta(alpha+y, beta+n-y) with a known closed form maximum.
	const alpha, beta float64 = 2, 2
	const n, y float64 = 20, 14

	m := betaModel(t, alpha, beta)
	lik, err := dist.NewBinomial(dist.C(n), dist.RV("p"), 1)
	require.NoError(t, err)
	require.NoError(t, m.Observe("heads", lik, fvec(y)))

	mx, err := FindMAP(m)
	require.NoError(t, err)

	want := (y + alpha - 1) / (n + alpha + beta - 2)
	assert.InDelta(t, want, scalar(t, mx, "p"), mapTol)
}

func TestFindMAPStartOverride(t *testing.T) {
	m := betaModel(t, 3, 2)

	mx, err := FindMAP(m, WithStart(goprob.Point{"p": fvec(0.4)}))
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, scalar(t, mx, "p"), mapTol)
}

func TestFindMAPNotInModel(t *testing.T) {
	m := betaModel(t, 3, 2)

	other := betaModel(t, 2, 2)
	foreign := other.Var("p")

	spy := &spyOptimizer{}
	_, err := FindMAP(m, WithVars(foreign), WithOptimizer(spy))

	var nim *NotInModelError
	require.ErrorAs(t, err, &nim)
	assert.Equal(t, []string{"p"}, nim.Names)
	assert.Contains(t, err.Error(), "p")

	// The failure happens before any optimizer work.
	assert.Zero(t, spy.calls)
}

func TestFindMAPDivergence(t *testing.T) {
	// Starting on the support boundary, an optimizer that never
	// moves leaves the log-density at -Inf and the run must be
	// rejected.
	m := betaModel(t, 2, 2)

	spy := &spyOptimizer{}
	_, err := FindMAP(m,
		WithStart(goprob.Point{"p": fvec(0)}),
		WithOptimizer(spy),
		WithLogger(logger.New("CRITICAL", "tuning-test")))

	var de *DivergenceError
	require.ErrorAs(t, err, &de)
	assert.True(t, math.IsInf(de.Logp, -1))
	assert.Contains(t, err.Error(), "p.logp")
	assert.Equal(t, 1, spy.calls)
}

func TestFindMAPDiscreteVariables(t *testing.T) {
	p, err := dist.NewPoisson(dist.C(4.5), 1)
	require.NoError(t, err)
	m := goprob.NewModel()
	k, err := m.Register("k", p)
	require.NoError(t, err)

	mx, err := FindMAP(m, WithVars(k),
		WithLogger(logger.New("CRITICAL", "tuning-test")))
	require.NoError(t, err)

	// The result keeps the variable's integer dtype and stays near
	// the true mode, floor(4.5).
	require.Equal(t, tensor.Int64, mx["k"].Dtype())
	got := scalar(t, mx, "k")
	assert.InDelta(t, 4, got, 2)
}

func TestFindMAPRawResult(t *testing.T) {
	m := betaModel(t, 3, 2)

	var raw interface{}
	_, err := FindMAP(m, WithRawResult(&raw))
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestFindMAPHoldsUnselectedVariables(t *testing.T) {
	m := betaModel(t, 3, 2)
	q, err := dist.NewBeta(dist.C(2), dist.C(5), 1)
	require.NoError(t, err)
	_, err = m.Register("q", q)
	require.NoError(t, err)

	mx, err := FindMAP(m, WithVars(m.Var("p")))
	require.NoError(t, err)

	// q keeps its starting value, p moves to its optimum.
	assert.InDelta(t, 2.0/7.0, scalar(t, mx, "q"), 1e-12)
	assert.InDelta(t, 2.0/3.0, scalar(t, mx, "p"), mapTol)
}

func TestDefaultOptimizerSelection(t *testing.T) {
	log := logger.New("CRITICAL", "tuning-test")
	assert.True(t, defaultOptimizer(false, log).UsesGradient())
	assert.False(t, defaultOptimizer(true, log).UsesGradient())
}
