// Package tuning finds point estimates of model variables. Its main
// entry point is FindMAP, which maximizes a model's joint log-density
// with a numerical optimizer working on flattened parameter vectors.
package tuning

import (
	"fmt"

	"github.com/op/go-logging"
	"gonum.org/v1/gonum/optimize"
)

// A Func is a flat-vector objective.
type Func func(x []float64) float64

// A Grad fills dst with the objective's gradient at x.
type Grad func(dst, x []float64)

// An Optimizer minimizes a flat-vector objective. Implementations
// declare up front whether they consume gradients, so the driver
// knows what to build without inspecting them at run time.
type Optimizer interface {
	// Name identifies the optimizer in logs and error messages.
	Name() string

	// UsesGradient reports whether Minimize expects a gradient.
	UsesGradient() bool

	// Minimize searches for a minimizer of fn starting from x0. grad
	// is nil when UsesGradient is false. Minimize returns the best
	// point found and the underlying optimizer's raw result. A
	// non-nil error alongside a non-nil point reports a formally
	// unconverged run whose best point is still usable.
	Minimize(fn Func, grad Grad, x0 []float64) (x []float64, raw interface{}, err error)
}

// defaultSettings returns convergence settings loose enough for
// objectives whose gradients come from finite differences.
func defaultSettings() *optimize.Settings {
	return &optimize.Settings{
		GradientThreshold: 1e-6,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 100,
		},
	}
}

// defaultOptimizer picks the optimizer used when the caller does not
// supply one: BFGS, unless discrete variables are being optimized, in
// which case the search falls back to the gradient-free Nelder-Mead.
func defaultOptimizer(discrete bool, log *logging.Logger) Optimizer {
	if discrete {
		log.Warning("optimizing discrete variables: defaulting to " +
			"gradient-free Nelder-Mead, estimates may be poor")
		return NewNelderMead()
	}
	return NewBFGS()
}

// BFGS minimizes with the quasi-Newton BFGS method. It consumes
// gradients.
type BFGS struct {
	// Settings overrides the optimize.Settings used by Minimize. Nil
	// selects defaults tuned for finite-difference gradients.
	Settings *optimize.Settings
}

// NewBFGS returns a BFGS optimizer with default settings.
func NewBFGS() *BFGS { return &BFGS{} }

// Name returns "BFGS".
func (b *BFGS) Name() string { return "BFGS" }

// UsesGradient returns true.
func (b *BFGS) UsesGradient() bool { return true }

// Minimize runs BFGS from x0.
func (b *BFGS) Minimize(fn Func, grad Grad, x0 []float64) ([]float64, interface{}, error) {
	problem := optimize.Problem{Func: fn}
	if grad != nil {
		problem.Grad = grad
	}
	settings := b.Settings
	if settings == nil {
		settings = defaultSettings()
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
	if result == nil {
		return nil, nil, fmt.Errorf("bfgs: %v", err)
	}
	return result.X, result, err
}

// NelderMead minimizes with the gradient-free Nelder-Mead simplex
// method, the default whenever discrete variables are optimized.
type NelderMead struct {
	// Settings overrides the optimize.Settings used by Minimize.
	Settings *optimize.Settings
}

// NewNelderMead returns a Nelder-Mead optimizer with default
// settings.
func NewNelderMead() *NelderMead { return &NelderMead{} }

// Name returns "Nelder-Mead".
func (n *NelderMead) Name() string { return "Nelder-Mead" }

// UsesGradient returns false.
func (n *NelderMead) UsesGradient() bool { return false }

// Minimize runs Nelder-Mead from x0.
func (n *NelderMead) Minimize(fn Func, grad Grad, x0 []float64) ([]float64, interface{}, error) {
	problem := optimize.Problem{Func: fn}
	settings := n.Settings
	if settings == nil {
		settings = defaultSettings()
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if result == nil {
		return nil, nil, fmt.Errorf("nelderMead: %v", err)
	}
	return result.X, result, err
}
