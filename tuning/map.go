package tuning

import (
	"fmt"
	"math"

	"github.com/op/go-logging"
	"github.com/samuelfneumann/goprob"
	"github.com/samuelfneumann/goprob/logger"
	"gorgonia.org/tensor"
)

// nanToHighSentinel stands in for non-finite objective values so the
// optimizer always sees a finite, very unattractive landscape instead
// of NaN or Inf.
const nanToHighSentinel = 1.0e100

// diagnosticLimit is the value count above which per-variable
// diagnostics switch from printing whole arrays to printing only the
// offending indices.
const diagnosticLimit = 10

type config struct {
	start     goprob.Point
	vars      []*goprob.RandomVariable
	optimizer Optimizer
	raw       *interface{}
	log       *logging.Logger
}

// An Option configures FindMAP.
type Option func(*config)

// WithStart lays pt over the model's test point as the starting
// point. Variables pt does not cover keep their test point values.
func WithStart(pt goprob.Point) Option {
	return func(c *config) { c.start = pt }
}

// WithVars restricts the optimization to vars. The default is the
// model's continuous variables.
func WithVars(vars ...*goprob.RandomVariable) Option {
	return func(c *config) { c.vars = vars }
}

// WithOptimizer overrides the default optimizer choice.
func WithOptimizer(opt Optimizer) Option {
	return func(c *config) { c.optimizer = opt }
}

// WithRawResult captures the optimizer's raw result object in dst for
// callers that want to inspect convergence statistics.
func WithRawResult(dst *interface{}) Option {
	return func(c *config) { c.raw = dst }
}

// WithLogger routes the driver's log output to log.
func WithLogger(log *logging.Logger) Option {
	return func(c *config) { c.log = log }
}

// FindMAP returns the point maximizing the model's joint log-density
// over the selected variables, holding all others fixed at the
// starting point. The result covers every model variable, each cast
// to its declared dtype.
//
// The search minimizes the negated log-density over the flat layout
// of the selected variables. Non-finite objective values are clamped
// to a large sentinel and non-finite gradient entries to zero, so the
// optimizer itself never sees NaN or Inf; the final point is then
// validated at full precision and a DivergenceError reports any
// non-finite value, log-density or gradient that survived.
func FindMAP(m *goprob.Model, opts ...Option) (goprob.Point, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log
	if log == nil {
		log = logger.New("WARNING", "tuning")
	}

	start := m.TestPoint()
	if cfg.start != nil {
		start = start.Merge(cfg.start)
	}

	vars := cfg.vars
	if vars == nil {
		vars = m.ContVars()
	}
	if len(vars) == 0 {
		return nil, fmt.Errorf("findMAP: no variables to optimize")
	}
	if missing := m.Missing(vars); len(missing) > 0 {
		return nil, &NotInModelError{Names: missing}
	}

	discrete := false
	for _, v := range vars {
		if v.IsDiscrete() {
			discrete = true
			break
		}
	}

	opt := cfg.optimizer
	if opt == nil {
		opt = defaultOptimizer(discrete, log)
	} else if discrete && opt.UsesGradient() {
		log.Warningf("optimizer %v uses gradients but discrete variables "+
			"are being optimized: estimates may be poor", opt.Name())
	}

	ordering := goprob.NewArrayOrdering(vars)
	bij, err := goprob.NewBijection(ordering, start)
	if err != nil {
		return nil, fmt.Errorf("findMAP: %v", err)
	}
	x0, err := bij.Map(start)
	if err != nil {
		return nil, fmt.Errorf("findMAP: %v", err)
	}

	// The bijection covers only the selected variables, so every
	// evaluation lays the rmapped sub-point over the full start.
	objective := func(x []float64) float64 {
		sub, err := bij.Rmap(x)
		if err != nil {
			return nanToHighSentinel
		}
		lp, err := m.Logp(start.Merge(sub))
		if err != nil {
			return nanToHighSentinel
		}
		return nanToHigh(-lp)
	}

	var gradient Grad
	if opt.UsesGradient() {
		dlogp := m.DLogp(vars)
		gradient = func(dst, x []float64) {
			sub, err := bij.Rmap(x)
			if err != nil {
				zero(dst)
				return
			}
			g, err := dlogp(start.Merge(sub))
			if err != nil {
				zero(dst)
				return
			}
			for i := range dst {
				dst[i] = -nanToZero(g[i])
			}
		}
	}

	log.Debugf("optimizing %v dimensions with %v", ordering.Dimensions,
		opt.Name())
	x, raw, err := opt.Minimize(objective, gradient, x0)
	if err != nil {
		if x == nil {
			return nil, fmt.Errorf("findMAP: optimizer %v: %v", opt.Name(), err)
		}
		log.Warningf("optimizer %v did not formally converge: %v", opt.Name(),
			err)
	}
	if cfg.raw != nil {
		*cfg.raw = raw
	}

	sub, err := bij.Rmap(x)
	if err != nil {
		return nil, fmt.Errorf("findMAP: %v", err)
	}
	mx := start.Merge(sub)

	if err := validate(m, vars, mx, x, log); err != nil {
		return nil, err
	}
	return castPoint(m, mx), nil
}

// validate recomputes the log-density and gradient at the candidate
// optimum without any clamping and rejects the run if anything is
// non-finite.
func validate(m *goprob.Model, vars []*goprob.RandomVariable, mx goprob.Point,
	x []float64, log *logging.Logger) error {

	lp, err := m.Logp(mx)
	if err != nil {
		return fmt.Errorf("findMAP: validating result: %v", err)
	}
	grad, err := m.DLogp(vars)(mx)
	if err != nil {
		return fmt.Errorf("findMAP: validating result: %v", err)
	}
	if allFinite(x) && isFinite(lp) && allFinite(grad) {
		return nil
	}

	log.Error("MAP optimization diverged")
	return &DivergenceError{
		Point:   mx,
		Logp:    lp,
		Details: diagnostics(m, vars, mx),
	}
}

// diagnostics names each non-finite per-variable quantity at mx:
// the value itself, its elementwise log-density, and, for continuous
// variables, its gradient.
func diagnostics(m *goprob.Model, vars []*goprob.RandomVariable, mx goprob.Point) []string {
	var details []string
	for _, v := range vars {
		val, ok := mx[v.Name]
		if !ok {
			continue
		}
		data, err := goprob.Float64s(val)
		if err != nil {
			continue
		}
		if !allFinite(data) {
			details = append(details, badMessage(v.Name+".value", data))
		}

		lp, err := v.Dist.Logp(val, mx)
		if err == nil {
			lpData, err := goprob.Float64s(lp)
			if err == nil && !allFinite(lpData) {
				details = append(details, badMessage(v.Name+".logp", lpData))
			}
		}

		if v.IsDiscrete() {
			continue
		}
		g, err := m.DLogp([]*goprob.RandomVariable{v})(mx)
		if err == nil && !allFinite(g) {
			details = append(details, badMessage(v.Name+".dlogp", g))
		}
	}
	return details
}

// badMessage renders one diagnostic line: whole arrays when small,
// only the offending indices and values when large.
func badMessage(name string, values []float64) string {
	if len(values) < diagnosticLimit {
		return fmt.Sprintf("%v bad: %v", name, values)
	}
	var idx []int
	var bad []float64
	for i, v := range values {
		if !isFinite(v) {
			idx = append(idx, i)
			bad = append(bad, v)
		}
	}
	return fmt.Sprintf("%v bad at idx: %v with values: %v", name, idx, bad)
}

// castPoint returns mx with every free variable cast to its declared
// dtype. Casting to an integer dtype truncates toward zero.
func castPoint(m *goprob.Model, mx goprob.Point) goprob.Point {
	out := mx.Copy()
	for _, v := range m.Vars() {
		val, ok := out[v.Name]
		if !ok || val.Dtype() == v.Dtype || v.Dtype != tensor.Int64 {
			continue
		}
		data, err := goprob.Float64s(val)
		if err != nil {
			continue
		}
		backing := make([]int64, len(data))
		for i, f := range data {
			backing[i] = int64(f)
		}
		out[v.Name] = tensor.New(tensor.WithShape(v.Shape...),
			tensor.WithBacking(backing))
	}
	return out
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if !isFinite(x) {
			return false
		}
	}
	return true
}

// nanToHigh replaces non-finite values with the high sentinel.
func nanToHigh(x float64) float64 {
	if isFinite(x) {
		return x
	}
	return nanToHighSentinel
}

// nanToZero replaces non-finite values with zero.
func nanToZero(x float64) float64 {
	if isFinite(x) {
		return x
	}
	return 0
}

func zero(dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
}
