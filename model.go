package goprob

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

// An observation couples a distribution with fixed data. It
// contributes a likelihood term to the model's log-density but no
// free variable.
type observation struct {
	name string
	dist Distribution
	data *tensor.Dense
}

// A Model is an ordered collection of named random variables and
// observations. Its joint log-density is the sum of the elementwise
// log-densities of every variable and observation.
type Model struct {
	vars      []*RandomVariable
	byName    map[string]*RandomVariable
	observed  []observation
	testPoint Point
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		byName:    make(map[string]*RandomVariable),
		testPoint: make(Point),
	}
}

// Register adds a free random variable named name following d and
// returns it. The model's default test point is seeded with the
// distribution's mode, so distributions whose parameters refer to
// other variables must be registered after the variables they refer
// to.
func (m *Model) Register(name string, d Distribution) (*RandomVariable, error) {
	if m.has(name) {
		return nil, fmt.Errorf("register: variable %q already in model", name)
	}
	mode, err := d.Mode(m.testPoint)
	if err != nil {
		return nil, fmt.Errorf("register: default value for %q: %v", name, err)
	}

	v := &RandomVariable{Name: name, Shape: d.Shape(), Dtype: d.Dtype(), Dist: d}
	m.vars = append(m.vars, v)
	m.byName[name] = v
	m.testPoint[name] = mode
	return v, nil
}

// Observe adds a likelihood term named name: data is treated as fixed
// draws from d. Observed terms have no free value and never appear in
// Vars or the test point.
func (m *Model) Observe(name string, d Distribution, data *tensor.Dense) error {
	if m.has(name) {
		return fmt.Errorf("observe: variable %q already in model", name)
	}
	m.observed = append(m.observed, observation{name: name, dist: d, data: data})
	return nil
}

func (m *Model) has(name string) bool {
	if _, ok := m.byName[name]; ok {
		return true
	}
	for _, o := range m.observed {
		if o.name == name {
			return true
		}
	}
	return false
}

// Vars returns the free variables in registration order.
func (m *Model) Vars() []*RandomVariable {
	out := make([]*RandomVariable, len(m.vars))
	copy(out, m.vars)
	return out
}

// ContVars returns the continuous free variables in registration
// order.
func (m *Model) ContVars() []*RandomVariable {
	var out []*RandomVariable
	for _, v := range m.vars {
		if !v.IsDiscrete() {
			out = append(out, v)
		}
	}
	return out
}

// Var returns the free variable named name, or nil if the model has
// no such variable.
func (m *Model) Var(name string) *RandomVariable {
	return m.byName[name]
}

// Missing returns the names in vars that are not variables of this
// model.
func (m *Model) Missing(vars []*RandomVariable) []string {
	var missing []string
	for _, v := range vars {
		if m.byName[v.Name] != v {
			missing = append(missing, v.Name)
		}
	}
	return missing
}

// TestPoint returns a copy of the model's default starting point: each
// free variable set to its distribution's mode.
func (m *Model) TestPoint() Point {
	return m.testPoint.Copy()
}

// Logp evaluates the joint log-density at pt. Values outside a
// distribution's support yield -Inf rather than an error; a non-nil
// error reports a structural problem such as a missing value.
func (m *Model) Logp(pt Point) (float64, error) {
	total := 0.0
	for _, v := range m.vars {
		val, ok := pt[v.Name]
		if !ok {
			return 0, fmt.Errorf("logp: point has no value for variable %q",
				v.Name)
		}
		lp, err := v.Dist.Logp(val, pt)
		if err != nil {
			return 0, fmt.Errorf("logp: variable %q: %v", v.Name, err)
		}
		data, err := Float64s(lp)
		if err != nil {
			return 0, fmt.Errorf("logp: variable %q: %v", v.Name, err)
		}
		total += floats.Sum(data)
	}
	for _, o := range m.observed {
		lp, err := o.dist.Logp(o.data, pt)
		if err != nil {
			return 0, fmt.Errorf("logp: observed %q: %v", o.name, err)
		}
		data, err := Float64s(lp)
		if err != nil {
			return 0, fmt.Errorf("logp: observed %q: %v", o.name, err)
		}
		total += floats.Sum(data)
	}
	return total, nil
}

// LogpFunc returns Logp as a closure, for composing with
// Bijection.Mapf.
func (m *Model) LogpFunc() func(Point) (float64, error) {
	return m.Logp
}

// DLogp returns a function estimating the gradient of Logp with
// respect to the flat layout of vars, by central finite differences.
// A nil vars selects the model's continuous variables. The input
// point must cover every model variable; entries of the result may be
// non-finite where the log-density is.
func (m *Model) DLogp(vars []*RandomVariable) func(Point) ([]float64, error) {
	if vars == nil {
		vars = m.ContVars()
	}
	ordering := NewArrayOrdering(vars)

	return func(pt Point) ([]float64, error) {
		bij, err := NewBijection(ordering, pt)
		if err != nil {
			return nil, fmt.Errorf("dlogp: %v", err)
		}
		x, err := bij.Map(pt)
		if err != nil {
			return nil, fmt.Errorf("dlogp: %v", err)
		}

		// The perturbed sub-point only covers the selected
		// variables, so lay it over the full evaluation point.
		obj := func(flat []float64) float64 {
			sub, err := bij.Rmap(flat)
			if err != nil {
				return math.NaN()
			}
			lp, err := m.Logp(pt.Merge(sub))
			if err != nil {
				return math.NaN()
			}
			return lp
		}
		grad := fd.Gradient(nil, obj, x, &fd.Settings{Formula: fd.Central})
		return grad, nil
	}
}
