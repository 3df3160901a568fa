package dist

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goprob"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// sumTol is how far a category probability vector may drift from
// summing to one before the whole row is considered out of support.
const sumTol = 1e-5

// Categorical is a distribution over k categories labelled 0 to k-1,
// with one probability per category. A 1-dimensional probability
// vector describes a single categorical variable; a 2-dimensional
// array of row vectors describes a batch, one row per element.
type Categorical struct {
	p     Param
	shape tensor.Shape
	src   rand.Source
	mode  *tensor.Dense
}

// NewCategorical returns a categorical distribution with category
// probabilities p. The event shape is (1) for a probability vector
// and (rows) for a matrix of row vectors; when p refers to another
// variable, pass the event shape explicitly.
func NewCategorical(p Param, seed uint64, shape ...int) (*Categorical, error) {
	s := tensor.Shape{1}
	if len(shape) > 0 {
		s = tensor.Shape(append([]int{}, shape...))
	} else {
		lit, err := literalShape(p)
		if err != nil {
			return nil, fmt.Errorf("newCategorical: %v", err)
		}
		if lit != nil {
			switch len(lit) {
			case 1:
			case 2:
				s = tensor.Shape{lit[0]}
			default:
				return nil, fmt.Errorf("newCategorical: probabilities must "+
					"be 1- or 2-dimensional, got shape %v", lit)
			}
		}
	}
	c := &Categorical{p: p, shape: s, src: rand.NewSource(seed)}
	c.mode, _ = c.modeAt(nil)
	return c, nil
}

// rows splits the resolved probabilities into per-element rows of
// length k.
func (c *Categorical) rows(pt goprob.Point) ([][]float64, error) {
	resolved, err := Resolve(pt, c.p)
	if err != nil {
		return nil, err
	}
	p := resolved[0]
	shape := p.Shape()
	data, err := goprob.Float64s(p)
	if err != nil {
		return nil, err
	}
	switch len(shape) {
	case 1:
		return [][]float64{data}, nil
	case 2:
		out := make([][]float64, shape[0])
		k := shape[1]
		for r := range out {
			out[r] = data[r*k : (r+1)*k]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("probabilities must be 1- or 2-dimensional, "+
			"got shape %v", shape)
	}
}

// Logp returns the elementwise log-mass of value. With batched
// probabilities, element i of value is scored against row i.
func (c *Categorical) Logp(value *tensor.Dense, pt goprob.Point) (*tensor.Dense, error) {
	rows, err := c.rows(pt)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}
	v, err := goprob.Float64s(value)
	if err != nil {
		return nil, fmt.Errorf("logp: %v", err)
	}

	n := len(rows)
	if n == 1 {
		n = len(v)
	}
	if len(v) != n && len(v) != 1 {
		return nil, fmt.Errorf("logp: cannot broadcast %v values against %v "+
			"probability rows", len(v), len(rows))
	}

	out := make([]float64, n)
	for i := range out {
		row := rows[0]
		if len(rows) > 1 {
			row = rows[i]
		}
		val := v[0]
		if len(v) > 1 {
			val = v[i]
		}

		k := float64(len(row))
		sumOK := math.Abs(floats.Sum(row)-1) <= sumTol
		lp := math.NaN()
		if idx := int(val); idx >= 0 && idx < len(row) {
			lp = math.Log(row[idx])
		}
		out[i] = bound(lp, val >= 0, val <= k-1, sumOK)
	}
	return tensor.New(tensor.WithShape(n), tensor.WithBacking(out)), nil
}

// Random draws category labels, one per probability row. Rows that
// are not valid probability vectors are an error rather than a draw.
func (c *Categorical) Random(pt goprob.Point, size int) (*tensor.Dense, error) {
	rows, err := c.rows(pt)
	if err != nil {
		return nil, fmt.Errorf("random: %v", err)
	}
	cats := make([]distuv.Categorical, len(rows))
	for r, row := range rows {
		for _, w := range row {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("random: probabilities contain "+
					"invalid value %v", w)
			}
		}
		if math.Abs(floats.Sum(row)-1) > sumTol {
			return nil, fmt.Errorf("random: probabilities sum to %v, not 1",
				floats.Sum(row))
		}
		cats[r] = distuv.NewCategorical(row, c.src)
	}
	shape := tensor.Shape{len(rows)}
	return drawInt64(shape, size, func(i int) float64 {
		return cats[i].Rand()
	}), nil
}

// Mode returns the most probable category of each row.
func (c *Categorical) Mode(pt goprob.Point) (*tensor.Dense, error) {
	if c.mode != nil {
		return c.mode.Clone().(*tensor.Dense), nil
	}
	m, err := c.modeAt(pt)
	if err != nil {
		return nil, fmt.Errorf("mode: %v", err)
	}
	return m, nil
}

func (c *Categorical) modeAt(pt goprob.Point) (*tensor.Dense, error) {
	rows, err := c.rows(pt)
	if err != nil {
		return nil, err
	}
	shape := tensor.Shape{len(rows)}
	return fillInt64(shape, func(i int) float64 {
		idx := 0
		for j, w := range rows[i] {
			if w > rows[i][idx] {
				idx = j
			}
		}
		return float64(idx)
	}), nil
}

// Shape returns the event shape.
func (c *Categorical) Shape() tensor.Shape { return c.shape }

// Dtype returns tensor.Int64.
func (c *Categorical) Dtype() tensor.Dtype { return tensor.Int64 }
