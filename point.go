// Package goprob provides the building blocks for constructing
// Bayesian models in Go: named random variables, full variable
// assignments called Points, the bijection between structured Points
// and the flat parameter vectors used by numerical optimizers, and a
// Model type that sums its variables' log-densities into a joint
// log-density.
//
// Probability distributions live in the dist subpackage and point
// estimation in the tuning subpackage.
package goprob

import (
	"fmt"
	"sort"
	"strings"

	"gorgonia.org/tensor"
)

// A Point is a full assignment of values to model variables, keyed by
// variable name. Values are Float64 tensors for continuous variables
// and Int64 tensors for discrete ones, with scalars stored as tensors
// of shape (1). Each value is independently owned: the tensors in a
// Point are never shared with another Point.
type Point map[string]*tensor.Dense

// Copy returns a deep copy of the point.
func (p Point) Copy() Point {
	out := make(Point, len(p))
	for name, val := range p {
		out[name] = val.Clone().(*tensor.Dense)
	}
	return out
}

// Merge returns a copy of the point with the values of other laid
// over it. Values in other win. Neither p nor other is modified.
func (p Point) Merge(other Point) Point {
	out := p.Copy()
	for name, val := range other {
		out[name] = val.Clone().(*tensor.Dense)
	}
	return out
}

// Names returns the point's variable names in sorted order.
func (p Point) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the point with its variables in sorted order, so
// that log lines and error messages are stable.
func (p Point) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range p.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %v", name, p[name].Data())
	}
	sb.WriteString("}")
	return sb.String()
}
