package goprob

import "gorgonia.org/tensor"

// A RandomVariable is a named model variable following a
// distribution. Variables are created by Model.Register and are
// immutable afterwards.
type RandomVariable struct {
	Name  string
	Shape tensor.Shape
	Dtype tensor.Dtype
	Dist  Distribution
}

// IsDiscrete reports whether the variable takes integer values.
func (v *RandomVariable) IsDiscrete() bool {
	return v.Dtype == tensor.Int64
}

// Size returns the number of scalar elements the variable holds.
func (v *RandomVariable) Size() int {
	return v.Shape.TotalSize()
}
