package goprob

import (
	"fmt"

	"gorgonia.org/tensor"
)

// A VarMap locates one variable inside a flat parameter vector: its
// elements occupy the half-open range [Start, Stop) and reshape to
// Shape.
type VarMap struct {
	Var   *RandomVariable
	Start int
	Stop  int
	Shape tensor.Shape
}

// An ArrayOrdering fixes the layout used to linearize a set of
// variables into one flat vector: each variable owns a contiguous,
// non-overlapping slice, in the order the variables were supplied.
type ArrayOrdering struct {
	VMap       []VarMap
	Dimensions int
}

// NewArrayOrdering builds the flat layout for vars.
func NewArrayOrdering(vars []*RandomVariable) *ArrayOrdering {
	ord := &ArrayOrdering{VMap: make([]VarMap, 0, len(vars))}
	for _, v := range vars {
		size := v.Size()
		ord.VMap = append(ord.VMap, VarMap{
			Var:   v,
			Start: ord.Dimensions,
			Stop:  ord.Dimensions + size,
			Shape: v.Shape,
		})
		ord.Dimensions += size
	}
	return ord
}

// A Bijection converts between Points and flat float64 vectors with
// respect to one ArrayOrdering. It is stateless once built: Map and
// Rmap never mutate their arguments and the bijection itself holds no
// mutable state.
type Bijection struct {
	ordering *ArrayOrdering
}

// NewBijection builds the transform pair for ordering. The reference
// point must hold a correctly shaped value for every variable in the
// ordering; construction fails fast otherwise.
func NewBijection(ordering *ArrayOrdering, ref Point) (*Bijection, error) {
	for _, vm := range ordering.VMap {
		val, ok := ref[vm.Var.Name]
		if !ok {
			return nil, fmt.Errorf("newBijection: point has no value for "+
				"variable %q", vm.Var.Name)
		}
		if !val.Shape().Eq(vm.Shape) {
			return nil, fmt.Errorf("newBijection: variable %q has shape %v "+
				"but point value has shape %v", vm.Var.Name, vm.Shape,
				val.Shape())
		}
	}
	return &Bijection{ordering: ordering}, nil
}

// Map flattens the values of the ordering's variables into a single
// vector, concatenated in ordering order. Variables outside the
// ordering are ignored.
func (b *Bijection) Map(pt Point) ([]float64, error) {
	flat := make([]float64, b.ordering.Dimensions)
	for _, vm := range b.ordering.VMap {
		val, ok := pt[vm.Var.Name]
		if !ok {
			return nil, fmt.Errorf("map: point has no value for variable %q",
				vm.Var.Name)
		}
		if !val.Shape().Eq(vm.Shape) {
			return nil, fmt.Errorf("map: variable %q has shape %v but point "+
				"value has shape %v", vm.Var.Name, vm.Shape, val.Shape())
		}
		data, err := Float64s(val)
		if err != nil {
			return nil, fmt.Errorf("map: variable %q: %v", vm.Var.Name, err)
		}
		copy(flat[vm.Start:vm.Stop], data)
	}
	return flat, nil
}

// Rmap slices a flat vector back into a Point covering exactly the
// ordering's variables, with each segment reshaped to its variable's
// shape and cast to its variable's dtype. Casting to an integer dtype
// truncates toward zero.
func (b *Bijection) Rmap(flat []float64) (Point, error) {
	if len(flat) != b.ordering.Dimensions {
		return nil, fmt.Errorf("rmap: expected a vector of length %v but got %v",
			b.ordering.Dimensions, len(flat))
	}
	pt := make(Point, len(b.ordering.VMap))
	for _, vm := range b.ordering.VMap {
		pt[vm.Var.Name] = fromFloat64s(flat[vm.Start:vm.Stop], vm.Shape,
			vm.Var.Dtype)
	}
	return pt, nil
}

// Mapf adapts a function over Points into a function over flat
// vectors by composing it with Rmap.
func (b *Bijection) Mapf(f func(Point) (float64, error)) func([]float64) (float64, error) {
	return func(flat []float64) (float64, error) {
		pt, err := b.Rmap(flat)
		if err != nil {
			return 0, fmt.Errorf("mapf: %v", err)
		}
		return f(pt)
	}
}

// fromFloat64s builds a tensor of the given shape and dtype from flat
// float64 data. The data is copied.
func fromFloat64s(data []float64, shape tensor.Shape, dt tensor.Dtype) *tensor.Dense {
	if dt == tensor.Int64 {
		backing := make([]int64, len(data))
		for i, v := range data {
			backing[i] = int64(v)
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
	}
	backing := make([]float64, len(data))
	copy(backing, data)
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
}
