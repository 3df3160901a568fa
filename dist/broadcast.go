package dist

import (
	"fmt"

	"github.com/samuelfneumann/goprob"
	"gorgonia.org/tensor"
)

// Reconcile returns the common broadcast shape of shapes under
// trailing-dimension alignment: dimensions are compared right to left
// and must either match or be 1.
func Reconcile(shapes ...tensor.Shape) (tensor.Shape, error) {
	ndim := 0
	for _, s := range shapes {
		if len(s) > ndim {
			ndim = len(s)
		}
	}
	out := make(tensor.Shape, ndim)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		offset := ndim - len(s)
		for i, d := range s {
			j := offset + i
			switch {
			case d == out[j], d == 1:
			case out[j] == 1:
				out[j] = d
			default:
				return nil, fmt.Errorf("reconcile: cannot broadcast shapes %v",
					shapes)
			}
		}
	}
	return out, nil
}

// Expand materializes t at the given broadcast shape, repeating
// elements along size-1 dimensions. When t already has the target
// shape it is returned as is; otherwise the result owns fresh
// backing.
func Expand(t *tensor.Dense, shape tensor.Shape) (*tensor.Dense, error) {
	src := t.Shape()
	if src.Eq(shape) {
		return t, nil
	}
	common, err := Reconcile(src, shape)
	if err != nil || !common.Eq(shape) {
		return nil, fmt.Errorf("expand: cannot expand shape %v to %v", src,
			shape)
	}

	data, err := goprob.Float64s(t)
	if err != nil {
		return nil, fmt.Errorf("expand: %v", err)
	}

	srcStrides := rowMajorStrides(src)
	offset := len(shape) - len(src)
	out := make([]float64, shape.TotalSize())
	outStrides := rowMajorStrides(shape)
	for i := range out {
		coords, err := tensor.Itol(i, shape, outStrides)
		if err != nil {
			return nil, fmt.Errorf("expand: %v", err)
		}
		si := 0
		for d := range src {
			if src[d] != 1 {
				si += coords[offset+d] * srcStrides[d]
			}
		}
		out[i] = data[si]
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(out)), nil
}

func rowMajorStrides(s tensor.Shape) []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// broadcastAll expands value and params to their common broadcast
// shape, returning the flat float64 data of each plus the shape
// itself. The first returned slice is always the value's data.
func broadcastAll(value *tensor.Dense, params ...*tensor.Dense) ([][]float64, tensor.Shape, error) {
	tensors := make([]*tensor.Dense, 0, len(params)+1)
	val, err := asFloat64(value)
	if err != nil {
		return nil, nil, err
	}
	tensors = append(tensors, val)
	tensors = append(tensors, params...)

	shapes := make([]tensor.Shape, len(tensors))
	for i, t := range tensors {
		shapes[i] = t.Shape()
	}
	common, err := Reconcile(shapes...)
	if err != nil {
		return nil, nil, err
	}

	out := make([][]float64, len(tensors))
	for i, t := range tensors {
		e, err := Expand(t, common)
		if err != nil {
			return nil, nil, err
		}
		data, err := goprob.Float64s(e)
		if err != nil {
			return nil, nil, err
		}
		out[i] = data
	}
	return out, common, nil
}
