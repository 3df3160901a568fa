package goprob

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Float64s returns the tensor's data as a fresh float64 slice in
// row-major order, converting integer backings as needed. The result
// never aliases the tensor.
func Float64s(t *tensor.Dense) ([]float64, error) {
	switch data := t.Data().(type) {
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil

	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil

	case []int64:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil

	case []int32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil

	case []int:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil

	// Scalar-shaped tensors hand back a bare value.
	case float64:
		return []float64{data}, nil

	case float32:
		return []float64{float64(data)}, nil

	case int64:
		return []float64{float64(data)}, nil

	case int:
		return []float64{float64(data)}, nil

	default:
		return nil, fmt.Errorf("float64s: unsupported tensor data type %T", data)
	}
}
