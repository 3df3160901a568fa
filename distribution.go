package goprob

import "gorgonia.org/tensor"

// A Distribution is the probability contract a random variable
// carries: pointwise log-density, random sampling, and a cheap mode
// used to seed default starting points.
type Distribution interface {
	// Logp returns the elementwise log-density or log-mass of value
	// under the distribution. Parameters that refer to other model
	// variables are resolved against pt. The value tensor and the
	// distribution's parameters are broadcast against each other, so
	// the result may have a larger shape than value itself.
	//
	// Values outside the distribution's support produce -Inf entries
	// rather than an error. Errors report structural problems only:
	// unresolvable parameters or incompatible shapes.
	Logp(value *tensor.Dense, pt Point) (*tensor.Dense, error)

	// Random draws from the distribution with parameters resolved
	// against pt. A size of zero or less draws once, returning a
	// tensor of the distribution's own shape. A size of n returns n
	// stacked draws of shape (n, Shape...).
	//
	// Distributions without a sampler return an error matching
	// dist.ErrSampleNotImplemented.
	Random(pt Point, size int) (*tensor.Dense, error)

	// Mode returns a representative point of the distribution, used
	// to initialize default model points. It need not be the true
	// mode in degenerate parameter regimes, but it is always cheap
	// and deterministic.
	Mode(pt Point) (*tensor.Dense, error)

	// Shape returns the distribution's event shape.
	Shape() tensor.Shape

	// Dtype returns the element type of samples: tensor.Int64 for
	// discrete distributions and tensor.Float64 for continuous ones.
	Dtype() tensor.Dtype
}
