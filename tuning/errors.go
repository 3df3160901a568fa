package tuning

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/goprob"
)

// A NotInModelError reports requested variables that are not part of
// the model being optimized. It is returned before any optimizer work
// happens.
type NotInModelError struct {
	Names []string
}

func (e *NotInModelError) Error() string {
	return fmt.Sprintf("tuning: some variables not in the model: %v",
		strings.Join(e.Names, ", "))
}

// A DivergenceError reports an optimization whose final point, or
// whose log-density or gradient recomputed there, contains non-finite
// values. Details carries per-variable diagnostics naming the
// offending quantities.
type DivergenceError struct {
	// Point is the candidate optimum mapped back to variable space.
	Point goprob.Point

	// Logp is the joint log-density recomputed at Point.
	Logp float64

	// Details holds one line per non-finite quantity.
	Details []string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("tuning: optimization error: max, logp or dlogp at "+
		"max have non-finite values. Some values may be outside of "+
		"distribution support. max: %v logp: %v. Check that 1) you don't "+
		"have hierarchical parameters, these will lead to points with "+
		"infinite density, 2) your distribution logp's are properly "+
		"specified. Specific issues:\n%v",
		e.Point, e.Logp, strings.Join(e.Details, "\n"))
}
