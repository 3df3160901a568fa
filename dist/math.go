package dist

import "math"

// bound forces a log-density expression to -Inf whenever any domain
// constraint fails. When every constraint holds the expression is
// returned untouched, NaN included, so callers can distinguish an
// out-of-support value from a numerically degenerate one.
func bound(logp float64, constraints ...bool) float64 {
	for _, ok := range constraints {
		if !ok {
			return math.Inf(-1)
		}
	}
	return logp
}

// logpow returns log(x**m), defining 0**0 as 1 so that the product
// m*log(x) does not produce NaN at x == 0, m == 0.
func logpow(x, m float64) float64 {
	if x == 0 && m == 0 {
		return 0
	}
	return m * math.Log(x)
}

// factln returns log(n!) through the log-gamma function. Unlike a
// table lookup it accepts non-integer arguments, and it never panics:
// out-of-domain arguments surface as Inf or NaN for bound to mask.
func factln(n float64) float64 {
	lg, _ := math.Lgamma(n + 1)
	return lg
}

// binomln returns the log of the binomial coefficient C(n, k).
func binomln(n, k float64) float64 {
	return factln(n) - factln(k) - factln(n-k)
}

// betaln returns the log of the complete beta function B(a, b).
func betaln(a, b float64) float64 {
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	return la + lb - lab
}

// poissonLogp is the elementwise Poisson log-mass kernel, shared by
// the distributions that degenerate or mix into a Poisson.
func poissonLogp(value, mu float64) float64 {
	return bound(
		logpow(mu, value)-factln(value)-mu,
		mu >= 0, value >= 0,
	)
}

// constantLogp is the elementwise log-mass kernel of the degenerate
// distribution concentrated at c.
func constantLogp(value, c float64) float64 {
	return bound(0, value == c)
}
