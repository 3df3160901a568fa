package dist

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

func TestBetaLogp(t *testing.T) {
	const alpha, beta float64 = 3, 2

	b, err := NewBeta(C(alpha), C(beta), 1)
	if err != nil {
		t.Fatal(err)
	}

	oracle := distuv.Beta{Alpha: alpha, Beta: beta}
	for x := 0.05; x < 1; x += 0.05 {
		got := logpOf(t, b, vec(x))[0]
		want := oracle.LogProb(x)
		if math.Abs(got-want) > logpTol {
			t.Errorf("logp(%v) = %v, expected %v", x, got, want)
		}
	}

	for _, x := range []float64{-0.1, 1.1} {
		if got := logpOf(t, b, vec(x))[0]; !math.IsInf(got, -1) {
			t.Errorf("logp(%v) = %v, expected -Inf", x, got)
		}
	}

	bad, err := NewBeta(C(-1), C(beta), 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := logpOf(t, bad, vec(0.5))[0]; !math.IsInf(got, -1) {
		t.Errorf("logp with alpha = -1 is %v, expected -Inf", got)
	}
}

func TestBetaSampling(t *testing.T) {
	const alpha, beta float64 = 3, 2

	b, err := NewBeta(C(alpha), C(beta), 31)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range sampleData(t, b, numSamples) {
		if s < 0 || s > 1 {
			t.Fatalf("sample %v is %v, outside [0, 1]", i, s)
		}
	}
	mean := sampleMean(t, b, numSamples)
	if want := alpha / (alpha + beta); math.Abs(mean-want) > meanTol {
		t.Errorf("sample mean is %v, expected about %v", mean, want)
	}

	// The mode doubles as the default model value, the distribution
	// mean.
	if mode := modeOf(t, b); math.Abs(mode[0]-0.6) > logpTol {
		t.Errorf("mode is %v, expected 0.6", mode[0])
	}
}

func TestNormalLogp(t *testing.T) {
	const mu, sigma float64 = 1, 2

	n, err := NewNormal(C(mu), C(sigma), 1)
	if err != nil {
		t.Fatal(err)
	}

	oracle := distuv.Normal{Mu: mu, Sigma: sigma}
	for x := -5.0; x <= 5; x += 0.5 {
		got := logpOf(t, n, vec(x))[0]
		want := oracle.LogProb(x)
		if math.Abs(got-want) > logpTol {
			t.Errorf("logp(%v) = %v, expected %v", x, got, want)
		}
	}

	bad, err := NewNormal(C(mu), C(-1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := logpOf(t, bad, vec(0))[0]; !math.IsInf(got, -1) {
		t.Errorf("logp with sigma = -1 is %v, expected -Inf", got)
	}
}

func TestNormalSampling(t *testing.T) {
	const mu, sigma float64 = 1, 2

	n, err := NewNormal(C(mu), C(sigma), 37)
	if err != nil {
		t.Fatal(err)
	}
	mean := sampleMean(t, n, numSamples)
	if math.Abs(mean-mu) > meanTol {
		t.Errorf("sample mean is %v, expected about %v", mean, mu)
	}
	if mode := modeOf(t, n); mode[0] != mu {
		t.Errorf("mode is %v, expected %v", mode[0], mu)
	}
}

func TestUniformLogp(t *testing.T) {
	const lower, upper float64 = -2, 3

	u, err := NewUniform(C(lower), C(upper), 1)
	if err != nil {
		t.Fatal(err)
	}

	want := -math.Log(upper - lower)
	for x := lower; x <= upper; x += 0.5 {
		got := logpOf(t, u, vec(x))[0]
		if math.Abs(got-want) > logpTol {
			t.Errorf("logp(%v) = %v, expected %v", x, got, want)
		}
	}
	for _, x := range []float64{lower - 1, upper + 1} {
		if got := logpOf(t, u, vec(x))[0]; !math.IsInf(got, -1) {
			t.Errorf("logp(%v) = %v, expected -Inf", x, got)
		}
	}

	if mode := modeOf(t, u); mode[0] != (lower+upper)/2 {
		t.Errorf("mode is %v, expected %v", mode[0], (lower+upper)/2)
	}
}

func TestUniformSampling(t *testing.T) {
	const lower, upper float64 = -2, 3

	u, err := NewUniform(C(lower), C(upper), 41)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range sampleData(t, u, numSamples) {
		if s < lower || s > upper {
			t.Fatalf("sample %v is %v, outside [%v, %v]", i, s, lower, upper)
		}
	}
	mean := sampleMean(t, u, numSamples)
	if want := (lower + upper) / 2; math.Abs(mean-want) > meanTol {
		t.Errorf("sample mean is %v, expected about %v", mean, want)
	}
}

func TestGammaLogp(t *testing.T) {
	const alpha, beta float64 = 3, 2 // shape and rate

	g, err := NewGamma(C(alpha), C(beta), 1)
	if err != nil {
		t.Fatal(err)
	}

	oracle := distuv.Gamma{Alpha: alpha, Beta: beta}
	for x := 0.25; x <= 8; x += 0.25 {
		got := logpOf(t, g, vec(x))[0]
		want := oracle.LogProb(x)
		if math.Abs(got-want) > logpTol {
			t.Errorf("logp(%v) = %v, expected %v", x, got, want)
		}
	}

	if got := logpOf(t, g, vec(-1))[0]; !math.IsInf(got, -1) {
		t.Errorf("logp(-1) = %v, expected -Inf", got)
	}

	// Mode is (alpha-1)/beta, clamped at 0 for alpha < 1.
	if mode := modeOf(t, g); mode[0] != 1 {
		t.Errorf("mode is %v, expected 1", mode[0])
	}
	flat, err := NewGamma(C(0.5), C(beta), 1)
	if err != nil {
		t.Fatal(err)
	}
	if mode := modeOf(t, flat); mode[0] != 0 {
		t.Errorf("mode with alpha = 0.5 is %v, expected 0", mode[0])
	}
}

func TestGammaSampling(t *testing.T) {
	const alpha, beta float64 = 3, 2

	g, err := NewGamma(C(alpha), C(beta), 43)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range sampleData(t, g, numSamples) {
		if s < 0 {
			t.Fatalf("sample %v is %v, expected non-negative", i, s)
		}
	}
	mean := sampleMean(t, g, numSamples)
	if want := alpha / beta; math.Abs(mean-want) > meanTol {
		t.Errorf("sample mean is %v, expected about %v", mean, want)
	}
}

func TestExponentialLogp(t *testing.T) {
	const lam float64 = 2

	e, err := NewExponential(C(lam), 1)
	if err != nil {
		t.Fatal(err)
	}

	oracle := distuv.Exponential{Rate: lam}
	for x := 0.0; x <= 5; x += 0.25 {
		got := logpOf(t, e, vec(x))[0]
		want := oracle.LogProb(x)
		if math.Abs(got-want) > logpTol {
			t.Errorf("logp(%v) = %v, expected %v", x, got, want)
		}
	}

	if got := logpOf(t, e, vec(-1))[0]; !math.IsInf(got, -1) {
		t.Errorf("logp(-1) = %v, expected -Inf", got)
	}
}

func TestExponentialSampling(t *testing.T) {
	const lam float64 = 2

	e, err := NewExponential(C(lam), 47)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range sampleData(t, e, numSamples) {
		if s < 0 {
			t.Fatalf("sample %v is %v, expected non-negative", i, s)
		}
	}
	mean := sampleMean(t, e, numSamples)
	if math.Abs(mean-1/lam) > meanTol {
		t.Errorf("sample mean is %v, expected about %v", mean, 1/lam)
	}
}
