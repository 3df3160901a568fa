package dist

import (
	"testing"

	"github.com/samuelfneumann/goprob"
	"gorgonia.org/tensor"
)

func TestResolve(t *testing.T) {
	pt := goprob.Point{"rate": vec(2.5)}

	resolved, err := Resolve(pt, C(3), A(vec(1, 2, 3)), RV("rate"))
	if err != nil {
		t.Fatal(err)
	}

	c := f64s(t, resolved[0])
	if len(c) != 1 || c[0] != 3 {
		t.Errorf("constant resolved to %v, expected [3]", c)
	}

	a := f64s(t, resolved[1])
	for i, want := range []float64{1, 2, 3} {
		if a[i] != want {
			t.Errorf("array element %v resolved to %v, expected %v", i, a[i],
				want)
		}
	}

	r := f64s(t, resolved[2])
	if len(r) != 1 || r[0] != 2.5 {
		t.Errorf("variable reference resolved to %v, expected [2.5]", r)
	}
}

func TestResolveMissingVariable(t *testing.T) {
	if _, err := Resolve(goprob.Point{}, RV("rate")); err == nil {
		t.Error("resolving a reference to an absent variable succeeded")
	}
}

func TestResolveIntTensor(t *testing.T) {
	pt := goprob.Point{"count": ivec(4)}
	resolved, err := Resolve(pt, RV("count"))
	if err != nil {
		t.Fatal(err)
	}
	if resolved[0].Dtype() != tensor.Float64 {
		t.Errorf("resolved dtype is %v, expected float64", resolved[0].Dtype())
	}
	if got := f64s(t, resolved[0]); got[0] != 4 {
		t.Errorf("resolved value is %v, expected 4", got[0])
	}
}
