package model

import (
	"math"
	"math/rand"
	"testing"
)

func TestSigmoidStaysInRange(t *testing.T) {
	for x := -30.0; x <= 30; x += 0.5 {
		v := sigmoid(x)
		if !(v > 0 && v < 1) {
			t.Fatalf("sigmoid(%f)=%f outside (0,1)", x, v)
		}
	}
	if v := sigmoid(-1000); math.IsNaN(v) || v != 0 {
		t.Fatalf("sigmoid(-1000)=%f", v)
	}
	if v := sigmoid(1000); math.IsNaN(v) || v != 1 {
		t.Fatalf("sigmoid(1000)=%f", v)
	}
	if math.Abs(sigmoid(0)-0.5) > 1e-15 {
		t.Fatalf("sigmoid(0)=%f want 0.5", sigmoid(0))
	}
}

func TestComputeActivation(t *testing.T) {
	u := newComputedUnit(0, 2, rand.New(rand.NewSource(1)))
	u.setParameters(0.5, []float64{1, -2})
	got := u.ComputeActivation([]float64{0.25, 0.5})
	want := 1 / (1 + math.Exp(-(0.25 - 1 + 0.5)))
	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("activation=%f want %f", got, want)
	}
	if u.Activation() != got {
		t.Fatalf("stored activation %f differs from returned %f", u.Activation(), got)
	}
}

func TestSetGradientsAccumulates(t *testing.T) {
	u := newComputedUnit(0, 2, rand.New(rand.NewSource(1)))
	u.SetGradients(0.5, []float64{1, 2})
	u.SetGradients(-0.25, []float64{4, 0})

	if u.BiasGradient() != -0.25 {
		t.Fatalf("bias gradient=%f want -0.25", u.BiasGradient())
	}
	if u.biasGradientSum != 0.25 {
		t.Fatalf("bias gradient sum=%f want 0.25", u.biasGradientSum)
	}
	wantSum := []float64{0.5 - 1, 1}
	for j, v := range u.weightGradientSum {
		if v != wantSum[j] {
			t.Fatalf("weight gradient sum[%d]=%f want %f", j, v, wantSum[j])
		}
	}
	wantLast := []float64{-1, 0}
	for j, v := range u.WeightGradient() {
		if v != wantLast[j] {
			t.Fatalf("weight gradient[%d]=%f want %f", j, v, wantLast[j])
		}
	}
}

func TestApplyGradientsUpdatesAndResets(t *testing.T) {
	u := newComputedUnit(0, 2, rand.New(rand.NewSource(1)))
	u.setParameters(1, []float64{1, 1})
	u.SetGradients(0.2, []float64{1, 0.5})
	u.SetGradients(0.4, []float64{0.5, 1})

	u.ApplyGradients(2, 2)

	// scale = 1; sums are bias 0.6, weights 0.4 and 0.5
	if math.Abs(u.Bias()-0.4) > 1e-12 {
		t.Fatalf("bias=%f want 0.4", u.Bias())
	}
	w := u.Weights()
	if math.Abs(w[0]-0.6) > 1e-12 || math.Abs(w[1]-0.5) > 1e-12 {
		t.Fatalf("weights=%v want [0.6 0.5]", w)
	}
	if u.biasGradient != 0 || u.biasGradientSum != 0 {
		t.Fatalf("bias accumulators not reset")
	}
	for j := range u.weightGradientSum {
		if u.weightGradient[j] != 0 || u.weightGradientSum[j] != 0 {
			t.Fatalf("weight accumulators not reset at %d", j)
		}
	}
}

func TestNewComputedUnitInitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	sawNegative := false
	for i := 0; i < 50; i++ {
		u := newComputedUnit(0, 10, rng)
		for _, v := range append(u.Weights(), u.Bias()) {
			if v < -InitScale || v >= InitScale {
				t.Fatalf("initial parameter %f outside [-%f, %f)", v, InitScale, InitScale)
			}
			if v < 0 {
				sawNegative = true
			}
		}
	}
	if !sawNegative {
		t.Fatal("initialization never produced a negative value")
	}
}

func TestSourceUnitActivation(t *testing.T) {
	var s sourceUnit
	s.SetActivation(3.5)
	if s.Activation() != 3.5 {
		t.Fatalf("activation=%f want 3.5", s.Activation())
	}
}
