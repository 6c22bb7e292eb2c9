package model

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

// fixtureNetwork returns a (4,1,3,2) network with fixed parameters.
func fixtureNetwork(t *testing.T) *Network {
	t.Helper()
	n, err := New(Topology{Inputs: 4, HiddenLayers: 1, HiddenWidth: 3, Outputs: 2}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = n.LoadExplicit(
		[][]float64{{0.1, -0.36, -0.31}},
		[][][]float64{{
			{-0.21, 0.72, -0.25, 1},
			{-0.94, -0.41, -0.47, 0.63},
			{0.15, 0.55, -0.49, -0.75},
		}},
		[]float64{0.16, -0.46},
		[][]float64{{0.76, 0.48, -0.73}, {0.34, 0.89, -0.23}},
	)
	if err != nil {
		t.Fatalf("LoadExplicit: %v", err)
	}
	return n
}

func TestNewRejectsInvalidTopology(t *testing.T) {
	cases := []Topology{
		{Inputs: 0, HiddenLayers: 1, HiddenWidth: 3, Outputs: 2},
		{Inputs: 4, HiddenLayers: 1, HiddenWidth: 3, Outputs: 0},
		{Inputs: 4, HiddenLayers: -1, HiddenWidth: 3, Outputs: 2},
		{Inputs: 4, HiddenLayers: 2, HiddenWidth: 0, Outputs: 2},
	}
	for _, topo := range cases {
		if _, err := New(topo, nil); !errors.Is(err, ErrTopology) {
			t.Fatalf("New(%+v) err=%v want ErrTopology", topo, err)
		}
	}
}

func TestNewWiresLayers(t *testing.T) {
	n, err := New(Topology{Inputs: 5, HiddenLayers: 2, HiddenWidth: 4, Outputs: 3}, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(n.source) != 5 || len(n.computed) != 3 {
		t.Fatalf("unexpected layer counts source=%d computed=%d", len(n.source), len(n.computed))
	}
	wantFanIn := []int{5, 4, 4}
	wantWidth := []int{4, 4, 3}
	for l, layer := range n.computed {
		if len(layer) != wantWidth[l] {
			t.Fatalf("layer %d width=%d want %d", l+1, len(layer), wantWidth[l])
		}
		for i := range layer {
			if layer[i].from != l || len(layer[i].weights) != wantFanIn[l] {
				t.Fatalf("layer %d unit %d wired from %d with %d weights", l+1, i, layer[i].from, len(layer[i].weights))
			}
		}
	}
}

func TestRunFixture(t *testing.T) {
	n := fixtureNetwork(t)
	got, err := n.Run([]float64{0, 1, 0, 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != 0 {
		t.Fatalf("Run=%d want 0", got)
	}
	out := n.Outputs()
	if !(out[0] > out[1]) {
		t.Fatalf("expected first output to dominate, got %v", out)
	}
}

func TestRunDeterministic(t *testing.T) {
	n, err := New(Topology{Inputs: 6, HiddenLayers: 2, HiddenWidth: 5, Outputs: 4}, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 20; i++ {
		in := make([]float64, 6)
		for j := range in {
			in[j] = rng.Float64()
		}
		first, _ := n.Run(in)
		firstOut := n.Outputs()
		second, _ := n.Run(in)
		if first != second {
			t.Fatalf("run %d: %d then %d", i, first, second)
		}
		for k, v := range n.Outputs() {
			if v != firstOut[k] {
				t.Fatalf("run %d: output %d changed %f -> %f", i, k, firstOut[k], v)
			}
		}
	}
}

func TestRunActivationsInUnitInterval(t *testing.T) {
	n, err := New(Topology{Inputs: 3, HiddenLayers: 3, HiddenWidth: 4, Outputs: 2}, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := n.Run([]float64{1, 0.5, 0}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for l, layer := range n.computed {
		for i := range layer {
			a := layer[i].Activation()
			if !(a > 0 && a < 1) {
				t.Fatalf("layer %d unit %d activation %f outside (0,1)", l+1, i, a)
			}
		}
	}
}

func TestRunRejectsWrongLength(t *testing.T) {
	n := fixtureNetwork(t)
	if _, err := n.Run([]float64{1, 2}); !errors.Is(err, ErrFeatureLength) {
		t.Fatalf("expected ErrFeatureLength, got %v", err)
	}
}

func TestRunTiesPickLowestIndex(t *testing.T) {
	n, err := New(Topology{Inputs: 2, HiddenLayers: 0, Outputs: 3}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	zero := [][]float64{{0, 0}, {0, 0}, {0, 0}}
	if err := n.LoadExplicit(nil, nil, []float64{0, 1, 1}, zero); err != nil {
		t.Fatalf("LoadExplicit: %v", err)
	}
	got, _ := n.Run([]float64{0.3, 0.7})
	if got != 1 {
		t.Fatalf("Run=%d want 1", got)
	}
}

func TestZeroHiddenLayersWiresOutputToSource(t *testing.T) {
	n, err := New(Topology{Inputs: 3, HiddenLayers: 0, Outputs: 2}, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(n.computed) != 1 {
		t.Fatalf("expected only the output layer, got %d layers", len(n.computed))
	}
	for i, u := range n.outputLayer() {
		if u.from != 0 || len(u.weights) != 3 {
			t.Fatalf("output unit %d wired from %d with %d weights", i, u.from, len(u.weights))
		}
	}
}
