package model

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

const defaultSeed = 42

// Network is a fully connected sigmoid network. Units are stored in an arena:
// layer 0 is the source layer, layers 1..HiddenLayers are hidden and the last
// layer is the output layer. A Network is not safe for concurrent use.
type Network struct {
	topo   Topology
	source []sourceUnit
	// computed[l-1] holds arena layer l.
	computed [][]computedUnit
	// acts[l] mirrors the activations of arena layer l.
	acts [][]float64
}

// New builds a randomly initialized network. A nil rng is replaced by a
// generator seeded with a fixed value.
func New(topo Topology, rng *rand.Rand) (*Network, error) {
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(defaultSeed))
	}

	widths := topo.widths()
	n := &Network{
		topo:     topo,
		source:   make([]sourceUnit, topo.Inputs),
		computed: make([][]computedUnit, len(widths)-1),
		acts:     make([][]float64, len(widths)),
	}
	for l, w := range widths {
		n.acts[l] = make([]float64, w)
	}
	for l := 1; l < len(widths); l++ {
		layer := make([]computedUnit, widths[l])
		for i := range layer {
			layer[i] = newComputedUnit(l-1, widths[l-1], rng)
		}
		n.computed[l-1] = layer
	}
	return n, nil
}

// Topology returns the shape the network was built with.
func (n *Network) Topology() Topology { return n.topo }

// Run propagates features through the network and returns the index of the
// most active output unit, the lowest index winning ties.
func (n *Network) Run(features []float64) (int, error) {
	if len(features) != n.topo.Inputs {
		return 0, errors.Wrapf(ErrFeatureLength, "got %d features, want %d", len(features), n.topo.Inputs)
	}
	return n.forward(features), nil
}

// Outputs returns a copy of the output activations from the last forward pass.
func (n *Network) Outputs() []float64 {
	return append([]float64(nil), n.acts[len(n.acts)-1]...)
}

func (n *Network) forward(features []float64) int {
	for i := range n.source {
		n.source[i].SetActivation(features[i])
		n.acts[0][i] = n.source[i].Activation()
	}
	for l, layer := range n.computed {
		out := n.acts[l+1]
		for i := range layer {
			u := &layer[i]
			out[i] = u.ComputeActivation(n.acts[u.from])
		}
	}
	return floats.MaxIdx(n.acts[len(n.acts)-1])
}

func (n *Network) outputLayer() []computedUnit {
	return n.computed[len(n.computed)-1]
}

func (n *Network) hiddenLayers() [][]computedUnit {
	return n.computed[:len(n.computed)-1]
}
