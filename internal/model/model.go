package model

import "github.com/pkg/errors"

// Configuration errors. They are returned before any parameter is touched.
var (
	ErrTopology      = errors.New("model: invalid topology")
	ErrFeatureLength = errors.New("model: feature length does not match inputs")
	ErrTargetLength  = errors.New("model: target length does not match outputs")
	ErrLabelRange    = errors.New("model: label out of range")
	ErrEmptyDataset  = errors.New("model: empty dataset")
	ErrBatchSize     = errors.New("model: invalid batch size")
	ErrLearnRate     = errors.New("model: learn rate must be > 0")
	ErrEpochs        = errors.New("model: epochs must be > 0")
)

// Persistence errors.
var (
	ErrTopologyMismatch = errors.New("model: topology mismatch")
	ErrFormat           = errors.New("model: malformed network file")
)

// Topology fixes the shape of a Network for its whole lifetime.
type Topology struct {
	Inputs       int
	HiddenLayers int
	HiddenWidth  int
	Outputs      int
}

// Validate verifies the topology can be built.
func (t Topology) Validate() error {
	if t.Inputs <= 0 {
		return errors.Wrapf(ErrTopology, "inputs must be > 0 (got %d)", t.Inputs)
	}
	if t.Outputs <= 0 {
		return errors.Wrapf(ErrTopology, "outputs must be > 0 (got %d)", t.Outputs)
	}
	if t.HiddenLayers < 0 {
		return errors.Wrapf(ErrTopology, "hidden layers must be >= 0 (got %d)", t.HiddenLayers)
	}
	if t.HiddenWidth < 0 || (t.HiddenLayers > 0 && t.HiddenWidth == 0) {
		return errors.Wrapf(ErrTopology, "hidden width must be > 0 (got %d)", t.HiddenWidth)
	}
	return nil
}

// widths lists the unit count of every layer, source layer first.
func (t Topology) widths() []int {
	w := make([]int, 0, t.HiddenLayers+2)
	w = append(w, t.Inputs)
	for i := 0; i < t.HiddenLayers; i++ {
		w = append(w, t.HiddenWidth)
	}
	return append(w, t.Outputs)
}
