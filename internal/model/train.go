package model

import (
	"math/rand"

	"github.com/pkg/errors"

	"digitnet/internal/dataset"
)

// TrainOptions configures Train.
type TrainOptions struct {
	LearnRate float64
	BatchSize int
	Epochs    int
}

// ClassTally counts predictions for one class.
type ClassTally struct {
	Correct int
	Total   int
}

// EpochStats summarizes one training epoch. Predictions are taken before the
// update of the batch they belong to.
type EpochStats struct {
	Batches  int
	Correct  int
	Total    int
	Cost     float64
	PerClass []ClassTally
}

// ErrorRate returns the fraction of mispredicted examples.
func (s EpochStats) ErrorRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Total-s.Correct) / float64(s.Total)
}

// Train runs opts.Epochs epochs of mini-batch gradient descent over data,
// shuffling data in place each epoch.
func (n *Network) Train(rng *rand.Rand, data []dataset.Example, opts TrainOptions) ([]EpochStats, error) {
	if opts.Epochs <= 0 {
		return nil, errors.Wrapf(ErrEpochs, "got %d", opts.Epochs)
	}
	if err := n.checkTraining(data, opts.LearnRate, opts.BatchSize); err != nil {
		return nil, err
	}
	stats := make([]EpochStats, 0, opts.Epochs)
	for e := 0; e < opts.Epochs; e++ {
		stats = append(stats, n.epoch(rng, data, opts.LearnRate, opts.BatchSize))
	}
	return stats, nil
}

// TrainEpoch runs a single shuffled epoch over data.
func (n *Network) TrainEpoch(rng *rand.Rand, data []dataset.Example, learnRate float64, batchSize int) (EpochStats, error) {
	if err := n.checkTraining(data, learnRate, batchSize); err != nil {
		return EpochStats{}, err
	}
	return n.epoch(rng, data, learnRate, batchSize), nil
}

func (n *Network) epoch(rng *rand.Rand, data []dataset.Example, learnRate float64, batchSize int) EpochStats {
	if rng == nil {
		rng = rand.New(rand.NewSource(defaultSeed))
	}
	dataset.Shuffle(rng, data)

	stats := EpochStats{PerClass: make([]ClassTally, n.topo.Outputs)}
	for _, span := range dataset.Partition(len(data), batchSize) {
		n.miniBatch(data[span.Start:span.End], learnRate, &stats)
	}
	if stats.Total > 0 {
		stats.Cost /= float64(stats.Total)
	}
	return stats
}

// miniBatch accumulates gradients over batch and applies their mean. A short
// trailing batch is averaged over its own length.
func (n *Network) miniBatch(batch []dataset.Example, learnRate float64, stats *EpochStats) {
	for _, ex := range batch {
		predicted := n.forward(ex.Features)
		tally := &stats.PerClass[ex.Label]
		tally.Total++
		if predicted == ex.Label {
			tally.Correct++
			stats.Correct++
		}
		stats.Total++
		stats.Cost += n.quadraticCost(ex.Target)
		n.backpropagate(ex.Target)
	}
	n.applyGradients(learnRate, len(batch))
	stats.Batches++
}

// Test reports, per example, whether the predicted label matches.
func (n *Network) Test(data []dataset.Example) ([]bool, error) {
	if err := n.checkExamples(data); err != nil {
		return nil, err
	}
	outcomes := make([]bool, len(data))
	for i, ex := range data {
		outcomes[i] = n.forward(ex.Features) == ex.Label
	}
	return outcomes, nil
}

// Cost returns the mean quadratic cost of the network over data.
func (n *Network) Cost(data []dataset.Example) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyDataset
	}
	if err := n.checkExamples(data); err != nil {
		return 0, err
	}
	var total float64
	for _, ex := range data {
		n.forward(ex.Features)
		total += n.quadraticCost(ex.Target)
	}
	return total / float64(len(data)), nil
}

func (n *Network) checkTraining(data []dataset.Example, learnRate float64, batchSize int) error {
	if len(data) == 0 {
		return ErrEmptyDataset
	}
	if batchSize <= 0 || batchSize > len(data) {
		return errors.Wrapf(ErrBatchSize, "got %d for %d examples", batchSize, len(data))
	}
	if !(learnRate > 0) {
		return errors.Wrapf(ErrLearnRate, "got %g", learnRate)
	}
	return n.checkExamples(data)
}

func (n *Network) checkExamples(data []dataset.Example) error {
	for i, ex := range data {
		if len(ex.Features) != n.topo.Inputs {
			return errors.Wrapf(ErrFeatureLength, "example %d has %d features, want %d", i, len(ex.Features), n.topo.Inputs)
		}
		if len(ex.Target) != n.topo.Outputs {
			return errors.Wrapf(ErrTargetLength, "example %d has %d targets, want %d", i, len(ex.Target), n.topo.Outputs)
		}
		if ex.Label < 0 || ex.Label >= n.topo.Outputs {
			return errors.Wrapf(ErrLabelRange, "example %d has label %d", i, ex.Label)
		}
	}
	return nil
}
