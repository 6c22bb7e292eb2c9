package trainer

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"digitnet/internal/dataset"
	"digitnet/internal/metrics"
	"digitnet/internal/model"
)

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	Topology  model.Topology
	LearnRate float64
	BatchSize int
	Epochs    int
	LogEvery  int
	Seed      int64

	TrainPath string
	TestPath  string
	LoadPath  string
	SavePath  string
}

// Report is what a run produced.
type Report struct {
	Epochs []model.EpochStats
	Train  *metrics.Summary
	Test   *metrics.Summary
}

// Run executes the workload: build or load a network, train it, evaluate it
// and save it, each step only when its path is configured.
func Run(ctx context.Context, cfg RunConfig) (Report, error) {
	var report Report
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	net, err := model.New(cfg.Topology, rng)
	if err != nil {
		return report, err
	}
	if cfg.LoadPath != "" {
		if err := net.LoadFile(cfg.LoadPath); err != nil {
			return report, err
		}
		log.Printf("loaded network path=%s", cfg.LoadPath)
	}

	var trainSet []dataset.Example
	if cfg.TrainPath != "" {
		trainSet, err = loadSet(cfg.TrainPath, cfg.Topology.Outputs)
		if err != nil {
			return report, err
		}
		report.Epochs, err = train(ctx, net, rng, trainSet, cfg)
		if err != nil {
			return report, err
		}
		sum, err := evaluate(net, "train", trainSet)
		if err != nil {
			return report, err
		}
		report.Train = &sum
	}

	if cfg.TestPath != "" {
		testSet, err := loadSet(cfg.TestPath, cfg.Topology.Outputs)
		if err != nil {
			return report, err
		}
		sum, err := evaluate(net, "test", testSet)
		if err != nil {
			return report, err
		}
		report.Test = &sum
	}

	if cfg.SavePath != "" {
		if err := net.SaveFile(cfg.SavePath); err != nil {
			return report, err
		}
		log.Printf("saved network path=%s", cfg.SavePath)
	}
	return report, nil
}

func loadSet(path string, numClasses int) ([]dataset.Example, error) {
	start := time.Now()
	examples, err := dataset.Load(path, numClasses)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded dataset path=%s examples=%d load_ms=%d", path, len(examples), time.Since(start).Milliseconds())
	return examples, nil
}

func train(ctx context.Context, net *model.Network, rng *rand.Rand, data []dataset.Example, cfg RunConfig) ([]model.EpochStats, error) {
	if cfg.Epochs <= 0 {
		return nil, errors.Wrapf(model.ErrEpochs, "got %d", cfg.Epochs)
	}
	var window metrics.Window
	stats := make([]model.EpochStats, 0, cfg.Epochs)
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		start := time.Now()
		s, err := net.TrainEpoch(rng, data, cfg.LearnRate, cfg.BatchSize)
		if err != nil {
			return stats, err
		}
		window.Record(s.Total, s.Correct, time.Since(start), s.Cost)
		stats = append(stats, s)

		if epoch%cfg.LogEvery == 0 || epoch == cfg.Epochs {
			snap := window.Snapshot()
			log.Printf("epoch=%d batches=%d correct=%d/%d accuracy=%.4f cost=%.5f examples_per_sec=%.1f epoch_ms=%.1f",
				epoch,
				s.Batches,
				s.Correct,
				s.Total,
				snap.Accuracy,
				snap.LastCost,
				snap.ExamplesPerSec,
				snap.AvgEpochMS,
			)
		}
	}
	return stats, nil
}

func evaluate(net *model.Network, name string, data []dataset.Example) (metrics.Summary, error) {
	outcomes, err := net.Test(data)
	if err != nil {
		return metrics.Summary{}, errors.Wrapf(err, "evaluate %s set", name)
	}
	sum := metrics.Summarize(outcomes)
	log.Printf("evaluated set=%s answered=%s", name, sum)
	return sum, nil
}
