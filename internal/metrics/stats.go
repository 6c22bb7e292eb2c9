package metrics

import (
	"fmt"
	"time"
)

// Window accumulates training stats across multiple epochs.
type Window struct {
	examples int
	correct  int
	elapsed  time.Duration
	epochs   int
	lastCost float64
}

// Record adds one epoch to the window.
func (w *Window) Record(examples, correct int, elapsed time.Duration, cost float64) {
	w.examples += examples
	w.correct += correct
	w.elapsed += elapsed
	w.epochs++
	w.lastCost = cost
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{}
	if w.elapsed > 0 {
		snap.ExamplesPerSec = float64(w.examples) / w.elapsed.Seconds()
	}
	if w.epochs > 0 {
		snap.AvgEpochMS = (w.elapsed.Seconds() * 1000) / float64(w.epochs)
	}
	if w.examples > 0 {
		snap.Accuracy = float64(w.correct) / float64(w.examples)
	}
	snap.LastCost = w.lastCost

	w.examples = 0
	w.correct = 0
	w.elapsed = 0
	w.epochs = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	ExamplesPerSec float64
	AvgEpochMS     float64
	Accuracy       float64
	LastCost       float64
}

// Summary counts correct answers over an evaluated dataset.
type Summary struct {
	Correct int
	Total   int
}

// Summarize tallies test outcomes.
func Summarize(outcomes []bool) Summary {
	s := Summary{Total: len(outcomes)}
	for _, ok := range outcomes {
		if ok {
			s.Correct++
		}
	}
	return s
}

// Percent returns the share of correct answers in [0,100].
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(s.Total)
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d (%.2f%%)", s.Correct, s.Total, s.Percent())
}
