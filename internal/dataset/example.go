package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PixelScale maps raw 0..255 grayscale values onto [0,1].
const PixelScale = 255.0

var (
	// ErrLabelRange indicates a label outside [0, numClasses).
	ErrLabelRange = errors.New("dataset: label out of range")
	// ErrPixelRange indicates a raw pixel outside [0, PixelScale].
	ErrPixelRange = errors.New("dataset: pixel out of range")
	// ErrFeatureRange indicates a normalized feature outside [0,1].
	ErrFeatureRange = errors.New("dataset: feature out of range")
)

// Example is a labeled feature vector. It is built once and never mutated.
type Example struct {
	Features []float64
	Label    int
	// Target is the one-hot encoding of Label.
	Target []float64
}

// NewExample parses raw pixel fields and normalizes them by PixelScale.
func NewExample(label int, fields []string, numClasses int) (Example, error) {
	features := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Example{}, errors.Wrapf(err, "feature %d", i)
		}
		if !(v >= 0 && v <= PixelScale) {
			return Example{}, errors.Wrapf(ErrPixelRange, "feature %d: %g", i, v)
		}
		features[i] = v / PixelScale
	}
	return FromFeatures(label, features, numClasses)
}

// FromFeatures builds an Example from already normalized features.
func FromFeatures(label int, features []float64, numClasses int) (Example, error) {
	if label < 0 || label >= numClasses {
		return Example{}, errors.Wrapf(ErrLabelRange, "label %d with %d classes", label, numClasses)
	}
	for i, v := range features {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return Example{}, errors.Wrapf(ErrFeatureRange, "feature %d: %g", i, v)
		}
	}
	target := make([]float64, numClasses)
	target[label] = 1
	return Example{
		Features: append([]float64(nil), features...),
		Label:    label,
		Target:   target,
	}, nil
}
