package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// InitScale bounds the uniform draw used for fresh weights and biases.
const InitScale = 0.5

// sourceUnit carries one externally supplied feature value.
type sourceUnit struct {
	activation float64
}

// SetActivation injects v as the unit's activation.
func (u *sourceUnit) SetActivation(v float64) { u.activation = v }

// Activation returns the injected value.
func (u *sourceUnit) Activation() float64 { return u.activation }

// computedUnit is a sigmoid unit fed by every unit of one earlier layer.
type computedUnit struct {
	// from is the arena index of the layer feeding this unit.
	from    int
	bias    float64
	weights []float64

	activation float64

	biasGradient      float64
	weightGradient    []float64
	biasGradientSum   float64
	weightGradientSum []float64
}

func newComputedUnit(from, fanIn int, rng *rand.Rand) computedUnit {
	u := computedUnit{
		from:              from,
		bias:              uniform(rng),
		weights:           make([]float64, fanIn),
		weightGradient:    make([]float64, fanIn),
		weightGradientSum: make([]float64, fanIn),
	}
	for i := range u.weights {
		u.weights[i] = uniform(rng)
	}
	return u
}

func uniform(rng *rand.Rand) float64 {
	return (rng.Float64()*2 - 1) * InitScale
}

// ComputeActivation sets the activation from the input layer's activations.
// len(in) must equal the unit's fan-in.
func (u *computedUnit) ComputeActivation(in []float64) float64 {
	u.activation = sigmoid(floats.Dot(u.weights, in) + u.bias)
	return u.activation
}

// Activation returns the last computed activation.
func (u *computedUnit) Activation() float64 { return u.activation }

// Bias returns the unit's bias.
func (u *computedUnit) Bias() float64 { return u.bias }

// Weights returns a copy of the unit's weights in input order.
func (u *computedUnit) Weights() []float64 {
	return append([]float64(nil), u.weights...)
}

// SetGradients records delta as the bias gradient and delta*in[j] as the
// gradient of weight j, adding both into the mini-batch sums.
func (u *computedUnit) SetGradients(delta float64, in []float64) {
	u.biasGradient = delta
	u.biasGradientSum += delta
	for j, a := range in {
		g := a * delta
		u.weightGradient[j] = g
		u.weightGradientSum[j] += g
	}
}

// BiasGradient returns the delta recorded for the most recent example.
func (u *computedUnit) BiasGradient() float64 { return u.biasGradient }

// WeightGradient returns a copy of the most recent per-example weight gradients.
func (u *computedUnit) WeightGradient() []float64 {
	return append([]float64(nil), u.weightGradient...)
}

// ApplyGradients steps the parameters against the mean gradient of the batch
// and clears every gradient field.
func (u *computedUnit) ApplyGradients(learnRate float64, batchSize int) {
	scale := learnRate / float64(batchSize)
	u.bias -= scale * u.biasGradientSum
	floats.AddScaled(u.weights, -scale, u.weightGradientSum)

	u.biasGradient = 0
	u.biasGradientSum = 0
	clear(u.weightGradient)
	clear(u.weightGradientSum)
}

func (u *computedUnit) setParameters(bias float64, weights []float64) {
	u.bias = bias
	copy(u.weights, weights)
}

// sigmoid is the logistic function, split on sign so exp never overflows.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
