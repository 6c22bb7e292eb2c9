package model

// backpropagate records per-example gradients for every computed unit.
// The activations must come from a forward pass over the same example.
//
// The output delta (a-t)*a*(1-a) is the derivative of the quadratic cost
// ½Σ(a-t)² through the sigmoid; a different cost needs a different rule.
func (n *Network) backpropagate(target []float64) {
	last := len(n.computed) - 1
	out := n.computed[last]
	for i := range out {
		u := &out[i]
		a := u.activation
		u.SetGradients((a-target[i])*a*(1-a), n.acts[u.from])
	}

	for l := last - 1; l >= 0; l-- {
		layer := n.computed[l]
		next := n.computed[l+1]
		for j := range layer {
			u := &layer[j]
			var sum float64
			for k := range next {
				sum += next[k].weights[j] * next[k].biasGradient
			}
			a := u.activation
			u.SetGradients(sum*a*(1-a), n.acts[u.from])
		}
	}
}

// applyGradients steps every computed unit and resets its accumulators.
func (n *Network) applyGradients(learnRate float64, batchSize int) {
	for _, layer := range n.computed {
		for i := range layer {
			layer[i].ApplyGradients(learnRate, batchSize)
		}
	}
}

// quadraticCost is ½Σ(a-t)² over the current output activations.
func (n *Network) quadraticCost(target []float64) float64 {
	var c float64
	for i, a := range n.acts[len(n.acts)-1] {
		d := a - target[i]
		c += d * d
	}
	return c / 2
}
