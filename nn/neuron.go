package nn

import "math"

// Connection is one weighted edge from a neuron to a neuron of the next layer.
type Connection struct {
	Weight    float64
	LastDelta float64 // last applied update, feeds the momentum term
}

// Neuron is a single unit. Its outgoing connections are indexed by the
// layer-local index of the destination neuron in the next layer.
type Neuron struct {
	Output   float64
	Gradient float64
	Index    int  // position within its own layer
	Bias     bool // bias units are pinned to 1.0 and never receive inputs
	Out      []Connection
}

// Layer is an ordered set of neurons, the last of which is the bias unit.
type Layer []*Neuron

// nonBias returns the neurons that take part in evaluation and gradients.
func (l Layer) nonBias() Layer {
	if len(l) > 0 && l[len(l)-1].Bias {
		return l[:len(l)-1]
	}
	return l
}

func newNeuron(index, numOutputs int, rng WeightSource) *Neuron {
	n := &Neuron{Index: index, Out: make([]Connection, numOutputs)}
	for c := range n.Out {
		n.Out[c].Weight = rng.Float64()
	}
	return n
}

func newBias(index, numOutputs int, rng WeightSource) *Neuron {
	n := newNeuron(index, numOutputs, rng)
	n.Bias = true
	n.Output = 1.0
	return n
}

// Transfer is the activation function.
func Transfer(x float64) float64 {
	return math.Tanh(x)
}

// transferDerivative is the derivative of tanh expressed in its own output.
func transferDerivative(y float64) float64 {
	return 1.0 - y*y
}

func (n *Neuron) latch(v float64) {
	n.Output = v
}

// evaluate sums prev's outputs, bias included, through the connections
// that point at n.
func (n *Neuron) evaluate(prev Layer) {
	sum := 0.0
	for _, p := range prev {
		sum += p.Output * p.Out[n.Index].Weight
	}
	n.Output = Transfer(sum)
}

func (n *Neuron) outputGradient(target float64) {
	n.Gradient = (target - n.Output) * transferDerivative(n.Output)
}

// hiddenGradient requires next's gradients to be current.
func (n *Neuron) hiddenGradient(next Layer) {
	dow := 0.0
	for _, d := range next.nonBias() {
		dow += n.Out[d.Index].Weight * d.Gradient
	}
	n.Gradient = dow * transferDerivative(n.Output)
}

// applyWeightUpdates adjusts the connections in prev that feed n.
func (n *Neuron) applyWeightUpdates(prev Layer, eta, alpha float64) {
	for _, p := range prev {
		c := &p.Out[n.Index]
		delta := eta*p.Output*n.Gradient + alpha*c.LastDelta
		c.LastDelta = delta
		c.Weight += delta
	}
}
