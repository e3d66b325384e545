// Package nn implements a fully-connected feedforward network trained online
// by backpropagation with momentum.
//
// A network is built once from a topology, the ordered neuron counts of each
// layer excluding bias units:
//
//	net, err := nn.New([]int{2, 2, 1}, nn.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	if err := net.FeedForward(inputs); err != nil {
//		return err
//	}
//	outputs := net.Results()
//	if err := net.BackProp(targets); err != nil {
//		return err
//	}
//
// A Network is not safe for concurrent use.
package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Network is an ordered sequence of layers plus the error measurements of the
// last backward pass.
type Network struct {
	topology []int
	layers   []Layer

	eta, alpha      float64
	averagingFactor float64

	currentError        float64
	runningAverageError float64
}

// New builds a network for topology. Every connection weight is drawn from
// cfg's weight source.
func New(topology []int, cfg Config) (*Network, error) {
	if err := validateTopology(topology); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := cfg.source()

	net := newNetwork(topology, cfg)
	last := len(topology) - 1
	for i, size := range topology {
		numOutputs := 0
		if i != last {
			numOutputs = topology[i+1]
		}
		layer := make(Layer, size+1)
		for n := 0; n < size; n++ {
			layer[n] = newNeuron(n, numOutputs, rng)
		}
		layer[size] = newBias(size, numOutputs, rng)
		net.layers[i] = layer
	}
	return net, nil
}

func newNetwork(topology []int, cfg Config) *Network {
	return &Network{
		topology:        append([]int(nil), topology...),
		layers:          make([]Layer, len(topology)),
		eta:             cfg.LearningRate,
		alpha:           cfg.Momentum,
		averagingFactor: cfg.AveragingFactor,
	}
}

func validateTopology(topology []int) error {
	if len(topology) < 2 {
		return violation("topology needs at least 2 layers, got %d", len(topology))
	}
	for i, n := range topology {
		if n <= 0 {
			return violation("layer %d has %d neurons, want > 0", i, n)
		}
	}
	return nil
}

// Topology returns a copy of the layer sizes.
func (net *Network) Topology() []int {
	return append([]int(nil), net.topology...)
}

// Layers exposes the layers for inspection. Callers must not resize them.
func (net *Network) Layers() []Layer {
	return net.layers
}

// FeedForward latches inputs into the input layer and evaluates every
// following layer.
func (net *Network) FeedForward(inputs []float64) error {
	return net.FeedForwardFrom(0, inputs)
}

// FeedForwardFrom latches outputs as the already activated values of the
// non-bias neurons of layer and evaluates every layer after it.
func (net *Network) FeedForwardFrom(layer int, outputs []float64) error {
	if layer < 0 || layer >= len(net.layers) {
		return violation("layer %d out of range [0, %d)", layer, len(net.layers))
	}
	if len(outputs) != net.topology[layer] {
		return violation("layer %d takes %d values, got %d", layer, net.topology[layer], len(outputs))
	}

	for i, n := range net.layers[layer].nonBias() {
		n.latch(outputs[i])
	}
	for l := layer + 1; l < len(net.layers); l++ {
		prev := net.layers[l-1]
		for _, n := range net.layers[l].nonBias() {
			n.evaluate(prev)
		}
	}
	return nil
}

// Results returns the output layer values in index order, bias excluded.
func (net *Network) Results() []float64 {
	out := net.layers[len(net.layers)-1].nonBias()
	res := make([]float64, len(out))
	for i, n := range out {
		res[i] = n.Output
	}
	return res
}

// BackProp measures the error of the last forward pass against targets and
// updates every weight. All gradients are computed before any weight moves.
func (net *Network) BackProp(targets []float64) error {
	outputLayer := net.layers[len(net.layers)-1].nonBias()
	if len(targets) != len(outputLayer) {
		return violation("network has %d outputs, got %d targets", len(outputLayer), len(targets))
	}

	// RMS of the output errors.
	net.currentError = floats.Distance(targets, net.Results(), 2) / math.Sqrt(float64(len(outputLayer)))
	net.runningAverageError = (net.runningAverageError*net.averagingFactor + net.currentError) /
		(net.averagingFactor + 1.0)

	for i, n := range outputLayer {
		n.outputGradient(targets[i])
	}

	for l := len(net.layers) - 2; l > 0; l-- {
		next := net.layers[l+1]
		for _, n := range net.layers[l].nonBias() {
			n.hiddenGradient(next)
		}
	}

	for l := len(net.layers) - 1; l > 0; l-- {
		prev := net.layers[l-1]
		for _, n := range net.layers[l].nonBias() {
			n.applyWeightUpdates(prev, net.eta, net.alpha)
		}
	}
	return nil
}

// CurrentError is the RMS error of the last BackProp call.
func (net *Network) CurrentError() float64 {
	return net.currentError
}

// RunningAverageError is the exponentially smoothed CurrentError.
func (net *Network) RunningAverageError() float64 {
	return net.runningAverageError
}
