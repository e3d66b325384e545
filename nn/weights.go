package nn

import "gonum.org/v1/gonum/mat"

// Weights is a snapshot of every connection weight. Layers[i] has one row per
// neuron of layer i, bias last, and one column per non-bias neuron of layer
// i+1, so Layers[i].At(src, dst) is the weight of src -> dst.
type Weights struct {
	Topology []int
	Layers   []*mat.Dense
}

// Weights copies the current connection weights out of the network.
func (net *Network) Weights() Weights {
	w := Weights{
		Topology: net.Topology(),
		Layers:   make([]*mat.Dense, len(net.layers)-1),
	}
	for i := range w.Layers {
		rows, cols := net.topology[i]+1, net.topology[i+1]
		m := mat.NewDense(rows, cols, nil)
		for r, n := range net.layers[i] {
			for c := range n.Out {
				m.Set(r, c, n.Out[c].Weight)
			}
		}
		w.Layers[i] = m
	}
	return w
}

// NewFromWeights builds a network whose weights are copied from w instead of
// drawn at random. Momentum history starts at zero.
func NewFromWeights(w Weights, cfg Config) (*Network, error) {
	if err := validateTopology(w.Topology); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(w.Layers) != len(w.Topology)-1 {
		return nil, violation("topology %v needs %d weight matrices, got %d", w.Topology, len(w.Topology)-1, len(w.Layers))
	}
	for i, m := range w.Layers {
		if m == nil {
			return nil, violation("weight matrix %d is nil", i)
		}
		rows, cols := m.Dims()
		if rows != w.Topology[i]+1 || cols != w.Topology[i+1] {
			return nil, violation("weight matrix %d is %dx%d, want %dx%d", i, rows, cols, w.Topology[i]+1, w.Topology[i+1])
		}
	}

	net := newNetwork(w.Topology, cfg)
	last := len(w.Topology) - 1
	for i, size := range w.Topology {
		layer := make(Layer, size+1)
		for n := 0; n <= size; n++ {
			var out []Connection
			if i != last {
				out = make([]Connection, w.Topology[i+1])
				for c := range out {
					out[c].Weight = w.Layers[i].At(n, c)
				}
			}
			layer[n] = &Neuron{Index: n, Out: out}
		}
		layer[size].Bias = true
		layer[size].Output = 1.0
		net.layers[i] = layer
	}
	return net, nil
}
