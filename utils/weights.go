package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"xornet/nn"
)

const WeightsVersion = "1.0"

// WeightData represents serializable weight data for a layer
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// ModelWeights represents all weights in a model
type ModelWeights struct {
	Version  string                 `json:"version"`
	ID       string                 `json:"id"`
	Topology []int                  `json:"topology"`
	Layers   map[string]LayerWeight `json:"layers"`
}

// LayerWeight holds the outgoing connections of one layer. Rows are the
// layer's neurons with the bias unit last, columns the next layer's neurons.
type LayerWeight struct {
	Weight *WeightData `json:"weight,omitempty"`
}

// LayerName is the key of layer i in ModelWeights.Layers.
func LayerName(i int) string {
	return fmt.Sprintf("layer_%d", i)
}

// SaveWeights saves model weights to a JSON file
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal weights")
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadWeights loads model weights from a JSON file
func LoadWeights(filepath string) (*ModelWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read weights file")
	}
	var weights ModelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal weights")
	}
	return &weights, nil
}

// MatrixToWeightData converts a matrix to serializable weight data
func MatrixToWeightData(name string, m *mat.Dense) *WeightData {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	return &WeightData{
		Name:  name,
		Shape: []int{r, c},
		Data:  data,
	}
}

// WeightDataToMatrix converts weight data back to a matrix
func WeightDataToMatrix(wd *WeightData) (*mat.Dense, error) {
	if len(wd.Shape) != 2 || wd.Shape[0] <= 0 || wd.Shape[1] <= 0 {
		return nil, errors.Errorf("weight %q: want a 2-D shape, got %v", wd.Name, wd.Shape)
	}
	if len(wd.Data) != wd.Shape[0]*wd.Shape[1] {
		return nil, errors.Errorf("weight %q: shape %v needs %d values, got %d", wd.Name, wd.Shape, wd.Shape[0]*wd.Shape[1], len(wd.Data))
	}
	return mat.NewDense(wd.Shape[0], wd.Shape[1], append([]float64(nil), wd.Data...)), nil
}

// FromNetwork snapshots net under a fresh model ID.
func FromNetwork(net *nn.Network) *ModelWeights {
	w := net.Weights()
	weights := &ModelWeights{
		Version:  WeightsVersion,
		ID:       uuid.New().String(),
		Topology: w.Topology,
		Layers:   make(map[string]LayerWeight, len(w.Layers)),
	}
	for i, m := range w.Layers {
		name := LayerName(i)
		weights.Layers[name] = LayerWeight{Weight: MatrixToWeightData(name, m)}
	}
	return weights
}

// Weights converts the file form back to an nn.Weights snapshot.
func (m *ModelWeights) Weights() (nn.Weights, error) {
	w := nn.Weights{Topology: m.Topology}
	for i := 0; i < len(m.Topology)-1; i++ {
		lw, ok := m.Layers[LayerName(i)]
		if !ok || lw.Weight == nil {
			return nn.Weights{}, errors.Errorf("missing weights for %s", LayerName(i))
		}
		d, err := WeightDataToMatrix(lw.Weight)
		if err != nil {
			return nn.Weights{}, err
		}
		w.Layers = append(w.Layers, d)
	}
	return w, nil
}

// Network rebuilds a network from the saved weights.
func (m *ModelWeights) Network(cfg nn.Config) (*nn.Network, error) {
	w, err := m.Weights()
	if err != nil {
		return nil, err
	}
	return nn.NewFromWeights(w, cfg)
}
