package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"xornet/nn"
)

func TestMatrixToWeightData(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{0, 0.5, 1, 1.5, 2, 2.5})

	wd := MatrixToWeightData("test_weight", m)

	if wd.Name != "test_weight" {
		t.Errorf("Name = %s, want test_weight", wd.Name)
	}
	if len(wd.Shape) != 2 || wd.Shape[0] != 2 || wd.Shape[1] != 3 {
		t.Errorf("Shape = %v, want [2, 3]", wd.Shape)
	}
	for i, v := range wd.Data {
		expected := float64(i) * 0.5
		if v != expected {
			t.Errorf("Data[%d] = %f, want %f", i, v, expected)
		}
	}
}

func TestWeightDataToMatrix(t *testing.T) {
	wd := &WeightData{
		Name:  "test",
		Shape: []int{3, 4},
		Data:  make([]float64, 12),
	}
	for i := range wd.Data {
		wd.Data[i] = float64(i)
	}

	m, err := WeightDataToMatrix(wd)
	require.NoError(t, err)

	r, c := m.Dims()
	if r != 3 || c != 4 {
		t.Errorf("Dims = %dx%d, want 3x4", r, c)
	}
	if m.At(2, 1) != 9 {
		t.Errorf("At(2,1) = %f, want 9", m.At(2, 1))
	}

	wd.Data[0] = 42
	assert.Equal(t, 0.0, m.At(0, 0), "matrix must not alias the weight data")
}

func TestWeightDataToMatrixBadShape(t *testing.T) {
	for _, wd := range []*WeightData{
		{Name: "flat", Shape: []int{4}, Data: make([]float64, 4)},
		{Name: "short", Shape: []int{2, 2}, Data: make([]float64, 3)},
		{Name: "empty", Shape: []int{0, 2}},
	} {
		_, err := WeightDataToMatrix(wd)
		assert.Error(t, err, wd.Name)
	}
}

func TestSaveLoadWeights(t *testing.T) {
	net, err := nn.New([]int{2, 3, 1}, nn.DefaultConfig())
	require.NoError(t, err)

	weights := FromNetwork(net)
	assert.Equal(t, WeightsVersion, weights.Version)
	_, err = uuid.Parse(weights.ID)
	assert.NoError(t, err)
	require.Len(t, weights.Layers, 2)

	weightsFile := filepath.Join(t.TempDir(), "test_weights.json")
	require.NoError(t, SaveWeights(weightsFile, weights))

	loaded, err := LoadWeights(weightsFile)
	require.NoError(t, err)
	assert.Equal(t, weights, loaded)

	restored, err := loaded.Network(nn.DefaultConfig())
	require.NoError(t, err)

	in := []float64{0.3, -0.9}
	require.NoError(t, net.FeedForward(in))
	require.NoError(t, restored.FeedForward(in))
	assert.Equal(t, net.Results(), restored.Results())
}

func TestModelWeightsMissingLayer(t *testing.T) {
	net, err := nn.New([]int{2, 2, 1}, nn.DefaultConfig())
	require.NoError(t, err)
	weights := FromNetwork(net)
	delete(weights.Layers, LayerName(1))

	_, err = weights.Network(nn.DefaultConfig())
	assert.Error(t, err)
}

func TestLoadWeightsNotFound(t *testing.T) {
	_, err := LoadWeights("/nonexistent/path/weights.json")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadWeightsInvalidJSON(t *testing.T) {
	badFile := filepath.Join(t.TempDir(), "bad.json")
	err := os.WriteFile(badFile, []byte("not valid json"), 0644)
	if err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err = LoadWeights(badFile)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
