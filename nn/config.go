package nn

import (
	"math/rand"

	"github.com/pkg/errors"
)

const (
	DefaultLearningRate    = 0.15
	DefaultMomentum        = 0.5
	DefaultAveragingFactor = 100.0
)

// WeightSource supplies initial connection weights, uniform in [0,1).
// *rand.Rand satisfies it.
type WeightSource interface {
	Float64() float64
}

// Config holds the training constants of a single network.
type Config struct {
	LearningRate    float64 // eta, step size of each weight update
	Momentum        float64 // alpha, share of the previous delta carried into the next one
	AveragingFactor float64 // smoothing window of the running average error
	Seed            int64   // seeds the weight source when Rand is nil
	Rand            WeightSource
}

// DefaultConfig returns the reference constants with seed 0.
func DefaultConfig() Config {
	return Config{
		LearningRate:    DefaultLearningRate,
		Momentum:        DefaultMomentum,
		AveragingFactor: DefaultAveragingFactor,
	}
}

// Validate checks the numeric fields.
func (c Config) Validate() error {
	if c.LearningRate < 0 {
		return errors.Errorf("learning rate must be >= 0, got %f", c.LearningRate)
	}
	if c.Momentum < 0 {
		return errors.Errorf("momentum must be >= 0, got %f", c.Momentum)
	}
	if c.AveragingFactor <= 0 {
		return errors.Errorf("averaging factor must be > 0, got %f", c.AveragingFactor)
	}
	return nil
}

func (c Config) source() WeightSource {
	if c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewSource(c.Seed))
}
