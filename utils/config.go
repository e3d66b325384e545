package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"xornet/nn"
)

// Config holds training configuration
type Config struct {
	Architecture []int   // topology for synthetic XOR samples, default 2 2 1
	DataFile     string  // training records; empty means synthetic XOR samples
	XORSamples   int     // number of synthetic samples when DataFile is empty
	Passes       int     // 0 means until the source is exhausted
	TargetError  float64 // stop once the running average error drops below; 0 disables
	LearningRate float64
	Momentum     float64
	Smoothing    float64 // running average window
	Seed         int64
	Output       string // weights JSON written after training
}

// DefaultConfig returns the reference training constants.
func DefaultConfig() Config {
	return Config{
		XORSamples:   2000,
		LearningRate: nn.DefaultLearningRate,
		Momentum:     nn.DefaultMomentum,
		Smoothing:    nn.DefaultAveragingFactor,
	}
}

// ParseArchitecture parses architecture string into slice of integers
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.Fields(strings.ReplaceAll(archStr, ",", " "))
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrapf(err, "architecture entry %d", i)
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) == 1 {
		return errors.New("architecture must have at least 2 layers (input and output)")
	}
	for _, n := range config.Architecture {
		if n <= 0 {
			return errors.New("architecture layer sizes must be positive")
		}
	}
	if n := len(config.Architecture); n > 0 && config.DataFile == "" &&
		(config.Architecture[0] != 2 || config.Architecture[n-1] != 1) {
		return errors.New("XOR samples need an architecture with 2 inputs and 1 output")
	}

	if config.DataFile == "" && config.XORSamples <= 0 {
		return errors.New("either a data file or a positive number of XOR samples is required")
	}

	if config.Passes < 0 {
		return errors.New("passes must not be negative")
	}

	if config.TargetError < 0 {
		return errors.New("target error must not be negative")
	}

	return config.NetConfig().Validate()
}

// NetConfig returns the network constants of the run.
func (c *Config) NetConfig() nn.Config {
	return nn.Config{
		LearningRate:    c.LearningRate,
		Momentum:        c.Momentum,
		AveragingFactor: c.Smoothing,
		Seed:            c.Seed,
	}
}
