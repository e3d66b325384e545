// Package trainer drives a network through the pairs of a training source.
package trainer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"xornet/nn"
	"xornet/trainingdata"
	"xornet/utils"
)

// StopReason tells why Run returned.
type StopReason int

const (
	StopExhausted StopReason = iota // source ran out of pairs or sent an undersized input vector
	StopMaxPasses                   // Options.MaxPasses reached
	StopConverged                   // running average error fell below Options.TargetError
	StopCancelled                   // context done
)

func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopMaxPasses:
		return "max passes"
	case StopConverged:
		return "converged"
	case StopCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Options controls a training run. The zero value trains until the source is
// exhausted and prints nothing.
type Options struct {
	MaxPasses   int     // 0 means no limit
	TargetError float64 // 0 disables the convergence check
	MinPasses   int     // passes before the convergence check applies
	Verbose     bool
	Output      io.Writer // per-pass report, used when Verbose is set
	Stats       *utils.TimingStats
}

// Result summarizes a training run.
type Result struct {
	Passes              int
	RunningAverageError float64
	Stopped             StopReason
}

// Run performs one online training step per pair pulled from src. It stops
// when the source is exhausted or hands out an input vector that does not
// match the input layer, and on the limits set in opts.
func Run(ctx context.Context, net *nn.Network, src trainingdata.Source, opts Options) (Result, error) {
	topology := net.Topology()
	stats := opts.Stats
	if stats == nil {
		stats = &utils.TimingStats{}
	}
	res := Result{Stopped: StopExhausted}

	for !src.Exhausted() {
		if err := ctx.Err(); err != nil {
			res.Stopped = StopCancelled
			return res, err
		}
		if opts.MaxPasses > 0 && res.Passes >= opts.MaxPasses {
			res.Stopped = StopMaxPasses
			return res, nil
		}

		start := time.Now()
		inputs, err := src.NextInputs()
		if err != nil {
			return res, errors.Wrapf(err, "pass %d: inputs", res.Passes+1)
		}
		if len(inputs) != topology[0] {
			break
		}
		targets, err := src.TargetOutputs()
		if err != nil {
			return res, errors.Wrapf(err, "pass %d: targets", res.Passes+1)
		}
		stats.DataLoadingTime += time.Since(start)

		res.Passes++
		if err := step(net, inputs, targets, stats, opts, res.Passes); err != nil {
			return res, errors.Wrapf(err, "pass %d", res.Passes)
		}
		res.RunningAverageError = net.RunningAverageError()

		if opts.TargetError > 0 && res.Passes >= opts.MinPasses && res.RunningAverageError < opts.TargetError {
			res.Stopped = StopConverged
			return res, nil
		}
	}
	return res, nil
}

func step(net *nn.Network, inputs, targets []float64, stats *utils.TimingStats, opts Options, pass int) error {
	start := time.Now()
	if err := net.FeedForward(inputs); err != nil {
		return err
	}
	stats.ForwardPassTime += time.Since(start)

	if opts.Verbose && opts.Output != nil {
		fmt.Fprintf(opts.Output, "\nPass %d: Inputs: %s\n", pass, formatVector(inputs))
		fmt.Fprintf(opts.Output, "Outputs: %s\n", formatVector(net.Results()))
		fmt.Fprintf(opts.Output, "Targets: %s\n", formatVector(targets))
	}

	start = time.Now()
	if err := net.BackProp(targets); err != nil {
		return err
	}
	stats.BackwardPassTime += time.Since(start)

	if opts.Verbose && opts.Output != nil {
		fmt.Fprintf(opts.Output, "Net recent average error: %g\n", net.RunningAverageError())
	}
	return nil
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 6, 64)
	}
	return strings.Join(parts, " ")
}

// Build reads the topology record of src and constructs a network for it.
func Build(src trainingdata.Source, cfg nn.Config) (*nn.Network, error) {
	topology, err := src.Topology()
	if err != nil {
		return nil, errors.Wrap(err, "topology")
	}
	return nn.New(topology, cfg)
}
