// xornet-train: online backprop trainer over a training record file or
// synthetic XOR samples.
//
// Usage:
//
//	xornet-train --data=trainingData.txt --output=weights.json
//	xornet-train --samples=2000 --arch="2 4 1" --target=0.01
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"xornet/nn"
	"xornet/trainer"
	"xornet/trainingdata"
	"xornet/utils"
)

var (
	dataFile     = flag.String("data", "", "Training record file; empty means synthetic XOR samples")
	arch         = flag.String("arch", "", "Topology for synthetic XOR samples, e.g. \"2 4 1\"")
	samples      = flag.Int("samples", 2000, "Number of synthetic XOR samples")
	passes       = flag.Int("passes", 0, "Stop after this many passes (0 = until data runs out)")
	target       = flag.Float64("target", 0, "Stop once the recent average error drops below this (0 = off)")
	learningRate = flag.Float64("lr", nn.DefaultLearningRate, "Learning rate (eta)")
	momentum     = flag.Float64("momentum", nn.DefaultMomentum, "Momentum (alpha)")
	smoothing    = flag.Float64("smoothing", nn.DefaultAveragingFactor, "Recent average error smoothing factor")
	seed         = flag.Int64("seed", 1, "Random seed for weights and samples")
	verbose      = flag.Bool("verbose", true, "Print every pass")
	outputFile   = flag.String("output", "", "Output weights file (JSON)")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	cfg := utils.DefaultConfig()
	cfg.DataFile = *dataFile
	cfg.XORSamples = *samples
	cfg.Passes = *passes
	cfg.TargetError = *target
	cfg.LearningRate = *learningRate
	cfg.Momentum = *momentum
	cfg.Smoothing = *smoothing
	cfg.Seed = *seed
	cfg.Output = *outputFile
	if *arch != "" {
		a, err := utils.ParseArchitecture(*arch)
		if err != nil {
			fatal("parse architecture: %v", err)
		}
		cfg.Architecture = a
	}
	if err := utils.ValidateConfig(&cfg); err != nil {
		fatal("invalid configuration: %v", err)
	}

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	src, closeSrc := openSource(cfg)
	defer closeSrc()
	stats.DataLoadingTime += time.Since(start)

	start = time.Now()
	net, err := trainer.Build(src, cfg.NetConfig())
	if err != nil {
		fatal("build network: %v", err)
	}
	stats.ModelInitTime = time.Since(start)
	log("Network topology %v", net.Topology())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := trainer.Run(ctx, net, src, trainer.Options{
		MaxPasses:   cfg.Passes,
		TargetError: cfg.TargetError,
		MinPasses:   int(cfg.Smoothing),
		Verbose:     *verbose,
		Output:      os.Stdout,
		Stats:       stats,
	})
	stats.TotalTime = time.Since(totalStart)
	if err != nil {
		fatal("training stopped after %d passes: %v", res.Passes, err)
	}

	fmt.Printf("\nDone: %d passes, %s, recent average error %g\n", res.Passes, res.Stopped, res.RunningAverageError)
	if *verbose {
		utils.PrintTimingStats(stats, res.Passes)
	}

	if cfg.Output != "" {
		mw := utils.FromNetwork(net)
		if err := utils.SaveWeights(cfg.Output, mw); err != nil {
			fatal("save weights: %v", err)
		}
		log("Saved model %s to %s", mw.ID, cfg.Output)
	}
}

// openSource returns the record file named in cfg or, without one, an
// in-memory run of random XOR samples.
func openSource(cfg utils.Config) (trainingdata.Source, func()) {
	if cfg.DataFile != "" {
		fs, err := trainingdata.OpenFile(cfg.DataFile)
		if err != nil {
			fatal("%v", err)
		}
		return fs, func() { fs.Close() }
	}
	topology := trainingdata.XORTopology
	if len(cfg.Architecture) > 0 {
		topology = cfg.Architecture
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return trainingdata.NewMemorySource(topology, trainingdata.XORPairs(cfg.XORSamples, rng)), func() {}
}

func log(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[TRAIN] "+format+"\n", args...)
}

func fatal(format string, args ...interface{}) {
	log(format, args...)
	os.Exit(1)
}
