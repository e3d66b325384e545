// xornet-server: HTTP prediction and online training service.
//
// Usage:
//
//	xornet-server --weights=weights.json --port=8080
package main

import (
	"flag"
	"fmt"
	"os"

	"xornet/nn"
	"xornet/server"
	"xornet/trainingdata"
	"xornet/utils"
)

var (
	weightsFile  = flag.String("weights", "", "Weights JSON file; empty starts an untrained XOR network")
	port         = flag.String("port", "8080", "Listen port")
	learningRate = flag.Float64("lr", nn.DefaultLearningRate, "Learning rate for /train")
	momentum     = flag.Float64("momentum", nn.DefaultMomentum, "Momentum for /train")
	seed         = flag.Int64("seed", 1, "Random seed for a fresh network")
)

func main() {
	flag.Parse()

	cfg := nn.DefaultConfig()
	cfg.LearningRate = *learningRate
	cfg.Momentum = *momentum
	cfg.Seed = *seed

	var (
		net     *nn.Network
		modelID string
		err     error
	)
	if *weightsFile != "" {
		mw, lerr := utils.LoadWeights(*weightsFile)
		if lerr != nil {
			fatal("%v", lerr)
		}
		net, err = mw.Network(cfg)
		modelID = mw.ID
	} else {
		net, err = nn.New(trainingdata.XORTopology, cfg)
	}
	if err != nil {
		fatal("build network: %v", err)
	}

	hs := server.NewHTTPServer(net, modelID, *port)
	if err := hs.Start(); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[SERVER] "+format+"\n", args...)
	os.Exit(1)
}
