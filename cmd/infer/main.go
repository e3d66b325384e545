// xornet-infer: runs saved weights on input vectors, optionally with the
// input layer evaluated under CKKS encryption.
//
// Usage:
//
//	xornet-infer --weights=weights.json "0 1" "1 1"
//	xornet-infer --weights=weights.json --encrypted
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"xornet/core/ckkswrapper"
	"xornet/nn"
	"xornet/split"
	"xornet/utils"
)

var (
	weightsFile = flag.String("weights", "", "Weights JSON file")
	logN        = flag.Int("logN", ckkswrapper.DefaultLogN, "Ring dimension log2")
	encrypted   = flag.Bool("encrypted", false, "Evaluate the input layer on encrypted inputs")
	verbose     = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	if *weightsFile == "" {
		fatal("--weights is required")
	}
	mw, err := utils.LoadWeights(*weightsFile)
	if err != nil {
		fatal("%v", err)
	}
	net, err := mw.Network(nn.DefaultConfig())
	if err != nil {
		fatal("%v", err)
	}
	log("Loaded model %s, topology %v", mw.ID, net.Topology())

	inputs, err := parseInputs(flag.Args(), net.Topology()[0])
	if err != nil {
		fatal("%v", err)
	}

	run := func(in []float64) ([]float64, error) {
		if err := net.FeedForward(in); err != nil {
			return nil, err
		}
		return net.Results(), nil
	}
	var stats *utils.TimingStats
	if *encrypted {
		client, cleanup := startSplit(net)
		defer cleanup()
		run = client.Predict
		stats = client.Stats
	}

	total := time.Now()
	for _, in := range inputs {
		out, err := run(in)
		if err != nil {
			fatal("input %v: %v", in, err)
		}
		fmt.Printf("Inputs: %s -> Outputs: %s\n", join(in), join(out))
	}
	if stats != nil && *verbose {
		stats.TotalTime = time.Since(total)
		utils.PrintTimingStats(stats, len(inputs))
	}
}

// startSplit runs a split server in a goroutine and returns a client
// connected to it over in-memory pipes.
func startSplit(net *nn.Network) (*split.Client, func()) {
	start := time.Now()
	he, err := ckkswrapper.NewHeContextWithLogN(*logN)
	if err != nil {
		fatal("%v", err)
	}
	log("HE context ready (logN=%d) in %v", *logN, time.Since(start))

	srv, err := split.NewServer(he.GenServerKit(), net.Weights().Layers[0])
	if err != nil {
		fatal("%v", err)
	}
	if *verbose {
		srv.Logf = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "[SERVER] "+format+"\n", args...)
		}
	}

	toServer, fromClient := io.Pipe()
	toClient, fromServer := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(split.NewProtocol(toServer, fromServer)) }()

	client := split.NewClient(he, net, split.NewProtocol(toClient, fromClient))
	client.Stats.HEInitTime = time.Since(start)
	return client, func() {
		if err := client.Close(); err != nil {
			log("close: %v", err)
		}
		if err := <-done; err != nil {
			log("server: %v", err)
		}
	}
}

// parseInputs reads one vector per argument. Without arguments it returns
// the four XOR corners for a two-input network.
func parseInputs(args []string, n int) ([][]float64, error) {
	if len(args) == 0 {
		if n != 2 {
			return nil, fmt.Errorf("no inputs given for a %d-input network", n)
		}
		return [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, nil
	}
	out := make([][]float64, len(args))
	for i, a := range args {
		for _, f := range strings.Fields(strings.ReplaceAll(a, ",", " ")) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("input %d: %v", i, err)
			}
			out[i] = append(out[i], v)
		}
	}
	return out, nil
}

func join(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 6, 64)
	}
	return strings.Join(parts, " ")
}

func log(format string, args ...interface{}) {
	if *verbose {
		fmt.Fprintf(os.Stderr, "[INFER] "+format+"\n", args...)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[INFER] "+format+"\n", args...)
	os.Exit(1)
}
