// xornet-makedata: writes random XOR samples as training records.
//
// Usage:
//
//	xornet-makedata --samples=2000 > trainingData.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"xornet/trainingdata"
)

var (
	samples    = flag.Int("samples", 2000, "Number of samples")
	seed       = flag.Int64("seed", 1, "Random seed")
	outputFile = flag.String("output", "", "Output file (default stdout)")
)

func main() {
	flag.Parse()

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			fatal("%v", err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	rng := rand.New(rand.NewSource(*seed))
	if err := trainingdata.WriteRecords(w, trainingdata.XORTopology, trainingdata.XORPairs(*samples, rng)); err != nil {
		fatal("write records: %v", err)
	}
	if err := w.Flush(); err != nil {
		fatal("flush: %v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[MAKEDATA] "+format+"\n", args...)
	os.Exit(1)
}
