package trainingdata

// XORTopology is the smallest network that can learn XOR.
var XORTopology = []int{2, 2, 1}

// Rand is the subset of *rand.Rand used to draw samples.
type Rand interface {
	Intn(n int) int
}

// XORPairs draws n random XOR samples with inputs and targets in {0, 1}.
func XORPairs(n int, rng Rand) []Pair {
	pairs := make([]Pair, n)
	for i := range pairs {
		a, b := rng.Intn(2), rng.Intn(2)
		pairs[i] = Pair{
			Inputs:  []float64{float64(a), float64(b)},
			Targets: []float64{float64(a ^ b)},
		}
	}
	return pairs
}
