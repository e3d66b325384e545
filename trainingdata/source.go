// Package trainingdata supplies network topologies and (input, target) training
// pairs to the training loop.
package trainingdata

// Source hands out one topology followed by a sequence of training pairs.
// NextInputs returns an empty vector once the source is exhausted; the
// matching TargetOutputs call must follow every NextInputs call.
type Source interface {
	Topology() ([]int, error)
	NextInputs() ([]float64, error)
	TargetOutputs() ([]float64, error)
	Exhausted() bool
}

// Pair is a single training example.
type Pair struct {
	Inputs  []float64
	Targets []float64
}

// MemorySource serves pairs held in memory.
type MemorySource struct {
	topology []int
	pairs    []Pair
	next     int
}

// NewMemorySource returns a Source over pairs. The slices are not copied.
func NewMemorySource(topology []int, pairs []Pair) *MemorySource {
	return &MemorySource{topology: topology, pairs: pairs}
}

func (s *MemorySource) Topology() ([]int, error) {
	if len(s.topology) == 0 {
		return nil, violation("missing topology")
	}
	return append([]int(nil), s.topology...), nil
}

func (s *MemorySource) NextInputs() ([]float64, error) {
	if s.Exhausted() {
		return nil, nil
	}
	return append([]float64(nil), s.pairs[s.next].Inputs...), nil
}

func (s *MemorySource) TargetOutputs() ([]float64, error) {
	if s.Exhausted() {
		return nil, nil
	}
	t := append([]float64(nil), s.pairs[s.next].Targets...)
	s.next++
	return t, nil
}

func (s *MemorySource) Exhausted() bool {
	return s.next >= len(s.pairs)
}

// Reset rewinds the source to its first pair.
func (s *MemorySource) Reset() {
	s.next = 0
}
