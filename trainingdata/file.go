package trainingdata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"xornet/nn"
)

const (
	topologyLabel = "topology:"
	inputLabel    = "in:"
	outputLabel   = "out:"
)

func violation(format string, args ...interface{}) error {
	return errors.Wrapf(nn.ErrContractViolation, format, args...)
}

// FileSource reads the line oriented record format:
//
//	topology: 2 4 1
//	in: 1.0 0.0
//	out: 1.0
//
// The topology line must come first; in/out lines alternate after it.
type FileSource struct {
	sc   *bufio.Scanner
	line int
	eof  bool
	c    io.Closer
}

// NewFileSource reads records from r.
func NewFileSource(r io.Reader) *FileSource {
	return &FileSource{sc: bufio.NewScanner(r)}
}

// OpenFile opens path as a FileSource. Close releases the file.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open training data")
	}
	s := NewFileSource(f)
	s.c = f
	return s, nil
}

// Close closes the underlying file if the source owns one.
func (s *FileSource) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}

// readLine returns the next line, or ok=false at end of input.
func (s *FileSource) readLine() (string, bool, error) {
	if s.eof {
		return "", false, nil
	}
	if !s.sc.Scan() {
		s.eof = true
		return "", false, errors.Wrap(s.sc.Err(), "read training data")
	}
	s.line++
	return s.sc.Text(), true, nil
}

// Topology reads the topology record. It must be the first line.
func (s *FileSource) Topology() ([]int, error) {
	line, ok, err := s.readLine()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if !ok || len(fields) == 0 || fields[0] != topologyLabel {
		return nil, violation("line %d: missing %q record", s.line, topologyLabel)
	}
	if len(fields) < 3 {
		return nil, violation("line %d: topology needs at least 2 layers", s.line)
	}
	topology := make([]int, len(fields)-1)
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return nil, violation("line %d: bad layer size %q", s.line, f)
		}
		topology[i] = n
	}
	return topology, nil
}

// NextInputs reads an "in:" record. Any other line yields an empty vector.
func (s *FileSource) NextInputs() ([]float64, error) {
	return s.values(inputLabel)
}

// TargetOutputs reads an "out:" record. Any other line yields an empty vector.
func (s *FileSource) TargetOutputs() ([]float64, error) {
	return s.values(outputLabel)
}

func (s *FileSource) values(label string) ([]float64, error) {
	line, ok, err := s.readLine()
	if err != nil || !ok {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != label {
		return nil, nil
	}
	vals := make([]float64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			// stop at the first value that does not parse, like a stream extractor
			break
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// Exhausted reports whether the end of input has been reached.
func (s *FileSource) Exhausted() bool {
	return s.eof
}

// WriteRecords writes topology and pairs in the format FileSource reads.
func WriteRecords(w io.Writer, topology []int, pairs []Pair) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, topologyLabel)
	for _, n := range topology {
		fmt.Fprintf(bw, " %d", n)
	}
	fmt.Fprintln(bw)
	for _, p := range pairs {
		writeValues(bw, inputLabel, p.Inputs)
		writeValues(bw, outputLabel, p.Targets)
	}
	return errors.Wrap(bw.Flush(), "write training data")
}

func writeValues(w io.Writer, label string, vals []float64) {
	fmt.Fprint(w, label)
	for _, v := range vals {
		fmt.Fprint(w, " ", strconv.FormatFloat(v, 'f', -1, 64))
	}
	fmt.Fprintln(w)
}
