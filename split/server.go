package split

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/ckks"
	"gonum.org/v1/gonum/mat"

	"xornet/core/ckkswrapper"
)

// Server holds the outgoing weights of the input layer in plaintext.
type Server struct {
	kit     *ckkswrapper.ServerKit
	weights *mat.Dense
	Logf    func(format string, args ...interface{})
}

// NewServer evaluates the input layer described by weights, one row per input
// neuron with the bias row last and one column per first hidden neuron.
func NewServer(kit *ckkswrapper.ServerKit, weights *mat.Dense) (*Server, error) {
	_, cols := weights.Dims()
	if cols > kit.Params.MaxSlots() {
		return nil, errors.Errorf("%d hidden neurons exceed %d slots", cols, kit.Params.MaxSlots())
	}
	return &Server{kit: kit, weights: mat.DenseCopyOf(weights)}, nil
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

// WeightedSums multiplies each input ciphertext by its neuron's outgoing
// weight row and adds the products, so slot k of the result holds the
// weighted input of hidden neuron k.
func (s *Server) WeightedSums(inputs []*rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	rows, _ := s.weights.Dims()
	if len(inputs) != rows {
		return nil, errors.Errorf("got %d input ciphertexts, want %d", len(inputs), rows)
	}
	eval := s.kit.Evaluator

	var acc *rlwe.Ciphertext
	for j, ct := range inputs {
		if ct.Level() != inputs[0].Level() {
			return nil, errors.Errorf("ciphertext %d at level %d, want %d", j, ct.Level(), inputs[0].Level())
		}
		pt, err := s.kit.EncodeAt(s.weights.RawRowView(j), ct.Level())
		if err != nil {
			return nil, err
		}
		prod, err := eval.MulNew(ct, pt)
		if err != nil {
			return nil, errors.Wrapf(err, "mul input %d", j)
		}
		if acc == nil {
			acc = prod
			continue
		}
		if err := eval.Add(acc, prod, acc); err != nil {
			return nil, errors.Wrapf(err, "add input %d", j)
		}
	}

	out := ckks.NewCiphertext(s.kit.Params, acc.Degree(), acc.Level()-1)
	if err := eval.Rescale(acc, out); err != nil {
		return nil, errors.Wrap(err, "rescale")
	}
	return out, nil
}

// Serve answers input messages on p until the peer sends done.
func (s *Server) Serve(p *Protocol) error {
	for {
		payload, err := p.ReceiveInputs()
		if err == io.EOF {
			s.logf("client done")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "receive inputs")
		}
		s.logf("batch %d received (%d ciphertexts)", payload.BatchID, len(payload.Ciphertexts))

		ctOut, err := s.handle(payload)
		if err != nil {
			s.logf("batch %d: %v", payload.BatchID, err)
			if err := p.SendError(err); err != nil {
				return errors.Wrap(err, "send error")
			}
			continue
		}

		ctBytes, err := ctOut.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "marshal output")
		}
		if err := p.SendForward(payload.BatchID, ctBytes, ctOut.Level(), ctOut.Scale.Float64()); err != nil {
			return errors.Wrap(err, "send forward")
		}
		s.logf("batch %d sent", payload.BatchID)
	}
}

func (s *Server) handle(payload *InputPayload) (*rlwe.Ciphertext, error) {
	cts := make([]*rlwe.Ciphertext, len(payload.Ciphertexts))
	for i, b := range payload.Ciphertexts {
		ct := new(rlwe.Ciphertext)
		if err := ct.UnmarshalBinary(b); err != nil {
			return nil, errors.Wrapf(err, "unmarshal input %d", i)
		}
		cts[i] = ct
	}
	return s.WeightedSums(cts)
}
