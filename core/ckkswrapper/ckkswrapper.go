// Package ckkswrapper bundles the CKKS parameters, keys and evaluators used
// for encrypted inference.
package ckkswrapper

import (
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/ckks"
)

// DefaultLogN is the ring dimension used by NewHeContext.
const DefaultLogN = 13

// HeContext is the key holder's side: it can encrypt and decrypt.
type HeContext struct {
	Params    ckks.Parameters
	Encoder   *ckks.Encoder
	Encryptor *rlwe.Encryptor
	Decryptor *rlwe.Decryptor

	sk  *rlwe.SecretKey
	rlk *rlwe.RelinearizationKey
}

// ServerKit is what the evaluating party receives: no secret key.
type ServerKit struct {
	Params    ckks.Parameters
	Encoder   *ckks.Encoder
	Evaluator *ckks.Evaluator
}

// Literal returns parameters for ring dimension 2^logN with room for one
// plaintext multiplication and rescale.
func Literal(logN int) ckks.ParametersLiteral {
	return ckks.ParametersLiteral{
		LogN:            logN,
		LogQ:            []int{55, 40, 40},
		LogP:            []int{61},
		LogDefaultScale: 40,
	}
}

// NewHeContext creates a context with DefaultLogN.
func NewHeContext() *HeContext {
	h, err := NewHeContextWithLogN(DefaultLogN)
	if err != nil {
		panic(err)
	}
	return h
}

// NewHeContextWithLogN generates a fresh key pair for ring dimension 2^logN.
func NewHeContextWithLogN(logN int) (*HeContext, error) {
	params, err := ckks.NewParametersFromLiteral(Literal(logN))
	if err != nil {
		return nil, errors.Wrapf(err, "ckks parameters for logN=%d", logN)
	}
	kgen := rlwe.NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPairNew()
	return &HeContext{
		Params:    params,
		Encoder:   ckks.NewEncoder(params),
		Encryptor: ckks.NewEncryptor(params, pk),
		Decryptor: ckks.NewDecryptor(params, sk),
		sk:        sk,
		rlk:       kgen.GenRelinearizationKeyNew(sk),
	}, nil
}

// GenServerKit returns an evaluator bound to the public evaluation keys.
func (h *HeContext) GenServerKit() *ServerKit {
	evk := rlwe.NewMemEvaluationKeySet(h.rlk)
	return &ServerKit{
		Params:    h.Params,
		Encoder:   ckks.NewEncoder(h.Params),
		Evaluator: ckks.NewEvaluator(h.Params, evk),
	}
}

// EncryptConstant encrypts v replicated into the first n slots.
func (h *HeContext) EncryptConstant(v float64, n int) (*rlwe.Ciphertext, error) {
	if n > h.Params.MaxSlots() {
		return nil, errors.Errorf("%d values exceed %d slots", n, h.Params.MaxSlots())
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = v
	}
	pt := ckks.NewPlaintext(h.Params, h.Params.MaxLevel())
	if err := h.Encoder.Encode(vals, pt); err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	return h.Encryptor.EncryptNew(pt)
}

// DecryptValues decrypts ct and returns its first n slots.
func (h *HeContext) DecryptValues(ct *rlwe.Ciphertext, n int) ([]float64, error) {
	if n > h.Params.MaxSlots() {
		return nil, errors.Errorf("%d values exceed %d slots", n, h.Params.MaxSlots())
	}
	pt := h.Decryptor.DecryptNew(ct)
	decoded := make([]float64, h.Params.MaxSlots())
	if err := h.Encoder.Decode(pt, decoded); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return decoded[:n], nil
}

// EncodeAt encodes vals as a plaintext at the given level and default scale.
func (k *ServerKit) EncodeAt(vals []float64, level int) (*rlwe.Plaintext, error) {
	pt := ckks.NewPlaintext(k.Params, level)
	if err := k.Encoder.Encode(vals, pt); err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	return pt, nil
}
