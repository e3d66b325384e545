package ckkswrapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/schemes/ckks"
)

func TestHeContextRoundTrip(t *testing.T) {
	h := NewHeContext()
	ct, err := h.EncryptConstant(3.1415926535, 4)
	require.NoError(t, err)

	got, err := h.DecryptValues(ct, 4)
	require.NoError(t, err)
	for i, v := range got {
		if math.Abs(v-3.1415926535) > 1e-6 {
			t.Fatalf("slot %d: got %f, want %f", i, v, 3.1415926535)
		}
	}
}

func TestServerKitMulPlain(t *testing.T) {
	h := NewHeContext()
	kit := h.GenServerKit()

	ct, err := h.EncryptConstant(0.5, 3)
	require.NoError(t, err)
	pt, err := kit.EncodeAt([]float64{1, -2, 4}, ct.Level())
	require.NoError(t, err)

	prod, err := kit.Evaluator.MulNew(ct, pt)
	require.NoError(t, err)
	out := ckks.NewCiphertext(kit.Params, prod.Degree(), prod.Level()-1)
	require.NoError(t, kit.Evaluator.Rescale(prod, out))

	got, err := h.DecryptValues(out, 3)
	require.NoError(t, err)
	want := []float64{0.5, -1, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-4 {
			t.Errorf("slot %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSlotLimit(t *testing.T) {
	h := NewHeContext()
	_, err := h.EncryptConstant(1, h.Params.MaxSlots()+1)
	require.Error(t, err)
}
