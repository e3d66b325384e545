package split

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"

	"xornet/core/ckkswrapper"
	"xornet/nn"
)

// pipePair connects a client and server protocol in memory.
func pipePair() (client, server *Protocol) {
	toServer, fromClient := io.Pipe()
	toClient, fromServer := io.Pipe()
	return NewProtocol(toClient, fromClient), NewProtocol(toServer, fromServer)
}

func TestWeightedSums(t *testing.T) {
	he := ckkswrapper.NewHeContext()
	net, err := nn.New([]int{3, 4, 2}, nn.DefaultConfig())
	require.NoError(t, err)
	w := net.Weights().Layers[0]

	srv, err := NewServer(he.GenServerKit(), w)
	require.NoError(t, err)

	in := []float64{0.5, -1, 0.25, 1}
	cts := make([]*rlwe.Ciphertext, len(in))
	for i, x := range in {
		cts[i], err = he.EncryptConstant(x, 4)
		require.NoError(t, err)
	}
	out, err := srv.WeightedSums(cts)
	require.NoError(t, err)

	got, err := he.DecryptValues(out, 4)
	require.NoError(t, err)
	for k := 0; k < 4; k++ {
		want := 0.0
		for j, x := range in {
			want += x * w.At(j, k)
		}
		assert.InDelta(t, want, got[k], 1e-4, "hidden neuron %d", k)
	}

	_, err = srv.WeightedSums(cts[:2])
	assert.Error(t, err)
}

func TestSplitPredictMatchesPlaintext(t *testing.T) {
	he := ckkswrapper.NewHeContext()
	cfg := nn.DefaultConfig()
	cfg.Seed = 4
	trained, err := nn.New([]int{2, 3, 1}, cfg)
	require.NoError(t, err)

	plain, err := nn.NewFromWeights(trained.Weights(), nn.DefaultConfig())
	require.NoError(t, err)

	srv, err := NewServer(he.GenServerKit(), trained.Weights().Layers[0])
	require.NoError(t, err)
	clientProto, serverProto := pipePair()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(serverProto) }()

	client := NewClient(he, trained, clientProto)
	for _, in := range [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0.3, -0.7}} {
		got, err := client.Predict(in)
		require.NoError(t, err)

		require.NoError(t, plain.FeedForward(in))
		want := plain.Results()
		require.Len(t, got, len(want))
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-4, "input %v output %d", in, i)
		}
	}
	assert.Positive(t, client.Stats.EncryptionTime)

	_, err = client.Predict([]float64{1})
	assert.True(t, errors.Is(err, nn.ErrContractViolation))

	require.NoError(t, client.Close())
	require.NoError(t, <-done)
}

func TestNewServerTooWide(t *testing.T) {
	he := ckkswrapper.NewHeContext()
	kit := he.GenServerKit()
	net, err := nn.New([]int{1, kit.Params.MaxSlots() + 1}, nn.DefaultConfig())
	require.NoError(t, err)
	_, err = NewServer(kit, net.Weights().Layers[0])
	assert.Error(t, err)
}

func TestServeReportsBadCiphertext(t *testing.T) {
	he := ckkswrapper.NewHeContext()
	net, err := nn.New([]int{1, 1}, nn.DefaultConfig())
	require.NoError(t, err)
	srv, err := NewServer(he.GenServerKit(), net.Weights().Layers[0])
	require.NoError(t, err)

	clientProto, serverProto := pipePair()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(serverProto) }()

	require.NoError(t, clientProto.SendInputs(1, [][]byte{[]byte("junk"), []byte("junk")}))
	_, err = clientProto.ReceiveForward()
	assert.Error(t, err)

	// The server keeps serving after a failed batch.
	require.NoError(t, clientProto.SendDone())
	require.NoError(t, <-done)
}
