package split

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"

	"xornet/core/ckkswrapper"
	"xornet/nn"
	"xornet/utils"
)

// Client owns the keys and evaluates every layer after the first hidden
// layer's weighted sums in plaintext. The input layer weights of net are
// never used by the client.
type Client struct {
	he    *ckkswrapper.HeContext
	net   *nn.Network
	proto *Protocol
	batch int

	Stats *utils.TimingStats
}

// NewClient talks to a Server over proto.
func NewClient(he *ckkswrapper.HeContext, net *nn.Network, proto *Protocol) *Client {
	return &Client{he: he, net: net, proto: proto, Stats: &utils.TimingStats{}}
}

// Predict returns the network outputs for inputs without revealing them to
// the server.
func (c *Client) Predict(inputs []float64) ([]float64, error) {
	topology := c.net.Topology()
	if len(inputs) != topology[0] {
		return nil, errors.Wrapf(nn.ErrContractViolation, "got %d inputs, topology expects %d", len(inputs), topology[0])
	}
	hidden := topology[1]
	c.batch++

	start := time.Now()
	cts := make([][]byte, 0, len(inputs)+1)
	for _, x := range append(append([]float64(nil), inputs...), 1.0) {
		ct, err := c.he.EncryptConstant(x, hidden)
		if err != nil {
			return nil, errors.Wrap(err, "encrypt input")
		}
		b, err := ct.MarshalBinary()
		if err != nil {
			return nil, errors.Wrap(err, "marshal input")
		}
		cts = append(cts, b)
	}
	c.Stats.EncryptionTime += time.Since(start)

	start = time.Now()
	if err := c.proto.SendInputs(c.batch, cts); err != nil {
		return nil, errors.Wrap(err, "send inputs")
	}
	payload, err := c.proto.ReceiveForward()
	if err != nil {
		return nil, errors.Wrap(err, "receive weighted sums")
	}
	c.Stats.ServerLinearTime += time.Since(start)
	if payload.BatchID != c.batch {
		return nil, errors.Errorf("got batch %d, want %d", payload.BatchID, c.batch)
	}

	start = time.Now()
	ct := new(rlwe.Ciphertext)
	if err := ct.UnmarshalBinary(payload.Ciphertext); err != nil {
		return nil, errors.Wrap(err, "unmarshal weighted sums")
	}
	sums, err := c.he.DecryptValues(ct, hidden)
	if err != nil {
		return nil, err
	}
	c.Stats.DecryptionTime += time.Since(start)

	start = time.Now()
	for i, s := range sums {
		sums[i] = nn.Transfer(s)
	}
	if err := c.net.FeedForwardFrom(1, sums); err != nil {
		return nil, err
	}
	c.Stats.ForwardPassTime += time.Since(start)
	return c.net.Results(), nil
}

// Close tells the server no more inputs follow.
func (c *Client) Close() error {
	return c.proto.SendDone()
}
