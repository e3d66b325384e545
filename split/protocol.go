// Package split runs inference with the first layer evaluated by a server
// that only ever sees CKKS ciphertexts of the inputs.
package split

import (
	"encoding/gob"
	"fmt"
	"io"
)

func init() {
	// Register types for gob encoding
	gob.Register(InputPayload{})
	gob.Register(ForwardPayload{})
}

// MessageType defines message types for split inference protocol
type MessageType int

const (
	MsgForwardInput MessageType = iota
	MsgForwardOutput
	MsgDone
	MsgError
)

// Message represents a message in the split inference protocol
type Message struct {
	Type    MessageType
	Payload interface{}
}

// InputPayload carries one ciphertext per input neuron, bias unit last.
type InputPayload struct {
	BatchID     int
	Ciphertexts [][]byte // serialized ciphertexts
}

// ForwardPayload contains the encrypted weighted sums of the first hidden layer
type ForwardPayload struct {
	BatchID    int
	Ciphertext []byte // serialized ciphertext
	Level      int
	ScaleFloat float64
}

// Protocol handles split inference communication
type Protocol struct {
	encoder *gob.Encoder
	decoder *gob.Decoder
}

// NewProtocol creates a new protocol handler
func NewProtocol(r io.Reader, w io.Writer) *Protocol {
	p := &Protocol{}
	if w != nil {
		p.encoder = gob.NewEncoder(w)
	}
	if r != nil {
		p.decoder = gob.NewDecoder(r)
	}
	return p
}

// Send sends a message
func (p *Protocol) Send(msg *Message) error {
	return p.encoder.Encode(msg)
}

// Receive receives a message
func (p *Protocol) Receive() (*Message, error) {
	var msg Message
	if err := p.decoder.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendInputs sends the encrypted input vector
func (p *Protocol) SendInputs(batchID int, cts [][]byte) error {
	return p.Send(&Message{
		Type: MsgForwardInput,
		Payload: InputPayload{
			BatchID:     batchID,
			Ciphertexts: cts,
		},
	})
}

// SendForward sends a forward pass ciphertext
func (p *Protocol) SendForward(batchID int, ctBytes []byte, level int, scale float64) error {
	return p.Send(&Message{
		Type: MsgForwardOutput,
		Payload: ForwardPayload{
			BatchID:    batchID,
			Ciphertext: ctBytes,
			Level:      level,
			ScaleFloat: scale,
		},
	})
}

// SendDone signals completion
func (p *Protocol) SendDone() error {
	return p.Send(&Message{Type: MsgDone})
}

// SendError sends an error message
func (p *Protocol) SendError(err error) error {
	return p.Send(&Message{
		Type:    MsgError,
		Payload: err.Error(),
	})
}

// ReceiveInputs receives an encrypted input vector. It returns io.EOF once
// the peer is done.
func (p *Protocol) ReceiveInputs() (*InputPayload, error) {
	msg, err := p.receive(MsgForwardInput)
	if err != nil {
		return nil, err
	}
	payload, ok := msg.Payload.(InputPayload)
	if !ok {
		return nil, fmt.Errorf("invalid input payload type")
	}
	return &payload, nil
}

// ReceiveForward receives a forward pass payload
func (p *Protocol) ReceiveForward() (*ForwardPayload, error) {
	msg, err := p.receive(MsgForwardOutput)
	if err != nil {
		return nil, err
	}
	payload, ok := msg.Payload.(ForwardPayload)
	if !ok {
		return nil, fmt.Errorf("invalid forward payload type")
	}
	return &payload, nil
}

func (p *Protocol) receive(want MessageType) (*Message, error) {
	msg, err := p.Receive()
	if err != nil {
		return nil, err
	}
	switch msg.Type {
	case MsgError:
		return nil, fmt.Errorf("remote error: %v", msg.Payload)
	case MsgDone:
		return nil, io.EOF
	case want:
		return msg, nil
	}
	return nil, fmt.Errorf("expected message %d, got %d", want, msg.Type)
}
