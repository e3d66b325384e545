package split

import (
	"bytes"
	"io"
	"testing"
)

func TestProtocolRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	ctBytes := []byte("test ciphertext data")
	err := writer.SendForward(1, ctBytes, 5, 1.234)
	if err != nil {
		t.Fatalf("SendForward failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	payload, err := reader.ReceiveForward()
	if err != nil {
		t.Fatalf("ReceiveForward failed: %v", err)
	}

	if payload.BatchID != 1 {
		t.Errorf("BatchID = %d, want 1", payload.BatchID)
	}
	if payload.Level != 5 {
		t.Errorf("Level = %d, want 5", payload.Level)
	}
	if payload.ScaleFloat != 1.234 {
		t.Errorf("ScaleFloat = %f, want 1.234", payload.ScaleFloat)
	}
	if !bytes.Equal(payload.Ciphertext, ctBytes) {
		t.Errorf("Ciphertext mismatch")
	}
}

func TestProtocolInputs(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	cts := [][]byte{[]byte("x0"), []byte("x1"), []byte("bias")}
	if err := writer.SendInputs(42, cts); err != nil {
		t.Fatalf("SendInputs failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	payload, err := reader.ReceiveInputs()
	if err != nil {
		t.Fatalf("ReceiveInputs failed: %v", err)
	}

	if payload.BatchID != 42 {
		t.Errorf("BatchID = %d, want 42", payload.BatchID)
	}
	if len(payload.Ciphertexts) != 3 {
		t.Fatalf("got %d ciphertexts, want 3", len(payload.Ciphertexts))
	}
	for i := range cts {
		if !bytes.Equal(payload.Ciphertexts[i], cts[i]) {
			t.Errorf("ciphertext %d mismatch", i)
		}
	}
}

func TestProtocolDone(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	err := writer.SendDone()
	if err != nil {
		t.Fatalf("SendDone failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	_, err = reader.ReceiveInputs()
	if err != io.EOF {
		t.Errorf("Expected io.EOF after done, got %v", err)
	}
}

func TestProtocolError(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	err := writer.SendError(io.ErrUnexpectedEOF)
	if err != nil {
		t.Fatalf("SendError failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	_, err = reader.ReceiveForward()
	if err == nil {
		t.Errorf("Expected error after SendError")
	}
}

func TestProtocolUnexpectedType(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)
	if err := writer.SendInputs(1, nil); err != nil {
		t.Fatalf("SendInputs failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	if _, err := reader.ReceiveForward(); err == nil {
		t.Errorf("Expected error for an input message read as forward output")
	}
}

func TestMessageTypes(t *testing.T) {
	if MsgForwardInput != 0 {
		t.Errorf("MsgForwardInput = %d, want 0", MsgForwardInput)
	}
	if MsgForwardOutput != 1 {
		t.Errorf("MsgForwardOutput = %d, want 1", MsgForwardOutput)
	}
	if MsgDone != 2 {
		t.Errorf("MsgDone = %d, want 2", MsgDone)
	}
	if MsgError != 3 {
		t.Errorf("MsgError = %d, want 3", MsgError)
	}
}
