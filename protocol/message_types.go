package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// MessageVersion is the Hyperlane message format version dispatched by v3 mailboxes.
	MessageVersion = 3
	// AddressFieldSize is the width of sender and recipient in the linear encoding.
	AddressFieldSize = 32
	// HeaderSize is version(1) + nonce(4) + origin(4) + sender(32) + destination(4) + recipient(32).
	HeaderSize = 1 + 4 + 4 + AddressFieldSize + 4 + AddressFieldSize
)

// Message is a Hyperlane message. Sender and Recipient carry the native width of the chain
// layout the message is currently expressed in. Exactly one of Body and ChunkedBody is set:
// Body for linear layouts, ChunkedBody for chunked ones.
type Message struct {
	Version     uint8          `json:"version"`
	Nonce       uint32         `json:"nonce"`
	Origin      Domain         `json:"origin"`
	Sender      UnknownAddress `json:"sender"`
	Destination Domain         `json:"destination"`
	Recipient   UnknownAddress `json:"recipient"`
	Body        ByteSlice      `json:"body,omitempty"`
	ChunkedBody *ChunkedBytes  `json:"chunked_body,omitempty"`
}

// LinearBody returns the body as a plain byte string regardless of its representation. A message
// carrying both a linear and a chunked body is malformed.
func (m *Message) LinearBody() ([]byte, error) {
	if m.ChunkedBody != nil && len(m.Body) > 0 {
		return nil, fmt.Errorf("%w: both body and chunked body are set", ErrMalformedMessage)
	}
	if m.ChunkedBody != nil {
		return ChunkedToLinear(*m.ChunkedBody)
	}
	return m.Body, nil
}

// BodySize is the body length in bytes for either representation.
func (m *Message) BodySize() int {
	if m.ChunkedBody != nil {
		return int(m.ChunkedBody.Size)
	}
	return len(m.Body)
}

// EncodeLinear returns the canonical encoding of the message:
// version‖nonce‖origin‖sender‖destination‖recipient‖body, integers big-endian and addresses
// left-zero-padded to 32 bytes. It matches the Solidity Message.formatMessage() layout.
func EncodeLinear(m *Message) ([]byte, error) {
	sender, err := m.Sender.Bytes32()
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	recipient, err := m.Recipient.Bytes32()
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	body, err := m.LinearBody()
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(body))

	// Version (1 byte)
	_ = buf.WriteByte(m.Version)

	// Nonce and origin (4 bytes each, big-endian)
	_ = binary.Write(&buf, binary.BigEndian, m.Nonce)
	_ = binary.Write(&buf, binary.BigEndian, uint32(m.Origin))

	_, _ = buf.Write(sender[:])

	// Destination (4 bytes, big-endian)
	_ = binary.Write(&buf, binary.BigEndian, uint32(m.Destination))

	_, _ = buf.Write(recipient[:])

	// Body is appended raw, without a length prefix
	_, _ = buf.Write(body)

	return buf.Bytes(), nil
}

// DecodeLinear decodes a canonical linear encoding. Sender and recipient come back 32 bytes wide.
func DecodeLinear(data []byte) (*Message, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrMalformedMessage, len(data), HeaderSize)
	}

	reader := bytes.NewReader(data)
	msg := &Message{}

	version, err := reader.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	msg.Version = version

	if err := binary.Read(reader, binary.BigEndian, &msg.Nonce); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}

	var origin, destination uint32
	if err := binary.Read(reader, binary.BigEndian, &origin); err != nil {
		return nil, fmt.Errorf("failed to read origin: %w", err)
	}
	msg.Origin = Domain(origin)

	msg.Sender = make(UnknownAddress, AddressFieldSize)
	if _, err := io.ReadFull(reader, msg.Sender); err != nil {
		return nil, fmt.Errorf("failed to read sender: %w", err)
	}

	if err := binary.Read(reader, binary.BigEndian, &destination); err != nil {
		return nil, fmt.Errorf("failed to read destination: %w", err)
	}
	msg.Destination = Domain(destination)

	msg.Recipient = make(UnknownAddress, AddressFieldSize)
	if _, err := io.ReadFull(reader, msg.Recipient); err != nil {
		return nil, fmt.Errorf("failed to read recipient: %w", err)
	}

	// Everything after the header is body
	msg.Body = make(ByteSlice, reader.Len())
	if _, err := io.ReadFull(reader, msg.Body); err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return msg, nil
}

// ID returns the Hyperlane message id, the keccak256 of the linear encoding.
func (m *Message) ID() (Bytes32, error) {
	encoded, err := EncodeLinear(m)
	if err != nil {
		return Bytes32{}, err
	}
	return Keccak256(encoded), nil
}

// MustID returns the message id or an empty Bytes32 when the message cannot be encoded.
// Use this when you want a simple getter that ignores errors (i.e. for logging).
func (m *Message) MustID() Bytes32 {
	id, err := m.ID()
	if err != nil {
		return Bytes32{}
	}
	return id
}

// NewMessage creates a message with a linear body at the current MessageVersion.
func NewMessage(nonce uint32, origin Domain, sender UnknownAddress, destination Domain, recipient UnknownAddress, body []byte) *Message {
	return &Message{
		Version:     MessageVersion,
		Nonce:       nonce,
		Origin:      origin,
		Sender:      sender,
		Destination: destination,
		Recipient:   recipient,
		Body:        body,
	}
}
