package starknet

import (
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// Cairo field widths of the message struct.
const (
	versionBits = 8
	nonceBits   = 32
	domainBits  = 32
	sizeBits    = 32
)

// EncodeMessageFelts serialises m the way the Cairo Message struct is serialised:
//
//	[version, nonce, origin, sender.low, sender.high, destination,
//	 recipient.low, recipient.high, body.size, body.len, chunk_0 .. chunk_n]
//
// A linear body is chunked first.
func EncodeMessageFelts(m *protocol.Message) ([]*felt.Felt, error) {
	sender, err := m.Sender.Bytes32()
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	recipient, err := m.Recipient.Bytes32()
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	body, err := chunkedBody(m)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}

	out := make([]*felt.Felt, 0, 10+len(body.Chunks))
	out = append(out,
		utils.Uint64ToFelt(uint64(m.Version)),
		utils.Uint64ToFelt(uint64(m.Nonce)),
		utils.Uint64ToFelt(uint64(m.Origin)),
	)
	out = appendU256(out, sender)
	out = append(out, utils.Uint64ToFelt(uint64(m.Destination)))
	out = appendU256(out, recipient)
	return appendBytes(out, body), nil
}

// EncodeBytesFelts serialises raw bytes as a Cairo Bytes value: [size, len, chunk_0 .. chunk_n].
func EncodeBytesFelts(b []byte) ([]*felt.Felt, error) {
	chunked, err := protocol.DecodeChunkedBody(b)
	if err != nil {
		return nil, err
	}
	return appendBytes(nil, chunked), nil
}

// EncodeProcessCalldata returns the calldata of mailbox.process(metadata, message).
func EncodeProcessCalldata(metadata []byte, m *protocol.Message) ([]*felt.Felt, error) {
	out, err := EncodeBytesFelts(metadata)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	msg, err := EncodeMessageFelts(m)
	if err != nil {
		return nil, err
	}
	return append(out, msg...), nil
}

// DecodeMessageFelts is the inverse of EncodeMessageFelts. Every field must be consumed.
// Addresses come back 32 bytes wide and the body chunked.
func DecodeMessageFelts(fields []protocol.Bytes32) (*protocol.Message, error) {
	r := protocol.NewFieldReader(fields)
	msg, err := readMessage(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing fields after message", protocol.ErrMalformedEventData, r.Remaining())
	}
	return msg, nil
}

func readMessage(r *protocol.FieldReader) (*protocol.Message, error) {
	version, err := r.Uint("message.version", versionBits)
	if err != nil {
		return nil, err
	}
	nonce, err := r.Uint("message.nonce", nonceBits)
	if err != nil {
		return nil, err
	}
	origin, err := r.Uint("message.origin", domainBits)
	if err != nil {
		return nil, err
	}
	sender, err := r.Uint256("message.sender")
	if err != nil {
		return nil, err
	}
	destination, err := r.Uint("message.destination", domainBits)
	if err != nil {
		return nil, err
	}
	recipient, err := r.Uint256("message.recipient")
	if err != nil {
		return nil, err
	}
	body, err := readBytes(r, "message.body")
	if err != nil {
		return nil, err
	}

	return &protocol.Message{
		Version:     uint8(version),
		Nonce:       uint32(nonce),
		Origin:      protocol.Domain(origin),
		Sender:      sender.Address(),
		Destination: protocol.Domain(destination),
		Recipient:   recipient.Address(),
		ChunkedBody: &body,
	}, nil
}

func readBytes(r *protocol.FieldReader, name string) (protocol.ChunkedBytes, error) {
	size, err := r.Uint(name+".size", sizeBits)
	if err != nil {
		return protocol.ChunkedBytes{}, err
	}
	n, err := r.Uint(name+".len", sizeBits)
	if err != nil {
		return protocol.ChunkedBytes{}, err
	}
	if n > uint64(r.Remaining()) {
		return protocol.ChunkedBytes{}, fmt.Errorf("%w: %s declares %d chunks, only %d fields left",
			protocol.ErrMalformedEventData, name, n, r.Remaining())
	}

	body := protocol.ChunkedBytes{Size: uint32(size), Chunks: make([]protocol.Bytes16, n)}
	for i := range body.Chunks {
		if body.Chunks[i], err = r.Uint128(fmt.Sprintf("%s.data[%d]", name, i)); err != nil {
			return protocol.ChunkedBytes{}, err
		}
	}
	if err := body.Validate(); err != nil {
		return protocol.ChunkedBytes{}, fmt.Errorf("%w: %s: %w", protocol.ErrMalformedEventData, name, err)
	}
	return body, nil
}

func chunkedBody(m *protocol.Message) (protocol.ChunkedBytes, error) {
	if m.ChunkedBody != nil {
		return *m.ChunkedBody, m.ChunkedBody.Validate()
	}
	return protocol.DecodeChunkedBody(m.Body)
}

func appendU256(out []*felt.Felt, v protocol.Bytes32) []*felt.Felt {
	low, high := SplitU256(v)
	return append(out, low, high)
}

func appendBytes(out []*felt.Felt, b protocol.ChunkedBytes) []*felt.Felt {
	out = append(out, utils.Uint64ToFelt(uint64(b.Size)), utils.Uint64ToFelt(uint64(len(b.Chunks))))
	for _, chunk := range b.Chunks {
		out = append(out, u128Felt(chunk))
	}
	return out
}

// FeltsToBytes32 converts felts to their 32-byte big-endian form.
func FeltsToBytes32(felts []*felt.Felt) []protocol.Bytes32 {
	out := make([]protocol.Bytes32, len(felts))
	for i, f := range felts {
		out[i] = Bytes32FromFelt(f)
	}
	return out
}
