package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Event is a chain-agnostic view of an emitted event: the selector/topic set and the ordered
// data fields. EVM topics and Starknet keys both map onto Keys; Data holds 32-byte words
// (ABI words on EVM, felts on Starknet).
type Event struct {
	Emitter UnknownAddress `json:"emitter"`
	Keys    []Bytes32      `json:"keys"`
	Data    []Bytes32      `json:"data"`
}

// HasKey reports whether the event's key set contains key.
func (e Event) HasKey(key Bytes32) bool {
	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// DispatchEvent is the record a mailbox emits when a message is dispatched.
type DispatchEvent struct {
	Sender            UnknownAddress `json:"sender"`
	DestinationDomain Domain         `json:"destination_domain"`
	RecipientAddress  UnknownAddress `json:"recipient_address"`
	Message           Message        `json:"message"`
}

// DispatchDecoder decodes the fields of a matched dispatch event for one chain family.
type DispatchDecoder interface {
	DecodeDispatch(event Event) (*DispatchEvent, error)
}

// FindEvent returns the index of the first event whose key set contains selector.
// The first match in log order is used even when later events carry the same selector.
func FindEvent(events []Event, selector Bytes32) (int, error) {
	for i, ev := range events {
		if ev.HasKey(selector) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no event with selector %s among %d events", ErrEventNotFound, selector, len(events))
}

// DecodeDispatchEvent decodes the first event carrying selector with the chain's decoder.
func DecodeDispatchEvent(events []Event, selector Bytes32, decoder DispatchDecoder) (*DispatchEvent, error) {
	idx, err := FindEvent(events, selector)
	if err != nil {
		return nil, err
	}

	dispatch, err := decoder.DecodeDispatch(events[idx])
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", idx, err)
	}
	return dispatch, nil
}

// FieldReader reads event data fields positionally, checking each against its target width.
// All failures wrap ErrMalformedEventData.
type FieldReader struct {
	fields []Bytes32
	pos    int
}

// NewFieldReader creates a FieldReader over fields.
func NewFieldReader(fields []Bytes32) *FieldReader {
	return &FieldReader{fields: fields}
}

// Remaining returns the number of unread fields.
func (r *FieldReader) Remaining() int {
	return len(r.fields) - r.pos
}

// Word returns the next field unchecked.
func (r *FieldReader) Word(name string) (Bytes32, error) {
	if r.pos >= len(r.fields) {
		return Bytes32{}, fmt.Errorf("%w: missing field %s at position %d, only %d fields",
			ErrMalformedEventData, name, r.pos, len(r.fields))
	}
	w := r.fields[r.pos]
	r.pos++
	return w, nil
}

// Address returns the next field as an address of width bytes. The dropped high-order bytes must
// be zero.
func (r *FieldReader) Address(name string, width int) (UnknownAddress, error) {
	w, err := r.Word(name)
	if err != nil {
		return nil, err
	}
	if width <= 0 || width > len(w) || !fitsBits(w, width*8) {
		return nil, fmt.Errorf("%w: field %s value %s is not a %d byte address", ErrMalformedEventData, name, w, width)
	}
	out := make(UnknownAddress, width)
	copy(out, w[len(w)-width:])
	return out, nil
}

// Uint returns the next field as an unsigned integer of at most bits bits (bits <= 64).
func (r *FieldReader) Uint(name string, bits int) (uint64, error) {
	w, err := r.Word(name)
	if err != nil {
		return 0, err
	}
	if !fitsBits(w, bits) {
		return 0, fmt.Errorf("%w: field %s value %s does not fit in %d bits", ErrMalformedEventData, name, w, bits)
	}
	return binary.BigEndian.Uint64(w[24:]), nil
}

// Uint128 returns the next field as a 16-byte big-endian word.
func (r *FieldReader) Uint128(name string) (Bytes16, error) {
	w, err := r.Word(name)
	if err != nil {
		return Bytes16{}, err
	}
	if !fitsBits(w, 128) {
		return Bytes16{}, fmt.Errorf("%w: field %s value %s does not fit in 128 bits", ErrMalformedEventData, name, w)
	}
	var out Bytes16
	copy(out[:], w[16:])
	return out, nil
}

// Uint256 reads a u256 serialised as two fields, low half first, and returns it big-endian.
func (r *FieldReader) Uint256(name string) (Bytes32, error) {
	low, err := r.Uint128(name + ".low")
	if err != nil {
		return Bytes32{}, err
	}
	high, err := r.Uint128(name + ".high")
	if err != nil {
		return Bytes32{}, err
	}
	var out Bytes32
	copy(out[:16], high[:])
	copy(out[16:], low[:])
	return out, nil
}

func fitsBits(w Bytes32, bits int) bool {
	full := (256 - bits) / 8
	if !bytes.Equal(w[:full], make([]byte, full)) {
		return false
	}
	if rem := (256 - bits) % 8; rem != 0 {
		return w[full]>>(8-rem) == 0
	}
	return true
}
