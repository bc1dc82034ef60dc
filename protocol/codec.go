package protocol

import (
	"fmt"
)

// Codec translates messages between chain layouts. It holds only immutable configuration and is
// safe for concurrent use.
type Codec struct {
	// maxBodySize bounds message bodies; zero disables the check.
	maxBodySize int
}

// Option configures a Codec.
type Option func(*Codec)

// WithMaxBodySize rejects bodies longer than n bytes with ErrPayloadTooLarge.
func WithMaxBodySize(n int) Option {
	return func(c *Codec) {
		c.maxBodySize = n
	}
}

// NewCodec creates a Codec.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxBodySize returns the configured body bound, zero when unbounded.
func (c *Codec) MaxBodySize() int {
	return c.maxBodySize
}

func (c *Codec) checkBody(size int) error {
	if c.maxBodySize > 0 && size > c.maxBodySize {
		return fmt.Errorf("%w: body is %d bytes, limit is %d", ErrPayloadTooLarge, size, c.maxBodySize)
	}
	return nil
}

// EncodeLinear is EncodeLinear with the configured body bound applied.
func (c *Codec) EncodeLinear(m *Message) ([]byte, error) {
	body, err := m.LinearBody()
	if err != nil {
		return nil, err
	}
	if err := c.checkBody(len(body)); err != nil {
		return nil, err
	}
	return EncodeLinear(m)
}

// DecodeChunkedBody is DecodeChunkedBody with the configured body bound applied.
func (c *Codec) DecodeChunkedBody(b []byte) (ChunkedBytes, error) {
	if err := c.checkBody(len(b)); err != nil {
		return ChunkedBytes{}, err
	}
	return DecodeChunkedBody(b)
}

// TranslateMessage re-expresses m, dispatched on a source-layout chain, for delivery on a
// target-layout chain. m is not modified.
//
// The sender lives on the source chain: it is checked at the source's native width and carried
// at the 32-byte wire width every mailbox accepts. The recipient lives on the target chain: it is
// re-expressed at the target's native width, zero extended when widening and narrowed only when
// the dropped high-order bytes are zero, otherwise ErrAddressWidthMismatch is returned. The body
// is converted between linear and chunked form as the target requires.
func (c *Codec) TranslateMessage(m *Message, source, target ChainLayout) (*Message, error) {
	nativeSender, err := source.NativeAddress(m.Sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	sender, err := nativeSender.Resize(AddressFieldSize)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	recipient, err := target.NativeAddress(m.Recipient)
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}

	body, err := m.LinearBody()
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	if err := c.checkBody(len(body)); err != nil {
		return nil, err
	}

	out := &Message{
		Version:     m.Version,
		Nonce:       m.Nonce,
		Origin:      m.Origin,
		Sender:      sender,
		Destination: m.Destination,
		Recipient:   recipient,
	}

	switch target.Body {
	case BodyChunked:
		chunked, err := DecodeChunkedBody(body)
		if err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}
		out.ChunkedBody = &chunked
	case BodyLinear:
		out.Body = append(ByteSlice{}, body...)
	default:
		return nil, fmt.Errorf("unsupported body encoding %s for %s", target.Body, target.Name)
	}

	return out, nil
}
