package protocol

import (
	"fmt"
	"math"
)

// ChunkSize is the width in bytes of a chunk in the Starknet Bytes representation (a u128 word).
const ChunkSize = 16

// ChunkedBytes is the Starknet representation of a byte string: the declared length plus
// big-endian 16-byte chunks, the last one zero padded on the right.
type ChunkedBytes struct {
	Size   uint32    `json:"size"`
	Chunks []Bytes16 `json:"chunks"`
}

// ChunkCount returns the number of 16-byte chunks needed to hold size bytes.
func ChunkCount(size int) int {
	return (size + ChunkSize - 1) / ChunkSize
}

// DecodeChunkedBody groups a raw byte string into zero-padded 16-byte chunks.
// The padding is (16 - len%16) % 16 bytes, so an input that is already a multiple of 16 gets none.
func DecodeChunkedBody(b []byte) (ChunkedBytes, error) {
	if uint64(len(b)) > math.MaxUint32 {
		return ChunkedBytes{}, fmt.Errorf("%w: %d bytes exceeds the u32 size field", ErrPayloadTooLarge, len(b))
	}

	padding := (ChunkSize - len(b)%ChunkSize) % ChunkSize
	padded := make([]byte, len(b)+padding)
	copy(padded, b)

	chunks := make([]Bytes16, len(padded)/ChunkSize)
	for i := range chunks {
		copy(chunks[i][:], padded[i*ChunkSize:(i+1)*ChunkSize])
	}

	return ChunkedBytes{
		Size:   uint32(len(b)), //nolint:gosec // G115: bounded above
		Chunks: chunks,
	}, nil
}

// ChunkedToLinear concatenates the chunks in order and truncates to Size, dropping tail padding.
func ChunkedToLinear(c ChunkedBytes) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(c.Chunks)*ChunkSize)
	for _, chunk := range c.Chunks {
		out = append(out, chunk[:]...)
	}
	return out[:c.Size], nil
}

// Validate checks that the chunk count matches Size and that the tail padding is zero.
func (c ChunkedBytes) Validate() error {
	if want := ChunkCount(int(c.Size)); want != len(c.Chunks) {
		return fmt.Errorf("%w: size %d needs %d chunks, got %d", ErrMalformedMessage, c.Size, want, len(c.Chunks))
	}
	if len(c.Chunks) == 0 {
		return nil
	}

	used := int(c.Size) - (len(c.Chunks)-1)*ChunkSize
	last := c.Chunks[len(c.Chunks)-1]
	for i := used; i < ChunkSize; i++ {
		if last[i] != 0 {
			return fmt.Errorf("%w: non-zero padding byte at offset %d of the last chunk", ErrMalformedMessage, i)
		}
	}
	return nil
}

// Padding returns the number of zero bytes appended to the last chunk.
func (c ChunkedBytes) Padding() int {
	return len(c.Chunks)*ChunkSize - int(c.Size)
}
