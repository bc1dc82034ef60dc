package protocol

import (
	"crypto/rand"
)

// RandomAddress generates a random address of the given width for testing.
func RandomAddress(width int) (UnknownAddress, error) {
	addr := make([]byte, width)
	if _, err := rand.Read(addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// RandomEVMAddress generates a random 20-byte address zero-extended to 32 bytes, the form EVM
// senders take inside a message.
func RandomEVMAddress() (UnknownAddress, error) {
	addr, err := RandomAddress(EVMLayout.AddressWidth)
	if err != nil {
		return nil, err
	}
	return addr.Resize(AddressFieldSize)
}
