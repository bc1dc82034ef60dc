package protocol

import "errors"

var (
	// ErrEventNotFound is returned when no event in a receipt carries the expected selector.
	ErrEventNotFound = errors.New("event not found")
	// ErrMalformedEventData is returned when a matching event has too few data fields or a field
	// does not fit its target width.
	ErrMalformedEventData = errors.New("malformed event data")
	// ErrAddressWidthMismatch is returned when an address cannot be expressed at a target width
	// without losing bytes.
	ErrAddressWidthMismatch = errors.New("address width mismatch")
	// ErrPayloadTooLarge is returned when a message body exceeds the configured bound.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrMalformedMessage is returned when linear or chunked bytes cannot be decoded into a message.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrTransactionPending is returned when a receipt is requested for a transaction that is not
	// yet final.
	ErrTransactionPending = errors.New("transaction pending")
	// ErrTransactionReverted is returned when a transaction executed but failed.
	ErrTransactionReverted = errors.New("transaction reverted")
)
