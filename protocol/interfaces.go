package protocol

import (
	"context"
)

// EventFetcher returns the events emitted by a finalized transaction, in log order.
type EventFetcher interface {
	// EventsByTxHash fetches the receipt of txHash and converts its logs into Events.
	// Implementations return an error for pending or reverted transactions.
	EventsByTxHash(ctx context.Context, txHash Bytes32) ([]Event, error)
}

// Submitter delivers a message to a destination mailbox.
type Submitter interface {
	// Process submits the mailbox process call for msg and waits for its receipt.
	// msg is already expressed in the destination's chain layout.
	Process(ctx context.Context, metadata []byte, msg *Message) (txHash Bytes32, err error)
	// Delivered reports whether the mailbox has already processed messageID.
	Delivered(ctx context.Context, messageID Bytes32) (bool, error)
}

// Deployer deploys a contract and returns its address.
type Deployer interface {
	Deploy(ctx context.Context, contract string, constructorArgs ...any) (UnknownAddress, error)
}

// MetadataBuilder builds the ISM metadata passed to process for a message.
type MetadataBuilder interface {
	BuildMetadata(ctx context.Context, msg *Message) ([]byte, error)
}
