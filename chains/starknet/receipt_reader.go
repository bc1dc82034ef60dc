package starknet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

const (
	DefaultPollInterval   = 2 * time.Second
	DefaultReceiptTimeout = 5 * time.Minute
)

// Provider is the part of the Starknet JSON-RPC API the relayer uses. *rpc.Provider implements it.
type Provider interface {
	TransactionReceipt(ctx context.Context, transactionHash *felt.Felt) (*rpc.TransactionReceiptWithBlockInfo, error)
	Call(ctx context.Context, call rpc.FunctionCall, block rpc.BlockID) ([]*felt.Felt, error)
}

var _ Provider = (*rpc.Provider)(nil)

// Dial creates a JSON-RPC provider for url.
func Dial(url string) (*rpc.Provider, error) {
	provider, err := rpc.NewProvider(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create Starknet provider for %s: %w", url, err)
	}
	return provider, nil
}

// Accepted reports whether the receipt belongs to a block accepted on L2 or L1. Receipts from the
// pending block carry a zero block hash.
func Accepted(r *rpc.TransactionReceiptWithBlockInfo) bool {
	if r.BlockHash == nil || r.BlockHash.IsZero() {
		return false
	}
	return r.FinalityStatus == rpc.TxnFinalityStatusAcceptedOnL2 || r.FinalityStatus == rpc.TxnFinalityStatusAcceptedOnL1
}

// EventsFromReceipt converts receipt events into protocol events, preserving order.
func EventsFromReceipt(r *rpc.TransactionReceiptWithBlockInfo) []protocol.Event {
	events := make([]protocol.Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, protocol.Event{
			Emitter: Bytes32FromFelt(ev.FromAddress).Address(),
			Keys:    FeltsToBytes32(ev.Keys),
			Data:    FeltsToBytes32(ev.Data),
		})
	}
	return events
}

// ReceiptReader fetches receipts through a Starknet provider.
type ReceiptReader struct {
	lggr         logger.Logger
	provider     Provider
	pollInterval time.Duration
	timeout      time.Duration
}

var _ protocol.EventFetcher = (*ReceiptReader)(nil)

type ReaderOption func(*ReceiptReader)

func WithPollInterval(d time.Duration) ReaderOption {
	return func(r *ReceiptReader) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

func WithReceiptTimeout(d time.Duration) ReaderOption {
	return func(r *ReceiptReader) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewReceiptReader(lggr logger.Logger, provider Provider, opts ...ReaderOption) *ReceiptReader {
	r := &ReceiptReader{
		lggr:         logger.Named(lggr, "StarknetReceiptReader"),
		provider:     provider,
		pollInterval: DefaultPollInterval,
		timeout:      DefaultReceiptTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WaitForReceipt polls until the transaction is accepted, the timeout elapses or ctx is done.
// Unknown and pending transactions are retried.
func (r *ReceiptReader) WaitForReceipt(ctx context.Context, txHash protocol.Bytes32) (*rpc.TransactionReceiptWithBlockInfo, error) {
	hash, err := FeltFromBytes32(txHash)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		receipt, err := r.provider.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && Accepted(receipt):
			return receipt, nil
		case err == nil:
			r.lggr.Debugw("Transaction not accepted yet", "txHash", txHash.String(), "finality", receipt.FinalityStatus, "attempt", attempt)
		case IsTxNotFound(err):
			r.lggr.Debugw("Transaction not found yet", "txHash", txHash.String(), "attempt", attempt)
		case ctx.Err() != nil:
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", protocol.ErrTransactionPending, txHash, attempt, ctx.Err())
		default:
			return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", protocol.ErrTransactionPending, txHash, attempt, ctx.Err())
		case <-ticker.C:
		}
	}
}

// EventsByTxHash waits for txHash to be accepted and returns its events. Reverted transactions
// fail with ErrTransactionReverted.
func (r *ReceiptReader) EventsByTxHash(ctx context.Context, txHash protocol.Bytes32) ([]protocol.Event, error) {
	receipt, err := r.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.ExecutionStatus != rpc.TxnExecutionStatusSUCCEEDED {
		return nil, fmt.Errorf("%w: %s (%s): %s", protocol.ErrTransactionReverted, txHash, receipt.ExecutionStatus, receipt.RevertReason)
	}

	r.lggr.Debugw("Fetched receipt", "txHash", txHash.String(), "events", len(receipt.Events), "finality", receipt.FinalityStatus)
	return EventsFromReceipt(receipt), nil
}

// IsTxNotFound reports whether err is the node's TXN_HASH_NOT_FOUND error.
func IsTxNotFound(err error) bool {
	var rpcErr *rpc.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == rpc.ErrHashNotFound.Code
}
