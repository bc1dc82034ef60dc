package evm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

const (
	DefaultPollInterval   = 1 * time.Second
	DefaultReceiptTimeout = 2 * time.Minute
)

// ReceiptClient is the part of ethclient.Client the reader needs.
type ReceiptClient interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// ReceiptReader fetches transaction receipts and exposes their logs as protocol events.
type ReceiptReader struct {
	lggr         logger.Logger
	client       ReceiptClient
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

func NewReceiptReader(lggr logger.Logger, client ReceiptClient, opts ...ReaderOption) *ReceiptReader {
	r := &ReceiptReader{
		lggr:         logger.Named(lggr, "EVMReceiptReader"),
		client:       client,
		pollInterval: DefaultPollInterval,
		timeout:      DefaultReceiptTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WaitForReceipt polls until the transaction is mined, the timeout elapses or ctx is done.
// A mined transaction is returned whatever its status.
func (r *ReceiptReader) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		receipt, err := r.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", protocol.ErrTransactionPending, txHash.Hex(), attempt, ctx.Err())
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash.Hex(), err)
		}
		r.lggr.Debugw("Receipt not available yet", "txHash", txHash.Hex(), "attempt", attempt)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", protocol.ErrTransactionPending, txHash.Hex(), attempt, ctx.Err())
		case <-ticker.C:
		}
	}
}

// EventsByTxHash waits for the receipt of txHash and converts its logs. Reverted transactions
// fail with ErrTransactionReverted.
func (r *ReceiptReader) EventsByTxHash(ctx context.Context, txHash protocol.Bytes32) ([]protocol.Event, error) {
	receipt, err := r.WaitForReceipt(ctx, common.Hash(txHash))
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s in block %v", protocol.ErrTransactionReverted, txHash, receipt.BlockNumber)
	}

	r.lggr.Debugw("Fetched receipt", "txHash", txHash.String(), "logs", len(receipt.Logs), "block", receipt.BlockNumber)
	return EventsFromLogs(receipt.Logs), nil
}
