package evm

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"

	"github.com/astraly-labs/hyperlane-starknet/internal/mocks"
)

// sentTxs collects the transactions sent through a mocked backend.
type sentTxs struct {
	mu  sync.Mutex
	txs []*types.Transaction
}

func (s *sentTxs) last() *types.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.txs) == 0 {
		return nil
	}
	return s.txs[len(s.txs)-1]
}

// expectMined sets up backend to accept transactions and mine them immediately with status.
// Nonces follow the number of transactions sent so far.
func expectMined(t *testing.T, backend *mocks.MockBackend, status uint64) *sentTxs {
	t.Helper()
	sent := &sentTxs{}

	backend.EXPECT().PendingNonceAt(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, common.Address) (uint64, error) {
			sent.mu.Lock()
			defer sent.mu.Unlock()
			return uint64(len(sent.txs)), nil
		})
	backend.EXPECT().SuggestGasPrice(mock.Anything).Return(big.NewInt(1_000_000_000), nil)
	backend.EXPECT().SendTransaction(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, tx *types.Transaction) error {
			sent.mu.Lock()
			defer sent.mu.Unlock()
			sent.txs = append(sent.txs, tx)
			return nil
		})
	backend.EXPECT().TransactionReceipt(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, hash common.Hash) (*types.Receipt, error) {
			sent.mu.Lock()
			defer sent.mu.Unlock()
			for i, tx := range sent.txs {
				if tx.Hash() == hash {
					return &types.Receipt{
						Status:      status,
						TxHash:      hash,
						GasUsed:     21_000,
						BlockNumber: big.NewInt(int64(i + 1)),
					}, nil
				}
			}
			return nil, ethereum.NotFound
		})
	return sent
}
