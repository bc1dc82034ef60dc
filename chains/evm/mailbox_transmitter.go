package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// DefaultGasLimit is the gas limit used for mailbox transactions when none is configured.
const DefaultGasLimit = uint64(1_000_000)

// Backend is what the transmitter needs from a node: contract calls and transactions plus
// receipts. *ethclient.Client implements it.
type Backend interface {
	bind.ContractBackend
	ReceiptClient
}

// MailboxTransmitter submits process and dispatch transactions to a Mailbox and queries delivery.
type MailboxTransmitter struct {
	lggr     logger.Logger
	backend  Backend
	address  common.Address
	mailbox  *bind.BoundContract
	receipts *ReceiptReader
	pk       *ecdsa.PrivateKey
	chainID  *big.Int
	gasLimit uint64
	// serialises nonce assignment for transactions sent from pk
	mu sync.Mutex
}

var _ protocol.Submitter = (*MailboxTransmitter)(nil)

// NewMailboxTransmitter binds the mailbox at address. A zero gasLimit selects DefaultGasLimit.
func NewMailboxTransmitter(
	lggr logger.Logger,
	backend Backend,
	address common.Address,
	pk *ecdsa.PrivateKey,
	chainID *big.Int,
	gasLimit uint64,
	readerOpts ...ReaderOption,
) *MailboxTransmitter {
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}
	return &MailboxTransmitter{
		lggr:     logger.Named(lggr, "MailboxTransmitter"),
		backend:  backend,
		address:  address,
		mailbox:  bind.NewBoundContract(address, mailboxABI, backend, backend, backend),
		receipts: NewReceiptReader(lggr, backend, readerOpts...),
		pk:       pk,
		chainID:  chainID,
		gasLimit: gasLimit,
	}
}

// NewMailboxTransmitterFromRPC dials rpcURL and binds the mailbox using a hex private key.
func NewMailboxTransmitterFromRPC(ctx context.Context, lggr logger.Logger, rpcURL, privateKey string, address common.Address, gasLimit uint64, readerOpts ...ReaderOption) (*MailboxTransmitter, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}

	pk, err := crypto.HexToECDSA(trimHexPrefix(privateKey))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	return NewMailboxTransmitter(lggr, client, address, pk, chainID, gasLimit, readerOpts...), nil
}

// Address returns the bound mailbox address.
func (t *MailboxTransmitter) Address() common.Address {
	return t.address
}

// Receipts returns the reader the transmitter waits for receipts with.
func (t *MailboxTransmitter) Receipts() *ReceiptReader {
	return t.receipts
}

// newTransactOpts returns keyed legacy transaction options with the pending nonce and suggested
// gas price filled in. A zero gasLimit leaves gas estimation to the binding.
func newTransactOpts(ctx context.Context, backend Backend, pk *ecdsa.PrivateKey, chainID *big.Int, gasLimit uint64) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(pk, chainID)
	if err != nil {
		return nil, err
	}

	nonce, err := backend.PendingNonceAt(ctx, auth.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce for %s: %w", auth.From.Hex(), err)
	}
	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	auth.Context = ctx
	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.GasPrice = gasPrice
	auth.GasLimit = gasLimit
	auth.Value = big.NewInt(0)
	return auth, nil
}

// transact sends method and waits for a successful receipt.
func (t *MailboxTransmitter) transact(ctx context.Context, method string, params ...any) (*types.Receipt, error) {
	t.mu.Lock()
	opts, err := newTransactOpts(ctx, t.backend, t.pk, t.chainID, t.gasLimit)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	tx, err := t.mailbox.Transact(opts, method, params...)
	t.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	t.lggr.Infow("Submitted mailbox transaction", "method", method, "txHash", tx.Hash().Hex(), "nonce", tx.Nonce())

	receipt, err := t.receipts.WaitForReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s %s", protocol.ErrTransactionReverted, method, tx.Hash().Hex())
	}
	return receipt, nil
}

// Process submits Mailbox.process(metadata, message) with msg in linear encoding.
func (t *MailboxTransmitter) Process(ctx context.Context, metadata []byte, msg *protocol.Message) (protocol.Bytes32, error) {
	encoded, err := protocol.EncodeLinear(msg)
	if err != nil {
		return protocol.Bytes32{}, fmt.Errorf("failed to encode message: %w", err)
	}

	receipt, err := t.transact(ctx, processMethod, metadata, encoded)
	if err != nil {
		return protocol.Bytes32{}, err
	}

	t.lggr.Infow("✅ Message processed",
		"messageId", protocol.Keccak256(encoded).String(),
		"txHash", receipt.TxHash.Hex(),
		"gasUsed", receipt.GasUsed)
	return protocol.Bytes32(receipt.TxHash), nil
}

// Delivered calls Mailbox.delivered(messageID).
func (t *MailboxTransmitter) Delivered(ctx context.Context, messageID protocol.Bytes32) (bool, error) {
	var out []any
	if err := t.mailbox.Call(&bind.CallOpts{Context: ctx}, &out, deliveredCall, [32]byte(messageID)); err != nil {
		return false, fmt.Errorf("failed to call delivered: %w", err)
	}
	if len(out) != 1 {
		return false, fmt.Errorf("delivered returned %d values", len(out))
	}
	delivered, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("delivered returned %T, want bool", out[0])
	}
	return delivered, nil
}

// Dispatch sends body to recipient on destination and returns the transaction hash, which can be
// handed to a relayer.
func (t *MailboxTransmitter) Dispatch(ctx context.Context, destination protocol.Domain, recipient protocol.Bytes32, body []byte) (protocol.Bytes32, error) {
	receipt, err := t.transact(ctx, dispatchMethod, uint32(destination), [32]byte(recipient), body)
	if err != nil {
		return protocol.Bytes32{}, err
	}
	return protocol.Bytes32(receipt.TxHash), nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
