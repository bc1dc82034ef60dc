package starknet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/curve"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// Account signs and sends invoke transactions. *account.Account implements it.
type Account interface {
	BuildAndSendInvokeTxn(ctx context.Context, functionCalls []rpc.InvokeFunctionCall, opts *account.TxnOptions) (*rpc.AddInvokeTransactionResponse, error)
}

var _ Account = (*account.Account)(nil)

// NewAccount loads a Cairo 2 account at address signing with privateKey (0x-prefixed hex).
// It queries the node for the chain id.
func NewAccount(provider rpc.RpcProvider, address, privateKey string) (*account.Account, error) {
	word, err := protocol.NewBytes32FromString(address)
	if err != nil {
		return nil, fmt.Errorf("invalid account address: %w", err)
	}
	addr, err := FeltFromBytes32(word)
	if err != nil {
		return nil, fmt.Errorf("invalid account address: %w", err)
	}
	key, err := utils.HexToFelt(privateKey)
	if err != nil || key.IsZero() {
		return nil, errors.New("invalid account private key")
	}
	priv := utils.FeltToBigInt(key)
	pubX, _ := curve.PrivateKeyToPoint(priv)
	pub := utils.BigIntToFelt(pubX).String()

	acc, err := account.NewAccount(provider, addr, pub, account.SetNewMemKeystore(pub, priv), account.CairoV2)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", addr, err)
	}
	return acc, nil
}

// AccountSubmitter delivers to a Starknet mailbox by sending mailbox.process from an account and
// waiting for the transaction to be accepted.
type AccountSubmitter struct {
	lggr     logger.Logger
	account  Account
	mailbox  *MailboxReader
	receipts *ReceiptReader

	// serializes nonce assignment across concurrent relays
	mu sync.Mutex
}

var _ protocol.Submitter = (*AccountSubmitter)(nil)

func NewAccountSubmitter(lggr logger.Logger, acc Account, mailbox *MailboxReader, receipts *ReceiptReader) *AccountSubmitter {
	return &AccountSubmitter{
		lggr:     logger.Named(lggr, "StarknetAccountSubmitter"),
		account:  acc,
		mailbox:  mailbox,
		receipts: receipts,
	}
}

func (s *AccountSubmitter) Process(ctx context.Context, metadata []byte, msg *protocol.Message) (protocol.Bytes32, error) {
	id, err := msg.ID()
	if err != nil {
		return protocol.Bytes32{}, err
	}
	calldata, err := EncodeProcessCalldata(metadata, msg)
	if err != nil {
		return protocol.Bytes32{}, err
	}
	mailbox, err := FeltFromBytes32(s.mailbox.Mailbox())
	if err != nil {
		return protocol.Bytes32{}, fmt.Errorf("mailbox address: %w", err)
	}
	call := rpc.InvokeFunctionCall{
		ContractAddress: mailbox,
		FunctionName:    processEntrypoint,
		CallData:        calldata,
	}

	s.mu.Lock()
	resp, err := s.account.BuildAndSendInvokeTxn(ctx, []rpc.InvokeFunctionCall{call}, nil)
	s.mu.Unlock()
	if err != nil {
		return protocol.Bytes32{}, fmt.Errorf("failed to send process transaction: %w", err)
	}
	if resp == nil || resp.Hash == nil {
		return protocol.Bytes32{}, fmt.Errorf("node returned no transaction hash for message %s", id)
	}
	txHash := Bytes32FromFelt(resp.Hash)
	s.lggr.Infow("Submitted process transaction", "messageId", id.String(), "txHash", txHash.String())

	receipt, err := s.receipts.WaitForReceipt(ctx, txHash)
	if err != nil {
		return txHash, err
	}
	if receipt.ExecutionStatus != rpc.TxnExecutionStatusSUCCEEDED {
		return txHash, fmt.Errorf("%w: %s (%s): %s", protocol.ErrTransactionReverted, txHash, receipt.ExecutionStatus, receipt.RevertReason)
	}
	return txHash, nil
}

func (s *AccountSubmitter) Delivered(ctx context.Context, messageID protocol.Bytes32) (bool, error) {
	return s.mailbox.Delivered(ctx, messageID)
}
