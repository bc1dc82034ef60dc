package starknet

import (
	"context"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// MailboxReader performs view calls against a Starknet mailbox.
type MailboxReader struct {
	provider Provider
	mailbox  protocol.Bytes32
}

func NewMailboxReader(provider Provider, mailbox protocol.Bytes32) *MailboxReader {
	return &MailboxReader{provider: provider, mailbox: mailbox}
}

func (m *MailboxReader) Mailbox() protocol.Bytes32 {
	return m.mailbox
}

// Call invokes a view entrypoint on the latest block and returns the raw result felts.
func (m *MailboxReader) Call(ctx context.Context, entrypoint string, calldata []*felt.Felt) ([]*felt.Felt, error) {
	address, err := FeltFromBytes32(m.mailbox)
	if err != nil {
		return nil, fmt.Errorf("mailbox address: %w", err)
	}
	call := rpc.FunctionCall{
		ContractAddress:    address,
		EntryPointSelector: utils.GetSelectorFromNameFelt(entrypoint),
		Calldata:           calldata,
	}
	out, err := m.provider.Call(ctx, call, rpc.WithBlockTag(rpc.BlockTagLatest))
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", entrypoint, err)
	}
	return out, nil
}

// Delivered calls mailbox.delivered(message_id).
func (m *MailboxReader) Delivered(ctx context.Context, messageID protocol.Bytes32) (bool, error) {
	low, high := SplitU256(messageID)
	out, err := m.Call(ctx, "delivered", []*felt.Felt{low, high})
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, fmt.Errorf("delivered returned %d felts", len(out))
	}
	switch {
	case out[0].IsZero():
		return false, nil
	case out[0].IsOne():
		return true, nil
	default:
		return false, fmt.Errorf("delivered returned non-boolean %s", out[0])
	}
}
