package starknet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

const processEntrypoint = "process"

// ProcessCall is a mailbox.process invocation, ready for a Starknet account to sign and send.
type ProcessCall struct {
	ContractAddress string           `json:"contract_address"`
	Entrypoint      string           `json:"entrypoint"`
	MessageID       protocol.Bytes32 `json:"message_id"`
	Calldata        []string         `json:"calldata"`
}

// CalldataSubmitter is the dry-run Starknet submitter: it writes each process call as a JSON line
// on out and sends nothing, so Process returns a zero transaction hash. Delivery status is read
// from the mailbox.
type CalldataSubmitter struct {
	lggr   logger.Logger
	reader *MailboxReader

	mu  sync.Mutex
	out io.Writer
}

var _ protocol.Submitter = (*CalldataSubmitter)(nil)

func NewCalldataSubmitter(lggr logger.Logger, reader *MailboxReader, out io.Writer) *CalldataSubmitter {
	return &CalldataSubmitter{
		lggr:   logger.Named(lggr, "StarknetCalldataSubmitter"),
		reader: reader,
		out:    out,
	}
}

// BuildProcessCall encodes mailbox.process(metadata, msg) against mailbox.
func BuildProcessCall(mailbox protocol.Bytes32, metadata []byte, msg *protocol.Message) (*ProcessCall, error) {
	id, err := msg.ID()
	if err != nil {
		return nil, err
	}
	felts, err := EncodeProcessCalldata(metadata, msg)
	if err != nil {
		return nil, err
	}
	call := &ProcessCall{
		ContractAddress: mailbox.String(),
		Entrypoint:      processEntrypoint,
		MessageID:       id,
		Calldata:        make([]string, len(felts)),
	}
	for i, f := range felts {
		call.Calldata[i] = f.String()
	}
	return call, nil
}

func (s *CalldataSubmitter) Process(ctx context.Context, metadata []byte, msg *protocol.Message) (protocol.Bytes32, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Bytes32{}, err
	}
	call, err := BuildProcessCall(s.reader.Mailbox(), metadata, msg)
	if err != nil {
		return protocol.Bytes32{}, err
	}
	line, err := json.Marshal(call)
	if err != nil {
		return protocol.Bytes32{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, string(line)); err != nil {
		return protocol.Bytes32{}, fmt.Errorf("failed to write process call: %w", err)
	}
	s.lggr.Infow("Prepared process call (dry run)", "messageId", call.MessageID.String(), "calldataLen", len(call.Calldata))
	return protocol.Bytes32{}, nil
}

func (s *CalldataSubmitter) Delivered(ctx context.Context, messageID protocol.Bytes32) (bool, error) {
	return s.reader.Delivered(ctx, messageID)
}
