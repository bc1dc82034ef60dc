package evm

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// EventsFromLogs converts receipt logs into chain-agnostic events, preserving log order.
// Topics become keys and the log data is split into 32-byte words, the last one right padded.
func EventsFromLogs(logs []*types.Log) []protocol.Event {
	events := make([]protocol.Event, 0, len(logs))
	for _, l := range logs {
		if l == nil {
			continue
		}
		keys := make([]protocol.Bytes32, len(l.Topics))
		for i, topic := range l.Topics {
			keys[i] = protocol.Bytes32(topic)
		}
		events = append(events, protocol.Event{
			Emitter: protocol.UnknownAddress(l.Address.Bytes()),
			Keys:    keys,
			Data:    splitWords(l.Data),
		})
	}
	return events
}

func splitWords(data []byte) []protocol.Bytes32 {
	words := make([]protocol.Bytes32, (len(data)+31)/32)
	for i := range words {
		copy(words[i][:], data[i*32:])
	}
	return words
}

func joinWords(words []protocol.Bytes32) []byte {
	out := make([]byte, 0, len(words)*32)
	for _, w := range words {
		out = append(out, w[:]...)
	}
	return out
}

// DispatchDecoder decodes Mailbox Dispatch logs. The indexed sender, destination and recipient
// come from the topics, the message from the ABI encoded data, and the two must agree.
type DispatchDecoder struct{}

var _ protocol.DispatchDecoder = DispatchDecoder{}

func (DispatchDecoder) DecodeDispatch(ev protocol.Event) (*protocol.DispatchEvent, error) {
	if len(ev.Keys) != 4 {
		return nil, fmt.Errorf("%w: Dispatch log has %d topics, want 4", protocol.ErrMalformedEventData, len(ev.Keys))
	}
	if ev.Keys[0] != DispatchTopic {
		return nil, fmt.Errorf("%w: topic0 %s is not Dispatch", protocol.ErrMalformedEventData, ev.Keys[0])
	}

	topics := protocol.NewFieldReader(ev.Keys[1:])
	sender, err := topics.Address("sender", protocol.EVMLayout.AddressWidth)
	if err != nil {
		return nil, err
	}
	destination, err := topics.Uint("destination", 32)
	if err != nil {
		return nil, err
	}
	recipient, err := topics.Word("recipient")
	if err != nil {
		return nil, err
	}

	values, err := mailboxABI.Unpack(dispatchEvent, joinWords(ev.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unpack Dispatch data: %w", protocol.ErrMalformedEventData, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%w: Dispatch data has %d values, want 1", protocol.ErrMalformedEventData, len(values))
	}
	raw, ok := values[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: Dispatch message is %T, want bytes", protocol.ErrMalformedEventData, values[0])
	}

	msg, err := protocol.DecodeLinear(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", protocol.ErrMalformedEventData, err)
	}

	wideSender, err := sender.Resize(protocol.AddressFieldSize)
	if err != nil {
		return nil, err
	}
	switch {
	case !bytes.Equal(msg.Sender, wideSender):
		return nil, fmt.Errorf("%w: message sender %s does not match topic %s", protocol.ErrMalformedEventData, msg.Sender, sender)
	case uint64(msg.Destination) != destination:
		return nil, fmt.Errorf("%w: message destination %d does not match topic %d", protocol.ErrMalformedEventData, msg.Destination, destination)
	case !bytes.Equal(msg.Recipient, recipient[:]):
		return nil, fmt.Errorf("%w: message recipient %s does not match topic %s", protocol.ErrMalformedEventData, msg.Recipient, recipient)
	}

	return &protocol.DispatchEvent{
		Sender:            sender,
		DestinationDomain: protocol.Domain(destination),
		RecipientAddress:  recipient.Address(),
		Message:           *msg,
	}, nil
}
