package starknet

import (
	"bytes"
	"fmt"

	"github.com/NethermindEth/starknet.go/utils"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// DispatchSelector is the event key of the Starknet mailbox Dispatch event, starknet_keccak("Dispatch").
var DispatchSelector = Bytes32FromFelt(utils.GetSelectorFromNameFelt("Dispatch"))

// DispatchDecoder decodes Starknet mailbox Dispatch events. The data fields are positional:
//
//	[sender, destination_domain, recipient.low, recipient.high, message...]
//
// with the message serialised as in EncodeMessageFelts.
type DispatchDecoder struct{}

var _ protocol.DispatchDecoder = DispatchDecoder{}

func (DispatchDecoder) DecodeDispatch(ev protocol.Event) (*protocol.DispatchEvent, error) {
	r := protocol.NewFieldReader(ev.Data)

	senderWord, err := r.Word("sender")
	if err != nil {
		return nil, err
	}
	if _, err := FeltFromBytes32(senderWord); err != nil {
		return nil, fmt.Errorf("%w: sender: %w", protocol.ErrMalformedEventData, err)
	}
	destination, err := r.Uint("destination_domain", domainBits)
	if err != nil {
		return nil, err
	}
	recipient, err := r.Uint256("recipient_address")
	if err != nil {
		return nil, err
	}
	msg, err := readMessage(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing fields after message", protocol.ErrMalformedEventData, r.Remaining())
	}

	switch {
	case !bytes.Equal(msg.Sender, senderWord[:]):
		return nil, fmt.Errorf("%w: message sender %s does not match event sender %s", protocol.ErrMalformedEventData, msg.Sender, senderWord)
	case uint64(msg.Destination) != destination:
		return nil, fmt.Errorf("%w: message destination %d does not match event destination %d", protocol.ErrMalformedEventData, msg.Destination, destination)
	case !bytes.Equal(msg.Recipient, recipient[:]):
		return nil, fmt.Errorf("%w: message recipient %s does not match event recipient %s", protocol.ErrMalformedEventData, msg.Recipient, recipient)
	}

	return &protocol.DispatchEvent{
		Sender:            senderWord.Address(),
		DestinationDomain: protocol.Domain(destination),
		RecipientAddress:  recipient.Address(),
		Message:           *msg,
	}, nil
}

// EncodeDispatchEvent builds the event a Starknet mailbox emits for msg. It is the inverse of
// DispatchDecoder and is used to exercise relays against recorded traffic.
func EncodeDispatchEvent(emitter protocol.UnknownAddress, msg *protocol.Message) (protocol.Event, error) {
	sender, err := msg.Sender.Bytes32()
	if err != nil {
		return protocol.Event{}, fmt.Errorf("sender: %w", err)
	}
	if _, err := FeltFromBytes32(sender); err != nil {
		return protocol.Event{}, fmt.Errorf("sender: %w", err)
	}
	recipient, err := msg.Recipient.Bytes32()
	if err != nil {
		return protocol.Event{}, fmt.Errorf("recipient: %w", err)
	}
	message, err := EncodeMessageFelts(msg)
	if err != nil {
		return protocol.Event{}, err
	}

	low, high := SplitU256(recipient)
	data := []protocol.Bytes32{
		sender,
		Bytes32FromFelt(utils.Uint64ToFelt(uint64(msg.Destination))),
		Bytes32FromFelt(low),
		Bytes32FromFelt(high),
	}
	data = append(data, FeltsToBytes32(message)...)

	return protocol.Event{
		Emitter: emitter,
		Keys:    []protocol.Bytes32{DispatchSelector},
		Data:    data,
	}, nil
}
