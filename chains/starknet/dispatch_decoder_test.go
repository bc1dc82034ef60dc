package starknet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

var testMailbox = protocol.UnknownAddress{0x04, 0x2a}

func TestDispatchSelector(t *testing.T) {
	// starknet_keccak is keccak256 truncated to 250 bits
	want := protocol.Keccak256([]byte("Dispatch"))
	want[0] &= 0x03
	require.Equal(t, want, DispatchSelector)
}

func TestDispatchDecoder_RoundTrip(t *testing.T) {
	msg := helloWorld(t)
	ev, err := EncodeDispatchEvent(testMailbox, msg)
	require.NoError(t, err)
	require.Len(t, ev.Data, 4+11)

	dispatch, err := protocol.DecodeDispatchEvent([]protocol.Event{ev}, DispatchSelector, DispatchDecoder{})
	require.NoError(t, err)
	require.Equal(t, protocol.Domain(31337), dispatch.DestinationDomain)
	require.Len(t, dispatch.Sender, 32)
	require.Equal(t, msg.Sender.Bytes(), dispatch.Sender.Bytes()[1:])
	require.Equal(t, msg.Recipient, dispatch.RecipientAddress)
	require.Equal(t, msg.MustID(), dispatch.Message.MustID())

	body, err := dispatch.Message.LinearBody()
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), body)
}

func TestDispatchDecoder_FirstMatch(t *testing.T) {
	first := helloWorld(t)
	second := helloWorld(t)
	second.Nonce = 1

	ev1, err := EncodeDispatchEvent(testMailbox, first)
	require.NoError(t, err)
	ev2, err := EncodeDispatchEvent(testMailbox, second)
	require.NoError(t, err)
	transfer := protocol.Event{Keys: []protocol.Bytes32{{31: 0x99}}, Data: []protocol.Bytes32{{}}}

	dispatch, err := protocol.DecodeDispatchEvent([]protocol.Event{transfer, ev1, ev2}, DispatchSelector, DispatchDecoder{})
	require.NoError(t, err)
	require.Equal(t, uint32(0), dispatch.Message.Nonce)

	_, err = protocol.DecodeDispatchEvent([]protocol.Event{transfer}, DispatchSelector, DispatchDecoder{})
	require.ErrorIs(t, err, protocol.ErrEventNotFound)
}

func TestDispatchDecoder_Malformed(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(ev *protocol.Event)
	}{
		{name: "no data", mutate: func(ev *protocol.Event) { ev.Data = nil }},
		{name: "sender outside field", mutate: func(ev *protocol.Event) {
			ev.Data[0] = protocol.Bytes32(bytes.Repeat([]byte{0xff}, 32))
		}},
		{name: "destination over u32", mutate: func(ev *protocol.Event) { ev.Data[1][0] = 1 }},
		{name: "recipient high over u128", mutate: func(ev *protocol.Event) { ev.Data[3][0] = 1 }},
		{name: "destination mismatch", mutate: func(ev *protocol.Event) { ev.Data[1][31]++ }},
		{name: "recipient mismatch", mutate: func(ev *protocol.Event) { ev.Data[2][31]++ }},
		{name: "sender mismatch", mutate: func(ev *protocol.Event) { ev.Data[0][31]++ }},
		{name: "message truncated", mutate: func(ev *protocol.Event) { ev.Data = ev.Data[:8] }},
		{name: "trailing field", mutate: func(ev *protocol.Event) { ev.Data = append(ev.Data, protocol.Bytes32{}) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := EncodeDispatchEvent(testMailbox, helloWorld(t))
			require.NoError(t, err)
			tc.mutate(&ev)

			_, err = protocol.DecodeDispatchEvent([]protocol.Event{ev}, DispatchSelector, DispatchDecoder{})
			require.ErrorIs(t, err, protocol.ErrMalformedEventData)
		})
	}
}

func TestEncodeDispatchEvent_RejectsNonFeltSender(t *testing.T) {
	msg := helloWorld(t)
	msg.Sender = protocol.UnknownAddress(bytes.Repeat([]byte{0xff}, 32))
	_, err := EncodeDispatchEvent(testMailbox, msg)
	require.ErrorIs(t, err, ErrInvalidFelt)
}
