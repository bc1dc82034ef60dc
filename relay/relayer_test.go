package relay

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/smartcontractkit/chainlink-common/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/astraly-labs/hyperlane-starknet/chains/evm"
	"github.com/astraly-labs/hyperlane-starknet/chains/starknet"
	"github.com/astraly-labs/hyperlane-starknet/internal/mocks"
	"github.com/astraly-labs/hyperlane-starknet/protocol"
	"github.com/astraly-labs/hyperlane-starknet/validator"
)

const (
	starknetDomain = protocol.Domain(23448594)
	evmDomain      = protocol.Domain(31337)
)

type processed struct {
	metadata []byte
	msg      *protocol.Message
}

func newTestMetrics(t *testing.T) (MetricLabeler, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithView(MetricViews()...))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rm, err := InitMetrics(provider.Meter("relayer-test"))
	require.NoError(t, err)
	return NewRelayMetricLabeler(metrics.NewLabeler(), rm).With("network", "test"), reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func starknetSourceMessage(t *testing.T, nonce uint32, body string) *protocol.Message {
	t.Helper()
	sender, err := protocol.NewUnknownAddressFromHex("0x0b3ff441a68610b30fd5e2abbf3a1548eb6ba6f3559f2862bf2dc757e5828ca")
	require.NoError(t, err)
	recipient, err := protocol.RandomEVMAddress()
	require.NoError(t, err)
	return protocol.NewMessage(nonce, starknetDomain, sender, evmDomain, recipient, []byte(body))
}

type starknetRig struct {
	relayer   *Relayer
	fetcher   *mocks.MockEventFetcher
	submitter *mocks.MockSubmitter
	set       *validator.Set
	reader    *sdkmetric.ManualReader

	mu        sync.Mutex
	processed []processed
}

func newStarknetRig(t *testing.T, opts ...Option) *starknetRig {
	t.Helper()
	set, err := validator.NewSet(starknetDomain, 3, 2)
	require.NoError(t, err)
	labeler, reader := newTestMetrics(t)

	rig := &starknetRig{
		fetcher:   mocks.NewMockEventFetcher(t),
		submitter: mocks.NewMockSubmitter(t),
		set:       set,
		reader:    reader,
	}
	rig.relayer, err = New(logger.Test(t), protocol.NewCodec(),
		Source{
			Domain:   starknetDomain,
			Layout:   starknet.Layout(),
			Events:   rig.fetcher,
			Selector: starknet.DispatchSelector,
			Decoder:  starknet.DispatchDecoder{},
			Metadata: validator.NewMetadataBuilder(logger.Test(t), set, protocol.Bytes32{31: 0x11}),
		},
		[]Destination{{Domain: evmDomain, Layout: protocol.EVMLayout, Submitter: rig.submitter}},
		append([]Option{WithMetrics(labeler)}, opts...)...)
	require.NoError(t, err)
	return rig
}

func (rig *starknetRig) dispatch(t *testing.T, txHash protocol.Bytes32, msgs ...*protocol.Message) {
	t.Helper()
	rig.fetcher.EXPECT().EventsByTxHash(mock.Anything, txHash).Return(dispatchEvents(t, msgs...), nil)
}

func dispatchEvents(t *testing.T, msgs ...*protocol.Message) []protocol.Event {
	t.Helper()
	var events []protocol.Event
	for _, msg := range msgs {
		ev, err := starknet.EncodeDispatchEvent(protocol.UnknownAddress{0x01}, msg)
		require.NoError(t, err)
		events = append(events, ev)
	}
	return events
}

func (rig *starknetRig) notDelivered() {
	rig.submitter.EXPECT().Delivered(mock.Anything, mock.Anything).Return(false, nil)
}

// expectProcess records every process call and answers with a hash derived from the message id.
func (rig *starknetRig) expectProcess() {
	rig.submitter.EXPECT().Process(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, metadata []byte, msg *protocol.Message) (protocol.Bytes32, error) {
			rig.mu.Lock()
			defer rig.mu.Unlock()
			rig.processed = append(rig.processed, processed{metadata: metadata, msg: msg})
			id := msg.MustID()
			return protocol.Keccak256(id[:]), nil
		})
}

func TestRelay_StarknetToEVM(t *testing.T) {
	rig := newStarknetRig(t)
	msg := starknetSourceMessage(t, 0, "hello world")
	txHash := protocol.Bytes32{31: 1}
	rig.dispatch(t, txHash, msg)
	rig.submitter.EXPECT().Delivered(mock.Anything, msg.MustID()).Return(false, nil).Once()
	rig.expectProcess()

	result, err := rig.relayer.Relay(t.Context(), txHash)
	require.NoError(t, err)
	assert.Equal(t, msg.MustID(), result.MessageID)
	assert.Equal(t, starknetDomain, result.Origin)
	assert.Equal(t, evmDomain, result.Destination)
	assert.False(t, result.AlreadyDelivered)
	assert.False(t, result.DestinationTxHash.IsEmpty())

	require.Len(t, rig.processed, 1)
	got := rig.processed[0]
	assert.Len(t, got.msg.Recipient, 20)
	assert.Len(t, got.msg.Sender, 32)
	assert.Equal(t, protocol.ByteSlice("hello world"), got.msg.Body)
	assert.Nil(t, got.msg.ChunkedBody)
	assert.Equal(t, msg.MustID(), got.msg.MustID())
	require.NoError(t, rig.set.Verify(msg.MustID(), got.metadata))

	assert.Equal(t, int64(1), counterValue(t, rig.reader, "relayer_messages_relayed_total"))
}

func TestRelay_AlreadyDelivered(t *testing.T) {
	rig := newStarknetRig(t)
	msg := starknetSourceMessage(t, 0, "again")
	txHash := protocol.Bytes32{31: 2}
	rig.dispatch(t, txHash, msg)
	rig.submitter.EXPECT().Delivered(mock.Anything, msg.MustID()).Return(false, nil).Once()
	rig.expectProcess()
	rig.submitter.EXPECT().Delivered(mock.Anything, msg.MustID()).Return(true, nil).Once()

	_, err := rig.relayer.Relay(t.Context(), txHash)
	require.NoError(t, err)
	result, err := rig.relayer.Relay(t.Context(), txHash)
	require.NoError(t, err)
	assert.True(t, result.AlreadyDelivered)
	rig.submitter.AssertNumberOfCalls(t, "Process", 1)
	assert.Equal(t, int64(1), counterValue(t, rig.reader, "relayer_already_delivered_total"))
}

func TestRelay_FirstDispatchWins(t *testing.T) {
	rig := newStarknetRig(t)
	first := starknetSourceMessage(t, 0, "first")
	second := starknetSourceMessage(t, 1, "second")
	txHash := protocol.Bytes32{31: 3}
	rig.dispatch(t, txHash, first, second)
	rig.submitter.EXPECT().Delivered(mock.Anything, first.MustID()).Return(false, nil).Once()
	rig.expectProcess()

	result, err := rig.relayer.Relay(t.Context(), txHash)
	require.NoError(t, err)
	assert.Equal(t, first.MustID(), result.MessageID)
	assert.Equal(t, uint32(0), result.Nonce)
}

func TestRelay_Failures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("no dispatch event", func(t *testing.T) {
		rig := newStarknetRig(t)
		rig.dispatch(t, protocol.Bytes32{31: 9})
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 9})
		require.ErrorIs(t, err, protocol.ErrEventNotFound)
		var relayErr *Error
		require.ErrorAs(t, err, &relayErr)
		assert.Equal(t, StageDecode, relayErr.Stage)
		assert.Equal(t, int64(1), counterValue(t, rig.reader, "relayer_relay_failures_total"))
	})

	t.Run("fetch error", func(t *testing.T) {
		rig := newStarknetRig(t)
		rig.fetcher.EXPECT().EventsByTxHash(mock.Anything, protocol.Bytes32{31: 9}).Return(nil, boom)
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 9})
		require.ErrorIs(t, err, boom)
		var relayErr *Error
		require.ErrorAs(t, err, &relayErr)
		assert.Equal(t, StageFetch, relayErr.Stage)
	})

	t.Run("unknown destination", func(t *testing.T) {
		rig := newStarknetRig(t)
		msg := starknetSourceMessage(t, 0, "x")
		msg.Destination = 7
		rig.dispatch(t, protocol.Bytes32{31: 4}, msg)
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 4})
		require.ErrorIs(t, err, ErrUnknownDestination)
	})

	t.Run("origin mismatch", func(t *testing.T) {
		rig := newStarknetRig(t)
		msg := starknetSourceMessage(t, 0, "x")
		msg.Origin = 7
		rig.dispatch(t, protocol.Bytes32{31: 5}, msg)
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 5})
		require.ErrorIs(t, err, ErrOriginMismatch)
	})

	t.Run("recipient too wide for EVM", func(t *testing.T) {
		rig := newStarknetRig(t)
		msg := starknetSourceMessage(t, 0, "x")
		msg.Recipient = protocol.UnknownAddress{0x01, 31: 0x02}
		rig.dispatch(t, protocol.Bytes32{31: 6}, msg)
		rig.notDelivered()
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 6})
		require.ErrorIs(t, err, protocol.ErrAddressWidthMismatch)
		var relayErr *Error
		require.ErrorAs(t, err, &relayErr)
		assert.Equal(t, StageTranslate, relayErr.Stage)
	})

	t.Run("process reverted", func(t *testing.T) {
		rig := newStarknetRig(t)
		rig.dispatch(t, protocol.Bytes32{31: 7}, starknetSourceMessage(t, 0, "x"))
		rig.notDelivered()
		rig.submitter.EXPECT().Process(mock.Anything, mock.Anything, mock.Anything).Return(protocol.Bytes32{}, protocol.ErrTransactionReverted)
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 7})
		require.ErrorIs(t, err, protocol.ErrTransactionReverted)
	})

	t.Run("payload too large", func(t *testing.T) {
		rig := newStarknetRig(t)
		rig.relayer.codec = protocol.NewCodec(protocol.WithMaxBodySize(4))
		rig.dispatch(t, protocol.Bytes32{31: 8}, starknetSourceMessage(t, 0, "too long"))
		rig.notDelivered()
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 8})
		require.ErrorIs(t, err, protocol.ErrPayloadTooLarge)
	})

	t.Run("delivered check fails", func(t *testing.T) {
		rig := newStarknetRig(t)
		rig.dispatch(t, protocol.Bytes32{31: 10}, starknetSourceMessage(t, 0, "x"))
		rig.submitter.EXPECT().Delivered(mock.Anything, mock.Anything).Return(false, boom)
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 10})
		require.ErrorIs(t, err, boom)
		var relayErr *Error
		require.ErrorAs(t, err, &relayErr)
		assert.Equal(t, StageDelivered, relayErr.Stage)
	})

	t.Run("metadata fails", func(t *testing.T) {
		rig := newStarknetRig(t)
		builder := mocks.NewMockMetadataBuilder(t)
		builder.EXPECT().BuildMetadata(mock.Anything, mock.Anything).Return(nil, boom).Once()
		rig.relayer.source.Metadata = builder
		rig.dispatch(t, protocol.Bytes32{31: 11}, starknetSourceMessage(t, 0, "x"))
		rig.notDelivered()
		_, err := rig.relayer.Relay(t.Context(), protocol.Bytes32{31: 11})
		require.ErrorIs(t, err, boom)
		var relayErr *Error
		require.ErrorAs(t, err, &relayErr)
		assert.Equal(t, StageMetadata, relayErr.Stage)
		rig.submitter.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRelayAll(t *testing.T) {
	rig := newStarknetRig(t, WithConcurrency(2))
	var hashes []protocol.Bytes32
	for i := 0; i < 5; i++ {
		txHash := protocol.Bytes32{30: 1, 31: byte(i)}
		rig.dispatch(t, txHash, starknetSourceMessage(t, uint32(i), "batch"))
		hashes = append(hashes, txHash)
	}
	hashes = append(hashes, protocol.Bytes32{30: 2}) // no events
	rig.dispatch(t, protocol.Bytes32{30: 2})
	rig.notDelivered()
	rig.expectProcess()

	results, err := rig.relayer.RelayAll(t.Context(), hashes)
	require.ErrorIs(t, err, protocol.ErrEventNotFound)
	require.Len(t, results, 6)
	for i := 0; i < 5; i++ {
		require.NotNil(t, results[i])
		assert.Equal(t, uint32(i), results[i].Nonce)
	}
	assert.Nil(t, results[5])
	assert.Len(t, rig.processed, 5)
	assert.Equal(t, int64(5), counterValue(t, rig.reader, "relayer_messages_relayed_total"))
}

// evmDispatchEvents encodes msg as the Dispatch log an EVM mailbox emits.
func evmDispatchEvents(t *testing.T, msg *protocol.Message) []protocol.Event {
	t.Helper()
	mailboxABI, err := abi.JSON(strings.NewReader(evm.MailboxABI))
	require.NoError(t, err)
	encoded, err := protocol.EncodeLinear(msg)
	require.NoError(t, err)
	data, err := mailboxABI.Events["Dispatch"].Inputs.NonIndexed().Pack(encoded)
	require.NoError(t, err)

	log := &types.Log{
		Topics: []common.Hash{
			common.Hash(evm.DispatchTopic),
			common.BytesToHash(msg.Sender),
			common.BigToHash(big.NewInt(int64(msg.Destination))),
			common.BytesToHash(msg.Recipient),
		},
		Data: data,
	}
	return evm.EventsFromLogs([]*types.Log{log})
}

func TestRelay_EVMToStarknet(t *testing.T) {
	sender, err := protocol.RandomAddress(20)
	require.NoError(t, err)
	recipient := protocol.UnknownAddress{31: 0x42}
	msg := protocol.NewMessage(4, evmDomain, sender, starknetDomain, recipient, []byte("hello starknet"))
	txHash := protocol.Bytes32{31: 0x10}
	fetcher := mocks.NewMockEventFetcher(t)
	fetcher.EXPECT().EventsByTxHash(mock.Anything, txHash).Return(evmDispatchEvents(t, msg), nil).Once()

	set, err := validator.NewSet(evmDomain, 1, 1)
	require.NoError(t, err)
	submitter := mocks.NewMockSubmitter(t)
	submitter.EXPECT().Delivered(mock.Anything, msg.MustID()).Return(false, nil).Once()
	var got processed
	submitter.EXPECT().Process(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, metadata []byte, m *protocol.Message) {
			got = processed{metadata: metadata, msg: m}
		}).
		Return(protocol.Bytes32{31: 0xaa}, nil).Once()
	relayer, err := New(logger.Test(t), protocol.NewCodec(),
		Source{
			Domain:   evmDomain,
			Layout:   protocol.EVMLayout,
			Events:   fetcher,
			Selector: evm.DispatchTopic,
			Decoder:  evm.DispatchDecoder{},
			Metadata: validator.NewMetadataBuilder(logger.Test(t), set, protocol.Bytes32{}),
		},
		[]Destination{{Domain: starknetDomain, Layout: starknet.Layout(), Submitter: submitter}})
	require.NoError(t, err)

	result, err := relayer.Relay(t.Context(), txHash)
	require.NoError(t, err)
	assert.Equal(t, msg.MustID(), result.MessageID)
	assert.Equal(t, protocol.Bytes32{31: 0xaa}, result.DestinationTxHash)

	require.NotNil(t, got.msg)
	require.NotNil(t, got.msg.ChunkedBody)
	assert.Equal(t, uint32(len("hello starknet")), got.msg.ChunkedBody.Size)
	assert.Nil(t, got.msg.Body)
	assert.Len(t, got.msg.Recipient, 32)

	calldata, err := starknet.EncodeProcessCalldata(got.metadata, got.msg)
	require.NoError(t, err)
	assert.NotEmpty(t, calldata)
}

func TestRelay_DryRunIsNotCountedAsRelayed(t *testing.T) {
	labeler, reader := newTestMetrics(t)
	_, err := validator.NewSet(evmDomain, 1, 1)
	require.NoError(t, err)

	sender, err := protocol.RandomAddress(20)
	require.NoError(t, err)
	msg := protocol.NewMessage(0, evmDomain, sender, starknetDomain, protocol.UnknownAddress{31: 0x42}, []byte("dry"))
	txHash := protocol.Bytes32{31: 0x20}
	fetcher := mocks.NewMockEventFetcher(t)
	fetcher.EXPECT().EventsByTxHash(mock.Anything, txHash).Return(evmDispatchEvents(t, msg), nil).Times(2)

	builder := mocks.NewMockMetadataBuilder(t)
	builder.EXPECT().BuildMetadata(mock.Anything, mock.Anything).Return([]byte("metadata"), nil).Times(2)

	// a dry-run submitter never delivers, so every run prepares the call again
	submitter := mocks.NewMockSubmitter(t)
	submitter.EXPECT().Delivered(mock.Anything, msg.MustID()).Return(false, nil).Times(2)
	submitter.EXPECT().Process(mock.Anything, []byte("metadata"), mock.Anything).Return(protocol.Bytes32{}, nil).Times(2)

	relayer, err := New(logger.Test(t), protocol.NewCodec(),
		Source{
			Domain:   evmDomain,
			Layout:   protocol.EVMLayout,
			Events:   fetcher,
			Selector: evm.DispatchTopic,
			Decoder:  evm.DispatchDecoder{},
			Metadata: builder,
		},
		[]Destination{{Domain: starknetDomain, Layout: starknet.Layout(), Submitter: submitter, DryRun: true}},
		WithMetrics(labeler))
	require.NoError(t, err)

	for range 2 {
		result, err := relayer.Relay(t.Context(), txHash)
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.False(t, result.AlreadyDelivered)
		assert.True(t, result.DestinationTxHash.IsEmpty())
	}

	assert.Equal(t, int64(0), counterValue(t, reader, "relayer_messages_relayed_total"))
	assert.Equal(t, int64(2), counterValue(t, reader, "relayer_dry_runs_total"))
}

func TestNew_Validation(t *testing.T) {
	source := Source{
		Events:   mocks.NewMockEventFetcher(t),
		Decoder:  starknet.DispatchDecoder{},
		Metadata: validator.NewMetadataBuilder(logger.Test(t), nil, protocol.Bytes32{}),
	}

	_, err := New(logger.Test(t), protocol.NewCodec(), Source{}, nil)
	require.Error(t, err)

	_, err = New(logger.Test(t), protocol.NewCodec(), source, []Destination{{Domain: 1}})
	require.Error(t, err)

	sub := mocks.NewMockSubmitter(t)
	_, err = New(logger.Test(t), protocol.NewCodec(), source, []Destination{{Domain: 1, Submitter: sub}, {Domain: 1, Submitter: sub}})
	require.Error(t, err)

	_, err = New(logger.Test(t), nil, source, nil)
	require.Error(t, err)
}
