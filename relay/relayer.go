package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// DefaultConcurrency bounds RelayAll when no limit is configured.
const DefaultConcurrency = 4

var (
	ErrUnknownDestination = errors.New("no route to destination domain")
	ErrOriginMismatch     = errors.New("message origin does not match source domain")
)

// Stage names the step of a relay that failed.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageDecode    Stage = "decode"
	StageRoute     Stage = "route"
	StageDelivered Stage = "delivered"
	StageTranslate Stage = "translate"
	StageMetadata  Stage = "metadata"
	StageProcess   Stage = "process"
)

// Error is a relay failure. The cause is kept so errors.Is sees codec and chain sentinels.
type Error struct {
	Stage  Stage
	TxHash protocol.Bytes32
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("relay %s: %s: %v", e.TxHash, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Source is the chain messages are dispatched on.
type Source struct {
	Domain   protocol.Domain
	Layout   protocol.ChainLayout
	Events   protocol.EventFetcher
	Selector protocol.Bytes32
	Decoder  protocol.DispatchDecoder
	// Metadata builds the ISM metadata attesting to messages from this source.
	Metadata protocol.MetadataBuilder
}

// Destination is a chain messages can be delivered to.
type Destination struct {
	Domain    protocol.Domain
	Layout    protocol.ChainLayout
	Submitter protocol.Submitter
	// DryRun marks a submitter that only prepares the process call. Its messages are reported as
	// prepared and never counted as relayed.
	DryRun bool
}

// Result describes one relayed message.
type Result struct {
	OriginTxHash      protocol.Bytes32 `json:"origin_tx_hash"`
	MessageID         protocol.Bytes32 `json:"message_id"`
	Nonce             uint32           `json:"nonce"`
	Origin            protocol.Domain  `json:"origin"`
	Destination       protocol.Domain  `json:"destination"`
	DestinationTxHash protocol.Bytes32 `json:"destination_tx_hash,omitempty"`
	AlreadyDelivered  bool             `json:"already_delivered"`
	DryRun            bool             `json:"dry_run,omitempty"`
}

// Relayer moves dispatched messages from one source chain to their destinations.
type Relayer struct {
	lggr         logger.Logger
	codec        *protocol.Codec
	source       Source
	destinations map[protocol.Domain]Destination
	metrics      MetricLabeler
	concurrency  int
}

type Option func(*Relayer)

func WithMetrics(m MetricLabeler) Option {
	return func(r *Relayer) {
		r.metrics = m
	}
}

// WithConcurrency bounds the relays RelayAll runs at once.
func WithConcurrency(n int) Option {
	return func(r *Relayer) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New creates a Relayer for source delivering to destinations.
func New(lggr logger.Logger, codec *protocol.Codec, source Source, destinations []Destination, opts ...Option) (*Relayer, error) {
	switch {
	case source.Events == nil:
		return nil, errors.New("source event fetcher is required")
	case source.Decoder == nil:
		return nil, errors.New("source dispatch decoder is required")
	case source.Metadata == nil:
		return nil, errors.New("source metadata builder is required")
	case codec == nil:
		return nil, errors.New("codec is required")
	}

	r := &Relayer{
		lggr:         logger.Named(lggr, "Relayer"),
		codec:        codec,
		source:       source,
		destinations: make(map[protocol.Domain]Destination, len(destinations)),
		metrics:      NoopMetricLabeler{},
		concurrency:  DefaultConcurrency,
	}
	for _, d := range destinations {
		if d.Submitter == nil {
			return nil, fmt.Errorf("destination %d has no submitter", d.Domain)
		}
		if _, ok := r.destinations[d.Domain]; ok {
			return nil, fmt.Errorf("duplicate destination %d", d.Domain)
		}
		r.destinations[d.Domain] = d
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Relayer) fail(ctx context.Context, stage Stage, txHash protocol.Bytes32, err error) error {
	r.metrics.IncrementRelayFailures(ctx, stage)
	r.lggr.Errorw("❌ Relay failed", "txHash", txHash.String(), "stage", stage, "error", err)
	return &Error{Stage: stage, TxHash: txHash, Err: err}
}

// Relay delivers the message dispatched by the origin transaction txHash. The first Dispatch
// event in the receipt is used. Messages the destination already processed are not resubmitted.
func (r *Relayer) Relay(ctx context.Context, txHash protocol.Bytes32) (*Result, error) {
	start := time.Now()

	events, err := r.source.Events.EventsByTxHash(ctx, txHash)
	if err != nil {
		return nil, r.fail(ctx, StageFetch, txHash, err)
	}

	dispatch, err := protocol.DecodeDispatchEvent(events, r.source.Selector, r.source.Decoder)
	if err != nil {
		return nil, r.fail(ctx, StageDecode, txHash, err)
	}
	msg := &dispatch.Message
	if msg.Origin != r.source.Domain {
		return nil, r.fail(ctx, StageDecode, txHash, fmt.Errorf("%w: %d != %d", ErrOriginMismatch, msg.Origin, r.source.Domain))
	}

	dest, ok := r.destinations[msg.Destination]
	if !ok {
		return nil, r.fail(ctx, StageRoute, txHash, fmt.Errorf("%w: %d", ErrUnknownDestination, msg.Destination))
	}

	id, err := msg.ID()
	if err != nil {
		return nil, r.fail(ctx, StageDecode, txHash, err)
	}
	result := &Result{
		OriginTxHash: txHash,
		MessageID:    id,
		Nonce:        msg.Nonce,
		Origin:       msg.Origin,
		Destination:  msg.Destination,
	}
	lggr := logger.With(r.lggr, "messageId", id.String(), "nonce", msg.Nonce, "origin", msg.Origin, "destination", msg.Destination)
	lggr.Infow("🎉 Found Dispatch event", "txHash", txHash.String(), "bodySize", msg.BodySize())

	delivered, err := dest.Submitter.Delivered(ctx, id)
	if err != nil {
		return nil, r.fail(ctx, StageDelivered, txHash, err)
	}
	if delivered {
		lggr.Infow("Message already delivered, skipping")
		r.metrics.IncrementAlreadyDelivered(ctx, dest.Domain)
		result.AlreadyDelivered = true
		return result, nil
	}

	translated, err := r.codec.TranslateMessage(msg, r.source.Layout, dest.Layout)
	if err != nil {
		return nil, r.fail(ctx, StageTranslate, txHash, err)
	}

	metadata, err := r.source.Metadata.BuildMetadata(ctx, msg)
	if err != nil {
		return nil, r.fail(ctx, StageMetadata, txHash, err)
	}

	destTx, err := dest.Submitter.Process(ctx, metadata, translated)
	if err != nil {
		return nil, r.fail(ctx, StageProcess, txHash, err)
	}
	if dest.DryRun {
		result.DryRun = true
		r.metrics.IncrementDryRuns(ctx, msg.Origin, msg.Destination)
		lggr.Infow("📝 Process call prepared (dry run), message not submitted")
		return result, nil
	}
	result.DestinationTxHash = destTx

	elapsed := time.Since(start)
	r.metrics.IncrementMessagesRelayed(ctx, msg.Origin, msg.Destination)
	r.metrics.RecordRelayLatency(ctx, elapsed, msg.Origin, msg.Destination)
	lggr.Infow("✅ Message relayed", "destinationTxHash", destTx.String(), "duration", elapsed)
	return result, nil
}

// RelayAll relays every transaction with at most the configured number of relays in flight.
// Results are index aligned with txHashes; failed relays leave a nil entry and contribute to the
// joined error.
func (r *Relayer) RelayAll(ctx context.Context, txHashes []protocol.Bytes32) ([]*Result, error) {
	results := make([]*Result, len(txHashes))
	errs := make([]error, len(txHashes))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, txHash := range txHashes {
		g.Go(func() error {
			results[i], errs[i] = r.Relay(ctx, txHash)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}
