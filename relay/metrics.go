package relay

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/smartcontractkit/chainlink-common/pkg/beholder"
	"github.com/smartcontractkit/chainlink-common/pkg/metrics"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

const relayLatencyMetric = "relayer_message_relay_duration_seconds"

// MetricLabeler records relay metrics with a fixed set of labels.
type MetricLabeler interface {
	With(keyValues ...string) MetricLabeler
	RecordRelayLatency(ctx context.Context, duration time.Duration, origin, destination protocol.Domain)
	IncrementMessagesRelayed(ctx context.Context, origin, destination protocol.Domain)
	IncrementRelayFailures(ctx context.Context, stage Stage)
	IncrementAlreadyDelivered(ctx context.Context, destination protocol.Domain)
	IncrementDryRuns(ctx context.Context, origin, destination protocol.Domain)
}

// RelayMetrics holds the relayer instruments.
type RelayMetrics struct {
	relayLatency            metric.Float64Histogram
	messagesRelayedCounter  metric.Int64Counter
	relayFailuresCounter    metric.Int64Counter
	alreadyDeliveredCounter metric.Int64Counter
	dryRunsCounter          metric.Int64Counter
}

// InitMetrics registers the relayer instruments on meter.
func InitMetrics(meter metric.Meter) (*RelayMetrics, error) {
	rm := &RelayMetrics{}
	var err error

	rm.relayLatency, err = meter.Float64Histogram(
		relayLatencyMetric,
		metric.WithDescription("Time from fetching the origin receipt to the destination process receipt"),
		metric.WithUnit("seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register relay latency histogram: %w", err)
	}

	rm.messagesRelayedCounter, err = meter.Int64Counter(
		"relayer_messages_relayed_total",
		metric.WithDescription("Total number of messages processed on their destination"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register messages relayed counter: %w", err)
	}

	rm.relayFailuresCounter, err = meter.Int64Counter(
		"relayer_relay_failures_total",
		metric.WithDescription("Total number of relays that failed, by stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register relay failures counter: %w", err)
	}

	rm.alreadyDeliveredCounter, err = meter.Int64Counter(
		"relayer_already_delivered_total",
		metric.WithDescription("Total number of relays skipped because the destination already processed the message"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register already delivered counter: %w", err)
	}

	rm.dryRunsCounter, err = meter.Int64Counter(
		"relayer_dry_runs_total",
		metric.WithDescription("Total number of process calls prepared without being submitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register dry runs counter: %w", err)
	}

	return rm, nil
}

// MetricViews defines histogram bucket boundaries for relayer metrics.
func MetricViews() []sdkmetric.View {
	return []sdkmetric.View{
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: relayLatencyMetric},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			}},
		),
	}
}

var _ MetricLabeler = (*RelayMetricLabeler)(nil)

// RelayMetricLabeler wraps RelayMetrics with label support.
type RelayMetricLabeler struct {
	metrics.Labeler
	rm *RelayMetrics
}

func NewRelayMetricLabeler(labeler metrics.Labeler, rm *RelayMetrics) *RelayMetricLabeler {
	return &RelayMetricLabeler{Labeler: labeler, rm: rm}
}

func (l *RelayMetricLabeler) With(keyValues ...string) MetricLabeler {
	return &RelayMetricLabeler{l.Labeler.With(keyValues...), l.rm}
}

func (l *RelayMetricLabeler) RecordRelayLatency(ctx context.Context, duration time.Duration, origin, destination protocol.Domain) {
	otelLabels := beholder.OtelAttributes(l.Labels).AsStringAttributes()
	l.rm.relayLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(routeAttributes(origin, destination)...),
		metric.WithAttributes(otelLabels...))
}

func (l *RelayMetricLabeler) IncrementMessagesRelayed(ctx context.Context, origin, destination protocol.Domain) {
	otelLabels := beholder.OtelAttributes(l.Labels).AsStringAttributes()
	l.rm.messagesRelayedCounter.Add(ctx, 1, metric.WithAttributes(routeAttributes(origin, destination)...),
		metric.WithAttributes(otelLabels...))
}

func (l *RelayMetricLabeler) IncrementRelayFailures(ctx context.Context, stage Stage) {
	otelLabels := beholder.OtelAttributes(l.Labels).AsStringAttributes()
	l.rm.relayFailuresCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", string(stage))),
		metric.WithAttributes(otelLabels...))
}

func (l *RelayMetricLabeler) IncrementAlreadyDelivered(ctx context.Context, destination protocol.Domain) {
	otelLabels := beholder.OtelAttributes(l.Labels).AsStringAttributes()
	l.rm.alreadyDeliveredCounter.Add(ctx, 1, metric.WithAttributes(attribute.Int64("destination", int64(destination))),
		metric.WithAttributes(otelLabels...))
}

func (l *RelayMetricLabeler) IncrementDryRuns(ctx context.Context, origin, destination protocol.Domain) {
	otelLabels := beholder.OtelAttributes(l.Labels).AsStringAttributes()
	l.rm.dryRunsCounter.Add(ctx, 1, metric.WithAttributes(routeAttributes(origin, destination)...),
		metric.WithAttributes(otelLabels...))
}

func routeAttributes(origin, destination protocol.Domain) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("origin", int64(origin)),
		attribute.Int64("destination", int64(destination)),
	}
}

// InitMonitoring creates the beholder client, installs it as the global otel provider and
// returns a labeler over its meter.
func InitMonitoring(config beholder.Config) (MetricLabeler, error) {
	// histogram buckets must be known when the client is created
	config.MetricViews = MetricViews()

	client, err := beholder.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create beholder client: %w", err)
	}
	beholder.SetClient(client)
	beholder.SetGlobalOtelProviders()

	rm, err := InitMetrics(beholder.GetMeter())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize relayer metrics: %w", err)
	}
	return NewRelayMetricLabeler(metrics.NewLabeler(), rm), nil
}

var _ MetricLabeler = NoopMetricLabeler{}

// NoopMetricLabeler discards all metrics.
type NoopMetricLabeler struct{}

func (n NoopMetricLabeler) With(...string) MetricLabeler { return n }

func (NoopMetricLabeler) RecordRelayLatency(context.Context, time.Duration, protocol.Domain, protocol.Domain) {
}

func (NoopMetricLabeler) IncrementMessagesRelayed(context.Context, protocol.Domain, protocol.Domain) {}

func (NoopMetricLabeler) IncrementRelayFailures(context.Context, Stage) {}

func (NoopMetricLabeler) IncrementAlreadyDelivered(context.Context, protocol.Domain) {}

func (NoopMetricLabeler) IncrementDryRuns(context.Context, protocol.Domain, protocol.Domain) {}
