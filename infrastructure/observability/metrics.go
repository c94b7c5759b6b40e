package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reiatsu/config"
	"reiatsu/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const serviceName = "reiatsu-bot"

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	commandsCounter      metric.Int64Counter
	transactionsCounter  metric.Int64Counter
	spawnsClaimedCounter metric.Int64Counter
	stealsCounter        metric.Int64Counter
	combatsCounter       metric.Int64Counter
	questsCounter        metric.Int64Counter
	natsPublishedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OtelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OtelExporter {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OtelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OtelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OtelExporter)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(mp.config.OtelExportInterval))
	if err := mp.start(reader); err != nil {
		return err
	}
	otel.SetMeterProvider(mp.meterProvider)

	log.Info("Metrics provider initialized successfully")
	return nil
}

// start builds the meter provider around reader. Callers hold mu.
func (mp *MetricsProvider) start(reader sdkmetric.Reader) error {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		attribute.String("environment", mp.config.Environment),
	)

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter(serviceName)

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.commandsCounter, CommandsTotal, "Total number of slash commands handled"},
		{&mp.transactionsCounter, PointsTransactionsTotal, "Total number of Reiatsu point changes"},
		{&mp.spawnsClaimedCounter, SpawnsClaimedTotal, "Total number of claimed spawns"},
		{&mp.stealsCounter, StealsTotal, "Total number of steal attempts"},
		{&mp.combatsCounter, CombatsTotal, "Total number of finished RPG fights"},
		{&mp.questsCounter, QuestsCompletedTotal, "Total number of completed quests"},
		{&mp.natsPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}
	return nil
}

// Shutdown flushes and stops the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// Observe records domain events from the bus
func (mp *MetricsProvider) Observe(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		mp.recordEvent(ctx, event)
	})
}

func (mp *MetricsProvider) recordEvent(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.PointsChangedEvent:
		mp.transactionsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelType, string(e.TransactionType)),
		))
	case events.SpawnClaimedEvent:
		mp.spawnsClaimedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelKind, string(e.Kind)),
		))
	case events.StealAttemptedEvent:
		mp.stealsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool(LabelSuccess, e.Success),
		))
	case events.CombatFinishedEvent:
		mp.combatsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelOutcome, e.Outcome),
		))
	case events.QuestCompletedEvent:
		mp.questsCounter.Add(ctx, 1)
	}
}

// RecordCommand records a handled slash command
func (mp *MetricsProvider) RecordCommand(ctx context.Context, name string) {
	if !mp.isEnabled() {
		return
	}

	mp.commandsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(LabelCommand, name),
	))
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(LabelEventType, eventType),
	))
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}
