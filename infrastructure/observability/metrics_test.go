package observability

import (
	"context"
	"testing"

	"reiatsu/config"
	"reiatsu/events"
	"reiatsu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.start(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				total += point.Value
			}
		}
	}
	return total
}

func TestMetricsProvider_Disabled(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OtelEnabled = false
	mp := NewMetricsProvider(cfg)

	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	// no-ops without instruments
	mp.RecordCommand(context.Background(), "reiatsu")
	mp.RecordNATSMessagePublished("points_changed")
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OtelEnabled = true
	cfg.OtelExporter = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.ErrorContains(t, err, "unknown exporter type")
}

func TestMetricsProvider_RecordCommand(t *testing.T) {
	mp, reader := newTestProvider(t)

	mp.RecordCommand(context.Background(), "reiatsu")
	mp.RecordCommand(context.Background(), "steal")

	assert.Equal(t, int64(2), counterTotal(t, reader, CommandsTotal))
}

func TestMetricsProvider_Observe(t *testing.T) {
	mp, reader := newTestProvider(t)
	bus := events.NewBus()
	mp.Observe(bus)

	ctx := context.Background()
	bus.Emit(ctx, events.PointsChangedEvent{GuildID: 1, DiscordID: 2, TransactionType: models.TransactionTypeSpawnAbsorb})
	bus.Emit(ctx, events.SpawnClaimedEvent{GuildID: 1, DiscordID: 2, Kind: models.SpawnKindNormal})
	bus.Emit(ctx, events.CombatFinishedEvent{GuildID: 1, DiscordID: 2, Outcome: "win"})
	bus.Emit(ctx, events.CombatFinishedEvent{GuildID: 1, DiscordID: 2, Outcome: "loss"})
	bus.Wait()

	assert.Equal(t, int64(1), counterTotal(t, reader, PointsTransactionsTotal))
	assert.Equal(t, int64(1), counterTotal(t, reader, SpawnsClaimedTotal))
	assert.Equal(t, int64(2), counterTotal(t, reader, CombatsTotal))
	assert.Equal(t, int64(0), counterTotal(t, reader, QuestsCompletedTotal))
}
