package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	events []*Envelope
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.EventType)
	}
	return out
}

func TestMemoryBus_DeliversInOrder(t *testing.T) {
	bus := NewMemoryBus(16)
	var all, deaths collector

	_, err := bus.Subscribe(context.Background(), Filter{}, all.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{TypePlayerDied}}, deaths.handle)
	require.NoError(t, err)

	for _, typ := range []string{TypeLevelStarted, TypePlayerDied, TypeLevelFinished} {
		ev, err := NewGameEnvelope("test", typ, GameEvent{SessionID: "s1", Level: 1})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}
	require.NoError(t, bus.Close())

	assert.Equal(t, []string{TypeLevelStarted, TypePlayerDied, TypeLevelFinished}, all.types())
	assert.Equal(t, []string{TypePlayerDied}, deaths.types())

	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(4), stats.Consumed)
}

func TestMemoryBus_ClosedRejects(t *testing.T) {
	bus := NewMemoryBus(1)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close(), "повторное закрытие безопасно")

	err := bus.Publish(context.Background(), &Envelope{EventType: TypeGameOver})
	assert.ErrorIs(t, err, ErrBusClosed)

	_, err = bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()
	var c collector

	sub, err := bus.Subscribe(context.Background(), Filter{}, c.handle)
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: TypeGameWon}))
	require.NoError(t, bus.Close())
	assert.Empty(t, c.types())
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "a"}))
	<-started // диспетчер занят первым событием
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "b"}))
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "c", Priority: 1}))

	assert.Equal(t, uint64(1), bus.Metrics().Dropped)

	close(block)
	require.NoError(t, bus.Close())
}

func TestGameEnvelope(t *testing.T) {
	ev, err := NewGameEnvelope("robomaze", TypeGameOver, GameEvent{SessionID: "abc", Player: "p", Level: 2, Score: 4200})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "abc", ev.CorrelationID)
	assert.Equal(t, 7, ev.Priority)

	ge, err := DecodeGameEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, 4200, ge.Score)

	_, err = DecodeGameEvent(&Envelope{EventType: "x", Payload: []byte("{")})
	assert.Error(t, err)
}

func TestMetricsExporter_Collect(t *testing.T) {
	bus := NewMemoryBus(8)
	reg := prometheus.NewRegistry()
	me := NewMetricsExporter(bus, reg, time.Hour)

	require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: "a"}))
	require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: "b"}))
	require.NoError(t, bus.Close())

	me.Collect()
	me.Collect()

	assert.Equal(t, 2.0, testutil.ToFloat64(me.published), "приращения не удваиваются")
	assert.Equal(t, 0.0, testutil.ToFloat64(me.inflight))
}
