package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	gm := NewGameMetrics(reg)

	gm.ObserveTick(time.Millisecond, 12)
	gm.ObserveTick(2*time.Millisecond, 10)
	gm.LevelOutcome("died")
	gm.LevelOutcome("finished")
	gm.LevelOutcome("finished")
	gm.SetProgress(3100, 4, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(gm.ticks))
	assert.Equal(t, 10.0, testutil.ToFloat64(gm.liveEntities))
	assert.Equal(t, 2.0, testutil.ToFloat64(gm.levelOutcomes.WithLabelValues("finished")))
	assert.Equal(t, 3100.0, testutil.ToFloat64(gm.score))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}

func TestGameMetrics_NilRegistry(t *testing.T) {
	gm := NewGameMetrics(nil)
	gm.ObserveTick(time.Microsecond, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(gm.ticks))
}

func TestTracer_NoopWithoutInit(t *testing.T) {
	_, span := Tracer().Start(context.Background(), "tick")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}
