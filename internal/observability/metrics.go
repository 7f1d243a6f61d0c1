package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GameMetrics - prometheus-метрики симуляции.
//
// Метрики:
// * robomaze_ticks_total - counter
// * robomaze_tick_duration_seconds - histogram
// * robomaze_live_entities - gauge
// * robomaze_level_outcomes_total{outcome} - counter
// * robomaze_score, robomaze_level, robomaze_lives - gauge
type GameMetrics struct {
	ticks         prometheus.Counter
	tickDuration  prometheus.Histogram
	liveEntities  prometheus.Gauge
	levelOutcomes *prometheus.CounterVec
	score         prometheus.Gauge
	level         prometheus.Gauge
	lives         prometheus.Gauge
}

// NewGameMetrics создаёт метрики и регистрирует их в reg.
// reg == nil - метрики не регистрируются (тесты).
func NewGameMetrics(reg prometheus.Registerer) *GameMetrics {
	const ns = "robomaze"
	gm := &GameMetrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "ticks_total",
			Help:      "Общее число выполненных тиков.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "tick_duration_seconds",
			Help:      "Длительность одного тика симуляции.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
		liveEntities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "live_entities",
			Help:      "Количество живых сущностей на уровне.",
		}),
		levelOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "level_outcomes_total",
			Help:      "Исходы уровней: died, finished, won.",
		}, []string{"outcome"}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "score",
			Help:      "Текущий счёт игрока.",
		}),
		level: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "level",
			Help:      "Номер текущего уровня.",
		}),
		lives: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "lives",
			Help:      "Оставшиеся жизни.",
		}),
	}

	if reg != nil {
		reg.MustRegister(gm.ticks, gm.tickDuration, gm.liveEntities, gm.levelOutcomes, gm.score, gm.level, gm.lives)
	}
	return gm
}

// ObserveTick учитывает выполненный тик
func (gm *GameMetrics) ObserveTick(d time.Duration, liveEntities int) {
	gm.ticks.Inc()
	gm.tickDuration.Observe(d.Seconds())
	gm.liveEntities.Set(float64(liveEntities))
}

// LevelOutcome увеличивает счётчик исхода уровня
func (gm *GameMetrics) LevelOutcome(outcome string) {
	gm.levelOutcomes.WithLabelValues(outcome).Inc()
}

// SetProgress обновляет счёт, уровень и жизни
func (gm *GameMetrics) SetProgress(score, level, lives int) {
	gm.score.Set(float64(score))
	gm.level.Set(float64(level))
	gm.lives.Set(float64(lives))
}
