// Package game ведёт игровую сессию: переключает уровни, считает жизни,
// публикует события и сохраняет итог в таблицу рекордов.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/robomaze/internal/eventbus"
	"github.com/annel0/robomaze/internal/host"
	"github.com/annel0/robomaze/internal/logging"
	"github.com/annel0/robomaze/internal/observability"
	"github.com/annel0/robomaze/internal/storage"
	"github.com/annel0/robomaze/internal/util"
	"github.com/annel0/robomaze/internal/world"
	"github.com/annel0/robomaze/internal/world/level"
)

// Имя источника событий сессии
const eventSource = "robomaze"

// ErrNotStarted возвращается при шаге сессии до Start
var ErrNotStarted = errors.New("game: session not started")

// State - фаза сессии
type State int

const (
	StateIdle State = iota
	StateRunning
	StateGameOver
	StateGameWon
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game_over"
	case StateGameWon:
		return "game_won"
	}
	return "unknown"
}

// Finished сообщает, закончилась ли игра
func (s State) Finished() bool {
	return s == StateGameOver || s == StateGameWon
}

// Options задаёт параметры и зависимости сессии.
// Необязательные зависимости (Bus, Leaderboard, Metrics) можно не указывать.
type Options struct {
	Player     string
	StartLevel int
	Lives      int
	MaxTicks   int // 0 - без ограничения
	Seed       int64

	Loader      level.Loader
	Host        host.Host
	Bus         eventbus.EventBus
	Leaderboard storage.Leaderboard
	Metrics     *observability.GameMetrics
	Logger      *logging.Logger
}

// Info - сводка сессии для REST API
type Info struct {
	ID     string `json:"id"`
	Player string `json:"player"`
	State  string `json:"state"`
	Level  int    `json:"level"`
	Score  int    `json:"score"`
	Lives  int    `json:"lives"`
	Ticks  int    `json:"ticks"`
}

// Session - одна игра от первого уровня до победы или потери всех жизней.
// Step и Run вызываются из одной горутины; Snapshot, Info и Watch безопасны
// для вызова из любых горутин.
type Session struct {
	id     string
	opts   Options
	logger *logging.Logger
	tracer trace.Tracer
	rng    util.Rand

	ledger *world.Scoreboard
	world  *world.World
	level  int
	ticks  int

	levelSpan trace.Span
	levelCtx  context.Context

	mu       sync.RWMutex
	state    State
	snapshot world.Snapshot
	watchers map[int]chan world.Snapshot
	nextWID  int
	result   *storage.Result
}

// NewSession создаёт сессию. Уровень загружается в Start.
func NewSession(opts Options) *Session {
	if opts.Lives <= 0 {
		opts.Lives = 3
	}
	if opts.Player == "" {
		opts.Player = "player"
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewGameMetrics(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGameLogger()
	}

	return &Session{
		id:       uuid.NewString(),
		opts:     opts,
		logger:   opts.Logger,
		tracer:   observability.Tracer(),
		rng:      util.NewRand(opts.Seed),
		ledger:   world.NewScoreboard(opts.Lives),
		level:    opts.StartLevel,
		watchers: make(map[int]chan world.Snapshot),
	}
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// State возвращает текущую фазу
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot возвращает последний снимок уровня
func (s *Session) Snapshot() world.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Result возвращает итог сессии после окончания игры
func (s *Session) Result() (storage.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return storage.Result{}, false
	}
	return *s.result, true
}

// Info возвращает сводку сессии
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		ID:     s.id,
		Player: s.opts.Player,
		State:  s.state.String(),
		Level:  s.snapshot.Level,
		Score:  s.snapshot.Score,
		Lives:  s.snapshot.Lives,
		Ticks:  s.snapshot.Tick,
	}
}

// Watch подписывает на снимки после каждого тика.
// Медленный читатель пропускает снимки. Возвращает функцию отписки.
func (s *Session) Watch(buffer int) (<-chan world.Snapshot, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan world.Snapshot, buffer)

	s.mu.Lock()
	id := s.nextWID
	s.nextWID++
	s.watchers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Start публикует SessionStarted и загружает первый уровень
func (s *Session) Start(ctx context.Context) State {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.state = StateRunning
	s.mu.Unlock()

	s.logger.Info("🎮 Сессия %s началась: игрок %s, уровень %d, жизней %d", s.id, s.opts.Player, s.level, s.opts.Lives)
	s.publish(ctx, eventbus.TypeSessionStarted)
	s.startLevel(ctx)
	return s.State()
}

// Step выполняет один тик и обрабатывает его исход
func (s *Session) Step(ctx context.Context) (State, error) {
	state := s.State()
	if state == StateIdle {
		return state, ErrNotStarted
	}
	if state.Finished() {
		return state, nil
	}

	_, span := s.tracer.Start(s.levelCtx, "tick",
		trace.WithAttributes(attribute.Int("tick", s.world.Ticks()+1)))
	start := time.Now()
	status := s.world.Move()
	s.opts.Metrics.ObserveTick(time.Since(start), s.world.Arena().Len())
	span.SetAttributes(attribute.String("status", status.String()))
	span.End()

	s.ticks++
	s.publishSnapshot()

	switch status {
	case world.StatusPlayerDied:
		s.opts.Metrics.LevelOutcome("died")
		s.publish(ctx, eventbus.TypePlayerDied)
		s.endLevel("died")
		if s.ledger.Lives() > 0 {
			s.logger.Info("💀 Игрок погиб, повтор уровня %d (жизней: %d)", s.level, s.ledger.Lives())
			s.startLevel(ctx)
		} else {
			s.finish(ctx, false)
		}
	case world.StatusFinishedLevel:
		s.opts.Metrics.LevelOutcome("finished")
		s.publish(ctx, eventbus.TypeLevelFinished)
		s.endLevel("finished")
		s.level++
		s.startLevel(ctx)
	case world.StatusPlayerWon:
		s.endLevel("won")
		s.finish(ctx, true)
	}

	if s.opts.MaxTicks > 0 && s.ticks >= s.opts.MaxTicks && !s.State().Finished() {
		s.logger.Warn("⏱️ Достигнут предел тиков %d, игра остановлена", s.opts.MaxTicks)
		s.endLevel("stopped")
		s.finish(ctx, false)
	}

	return s.State(), nil
}

// Run запускает сессию и выполняет тики с заданным интервалом,
// пока игра не закончится или не отменён контекст.
func (s *Session) Run(ctx context.Context, interval time.Duration) (State, error) {
	if s.Start(ctx).Finished() {
		return s.State(), nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("🛑 Сессия %s прервана", s.id)
			return s.State(), ctx.Err()
		case <-ticker.C:
			state, err := s.Step(ctx)
			if err != nil {
				return state, err
			}
			if state.Finished() {
				return state, nil
			}
		}
	}
}

// startLevel создаёт мир для текущего уровня. Отсутствие уровня означает победу.
func (s *Session) startLevel(ctx context.Context) {
	s.levelCtx, s.levelSpan = s.tracer.Start(context.Background(), "level",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int("level", s.level),
		))

	s.world = world.New(world.Options{
		Level:  s.level,
		Loader: s.opts.Loader,
		Host:   s.opts.Host,
		Rand:   s.rng,
		Ledger: s.ledger,
		Logger: s.logger,
	})

	if s.world.Init() == world.StatusPlayerWon {
		s.opts.Metrics.LevelOutcome("won")
		s.endLevel("won")
		s.finish(ctx, true)
		return
	}

	s.opts.Metrics.SetProgress(s.ledger.Score(), s.level, s.ledger.Lives())
	s.publishSnapshot()
	s.publish(ctx, eventbus.TypeLevelStarted)
}

func (s *Session) endLevel(outcome string) {
	if s.levelSpan == nil {
		return
	}
	s.levelSpan.SetAttributes(
		attribute.String("outcome", outcome),
		attribute.Int("ticks", s.world.Ticks()),
	)
	s.levelSpan.End()
	s.levelSpan = nil
}

// finish фиксирует итог, публикует GameOver/GameWon и сохраняет результат
func (s *Session) finish(ctx context.Context, won bool) {
	result := storage.Result{
		SessionID:  s.id,
		Player:     s.opts.Player,
		Score:      s.ledger.Score(),
		Level:      s.level,
		Won:        won,
		Ticks:      s.ticks,
		FinishedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	if won {
		s.state = StateGameWon
	} else {
		s.state = StateGameOver
	}
	s.result = &result
	s.mu.Unlock()

	s.opts.Metrics.SetProgress(result.Score, s.level, s.ledger.Lives())

	if won {
		s.logger.Info("🏆 Сессия %s: победа, счёт %d", s.id, result.Score)
		s.publish(ctx, eventbus.TypeGameWon)
	} else {
		s.logger.Info("☠️ Сессия %s: игра окончена на уровне %d, счёт %d", s.id, s.level, result.Score)
		s.publish(ctx, eventbus.TypeGameOver)
	}

	if s.opts.Leaderboard != nil {
		if err := s.opts.Leaderboard.Save(ctx, result); err != nil {
			s.logger.Error("❌ Не удалось сохранить результат %s: %v", s.id, err)
		}
	}
}

// publishSnapshot обновляет снимок и раздаёт его подписчикам
func (s *Session) publishSnapshot() {
	snap := s.world.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	for _, ch := range s.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) publish(ctx context.Context, eventType string) {
	if s.opts.Bus == nil {
		return
	}

	ev := eventbus.GameEvent{
		SessionID: s.id,
		Player:    s.opts.Player,
		Level:     s.level,
		Score:     s.ledger.Score(),
		Lives:     s.ledger.Lives(),
	}
	if s.world != nil {
		ev.Ticks = s.world.Ticks()
		ev.Bonus = s.world.Bonus()
	}

	env, err := eventbus.NewGameEnvelope(eventSource, eventType, ev)
	if err != nil {
		s.logger.Error("❌ %v", err)
		return
	}
	if err := s.opts.Bus.Publish(ctx, env); err != nil {
		s.logger.Warn("⚠️ Событие %s не опубликовано: %v", eventType, err)
	}
}
