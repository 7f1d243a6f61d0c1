package entity

import (
	"fmt"
	"sync"

	"github.com/annel0/robomaze/internal/host"
)

// Traits - флаги свойств типа, используемые пространственными запросами мира
type Traits struct {
	AllowsAgentColocation bool // агент может стоять на той же клетке
	AllowsMarble          bool // мрамор может въехать на клетку
	CountsInFactoryCensus bool // учитывается при переписи фабрики
	StopsPea              bool // горошина погибает, не нанося урона
	Damageable            bool // горошина наносит урон
	Swallowable           bool // проваливается в яму
	Stealable             bool // вор может унести
	Pushable              bool // агент, толкающий мрамор, сдвигает его
	PushesMarbles         bool // агент умеет толкать мрамор
	NeedsClearShot        bool // робот стреляет только по чистой линии огня
}

// Behavior описывает поведение типа сущности
type Behavior interface {
	// Kind возвращает тип, которому принадлежит поведение
	Kind() Kind

	// Name возвращает читаемое имя типа
	Name() string

	// Traits возвращает флаги свойств типа
	Traits() Traits

	// Update выполняет действие сущности за один тик
	Update(api WorldAPI, e *Entity)

	// Damage применяет урон от горошины
	Damage(api WorldAPI, e *Entity, amount int)
}

var (
	registry   = make(map[Kind]Behavior)
	registryMu sync.RWMutex
)

// Register регистрирует поведение типа. Повторная регистрация типа - ошибка программиста.
func Register(b Behavior) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[b.Kind()]; exists {
		panic(fmt.Sprintf("behavior for kind %d already registered", b.Kind()))
	}
	registry[b.Kind()] = b
}

// BehaviorOf возвращает поведение типа
func BehaviorOf(k Kind) (Behavior, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	b, ok := registry[k]
	return b, ok
}

// TraitsOf возвращает флаги типа (нулевые для незарегистрированного)
func TraitsOf(k Kind) Traits {
	if b, ok := BehaviorOf(k); ok {
		return b.Traits()
	}
	return Traits{}
}

// Kinds возвращает все зарегистрированные типы
func Kinds() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	return kinds
}

// Update вызывает поведение сущности на один тик
func Update(api WorldAPI, e *Entity) {
	if b, ok := BehaviorOf(e.Kind); ok {
		b.Update(api, e)
	}
}

// Damage применяет урон через поведение сущности
func Damage(api WorldAPI, e *Entity, amount int) {
	if b, ok := BehaviorOf(e.Kind); ok {
		b.Damage(api, e, amount)
	}
}

// baseBehavior реализует общую часть поведения: имя, флаги, пустой тик и
// урон без звуков.
type baseBehavior struct {
	kind   Kind
	name   string
	traits Traits
}

func (b baseBehavior) Kind() Kind               { return b.kind }
func (b baseBehavior) Name() string             { return b.name }
func (b baseBehavior) Traits() Traits           { return b.traits }
func (b baseBehavior) Update(WorldAPI, *Entity) {}

func (b baseBehavior) Damage(_ WorldAPI, e *Entity, amount int) {
	e.TryToBeKilled(amount)
}

// moveIfPossible делает шаг по направлению взгляда, если клетка свободна
func moveIfPossible(api WorldAPI, e *Entity) bool {
	dx, dy := e.Dir.Delta()
	if !api.CanAgentMoveTo(e, dx, dy) {
		return false
	}
	e.Pos = e.Pos.Step(dx, dy)
	return true
}

// firePea создаёт горошину на клетке перед стрелком
func firePea(api WorldAPI, e *Entity, sound host.Sound) {
	api.PlaySound(sound)
	target := e.Ahead()
	if !target.InBounds(GridWidth, GridHeight) {
		return
	}
	api.Spawn(NewPea(target, e.Dir))
}
