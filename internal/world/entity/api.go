package entity

import (
	"github.com/annel0/robomaze/internal/host"
	"github.com/annel0/robomaze/internal/vec"
)

// WorldAPI предоставляет поведениям доступ к миру. Мир передаётся явным параметром
// в каждый вызов, сущности не хранят ссылок на него.
type WorldAPI interface {
	// Level возвращает номер текущего уровня
	Level() int

	// PlaySound передаёт звук исполнителю
	PlaySound(s host.Sound)

	// PollKey возвращает нажатую в этом тике клавишу
	PollKey() (host.Key, bool)

	// RandInt возвращает случайное число в [min, max]
	RandInt(min, max int) int

	// IncreaseScore добавляет очки к счёту игры
	IncreaseScore(points int)

	// IncLives добавляет жизнь
	IncLives()

	// Player возвращает игрока
	Player() *Entity

	// Entity возвращает сущность по ID или nil
	Entity(id ID) *Entity

	// Spawn добавляет сущность в мир. Она обновится ещё в текущем тике.
	Spawn(e *Entity) ID

	// CanAgentMoveTo проверяет, может ли агент шагнуть на (dx, dy).
	// Если агент толкает мрамор, мрамор сдвигается уже внутри вызова.
	CanAgentMoveTo(agent *Entity, dx, dy int) bool

	// DamageSomething наносит урон всему повреждаемому на клетке горошины.
	// Возвращает true, если горошина во что-то попала (она при этом погибает).
	DamageSomething(pea *Entity, damage int) bool

	// SwallowSwallowable проверяет, стоит ли на клетке ямы что-то проглатываемое,
	// и если да, уничтожает всё на этой клетке вместе с ямой.
	SwallowSwallowable(pit *Entity) bool

	// ExistsClearShotToPlayer проверяет линию огня от from в направлении (dx, dy)
	ExistsClearShotToPlayer(from vec.Vec2, dx, dy int) bool

	// FactoryCensus считает воров в квадрате радиуса distance вокруг фабрики.
	// ok == false, если вор стоит прямо на клетке фабрики.
	FactoryCensus(at vec.Vec2, distance int) (count int, ok bool)

	// ColocatedStealable возвращает бонус на клетке, который можно украсть, или nil
	ColocatedStealable(at vec.Vec2) *Entity

	// IsPlayerColocatedWith проверяет, стоит ли игрок на клетке сущности
	IsPlayerColocatedWith(e *Entity) bool

	// RestorePlayerHealth восстанавливает здоровье игрока до максимума
	RestorePlayerHealth()

	// IncreaseAmmo добавляет игроку горошин
	IncreaseAmmo()

	// AnyCrystals сообщает, остались ли на уровне кристаллы
	AnyCrystals() bool

	// DecCrystals уменьшает счётчик кристаллов. false, если он уже был нулём.
	DecCrystals() bool

	// SetLevelFinished завершает уровень: звук, очки (2000 + бонус), статус
	SetLevelFinished()
}
