package entity

// RageBotBehavior - робот-буян: патрулирует по прямой, разворачивается у препятствий
// и стреляет, если игрок на линии огня.
type RageBotBehavior struct {
	baseBehavior
}

func NewRageBotBehavior() *RageBotBehavior {
	return &RageBotBehavior{baseBehavior{
		kind: KindRageBot,
		name: "ragebot",
		traits: Traits{
			Damageable:     true,
			NeedsClearShot: true,
		},
	}}
}

func init() {
	Register(NewRageBotBehavior())
}

func (rb *RageBotBehavior) Update(api WorldAPI, e *Entity) {
	if !e.Alive || isResting(e) {
		return
	}

	if shootIfClearShot(api, e) {
		return
	}

	if !moveIfPossible(api, e) {
		e.Dir = e.Dir.Reverse()
	}
}

func (rb *RageBotBehavior) Damage(api WorldAPI, e *Entity, amount int) {
	damageRobot(api, e, amount)
}
