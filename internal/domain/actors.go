package domain

// ActorID identifies one actor instance in a running scenario. Character
// actors use a class-derived id; monster instances get generated ids.
type ActorID string

// ActorKind distinguishes player characters from scenario monsters.
type ActorKind string

const (
	ActorCharacter ActorKind = "character"
	ActorMonster   ActorKind = "monster"
)

// Condition is a named status effect carried by an actor.
type Condition string

const (
	ConditionPoison     Condition = "poison"     // +1 damage taken per hit
	ConditionWound      Condition = "wound"      // 1 damage at round end
	ConditionImmobilize Condition = "immobilize" // move actions fail
	ConditionStrengthen Condition = "strengthen" // +1 damage dealt per attack
)

// Position is a logical map coordinate. Distance is Manhattan; full map
// geometry is content-layer concern.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the Manhattan distance between two positions.
func Distance(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Actor is one participant on the scenario map: a player character or a
// monster instance. Characters keep their owning player and class; monsters
// keep their definition id.
type Actor struct {
	ID         ActorID
	Kind       ActorKind
	Owner      PlayerID  // characters only
	Class      ClassID   // characters only
	Monster    MonsterID // monsters only
	Name       string
	Health     int
	MaxHealth  int
	Position   Position
	Conditions map[Condition]int // remaining rounds
	Defeated   bool
	// JoinOrder is the stable initiative tie-break: character join order
	// first, monsters after all characters in spawn order.
	JoinOrder int
}

// Alive reports whether the actor can still act and be targeted.
func (a *Actor) Alive() bool {
	return !a.Defeated && a.Health > 0
}

// HasCondition reports whether a condition is currently active.
func (a *Actor) HasCondition(c Condition) bool {
	_, ok := a.Conditions[c]
	return ok
}

// AddCondition applies or refreshes a condition for the given duration.
func (a *Actor) AddCondition(c Condition, rounds int) {
	if a.Conditions == nil {
		a.Conditions = make(map[Condition]int)
	}
	if cur, ok := a.Conditions[c]; !ok || rounds > cur {
		a.Conditions[c] = rounds
	}
}

// TickConditions decrements condition durations at round end and removes
// expired ones.
func (a *Actor) TickConditions() {
	for c, left := range a.Conditions {
		left--
		if left <= 0 {
			delete(a.Conditions, c)
		} else {
			a.Conditions[c] = left
		}
	}
}

// ApplyDamage reduces health, floors at zero and flags defeat. Returns the
// damage actually dealt and whether this hit defeated the actor.
func (a *Actor) ApplyDamage(amount int) (dealt int, defeated bool) {
	if amount <= 0 || !a.Alive() {
		return 0, false
	}
	if a.HasCondition(ConditionPoison) {
		amount++
	}
	if amount > a.Health {
		amount = a.Health
	}
	a.Health -= amount
	if a.Health == 0 {
		a.Defeated = true
		return amount, true
	}
	return amount, false
}

// Heal restores health up to the maximum. Defeated actors stay defeated.
func (a *Actor) Heal(amount int) int {
	if amount <= 0 || !a.Alive() {
		return 0
	}
	if a.Health+amount > a.MaxHealth {
		amount = a.MaxHealth - a.Health
	}
	a.Health += amount
	return amount
}
