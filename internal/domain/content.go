package domain

// Content is the read-only lookup layer supplied at scenario start: scenario
// definitions, the action-card catalog and the character class roster. The
// engine never mutates it.

// ClassID identifies a playable character class.
type ClassID string

// ScenarioID identifies a scenario definition.
type ScenarioID string

// CardID identifies an action card in the catalog.
type CardID string

// MonsterID identifies a monster definition.
type MonsterID string

// ActionType is the generic effect family of one card half.
type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionMove   ActionType = "move"
	ActionHeal   ActionType = "heal"
	// ActionNone is a no-effect half (initiative carrier only).
	ActionNone ActionType = "none"
)

// ConditionApplication is a status effect a card half inflicts on its
// targets.
type ConditionApplication struct {
	Condition Condition `json:"condition"`
	Duration  int       `json:"duration"` // rounds
}

// ActionSpec is one half of an action card. Range/shape validation beyond
// the declared maximum range is content-layer responsibility; the engine
// only checks the generic constraints.
type ActionSpec struct {
	Type    ActionType `json:"type"`
	Value   int        `json:"value"`   // damage, heal amount or move distance
	Range   int        `json:"range"`   // maximum range; 0 means self/adjacent melee
	Targets int        `json:"targets"` // maximum target count; 0 means 1

	// Generates lists elements infused when the half resolves.
	Generates []Element `json:"generates,omitempty"`
	// Consumes is an optional element enhancement. When the board cannot
	// supply it the action degrades to its base effect.
	Consumes     Element `json:"consumes,omitempty"`
	ConsumeBonus int     `json:"consume_bonus,omitempty"`

	Inflicts []ConditionApplication `json:"inflicts,omitempty"`
}

// ActionCard is a two-half card with a printed initiative value.
type ActionCard struct {
	ID         CardID     `json:"id"`
	Name       string     `json:"name"`
	Initiative int        `json:"initiative"`
	Top        ActionSpec `json:"top"`
	Bottom     ActionSpec `json:"bottom"`
}

// ClassDef is a playable character class.
type ClassDef struct {
	ID        ClassID  `json:"id"`
	Name      string   `json:"name"`
	MaxHealth int      `json:"max_health"`
	Cards     []CardID `json:"cards"`
}

// MonsterDef is a non-player actor definition. Initiatives rotates per
// round, standing in for a full monster ability deck.
type MonsterDef struct {
	ID          MonsterID `json:"id"`
	Name        string    `json:"name"`
	MaxHealth   int       `json:"max_health"`
	Attack      int       `json:"attack"`
	Range       int       `json:"range"`
	MoveSpeed   int       `json:"move_speed"`
	Initiatives []int     `json:"initiatives"`
}

// ObjectiveKind classifies how an objective's progress counter advances.
type ObjectiveKind string

const (
	// ObjectiveDefeatAllEnemies completes when every scenario monster is
	// defeated; its target is resolved to the spawned monster count.
	ObjectiveDefeatAllEnemies ObjectiveKind = "defeat_all_enemies"
	// ObjectiveSurviveRounds completes when the given number of rounds has
	// been played out.
	ObjectiveSurviveRounds ObjectiveKind = "survive_rounds"
	// ObjectiveDefeatCount completes after a fixed number of enemy defeats.
	ObjectiveDefeatCount ObjectiveKind = "defeat_count"
)

// FailureKind classifies scenario failure conditions.
type FailureKind string

const (
	// FailureAllExhausted triggers when every player character is defeated.
	FailureAllExhausted FailureKind = "all_exhausted"
	// FailureRoundLimit triggers when play exceeds the round limit.
	FailureRoundLimit FailureKind = "round_limit"
)

// ObjectiveDef declares one objective with a progress target.
type ObjectiveDef struct {
	ID     string        `json:"id"`
	Kind   ObjectiveKind `json:"kind"`
	Target int           `json:"target"`
}

// FailureDef declares one failure condition.
type FailureDef struct {
	ID    string      `json:"id"`
	Kind  FailureKind `json:"kind"`
	Limit int         `json:"limit,omitempty"`
}

// MonsterPlacement is one monster spawn in a scenario.
type MonsterPlacement struct {
	Monster  MonsterID `json:"monster"`
	Position Position  `json:"position"`
}

// ScenarioDef is a scenario definition: objectives, spawns and start
// positions. Map geometry beyond positions is out of engine scope.
type ScenarioDef struct {
	ID             ScenarioID         `json:"id"`
	Name           string             `json:"name"`
	Primary        ObjectiveDef       `json:"primary"`
	Secondary      []ObjectiveDef     `json:"secondary,omitempty"`
	Failures       []FailureDef       `json:"failures"`
	Monsters       []MonsterPlacement `json:"monsters"`
	StartPositions []Position         `json:"start_positions"`
}

// Content bundles the immutable lookup tables keyed by id.
type Content struct {
	Classes   map[ClassID]ClassDef       `json:"classes"`
	Cards     map[CardID]ActionCard      `json:"cards"`
	Monsters  map[MonsterID]MonsterDef   `json:"monsters"`
	Scenarios map[ScenarioID]ScenarioDef `json:"scenarios"`
}

// Card returns the catalog entry for a card id.
func (c *Content) Card(id CardID) (ActionCard, bool) {
	card, ok := c.Cards[id]
	return card, ok
}

// Class returns the class definition for an id.
func (c *Content) Class(id ClassID) (ClassDef, bool) {
	def, ok := c.Classes[id]
	return def, ok
}

// Scenario returns the scenario definition for an id.
func (c *Content) Scenario(id ScenarioID) (ScenarioDef, bool) {
	def, ok := c.Scenarios[id]
	return def, ok
}

// Monster returns the monster definition for an id.
func (c *Content) Monster(id MonsterID) (MonsterDef, bool) {
	def, ok := c.Monsters[id]
	return def, ok
}
