package domain

// Outcome is the terminal result of a scenario.
type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	// OutcomeInternalError marks a room abandoned after an invariant
	// violation; never produced by objective evaluation itself.
	OutcomeInternalError Outcome = "internal_error"
)

// ObjectiveProgress pairs an objective definition with its counter.
type ObjectiveProgress struct {
	Def      ObjectiveDef `json:"def"`
	Progress int          `json:"progress"`
}

// Complete reports whether the counter reached the target.
func (o *ObjectiveProgress) Complete() bool {
	return o.Progress >= o.Def.Target
}

// ObjectiveTracker accumulates scenario events into objective counters and
// evaluates victory/defeat. Evaluation is pure over the accumulated state so
// replicas converge on the same outcome.
type ObjectiveTracker struct {
	Primary   ObjectiveProgress
	Secondary []ObjectiveProgress
	Failures  []FailureDef

	charactersAlive int
	roundsPlayed    int
}

// NewObjectiveTracker builds a tracker for a scenario. Defeat-all targets
// are resolved against the actual spawned monster count; characterCount
// seeds the exhaustion failure condition.
func NewObjectiveTracker(def ScenarioDef, monsterCount, characterCount int) *ObjectiveTracker {
	t := &ObjectiveTracker{
		Primary:         ObjectiveProgress{Def: def.Primary},
		Failures:        def.Failures,
		charactersAlive: characterCount,
	}
	if t.Primary.Def.Kind == ObjectiveDefeatAllEnemies {
		t.Primary.Def.Target = monsterCount
	}
	for _, sec := range def.Secondary {
		t.Secondary = append(t.Secondary, ObjectiveProgress{Def: sec})
	}
	return t
}

// RecordEnemyDefeated advances every defeat-driven objective.
func (t *ObjectiveTracker) RecordEnemyDefeated() {
	t.record(ObjectiveDefeatAllEnemies)
	t.record(ObjectiveDefeatCount)
}

// RecordCharacterDefeated notes a player character exhausting.
func (t *ObjectiveTracker) RecordCharacterDefeated() {
	if t.charactersAlive > 0 {
		t.charactersAlive--
	}
}

// RecordRoundPlayed advances survive-style objectives and the round-limit
// failure clock. Called once per round boundary.
func (t *ObjectiveTracker) RecordRoundPlayed() {
	t.roundsPlayed++
	t.record(ObjectiveSurviveRounds)
}

func (t *ObjectiveTracker) record(kind ObjectiveKind) {
	if t.Primary.Def.Kind == kind {
		t.Primary.Progress++
	}
	for i := range t.Secondary {
		if t.Secondary[i].Def.Kind == kind {
			t.Secondary[i].Progress++
		}
	}
}

// RoundsPlayed returns the number of completed rounds.
func (t *ObjectiveTracker) RoundsPlayed() int {
	return t.roundsPlayed
}

// Evaluate returns the scenario outcome for the accumulated counters.
// Failure conditions take precedence: a defeat is declared even if the
// primary objective would complete in the same evaluation.
func (t *ObjectiveTracker) Evaluate() Outcome {
	for _, f := range t.Failures {
		switch f.Kind {
		case FailureAllExhausted:
			if t.charactersAlive == 0 {
				return OutcomeDefeat
			}
		case FailureRoundLimit:
			if f.Limit > 0 && t.roundsPlayed >= f.Limit {
				return OutcomeDefeat
			}
		}
	}
	if t.Primary.Complete() {
		return OutcomeVictory
	}
	return OutcomeNone
}
