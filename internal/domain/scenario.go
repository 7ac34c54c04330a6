package domain

import "math/rand"

// PlayerStats accumulates per-player scenario statistics for the completion
// report.
type PlayerStats struct {
	DamageDealt int `json:"damage_dealt"`
	DamageTaken int `json:"damage_taken"`
	Defeats     int `json:"defeats"` // enemies defeated by this player
}

// ScenarioState is the full authoritative in-scenario aggregate for one
// room: actors, the current round, the elemental board, modifier decks and
// objective tracking.
type ScenarioState struct {
	Def     ScenarioDef
	Round   *Round
	Actors  map[ActorID]*Actor
	Board   *ElementalBoard
	Tracker *ObjectiveTracker
	Outcome Outcome
	Stats   map[PlayerID]*PlayerStats

	// Decks holds one modifier deck per character actor; monsters share a
	// single deck, as the tabletop rules do.
	Decks       map[ActorID]*ModifierDeck
	MonsterDeck *ModifierDeck

	rng       *rand.Rand
	joinOrder map[ActorID]int
	nextOrder int
}

// NewScenarioState builds an empty scenario aggregate for the definition.
// Actors are added afterwards via AddCharacter/AddMonster, characters first
// so the initiative tie-break follows player join order.
func NewScenarioState(def ScenarioDef, rng *rand.Rand) *ScenarioState {
	return &ScenarioState{
		Def:         def,
		Round:       NewRound(1),
		Actors:      make(map[ActorID]*Actor),
		Board:       NewElementalBoard(),
		Stats:       make(map[PlayerID]*PlayerStats),
		Decks:       make(map[ActorID]*ModifierDeck),
		MonsterDeck: NewModifierDeck(rng),
		rng:         rng,
		joinOrder:   make(map[ActorID]int),
		Outcome:     OutcomeNone,
	}
}

// AddCharacter spawns a player character actor with its own modifier deck.
func (s *ScenarioState) AddCharacter(id ActorID, owner PlayerID, class ClassDef, pos Position) *Actor {
	a := &Actor{
		ID:        id,
		Kind:      ActorCharacter,
		Owner:     owner,
		Class:     class.ID,
		Name:      class.Name,
		Health:    class.MaxHealth,
		MaxHealth: class.MaxHealth,
		Position:  pos,
		JoinOrder: s.nextOrder,
	}
	s.nextOrder++
	s.Actors[id] = a
	s.Decks[id] = NewModifierDeck(s.rng)
	s.Stats[owner] = &PlayerStats{}
	s.joinOrder[id] = a.JoinOrder
	return a
}

// AddMonster spawns a monster instance.
func (s *ScenarioState) AddMonster(id ActorID, def MonsterDef, pos Position) *Actor {
	a := &Actor{
		ID:        id,
		Kind:      ActorMonster,
		Monster:   def.ID,
		Name:      def.Name,
		Health:    def.MaxHealth,
		MaxHealth: def.MaxHealth,
		Position:  pos,
		JoinOrder: s.nextOrder,
	}
	s.nextOrder++
	s.Actors[id] = a
	s.joinOrder[id] = a.JoinOrder
	return a
}

// Actor returns the actor with the given id.
func (s *ScenarioState) Actor(id ActorID) (*Actor, bool) {
	a, ok := s.Actors[id]
	return a, ok
}

// CharacterOf returns the character actor owned by a player.
func (s *ScenarioState) CharacterOf(player PlayerID) (*Actor, bool) {
	for _, a := range s.Actors {
		if a.Kind == ActorCharacter && a.Owner == player {
			return a, true
		}
	}
	return nil, false
}

// DeckFor returns the modifier deck an actor draws from: its own for
// characters, the shared monster deck otherwise.
func (s *ScenarioState) DeckFor(id ActorID) *ModifierDeck {
	if d, ok := s.Decks[id]; ok {
		return d
	}
	return s.MonsterDeck
}

// LivingCharacters returns all alive character actors.
func (s *ScenarioState) LivingCharacters() []*Actor {
	return s.living(ActorCharacter)
}

// LivingMonsters returns all alive monster actors.
func (s *ScenarioState) LivingMonsters() []*Actor {
	return s.living(ActorMonster)
}

func (s *ScenarioState) living(kind ActorKind) []*Actor {
	var out []*Actor
	for _, a := range s.Actors {
		if a.Kind == kind && a.Alive() {
			out = append(out, a)
		}
	}
	// Stable order for deterministic iteration by callers.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].JoinOrder > out[j].JoinOrder; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// AliveFn adapts actor liveness for the round scheduler.
func (s *ScenarioState) AliveFn() func(ActorID) bool {
	return func(id ActorID) bool {
		a, ok := s.Actors[id]
		return ok && a.Alive()
	}
}

// JoinOrder exposes the stable tie-break table for round ordering.
func (s *ScenarioState) JoinOrder() map[ActorID]int {
	return s.joinOrder
}

// AllCharactersSubmitted reports whether every living character has a card
// selection recorded for the current round.
func (s *ScenarioState) AllCharactersSubmitted() bool {
	for _, a := range s.LivingCharacters() {
		if !s.Round.Submitted(a.ID) {
			return false
		}
	}
	return true
}

// MonsterInitiative picks the monster's initiative for the round from its
// rotation table.
func MonsterInitiative(def MonsterDef, round int) int {
	if len(def.Initiatives) == 0 {
		return 99
	}
	return def.Initiatives[(round-1)%len(def.Initiatives)]
}

// StatsFor returns (creating if needed) the stats bucket for a player.
func (s *ScenarioState) StatsFor(player PlayerID) *PlayerStats {
	st, ok := s.Stats[player]
	if !ok {
		st = &PlayerStats{}
		s.Stats[player] = st
	}
	return st
}

// Terminal reports whether the scenario reached a terminal outcome.
func (s *ScenarioState) Terminal() bool {
	return s.Outcome != OutcomeNone
}
