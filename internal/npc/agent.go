// Package npc drives monster turns. Agents are pure deciders: they look at
// the scenario state and return a move/target intent, and the match loop
// feeds that intent through the same action pipeline player turns use.
package npc

import (
	"emberhold/internal/domain"
)

// Decision is a monster's intent for its turn. A nil MoveTo means stay put;
// an empty Target means no attack this turn.
type Decision struct {
	MoveTo *domain.Position
	Target domain.ActorID
}

// Agent decides turns for one monster actor.
type Agent struct {
	ActorID domain.ActorID
}

// NewAgent returns an agent bound to a monster actor.
func NewAgent(actorID domain.ActorID) *Agent {
	return &Agent{ActorID: actorID}
}

// Decide picks the nearest living character, steps toward it within the
// monster's move speed, and attacks if the result is in range. Ties on
// distance break toward the earliest-joined character so replays of the
// same state produce the same decision.
func (a *Agent) Decide(sc *domain.ScenarioState, def domain.MonsterDef) Decision {
	self, ok := sc.Actor(a.ActorID)
	if !ok || !self.Alive() {
		return Decision{}
	}

	target := nearestCharacter(sc, self.Position)
	if target == nil {
		return Decision{}
	}

	pos := self.Position
	var moveTo *domain.Position
	if !self.HasCondition(domain.ConditionImmobilize) {
		stepped := stepToward(pos, target.Position, def.MoveSpeed)
		if stepped != pos {
			pos = stepped
			moveTo = &stepped
		}
	}

	reach := def.Range
	if reach <= 0 {
		reach = 1
	}
	d := Decision{MoveTo: moveTo}
	if domain.Distance(pos, target.Position) <= reach {
		d.Target = target.ID
	}
	return d
}

func nearestCharacter(sc *domain.ScenarioState, from domain.Position) *domain.Actor {
	var best *domain.Actor
	bestDist := 0
	for _, c := range sc.LivingCharacters() {
		d := domain.Distance(from, c.Position)
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// stepToward closes the gap to dst along axes, Manhattan-style, spending at
// most speed steps. It stops adjacent to the destination rather than on it.
func stepToward(src, dst domain.Position, speed int) domain.Position {
	pos := src
	for speed > 0 && domain.Distance(pos, dst) > 1 {
		switch {
		case pos.X < dst.X:
			pos.X++
		case pos.X > dst.X:
			pos.X--
		case pos.Y < dst.Y:
			pos.Y++
		case pos.Y > dst.Y:
			pos.Y--
		}
		speed--
	}
	return pos
}
