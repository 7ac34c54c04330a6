package app

import "emberhold/internal/domain"

// RosterEntry is one roster member in a snapshot.
type RosterEntry struct {
	PlayerID    domain.PlayerID `json:"player_id"`
	DisplayName string          `json:"display_name"`
	Class       domain.ClassID  `json:"class,omitempty"`
	Host        bool            `json:"host"`
	Connected   bool            `json:"connected"`
}

// ScenarioSnapshot is the in-scenario portion of a snapshot.
type ScenarioSnapshot struct {
	ScenarioID domain.ScenarioID                      `json:"scenario_id"`
	Round      int                                    `json:"round"`
	RoundPhase domain.RoundPhase                      `json:"round_phase"`
	Actors     []ActorView                            `json:"actors"`
	Order      []TurnOrderEntry                       `json:"order,omitempty"`
	ActiveID   domain.ActorID                         `json:"active_actor_id,omitempty"`
	Submitted  []domain.ActorID                       `json:"submitted,omitempty"`
	Elements   map[domain.Element]domain.ElementState `json:"elements"`
	// DeckRemaining maps each deck owner to its cards left before reshuffle.
	DeckRemaining   map[domain.ActorID]int `json:"deck_remaining"`
	MonsterDeckLeft int                    `json:"monster_deck_left"`
	Outcome         domain.Outcome         `json:"outcome"`
	PrimaryProgress int                    `json:"primary_progress"`
	PrimaryTarget   int                    `json:"primary_target"`
}

// RoomSnapshotPayload is the engine's authoritative-state export: enough to
// reconstruct all client-visible state without replaying history.
type RoomSnapshotPayload struct {
	Code       string            `json:"code"`
	Phase      domain.Phase      `json:"phase"`
	HostID     domain.PlayerID   `json:"host_id"`
	ScenarioID domain.ScenarioID `json:"scenario_id,omitempty"`
	Roster     []RosterEntry     `json:"roster"`
	Scenario   *ScenarioSnapshot `json:"scenario,omitempty"`
}

// Snapshot builds a full room snapshot targeted at one player, typically on
// join or reconnect. connected reports live-session status per player.
func (s *Service) Snapshot(room *domain.Room, sc *domain.ScenarioState, connected func(domain.PlayerID) bool, recipient domain.PlayerID) Event {
	payload := RoomSnapshotPayload{
		Code:       room.Code,
		Phase:      room.Phase,
		HostID:     room.HostID,
		ScenarioID: room.ScenarioID,
	}
	for _, p := range room.Roster() {
		payload.Roster = append(payload.Roster, RosterEntry{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Class:       p.Class,
			Host:        p.ID == room.HostID,
			Connected:   connected(p.ID),
		})
	}
	if sc != nil {
		payload.Scenario = scenarioSnapshot(sc)
	}
	return Event{
		Kind:       EventRoomSnapshot,
		Payload:    payload,
		Recipients: []domain.PlayerID{recipient},
	}
}

func scenarioSnapshot(sc *domain.ScenarioState) *ScenarioSnapshot {
	snap := &ScenarioSnapshot{
		ScenarioID:      sc.Def.ID,
		Round:           sc.Round.Number,
		RoundPhase:      sc.Round.Phase,
		Actors:          actorViews(sc),
		Elements:        sc.Board.States(),
		DeckRemaining:   make(map[domain.ActorID]int, len(sc.Decks)),
		MonsterDeckLeft: sc.MonsterDeck.Remaining(),
		Outcome:         sc.Outcome,
		PrimaryProgress: sc.Tracker.Primary.Progress,
		PrimaryTarget:   sc.Tracker.Primary.Def.Target,
	}
	for id, deck := range sc.Decks {
		snap.DeckRemaining[id] = deck.Remaining()
	}
	switch sc.Round.Phase {
	case domain.RoundAwaitingSelection:
		for _, e := range sc.Round.Entries {
			snap.Submitted = append(snap.Submitted, e.Actor)
		}
	default:
		for _, e := range sc.Round.Entries {
			snap.Order = append(snap.Order, TurnOrderEntry{
				ActorID:    e.Actor,
				Initiative: e.Initiative,
				Status:     e.Status,
			})
		}
		if active := sc.Round.Active(); active != nil {
			snap.ActiveID = active.Actor
		}
	}
	return snap
}
