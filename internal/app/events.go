package app

import "emberhold/internal/domain"

// EventKind identifies emitted engine events for transport dispatch.
type EventKind string

const (
	EventRoomSnapshot       EventKind = "room_state_snapshot"
	EventPlayerJoined       EventKind = "player_joined"
	EventPlayerLeft         EventKind = "player_left"
	EventHostChanged        EventKind = "host_changed"
	EventCharacterSelected  EventKind = "character_selected"
	EventScenarioSelected   EventKind = "scenario_selected"
	EventScenarioStarted    EventKind = "scenario_started"
	EventCardsSubmitted     EventKind = "cards_submitted"
	EventTurnOrder          EventKind = "turn_order"
	EventTurnAdvanced       EventKind = "turn_advanced"
	EventActionResolved     EventKind = "action_resolved"
	EventModifierReshuffled EventKind = "modifier_reshuffled"
	EventElementChanged     EventKind = "element_changed"
	EventActorDefeated      EventKind = "actor_defeated"
	EventRoundCompleted     EventKind = "round_completed"
	EventScenarioCompleted  EventKind = "scenario_completed"
	EventPlayerDisconnected EventKind = "player_disconnected"
	EventPlayerReconnected  EventKind = "player_reconnected"
	EventTurnSkipped        EventKind = "turn_skipped"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []domain.PlayerID // empty means broadcast to the room
}

type PlayerJoinedPayload struct {
	PlayerID    domain.PlayerID `json:"player_id"`
	DisplayName string          `json:"display_name"`
	Host        bool            `json:"host"`
}

type PlayerLeftPayload struct {
	PlayerID domain.PlayerID `json:"player_id"`
}

type HostChangedPayload struct {
	HostID domain.PlayerID `json:"host_id"`
}

type CharacterSelectedPayload struct {
	PlayerID domain.PlayerID `json:"player_id"`
	Class    domain.ClassID  `json:"class"`
}

type ScenarioSelectedPayload struct {
	ScenarioID domain.ScenarioID `json:"scenario_id"`
}

// ActorView is the client-visible projection of one actor.
type ActorView struct {
	ID         domain.ActorID           `json:"id"`
	Kind       domain.ActorKind         `json:"kind"`
	Owner      domain.PlayerID          `json:"owner,omitempty"`
	Class      domain.ClassID           `json:"class,omitempty"`
	Monster    domain.MonsterID         `json:"monster,omitempty"`
	Name       string                   `json:"name"`
	Health     int                      `json:"health"`
	MaxHealth  int                      `json:"max_health"`
	Position   domain.Position          `json:"position"`
	Conditions map[domain.Condition]int `json:"conditions,omitempty"`
	Defeated   bool                     `json:"defeated"`
}

type ScenarioStartedPayload struct {
	ScenarioID domain.ScenarioID `json:"scenario_id"`
	Name       string            `json:"name"`
	Round      int               `json:"round"`
	Actors     []ActorView       `json:"actors"`
}

type CardsSubmittedPayload struct {
	PlayerID domain.PlayerID `json:"player_id"`
	ActorID  domain.ActorID  `json:"actor_id"`
}

// TurnOrderEntry is one slot of the frozen round order.
type TurnOrderEntry struct {
	ActorID    domain.ActorID    `json:"actor_id"`
	Initiative int               `json:"initiative"`
	Status     domain.TurnStatus `json:"status"`
}

type TurnOrderPayload struct {
	Round   int              `json:"round"`
	Entries []TurnOrderEntry `json:"entries"`
}

type TurnAdvancedPayload struct {
	Round         int             `json:"round"`
	ActiveActorID domain.ActorID  `json:"active_actor_id"`
	PlayerID      domain.PlayerID `json:"player_id,omitempty"`
}

// TargetResult is the per-target outcome of an attack or heal.
type TargetResult struct {
	ActorID   domain.ActorID     `json:"actor_id"`
	Damage    int                `json:"damage,omitempty"`
	Healed    int                `json:"healed,omitempty"`
	Health    int                `json:"health"`
	Defeated  bool               `json:"defeated,omitempty"`
	Inflicted []domain.Condition `json:"inflicted,omitempty"`
}

type ActionResolvedPayload struct {
	ActorID  domain.ActorID    `json:"actor_id"`
	CardID   domain.CardID     `json:"card_id,omitempty"`
	Half     string            `json:"half,omitempty"`
	Type     domain.ActionType `json:"type"`
	Modifier *domain.Modifier  `json:"modifier,omitempty"`
	Targets  []TargetResult    `json:"targets,omitempty"`
	MovedTo  *domain.Position  `json:"moved_to,omitempty"`
	// Degraded marks an optional element consumption that could not be paid.
	Degraded bool `json:"degraded,omitempty"`
}

type ModifierReshuffledPayload struct {
	ActorID domain.ActorID `json:"actor_id"`
	// MonsterDeck marks the shared monster deck rather than a character one.
	MonsterDeck bool `json:"monster_deck,omitempty"`
}

type ElementChangedPayload struct {
	Element domain.Element      `json:"element"`
	State   domain.ElementState `json:"state"`
}

type ActorDefeatedPayload struct {
	ActorID domain.ActorID   `json:"actor_id"`
	Kind    domain.ActorKind `json:"kind"`
	ByActor domain.ActorID   `json:"by_actor,omitempty"`
}

type RoundCompletedPayload struct {
	Round    int                                    `json:"round"`
	Elements map[domain.Element]domain.ElementState `json:"elements"`
	// NextRound is 0 when the scenario finished on this boundary.
	NextRound int `json:"next_round,omitempty"`
}

type ScenarioCompletedPayload struct {
	ScenarioID domain.ScenarioID                       `json:"scenario_id"`
	Outcome    domain.Outcome                          `json:"outcome"`
	Rounds     int                                     `json:"rounds"`
	Stats      map[domain.PlayerID]*domain.PlayerStats `json:"stats"`
}

type PlayerConnectionPayload struct {
	PlayerID domain.PlayerID `json:"player_id"`
}

type TurnSkippedPayload struct {
	PlayerID domain.PlayerID `json:"player_id"`
	ActorID  domain.ActorID  `json:"actor_id"`
}
