package domain

// Phase represents the lifecycle stage of a room.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhaseCharacterSelect is the state where players claim character classes.
	PhaseCharacterSelect Phase = "character_select"
	// PhaseInScenario is the active game state.
	PhaseInScenario Phase = "in_scenario"
	// PhaseCompleted is the terminal state after victory, defeat or disband.
	PhaseCompleted Phase = "completed"
)

// PlayerID is the durable player identifier, stable across reconnects.
type PlayerID string

// SessionID identifies one transport connection. A player gets a new
// SessionID on every reconnect.
type SessionID string

// Player holds the durable identity of a roster member.
type Player struct {
	ID          PlayerID
	DisplayName string
	// JoinOrder is the 0-based order in which the player entered the room.
	// It is the tie-break key for initiative and the host succession order.
	JoinOrder int
	// Class is empty until the player claims a character class.
	Class ClassID
}

// Room is the authoritative per-session aggregate: roster, host, phase and
// the selected scenario.
type Room struct {
	Code       string
	Phase      Phase
	Players    map[PlayerID]*Player
	HostID     PlayerID
	ScenarioID ScenarioID

	joined int // monotonically increasing join counter
}

// NewRoom creates an empty lobby-phase room with the given code.
func NewRoom(code string) *Room {
	return &Room{
		Code:    code,
		Phase:   PhaseLobby,
		Players: make(map[PlayerID]*Player),
	}
}

// AddPlayer registers a player in the roster. The first player to join
// becomes host. Re-adding a known player only refreshes the display name.
func (r *Room) AddPlayer(id PlayerID, displayName string) *Player {
	if p, ok := r.Players[id]; ok {
		if displayName != "" {
			p.DisplayName = displayName
		}
		return p
	}
	p := &Player{ID: id, DisplayName: displayName, JoinOrder: r.joined}
	r.joined++
	r.Players[id] = p
	if r.HostID == "" {
		r.HostID = id
	}
	return p
}

// RemovePlayer drops a player from the roster. If the host left, the
// earliest-joined remaining player is promoted. Returns the new host id and
// whether a host change happened.
func (r *Room) RemovePlayer(id PlayerID) (PlayerID, bool) {
	if _, ok := r.Players[id]; !ok {
		return r.HostID, false
	}
	delete(r.Players, id)
	if r.HostID != id {
		return r.HostID, false
	}
	r.HostID = ""
	best := -1
	for _, p := range r.Players {
		if best == -1 || p.JoinOrder < best {
			best = p.JoinOrder
			r.HostID = p.ID
		}
	}
	return r.HostID, r.HostID != ""
}

// Roster returns the players ordered by join order.
func (r *Room) Roster() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].JoinOrder > out[j].JoinOrder; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// ClassTaken reports whether a class is already claimed by a roster member.
func (r *Room) ClassTaken(class ClassID) bool {
	for _, p := range r.Players {
		if p.Class == class {
			return true
		}
	}
	return false
}

// AllSelected reports whether every roster member has claimed a class.
func (r *Room) AllSelected() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if p.Class == "" {
			return false
		}
	}
	return true
}

// Terminal reports whether the room reached its final phase and must reject
// further game events.
func (r *Room) Terminal() bool {
	return r.Phase == PhaseCompleted
}
