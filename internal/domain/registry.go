package domain

import "fmt"

// ConnectionRegistry keeps the bidirectional mapping between live transport
// sessions and durable player identities for one room.
//
// All methods must be called from the room's single writer (the match loop
// goroutine); the registry itself carries no locking.
type ConnectionRegistry struct {
	bySession map[SessionID]PlayerID
	byPlayer  map[PlayerID]SessionID
}

// NewConnectionRegistry returns an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		bySession: make(map[SessionID]PlayerID),
		byPlayer:  make(map[PlayerID]SessionID),
	}
}

// Connect installs the session -> player mapping. If the player still has an
// older session registered (slow-closing socket, reconnect race), that stale
// entry is removed first and returned so the caller can surface a
// "stale session replaced" event.
func (cr *ConnectionRegistry) Connect(session SessionID, player PlayerID) (stale SessionID, replaced bool) {
	if old, ok := cr.byPlayer[player]; ok && old != session {
		delete(cr.bySession, old)
		stale = old
		replaced = true
	}
	cr.bySession[session] = player
	cr.byPlayer[player] = session
	return stale, replaced
}

// Disconnect removes the mapping for a session. A disconnect arriving late
// for a session that was already replaced is a no-op: it must not erase the
// player's new, valid mapping.
func (cr *ConnectionRegistry) Disconnect(session SessionID) (PlayerID, bool) {
	player, ok := cr.bySession[session]
	if !ok {
		return "", false
	}
	delete(cr.bySession, session)
	if cr.byPlayer[player] == session {
		delete(cr.byPlayer, player)
	}
	return player, true
}

// Resolve maps a session id to the player identity it belongs to.
func (cr *ConnectionRegistry) Resolve(session SessionID) (PlayerID, bool) {
	p, ok := cr.bySession[session]
	return p, ok
}

// SessionFor returns the live session for a player, if any.
func (cr *ConnectionRegistry) SessionFor(player PlayerID) (SessionID, bool) {
	s, ok := cr.byPlayer[player]
	return s, ok
}

// Connected reports whether the player has a live session.
func (cr *ConnectionRegistry) Connected(player PlayerID) bool {
	_, ok := cr.byPlayer[player]
	return ok
}

// CheckInverse verifies that the session->player and player->session maps
// are mutual inverses. A failure here is a room-fatal bug, not a client
// error.
func (cr *ConnectionRegistry) CheckInverse() error {
	if len(cr.bySession) != len(cr.byPlayer) {
		return fmt.Errorf("registry size mismatch: %d sessions vs %d players", len(cr.bySession), len(cr.byPlayer))
	}
	for s, p := range cr.bySession {
		if cr.byPlayer[p] != s {
			return fmt.Errorf("registry not inverse for player %s: session %s vs %s", p, s, cr.byPlayer[p])
		}
	}
	return nil
}
