package domain

import (
	"errors"
	"sort"
)

// RoundPhase is the turn scheduler's state for the current round.
type RoundPhase string

const (
	// RoundAwaitingSelection collects each character's two-card selection.
	RoundAwaitingSelection RoundPhase = "awaiting_card_selection"
	// RoundResolving walks the initiative-ordered entries one at a time.
	RoundResolving RoundPhase = "resolving"
	// RoundComplete is the boundary state before the next round begins.
	RoundComplete RoundPhase = "round_complete"
)

// TurnStatus is the resolution status of one turn entry.
type TurnStatus string

const (
	TurnPending TurnStatus = "pending"
	TurnActing  TurnStatus = "acting"
	TurnDone    TurnStatus = "done"
	TurnSkipped TurnStatus = "skipped"
)

var (
	// ErrAlreadySubmitted rejects duplicate card selections in one round.
	ErrAlreadySubmitted = errors.New("cards already submitted this round")
	// ErrNotYourTurn rejects actions from any entry that is not active.
	ErrNotYourTurn = errors.New("not the active turn entry")
	// ErrRoundPhase rejects operations invalid for the round phase.
	ErrRoundPhase = errors.New("operation invalid for round phase")
)

// TurnEntry is one actor's slot in the round's resolution order.
type TurnEntry struct {
	Actor      ActorID
	TopCard    CardID // characters only
	BottomCard CardID
	Initiative int
	Status     TurnStatus
}

// Round owns card submissions and the ordered turn sequence for one round.
// Ordering is deterministic: ascending initiative, ties broken by the
// actors' stable join order.
type Round struct {
	Number  int
	Phase   RoundPhase
	Entries []TurnEntry
	active  int
}

// NewRound starts round n in the card-selection state.
func NewRound(n int) *Round {
	return &Round{Number: n, Phase: RoundAwaitingSelection, active: -1}
}

// Submit records an actor's selection for this round. Characters pass their
// two chosen cards; monsters submit with empty card ids and a content-driven
// initiative.
func (r *Round) Submit(actor ActorID, top, bottom CardID, initiative int) error {
	if r.Phase != RoundAwaitingSelection {
		return ErrRoundPhase
	}
	for _, e := range r.Entries {
		if e.Actor == actor {
			return ErrAlreadySubmitted
		}
	}
	r.Entries = append(r.Entries, TurnEntry{
		Actor:      actor,
		TopCard:    top,
		BottomCard: bottom,
		Initiative: initiative,
		Status:     TurnPending,
	})
	return nil
}

// Submitted reports whether the actor has a selection recorded this round.
func (r *Round) Submitted(actor ActorID) bool {
	for _, e := range r.Entries {
		if e.Actor == actor {
			return true
		}
	}
	return false
}

// Order freezes the turn sequence and transitions to resolving. joinOrder
// supplies the stable tie-break key per actor; it must be identical on every
// replica of the state. The first entry becomes acting.
func (r *Round) Order(joinOrder map[ActorID]int) error {
	if r.Phase != RoundAwaitingSelection {
		return ErrRoundPhase
	}
	if len(r.Entries) == 0 {
		return ErrRoundPhase
	}
	sort.SliceStable(r.Entries, func(i, j int) bool {
		a, b := r.Entries[i], r.Entries[j]
		if a.Initiative != b.Initiative {
			return a.Initiative < b.Initiative
		}
		return joinOrder[a.Actor] < joinOrder[b.Actor]
	})
	r.Phase = RoundResolving
	r.active = 0
	r.Entries[0].Status = TurnActing
	return nil
}

// Active returns the entry currently allowed to act, or nil outside the
// resolving phase.
func (r *Round) Active() *TurnEntry {
	if r.Phase != RoundResolving || r.active < 0 || r.active >= len(r.Entries) {
		return nil
	}
	return &r.Entries[r.active]
}

// IsActive reports whether the actor owns the currently acting entry.
func (r *Round) IsActive(actor ActorID) bool {
	e := r.Active()
	return e != nil && e.Actor == actor
}

// Finish closes the active entry with the given terminal status and
// activates the next pending entry. Entries whose actor is no longer alive
// are skipped over. Returns the newly active entry, or nil with complete
// true once the sequence is exhausted and the round boundary is reached.
func (r *Round) Finish(status TurnStatus, alive func(ActorID) bool) (next *TurnEntry, complete bool, err error) {
	e := r.Active()
	if e == nil {
		return nil, false, ErrRoundPhase
	}
	if status != TurnDone && status != TurnSkipped {
		return nil, false, ErrRoundPhase
	}
	e.Status = status
	for r.active++; r.active < len(r.Entries); r.active++ {
		entry := &r.Entries[r.active]
		if !alive(entry.Actor) {
			entry.Status = TurnSkipped
			continue
		}
		entry.Status = TurnActing
		return entry, false, nil
	}
	r.Phase = RoundComplete
	r.active = -1
	return nil, true, nil
}

// ActingCount returns the number of entries currently marked acting. The
// scheduler's core guarantee is that this never exceeds one.
func (r *Round) ActingCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == TurnActing {
			n++
		}
	}
	return n
}

// CharacterInitiative derives a character's initiative for the round: the
// lower of the two printed initiative values on its selected cards.
func CharacterInitiative(top, bottom ActionCard) int {
	if bottom.Initiative < top.Initiative {
		return bottom.Initiative
	}
	return top.Initiative
}
