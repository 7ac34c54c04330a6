package domain

import "errors"

// Element is one of the six infusable elements.
type Element string

const (
	ElementFire  Element = "fire"
	ElementIce   Element = "ice"
	ElementAir   Element = "air"
	ElementEarth Element = "earth"
	ElementLight Element = "light"
	ElementDark  Element = "dark"
)

// Elements lists the fixed six-element domain in display order.
var Elements = []Element{ElementFire, ElementIce, ElementAir, ElementEarth, ElementLight, ElementDark}

// ElementState is the infusion strength of one slot.
type ElementState string

const (
	ElementInert  ElementState = "inert"
	ElementStrong ElementState = "strong"
	ElementWaning ElementState = "waning"
)

var (
	// ErrNotStrong is returned when consuming a slot that is not strong.
	ErrNotStrong = errors.New("element is not strong")
	// ErrUnknownElement is returned for an element outside the fixed six.
	ErrUnknownElement = errors.New("unknown element")
)

// ElementalBoard tracks infusion state for the six shared element slots of
// one room.
type ElementalBoard struct {
	slots map[Element]ElementState
}

// NewElementalBoard returns a board with all slots inert.
func NewElementalBoard() *ElementalBoard {
	slots := make(map[Element]ElementState, len(Elements))
	for _, e := range Elements {
		slots[e] = ElementInert
	}
	return &ElementalBoard{slots: slots}
}

// Generate sets a slot to strong regardless of its prior state. Generating
// a waning slot refreshes it rather than stacking.
func (b *ElementalBoard) Generate(e Element) error {
	if _, ok := b.slots[e]; !ok {
		return ErrUnknownElement
	}
	b.slots[e] = ElementStrong
	return nil
}

// Consume spends a strong slot, moving it straight to waning. A slot that
// is inert or already waning fails with ErrNotStrong and is left unchanged.
func (b *ElementalBoard) Consume(e Element) error {
	state, ok := b.slots[e]
	if !ok {
		return ErrUnknownElement
	}
	if state != ElementStrong {
		return ErrNotStrong
	}
	b.slots[e] = ElementWaning
	return nil
}

// DecayRound advances every slot one step at the round boundary:
// strong -> waning, waning -> inert. Must be called exactly once per round.
func (b *ElementalBoard) DecayRound() {
	for e, state := range b.slots {
		switch state {
		case ElementStrong:
			b.slots[e] = ElementWaning
		case ElementWaning:
			b.slots[e] = ElementInert
		}
	}
}

// State returns the current state of one slot.
func (b *ElementalBoard) State(e Element) (ElementState, bool) {
	s, ok := b.slots[e]
	return s, ok
}

// States returns a snapshot of all slots.
func (b *ElementalBoard) States() map[Element]ElementState {
	out := make(map[Element]ElementState, len(b.slots))
	for e, s := range b.slots {
		out[e] = s
	}
	return out
}
