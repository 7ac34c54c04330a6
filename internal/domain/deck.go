package domain

import "math/rand"

// ModifierKind classifies an attack modifier card.
type ModifierKind string

const (
	// ModifierAdd adjusts damage by the card's value.
	ModifierAdd ModifierKind = "add"
	// ModifierDouble doubles the base damage and triggers a reshuffle.
	ModifierDouble ModifierKind = "double"
	// ModifierMiss forces the attack to zero and triggers a reshuffle.
	ModifierMiss ModifierKind = "miss"
)

// Modifier is one attack modifier card.
type Modifier struct {
	Kind  ModifierKind `json:"kind"`
	Value int          `json:"value,omitempty"`
}

// modifierComposition is the fixed 20-card multiset every deck reshuffles
// back to.
var modifierComposition = []Modifier{
	{Kind: ModifierAdd, Value: 2},
	{Kind: ModifierAdd, Value: 1}, {Kind: ModifierAdd, Value: 1}, {Kind: ModifierAdd, Value: 1},
	{Kind: ModifierAdd, Value: 1}, {Kind: ModifierAdd, Value: 1},
	{Kind: ModifierAdd, Value: 0}, {Kind: ModifierAdd, Value: 0}, {Kind: ModifierAdd, Value: 0},
	{Kind: ModifierAdd, Value: 0}, {Kind: ModifierAdd, Value: 0}, {Kind: ModifierAdd, Value: 0},
	{Kind: ModifierAdd, Value: -1}, {Kind: ModifierAdd, Value: -1}, {Kind: ModifierAdd, Value: -1},
	{Kind: ModifierAdd, Value: -1}, {Kind: ModifierAdd, Value: -1},
	{Kind: ModifierAdd, Value: -2},
	{Kind: ModifierDouble},
	{Kind: ModifierMiss},
}

// ModifierDeckSize is the number of cards in a full deck.
const ModifierDeckSize = 20

// ModifierComposition returns a copy of the full fixed composition.
func ModifierComposition() []Modifier {
	out := make([]Modifier, len(modifierComposition))
	copy(out, modifierComposition)
	return out
}

// ModifierDeck is a shuffled attack modifier deck. Randomness comes from the
// room-scoped rng so draw sequences are reproducible for a fixed seed.
type ModifierDeck struct {
	rng   *rand.Rand
	cards []Modifier // remaining cards in draw order
}

// NewModifierDeck returns a freshly shuffled full deck.
func NewModifierDeck(rng *rand.Rand) *ModifierDeck {
	d := &ModifierDeck{rng: rng}
	d.Reset()
	return d
}

// Reset rebuilds the deck as a new random permutation of the full
// composition.
func (d *ModifierDeck) Reset() {
	d.cards = ModifierComposition()
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the next card. Drawing a miss or double card
// triggers an immediate reshuffle after the drawn value is taken; the drawn
// card's effect still applies once. The second return reports that
// reshuffle so callers can emit a notification.
func (d *ModifierDeck) Draw() (Modifier, bool) {
	if len(d.cards) == 0 {
		// Exhausted without a trigger card; cannot happen with the fixed
		// composition but reshuffling keeps the deck usable.
		d.Reset()
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	if card.Kind == ModifierMiss || card.Kind == ModifierDouble {
		d.Reset()
		return card, true
	}
	return card, false
}

// Remaining returns the number of cards left before the next reshuffle.
func (d *ModifierDeck) Remaining() int {
	return len(d.cards)
}

// ResolveDamage applies a drawn modifier to a base damage value. Damage
// never goes below zero; a miss forces zero regardless of base and a double
// doubles the base before any other consideration.
func ResolveDamage(base int, m Modifier) int {
	switch m.Kind {
	case ModifierMiss:
		return 0
	case ModifierDouble:
		return base * 2
	default:
		if dmg := base + m.Value; dmg > 0 {
			return dmg
		}
		return 0
	}
}
