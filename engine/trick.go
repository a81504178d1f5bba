package engine

// TrickCard pairs a played card with the seat that played it.
type TrickCard struct {
	Card Card
	Seat int
}

// Trick holds the cards played so far in the current trick, in play order.
// A fresh Trick replaces the old one wholesale after resolution.
type Trick struct {
	Cards []TrickCard
}

// NewTrick returns an empty trick.
func NewTrick() *Trick {
	return &Trick{}
}

// Len returns the number of cards played so far.
func (t *Trick) Len() int { return len(t.Cards) }

// IsComplete reports whether every seat has played into the trick.
func (t *Trick) IsComplete(numPlayers int) bool {
	return len(t.Cards) >= numPlayers
}

// LeadCard returns the trick's effective lead card: the first played card that
// is not a Jester. It returns nil while the trick is empty or holds nothing
// but Jesters, in which case no follow-suit restriction applies yet.
func (t *Trick) LeadCard() *Card {
	for i := range t.Cards {
		if t.Cards[i].Card.Kind != KindJester {
			return &t.Cards[i].Card
		}
	}
	return nil
}

// played returns just the cards, in play order.
func (t *Trick) played() []Card {
	cards := make([]Card, len(t.Cards))
	for i, tc := range t.Cards {
		cards[i] = tc.Card
	}
	return cards
}

// Winner resolves a complete trick by a left-fold: the running winner starts
// as the first played card and is replaced only on a strict Beats result.
// Ties therefore resolve to the card already winning, which is what makes the
// first-played Wizard stand against later Wizards. Resolving a trick with
// fewer than two cards is an invariant violation.
func (t *Trick) Winner(trumpSuit Suit) (TrickCard, error) {
	if len(t.Cards) < 2 {
		return TrickCard{}, &StateError{Detail: "cannot resolve a trick with fewer than two cards"}
	}
	leadSuit, _ := LeadSuit(t.played())
	winning := t.Cards[0]
	for _, tc := range t.Cards[1:] {
		if Beats(tc.Card, winning.Card, trumpSuit, leadSuit) {
			winning = tc
		}
	}
	return winning, nil
}
