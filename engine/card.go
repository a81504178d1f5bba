package engine

import (
	"fmt"
	"sort"
)

// Suit identifies one of the four card colors.
type Suit uint8

const (
	SuitBlue Suit = iota
	SuitRed
	SuitYellow
	SuitGreen
)

// SuitNone marks the absence of a trump or lead suit.
const SuitNone Suit = 0xFF

// AllSuits lists the four suits in deck order.
var AllSuits = [4]Suit{SuitBlue, SuitRed, SuitYellow, SuitGreen}

func (s Suit) String() string {
	switch s {
	case SuitBlue:
		return "Blue"
	case SuitRed:
		return "Red"
	case SuitYellow:
		return "Yellow"
	case SuitGreen:
		return "Green"
	case SuitNone:
		return "None"
	}
	return fmt.Sprintf("Suit(%d)", uint8(s))
}

// Valid reports whether s is one of the four playable suits.
func (s Suit) Valid() bool { return s < 4 }

// Kind is the rank variant of a card. Regular cards carry a numeric rank;
// Jesters and Wizards do not.
type Kind uint8

const (
	KindRegular Kind = iota
	KindJester
	KindWizard
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "Regular"
	case KindJester:
		return "Jester"
	case KindWizard:
		return "Wizard"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Card is an immutable suit/rank pair. Rank is 1..13 for regular cards and 0
// for Jesters and Wizards. Cards are comparable with ==.
type Card struct {
	Suit Suit
	Kind Kind
	Rank uint8
}

// Regular returns the regular card of the given suit and rank (1..13).
func Regular(suit Suit, rank uint8) Card {
	return Card{Suit: suit, Kind: KindRegular, Rank: rank}
}

// Jester returns the Jester of the given suit.
func Jester(suit Suit) Card {
	return Card{Suit: suit, Kind: KindJester}
}

// Wizard returns the Wizard of the given suit.
func Wizard(suit Suit) Card {
	return Card{Suit: suit, Kind: KindWizard}
}

func (c Card) String() string {
	switch c.Kind {
	case KindJester:
		return fmt.Sprintf("%s Jester", c.Suit)
	case KindWizard:
		return fmt.Sprintf("%s Wizard", c.Suit)
	}
	return fmt.Sprintf("%s %d", c.Suit, c.Rank)
}

// DeckSize is the number of cards in a full deck:
// 4 suits x (13 regular ranks + Jester + Wizard).
const DeckSize = 60

// GenerateDeck returns a fresh full deck in deterministic suit-major order.
func GenerateDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range AllSuits {
		for rank := uint8(1); rank <= 13; rank++ {
			deck = append(deck, Regular(suit, rank))
		}
		deck = append(deck, Jester(suit), Wizard(suit))
	}
	return deck
}

// ---------------------------------------------------------------------------
// Comparator
// ---------------------------------------------------------------------------

// Beats reports whether card beats other, given the round's trump suit and the
// trick's lead suit (either may be SuitNone). The relation is deliberately
// non-total: two regular cards of unrelated suits beat each other in neither
// direction. Trick resolution only ever compares a candidate against the
// running winner, which holds the lead or trump suit once established, so the
// gap never matters there.
//
// Wizard vs Wizard is false in both directions; the first Wizard played stands
// because the trick fold only replaces the running winner on a strict win.
func Beats(card, other Card, trumpSuit, leadSuit Suit) bool {
	// A Jester beats nothing, Jesters played earlier included.
	if card.Kind == KindJester {
		return false
	}
	// Nothing beats a Wizard.
	if other.Kind == KindWizard {
		return false
	}
	if card.Kind == KindWizard {
		return true
	}
	// Any regular card beats a Jester, whatever the Jester's printed suit.
	if other.Kind == KindJester {
		return true
	}
	// Both regular from here on.
	if card.Suit == other.Suit {
		return card.Rank > other.Rank
	}
	if card.Suit == trumpSuit {
		return true
	}
	if other.Suit == trumpSuit {
		return false
	}
	// Assume other is the lead card when no lead suit is given.
	lead := leadSuit
	if lead == SuitNone {
		lead = other.Suit
	}
	if card.Suit == lead {
		return true
	}
	// other holds the lead, or the suits are unrelated: no winner.
	return false
}

// ---------------------------------------------------------------------------
// Lead suit derivation
// ---------------------------------------------------------------------------

// LeadStatus describes how the lead suit constrains the current trick.
type LeadStatus uint8

const (
	// LeadNone: only Jesters have been played, no suit is established yet.
	LeadNone LeadStatus = iota
	// LeadAny: a Wizard turned up before any regular card, lifting the
	// follow-suit restriction for the whole trick.
	LeadAny
	// LeadSet: the first regular card established the lead suit.
	LeadSet
)

// LeadSuit scans the played cards in order, skipping leading Jesters, and
// returns the suit of the first regular card. A Wizard encountered first
// yields LeadAny; a sequence of nothing but Jesters yields LeadNone. The
// returned suit is SuitNone unless the status is LeadSet.
func LeadSuit(played []Card) (Suit, LeadStatus) {
	for _, c := range played {
		switch c.Kind {
		case KindWizard:
			return SuitNone, LeadAny
		case KindRegular:
			return c.Suit, LeadSet
		}
	}
	return SuitNone, LeadNone
}

// ---------------------------------------------------------------------------
// Playability
// ---------------------------------------------------------------------------

// SuitsInHand returns the suits for which the hand holds at least one regular
// card, in suit order. Jesters and Wizards do not establish a held suit.
func SuitsInHand(hand []Card) []Suit {
	var suits []Suit
	for _, suit := range AllSuits {
		for _, c := range hand {
			if c.Kind == KindRegular && c.Suit == suit {
				suits = append(suits, suit)
				break
			}
		}
	}
	return suits
}

// CanPlay reports whether card may be played given the suits held in hand and
// the trick's effective lead card (nil when the card would itself lead, or
// when only Jesters have been played so far).
//
// A Jester passed as the lead card is an internal invariant violation: lead
// derivation skips Jesters, so one must never be recorded as the effective
// lead. CanPlay returns a StateError rather than guessing.
func CanPlay(card Card, suitsInHand []Suit, lead *Card) (bool, error) {
	// As lead, every card can be played.
	if lead == nil {
		return true, nil
	}
	// Jesters and Wizards can always be played.
	if card.Kind == KindJester || card.Kind == KindWizard {
		return true, nil
	}
	if lead.Kind == KindJester {
		return false, &StateError{Detail: fmt.Sprintf("jester %s recorded as trick lead", lead)}
	}
	// A leading Wizard lifts the follow-suit restriction.
	if lead.Kind == KindWizard {
		return true, nil
	}
	// Follow suit if able.
	if !containsSuit(suitsInHand, lead.Suit) {
		return true, nil
	}
	return card.Suit == lead.Suit, nil
}

// PlayableCards returns a per-card playability vector for the hand against the
// given effective lead card.
func PlayableCards(hand []Card, lead *Card) ([]bool, error) {
	suits := SuitsInHand(hand)
	playable := make([]bool, len(hand))
	for i, c := range hand {
		ok, err := CanPlay(c, suits, lead)
		if err != nil {
			return nil, err
		}
		playable[i] = ok
	}
	return playable, nil
}

func containsSuit(suits []Suit, suit Suit) bool {
	for _, s := range suits {
		if s == suit {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Hand sorting
// ---------------------------------------------------------------------------

// SortHand returns a new slice with the hand arranged for display: Jesters
// first, then non-trump suits by ascending count held, then the trump suit,
// then Wizards, each group in ascending rank order. The input is not mutated.
func SortHand(hand []Card, trumpSuit Suit) []Card {
	var jesters, wizards []Card
	bySuit := make(map[Suit][]Card)
	for _, c := range hand {
		switch c.Kind {
		case KindJester:
			jesters = append(jesters, c)
		case KindWizard:
			wizards = append(wizards, c)
		default:
			bySuit[c.Suit] = append(bySuit[c.Suit], c)
		}
	}

	// Non-trump suits by ascending count, suit order breaking ties.
	var order []Suit
	for _, suit := range AllSuits {
		if suit != trumpSuit && len(bySuit[suit]) > 0 {
			order = append(order, suit)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(bySuit[order[i]]) < len(bySuit[order[j]])
	})
	if trumpSuit != SuitNone && len(bySuit[trumpSuit]) > 0 {
		order = append(order, trumpSuit)
	}

	sorted := make([]Card, 0, len(hand))
	sorted = append(sorted, jesters...)
	for _, suit := range order {
		group := bySuit[suit]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Rank < group[j].Rank })
		sorted = append(sorted, group...)
	}
	return append(sorted, wizards...)
}
