package engine

import (
	"errors"
	"reflect"
	"testing"
)

// TestGenerateDeck verifies a full deck has 60 unique cards in suit-major order.
func TestGenerateDeck(t *testing.T) {
	deck := GenerateDeck()
	if len(deck) != DeckSize {
		t.Fatalf("len(deck) = %d, want %d", len(deck), DeckSize)
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
	perSuit := make(map[Suit]int)
	for _, c := range deck {
		perSuit[c.Suit]++
	}
	for _, suit := range AllSuits {
		if perSuit[suit] != 15 {
			t.Errorf("suit %s has %d cards, want 15", suit, perSuit[suit])
		}
	}
	// Suit-major: first 15 cards are all Blue, ending with Jester then Wizard.
	for i := 0; i < 15; i++ {
		if deck[i].Suit != SuitBlue {
			t.Errorf("deck[%d].Suit = %s, want Blue", i, deck[i].Suit)
		}
	}
	if deck[13].Kind != KindJester || deck[14].Kind != KindWizard {
		t.Errorf("deck[13..14] = %s, %s; want Blue Jester, Blue Wizard", deck[13], deck[14])
	}
}

// TestBeatsJesterNeverWins verifies a Jester beats nothing under any trump or
// lead suit, and that everything else beats a Jester.
func TestBeatsJesterNeverWins(t *testing.T) {
	deck := GenerateDeck()
	optSuits := []Suit{SuitBlue, SuitRed, SuitYellow, SuitGreen, SuitNone}
	for _, jesterSuit := range AllSuits {
		j := Jester(jesterSuit)
		for _, other := range deck {
			for _, trump := range optSuits {
				for _, lead := range optSuits {
					if Beats(j, other, trump, lead) {
						t.Fatalf("Beats(%s, %s, %s, %s) = true, want false", j, other, trump, lead)
					}
					if other.Kind != KindJester && !Beats(other, j, trump, lead) {
						t.Fatalf("Beats(%s, %s, %s, %s) = false, want true", other, j, trump, lead)
					}
				}
			}
		}
	}
}

// TestBeatsWizard verifies a Wizard beats every non-Wizard and loses to none,
// and that Wizard vs Wizard is false in both directions.
func TestBeatsWizard(t *testing.T) {
	deck := GenerateDeck()
	w := Wizard(SuitBlue)
	for _, other := range deck {
		if other.Kind == KindWizard {
			if Beats(w, other, SuitRed, SuitYellow) {
				t.Errorf("Beats(%s, %s) = true, want false for Wizard vs Wizard", w, other)
			}
			if other != w && Beats(other, w, SuitRed, SuitYellow) {
				t.Errorf("Beats(%s, %s) = true, want false for Wizard vs Wizard", other, w)
			}
			continue
		}
		if !Beats(w, other, SuitRed, SuitYellow) {
			t.Errorf("Beats(%s, %s) = false, want true", w, other)
		}
		if Beats(other, w, SuitRed, SuitYellow) {
			t.Errorf("Beats(%s, %s) = true, want false", other, w)
		}
	}
}

// TestBeatsSameSuit verifies higher rank wins within a suit.
func TestBeatsSameSuit(t *testing.T) {
	for _, suit := range AllSuits {
		for hi := uint8(2); hi <= 13; hi++ {
			for lo := uint8(1); lo < hi; lo++ {
				a, b := Regular(suit, hi), Regular(suit, lo)
				if !Beats(a, b, SuitNone, SuitNone) {
					t.Errorf("Beats(%s, %s) = false, want true", a, b)
				}
				if Beats(b, a, SuitNone, SuitNone) {
					t.Errorf("Beats(%s, %s) = true, want false", b, a)
				}
			}
		}
	}
}

// TestBeatsTrumpAndLead verifies trump beats non-trump, lead beats unrelated
// suits, and trump outranks lead.
func TestBeatsTrumpAndLead(t *testing.T) {
	tests := []struct {
		name        string
		card, other Card
		trump, lead Suit
		want        bool
	}{
		{"trump beats lead", Regular(SuitGreen, 2), Regular(SuitBlue, 13), SuitGreen, SuitBlue, true},
		{"lead loses to trump", Regular(SuitBlue, 13), Regular(SuitGreen, 2), SuitGreen, SuitBlue, false},
		{"lead beats offsuit", Regular(SuitBlue, 2), Regular(SuitRed, 13), SuitNone, SuitBlue, true},
		{"offsuit loses to lead", Regular(SuitRed, 13), Regular(SuitBlue, 2), SuitNone, SuitBlue, false},
		{"other treated as lead when no lead given", Regular(SuitRed, 13), Regular(SuitBlue, 2), SuitNone, SuitNone, false},
		{"trump beats offsuit without lead", Regular(SuitGreen, 2), Regular(SuitBlue, 13), SuitGreen, SuitNone, true},
	}
	for _, tt := range tests {
		if got := Beats(tt.card, tt.other, tt.trump, tt.lead); got != tt.want {
			t.Errorf("%s: Beats(%s, %s, trump=%s, lead=%s) = %v, want %v",
				tt.name, tt.card, tt.other, tt.trump, tt.lead, got, tt.want)
		}
	}
}

// TestBeatsUnrelatedSuitsNoWinner verifies the deliberate asymmetry: two
// cards that are neither trump nor lead suit beat each other in neither
// direction.
func TestBeatsUnrelatedSuitsNoWinner(t *testing.T) {
	a := Regular(SuitRed, 13)
	b := Regular(SuitYellow, 2)
	if Beats(a, b, SuitGreen, SuitBlue) || Beats(b, a, SuitGreen, SuitBlue) {
		t.Errorf("unrelated suits must have no winner: Beats(%s,%s)=%v Beats(%s,%s)=%v",
			a, b, Beats(a, b, SuitGreen, SuitBlue), b, a, Beats(b, a, SuitGreen, SuitBlue))
	}
}

func TestLeadSuit(t *testing.T) {
	tests := []struct {
		name       string
		played     []Card
		wantSuit   Suit
		wantStatus LeadStatus
	}{
		{"first regular card leads", []Card{Regular(SuitBlue, 4), Regular(SuitRed, 9)}, SuitBlue, LeadSet},
		{"wizard later ignored", []Card{Regular(SuitGreen, 13), Wizard(SuitRed), Regular(SuitRed, 13)}, SuitGreen, LeadSet},
		{"jesters skipped", []Card{Jester(SuitBlue), Regular(SuitRed, 9)}, SuitRed, LeadSet},
		{"two jesters skipped", []Card{Jester(SuitGreen), Jester(SuitRed), Regular(SuitYellow, 4)}, SuitYellow, LeadSet},
		{"all jesters", []Card{Jester(SuitBlue), Jester(SuitRed), Jester(SuitYellow)}, SuitNone, LeadNone},
		{"wizard first", []Card{Wizard(SuitBlue), Regular(SuitRed, 13)}, SuitNone, LeadAny},
		{"wizard after jester", []Card{Jester(SuitGreen), Wizard(SuitRed), Regular(SuitYellow, 1)}, SuitNone, LeadAny},
		{"empty", nil, SuitNone, LeadNone},
	}
	for _, tt := range tests {
		suit, status := LeadSuit(tt.played)
		if suit != tt.wantSuit || status != tt.wantStatus {
			t.Errorf("%s: LeadSuit = (%s, %d), want (%s, %d)", tt.name, suit, status, tt.wantSuit, tt.wantStatus)
		}
	}
}

func TestSuitsInHand(t *testing.T) {
	hand := []Card{
		Regular(SuitRed, 3),
		Jester(SuitBlue),
		Wizard(SuitYellow),
		Regular(SuitRed, 9),
		Regular(SuitGreen, 1),
	}
	got := SuitsInHand(hand)
	want := []Suit{SuitRed, SuitGreen}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SuitsInHand = %v, want %v (specials must not establish a suit)", got, want)
	}
	if SuitsInHand(nil) != nil {
		t.Errorf("SuitsInHand(nil) = %v, want nil", SuitsInHand(nil))
	}
}

func TestCanPlay(t *testing.T) {
	lead := func(c Card) *Card { return &c }
	allFour := []Suit{SuitBlue, SuitRed, SuitYellow, SuitGreen}

	tests := []struct {
		name        string
		card        Card
		suitsInHand []Suit
		lead        *Card
		want        bool
	}{
		{"no lead card", Regular(SuitGreen, 4), allFour, nil, true},
		{"wizard always playable", Wizard(SuitBlue), allFour, lead(Regular(SuitRed, 8)), true},
		{"jester always playable", Jester(SuitBlue), allFour, lead(Regular(SuitRed, 8)), true},
		{"lead suit card playable", Regular(SuitRed, 3), allFour, lead(Regular(SuitRed, 8)), true},
		{"offsuit playable when lead suit not held", Regular(SuitGreen, 4), []Suit{SuitGreen, SuitYellow, SuitRed}, lead(Regular(SuitBlue, 8)), true},
		{"offsuit rejected when lead suit held", Regular(SuitGreen, 4), []Suit{SuitBlue, SuitGreen}, lead(Regular(SuitBlue, 8)), false},
		{"any card when wizard leads", Regular(SuitGreen, 4), allFour, lead(Wizard(SuitBlue)), true},
	}
	for _, tt := range tests {
		got, err := CanPlay(tt.card, tt.suitsInHand, tt.lead)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: CanPlay = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestCanPlayJesterLead verifies a Jester recorded as the effective lead is
// reported as an invariant violation, not a rejection.
func TestCanPlayJesterLead(t *testing.T) {
	j := Jester(SuitYellow)
	_, err := CanPlay(Regular(SuitBlue, 7), []Suit{SuitBlue}, &j)
	if err == nil {
		t.Fatal("expected error for Jester lead")
	}
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T (%v), want *StateError", err, err)
	}
	if _, ok := RejectReason(err); ok {
		t.Error("StateError must not carry a rejection reason")
	}
}

func TestPlayableCards(t *testing.T) {
	hand := []Card{
		Regular(SuitBlue, 7),
		Regular(SuitRed, 13),
		Regular(SuitYellow, 2),
		Jester(SuitBlue),
		Wizard(SuitBlue),
	}

	leadY := Regular(SuitYellow, 11)
	got, err := PlayableCards(hand, &leadY)
	if err != nil {
		t.Fatalf("PlayableCards: %v", err)
	}
	want := []bool{false, false, true, true, true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lead Yellow 11: playable = %v, want %v", got, want)
	}

	// Wizard lead frees every card.
	leadW := Wizard(SuitYellow)
	got, err = PlayableCards(hand, &leadW)
	if err != nil {
		t.Fatalf("PlayableCards: %v", err)
	}
	for i, ok := range got {
		if !ok {
			t.Errorf("wizard lead: hand[%d] not playable", i)
		}
	}

	// No lead frees every card.
	got, err = PlayableCards(hand, nil)
	if err != nil {
		t.Fatalf("PlayableCards: %v", err)
	}
	for i, ok := range got {
		if !ok {
			t.Errorf("no lead: hand[%d] not playable", i)
		}
	}
}

func TestSortHand(t *testing.T) {
	hand := []Card{
		Wizard(SuitRed),
		Regular(SuitGreen, 9),
		Regular(SuitBlue, 12),
		Jester(SuitYellow),
		Regular(SuitGreen, 2),
		Regular(SuitRed, 5),
		Regular(SuitGreen, 6),
	}
	original := append([]Card(nil), hand...)

	got := SortHand(hand, SuitGreen)
	// Jesters first. Blue and Red each hold one non-trump card, so suit
	// order breaks the count tie (Blue first), then trump Green ascending,
	// then Wizards.
	want := []Card{
		Jester(SuitYellow),
		Regular(SuitBlue, 12),
		Regular(SuitRed, 5),
		Regular(SuitGreen, 2),
		Regular(SuitGreen, 6),
		Regular(SuitGreen, 9),
		Wizard(SuitRed),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortHand = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(hand, original) {
		t.Errorf("SortHand mutated its input: %v", hand)
	}
}

// TestSortHandCountOrder verifies non-trump groups order by ascending count.
func TestSortHandCountOrder(t *testing.T) {
	hand := []Card{
		Regular(SuitRed, 1),
		Regular(SuitRed, 2),
		Regular(SuitBlue, 3),
		Regular(SuitBlue, 4),
		Regular(SuitBlue, 5),
		Regular(SuitYellow, 6),
	}
	got := SortHand(hand, SuitNone)
	want := []Card{
		Regular(SuitYellow, 6),
		Regular(SuitRed, 1),
		Regular(SuitRed, 2),
		Regular(SuitBlue, 3),
		Regular(SuitBlue, 4),
		Regular(SuitBlue, 5),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortHand = %v, want %v", got, want)
	}
}
