package engine

import (
	"errors"
	"testing"
)

func trickOf(cards ...TrickCard) *Trick {
	return &Trick{Cards: cards}
}

func tc(card Card, seat int) TrickCard {
	return TrickCard{Card: card, Seat: seat}
}

// TestTrickWinnerFirstWizard verifies the first Wizard played wins even when
// later Wizards follow.
func TestTrickWinnerFirstWizard(t *testing.T) {
	tests := []struct {
		name     string
		trick    *Trick
		trump    Suit
		wantSeat int
	}{
		{
			"wizard leads",
			trickOf(tc(Wizard(SuitBlue), 1), tc(Regular(SuitRed, 13), 2), tc(Regular(SuitYellow, 8), 0)),
			SuitYellow, 1,
		},
		{
			"wizard last",
			trickOf(tc(Regular(SuitRed, 13), 0), tc(Regular(SuitYellow, 8), 1), tc(Wizard(SuitBlue), 2)),
			SuitYellow, 2,
		},
		{
			"second wizard does not overtake",
			trickOf(tc(Regular(SuitRed, 13), 2), tc(Wizard(SuitYellow), 0), tc(Wizard(SuitBlue), 1)),
			SuitRed, 0,
		},
		{
			"all wizards: first stands",
			trickOf(tc(Wizard(SuitRed), 1), tc(Wizard(SuitYellow), 2), tc(Wizard(SuitBlue), 0)),
			SuitGreen, 1,
		},
		{
			"wizard lead then three regulars",
			trickOf(tc(Wizard(SuitBlue), 3), tc(Regular(SuitGreen, 13), 0), tc(Regular(SuitBlue, 13), 1), tc(Regular(SuitRed, 13), 2)),
			SuitGreen, 3,
		},
	}
	for _, tt := range tests {
		winner, err := tt.trick.Winner(tt.trump)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if winner.Seat != tt.wantSeat {
			t.Errorf("%s: winner seat %d, want %d", tt.name, winner.Seat, tt.wantSeat)
		}
	}
}

// TestTrickWinnerLeadAndTrump verifies regular resolution: highest lead-suit
// rank without trump, highest trump otherwise.
func TestTrickWinnerLeadAndTrump(t *testing.T) {
	tests := []struct {
		name     string
		trick    *Trick
		trump    Suit
		wantSeat int
	}{
		{
			"highest lead rank without trump",
			trickOf(tc(Regular(SuitRed, 7), 0), tc(Regular(SuitYellow, 13), 1), tc(Regular(SuitRed, 9), 2)),
			SuitGreen, 2,
		},
		{
			"lead beats higher offsuit",
			trickOf(tc(Regular(SuitBlue, 3), 1), tc(Regular(SuitBlue, 2), 2), tc(Regular(SuitRed, 9), 0)),
			SuitGreen, 1,
		},
		{
			"trump overtakes lead",
			trickOf(tc(Regular(SuitRed, 7), 2), tc(Regular(SuitGreen, 1), 0), tc(Regular(SuitRed, 9), 1)),
			SuitGreen, 0,
		},
		{
			"lead suit is trump",
			trickOf(tc(Regular(SuitBlue, 3), 0), tc(Regular(SuitBlue, 2), 1), tc(Regular(SuitRed, 9), 2)),
			SuitBlue, 0,
		},
		{
			"jester led, trump in trick",
			trickOf(tc(Regular(SuitGreen, 10), 1), tc(Jester(SuitBlue), 2), tc(Regular(SuitBlue, 9), 0)),
			SuitBlue, 0,
		},
	}
	for _, tt := range tests {
		winner, err := tt.trick.Winner(tt.trump)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if winner.Seat != tt.wantSeat {
			t.Errorf("%s: winner seat %d, want %d", tt.name, winner.Seat, tt.wantSeat)
		}
	}
}

// TestTrickWinnerLeadingJesters verifies the lead passes over Jesters to the
// first regular card, including a trump-suited Jester that counts for nothing.
func TestTrickWinnerLeadingJesters(t *testing.T) {
	tests := []struct {
		name     string
		trick    *Trick
		trump    Suit
		wantSeat int
	}{
		{
			"all jesters: first wins",
			trickOf(tc(Jester(SuitRed), 2), tc(Jester(SuitYellow), 0), tc(Jester(SuitBlue), 1)),
			SuitGreen, 2,
		},
		{
			"jester led, trump decides",
			trickOf(tc(Jester(SuitRed), 3), tc(Regular(SuitGreen, 1), 0), tc(Regular(SuitRed, 13), 1), tc(Regular(SuitGreen, 9), 2)),
			SuitGreen, 2,
		},
		{
			"jester led, effective lead from second card",
			trickOf(tc(Jester(SuitBlue), 0), tc(Regular(SuitBlue, 2), 1), tc(Regular(SuitRed, 9), 2), tc(Regular(SuitBlue, 1), 3)),
			SuitBlue, 1,
		},
		{
			"trump-suited jester counts for nothing",
			trickOf(tc(Jester(SuitGreen), 2), tc(Regular(SuitBlue, 2), 3), tc(Regular(SuitRed, 9), 0), tc(Regular(SuitBlue, 5), 1)),
			SuitGreen, 1,
		},
	}
	for _, tt := range tests {
		winner, err := tt.trick.Winner(tt.trump)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if winner.Seat != tt.wantSeat {
			t.Errorf("%s: winner seat %d, want %d", tt.name, winner.Seat, tt.wantSeat)
		}
	}
}

// TestTrickWinnerTooFewCards verifies resolution of a short trick is an
// invariant violation.
func TestTrickWinnerTooFewCards(t *testing.T) {
	_, err := trickOf(tc(Regular(SuitRed, 5), 0)).Winner(SuitNone)
	if err == nil {
		t.Fatal("expected error for one-card trick")
	}
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *StateError", err)
	}
}

// TestTrickLeadCard verifies the effective lead skips Jesters.
func TestTrickLeadCard(t *testing.T) {
	tr := trickOf(tc(Jester(SuitRed), 0), tc(Regular(SuitYellow, 4), 1))
	lead := tr.LeadCard()
	if lead == nil || *lead != Regular(SuitYellow, 4) {
		t.Errorf("LeadCard = %v, want Yellow 4", lead)
	}

	if lead := trickOf(tc(Jester(SuitRed), 0), tc(Jester(SuitBlue), 1)).LeadCard(); lead != nil {
		t.Errorf("all-jester trick: LeadCard = %v, want nil", lead)
	}
	if lead := NewTrick().LeadCard(); lead != nil {
		t.Errorf("empty trick: LeadCard = %v, want nil", lead)
	}

	tr = trickOf(tc(Wizard(SuitGreen), 0), tc(Regular(SuitYellow, 4), 1))
	lead = tr.LeadCard()
	if lead == nil || lead.Kind != KindWizard {
		t.Errorf("wizard-led trick: LeadCard = %v, want the Wizard", lead)
	}
}

// TestTrickIsComplete verifies completion tracks the player count.
func TestTrickIsComplete(t *testing.T) {
	tr := NewTrick()
	for seat := 0; seat < 3; seat++ {
		if tr.IsComplete(4) {
			t.Fatalf("trick complete after %d cards", tr.Len())
		}
		tr.Cards = append(tr.Cards, tc(Regular(SuitBlue, uint8(seat+1)), seat))
	}
	tr.Cards = append(tr.Cards, tc(Regular(SuitBlue, 9), 3))
	if !tr.IsComplete(4) {
		t.Fatal("trick not complete after 4 cards")
	}
}
