// internal/game/engine_adapter.go
//
// Conversions between engine types and the wire representations used in
// GameEvent payloads and client move envelopes.
package game

import (
	"fmt"

	"github.com/jason-s-yu/wizard/engine"
	"github.com/jason-s-yu/wizard/internal/models"
)

// SuitToString converts an engine suit to its wire name.
func SuitToString(s engine.Suit) string {
	switch s {
	case engine.SuitBlue:
		return "blue"
	case engine.SuitRed:
		return "red"
	case engine.SuitYellow:
		return "yellow"
	case engine.SuitGreen:
		return "green"
	default:
		return ""
	}
}

// ParseSuit converts a wire suit name back to an engine suit.
func ParseSuit(s string) (engine.Suit, error) {
	switch s {
	case "blue":
		return engine.SuitBlue, nil
	case "red":
		return engine.SuitRed, nil
	case "yellow":
		return engine.SuitYellow, nil
	case "green":
		return engine.SuitGreen, nil
	default:
		return engine.SuitNone, fmt.Errorf("unknown suit %q", s)
	}
}

// KindToString converts an engine card kind to its wire name.
func KindToString(k engine.Kind) string {
	switch k {
	case engine.KindJester:
		return "jester"
	case engine.KindWizard:
		return "wizard"
	default:
		return "regular"
	}
}

func cardToEvent(c engine.Card) *EventCard {
	ev := &EventCard{
		Suit: SuitToString(c.Suit),
		Kind: KindToString(c.Kind),
	}
	if c.Kind == engine.KindRegular {
		ev.Rank = int(c.Rank)
	}
	return ev
}

// ParseMoveCard converts a client move card into the exact engine card it
// names. Jesters and Wizards carry a suit for deck identity but no rank.
func ParseMoveCard(mc models.MoveCard) (engine.Card, error) {
	suit, err := ParseSuit(mc.Suit)
	if err != nil {
		return engine.Card{}, err
	}
	switch mc.Kind {
	case "jester":
		return engine.Jester(suit), nil
	case "wizard":
		return engine.Wizard(suit), nil
	case "regular", "":
		if mc.Rank < 1 || mc.Rank > 13 {
			return engine.Card{}, fmt.Errorf("rank %d out of range", mc.Rank)
		}
		return engine.Regular(suit, uint8(mc.Rank)), nil
	default:
		return engine.Card{}, fmt.Errorf("unknown card kind %q", mc.Kind)
	}
}
