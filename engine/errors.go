package engine

import (
	"errors"
	"fmt"
)

// Reason is a machine-readable code explaining why a move was rejected. The
// host forwards it to the acting player so a legal move can be re-prompted.
type Reason string

const (
	ReasonGameOver      Reason = "game_over"
	ReasonWrongPhase    Reason = "wrong_phase"
	ReasonNotYourTurn   Reason = "not_your_turn"
	ReasonInvalidSeat   Reason = "invalid_seat"
	ReasonCardNotInHand Reason = "card_not_in_hand"
	ReasonNotPlayable   Reason = "card_not_playable"
	ReasonBidOutOfRange Reason = "bid_out_of_range"
	ReasonBidEvenTotal  Reason = "bid_even_total"
	ReasonNotDealer     Reason = "not_dealer"
	ReasonNoTrumpChoice Reason = "no_trump_choice_pending"
	ReasonInvalidSuit   Reason = "invalid_suit"
)

// MoveError rejects a single move. Game state is guaranteed unchanged when a
// MoveError is returned.
type MoveError struct {
	Reason Reason
	Detail string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("invalid move (%s): %s", e.Reason, e.Detail)
}

func rejectf(reason Reason, format string, args ...any) *MoveError {
	return &MoveError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// StateError reports a broken internal invariant. It is fatal to the current
// operation: the engine refuses to proceed rather than risk corrupting
// scoring.
type StateError struct {
	Detail string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state: %s", e.Detail)
}

// RejectReason extracts the rejection reason from an error returned by a move
// entry point. ok is false for nil errors and for invariant violations.
func RejectReason(err error) (Reason, bool) {
	var me *MoveError
	if errors.As(err, &me) {
		return me.Reason, true
	}
	return "", false
}
