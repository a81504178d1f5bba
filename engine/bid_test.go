package engine

import "testing"

// TestValidateBidRange verifies bids outside [0, numCards] are rejected.
func TestValidateBidRange(t *testing.T) {
	bids := []int{BidNone, BidNone, BidNone, BidNone}
	if err := ValidateBid(-1, 4, bids, 0); err == nil {
		t.Error("bid -1 accepted")
	} else if reason, _ := RejectReason(err); reason != ReasonBidOutOfRange {
		t.Errorf("reason = %s, want %s", reason, ReasonBidOutOfRange)
	}
	if err := ValidateBid(5, 4, bids, 0); err == nil {
		t.Error("bid 5 accepted in a 4-card round")
	}
	for v := 0; v <= 4; v++ {
		if err := ValidateBid(v, 4, bids, 0); err != nil {
			t.Errorf("bid %d rejected for a non-final bidder: %v", v, err)
		}
	}
}

// TestValidateBidEvenTotal verifies the final bidder may not bring total
// predictions to exactly the tricks available.
func TestValidateBidEvenTotal(t *testing.T) {
	for _, priors := range [][]int{{0, 0, 0}, {1, 0, 2}, {2, 2, 2}, {4, 4, 4}} {
		sum := priors[0] + priors[1] + priors[2]
		bids := []int{priors[0], priors[1], priors[2], BidNone}
		forbidden := 4 - sum
		for v := 0; v <= 4; v++ {
			err := ValidateBid(v, 4, bids, 3)
			if v == forbidden {
				if err == nil {
					t.Errorf("priors %v: final bid %d accepted, want rejection", priors, v)
				} else if reason, _ := RejectReason(err); reason != ReasonBidEvenTotal {
					t.Errorf("priors %v: reason = %s, want %s", priors, reason, ReasonBidEvenTotal)
				}
				continue
			}
			if err != nil {
				t.Errorf("priors %v: final bid %d rejected: %v", priors, v, err)
			}
		}
	}
}

// TestValidateBidOneCardExempt verifies the even-total rule is skipped in the
// one-card round.
func TestValidateBidOneCardExempt(t *testing.T) {
	bids := []int{0, 0, 0, BidNone}
	if err := ValidateBid(1, 1, bids, 3); err != nil {
		t.Errorf("one-card round: final bid 1 rejected: %v", err)
	}
	bids = []int{1, 0, 0, BidNone}
	if err := ValidateBid(0, 1, bids, 3); err != nil {
		t.Errorf("one-card round: final bid 0 rejected: %v", err)
	}
}

// TestValidateBidNotLast verifies the even-total rule only binds the final
// outstanding bidder.
func TestValidateBidNotLast(t *testing.T) {
	bids := []int{2, BidNone, 1, BidNone}
	// Seat 1 bids 1, making the partial sum equal numCards; legal because
	// seat 3 is still outstanding.
	if err := ValidateBid(1, 4, bids, 1); err != nil {
		t.Errorf("non-final bidder rejected: %v", err)
	}
}
