package engine

// BidNone marks a seat that has not bid yet.
const BidNone = -1

// ValidateBid checks a bid against the legal range and, for the final bidder
// in rounds of more than one card, against the even-total rule: the group's
// combined prediction may never equal the number of tricks available. bids
// holds every seat's current bid, BidNone where still outstanding.
func ValidateBid(value, numCards int, bids []int, seat int) error {
	if value < 0 || value > numCards {
		return rejectf(ReasonBidOutOfRange, "bid %d outside [0, %d]", value, numCards)
	}
	// The one-card round is exempt from the even-total rule.
	if numCards <= 1 {
		return nil
	}
	sum := 0
	isLast := true
	for i, b := range bids {
		if i == seat {
			continue
		}
		if b == BidNone {
			isLast = false
			break
		}
		sum += b
	}
	if isLast && sum+value == numCards {
		return rejectf(ReasonBidEvenTotal, "final bid %d would make total predictions equal %d tricks", value, numCards)
	}
	return nil
}
