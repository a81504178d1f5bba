package engine

// Score converts one seat's bid and tricks won into a score delta: an exact
// prediction earns 20 plus 10 per trick, a miss costs 10 per trick of error.
func Score(bid, tricksWon int) int {
	if bid == tricksWon {
		return 20 + 10*bid
	}
	diff := bid - tricksWon
	if diff < 0 {
		diff = -diff
	}
	return -10 * diff
}

// SeatScore is one seat's result for a single round.
type SeatScore struct {
	Bid       int
	TricksWon int
	Delta     int
	Total     int
}

// ScoreRow records the outcome of one round for every seat.
type ScoreRow struct {
	NumCards int
	Seats    []SeatScore
}

// ScorePad is the append-only sequence of round rows. Rows are appended at
// round completion and never mutated afterward.
type ScorePad []ScoreRow

// NextRow builds the row for a just-completed round, carrying running totals
// forward from the pad's last row (or zero for the first round).
func (p ScorePad) NextRow(numCards int, bids, trickCounts []int) ScoreRow {
	row := ScoreRow{NumCards: numCards, Seats: make([]SeatScore, len(bids))}
	for seat := range bids {
		prev := 0
		if len(p) > 0 {
			prev = p[len(p)-1].Seats[seat].Total
		}
		delta := Score(bids[seat], trickCounts[seat])
		row.Seats[seat] = SeatScore{
			Bid:       bids[seat],
			TricksWon: trickCounts[seat],
			Delta:     delta,
			Total:     prev + delta,
		}
	}
	return row
}

// Totals returns the current running total per seat, or zeros if no round has
// been scored yet.
func (p ScorePad) Totals(numPlayers int) []int {
	totals := make([]int, numPlayers)
	if len(p) == 0 {
		return totals
	}
	last := p[len(p)-1]
	for seat := range last.Seats {
		totals[seat] = last.Seats[seat].Total
	}
	return totals
}

// Leaders returns the seats holding the highest running total. Multiple seats
// are returned on a tie.
func (p ScorePad) Leaders(numPlayers int) []int {
	totals := p.Totals(numPlayers)
	best := totals[0]
	for _, t := range totals[1:] {
		if t > best {
			best = t
		}
	}
	var leaders []int
	for seat, t := range totals {
		if t == best {
			leaders = append(leaders, seat)
		}
	}
	return leaders
}
