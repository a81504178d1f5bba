package engine

// PlanRounds returns the sequence of hand sizes for a full game: 1 up to the
// largest size that still reserves one card for the trump flip. In tournament
// mode the ascent is mirrored by a descent back to 1, doubling the round
// count. The plan is computed once at game start and never changes.
func PlanRounds(numPlayers int, tournamentMode bool) []int {
	max := (DeckSize - 1) / numPlayers
	rounds := make([]int, 0, 2*max)
	for n := 1; n <= max; n++ {
		rounds = append(rounds, n)
	}
	if tournamentMode {
		for n := max; n >= 1; n-- {
			rounds = append(rounds, n)
		}
	}
	return rounds
}
