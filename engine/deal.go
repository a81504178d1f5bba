package engine

// ---------------------------------------------------------------------------
// xorshift64 RNG — seeded at game start, cursor lives in the game state so a
// persisted snapshot replays exactly.
// ---------------------------------------------------------------------------

func (g *Game) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *Game) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// shuffle applies a Fisher-Yates permutation to the deck in place.
func (g *Game) shuffle(deck []Card) {
	for i := len(deck) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// ---------------------------------------------------------------------------
// Dealing
// ---------------------------------------------------------------------------

// deal distributes cardsEach cards per seat from the end of the shuffled deck,
// one card at a time round-robin starting at the seat after the dealer. The
// next undealt card becomes the trump flip; in the final, largest round the
// deck may be exhausted first, in which case trump is nil and the round plays
// without a trump suit. The input deck is not mutated.
func deal(deck []Card, numPlayers, cardsEach, dealer int) (hands [][]Card, trump *Card, rest []Card) {
	rest = append([]Card(nil), deck...)
	hands = make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = make([]Card, 0, cardsEach)
	}
	for c := 0; c < cardsEach; c++ {
		for p := 0; p < numPlayers; p++ {
			seat := (dealer + 1 + p) % numPlayers
			card := rest[len(rest)-1]
			rest = rest[:len(rest)-1]
			hands[seat] = append(hands[seat], card)
		}
	}
	if len(rest) > 0 {
		t := rest[len(rest)-1]
		rest = rest[:len(rest)-1]
		trump = &t
	}
	return hands, trump, rest
}
