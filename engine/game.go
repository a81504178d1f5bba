// Package engine implements the Wizard trick-taking card game rules.
//
// The engine is a pure, synchronous state machine: each move entry point
// validates the acting seat against the current state and either mutates the
// game or returns a rejection with the state untouched. It performs no I/O,
// holds no locks, and is never invoked concurrently — the host owns the
// single authoritative Game and serializes move delivery into it. The seeded
// RNG cursor lives inside the state, so a cloned or persisted Game replays
// identically given the same subsequent moves.
package engine

import "fmt"

const (
	MinPlayers = 3
	MaxPlayers = 6
)

// Phase identifies the game's position in the round lifecycle. Scoring is
// applied atomically at the end of Playing, so the observable phases move
// from Playing straight to the next round's Setup (or GameOver).
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseBidding
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseBidding:
		return "bidding"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Config holds game options fixed at creation.
type Config struct {
	TournamentMode       bool
	InspectPreviousTrick bool
}

// Round is the per-round state, replaced wholesale at every round boundary.
type Round struct {
	NumCards   int
	Deck       []Card // remaining undealt cards, ordered
	Hands      [][]Card
	Bids       []int // BidNone until submitted
	TrickCount []int

	// TrumpCard is the physical trump flip, nil when the deck was exhausted.
	// TrumpSuit is the resolved suit: SuitNone for a Jester flip, for a
	// missing flip, and while a Wizard flip awaits the dealer's choice.
	TrumpCard           *Card
	TrumpSuit           Suit
	AwaitingTrumpChoice bool

	PreviousTrick []TrickCard
}

// Game is the complete game state. Move entry points mutate the receiver;
// the host holds the one authoritative copy and uses Clone for snapshots.
type Game struct {
	Config        Config
	NumPlayers    int
	Rounds        []int // planned hand sizes, immutable after creation
	RoundIndex    int
	Dealer        int
	CurrentPlayer int
	Phase         Phase
	Round         *Round
	Trick         *Trick
	ScorePad      ScorePad
	RNG           uint64
}

// NewGame creates a game for numPlayers seats and deals the first round.
// The seed fully determines every shuffle of the game.
func NewGame(numPlayers int, seed uint64, cfg Config) (*Game, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, fmt.Errorf("numPlayers must be between %d and %d, got %d", MinPlayers, MaxPlayers, numPlayers)
	}
	g := &Game{
		Config:     cfg,
		NumPlayers: numPlayers,
		Rounds:     PlanRounds(numPlayers, cfg.TournamentMode),
		Dealer:     -1, // beginRound rotates to seat 0
		RNG:        seed,
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	if err := g.beginRound(); err != nil {
		return nil, err
	}
	return g, nil
}

// ---------------------------------------------------------------------------
// Round lifecycle
// ---------------------------------------------------------------------------

// beginRound rotates the dealer, shuffles a fresh deck, deals, and resolves
// the trump flip. The game lands in Bidding unless a Wizard flip holds it in
// Setup until the dealer chooses a trump suit.
func (g *Game) beginRound() error {
	g.Dealer = (g.Dealer + 1) % g.NumPlayers
	numCards := g.Rounds[g.RoundIndex]

	deck := GenerateDeck()
	g.shuffle(deck)
	hands, trump, rest := deal(deck, g.NumPlayers, numCards, g.Dealer)

	r := &Round{
		NumCards:   numCards,
		Deck:       rest,
		Hands:      hands,
		Bids:       make([]int, g.NumPlayers),
		TrickCount: make([]int, g.NumPlayers),
		TrumpCard:  trump,
		TrumpSuit:  SuitNone,
	}
	for i := range r.Bids {
		r.Bids[i] = BidNone
	}
	if trump != nil {
		switch trump.Kind {
		case KindRegular:
			r.TrumpSuit = trump.Suit
		case KindJester:
			// Jester flip: the round plays with no trump suit.
		case KindWizard:
			r.AwaitingTrumpChoice = true
		}
	}

	g.Round = r
	g.Trick = nil
	g.Phase = PhaseSetup
	g.CurrentPlayer = g.Dealer
	if err := g.checkConservation(); err != nil {
		return err
	}
	if !r.AwaitingTrumpChoice {
		g.openBidding()
	}
	return nil
}

func (g *Game) openBidding() {
	g.Phase = PhaseBidding
	g.CurrentPlayer = g.nextSeat(g.Dealer)
}

// finishRound scores the completed round and either deals the next one or
// ends the game.
func (g *Game) finishRound() error {
	r := g.Round
	g.ScorePad = append(g.ScorePad, g.ScorePad.NextRow(r.NumCards, r.Bids, r.TrickCount))
	g.RoundIndex++
	g.Trick = nil
	if g.RoundIndex == len(g.Rounds) {
		g.Phase = PhaseGameOver
		g.Round = nil
		return nil
	}
	return g.beginRound()
}

// checkConservation verifies that every card of the deck is accounted for by
// exactly one hand, the undealt deck, or the trump flip.
func (g *Game) checkConservation() error {
	r := g.Round
	count := len(r.Deck)
	for _, hand := range r.Hands {
		count += len(hand)
	}
	if r.TrumpCard != nil {
		count++
	}
	if count != DeckSize {
		return &StateError{Detail: fmt.Sprintf("card conservation broken: %d cards accounted for, want %d", count, DeckSize)}
	}
	return nil
}

func (g *Game) nextSeat(seat int) int { return (seat + 1) % g.NumPlayers }

func (g *Game) validSeat(seat int) bool { return seat >= 0 && seat < g.NumPlayers }

// ---------------------------------------------------------------------------
// Move entry points
// ---------------------------------------------------------------------------

// ChooseTrumpSuit resolves a Wizard trump flip. Only the dealer may choose,
// and only while the game is held in the trump-selection step of Setup.
func (g *Game) ChooseTrumpSuit(seat int, suit Suit) error {
	if g.Phase == PhaseGameOver {
		return rejectf(ReasonGameOver, "game is over")
	}
	if g.Phase != PhaseSetup || g.Round == nil || !g.Round.AwaitingTrumpChoice {
		return rejectf(ReasonNoTrumpChoice, "no trump choice is pending in phase %s", g.Phase)
	}
	if !g.validSeat(seat) {
		return rejectf(ReasonInvalidSeat, "seat %d out of range", seat)
	}
	if seat != g.Dealer {
		return rejectf(ReasonNotDealer, "seat %d is not the dealer (%d)", seat, g.Dealer)
	}
	if !suit.Valid() {
		return rejectf(ReasonInvalidSuit, "suit %d is not a playable suit", suit)
	}

	g.Round.TrumpSuit = suit
	g.Round.AwaitingTrumpChoice = false
	g.openBidding()
	return nil
}

// SubmitBid records the acting seat's trick prediction for the round. Once
// every seat has bid, play opens with the seat after the dealer.
func (g *Game) SubmitBid(seat, value int) error {
	if g.Phase == PhaseGameOver {
		return rejectf(ReasonGameOver, "game is over")
	}
	if g.Phase != PhaseBidding {
		return rejectf(ReasonWrongPhase, "cannot bid in phase %s", g.Phase)
	}
	if !g.validSeat(seat) {
		return rejectf(ReasonInvalidSeat, "seat %d out of range", seat)
	}
	if seat != g.CurrentPlayer {
		return rejectf(ReasonNotYourTurn, "seat %d bid on seat %d's turn", seat, g.CurrentPlayer)
	}
	r := g.Round
	if err := ValidateBid(value, r.NumCards, r.Bids, seat); err != nil {
		return err
	}

	r.Bids[seat] = value
	for _, b := range r.Bids {
		if b == BidNone {
			g.CurrentPlayer = g.nextSeat(seat)
			return nil
		}
	}
	g.Phase = PhasePlaying
	g.Trick = NewTrick()
	g.CurrentPlayer = g.nextSeat(g.Dealer)
	return nil
}

// PlayCard plays a card from the acting seat's hand into the current trick.
// Completing a trick resolves it immediately: the winner's trick count
// increments, the winner leads the next trick, and the round's final trick
// triggers scoring and the next deal (or game over).
func (g *Game) PlayCard(seat int, card Card) error {
	if g.Phase == PhaseGameOver {
		return rejectf(ReasonGameOver, "game is over")
	}
	if g.Phase != PhasePlaying {
		return rejectf(ReasonWrongPhase, "cannot play a card in phase %s", g.Phase)
	}
	if !g.validSeat(seat) {
		return rejectf(ReasonInvalidSeat, "seat %d out of range", seat)
	}
	if seat != g.CurrentPlayer {
		return rejectf(ReasonNotYourTurn, "seat %d played on seat %d's turn", seat, g.CurrentPlayer)
	}
	r := g.Round
	hand := r.Hands[seat]
	idx := indexOfCard(hand, card)
	if idx < 0 {
		return rejectf(ReasonCardNotInHand, "seat %d does not hold %s", seat, card)
	}
	ok, err := CanPlay(card, SuitsInHand(hand), g.Trick.LeadCard())
	if err != nil {
		return err
	}
	if !ok {
		return rejectf(ReasonNotPlayable, "%s violates follow-suit", card)
	}

	r.Hands[seat] = append(hand[:idx:idx], hand[idx+1:]...)
	g.Trick.Cards = append(g.Trick.Cards, TrickCard{Card: card, Seat: seat})

	if !g.Trick.IsComplete(g.NumPlayers) {
		g.CurrentPlayer = g.nextSeat(seat)
		return nil
	}

	winner, err := g.Trick.Winner(r.TrumpSuit)
	if err != nil {
		return err
	}
	r.TrickCount[winner.Seat]++
	r.PreviousTrick = g.Trick.Cards

	played := 0
	for _, c := range r.TrickCount {
		played += c
	}
	if played == r.NumCards {
		return g.finishRound()
	}
	g.Trick = NewTrick()
	g.CurrentPlayer = winner.Seat
	return nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// IsGameOver reports whether all planned rounds have been scored.
func (g *Game) IsGameOver() bool { return g.Phase == PhaseGameOver }

// AwaitingTrumpChoice reports whether the dealer must still choose a trump
// suit before bidding can open.
func (g *Game) AwaitingTrumpChoice() bool {
	return g.Round != nil && g.Round.AwaitingTrumpChoice
}

// Hand returns a copy of the seat's current hand.
func (g *Game) Hand(seat int) []Card {
	if g.Round == nil || !g.validSeat(seat) {
		return nil
	}
	return append([]Card(nil), g.Round.Hands[seat]...)
}

// SortedHand returns the seat's hand arranged for display against the round's
// trump suit.
func (g *Game) SortedHand(seat int) []Card {
	if g.Round == nil || !g.validSeat(seat) {
		return nil
	}
	return SortHand(g.Round.Hands[seat], g.Round.TrumpSuit)
}

// PlayableCards returns the cards the seat could legally play right now.
func (g *Game) PlayableCards(seat int) ([]Card, error) {
	if !g.validSeat(seat) {
		return nil, rejectf(ReasonInvalidSeat, "seat %d out of range", seat)
	}
	if g.Phase != PhasePlaying || g.Round == nil {
		return nil, rejectf(ReasonWrongPhase, "cannot play during %s", g.Phase)
	}
	hand := g.Round.Hands[seat]
	var lead *Card
	if g.Trick != nil {
		lead = g.Trick.LeadCard()
	}
	mask, err := PlayableCards(hand, lead)
	if err != nil {
		return nil, err
	}
	out := make([]Card, 0, len(hand))
	for i, ok := range mask {
		if ok {
			out = append(out, hand[i])
		}
	}
	return out, nil
}

// PreviousTrick returns the last completed trick of the current round, if
// inspection is enabled and one has completed.
func (g *Game) PreviousTrick() ([]TrickCard, bool) {
	if !g.Config.InspectPreviousTrick || g.Round == nil || g.Round.PreviousTrick == nil {
		return nil, false
	}
	return append([]TrickCard(nil), g.Round.PreviousTrick...), true
}

// Clone returns a deep copy of the game. Replaying the same moves against the
// clone yields identical states; the RNG cursor is part of the copy.
func (g *Game) Clone() *Game {
	c := *g
	c.Rounds = append([]int(nil), g.Rounds...)
	if g.ScorePad != nil {
		c.ScorePad = make(ScorePad, len(g.ScorePad))
		for i, row := range g.ScorePad {
			c.ScorePad[i] = ScoreRow{NumCards: row.NumCards, Seats: append([]SeatScore(nil), row.Seats...)}
		}
	}
	if g.Round != nil {
		r := *g.Round
		r.Deck = append([]Card(nil), g.Round.Deck...)
		r.Hands = make([][]Card, len(g.Round.Hands))
		for i, hand := range g.Round.Hands {
			r.Hands[i] = append([]Card(nil), hand...)
		}
		r.Bids = append([]int(nil), g.Round.Bids...)
		r.TrickCount = append([]int(nil), g.Round.TrickCount...)
		if g.Round.TrumpCard != nil {
			tc := *g.Round.TrumpCard
			r.TrumpCard = &tc
		}
		r.PreviousTrick = append([]TrickCard(nil), g.Round.PreviousTrick...)
		c.Round = &r
	}
	if g.Trick != nil {
		c.Trick = &Trick{Cards: append([]TrickCard(nil), g.Trick.Cards...)}
	}
	return &c
}

func indexOfCard(hand []Card, card Card) int {
	for i, c := range hand {
		if c == card {
			return i
		}
	}
	return -1
}
