// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/jason-s-yu/wizard/engine"
)

// ObfTrickCard is a card on the table together with the player who played it.
type ObfTrickCard struct {
	Card     EventCard `json:"card"`
	PlayerID uuid.UUID `json:"playerId"`
}

// ObfSeatState represents the state of a single seat, obfuscated for a
// specific observer. Hand contents appear only for the observer's own seat.
type ObfSeatState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username,omitempty"`
	Seat          int       `json:"seat"`
	HandSize      int       `json:"handSize"`
	Bid           *int      `json:"bid,omitempty"`
	TricksWon     int       `json:"tricksWon"`
	Total         int       `json:"total"`
	Connected     bool      `json:"connected"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// Hand is populated only for the observer's own seat.
	Hand []EventCard `json:"hand,omitempty"`
}

// ObfScoreRow mirrors one completed round on the score pad.
type ObfScoreRow struct {
	NumCards int   `json:"numCards"`
	Bids     []int `json:"bids"`
	Won      []int `json:"won"`
	Deltas   []int `json:"deltas"`
}

// ObfGameState represents the overall game state, obfuscated for a specific observer.
type ObfGameState struct {
	GameID              uuid.UUID      `json:"gameId"`
	Started             bool           `json:"started"`
	GameOver            bool           `json:"gameOver"`
	Phase               string         `json:"phase"`
	RoundIndex          int            `json:"roundIndex"`
	NumCards            int            `json:"numCards"`
	Dealer              int            `json:"dealer"`
	TrumpCard           *EventCard     `json:"trumpCard,omitempty"`
	TrumpSuit           string         `json:"trumpSuit,omitempty"`
	AwaitingTrumpChoice bool           `json:"awaitingTrumpChoice"`
	CurrentPlayerID     uuid.UUID      `json:"currentPlayerId,omitempty"`
	TurnID              int            `json:"turnId"`
	Trick               []ObfTrickCard `json:"trick,omitempty"`
	PreviousTrick       []ObfTrickCard `json:"previousTrick,omitempty"`
	ScorePad            []ObfScoreRow  `json:"scorePad"`
	Seats               []ObfSeatState `json:"seats"`
}

// ObfuscatedStateFor generates a snapshot of the game state tailored to the
// perspective of the requesting user. Only the observer's own hand is
// revealed; other seats expose hand sizes and public bookkeeping.
// Assumes the game lock is HELD by the caller.
func (g *WizardGame) ObfuscatedStateFor(forUser uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:   g.ID,
		Started:  g.Started,
		GameOver: g.GameOver,
		TurnID:   g.TurnID,
	}
	if g.Engine == nil {
		obf.Seats = g.lobbySeats()
		return obf
	}

	eng := g.Engine
	obf.GameOver = obf.GameOver || eng.IsGameOver()
	obf.Phase = eng.Phase.String()
	obf.RoundIndex = eng.RoundIndex
	obf.Dealer = eng.Dealer
	obf.AwaitingTrumpChoice = eng.AwaitingTrumpChoice()

	if !obf.GameOver {
		obf.CurrentPlayerID = g.SeatToPlayer[g.currentActorSeat()]
	}

	if r := eng.Round; r != nil {
		obf.NumCards = r.NumCards
		if r.TrumpCard != nil {
			obf.TrumpCard = cardToEvent(*r.TrumpCard)
		}
		if r.TrumpSuit != engine.SuitNone {
			obf.TrumpSuit = SuitToString(r.TrumpSuit)
		}
	}

	if eng.Trick != nil {
		obf.Trick = g.obfTrick(eng.Trick.Cards)
	}
	if prev, ok := eng.PreviousTrick(); ok {
		obf.PreviousTrick = g.obfTrick(prev)
	}

	obf.ScorePad = make([]ObfScoreRow, len(eng.ScorePad))
	for i, row := range eng.ScorePad {
		or := ObfScoreRow{
			NumCards: row.NumCards,
			Bids:     make([]int, len(row.Seats)),
			Won:      make([]int, len(row.Seats)),
			Deltas:   make([]int, len(row.Seats)),
		}
		for s, sc := range row.Seats {
			or.Bids[s] = sc.Bid
			or.Won[s] = sc.TricksWon
			or.Deltas[s] = sc.Delta
		}
		obf.ScorePad[i] = or
	}

	totals := eng.ScorePad.Totals(len(g.SeatToPlayer))
	obf.Seats = make([]ObfSeatState, len(g.SeatToPlayer))
	for seat, pid := range g.SeatToPlayer {
		ss := ObfSeatState{
			PlayerID:  pid,
			Seat:      seat,
			HandSize:  len(eng.Hand(seat)),
			TricksWon: 0,
			Total:     totals[seat],
		}
		if p := g.getPlayerByID(pid); p != nil {
			ss.Connected = p.Connected
			if p.User != nil {
				ss.Username = p.User.Username
			}
		}
		if r := eng.Round; r != nil {
			ss.TricksWon = r.TrickCount[seat]
			if r.Bids[seat] != engine.BidNone {
				bid := r.Bids[seat]
				ss.Bid = &bid
			}
		}
		ss.IsCurrentTurn = !obf.GameOver && g.currentActorSeat() == seat
		if pid == forUser {
			hand := eng.SortedHand(seat)
			ss.Hand = make([]EventCard, len(hand))
			for i, c := range hand {
				ss.Hand[i] = *cardToEvent(c)
			}
		}
		obf.Seats[seat] = ss
	}
	return obf
}

// lobbySeats covers the pre-start case where no engine state exists yet.
func (g *WizardGame) lobbySeats() []ObfSeatState {
	seats := make([]ObfSeatState, len(g.Players))
	for i, p := range g.Players {
		seats[i] = ObfSeatState{
			PlayerID:  p.ID,
			Seat:      i,
			Connected: p.Connected,
		}
		if p.User != nil {
			seats[i].Username = p.User.Username
		}
	}
	return seats
}

func (g *WizardGame) obfTrick(cards []engine.TrickCard) []ObfTrickCard {
	out := make([]ObfTrickCard, len(cards))
	for i, tc := range cards {
		out[i] = ObfTrickCard{
			Card:     *cardToEvent(tc.Card),
			PlayerID: g.SeatToPlayer[tc.Seat],
		}
	}
	return out
}
