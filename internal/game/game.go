// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/wizard/engine"
	"github.com/jason-s-yu/wizard/internal/cache"
	"github.com/jason-s-yu/wizard/internal/database"
	"github.com/jason-s-yu/wizard/internal/models"

	"github.com/coder/websocket"
)

// OnGameEndFunc defines the signature for a callback function executed when a game ends.
// It receives the lobby ID, the winning players' IDs, and the final totals per player.
type OnGameEndFunc func(lobbyID uuid.UUID, winners []uuid.UUID, totals map[uuid.UUID]int)

// GameEventType represents the type of a game-related event broadcast via WebSockets.
type GameEventType string

// Constants defining the various GameEvent types used for WebSocket communication.
const (
	EventGameStart           GameEventType = "game_start"             // Public: Game has started.
	EventRoundStart          GameEventType = "game_round_start"       // Public: New round dealt, includes trump flip.
	EventTrumpChoiceRequired GameEventType = "game_trump_choice"      // Public: Dealer must pick the trump suit.
	EventTrumpChosen         GameEventType = "game_trump_chosen"      // Public: Dealer picked the trump suit.
	EventPlayerBid           GameEventType = "player_bid"             // Public: Player committed a bid.
	EventGamePlayerTurn      GameEventType = "game_player_turn"       // Public: Notification of the current player's turn.
	EventPlayerPlayCard      GameEventType = "player_play_card"       // Public: Player played a card into the trick.
	EventTrickWon            GameEventType = "trick_won"              // Public: Trick resolved, includes winner.
	EventRoundScored         GameEventType = "game_round_scored"      // Public: Round finished, includes the score row.
	EventGameEnd             GameEventType = "game_end"               // Public: Game has ended, includes results.
	EventPrivateHand         GameEventType = "private_hand"           // Private: The observer's own sorted hand.
	EventPrivateSyncState    GameEventType = "private_sync_state"     // Private: Full game state sync for a player.
	EventPrivateMoveFail     GameEventType = "private_move_fail"      // Private: A submitted move was rejected.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard identifies a card within a GameEvent payload.
type EventCard struct {
	Suit string `json:"suit"`
	Kind string `json:"kind"`
	Rank int    `json:"rank,omitempty"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type GameEventType `json:"type"`
	User *EventUser    `json:"user,omitempty"` // The user initiating or targeted by the event.
	Card *EventCard    `json:"card,omitempty"` // Primary card involved.

	Payload map[string]interface{} `json:"payload,omitempty"` // Additional arbitrary data.

	State *ObfGameState `json:"state,omitempty"` // Full obfuscated state for sync events.
}

// WizardGame represents the state and logic for a single hosted game instance.
// All mutation goes through the embedded engine; this layer owns identity,
// turn timers, broadcasting, and persistence.
type WizardGame struct {
	ID      uuid.UUID // Unique identifier for this game instance.
	LobbyID uuid.UUID // ID of the lobby that created this game.

	Config engine.Config // Rule variants forwarded to the engine.
	Seed   uint64        // Shuffle seed; 0 means derive from the clock at start.

	Players []*models.Player // Players in seat order.

	// Engine integration.
	Engine       *engine.Game      // The authoritative game state.
	PlayerToSeat map[uuid.UUID]int // Service player UUID -> engine seat.
	SeatToPlayer []uuid.UUID       // Engine seat -> service player UUID.

	// Turn Management
	TurnID       int           // Increments each action, useful for state synchronization.
	TurnDuration time.Duration // Configurable duration for each turn timer.
	turnTimer    *time.Timer   // Active timer for the current actor.

	// Game Lifecycle State
	Started  bool // Has the game started?
	GameOver bool // Has the game finished?

	lastSeen map[uuid.UUID]time.Time // Tracks last activity time for players.
	Mu       sync.Mutex              // Mutex protecting concurrent access to game state.

	// Communication Callbacks
	BroadcastFn         func(ev GameEvent)                     // Sends an event to all connected players.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent) // Sends an event to a single player.
	OnGameEnd           OnGameEndFunc                          // Callback executed when the game finishes.

	// Persistence (optional; nil disables).
	Cache *cache.SnapshotStore // Live state snapshots for reconnect/recovery.
	DB    *database.Store      // Finished-game result archival.

	log *logrus.Entry
}

// NewWizardGame creates a new game instance with default settings.
// The engine is initialized during Start once seating is final.
func NewWizardGame() *WizardGame {
	id, _ := uuid.NewRandom()
	g := &WizardGame{
		ID:           id,
		PlayerToSeat: make(map[uuid.UUID]int),
		lastSeen:     make(map[uuid.UUID]time.Time),
		TurnDuration: 30 * time.Second,
		log:          logrus.WithField("game_id", id),
	}
	return g
}

// AddPlayer adds a player to the game if not started, or marks them as reconnected.
// Assumes lock is held by caller.
func (g *WizardGame) AddPlayer(p *models.Player) {
	for i, pl := range g.Players {
		if pl.ID == p.ID {
			// Player reconnecting.
			g.Players[i].Conn = p.Conn
			g.Players[i].Connected = true
			g.Players[i].User = p.User
			g.lastSeen[p.ID] = time.Now()
			g.log.Infof("player %s reconnected", p.ID)
			return
		}
	}
	if g.Started {
		g.log.Warnf("player %s cannot join, game already in progress", p.ID)
		if p.Conn != nil {
			p.Conn.Close(websocket.StatusPolicyViolation, "Game already in progress.")
		}
		return
	}
	p.Seat = len(g.Players)
	g.Players = append(g.Players, p)
	g.lastSeen[p.ID] = time.Now()
	g.log.Infof("player %s seated at %d", p.ID, p.Seat)
}

// Start locks in the seating, initializes the engine, and deals the first round.
func (g *WizardGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started || g.GameOver {
		return fmt.Errorf("game %s already started", g.ID)
	}
	n := len(g.Players)
	if n < engine.MinPlayers || n > engine.MaxPlayers {
		return fmt.Errorf("game %s needs %d to %d players, have %d", g.ID, engine.MinPlayers, engine.MaxPlayers, n)
	}

	g.SeatToPlayer = make([]uuid.UUID, n)
	for i, p := range g.Players {
		p.Seat = i
		g.PlayerToSeat[p.ID] = i
		g.SeatToPlayer[i] = p.ID
	}

	if g.Seed == 0 {
		g.Seed = uint64(time.Now().UnixNano())
	}
	eng, err := engine.NewGame(n, g.Seed, g.Config)
	if err != nil {
		return err
	}
	g.Engine = eng
	g.Started = true
	g.log.Infof("started with %d players, %d rounds", n, len(eng.Rounds))

	g.fireEvent(GameEvent{Type: EventGameStart, Payload: map[string]interface{}{
		"numPlayers": n,
		"rounds":     len(eng.Rounds),
	}})
	g.announceRound()
	g.persistSnapshot()
	return nil
}

// HandleMove routes a client move envelope to the matching engine operation.
func (g *WizardGame) HandleMove(playerID uuid.UUID, move models.GameMove) {
	switch move.Type {
	case "bid":
		if move.Value == nil {
			g.failMove(playerID, "bid requires a value")
			return
		}
		g.HandleSubmitBid(playerID, *move.Value)
	case "play_card":
		if move.Card == nil {
			g.failMove(playerID, "play_card requires a card")
			return
		}
		card, err := ParseMoveCard(*move.Card)
		if err != nil {
			g.failMove(playerID, err.Error())
			return
		}
		g.HandlePlayCard(playerID, card)
	case "choose_trump":
		suit, err := ParseSuit(move.Suit)
		if err != nil {
			g.failMove(playerID, err.Error())
			return
		}
		g.HandleChooseTrump(playerID, suit)
	default:
		g.failMove(playerID, fmt.Sprintf("unknown move type %q", move.Type))
	}
}

// HandleChooseTrump applies the dealer's trump suit choice.
func (g *WizardGame) HandleChooseTrump(playerID uuid.UUID, suit engine.Suit) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.seatOf(playerID)
	if !ok {
		return
	}
	if err := g.Engine.ChooseTrumpSuit(seat, suit); err != nil {
		g.rejectMove(playerID, err)
		return
	}
	g.afterMove(playerID)
	g.fireEvent(GameEvent{
		Type:    EventTrumpChosen,
		User:    &EventUser{ID: playerID},
		Payload: map[string]interface{}{"suit": SuitToString(suit)},
	})
	g.broadcastPlayerTurn()
	g.persistSnapshot()
}

// HandleSubmitBid applies a player's bid for the current round.
func (g *WizardGame) HandleSubmitBid(playerID uuid.UUID, value int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.seatOf(playerID)
	if !ok {
		return
	}
	if err := g.Engine.SubmitBid(seat, value); err != nil {
		g.rejectMove(playerID, err)
		return
	}
	g.afterMove(playerID)
	g.fireEvent(GameEvent{
		Type:    EventPlayerBid,
		User:    &EventUser{ID: playerID},
		Payload: map[string]interface{}{"value": value},
	})
	g.broadcastPlayerTurn()
	g.persistSnapshot()
}

// HandlePlayCard applies a card play and broadcasts the resulting transitions:
// the play itself, trick resolution, round scoring, and game end as they occur.
func (g *WizardGame) HandlePlayCard(playerID uuid.UUID, card engine.Card) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.seatOf(playerID)
	if !ok {
		return
	}

	// Hold the round pointer so trick counts can be diffed even if the
	// engine rolls over to the next round on this play.
	round := g.Engine.Round
	roundIdx := g.Engine.RoundIndex
	var counts []int
	if round != nil {
		counts = append([]int(nil), round.TrickCount...)
	}

	if err := g.Engine.PlayCard(seat, card); err != nil {
		g.rejectMove(playerID, err)
		return
	}
	g.afterMove(playerID)
	g.fireEvent(GameEvent{
		Type: EventPlayerPlayCard,
		User: &EventUser{ID: playerID},
		Card: cardToEvent(card),
	})

	// Trick resolved if any seat's trick count moved.
	if round != nil {
		for s := range round.TrickCount {
			if round.TrickCount[s] != counts[s] {
				g.fireEvent(GameEvent{
					Type:    EventTrickWon,
					User:    &EventUser{ID: g.SeatToPlayer[s]},
					Payload: map[string]interface{}{"tricksWon": round.TrickCount[s]},
				})
				break
			}
		}
	}

	switch {
	case g.Engine.IsGameOver():
		g.fireRoundScored()
		g.endGame()
	case g.Engine.RoundIndex != roundIdx:
		g.fireRoundScored()
		g.announceRound()
	default:
		g.broadcastPlayerTurn()
	}
	g.persistSnapshot()
}

// HandleDisconnect marks a player as disconnected. The game continues; the
// turn timer covers absent players.
func (g *WizardGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	for i := range g.Players {
		if g.Players[i].ID == playerID {
			if !g.Players[i].Connected {
				return
			}
			g.Players[i].Connected = false
			g.Players[i].Conn = nil
			g.log.Infof("player %s disconnected", playerID)
			return
		}
	}
}

// HandleReconnect reattaches a connection and replays the observer's state.
func (g *WizardGame) HandleReconnect(playerID uuid.UUID, conn *websocket.Conn) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	for i := range g.Players {
		if g.Players[i].ID == playerID {
			g.Players[i].Conn = conn
			g.Players[i].Connected = true
			g.lastSeen[playerID] = time.Now()
			g.log.Infof("player %s reconnected", playerID)
			g.sendSyncState(playerID)
			return
		}
	}
	g.log.Warnf("reconnect for unknown player %s", playerID)
}

// ---- round and turn flow ----

// announceRound broadcasts the freshly dealt round and deals out private hands.
// Assumes lock is held by caller.
func (g *WizardGame) announceRound() {
	r := g.Engine.Round
	if r == nil {
		return
	}
	payload := map[string]interface{}{
		"roundIndex": g.Engine.RoundIndex,
		"numCards":   r.NumCards,
		"dealer":     g.Engine.Dealer,
	}
	ev := GameEvent{Type: EventRoundStart, Payload: payload}
	if r.TrumpCard != nil {
		ev.Card = cardToEvent(*r.TrumpCard)
	}
	if r.TrumpSuit != engine.SuitNone {
		payload["trumpSuit"] = SuitToString(r.TrumpSuit)
	}
	g.fireEvent(ev)

	for seat, pid := range g.SeatToPlayer {
		hand := g.Engine.SortedHand(seat)
		cards := make([]EventCard, len(hand))
		for i, c := range hand {
			cards[i] = *cardToEvent(c)
		}
		g.fireEventToPlayer(pid, GameEvent{
			Type:    EventPrivateHand,
			Payload: map[string]interface{}{"cards": cards},
		})
	}

	if g.Engine.AwaitingTrumpChoice() {
		g.fireEvent(GameEvent{
			Type: EventTrumpChoiceRequired,
			User: &EventUser{ID: g.SeatToPlayer[g.Engine.Dealer]},
		})
		g.scheduleNextTurnTimer()
		return
	}
	g.broadcastPlayerTurn()
}

// fireRoundScored broadcasts the score row the engine just appended.
// Assumes lock is held by caller.
func (g *WizardGame) fireRoundScored() {
	pad := g.Engine.ScorePad
	if len(pad) == 0 {
		return
	}
	row := pad[len(pad)-1]
	seats := make([]map[string]interface{}, len(row.Seats))
	totals := g.Engine.ScorePad.Totals(len(g.SeatToPlayer))
	for s, sc := range row.Seats {
		seats[s] = map[string]interface{}{
			"player":    g.SeatToPlayer[s],
			"bid":       sc.Bid,
			"tricksWon": sc.TricksWon,
			"delta":     sc.Delta,
			"total":     totals[s],
		}
	}
	g.fireEvent(GameEvent{
		Type:    EventRoundScored,
		Payload: map[string]interface{}{"numCards": row.NumCards, "seats": seats},
	})
}

// endGame finalizes the game, broadcasts results, and archives them.
// Assumes lock is held by caller.
func (g *WizardGame) endGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	g.stopTurnTimer()

	n := len(g.SeatToPlayer)
	totals := g.Engine.ScorePad.Totals(n)
	leaders := g.Engine.ScorePad.Leaders(n)

	totalsByPlayer := make(map[uuid.UUID]int, n)
	for s, pid := range g.SeatToPlayer {
		totalsByPlayer[pid] = totals[s]
	}
	winners := make([]uuid.UUID, len(leaders))
	winnerPayload := make([]string, len(leaders))
	for i, s := range leaders {
		winners[i] = g.SeatToPlayer[s]
		winnerPayload[i] = g.SeatToPlayer[s].String()
	}
	g.log.Infof("game over, winners %v", winnerPayload)

	g.fireEvent(GameEvent{Type: EventGameEnd, Payload: map[string]interface{}{
		"winners": winnerPayload,
		"totals":  totalsByPlayer,
	}})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.LobbyID, winners, totalsByPlayer)
	}

	if g.DB != nil {
		res := database.GameResult{
			GameID:     g.ID,
			NumPlayers: n,
			Seed:       g.Seed,
			Winners:    winners,
			Totals:     totalsByPlayer,
			ScorePad:   g.Engine.ScorePad,
			FinishedAt: time.Now(),
		}
		go func() {
			if err := g.DB.SaveResult(context.Background(), res); err != nil {
				g.log.WithError(err).Error("failed to archive game result")
			}
		}()
	}
	if g.Cache != nil {
		go g.Cache.DeleteSnapshot(context.Background(), g.ID) //nolint:errcheck
	}
}

// afterMove bumps the turn counter and records activity for the actor.
// Assumes lock is held by caller.
func (g *WizardGame) afterMove(playerID uuid.UUID) {
	g.TurnID++
	g.lastSeen[playerID] = time.Now()
}

// currentActorSeat returns the seat expected to act next. During a pending
// trump choice that is the dealer rather than the engine's CurrentPlayer.
// Assumes lock is held by caller.
func (g *WizardGame) currentActorSeat() int {
	if g.Engine.AwaitingTrumpChoice() {
		return g.Engine.Dealer
	}
	return g.Engine.CurrentPlayer
}

// broadcastPlayerTurn notifies all players of the current actor and phase.
// Assumes lock is held by caller.
func (g *WizardGame) broadcastPlayerTurn() {
	if g.GameOver || g.Engine.IsGameOver() {
		return
	}
	seat := g.currentActorSeat()
	g.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		User: &EventUser{ID: g.SeatToPlayer[seat]},
		Payload: map[string]interface{}{
			"turnId": g.TurnID,
			"phase":  g.Engine.Phase.String(),
		},
	})
	g.scheduleNextTurnTimer()
}

// scheduleNextTurnTimer arms the timeout for the current actor.
// Assumes lock is held by caller.
func (g *WizardGame) scheduleNextTurnTimer() {
	g.stopTurnTimer()
	if g.TurnDuration <= 0 || g.GameOver {
		return
	}
	turnID := g.TurnID
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.handleTimeout(turnID)
	})
}

func (g *WizardGame) stopTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
}

// handleTimeout plays a safe default move for the actor who ran out of time.
// The stale-turn check discards timers that fired after the actor moved.
func (g *WizardGame) handleTimeout(turnID int) {
	g.Mu.Lock()
	if g.GameOver || g.Engine == nil || g.Engine.IsGameOver() || g.TurnID != turnID {
		g.Mu.Unlock()
		return
	}
	seat := g.currentActorSeat()
	playerID := g.SeatToPlayer[seat]
	awaitingTrump := g.Engine.AwaitingTrumpChoice()
	phase := g.Engine.Phase
	g.log.Warnf("player %s timed out, auto-moving", playerID)
	g.Mu.Unlock()

	switch {
	case awaitingTrump:
		g.HandleChooseTrump(playerID, g.defaultTrumpSuit(seat))
	case phase == engine.PhaseBidding:
		g.HandleSubmitBid(playerID, 0)
		// The even-total rule can forbid 0 for the last bidder.
		g.Mu.Lock()
		retry := g.Engine.Phase == engine.PhaseBidding && g.currentActorSeat() == seat
		g.Mu.Unlock()
		if retry {
			g.HandleSubmitBid(playerID, 1)
		}
	case phase == engine.PhasePlaying:
		if card, ok := g.defaultPlay(seat); ok {
			g.HandlePlayCard(playerID, card)
		}
	}
}

// defaultTrumpSuit picks the suit the dealer holds most of.
func (g *WizardGame) defaultTrumpSuit(seat int) engine.Suit {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	best := engine.SuitBlue
	bestCount := -1
	counts := map[engine.Suit]int{}
	for _, c := range g.Engine.Hand(seat) {
		if c.Kind == engine.KindRegular {
			counts[c.Suit]++
		}
	}
	for _, s := range engine.AllSuits {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}

// defaultPlay picks the first playable card in the seat's sorted hand.
func (g *WizardGame) defaultPlay(seat int) (engine.Card, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	playable, err := g.Engine.PlayableCards(seat)
	if err != nil || len(playable) == 0 {
		return engine.Card{}, false
	}
	return playable[0], true
}

// ---- plumbing ----

// seatOf maps a player UUID to an engine seat, rejecting unknown players.
// Assumes lock is held by caller.
func (g *WizardGame) seatOf(playerID uuid.UUID) (int, bool) {
	if !g.Started || g.Engine == nil {
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventPrivateMoveFail,
			Payload: map[string]interface{}{"reason": "not_started"},
		})
		return 0, false
	}
	seat, ok := g.PlayerToSeat[playerID]
	if !ok {
		g.log.Warnf("move from unknown player %s", playerID)
		return 0, false
	}
	return seat, true
}

// rejectMove relays an engine rejection to the offending player. Engine state
// errors indicate corruption and are logged loudly instead.
// Assumes lock is held by caller.
func (g *WizardGame) rejectMove(playerID uuid.UUID, err error) {
	if reason, ok := engine.RejectReason(err); ok {
		g.fireEventToPlayer(playerID, GameEvent{
			Type: EventPrivateMoveFail,
			Payload: map[string]interface{}{
				"reason": string(reason),
				"detail": err.Error(),
			},
		})
		return
	}
	g.log.WithError(err).Errorf("engine state error on move by %s", playerID)
}

// failMove reports a malformed move envelope without touching the engine.
func (g *WizardGame) failMove(playerID uuid.UUID, detail string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.fireEventToPlayer(playerID, GameEvent{
		Type: EventPrivateMoveFail,
		Payload: map[string]interface{}{
			"reason": "bad_request",
			"detail": detail,
		},
	})
}

// fireEvent broadcasts an event to all connected players via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *WizardGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	} else {
		g.log.Warnf("BroadcastFn is nil, dropping event %s", ev.Type)
	}
}

// fireEventToPlayer sends an event to a specific player via the BroadcastToPlayerFn callback.
// Assumes lock is held by caller.
func (g *WizardGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.log.Warnf("BroadcastToPlayerFn is nil, dropping event %s for %s", ev.Type, playerID)
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && !p.Connected {
		return
	}
	g.BroadcastToPlayerFn(playerID, ev)
}

// sendSyncState pushes a full obfuscated state to one player.
// Assumes lock is held by caller.
func (g *WizardGame) sendSyncState(playerID uuid.UUID) {
	state := g.ObfuscatedStateFor(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// BroadcastSyncStateToAll pushes each player their own view of the state.
func (g *WizardGame) BroadcastSyncStateToAll() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		g.sendSyncState(p.ID)
	}
}

func (g *WizardGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// persistSnapshot writes the current engine state to the cache, if configured.
// The engine clone is taken under the lock; the write happens off it.
// Assumes lock is held by caller.
func (g *WizardGame) persistSnapshot() {
	if g.Cache == nil || g.Engine == nil {
		return
	}
	snap := g.Engine.Clone()
	id := g.ID
	store := g.Cache
	go func() {
		if err := store.SaveSnapshot(context.Background(), id, snap); err != nil {
			logrus.WithError(err).WithField("game_id", id).Error("failed to persist snapshot")
		}
	}()
}
