// internal/models/models.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// User holds identity information for a connected user.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Player represents a seated participant in a game instance.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	User      *User           `json:"user,omitempty"`
	Seat      int             `json:"seat"`
	Conn      *websocket.Conn `json:"-"`
	Connected bool            `json:"connected"`
}

// GameMove is the envelope clients send over the wire to act in a game.
// Exactly one of the optional fields is meaningful depending on Type:
// "bid" uses Value, "play_card" uses Card, "choose_trump" uses Suit.
type GameMove struct {
	Type  string    `json:"type"`
	Value *int      `json:"value,omitempty"`
	Card  *MoveCard `json:"card,omitempty"`
	Suit  string    `json:"suit,omitempty"`
}

// MoveCard identifies a card in a client move by its visible attributes.
type MoveCard struct {
	Suit string `json:"suit"`
	Kind string `json:"kind"`
	Rank int    `json:"rank,omitempty"`
}
