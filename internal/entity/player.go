// Package entity provides the characters on the battle grid and the
// registry that owns them.
package entity

// Player identifies one side of a match.
type Player string

const (
	Player1 Player = "player1"
	Player2 Player = "player2"
)

// Players lists both sides in seating order.
var Players = [2]Player{Player1, Player2}

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Label returns a display name ("Player 1").
func (p Player) Label() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "Nobody"
	}
}

// Valid reports whether p is one of the two seats.
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}
