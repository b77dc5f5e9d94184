// Package turn implements the per-turn state machine: whose turn it is,
// which actions remain, and when play passes to the other side.
package turn

import (
	"math/rand"

	"github.com/samdwyer/skirmish/internal/entity"
)

// State represents the controller's current phase.
type State int

const (
	Player1Turn State = iota
	Player2Turn
	GameOver
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Player1Turn:
		return "Player1Turn"
	case Player2Turn:
		return "Player2Turn"
	case GameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// DieSides is the size of the initiative die.
const DieSides = 20

// Initiative records the opening roll.
type Initiative struct {
	Player1 int
	Player2 int
}

// First returns the side that acts first. Player 1 wins ties.
func (i Initiative) First() entity.Player {
	if i.Player1 >= i.Player2 {
		return entity.Player1
	}
	return entity.Player2
}

// RollInitiative rolls 1-20 for each player.
func RollInitiative(rng *rand.Rand) Initiative {
	return Initiative{
		Player1: rng.Intn(DieSides) + 1,
		Player2: rng.Intn(DieSides) + 1,
	}
}

// Controller tracks the active player and the per-turn action flags.
type Controller struct {
	state      State
	moveUsed   bool
	combatUsed bool

	// OnTurnChanged is called with the new active player after every advance.
	OnTurnChanged func(entity.Player)
}

// NewController starts play with the given player.
func NewController(first entity.Player) *Controller {
	return &Controller{state: stateFor(first)}
}

func stateFor(p entity.Player) State {
	if p == entity.Player2 {
		return Player2Turn
	}
	return Player1Turn
}

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// IsOver reports whether the game has ended.
func (c *Controller) IsOver() bool { return c.state == GameOver }

// Current returns the active player. It is empty once the game is over.
func (c *Controller) Current() entity.Player {
	switch c.state {
	case Player1Turn:
		return entity.Player1
	case Player2Turn:
		return entity.Player2
	default:
		return ""
	}
}

// MoveUsed reports whether this turn's move has been spent.
func (c *Controller) MoveUsed() bool { return c.moveUsed }

// CombatUsed reports whether this turn's combat action has been spent.
func (c *Controller) CombatUsed() bool { return c.combatUsed }

// UseMove spends the move action, advancing if combat is spent too.
func (c *Controller) UseMove() {
	if c.IsOver() {
		return
	}
	c.moveUsed = true
	c.advanceIfDone()
}

// UseCombat spends the combat action, advancing if the move is spent too.
func (c *Controller) UseCombat() {
	if c.IsOver() {
		return
	}
	c.combatUsed = true
	c.advanceIfDone()
}

// EndTurnEarly passes play regardless of which actions remain.
func (c *Controller) EndTurnEarly() {
	c.Advance()
}

// Advance passes play to the other player and clears both flags.
// It does nothing once the game is over.
func (c *Controller) Advance() {
	if c.IsOver() {
		return
	}
	c.moveUsed = false
	c.combatUsed = false
	if c.state == Player1Turn {
		c.state = Player2Turn
	} else {
		c.state = Player1Turn
	}
	if c.OnTurnChanged != nil {
		c.OnTurnChanged(c.Current())
	}
}

// EnterGameOver moves to the terminal state. Later calls are no-ops.
func (c *Controller) EnterGameOver() {
	c.state = GameOver
	c.moveUsed = false
	c.combatUsed = false
}

func (c *Controller) advanceIfDone() {
	if c.moveUsed && c.combatUsed {
		c.Advance()
	}
}
