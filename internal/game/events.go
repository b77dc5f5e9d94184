package game

import (
	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/world"
)

// Outcome is the result of a finished match.
type Outcome struct {
	Winner entity.Player // Empty on a draw
	Draw   bool
}

// String returns a banner-ready description.
func (o Outcome) String() string {
	if o.Draw {
		return "Draw"
	}
	return o.Winner.Label() + " wins"
}

// Listener receives session events. Presentation layers subscribe with one.
type Listener interface {
	OnTurnChanged(player entity.Player)
	OnCharacterMoved(c *entity.Character, from, to world.Position)
	OnDamageApplied(target *entity.Character, amount, hp int)
	OnCharacterDefeated(c *entity.Character)
	OnGameOver(outcome Outcome)
}

// NopListener ignores every event. Embed it to handle only some.
type NopListener struct{}

func (NopListener) OnTurnChanged(entity.Player)                                        {}
func (NopListener) OnCharacterMoved(*entity.Character, world.Position, world.Position) {}
func (NopListener) OnDamageApplied(*entity.Character, int, int)                        {}
func (NopListener) OnCharacterDefeated(*entity.Character)                              {}
func (NopListener) OnGameOver(Outcome)                                                 {}

var _ Listener = NopListener{}
