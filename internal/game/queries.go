package game

import (
	"slices"

	"github.com/samdwyer/skirmish/internal/combat"
	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/turn"
	"github.com/samdwyer/skirmish/internal/world"
)

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Seed returns the seed the match was generated from.
func (s *Session) Seed() int64 { return s.seed }

// Config returns the configuration the session was built with.
func (s *Session) Config() Config { return s.cfg }

// Rules returns the loaded rule tables.
func (s *Session) Rules() *gamedata.Rules { return s.rules }

// Grid returns the board. Callers must not mutate it.
func (s *Session) Grid() *world.Grid { return s.grid }

// Phase returns the turn controller's state.
func (s *Session) Phase() turn.State { return s.turns.State() }

// IsOver reports whether the match has ended.
func (s *Session) IsOver() bool { return s.outcome != nil }

// Outcome returns the result once the match has ended.
func (s *Session) Outcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// CurrentPlayer returns the player whose turn it is, or "" after game over.
func (s *Session) CurrentPlayer() entity.Player { return s.turns.Current() }

// MoveUsed reports whether the active player has moved this turn.
func (s *Session) MoveUsed() bool { return s.turns.MoveUsed() }

// CombatUsed reports whether the active player has acted this turn.
func (s *Session) CombatUsed() bool { return s.turns.CombatUsed() }

// Initiative returns the opening d20 rolls.
func (s *Session) Initiative() turn.Initiative { return s.initiative }

// Characters returns every living character.
func (s *Session) Characters() []*entity.Character { return s.registry.All() }

// Living returns a player's remaining characters.
func (s *Session) Living(p entity.Player) []*entity.Character {
	return s.registry.LivingByPlayer(p)
}

// CharacterAt returns the character standing on pos, if any.
func (s *Session) CharacterAt(pos world.Position) (*entity.Character, bool) {
	return s.registry.FindAt(pos)
}

// Abilities returns the abilities c's class can use.
func (s *Session) Abilities(c *entity.Character) []*gamedata.AbilityDef {
	if c == nil {
		return nil
	}
	return s.rules.AbilitiesFor(c.Class)
}

// Matchup previews how attacker fares against defender.
func (s *Session) Matchup(attacker, defender *entity.Character) combat.Matchup {
	return s.resolver.Matchup(attacker.ClassID(), defender.ClassID())
}

// CanAct reports whether c belongs to the active player of a running match.
func (s *Session) CanAct(c *entity.Character) bool {
	return c != nil && !s.IsOver() && s.registry.Contains(c) && c.Player == s.turns.Current()
}

// MoveTargets lists the cells c may legally move to right now. It is empty
// when c cannot act or the move is spent.
func (s *Session) MoveTargets(c *entity.Character) []world.Position {
	if !s.CanAct(c) || s.turns.MoveUsed() {
		return nil
	}
	var out []world.Position
	for p := range s.grid.CellsWithinRange(c.Pos, c.Class.MoveRange) {
		if !s.grid.IsOccupied(p) {
			out = append(out, p)
		}
	}
	return out
}

// AttackTargets lists the enemies c can hit with the given single-target
// ability right now.
func (s *Session) AttackTargets(c *entity.Character, abilityID string) []*entity.Character {
	if !s.CanAct(c) || s.turns.CombatUsed() || !c.Class.HasAbility(abilityID) {
		return nil
	}
	ability := s.rules.Abilities.GetByID(abilityID)
	if ability == nil || ability.Kind != gamedata.KindStrike {
		return nil
	}
	var out []*entity.Character
	for _, enemy := range s.registry.LivingByPlayer(c.Player.Opponent()) {
		if world.Distance(c.Pos, enemy.Pos) <= ability.Range {
			out = append(out, enemy)
		}
	}
	return out
}

// AreaCenters lists the cells c may center its area ability on.
func (s *Session) AreaCenters(c *entity.Character) []world.Position {
	if !s.CanAct(c) || s.turns.CombatUsed() || !c.Class.HasAbility(gamedata.AbilityFire) {
		return nil
	}
	ability := s.rules.Abilities.GetByID(gamedata.AbilityFire)
	if ability == nil {
		return nil
	}
	return slices.Collect(s.grid.CellsWithinRange(c.Pos, ability.Range))
}

// AreaFootprint lists the in-bounds cells an area ability centered on
// center would cover.
func (s *Session) AreaFootprint(center world.Position) []world.Position {
	return slices.Collect(s.grid.Footprint(center))
}
