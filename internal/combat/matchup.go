package combat

import "github.com/samdwyer/skirmish/internal/gamedata"

// Matchup classifies an attacker/defender class pairing.
type Matchup int

const (
	Neutral Matchup = iota
	Advantage
	Disadvantage
)

func (m Matchup) String() string {
	switch m {
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	default:
		return "neutral"
	}
}

// Matchup reports how attacker fares against defender. Used for previews;
// it does not touch the defend stance.
func (r *Resolver) Matchup(attacker, defender gamedata.ClassID) Matchup {
	pct := r.matchups.Percent(attacker, defender)
	switch {
	case pct > gamedata.MultiplierNeutral:
		return Advantage
	case pct < gamedata.MultiplierNeutral:
		return Disadvantage
	default:
		return Neutral
	}
}

// Multiplier returns the raw matchup percentage.
func (r *Resolver) Multiplier(attacker, defender gamedata.ClassID) int {
	return r.matchups.Percent(attacker, defender)
}
