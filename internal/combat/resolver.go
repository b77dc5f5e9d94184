// Package combat provides damage resolution for skirmish.
package combat

import (
	"iter"

	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/world"
)

// Combatant is the interface for any unit that can give or take damage.
type Combatant interface {
	// Identity
	GetName() string
	ClassID() gamedata.ClassID
	Team() string
	IsAlive() bool

	// Stats
	GetHP() int
	IsDefending() bool

	// Mutations
	ConsumeDefend() bool       // Clears the stance, reports whether it was up
	TakeDamage(amount int) int // Returns HP after the hit
}

// Board is the view of the field an area effect needs: which cells the
// footprint covers and who stands on them.
type Board interface {
	Footprint(center world.Position) iter.Seq[world.Position]
	CombatantAt(pos world.Position) (Combatant, bool)
}

// Hit records one application of damage.
type Hit struct {
	Target   Combatant
	Damage   int
	HP       int  // Target HP after the hit
	Defended bool // The defend stance absorbed half of this hit
}

// Resolver computes damage from the class matchup matrix.
type Resolver struct {
	matchups gamedata.MatchupTable
}

// NewResolver creates a resolver over the given matchup matrix.
func NewResolver(matchups gamedata.MatchupTable) *Resolver {
	return &Resolver{matchups: matchups}
}

// ComputeDamage returns the effective damage of a base hit from attacker on
// defender. A defending defender halves the base (floor) and loses the
// stance. The matchup percentage is applied last, floored.
//
// No HP is changed here.
func (r *Resolver) ComputeDamage(attacker, defender Combatant, base int) int {
	damage, _ := r.computeDamage(attacker, defender, base)
	return damage
}

func (r *Resolver) computeDamage(attacker, defender Combatant, base int) (int, bool) {
	if base < 0 {
		base = 0
	}
	defended := defender.ConsumeDefend()
	if defended {
		base /= 2
	}
	pct := r.matchups.Percent(attacker.ClassID(), defender.ClassID())
	return base * pct / 100, defended
}

// Strike computes and applies a single-target hit.
func (r *Resolver) Strike(attacker, defender Combatant, base int) Hit {
	damage, defended := r.computeDamage(attacker, defender, base)
	hp := defender.TakeDamage(damage)
	return Hit{Target: defender, Damage: damage, HP: hp, Defended: defended}
}

// SplitDamage divides total evenly among n victims. The remainder is
// dropped, never redistributed. Zero victims get nothing.
func SplitDamage(total, n int) int {
	if n <= 0 || total <= 0 {
		return 0
	}
	return total / n
}

// Victims returns the living enemies of attacker standing in the footprint
// around center, in footprint order.
func Victims(attacker Combatant, center world.Position, board Board) []Combatant {
	var victims []Combatant
	for pos := range board.Footprint(center) {
		c, ok := board.CombatantAt(pos)
		if !ok || !c.IsAlive() || c.Team() == attacker.Team() {
			continue
		}
		victims = append(victims, c)
	}
	return victims
}

// ResolveAreaEffect splits total across every enemy in the plus-shaped
// footprint around center and applies each share through the normal damage
// path. With no victims it does nothing and returns nil.
func (r *Resolver) ResolveAreaEffect(attacker Combatant, center world.Position, total int, board Board) []Hit {
	victims := Victims(attacker, center, board)
	if len(victims) == 0 {
		return nil
	}
	share := SplitDamage(total, len(victims))
	hits := make([]Hit, 0, len(victims))
	for _, v := range victims {
		hits = append(hits, r.Strike(attacker, v, share))
	}
	return hits
}
