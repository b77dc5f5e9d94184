package entity

import (
	"github.com/google/uuid"

	"github.com/samdwyer/skirmish/internal/combat"
	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/world"
)

// Starting stats shared by every class.
const (
	DefaultHP       = 100
	DefaultEXP      = 0
	DefaultDamage   = 10 // Display only; never used in damage math
	DefaultResource = 100
)

// Resource is the class-specific stat (Rage for Warriors, Mana otherwise).
type Resource struct {
	Kind  gamedata.ResourceKind
	Value int
}

// Stats holds a character's mutable numbers.
type Stats struct {
	HP        int
	EXP       int // Tracked but reserved; no rule changes it
	Damage    int
	Resource  Resource
	Defending bool // Halves the next incoming hit, then clears
}

// Character is a single unit on the grid.
type Character struct {
	ID     string
	Player Player
	Class  *gamedata.ClassDef
	Pos    world.Position
	Stats  Stats
}

// NewCharacter creates a character with class-appropriate default stats.
// It does not touch any grid; use Registry.Create for placement.
func NewCharacter(player Player, class *gamedata.ClassDef, pos world.Position) *Character {
	return &Character{
		ID:     uuid.NewString(),
		Player: player,
		Class:  class,
		Pos:    pos,
		Stats: Stats{
			HP:     DefaultHP,
			EXP:    DefaultEXP,
			Damage: DefaultDamage,
			Resource: Resource{
				Kind:  class.Resource,
				Value: DefaultResource,
			},
		},
	}
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns "<Class> (<player>)".
func (c *Character) GetName() string {
	return c.Class.Name + " (" + string(c.Player) + ")"
}

// ClassID returns the character's class identifier.
func (c *Character) ClassID() gamedata.ClassID { return c.Class.ID }

// Team returns the owning player as a string.
func (c *Character) Team() string { return string(c.Player) }

// IsAlive returns true if the character has HP remaining.
func (c *Character) IsAlive() bool { return c.Stats.HP > 0 }

// GetHP returns current HP.
func (c *Character) GetHP() int { return c.Stats.HP }

// IsDefending reports whether a defend stance is active.
func (c *Character) IsDefending() bool { return c.Stats.Defending }

// SetDefending raises the defend stance.
func (c *Character) SetDefending() { c.Stats.Defending = true }

// ConsumeDefend clears the defend stance and reports whether it was set.
func (c *Character) ConsumeDefend() bool {
	was := c.Stats.Defending
	c.Stats.Defending = false
	return was
}

// TakeDamage subtracts amount from HP and returns the new HP. HP may go
// below zero; removal is the caller's job.
func (c *Character) TakeDamage(amount int) int {
	if amount > 0 {
		c.Stats.HP -= amount
	}
	return c.Stats.HP
}

// Ensure Character implements combat.Combatant
var _ combat.Combatant = (*Character)(nil)
