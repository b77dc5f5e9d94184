package gamedata

import (
	"slices"

	"github.com/gdamore/tcell/v2"
)

// ClassID identifies one of the playable classes.
type ClassID string

const (
	ClassWarrior ClassID = "warrior"
	ClassMage    ClassID = "mage"
	ClassArcher  ClassID = "archer"
)

// ResourceKind names the class-specific resource stat.
type ResourceKind string

const (
	ResourceRage ResourceKind = "rage"
	ResourceMana ResourceKind = "mana"
)

// String returns the display name of the resource ("Rage" or "Mana").
func (r ResourceKind) String() string {
	switch r {
	case ResourceRage:
		return "Rage"
	case ResourceMana:
		return "Mana"
	default:
		return "Resource"
	}
}

// ClassDef defines a playable class loaded from JSON.
type ClassDef struct {
	ID          ClassID      `json:"id"`          // Unique identifier (e.g., "warrior")
	Name        string       `json:"name"`        // Display name (e.g., "Warrior")
	Symbol      string       `json:"symbol"`      // Single character for rendering (e.g., "W")
	Color       string       `json:"color"`       // Hex color code for the token
	Resource    ResourceKind `json:"resource"`    // Rage or Mana
	MoveRange   int          `json:"moveRange"`   // Manhattan distance per move action
	CombatRange int          `json:"combatRange"` // Longest reach of the class's abilities
	Abilities   []string     `json:"abilities"`   // Ability IDs, in menu order
}

// SymbolRune returns the symbol as a rune for rendering.
func (c *ClassDef) SymbolRune() rune {
	if len(c.Symbol) == 0 {
		return '?'
	}
	return rune(c.Symbol[0])
}

// TCellColor returns the class color as a tcell.Color.
func (c *ClassDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(c.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// HasAbility reports whether the class may use the given ability.
func (c *ClassDef) HasAbility(id string) bool {
	return slices.Contains(c.Abilities, id)
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Classes []ClassDef `json:"classes"`
}

// LoadClasses loads class definitions from the embedded classes.json file.
func LoadClasses() ([]ClassDef, error) {
	file, err := Load[ClassesFile]("classes.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}

// MustLoadClasses loads class definitions, panicking on error.
func MustLoadClasses() []ClassDef {
	classes, err := LoadClasses()
	if err != nil {
		panic(err)
	}
	return classes
}
