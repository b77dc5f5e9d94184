package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/world"
)

// ErrUnknownCharacter is returned when a character is not (or no longer) registered.
var ErrUnknownCharacter = errors.New("character not in registry")

// Registry owns every living character and keeps the grid's occupancy set
// in agreement with character positions. All position changes go through it.
type Registry struct {
	grid       *world.Grid
	characters []*Character // creation order
	byPos      map[world.Position]*Character
}

// NewRegistry creates an empty registry bound to grid.
func NewRegistry(grid *world.Grid) *Registry {
	return &Registry{
		grid:  grid,
		byPos: make(map[world.Position]*Character),
	}
}

// Create places a new character at pos, reserving the cell.
func (r *Registry) Create(player Player, class *gamedata.ClassDef, pos world.Position) (*Character, error) {
	if !player.Valid() {
		return nil, fmt.Errorf("create character: invalid player %q", player)
	}
	if class == nil {
		return nil, errors.New("create character: nil class")
	}
	if err := r.grid.Reserve(pos); err != nil {
		return nil, fmt.Errorf("create %s for %s: %w", class.ID, player, err)
	}
	c := NewCharacter(player, class, pos)
	r.characters = append(r.characters, c)
	r.byPos[pos] = c
	return c, nil
}

// Spawn creates a character on a random free cell of region.
func (r *Registry) Spawn(rng *rand.Rand, player Player, class *gamedata.ClassDef, region world.Region) (*Character, error) {
	if class == nil {
		return nil, errors.New("spawn character: nil class")
	}
	pos, err := r.grid.RandomUnoccupiedCell(rng, region)
	if err != nil {
		return nil, fmt.Errorf("spawn %s for %s: %w", class.ID, player, err)
	}
	return r.Create(player, class, pos)
}

// Move relocates c to dest. The destination is reserved before the source
// is released, so a failed move changes nothing.
func (r *Registry) Move(c *Character, dest world.Position) error {
	if !r.Contains(c) {
		return ErrUnknownCharacter
	}
	if err := r.grid.Reserve(dest); err != nil {
		return err
	}
	r.grid.Release(c.Pos)
	delete(r.byPos, c.Pos)
	c.Pos = dest
	r.byPos[dest] = c
	return nil
}

// Remove frees c's cell and drops it from the live set.
func (r *Registry) Remove(c *Character) error {
	idx := r.indexOf(c)
	if idx < 0 {
		return ErrUnknownCharacter
	}
	r.grid.Release(c.Pos)
	delete(r.byPos, c.Pos)
	r.characters = append(r.characters[:idx], r.characters[idx+1:]...)
	return nil
}

// FindAt returns the character occupying pos, if any.
func (r *Registry) FindAt(pos world.Position) (*Character, bool) {
	c, ok := r.byPos[pos]
	return c, ok
}

// FindByID returns the character with the given ID, if registered.
func (r *Registry) FindByID(id string) (*Character, bool) {
	for _, c := range r.characters {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// LivingByPlayer returns the player's remaining characters in creation order.
func (r *Registry) LivingByPlayer(p Player) []*Character {
	out := make([]*Character, 0, len(r.characters))
	for _, c := range r.characters {
		if c.Player == p {
			out = append(out, c)
		}
	}
	return out
}

// All returns every living character in creation order.
func (r *Registry) All() []*Character {
	out := make([]*Character, len(r.characters))
	copy(out, r.characters)
	return out
}

// Count returns the number of living characters.
func (r *Registry) Count() int {
	return len(r.characters)
}

// Contains reports whether c is registered.
func (r *Registry) Contains(c *Character) bool {
	return r.indexOf(c) >= 0
}

func (r *Registry) indexOf(c *Character) int {
	for i, existing := range r.characters {
		if existing == c {
			return i
		}
	}
	return -1
}
