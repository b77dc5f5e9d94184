package gamedata

import (
	"errors"
	"fmt"
)

// =============================================================================
// ClassRegistry
// =============================================================================

// ClassRegistry holds loaded class definitions in file order.
type ClassRegistry struct {
	classes map[ClassID]*ClassDef
	all     []ClassDef
}

// NewClassRegistry creates a registry from loaded class definitions.
func NewClassRegistry(classes []ClassDef) *ClassRegistry {
	registry := &ClassRegistry{
		classes: make(map[ClassID]*ClassDef),
		all:     classes,
	}
	for i := range classes {
		registry.classes[classes[i].ID] = &classes[i]
	}
	return registry
}

// GetByID returns the class definition with the given ID, or nil if not found.
func (r *ClassRegistry) GetByID(id ClassID) *ClassDef {
	return r.classes[id]
}

// All returns pointers to every class definition, in file order.
func (r *ClassRegistry) All() []*ClassDef {
	out := make([]*ClassDef, 0, len(r.all))
	for i := range r.all {
		out = append(out, &r.all[i])
	}
	return out
}

// Count returns the number of classes in the registry.
func (r *ClassRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// AbilityRegistry
// =============================================================================

// AbilityRegistry holds loaded ability definitions and provides lookup utilities.
type AbilityRegistry struct {
	abilities map[string]*AbilityDef
	all       []AbilityDef
}

// NewAbilityRegistry creates a registry from loaded ability definitions.
func NewAbilityRegistry(abilities []AbilityDef) *AbilityRegistry {
	registry := &AbilityRegistry{
		abilities: make(map[string]*AbilityDef),
		all:       abilities,
	}
	for i := range abilities {
		registry.abilities[abilities[i].ID] = &abilities[i]
	}
	return registry
}

// GetByID returns the ability definition with the given ID, or nil if not found.
func (r *AbilityRegistry) GetByID(id string) *AbilityDef {
	return r.abilities[id]
}

// GetMultiple returns ability definitions for a list of IDs.
// Missing IDs are silently skipped.
func (r *AbilityRegistry) GetMultiple(ids []string) []*AbilityDef {
	result := make([]*AbilityDef, 0, len(ids))
	for _, id := range ids {
		if ability := r.abilities[id]; ability != nil {
			result = append(result, ability)
		}
	}
	return result
}

// Count returns the number of abilities in the registry.
func (r *AbilityRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// Rules
// =============================================================================

// Rules bundles every static table the rules engine consults.
type Rules struct {
	Classes   *ClassRegistry
	Abilities *AbilityRegistry
	Matchups  MatchupTable
}

// LoadRules loads classes, abilities and matchups and cross-checks them.
func LoadRules() (*Rules, error) {
	classes, err := LoadClasses()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.New("no classes loaded from classes.json")
	}
	abilities, err := LoadAbilities()
	if err != nil {
		return nil, err
	}
	if len(abilities) == 0 {
		return nil, errors.New("no abilities loaded from abilities.json")
	}
	matchups, err := LoadMatchups()
	if err != nil {
		return nil, err
	}

	rules := &Rules{
		Classes:   NewClassRegistry(classes),
		Abilities: NewAbilityRegistry(abilities),
		Matchups:  matchups,
	}
	if err := rules.validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// MustLoadRules loads the rule tables, panicking on error.
func MustLoadRules() *Rules {
	rules, err := LoadRules()
	if err != nil {
		panic(err)
	}
	return rules
}

// AbilitiesFor returns the ability definitions of a class, in menu order.
func (r *Rules) AbilitiesFor(class *ClassDef) []*AbilityDef {
	if class == nil {
		return nil
	}
	return r.Abilities.GetMultiple(class.Abilities)
}

func (r *Rules) validate() error {
	for _, class := range r.Classes.All() {
		if class.MoveRange < 0 || class.CombatRange < 0 {
			return fmt.Errorf("class %s: ranges must be non-negative", class.ID)
		}
		for _, id := range class.Abilities {
			if r.Abilities.GetByID(id) == nil {
				return fmt.Errorf("class %s: unknown ability %q", class.ID, id)
			}
		}
	}
	return r.Matchups.validate(r.Classes.all)
}
