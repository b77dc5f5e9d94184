package gamedata

// =============================================================================
// ABILITY SYSTEM DESIGN
// =============================================================================
//
// Overview:
// ---------
// Every combat action a character can take is an ability. Abilities are
// defined in abilities.json and referenced by ID from classes.json. A
// character may use one ability per turn (the "combat action").
//
// Core Concepts:
// --------------
//
// 1. AbilityKind - How the ability resolves:
//    - strike: single enemy target within Range, deals BasePower
//    - area:   any cell within Range is the center of a plus-shaped
//              footprint; BasePower is split evenly across enemy victims
//    - stance: self only, no target (Defend)
//
// 2. Range - Manhattan distance from the user. Zero for stances.
//
// Damage Calculation:
// -------------------
// base   = BasePower (area: floor(BasePower / victims))
// base   = floor(base / 2) if the defender is defending (stance consumed)
// damage = floor(base * multiplier[attacker][defender] / 100)
//
// Telemetry:
// ----------
// - session.attack:      attacker, ability, target, damage
// - session.area_attack: attacker, center, victims, damage_each
// - session.defend:      character

// AbilityKind describes how an ability resolves.
type AbilityKind string

const (
	KindStrike AbilityKind = "strike"
	KindArea   AbilityKind = "area"
	KindStance AbilityKind = "stance"
)

// Ability identifiers shipped in abilities.json.
const (
	AbilityMelee     = "melee"
	AbilityRanged    = "ranged"
	AbilityLightning = "lightning"
	AbilityFire      = "fire"
	AbilityDefend    = "defend"
)

// AbilityDef defines an ability loaded from JSON.
type AbilityDef struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Key       string      `json:"key"` // Keyboard shortcut in the terminal UI
	Kind      AbilityKind `json:"kind"`
	BasePower int         `json:"basePower"`
	Range     int         `json:"range"`
}

// NeedsTarget returns true if the ability requires a character target.
func (a *AbilityDef) NeedsTarget() bool {
	return a.Kind == KindStrike
}

// IsOffensive returns true if the ability damages enemies.
func (a *AbilityDef) IsOffensive() bool {
	return a.Kind == KindStrike || a.Kind == KindArea
}

// KeyRune returns the shortcut key as a rune, or 0 if none is set.
func (a *AbilityDef) KeyRune() rune {
	if len(a.Key) == 0 {
		return 0
	}
	return rune(a.Key[0])
}

// AbilitiesFile represents the structure of abilities.json.
type AbilitiesFile struct {
	Abilities []AbilityDef `json:"abilities"`
}

// LoadAbilities loads ability definitions from the embedded abilities.json file.
func LoadAbilities() ([]AbilityDef, error) {
	file, err := Load[AbilitiesFile]("abilities.json")
	if err != nil {
		return nil, err
	}
	return file.Abilities, nil
}
