package gamedata

import "fmt"

// Multiplier percentages. Stored as integers so that floor(base * mult)
// is exact: 25 * 120 / 100 == 30, never 29.999...
const (
	MultiplierDisadvantage = 80
	MultiplierNeutral      = 100
	MultiplierAdvantage    = 120
)

// MatchupTable maps attacker class -> defender class -> damage percentage.
type MatchupTable map[ClassID]map[ClassID]int

// MatchupsFile represents the structure of matchups.json.
type MatchupsFile struct {
	Multipliers MatchupTable `json:"multipliers"`
}

// LoadMatchups loads the damage multiplier matrix from matchups.json.
func LoadMatchups() (MatchupTable, error) {
	file, err := Load[MatchupsFile]("matchups.json")
	if err != nil {
		return nil, err
	}
	return file.Multipliers, nil
}

// Percent returns the multiplier for attacker vs defender.
// Pairs missing from the table are neutral.
func (t MatchupTable) Percent(attacker, defender ClassID) int {
	row, ok := t[attacker]
	if !ok {
		return MultiplierNeutral
	}
	pct, ok := row[defender]
	if !ok {
		return MultiplierNeutral
	}
	return pct
}

// validate checks that every class pair is present and positive.
func (t MatchupTable) validate(classes []ClassDef) error {
	for _, a := range classes {
		row, ok := t[a.ID]
		if !ok {
			return fmt.Errorf("matchups: missing row for %s", a.ID)
		}
		for _, d := range classes {
			pct, ok := row[d.ID]
			if !ok {
				return fmt.Errorf("matchups: missing %s vs %s", a.ID, d.ID)
			}
			if pct <= 0 {
				return fmt.Errorf("matchups: %s vs %s must be positive, got %d", a.ID, d.ID, pct)
			}
		}
	}
	return nil
}
