// Package world provides the battle grid: bounds, obstacles, occupancy and
// Manhattan-distance range queries.
package world

import "fmt"

// Position is a grid cell address.
type Position struct {
	Col, Row int
}

// Pos is shorthand for Position{Col: col, Row: row}.
func Pos(col, row int) Position {
	return Position{Col: col, Row: row}
}

// String returns "(col,row)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Add returns p offset by (dc, dr).
func (p Position) Add(dc, dr int) Position {
	return Position{Col: p.Col + dc, Row: p.Row + dr}
}

// Distance returns the Manhattan distance |Δcol| + |Δrow|.
func Distance(a, b Position) int {
	return abs(a.Col-b.Col) + abs(a.Row-b.Row)
}

// PlusFootprint returns the center and its four orthogonal neighbors,
// without bounds filtering.
func PlusFootprint(center Position) [5]Position {
	return [5]Position{
		center,
		center.Add(1, 0),
		center.Add(-1, 0),
		center.Add(0, 1),
		center.Add(0, -1),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
