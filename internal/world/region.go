package world

// Region is an inclusive rectangle of cells, used for spawn halves.
type Region struct {
	MinCol, MaxCol int
	MinRow, MaxRow int
}

// ColumnBand returns the region spanning columns [minCol, maxCol] over every row of g.
func (g *Grid) ColumnBand(minCol, maxCol int) Region {
	return Region{MinCol: minCol, MaxCol: maxCol, MinRow: 0, MaxRow: g.Rows - 1}
}

// Contains returns true if the given point is inside the region.
func (r Region) Contains(p Position) bool {
	return p.Col >= r.MinCol && p.Col <= r.MaxCol && p.Row >= r.MinRow && p.Row <= r.MaxRow
}

// Size returns the number of cells in the region, or 0 if it is empty.
func (r Region) Size() int {
	w := r.MaxCol - r.MinCol + 1
	h := r.MaxRow - r.MinRow + 1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
