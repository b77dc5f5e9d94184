package world

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/skirmish/internal/telemetry"
)

const (
	// Reference build dimensions
	DefaultColumns   = 10
	DefaultRows      = 6
	DefaultObstacles = 8
)

var (
	// ErrOutOfBounds is returned when a cell lies outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrOccupied is returned when reserving a cell that already has an occupant.
	ErrOccupied = errors.New("cell occupied")
	// ErrNoFreeCell is returned when a placement region has no unoccupied cell left.
	ErrNoFreeCell = errors.New("no unoccupied cell in region")
)

// Grid is the battle map. It owns the obstacle set and the occupancy set
// (obstacles plus live character positions). A cell holds at most one occupant.
type Grid struct {
	Columns int
	Rows    int

	obstacles map[Position]ObstacleType
	occupied  map[Position]struct{}
}

// NewGrid creates an empty grid.
func NewGrid(columns, rows int) *Grid {
	return &Grid{
		Columns:   columns,
		Rows:      rows,
		obstacles: make(map[Position]ObstacleType),
		occupied:  make(map[Position]struct{}),
	}
}

// InBounds returns true if the position lies on the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Col >= 0 && p.Col < g.Columns && p.Row >= 0 && p.Row < g.Rows
}

// IsOccupied returns true if an obstacle or character holds the cell.
// Out-of-bounds cells are reported as occupied.
func (g *Grid) IsOccupied(p Position) bool {
	if !g.InBounds(p) {
		return true
	}
	_, ok := g.occupied[p]
	return ok
}

// Reserve marks a free in-bounds cell as occupied.
func (g *Grid) Reserve(p Position) error {
	if !g.InBounds(p) {
		return fmt.Errorf("reserve %s: %w", p, ErrOutOfBounds)
	}
	if _, ok := g.occupied[p]; ok {
		return fmt.Errorf("reserve %s: %w", p, ErrOccupied)
	}
	g.occupied[p] = struct{}{}
	return nil
}

// Release frees a cell. Obstacle cells are never released.
func (g *Grid) Release(p Position) {
	if _, blocked := g.obstacles[p]; blocked {
		return
	}
	delete(g.occupied, p)
}

// PlaceObstacle reserves the cell and records it as an obstacle.
func (g *Grid) PlaceObstacle(p Position, t ObstacleType) error {
	if err := g.Reserve(p); err != nil {
		return err
	}
	g.obstacles[p] = t
	return nil
}

// ObstacleAt returns the obstacle type at p, if any.
func (g *Grid) ObstacleAt(p Position) (ObstacleType, bool) {
	t, ok := g.obstacles[p]
	return t, ok
}

// Obstacles returns every obstacle ordered by row, then column.
func (g *Grid) Obstacles() []Obstacle {
	out := make([]Obstacle, 0, len(g.obstacles))
	for p, t := range g.obstacles {
		out = append(out, Obstacle{Pos: p, Type: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Row != out[j].Pos.Row {
			return out[i].Pos.Row < out[j].Pos.Row
		}
		return out[i].Pos.Col < out[j].Pos.Col
	})
	return out
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int {
	return len(g.occupied)
}

// CellsWithinRange yields every in-bounds cell whose Manhattan distance from
// origin is at most r, row by row. The origin itself is included. The
// sequence has no side effects and may be ranged over repeatedly.
func (g *Grid) CellsWithinRange(origin Position, r int) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if r < 0 {
			return
		}
		for dr := -r; dr <= r; dr++ {
			span := r - abs(dr)
			for dc := -span; dc <= span; dc++ {
				p := origin.Add(dc, dr)
				if !g.InBounds(p) {
					continue
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Footprint yields the in-bounds cells of the plus-shaped area around center.
func (g *Grid) Footprint(center Position) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for _, p := range PlusFootprint(center) {
			if !g.InBounds(p) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// FreeCells counts the unoccupied in-bounds cells of a region.
func (g *Grid) FreeCells(region Region) int {
	free := 0
	for row := region.MinRow; row <= region.MaxRow; row++ {
		for col := region.MinCol; col <= region.MaxCol; col++ {
			if !g.IsOccupied(Pos(col, row)) {
				free++
			}
		}
	}
	return free
}

// RandomUnoccupiedCell picks uniformly among the region's cells, retrying
// until it finds a free one. The free count is checked first so the retry
// loop always terminates; an exhausted region yields ErrNoFreeCell.
// The returned cell is not reserved.
func (g *Grid) RandomUnoccupiedCell(rng *rand.Rand, region Region) (Position, error) {
	if g.FreeCells(region) == 0 {
		return Position{}, fmt.Errorf("region cols %d-%d: %w", region.MinCol, region.MaxCol, ErrNoFreeCell)
	}
	width := region.MaxCol - region.MinCol + 1
	height := region.MaxRow - region.MinRow + 1
	for {
		p := Pos(region.MinCol+rng.Intn(width), region.MinRow+rng.Intn(height))
		if !g.IsOccupied(p) {
			return p, nil
		}
	}
}

// ScatterObstacles places count obstacles on random free cells anywhere on
// the grid, each water or rock with equal probability.
func (g *Grid) ScatterObstacles(ctx context.Context, rng *rand.Rand, count int) error {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "grid.scatter_obstacles")
	defer span.End()

	whole := Region{MinCol: 0, MaxCol: g.Columns - 1, MinRow: 0, MaxRow: g.Rows - 1}
	water := 0
	for i := 0; i < count; i++ {
		p, err := g.RandomUnoccupiedCell(rng, whole)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("place obstacle %d of %d: %w", i+1, count, err)
		}
		kind := ObstacleRock
		if rng.Intn(2) == 0 {
			kind = ObstacleWater
			water++
		}
		if err := g.PlaceObstacle(p, kind); err != nil {
			return err
		}
	}

	span.SetAttributes(
		attribute.Int("grid.columns", g.Columns),
		attribute.Int("grid.rows", g.Rows),
		attribute.Int("grid.obstacles", count),
		attribute.Int("grid.water", water),
	)
	return nil
}
