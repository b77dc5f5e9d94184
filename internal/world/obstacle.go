package world

// ObstacleType is the kind of a blocking cell.
type ObstacleType string

const (
	// ObstacleWater is an impassable water cell.
	ObstacleWater ObstacleType = "water"
	// ObstacleRock is an impassable rock cell.
	ObstacleRock ObstacleType = "rock"
)

// Rune returns the obstacle's display character.
func (t ObstacleType) Rune() rune {
	switch t {
	case ObstacleWater:
		return '~'
	case ObstacleRock:
		return '^'
	default:
		return '#'
	}
}

// Obstacle is a blocking cell placed at session start.
type Obstacle struct {
	Pos  Position
	Type ObstacleType
}
