package game

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/skirmish/internal/world"
)

// CharactersPerPlayer is the size of each side: one of every class.
const CharactersPerPlayer = 3

// ErrInvalidConfig is returned when a configuration cannot produce a playable grid.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible obstacle,
	// spawn and initiative rolls. A seed of 0 means a random seed will be generated.
	Seed int64 `env:"SKIRMISH_SEED"`

	Columns   int `env:"SKIRMISH_COLUMNS" envDefault:"10"`
	Rows      int `env:"SKIRMISH_ROWS" envDefault:"6"`
	Obstacles int `env:"SKIRMISH_OBSTACLES" envDefault:"8"`

	LogLevel string `env:"SKIRMISH_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"SKIRMISH_LOG_FILE" envDefault:"skirmish.log"`

	// OTLPEndpoint enables tracing when set.
	OTLPEndpoint string `env:"SKIRMISH_OTLP_ENDPOINT"`
}

// DefaultConfig returns the reference 10x6 board with 8 obstacles.
func DefaultConfig() Config {
	return Config{
		Columns:   world.DefaultColumns,
		Rows:      world.DefaultRows,
		Obstacles: world.DefaultObstacles,
		LogLevel:  "info",
		LogFile:   "skirmish.log",
	}
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one)")
	fs.IntVar(&cfg.Columns, "cols", cfg.Columns, "Grid columns")
	fs.IntVar(&cfg.Rows, "rows", cfg.Rows, "Grid rows")
	fs.IntVar(&cfg.Obstacles, "obstacles", cfg.Obstacles, "Number of water/rock obstacles")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	fs.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", cfg.OTLPEndpoint, "OTLP/HTTP trace collector URL")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SpawnWidth returns how many columns each player's half spans.
func (c Config) SpawnWidth() int {
	return c.Columns * 4 / 10
}

// SpawnRegions returns the starting areas: player 1 on the left columns,
// player 2 on the right.
func (c Config) SpawnRegions(grid *world.Grid) (p1, p2 world.Region) {
	w := c.SpawnWidth()
	return grid.ColumnBand(0, w-1), grid.ColumnBand(c.Columns-w, c.Columns-1)
}

// Validate rejects configurations where setup could run out of free cells.
// Obstacles may land anywhere, so each spawn half must fit every obstacle
// plus a full side.
func (c Config) Validate() error {
	if c.Columns < 2 || c.Rows < 1 {
		return fmt.Errorf("%w: grid %dx%d is too small", ErrInvalidConfig, c.Columns, c.Rows)
	}
	if c.Obstacles < 0 {
		return fmt.Errorf("%w: negative obstacle count %d", ErrInvalidConfig, c.Obstacles)
	}
	half := c.SpawnWidth() * c.Rows
	if half < c.Obstacles+CharactersPerPlayer {
		return fmt.Errorf("%w: spawn area of %d cells cannot hold %d obstacles and %d characters",
			ErrInvalidConfig, half, c.Obstacles, CharactersPerPlayer)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
