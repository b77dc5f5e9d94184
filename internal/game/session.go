// Package game composes the grid, characters, combat and turn state into a
// single match and exposes the action API presentation layers call.
package game

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"iter"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/skirmish/internal/combat"
	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/telemetry"
	"github.com/samdwyer/skirmish/internal/turn"
	"github.com/samdwyer/skirmish/internal/world"
)

// Session holds the entire state of one match. It is not safe for
// concurrent use; callers serialize actions.
type Session struct {
	id   string
	cfg  Config
	seed int64
	rng  *rand.Rand

	rules      *gamedata.Rules
	grid       *world.Grid
	registry   *entity.Registry
	resolver   *combat.Resolver
	turns      *turn.Controller
	initiative turn.Initiative

	outcome *Outcome

	listener Listener
	log      *logrus.Entry
	opts     []Option
}

// Option customizes a new Session.
type Option func(*options)

type options struct {
	rules    *gamedata.Rules
	listener Listener
	logger   logrus.FieldLogger
	layout   *Layout
}

// WithRules uses preloaded rule tables instead of the embedded ones.
func WithRules(r *gamedata.Rules) Option {
	return func(o *options) { o.rules = r }
}

// WithListener subscribes l to session events.
func WithListener(l Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithLogger sets the logger actions are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

// Placement puts one character on a fixed cell.
type Placement struct {
	Player entity.Player
	Class  gamedata.ClassID
	Pos    world.Position
}

// Layout replaces random setup with a fixed board.
type Layout struct {
	Obstacles  []world.Obstacle
	Characters []Placement
	// Initiative overrides the opening roll when non-zero.
	Initiative turn.Initiative
}

// WithLayout builds the board from l instead of scattering obstacles and
// spawning one of each class per side.
func WithLayout(l Layout) Option {
	return func(o *options) { o.layout = &l }
}

// New sets up a match: obstacles first, then each side's characters in its
// half, then the initiative roll.
func New(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rules := o.rules
	if rules == nil {
		var err error
		if rules, err = gamedata.LoadRules(); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = randomSeed()
	}

	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		rules:    rules,
		grid:     world.NewGrid(cfg.Columns, cfg.Rows),
		resolver: combat.NewResolver(rules.Matchups),
		listener: o.listener,
		opts:     opts,
	}
	if s.listener == nil {
		s.listener = NopListener{}
	}
	logger := o.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s.log = logger.WithFields(logrus.Fields{
		"session": s.id,
		"seed":    seed,
	})
	s.registry = entity.NewRegistry(s.grid)

	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "session.new")
	defer span.End()

	var err error
	if o.layout != nil {
		err = s.applyLayout(*o.layout)
	} else {
		err = s.randomSetup(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("set up session: %w", err)
	}

	s.turns = turn.NewController(s.initiative.First())
	s.turns.OnTurnChanged = s.turnChanged

	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.Int64("session.seed", seed),
		attribute.Int("grid.columns", cfg.Columns),
		attribute.Int("grid.rows", cfg.Rows),
		attribute.Int("initiative.player1", s.initiative.Player1),
		attribute.Int("initiative.player2", s.initiative.Player2),
		attribute.String("first_player", string(s.initiative.First())),
	)
	s.log.WithFields(logrus.Fields{
		"player1_roll": s.initiative.Player1,
		"player2_roll": s.initiative.Player2,
		"first":        s.initiative.First(),
	}).Info("session started")

	return s, nil
}

func (s *Session) randomSetup(ctx context.Context) error {
	if err := s.grid.ScatterObstacles(ctx, s.rng, s.cfg.Obstacles); err != nil {
		return err
	}
	p1, p2 := s.cfg.SpawnRegions(s.grid)
	for _, side := range []struct {
		player entity.Player
		region world.Region
	}{
		{entity.Player1, p1},
		{entity.Player2, p2},
	} {
		for _, class := range s.rules.Classes.All() {
			if _, err := s.registry.Spawn(s.rng, side.player, class, side.region); err != nil {
				return err
			}
		}
	}
	s.initiative = turn.RollInitiative(s.rng)
	return nil
}

func (s *Session) applyLayout(l Layout) error {
	for _, ob := range l.Obstacles {
		if err := s.grid.PlaceObstacle(ob.Pos, ob.Type); err != nil {
			return fmt.Errorf("obstacle at %s: %w", ob.Pos, err)
		}
	}
	for _, p := range l.Characters {
		class := s.rules.Classes.GetByID(p.Class)
		if class == nil {
			return fmt.Errorf("unknown class %q", p.Class)
		}
		if _, err := s.registry.Create(p.Player, class, p.Pos); err != nil {
			return err
		}
	}
	s.initiative = l.Initiative
	if s.initiative == (turn.Initiative{}) {
		s.initiative = turn.RollInitiative(s.rng)
	}
	return nil
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Restart builds a fresh match from the same configuration, seeded from this
// session's generator. The old board and characters are not reused.
func (s *Session) Restart(ctx context.Context) (*Session, error) {
	cfg := s.cfg
	cfg.Seed = s.rng.Int63()
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	return New(ctx, cfg, s.opts...)
}

// =============================================================================
// Actions
// =============================================================================

// MoveCharacter moves c to dest. It is rejected with ErrIllegalMove when it
// is not c's owner's turn, the move is already spent, or dest is out of
// bounds, beyond the class move range, or occupied.
func (s *Session) MoveCharacter(ctx context.Context, c *entity.Character, dest world.Position) error {
	_, span := telemetry.Tracer("game").Start(ctx, "session.move")
	defer span.End()

	if err := s.validateMove(c, dest); err != nil {
		return s.reject(span, err)
	}

	from := c.Pos
	if err := s.registry.Move(c, dest); err != nil {
		return s.reject(span, &ActionError{Kind: ErrIllegalMove, Op: "move", Reason: err.Error(), Err: err})
	}

	span.SetAttributes(
		attribute.String("actor", c.GetName()),
		attribute.String("from", from.String()),
		attribute.String("to", dest.String()),
	)
	s.log.WithFields(logrus.Fields{
		"character": c.GetName(),
		"from":      from.String(),
		"to":        dest.String(),
	}).Debug("character moved")

	s.listener.OnCharacterMoved(c, from, dest)
	s.turns.UseMove()
	return nil
}

func (s *Session) validateMove(c *entity.Character, dest world.Position) error {
	if s.IsOver() {
		return gameOver(ErrIllegalMove, "move")
	}
	if c == nil || !s.registry.Contains(c) {
		return illegalMove("unknown character")
	}
	if c.Player != s.turns.Current() {
		return illegalMove(fmt.Sprintf("it is %s's turn", s.turns.Current().Label()))
	}
	if s.turns.MoveUsed() {
		return illegalMove("move already used this turn")
	}
	if !s.grid.InBounds(dest) {
		return illegalMove(fmt.Sprintf("destination %s is out of bounds", dest))
	}
	if d := world.Distance(c.Pos, dest); d > c.Class.MoveRange {
		return illegalMove(fmt.Sprintf("destination %s is %d away, move range is %d", dest, d, c.Class.MoveRange))
	}
	if s.grid.IsOccupied(dest) {
		return illegalMove(fmt.Sprintf("destination %s is occupied", dest))
	}
	return nil
}

// PerformAttack strikes target with one of attacker's single-target
// abilities. Range, team and ability ownership are checked before anything
// changes. A target brought to zero HP is removed immediately.
func (s *Session) PerformAttack(ctx context.Context, attacker, target *entity.Character, abilityID string) (combat.Hit, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "session.attack")
	defer span.End()

	ability, err := s.validateCombat(attacker, abilityID, "attack", gamedata.KindStrike)
	if err != nil {
		return combat.Hit{}, s.reject(span, err)
	}
	if err := s.validateTarget(attacker, target, ability); err != nil {
		return combat.Hit{}, s.reject(span, err)
	}

	hit := s.resolver.Strike(attacker, target, ability.BasePower)

	span.SetAttributes(
		attribute.String("actor", attacker.GetName()),
		attribute.String("ability", ability.ID),
		attribute.String("target", target.GetName()),
		attribute.Int("damage", hit.Damage),
		attribute.Int("target_hp", hit.HP),
		attribute.Bool("defended", hit.Defended),
	)
	s.log.WithFields(logrus.Fields{
		"attacker": attacker.GetName(),
		"ability":  ability.ID,
		"target":   target.GetName(),
		"damage":   hit.Damage,
		"hp":       hit.HP,
		"defended": hit.Defended,
	}).Info("attack resolved")

	s.listener.OnDamageApplied(target, hit.Damage, hit.HP)
	s.removeDefeated(target)
	s.finishCombat(ctx)
	return hit, nil
}

func (s *Session) validateTarget(attacker, target *entity.Character, ability *gamedata.AbilityDef) error {
	if target == nil || !s.registry.Contains(target) {
		return invalidTarget("attack", "no character targeted")
	}
	if target.Player == attacker.Player {
		return invalidTarget("attack", "cannot attack an ally")
	}
	if d := world.Distance(attacker.Pos, target.Pos); d > ability.Range {
		return invalidTarget("attack", fmt.Sprintf("%s is %d away, %s reaches %d", target.GetName(), d, ability.Name, ability.Range))
	}
	return nil
}

// PerformAreaAttack casts the area ability centered on any in-bounds cell
// within its range. The base power is split evenly across the enemies in
// the plus-shaped footprint. The win check runs once, after every hit.
func (s *Session) PerformAreaAttack(ctx context.Context, attacker *entity.Character, center world.Position) ([]combat.Hit, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "session.area_attack")
	defer span.End()

	ability, err := s.validateCombat(attacker, gamedata.AbilityFire, "area_attack", gamedata.KindArea)
	if err != nil {
		return nil, s.reject(span, err)
	}
	if !s.grid.InBounds(center) {
		return nil, s.reject(span, invalidTarget("area_attack", fmt.Sprintf("center %s is out of bounds", center)))
	}
	if d := world.Distance(attacker.Pos, center); d > ability.Range {
		return nil, s.reject(span, invalidTarget("area_attack", fmt.Sprintf("center %s is %d away, %s reaches %d", center, d, ability.Name, ability.Range)))
	}

	hits := s.resolver.ResolveAreaEffect(attacker, center, ability.BasePower, board{s})

	damage := 0
	if len(hits) > 0 {
		damage = combat.SplitDamage(ability.BasePower, len(hits))
	}
	span.SetAttributes(
		attribute.String("actor", attacker.GetName()),
		attribute.String("center", center.String()),
		attribute.Int("victims", len(hits)),
		attribute.Int("damage_each", damage),
	)
	s.log.WithFields(logrus.Fields{
		"attacker": attacker.GetName(),
		"center":   center.String(),
		"victims":  len(hits),
	}).Info("area attack resolved")

	victims := make([]*entity.Character, 0, len(hits))
	for _, h := range hits {
		v := h.Target.(*entity.Character)
		victims = append(victims, v)
		s.listener.OnDamageApplied(v, h.Damage, h.HP)
	}
	s.removeDefeated(victims...)
	s.finishCombat(ctx)
	return hits, nil
}

// Defend raises c's defend stance, spending the combat action.
func (s *Session) Defend(ctx context.Context, c *entity.Character) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "session.defend")
	defer span.End()

	if _, err := s.validateCombat(c, gamedata.AbilityDefend, "defend", gamedata.KindStance); err != nil {
		return s.reject(span, err)
	}

	c.SetDefending()
	span.SetAttributes(attribute.String("character", c.GetName()))
	s.log.WithField("character", c.GetName()).Info("defending")

	s.finishCombat(ctx)
	return nil
}

// validateCombat checks the preconditions shared by every combat action and
// returns the ability to use.
func (s *Session) validateCombat(c *entity.Character, abilityID, op string, kind gamedata.AbilityKind) (*gamedata.AbilityDef, error) {
	if s.IsOver() {
		return nil, gameOver(ErrIllegalAction, op)
	}
	if c == nil || !s.registry.Contains(c) {
		return nil, illegalAction(op, "unknown character")
	}
	if c.Player != s.turns.Current() {
		return nil, illegalAction(op, fmt.Sprintf("it is %s's turn", s.turns.Current().Label()))
	}
	if s.turns.CombatUsed() {
		return nil, illegalAction(op, "combat action already used this turn")
	}
	ability := s.rules.Abilities.GetByID(abilityID)
	if ability == nil || !c.Class.HasAbility(abilityID) {
		return nil, illegalAction(op, fmt.Sprintf("%s cannot use %q", c.Class.Name, abilityID))
	}
	if ability.Kind != kind {
		return nil, illegalAction(op, fmt.Sprintf("%s is not a %s ability", ability.Name, kind))
	}
	return ability, nil
}

// EndTurn passes play to the other player immediately.
func (s *Session) EndTurn(ctx context.Context) error {
	_, span := telemetry.Tracer("game").Start(ctx, "session.end_turn")
	defer span.End()

	if s.IsOver() {
		return s.reject(span, gameOver(ErrIllegalAction, "end_turn"))
	}
	span.SetAttributes(
		attribute.String("player", string(s.turns.Current())),
		attribute.Bool("move_used", s.turns.MoveUsed()),
		attribute.Bool("combat_used", s.turns.CombatUsed()),
	)
	s.turns.EndTurnEarly()
	return nil
}

// CheckWinCondition ends the match when a side has no characters left.
// Both sides empty is a draw.
func (s *Session) CheckWinCondition(ctx context.Context) (Outcome, bool) {
	if s.outcome != nil {
		return *s.outcome, true
	}

	p1 := len(s.registry.LivingByPlayer(entity.Player1))
	p2 := len(s.registry.LivingByPlayer(entity.Player2))
	var outcome Outcome
	switch {
	case p1 == 0 && p2 == 0:
		outcome = Outcome{Draw: true}
	case p1 == 0:
		outcome = Outcome{Winner: entity.Player2}
	case p2 == 0:
		outcome = Outcome{Winner: entity.Player1}
	default:
		return Outcome{}, false
	}

	_, span := telemetry.Tracer("game").Start(ctx, "session.game_over")
	span.SetAttributes(
		attribute.String("winner", string(outcome.Winner)),
		attribute.Bool("draw", outcome.Draw),
	)
	span.End()

	s.outcome = &outcome
	s.turns.EnterGameOver()
	s.log.WithField("outcome", outcome.String()).Info("game over")
	s.listener.OnGameOver(outcome)
	return outcome, true
}

// finishCombat runs the win check and, if play continues, spends the
// combat action.
func (s *Session) finishCombat(ctx context.Context) {
	if _, over := s.CheckWinCondition(ctx); over {
		return
	}
	s.turns.UseCombat()
}

func (s *Session) removeDefeated(cs ...*entity.Character) {
	for _, c := range cs {
		if c.IsAlive() {
			continue
		}
		if err := s.registry.Remove(c); err != nil {
			s.log.WithError(err).WithField("character", c.GetName()).Warn("remove defeated character")
			continue
		}
		s.log.WithField("character", c.GetName()).Info("character defeated")
		s.listener.OnCharacterDefeated(c)
	}
}

func (s *Session) reject(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("rejected", true))
	s.log.WithError(err).Debug("action rejected")
	return err
}

func (s *Session) turnChanged(p entity.Player) {
	s.log.WithField("player", p).Debug("turn changed")
	s.listener.OnTurnChanged(p)
}

// board adapts the session to combat.Board.
type board struct{ s *Session }

func (b board) Footprint(center world.Position) iter.Seq[world.Position] {
	return b.s.grid.Footprint(center)
}

func (b board) CombatantAt(pos world.Position) (combat.Combatant, bool) {
	c, ok := b.s.registry.FindAt(pos)
	if !ok {
		return nil, false
	}
	return c, true
}
