package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/game"
	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/world"
)

// Mode is what Enter does with the cursor cell.
type Mode int

const (
	// ModeSelect picks a character under the cursor.
	ModeSelect Mode = iota
	// ModeMove moves the selected character to the cursor.
	ModeMove
	// ModeAttack strikes the character under the cursor.
	ModeAttack
	// ModeArea centers the area ability on the cursor.
	ModeArea
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModeMove:
		return "move"
	case ModeAttack:
		return "attack"
	case ModeArea:
		return "area"
	default:
		return "unknown"
	}
}

// Hint returns the key help shown for the mode.
func (m Mode) Hint() string {
	switch m {
	case ModeMove:
		return "Enter: move here  Esc: cancel"
	case ModeAttack:
		return "Enter: attack target  Esc: cancel"
	case ModeArea:
		return "Enter: cast here  Esc: cancel"
	default:
		return "Arrows/mouse: cursor  Enter: select  e: end turn  q: quit"
	}
}

// App runs one terminal match at a time and relays session events to the
// message line.
type App struct {
	screen   *Screen
	renderer *Renderer
	log      *logrus.Entry

	session  *game.Session
	cursor   world.Position
	selected *entity.Character
	mode     Mode
	ability  *gamedata.AbilityDef
	message  string
	running  bool
}

// NewApp starts a match with cfg and binds it to screen. The session is
// built with the app as its event listener.
func NewApp(ctx context.Context, screen *Screen, cfg game.Config, log *logrus.Entry, opts ...game.Option) (*App, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	a := &App{
		screen:   screen,
		renderer: NewRenderer(screen),
		log:      log,
		running:  true,
	}
	opts = append(opts, game.WithListener(a), game.WithLogger(log))
	s, err := game.New(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	a.setSession(s)
	return a, nil
}

func (a *App) setSession(s *game.Session) {
	a.session = s
	a.cursor = world.Pos(0, 0)
	a.clearSelection()
	roll := s.Initiative()
	a.message = fmt.Sprintf("Initiative %d vs %d: %s goes first", roll.Player1, roll.Player2, roll.First().Label())
}

// Session returns the match currently on screen.
func (a *App) Session() *game.Session { return a.session }

// Running reports whether the loop should keep going.
func (a *App) Running() bool { return a.running }

// Run executes the main loop until the player quits.
func (a *App) Run(ctx context.Context) error {
	for a.running {
		a.Render()
		a.HandleEvent(ctx, a.screen.PollEvent())
	}
	return nil
}

// Render draws the current frame.
func (a *App) Render() {
	a.renderer.Render(View{
		Session:  a.session,
		Cursor:   a.cursor,
		Selected: a.selected,
		Mode:     a.mode,
		Ability:  a.ability,
		Message:  a.message,
	})
}

// HandleEvent processes a single input event.
func (a *App) HandleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		a.handleMouseEvent(ctx, ev)
	case *tcell.EventResize:
		a.screen.Sync()
	case nil:
		// Screen finalized
		a.running = false
	}
}

func (a *App) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.running = false
	case tcell.KeyEscape:
		if a.mode == ModeSelect {
			a.running = false
			return
		}
		a.mode = ModeSelect
		a.ability = nil
	case tcell.KeyUp:
		a.moveCursor(0, -1)
	case tcell.KeyDown:
		a.moveCursor(0, 1)
	case tcell.KeyLeft:
		a.moveCursor(-1, 0)
	case tcell.KeyRight:
		a.moveCursor(1, 0)
	case tcell.KeyEnter:
		a.confirm(ctx)
	case tcell.KeyRune:
		a.handleRune(ctx, ev.Rune())
	}
}

func (a *App) handleRune(ctx context.Context, r rune) {
	switch r {
	case 'q', 'Q':
		a.running = false
	case 'n', 'N':
		a.restart(ctx)
	case 'e', 'E':
		a.report(a.session.EndTurn(ctx))
	case 'm', 'M':
		if a.requireSelection() {
			a.mode = ModeMove
			a.ability = nil
		}
	default:
		a.useAbilityKey(ctx, r)
	}
}

// useAbilityKey arms or fires the selected character's ability bound to r.
func (a *App) useAbilityKey(ctx context.Context, r rune) {
	if !a.requireSelection() {
		return
	}
	for _, ability := range a.session.Abilities(a.selected) {
		if ability.KeyRune() != r {
			continue
		}
		switch ability.Kind {
		case gamedata.KindStrike:
			a.mode, a.ability = ModeAttack, ability
		case gamedata.KindArea:
			a.mode, a.ability = ModeArea, ability
		case gamedata.KindStance:
			c := a.selected
			if a.report(a.session.Defend(ctx, c)) && a.session.CanAct(c) {
				a.message = c.GetName() + " is defending"
			}
		}
		return
	}
}

func (a *App) handleMouseEvent(ctx context.Context, ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	p := CellAt(x, y)
	if !a.session.Grid().InBounds(p) {
		return
	}
	a.cursor = p
	a.confirm(ctx)
}

func (a *App) moveCursor(dc, dr int) {
	next := a.cursor.Add(dc, dr)
	if a.session.Grid().InBounds(next) {
		a.cursor = next
	}
}

// confirm applies the current mode to the cursor cell.
func (a *App) confirm(ctx context.Context) {
	switch a.mode {
	case ModeMove:
		if a.report(a.session.MoveCharacter(ctx, a.selected, a.cursor)) {
			a.endMode()
		}
	case ModeAttack:
		target, ok := a.session.CharacterAt(a.cursor)
		if !ok {
			a.message = "No target there"
			return
		}
		if _, err := a.session.PerformAttack(ctx, a.selected, target, a.ability.ID); a.report(err) {
			a.endMode()
		}
	case ModeArea:
		ability := a.ability
		hits, err := a.session.PerformAreaAttack(ctx, a.selected, a.cursor)
		if a.report(err) {
			if len(hits) == 0 && !a.session.IsOver() {
				a.message = ability.Name + " hit nothing"
			}
			a.endMode()
		}
	default:
		a.selectAt(a.cursor)
	}
}

func (a *App) selectAt(p world.Position) {
	c, ok := a.session.CharacterAt(p)
	if !ok {
		a.clearSelection()
		return
	}
	if !a.session.CanAct(c) {
		a.message = c.GetName() + " cannot act now"
		return
	}
	a.selected = c
	a.message = c.GetName() + " selected"
}

func (a *App) requireSelection() bool {
	if a.selected == nil || !a.session.CanAct(a.selected) {
		a.message = "Select one of your characters first"
		return false
	}
	return true
}

func (a *App) restart(ctx context.Context) {
	if !a.session.IsOver() {
		a.message = "New game is available after game over"
		return
	}
	next, err := a.session.Restart(ctx)
	if err != nil {
		a.log.WithError(err).Error("restart failed")
		a.message = err.Error()
		return
	}
	a.setSession(next)
}

// report shows err on the message line and reports whether the action
// went through.
func (a *App) report(err error) bool {
	if err != nil {
		a.message = err.Error()
		return false
	}
	return true
}

func (a *App) endMode() {
	a.mode = ModeSelect
	a.ability = nil
	if a.selected != nil && !a.session.CanAct(a.selected) {
		a.selected = nil
	}
}

func (a *App) clearSelection() {
	a.selected = nil
	a.mode = ModeSelect
	a.ability = nil
}

// =============================================================================
// game.Listener implementation
// =============================================================================

// OnTurnChanged drops the selection; it belonged to the previous player.
func (a *App) OnTurnChanged(p entity.Player) {
	a.clearSelection()
	a.message = p.Label() + "'s turn"
}

func (a *App) OnCharacterMoved(c *entity.Character, from, to world.Position) {
	a.message = fmt.Sprintf("%s moved %s -> %s", c.GetName(), from, to)
}

func (a *App) OnDamageApplied(target *entity.Character, amount, hp int) {
	a.message = fmt.Sprintf("%s takes %d damage (HP %d)", target.GetName(), amount, hp)
}

func (a *App) OnCharacterDefeated(c *entity.Character) {
	a.message = c.GetName() + " is defeated"
	if a.selected == c {
		a.selected = nil
	}
}

func (a *App) OnGameOver(outcome game.Outcome) {
	a.clearSelection()
	a.message = "Game over: " + outcome.String()
}

var _ game.Listener = (*App)(nil)
