package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/game"
	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/turn"
	"github.com/samdwyer/skirmish/internal/world"
)

func newTestApp(t *testing.T, layout game.Layout) (*App, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom() error: %v", err)
	}
	t.Cleanup(screen.Close)
	sim.SetSize(100, 24)

	logger, _ := logtest.NewNullLogger()
	cfg := game.DefaultConfig()
	cfg.Seed = 5
	app, err := NewApp(context.Background(), screen, cfg, logrus.NewEntry(logger), game.WithLayout(layout))
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	return app, sim
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func click(p world.Position) *tcell.EventMouse {
	return tcell.NewEventMouse(originX+p.Col*cellWidth+1, originY+p.Row, tcell.Button1, tcell.ModNone)
}

func send(app *App, events ...tcell.Event) {
	for _, ev := range events {
		app.HandleEvent(context.Background(), ev)
	}
}

func rowText(sim tcell.SimulationScreen, y int) string {
	w, _ := sim.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := sim.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func duelLayout(first turn.Initiative) game.Layout {
	return game.Layout{
		Characters: []game.Placement{
			{Player: entity.Player1, Class: gamedata.ClassWarrior, Pos: world.Pos(0, 0)},
			{Player: entity.Player1, Class: gamedata.ClassMage, Pos: world.Pos(0, 5)},
			{Player: entity.Player2, Class: gamedata.ClassArcher, Pos: world.Pos(1, 0)},
			{Player: entity.Player2, Class: gamedata.ClassMage, Pos: world.Pos(9, 5)},
		},
		Obstacles:  []world.Obstacle{{Pos: world.Pos(5, 3), Type: world.ObstacleWater}},
		Initiative: first,
	}
}

var player1First = turn.Initiative{Player1: 15, Player2: 3}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeSelect, "select"},
		{ModeMove, "move"},
		{ModeAttack, "attack"},
		{ModeArea, "area"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.expected {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.expected)
		}
	}
}

func TestCellAt(t *testing.T) {
	tests := []struct {
		x, y int
		want world.Position
	}{
		{originX, originY, world.Pos(0, 0)},
		{originX + 2, originY, world.Pos(0, 0)},
		{originX + 3, originY + 1, world.Pos(1, 1)},
		{originX + 9*cellWidth + 1, originY + 5, world.Pos(9, 5)},
		{0, originY, world.Pos(-1, 0)},
	}

	for _, tt := range tests {
		if got := CellAt(tt.x, tt.y); got != tt.want {
			t.Errorf("CellAt(%d, %d) = %s, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestKeyboardSelectAndMove(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))
	warrior, _ := app.Session().CharacterAt(world.Pos(0, 0))

	send(app, key(tcell.KeyEnter), char('m'), key(tcell.KeyDown), key(tcell.KeyDown), key(tcell.KeyEnter))

	if warrior.Pos != world.Pos(0, 2) {
		t.Errorf("warrior at %s, want (0,2)", warrior.Pos)
	}
	if !app.Session().MoveUsed() {
		t.Error("move should be spent")
	}
	if app.mode != ModeSelect {
		t.Errorf("mode = %s, want select after moving", app.mode)
	}
}

func TestMouseAttack(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))
	archer, _ := app.Session().CharacterAt(world.Pos(1, 0))

	send(app, click(world.Pos(0, 0)), char('a'))
	if app.mode != ModeAttack || app.ability == nil || app.ability.ID != gamedata.AbilityMelee {
		t.Fatalf("mode = %s ability = %v, want melee attack armed", app.mode, app.ability)
	}

	send(app, click(world.Pos(1, 0)))
	if archer.Stats.HP != 40 {
		t.Errorf("archer HP = %d, want 40", archer.Stats.HP)
	}
	if !strings.Contains(app.message, "takes 60 damage") {
		t.Errorf("message = %q, want damage report", app.message)
	}
}

func TestSelectingEnemyIsRefused(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))

	send(app, click(world.Pos(1, 0)))
	if app.selected != nil {
		t.Errorf("selected = %v, want nil", app.selected.GetName())
	}

	send(app, char('m'))
	if app.mode != ModeSelect {
		t.Errorf("mode = %s, want select without a selection", app.mode)
	}
}

func TestIllegalMoveShowsReason(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))

	// Archer blocks (1,0).
	send(app, key(tcell.KeyEnter), char('m'), key(tcell.KeyRight), key(tcell.KeyEnter))
	if !strings.Contains(app.message, "occupied") {
		t.Errorf("message = %q, want occupied reason", app.message)
	}
	if app.mode != ModeMove {
		t.Errorf("mode = %s, want move mode kept after a rejection", app.mode)
	}
}

func TestEscapeCancelsThenQuits(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))

	send(app, key(tcell.KeyEnter), char('m'), key(tcell.KeyEscape))
	if app.mode != ModeSelect || !app.Running() {
		t.Fatalf("first Esc should cancel the mode, mode = %s running = %v", app.mode, app.Running())
	}
	send(app, key(tcell.KeyEscape))
	if app.Running() {
		t.Error("second Esc should quit")
	}
}

func TestEndTurnKeyClearsSelection(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))

	send(app, key(tcell.KeyEnter), char('e'))
	if app.Session().CurrentPlayer() != entity.Player2 {
		t.Errorf("current = %s, want player2", app.Session().CurrentPlayer())
	}
	if app.selected != nil {
		t.Error("selection should clear on turn change")
	}
}

func TestDefendKey(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))
	warrior, _ := app.Session().CharacterAt(world.Pos(0, 0))

	send(app, key(tcell.KeyEnter), char('d'))
	if !warrior.IsDefending() {
		t.Error("warrior should be defending")
	}
	if !app.Session().CombatUsed() {
		t.Error("defend should spend the combat action")
	}
}

func TestFireOnEmptyCell(t *testing.T) {
	app, _ := newTestApp(t, duelLayout(player1First))

	send(app, click(world.Pos(0, 5)), char('f'))
	if app.mode != ModeArea {
		t.Fatalf("mode = %s, want area", app.mode)
	}
	send(app, click(world.Pos(2, 4)))
	if !strings.Contains(app.message, "hit nothing") {
		t.Errorf("message = %q, want fizzle notice", app.message)
	}
}

func TestRenderBoard(t *testing.T) {
	app, sim := newTestApp(t, duelLayout(player1First))
	app.Render()

	if got := rowText(sim, 0); !strings.Contains(got, "Player 1's turn") {
		t.Errorf("banner = %q, want Player 1's turn", got)
	}

	cellRune := func(p world.Position) rune {
		r, _, _, _ := sim.GetContent(originX+p.Col*cellWidth+1, originY+p.Row)
		return r
	}
	if r := cellRune(world.Pos(0, 0)); r != 'W' {
		t.Errorf("cell (0,0) = %q, want W", r)
	}
	if r := cellRune(world.Pos(1, 0)); r != 'A' {
		t.Errorf("cell (1,0) = %q, want A", r)
	}
	if r := cellRune(world.Pos(5, 3)); r != world.ObstacleWater.Rune() {
		t.Errorf("cell (5,3) = %q, want water", r)
	}
	if r := cellRune(world.Pos(4, 4)); r != '.' {
		t.Errorf("cell (4,4) = %q, want floor", r)
	}

	status := rowText(sim, originY+world.DefaultRows+1)
	if !strings.Contains(status, "Warrior (player1)") || !strings.Contains(status, "HP 100") {
		t.Errorf("status = %q, want hovered warrior stats", status)
	}
}

func TestRenderMoveHighlights(t *testing.T) {
	app, sim := newTestApp(t, duelLayout(player1First))
	send(app, key(tcell.KeyEnter), char('m'))
	app.Render()

	_, _, style, _ := sim.GetContent(originX+0*cellWidth+1, originY+3)
	_, bg, _ := style.Decompose()
	if bg != moveHighlight {
		t.Errorf("(0,3) background = %v, want move highlight", bg)
	}
	_, _, style, _ = sim.GetContent(originX+0*cellWidth+1, originY+4)
	if _, bg, _ := style.Decompose(); bg == moveHighlight {
		t.Error("(0,4) is out of move range and should not be highlighted")
	}
}

func TestGameOverAndRestart(t *testing.T) {
	app, sim := newTestApp(t, game.Layout{
		Characters: []game.Placement{
			{Player: entity.Player1, Class: gamedata.ClassWarrior, Pos: world.Pos(0, 0)},
			{Player: entity.Player2, Class: gamedata.ClassArcher, Pos: world.Pos(1, 0)},
		},
		Initiative: player1First,
	})
	archer, _ := app.Session().CharacterAt(world.Pos(1, 0))
	archer.Stats.HP = 10
	first := app.Session()

	send(app, char('n'))
	if app.Session() != first {
		t.Fatal("n before game over should not restart")
	}

	send(app, key(tcell.KeyEnter), char('a'), key(tcell.KeyRight), key(tcell.KeyEnter))
	if !app.Session().IsOver() {
		t.Fatal("defeating the last archer should end the game")
	}
	app.Render()
	if got := rowText(sim, 0); !strings.Contains(got, "GAME OVER: Player 1 wins") {
		t.Errorf("banner = %q, want game over", got)
	}

	send(app, char('n'))
	if app.Session() == first {
		t.Fatal("n after game over should start a new session")
	}
	if app.Session().IsOver() {
		t.Error("new session should be running")
	}
	if len(app.Session().Characters()) != 2 {
		t.Errorf("restarted layout has %d characters, want 2", len(app.Session().Characters()))
	}
}
