package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/skirmish/internal/combat"
	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/game"
	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/world"
)

// Board placement on screen. Each grid cell is cellWidth columns wide.
const (
	originX   = 1
	originY   = 2
	cellWidth = 3
)

// Highlight backgrounds.
var (
	moveHighlight   = tcell.NewRGBColor(0, 80, 0)
	attackHighlight = tcell.NewRGBColor(110, 0, 0)
	centerHighlight = tcell.NewRGBColor(80, 40, 0)
)

// View is everything the renderer needs for one frame.
type View struct {
	Session  *game.Session
	Cursor   world.Position
	Selected *entity.Character
	Mode     Mode
	Ability  *gamedata.AbilityDef // Ability armed in attack or area mode
	Message  string
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen

	player1, player2 tcell.Color
	water, rock      tcell.Color
	aoe, defend      tcell.Color
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{
		screen:  screen,
		player1: gamedata.MustParseHexColor(gamedata.ColorPlayer1),
		player2: gamedata.MustParseHexColor(gamedata.ColorPlayer2),
		water:   gamedata.MustParseHexColor(gamedata.ColorWater),
		rock:    gamedata.MustParseHexColor(gamedata.ColorRock),
		aoe:     gamedata.MustParseHexColor(gamedata.ColorAoE),
		defend:  gamedata.MustParseHexColor(gamedata.ColorDefend),
	}
}

// CellAt maps a screen coordinate to a grid position.
func CellAt(x, y int) world.Position {
	col := (x - originX) / cellWidth
	if x < originX {
		col = -1
	}
	return world.Pos(col, y-originY)
}

// Render draws the board, the status lines and any highlights.
func (r *Renderer) Render(v View) {
	r.screen.Clear()
	s := v.Session
	grid := s.Grid()

	r.drawBanner(v)

	highlights := r.highlights(v)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			p := world.Pos(col, row)
			r.drawCell(v, p, highlights[p])
		}
	}

	y := originY + grid.Rows + 1
	r.drawStatus(v, y)
	r.screen.Show()
}

func (r *Renderer) drawBanner(v View) {
	s := v.Session
	style := tcell.StyleDefault.Bold(true)
	if outcome, over := s.Outcome(); over {
		r.screen.DrawText(originX, 0, "GAME OVER: "+outcome.String()+". Press n for a new game, q to quit.", style.Foreground(tcell.ColorRed))
		return
	}
	player := s.CurrentPlayer()
	text := fmt.Sprintf("%s's turn  move: %s  action: %s", player.Label(), usedLabel(s.MoveUsed()), usedLabel(s.CombatUsed()))
	r.screen.DrawText(originX, 0, text, style.Foreground(r.playerColor(player)))
}

func usedLabel(used bool) string {
	if used {
		return "used"
	}
	return "ready"
}

// highlights returns the background color for cells that should stand out.
func (r *Renderer) highlights(v View) map[world.Position]tcell.Color {
	out := make(map[world.Position]tcell.Color)
	s := v.Session
	switch v.Mode {
	case ModeMove:
		for _, p := range s.MoveTargets(v.Selected) {
			out[p] = moveHighlight
		}
	case ModeAttack:
		if v.Ability != nil {
			for _, c := range s.AttackTargets(v.Selected, v.Ability.ID) {
				out[c.Pos] = attackHighlight
			}
		}
	case ModeArea:
		centers := s.AreaCenters(v.Selected)
		for _, p := range centers {
			out[p] = centerHighlight
		}
		if slices.Contains(centers, v.Cursor) {
			for _, p := range s.AreaFootprint(v.Cursor) {
				out[p] = r.aoe
			}
		}
	}
	return out
}

func (r *Renderer) drawCell(v View, p world.Position, bg tcell.Color) {
	x := originX + p.Col*cellWidth
	y := originY + p.Row
	style := tcell.StyleDefault
	if bg != tcell.ColorDefault {
		style = style.Background(bg)
	}

	left, mid, right := ' ', '.', ' '
	midStyle := style.Foreground(tcell.ColorDarkGray)
	sideStyle := style

	if t, ok := v.Session.Grid().ObstacleAt(p); ok {
		mid = t.Rune()
		color := r.rock
		if t == world.ObstacleWater {
			color = r.water
		}
		midStyle = style.Foreground(color)
	} else if c, ok := v.Session.CharacterAt(p); ok {
		left, right = '[', ']'
		mid = c.Class.SymbolRune()
		midStyle = style.Foreground(c.Class.TCellColor()).Bold(true)
		sideStyle = style.Foreground(r.playerColor(c.Player))
		if c.IsDefending() {
			midStyle = midStyle.Background(r.defend)
		}
		if c == v.Selected {
			sideStyle = sideStyle.Bold(true).Underline(true)
		}
	}

	if p == v.Cursor {
		midStyle = midStyle.Reverse(true)
		sideStyle = sideStyle.Reverse(true)
	}

	r.screen.SetContent(x, y, left, sideStyle)
	r.screen.SetContent(x+1, y, mid, midStyle)
	r.screen.SetContent(x+2, y, right, sideStyle)
}

func (r *Renderer) drawStatus(v View, y int) {
	s := v.Session
	plain := tcell.StyleDefault

	hovered, _ := s.CharacterAt(v.Cursor)
	if hovered != nil {
		r.screen.DrawText(originX, y, statsLine(hovered), r.matchupStyle(v, hovered))
	} else {
		r.screen.DrawText(originX, y, "Cursor "+v.Cursor.String(), plain)
	}

	if v.Selected != nil {
		r.screen.DrawText(originX, y+1, "Selected: "+statsLine(v.Selected)+"  "+abilityHints(s, v.Selected), plain.Foreground(r.playerColor(v.Selected.Player)))
	}

	r.screen.DrawText(originX, y+2, v.Mode.Hint(), plain.Foreground(tcell.ColorGray))
	if v.Message != "" {
		r.screen.DrawText(originX, y+3, v.Message, plain.Foreground(tcell.ColorWhite))
	}
}

// matchupStyle colors an enemy's stats green when the selected character
// has the advantage and red when it does not.
func (r *Renderer) matchupStyle(v View, hovered *entity.Character) tcell.Style {
	style := tcell.StyleDefault
	if v.Selected == nil || v.Selected.Player == hovered.Player {
		return style
	}
	switch v.Session.Matchup(v.Selected, hovered) {
	case combat.Advantage:
		return style.Foreground(tcell.ColorGreen)
	case combat.Disadvantage:
		return style.Foreground(tcell.ColorRed)
	default:
		return style
	}
}

func statsLine(c *entity.Character) string {
	line := fmt.Sprintf("%s  HP %d  EXP %d  DMG %d  %s %d",
		c.GetName(), c.Stats.HP, c.Stats.EXP, c.Stats.Damage,
		c.Stats.Resource.Kind, c.Stats.Resource.Value)
	if c.IsDefending() {
		line += "  [defending]"
	}
	return line
}

func abilityHints(s *game.Session, c *entity.Character) string {
	hints := []string{"m:Move"}
	for _, a := range s.Abilities(c) {
		hints = append(hints, a.Key+":"+a.Name)
	}
	return strings.Join(hints, " ")
}

func (r *Renderer) playerColor(p entity.Player) tcell.Color {
	if p == entity.Player2 {
		return r.player2
	}
	return r.player1
}
