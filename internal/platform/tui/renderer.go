package tui

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/flappy-ledger/internal/assets"
	"github.com/vovakirdan/flappy-ledger/internal/core"
	"github.com/vovakirdan/flappy-ledger/internal/flappy"
)

// SheetSource supplies the sprite sheet, or nil while it is loading.
// *assets.Gate satisfies it.
type SheetSource interface {
	Sheet() *assets.Sheet
}

// ScreenRenderer draws snapshots onto a terminal screen buffer, scaling
// field units to cells.
type ScreenRenderer struct {
	screen *core.Screen
	sheets SheetSource

	status      string
	statusColor core.Color
	frames      int
}

// NewScreenRenderer creates a renderer drawing into screen.
func NewScreenRenderer(screen *core.Screen, sheets SheetSource) *ScreenRenderer {
	return &ScreenRenderer{screen: screen, sheets: sheets}
}

// Screen returns the buffer the renderer draws into.
func (r *ScreenRenderer) Screen() *core.Screen {
	return r.screen
}

// SetStatus shows a line of text at the bottom right, such as ledger
// progress. An empty string clears it.
func (r *ScreenRenderer) SetStatus(text string, c core.Color) {
	r.status = text
	r.statusColor = c
}

// Status returns the current status line.
func (r *ScreenRenderer) Status() string {
	return r.status
}

// Frames returns the number of snapshots drawn.
func (r *ScreenRenderer) Frames() int {
	return r.frames
}

// Draw implements flappy.Renderer.
func (r *ScreenRenderer) Draw(s flappy.Snapshot) {
	r.frames++
	dst := r.screen
	dst.Clear()

	var sheet *assets.Sheet
	if r.sheets != nil {
		sheet = r.sheets.Sheet()
	}

	if sheet != nil {
		v := newViewport(dst, s)
		r.drawGround(v, sheet)
		for _, o := range s.Obstacles {
			r.drawObstacle(v, sheet, o)
		}
		for _, p := range s.Projectiles {
			r.drawProjectile(v, sheet, p)
		}
		r.drawActor(v, sheet, s)
	}

	r.drawHUD(s)

	switch {
	case !s.Ready || sheet == nil:
		r.drawCenteredMessage("LOADING", "Preparing sprites...")
	case s.Phase == flappy.PhaseIdle:
		r.drawCenteredMessage("FLAPPY LEDGER", "Space to flap  |  Enter to start")
	case s.Paused:
		r.drawCenteredMessage("PAUSED", "Press P to resume")
	case s.Phase == flappy.PhaseGameOver:
		r.drawCenteredMessage("GAME OVER", fmt.Sprintf("Score: %d  |  R to restart  |  S to submit", s.Score))
	}

	if r.status != "" {
		// Keep the start of a long status visible on narrow screens.
		x := core.Clamp(dst.Width()-utf8.RuneCountInString(r.status)-1, 0, dst.Width())
		dst.DrawText(x, dst.Height()-1, r.status, r.statusColor)
	}
}

// viewport maps field units to screen cells.
type viewport struct {
	dst    *core.Screen
	sx, sy float64
	ground int
	width  float64 // Obstacle width
	gap    float64 // Obstacle gap height
}

func newViewport(dst *core.Screen, s flappy.Snapshot) viewport {
	field := s.Config.Field
	v := viewport{
		dst:   dst,
		sx:    float64(dst.Width()) / field.Width,
		sy:    float64(dst.Height()) / field.Height,
		width: s.Config.Obstacles.Width,
		gap:   s.Config.Obstacles.GapHeight,
	}
	v.ground = v.row(field.GroundY())
	return v
}

func (v viewport) col(x float64) int { return int(math.Floor(x * v.sx)) }
func (v viewport) row(y float64) int { return int(math.Floor(y * v.sy)) }

func (r *ScreenRenderer) drawGround(v viewport, sheet *assets.Sheet) {
	v.dst.DrawHLine(0, v.ground, v.dst.Width(), assets.Glyph(sheet.Ground), core.ColorGround)
}

func (r *ScreenRenderer) drawObstacle(v viewport, sheet *assets.Sheet, o flappy.Obstacle) {
	left, right := v.col(o.X), v.col(o.Right(v.width))
	if right <= left {
		right = left + 1
	}
	span := core.NewRect(left, 0, right-left, v.ground)
	if !span.Intersects(core.NewRect(0, 0, v.dst.Width(), v.dst.Height())) {
		return
	}
	gapTop := v.row(o.GapTop)
	gapBottom := v.row(o.GapTop + v.gap)

	body := assets.Glyph(sheet.Pipe.Body)
	capTop := assets.Glyph(sheet.Pipe.CapTop)
	capBottom := assets.Glyph(sheet.Pipe.CapBottom)

	for x := left; x < right; x++ {
		for y := 0; y < gapTop; y++ {
			v.dst.SetColored(x, y, body, core.ColorPipe)
		}
		// Caps face the gap
		if gapTop > 0 {
			v.dst.SetColored(x, gapTop-1, capTop, core.ColorPipeCap)
		}
		for y := gapBottom; y < v.ground; y++ {
			v.dst.SetColored(x, y, body, core.ColorPipe)
		}
		if gapBottom < v.ground {
			v.dst.SetColored(x, gapBottom, capBottom, core.ColorPipeCap)
		}
	}
}

func (r *ScreenRenderer) drawProjectile(v viewport, sheet *assets.Sheet, p flappy.ProjectileView) {
	glyph, visible := sheet.ProjectileGlyph(p.Opacity)
	if !visible {
		return
	}
	c := core.ColorAsh
	switch {
	case p.Opacity > 0.66:
		c = core.ColorSpark
	case p.Opacity > 0.33:
		c = core.ColorEmber
	}
	v.dst.SetColored(v.col(p.X), v.row(p.Y), glyph, c)
}

func (r *ScreenRenderer) drawActor(v viewport, sheet *assets.Sheet, s flappy.Snapshot) {
	rows := sheet.ActorRows(s.Rotation, s.Config.Physics.MaxRotation)
	cx, cy := v.col(s.Actor.X), v.row(s.Actor.Y)
	top := cy - len(rows)/2

	for i, line := range rows {
		x := cx - utf8.RuneCountInString(line)/2
		for _, ch := range line {
			if ch != ' ' {
				v.dst.SetColored(x, top+i, ch, core.ColorActor)
			}
			x++
		}
	}
}

func (r *ScreenRenderer) drawHUD(s flappy.Snapshot) {
	r.screen.DrawText(1, 0, fmt.Sprintf(" Score: %d  Best: %d ", s.Score, s.HighScore), core.ColorHUD)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (r *ScreenRenderer) drawCenteredMessage(title, subtitle string) {
	dst := r.screen
	titleLen := utf8.RuneCountInString(title)
	subtitleLen := utf8.RuneCountInString(subtitle)

	boxW := max(titleLen, subtitleLen) + 4
	boxH := 5
	box := core.NewRect(core.Clamp((dst.Width()-boxW)/2, 0, dst.Width()), (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorHUD)
	dst.DrawTextCentered(box.Y+1, title, core.ColorAlert)
	dst.DrawTextCentered(box.Y+3, subtitle, core.ColorDefault)
}
