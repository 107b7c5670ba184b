package cabinet

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const screenFadeSeconds = 0.4

// screenState animates the default screens: every mode transition restarts
// a short fade-in on the incoming screen or overlay.
type screenState struct {
	fade  *gween.Tween
	alpha float32
	blink float32
}

func (s *screenState) restart() {
	s.fade = gween.New(0, 1, screenFadeSeconds, ease.OutQuad)
	s.alpha = 0
}

func (s *screenState) modeChanged() {
	s.restart()
}

func (s *screenState) advance(dt float32) {
	s.blink += dt
	if s.fade == nil {
		s.alpha = 1
		return
	}
	v, done := s.fade.Update(dt)
	s.alpha = v
	if done {
		s.fade = nil
	}
}

// blinkOn drives the "press any button" flash at roughly 1 Hz.
func (s *screenState) blinkOn() bool {
	return int(s.blink*2)%2 == 0
}

// --- Draw helpers ---

// Debug-font glyph metrics, used to center text without a font stack.
const (
	glyphW = 6
	glyphH = 16
)

var whitePx *ebiten.Image

// whitePixel returns the shared 1x1 white image used for solid fills.
// Created lazily so headless tests never allocate GPU resources.
func whitePixel() *ebiten.Image {
	if whitePx == nil {
		whitePx = ebiten.NewImage(1, 1)
		whitePx.Fill(color.White)
	}
	return whitePx
}

// fillRect draws a solid rectangle.
func fillRect(screen *ebiten.Image, x, y, w, h float64, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(whitePixel(), op)
}

// printCentered prints one line of debug text centered on cx.
func printCentered(screen *ebiten.Image, text string, cx, y int) {
	ebitenutil.DebugPrintAt(screen, text, cx-len(text)*glyphW/2, y)
}

// dim covers the screen with a translucent black layer scaled by the
// current fade alpha.
func (a *App) dim(screen *ebiten.Image, strength float64) {
	alpha := uint8(strength * float64(a.screens.alpha) * 255)
	fillRect(screen, 0, 0, float64(a.width), float64(a.height),
		color.RGBA{0, 0, 0, alpha})
}

// --- Default screens ---

func (a *App) drawSplash(screen *ebiten.Image) {
	screen.Fill(color.Black)
	cx := a.width / 2
	printCentered(screen, strings.ToUpper(a.name), cx, a.height/2-glyphH)
	if a.screens.blinkOn() {
		printCentered(screen, "PRESS ANY BUTTON", cx, a.height/2+glyphH)
	}
}

func (a *App) drawDefaultTitle(screen *ebiten.Image) {
	screen.Fill(color.Black)
	cx := a.width / 2
	printCentered(screen, strings.ToUpper(a.name), cx, a.height/4)
	if a.screens.blinkOn() {
		printCentered(screen, "PRESS ANY CONTROL", cx, a.height/4+2*glyphH)
	}
	a.drawHighScoreTable(screen, a.height/2)
}

func (a *App) drawDefaultInstructions(screen *ebiten.Image) {
	screen.Fill(color.Black)
	cx := a.width / 2
	printCentered(screen, "HOW TO PLAY", cx, a.height/4)
	y := a.height/4 + 2*glyphH
	for _, c := range a.controls.set(0).controls {
		if c.Purpose == "" {
			continue
		}
		printCentered(screen, fmt.Sprintf("%s: %s", strings.ToUpper(c.ID.String()), c.Purpose), cx, y)
		y += glyphH
	}
	printCentered(screen, "PRESS ANY CONTROL TO BEGIN", cx, y+glyphH)
}

func (a *App) drawPauseOverlay(screen *ebiten.Image) {
	a.dim(screen, 0.6)
	cx := a.width / 2
	cy := a.height / 2
	printCentered(screen, "PAUSED", cx, cy-2*glyphH)
	cont, quit := "  CONTINUE", "  QUIT"
	if a.pauseChoice == 0 {
		cont = "> CONTINUE"
	} else {
		quit = "> QUIT"
	}
	printCentered(screen, cont, cx, cy)
	printCentered(screen, quit, cx, cy+glyphH)
}

func (a *App) drawGameOverOverlay(screen *ebiten.Image) {
	a.dim(screen, 0.75)
	cx := a.width / 2
	printCentered(screen, "GAME OVER", cx, a.height/4)
	a.drawHighScoreTable(screen, a.height/4+3*glyphH)
	if a.screens.blinkOn() {
		printCentered(screen, "PRESS ANY CONTROL", cx, a.height-3*glyphH)
	}
}

func (a *App) drawHighScoreTable(screen *ebiten.Image, y int) {
	list := a.HighScores()
	if len(list) == 0 {
		return
	}
	cx := a.width / 2
	printCentered(screen, "HIGH SCORES", cx, y)
	y += glyphH
	for i, e := range list {
		printCentered(screen, fmt.Sprintf("%2d. %-5s %s", i+1, e.Name, e.DisplayScore), cx, y+i*glyphH)
	}
}

func (a *App) drawHalt(screen *ebiten.Image) {
	screen.Fill(color.RGBA{32, 0, 0, 255})
	ebitenutil.DebugPrint(screen, "cabinet halted:\n"+a.err.Error())
}
