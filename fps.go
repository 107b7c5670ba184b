package cabinet

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// tickWindowSize is the number of recent tick timestamps kept for the
// measured-rate diagnostic.
const tickWindowSize = 30

// tickWindow is a ring of the most recent tick timestamps.
type tickWindow struct {
	stamps [tickWindowSize]time.Time
	next   int
	count  int
}

func (w *tickWindow) tick(now time.Time) {
	w.stamps[w.next] = now
	w.next = (w.next + 1) % tickWindowSize
	if w.count < tickWindowSize {
		w.count++
	}
}

// rate returns the measured ticks per second over the window, or 0 until
// two ticks have been observed.
func (w *tickWindow) rate() float64 {
	if w.count < 2 {
		return 0
	}
	newest := w.stamps[(w.next+tickWindowSize-1)%tickWindowSize]
	oldest := w.stamps[(w.next+tickWindowSize-w.count)%tickWindowSize]
	elapsed := newest.Sub(oldest).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(w.count-1) / elapsed
}

// ActualTickRate returns the measured tick rate over the last 30 ticks.
func (a *App) ActualTickRate() float64 {
	return a.ticks.rate()
}

// ShowFPS toggles the corner rate readout.
func (a *App) ShowFPS(on bool) {
	a.showFPS = on
}

// drawFPS renders the rate readout in the top-left corner.
func (a *App) drawFPS(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f (measured %.1f)",
		ebiten.ActualFPS(), ebiten.ActualTPS(), a.ticks.rate()))
}
