package cabinet

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and scheduler for Run.
type RunConfig struct {
	Title  string
	Width  int // virtual resolution; defaults to 640x480
	Height int

	// TickRate is the target ticks per second. Defaults to 60.
	TickRate int

	Fullscreen  bool
	ShowFPS     bool
	PauseOnBlur bool

	// Splash shows a press-any-button boot screen before setup runs.
	Splash bool
}

// Run opens a window and drives the app's frame scheduler until the game
// quits, the window closes, or the scheduler halts on an error. The
// platform input driver and gamepad source are installed here.
func Run(a *App, cfg RunConfig) error {
	if cfg.Width > 0 {
		a.width = cfg.Width
	}
	if cfg.Height > 0 {
		a.height = cfg.Height
	}
	if cfg.TickRate > 0 {
		a.tickRate = cfg.TickRate
	}
	a.showFPS = cfg.ShowFPS
	a.pauseOnBlur = cfg.PauseOnBlur
	if cfg.Splash {
		a.splash = true
	}

	title := cfg.Title
	if title == "" {
		title = a.name
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(a.width, a.height)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetTPS(a.tickRate)

	driver := newEbitenDriver()
	a.SetInputDriver(driver)
	if a.poller.source == nil {
		a.SetGamepadSource(driver)
	}

	err := ebiten.RunGame(a)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
