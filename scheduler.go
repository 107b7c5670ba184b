package cabinet

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// phase is the internal bootstrap state of the runtime, distinct from the
// arcade UIMode: raw callbacks are delivered only in phasePlay.
type phase uint8

const (
	phaseInit   phase = iota // first tick not yet run
	phaseSplash              // "press any button" boot splash
	phasePlay                // user code running
)

const defaultTickRate = 60

// InputDriver feeds platform input into the App once per tick and answers
// platform capability queries. The Ebitengine driver is installed by Run;
// tests install fakes or none at all.
type InputDriver interface {
	// Pump polls the platform's keyboard, mouse, touch, and wheel deltas
	// and forwards them through the App's event entry points.
	Pump(a *App)
	// Focused reports whether the window currently has input focus.
	Focused() bool
	// AnyKeyHeld reports whether any keyboard key is down, for the boot
	// splash's press-any-button scan.
	AnyKeyHeld() bool
}

// App owns all toolkit state: the pointer tracker, touch-key overlay,
// gamepad poller, controller layer, UI mode machine, and frame scheduler.
// It implements ebiten.Game. All state is mutated only from the single
// tick/dispatch path; there is no locking and no parallel mutation.
type App struct {
	name     string
	handlers Handlers

	clock    clock
	view     ViewTransform
	tracker  *pointerTracker
	overlay  *touchKeyOverlay
	poller   gamepadPoller
	controls *controller
	store    Store
	sink     EventSink
	input    InputDriver

	// Arcade state.
	mode         UIMode
	modeEpoch    uint64
	lockoutUntil time.Time
	pauseChoice  int // 0 = continue, 1 = quit
	gameTicks    int64
	touchLayout  []TouchKeyDef
	namePrompt   func(rank int) string

	arcade      bool
	mobile      bool
	splash      bool
	pauseOnBlur bool

	phase  phase
	halted bool
	err    error
	quit   bool
	debug  bool

	width, height int
	tickRate      int
	showFPS       bool

	ticks   tickWindow
	inject  []syntheticEvent
	runner  *TestRunner
	screens screenState
}

// NewApp creates an App for the named game. The handler set is resolved
// once here; arcade mode is inferred from the presence of arcade callbacks
// and can be overridden with SetArcadeMode.
func NewApp(name string, handlers Handlers) *App {
	a := &App{
		name:     name,
		handlers: handlers,
		clock:    realClock{},
		view:     identityView{},
		controls: newController(),
		overlay:  newTouchKeyOverlay(),
		store:    MemStore{},
		arcade:   handlers.hasArcadeCallbacks(),
		mode:     UIModeTitle,
		width:    640,
		height:   480,
		tickRate: defaultTickRate,
	}
	a.tracker = newPointerTracker(a.view, a.clock)
	a.overlay.onKeyDown = a.keyDown
	a.overlay.onKeyUp = a.keyUp
	a.controls.gate = a.controlGate
	a.controls.onStart = func(c *Control) {
		a.emit(InputEvent{Kind: EventControlStart, Player: c.Player, Control: c.ID})
		if a.handlers.OnControlStart != nil {
			a.invoke("OnControlStart", func() { a.handlers.OnControlStart(c) })
		}
	}
	a.controls.onRepeat = func(c *Control) {
		// Repeats obey the same mode gate as starts: a held control must
		// not keep driving the game from the pause menu or the title.
		if a.arcade && a.mode != UIModePlaying {
			return
		}
		a.emit(InputEvent{Kind: EventControlRepeat, Player: c.Player, Control: c.ID})
		if a.handlers.OnControlRepeat != nil {
			a.invoke("OnControlRepeat", func() { a.handlers.OnControlRepeat(c) })
		}
	}
	a.controls.onEnd = func(c *Control) {
		a.emit(InputEvent{Kind: EventControlEnd, Player: c.Player, Control: c.ID})
		if a.handlers.OnControlEnd != nil {
			a.invoke("OnControlEnd", func() { a.handlers.OnControlEnd(c) })
		}
	}
	return a
}

// --- Configuration ---

// Name returns the game name used as the persistence key.
func (a *App) Name() string { return a.name }

// SetStore replaces the key-value store backing the high-score ledger.
func (a *App) SetStore(store Store) { a.store = store }

// SetView installs the virtual-coordinate transform supplied by the
// resolution/letterbox layer.
func (a *App) SetView(view ViewTransform) {
	a.view = view
	a.tracker.view = view
}

// SetEventSink sets the optional ECS bridge.
func (a *App) SetEventSink(sink EventSink) { a.sink = sink }

// SetInputDriver installs the platform input driver. Run does this
// automatically; tests may install a fake.
func (a *App) SetInputDriver(d InputDriver) { a.input = d }

// SetGamepadSource installs the raw gamepad reader.
func (a *App) SetGamepadSource(src GamepadSource) { a.poller.source = src }

// SetArcadeMode forces arcade (true) or raw (false) scheduling, overriding
// the inference from the handler set.
func (a *App) SetArcadeMode(on bool) { a.arcade = on }

// SetMobile sets the touch-device heuristic flag: touch-key layouts are
// only auto-installed on mobile, and mouse echoes of touches are ignored by
// the overlay there.
func (a *App) SetMobile(on bool) {
	a.mobile = on
	a.overlay.mobile = on
}

// SetSplash enables the press-any-button boot splash before setup runs.
func (a *App) SetSplash(on bool) { a.splash = on }

// SetPauseOnBlur makes ticks no-ops while the window lacks focus.
func (a *App) SetPauseOnBlur(on bool) { a.pauseOnBlur = on }

// SetDragPolicy selects how drags interact with touch keys.
func (a *App) SetDragPolicy(p DragPolicy) { a.overlay.policy = p }

// SetNamePrompt installs the high-score name prompt. The returned name is
// truncated to five characters; when no prompt is installed a placeholder
// is recorded.
func (a *App) SetNamePrompt(fn func(rank int) string) { a.namePrompt = fn }

// SetDebugMode enables per-tick diagnostics on stderr and stricter
// misuse panics.
func (a *App) SetDebugMode(on bool) { a.debug = on }

// SetTestRunner attaches a scripted input runner, stepped once per tick.
func (a *App) SetTestRunner(r *TestRunner) { a.runner = r }

// Controls returns the given player's control bundle. Player slots run from
// 0 to MaxGamepads-1.
func (a *App) Controls(player int) *ControlSet {
	if player < 0 || player >= MaxGamepads {
		a.fatalf("Controls: player %d out of range", player)
		return a.controls.set(0)
	}
	return a.controls.set(player)
}

// Err returns the error that halted the scheduler, if any.
func (a *App) Err() error { return a.err }

// Quit requests a clean shutdown at the end of the current tick.
func (a *App) Quit() { a.quit = true }

// GameTime returns the elapsed play time in seconds. The clock advances
// only while PLAYING and resets when a new game starts.
func (a *App) GameTime() float64 {
	return float64(a.gameTicks) / float64(a.tickRate)
}

// GamepadButton returns the latched value of a physical or synthesized
// button this frame. Safe to call from event handlers: all pads are latched
// before any edge event fires.
func (a *App) GamepadButton(pad, button int) float64 {
	return a.poller.buttonValue(pad, button)
}

// --- ebiten.Game ---

// Update runs one tick: gamepad latch and edge dispatch, the focus gate,
// the one-time bootstrap, then per-tick user callbacks.
func (a *App) Update() error {
	if a.halted {
		return a.err
	}
	if a.quit {
		return ebiten.Termination
	}
	a.ticks.tick(a.clock.now())

	a.dispatchGamepadEvents(a.poller.poll())
	if a.halted {
		return a.err
	}

	if a.pauseOnBlur && a.input != nil && !a.input.Focused() {
		return nil
	}

	// Advanced in every phase so the splash blink runs before bootstrap.
	a.screens.advance(1 / float32(a.tickRate))

	switch a.phase {
	case phaseInit:
		if a.splash {
			a.phase = phaseSplash
		} else {
			a.enterPlay()
		}
	case phaseSplash:
		if a.splashPressed() {
			a.enterPlay()
		}
	case phasePlay:
		a.pumpInjected()
		if a.input != nil {
			a.input.Pump(a)
		}
		if a.runner != nil {
			a.runner.step(a)
		}
		a.controls.frame()
		if a.arcade {
			if a.mode == UIModePlaying {
				a.gameTicks++
				if a.handlers.OnSimulation != nil {
					a.invoke("OnSimulation", a.handlers.OnSimulation)
				}
			}
		} else if a.handlers.OnTick != nil {
			a.invoke("OnTick", a.handlers.OnTick)
		}
	}

	if a.halted {
		return a.err
	}
	return nil
}

// Draw renders exactly one of the mode screens (plus overlays for PAUSED
// and GAME_OVER, which keep the game visible underneath).
func (a *App) Draw(screen *ebiten.Image) {
	if a.halted {
		a.drawHalt(screen)
		return
	}
	switch a.phase {
	case phaseInit, phaseSplash:
		a.drawSplash(screen)
		return
	}

	if !a.arcade {
		if a.handlers.OnGameDraw != nil {
			a.invokeDraw("OnGameDraw", a.handlers.OnGameDraw, screen)
		}
	} else {
		switch a.mode {
		case UIModeTitle:
			if a.handlers.OnTitleDraw != nil {
				a.invokeDraw("OnTitleDraw", a.handlers.OnTitleDraw, screen)
			} else {
				a.drawDefaultTitle(screen)
			}
		case UIModeInstructions:
			if a.handlers.OnInstructionsDraw != nil {
				a.invokeDraw("OnInstructionsDraw", a.handlers.OnInstructionsDraw, screen)
			} else {
				a.drawDefaultInstructions(screen)
			}
		case UIModePlaying:
			if a.handlers.OnGameDraw != nil {
				a.invokeDraw("OnGameDraw", a.handlers.OnGameDraw, screen)
			}
		case UIModePaused:
			if a.handlers.OnGameDraw != nil {
				a.invokeDraw("OnGameDraw", a.handlers.OnGameDraw, screen)
			}
			a.drawPauseOverlay(screen)
		case UIModeGameOver:
			if a.handlers.OnGameDraw != nil {
				a.invokeDraw("OnGameDraw", a.handlers.OnGameDraw, screen)
			}
			a.drawGameOverOverlay(screen)
		}
	}

	if a.showFPS {
		a.drawFPS(screen)
	}
}

// Layout reports the fixed virtual resolution.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// --- Bootstrap ---

// enterPlay switches to the play phase. The phase flips before the setup
// callback runs, so a mode change requested from inside setup sticks.
func (a *App) enterPlay() {
	a.phase = phasePlay
	a.mode = UIModeTitle
	a.lockoutUntil = a.clock.now().Add(controlLockout)
	a.screens.restart()
	if a.handlers.OnSetup != nil {
		a.invoke("OnSetup", a.handlers.OnSetup)
	}
}

// splashPressed scans latched gamepad state directly (bypassing edge
// detection) plus the keyboard for the boot splash.
func (a *App) splashPressed() bool {
	if a.poller.anyButtonHeld() {
		return true
	}
	return a.input != nil && a.input.AnyKeyHeld()
}

// --- Guarded invocation ---

// invoke runs a user callback under the fail-loud policy: a panic stops the
// scheduler and surfaces the callback name with an abbreviated stack,
// rather than letting a broken frame corrupt the next one.
func (a *App) invoke(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.haltf("%s callback: %v\n%s", name, r, abbreviatedStack())
		}
	}()
	fn()
}

func (a *App) invokeDraw(name string, fn func(*ebiten.Image), screen *ebiten.Image) {
	a.invoke(name, func() { fn(screen) })
}

// haltf stops the scheduler and records the failure. Halting is final for
// the run; Update returns the error on the next tick.
func (a *App) haltf(format string, args ...any) {
	if a.halted {
		return
	}
	a.halted = true
	a.err = fmt.Errorf(format, args...)
	a.logf("halted: %v", a.err)
}

// fatalf is the configuration-error path: programmer-facing contract
// violations halt the scheduler with a formatted message and call site.
func (a *App) fatalf(format string, args ...any) {
	a.haltf(format+"\n%s", append(args, abbreviatedStack())...)
}
