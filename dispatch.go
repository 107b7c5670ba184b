package cabinet

import "github.com/hajimehoshi/ebiten/v2"

// Handlers is the full set of optional user callbacks, resolved once at App
// construction. Nil fields are simply never invoked.
//
// The raw event callbacks (keys, touch, mouse, wheel, gamepad) fire only
// while the runtime is in its play phase, never during the boot splash. The
// arcade callbacks are additionally routed by the current UIMode.
type Handlers struct {
	// Raw events.
	OnKeyStart     func(key ebiten.Key)
	OnKeyEnd       func(key ebiten.Key)
	OnMouseMove    func(x, y float64)
	OnClick        func(x, y float64)
	OnWheel        func(x, y, dx, dy float64)
	OnTouchStart   func(x, y float64, id PointerID)
	OnTouchMove    func(x, y float64, id PointerID)
	OnTouchEnd     func(x, y float64, id PointerID)
	OnGamepadStart func(button, pad int, direction bool)
	OnGamepadEnd   func(button, pad int, direction bool)
	OnGamepadMove  func(x, y float64, stick, pad int)

	// Arcade-mode callbacks.
	OnControlStart  func(c *Control)
	OnControlRepeat func(c *Control)
	OnControlEnd    func(c *Control)
	OnUIModeChange  func(old, new UIMode)
	OnGameStart     func()

	// Lifecycle and per-tick callbacks.
	OnSetup      func()
	OnTick       func() // raw mode only, once per tick
	OnSimulation func() // arcade mode, once per tick while PLAYING

	// Draw callbacks, invoked from Draw with the target screen.
	OnTitleDraw        func(screen *ebiten.Image)
	OnInstructionsDraw func(screen *ebiten.Image)
	OnGameDraw         func(screen *ebiten.Image)
}

// hasArcadeCallbacks reports whether the handler set opts into the arcade
// game-flow layer rather than the raw onTick loop.
func (h *Handlers) hasArcadeCallbacks() bool {
	return h.OnTitleDraw != nil || h.OnInstructionsDraw != nil ||
		h.OnSimulation != nil || h.OnControlStart != nil ||
		h.OnControlRepeat != nil || h.OnControlEnd != nil ||
		h.OnUIModeChange != nil || h.OnGameStart != nil
}

// --- Pointer flow ---

// pointerBegan feeds a pointer-down through the tracker, the touch-key
// overlay, and finally the raw callbacks.
func (a *App) pointerBegan(id PointerID, sx, sy float64) {
	x, y, ok := a.tracker.begin(id, sx, sy)
	if !ok {
		return
	}
	if a.overlay.touchStart(x, y, id) {
		return
	}
	a.emit(InputEvent{Kind: EventTouchStart, X: x, Y: y, Pointer: id})
	a.dispatchTouchStart(x, y, id)
}

// pointerMoved feeds a pointer-move. Mouse motion always reaches
// OnMouseMove; the touch path only runs for pointers between begin and end.
func (a *App) pointerMoved(id PointerID, sx, sy float64) {
	x, y, active := a.tracker.move(id, sx, sy)
	if id.IsMouse() {
		a.dispatchMouseMove(x, y)
	}
	if !active {
		return
	}
	consumed, simStart, simEnd := a.overlay.touchMove(x, y, id)
	switch {
	case simStart:
		a.emit(InputEvent{Kind: EventTouchStart, X: x, Y: y, Pointer: id})
		a.dispatchTouchStart(x, y, id)
	case simEnd:
		a.emit(InputEvent{Kind: EventTouchEnd, X: x, Y: y, Pointer: id})
		a.dispatchTouchEnd(x, y, id)
	case !consumed:
		a.dispatchTouchMove(x, y, id)
	}
}

// pointerEnded feeds a pointer-up. Ups with no matching active begin (for
// example a suppressed synthetic mouse click) are dropped here.
func (a *App) pointerEnded(id PointerID, sx, sy float64) {
	x, y, ok := a.tracker.end(id, sx, sy)
	if !ok {
		return
	}
	if a.overlay.touchEnd(x, y, id) {
		return
	}
	a.emit(InputEvent{Kind: EventTouchEnd, X: x, Y: y, Pointer: id})
	a.dispatchTouchEnd(x, y, id)
	// Clicks complete on release, matching the platform click event.
	if id == PointerMouseLeft {
		a.dispatchClick(x, y)
	}
}

// forceEndPointers terminates every active pointer in place. The driver
// calls this when the pointer stream is lost (window defocus) so drags that
// started inside the surface still receive their end event.
func (a *App) forceEndPointers() {
	for id, pos := range a.tracker.forceEndAll() {
		if a.overlay.touchEnd(pos.X, pos.Y, id) {
			continue
		}
		a.emit(InputEvent{Kind: EventTouchEnd, X: pos.X, Y: pos.Y, Pointer: id})
		a.dispatchTouchEnd(pos.X, pos.Y, id)
	}
}

// --- Key flow ---

// keyDown routes a key press (physical or synthesized by a touch key) to
// the controller layer and the raw callbacks.
func (a *App) keyDown(key ebiten.Key) {
	a.controls.keyDown(key)
	a.dispatchKeyStart(key)
}

func (a *App) keyUp(key ebiten.Key) {
	a.controls.keyUp(key)
	a.dispatchKeyEnd(key)
}

// --- Gamepad flow ---

func (a *App) dispatchGamepadEvents(events []gamepadEvent) {
	for i := range events {
		e := &events[i]
		switch e.kind {
		case gamepadButtonDown:
			a.controls.buttonDown(e.pad, e.button)
			if a.phase == phasePlay && a.handlers.OnGamepadStart != nil {
				ev := *e
				a.invoke("OnGamepadStart", func() {
					a.handlers.OnGamepadStart(ev.button, ev.pad, ev.direction)
				})
			}
		case gamepadButtonUp:
			a.controls.buttonUp(e.pad, e.button)
			if a.phase == phasePlay && a.handlers.OnGamepadEnd != nil {
				ev := *e
				a.invoke("OnGamepadEnd", func() {
					a.handlers.OnGamepadEnd(ev.button, ev.pad, ev.direction)
				})
			}
		case gamepadStickMove:
			if a.phase == phasePlay && a.handlers.OnGamepadMove != nil {
				ev := *e
				a.invoke("OnGamepadMove", func() {
					a.handlers.OnGamepadMove(ev.x, ev.y, ev.stick, ev.pad)
				})
			}
		}
		if a.halted {
			return
		}
	}
}

// --- Raw callback dispatch (phase-gated, guarded) ---

func (a *App) dispatchTouchStart(x, y float64, id PointerID) {
	if a.phase != phasePlay || a.handlers.OnTouchStart == nil {
		return
	}
	a.invoke("OnTouchStart", func() { a.handlers.OnTouchStart(x, y, id) })
}

func (a *App) dispatchTouchMove(x, y float64, id PointerID) {
	if a.phase != phasePlay || a.handlers.OnTouchMove == nil {
		return
	}
	a.invoke("OnTouchMove", func() { a.handlers.OnTouchMove(x, y, id) })
}

func (a *App) dispatchTouchEnd(x, y float64, id PointerID) {
	if a.phase != phasePlay || a.handlers.OnTouchEnd == nil {
		return
	}
	a.invoke("OnTouchEnd", func() { a.handlers.OnTouchEnd(x, y, id) })
}

func (a *App) dispatchMouseMove(x, y float64) {
	if a.phase != phasePlay || a.handlers.OnMouseMove == nil {
		return
	}
	a.invoke("OnMouseMove", func() { a.handlers.OnMouseMove(x, y) })
}

func (a *App) dispatchClick(x, y float64) {
	if a.phase != phasePlay || a.handlers.OnClick == nil {
		return
	}
	a.invoke("OnClick", func() { a.handlers.OnClick(x, y) })
}

func (a *App) dispatchWheel(x, y, dx, dy float64) {
	if a.phase != phasePlay || a.handlers.OnWheel == nil {
		return
	}
	a.invoke("OnWheel", func() { a.handlers.OnWheel(x, y, dx, dy) })
}

func (a *App) dispatchKeyStart(key ebiten.Key) {
	if a.phase != phasePlay || a.handlers.OnKeyStart == nil {
		return
	}
	a.invoke("OnKeyStart", func() { a.handlers.OnKeyStart(key) })
}

func (a *App) dispatchKeyEnd(key ebiten.Key) {
	if a.phase != phasePlay || a.handlers.OnKeyEnd == nil {
		return
	}
	a.invoke("OnKeyEnd", func() { a.handlers.OnKeyEnd(key) })
}

// emit forwards an event to the optional ECS sink.
func (a *App) emit(e InputEvent) {
	if a.sink != nil {
		a.sink.EmitInputEvent(e)
	}
}
