package cabinet

import "time"

// controlLockout is the window after a UI mode transition during which
// control starts are swallowed, so the press that caused the transition is
// not also interpreted as input in the new mode.
const controlLockout = 800 * time.Millisecond

// UIMode returns the current arcade mode.
func (a *App) UIMode() UIMode {
	return a.mode
}

// SetUIMode transitions the arcade state machine. Invalid modes are a fatal
// configuration error. The registered OnUIModeChange callback runs before
// the state changes; a further transition requested from inside it wins,
// and this transition's remaining side effects are skipped.
func (a *App) SetUIMode(mode UIMode) {
	a.setUIMode(mode, nil, "")
}

// SetUIModeWithScore is SetUIMode carrying a final score into GAME_OVER.
// Supplying a score for any other mode is a fatal configuration error.
// displayScore is the formatted form shown on the ledger; when empty, the
// numeric score is formatted directly.
func (a *App) SetUIModeWithScore(mode UIMode, score float64, displayScore string) {
	a.setUIMode(mode, &score, displayScore)
}

func (a *App) setUIMode(mode UIMode, score *float64, displayScore string) {
	if !mode.valid() {
		a.fatalf("SetUIMode: invalid mode %d", uint8(mode))
		return
	}
	if score != nil && mode != UIModeGameOver {
		a.fatalf("SetUIMode: score is only legal when entering GAME_OVER, not %s", mode)
		return
	}

	old := a.mode
	a.modeEpoch++
	epoch := a.modeEpoch

	if a.handlers.OnUIModeChange != nil {
		a.invoke("OnUIModeChange", func() { a.handlers.OnUIModeChange(old, mode) })
	}
	if a.modeEpoch != epoch || a.halted {
		// The callback itself transitioned (or the run halted); the
		// recursive change wins and this transition's side effects are
		// abandoned.
		return
	}

	a.mode = mode
	a.emit(InputEvent{Kind: EventModeChange, OldMode: old, NewMode: mode})
	a.debugf("ui mode %s -> %s", old, mode)

	if mode == UIModePaused {
		a.pauseChoice = 0
	}
	if mode != UIModePlaying {
		a.lockoutUntil = a.clock.now().Add(controlLockout)
	}
	a.screens.modeChanged()

	fresh := old == UIModeTitle || old == UIModeInstructions || old == UIModeGameOver
	if mode == UIModePlaying {
		if fresh {
			if a.mobile {
				a.installTouchLayout()
			}
			a.gameTicks = 0
			if a.handlers.OnGameStart != nil {
				a.invoke("OnGameStart", a.handlers.OnGameStart)
			}
		}
	} else if old == UIModePlaying && a.mobile {
		a.overlay.removeAll()
	}

	if old == UIModePlaying && mode == UIModeGameOver && score != nil {
		a.recordScore(*score, displayScore)
	}
}

// controlGate intercepts every candidate control start. Outside PLAYING the
// press drives the state machine instead of reaching the game; inside the
// lockout window after a transition it is swallowed entirely.
func (a *App) controlGate(c *Control) bool {
	if a.phase != phasePlay {
		return false
	}
	if !a.arcade {
		return true
	}
	if a.clock.now().Before(a.lockoutUntil) {
		return false
	}

	switch a.mode {
	case UIModePlaying:
		if c.ID == ControlStart {
			a.SetUIMode(UIModePaused)
			return false
		}
		return true

	case UIModeTitle:
		if a.handlers.OnInstructionsDraw != nil {
			a.SetUIMode(UIModeInstructions)
		} else {
			a.SetUIMode(UIModePlaying)
		}
		return false

	case UIModeInstructions:
		a.SetUIMode(UIModePlaying)
		return false

	case UIModePaused:
		switch c.ID {
		case ControlUp, ControlDown:
			a.pauseChoice = 1 - a.pauseChoice
		case ControlStart, ControlA:
			if a.pauseChoice == 0 {
				a.SetUIMode(UIModePlaying)
			} else {
				a.SetUIMode(UIModeTitle)
			}
		}
		return false

	case UIModeGameOver:
		a.SetUIMode(UIModeTitle)
		return false
	}
	return true
}

// --- Touch-key public surface ---

// SetTouchKeyRectangle upserts a rectangular touch key for code.
func (a *App) SetTouchKeyRectangle(code KeyCode, x, y, w, h float64, label string) {
	if w <= 0 || h <= 0 {
		a.fatalf("SetTouchKeyRectangle: non-positive size %gx%g", w, h)
		return
	}
	a.overlay.set(code, Rect{X: x, Y: y, Width: w, Height: h}, label)
}

// SetTouchKeyCircle upserts a circular touch key for code.
func (a *App) SetTouchKeyCircle(code KeyCode, x, y, r float64, label string) {
	if r <= 0 {
		a.fatalf("SetTouchKeyCircle: non-positive radius %g", r)
		return
	}
	a.overlay.set(code, Circle{CenterX: x, CenterY: y, Radius: r}, label)
}

// RemoveTouchKey deletes the touch key for code, synthesizing a release
// first if it is held.
func (a *App) RemoveTouchKey(code KeyCode) {
	a.overlay.remove(code)
}

// RemoveAllTouchKeys clears the overlay.
func (a *App) RemoveAllTouchKeys() {
	a.overlay.removeAll()
}

// SetTouchLayout stores the on-screen control layout that is reinstalled
// every time PLAYING begins on a mobile device and removed on leaving it.
func (a *App) SetTouchLayout(layout []TouchKeyDef) {
	a.touchLayout = layout
}

func (a *App) installTouchLayout() {
	for _, def := range a.touchLayout {
		a.overlay.set(def.Code, def.Shape, def.Label)
	}
}

// TouchKeys returns the currently installed touch keys, for custom drawing.
// The returned slice must not be mutated.
func (a *App) TouchKeys() []*TouchKey {
	return a.overlay.keys
}
