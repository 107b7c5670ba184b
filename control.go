package cabinet

import "github.com/hajimehoshi/ebiten/v2"

// Control is a logical player input aggregating up to two bound keys, up to
// two physical gamepad buttons, and (for directions) the pad's left analog
// stick. It is active while any bound source is held; start and end fire
// only on transitions of that disjunction.
type Control struct {
	ID     ControlID
	Player int

	Keys    [2]ebiten.Key // KeyNone marks an unbound slot
	Buttons [2]int        // -1 marks an unbound slot

	// Purpose is a free-form label games can use to describe what the
	// control does ("jump", "fire"), shown by default instruction screens.
	Purpose string

	// DelayFrames is the number of held frames before auto-repeat begins;
	// RepeatFrames the interval between repeats. RepeatFrames == 0
	// disables repeating.
	DelayFrames  int
	RepeatFrames int

	// Held state per bound slot. Two keys bound to one control are
	// independent sources: releasing one must not end the control while the
	// other is still down.
	keyActive    [2]bool
	buttonActive [2]bool
	stickActive  bool

	delayLeft   int
	repeatCount int
}

// IsActive reports whether any bound source currently holds the control.
func (c *Control) IsActive() bool {
	return c.keyActive[0] || c.keyActive[1] ||
		c.buttonActive[0] || c.buttonActive[1] ||
		c.stickActive
}

// keySlot returns which key slot binds key, or -1.
func (c *Control) keySlot(key ebiten.Key) int {
	if key == KeyNone {
		return -1
	}
	if c.Keys[0] == key {
		return 0
	}
	if c.Keys[1] == key {
		return 1
	}
	return -1
}

// buttonSlot returns which button slot binds (pad, button), or -1.
func (c *Control) buttonSlot(pad, button int) int {
	if pad != c.Player || button < 0 {
		return -1
	}
	if c.Buttons[0] == button {
		return 0
	}
	if c.Buttons[1] == button {
		return 1
	}
	return -1
}

// ControlSet is one player's fixed bundle of controls.
type ControlSet struct {
	controls [controlCount]Control
}

// Control returns the control with the given id.
func (s *ControlSet) Control(id ControlID) *Control {
	return &s.controls[id]
}

// Up, Down, Left, Right, A, B, X, Y, Start, and Select return the
// corresponding control.
func (s *ControlSet) Up() *Control     { return &s.controls[ControlUp] }
func (s *ControlSet) Down() *Control   { return &s.controls[ControlDown] }
func (s *ControlSet) Left() *Control   { return &s.controls[ControlLeft] }
func (s *ControlSet) Right() *Control  { return &s.controls[ControlRight] }
func (s *ControlSet) A() *Control      { return &s.controls[ControlA] }
func (s *ControlSet) B() *Control      { return &s.controls[ControlB] }
func (s *ControlSet) X() *Control      { return &s.controls[ControlX] }
func (s *ControlSet) Y() *Control      { return &s.controls[ControlY] }
func (s *ControlSet) Start() *Control  { return &s.controls[ControlStart] }
func (s *ControlSet) Select() *Control { return &s.controls[ControlSelect] }

// defaultStandardButtons is the physical button bound to each control on a
// standard-layout pad.
var defaultStandardButtons = [controlCount]int{
	ControlUp:     GamepadButtonUp,
	ControlDown:   GamepadButtonDown,
	ControlLeft:   GamepadButtonLeft,
	ControlRight:  GamepadButtonRight,
	ControlA:      GamepadButtonA,
	ControlB:      GamepadButtonB,
	ControlX:      GamepadButtonX,
	ControlY:      GamepadButtonY,
	ControlStart:  GamepadButtonStart,
	ControlSelect: GamepadButtonSelect,
}

// Keyboard defaults: player 0 gets the arrow cluster, player 1 WASD.
// Players 2 and 3 are gamepad-only.
var defaultKeys = [2][controlCount]ebiten.Key{
	{
		ControlUp:     ebiten.KeyArrowUp,
		ControlDown:   ebiten.KeyArrowDown,
		ControlLeft:   ebiten.KeyArrowLeft,
		ControlRight:  ebiten.KeyArrowRight,
		ControlA:      ebiten.KeyZ,
		ControlB:      ebiten.KeyX,
		ControlX:      ebiten.KeyC,
		ControlY:      ebiten.KeyV,
		ControlStart:  ebiten.KeyEnter,
		ControlSelect: ebiten.KeyShiftRight,
	},
	{
		ControlUp:     ebiten.KeyW,
		ControlDown:   ebiten.KeyS,
		ControlLeft:   ebiten.KeyA,
		ControlRight:  ebiten.KeyD,
		ControlA:      ebiten.KeyG,
		ControlB:      ebiten.KeyH,
		ControlX:      ebiten.KeyT,
		ControlY:      ebiten.KeyY,
		ControlStart:  ebiten.KeyTab,
		ControlSelect: ebiten.KeyQ,
	},
}

// Secondary key slot for player 0's face buttons.
var defaultAltKeys = [controlCount]ebiten.Key{
	ControlUp:     KeyNone,
	ControlDown:   KeyNone,
	ControlLeft:   KeyNone,
	ControlRight:  KeyNone,
	ControlA:      ebiten.KeySpace,
	ControlB:      KeyNone,
	ControlX:      KeyNone,
	ControlY:      KeyNone,
	ControlStart:  KeyNone,
	ControlSelect: KeyNone,
}

func newControlSet(player int) ControlSet {
	var s ControlSet
	for id := ControlID(0); id < controlCount; id++ {
		c := &s.controls[id]
		c.ID = id
		c.Player = player
		c.Keys = [2]ebiten.Key{KeyNone, KeyNone}
		c.Buttons = [2]int{defaultStandardButtons[id], -1}
		if player < len(defaultKeys) {
			c.Keys[0] = defaultKeys[player][id]
		}
		if player == 0 {
			c.Keys[1] = defaultAltKeys[id]
		}
	}
	return s
}

// synthDirection maps a synthesized left-stick direction button (17-20) to
// the control it drives. The right-stick buttons (21-24) have no default
// binding and surface only through the raw gamepad callbacks.
func synthDirection(button int) (ControlID, bool) {
	switch button {
	case synthButtonBase + 0:
		return ControlUp, true
	case synthButtonBase + 1:
		return ControlDown, true
	case synthButtonBase + 2:
		return ControlLeft, true
	case synthButtonBase + 3:
		return ControlRight, true
	}
	return 0, false
}

// controller routes raw key and gamepad edges onto the per-player control
// sets, fires debounced start/end transitions through the gate, and runs
// the per-frame auto-repeat counters.
type controller struct {
	sets [MaxGamepads]ControlSet

	// gate may veto a candidate start (returning false) and consume the
	// press for UI-mode navigation instead.
	gate func(*Control) bool

	onStart  func(*Control)
	onRepeat func(*Control)
	onEnd    func(*Control)
}

func newController() *controller {
	c := &controller{}
	for i := range c.sets {
		c.sets[i] = newControlSet(i)
	}
	return c
}

func (ctl *controller) set(player int) *ControlSet {
	return &ctl.sets[player]
}

// press activates one source on a control, firing start when the control
// transitions to active and the gate allows it. The source flag is set even
// when the start is vetoed, so release bookkeeping stays consistent.
func (ctl *controller) press(c *Control, flag *bool) {
	wasActive := c.IsActive()
	*flag = true
	if wasActive {
		return
	}
	c.delayLeft = c.DelayFrames
	c.repeatCount = 0
	if ctl.gate != nil && !ctl.gate(c) {
		return
	}
	if ctl.onStart != nil {
		ctl.onStart(c)
	}
}

// release clears one source, firing end when the control has no remaining
// active source. The start (pause) control is momentary: its end is
// deliberately suppressed.
func (ctl *controller) release(c *Control, flag *bool) {
	if !*flag {
		return
	}
	*flag = false
	if c.IsActive() || c.ID == ControlStart {
		return
	}
	if ctl.onEnd != nil {
		ctl.onEnd(c)
	}
}

func (ctl *controller) keyDown(key ebiten.Key) {
	for p := range ctl.sets {
		for id := range ctl.sets[p].controls {
			c := &ctl.sets[p].controls[id]
			if slot := c.keySlot(key); slot >= 0 {
				ctl.press(c, &c.keyActive[slot])
			}
		}
	}
}

func (ctl *controller) keyUp(key ebiten.Key) {
	for p := range ctl.sets {
		for id := range ctl.sets[p].controls {
			c := &ctl.sets[p].controls[id]
			if slot := c.keySlot(key); slot >= 0 {
				ctl.release(c, &c.keyActive[slot])
			}
		}
	}
}

func (ctl *controller) buttonDown(pad, button int) {
	if pad < 0 || pad >= MaxGamepads {
		return
	}
	if id, ok := synthDirection(button); ok {
		c := &ctl.sets[pad].controls[id]
		ctl.press(c, &c.stickActive)
		return
	}
	for id := range ctl.sets[pad].controls {
		c := &ctl.sets[pad].controls[id]
		if slot := c.buttonSlot(pad, button); slot >= 0 {
			ctl.press(c, &c.buttonActive[slot])
		}
	}
}

func (ctl *controller) buttonUp(pad, button int) {
	if pad < 0 || pad >= MaxGamepads {
		return
	}
	if id, ok := synthDirection(button); ok {
		c := &ctl.sets[pad].controls[id]
		ctl.release(c, &c.stickActive)
		return
	}
	for id := range ctl.sets[pad].controls {
		c := &ctl.sets[pad].controls[id]
		if slot := c.buttonSlot(pad, button); slot >= 0 {
			ctl.release(c, &c.buttonActive[slot])
		}
	}
}

// frame advances the auto-repeat counters once per tick.
func (ctl *controller) frame() {
	for p := range ctl.sets {
		for id := range ctl.sets[p].controls {
			c := &ctl.sets[p].controls[id]
			if !c.IsActive() || c.RepeatFrames <= 0 {
				c.delayLeft = c.DelayFrames
				c.repeatCount = 0
				continue
			}
			if c.delayLeft > 0 {
				c.delayLeft--
				continue
			}
			c.repeatCount++
			if c.repeatCount >= c.RepeatFrames {
				c.repeatCount = 0
				if ctl.onRepeat != nil {
					ctl.onRepeat(c)
				}
			}
		}
	}
}

// releaseAll force-clears every source without firing end events. Used when
// the window loses the input stream entirely.
func (ctl *controller) releaseAll() {
	for p := range ctl.sets {
		for id := range ctl.sets[p].controls {
			c := &ctl.sets[p].controls[id]
			c.keyActive = [2]bool{}
			c.buttonActive = [2]bool{}
			c.stickActive = false
			c.repeatCount = 0
			c.delayLeft = c.DelayFrames
		}
	}
}
