package cabinet

import (
	"testing"
)

func filterEvents(events []gamepadEvent, kind gamepadEventKind) []gamepadEvent {
	var out []gamepadEvent
	for _, e := range events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestGamepadButtonEdges(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	src.pads[0] = newPad("standard")

	if got := p.poll(); len(got) != 0 {
		t.Fatalf("idle pad produced events: %v", got)
	}

	src.pads[0].Buttons[GamepadButtonA] = 1
	downs := filterEvents(p.poll(), gamepadButtonDown)
	if len(downs) != 1 || downs[0].button != GamepadButtonA || downs[0].pad != 0 {
		t.Fatalf("press produced %v, want one down for button A on pad 0", downs)
	}
	if downs[0].direction {
		t.Error("button A should not be flagged as a direction")
	}

	// Held: no repeat of the edge.
	if got := p.poll(); len(got) != 0 {
		t.Fatalf("held button produced events: %v", got)
	}

	src.pads[0].Buttons[GamepadButtonA] = 0
	ups := filterEvents(p.poll(), gamepadButtonUp)
	if len(ups) != 1 || ups[0].button != GamepadButtonA {
		t.Fatalf("release produced %v, want one up for button A", ups)
	}
}

func TestGamepadDirectionFlag(t *testing.T) {
	tests := []struct {
		button    int
		direction bool
	}{
		{GamepadButtonA, false},
		{GamepadButtonStart, false},
		{GamepadButtonUp, true},
		{GamepadButtonRight, true},
		{GamepadButtonHome, false},
	}
	for _, tt := range tests {
		if got := isDirectionButton(tt.button); got != tt.direction {
			t.Errorf("isDirectionButton(%d) = %v, want %v", tt.button, got, tt.direction)
		}
	}
	for b := synthButtonBase; b < numButtons; b++ {
		if !isDirectionButton(b) {
			t.Errorf("synthesized button %d should be a direction", b)
		}
	}
}

func TestGamepadStickDeadzone(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	src.pads[0] = newPad("standard")

	src.pads[0].Axes[0] = 0.1 // inside the deadzone
	if got := p.poll(); len(got) != 0 {
		t.Fatalf("deadzone drift produced events: %v", got)
	}
	if v := p.pads[0].axes[0]; v != 0 {
		t.Errorf("latched axis = %v, want 0 inside the deadzone", v)
	}

	src.pads[0].Axes[0] = 0.3
	moves := filterEvents(p.poll(), gamepadStickMove)
	if len(moves) != 1 || moves[0].stick != StickLeft || moves[0].x != 0.3 {
		t.Fatalf("move past deadzone produced %v, want one left-stick move at 0.3", moves)
	}
}

func TestGamepadStickMoveHysteresis(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	src.pads[0] = newPad("standard")

	src.pads[0].Axes[0] = 0.5
	if moves := filterEvents(p.poll(), gamepadStickMove); len(moves) != 1 {
		t.Fatalf("initial deflection produced %d moves, want 1", len(moves))
	}

	// Jitter below the hysteresis threshold is silent.
	src.pads[0].Axes[0] = 0.53
	if got := p.poll(); len(got) != 0 {
		t.Fatalf("jitter produced events: %v", got)
	}

	// Hysteresis is relative to the last reported value, not the last sample.
	src.pads[0].Axes[0] = 0.56
	moves := filterEvents(p.poll(), gamepadStickMove)
	if len(moves) != 1 || moves[0].x != 0.56 {
		t.Fatalf("drift past hysteresis produced %v, want one move at 0.56", moves)
	}
}

func TestGamepadSynthesizedDirectionButtons(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	src.pads[0] = newPad("standard")

	// Left stick pushed up past the digital threshold.
	src.pads[0].Axes[1] = -0.8
	downs := filterEvents(p.poll(), gamepadButtonDown)
	if len(downs) != 1 || downs[0].button != synthButtonBase || !downs[0].direction {
		t.Fatalf("stick up produced %v, want down for synthesized button %d", downs, synthButtonBase)
	}

	// Below threshold but above deadzone: button released, stick still moves.
	src.pads[0].Axes[1] = -0.3
	events := p.poll()
	ups := filterEvents(events, gamepadButtonUp)
	if len(ups) != 1 || ups[0].button != synthButtonBase {
		t.Fatalf("stick easing off produced %v, want up for synthesized button %d", ups, synthButtonBase)
	}
	if moves := filterEvents(events, gamepadStickMove); len(moves) != 1 {
		t.Errorf("stick easing off should still report a move, got %v", events)
	}

	// Right stick maps to the second synthesized bank.
	src.pads[0].Axes[1] = 0
	p.poll()
	src.pads[0].Axes[2] = 0.9
	downs = filterEvents(p.poll(), gamepadButtonDown)
	if len(downs) != 1 || downs[0].button != synthButtonBase+4+3 {
		t.Fatalf("right stick right produced %v, want down for button %d", downs, synthButtonBase+4+3)
	}
}

// A threshold crossing inside the hysteresis window still presses the
// synthesized button, even though no stick move is reported for it.
func TestGamepadSynthesizedButtonIgnoresHysteresis(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	src.pads[0] = newPad("standard")

	src.pads[0].Axes[0] = 0.48
	events := p.poll()
	if moves := filterEvents(events, gamepadStickMove); len(moves) != 1 {
		t.Fatalf("deflection to 0.48 produced %v, want one move", events)
	}
	if downs := filterEvents(events, gamepadButtonDown); len(downs) != 0 {
		t.Fatalf("deflection below the digital threshold pressed %v", downs)
	}

	src.pads[0].Axes[0] = 0.52
	events = p.poll()
	if moves := filterEvents(events, gamepadStickMove); len(moves) != 0 {
		t.Errorf("drift within hysteresis reported moves: %v", moves)
	}
	downs := filterEvents(events, gamepadButtonDown)
	if len(downs) != 1 || downs[0].button != synthButtonBase+3 {
		t.Fatalf("threshold crossing produced %v, want down for button %d", downs, synthButtonBase+3)
	}
}

func TestGamepadDPadPseudoStick(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	src.pads[0] = newPad("standard")

	src.pads[0].Buttons[GamepadButtonLeft] = 1
	events := p.poll()
	moves := filterEvents(events, gamepadStickMove)
	if len(moves) != 1 || moves[0].stick != StickDPad || moves[0].x != -1 || moves[0].y != 0 {
		t.Fatalf("d-pad left produced %v, want d-pad stick move (-1, 0)", moves)
	}
	// The real d-pad button edge fires too.
	downs := filterEvents(events, gamepadButtonDown)
	if len(downs) != 1 || downs[0].button != GamepadButtonLeft {
		t.Fatalf("d-pad left produced %v, want down for the left button", downs)
	}
}

func TestGamepadTriggerMoves(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	src.pads[0] = newPad("standard")

	src.pads[0].Buttons[GamepadButtonR2] = 0.7
	events := p.poll()
	moves := filterEvents(events, gamepadStickMove)
	if len(moves) != 1 || moves[0].stick != StickTriggerRight || moves[0].x != 0.7 {
		t.Fatalf("trigger squeeze produced %v, want right-trigger move at 0.7", moves)
	}
}

// A handler fired by one pad's edge must observe every other pad's state as
// of this frame, not the previous one.
func TestGamepadLatchesAllPadsBeforeFiring(t *testing.T) {
	src := &fakeSource{}
	read := -1.0
	var a *App
	a, _ = newTestApp(t, Handlers{
		OnGamepadEnd: func(button, pad int, direction bool) {
			if pad == 0 && button == GamepadButtonA {
				read = a.GamepadButton(1, GamepadButtonA)
			}
		},
	})
	a.SetGamepadSource(src)

	src.pads[0] = newPad("standard")
	src.pads[1] = newPad("standard")
	src.pads[0].Buttons[GamepadButtonA] = 1
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}

	// In one frame, pad 0 releases while pad 1 presses. Pad 0's release
	// handler runs first but must already see pad 1 held.
	src.pads[0].Buttons[GamepadButtonA] = 0
	src.pads[1].Buttons[GamepadButtonA] = 1
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	if read != 1 {
		t.Errorf("handler read pad 1 button A = %v, want this-frame value 1", read)
	}
}

func TestGamepadAnyButtonHeld(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}

	if p.anyButtonHeld() {
		t.Error("no pads: anyButtonHeld should be false")
	}
	src.pads[2] = newPad("standard")
	p.poll()
	if p.anyButtonHeld() {
		t.Error("idle pad: anyButtonHeld should be false")
	}
	src.pads[2].Buttons[GamepadButtonStart] = 1
	p.poll()
	if !p.anyButtonHeld() {
		t.Error("held button not seen by anyButtonHeld")
	}
}

func TestGamepadButtonValueRanges(t *testing.T) {
	p := &gamepadPoller{}
	if v := p.buttonValue(-1, 0); v != 0 {
		t.Errorf("negative slot = %v, want 0", v)
	}
	if v := p.buttonValue(0, numButtons); v != 0 {
		t.Errorf("out-of-range button = %v, want 0", v)
	}
	if v := p.buttonValue(0, 0); v != 0 {
		t.Errorf("empty slot = %v, want 0", v)
	}
}

// --- Vendor remapping ---

func TestLookupRemap(t *testing.T) {
	tests := []struct {
		id    string
		match string
	}{
		{"Xbox 360 Controller (XInput STANDARD GAMEPAD)", "xbox"},
		{"Microsoft X-Box One pad", ""},
		{"USB Gamepad           (Vendor: 0810 Product: e501)", "usb gamepad"},
		{"standard", ""},
		{"Sony DualShock 4", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			e := lookupRemap(tt.id)
			if e.match != tt.match {
				t.Errorf("lookupRemap(%q).match = %q, want %q", tt.id, e.match, tt.match)
			}
		})
	}
}

func TestXboxRemap(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	pad := &GamepadSample{
		ID:      "Xbox 360 Controller",
		Buttons: make([]float64, 11),
		Axes:    make([]float64, 8),
	}
	src.pads[0] = pad

	// Triggers live on axes 2 and 5, reported -1..1.
	pad.Axes[2] = 0.2  // left trigger at 0.6
	pad.Axes[5] = -1   // right trigger released
	pad.Axes[7] = -0.9 // d-pad up
	pad.Axes[3] = 0.7  // right stick X
	pad.Buttons[6] = 1 // select
	p.poll()

	state := &p.pads[0]
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"left trigger", state.cur[GamepadButtonL2], 0.6},
		{"right trigger", state.cur[GamepadButtonR2], 0},
		{"d-pad up", state.cur[GamepadButtonUp], 1},
		{"d-pad down", state.cur[GamepadButtonDown], 0},
		{"select", state.cur[GamepadButtonSelect], 1},
		{"right stick X", state.axes[2], 0.7},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSNESCloneRemap(t *testing.T) {
	src := &fakeSource{}
	p := &gamepadPoller{source: src}
	pad := &GamepadSample{
		ID:      "USB Gamepad",
		Buttons: make([]float64, 10),
		Axes:    make([]float64, 2),
	}
	src.pads[0] = pad

	pad.Axes[0] = -1   // d-pad left
	pad.Buttons[1] = 1 // physical button 1 is the standard A
	pad.Buttons[9] = 1 // start
	p.poll()

	state := &p.pads[0]
	if state.cur[GamepadButtonLeft] != 1 {
		t.Error("d-pad left not reconstructed from axis 0")
	}
	if state.cur[GamepadButtonA] != 1 {
		t.Error("button A not remapped from physical index 1")
	}
	if state.cur[GamepadButtonStart] != 1 {
		t.Error("start not remapped from physical index 9")
	}
	// The pad has no analog sticks; the stick axes must be pinned to zero
	// even though the raw axes carry the d-pad.
	for i, v := range state.axes[:4] {
		if v != 0 {
			t.Errorf("stick axis %d = %v, want 0 on a stickless pad", i, v)
		}
	}
}
