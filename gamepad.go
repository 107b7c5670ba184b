package cabinet

import "math"

// Standard-layout button indices (the W3C gamepad order the platform
// reports when a pad is recognized).
const (
	GamepadButtonA      = 0
	GamepadButtonB      = 1
	GamepadButtonX      = 2
	GamepadButtonY      = 3
	GamepadButtonL1     = 4
	GamepadButtonR1     = 5
	GamepadButtonL2     = 6 // left trigger (analog)
	GamepadButtonR2     = 7 // right trigger (analog)
	GamepadButtonSelect = 8
	GamepadButtonStart  = 9
	GamepadButtonL3     = 10
	GamepadButtonR3     = 11
	GamepadButtonUp     = 12
	GamepadButtonDown   = 13
	GamepadButtonLeft   = 14
	GamepadButtonRight  = 15
	GamepadButtonHome   = 16
)

const (
	numRealButtons = 17
	// Synthesized direction "buttons" derived from the analog sticks:
	// 17-20 left stick up/down/left/right, 21-24 right stick.
	synthButtonBase = numRealButtons
	numButtons      = 25

	// Stick indices reported through OnGamepadMove.
	StickLeft  = 0
	StickRight = 1
	StickDPad  = 2 // the d-pad exposed as a pseudo analog stick
	// Triggers report their scalar through the same move channel.
	StickTriggerLeft  = 3
	StickTriggerRight = 4

	numStickAxes = 6 // LX LY RX RY DX DY

	stickDeadzone         = 0.18
	stickMoveHysteresis   = 0.05
	stickDigitalThreshold = 0.5

	// MaxGamepads is the number of player slots.
	MaxGamepads = 4
)

// GamepadSample is one raw reading of a physical gamepad: the
// platform-reported identifier string plus raw button values (0..1) and
// axis values (-1..1), before remapping or deadzones.
type GamepadSample struct {
	ID      string
	Buttons []float64
	Axes    []float64
}

// GamepadSource supplies raw per-slot gamepad readings. The Ebitengine
// driver implements it for real hardware; tests implement fakes.
type GamepadSource interface {
	// Refresh is called once per frame before sampling and returns the
	// number of slots to sample.
	Refresh() int
	// Sample fills dst with slot's current reading. It returns false when
	// no pad is present in the slot.
	Sample(slot int, dst *GamepadSample) bool
}

// gamepadState is the per-slot snapshot. Created lazily the first time a
// slot reports a pad and kept for the session.
type gamepadState struct {
	present bool
	id      string
	remap   *remapEntry

	cur  [numButtons]float64
	prev [numButtons]float64

	axes [numStickAxes]float64

	// lastEvent holds the axis/trigger values at which the most recent
	// move event fired, so edge detection is hysteresis-based rather than
	// raw-sample based.
	lastEventAxes     [numStickAxes]float64
	lastEventTriggers [2]float64
}

type gamepadEventKind uint8

const (
	gamepadButtonDown gamepadEventKind = iota
	gamepadButtonUp
	gamepadStickMove
)

type gamepadEvent struct {
	kind      gamepadEventKind
	pad       int
	button    int
	value     float64
	direction bool
	stick     int
	x, y      float64
}

// gamepadPoller produces edge-triggered gamepad events from per-frame
// snapshots. All pads are fully latched before any event is emitted, so
// handlers that query other pads always observe this frame's state.
type gamepadPoller struct {
	source GamepadSource
	pads   [MaxGamepads]gamepadState

	events []gamepadEvent
	sample GamepadSample
}

// poll latches every present pad, then derives this frame's edge events.
// The returned slice is reused across calls.
func (p *gamepadPoller) poll() []gamepadEvent {
	p.events = p.events[:0]
	if p.source == nil {
		return p.events
	}

	slots := p.source.Refresh()
	if slots > MaxGamepads {
		slots = MaxGamepads
	}

	// Phase 1: latch. No events fire until every pad holds its new state.
	for slot := 0; slot < slots; slot++ {
		if p.source.Sample(slot, &p.sample) {
			p.latch(slot, &p.sample)
		}
	}

	// Phase 2: derive events from the latched snapshots.
	for slot := range p.pads {
		pad := &p.pads[slot]
		if !pad.present {
			continue
		}
		p.stickEvents(slot, pad)
		p.buttonEvents(slot, pad)
	}
	return p.events
}

// latch copies current into previous and computes the new current state for
// one slot: remapped buttons, deadzoned stick axes, d-pad pseudo-axes, and
// the synthesized direction buttons.
func (p *gamepadPoller) latch(slot int, s *GamepadSample) {
	pad := &p.pads[slot]
	if !pad.present || pad.id != s.ID {
		pad.present = true
		pad.id = s.ID
		pad.remap = lookupRemap(s.ID)
	}
	pad.prev = pad.cur

	for i := 0; i < numRealButtons; i++ {
		pad.cur[i] = pad.remap.button(i, s)
	}

	// Stick axes 0-3 with deadzone.
	for i := 0; i < 4; i++ {
		v := pad.remap.axis(i, s)
		if math.Abs(v) < stickDeadzone {
			v = 0
		}
		pad.axes[i] = v
	}

	// Pseudo-axes 4/5: the d-pad as a stick.
	pad.axes[4] = pad.cur[GamepadButtonRight] - pad.cur[GamepadButtonLeft]
	pad.axes[5] = pad.cur[GamepadButtonDown] - pad.cur[GamepadButtonUp]

	// Synthesized direction buttons for the two real sticks (not the
	// d-pad-as-stick, whose directions are already real buttons). The
	// digital threshold is evaluated on every latch, so a press fires the
	// tick the stick crosses it even when the corresponding move event is
	// held back by hysteresis.
	for stick := 0; stick < 2; stick++ {
		x := pad.axes[stick*2]
		y := pad.axes[stick*2+1]
		base := synthButtonBase + stick*4
		pad.cur[base+0] = digital(y < -stickDigitalThreshold)
		pad.cur[base+1] = digital(y > stickDigitalThreshold)
		pad.cur[base+2] = digital(x < -stickDigitalThreshold)
		pad.cur[base+3] = digital(x > stickDigitalThreshold)
	}
}

func digital(on bool) float64 {
	if on {
		return 1
	}
	return 0
}

// stickEvents emits a move event for each stick or trigger whose value
// shifted past the hysteresis threshold since the last reported value.
func (p *gamepadPoller) stickEvents(slot int, pad *gamepadState) {
	for stick := 0; stick < 3; stick++ {
		x := pad.axes[stick*2]
		y := pad.axes[stick*2+1]
		lx := pad.lastEventAxes[stick*2]
		ly := pad.lastEventAxes[stick*2+1]
		if math.Abs(x-lx) <= stickMoveHysteresis && math.Abs(y-ly) <= stickMoveHysteresis {
			continue
		}
		pad.lastEventAxes[stick*2] = x
		pad.lastEventAxes[stick*2+1] = y
		p.events = append(p.events, gamepadEvent{
			kind: gamepadStickMove, pad: slot, stick: stick, x: x, y: y,
		})
	}

	for trig := 0; trig < 2; trig++ {
		v := pad.cur[GamepadButtonL2+trig]
		if math.Abs(v-pad.lastEventTriggers[trig]) <= stickMoveHysteresis {
			continue
		}
		pad.lastEventTriggers[trig] = v
		p.events = append(p.events, gamepadEvent{
			kind: gamepadStickMove, pad: slot, stick: StickTriggerLeft + trig, x: v,
		})
	}
}

// buttonEvents emits press/release edges for every real and synthesized
// button.
func (p *gamepadPoller) buttonEvents(slot int, pad *gamepadState) {
	for b := 0; b < numButtons; b++ {
		cur := pad.cur[b]
		prev := pad.prev[b]
		switch {
		case prev == 0 && cur != 0:
			p.events = append(p.events, gamepadEvent{
				kind: gamepadButtonDown, pad: slot, button: b, value: cur,
				direction: isDirectionButton(b),
			})
		case prev != 0 && cur == 0:
			p.events = append(p.events, gamepadEvent{
				kind: gamepadButtonUp, pad: slot, button: b,
				direction: isDirectionButton(b),
			})
		}
	}
}

func isDirectionButton(b int) bool {
	return (b >= GamepadButtonUp && b <= GamepadButtonRight) || b >= synthButtonBase
}

// buttonValue returns the latched value of a button on a pad, or 0 when the
// slot is empty or out of range.
func (p *gamepadPoller) buttonValue(slot, button int) float64 {
	if slot < 0 || slot >= MaxGamepads || button < 0 || button >= numButtons {
		return 0
	}
	pad := &p.pads[slot]
	if !pad.present {
		return 0
	}
	return pad.cur[button]
}

// anyButtonHeld scans the latched state directly, bypassing edge detection.
// The splash screen uses this for "press any button".
func (p *gamepadPoller) anyButtonHeld() bool {
	for slot := range p.pads {
		pad := &p.pads[slot]
		if !pad.present {
			continue
		}
		for b := 0; b < numRealButtons; b++ {
			if pad.cur[b] != 0 {
				return true
			}
		}
	}
	return false
}
