package cabinet

import "strings"

// remapSourceKind says where one standard-layout button value comes from on
// a misreporting pad.
type remapSourceKind uint8

const (
	fromButton      remapSourceKind = iota // raw button at index
	fromAxisTrigger                        // analog trigger on an axis: value = axis*0.5 + 0.5
	fromAxisNeg                            // digital d-pad half: pressed when axis < -0.5
	fromAxisPos                            // digital d-pad half: pressed when axis > 0.5
	fromNothing                            // pad has no such button
)

type remapSource struct {
	kind  remapSourceKind
	index int
}

// remapEntry rewires a non-standard pad onto the standard layout. The match
// string is compared as a substring of the lowercased platform-reported
// gamepad identifier. This is a known-brittle heuristic: identifiers shift
// across OS and driver updates, and the table makes no claim of being
// exhaustive.
type remapEntry struct {
	match   string
	buttons [numRealButtons]remapSource
	axes    [4]remapSource // stick axes LX LY RX RY, kind fromButton means raw axis index
}

// button computes the standard-layout value of button i from a raw sample.
func (r *remapEntry) button(i int, s *GamepadSample) float64 {
	src := r.buttons[i]
	switch src.kind {
	case fromButton:
		if src.index < len(s.Buttons) {
			return s.Buttons[src.index]
		}
	case fromAxisTrigger:
		if src.index < len(s.Axes) {
			return s.Axes[src.index]*0.5 + 0.5
		}
	case fromAxisNeg:
		if src.index < len(s.Axes) && s.Axes[src.index] < -0.5 {
			return 1
		}
	case fromAxisPos:
		if src.index < len(s.Axes) && s.Axes[src.index] > 0.5 {
			return 1
		}
	}
	return 0
}

// axis returns raw stick axis i (0-3) after rerouting.
func (r *remapEntry) axis(i int, s *GamepadSample) float64 {
	src := r.axes[i]
	if src.kind == fromNothing {
		return 0
	}
	if src.index < len(s.Axes) {
		return s.Axes[src.index]
	}
	return 0
}

// identityRemap passes every button and axis through unchanged.
var identityRemap = func() *remapEntry {
	e := &remapEntry{}
	for i := range e.buttons {
		e.buttons[i] = remapSource{kind: fromButton, index: i}
	}
	for i := range e.axes {
		e.axes[i] = remapSource{kind: fromButton, index: i}
	}
	return e
}()

// vendorRemaps covers the misreporting pads the toolkit has run into:
// Linux-style Xbox pads put the triggers on axes 2/5 and the d-pad on axes
// 6/7, and the common "USB Gamepad" SNES clones report the d-pad on axes
// 0/1 with a shuffled button order and no sticks at all.
var vendorRemaps = []*remapEntry{
	func() *remapEntry {
		e := &remapEntry{match: "xbox"}
		for i := range e.buttons {
			e.buttons[i] = remapSource{kind: fromButton, index: i}
		}
		e.buttons[GamepadButtonL2] = remapSource{kind: fromAxisTrigger, index: 2}
		e.buttons[GamepadButtonR2] = remapSource{kind: fromAxisTrigger, index: 5}
		e.buttons[GamepadButtonSelect] = remapSource{kind: fromButton, index: 6}
		e.buttons[GamepadButtonStart] = remapSource{kind: fromButton, index: 7}
		e.buttons[GamepadButtonL3] = remapSource{kind: fromButton, index: 9}
		e.buttons[GamepadButtonR3] = remapSource{kind: fromButton, index: 10}
		e.buttons[GamepadButtonUp] = remapSource{kind: fromAxisNeg, index: 7}
		e.buttons[GamepadButtonDown] = remapSource{kind: fromAxisPos, index: 7}
		e.buttons[GamepadButtonLeft] = remapSource{kind: fromAxisNeg, index: 6}
		e.buttons[GamepadButtonRight] = remapSource{kind: fromAxisPos, index: 6}
		e.buttons[GamepadButtonHome] = remapSource{kind: fromButton, index: 8}
		e.axes[0] = remapSource{kind: fromButton, index: 0}
		e.axes[1] = remapSource{kind: fromButton, index: 1}
		e.axes[2] = remapSource{kind: fromButton, index: 3}
		e.axes[3] = remapSource{kind: fromButton, index: 4}
		return e
	}(),
	func() *remapEntry {
		e := &remapEntry{match: "usb gamepad"}
		for i := range e.buttons {
			e.buttons[i] = remapSource{kind: fromNothing}
		}
		e.buttons[GamepadButtonA] = remapSource{kind: fromButton, index: 1}
		e.buttons[GamepadButtonB] = remapSource{kind: fromButton, index: 2}
		e.buttons[GamepadButtonX] = remapSource{kind: fromButton, index: 0}
		e.buttons[GamepadButtonY] = remapSource{kind: fromButton, index: 3}
		e.buttons[GamepadButtonL1] = remapSource{kind: fromButton, index: 4}
		e.buttons[GamepadButtonR1] = remapSource{kind: fromButton, index: 5}
		e.buttons[GamepadButtonSelect] = remapSource{kind: fromButton, index: 8}
		e.buttons[GamepadButtonStart] = remapSource{kind: fromButton, index: 9}
		e.buttons[GamepadButtonUp] = remapSource{kind: fromAxisNeg, index: 1}
		e.buttons[GamepadButtonDown] = remapSource{kind: fromAxisPos, index: 1}
		e.buttons[GamepadButtonLeft] = remapSource{kind: fromAxisNeg, index: 0}
		e.buttons[GamepadButtonRight] = remapSource{kind: fromAxisPos, index: 0}
		for i := range e.axes {
			e.axes[i] = remapSource{kind: fromNothing}
		}
		return e
	}(),
}

// lookupRemap picks the remap record for a platform-reported gamepad id,
// falling back to the identity mapping.
func lookupRemap(id string) *remapEntry {
	lower := strings.ToLower(id)
	for _, e := range vendorRemaps {
		if strings.Contains(lower, e.match) {
			return e
		}
	}
	return identityRemap
}
