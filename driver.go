package cabinet

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ebitenDriver adapts Ebitengine's polled input APIs into the App's event
// entry points and implements GamepadSource for real hardware. One physical
// interaction reaches the App through exactly one path: touches keep their
// platform identifiers, the mouse uses the reserved ids, and the tracker
// discards mouse echoes of recent touches.
type ebitenDriver struct {
	// Gamepad slot assignment: connected pads keep their slot for the
	// session so player numbers stay stable.
	slotIDs  [MaxGamepads]ebiten.GamepadID
	slotUsed [MaxGamepads]bool
	padBuf   []ebiten.GamepadID

	keyBuf   []ebiten.Key
	touchBuf []ebiten.TouchID

	prevCursorX, prevCursorY int
	leftDown, rightDown      bool
	wasFocused               bool
}

func newEbitenDriver() *ebitenDriver {
	return &ebitenDriver{wasFocused: true}
}

// --- InputDriver ---

func (d *ebitenDriver) Focused() bool {
	return ebiten.IsFocused()
}

func (d *ebitenDriver) AnyKeyHeld() bool {
	d.keyBuf = inpututil.AppendPressedKeys(d.keyBuf[:0])
	return len(d.keyBuf) > 0
}

// Pump forwards this tick's keyboard, touch, mouse, and wheel deltas.
func (d *ebitenDriver) Pump(a *App) {
	// Losing focus drops any in-flight releases; end active pointers so
	// drags are not left dangling.
	focused := ebiten.IsFocused()
	if d.wasFocused && !focused {
		a.forceEndPointers()
	}
	d.wasFocused = focused

	d.keyBuf = inpututil.AppendJustPressedKeys(d.keyBuf[:0])
	for _, k := range d.keyBuf {
		a.keyDown(k)
	}
	d.keyBuf = inpututil.AppendJustReleasedKeys(d.keyBuf[:0])
	for _, k := range d.keyBuf {
		a.keyUp(k)
	}

	d.touchBuf = inpututil.AppendJustPressedTouchIDs(d.touchBuf[:0])
	for _, tid := range d.touchBuf {
		tx, ty := ebiten.TouchPosition(tid)
		a.pointerBegan(PointerID(tid), float64(tx), float64(ty))
	}
	d.touchBuf = ebiten.AppendTouchIDs(d.touchBuf[:0])
	for _, tid := range d.touchBuf {
		if inpututil.TouchPressDuration(tid) > 1 {
			tx, ty := ebiten.TouchPosition(tid)
			a.pointerMoved(PointerID(tid), float64(tx), float64(ty))
		}
	}
	d.touchBuf = inpututil.AppendJustReleasedTouchIDs(d.touchBuf[:0])
	for _, tid := range d.touchBuf {
		tx, ty := inpututil.TouchPositionInPreviousTick(tid)
		a.pointerEnded(PointerID(tid), float64(tx), float64(ty))
	}

	cx, cy := ebiten.CursorPosition()
	fx, fy := float64(cx), float64(cy)
	d.mouseButton(a, ebiten.MouseButtonLeft, PointerMouseLeft, &d.leftDown, fx, fy)
	d.mouseButton(a, ebiten.MouseButtonRight, PointerMouseRight, &d.rightDown, fx, fy)
	if cx != d.prevCursorX || cy != d.prevCursorY {
		if d.leftDown {
			a.pointerMoved(PointerMouseLeft, fx, fy)
		} else if d.rightDown {
			a.pointerMoved(PointerMouseRight, fx, fy)
		} else {
			a.pointerMoved(PointerMouseLeft, fx, fy) // hover
		}
		d.prevCursorX, d.prevCursorY = cx, cy
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		vx, vy := a.tracker.convert(fx, fy)
		a.dispatchWheel(vx, vy, dx, dy)
	}
}

func (d *ebitenDriver) mouseButton(a *App, button ebiten.MouseButton, id PointerID, down *bool, x, y float64) {
	if inpututil.IsMouseButtonJustPressed(button) {
		*down = true
		a.pointerBegan(id, x, y)
	}
	if inpututil.IsMouseButtonJustReleased(button) {
		*down = false
		a.pointerEnded(id, x, y)
	}
}

// --- GamepadSource ---

// Refresh reassigns slots for newly connected pads and reports the slot
// count.
func (d *ebitenDriver) Refresh() int {
	d.padBuf = ebiten.AppendGamepadIDs(d.padBuf[:0])
	for _, id := range d.padBuf {
		if d.slotOf(id) >= 0 {
			continue
		}
		for slot := range d.slotUsed {
			if !d.slotUsed[slot] {
				d.slotUsed[slot] = true
				d.slotIDs[slot] = id
				break
			}
		}
	}
	return MaxGamepads
}

func (d *ebitenDriver) slotOf(id ebiten.GamepadID) int {
	for slot := range d.slotIDs {
		if d.slotUsed[slot] && d.slotIDs[slot] == id {
			return slot
		}
	}
	return -1
}

func (d *ebitenDriver) connected(id ebiten.GamepadID) bool {
	for _, c := range d.padBuf {
		if c == id {
			return true
		}
	}
	return false
}

// Sample reads a slot's raw buttons and axes. Pads with a recognized
// standard layout are read through it (the platform has already remapped
// them, so the identity table applies); everything else reports raw values
// for the vendor remap table to sort out.
func (d *ebitenDriver) Sample(slot int, dst *GamepadSample) bool {
	if slot < 0 || slot >= MaxGamepads || !d.slotUsed[slot] {
		return false
	}
	id := d.slotIDs[slot]
	if !d.connected(id) {
		return false
	}

	if ebiten.IsStandardGamepadLayoutAvailable(id) {
		dst.ID = "standard" // bypasses the vendor table
		dst.Buttons = dst.Buttons[:0]
		for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
			dst.Buttons = append(dst.Buttons, ebiten.StandardGamepadButtonValue(id, b))
		}
		dst.Axes = dst.Axes[:0]
		for ax := ebiten.StandardGamepadAxis(0); ax <= ebiten.StandardGamepadAxisMax; ax++ {
			dst.Axes = append(dst.Axes, ebiten.StandardGamepadAxisValue(id, ax))
		}
		return true
	}

	dst.ID = ebiten.GamepadName(id)
	dst.Buttons = dst.Buttons[:0]
	for b := 0; b < ebiten.GamepadButtonCount(id); b++ {
		if ebiten.IsGamepadButtonPressed(id, ebiten.GamepadButton(b)) {
			dst.Buttons = append(dst.Buttons, 1)
		} else {
			dst.Buttons = append(dst.Buttons, 0)
		}
	}
	dst.Axes = dst.Axes[:0]
	for ax := 0; ax < ebiten.GamepadAxisCount(id); ax++ {
		dst.Axes = append(dst.Axes, ebiten.GamepadAxisValue(id, ax))
	}
	return true
}
