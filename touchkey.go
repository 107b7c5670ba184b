package cabinet

import "github.com/hajimehoshi/ebiten/v2"

// TouchKey is an on-screen hit region that converts touch (or mouse)
// contact into a synthesized key event. Each key code maps to at most one
// TouchKey at a time.
type TouchKey struct {
	Code  ebiten.Key
	Shape Shape
	Label string

	active map[PointerID]struct{} // pointers currently inside the region
}

func (k *TouchKey) isDown() bool {
	return len(k.active) > 0
}

// TouchKeyDef describes one entry of a reinstallable touch-key layout.
type TouchKeyDef struct {
	Code  ebiten.Key
	Shape Shape
	Label string
}

// touchDrag is the per-pointer bookkeeping the drag policies need.
type touchDrag struct {
	beganOpen  bool // the touch started outside every key region
	crossedKey bool // the touch has been inside a key at some point
}

// touchKeyOverlay intercepts pointer events before they reach the game's
// raw touch handlers. The overlay owns the synthesized key-down/key-up
// transitions; the dispatcher supplies the callbacks.
type touchKeyOverlay struct {
	keys   []*TouchKey
	policy DragPolicy
	mobile bool

	drags map[PointerID]*touchDrag

	onKeyDown func(ebiten.Key)
	onKeyUp   func(ebiten.Key)
}

func newTouchKeyOverlay() *touchKeyOverlay {
	return &touchKeyOverlay{
		drags: make(map[PointerID]*touchDrag),
	}
}

// find returns the TouchKey bound to code, or nil.
func (o *touchKeyOverlay) find(code ebiten.Key) *TouchKey {
	for _, k := range o.keys {
		if k.Code == code {
			return k
		}
	}
	return nil
}

// set upserts the region for code. Replacing a currently-held region
// synthesizes its release first so no key-down is left dangling.
func (o *touchKeyOverlay) set(code ebiten.Key, shape Shape, label string) {
	if k := o.find(code); k != nil {
		if k.isDown() {
			k.active = make(map[PointerID]struct{})
			o.keyUp(code)
		}
		k.Shape = shape
		k.Label = label
		return
	}
	o.keys = append(o.keys, &TouchKey{
		Code:   code,
		Shape:  shape,
		Label:  label,
		active: make(map[PointerID]struct{}),
	})
}

// remove deletes the region for code, synthesizing a release first if it
// was held.
func (o *touchKeyOverlay) remove(code ebiten.Key) {
	for i, k := range o.keys {
		if k.Code != code {
			continue
		}
		if k.isDown() {
			o.keyUp(code)
		}
		o.keys = append(o.keys[:i], o.keys[i+1:]...)
		return
	}
}

// removeAll deletes every region, releasing held ones.
func (o *touchKeyOverlay) removeAll() {
	for _, k := range o.keys {
		if k.isDown() {
			o.keyUp(k.Code)
		}
	}
	o.keys = o.keys[:0]
}

// ignores reports whether the overlay is transparent to this pointer. On
// mobile, mouse-derived reserved ids are the synthetic echo of a real touch
// and must not be processed a second time.
func (o *touchKeyOverlay) ignores(id PointerID) bool {
	return o.mobile && id.IsMouse()
}

// touchStart filters a pointer-down. consumed means the event must not
// propagate to the game's raw touch handlers.
func (o *touchKeyOverlay) touchStart(x, y float64, id PointerID) (consumed bool) {
	if o.ignores(id) {
		return false
	}
	hit := false
	for _, k := range o.keys {
		if !k.Shape.Contains(x, y) {
			continue
		}
		hit = true
		wasDown := k.isDown()
		k.active[id] = struct{}{}
		if !wasDown {
			o.keyDown(k.Code)
		}
	}
	o.drags[id] = &touchDrag{beganOpen: !hit, crossedKey: hit}
	return hit
}

// touchMove filters a pointer-move. simStart means the game should treat
// the motion as a brand new touch entering open space (the drag just left a
// key). simEnd means the game's touch was truncated (the drag was captured
// by a key). At most one of the two is set per move.
func (o *touchKeyOverlay) touchMove(x, y float64, id PointerID) (consumed, simStart, simEnd bool) {
	if o.ignores(id) {
		return false, false, false
	}
	drag := o.drags[id]
	if drag == nil {
		drag = &touchDrag{beganOpen: true}
		o.drags[id] = drag
	}

	if o.policy == DragIgnoresTouchKeys && drag.beganOpen {
		// Keys are fully transparent to drags from open space.
		return false, false, false
	}

	prevInside := false
	for _, k := range o.keys {
		if _, in := k.active[id]; in {
			prevInside = true
			break
		}
	}

	for _, k := range o.keys {
		_, in := k.active[id]
		contains := k.Shape.Contains(x, y)
		switch {
		case in && !contains:
			delete(k.active, id)
			if !k.isDown() {
				o.keyUp(k.Code)
			}
		case !in && contains:
			wasDown := k.isDown()
			k.active[id] = struct{}{}
			if !wasDown {
				o.keyDown(k.Code)
			}
		}
	}

	nowInside := false
	for _, k := range o.keys {
		if _, in := k.active[id]; in {
			nowInside = true
			break
		}
	}

	if o.policy == DragIgnoresTouchKeys {
		// Drag began on a key: it slides between keys, firing their
		// transitions, but never produces a game touch event.
		return true, false, false
	}

	simStart = prevInside && !nowInside
	simEnd = !prevInside && nowInside && !(drag.beganOpen && !drag.crossedKey)
	consumed = prevInside || nowInside
	if nowInside {
		drag.crossedKey = true
	}
	return consumed, simStart, simEnd
}

// touchEnd removes id from every region. consumed reports whether the game
// must not receive the raw touch-end: the pointer was inside a region when
// it ended (its touch was never started, or already truncated), or it was a
// key-born drag under the ignore policy.
func (o *touchKeyOverlay) touchEnd(x, y float64, id PointerID) (consumed bool) {
	if o.ignores(id) {
		return false
	}
	if o.policy == DragIgnoresTouchKeys {
		// A key-born drag never produced a game touch, so its release must
		// not either, even when it ends over open space.
		if drag := o.drags[id]; drag != nil && !drag.beganOpen {
			consumed = true
		}
	}
	for _, k := range o.keys {
		if _, in := k.active[id]; !in {
			continue
		}
		consumed = true
		delete(k.active, id)
		if !k.isDown() {
			o.keyUp(k.Code)
		}
	}
	delete(o.drags, id)
	return consumed
}

func (o *touchKeyOverlay) keyDown(code ebiten.Key) {
	if o.onKeyDown != nil {
		o.onKeyDown(code)
	}
}

func (o *touchKeyOverlay) keyUp(code ebiten.Key) {
	if o.onKeyUp != nil {
		o.onKeyUp(code)
	}
}
