package cabinet

import (
	"math"
	"time"
)

const (
	// touchEchoWindow is how long a completed real touch is remembered so
	// the platform's synthetic mouse click (emitted roughly 300ms after a
	// touch release) can be recognized and discarded.
	touchEchoWindow = 500 * time.Millisecond

	// touchEchoRadius is the pixel tolerance when matching a mouse event
	// against a remembered touch position.
	touchEchoRadius = 2.0
)

// endedTouch remembers where and when a real touch finished, in physical
// (pre-transform) coordinates, since synthetic mouse echoes arrive in the
// same space.
type endedTouch struct {
	x, y float64
	at   time.Time
}

// pointerTracker assigns canonical (x, y, id) triples to raw pointer events.
// Mouse buttons use the reserved negative PointerID namespace; everything
// else keeps its platform identifier. The tracker owns the active-pointer
// table and the synthetic-mouse-after-touch suppression window.
type pointerTracker struct {
	view   ViewTransform
	clock  clock
	active map[PointerID]Vec2 // id -> last virtual position
	ended  []endedTouch       // recently completed real touches
}

func newPointerTracker(view ViewTransform, clk clock) *pointerTracker {
	return &pointerTracker{
		view:   view,
		clock:  clk,
		active: make(map[PointerID]Vec2),
	}
}

// convert maps physical coordinates into virtual game coordinates.
func (t *pointerTracker) convert(sx, sy float64) (float64, float64) {
	return t.view.ToVirtual(sx, sy)
}

// begin registers a pointer-down. ok is false when the event must be
// discarded: the id is already active (duplicate down), or a mouse down
// matches a recently completed touch (synthetic echo).
func (t *pointerTracker) begin(id PointerID, sx, sy float64) (x, y float64, ok bool) {
	x, y = t.convert(sx, sy)
	if id.IsMouse() && t.matchesRecentTouch(sx, sy) {
		return x, y, false
	}
	if _, dup := t.active[id]; dup {
		t.active[id] = Vec2{x, y}
		return x, y, false
	}
	t.active[id] = Vec2{x, y}
	return x, y, true
}

// move updates a pointer's position. active reports whether the pointer is
// between a begin and an end; hover moves (mouse with no button held) have
// active == false but still receive converted coordinates.
func (t *pointerTracker) move(id PointerID, sx, sy float64) (x, y float64, active bool) {
	x, y = t.convert(sx, sy)
	if _, on := t.active[id]; !on {
		return x, y, false
	}
	t.active[id] = Vec2{x, y}
	return x, y, true
}

// end closes a pointer. ok is false when no matching begin is active (for
// example the down was suppressed as a synthetic echo, or the up arrived
// twice). Real touches are remembered for the echo window.
func (t *pointerTracker) end(id PointerID, sx, sy float64) (x, y float64, ok bool) {
	x, y = t.convert(sx, sy)
	if _, on := t.active[id]; !on {
		return x, y, false
	}
	delete(t.active, id)
	if !id.IsMouse() {
		t.ended = append(t.ended, endedTouch{x: sx, y: sy, at: t.clock.now()})
	}
	return x, y, true
}

// isActive reports whether id is between its begin and end events.
func (t *pointerTracker) isActive(id PointerID) bool {
	_, on := t.active[id]
	return on
}

// position returns the last known virtual position of an active pointer.
func (t *pointerTracker) position(id PointerID) (Vec2, bool) {
	p, on := t.active[id]
	return p, on
}

// forceEndAll drains the active table, returning each pointer with its last
// known virtual position. Used when the pointer leaves the surface without
// a clean up event, so drags can still be terminated.
func (t *pointerTracker) forceEndAll() map[PointerID]Vec2 {
	if len(t.active) == 0 {
		return nil
	}
	out := t.active
	t.active = make(map[PointerID]Vec2)
	return out
}

// matchesRecentTouch reports whether a mouse event at physical (sx, sy)
// lines up with a touch that completed within the echo window. Expired
// entries are pruned as a side effect.
func (t *pointerTracker) matchesRecentTouch(sx, sy float64) bool {
	now := t.clock.now()
	live := t.ended[:0]
	match := false
	for _, e := range t.ended {
		if now.Sub(e.at) > touchEchoWindow {
			continue
		}
		live = append(live, e)
		if math.Abs(e.x-sx) <= touchEchoRadius && math.Abs(e.y-sy) <= touchEchoRadius {
			match = true
		}
	}
	t.ended = live
	return match
}
