package cabinet

import "github.com/hajimehoshi/ebiten/v2"

// syntheticEvent is a single queued injected input event. Coordinates are
// physical (window) pixels and pass through the same view transform and
// tracker path as real input.
type syntheticEvent struct {
	kind synthKind
	x, y float64
	id   PointerID
	key  ebiten.Key
}

type synthKind uint8

const (
	synthPress synthKind = iota
	synthMove
	synthRelease
	synthKeyDown
	synthKeyUp
)

// InjectTouchPress queues a pointer-down for id at the given window
// coordinates. One queued event is consumed per tick.
func (a *App) InjectTouchPress(x, y float64, id PointerID) {
	a.inject = append(a.inject, syntheticEvent{kind: synthPress, x: x, y: y, id: id})
}

// InjectTouchMove queues a pointer-move for id.
func (a *App) InjectTouchMove(x, y float64, id PointerID) {
	a.inject = append(a.inject, syntheticEvent{kind: synthMove, x: x, y: y, id: id})
}

// InjectTouchRelease queues a pointer-up for id.
func (a *App) InjectTouchRelease(x, y float64, id PointerID) {
	a.inject = append(a.inject, syntheticEvent{kind: synthRelease, x: x, y: y, id: id})
}

// InjectClick queues a left-mouse press followed by a release at the same
// position. Consumes two ticks.
func (a *App) InjectClick(x, y float64) {
	a.inject = append(a.inject, syntheticEvent{kind: synthPress, x: x, y: y, id: PointerMouseLeft})
	a.inject = append(a.inject, syntheticEvent{kind: synthRelease, x: x, y: y, id: PointerMouseLeft})
}

// InjectDrag queues a full touch drag: press at (fromX, fromY), linearly
// interpolated moves, and release at (toX, toY), spanning `frames` ticks
// (minimum 2).
func (a *App) InjectDrag(fromX, fromY, toX, toY float64, frames int, id PointerID) {
	if frames < 2 {
		frames = 2
	}
	a.InjectTouchPress(fromX, fromY, id)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		a.InjectTouchMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, id)
	}
	a.InjectTouchRelease(toX, toY, id)
}

// InjectKeyTap queues a key press followed by a release. Consumes two
// ticks.
func (a *App) InjectKeyTap(key ebiten.Key) {
	a.inject = append(a.inject, syntheticEvent{kind: synthKeyDown, key: key})
	a.inject = append(a.inject, syntheticEvent{kind: synthKeyUp, key: key})
}

// pumpInjected consumes one queued event per tick, feeding it through the
// same entry points as real platform input.
func (a *App) pumpInjected() {
	if len(a.inject) == 0 {
		return
	}
	evt := a.inject[0]
	copy(a.inject, a.inject[1:])
	a.inject = a.inject[:len(a.inject)-1]

	switch evt.kind {
	case synthPress:
		a.pointerBegan(evt.id, evt.x, evt.y)
	case synthMove:
		a.pointerMoved(evt.id, evt.x, evt.y)
	case synthRelease:
		a.pointerEnded(evt.id, evt.x, evt.y)
	case synthKeyDown:
		a.keyDown(evt.key)
	case synthKeyUp:
		a.keyUp(evt.key)
	}
}
