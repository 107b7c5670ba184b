package cabinet

import "github.com/hajimehoshi/ebiten/v2"

// Vec2 is a 2D vector used for positions, offsets, and sizes throughout
// the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Circle is a circular hit area.
type Circle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Shape is the hit-test interface shared by Rect and Circle. Touch keys
// accept any Shape.
type Shape interface {
	Contains(x, y float64) bool
}

// KeyCode identifies a logical key. Touch keys synthesize these, and
// Controls bind them; Ebitengine's key constants are used directly.
type KeyCode = ebiten.Key

// KeyNone marks an unbound key slot on a Control. The zero ebiten.Key is a
// real key (KeyA), so unbound slots need an out-of-range sentinel.
const KeyNone ebiten.Key = -1

// PointerID identifies one logical touch or mouse contact. Real platform
// touches use their non-negative platform identifiers; mouse buttons map to
// the reserved negative constants below so the two namespaces never collide.
type PointerID int64

const (
	// PointerMouseLeft and PointerMouseRight are the reserved identifiers
	// for mouse-derived pointer events.
	PointerMouseLeft  PointerID = -1
	PointerMouseRight PointerID = -2
)

// IsMouse reports whether the identifier belongs to the reserved
// mouse-derived namespace.
func (id PointerID) IsMouse() bool {
	return id < 0
}

// UIMode is the current phase of the arcade game-flow state machine.
// Exactly one mode is current at a time.
type UIMode uint8

const (
	UIModeTitle        UIMode = iota // title screen, waiting for any control
	UIModeInstructions               // how-to-play screen
	UIModePlaying                    // simulation running
	UIModePaused                     // pause menu over the frozen game
	UIModeGameOver                   // game-over overlay, score recorded

	uiModeCount
)

// String returns the mode name for diagnostics.
func (m UIMode) String() string {
	switch m {
	case UIModeTitle:
		return "TITLE"
	case UIModeInstructions:
		return "INSTRUCTIONS"
	case UIModePlaying:
		return "PLAYING"
	case UIModePaused:
		return "PAUSED"
	case UIModeGameOver:
		return "GAME_OVER"
	default:
		return "INVALID"
	}
}

func (m UIMode) valid() bool {
	return m < uiModeCount
}

// ControlID identifies one logical control within a player's ControlSet.
type ControlID uint8

const (
	ControlUp ControlID = iota
	ControlDown
	ControlLeft
	ControlRight
	ControlA
	ControlB
	ControlX
	ControlY
	ControlStart
	ControlSelect

	controlCount
)

// String returns the control name for diagnostics.
func (c ControlID) String() string {
	switch c {
	case ControlUp:
		return "up"
	case ControlDown:
		return "down"
	case ControlLeft:
		return "left"
	case ControlRight:
		return "right"
	case ControlA:
		return "a"
	case ControlB:
		return "b"
	case ControlX:
		return "x"
	case ControlY:
		return "y"
	case ControlStart:
		return "start"
	case ControlSelect:
		return "select"
	default:
		return "invalid"
	}
}

// IsDirection reports whether the control is one of the four directions.
func (c ControlID) IsDirection() bool {
	return c <= ControlRight
}

// DragPolicy selects how touches that drag across touch-key regions interact
// with them.
type DragPolicy uint8

const (
	// DragEndsOnTouchKeys (the default): a drag entering a key is captured
	// by it (the game's touch is truncated), and a drag leaving a key is
	// handed to the game as a fresh touch.
	DragEndsOnTouchKeys DragPolicy = iota
	// DragIgnoresTouchKeys: a drag that started on open space passes over
	// keys without activating them; a drag that started on a key can slide
	// between keys but never reaches the game.
	DragIgnoresTouchKeys
)

// EventKind identifies the kind of an InputEvent forwarded to an EventSink.
type EventKind uint8

const (
	EventControlStart  EventKind = iota // a Control transitioned inactive -> active
	EventControlRepeat                  // a held Control fired its auto-repeat
	EventControlEnd                     // a Control transitioned active -> inactive
	EventModeChange                     // the UI mode changed
	EventTouchStart                     // a game-surface touch began
	EventTouchEnd                       // a game-surface touch ended
)

// InputEvent carries input data for the optional ECS bridge. Fields are
// valid per Kind: Control/Player for the control kinds, OldMode/NewMode for
// EventModeChange, X/Y/Pointer for the touch kinds.
type InputEvent struct {
	Kind    EventKind
	Player  int
	Control ControlID
	OldMode UIMode
	NewMode UIMode
	X       float64
	Y       float64
	Pointer PointerID
}

// EventSink is the interface for optional ECS integration. When set on an
// App, control and mode events are forwarded to it.
type EventSink interface {
	EmitInputEvent(event InputEvent)
}

// ViewTransform converts physical (window) coordinates into the game's
// virtual coordinate space. The resolution/letterbox layer supplies this;
// the identity transform is used when none is set.
type ViewTransform interface {
	ToVirtual(sx, sy float64) (x, y float64)
}

type identityView struct{}

func (identityView) ToVirtual(sx, sy float64) (float64, float64) {
	return sx, sy
}

// LetterboxView is a ViewTransform for the common scale-and-center layout:
// virtual = (physical - offset) / scale.
type LetterboxView struct {
	OffsetX, OffsetY float64
	Scale            float64
}

// ToVirtual converts window coordinates to virtual coordinates.
func (v LetterboxView) ToVirtual(sx, sy float64) (float64, float64) {
	scale := v.Scale
	if scale == 0 {
		scale = 1
	}
	return (sx - v.OffsetX) / scale, (sy - v.OffsetY) / scale
}
