package cabinet

import (
	"reflect"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// eventLog collects raw-callback invocations for the dispatch tests.
type eventLog struct {
	events []string
}

func (l *eventLog) add(s string) { l.events = append(l.events, s) }

func (l *eventLog) handlers() Handlers {
	return Handlers{
		OnTouchStart: func(x, y float64, id PointerID) { l.add("touchstart") },
		OnTouchMove:  func(x, y float64, id PointerID) { l.add("touchmove") },
		OnTouchEnd:   func(x, y float64, id PointerID) { l.add("touchend") },
		OnClick:      func(x, y float64) { l.add("click") },
		OnMouseMove:  func(x, y float64) { l.add("mousemove") },
		OnKeyStart:   func(key ebiten.Key) { l.add("keystart:" + key.String()) },
		OnKeyEnd:     func(key ebiten.Key) { l.add("keyend:" + key.String()) },
	}
}

// End-to-end double-delivery suppression: a touch tap followed by its
// synthetic mouse echo produces exactly one start/end pair and no click.
func TestDispatchSuppressesSyntheticMouse(t *testing.T) {
	log := &eventLog{}
	a, clk := newTestApp(t, log.handlers())

	a.pointerBegan(7, 100, 100)
	a.pointerEnded(7, 100, 100)
	clk.advance(300 * time.Millisecond)
	a.pointerBegan(PointerMouseLeft, 100, 100)
	a.pointerEnded(PointerMouseLeft, 100, 100)

	want := []string{"touchstart", "touchend"}
	if !reflect.DeepEqual(log.events, want) {
		t.Errorf("events = %v, want %v", log.events, want)
	}
}

func TestDispatchClickSource(t *testing.T) {
	tests := []struct {
		name string
		id   PointerID
		want []string
	}{
		{"left mouse", PointerMouseLeft, []string{"touchstart", "touchend", "click"}},
		{"right mouse", PointerMouseRight, []string{"touchstart", "touchend"}},
		{"touch", 3, []string{"touchstart", "touchend"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &eventLog{}
			a, _ := newTestApp(t, log.handlers())
			a.pointerBegan(tt.id, 10, 10)
			a.pointerEnded(tt.id, 10, 10)
			if !reflect.DeepEqual(log.events, tt.want) {
				t.Errorf("events = %v, want %v", log.events, tt.want)
			}
		})
	}

	t.Run("held button is not yet a click", func(t *testing.T) {
		log := &eventLog{}
		a, _ := newTestApp(t, log.handlers())
		a.pointerBegan(PointerMouseLeft, 10, 10)
		if want := []string{"touchstart"}; !reflect.DeepEqual(log.events, want) {
			t.Errorf("events = %v, want %v", log.events, want)
		}
	})
}

// Raw callbacks are delivered only in the play phase, never before the
// bootstrap or during the splash.
func TestDispatchPhaseGate(t *testing.T) {
	log := &eventLog{}
	a := NewApp("testgame", log.handlers())
	clk := &manualClock{t: time.Unix(1_000_000, 0)}
	a.clock = clk
	a.tracker.clock = clk

	a.pointerBegan(1, 10, 10)
	a.pointerEnded(1, 10, 10)
	a.keyDown(ebiten.KeyZ)
	a.keyUp(ebiten.KeyZ)
	if len(log.events) != 0 {
		t.Fatalf("events before the play phase: %v", log.events)
	}

	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	a.keyDown(ebiten.KeyZ)
	if want := []string{"keystart:Z"}; !reflect.DeepEqual(log.events, want) {
		t.Errorf("events = %v, want %v", log.events, want)
	}
}

func TestDispatchMouseHover(t *testing.T) {
	log := &eventLog{}
	a, _ := newTestApp(t, log.handlers())

	// Hover: no button held, still reported as mouse motion, never touch.
	a.pointerMoved(PointerMouseLeft, 10, 20)
	want := []string{"mousemove"}
	if !reflect.DeepEqual(log.events, want) {
		t.Errorf("events = %v, want %v", log.events, want)
	}

	// A held button reports both motion and the touch-move path.
	a.pointerBegan(PointerMouseLeft, 10, 20)
	a.pointerMoved(PointerMouseLeft, 15, 25)
	want = append(want, "touchstart", "mousemove", "touchmove")
	if !reflect.DeepEqual(log.events, want) {
		t.Errorf("events = %v, want %v", log.events, want)
	}
}

// A touch landing on a touch key becomes a synthesized key event; the game
// sees the key, not the touch.
func TestDispatchTouchKeyCapture(t *testing.T) {
	log := &eventLog{}
	a, _ := newTestApp(t, log.handlers())
	a.SetTouchKeyRectangle(ebiten.KeyZ, 0, 0, 50, 50, "FIRE")

	a.pointerBegan(1, 25, 25)
	want := []string{"keystart:Z"}
	if !reflect.DeepEqual(log.events, want) {
		t.Fatalf("events = %v, want %v", log.events, want)
	}

	// Dragging off the key releases it and hands the game a fresh touch.
	a.pointerMoved(1, 100, 100)
	want = append(want, "keyend:Z", "touchstart")
	if !reflect.DeepEqual(log.events, want) {
		t.Fatalf("events = %v, want %v", log.events, want)
	}

	a.pointerEnded(1, 100, 100)
	want = append(want, "touchend")
	if !reflect.DeepEqual(log.events, want) {
		t.Errorf("events = %v, want %v", log.events, want)
	}
}

// Touch keys drive the control layer like physical keys do.
func TestDispatchTouchKeyControls(t *testing.T) {
	var started []ControlID
	a, clk := newTestApp(t, Handlers{
		OnGameStart:    func() {},
		OnControlStart: func(c *Control) { started = append(started, c.ID) },
	})
	a.SetUIMode(UIModePlaying)
	pastLockout(clk)
	a.SetTouchKeyRectangle(ebiten.KeyZ, 0, 0, 50, 50, "A")

	a.pointerBegan(1, 25, 25)
	if want := []ControlID{ControlA}; !reflect.DeepEqual(started, want) {
		t.Errorf("started = %v, want %v", started, want)
	}
	a.pointerEnded(1, 25, 25)
	if a.Controls(0).A().IsActive() {
		t.Error("control A still active after the touch ended")
	}
}

func TestDispatchForceEndPointers(t *testing.T) {
	log := &eventLog{}
	a, _ := newTestApp(t, log.handlers())

	a.pointerBegan(1, 10, 10)
	a.pointerBegan(2, 20, 20)
	log.events = nil

	a.forceEndPointers()
	if len(log.events) != 2 {
		t.Fatalf("events = %v, want two touch ends", log.events)
	}
	for _, e := range log.events {
		if e != "touchend" {
			t.Errorf("unexpected event %q", e)
		}
	}
	a.forceEndPointers()
	if len(log.events) != 2 {
		t.Error("second forceEndPointers should be a no-op")
	}
}

// Events forwarded to the ECS sink mirror the dispatched callbacks.
func TestDispatchEventSink(t *testing.T) {
	var got []InputEvent
	a, _ := newTestApp(t, Handlers{})
	a.SetEventSink(sinkFunc(func(e InputEvent) { got = append(got, e) }))

	a.pointerBegan(1, 10, 20)
	a.pointerEnded(1, 10, 20)

	if len(got) != 2 {
		t.Fatalf("sink got %d events, want 2", len(got))
	}
	if got[0].Kind != EventTouchStart || got[0].X != 10 || got[0].Y != 20 || got[0].Pointer != 1 {
		t.Errorf("first event = %+v, want a touch start at (10, 20)", got[0])
	}
	if got[1].Kind != EventTouchEnd {
		t.Errorf("second event kind = %v, want touch end", got[1].Kind)
	}
}

type sinkFunc func(InputEvent)

func (f sinkFunc) EmitInputEvent(e InputEvent) { f(e) }
