package cabinet

import (
	"testing"
	"time"
)

func newTestTracker() (*pointerTracker, *manualClock) {
	clk := &manualClock{t: time.Unix(1_000_000, 0)}
	return newPointerTracker(identityView{}, clk), clk
}

func TestPointerLifecycle(t *testing.T) {
	tr, _ := newTestTracker()

	x, y, ok := tr.begin(7, 10, 20)
	if !ok || x != 10 || y != 20 {
		t.Fatalf("begin = (%v, %v, %v), want (10, 20, true)", x, y, ok)
	}
	if !tr.isActive(7) {
		t.Fatal("pointer 7 should be active after begin")
	}

	x, y, active := tr.move(7, 30, 40)
	if !active || x != 30 || y != 40 {
		t.Fatalf("move = (%v, %v, %v), want (30, 40, true)", x, y, active)
	}
	if p, _ := tr.position(7); p != (Vec2{30, 40}) {
		t.Errorf("position = %v, want {30 40}", p)
	}

	if _, _, ok := tr.end(7, 30, 40); !ok {
		t.Fatal("end of an active pointer should report ok")
	}
	if tr.isActive(7) {
		t.Error("pointer 7 should be inactive after end")
	}
}

func TestPointerDuplicateBegin(t *testing.T) {
	tr, _ := newTestTracker()

	tr.begin(3, 5, 5)
	if _, _, ok := tr.begin(3, 8, 8); ok {
		t.Error("second begin for an active id should not report ok")
	}
	// The duplicate still refreshes the tracked position.
	if p, _ := tr.position(3); p != (Vec2{8, 8}) {
		t.Errorf("position = %v, want {8 8}", p)
	}
}

func TestPointerMoveWithoutBegin(t *testing.T) {
	tr, _ := newTestTracker()
	x, y, active := tr.move(PointerMouseLeft, 12, 34)
	if active {
		t.Error("hover move should report active = false")
	}
	if x != 12 || y != 34 {
		t.Errorf("hover move coordinates = (%v, %v), want (12, 34)", x, y)
	}
}

func TestPointerEndWithoutBegin(t *testing.T) {
	tr, _ := newTestTracker()
	if _, _, ok := tr.end(5, 0, 0); ok {
		t.Error("end without begin should not report ok")
	}
}

// A mouse down arriving shortly after a touch release at the same spot is
// the platform's synthetic echo and must be dropped.
func TestPointerSyntheticMouseEcho(t *testing.T) {
	tests := []struct {
		name     string
		delay    time.Duration
		dx, dy   float64
		suppress bool
	}{
		{"immediate same spot", 0, 0, 0, true},
		{"typical 300ms echo", 300 * time.Millisecond, 0, 0, true},
		{"at window edge", touchEchoWindow, 0, 0, true},
		{"within pixel tolerance", 100 * time.Millisecond, 2, -2, true},
		{"past window", touchEchoWindow + time.Millisecond, 0, 0, false},
		{"too far away", 100 * time.Millisecond, 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, clk := newTestTracker()
			tr.begin(9, 100, 100)
			tr.end(9, 100, 100)

			clk.advance(tt.delay)
			_, _, ok := tr.begin(PointerMouseLeft, 100+tt.dx, 100+tt.dy)
			if ok == tt.suppress {
				t.Errorf("mouse begin ok = %v, want %v", ok, !tt.suppress)
			}
			if tt.suppress && tr.isActive(PointerMouseLeft) {
				t.Error("suppressed mouse down must not become an active pointer")
			}
		})
	}
}

// Only real touches arm the suppression window; a mouse click does not
// suppress a following mouse click.
func TestPointerMouseDoesNotArmEcho(t *testing.T) {
	tr, _ := newTestTracker()
	tr.begin(PointerMouseLeft, 50, 50)
	tr.end(PointerMouseLeft, 50, 50)

	if _, _, ok := tr.begin(PointerMouseLeft, 50, 50); !ok {
		t.Error("a second mouse click at the same spot should not be suppressed")
	}
}

// The echo window matches against the touch's release position, not where
// it started.
func TestPointerEchoMatchesReleasePosition(t *testing.T) {
	tr, _ := newTestTracker()
	tr.begin(4, 10, 10)
	tr.move(4, 200, 200)
	tr.end(4, 200, 200)

	if _, _, ok := tr.begin(PointerMouseLeft, 10, 10); !ok {
		t.Error("mouse down at the touch start position should pass")
	}
	tr.end(PointerMouseLeft, 10, 10)
	if _, _, ok := tr.begin(PointerMouseRight, 200, 200); ok {
		t.Error("mouse down at the touch release position should be suppressed")
	}
}

func TestPointerForceEndAll(t *testing.T) {
	tr, _ := newTestTracker()
	tr.begin(1, 10, 10)
	tr.begin(2, 20, 20)
	tr.begin(PointerMouseLeft, 30, 30)

	drained := tr.forceEndAll()
	if len(drained) != 3 {
		t.Fatalf("drained %d pointers, want 3", len(drained))
	}
	if drained[2] != (Vec2{20, 20}) {
		t.Errorf("pointer 2 drained at %v, want {20 20}", drained[2])
	}
	for id := range drained {
		if tr.isActive(id) {
			t.Errorf("pointer %d still active after forceEndAll", id)
		}
	}
	if tr.forceEndAll() != nil {
		t.Error("second forceEndAll should return nil")
	}
}

func TestPointerViewTransform(t *testing.T) {
	clk := &manualClock{t: time.Unix(1_000_000, 0)}
	tr := newPointerTracker(LetterboxView{OffsetX: 100, OffsetY: 0, Scale: 2}, clk)

	x, y, ok := tr.begin(1, 300, 100)
	if !ok || x != 100 || y != 50 {
		t.Fatalf("begin = (%v, %v, %v), want (100, 50, true)", x, y, ok)
	}

	// Echo suppression compares physical coordinates, so a mouse echo at the
	// same physical spot is caught even under a transform.
	tr.end(1, 300, 100)
	if _, _, ok := tr.begin(PointerMouseLeft, 300, 100); ok {
		t.Error("echo at the same physical position should be suppressed")
	}
}
