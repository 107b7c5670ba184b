package cabinet

import (
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", `{"steps":[{"action":"click","x":10,"y":10}]}`, false},
		{"valid key", `{"steps":[{"action":"key","key":"Enter"}]}`, false},
		{"unknown key", `{"steps":[{"action":"key","key":"Banana"}]}`, true},
		{"empty steps", `{"steps":[]}`, true},
		{"malformed", `{steps`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadTestScript error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunnerDrivesInput(t *testing.T) {
	script := `{"steps":[
		{"action":"tap","x":30,"y":40,"id":1},
		{"action":"wait","frames":3},
		{"action":"key","key":"Z"},
		{"action":"click","x":5,"y":5}
	]}`
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}

	var events []string
	a, _ := newTestApp(t, Handlers{
		OnTouchStart: func(x, y float64, id PointerID) { events = append(events, "touchstart") },
		OnTouchEnd:   func(x, y float64, id PointerID) { events = append(events, "touchend") },
		OnKeyStart:   func(key KeyCode) { events = append(events, "key:"+key.String()) },
		OnClick:      func(x, y float64) { events = append(events, "click") },
	})
	a.SetTestRunner(r)

	for i := 0; i < 30 && !r.Done(); i++ {
		if err := a.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if !r.Done() {
		t.Fatal("runner did not finish within 30 ticks")
	}

	want := []string{"touchstart", "touchend", "key:Z", "touchstart", "click", "touchend"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestRunnerWait(t *testing.T) {
	script := `{"steps":[
		{"action":"wait","frames":5},
		{"action":"key","key":"Space"}
	]}`
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}

	pressed := -1
	tick := 0
	a, _ := newTestApp(t, Handlers{
		OnKeyStart: func(key KeyCode) { pressed = tick },
	})
	a.SetTestRunner(r)

	for tick = 1; tick <= 10; tick++ {
		a.Update()
	}
	// Tick 1 starts the wait, ticks 2-5 burn it, tick 6 queues the tap, and
	// tick 7 delivers the press.
	if pressed != 7 {
		t.Errorf("key pressed on tick %d, want 7", pressed)
	}
}
