package cabinet

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Key    string  `json:"key,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	ID     int64   `json:"id,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input events across ticks for automated
// testing of a game's arcade flow. Attach to an App via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script. Supported actions: "tap"
// (x, y, id), "click" (x, y), "drag" (fromX/fromY/toX/toY, frames, id),
// "key" (key name, e.g. "Enter"), and "wait" (frames).
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for _, st := range script.Steps {
		if st.Action == "key" {
			if _, ok := keyByName(st.Key); !ok {
				return nil, fmt.Errorf("parse test script: unknown key %q", st.Key)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick. Called from App.Update while the
// runtime is in its play phase.
func (r *TestRunner) step(a *App) {
	if r.done {
		return
	}
	// Let pending injections drain before advancing.
	if len(a.inject) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "tap":
		id := PointerID(st.ID)
		a.InjectTouchPress(st.X, st.Y, id)
		a.InjectTouchRelease(st.X, st.Y, id)
	case "click":
		a.InjectClick(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		a.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames, PointerID(st.ID))
	case "key":
		if key, ok := keyByName(st.Key); ok {
			a.InjectKeyTap(key)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(a.inject) == 0 {
		r.done = true
	}
}

// keyByName resolves an Ebitengine key name ("Enter", "Z", "ArrowUp").
func keyByName(name string) (ebiten.Key, bool) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return k, true
}
