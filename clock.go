package cabinet

import "time"

// clock abstracts the monotonic time source used for the two deadline
// windows (ui-mode lockout, touch-echo suppression) so tests can advance
// time deterministically.
type clock interface {
	now() time.Time
}

type realClock struct{}

func (realClock) now() time.Time {
	return time.Now()
}
