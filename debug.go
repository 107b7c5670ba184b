package cabinet

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

// warnf prints a warning to stderr. Used for transient failures (store I/O,
// unreadable ledgers) that never halt the scheduler.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[cabinet] warning: "+format+"\n", args...)
}

// logf prints a diagnostic to stderr unconditionally. Halt reports go
// through here so the developer always sees why animation stopped.
func (a *App) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[cabinet] "+format+"\n", args...)
}

// debugf prints only in debug mode.
func (a *App) debugf(format string, args ...any) {
	if !a.debug {
		return
	}
	a.logf(format, args...)
}

// abbreviatedStack returns a short call stack with runtime and toolkit
// dispatch frames filtered out, so halt reports point at the offending
// callback rather than the plumbing around it.
func abbreviatedStack() string {
	lines := strings.Split(string(debug.Stack()), "\n")
	var out []string
	for i := 0; i < len(lines)-1 && len(out) < 12; i++ {
		line := lines[i]
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		if strings.Contains(line, "runtime/") ||
			strings.Contains(line, "phanxgames/cabinet.(*App).invoke") ||
			strings.Contains(line, "phanxgames/cabinet.abbreviatedStack") {
			continue
		}
		out = append(out, strings.TrimSpace(line))
	}
	return strings.Join(out, "\n")
}
