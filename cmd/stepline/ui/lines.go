package ui

import (
	"fmt"
	"io"
	"sync"

	"stepline/progress"
)

// LineReporter prints one line per step transition for non-interactive
// terminals. Pending steps stay silent; repeated snapshots with no change
// print nothing.
type LineReporter struct {
	mu       sync.Mutex
	w        io.Writer
	status   map[string]progress.Status
	messages map[string]string
}

// NewLineReporter writes transition lines to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{
		w:        w,
		status:   make(map[string]progress.Status),
		messages: make(map[string]string),
	}
}

// OnSnapshot satisfies progress.Reporter.
func (l *LineReporter) OnSnapshot(snap progress.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, step := range snap.Steps {
		if step.Status == progress.Pending {
			continue
		}

		prev, seen := l.status[step.ID]
		if seen && prev == step.Status && l.messages[step.ID] == step.Message {
			continue
		}

		l.status[step.ID] = step.Status
		l.messages[step.ID] = step.Message
		fmt.Fprintln(l.w, formatStepLine(step))
	}
}

func formatStepLine(step progress.Step) string {
	prefix := "[..]"
	switch step.Status {
	case progress.Running:
		prefix = "[->]"
	case progress.Done:
		prefix = "[ok]"
	case progress.Failed:
		prefix = "[x]"
	}

	label := step.Label
	if label == "" {
		label = step.ID
	}
	if step.Message != "" {
		return fmt.Sprintf("  %s %s (%s)", prefix, label, step.Message)
	}
	return fmt.Sprintf("  %s %s", prefix, label)
}
