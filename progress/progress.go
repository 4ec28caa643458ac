// Package progress tracks a running multi-step workflow and bridges it onto
// the stepline indicator. A Tracker holds an ordered, flat list of steps;
// every transition emits a Snapshot, and a Snapshot converts to a
// stepline.Sequence by locating the first step that has not finished.
package progress

import (
	"strings"
	"sync"

	"stepline"
)

// Status is the lifecycle state of a tracked step.
type Status string

const (
	Pending Status = "pending"
	Running Status = "running"
	Done    Status = "done"
	Failed  Status = "failed"
)

// Step is one unit of work in a tracked workflow.
type Step struct {
	ID      string
	Label   string
	Message string // optional detail, set on failure
	Status  Status
}

// StepConfig declares a step up front.
type StepConfig struct {
	ID    string
	Label string
}

// Snapshot is the full step list, emitted on every transition.
type Snapshot struct {
	Steps []Step
}

// CurrentIndex returns the index of the active step: the first step that is
// not Done. When every step is Done it returns len(Steps), which saturates
// the whole indicator to completed.
func (s Snapshot) CurrentIndex() int {
	for i, step := range s.Steps {
		if step.Status != Done {
			return i
		}
	}
	return len(s.Steps)
}

// Labels returns the step labels in display order.
func (s Snapshot) Labels() []string {
	labels := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		labels[i] = step.Label
	}
	return labels
}

// Sequence converts the snapshot into a renderable step sequence.
func (s Snapshot) Sequence() stepline.Sequence {
	return stepline.Sequence{Steps: s.Labels(), Current: s.CurrentIndex()}
}

// Failed reports whether any step has failed.
func (s Snapshot) Failed() bool {
	for _, step := range s.Steps {
		if step.Status == Failed {
			return true
		}
	}
	return false
}

// Reporter receives a snapshot whenever any step transitions.
type Reporter func(Snapshot)

// Tracker manages an ordered step list and emits snapshots on every change.
// It is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	steps    []Step
	index    map[string]int
	reporter Reporter
}

// New creates a tracker from static step configuration and emits the
// initial all-pending snapshot.
func New(reporter Reporter, steps ...StepConfig) *Tracker {
	t := &Tracker{
		steps:    make([]Step, 0, len(steps)),
		index:    make(map[string]int, len(steps)),
		reporter: reporter,
	}

	for _, cfg := range steps {
		t.addLocked(cfg)
	}

	t.emitLocked()
	return t
}

// Start transitions a step to Running and returns an end handle. Call the
// handle with nil on success or with an error to mark the step failed.
func (t *Tracker) Start(id string) func(error) {
	id = normalizeID(id)

	t.mu.Lock()
	idx := t.ensureLocked(id)
	t.steps[idx].Status = Running
	t.steps[idx].Message = ""
	t.emitLocked()
	t.mu.Unlock()

	var once sync.Once
	return func(err error) {
		once.Do(func() {
			t.finish(id, err)
		})
	}
}

// Do is sugar for Start + fn + end(err).
func (t *Tracker) Do(id string, fn func() error) error {
	end := t.Start(id)
	if fn == nil {
		end(nil)
		return nil
	}
	err := fn()
	end(err)
	return err
}

// Snapshot returns a copy of the current step list.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) finish(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.ensureLocked(id)
	if err != nil {
		t.steps[idx].Status = Failed
		t.steps[idx].Message = strings.TrimSpace(err.Error())
		t.emitLocked()
		return
	}
	t.steps[idx].Status = Done
	t.steps[idx].Message = ""
	t.emitLocked()
}

func (t *Tracker) addLocked(cfg StepConfig) {
	id := normalizeID(cfg.ID)
	if _, exists := t.index[id]; exists {
		return
	}

	label := strings.TrimSpace(cfg.Label)
	if label == "" {
		label = id
	}

	t.index[id] = len(t.steps)
	t.steps = append(t.steps, Step{ID: id, Label: label, Status: Pending})
}

func (t *Tracker) ensureLocked(id string) int {
	if idx, ok := t.index[id]; ok {
		return idx
	}
	t.addLocked(StepConfig{ID: id})
	return t.index[id]
}

func (t *Tracker) snapshotLocked() Snapshot {
	steps := make([]Step, len(t.steps))
	copy(steps, t.steps)
	return Snapshot{Steps: steps}
}

func (t *Tracker) emitLocked() {
	if t.reporter == nil {
		return
	}
	t.reporter(t.snapshotLocked())
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "unnamed"
	}
	return id
}
