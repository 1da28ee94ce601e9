// Package audit records every automation invocation as a JSON-lines event.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes playbook runs from single-module runs.
type Kind string

const (
	KindPlaybook Kind = "playbook"
	KindModule   Kind = "module"
)

// Event represents one audited automation invocation
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	User      string        `json:"user"`
	Device    string        `json:"device"`
	Kind      Kind          `json:"kind"`
	Operation string        `json:"operation"`
	Runner    string        `json:"runner"`
	Success   bool          `json:"success"`
	Changed   bool          `json:"changed"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Device      string
	User        string
	Operation   string
	Runner      string
	Kind        Kind
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, device string, kind Kind, operation string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		User:      user,
		Device:    device,
		Kind:      kind,
		Operation: operation,
	}
}

// WithRunner sets the runner name
func (e *Event) WithRunner(runner string) *Event {
	e.Runner = runner
	return e
}

// WithOutcome copies the success, changed and error fields of a result
func (e *Event) WithOutcome(success, changed bool, errMsg string) *Event {
	e.Success = success
	e.Changed = changed
	e.Error = errMsg
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}
