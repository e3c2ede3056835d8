// Package confirm implements the staged dialog shown before irreversible
// actions. The flow always walks the same three steps: a generic warning,
// a stronger warning naming the cascading effects, and a final choice
// between the hard delete and the soft deactivate alternative. No step can
// be skipped, and a finished flow is dead; callers construct a fresh one per
// invocation.
package confirm

import "fmt"

// Step identifies a state of the flow.
type Step string

const (
	// StepWarning is the initial generic warning.
	StepWarning Step = "warning"
	// StepCascade names what the delete would cascade into.
	StepCascade Step = "cascade"
	// StepChoice offers the destructive action or the soft alternative.
	StepChoice Step = "choice"

	// Cancelled is terminal: the user backed out, nothing happens.
	Cancelled Step = "cancelled"
	// Confirmed is terminal: the caller proceeds with the hard delete.
	Confirmed Step = "confirmed"
	// Deactivated is terminal: the caller flips the status attribute
	// instead of deleting.
	Deactivated Step = "deactivated"
)

// Terminal reports whether the step ends the flow.
func (s Step) Terminal() bool {
	switch s {
	case Cancelled, Confirmed, Deactivated:
		return true
	}
	return false
}

// Copy carries the per-entity dialog text for the three interactive steps.
type Copy struct {
	Warning string
	Cascade string
	Choice  string
}

// Flow is one run of the dialog. It is not safe for concurrent use; a flow
// belongs to the single interaction that opened it.
type Flow struct {
	step Step
	copy Copy
}

// NewFlow starts a flow at the warning step.
func NewFlow(c Copy) *Flow {
	return &Flow{step: StepWarning, copy: c}
}

// Step returns the current state.
func (f *Flow) Step() Step { return f.step }

// Message returns the dialog text for the current step, "" once terminal.
func (f *Flow) Message() string {
	switch f.step {
	case StepWarning:
		return f.copy.Warning
	case StepCascade:
		return f.copy.Cascade
	case StepChoice:
		return f.copy.Choice
	}
	return ""
}

// Continue advances warning→cascade→choice. It is invalid at the choice
// step, where the user must pick one of the two outcomes.
func (f *Flow) Continue() error {
	switch f.step {
	case StepWarning:
		f.step = StepCascade
	case StepCascade:
		f.step = StepChoice
	default:
		return fmt.Errorf("cannot continue from %q", f.step)
	}
	return nil
}

// Cancel ends the flow with no action. Valid at any interactive step.
func (f *Flow) Cancel() error {
	if f.step.Terminal() {
		return fmt.Errorf("flow already finished in %q", f.step)
	}
	f.step = Cancelled
	return nil
}

// ConfirmDelete ends the flow requesting the hard delete. Only valid at the
// choice step; the earlier steps exist precisely so this cannot be reached
// in one click.
func (f *Flow) ConfirmDelete() error {
	if f.step != StepChoice {
		return fmt.Errorf("cannot confirm delete from %q", f.step)
	}
	f.step = Confirmed
	return nil
}

// Deactivate ends the flow requesting the soft alternative. Only valid at
// the choice step.
func (f *Flow) Deactivate() error {
	if f.step != StepChoice {
		return fmt.Errorf("cannot deactivate from %q", f.step)
	}
	f.step = Deactivated
	return nil
}

// Outcome returns the terminal step once reached.
func (f *Flow) Outcome() (Step, bool) {
	if f.step.Terminal() {
		return f.step, true
	}
	return "", false
}
