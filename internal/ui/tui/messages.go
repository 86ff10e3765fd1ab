// Package tui provides a Bubble Tea terminal UI that follows a provisioning
// run step by step.
package tui

import "github.com/imamik/stacktopo/internal/provisioning"

// StepMsg reports that a step started, finished or failed.
type StepMsg struct {
	Step string
	Done bool
	Err  error
}

// ResourceMsg reports one resource event inside a step.
type ResourceMsg struct {
	Step   string
	Kind   string
	Name   string
	ID     string
	Action string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries the error that ended the run.
type ErrMsg struct{ Err error }

// DoneMsg signals that the run finished successfully.
type DoneMsg struct {
	State *provisioning.State
}
