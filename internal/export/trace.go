package export

import (
	"github.com/imamik/stacktopo/internal/provisioning"
)

// Run outcomes recorded in a Trace.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Trace is the ledger of one run. Resources listed as created are left in
// place when the run fails.
type Trace struct {
	RunID      string                `json:"run_id"`
	Status     string                `json:"status"`
	FailedStep string                `json:"failed_step,omitempty"`
	Error      string                `json:"error,omitempty"`
	Records    []provisioning.Record `json:"records"`
}

// NewTrace builds the trace of a run that ended with runErr.
func NewTrace(state *provisioning.State, runErr error) *Trace {
	t := &Trace{
		RunID:   state.RunID,
		Status:  StatusSucceeded,
		Records: state.Records(),
	}
	if t.Records == nil {
		t.Records = []provisioning.Record{}
	}
	if runErr != nil {
		t.Status = StatusFailed
		t.FailedStep = provisioning.FailedStep(runErr)
		t.Error = runErr.Error()
	}
	return t
}
