package provisioning

import (
	"errors"
	"time"
)

// Pipeline runs phases in order and stops at the first failure.
type Pipeline struct {
	Phases  []Phase
	Metrics *StepMetrics
}

// NewPipeline creates a pipeline over phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// WithMetrics records step durations into m.
func (p *Pipeline) WithMetrics(m *StepMetrics) *Pipeline {
	p.Metrics = m
	return p
}

// Run executes the phases sequentially. Any failure is returned as a
// *StepError; resources created by earlier phases stay in ctx.State.
// Cancellation is checked before each phase.
func (p *Pipeline) Run(ctx *Context) error {
	start := time.Now()
	total := len(p.Phases)
	ctx.Observer.Printf("Starting provisioning run %s with %d steps...", ctx.State.RunID, total)

	for i, phase := range p.Phases {
		name := phase.Name()
		if err := ctx.Err(); err != nil {
			LogStepFailed(ctx.Observer, name, err)
			return Fail(name, "", "", err)
		}

		ctx.Observer.Progress(name, i+1, total)
		LogStepStart(ctx.Observer, name)

		phaseStart := time.Now()
		err := phase.Provision(ctx)
		p.Metrics.observe(name, err, time.Since(phaseStart))
		if err != nil {
			err = Fail(name, "", "", err)
			var se *StepError
			if errors.As(err, &se) && se.Kind != "" {
				LogResourceFailed(ctx.Observer, se.Step, string(se.Kind), se.Resource, se.Err)
			}
			LogStepFailed(ctx.Observer, name, err)
			return err
		}

		LogStepComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// RunPhases executes all provisioning phases sequentially.
func RunPhases(ctx *Context, phases []Phase) error {
	return NewPipeline(phases...).Run(ctx)
}
