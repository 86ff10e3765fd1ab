package provisioning

import (
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf logs a free-form progress line.
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a step
	Progress(step string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Step      string            // Step name (e.g., "networks", "router")
	Message   string            // Human-readable message
	Resource  string            // Resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventStepStarted indicates a provisioning step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a provisioning step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a provisioning step failed.
	EventStepFailed EventType = "step.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a same-named resource was reused.
	EventResourceExists EventType = "resource.exists"
	// EventResourceAttached indicates a resource was attached to another.
	EventResourceAttached EventType = "resource.attached"
	// EventResourceFailed indicates a control-plane call for a resource failed.
	EventResourceFailed EventType = "resource.failed"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"

	// EventProgress indicates progress across the run.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Step != "" {
		kv = append(kv, "step", event.Step)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	fields := o.merged(event.Fields)
	for _, k := range sortedKeys(fields) {
		kv = append(kv, k, fields[k])
	}

	if event.Type == EventStepFailed || event.Type == EventResourceFailed {
		o.log.Error(nil, event.Message, kv...)
		return
	}
	o.log.Info(event.Message, kv...)
}

// Progress implements Observer.
func (o *LogObserver) Progress(step string, current, total int) {
	o.log.V(1).Info("progress", "step", step, "current", current, "total", total)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{
		log:           o.log,
		contextFields: o.merged(fields),
	}
}

// merged returns the context fields overlaid with fields.
func (o *LogObserver) merged(fields map[string]string) map[string]string {
	out := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(out, o.contextFields)
	maps.Copy(out, fields)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: "starting",
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Step:    step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, step, kind, name string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Step:     step,
		Resource: name,
		Message:  fmt.Sprintf("creating %s", kind),
		Fields:   map[string]string{"kind": kind},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, step, kind, name, id string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Step:     step,
		Resource: name,
		Message:  fmt.Sprintf("%s created", kind),
		Fields:   map[string]string{"kind": kind, "id": id},
	})
}

// LogResourceExists logs when a same-named resource is reused.
func LogResourceExists(observer Observer, step, kind, name, id string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Step:     step,
		Resource: name,
		Message:  fmt.Sprintf("%s already exists", kind),
		Fields:   map[string]string{"kind": kind, "id": id},
	})
}

// LogResourceAttached logs an attachment of name to target.
func LogResourceAttached(observer Observer, step, kind, name, target string) {
	observer.Event(Event{
		Type:     EventResourceAttached,
		Step:     step,
		Resource: name,
		Message:  fmt.Sprintf("%s attached to %s", kind, target),
		Fields:   map[string]string{"kind": kind, "target": target},
	})
}

// LogResourceFailed logs a failed control-plane call for name.
func LogResourceFailed(observer Observer, step, kind, name string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Step:     step,
		Resource: name,
		Message:  fmt.Sprintf("%s failed: %v", kind, err),
		Fields:   map[string]string{"kind": kind},
	})
}
