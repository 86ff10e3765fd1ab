package tui

import (
	"errors"
	"maps"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/stacktopo/internal/provisioning"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Observer turns provisioning events into TUI messages. Events are also
// forwarded to Next when set, so the structured log keeps the full record.
type Observer struct {
	Sender Sender
	Next   provisioning.Observer
	fields map[string]string
}

// NewObserver returns an Observer sending to s.
func NewObserver(s Sender, next provisioning.Observer) *Observer {
	return &Observer{Sender: s, Next: next}
}

// Printf implements provisioning.Observer.
func (o *Observer) Printf(format string, v ...any) {
	if o.Next != nil {
		o.Next.Printf(format, v...)
	}
}

// Event implements provisioning.Observer.
func (o *Observer) Event(event provisioning.Event) {
	if o.Next != nil {
		o.Next.Event(event)
	}

	switch event.Type {
	case provisioning.EventStepStarted:
		o.Sender.Send(StepMsg{Step: event.Step})
	case provisioning.EventStepCompleted:
		o.Sender.Send(StepMsg{Step: event.Step, Done: true})
	case provisioning.EventStepFailed:
		o.Sender.Send(StepMsg{Step: event.Step, Err: errors.New(event.Message)})
	case provisioning.EventResourceCreated:
		o.Sender.Send(resourceMsg(event, "created"))
	case provisioning.EventResourceExists:
		o.Sender.Send(resourceMsg(event, "reused"))
	case provisioning.EventResourceAttached:
		o.Sender.Send(resourceMsg(event, "attached"))
	case provisioning.EventResourceFailed:
		o.Sender.Send(resourceMsg(event, "failed"))
	}
}

// Progress implements provisioning.Observer.
func (o *Observer) Progress(step string, current, total int) {
	if o.Next != nil {
		o.Next.Progress(step, current, total)
	}
}

// WithFields implements provisioning.Observer.
func (o *Observer) WithFields(fields map[string]string) provisioning.Observer {
	merged := make(map[string]string, len(o.fields)+len(fields))
	maps.Copy(merged, o.fields)
	maps.Copy(merged, fields)

	next := o.Next
	if next != nil {
		next = next.WithFields(fields)
	}
	return &Observer{Sender: o.Sender, Next: next, fields: merged}
}

func resourceMsg(event provisioning.Event, action string) ResourceMsg {
	msg := ResourceMsg{Step: event.Step, Name: event.Resource, Action: action}
	if event.Fields != nil {
		msg.Kind = event.Fields["kind"]
		msg.ID = event.Fields["id"]
		if target := event.Fields["target"]; target != "" && msg.ID == "" {
			msg.ID = "-> " + target
		}
	}
	return msg
}
