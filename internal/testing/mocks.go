package testing

import (
	"fmt"
	"maps"
	"sync"

	"github.com/imamik/stacktopo/internal/provisioning"
)

// RecordingObserver is a provisioning.Observer that keeps every event and
// log line. It is safe for concurrent use.
type RecordingObserver struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
	fields   map[string]string
}

var _ provisioning.Observer = (*RecordingObserver)(nil)

// NewRecordingObserver creates an empty observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{fields: make(map[string]string)}
}

// Printf records the formatted message.
func (o *RecordingObserver) Printf(format string, v ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintf(format, v...))
}

// Event records event with the observer's fields merged in.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	event.Fields = mergeFields(o.fields, event.Fields)
	o.events = append(o.events, event)
}

// Progress records a progress event.
func (o *RecordingObserver) Progress(step string, current, total int) {
	o.Event(provisioning.Event{
		Type:    provisioning.EventProgress,
		Step:    step,
		Message: fmt.Sprintf("%d/%d", current, total),
	})
}

// WithFields returns an observer sharing this one's storage.
func (o *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return &fieldObserver{parent: o, fields: mergeFields(o.fields, fields)}
}

// Events returns a copy of the recorded events.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]provisioning.Event(nil), o.events...)
}

// EventsOfType returns the recorded events of typ.
func (o *RecordingObserver) EventsOfType(typ provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range o.Events() {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns a copy of the recorded log lines.
func (o *RecordingObserver) Messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.messages...)
}

type fieldObserver struct {
	parent *RecordingObserver
	fields map[string]string
}

func (f *fieldObserver) Printf(format string, v ...any) { f.parent.Printf(format, v...) }

func (f *fieldObserver) Event(event provisioning.Event) {
	event.Fields = mergeFields(f.fields, event.Fields)
	f.parent.Event(event)
}

func (f *fieldObserver) Progress(step string, current, total int) {
	f.parent.Progress(step, current, total)
}

func (f *fieldObserver) WithFields(fields map[string]string) provisioning.Observer {
	return &fieldObserver{parent: f.parent, fields: mergeFields(f.fields, fields)}
}

func mergeFields(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

// MemoryKeyWriter is a provisioning.KeyWriter that stores keys by path.
type MemoryKeyWriter struct {
	mu   sync.Mutex
	Keys map[string][]byte
	// Err, when set, is returned by every write.
	Err error
}

var _ provisioning.KeyWriter = (*MemoryKeyWriter)(nil)

// NewMemoryKeyWriter creates an empty writer.
func NewMemoryKeyWriter() *MemoryKeyWriter {
	return &MemoryKeyWriter{Keys: make(map[string][]byte)}
}

// WriteKey implements provisioning.KeyWriter.
func (w *MemoryKeyWriter) WriteKey(path string, privateKeyPEM []byte) (string, error) {
	if w.Err != nil {
		return "", w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Keys[path] = append([]byte(nil), privateKeyPEM...)
	return "SHA256:memory", nil
}
