package provisioning

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stacktopo/internal/util/logging"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	mu       sync.Mutex
	events   []Event
	messages []string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{fields: make(map[string]string)}
}

func (m *MockObserver) Printf(format string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockObserver) Progress(step string, _, _ int) {
	m.Event(Event{Type: EventProgress, Step: step})
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	return m
}

func (m *MockObserver) types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func newJSONObserver(t *testing.T, verbosity int) (*LogObserver, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Output: &buf, Verbosity: verbosity})
	require.NoError(t, err)
	return NewLogObserver(log), &buf
}

func TestLogObserver_Event(t *testing.T) {
	t.Parallel()
	obs, buf := newJSONObserver(t, 0)

	LogResourceCreated(obs, StepNetworks, "network", "blue", "net-blue")

	lines := jsonLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "network created", lines[0]["msg"])
	assert.Equal(t, "resource.created", lines[0]["event"])
	assert.Equal(t, "networks", lines[0]["step"])
	assert.Equal(t, "blue", lines[0]["resource"])
	assert.Equal(t, "net-blue", lines[0]["id"])
	assert.Equal(t, "network", lines[0]["kind"])
}

func TestLogObserver_FailedEventsLogAsError(t *testing.T) {
	t.Parallel()
	obs, buf := newJSONObserver(t, 0)

	LogStepFailed(obs, StepRouter, errors.New("boom"))

	lines := jsonLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "failed: boom", lines[0]["msg"])
}

func TestLogObserver_WithFields(t *testing.T) {
	t.Parallel()
	obs, buf := newJSONObserver(t, 0)

	child := obs.WithFields(map[string]string{"run_id": "r1"})
	child.Event(Event{Type: EventStepStarted, Step: StepSubnets, Message: "starting"})
	obs.Event(Event{Type: EventStepStarted, Step: StepSubnets, Message: "starting"})

	lines := jsonLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "r1", lines[0]["run_id"])
	assert.NotContains(t, lines[1], "run_id")
}

func TestLogObserver_EventFieldsOverrideContext(t *testing.T) {
	t.Parallel()
	obs, buf := newJSONObserver(t, 0)

	obs.WithFields(map[string]string{"kind": "ctx"}).Event(Event{
		Type:   EventResourceCreating,
		Fields: map[string]string{"kind": "router"},
	})

	lines := jsonLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "router", lines[0]["kind"])
}

func TestLogObserver_ProgressIsVerbose(t *testing.T) {
	t.Parallel()

	quiet, quietBuf := newJSONObserver(t, 0)
	quiet.Progress(StepNetworks, 1, 8)
	assert.Empty(t, quietBuf.String())

	verbose, verboseBuf := newJSONObserver(t, 1)
	verbose.Progress(StepNetworks, 1, 8)
	lines := jsonLines(t, verboseBuf)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 1, lines[0]["current"])
	assert.EqualValues(t, 8, lines[0]["total"])
}

func TestLogObserver_Printf(t *testing.T) {
	t.Parallel()
	obs, buf := newJSONObserver(t, 0)

	obs.Printf("created %d of %d", 2, 3)

	lines := jsonLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "created 2 of 3", lines[0]["msg"])
}

func TestEventHelpers(t *testing.T) {
	t.Parallel()
	obs := NewMockObserver()

	LogStepStart(obs, StepRouter)
	LogResourceCreating(obs, StepRouter, "router", "router")
	LogResourceExists(obs, StepRouter, "router", "router", "r1")
	LogResourceAttached(obs, StepRouter, "subnet", "blue_subnet", "router")
	LogStepComplete(obs, StepRouter, 1500*time.Microsecond)
	LogResourceFailed(obs, StepRouter, "router", "router", errors.New("denied"))

	assert.Equal(t, []EventType{
		EventStepStarted,
		EventResourceCreating,
		EventResourceExists,
		EventResourceAttached,
		EventStepCompleted,
		EventResourceFailed,
	}, obs.types())
	assert.Equal(t, "completed in 2ms", obs.events[4].Message)
	assert.Equal(t, "router", obs.events[3].Fields["target"])
	assert.Equal(t, "router failed: denied", obs.events[5].Message)
}
