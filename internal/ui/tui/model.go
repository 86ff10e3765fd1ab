package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/ui/benchmarks"
)

// maxResources caps the resource list shown below the steps.
const maxResources = 12

// StepStatus is the display state of one provisioning step.
type StepStatus struct {
	Name      string
	Done      bool
	Active    bool
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// ResourceLine is one rendered resource event.
type ResourceLine struct {
	Step   string
	Kind   string
	Name   string
	ID     string
	Action string
}

// Model is the Bubble Tea model for a provisioning run.
type Model struct {
	Target string

	Steps     []StepStatus
	Resources []ResourceLine
	State     *provisioning.State

	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	SpinnerFrame int

	Width  int
	Height int
	Err    error
	Done   bool
}

// NewProvisionModel creates a model for a run against target over steps.
func NewProvisionModel(target string, steps []string) Model {
	m := Model{
		Target:           target,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
	}
	for _, s := range steps {
		m.Steps = append(m.Steps, StepStatus{Name: s})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StepMsg:
		m.updateStep(msg)

	case ResourceMsg:
		m.Resources = append(m.Resources, ResourceLine(msg))
		if len(m.Resources) > maxResources {
			m.Resources = m.Resources[len(m.Resources)-maxResources:]
		}

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.State = msg.State
		for i := range m.Steps {
			m.Steps[i].Active = false
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateStep(msg StepMsg) {
	idx := -1
	for i, s := range m.Steps {
		if s.Name == msg.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	step := &m.Steps[idx]
	switch {
	case msg.Err != nil:
		step.Err = msg.Err
		step.Active = false
		step.Duration = time.Since(step.StartedAt)
	case msg.Done:
		step.Done = true
		step.Active = false
		step.Duration = time.Since(step.StartedAt)
	default:
		step.Active = true
		step.StartedAt = time.Now()
	}
}

func (m *Model) updateETA() {
	var current StepStatus
	var history []benchmarks.StepRecord
	for _, s := range m.Steps {
		if s.Active {
			current = s
		}
		if s.Done {
			history = append(history, benchmarks.StepRecord{Step: s.Name, Duration: s.Duration})
		}
	}
	if current.Name == "" {
		m.EstimatedRemaining = 0
		return
	}

	elapsed := time.Since(current.StartedAt)
	m.PerformanceScale = benchmarks.PerformanceScale(current.Name, elapsed, history)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(current.Name, elapsed, history, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
