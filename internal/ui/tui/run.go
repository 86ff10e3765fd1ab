package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/stacktopo/internal/provisioning"
)

// ProvisionFunc runs a provisioning with the given observer.
type ProvisionFunc func(ctx context.Context, observer provisioning.Observer) (*provisioning.State, error)

// RunProvisionTUI wraps a provisioning run with a Bubble Tea dashboard.
// Quitting the dashboard cancels the run. The run's own result is returned
// once it has stopped.
func RunProvisionTUI(ctx context.Context, run ProvisionFunc, next provisioning.Observer, target string, steps []string) (*provisioning.State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProvisionModel(target, steps), tea.WithAltScreen(), tea.WithContext(ctx))

	type result struct {
		state *provisioning.State
		err   error
	}
	done := make(chan result, 1)
	go func() {
		state, err := run(ctx, NewObserver(p, next))
		if err != nil {
			p.Send(ErrMsg{Err: err})
		} else {
			p.Send(DoneMsg{State: state})
		}
		done <- result{state, err}
	}()

	_, uiErr := p.Run()
	cancel()
	res := <-done

	if res.err != nil {
		return res.state, res.err
	}
	if uiErr != nil {
		return res.state, fmt.Errorf("TUI error: %w", uiErr)
	}
	return res.state, nil
}
