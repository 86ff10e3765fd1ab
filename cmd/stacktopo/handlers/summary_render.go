package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/provisioning"
)

// Colors matching internal/ui/tui/styles.go palette.
var (
	summaryColorGreen = lipgloss.Color("#22c55e")
	summaryColorRed   = lipgloss.Color("#ef4444")
	summaryColorBlue  = lipgloss.Color("#3b82f6")
	summaryColorDim   = lipgloss.Color("#6b7280")
	summaryColorWhite = lipgloss.Color("#f9fafb")
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(summaryColorWhite)

	summarySectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(summaryColorBlue)

	summaryDimStyle = lipgloss.NewStyle().
			Foreground(summaryColorDim)

	summaryGreenStyle = lipgloss.NewStyle().
				Foreground(summaryColorGreen)

	summaryRedStyle = lipgloss.NewStyle().
			Foreground(summaryColorRed)
)

// renderCreateSummary produces the lipgloss-styled result of a create run.
// After a failure it lists every resource the run created, since nothing
// is rolled back.
func renderCreateSummary(cfg *config.Config, state *provisioning.State, runErr error) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("  stacktopo: %s", cfg.ControlPlane.BaseURL())))
	b.WriteString("\n")
	b.WriteString(summaryDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	if state == nil {
		b.WriteString("\n")
		b.WriteString(summaryRedStyle.Render(fmt.Sprintf("  ✗ %v", runErr)))
		b.WriteString("\n")
		b.WriteString(summaryDimStyle.Render("  No resources were created."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(summaryDimStyle.Render(fmt.Sprintf("  run %s", state.RunID)))
	b.WriteString("\n")

	records := state.Records()
	if runErr == nil {
		b.WriteString("\n")
		renderRecordSection(&b, "Resources", records)
		b.WriteString("\n")
		b.WriteString(summaryGreenStyle.Render("  ✓ Topology provisioned"))
		b.WriteString("\n")
		if cfg.Output.ExportFile != "" {
			b.WriteString(summaryDimStyle.Render("  Export: " + cfg.Output.ExportFile))
			b.WriteString("\n")
		}
		if state.KeyFile != "" {
			b.WriteString(summaryDimStyle.Render("  Private key: " + state.KeyFile))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString("\n")
	step := provisioning.FailedStep(runErr)
	if step == "" {
		step = "unknown"
	}
	b.WriteString(summaryRedStyle.Render(fmt.Sprintf("  ✗ Failed at step %s", step)))
	b.WriteString("\n")
	b.WriteString(summaryDimStyle.Render(fmt.Sprintf("    %v", runErr)))
	b.WriteString("\n")

	created := state.Created()
	b.WriteString("\n")
	if len(created) == 0 {
		b.WriteString(summaryDimStyle.Render("  No resources were created."))
		b.WriteString("\n")
		return b.String()
	}
	renderRecordSection(&b, "Created before the failure (remove manually)", created)
	if cfg.Output.TraceFile != "" {
		b.WriteString("\n")
		b.WriteString(summaryDimStyle.Render("  Trace: " + cfg.Output.TraceFile))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRecordSection(b *strings.Builder, title string, records []provisioning.Record) {
	b.WriteString(summarySectionStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(summaryDimStyle.Render("  " + strings.Repeat("─", 35)))
	b.WriteString("\n")

	for _, r := range records {
		line := fmt.Sprintf("    %-8s %-20s %-16s %s", r.Action, r.Kind, r.Name, r.ID)
		if r.Target != "" {
			line += " -> " + r.Target
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}
