package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/initiation/internal/progress"
	"github.com/abhisek/initiation/internal/router"
	"github.com/abhisek/initiation/internal/screen"
	"github.com/abhisek/initiation/internal/session"
	"github.com/abhisek/initiation/internal/ui/components"
	"github.com/abhisek/initiation/internal/ui/layout"
	"github.com/abhisek/initiation/internal/ui/theme"
)

// SummaryScreen displays the progress summary to the host.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Progress Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// PhaseLine describes where the session stands in one line.
func PhaseLine(sum *session.Summary) string {
	switch sum.Phase {
	case session.PhaseComplete:
		return "All gates passed"
	case session.PhaseAwaitingApproval:
		return fmt.Sprintf("Gate %d solved, awaiting approval", sum.CurrentGate)
	}
	return fmt.Sprintf("Gate %d open", sum.CurrentGate)
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(PhaseLine(sum)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Gates", len(sum.CompletedGates), progress.LastGate, min(width-8, 50))
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Attempts: %d        Correct: %d        Accuracy: %.0f%%",
		sum.TotalAttempts, sum.TotalCorrect, sum.Accuracy*100)
	b.WriteString(center(theme.Body.Render(statsLine)))
	b.WriteString("\n\n")

	if len(sum.GateResults) == 0 {
		b.WriteString(center(theme.Hint.Render("No attempts yet.")))
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 50)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Gates")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	for _, gr := range sum.GateResults {
		line := fmt.Sprintf("Gate %d    %d tries    %d correct", gr.Gate, gr.Attempted, gr.Correct)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if gr.Correct > 0 {
			style = style.Foreground(theme.Success)
		}
		b.WriteString(center(style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
