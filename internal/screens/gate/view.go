package gate

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/initiation/internal/gates"
	"github.com/abhisek/initiation/internal/progress"
	"github.com/abhisek/initiation/internal/session"
	"github.com/abhisek/initiation/internal/ui/components"
	"github.com/abhisek/initiation/internal/ui/theme"
)

var candleFrames = []string{"(", ")", "|"}

func (s *GateScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	switch s.view.Phase {
	case session.PhaseAwaitingApproval:
		return s.renderApproval(width, height)
	case session.PhaseComplete:
		return s.renderReveal(width, height)
	}
	return s.renderGate(width, height)
}

func (s *GateScreen) renderGate(width, height int) string {
	cw := components.ContentWidth(width)
	def := s.view.Definition

	var b strings.Builder
	b.WriteString(s.infoLine(width))
	b.WriteString("\n\n")

	prompt := lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Render(def.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	if def.TakesLayout() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.tiles.View()))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
	}
	b.WriteString("\n\n")

	if line := components.Verdict(s.feedback, s.feedbackOK); line != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, b.String())
}

// infoLine shows the gate title on the left and the try count on the right.
func (s *GateScreen) infoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.view.Definition.Title)

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("tries %d", len(s.view.Attempts)))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

func (s *GateScreen) renderApproval(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	if line := components.Verdict(s.feedback, s.feedbackOK); line != "" {
		sections = append(sections, line, "")
	}
	sections = append(sections,
		theme.Title.Render(s.view.Definition.Title+" solved"),
		"",
		theme.Body.Render(session.MsgAwaitHost),
		"",
		"PIN: "+s.pin.View(),
	)

	bar := components.NewProgressBar("Gates", len(s.view.CompletedGates), progress.LastGate, cw-4)
	sections = append(sections, "", bar.View())

	panel := components.Panel(strings.Join(sections, "\n"), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

func (s *GateScreen) renderReveal(width, height int) string {
	flame := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Render(candleFrames[s.flicker%len(candleFrames)])

	reveal := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Align(lipgloss.Center).
		Render(gates.FinalReveal)

	content := strings.Join([]string{
		flame,
		lipgloss.NewStyle().Foreground(theme.Border).Render("▐█▌"),
		"",
		reveal,
		"",
		theme.Hint.Render(fmt.Sprintf("All %d gates passed.", progress.LastGate)),
	}, "\n")

	return components.StoneFrame(content, width, height)
}

func renderError(width, height int, msg string) string {
	content := strings.Join([]string{
		theme.Incorrect.Render("Something went wrong"),
		"",
		lipgloss.NewStyle().Foreground(theme.TextDim).Width(min(width-8, 60)).Render(msg),
		"",
		theme.Hint.Render("press any key"),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
