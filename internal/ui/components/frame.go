package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/initiation/internal/ui/theme"
)

// ContentWidth returns the inner width shared by the stacked panels of a
// screen so their borders line up.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// StoneFrame wraps content in a double border, centered in the given area.
func StoneFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel wraps content in a rounded card at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// Verdict renders a feedback line in the success or failure color.
func Verdict(msg string, ok bool) string {
	if msg == "" {
		return ""
	}
	if ok {
		return theme.Correct.Render(msg)
	}
	return theme.Incorrect.Render(msg)
}
