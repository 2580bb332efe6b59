package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/initiation/internal/ui/theme"
)

// Button is a styled button label. Key handling belongs to the screen that
// owns a row of buttons.
type Button struct {
	Label  string
	Active bool
	Danger bool
}

// NewButton creates a new button.
func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

// View renders the button.
func (b Button) View() string {
	if !b.Active {
		return theme.ButtonInactive.Render(b.Label)
	}
	if b.Danger {
		return theme.ButtonActive.Background(theme.Accent).Foreground(theme.Text).Render("▸ " + b.Label)
	}
	return theme.ButtonActive.Render("▸ " + b.Label)
}

// ButtonRow renders buttons side by side with selected marked active.
func ButtonRow(selected int, buttons ...Button) string {
	views := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		b.Active = i == selected
		if i > 0 {
			views = append(views, "  ")
		}
		views = append(views, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
