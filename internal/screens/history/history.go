package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/initiation/internal/admin"
	"github.com/abhisek/initiation/internal/router"
	"github.com/abhisek/initiation/internal/screen"
	"github.com/abhisek/initiation/internal/ui/layout"
	"github.com/abhisek/initiation/internal/ui/theme"
)

// HistoryScreen displays the attempt log grouped by gate. Enter expands a
// gate to show each submission.
type HistoryScreen struct {
	gates    []int
	byGate   map[int][]admin.LogEntry
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen over entries, which arrive in gate order.
func New(entries []admin.LogEntry) *HistoryScreen {
	s := &HistoryScreen{
		byGate:   make(map[int][]admin.LogEntry),
		expanded: make(map[int]bool),
	}
	for _, e := range entries {
		if _, seen := s.byGate[e.Gate]; !seen {
			s.gates = append(s.gates, e.Gate)
		}
		s.byGate[e.Gate] = append(s.byGate[e.Gate], e)
	}
	return s
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "Attempt Log"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.gates)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if len(s.gates) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts recorded.")
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, gate := range s.gates {
		entries := s.byGate[gate]
		correct := 0
		for _, e := range entries {
			if e.Correct {
				correct++
			}
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%sGate %d  %d tries  %d correct", prefix, gate, len(entries), correct)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(center(style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, e := range entries {
				mark, color := "✗", theme.Error
				if e.Correct {
					mark, color = "✓", theme.Success
				}
				submitted := e.Submitted
				if submitted == "" {
					submitted = "(empty)"
				}
				detail := fmt.Sprintf("    %s  %s  %s", mark, e.Timestamp.Format("Jan 02 15:04:05"), submitted)
				b.WriteString(center(lipgloss.NewStyle().Foreground(color).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
