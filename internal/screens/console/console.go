package console

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/initiation/internal/admin"
	"github.com/abhisek/initiation/internal/router"
	"github.com/abhisek/initiation/internal/screen"
	"github.com/abhisek/initiation/internal/screens/history"
	"github.com/abhisek/initiation/internal/screens/summary"
	"github.com/abhisek/initiation/internal/ui/components"
	"github.com/abhisek/initiation/internal/ui/layout"
	"github.com/abhisek/initiation/internal/ui/theme"
)

type stage int

const (
	stageMenu stage = iota
	stageConfirm
	stagePIN
	stageAnswers
)

var opLabels = map[admin.Op]string{
	admin.OpSummary: "Progress summary",
	admin.OpLog:     "Attempt log",
	admin.OpAnswers: "Answer key",
	admin.OpReset:   "Reset progress",
}

var opHints = map[admin.Op]string{
	admin.OpSummary: "gates, tries, accuracy",
	admin.OpLog:     "every submission",
	admin.OpReset:   "back to gate I",
}

// opChosenMsg is emitted by the menu.
type opChosenMsg struct {
	Op admin.Op
}

// ConsoleScreen is the host's admin console. Every operation asks for the
// PIN again.
type ConsoleScreen struct {
	console *admin.Console

	stage   stage
	menu    components.Menu
	op      admin.Op
	pin     components.TextInput
	confirm int
	answers map[int]string
	errMsg  string
}

var _ screen.Screen = (*ConsoleScreen)(nil)
var _ screen.KeyHintProvider = (*ConsoleScreen)(nil)

// New creates a ConsoleScreen over c.
func New(c *admin.Console) *ConsoleScreen {
	items := make([]components.MenuItem, 0, len(admin.Ops))
	for _, op := range admin.Ops {
		op := op
		items = append(items, components.MenuItem{
			Label: opLabels[op],
			Hint:  opHints[op],
			Action: func() tea.Cmd {
				return func() tea.Msg { return opChosenMsg{Op: op} }
			},
		})
	}
	return &ConsoleScreen{
		console: c,
		menu:    components.NewMenu(items),
	}
}

func (s *ConsoleScreen) Init() tea.Cmd {
	return nil
}

func (s *ConsoleScreen) Title() string {
	return "Host Console"
}

func (s *ConsoleScreen) KeyHints() []layout.KeyHint {
	switch s.stage {
	case stageConfirm:
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Back"},
		}
	case stagePIN:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Unlock"},
			{Key: "Esc", Description: "Back"},
		}
	case stageAnswers:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Hide"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ConsoleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case opChosenMsg:
		s.op = msg.Op
		s.errMsg = ""
		if msg.Op == admin.OpReset {
			s.stage = stageConfirm
			s.confirm = 1
			return s, nil
		}
		return s, s.askPIN()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.stage == stagePIN {
		var cmd tea.Cmd
		s.pin, cmd = s.pin.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ConsoleScreen) askPIN() tea.Cmd {
	s.stage = stagePIN
	s.pin = components.NewSecretInput("Host PIN", 32)
	return s.pin.Init()
}

func (s *ConsoleScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.stage {
	case stageMenu:
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd

	case stageConfirm:
		switch key {
		case "left", "h", "right", "l", "tab":
			s.confirm = 1 - s.confirm
		case "enter":
			if s.confirm == 0 {
				return s, s.askPIN()
			}
			s.stage = stageMenu
		case "esc":
			s.stage = stageMenu
		}
		return s, nil

	case stagePIN:
		switch key {
		case "esc":
			s.pin.Clear()
			s.stage = stageMenu
			return s, nil
		case "enter":
			return s, s.run()
		}
		var cmd tea.Cmd
		s.pin, cmd = s.pin.Update(msg)
		return s, cmd

	case stageAnswers:
		if key == "enter" || key == "esc" {
			s.answers = nil
			s.stage = stageMenu
		}
		return s, nil
	}
	return s, nil
}

// run authorizes the chosen operation with the typed PIN and carries it out.
func (s *ConsoleScreen) run() tea.Cmd {
	pin := s.pin.Value()
	s.pin.Clear()
	if pin == "" {
		return nil
	}

	grant, err := s.console.Authorize(pin, s.op)
	if err != nil {
		s.pin.Submit(false)
		if errors.Is(err, admin.ErrInvalidPIN) {
			s.errMsg = "Invalid PIN."
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	s.errMsg = ""
	s.stage = stageMenu

	switch s.op {
	case admin.OpSummary:
		sum, err := s.console.Summary(grant)
		if err != nil {
			s.errMsg = err.Error()
			return nil
		}
		return push(summary.New(sum))

	case admin.OpLog:
		entries, err := s.console.AttemptLog(grant)
		if err != nil {
			s.errMsg = err.Error()
			return nil
		}
		return push(history.New(entries))

	case admin.OpAnswers:
		key, err := s.console.AnswerKey(grant)
		if err != nil {
			s.errMsg = err.Error()
			return nil
		}
		s.answers = key
		s.stage = stageAnswers
		return nil

	case admin.OpReset:
		if err := s.console.Reset(context.Background(), grant); err != nil {
			s.errMsg = err.Error()
			return nil
		}
		return tea.Sequence(
			func() tea.Msg { return router.PopToRootMsg{} },
			func() tea.Msg { return screen.ProgressChangedMsg{} },
		)
	}
	return nil
}

func push(next screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *ConsoleScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.stage {
	case stageConfirm:
		body = strings.Join([]string{
			theme.Incorrect.Render("Reset all progress?"),
			"",
			theme.Body.Render("The attempt log is cleared and the session returns to gate I."),
			"",
			components.ButtonRow(s.confirm,
				components.Button{Label: "Reset", Danger: true},
				components.Button{Label: "Cancel"},
			),
		}, "\n")
	case stagePIN:
		body = strings.Join([]string{
			theme.Title.Render(opLabels[s.op]),
			"",
			"PIN: " + s.pin.View(),
		}, "\n")
	case stageAnswers:
		body = renderAnswers(s.answers)
	default:
		body = theme.Title.Render("Host Console") + "\n\n" + s.menu.View()
	}

	if s.errMsg != "" {
		body += "\n\n" + theme.Incorrect.Render(s.errMsg)
	}

	panel := components.Panel(body, cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

func renderAnswers(key map[int]string) string {
	ids := make([]int, 0, len(key))
	for id := range key {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	lines := []string{theme.Title.Render("Answer key"), ""}
	for _, id := range ids {
		lines = append(lines, theme.Body.Render(fmt.Sprintf("%d  %s", id, key[id])))
	}
	return strings.Join(lines, "\n")
}
