package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pickedMsg string

func TestMenuSkipsDisabledAndWraps(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Summary"},
		{Label: "Log", Disabled: true},
		{Label: "Reset"},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Errorf("expected selection 2, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 0 {
		t.Errorf("expected wrap to 0, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 2 {
		t.Errorf("expected wrap to 2, got %d", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Answers", Action: func() tea.Cmd {
			return func() tea.Msg { return pickedMsg("answers") }
		}},
	})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command from enter")
	}
	if got := cmd(); got != pickedMsg("answers") {
		t.Errorf("got %v", got)
	}
}

func TestSecretInputClearsOnSubmit(t *testing.T) {
	in := NewSecretInput("PIN", 12)
	in.Model.SetValue("7734")
	in.Submit(false)
	if in.Value() != "" {
		t.Errorf("expected secret input cleared, got %q", in.Value())
	}
}
