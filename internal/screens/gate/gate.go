package gate

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/initiation/internal/gates"
	"github.com/abhisek/initiation/internal/router"
	"github.com/abhisek/initiation/internal/screen"
	"github.com/abhisek/initiation/internal/session"
	"github.com/abhisek/initiation/internal/ui/components"
	"github.com/abhisek/initiation/internal/ui/layout"
)

const flickerInterval = 400 * time.Millisecond

// GateScreen implements screen.Screen for the participant's side of the
// session: the open gate, the approval hand-off, and the final reveal.
type GateScreen struct {
	ctrl      *session.Controller
	openAdmin func() screen.Screen
	logger    *zap.Logger

	view    session.View
	input   components.TextInput
	pin     components.TextInput
	tiles   components.TilePicker
	flicker int

	feedback   string
	feedbackOK bool
	errMsg     string
}

var _ screen.Screen = (*GateScreen)(nil)
var _ screen.KeyHintProvider = (*GateScreen)(nil)

// New creates a GateScreen over ctrl. openAdmin builds the admin screen
// pushed on Ctrl+A; nil disables it.
func New(ctrl *session.Controller, openAdmin func() screen.Screen, logger *zap.Logger) *GateScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &GateScreen{
		ctrl:      ctrl,
		openAdmin: openAdmin,
		logger:    logger,
	}
	s.sync(true)
	return s
}

func (s *GateScreen) Init() tea.Cmd {
	return tea.Batch(s.focusCmd(), flicker())
}

func (s *GateScreen) Title() string {
	if s.view.Phase == session.PhaseComplete {
		return "Revealed"
	}
	return s.view.Definition.Title
}

func (s *GateScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	switch s.view.Phase {
	case session.PhaseGateActive:
		if s.view.Definition.TakesLayout() {
			hints = append(hints,
				layout.KeyHint{Key: "←→↑↓", Description: "Choose"},
				layout.KeyHint{Key: "Space", Description: "Place"},
				layout.KeyHint{Key: "Bksp", Description: "Undo"},
			)
		}
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Submit"})
	case session.PhaseAwaitingApproval:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Approve"})
	}
	if s.openAdmin != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+A", Description: "Admin"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Phase returns the phase currently shown.
func (s *GateScreen) Phase() session.Phase {
	return s.view.Phase
}

func (s *GateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProgressChangedMsg:
		// Our own saves come back through the watcher; keep the verdict line
		// unless the record moved elsewhere.
		prev := s.view
		cmd := s.sync(false)
		if s.view.Gate != prev.Gate || s.view.Phase != prev.Phase {
			s.feedback = ""
			s.errMsg = ""
		}
		return s, cmd

	case verdictMsg:
		return s.handleVerdict(msg)

	case flickerMsg:
		s.flicker++
		return s, flicker()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

// sync refreshes the cached view from the controller and rebuilds the inputs
// when the gate or phase moved.
func (s *GateScreen) sync(force bool) tea.Cmd {
	next := s.ctrl.CurrentView()
	changed := force || next.Gate != s.view.Gate || next.Phase != s.view.Phase
	s.view = next
	if !changed {
		return nil
	}

	switch next.Phase {
	case session.PhaseGateActive:
		if next.Definition.TakesLayout() {
			s.tiles = components.NewTilePicker(next.Definition.Tiles, gates.JigsawSlots)
		} else {
			s.input = components.NewTextInput("Speak the word...", 64)
		}
	case session.PhaseAwaitingApproval:
		s.pin = components.NewSecretInput("Host PIN", 32)
	}
	return s.focusCmd()
}

func (s *GateScreen) focusCmd() tea.Cmd {
	switch s.view.Phase {
	case session.PhaseGateActive:
		if !s.view.Definition.TakesLayout() {
			return s.input.Init()
		}
	case session.PhaseAwaitingApproval:
		return s.pin.Init()
	}
	return nil
}

func (s *GateScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+a" && s.openAdmin != nil {
		admin := s.openAdmin()
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: admin} }
	}

	// Error state: any key clears it.
	if s.errMsg != "" {
		s.errMsg = ""
		return s, nil
	}

	switch s.view.Phase {
	case session.PhaseGateActive:
		if key == "enter" {
			return s, s.submit()
		}
	case session.PhaseAwaitingApproval:
		if key == "enter" {
			return s, s.approve()
		}
	case session.PhaseComplete:
		return s, nil
	}

	return s.forward(msg)
}

// forward passes msg to whichever input the current phase uses.
func (s *GateScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.view.Phase {
	case session.PhaseGateActive:
		if s.view.Definition.TakesLayout() {
			s.tiles, cmd = s.tiles.Update(msg)
		} else {
			s.input, cmd = s.input.Update(msg)
		}
	case session.PhaseAwaitingApproval:
		s.pin, cmd = s.pin.Update(msg)
	}
	return s, cmd
}

// submit sends the current answer to the controller. The controller is not
// safe for concurrent use, so the call runs here on the update loop and only
// the result travels as a message.
func (s *GateScreen) submit() tea.Cmd {
	sub := gates.Text(s.input.Value())
	if s.view.Definition.TakesLayout() {
		sub = gates.Layout(s.tiles.Placed()...)
	}
	res, err := s.ctrl.Submit(context.Background(), sub)
	return func() tea.Msg { return verdictMsg{Result: res, Err: err} }
}

func (s *GateScreen) approve() tea.Cmd {
	pin := s.pin.Value()
	s.pin.Clear()
	if pin == "" {
		return nil
	}
	res, err := s.ctrl.Approve(context.Background(), pin)
	return func() tea.Msg { return verdictMsg{Result: res, Err: err} }
}

func (s *GateScreen) handleVerdict(msg verdictMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, session.ErrAwaitingApproval),
			errors.Is(msg.Err, session.ErrNotAwaitingApproval),
			errors.Is(msg.Err, session.ErrGameComplete):
			// The store moved under us; show where it is now.
			s.logger.Debug("stale view", zap.Error(msg.Err))
		default:
			s.errMsg = msg.Err.Error()
		}
		return s, s.sync(false)
	}

	res := msg.Result
	s.feedback = res.Message
	s.feedbackOK = res.Outcome == session.OutcomeAccepted

	switch s.view.Phase {
	case session.PhaseGateActive:
		if s.view.Definition.TakesLayout() {
			if !s.feedbackOK {
				s.tiles.Reset()
			}
		} else {
			s.input.Submit(s.feedbackOK)
			if !s.feedbackOK {
				s.input.Clear()
			}
		}
	case session.PhaseAwaitingApproval:
		s.pin.Submit(s.feedbackOK)
	}

	return s, s.sync(false)
}

func flicker() tea.Cmd {
	return tea.Tick(flickerInterval, func(t time.Time) tea.Msg {
		return flickerMsg(t)
	})
}
