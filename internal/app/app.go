package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/initiation/internal/admin"
	"github.com/abhisek/initiation/internal/progress"
	"github.com/abhisek/initiation/internal/router"
	"github.com/abhisek/initiation/internal/screen"
	"github.com/abhisek/initiation/internal/screens/console"
	"github.com/abhisek/initiation/internal/screens/gate"
	"github.com/abhisek/initiation/internal/screens/welcome"
	"github.com/abhisek/initiation/internal/session"
	"github.com/abhisek/initiation/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Controller *session.Controller
	Console    *admin.Console
	Logger     *zap.Logger

	// StoreChanges signals that the progress record was rewritten on disk.
	// Nil disables live reload.
	StoreChanges <-chan struct{}

	// SkipWelcome starts directly on the gate screen.
	SkipWelcome bool
}

// storeChangedMsg is delivered when StoreChanges fires.
type storeChangedMsg struct{}

// storeClosedMsg is delivered once StoreChanges is closed.
type storeClosedMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the welcome screen in front of the
// gate screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var openAdmin func() screen.Screen
	if opts.Console != nil {
		openAdmin = func() screen.Screen { return console.New(opts.Console) }
	}
	gateScreen := func() screen.Screen {
		return gate.New(opts.Controller, openAdmin, opts.Logger)
	}

	first := gateScreen()
	if !opts.SkipWelcome {
		first = welcome.New(gateScreen)
	}
	return AppModel{
		opts:   opts,
		router: router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), waitForChange(m.opts.StoreChanges))
}

// waitForChange blocks on the next store notification.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case storeChangedMsg:
		if err := m.opts.Controller.Reload(context.Background()); err != nil {
			// Keep the last good state on screen; the next save rewrites the file.
			m.opts.Logger.Warn("reload after store change failed", zap.Error(err))
			return m, waitForChange(m.opts.StoreChanges)
		}
		cmd := m.router.Update(screen.ProgressChangedMsg{})
		return m, tea.Batch(cmd, waitForChange(m.opts.StoreChanges))

	case storeClosedMsg:
		m.opts.Logger.Debug("store watcher closed")
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	solved := len(m.opts.Controller.CurrentView().CompletedGates)
	header := layout.RenderHeader(title, solved, progress.LastGate, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Controller == nil {
		return errors.New("app: no session controller")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
