package gate

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/initiation/internal/gates"
	"github.com/abhisek/initiation/internal/host"
	"github.com/abhisek/initiation/internal/router"
	"github.com/abhisek/initiation/internal/screen"
	"github.com/abhisek/initiation/internal/session"
	"github.com/abhisek/initiation/internal/store"
)

const testPIN = "7734"

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *GateScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// press sends msg and feeds any verdict the screen produced back into it.
func press(s *GateScreen, msg tea.Msg) tea.Msg {
	_, cmd := s.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if v, ok := out.(verdictMsg); ok {
		s.Update(v)
	}
	return out
}

func testController(t *testing.T) *session.Controller {
	t.Helper()
	return openController(t, filepath.Join(t.TempDir(), "progress.json"))
}

func openController(t *testing.T, path string) *session.Controller {
	t.Helper()
	fs, err := store.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	auth, err := host.New(host.DigestPIN(testPIN))
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := session.Open(context.Background(), fs, gates.Default(), auth)
	if err != nil {
		t.Fatal(err)
	}
	return ctrl
}

func TestStartsOnFirstGate(t *testing.T) {
	s := New(testController(t), nil, nil)

	if s.Phase() != session.PhaseGateActive {
		t.Fatalf("expected gate active, got %v", s.Phase())
	}
	if s.Title() != "GATE I" {
		t.Errorf("expected title GATE I, got %q", s.Title())
	}
	if !strings.Contains(s.View(100, 40), "Answer:") {
		t.Error("expected answer input in view")
	}
}

func TestWrongAnswerShowsFailure(t *testing.T) {
	ctrl := testController(t)
	s := New(ctrl, nil, nil)

	typeText(s, "allow")
	press(s, specialKey(tea.KeyEnter))

	if s.Phase() != session.PhaseGateActive {
		t.Errorf("expected gate still active, got %v", s.Phase())
	}
	if !strings.Contains(s.View(100, 40), "Not sufficient.") {
		t.Error("expected failure line in view")
	}
	if n := len(ctrl.CurrentView().Attempts); n != 1 {
		t.Errorf("expected 1 attempt logged, got %d", n)
	}
	if s.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", s.input.Value())
	}
}

func TestSolveThenApprove(t *testing.T) {
	s := New(testController(t), nil, nil)

	typeText(s, "let")
	press(s, specialKey(tea.KeyEnter))

	if s.Phase() != session.PhaseAwaitingApproval {
		t.Fatalf("expected awaiting approval, got %v", s.Phase())
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Return to Saggu.") {
		t.Error("expected host hand-off line")
	}

	typeText(s, "0000")
	press(s, specialKey(tea.KeyEnter))
	if s.Phase() != session.PhaseAwaitingApproval {
		t.Fatalf("wrong PIN must not advance, got %v", s.Phase())
	}
	if !strings.Contains(s.View(100, 40), session.MsgInvalidPIN) {
		t.Error("expected invalid PIN line")
	}
	if strings.Contains(s.View(100, 40), "0000") {
		t.Error("PIN must not be echoed")
	}

	typeText(s, testPIN)
	press(s, specialKey(tea.KeyEnter))
	if s.Phase() != session.PhaseGateActive {
		t.Fatalf("expected gate active, got %v", s.Phase())
	}
	if s.Title() != "GATE II" {
		t.Errorf("expected GATE II, got %q", s.Title())
	}
	if !strings.Contains(s.View(100, 40), session.MsgGateUnlocked) {
		t.Error("expected unlock line")
	}
}

func TestEmptyPINIgnored(t *testing.T) {
	s := New(testController(t), nil, nil)
	typeText(s, "let")
	press(s, specialKey(tea.KeyEnter))

	if out := press(s, specialKey(tea.KeyEnter)); out != nil {
		t.Errorf("expected no command for empty PIN, got %T", out)
	}
}

func TestJigsawGateUsesTiles(t *testing.T) {
	ctrl := testController(t)
	ctx := context.Background()
	for _, ans := range []string{"let", "us", "judge", "kebab"} {
		if _, err := ctrl.Submit(ctx, gates.Text(ans)); err != nil {
			t.Fatal(err)
		}
		if _, err := ctrl.Approve(ctx, testPIN); err != nil {
			t.Fatal(err)
		}
	}

	s := New(ctrl, nil, nil)
	if !s.view.Definition.TakesLayout() {
		t.Fatal("expected gate V to take a layout")
	}

	// Place every tile in tray order.
	for i := range gates.JigsawTiles() {
		if i > 0 {
			s.Update(specialKey(tea.KeyRight))
		}
		s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	}
	if !s.tiles.Full() {
		t.Fatal("expected board full")
	}
	press(s, specialKey(tea.KeyEnter))

	if s.Phase() != session.PhaseAwaitingApproval {
		t.Errorf("expected gate V solved, got %v", s.Phase())
	}
}

func TestFinalGateShowsReveal(t *testing.T) {
	ctrl := testController(t)
	ctx := context.Background()
	for _, ans := range []string{"let", "us", "judge", "kebab"} {
		ctrl.Submit(ctx, gates.Text(ans))
		ctrl.Approve(ctx, testPIN)
	}
	ctrl.Submit(ctx, gates.Layout(gates.JigsawTiles()...))
	ctrl.Approve(ctx, testPIN)
	for _, ans := range []string{"where", "fire", "learned"} {
		ctrl.Submit(ctx, gates.Text(ans))
		ctrl.Approve(ctx, testPIN)
	}

	s := New(ctrl, nil, nil)
	typeText(s, "patience")
	press(s, specialKey(tea.KeyEnter))

	if s.Phase() != session.PhaseComplete {
		t.Fatalf("expected complete, got %v", s.Phase())
	}
	if !strings.Contains(s.View(100, 40), "where fire learned patience.") {
		t.Error("expected final reveal")
	}
}

func TestCtrlAPushesAdmin(t *testing.T) {
	opened := 0
	s := New(testController(t), func() screen.Screen {
		opened++
		return New(testController(t), nil, nil)
	}, nil)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected PushScreenMsg")
	}
	if opened != 1 {
		t.Errorf("expected admin factory called once, got %d", opened)
	}
}

func TestProgressChangedResyncs(t *testing.T) {
	ctrl := testController(t)
	s := New(ctrl, nil, nil)

	if _, err := ctrl.Submit(context.Background(), gates.Text("let")); err != nil {
		t.Fatal(err)
	}
	s.Update(screen.ProgressChangedMsg{})

	if s.Phase() != session.PhaseAwaitingApproval {
		t.Errorf("expected awaiting approval after resync, got %v", s.Phase())
	}
}

func TestOwnSaveKeepsFeedback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "progress.json")
	ctrl := openController(t, path)
	changes, err := store.Watch(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	s := New(ctrl, nil, nil)

	typeText(s, "allow")
	press(s, specialKey(tea.KeyEnter))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for the saved attempt")
	}
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	s.Update(screen.ProgressChangedMsg{})

	if !strings.Contains(s.View(100, 40), "Not sufficient.") {
		t.Error("failure line cleared by reload of own save")
	}
}

func TestProgressChangedClearsFeedbackOnMove(t *testing.T) {
	ctrl := testController(t)
	s := New(ctrl, nil, nil)

	typeText(s, "allow")
	press(s, specialKey(tea.KeyEnter))

	if _, err := ctrl.Submit(context.Background(), gates.Text("let")); err != nil {
		t.Fatal(err)
	}
	s.Update(screen.ProgressChangedMsg{})

	if s.Phase() != session.PhaseAwaitingApproval {
		t.Fatalf("expected awaiting approval, got %v", s.Phase())
	}
	if strings.Contains(s.View(100, 40), "Not sufficient.") {
		t.Error("stale failure line kept after phase change")
	}
}
