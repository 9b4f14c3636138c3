package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/storage"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm, cmd
}

func playing(t *testing.T, opts Options) model {
	t.Helper()
	s, err := game.New(3)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	m, _ := update(t, *NewGame(opts), engineMsg{session: s})
	if m.state != statePlay {
		t.Fatalf("expected play state, got %d", m.state)
	}
	return m
}

func TestInitBuildsRequestedSize(t *testing.T) {
	m := NewGame(Options{Size: 3})
	if m.state != stateBuilding {
		t.Fatalf("expected building state, got %d", m.state)
	}
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected build command")
	}
	msg, ok := cmd().(engineMsg)
	if !ok || msg.err != nil || msg.session == nil {
		t.Fatalf("unexpected build result: %+v", msg)
	}
}

func TestMenuStartsBuild(t *testing.T) {
	m := *NewGame(Options{})
	if m.Init() != nil {
		t.Error("menu should not build on init")
	}
	m, _ = update(t, m, key("down"))
	if m.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", m.cursor)
	}
	m, cmd := update(t, m, key("enter"))
	if m.state != stateBuilding || cmd == nil {
		t.Error("enter should start building")
	}
}

func TestScanWithCursor(t *testing.T) {
	m := playing(t, Options{})

	m, _ = update(t, m, key("enter"))
	if m.session.State().Step != 1 || m.session.State().Has(1) {
		t.Fatal("island 1 not scanned")
	}

	m, _ = update(t, m, key("enter"))
	if !m.msgErr {
		t.Error("rescanning island 1 should report an error")
	}
	if m.session.State().Step != 1 {
		t.Error("rejected move changed the session")
	}

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))
	if m.session.State().Has(5) {
		t.Error("island 5 not scanned")
	}
	if !strings.Contains(m.View(), "accuracy") {
		t.Error("view should show accuracy")
	}
}

func TestSuggestMatchesSession(t *testing.T) {
	m := playing(t, Options{})
	want, err := m.session.Suggest()
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	m, _ = update(t, m, key("s"))
	if m.hint != want {
		t.Errorf("expected hint %d, got %d", want, m.hint)
	}
}

func TestCopyScanOrder(t *testing.T) {
	m := playing(t, Options{})
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, key("c"))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	m, _ = update(t, m, cmd())
	if copied != "1 2" {
		t.Errorf("expected \"1 2\", got %q", copied)
	}
	if m.message != "scan order copied" {
		t.Errorf("unexpected message %q", m.message)
	}
}

func TestFinishedGameIsSaved(t *testing.T) {
	store := storage.New(t.TempDir())
	m := playing(t, Options{Store: store})

	var cmd tea.Cmd
	for island := 1; island <= 9; island++ {
		m, cmd = m.scan(island)
	}
	if m.state != stateDone {
		t.Fatalf("expected done state, got %d", m.state)
	}
	if cmd == nil {
		t.Fatal("expected save command")
	}
	m, _ = update(t, m, cmd())
	if m.savedID == "" {
		t.Fatalf("game not saved: %s", m.message)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].Policy != "tui" || runs[0].Steps != 9 {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestScanOrder(t *testing.T) {
	if got := scanOrder([]int{3, 1, 2}); got != "3 1 2" {
		t.Errorf("expected \"3 1 2\", got %q", got)
	}
	if got := scanOrder(nil); got != "" {
		t.Errorf("expected empty order, got %q", got)
	}
}
