package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/huertalab/durazno/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReset(t *testing.T) {
	s1 := &stubScreen{title: "checklist"}
	r := New(s1)
	r.Push(&stubScreen{title: "results"})

	fresh := &stubScreen{title: "fresh"}
	r.Reset(fresh)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after reset, got %d", r.Depth())
	}
	if r.Active().Title() != "fresh" {
		t.Errorf("expected active 'fresh', got %q", r.Active().Title())
	}
	if !fresh.initRan {
		t.Error("expected Init() to run on the reset screen")
	}
}

func TestResetMsg(t *testing.T) {
	r := New(&stubScreen{title: "checklist"})
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "results"}})

	fresh := &stubScreen{title: "fresh"}
	r.Update(ResetMsg{Screen: fresh})

	if r.Depth() != 1 || r.Active().Title() != "fresh" {
		t.Errorf("expected single 'fresh' screen, got depth %d active %q", r.Depth(), r.Active().Title())
	}
}

func TestPopScreenMsg(t *testing.T) {
	r := New(&stubScreen{title: "checklist"})
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "results"}})
	r.Update(PopScreenMsg{})

	if r.Active().Title() != "checklist" {
		t.Errorf("expected active 'checklist', got %q", r.Active().Title())
	}
}
