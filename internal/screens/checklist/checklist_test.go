package checklist

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/router"
	"github.com/huertalab/durazno/internal/screens/results"
)

func press(s *ChecklistScreen, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(k)
	}
	return cmd
}

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var (
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	space = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	esc   = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func TestListsEveryCatalogueSymptom(t *testing.T) {
	s := New(catalogue.Default(), nil)
	view := s.View(100, 40)
	if !strings.Contains(view, "0 de 14") {
		t.Errorf("expected counter for 14 symptoms, got %q", view)
	}
	if len(s.Observations()) != 0 {
		t.Error("nothing should be checked at start")
	}
}

func TestToggleSymptoms(t *testing.T) {
	s := New(catalogue.Default(), nil)
	press(s, space, down, space)

	obs := s.Observations()
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %v", obs)
	}
	if !strings.Contains(s.View(100, 40), "2 de 14") {
		t.Error("counter should reflect checked symptoms")
	}
}

func TestFilterThenToggle(t *testing.T) {
	s := New(catalogue.Default(), nil)
	press(s, runeKey('/'))
	if !s.filter.Active() {
		t.Fatal("slash should open the filter")
	}
	for _, r := range "polvo" {
		press(s, runeKey(r))
	}
	press(s, enter)
	if s.filter.Active() {
		t.Fatal("enter should close the filter")
	}
	if got := len(s.list.Visible()); got != 1 {
		t.Fatalf("expected 1 visible symptom, got %d", got)
	}

	press(s, space)
	if !s.Observations()["polvo_blanco"] {
		t.Errorf("expected polvo_blanco checked, got %v", s.Observations())
	}

	press(s, esc)
	if got := len(s.list.Visible()); got != 14 {
		t.Errorf("esc should clear the filter, %d visible", got)
	}
	if !s.Observations()["polvo_blanco"] {
		t.Error("clearing the filter must keep selections")
	}
}

func TestEnterPushesResults(t *testing.T) {
	s := New(catalogue.Default(), nil)
	// ramas_secas, corteza_rajada and muerte_planta are 7th to 9th in catalogue order.
	var keys []tea.KeyPressMsg
	for i := 0; i < 6; i++ {
		keys = append(keys, down)
	}
	keys = append(keys, space, down, space, down, space)
	press(s, keys...)

	cmd := press(s, enter)
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	res, ok := push.Screen.(*results.ResultsScreen)
	if !ok {
		t.Fatalf("expected results screen, got %T", push.Screen)
	}
	r3 := res.Scores()[2]
	if r3.RuleID != "R3" || r3.Score < 0.999 {
		t.Errorf("expected R3 fully matched, got %+v", r3)
	}
}
