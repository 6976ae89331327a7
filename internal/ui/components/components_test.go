package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func testItems() []ChecklistItem {
	return []ChecklistItem{
		{Key: "manchas_hojas", Label: "Manchas en hojas"},
		{Key: "polvo_blanco", Label: "Polvo blanco", Description: "Micelio sobre brotes"},
		{Key: "plagas", Label: "Insectos visibles"},
	}
}

func TestChecklist_ToggleAndSelected(t *testing.T) {
	c := NewChecklist(testItems())

	c, _ = c.Update(key("down"))
	c, _ = c.Update(key("space"))
	c, _ = c.Update(key("down"))
	c, _ = c.Update(key("x"))

	got := c.Selected()
	if len(got) != 2 || got[0] != "polvo_blanco" || got[1] != "plagas" {
		t.Errorf("unexpected selection %v", got)
	}

	c, _ = c.Update(key("space"))
	if len(c.Selected()) != 1 {
		t.Errorf("second toggle should uncheck, got %v", c.Selected())
	}
}

func TestChecklist_CursorBounds(t *testing.T) {
	c := NewChecklist(testItems())
	c, _ = c.Update(key("up"))
	if c.Cursor != 0 {
		t.Errorf("cursor should stay at 0, got %d", c.Cursor)
	}
	for i := 0; i < 5; i++ {
		c, _ = c.Update(key("down"))
	}
	if c.Cursor != 2 {
		t.Errorf("cursor should stop at 2, got %d", c.Cursor)
	}
}

func TestChecklist_Filter(t *testing.T) {
	c := NewChecklist(testItems())
	c.Cursor = 2
	c.SetFilter("Polvo")

	visible := c.Visible()
	if len(visible) != 1 || visible[0].Key != "polvo_blanco" {
		t.Fatalf("unexpected visible items %v", visible)
	}
	if c.Cursor != 0 {
		t.Errorf("cursor should be clamped, got %d", c.Cursor)
	}

	c, _ = c.Update(key("space"))
	if !c.Checked["polvo_blanco"] {
		t.Error("toggle should apply to the filtered item")
	}

	c.SetFilter("micelio")
	if len(c.Visible()) != 1 {
		t.Error("filter should match descriptions")
	}

	c.SetFilter("zzz")
	if !strings.Contains(c.View(), "Ningún síntoma") {
		t.Error("empty filter result should say so")
	}
}

func TestChecklist_ViewMarksChecked(t *testing.T) {
	c := NewChecklist(testItems())
	c.Checked["plagas"] = true
	view := c.View()
	if !strings.Contains(view, "[x]") || !strings.Contains(view, "Insectos visibles") {
		t.Errorf("unexpected view %q", view)
	}
	if !strings.Contains(view, "▸ ") {
		t.Error("cursor marker missing")
	}
}

func TestScoreBar(t *testing.T) {
	bar := NewScoreBar("R3", 0.708, nil, 40).View()
	if !strings.Contains(bar, "R3") || !strings.Contains(bar, "70.8%") {
		t.Errorf("unexpected bar %q", bar)
	}
}

func TestFilterInput(t *testing.T) {
	f := NewFilterInput("buscar", 20)
	if f.Active() {
		t.Fatal("filter should start inactive")
	}

	f, _ = f.Update(key("a"))
	if f.Query() != "" {
		t.Error("inactive filter should ignore keys")
	}

	f.Activate()
	for _, r := range "Polvo" {
		f, _ = f.Update(key(string(r)))
	}
	if f.Query() != "polvo" {
		t.Errorf("expected query 'polvo', got %q", f.Query())
	}

	f.Deactivate()
	if !strings.Contains(f.View(), "polvo") {
		t.Error("inactive view should show the applied query")
	}

	f.Clear()
	if f.Query() != "" || f.Active() {
		t.Error("clear should reset the filter")
	}
}
