package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/huertalab/durazno/internal/ui/theme"
)

// ChecklistItem is one toggleable entry.
type ChecklistItem struct {
	Key         string
	Label       string
	Description string
}

// Checklist is a vertical list of check boxes with an optional filter.
// The cursor indexes the visible (filtered) items.
type Checklist struct {
	Items   []ChecklistItem
	Checked map[string]bool
	Cursor  int
	filter  string
}

// NewChecklist creates an unchecked list.
func NewChecklist(items []ChecklistItem) Checklist {
	return Checklist{Items: items, Checked: make(map[string]bool)}
}

// Init returns nil.
func (c Checklist) Init() tea.Cmd {
	return nil
}

// SetFilter keeps only items whose label, key or description contains
// query. The cursor is clamped to the new visible range.
func (c *Checklist) SetFilter(query string) {
	c.filter = strings.ToLower(query)
	c.Cursor = min(c.Cursor, max(len(c.Visible())-1, 0))
}

// Visible returns the items matching the current filter, in list order.
func (c Checklist) Visible() []ChecklistItem {
	if c.filter == "" {
		return c.Items
	}
	var out []ChecklistItem
	for _, it := range c.Items {
		if strings.Contains(strings.ToLower(it.Label), c.filter) ||
			strings.Contains(it.Key, c.filter) ||
			strings.Contains(strings.ToLower(it.Description), c.filter) {
			out = append(out, it)
		}
	}
	return out
}

// Selected returns the checked keys in list order.
func (c Checklist) Selected() []string {
	var keys []string
	for _, it := range c.Items {
		if c.Checked[it.Key] {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Update moves the cursor and toggles the item under it.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	visible := c.Visible()
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(visible)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		if c.Cursor < len(visible) {
			key := visible[c.Cursor].Key
			c.Checked[key] = !c.Checked[key]
		}
	}
	return c, nil
}

// View renders the visible items; the focused one also shows its description.
func (c Checklist) View() string {
	visible := c.Visible()
	if len(visible) == 0 {
		return theme.Hint.Render("  Ningún síntoma coincide con el filtro.") + "\n"
	}

	var b strings.Builder
	for i, it := range visible {
		box := "[ ]"
		if c.Checked[it.Key] {
			box = theme.Checked.Render("[x]")
		}
		prefix := "  "
		style := theme.Unselected
		if i == c.Cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(prefix + box + " " + style.Render(it.Label) + "\n")
		if i == c.Cursor && it.Description != "" {
			b.WriteString("      " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(it.Description) + "\n")
		}
	}
	return b.String()
}
