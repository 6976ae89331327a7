package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/huertalab/durazno/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a one-line search box.
type FilterInput struct {
	Model  textinput.Model
	active bool
}

// NewFilterInput creates an inactive filter input.
func NewFilterInput(placeholder string, charLimit int) FilterInput {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return FilterInput{Model: ti}
}

// Activate focuses the input for typing.
func (f *FilterInput) Activate() tea.Cmd {
	f.active = true
	return f.Model.Focus()
}

// Deactivate stops typing but keeps the current query.
func (f *FilterInput) Deactivate() {
	f.active = false
	f.Model.Blur()
}

// Clear empties the query and deactivates the input.
func (f *FilterInput) Clear() {
	f.Model.SetValue("")
	f.Deactivate()
}

// Active reports whether keystrokes go to the input.
func (f FilterInput) Active() bool {
	return f.active
}

// Update forwards messages to the text input while active.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	if !f.active {
		return f, nil
	}
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input, or the applied query when inactive.
func (f FilterInput) View() string {
	if f.active {
		return f.Model.View()
	}
	if q := f.Query(); q != "" {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("filtro: " + q)
	}
	return ""
}

// Query returns the lower-cased, trimmed filter text.
func (f FilterInput) Query() string {
	return strings.ToLower(strings.TrimSpace(f.Model.Value()))
}
