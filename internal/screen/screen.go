// Package screen defines what the router needs from a terminal screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/huertalab/durazno/internal/ui/layout"
)

// Screen is one page of the terminal checklist.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only; the app draws header and footer.
	View(width, height int) string
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
