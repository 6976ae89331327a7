// Package checklist is the symptom form of the terminal checklist.
package checklist

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/inference"
	"github.com/huertalab/durazno/internal/router"
	"github.com/huertalab/durazno/internal/screen"
	"github.com/huertalab/durazno/internal/screens/results"
	"github.com/huertalab/durazno/internal/ui/components"
	"github.com/huertalab/durazno/internal/ui/layout"
	"github.com/huertalab/durazno/internal/ui/theme"
)

// ChecklistScreen lets the grower tick observed symptoms.
type ChecklistScreen struct {
	cat     *catalogue.Catalogue
	advisor *advice.Advisor
	list    components.Checklist
	filter  components.FilterInput
}

var _ screen.Screen = (*ChecklistScreen)(nil)
var _ screen.KeyHintProvider = (*ChecklistScreen)(nil)

// New lists every catalogue symptom, unchecked. advisor may be nil.
func New(cat *catalogue.Catalogue, advisor *advice.Advisor) *ChecklistScreen {
	symptoms := cat.Symptoms()
	items := make([]components.ChecklistItem, len(symptoms))
	for i, sym := range symptoms {
		items[i] = components.ChecklistItem{Key: sym.Key, Label: sym.Label, Description: sym.Description}
	}
	return &ChecklistScreen{
		cat:     cat,
		advisor: advisor,
		list:    components.NewChecklist(items),
		filter:  components.NewFilterInput("buscar síntoma", 40),
	}
}

func (s *ChecklistScreen) Init() tea.Cmd {
	return nil
}

func (s *ChecklistScreen) Title() string {
	return "Síntomas observados"
}

func (s *ChecklistScreen) KeyHints() []layout.KeyHint {
	if s.filter.Active() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Aplicar filtro"},
			{Key: "Esc", Description: "Quitar filtro"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Mover"},
		{Key: "Espacio", Description: "Marcar"},
		{Key: "/", Description: "Filtrar"},
		{Key: "Enter", Description: "Diagnosticar"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

// Observations returns the checked symptoms.
func (s *ChecklistScreen) Observations() inference.Observations {
	return inference.ObservationsFrom(s.list.Selected()...)
}

func (s *ChecklistScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return s, cmd
	}

	if s.filter.Active() {
		switch kmsg.String() {
		case "enter":
			s.filter.Deactivate()
		case "esc":
			s.filter.Clear()
		default:
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			s.list.SetFilter(s.filter.Query())
			return s, cmd
		}
		s.list.SetFilter(s.filter.Query())
		return s, nil
	}

	switch kmsg.String() {
	case "/":
		return s, s.filter.Activate()
	case "esc":
		s.filter.Clear()
		s.list.SetFilter("")
		return s, nil
	case "enter":
		next := results.New(s.cat, s.Observations(), s.advisor, func() screen.Screen {
			return New(s.cat, s.advisor)
		})
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ChecklistScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d de %d síntomas marcados", len(s.list.Selected()), len(s.list.Items))) + "\n")
	if f := s.filter.View(); f != "" {
		b.WriteString("  " + f + "\n")
	}
	b.WriteString("\n")
	b.WriteString(s.list.View())
	return b.String()
}
