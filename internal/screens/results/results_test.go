package results

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/inference"
	"github.com/huertalab/durazno/internal/logging"
	"github.com/huertalab/durazno/internal/router"
	"github.com/huertalab/durazno/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "checklist" }
func (s *stubScreen) Title() string                           { return "Checklist" }

func TestViewShowsEveryRuleAndRisk(t *testing.T) {
	obs := inference.ObservationsFrom("ramas_secas", "corteza_rajada", "muerte_planta")
	s := New(catalogue.Default(), obs, nil, nil)

	if s.Init() != nil {
		t.Error("static advice needs no init command")
	}
	view := s.View(120, 40)
	for _, want := range []string{"R1", "R2", "R3", "R4", "R5", "Confirmado", "No detectado", "100.0%", "Riesgo ambiental", "Alto", "bactericidas como cobre"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewWithoutMatches(t *testing.T) {
	s := New(catalogue.Default(), inference.Observations{}, nil, nil)
	view := s.View(120, 40)
	if !strings.Contains(view, "Ningún síntoma coincide") {
		t.Error("expected no-match hint")
	}
	if !strings.Contains(view, "Bajo") {
		t.Error("expected low risk")
	}
}

func TestAdvisorLoadsThroughInit(t *testing.T) {
	cat := catalogue.Default()
	advisor := advice.NewAdvisor(nil, cat, logging.Discard())
	s := New(cat, inference.ObservationsFrom("polvo_blanco", "manchas_hojas"), advisor, nil)

	if !strings.Contains(s.View(120, 40), "Consultando") {
		t.Error("advice should be pending before init completes")
	}
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected an advice command")
	}
	s.Update(cmd())
	if !strings.Contains(s.View(120, 40), "Miclobutanil o Trifloxistrobin") {
		t.Error("advice should be shown once loaded")
	}
}

func TestNewDiagnosisResetsRouter(t *testing.T) {
	fresh := &stubScreen{}
	s := New(catalogue.Default(), inference.Observations{}, nil, func() screen.Screen { return fresh })

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	reset, ok := cmd().(router.ResetMsg)
	if !ok {
		t.Fatalf("expected ResetMsg, got %T", cmd())
	}
	if reset.Screen != fresh {
		t.Error("reset should carry the restart screen")
	}
}
