package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetdata"
	"github.com/litescript/ls-orrery/internal/sim"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestSimulation(t *testing.T) *sim.Simulation {
	t.Helper()
	belt := orbit.DefaultBeltConfig()
	belt.Count = 50
	s, err := sim.New(planetdata.NewDataset(planetdata.BasePlanets(), time.Time{}), belt, 7)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	return s
}

func newTestOrbitModel(t *testing.T) OrbitModel {
	t.Helper()
	s := newTestSimulation(t)
	return NewOrbitModel(1).SetSize(120, 40).SetDataset(s.Dataset()).UpdateFrame(s.Frame())
}

func TestOrbitModelInit(t *testing.T) {
	m := NewOrbitModel(1)

	if m.focusIdx != -1 {
		t.Errorf("expected focusIdx -1 (Sun), got %d", m.focusIdx)
	}
	if m.popupIdx != -1 {
		t.Errorf("expected popup closed, got %d", m.popupIdx)
	}
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0, got %f", m.scale())
	}
	if m.scaleMode != astro.ScaleLogR {
		t.Errorf("expected ScaleLogR, got %d", m.scaleMode)
	}
	if !m.ShowRings() || !m.showBelt || !m.showStars {
		t.Error("rings, belt and stars should start visible")
	}
	if len(m.stars) != starCount {
		t.Errorf("expected %d stars, got %d", starCount, len(m.stars))
	}
}

func TestOrbitModelStarfieldSeeded(t *testing.T) {
	a := NewOrbitModel(3)
	b := NewOrbitModel(3)
	c := NewOrbitModel(4)

	if a.stars[0] != b.stars[0] {
		t.Error("same seed produced different starfields")
	}
	if a.stars[0] == c.stars[0] {
		t.Error("different seeds produced the same first star")
	}
}

func TestOrbitModelUpdateFrame(t *testing.T) {
	m := newTestOrbitModel(t)

	if len(m.planets) != 8 {
		t.Fatalf("expected 8 planets, got %d", len(m.planets))
	}
	if m.planets[0].Name != "Mercury" || m.planets[7].Name != "Neptune" {
		t.Errorf("planets out of order: %s .. %s", m.planets[0].Name, m.planets[7].Name)
	}
	if m.outerAU != m.planets[7].Radius {
		t.Errorf("outerAU = %v, want Neptune's radius %v", m.outerAU, m.planets[7].Radius)
	}
}

func TestOrbitModelFocusNavigation(t *testing.T) {
	m := newTestOrbitModel(t)

	m, _ = m.Update(keyRune('k'))
	if m.focusIdx != 0 {
		t.Errorf("after next, expected focusIdx 0, got %d", m.focusIdx)
	}
	body, ok := m.FocusedBody()
	if !ok || body.Name != "Mercury" {
		t.Errorf("FocusedBody = %v, %v", body.Name, ok)
	}

	m, _ = m.Update(keyRune('k'))
	if m.focusIdx != 1 {
		t.Errorf("after next again, expected focusIdx 1, got %d", m.focusIdx)
	}

	m, _ = m.Update(keyRune('j'))
	m, _ = m.Update(keyRune('j'))
	if m.focusIdx != -1 {
		t.Errorf("expected focus back on Sun, got %d", m.focusIdx)
	}

	// Wraps from Sun to the outermost planet
	m, _ = m.Update(keyRune('j'))
	if m.focusIdx != 7 {
		t.Errorf("expected wrap to 7, got %d", m.focusIdx)
	}
}

func TestOrbitModelFollowsFocus(t *testing.T) {
	s := newTestSimulation(t)
	m := NewOrbitModel(1).SetSize(120, 40).SetDataset(s.Dataset()).UpdateFrame(s.Frame())

	m, _ = m.Update(keyRune('k')) // Mercury
	before := m.panX

	s.Transport().SetSpeed(5)
	for i := 0; i < 50; i++ {
		s.Step()
	}
	m = m.UpdateFrame(s.Frame())
	if m.panX == before {
		t.Error("view did not follow the focused planet")
	}

	// Manual pan stops following
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	panned := m.panX
	s.Step()
	m = m.UpdateFrame(s.Frame())
	if m.panX != panned {
		t.Errorf("panX changed after manual pan: %v -> %v", panned, m.panX)
	}

	// Find resumes following
	m, _ = m.Update(keyRune('f'))
	if m.userPanned {
		t.Error("find should resume following")
	}
}

func TestOrbitModelZoom(t *testing.T) {
	m := NewOrbitModel(1)

	m, _ = m.Update(keyRune('+'))
	if m.scale() != 1.5 {
		t.Errorf("expected scale 1.5 after zoom in, got %f", m.scale())
	}

	m, _ = m.Update(keyRune('-'))
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0 after zoom out, got %f", m.scale())
	}

	m, _ = m.Update(keyRune('+'))
	m, _ = m.Update(keyRune('+'))
	m, _ = m.Update(keyRune('0'))
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0 after reset, got %f", m.scale())
	}
}

func TestOrbitModelPan(t *testing.T) {
	m := NewOrbitModel(1)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.panX <= 0 {
		t.Errorf("expected panX > 0 after pan right, got %f", m.panX)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.panY >= 0 {
		t.Errorf("expected panY < 0 after pan up, got %f", m.panY)
	}

	m, _ = m.Update(keyRune('r'))
	if m.panX != 0 || m.panY != 0 || m.userPanned {
		t.Errorf("reset left pan (%f, %f) userPanned=%v", m.panX, m.panY, m.userPanned)
	}
}

func TestOrbitModelToggles(t *testing.T) {
	m := NewOrbitModel(1)

	tests := []struct {
		key  rune
		get  func(OrbitModel) bool
		name string
	}{
		{'o', func(m OrbitModel) bool { return m.showRings }, "rings"},
		{'b', func(m OrbitModel) bool { return m.showBelt }, "belt"},
		{'t', func(m OrbitModel) bool { return m.showStars }, "stars"},
	}

	for _, tt := range tests {
		before := tt.get(m)
		m, _ = m.Update(keyRune(tt.key))
		if tt.get(m) == before {
			t.Errorf("%c did not toggle %s", tt.key, tt.name)
		}
	}

	m, _ = m.Update(keyRune('z'))
	if m.scaleMode != astro.ScaleInner {
		t.Errorf("expected ScaleInner after z, got %v", m.scaleMode)
	}
	m, _ = m.Update(keyRune('l'))
	if m.labelMode != LabelNone {
		t.Errorf("expected LabelNone after l, got %v", m.labelMode)
	}
}

func TestOrbitModelPopup(t *testing.T) {
	m := newTestOrbitModel(t)

	// Enter on the Sun opens nothing
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.PopupView(36) != "" {
		t.Error("popup opened for the Sun")
	}

	m, _ = m.Update(keyRune('k'))
	m, _ = m.Update(keyRune('k')) // Venus
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p, ok := m.PopupPlanet()
	if !ok || p.DisplayName() != "Venus" {
		t.Fatalf("PopupPlanet = %v, %v", p.Name, ok)
	}

	view := m.PopupView(36)
	for _, want := range []string{
		"Venus",
		"Temperature:",
		"Mass:",
		"Radius:",
		"Orbital Period: N/A days",
		"Semi-Major Axis: N/A AU",
		"[x] Close",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("popup missing %q:\n%s", want, view)
		}
	}

	// Opening another replaces it
	m, _ = m.Update(keyRune('k'))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p, _ := m.PopupPlanet(); p.DisplayName() != "Earth" {
		t.Errorf("popup shows %s, want Earth", p.DisplayName())
	}

	m, _ = m.Update(keyRune('x'))
	if _, ok := m.PopupPlanet(); ok {
		t.Error("x did not close the popup")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.PopupPlanet(); ok {
		t.Error("esc did not close the popup")
	}
}

func TestOrbitModelView(t *testing.T) {
	m := newTestOrbitModel(t)

	view := m.View()
	if !strings.Contains(view, "☉") {
		t.Error("view missing Sun glyph")
	}
	if !strings.Contains(view, "Mode:") || !strings.Contains(view, "Belt:") {
		t.Error("view missing HUD")
	}

	small := m.SetSize(20, 5).View()
	if small != "Terminal too small for orbit view" {
		t.Errorf("small view = %q", small)
	}
}

func TestOrbitModelHUDFocused(t *testing.T) {
	m := newTestOrbitModel(t)
	m, _ = m.Update(keyRune('k'))
	m, _ = m.Update(keyRune('k'))
	m, _ = m.Update(keyRune('k')) // Earth

	hud := m.renderHUD()
	for _, want := range []string{"Earth", "Distance:", "Light Time:"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD missing %q:\n%s", want, hud)
		}
	}
}

func TestStarGlyph(t *testing.T) {
	tests := []struct {
		mag  float64
		want rune
	}{
		{0.5, '∗'},
		{2.0, '.'},
		{3.0, '˙'},
		{4.5, ' '},
	}

	for _, tt := range tests {
		if got := starGlyph(tt.mag); got != tt.want {
			t.Errorf("starGlyph(%v) = %q, want %q", tt.mag, got, tt.want)
		}
	}
}

func TestPlanetPalette(t *testing.T) {
	p := planetPalette(8)
	if len(p) != 8 {
		t.Fatalf("expected 8 colours, got %d", len(p))
	}
	seen := make(map[string]bool)
	for _, c := range p {
		if len(c) != 7 || c[0] != '#' {
			t.Errorf("bad colour %q", c)
		}
		if seen[c] {
			t.Errorf("duplicate colour %q", c)
		}
		seen[c] = true
	}
}

func TestRenderGridBatchesRuns(t *testing.T) {
	grid := [][]cell{
		{{ch: 'a', kind: cellLabel}, {ch: 'b', kind: cellLabel}, {ch: ' '}},
		{{ch: ' '}, {ch: ' '}, {ch: ' '}},
	}
	out := renderGrid(grid)
	if !strings.Contains(out, "ab") {
		t.Errorf("label run split: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("trailing newline")
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 2 rows, got %q", out)
	}
}
