package ui

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetdata"
	"github.com/litescript/ls-orrery/internal/sim"
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Every planet and the sun
)

// String returns the HUD label for the mode.
func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	default:
		return "all"
	}
}

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const (
	defaultZoomLevel = 3    // Index of 1.0 in zoomLevels
	aspectY          = 0.5  // Terminal cells are about twice as tall as wide
	starCount        = 240  // Background stars
	starSeedSalt     = 0x5a // Keeps the starfield independent of the belt draw
)

// star is a background star at a fixed viewport position in [-1, 1].
type star struct {
	x, y float64
	mag  float64
}

// OrbitModel renders a top-down view of the simulated system.
type OrbitModel struct {
	width  int
	height int

	frame   sim.Frame
	planets []sim.BodyState // Planet bodies in dataset order
	dataset *planetdata.Dataset
	palette []string
	outerAU float64
	stars   []star
	camera  Camera

	// View state
	focusIdx   int     // Index in planets (-1 = Sun)
	popupIdx   int     // Planet shown in the inspect popup (-1 = closed)
	zoomLevel  int     // Index into zoomLevels
	panX       float64 // Pan offset in display units
	panY       float64
	scaleMode  astro.ScaleMode
	labelMode  LabelMode
	userPanned bool // True if user has manually panned (disables follow)
	showStars  bool
	showRings  bool
	showBelt   bool
}

// NewOrbitModel creates a new orbit view model. The starfield is drawn from
// seed.
func NewOrbitModel(seed uint64) OrbitModel {
	rng := rand.New(rand.NewPCG(seed, starSeedSalt))
	stars := make([]star, starCount)
	for i := range stars {
		stars[i] = star{
			x:   rng.Float64()*2 - 1,
			y:   rng.Float64()*2 - 1,
			mag: rng.Float64() * 5,
		}
	}

	return OrbitModel{
		stars:     stars,
		camera:    NewCamera(false),
		outerAU:   1,
		focusIdx:  -1, // Start focused on Sun
		popupIdx:  -1,
		zoomLevel: defaultZoomLevel,
		scaleMode: astro.ScaleLogR,
		labelMode: LabelAll,
		showStars: true,
		showRings: true,
		showBelt:  true,
	}
}

// scale returns the current zoom scale.
func (m OrbitModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m OrbitModel) SetSize(width, height int) OrbitModel {
	m.width = width
	m.height = height
	return m
}

// SetDataset attaches the planet descriptors shown in the popup.
func (m OrbitModel) SetDataset(ds *planetdata.Dataset) OrbitModel {
	m.dataset = ds
	if ds != nil {
		m.palette = planetPalette(len(ds.Planets))
	}
	return m
}

// SetCamera updates the fly-in camera.
func (m OrbitModel) SetCamera(c Camera) OrbitModel {
	m.camera = c
	return m
}

// UpdateFrame replaces the rendered frame. Unless the user has panned, the
// view follows the focused body.
func (m OrbitModel) UpdateFrame(f sim.Frame) OrbitModel {
	m.frame = f
	planets := make([]sim.BodyState, 0, len(m.planets))
	outer := 1.0
	for _, b := range f.Bodies {
		if b.Kind != orbit.KindPlanet.String() {
			continue
		}
		planets = append(planets, b)
		outer = math.Max(outer, b.Radius)
	}
	m.planets = planets
	m.outerAU = outer
	if m.focusIdx >= len(m.planets) {
		m.focusIdx = -1
	}
	if !m.userPanned {
		m.centerOnFocused()
	}
	return m
}

// Update handles input messages.
func (m OrbitModel) Update(msg tea.Msg) (OrbitModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Focus navigation
		case "j", "[":
			m.focusPrev()
		case "k", "]":
			m.focusNext()

		// Inspect popup: one at a time
		case "enter":
			if m.focusIdx >= 0 {
				m.popupIdx = m.focusIdx
			}
		case "x", "esc":
			m.popupIdx = -1

		// Viewport panning
		case "up":
			m.panY -= 0.1 / m.scale()
			m.userPanned = true
		case "down":
			m.panY += 0.1 / m.scale()
			m.userPanned = true
		case "left":
			m.panX -= 0.1 / m.scale()
			m.userPanned = true
		case "right":
			m.panX += 0.1 / m.scale()
			m.userPanned = true
		case "c":
			m.panX, m.panY = 0, 0 // Center on Sun
			m.userPanned = true

		// Find: resume following the focused body
		case "f":
			m.centerOnFocused()
			m.userPanned = false

		// Zoom (discrete levels)
		case "+", "=":
			if m.zoomLevel < len(zoomLevels)-1 {
				m.zoomLevel++
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
			}
		case "0":
			m.zoomLevel = defaultZoomLevel

		// Scale mode toggle
		case "z":
			m.scaleMode = (m.scaleMode + 1) % 3
			if !m.userPanned {
				m.centerOnFocused()
			}

		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "t":
			m.showStars = !m.showStars
		case "o":
			m.showRings = !m.showRings
		case "b":
			m.showBelt = !m.showBelt

		// Reset everything
		case "r":
			m.panX, m.panY = 0, 0
			m.zoomLevel = defaultZoomLevel
			m.focusIdx = -1
			m.userPanned = false
		}
	}
	return m, nil
}

func (m *OrbitModel) focusNext() {
	if len(m.planets) == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= len(m.planets) {
		m.focusIdx = -1 // Wrap to Sun
	}
	m.centerOnFocused()
	m.userPanned = false
}

func (m *OrbitModel) focusPrev() {
	if len(m.planets) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = len(m.planets) - 1
	}
	m.centerOnFocused()
	m.userPanned = false
}

// centerOnFocused pans the view to center on the currently focused body.
func (m *OrbitModel) centerOnFocused() {
	if m.focusIdx < 0 || m.focusIdx >= len(m.planets) {
		// Sun is at origin, just reset pan
		m.panX, m.panY = 0, 0
		return
	}

	b := m.planets[m.focusIdx]
	proj := astro.ProjectTopDown(astro.Vec3{X: b.X, Y: b.Y, Z: b.Z}, m.projection())
	m.panX = -proj.X
	m.panY = -proj.Y
}

func (m OrbitModel) projection() astro.ProjectionConfig {
	return astro.ProjectionConfig{Scale: 1, Mode: m.scaleMode}
}

// View renders the orbit view.
func (m OrbitModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orbit view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

// cellKind selects the style a canvas cell is drawn with.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellStar
	cellRing
	cellAsteroid
	cellPlanet
	cellFocus
	cellSun
	cellLabel
)

type cell struct {
	ch    rune
	kind  cellKind
	color string // Planet colour; empty for the kind's default
}

// bodyPos tracks a body's screen position for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
}

// canvasGeometry maps display units to screen cells.
type canvasGeometry struct {
	w, h             int
	originX, originY int
	displayScale     float64
}

func (g canvasGeometry) toScreen(p astro.ProjectedPoint) (int, int) {
	sx := g.originX + int(math.Round(p.X*g.displayScale))
	sy := g.originY - int(math.Round(p.Y*g.displayScale*aspectY))
	return sx, sy
}

func (g canvasGeometry) inside(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (m OrbitModel) geometry() canvasGeometry {
	// Reserve space for the HUD (2 lines)
	h := m.height - 2
	if h < 5 {
		h = 5
	}
	w := m.width
	cx, cy := w/2, h/2

	maxDisplayR := float64(min(cx, int(float64(cy)/aspectY))) * 0.9
	displayScale := maxDisplayR / astro.MaxDisplayRadius(m.outerAU, m.scaleMode) * m.scale() * m.camera.Zoom()

	return canvasGeometry{
		w:            w,
		h:            h,
		originX:      cx + int(math.Round(m.panX*displayScale)),
		originY:      cy - int(math.Round(m.panY*displayScale*aspectY)),
		displayScale: displayScale,
	}
}

// buildCanvas renders the system to a string canvas.
func (m OrbitModel) buildCanvas() string {
	g := m.geometry()

	grid := make([][]cell, g.h)
	for y := range grid {
		grid[y] = make([]cell, g.w)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	if m.showStars {
		m.drawStarfield(grid, g)
	}
	if m.showRings {
		m.drawOrbitRings(grid, g)
	}
	if m.showBelt {
		m.drawBelt(grid, g)
	}

	var positions []bodyPos
	cfg := m.projection()
	for i, b := range m.planets {
		proj := astro.ProjectTopDown(astro.Vec3{X: b.X, Y: b.Y, Z: b.Z}, cfg)
		sx, sy := g.toScreen(proj)
		if !g.inside(sx, sy) {
			continue
		}

		focused := i == m.focusIdx
		c := cell{ch: planetGlyph(b.Size, focused), kind: cellPlanet, color: m.planetColor(i)}
		if focused {
			c.kind = cellFocus
		}
		grid[sy][sx] = c
		positions = append(positions, bodyPos{x: sx, y: sy, name: b.Name, isFocused: focused})
	}

	// Draw Sun at the panned origin last so it's always visible
	if g.inside(g.originX, g.originY) {
		grid[g.originY][g.originX] = cell{ch: '☉', kind: cellSun}
		positions = append(positions, bodyPos{
			x:         g.originX,
			y:         g.originY,
			name:      "Sun",
			isFocused: m.focusIdx == -1,
		})
	}

	m.renderLabels(grid, positions)

	return renderGrid(grid)
}

func (m OrbitModel) drawOrbitRings(grid [][]cell, g canvasGeometry) {
	for _, b := range m.planets {
		r := astro.ScaleRadius(b.Radius, m.scaleMode) * g.displayScale
		drawCircle(grid, g, r)
	}
}

func drawCircle(grid [][]cell, g canvasGeometry, r float64) {
	if r < 1 {
		return
	}

	steps := int(2 * math.Pi * r)
	if steps < 8 {
		steps = 8
	}
	if steps > 720 {
		steps = 720
	}

	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := g.originX + int(math.Round(r*math.Cos(theta)))
		y := g.originY - int(math.Round(r*math.Sin(theta)*aspectY))

		if g.inside(x, y) && grid[y][x].kind == cellEmpty {
			grid[y][x] = cell{ch: '·', kind: cellRing}
		}
	}
}

func (m OrbitModel) drawBelt(grid [][]cell, g canvasGeometry) {
	cfg := m.projection()
	for _, b := range m.frame.Bodies {
		if b.Kind != orbit.KindAsteroid.String() {
			continue
		}
		proj := astro.ProjectTopDown(astro.Vec3{X: b.X, Y: b.Y, Z: b.Z}, cfg)
		sx, sy := g.toScreen(proj)
		if !g.inside(sx, sy) {
			continue
		}
		if k := grid[sy][sx].kind; k == cellEmpty || k == cellStar || k == cellRing {
			grid[sy][sx] = cell{ch: '∙', kind: cellAsteroid}
		}
	}
}

// drawStarfield scatters the fixed background stars across the viewport.
// Stars sit at infinity, so pan and zoom don't move them.
func (m OrbitModel) drawStarfield(grid [][]cell, g canvasGeometry) {
	for _, s := range m.stars {
		x := int((s.x + 1) / 2 * float64(g.w-1))
		y := int((s.y + 1) / 2 * float64(g.h-1))
		if !g.inside(x, y) || grid[y][x].kind != cellEmpty {
			continue
		}
		if glyph := starGlyph(s.mag); glyph != ' ' {
			grid[y][x] = cell{ch: glyph, kind: cellStar}
		}
	}
}

// starGlyph returns a subtle glyph based on star magnitude.
// Brighter stars (lower magnitude) get slightly more prominent glyphs.
func starGlyph(mag float64) rune {
	switch {
	case mag <= 1.0:
		return '∗'
	case mag <= 2.5:
		return '.'
	case mag <= 3.5:
		return '˙'
	default:
		return ' ' // Very dim: skip to avoid clutter
	}
}

func planetGlyph(size float64, focused bool) rune {
	if size >= 1 {
		if focused {
			return '◉'
		}
		return '○'
	}
	if focused {
		return '●'
	}
	return '•'
}

// renderLabels draws body labels on the canvas based on label mode.
func (m OrbitModel) renderLabels(grid [][]cell, positions []bodyPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}
	h := len(grid)
	w := len(grid[0])

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}

		labelX := pos.x + 2
		labelY := pos.y
		if labelY < 0 || labelY >= h || labelX >= w {
			continue
		}

		text := pos.name
		if pos.isFocused {
			text = "◄ " + pos.name
		}

		x := labelX
		for _, r := range text {
			if x >= w {
				break
			}
			switch grid[labelY][x].kind {
			case cellEmpty, cellStar, cellRing, cellAsteroid:
				grid[labelY][x] = cell{ch: r, kind: cellLabel}
			}
			x++
		}
	}
}

var (
	ringStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	starStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("236")) // Very dim for stars
	asteroidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("137"))
	sunStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	planetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
)

func cellStyle(c cell) lipgloss.Style {
	switch c.kind {
	case cellStar:
		return starStyle
	case cellRing:
		return ringStyle
	case cellAsteroid:
		return asteroidStyle
	case cellSun:
		return sunStyle
	case cellPlanet:
		if c.color != "" {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(c.color))
		}
		return planetStyle
	case cellFocus:
		return focusStyle
	default:
		return labelStyle
	}
}

// renderGrid styles runs of like cells together rather than cell by cell.
func renderGrid(grid [][]cell) string {
	var b strings.Builder
	var run strings.Builder

	for _, row := range grid {
		cur := cell{kind: cellEmpty}
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.kind == cellEmpty {
				b.WriteString(run.String())
			} else {
				b.WriteString(cellStyle(cur).Render(run.String()))
			}
			run.Reset()
		}

		for _, c := range row {
			if c.kind != cur.kind || c.color != cur.color {
				flush()
				cur = c
			}
			run.WriteRune(c.ch)
		}
		flush()
		b.WriteRune('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m OrbitModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if focused, ok := m.FocusedBody(); ok {
		b.WriteString(headerStyle.Render("● " + focused.Name))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Distance: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f AU", focused.Radius)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Angle: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", focused.AngleDeg)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Light Time: "))
		b.WriteString(valueStyle.Render(astro.FormatLightTime(astro.LightTimeFromAU(focused.Radius))))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("[enter] inspect"))
	} else {
		b.WriteString(headerStyle.Render("☉ Sun"))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Spin: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", astro.NormalizeDeg(astro.RadToDeg(m.frame.SunRotation)))))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("(%d planets, %d asteroids)", len(m.planets), len(m.frame.Bodies)-len(m.planets))))
	}
	b.WriteString("\n")

	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	b.WriteString(dimStyle.Render("Mode:"))
	b.WriteString(valueStyle.Render(m.scaleMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(m.labelMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Rings:"))
	b.WriteString(valueStyle.Render(onOff(m.showRings)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Belt:"))
	b.WriteString(valueStyle.Render(onOff(m.showBelt)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Stars:"))
	b.WriteString(valueStyle.Render(onOff(m.showStars)))
	if !m.camera.Done() {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Approach: %.0f", m.camera.Distance())))
	}

	return b.String()
}

// PopupView renders the inspect popup, or "" when it is closed.
func (m OrbitModel) PopupView(width int) string {
	p, ok := m.PopupPlanet()
	if !ok {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.planetColor(m.popupIdx))).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	row := func(k, v string) string {
		return keyStyle.Render(k+":") + " " + valueStyle.Render(v)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(p.DisplayName()),
		"",
		row("Temperature", p.Temperature.String()),
		row("Mass", p.Mass.String()),
		row("Radius", p.Radius.String()),
		row("Orbital Period", p.Period.String()+" days"),
		row("Semi-Major Axis", p.SemiMajorAxis.String()+" AU"),
		"",
		dimStyle.Render("[x] Close"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7B2CBF")).
		Padding(0, 1).
		Width(width - 2).
		Render(body)
}

// PopupPlanet returns the planet shown in the popup.
func (m OrbitModel) PopupPlanet() (planetdata.Planet, bool) {
	if m.popupIdx < 0 || m.dataset == nil || m.popupIdx >= len(m.dataset.Planets) {
		return planetdata.Planet{}, false
	}
	return m.dataset.Planets[m.popupIdx], true
}

// FocusedBody returns the focused planet, or false for the Sun.
func (m OrbitModel) FocusedBody() (sim.BodyState, bool) {
	if m.focusIdx >= 0 && m.focusIdx < len(m.planets) {
		return m.planets[m.focusIdx], true
	}
	return sim.BodyState{}, false
}

// ShowRings returns whether orbit rings are drawn.
func (m OrbitModel) ShowRings() bool {
	return m.showRings
}

func (m OrbitModel) planetColor(i int) string {
	if i < 0 || i >= len(m.palette) {
		return ""
	}
	return m.palette[i]
}

// planetPalette spaces n planet colours evenly around the HCL hue wheel so
// neighbours stay distinguishable at equal lightness.
func planetPalette(n int) []string {
	out := make([]string, n)
	for i := range out {
		h := math.Mod(30+float64(i)*360/float64(max(n, 1)), 360)
		out[i] = colorful.Hcl(h, 0.5, 0.75).Clamped().Hex()
	}
	return out
}
