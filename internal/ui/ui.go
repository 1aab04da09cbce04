// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/transport"
	"github.com/litescript/ls-orrery/internal/version"
)

// Msg types for Bubble Tea
type (
	// FrameTickMsg advances the simulation by one step.
	FrameTickMsg time.Time

	// AnimTickMsg triggers spinner and shimmer updates.
	AnimTickMsg time.Time

	// DataLoadedMsg signals the planet data load finished.
	DataLoadedMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a load error.
	ErrorMsg struct {
		Error error
	}
)

// FramePublisher receives frames for external renderers.
type FramePublisher interface {
	Broadcast(sim.Frame) error
}

// Options configures the root model.
type Options struct {
	Belt  orbit.BeltConfig
	Seed  uint64
	FlyIn bool

	Metrics *metrics.Collector // May be nil

	Publisher        FramePublisher // May be nil
	PublishEvery     int            // Publish every N ticks
	PublishAsteroids bool

	Assistant        Asker // nil disables the panel
	AssistantTimeout time.Duration

	Logger *logging.Logger
}

// DefaultOptions returns options with the default belt and fly-in enabled.
func DefaultOptions() Options {
	return Options{
		Belt:         orbit.DefaultBeltConfig(),
		Seed:         1,
		FlyIn:        true,
		PublishEvery: 1,
	}
}

const (
	sidebarWidth    = 36
	recentEventRows = 3
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager
	opts  Options
	log   *logging.Logger

	// UI state
	width    int
	height   int
	ready    bool
	launched bool
	animTick int // Animation tick for spinner and shimmer effects

	// Planet data load
	snapshot state.Snapshot
	loadErr  error
	simErr   error

	// Simulation, created on launch once data is loaded
	sim    *sim.Simulation
	slider transport.Slider
	camera Camera

	// Sub-models
	orbit     OrbitModel
	assistant AssistantPanel
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opts.PublishEvery < 1 {
		opts.PublishEvery = 1
	}

	return Model{
		state:  stateMgr,
		opts:   opts,
		log:    log.With("ui"),
		slider: transport.DefaultSlider(),
		camera: NewCamera(false),
		orbit:  NewOrbitModel(opts.Seed),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameTickCmd(m.state.FrameInterval()),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.assistant.Typing() {
			cmds = append(cmds, m.handleAssistantKey(msg))
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit

		case "a":
			if m.opts.Assistant != nil {
				m.assistant = m.assistant.Toggle()
			}
		case "i":
			if m.opts.Assistant != nil {
				m.assistant = m.assistant.StartTyping()
			}

		case "<", ",", " ", ".", ">", "{", "}":
			if m.launched {
				m.handleTransportKey(msg.String())
			} else if msg.String() == " " {
				cmds = append(cmds, m.launch())
			}

		case "enter":
			if !m.launched {
				cmds = append(cmds, m.launch())
				break
			}
			m.orbit, _ = m.orbit.Update(msg)

		default:
			if m.running() {
				var cmd tea.Cmd
				m.orbit, cmd = m.orbit.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case FrameTickMsg:
		cmds = append(cmds, frameTickCmd(m.state.FrameInterval()))
		if m.running() {
			m.step()
		}

	case CameraTickMsg:
		m.camera = m.camera.Advance(cameraStepsPerTick)
		m.orbit = m.orbit.SetCamera(m.camera)
		if !m.camera.Done() {
			cmds = append(cmds, cameraTickCmd())
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataLoadedMsg:
		m.snapshot = msg.Snapshot
		m.loadErr = msg.Snapshot.LoadError
		if m.launched {
			cmds = append(cmds, m.startSimulation())
		}

	case ErrorMsg:
		m.loadErr = msg.Error

	case assistantReplyMsg:
		m.assistant = m.assistant.SetReply(msg.answer, msg.err)
		result := "ok"
		switch {
		case msg.err != nil:
			result = "error"
			m.log.Warn("assistant: %v", msg.err)
		case msg.answer.Cached:
			result = "cached"
		}
		m.opts.Metrics.RecordAssistant(result, msg.answer.Duration)
	}

	return m, tea.Batch(cmds...)
}

// running reports whether the simulation has started.
func (m Model) running() bool {
	return m.launched && m.sim != nil
}

// launch leaves the intro. The simulation starts now if the data is
// already loaded, otherwise on DataLoadedMsg.
func (m *Model) launch() tea.Cmd {
	if m.launched {
		return nil
	}
	m.launched = true
	return m.startSimulation()
}

func (m *Model) startSimulation() tea.Cmd {
	if m.sim != nil || m.loadErr != nil || m.snapshot.Dataset == nil {
		return nil
	}

	s, err := sim.New(m.snapshot.Dataset, m.opts.Belt, m.opts.Seed)
	if err != nil {
		m.simErr = err
		m.log.Error("start simulation: %v", err)
		return nil
	}
	m.sim = s

	reg := s.Registry()
	m.opts.Metrics.SetBodies(orbit.KindPlanet.String(), reg.Count(orbit.KindPlanet))
	m.opts.Metrics.SetBodies(orbit.KindAsteroid.String(), reg.Count(orbit.KindAsteroid))
	m.log.Info("simulation started: %d planets, %d asteroids",
		reg.Count(orbit.KindPlanet), reg.Count(orbit.KindAsteroid))

	m.camera = NewCamera(m.opts.FlyIn)
	m.orbit = m.orbit.SetDataset(s.Dataset()).SetCamera(m.camera).UpdateFrame(s.Frame())

	if m.camera.Done() {
		return nil
	}
	return cameraTickCmd()
}

// step advances the simulation one tick and fans the frame out.
func (m *Model) step() {
	start := time.Now()
	m.sim.Step()
	m.opts.Metrics.RecordTick(m.sim.Transport().Speed(), time.Since(start))

	frame := m.sim.Frame()
	m.publish(frame)
	m.orbit = m.orbit.UpdateFrame(frame)
}

func (m *Model) publish(full sim.Frame) {
	if m.opts.Publisher == nil || full.Tick%uint64(m.opts.PublishEvery) != 0 {
		return
	}
	frame := full
	if !m.opts.PublishAsteroids {
		frame = m.sim.PlanetFrame()
	}
	if err := m.opts.Publisher.Broadcast(frame); err != nil {
		m.log.Warn("publish frame %d: %v", frame.Tick, err)
	}
}

var transportKeys = map[string]transport.Action{
	"<": transport.ActionReverseFast,
	",": transport.ActionReverse,
	" ": transport.ActionTogglePause,
	".": transport.ActionForward,
	">": transport.ActionForwardFast,
}

func (m *Model) handleTransportKey(key string) {
	if m.sim == nil {
		return
	}
	ctrl := m.sim.Transport()
	old := ctrl.Speed()

	var source string
	switch key {
	case "{":
		m.slider.Nudge(ctrl, -1)
		source = "slider"
	case "}":
		m.slider.Nudge(ctrl, 1)
		source = "slider"
	default:
		action, ok := transportKeys[key]
		if !ok {
			return
		}
		ctrl.Apply(action)
		source = string(action)
	}

	speed := ctrl.Speed()
	m.opts.Metrics.RecordAction(source, speed)
	if ev, ok := m.state.RecordSpeed(m.sim.Ticks(), old, speed, source); ok {
		m.log.Debug("%s %s -> %s (%s)", ev.Type,
			transport.FormatSpeed(ev.OldSpeed), transport.FormatSpeed(ev.NewSpeed), source)
	}
}

func (m *Model) handleAssistantKey(msg tea.KeyMsg) tea.Cmd {
	var prompt string
	var send bool
	m.assistant, prompt, send = m.assistant.HandleKey(msg)
	if !send || m.opts.Assistant == nil {
		return nil
	}
	return askCmd(m.opts.Assistant, prompt, m.opts.AssistantTimeout)
}

// Simulation returns the running simulation, or nil before launch.
func (m Model) Simulation() *sim.Simulation {
	return m.sim
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if !m.running() {
		return m.renderIntro()
	}
	return m.renderFrame()
}

func (m Model) renderFrame() string {
	contentHeight := m.height - 5
	if contentHeight < 10 {
		contentHeight = 10
	}

	var sidebar []string
	if popup := m.orbit.PopupView(sidebarWidth); popup != "" {
		sidebar = append(sidebar, popup)
	}
	if m.opts.Assistant != nil && m.assistant.Visible() {
		sidebar = append(sidebar, m.assistant.View(sidebarWidth))
	}

	canvasWidth := m.width
	if len(sidebar) > 0 {
		canvasWidth -= sidebarWidth + 1
	}
	content := m.orbit.SetSize(canvasWidth, contentHeight).View()
	if len(sidebar) > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, " ",
			lipgloss.JoinVertical(lipgloss.Left, sidebar...))
	}

	return strings.Join([]string{
		m.renderHeader(),
		content,
		m.renderTransportBar(),
		m.renderEvents(),
		m.renderFooter(),
	}, "\n")
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	ds := m.sim.Dataset()
	return "  " + titleStyle.Render("LS-ORRERY") + "  " +
		dateStyle.Render(ds.EpochLabel()) + "  " +
		dimStyle.Render(fmt.Sprintf("JD %.1f  ·  tick %d", ds.EpochJD, m.sim.Ticks())) + "\n"
}

// transportButtons pairs each named action with its key and glyph, in bar
// order.
var transportButtons = []struct {
	key    string
	glyph  string
	action transport.Action
}{
	{"<", "«", transport.ActionReverseFast},
	{",", "‹", transport.ActionReverse},
	{"space", "❚❚", transport.ActionTogglePause},
	{".", "›", transport.ActionForward},
	{">", "»", transport.ActionForwardFast},
}

// actionSpeed is the speed a button leaves the controller at; the toggle is
// lit while paused.
func actionSpeed(a transport.Action) float64 {
	switch a {
	case transport.ActionReverseFast:
		return transport.ReverseFastSpeed
	case transport.ActionReverse:
		return transport.ReverseSpeed
	case transport.ActionForward:
		return transport.ForwardSpeed
	case transport.ActionForwardFast:
		return transport.ForwardFastSpeed
	default:
		return 0
	}
}

func (m Model) renderTransportBar() string {
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	pausedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true)

	speed := m.sim.Transport().Speed()

	var parts []string
	for _, btn := range transportButtons {
		glyph := btn.glyph
		if btn.action == transport.ActionTogglePause && speed == 0 {
			glyph = "▶"
		}
		label := fmt.Sprintf("[%s]%s", btn.key, glyph)
		if actionSpeed(btn.action) == speed {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}

	bar := "  " + strings.Join(parts, " ") + "  " + m.renderSlider(speed) + "  " +
		valueStyle.Render(transport.FormatSpeed(speed))
	if speed == 0 {
		bar += "  " + pausedStyle.Render("PAUSED")
	}
	return bar
}

// renderSlider draws the speed slider with a marker at the current speed.
func (m Model) renderSlider(speed float64) string {
	const cells = 21
	trackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	markerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EC4899")).Bold(true)

	span := m.slider.Max - m.slider.Min
	pos := 0
	if span > 0 {
		pos = int((speed-m.slider.Min)/span*float64(cells-1) + 0.5)
	}
	pos = max(0, min(cells-1, pos))

	return trackStyle.Render("{"+strings.Repeat("─", pos)) +
		markerStyle.Render("◆") +
		trackStyle.Render(strings.Repeat("─", cells-1-pos)+"}")
}

func (m Model) renderEvents() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	eventStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	events := m.state.RecentEvents(recentEventRows)
	if len(events) == 0 {
		return "  " + dimStyle.Render("No transport events")
	}

	parts := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		parts = append(parts, eventStyle.Render(fmt.Sprintf("%s %s @t%d",
			ev.Type, transport.FormatSpeed(ev.NewSpeed), ev.Tick)))
	}
	return "  " + strings.Join(parts, dimStyle.Render("  ·  "))
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	status := accentStyle.Render("●") + dimStyle.Render(fmt.Sprintf(" %d bodies", m.sim.Registry().Len()))
	if !m.camera.Done() {
		status = accentStyle.Render(spinnerFrame(m.animTick)) + " " + m.renderShimmerText("Approaching...")
	}

	help := "j/k: focus | enter: inspect | +/-: zoom | arrows: pan | f: find | z: mode | l: labels | o: rings | b: belt | t: stars"
	if m.opts.Assistant != nil {
		help += " | a: assistant"
	}
	return "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
}

func (m Model) renderIntro() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	readyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	launchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EC4899")).Bold(true)

	var b strings.Builder
	b.WriteString(m.renderLogo())

	err := m.loadErr
	if err == nil {
		err = m.simErr
	}

	switch {
	case err != nil:
		b.WriteString("  " + errorStyle.Render("ERROR: "+err.Error()))
		b.WriteString("\n  " + dimStyle.Render("The simulation cannot start. Press q to quit."))
	case m.snapshot.Dataset != nil:
		ds := m.snapshot.Dataset
		b.WriteString("  " + accentStyle.Render("●") + " " + readyStyle.Render(
			fmt.Sprintf("Planet data ready: %d planets, epoch %s", len(ds.Planets), ds.EpochLabel())))
		if m.snapshot.LoadDuration > 0 {
			b.WriteString(dimStyle.Render(" (" + m.snapshot.LoadDuration.Round(time.Millisecond).String() + ")"))
		}
		b.WriteString("\n\n  " + launchStyle.Render("[enter] Launch") + "  " + dimStyle.Render("[q] Quit"))
	case m.launched:
		b.WriteString("  " + accentStyle.Render(spinnerFrame(m.animTick)) + " " +
			m.renderShimmerText("Launching when planet data is ready..."))
	default:
		b.WriteString("  " + accentStyle.Render(spinnerFrame(m.animTick)) + " " +
			m.renderShimmerText("Loading planet data..."))
		b.WriteString("\n\n  " + dimStyle.Render("[enter] Launch  [q] Quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogo() string {
	// ASCII art with smooth truecolor gradient
	logo := []string{
		`  ██╗     ███████╗       ██████╗ ██████╗ ██████╗ ███████╗██████╗ ██╗   ██╗`,
		`  ██║     ██╔════╝      ██╔═══██╗██╔══██╗██╔══██╗██╔════╝██╔══██╗╚██╗ ██╔╝`,
		`  ██║     ███████╗█████╗██║   ██║██████╔╝██████╔╝█████╗  ██████╔╝ ╚████╔╝ `,
		`  ██║     ╚════██║╚════╝██║   ██║██╔══██╗██╔══██╗██╔══╝  ██╔══██╗  ╚██╔╝  `,
		`  ███████╗███████║      ╚██████╔╝██║  ██║██║  ██║███████╗██║  ██║   ██║   `,
		`  ╚══════╝╚══════╝       ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝   ╚═╝   `,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	// Tagline
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Sun · Planets · Asteroid Belt"))
	b.WriteString("\n")

	copyright := fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)
	b.WriteString(muted.Render(copyright))
	b.WriteString("\n\n")

	return b.String()
}

// Logo gradient stops: blue -> purple -> magenta -> pink
var logoStops = []colorful.Color{
	mustHex("#3B82F6"),
	mustHex("#8B5CF6"),
	mustHex("#D946EF"),
	mustHex("#EC4899"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// gradientColor returns a hex color for a position in the logo gradient,
// blended in Lab space and darkening toward the bottom rows.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(max(width, 1))
	yRatio := float64(row) / float64(max(height, 1))

	segments := float64(len(logoStops) - 1)
	pos := xRatio * segments
	i := min(int(pos), len(logoStops)-2)
	c := logoStops[i].BlendLab(logoStops[i+1], pos-float64(i))

	// Vertical fade: brighter at top, darker toward bottom
	f := 1.0 - yRatio*0.5
	return colorful.Color{R: c.R * f, G: c.G * f, B: c.B * f}.Clamped().Hex()
}

var (
	shimmerBase      = mustHex("#50467A")
	shimmerHighlight = mustHex("#B4A0DC")
)

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	// Shimmer sweeps smoothly across
	pos := m.animTick % (textLen + 8) // A bit of padding for smooth entry/exit

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}
		t := max(0, 1-float64(dist)/6)
		hex := shimmerBase.BlendLab(shimmerHighlight, t).Clamped().Hex()
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(string(r)))
	}

	return result.String()
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerFrame(tick int) string {
	return spinnerFrames[tick%len(spinnerFrames)]
}

func frameTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataLoaded creates a command that sends a data loaded message.
func SendDataLoaded(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataLoadedMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
