package tui

import (
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	zone "github.com/lrstanley/bubblezone"

	"github.com/pengelbrecht/thinker/internal/log"
	"github.com/pengelbrecht/thinker/internal/thinking"
)

func init() {
	// Force TrueColor for terminals that misreport capabilities (e.g., TERM=screen in tmux)
	os.Setenv("COLORTERM", "truecolor")
}

// Animation timing.
const (
	frameFPS      = 20
	frameInterval = time.Second / frameFPS

	// Frames between revealing successive words of the newest line.
	revealFrames      = 1
	hoverRevealFrames = 2

	springFrequency = 6.0
	springDamping   = 1.0
)

// Spinner speeds for the "Thinking" indicator.
var (
	spinnerFPS      = time.Second / 10
	hoverSpinnerFPS = time.Second / 5
)

// Zone IDs for mouse hit-testing.
const (
	zoneCard   = "thinker-card"
	zoneToggle = "thinker-toggle"
)

var lastEpoch int64

func nextEpoch() int {
	return int(atomic.AddInt64(&lastEpoch, 1))
}

// Message types driving the scroller.
type (
	// scrollerMsg delivers a timer event to the model that armed it.
	scrollerMsg struct {
		epoch int
		ev    thinking.Event
	}

	// frameMsg advances the reveal, pulse and height animations.
	frameMsg struct {
		epoch int
	}

	// UpdateNoticeMsg carries a self-update notice for the footer.
	UpdateNoticeMsg string
)

// Config holds TUI configuration.
type Config struct {
	// Scroller is the state machine configuration.
	Scroller thinking.Config

	// Rand is the random source. Nil means a time-seeded source.
	Rand thinking.Source

	// UpdateCheck, if set, runs once at startup; a non-empty result is shown
	// in the footer.
	UpdateCheck func() string
}

// Model is the Bubble Tea model for the status scroller card.
type Model struct {
	cfg   thinking.Config
	rng   thinking.Source
	state thinking.State

	// epoch tags every timer this model arms. Messages from another epoch
	// belong to an unmounted instance and are dropped.
	epoch int

	// Embedded bubbles components
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     KeyMap

	// Animation
	frame       int
	revealFrame int
	spring      harmonica.Spring
	panelPos    float64
	panelVel    float64

	updateCheck  func() string
	updateNotice string

	quitting bool

	// Dimensions
	width  int
	height int
}

// New creates a new TUI model. The scroller mounts when the program starts.
func New(cfg Config) Model {
	rng := cfg.Rand
	if rng == nil {
		rng = thinking.NewSource(0)
	}

	panel, scroll := cfg.Scroller.PanelHeight(false)

	vp := viewport.New(cardWidth-4, scroll)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: spinner.Line.Frames, FPS: spinnerFPS}),
		spinner.WithStyle(spinnerStyle),
	)

	h := help.New()
	h.Styles.ShortKey = keyStyle
	h.Styles.ShortDesc = descStyle
	h.Styles.ShortSeparator = descStyle
	h.Styles.FullKey = keyStyle
	h.Styles.FullDesc = descStyle

	return Model{
		cfg:         cfg.Scroller,
		rng:         rng,
		epoch:       nextEpoch(),
		viewport:    vp,
		spinner:     sp,
		help:        h,
		keys:        DefaultKeyMap(),
		spring:      harmonica.NewSpring(harmonica.FPS(frameFPS), springFrequency, springDamping),
		panelPos:    float64(panel),
		updateCheck: cfg.UpdateCheck,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.emit(thinking.Mount()),
		m.spinner.Tick,
		m.frameTick(),
	}
	if m.updateCheck != nil {
		check := m.updateCheck
		cmds = append(cmds, func() tea.Msg { return UpdateNoticeMsg(check()) })
	}
	return tea.Batch(cmds...)
}

// State returns the scroller state.
func (m Model) State() thinking.State {
	return m.state
}

// Unmount stops the scroller. Every timer already in flight becomes a no-op.
func (m Model) Unmount() Model {
	m, _ = m.dispatch(thinking.Unmount())
	return m
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		log.Debug(log.CatView, "resize", "width", msg.Width, "height", msg.Height)

	case scrollerMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		return m.dispatch(msg.ev)

	case frameMsg:
		if msg.epoch != m.epoch || m.state.Phase() == thinking.PhaseStopped {
			return m, nil
		}
		m.frame++
		m = m.animatePanel()
		m.refreshContent()
		return m, m.frameTick()

	case spinner.TickMsg:
		if m.state.Phase() == thinking.PhaseStopped {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case UpdateNoticeMsg:
		m.updateNotice = string(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m = m.Unmount()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Expand):
		return m.dispatch(thinking.ToggleExpand())
	case key.Matches(msg, m.keys.Hover):
		return m.dispatch(thinking.Hover(!m.state.Hovered))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	inCard := inZone(zoneCard, msg)

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inZone(zoneToggle, msg) {
		return m.dispatch(thinking.ToggleExpand())
	}
	if inCard != m.state.Hovered {
		return m.dispatch(thinking.Hover(inCard))
	}
	return m, nil
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// dispatch applies ev to the state machine and turns its effects into
// commands.
func (m Model) dispatch(ev thinking.Event) (Model, tea.Cmd) {
	r := thinking.Step(m.cfg, m.rng, m.state, ev)
	m.state = r.State

	var cmds []tea.Cmd
	for _, e := range r.Effects {
		if e.Kind == thinking.EffectSchedule {
			cmds = append(cmds, m.schedule(e))
		}
		// EffectCancelAll needs no work: tea.Tick cannot be cancelled, and a
		// stopped state ignores every message that arrives later.
	}

	switch ev.Kind {
	case thinking.EventHover:
		m = m.applySpinnerSpeed()
		log.Debug(log.CatView, "hover", "hovered", m.state.Hovered)
	case thinking.EventToggleExpand:
		log.Debug(log.CatView, "expand", "expanded", m.state.Expanded)
	case thinking.EventMount:
		log.Info(log.CatClock, "mounted", "lines", len(m.state.Sequence), "phase", m.state.Phase())
	case thinking.EventUnmount:
		log.Info(log.CatClock, "unmounted", "cursor", m.state.Cursor)
	}
	if r.PauseStarted {
		log.Debug(log.CatPause, "pause", "pending", m.state.PendingPauses)
	}

	if r.Advanced || ev.Kind == thinking.EventMount {
		m.revealFrame = m.frame
	}
	m.refreshContent()
	if r.Advanced {
		// Post-render hook: keep the newest line in view.
		m.viewport.GotoBottom()
	}

	return m, tea.Batch(cmds...)
}

func (m Model) schedule(e thinking.Effect) tea.Cmd {
	epoch := m.epoch
	ev := thinking.Event{Kind: e.Fire}
	return tea.Tick(e.After, func(time.Time) tea.Msg {
		return scrollerMsg{epoch: epoch, ev: ev}
	})
}

func (m Model) emit(ev thinking.Event) tea.Cmd {
	epoch := m.epoch
	return func() tea.Msg { return scrollerMsg{epoch: epoch, ev: ev} }
}

func (m Model) frameTick() tea.Cmd {
	epoch := m.epoch
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{epoch: epoch}
	})
}

func (m Model) applySpinnerSpeed() Model {
	fps := spinnerFPS
	if m.state.Hovered {
		fps = hoverSpinnerFPS
	}
	m.spinner.Spinner.FPS = fps
	return m
}

// animatePanel moves the card height one spring step toward its preset.
func (m Model) animatePanel() Model {
	target, _ := m.cfg.PanelHeight(m.state.Expanded)
	m.panelPos, m.panelVel = m.spring.Update(m.panelPos, m.panelVel, float64(target))
	if math.Abs(m.panelPos-float64(target)) < 0.01 && math.Abs(m.panelVel) < 0.01 {
		m.panelPos, m.panelVel = float64(target), 0
	}
	return m
}

// panelHeights returns the current animated card and scroll region heights.
func (m Model) panelHeights() (panel, scroll int) {
	target, targetScroll := m.cfg.PanelHeight(m.state.Expanded)
	chrome := target - targetScroll

	panel = int(math.Round(m.panelPos))
	if panel < chrome+1 {
		panel = chrome + 1
	}
	return panel, panel - chrome
}

// refreshContent re-renders the revealed lines into the viewport.
func (m *Model) refreshContent() {
	_, scroll := m.panelHeights()
	atBottom := m.viewport.AtBottom()
	m.viewport.Height = scroll
	m.viewport.SetContent(m.renderLines())
	if atBottom {
		m.viewport.GotoBottom()
	}
}
