package tui

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/pengelbrecht/thinker/internal/thinking"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

// fixedSource never pauses unless floats are queued, and always samples the
// first pool entry.
type fixedSource struct {
	floats []float64
}

func (s *fixedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *fixedSource) IntN(int) int { return 0 }

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func newTestModel(floats ...float64) Model {
	return New(Config{
		Scroller: thinking.DefaultConfig(),
		Rand:     &fixedSource{floats: floats},
	})
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func fire(t *testing.T, m Model, ev thinking.Event) Model {
	t.Helper()
	m, _ = send(t, m, scrollerMsg{epoch: m.epoch, ev: ev})
	return m
}

func mountModel(t *testing.T, floats ...float64) Model {
	t.Helper()
	return fire(t, newTestModel(floats...), thinking.Mount())
}

// -----------------------------------------------------------------------------
// Model tests
// -----------------------------------------------------------------------------

func TestNew(t *testing.T) {
	m := newTestModel()

	if m.state.Phase() != thinking.PhaseIdle {
		t.Errorf("expected idle before mount, got %s", m.state.Phase())
	}
	if m.quitting {
		t.Error("expected quitting to be false by default")
	}
	panel, scroll := m.panelHeights()
	if panel != thinking.DefaultCollapsedHeight || scroll != thinking.DefaultCollapsedScrollHeight {
		t.Errorf("expected collapsed %d/%d, got %d/%d",
			thinking.DefaultCollapsedHeight, thinking.DefaultCollapsedScrollHeight, panel, scroll)
	}

	other := newTestModel()
	if other.epoch == m.epoch {
		t.Error("expected each model to get its own epoch")
	}
}

func TestNewDefaultsRandomSource(t *testing.T) {
	m := New(Config{Scroller: thinking.DefaultConfig()})
	if m.rng == nil {
		t.Fatal("expected a default random source")
	}
}

func TestInit(t *testing.T) {
	m := newTestModel()
	if cmd := m.Init(); cmd == nil {
		t.Error("expected Init() to return a command")
	}
}

func TestMount(t *testing.T) {
	m := newTestModel()
	m, cmd := send(t, m, scrollerMsg{epoch: m.epoch, ev: thinking.Mount()})

	if m.state.Phase() != thinking.PhaseRunning {
		t.Errorf("expected running after mount, got %s", m.state.Phase())
	}
	if len(m.state.Sequence) != thinking.DefaultSequenceLength {
		t.Errorf("expected %d lines, got %d", thinking.DefaultSequenceLength, len(m.state.Sequence))
	}
	if cmd == nil {
		t.Error("expected mount to arm the clocks")
	}
}

func TestTenTicksRenderElevenLines(t *testing.T) {
	m := mountModel(t)

	for i := 0; i < 10; i++ {
		m = fire(t, m, thinking.Tick())
	}

	if m.state.Cursor != 10 {
		t.Errorf("expected cursor 10, got %d", m.state.Cursor)
	}
	if got := len(m.visibleLines()); got != 11 {
		t.Errorf("expected 11 visible lines, got %d", got)
	}
	if rows := strings.Split(m.renderLines(), "\n"); len(rows) != 11 {
		t.Errorf("expected 11 rendered rows, got %d", len(rows))
	}
}

func TestAdvanceScrollsToBottom(t *testing.T) {
	m := mountModel(t)

	for i := 0; i < 30; i++ {
		m = fire(t, m, thinking.Tick())
	}

	if !m.viewport.AtBottom() {
		t.Error("expected viewport to follow the newest line")
	}
	if m.viewport.YOffset == 0 {
		t.Error("expected viewport to have scrolled")
	}
}

func TestStaleEpochIgnored(t *testing.T) {
	m := mountModel(t)

	m, cmd := send(t, m, scrollerMsg{epoch: m.epoch + 1000, ev: thinking.Tick()})
	if m.state.Cursor != 0 {
		t.Errorf("expected foreign tick to be dropped, cursor %d", m.state.Cursor)
	}
	if cmd != nil {
		t.Error("expected no command for a foreign tick")
	}

	m, cmd = send(t, m, frameMsg{epoch: m.epoch + 1000})
	if cmd != nil {
		t.Error("expected no command for a foreign frame")
	}
}

func TestUnmountIgnoresLateTimers(t *testing.T) {
	m := mountModel(t, 0.05, 0.5)
	m = fire(t, m, thinking.Tick())
	m = m.Unmount()

	before := m.state
	late := []tea.Msg{
		scrollerMsg{epoch: m.epoch, ev: thinking.Tick()},
		scrollerMsg{epoch: m.epoch, ev: thinking.PauseExpired()},
		scrollerMsg{epoch: m.epoch, ev: thinking.ElapsedTick()},
		frameMsg{epoch: m.epoch},
		spinner.TickMsg{ID: m.spinner.ID()},
	}

	for _, msg := range late {
		var cmd tea.Cmd
		m, cmd = send(t, m, msg)
		if cmd != nil {
			t.Errorf("expected no command after unmount for %T", msg)
		}
	}

	if m.state.Phase() != thinking.PhaseStopped {
		t.Errorf("expected stopped, got %s", m.state.Phase())
	}
	if m.state.Cursor != before.Cursor || m.state.Elapsed != before.Elapsed || m.state.PendingPauses != before.PendingPauses {
		t.Error("expected no state change after unmount")
	}
}

func TestUpdateQuit(t *testing.T) {
	m := mountModel(t)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.quitting {
		t.Error("expected quitting to be true after 'q' key")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if m.state.Phase() != thinking.PhaseStopped {
		t.Error("expected quit to unmount the scroller")
	}
}

func TestUpdateCtrlC(t *testing.T) {
	m := mountModel(t)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting {
		t.Error("expected quitting to be true after ctrl+c")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestExpandKeyAnimatesHeight(t *testing.T) {
	m := mountModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if !m.state.Expanded {
		t.Fatal("expected expanded after 'e'")
	}

	// Height moves gradually, not in one step.
	m, _ = send(t, m, frameMsg{epoch: m.epoch})
	panel, _ := m.panelHeights()
	if panel >= thinking.DefaultExpandedHeight {
		t.Errorf("expected animated transition, jumped to %d", panel)
	}
	if panel < thinking.DefaultCollapsedHeight {
		t.Errorf("expected height to grow, got %d", panel)
	}

	for i := 0; i < 100; i++ {
		m, _ = send(t, m, frameMsg{epoch: m.epoch})
	}
	panel, scroll := m.panelHeights()
	if panel != thinking.DefaultExpandedHeight || scroll != thinking.DefaultExpandedScrollHeight {
		t.Errorf("expected expanded %d/%d, got %d/%d",
			thinking.DefaultExpandedHeight, thinking.DefaultExpandedScrollHeight, panel, scroll)
	}
	if m.viewport.Height != thinking.DefaultExpandedScrollHeight {
		t.Errorf("expected viewport height %d, got %d", thinking.DefaultExpandedScrollHeight, m.viewport.Height)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state.Expanded {
		t.Error("expected enter to collapse")
	}
}

func TestHoverKeySlowsSpinner(t *testing.T) {
	m := mountModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if !m.state.Hovered {
		t.Fatal("expected hovered after 'h'")
	}
	if m.spinner.Spinner.FPS != hoverSpinnerFPS {
		t.Errorf("expected hover spinner speed %v, got %v", hoverSpinnerFPS, m.spinner.Spinner.FPS)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if m.state.Hovered {
		t.Error("expected second 'h' to clear hover")
	}
	if m.spinner.Spinner.FPS != spinnerFPS {
		t.Errorf("expected base spinner speed %v, got %v", spinnerFPS, m.spinner.Spinner.FPS)
	}
}

func TestRevealIsStaggered(t *testing.T) {
	m := mountModel(t)
	m = fire(t, m, thinking.Tick())

	newest := m.visibleLines()[m.state.Cursor]
	n := len(strings.Fields(string(newest)))
	if n < 2 {
		t.Fatalf("test needs a multi-word line, got %q", newest)
	}

	if got := m.revealedTokens(n); got != 1 {
		t.Errorf("expected 1 token right after advance, got %d", got)
	}

	m, _ = send(t, m, frameMsg{epoch: m.epoch})
	if got := m.revealedTokens(n); got != 2 {
		t.Errorf("expected 2 tokens after one frame, got %d", got)
	}

	for i := 0; i < n+5; i++ {
		m, _ = send(t, m, frameMsg{epoch: m.epoch})
	}
	if got := m.revealedTokens(n); got != n {
		t.Errorf("expected all %d tokens eventually, got %d", n, got)
	}
}

func TestHoverSlowsReveal(t *testing.T) {
	m := mountModel(t)
	m = fire(t, m, thinking.Hover(true))
	m = fire(t, m, thinking.Tick())

	m, _ = send(t, m, frameMsg{epoch: m.epoch})
	if got := m.revealedTokens(10); got != 1 {
		t.Errorf("expected 1 token after one hovered frame, got %d", got)
	}
	m, _ = send(t, m, frameMsg{epoch: m.epoch})
	if got := m.revealedTokens(10); got != 2 {
		t.Errorf("expected 2 tokens after two hovered frames, got %d", got)
	}
}

func TestPausedLineShowsAllTokens(t *testing.T) {
	m := mountModel(t, 0.0, 0.5)
	m = fire(t, m, thinking.Tick())

	if !m.state.Paused() {
		t.Fatal("expected pause to trigger")
	}

	newest := m.visibleLines()[m.state.Cursor]
	rendered := m.renderNewest(newest, 80)
	for _, tok := range strings.Fields(string(newest)) {
		if !strings.Contains(rendered, tok) {
			t.Errorf("expected paused line to show %q, got %q", tok, rendered)
		}
	}

	// Ticks while paused do not advance.
	for i := 0; i < 5; i++ {
		m = fire(t, m, thinking.Tick())
	}
	if m.state.Cursor != 1 {
		t.Errorf("expected cursor to stay at 1 while paused, got %d", m.state.Cursor)
	}

	m = fire(t, m, thinking.PauseExpired())
	m = fire(t, m, thinking.Tick())
	if m.state.Cursor != 2 {
		t.Errorf("expected cursor 2 after pause expired, got %d", m.state.Cursor)
	}
}

func TestEmptyPoolRendersNothing(t *testing.T) {
	cfg := thinking.DefaultConfig()
	cfg.Pool = nil
	m := New(Config{Scroller: cfg, Rand: &fixedSource{}})
	m = fire(t, m, thinking.Mount())
	m = fire(t, m, thinking.Tick())

	if got := m.renderLines(); got != "" {
		t.Errorf("expected no lines, got %q", got)
	}
	if view := m.View(); !strings.Contains(view, "Thinking") {
		t.Error("expected the card to render even without lines")
	}
}

func TestUpdateWindowSize(t *testing.T) {
	m := newTestModel()

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 {
		t.Errorf("expected width 120, got %d", m.width)
	}
	if m.height != 40 {
		t.Errorf("expected height 40, got %d", m.height)
	}
}

func TestUpdateNotice(t *testing.T) {
	m := newTestModel()

	m, _ = send(t, m, UpdateNoticeMsg("Update available: 0.1.0 -> 0.2.0"))
	if !strings.Contains(m.View(), "Update available: 0.1.0 -> 0.2.0") {
		t.Error("expected update notice in footer")
	}
}

func TestInitRunsUpdateCheck(t *testing.T) {
	called := false
	m := New(Config{
		Scroller:    thinking.DefaultConfig(),
		Rand:        &fixedSource{},
		UpdateCheck: func() string { called = true; return "" },
	})

	msg := findMsg(m.Init(), func(msg tea.Msg) bool {
		_, ok := msg.(UpdateNoticeMsg)
		return ok
	})
	if msg == nil || !called {
		t.Error("expected Init to schedule the update check")
	}
}

// findMsg runs every command in a batch and returns the first message
// matching pred. Timer commands block for their interval.
func findMsg(cmd tea.Cmd, pred func(tea.Msg) bool) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if found := findMsg(c, pred); found != nil {
				return found
			}
		}
		return nil
	}
	if pred(msg) {
		return msg
	}
	return nil
}
