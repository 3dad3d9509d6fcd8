package thinking

import "time"

// Phase is the playback clock state.
type Phase int

const (
	// PhaseIdle means no sequence has been generated yet (or it is empty).
	PhaseIdle Phase = iota
	// PhaseRunning means ticks advance the cursor.
	PhaseRunning
	// PhasePaused means at least one pause is pending expiry.
	PhasePaused
	// PhaseStopped means the scroller was unmounted. Every event is ignored.
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is everything the scroller knows. It is a value: Step returns a new
// State and never mutates the one passed in. Sequence is shared between
// copies and must not be modified.
type State struct {
	Sequence      []StatusLine
	Cursor        int
	PendingPauses int
	Elapsed       int
	Hovered       bool
	Expanded      bool

	mounted bool
	stopped bool
}

// Phase derives the playback phase from the state.
func (s State) Phase() Phase {
	switch {
	case s.stopped:
		return PhaseStopped
	case !s.mounted || len(s.Sequence) == 0:
		return PhaseIdle
	case s.PendingPauses > 0:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

// Paused reports whether cursor advancement is suspended.
func (s State) Paused() bool {
	return s.Phase() == PhasePaused
}

// Visible returns the revealed prefix of the sequence, up to and including
// the cursor. It returns nil before mount or for an empty sequence.
func (s State) Visible() []StatusLine {
	if !s.mounted || len(s.Sequence) == 0 {
		return nil
	}
	return s.Sequence[:s.Cursor+1]
}

// EventKind identifies what happened to the scroller.
type EventKind int

const (
	EventMount EventKind = iota
	EventTick
	EventPauseExpired
	EventElapsedTick
	EventHover
	EventToggleExpand
	EventUnmount
)

func (k EventKind) String() string {
	switch k {
	case EventMount:
		return "mount"
	case EventTick:
		return "tick"
	case EventPauseExpired:
		return "pause-expired"
	case EventElapsedTick:
		return "elapsed-tick"
	case EventHover:
		return "hover"
	case EventToggleExpand:
		return "toggle-expand"
	case EventUnmount:
		return "unmount"
	default:
		return "unknown"
	}
}

// Event is an input to Step.
type Event struct {
	Kind EventKind
	// Hovered is the new pointer state for EventHover.
	Hovered bool
}

// Mount generates the sequence and starts both clocks.
func Mount() Event { return Event{Kind: EventMount} }

// Tick fires when the playback interval elapses.
func Tick() Event { return Event{Kind: EventTick} }

// PauseExpired ends one pending pause.
func PauseExpired() Event { return Event{Kind: EventPauseExpired} }

// ElapsedTick advances the elapsed-seconds counter.
func ElapsedTick() Event { return Event{Kind: EventElapsedTick} }

// Hover reports the pointer entering (true) or leaving (false) the card.
func Hover(hovered bool) Event { return Event{Kind: EventHover, Hovered: hovered} }

// ToggleExpand flips the expanded flag.
func ToggleExpand() Event { return Event{Kind: EventToggleExpand} }

// Unmount stops the scroller and cancels every pending timer.
func Unmount() Event { return Event{Kind: EventUnmount} }

// EffectKind identifies a side effect the caller must perform.
type EffectKind int

const (
	// EffectSchedule asks for Effect.Fire to be delivered after Effect.After.
	EffectSchedule EffectKind = iota
	// EffectCancelAll asks for every pending scheduled event to be dropped.
	EffectCancelAll
)

// Effect is a timer request produced by Step.
type Effect struct {
	Kind  EffectKind
	Fire  EventKind
	After time.Duration
}

func schedule(fire EventKind, after time.Duration) Effect {
	return Effect{Kind: EffectSchedule, Fire: fire, After: after}
}

// Result is the outcome of one transition.
type Result struct {
	State   State
	Effects []Effect
	// Advanced is true when the cursor moved. Renderers scroll to the
	// newest line when they see it.
	Advanced bool
	// PauseStarted is true when this transition triggered a pause.
	PauseStarted bool
}

// Step applies ev to s and returns the new state plus the timers to arm.
// rng is consulted only by Mount (sampling) and Tick (pause trial).
func Step(cfg Config, rng Source, s State, ev Event) Result {
	if s.stopped {
		return Result{State: s}
	}

	switch ev.Kind {
	case EventMount:
		return mount(cfg, rng, s)
	case EventTick:
		return tick(cfg, rng, s)
	case EventPauseExpired:
		if s.PendingPauses > 0 {
			s.PendingPauses--
		}
		return Result{State: s}
	case EventElapsedTick:
		if !s.mounted {
			return Result{State: s}
		}
		s.Elapsed = nextElapsed(s.Elapsed, cfg.ElapsedCeiling)
		return Result{
			State:   s,
			Effects: []Effect{schedule(EventElapsedTick, cfg.ElapsedInterval)},
		}
	case EventHover:
		s.Hovered = ev.Hovered
		return Result{State: s}
	case EventToggleExpand:
		s.Expanded = !s.Expanded
		return Result{State: s}
	case EventUnmount:
		s.stopped = true
		return Result{State: s, Effects: []Effect{{Kind: EffectCancelAll}}}
	}
	return Result{State: s}
}

func mount(cfg Config, rng Source, s State) Result {
	if s.mounted {
		return Result{State: s}
	}
	s.mounted = true
	s.Sequence = Generate(cfg.Pool, cfg.SequenceLength, rng)
	s.Cursor = 0
	s.PendingPauses = 0
	s.Elapsed = 0

	effects := []Effect{schedule(EventElapsedTick, cfg.ElapsedInterval)}
	if len(s.Sequence) > 0 {
		effects = append(effects, schedule(EventTick, cfg.Interval(s.Hovered, s.Expanded)))
	}
	return Result{State: s, Effects: effects}
}

func tick(cfg Config, rng Source, s State) Result {
	if !s.mounted || len(s.Sequence) == 0 {
		return Result{State: s}
	}

	var r Result
	if s.PendingPauses == 0 {
		s.Cursor = (s.Cursor + 1) % len(s.Sequence)
		r.Advanced = true
	}

	// The trial runs even while paused; overlapping pauses stack.
	if rng.Float64() < cfg.PauseProbability {
		s.PendingPauses++
		r.PauseStarted = true
		r.Effects = append(r.Effects,
			schedule(EventPauseExpired, pauseDuration(rng, cfg.PauseMin, cfg.PauseMax)))
	}

	r.Effects = append(r.Effects, schedule(EventTick, cfg.Interval(s.Hovered, s.Expanded)))
	r.State = s
	return r
}
