package engine

import (
	"sync"
	"time"

	"github.com/pengelbrecht/thinker/internal/log"
	"github.com/pengelbrecht/thinker/internal/thinking"
)

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler arms one-shot timers. The real implementation wraps
// time.AfterFunc; tests substitute a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler returns a Scheduler backed by the runtime timers.
func RealScheduler() Scheduler {
	return realScheduler{}
}

// Driver runs the thinking state machine against a Scheduler. Every event,
// whether it comes from a timer or from the caller, is applied under one
// mutex, so transitions are strictly serial.
//
// Callbacks run while the driver is locked and must not call back into it.
type Driver struct {
	cfg   thinking.Config
	rng   thinking.Source
	sched Scheduler

	// OnAdvance is the post-render hook: called after the cursor moves.
	OnAdvance func(s thinking.State)

	// OnPause is called when the pause injector fires, with the drawn duration.
	OnPause func(s thinking.State, d time.Duration)

	// OnElapsed is called after each elapsed-clock tick.
	OnElapsed func(s thinking.State)

	// OnChange is called after every applied transition.
	OnChange func(ev thinking.Event, s thinking.State)

	mu     sync.Mutex
	state  thinking.State
	timers map[uint64]Timer
	nextID uint64
}

// NewDriver creates a driver. Nothing is scheduled until Mount.
func NewDriver(cfg thinking.Config, rng thinking.Source, sched Scheduler) *Driver {
	if sched == nil {
		sched = RealScheduler()
	}
	return &Driver{
		cfg:    cfg,
		rng:    rng,
		sched:  sched,
		timers: make(map[uint64]Timer),
	}
}

// Mount generates the sequence and starts both clocks.
func (d *Driver) Mount() { d.Dispatch(thinking.Mount()) }

// Unmount stops the scroller and cancels every pending timer. Timer
// callbacks that race with Unmount are dropped.
func (d *Driver) Unmount() { d.Dispatch(thinking.Unmount()) }

// SetHover updates the hover flag.
func (d *Driver) SetHover(hovered bool) { d.Dispatch(thinking.Hover(hovered)) }

// ToggleExpand flips the expanded flag.
func (d *Driver) ToggleExpand() { d.Dispatch(thinking.ToggleExpand()) }

// State returns a snapshot of the current state.
func (d *Driver) State() thinking.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Pending returns the number of armed timers.
func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Dispatch applies ev.
func (d *Driver) Dispatch(ev thinking.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.apply(ev)
}

func (d *Driver) fire(id uint64, ev thinking.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.timers[id]; !ok {
		return // cancelled
	}
	delete(d.timers, id)
	d.apply(ev)
}

// apply must be called with d.mu held.
func (d *Driver) apply(ev thinking.Event) {
	if d.state.Phase() == thinking.PhaseStopped {
		return
	}

	r := thinking.Step(d.cfg, d.rng, d.state, ev)
	d.state = r.State

	var pause time.Duration
	for _, e := range r.Effects {
		switch e.Kind {
		case thinking.EffectSchedule:
			d.arm(e)
			if e.Fire == thinking.EventPauseExpired {
				pause = e.After
			}
		case thinking.EffectCancelAll:
			d.cancelAll()
		}
	}

	if ev.Kind != thinking.EventTick && ev.Kind != thinking.EventElapsedTick {
		log.Debug(log.CatClock, "transition", "event", ev.Kind, "phase", d.state.Phase())
	}

	if r.Advanced && d.OnAdvance != nil {
		d.OnAdvance(d.state)
	}
	if r.PauseStarted {
		log.Debug(log.CatPause, "pause", "duration", pause, "pending", d.state.PendingPauses)
		if d.OnPause != nil {
			d.OnPause(d.state, pause)
		}
	}
	if ev.Kind == thinking.EventElapsedTick && d.OnElapsed != nil {
		d.OnElapsed(d.state)
	}
	if d.OnChange != nil {
		d.OnChange(ev, d.state)
	}
}

func (d *Driver) arm(e thinking.Effect) {
	d.nextID++
	id := d.nextID
	ev := thinking.Event{Kind: e.Fire}
	d.timers[id] = d.sched.AfterFunc(e.After, func() { d.fire(id, ev) })
}

func (d *Driver) cancelAll() {
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}
