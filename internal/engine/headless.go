package engine

import (
	"context"
	"errors"
	"time"

	"github.com/pengelbrecht/thinker/internal/log"
	"github.com/pengelbrecht/thinker/internal/thinking"
)

// RunResult contains the outcome of a headless run.
type RunResult struct {
	// Revealed is the number of cursor advances.
	Revealed int

	// Pauses is the number of pauses injected.
	Pauses int

	// Cursor is the final cursor position.
	Cursor int

	// Duration is the total wall-clock time.
	Duration time.Duration

	// ExitReason describes why the run ended.
	ExitReason string
}

// Exit reasons.
const (
	ExitDuration    = "duration reached"
	ExitInterrupted = "interrupted"
)

// RunHeadless drives the scroller without a terminal UI and streams every
// revealed line to out. It returns when ctx is done; maxDuration > 0 also
// bounds the run. The driver is unmounted before returning, so no output is
// written after RunHeadless returns.
func RunHeadless(ctx context.Context, cfg thinking.Config, rng thinking.Source, sched Scheduler, out *HeadlessOutput, maxDuration time.Duration) *RunResult {
	if maxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxDuration)
		defer cancel()
	}

	result := &RunResult{}
	start := time.Now()

	d := NewDriver(cfg, rng, sched)
	d.OnAdvance = func(s thinking.State) {
		result.Revealed++
		out.Line(s.Cursor, s.Sequence[s.Cursor])
	}
	d.OnPause = func(_ thinking.State, pause time.Duration) {
		result.Pauses++
		out.Pause(pause)
	}
	d.OnElapsed = func(s thinking.State) {
		out.Elapsed(s.Elapsed)
	}
	d.OnChange = func(ev thinking.Event, s thinking.State) {
		if ev.Kind == thinking.EventMount && len(s.Visible()) > 0 {
			out.Line(0, s.Sequence[0])
		}
	}

	out.Start(cfg)
	log.Info(log.CatEngine, "headless run started", "max_duration", maxDuration)

	d.Mount()

	<-ctx.Done()
	d.Unmount()

	result.Cursor = d.State().Cursor
	result.Duration = time.Since(start)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.ExitReason = ExitDuration
	} else {
		result.ExitReason = ExitInterrupted
		out.Interrupted()
	}
	out.Complete(result)

	log.Info(log.CatEngine, "headless run finished",
		"revealed", result.Revealed, "pauses", result.Pauses, "reason", result.ExitReason)
	return result
}
