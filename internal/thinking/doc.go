// Package thinking implements the timing state machine behind the status
// scroller: sequence generation, the playback clock with its random pause
// injector, the elapsed-time clock, and the view flags that modulate them.
//
// The package does no I/O and owns no timers. Step is a pure transition
// function; callers turn the returned Effects into real or simulated timers
// (see internal/engine and internal/tui).
package thinking
