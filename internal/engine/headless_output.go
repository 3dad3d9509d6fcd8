package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pengelbrecht/thinker/internal/thinking"
)

// HeadlessOutput formats revealed status lines for non-interactive use.
// Supports both human-readable (default) and JSON Lines formats.
type HeadlessOutput struct {
	jsonl  bool
	writer io.Writer
}

// NewHeadlessOutput creates a new headless output formatter.
// If jsonl is true, outputs JSON Lines format; otherwise human-readable with [PREFIX] tags.
func NewHeadlessOutput(jsonl bool) *HeadlessOutput {
	return &HeadlessOutput{
		jsonl:  jsonl,
		writer: os.Stdout,
	}
}

// SetWriter sets a custom writer (mainly for testing).
func (h *HeadlessOutput) SetWriter(w io.Writer) {
	h.writer = w
}

// Start outputs the start of a run.
func (h *HeadlessOutput) Start(cfg thinking.Config) {
	if h.jsonl {
		h.writeJSON(map[string]interface{}{
			"type":            "start",
			"pool_size":       cfg.PoolSize(),
			"sequence_length": cfg.SequenceLength,
		})
	} else {
		fmt.Fprintf(h.writer, "[START] Thinking... (%d lines from a pool of %d)\n", cfg.SequenceLength, cfg.PoolSize())
	}
}

// Line outputs the newest revealed line.
func (h *HeadlessOutput) Line(cursor int, line thinking.StatusLine) {
	if h.jsonl {
		h.writeJSON(map[string]interface{}{
			"type":   "line",
			"cursor": cursor,
			"text":   string(line),
		})
	} else {
		fmt.Fprintln(h.writer, string(line))
	}
}

// Pause outputs a pause injected by the playback clock.
func (h *HeadlessOutput) Pause(d time.Duration) {
	if h.jsonl {
		h.writeJSON(map[string]interface{}{
			"type":        "pause",
			"duration_ms": d.Milliseconds(),
		})
	} else {
		fmt.Fprintf(h.writer, "[PAUSE] %v\n", d.Round(time.Millisecond))
	}
}

// Elapsed outputs the elapsed-time label.
func (h *HeadlessOutput) Elapsed(seconds int) {
	if h.jsonl {
		h.writeJSON(map[string]interface{}{
			"type":    "elapsed",
			"seconds": seconds,
			"label":   thinking.FormatElapsed(seconds),
		})
	} else {
		fmt.Fprintf(h.writer, "[ELAPSED] %s\n", thinking.FormatElapsed(seconds))
	}
}

// Complete outputs the final summary.
func (h *HeadlessOutput) Complete(result *RunResult) {
	if h.jsonl {
		h.writeJSON(map[string]interface{}{
			"type":        "complete",
			"revealed":    result.Revealed,
			"pauses":      result.Pauses,
			"cursor":      result.Cursor,
			"duration_ms": result.Duration.Milliseconds(),
			"exit_reason": result.ExitReason,
		})
	} else {
		fmt.Fprintf(h.writer, "[COMPLETE] %d lines revealed, %d pauses, %v\n",
			result.Revealed, result.Pauses, result.Duration.Round(time.Second))
		fmt.Fprintf(h.writer, "[COMPLETE] Exit: %s\n", result.ExitReason)
	}
}

// Interrupted outputs when run is interrupted.
func (h *HeadlessOutput) Interrupted() {
	if h.jsonl {
		h.writeJSON(map[string]interface{}{
			"type": "interrupted",
		})
	} else {
		fmt.Fprintf(h.writer, "\n[INTERRUPTED] Run interrupted by user\n")
	}
}

// writeJSON writes a JSON object as a single line.
func (h *HeadlessOutput) writeJSON(data map[string]interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintln(h.writer, string(b))
}
