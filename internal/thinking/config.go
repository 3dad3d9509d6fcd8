package thinking

import "time"

// Config holds every tunable of the status scroller. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// Pool is the fixed set of lines the sequence is sampled from.
	Pool Pool

	// SequenceLength is the number of lines generated on mount.
	SequenceLength int

	// Tick intervals for the playback clock.
	BaseInterval          time.Duration
	HoverInterval         time.Duration
	HoverExpandedInterval time.Duration

	// PauseProbability is the chance per tick that a pause is triggered.
	PauseProbability float64

	// Pause duration is drawn uniformly from [PauseMin, PauseMax).
	PauseMin time.Duration
	PauseMax time.Duration

	// ElapsedInterval is the period of the elapsed-time clock.
	ElapsedInterval time.Duration

	// ElapsedCeiling is the value at which the elapsed counter wraps to 0.
	ElapsedCeiling int

	// Panel heights in terminal rows, and the scroll region inside each.
	CollapsedHeight       int
	ExpandedHeight        int
	CollapsedScrollHeight int
	ExpandedScrollHeight  int
}

// Defaults for Config.
const (
	DefaultSequenceLength        = 1000
	DefaultBaseInterval          = 60 * time.Millisecond
	DefaultHoverInterval         = 200 * time.Millisecond
	DefaultHoverExpandedInterval = 400 * time.Millisecond
	DefaultPauseProbability      = 0.10
	DefaultPauseMin              = 500 * time.Millisecond
	DefaultPauseMax              = 1500 * time.Millisecond
	DefaultElapsedInterval       = time.Second
	DefaultElapsedCeiling        = 300
	DefaultCollapsedHeight       = 12
	DefaultExpandedHeight        = 22
	DefaultCollapsedScrollHeight = 9
	DefaultExpandedScrollHeight  = 19
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Pool:                  DefaultPool(),
		SequenceLength:        DefaultSequenceLength,
		BaseInterval:          DefaultBaseInterval,
		HoverInterval:         DefaultHoverInterval,
		HoverExpandedInterval: DefaultHoverExpandedInterval,
		PauseProbability:      DefaultPauseProbability,
		PauseMin:              DefaultPauseMin,
		PauseMax:              DefaultPauseMax,
		ElapsedInterval:       DefaultElapsedInterval,
		ElapsedCeiling:        DefaultElapsedCeiling,
		CollapsedHeight:       DefaultCollapsedHeight,
		ExpandedHeight:        DefaultExpandedHeight,
		CollapsedScrollHeight: DefaultCollapsedScrollHeight,
		ExpandedScrollHeight:  DefaultExpandedScrollHeight,
	}
}

// PoolSize returns the number of distinct lines available for sampling.
func (c Config) PoolSize() int {
	return len(c.Pool)
}

// Interval returns the playback tick interval for the given view flags.
func (c Config) Interval(hovered, expanded bool) time.Duration {
	switch {
	case hovered && expanded:
		return c.HoverExpandedInterval
	case hovered:
		return c.HoverInterval
	default:
		return c.BaseInterval
	}
}

// PanelHeight returns the card height and scroll region height for the
// expanded flag.
func (c Config) PanelHeight(expanded bool) (panel, scroll int) {
	if expanded {
		return c.ExpandedHeight, c.ExpandedScrollHeight
	}
	return c.CollapsedHeight, c.CollapsedScrollHeight
}
