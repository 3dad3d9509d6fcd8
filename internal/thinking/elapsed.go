package thinking

import "fmt"

// nextElapsed increments the counter, wrapping to 0 at ceiling.
func nextElapsed(n, ceiling int) int {
	n++
	if ceiling > 0 && n >= ceiling {
		return 0
	}
	return n
}

// FormatElapsed renders elapsed seconds for the card header.
//
//	1   -> "1 second"
//	42  -> "42 seconds"
//	65  -> "1min and 5s"
func FormatElapsed(seconds int) string {
	if seconds < 60 {
		if seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	}
	return fmt.Sprintf("%dmin and %ds", seconds/60, seconds%60)
}
