// Package format renders durations, progress bars and large numbers for the
// terminal front ends.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display: microseconds
// below a millisecond, milliseconds below a second, and the default string
// representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
