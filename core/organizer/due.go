package organizer

import (
	"fmt"
	"math"
	"time"
)

// DaysUntil is the number of whole days between now and end, floored.
// Both times are compared on their wall clocks, ignoring their zones.
func DaysUntil(end time.Time) int {
	diff := naive(end).Sub(naive(NowFunc()))
	return int(math.Floor(diff.Hours() / 24))
}

func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// DueString renders a day difference as computed by DaysUntil.
func DueString(days int) string {
	switch {
	case days == 0:
		return "Due Today"
	case days == 1:
		return "Due in 1 Day"
	case days == -1:
		return "Due 1 Day Ago"
	case days < -1:
		return fmt.Sprintf("Due %d Days Ago", -days)
	default:
		return fmt.Sprintf("Due in %d Days", days)
	}
}
