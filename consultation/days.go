package consultation

import (
	"fmt"
	"math"
	"time"
)

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ActiveDays is the signed number of whole days between today and the
// expiry timestamp, measured between day boundaries. Positive means the
// consultation is still in effect, zero or negative means it lapsed.
// The gap between consecutive midnights is 23 or 25 hours across a DST
// transition, so the quotient is rounded rather than truncated.
func ActiveDays(expiresOn, now time.Time) int {
	diff := midnight(expiresOn).Sub(midnight(now))
	return int(math.Round(diff.Hours() / 24))
}

// ExpiresAfter converts an active-day count into the concrete expiry
// timestamp "today + N days" at the day boundary.
func ExpiresAfter(days int, now time.Time) time.Time {
	return midnight(now).AddDate(0, 0, days)
}

// StatusLabel renders the remaining-time label shown next to a
// consultation, distinguishing a live plan from a lapsed one.
func StatusLabel(activeDays int) string {
	switch {
	case activeDays > 1:
		return fmt.Sprintf("%d days remaining", activeDays)
	case activeDays == 1:
		return "1 day remaining"
	case activeDays == 0:
		return "deactivated today"
	case activeDays == -1:
		return "deactivated 1 day back"
	default:
		return fmt.Sprintf("deactivated %d days back", -activeDays)
	}
}
