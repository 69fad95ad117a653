package clockmath

import "time"

// DefaultReferenceDays is how many whole days in the past the probe
// reference instant is placed. Midnight two days ago is far enough back
// that no plausible skew between the local and remote clocks can push it
// into the remote machine's future.
const DefaultReferenceDays = 2

// millisPerMinute is the conversion factor between minute offsets and
// millisecond instants.
const millisPerMinute = 60 * 1000

// ReferenceInstant returns the probe reference instant for the given local
// time: midnight (local day boundary) DefaultReferenceDays before now.
// Deterministic for a given now.
func ReferenceInstant(now time.Time) time.Time {
	return ReferenceInstantDays(now, DefaultReferenceDays)
}

// ReferenceInstantDays is ReferenceInstant with a caller-chosen day margin.
// A non-positive days value still truncates to the current day boundary.
func ReferenceInstantDays(now time.Time, days int) time.Time {
	if days > 0 {
		now = now.AddDate(0, 0, -days)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// MinutesBetween returns (a - b) in whole minutes, computed on the
// millisecond difference with integer division truncating toward zero.
func MinutesBetween(a, b time.Time) int {
	return int((a.UnixMilli() - b.UnixMilli()) / millisPerMinute)
}

// RemoteNow converts a stored minute offset (local minus remote, positive
// when the local clock is ahead) back into the remote wall-clock time
// corresponding to the local instant now.
func RemoteNow(offsetMinutes int, now time.Time) time.Time {
	return now.Add(-time.Duration(offsetMinutes) * time.Minute)
}

// FormatMonthDayTime renders a timestamp as month, day and time of day,
// the format used when echoing the remote server's clock locally.
func FormatMonthDayTime(t time.Time) string {
	return t.Format("Jan 2 15:04:05")
}
