package serverclock

import (
	"fmt"
	"time"
)

// BuildProbeQuery formats the engineered LogBlock query for the given
// reference instant. Both dates are the reference day (day.month.year, no
// zero padding), giving a one second window starting at midnight. The
// window is kept tight so the server's database does essentially no work;
// the emptiness guarantee itself comes from the impossible player name.
func BuildProbeQuery(player string, reference time.Time) string {
	date := fmt.Sprintf("%d.%d.%d", reference.Day(), int(reference.Month()), reference.Year())
	return fmt.Sprintf("/lb player %s since %s 00:00:00 before %s 00:00:01 limit 1", player, date, date)
}
