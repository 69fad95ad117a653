package serverclock

import (
	"regexp"
	"strconv"

	"github.com/samber/oops"
)

// DefaultProbePlayer is the player name used in the probe query. At 21
// characters it is longer than any name the server will accept, so the
// query is guaranteed to match no rows.
const DefaultProbePlayer = "watsonservertimecheck"

// noResultsPattern matches the generic LogBlock "no rows" notification.
// Every empty query produces one, including our own probe.
var noResultsPattern = regexp.MustCompile(`^No results found\.$`)

// timeCheckPattern builds the pattern for the probe's result header, e.g.
//
//	Block changes from player watsonservertimecheck between 1552 and 1552 minutes ago in world:
//
// Group 1 carries the server-side minutes-ago value for the probe's
// reference instant; group 2 duplicates it and is ignored.
func timeCheckPattern(player string) *regexp.Regexp {
	return regexp.MustCompile(
		`^Block changes from player ` + regexp.QuoteMeta(player) +
			` between (\d+) and (\d+) minutes ago in world:`)
}

// parseMinutesAgo extracts the server-side minutes-ago value from a
// timeCheckPattern submatch.
func parseMinutesAgo(match []string) (int, error) {
	if len(match) < 2 {
		return 0, oops.Errorf("time check header match has no minutes group")
	}
	minutes, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, oops.Errorf("time check header minutes %q is not numeric: %w", match[1], err)
	}
	return minutes, nil
}
