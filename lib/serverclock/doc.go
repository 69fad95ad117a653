// Package serverclock estimates how far the local clock is ahead of the
// remote server's clock when the server offers no way to ask for the time
// directly.
//
// The trick: issue a LogBlock query for a player name longer than any real
// player name, over a one second window at midnight two days ago. The query
// can never return rows, but its result header reports the query window as
// "N minutes ago" in the server's local time. Comparing N against the same
// window expressed in local minutes yields the clock offset, at whole
// minute resolution. The probe is sent at most once per endpoint; the first
// parsed response is authoritative for the process lifetime.
//
// The query inevitably produces a "No results found." line of its own,
// which is suppressed from the local display exactly once so the user never
// sees the probe's artifacts. Unrelated "No results found." lines from the
// user's own queries pass through untouched.
//
// Endpoints whose host answers SNTP directly can skip the chat probe
// entirely via the optional resolver fast path.
package serverclock
