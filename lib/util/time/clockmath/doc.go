// Package clockmath provides the pure time arithmetic behind remote server
// clock offset estimation.
//
// Offsets are whole minutes by construction: the remote side only ever
// reports "N minutes ago", so everything here works on minute granularity
// with integer division on millisecond instants. The sign convention is
// fixed throughout the module: offset = local minutes since the reference
// instant minus remote minutes since the reference instant, so a positive
// offset means the local clock is ahead of the server.
//
// Usage:
//
//	ref := clockmath.ReferenceInstant(time.Now())
//	local := clockmath.MinutesBetween(time.Now(), ref)
//	offset := local - remoteMinutes
package clockmath
