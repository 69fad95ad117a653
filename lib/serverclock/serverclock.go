package serverclock

import (
	"sync"
	"time"

	"github.com/go-minewatch/go-minewatch/lib/chat"
	"github.com/go-minewatch/go-minewatch/lib/util/logger"
	"github.com/go-minewatch/go-minewatch/lib/util/time/clockmath"
)

var log = logger.GetMinewatchLogger()

// Sender delivers one outbound command line to the remote server.
type Sender interface {
	SendCommand(cmd string) error
}

// EndpointSource reports the identifier of the currently connected remote
// server, if any.
type EndpointSource interface {
	CurrentEndpoint() (string, bool)
}

// Options tunes a ServerClock. The zero value selects the defaults used by
// the original probe technique.
type Options struct {
	// ProbePlayer is the impossible player name in the probe query.
	// Defaults to DefaultProbePlayer.
	ProbePlayer string
	// ReferenceDays is how many days back the probe reference instant is
	// placed. Defaults to clockmath.DefaultReferenceDays.
	ReferenceDays int
	// Resolver, when set, is tried before the chat probe.
	Resolver *SNTPResolver
}

// ServerClock owns the probe state machine: it decides when to send the
// engineered query, correlates the two asynchronous response lines to the
// in-flight probe, records the resolved offset exactly once per endpoint
// and optionally echoes the server's wall-clock time locally.
//
// Probe state is deliberately global rather than keyed per endpoint: only
// one server connection, and therefore at most one probe, is live at a
// time.
type ServerClock struct {
	sender    Sender
	endpoints EndpointSource
	output    chat.OutputFunc
	offsets   *OffsetStore

	probePlayer   string
	referenceDays int
	resolver      *SNTPResolver

	mu sync.Mutex
	// pendingDisplay remembers that the caller of the in-flight probe asked
	// to see the server time once it is known.
	pendingDisplay bool
	// echoNextNoResults is armed (true) by default: "No results found." is
	// shown to the user. The time check handler disarms it right before the
	// probe's own no-results line arrives.
	echoNextNoResults bool

	nowFunc func() time.Time
}

// New creates a ServerClock. output may be nil when no local display
// channel exists; display requests then degrade to no-ops.
func New(sender Sender, endpoints EndpointSource, output chat.OutputFunc, opts Options) *ServerClock {
	if opts.ProbePlayer == "" {
		opts.ProbePlayer = DefaultProbePlayer
	}
	if opts.ReferenceDays <= 0 {
		opts.ReferenceDays = clockmath.DefaultReferenceDays
	}
	return &ServerClock{
		sender:            sender,
		endpoints:         endpoints,
		output:            output,
		offsets:           NewOffsetStore(),
		probePlayer:       opts.ProbePlayer,
		referenceDays:     opts.ReferenceDays,
		resolver:          opts.Resolver,
		echoNextNoResults: true,
		nowFunc:           time.Now,
	}
}

// Register subscribes the two response handlers on the dispatcher. Call
// once, before any probe is sent.
func (sc *ServerClock) Register(d *chat.Dispatcher) {
	d.Subscribe(timeCheckPattern(sc.probePlayer), sc.handleTimeCheck)
	d.Subscribe(noResultsPattern, sc.handleNoResults)
}

// OffsetMinutes returns the cached offset for the current endpoint, or 0
// when no endpoint is connected or its offset has not been resolved yet.
// It never blocks and never fails.
func (sc *ServerClock) OffsetMinutes() int {
	endpoint, ok := sc.endpoints.CurrentEndpoint()
	if !ok {
		return 0
	}
	minutes, _ := sc.offsets.Get(endpoint)
	return minutes
}

// EnsureKnown makes sure an offset resolution is underway for the current
// endpoint. With a cached offset it only honors the display request;
// otherwise it tries the SNTP fast path and falls back to sending the chat
// probe, fire and forget. Resolution completes later on the dispatch path.
func (sc *ServerClock) EnsureKnown(display bool) {
	endpoint, ok := sc.endpoints.CurrentEndpoint()
	if !ok {
		return
	}

	if _, resolved := sc.offsets.Get(endpoint); resolved {
		if display {
			sc.showServerTime(endpoint)
		}
		return
	}

	if sc.resolver != nil {
		if minutes, err := sc.resolver.Resolve(endpoint); err == nil {
			sc.offsets.Put(endpoint, minutes)
			log.WithFields(map[string]interface{}{
				"endpoint": endpoint,
				"offset":   minutes,
			}).Debug("Resolved server clock offset over SNTP")
			if display {
				sc.showServerTime(endpoint)
			}
			return
		} else {
			log.WithError(err).WithField("endpoint", endpoint).Debug("SNTP fast path failed, falling back to chat probe")
		}
	}

	reference := clockmath.ReferenceInstantDays(sc.nowFunc(), sc.referenceDays)
	query := BuildProbeQuery(sc.probePlayer, reference)

	sc.mu.Lock()
	sc.pendingDisplay = display
	sc.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"endpoint": endpoint,
		"query":    query,
	}).Debug("Sending server time probe")
	if err := sc.sender.SendCommand(query); err != nil {
		log.WithError(err).WithField("endpoint", endpoint).Error("Failed to send server time probe")
	}
}

// handleTimeCheck processes the probe's result header. The header is a
// probe artifact and is never echoed, so the handler always returns false.
func (sc *ServerClock) handleTimeCheck(line string, match []string) bool {
	endpoint, ok := sc.endpoints.CurrentEndpoint()
	if !ok {
		return false
	}
	if _, resolved := sc.offsets.Get(endpoint); resolved {
		// Duplicate or stale header after resolution; ignore.
		return false
	}

	remoteMinutes, err := parseMinutesAgo(match)
	if err != nil {
		// Abandon this probe attempt rather than retry: a retry would put
		// duplicate probe traffic on the user's screen.
		log.WithError(err).WithField("endpoint", endpoint).Error("Unparsable time check header, abandoning probe")
		return false
	}

	now := sc.nowFunc()
	localMinutes := clockmath.MinutesBetween(now, clockmath.ReferenceInstantDays(now, sc.referenceDays))
	offset := localMinutes - remoteMinutes

	if !sc.offsets.Put(endpoint, offset) {
		// A racing duplicate resolved the endpoint first.
		return false
	}
	log.WithFields(map[string]interface{}{
		"endpoint":       endpoint,
		"remote_minutes": remoteMinutes,
		"local_minutes":  localMinutes,
		"offset":         offset,
	}).Debug("Resolved server clock offset")

	sc.mu.Lock()
	display := sc.pendingDisplay
	sc.pendingDisplay = false
	// The probe's own "No results found." follows this header; hide it.
	sc.echoNextNoResults = false
	sc.mu.Unlock()

	if display {
		sc.showServerTime(endpoint)
	}
	return false
}

// handleNoResults decides whether a "No results found." line reaches the
// user. Exactly the one following a successful time check is swallowed;
// the flag re-arms unconditionally so every other occurrence echoes.
func (sc *ServerClock) handleNoResults(line string, match []string) bool {
	sc.mu.Lock()
	echo := sc.echoNextNoResults
	sc.echoNextNoResults = true
	sc.mu.Unlock()
	return echo
}

// showServerTime emits the server's current wall-clock time on the local
// display channel. Only called once the endpoint's offset is known.
func (sc *ServerClock) showServerTime(endpoint string) {
	if sc.output == nil {
		return
	}
	minutes, ok := sc.offsets.Get(endpoint)
	if !ok {
		return
	}
	sc.output(clockmath.FormatMonthDayTime(clockmath.RemoteNow(minutes, sc.nowFunc())))
}
