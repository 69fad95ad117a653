package chat

import (
	"regexp"
	"sync"

	"github.com/go-minewatch/go-minewatch/lib/util/logger"
)

var log = logger.GetMinewatchLogger()

// Handler is invoked for every inbound line matching its subscription
// pattern. match holds the submatches from the pattern. The return value
// decides whether the line should still be echoed to the local user; any
// matching handler returning false suppresses the line.
type Handler func(line string, match []string) bool

// OutputFunc writes one line to the local display channel.
type OutputFunc func(line string)

type subscription struct {
	pattern *regexp.Regexp
	handler Handler
}

// Dispatcher fans inbound console lines out to pattern subscriptions, in
// registration order, synchronously on the caller's goroutine. It replaces
// ad-hoc chat hooks with a single explicit dispatch loop.
type Dispatcher struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers a handler for lines matching pattern. Handlers are
// tried in the order they were registered.
func (d *Dispatcher) Subscribe(pattern *regexp.Regexp, handler Handler) {
	if pattern == nil || handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, subscription{pattern: pattern, handler: handler})
}

// Dispatch tests line against every subscription and runs the handlers of
// those that match. It reports whether the line should be echoed locally:
// true unless some matching handler asked for suppression. Lines matching
// no subscription are always echoed.
func (d *Dispatcher) Dispatch(line string) bool {
	d.mu.RLock()
	subs := make([]subscription, len(d.subs))
	copy(subs, d.subs)
	d.mu.RUnlock()

	echo := true
	for _, sub := range subs {
		match := sub.pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if !sub.handler(line, match) {
			log.WithField("line", line).Debug("Chat line suppressed by handler")
			echo = false
		}
	}
	return echo
}
