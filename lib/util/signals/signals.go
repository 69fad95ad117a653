package signals

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
)

// sigChan is buffered so a signal delivered while no receiver is ready is
// not lost.
var sigChan = make(chan os.Signal, 1)

// Handler is a function called when a signal is received.
type Handler func()

var (
	mu           sync.RWMutex
	reloaders    []Handler
	interrupters []Handler
	stopOnce     sync.Once
)

// RegisterReloadHandler registers a handler called on SIGHUP (config reload).
// Nil handlers are silently ignored.
func RegisterReloadHandler(f Handler) {
	if f == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	reloaders = append(reloaders, f)
}

// RegisterInterruptHandler registers a handler called on SIGINT/SIGTERM
// (shutdown). Nil handlers are silently ignored.
func RegisterInterruptHandler(f Handler) {
	if f == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	interrupters = append(interrupters, f)
}

func handleReload() {
	runHandlers(&reloaders, "reload")
}

func handleInterrupted() {
	runHandlers(&interrupters, "interrupt")
}

func runHandlers(handlers *[]Handler, kind string) {
	mu.RLock()
	snapshot := make([]Handler, len(*handlers))
	copy(snapshot, *handlers)
	mu.RUnlock()
	for _, h := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// No logger here; write straight to stderr so panicking
					// handlers stay visible.
					fmt.Fprintf(os.Stderr, "signals: panic in %s handler: %v\n", kind, r)
				}
			}()
			h()
		}()
	}
}

// StopHandle closes the signal channel, causing Handle() to return. Safe to
// call more than once.
func StopHandle() {
	stopOnce.Do(func() {
		signal.Stop(sigChan)
		close(sigChan)
	})
}
