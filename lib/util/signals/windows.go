//go:build windows
// +build windows

package signals

import (
	"os"
	"os/signal"
)

func init() {
	signal.Notify(sigChan, os.Interrupt)
}

// Handle dispatches received signals to the registered handlers until
// StopHandle closes the channel. Windows only delivers interrupts.
func Handle() {
	for {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		if sig == os.Interrupt {
			handleInterrupted()
		}
	}
}
