//go:build !windows
// +build !windows

package signals

import (
	"os/signal"
	"syscall"
)

func init() {
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
}

// Handle dispatches received signals to the registered handlers until
// StopHandle closes the channel.
func Handle() {
	for {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		switch sig {
		case syscall.SIGHUP:
			handleReload()
		case syscall.SIGINT, syscall.SIGTERM:
			handleInterrupted()
		}
	}
}
