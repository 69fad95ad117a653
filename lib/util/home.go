package util

import (
	"os"

	"github.com/go-minewatch/go-minewatch/lib/util/logger"
)

var log = logger.GetMinewatchLogger()

// UserHome returns the current user's home directory.
// Falls back to $HOME (or USERPROFILE on Windows) if os.UserHomeDir fails,
// and as a last resort uses the current working directory rather than
// panicking, which keeps containerized environments without $HOME working.
func UserHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv("HOME"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to $HOME")
			return home
		}
		if home := os.Getenv("USERPROFILE"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to USERPROFILE")
			return home
		}
		if wd, wdErr := os.Getwd(); wdErr == nil {
			log.WithError(err).Warn("os.UserHomeDir and $HOME unavailable; falling back to working directory")
			return wd
		}
		panic("minewatch: unable to determine home directory; set $HOME")
	}
	return homeDir
}
