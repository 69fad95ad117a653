package config

import (
	"time"

	"github.com/spf13/viper"
)

// SNTPConfig controls the optional direct-SNTP offset resolution fast path.
type SNTPConfig struct {
	// Enabled tries an SNTP query against the endpoint host before falling
	// back to the chat probe.
	Enabled bool
	// Timeout bounds a single SNTP query.
	Timeout time.Duration
}

// ClockConfig controls the server clock offset probe.
type ClockConfig struct {
	// Enabled turns the whole server clock feature on or off.
	Enabled bool
	// ProbePlayer is the impossible player name used in the probe query.
	ProbePlayer string
	// ReferenceDays is how many days in the past the probe reference
	// instant is placed.
	ReferenceDays int
	// ShowOnConnect displays the server time as soon as it is known after
	// connecting.
	ShowOnConnect bool
	// SNTP fast path settings.
	SNTP SNTPConfig
}

// defaults match the original probe technique: two whole days of safety
// margin and a 21 character player name no server will accept.
var DefaultClockConfig = ClockConfig{
	Enabled:       true,
	ProbePlayer:   "watsonservertimecheck",
	ReferenceDays: 2,
	ShowOnConnect: false,
	SNTP: SNTPConfig{
		Enabled: false,
		Timeout: 5 * time.Second,
	},
}

var ClockConfigProperties = DefaultClockConfig

// NewClockConfigFromViper creates a ClockConfig from current viper settings.
// This is the preferred way to read config instead of the global
// ClockConfigProperties.
func NewClockConfigFromViper() ClockConfig {
	return ClockConfig{
		Enabled:       viper.GetBool("clock.enabled"),
		ProbePlayer:   viper.GetString("clock.probe_player"),
		ReferenceDays: viper.GetInt("clock.reference_days"),
		ShowOnConnect: viper.GetBool("clock.show_on_connect"),
		SNTP: SNTPConfig{
			Enabled: viper.GetBool("clock.sntp.enabled"),
			Timeout: viper.GetDuration("clock.sntp.timeout"),
		},
	}
}

// UpdateClockConfig refreshes the global ClockConfigProperties from viper.
func UpdateClockConfig() {
	ClockConfigProperties = NewClockConfigFromViper()
}
