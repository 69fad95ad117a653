package config

import (
	"time"

	"github.com/spf13/viper"
)

// TransportConfig controls the console connection to the remote server.
type TransportConfig struct {
	// Address is the host:port of the server console.
	Address string
	// DialTimeout bounds the initial TCP dial.
	DialTimeout time.Duration
}

var DefaultTransportConfig = TransportConfig{
	Address:     "127.0.0.1:25575",
	DialTimeout: 10 * time.Second,
}

var TransportConfigProperties = DefaultTransportConfig

// NewTransportConfigFromViper creates a TransportConfig from current viper
// settings.
func NewTransportConfigFromViper() TransportConfig {
	return TransportConfig{
		Address:     viper.GetString("transport.address"),
		DialTimeout: viper.GetDuration("transport.dial_timeout"),
	}
}

// UpdateTransportConfig refreshes the global TransportConfigProperties from
// viper.
func UpdateTransportConfig() {
	TransportConfigProperties = NewTransportConfigFromViper()
}
