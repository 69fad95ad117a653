// Package config provides configuration management for minewatch.
//
// Configuration lives in $HOME/.minewatch/config.yaml and is created with
// defaults on first run. A different file can be selected with the -config
// flag (wired through CfgFile before InitConfig). Settings are read via
// viper; the Update* functions refresh the global *Properties values, which
// is what the SIGHUP reload handler calls.
//
// Keys:
//
//	clock.enabled          enable the server clock probe
//	clock.probe_player     impossible player name used by the probe
//	clock.reference_days   safety margin for the probe reference instant
//	clock.show_on_connect  display server time once known after connect
//	clock.sntp.enabled     try direct SNTP before the chat probe
//	clock.sntp.timeout     SNTP query timeout
//	transport.address      server console host:port
//	transport.dial_timeout TCP dial timeout
package config
