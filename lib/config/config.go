package config

import (
	"os"
	"path/filepath"

	"github.com/go-minewatch/go-minewatch/lib/util"
	"github.com/go-minewatch/go-minewatch/lib/util/logger"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetMinewatchLogger()
)

const MINEWATCH_BASE_DIR = ".minewatch"

func InitConfig() {
	if CfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(CfgFile)
	} else {
		// Default config path $HOME/.minewatch/
		viper.AddConfigPath(BuildMinewatchDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	// handle config file, creating it if needed
	handleConfigFile()

	UpdateClockConfig()
	UpdateTransportConfig()
}

func setDefaults() {
	// Clock defaults
	viper.SetDefault("clock.enabled", DefaultClockConfig.Enabled)
	viper.SetDefault("clock.probe_player", DefaultClockConfig.ProbePlayer)
	viper.SetDefault("clock.reference_days", DefaultClockConfig.ReferenceDays)
	viper.SetDefault("clock.show_on_connect", DefaultClockConfig.ShowOnConnect)
	viper.SetDefault("clock.sntp.enabled", DefaultClockConfig.SNTP.Enabled)
	viper.SetDefault("clock.sntp.timeout", DefaultClockConfig.SNTP.Timeout)

	// Transport defaults
	viper.SetDefault("transport.address", DefaultTransportConfig.Address)
	viper.SetDefault("transport.dial_timeout", DefaultTransportConfig.DialTimeout)
}

func createDefaultConfig(defaultConfigDir string) {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	// Ensure directory exists
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		log.Fatalf("Could not create config directory: %s", err)
	}

	// Write current config file
	if err := viper.WriteConfigAs(defaultConfigFile); err != nil {
		log.Fatalf("Could not write default config file: %s", err)
	}

	log.Debugf("Created default configuration at: %s", defaultConfigFile)
}

func handleConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if CfgFile != "" {
				log.Fatalf("Config file %s is not found: %s", CfgFile, err)
			} else {
				createDefaultConfig(BuildMinewatchDirPath())
			}
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	} else {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func BuildMinewatchDirPath() string {
	return filepath.Join(util.UserHome(), MINEWATCH_BASE_DIR)
}
