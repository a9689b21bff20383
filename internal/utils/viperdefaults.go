package utils

import "github.com/spf13/viper"

// Set the viper defaults for the minstrel input level monitor.
// For use in cmd/monitor.
func SetViperDefaults() {
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("logfile", "")
	viper.SetDefault("device", "")
	viper.SetDefault("samplerate", 44100)
	viper.SetDefault("channels", 1)
	viper.SetDefault("framesperbuffer", 1024)
	viper.SetDefault("refreshmilliseconds", 100)
}
