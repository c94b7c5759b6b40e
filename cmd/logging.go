package cmd

import (
	"os"

	"reiatsu/admin"
	"reiatsu/config"

	log "github.com/sirupsen/logrus"
)

// setupLogging configures the global logrus logger. The returned buffer
// keeps recent entries for the admin panel.
func setupLogging(cfg *config.Config) *admin.LogBuffer {
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, falling back to info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" || cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	buffer := admin.NewLogBuffer(0)
	log.AddHook(buffer)
	return buffer
}
