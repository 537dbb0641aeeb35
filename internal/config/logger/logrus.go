package logger

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger from log.level (logrus numbering, 4 is info).
func NewLogger(config *env.Config) *logrus.Logger {
	log := logrus.New()

	log.SetLevel(logrus.Level(config.Log.Level))
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	return log
}
