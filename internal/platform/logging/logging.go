package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"personnel/internal/platform/config"
)

// Setup configures the standard logrus logger for the process and returns it.
func Setup(cfg config.Config) *logrus.Logger {
	return Configure(logrus.StandardLogger(), cfg, os.Stdout)
}

func Configure(logger *logrus.Logger, cfg config.Config, out io.Writer) *logrus.Logger {
	logger.SetOutput(out)
	if cfg.Environment == "development" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
				logrus.FieldKeyMsg:  "msg",
			},
		})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
