package db

import (
	"strings"

	"github.com/sirupsen/logrus"
)

type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) {
	logrus.WithField("component", "migrations").Fatalf(strings.TrimSpace(format), v...)
}

func (gooseLogger) Printf(format string, v ...any) {
	logrus.WithField("component", "migrations").Infof(strings.TrimSpace(format), v...)
}
