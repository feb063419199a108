package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func setupLogging() {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
		if os.Getenv("LOG_DEBUG") == "true" {
			level = logrus.DebugLevel
		}
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
