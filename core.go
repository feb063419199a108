package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"boardid-core/boardid"
	"boardid-core/info"
)

type command struct {
	Command string `json:"command"`
}

func parseCommand(message []byte) (string, error) {
	var cmd command
	if err := json.Unmarshal(message, &cmd); err != nil {
		return "", err
	}
	return cmd.Command, nil
}

type identifyEvent struct {
	Event string     `json:"event"`
	Info  *info.Info `json:"info"`
}

func main() {
	_ = godotenv.Load()
	setupLogging()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	id, err := boardid.Detect()
	if err != nil {
		logrus.Warn("board detect err: ", err)
	}
	logrus.Info("board: ", id.String())

	conn := NewConnection(&ConnectPayload{
		Service: "boardid",
		Info:    info.Get(),
	})

	interval := time.Hour
	if raw := os.Getenv("REPORT_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			interval = d
		} else {
			logrus.Warnf("invalid REPORT_INTERVAL %q, using %s", raw, interval)
		}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.Info("ready to work")

	for {
		select {
		// commands from nodes-handler
		case message := <-conn.chanLive:
			cmd, err := parseCommand(message)
			if err != nil {
				logrus.Warn("rx unmarshal err: ", err)
				continue
			}
			switch cmd {
			case "identify":
				conn.send(&identifyEvent{
					Event: "identify",
					Info:  info.Get(),
				})
			case "services-destroy":
				logrus.Info("service destroyed")
				conn.close()
				return
			}

		// ticker-sender host snapshot
		case <-ticker.C:
			conn.send(&identifyEvent{
				Event: "identify",
				Info:  info.Get(),
			})

		case <-interrupt:
			logrus.Info("interrupt")
			conn.close()
			return
		}
	}
}
