// Package push delivers notification events to an external channel.
//
// The in-app notification row is always written by the caller before a
// dispatcher is invoked; delivery here is best-effort and a failure must
// never roll back or block the in-app record.
package push

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Message is one notification to deliver.
// Token is the owner's FCM device token; empty means in-app only.
type Message struct {
	UserId string `json:"user_id"`
	Token  string `json:"-"`
	Tipo   string `json:"tipo"`
	Titolo string `json:"titolo"`
	Testo  string `json:"testo"`
}

type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// FromEnv selects the dispatcher once at process start.
//
// PUSH_DRIVER: "fcm", "pubsub" or empty (no-op).
// A driver that fails to initialize degrades to the no-op dispatcher so the
// in-app notification path keeps working.
func FromEnv(ctx context.Context, logger *logrus.Logger) Dispatcher {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PUSH_DRIVER"))) {
	case "fcm":
		d, err := NewFCM(ctx)
		if err != nil {
			logger.WithFields(logrus.Fields{"module": "push"}).Warn("fcm init failed, push disabled: " + err.Error())
			return Noop{}
		}
		logger.WithFields(logrus.Fields{"module": "push"}).Info("push driver: fcm")
		return d
	case "pubsub":
		logger.WithFields(logrus.Fields{"module": "push"}).Info("push driver: pubsub")
		return NewPubSub()
	default:
		return Noop{}
	}
}
