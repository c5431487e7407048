package push

import (
	"context"
	"encoding/json"
	"os"

	"bitbucket.org/balancepmi/balance_backend/config"
)

const defaultPushTopic = "balance-notifications"

// PubSub publishes notification events to a Pub/Sub topic for a downstream
// delivery worker, instead of talking to the push provider directly.
type PubSub struct {
	topic string
}

func NewPubSub() *PubSub {
	topic := os.Getenv("PUSH_TOPIC")
	if topic == "" {
		topic = defaultPushTopic
	}
	return &PubSub{topic: topic}
}

func (p *PubSub) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return config.PublishToTopic(ctx, p.topic, data)
}
