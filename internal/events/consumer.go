package events

import (
	"context"
	"fmt"
	"time"

	"github.com/AgroXSat/groundstation-services/internal/appconfig"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog/log"
)

const (
	// MaxDeliveries is how often a frame is redelivered before it moves to the dead letter topic.
	MaxDeliveries = 3

	nackRedeliveryDelay = 30 * time.Second
)

// DeadLetterTopic names the topic frames land on after MaxDeliveries failed attempts.
func DeadLetterTopic(topic string) string {
	return topic + "-dlq"
}

// DownlinkConsumer reads satellite frames from the downlink topic.
type DownlinkConsumer struct {
	client   pulsar.Client
	consumer pulsar.Consumer
}

// NewDownlinkConsumer joins the shared downlink subscription. Frames recorded
// while the consumer was down are read from where the subscription left off;
// a brand new subscription starts at the oldest retained frame.
func NewDownlinkConsumer(cfg appconfig.PulsarConfig) (*DownlinkConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: cfg.URL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:                       cfg.TopicDownlink,
		SubscriptionName:            cfg.Subscription,
		Type:                        pulsar.Shared,
		SubscriptionInitialPosition: pulsar.SubscriptionPositionEarliest,
		NackRedeliveryDelay:         nackRedeliveryDelay,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   MaxDeliveries,
			DeadLetterTopic: DeadLetterTopic(cfg.TopicDownlink),
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not subscribe to %s: %w", cfg.TopicDownlink, err)
	}

	log.Info().Str("topic", cfg.TopicDownlink).Str("subscription", cfg.Subscription).Msg("Pulsar client and downlink consumer initialized")
	return &DownlinkConsumer{client: client, consumer: consumer}, nil
}

// ReceiveMessage blocks until a frame arrives or ctx is done.
func (c *DownlinkConsumer) ReceiveMessage(ctx context.Context) (pulsar.Message, error) {
	msg, err := c.consumer.Receive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to receive frame: %w", err)
	}
	return msg, nil
}

func (c *DownlinkConsumer) Ack(msg pulsar.Message) error {
	return c.consumer.Ack(msg)
}

// Nack schedules the frame for redelivery after the nack delay.
func (c *DownlinkConsumer) Nack(msg pulsar.Message) {
	c.consumer.Nack(msg)
}

func (c *DownlinkConsumer) Close() {
	c.consumer.Close()
	c.client.Close()
	log.Info().Msg("Pulsar client and downlink consumer closed")
}
