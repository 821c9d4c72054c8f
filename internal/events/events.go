package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog/log"
)

// MessageTypeProperty names the pulsar property that tells frame types apart.
const MessageTypeProperty = "type"

const (
	TypeCommand    = "command"
	TypeTelemetry  = "telemetry"
	TypePosition   = "position"
	TypePayload    = "payload"
	TypeCommandAck = "command-ack"
)

// UplinkCommand is the message sent to the uplink modem for each command.
type UplinkCommand struct {
	ID          string          `json:"id"`
	SatelliteID string          `json:"satelliteId"`
	Name        string          `json:"name"`
	Params      json.RawMessage `json:"params"`
	IssuedBy    string          `json:"issuedBy"`
	IssuedAt    int64           `json:"issuedAt"`
}

// CommandPublisher sends commands to the uplink topic.
type CommandPublisher interface {
	PublishCommand(ctx context.Context, cmd models.Command) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized")
	return &EventPublisher{client: client, producer: producer}, nil
}

// PublishCommand publishes a command keyed by its ID so retries land on the same partition.
func (p *EventPublisher) PublishCommand(ctx context.Context, cmd models.Command) error {
	msg, err := NewCommandMessage(cmd)
	if err != nil {
		return err
	}

	if _, err := p.producer.Send(ctx, msg); err != nil {
		return fmt.Errorf("could not send command to Pulsar: %w", err)
	}

	log.Debug().Str("command_id", cmd.ID.String()).Str("command", cmd.Name).Msg("Command sent to Pulsar")
	return nil
}

// NewCommandMessage builds the producer message for a command.
func NewCommandMessage(cmd models.Command) (*pulsar.ProducerMessage, error) {
	payload := UplinkCommand{
		ID:          cmd.ID.String(),
		SatelliteID: cmd.SatelliteID,
		Name:        cmd.Name,
		Params:      cmd.Params,
		IssuedBy:    cmd.IssuedBy,
		IssuedAt:    cmd.CreatedAt.Unix(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not serialize command: %w", err)
	}

	return &pulsar.ProducerMessage{
		Payload:    body,
		Key:        payload.ID,
		Properties: map[string]string{MessageTypeProperty: TypeCommand},
		EventTime:  cmd.CreatedAt,
	}, nil
}

// Close closes the Pulsar producer and client.
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed")
}
