package downlink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AgroXSat/groundstation-services/internal/events"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownType = errors.New("unknown frame type")
	ErrMalformed   = errors.New("malformed frame")
)

// Recorder stores downlinked frames. *services.Service implements it.
type Recorder interface {
	RecordTelemetry(ctx context.Context, t models.Telemetry) (*models.Telemetry, error)
	RecordPosition(ctx context.Context, req models.PositionRequest) (*models.SatellitePosition, error)
	RecordPayload(ctx context.Context, p models.Payload) (*models.Payload, error)
	RecordCommandAck(ctx context.Context, ack models.CommandAck) (*models.Command, error)
}

// Consumer receives and settles messages. *events.DownlinkConsumer implements it.
type Consumer interface {
	ReceiveMessage(ctx context.Context) (pulsar.Message, error)
	Ack(msg pulsar.Message) error
	Nack(msg pulsar.Message)
}

// DefaultReceiveBackoff is how long Run waits after a failed receive.
const DefaultReceiveBackoff = time.Second

// Dispatcher routes downlink frames to the recorder by their type property.
type Dispatcher struct {
	recorder Recorder

	// ReceiveBackoff is the pause after a failed receive.
	ReceiveBackoff time.Duration
}

func NewDispatcher(recorder Recorder) *Dispatcher {
	return &Dispatcher{recorder: recorder, ReceiveBackoff: DefaultReceiveBackoff}
}

// Handle decodes and records a single frame.
func (d *Dispatcher) Handle(ctx context.Context, msg pulsar.Message) error {
	frameType := msg.Properties()[events.MessageTypeProperty]

	switch frameType {
	case events.TypeTelemetry:
		var t models.Telemetry
		if err := decode(msg, &t); err != nil {
			return err
		}
		_, err := d.recorder.RecordTelemetry(ctx, t)
		return err

	case events.TypePosition:
		var p models.PositionRequest
		if err := decode(msg, &p); err != nil {
			return err
		}
		_, err := d.recorder.RecordPosition(ctx, p)
		return err

	case events.TypePayload:
		var p models.Payload
		if err := decode(msg, &p); err != nil {
			return err
		}
		_, err := d.recorder.RecordPayload(ctx, p)
		return err

	case events.TypeCommandAck:
		var ack models.CommandAck
		if err := decode(msg, &ack); err != nil {
			return err
		}
		_, err := d.recorder.RecordCommandAck(ctx, ack)
		return err

	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, frameType)
	}
}

func decode(msg pulsar.Message, v interface{}) error {
	if err := json.Unmarshal(msg.Payload(), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// IsPoison reports whether redelivering a frame that failed with err cannot help.
func IsPoison(err error) bool {
	return models.IsValidationError(err) || errors.Is(err, ErrMalformed) || errors.Is(err, ErrUnknownType)
}

// Run receives frames until ctx is cancelled. Poison frames are acked and
// dropped; other failures are nacked for redelivery.
func (d *Dispatcher) Run(ctx context.Context, consumer Consumer) error {
	logger := zerolog.Ctx(ctx)

	for {
		msg, err := consumer.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error().Err(err).Dur("backoff", d.ReceiveBackoff).Msg("Error receiving message")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(d.ReceiveBackoff):
			}
			continue
		}

		frameLogger := logger.With().
			Str("message_id", msg.ID().String()).
			Str("type", msg.Properties()[events.MessageTypeProperty]).
			Uint32("redelivery", msg.RedeliveryCount()).
			Logger()

		err = d.Handle(frameLogger.WithContext(ctx), msg)
		switch {
		case err == nil:
			frameLogger.Debug().Msg("Frame recorded")
		case IsPoison(err):
			frameLogger.Warn().Err(err).Msg("Dropping invalid frame")
		default:
			frameLogger.Error().Err(err).Msg("Failed to record frame")
			consumer.Nack(msg)
			continue
		}

		if err := consumer.Ack(msg); err != nil {
			frameLogger.Error().Err(err).Msg("Failed to ack frame")
		}
	}
}
