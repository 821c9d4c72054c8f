package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandMessage(t *testing.T) {
	cmd := models.Command{
		ID:          uuid.New(),
		SatelliteID: "agrosat-1",
		Name:        "capture_image",
		Params:      json.RawMessage(`{"exposure":20}`),
		IssuedBy:    "operator1",
		CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := NewCommandMessage(cmd)
	require.NoError(t, err)

	assert.Equal(t, cmd.ID.String(), msg.Key)
	assert.Equal(t, TypeCommand, msg.Properties[MessageTypeProperty])
	assert.Equal(t, cmd.CreatedAt, msg.EventTime)

	var body UplinkCommand
	require.NoError(t, json.Unmarshal(msg.Payload, &body))
	assert.Equal(t, "capture_image", body.Name)
	assert.Equal(t, "agrosat-1", body.SatelliteID)
	assert.JSONEq(t, `{"exposure":20}`, string(body.Params))
	assert.Equal(t, cmd.CreatedAt.Unix(), body.IssuedAt)
}

func TestDeadLetterTopic(t *testing.T) {
	assert.Equal(t, "persistent://agroxsat/groundstation/downlink-dlq", DeadLetterTopic("persistent://agroxsat/groundstation/downlink"))
}
