package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	CommandStatusSent         = "sent"
	CommandStatusAcknowledged = "acknowledged"
	CommandStatusFailed       = "failed"
	CommandStatusExpired      = "expired"
)

// Command is an instruction uplinked to the satellite.
type Command struct {
	ID          uuid.UUID       `json:"id"`
	SatelliteID string          `json:"satelliteId"`
	Name        string          `json:"name"`
	Params      json.RawMessage `json:"params"`
	Status      string          `json:"status"`
	IssuedBy    string          `json:"issuedBy"`
	Response    string          `json:"response,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	AckedAt     *time.Time      `json:"ackedAt,omitempty"`
}

// CommandRequest is the body accepted by the command endpoint.
type CommandRequest struct {
	SatelliteID string          `json:"satelliteId"`
	Name        string          `json:"name"`
	Params      json.RawMessage `json:"params,omitempty"`
}

// Validate checks the command name is allowed and the params are a JSON object.
func (r *CommandRequest) Validate(allowed []string) error {
	if r.Name == "" {
		return NewValidationError("name", "is required")
	}
	permitted := false
	for _, a := range allowed {
		if a == r.Name {
			permitted = true
			break
		}
	}
	if !permitted {
		return NewValidationError("name", "command %q is not allowed", r.Name)
	}
	if len(r.Params) == 0 || string(r.Params) == "null" {
		r.Params = json.RawMessage(`{}`)
		return nil
	}
	if !IsJSONObject(r.Params) {
		return NewValidationError("params", "must be a JSON object")
	}
	return nil
}

// CommandAck is the satellite's answer to a command.
type CommandAck struct {
	CommandID uuid.UUID `json:"commandId"`
	Status    string    `json:"status"`
	Response  string    `json:"response,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the ack carries a terminal status.
func (a *CommandAck) Validate() error {
	if a.CommandID == uuid.Nil {
		return NewValidationError("commandId", "is required")
	}
	if a.Status != CommandStatusAcknowledged && a.Status != CommandStatusFailed {
		return NewValidationError("status", "must be %q or %q", CommandStatusAcknowledged, CommandStatusFailed)
	}
	return nil
}

// IsTerminalStatus reports whether a command can no longer change status.
func IsTerminalStatus(status string) bool {
	return status == CommandStatusAcknowledged || status == CommandStatusFailed || status == CommandStatusExpired
}

// IsJSONObject reports whether raw decodes to a JSON object.
func IsJSONObject(raw []byte) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}
