package hub

import (
	"time"

	"github.com/soar/padchord/internal/dispatch"
	"github.com/soar/padchord/internal/gamepad"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string                `json:"type"`      // "hello", "full" or "delta"
	Seq       int64                 `json:"seq"`       // Sequence number for ordering
	Timestamp int64                 `json:"timestamp"` // Unix timestamp in milliseconds
	ClientID  string                `json:"clientId,omitempty"`
	Zone      string                `json:"zone,omitempty"`
	Events    []string              `json:"events,omitempty"` // Actions injected in that tick
	Data      *gamepad.DeviceState  `json:"data,omitempty"`
	Changes   *gamepad.DeltaChanges `json:"changes,omitempty"`
}

// NewHelloMessage greets a new client with its id.
func NewHelloMessage(clientID string) *WSMessage {
	return &WSMessage{
		Type:      "hello",
		Timestamp: time.Now().UnixMilli(),
		ClientID:  clientID,
	}
}

// NewFullMessage creates a "full" type message containing the complete state.
func NewFullMessage(seq int64, state *gamepad.DeviceState, zone string, events []string) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Zone:      zone,
		Events:    events,
		Data:      state,
	}
}

// NewDeltaMessage creates a "delta" type message containing only changed fields.
func NewDeltaMessage(seq int64, changes *gamepad.DeltaChanges, zone string, events []string) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Zone:      zone,
		Events:    events,
		Changes:   changes,
	}
}

// FormatEvents renders a batch as "+action" for presses and "-action" for
// releases.
func FormatEvents(b dispatch.Batch) []string {
	if len(b) == 0 {
		return nil
	}
	out := make([]string, len(b))
	for i, ev := range b {
		sign := "-"
		if ev.Pressed {
			sign = "+"
		}
		out[i] = sign + ev.Action.String()
	}
	return out
}
