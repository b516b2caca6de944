package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLongTokenIssued  EventType = "long_token_issued"
	EventShortTokenIssued EventType = "short_token_issued"
	EventTokenRejected    EventType = "token_rejected"
)

// Event represents an auth event emitted by services and the transport.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	SchoolID  string      `json:"school_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LongTokenIssuedPayload payload.
type LongTokenIssuedPayload struct {
	Reason string `json:"reason"`
}

// ShortTokenIssuedPayload payload.
type ShortTokenIssuedPayload struct {
	SessionID string `json:"session_id"`
	DeviceID  string `json:"device_id"`
}

// TokenRejectedPayload payload.
type TokenRejectedPayload struct {
	Operation string `json:"operation"`
	Key       string `json:"key"`
	RemoteIP  string `json:"remote_ip,omitempty"`
}
