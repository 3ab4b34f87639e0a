// Package memory implements the append-only JSONL action-audit log
// (<project>/.voiceterm/memory/events.jsonl) and its read-side retrieval
// for the MemoryBrowser overlay.
package memory

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current on-disk event schema.
const SchemaVersion = 1

// EventType names what kind of action an Event records.
type EventType string

const (
	EventTranscript EventType = "transcript"
	EventPtyInput   EventType = "pty_input"
	EventPtyOutput  EventType = "pty_output"
	EventAction     EventType = "action"
)

// Event is one append-only audit record (Transcript history entry,
// generalized to any auditable action for the memory/action-audit log).
type Event struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	SessionID     string    `json:"session_id"`
	Seq           int64     `json:"seq"`
	Type          EventType `json:"event_type"`
	Role          string    `json:"role,omitempty"` // "voice", "pty_input", "pty_output"
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"ts"`
}

// NewEvent builds an Event with a fresh event ID, stamped at now.
func NewEvent(sessionID string, seq int64, typ EventType, role, text string, now time.Time) Event {
	return Event{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		SessionID:     sessionID,
		Seq:           seq,
		Type:          typ,
		Role:          role,
		Text:          text,
		Timestamp:     now,
	}
}

// Valid reports whether e has every field the schema requires populated.
func (e Event) Valid() bool {
	return e.EventID != "" && e.SessionID != "" && e.Timestamp.Unix() > 0 && e.Text != ""
}
