package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Header keys shared by all services.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Message is an event destined for a Kafka topic. Key selects the partition;
// events for the same owner share a key so consumers see them in order.
type Message struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

// NewMessage builds an event message with a fresh event ID and a JSON-encoded
// payload.
func NewMessage(key, eventType, source string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
