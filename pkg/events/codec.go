package events

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire form of an event: a type tag plus a type-specific
// payload. Producers post envelopes to the ingestion endpoint.
type Envelope struct {
	EventType string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// Decode unmarshals an envelope into its concrete event type.
// Returns an error for unknown event types or malformed payloads.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse event envelope: %w", err)
	}
	return DecodeEnvelope(env)
}

// DecodeEnvelope unmarshals a parsed envelope into its concrete event type.
func DecodeEnvelope(env Envelope) (Event, error) {
	var event Event
	switch env.EventType {
	case TypeGameCompleted:
		event = &GameCompleted{}
	case TypeRatingUpdated:
		event = &RatingUpdated{}
	case TypeStreakChanged:
		event = &StreakChanged{}
	case TypeTournamentProgress:
		event = &TournamentProgress{}
	case TypeEasterEggFound:
		event = &EasterEggFound{}
	case TypeRecalculatePlayer:
		event = &RecalculatePlayer{}
	case TypeRecalculateAll:
		event = &RecalculateAll{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", env.EventType)
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, event); err != nil {
			return nil, fmt.Errorf("failed to parse %s payload: %w", env.EventType, err)
		}
	}

	return event, nil
}

// Encode wraps an event in its wire envelope.
func Encode(event Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.Type(), err)
	}

	return json.Marshal(Envelope{
		EventType: event.Type(),
		Payload:   payload,
	})
}
