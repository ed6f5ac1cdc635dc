package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedEnvelope marks a payload that could not be decoded into a
// NotificationEnvelope. The router drops and logs such payloads.
var ErrMalformedEnvelope = errors.New("malformed envelope")

type EventType string

const (
	EventCasinoReward EventType = "CASINO_REWARD"
	EventUserAward    EventType = "user_award"
	EventChatMessage  EventType = "chat_message"
	EventUserBanned   EventType = "user_banned"
	EventBonusGranted EventType = "bonus_granted"
)

// MutatesBalance reports whether the router must apply a balance side
// effect before fan-out.
func (e EventType) MutatesBalance() bool {
	return e == EventCasinoReward
}

// Known reports whether e belongs to the enumerated event set.
func (e EventType) Known() bool {
	switch e {
	case EventCasinoReward, EventUserAward, EventChatMessage, EventUserBanned, EventBonusGranted:
		return true
	}
	return false
}

// NotificationEnvelope is the transient cross-service message unit. It is
// produced by service mutations, consumed exactly once by the pub/sub
// router and then discarded.
type NotificationEnvelope struct {
	Event      EventType      `json:"event"`
	Producer   string         `json:"producer"`
	ProducerID string         `json:"producerId"`
	Data       map[string]any `json:"data"`
	Date       int64          `json:"date"` // epoch ms
	Broadcast  bool           `json:"broadcast"`
	To         string         `json:"to,omitempty"`
}

// Directed reports whether the envelope is addressed to a single
// recipient room rather than broadcast to all connections.
func (e *NotificationEnvelope) Directed() bool {
	return e.To != ""
}

// RewardAmount extracts the integer reward carried in the data payload of
// a balance-mutating envelope.
func (e *NotificationEnvelope) RewardAmount() (int64, bool) {
	v, ok := e.Data["reward"]
	if !ok {
		return 0, false
	}
	// JSON numbers decode as float64
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// NewEnvelope builds an envelope stamped with the current time.
func NewEnvelope(event EventType, producer, producerID string, data map[string]any) *NotificationEnvelope {
	return &NotificationEnvelope{
		Event:      event,
		Producer:   producer,
		ProducerID: producerID,
		Data:       data,
		Date:       time.Now().UnixMilli(),
	}
}

// EncodeEnvelope serializes the envelope to its UTF-8 JSON wire form.
func EncodeEnvelope(e *NotificationEnvelope) ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEnvelope parses a wire payload. Any decode failure or missing
// event tag is reported as ErrMalformedEnvelope.
func DecodeEnvelope(raw []byte) (*NotificationEnvelope, error) {
	var e NotificationEnvelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if e.Event == "" {
		return nil, fmt.Errorf("%w: missing event tag", ErrMalformedEnvelope)
	}
	return &e, nil
}
