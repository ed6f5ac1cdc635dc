package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	cases := []*NotificationEnvelope{
		{
			Event:      EventCasinoReward,
			Producer:   "casino",
			ProducerID: "abc-1",
			Data:       map[string]any{"reward": float64(500)},
			Date:       1700000000000,
			Broadcast:  false,
			To:         "42",
		},
		{
			Event:      EventUserAward,
			Producer:   "rewards",
			ProducerID: "77",
			Data:       map[string]any{"award_type": "total_5", "amount": float64(500)},
			Date:       1700000000001,
			Broadcast:  true,
		},
		{
			Event:    EventChatMessage,
			Producer: "ws",
			Data:     map[string]any{"from": float64(1), "text": "hi"},
			To:       "room-1",
		},
	}

	for _, env := range cases {
		raw, err := EncodeEnvelope(env)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := DecodeEnvelope(raw)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(env, got) {
			t.Fatalf("round trip mismatch: sent %+v got %+v", env, got)
		}
	}
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	cases := []string{
		``,
		`not json`,
		`{"producer":"x"}`, // missing event tag
		`[1,2,3]`,
	}

	for _, raw := range cases {
		_, err := DecodeEnvelope([]byte(raw))
		if !errors.Is(err, ErrMalformedEnvelope) {
			t.Fatalf("DecodeEnvelope(%q) = %v; want ErrMalformedEnvelope", raw, err)
		}
	}
}

func TestEventClassification(t *testing.T) {
	if !EventCasinoReward.MutatesBalance() {
		t.Fatal("CASINO_REWARD must mutate balance")
	}
	for _, e := range []EventType{EventUserAward, EventChatMessage, EventUserBanned, EventBonusGranted} {
		if e.MutatesBalance() {
			t.Fatalf("%s must not mutate balance", e)
		}
	}

	directed := &NotificationEnvelope{Event: EventUserAward, To: "9"}
	if !directed.Directed() {
		t.Fatal("envelope with to must be directed")
	}
	broadcast := &NotificationEnvelope{Event: EventUserAward}
	if broadcast.Directed() {
		t.Fatal("envelope without to must not be directed")
	}
}

func TestRewardAmount(t *testing.T) {
	env := &NotificationEnvelope{Event: EventCasinoReward, Data: map[string]any{"reward": float64(250)}}
	amount, ok := env.RewardAmount()
	if !ok || amount != 250 {
		t.Fatalf("RewardAmount = %d, %v; want 250, true", amount, ok)
	}

	missing := &NotificationEnvelope{Event: EventCasinoReward, Data: map[string]any{}}
	if _, ok := missing.RewardAmount(); ok {
		t.Fatal("missing reward must not be ok")
	}

	wrongType := &NotificationEnvelope{Event: EventCasinoReward, Data: map[string]any{"reward": "lots"}}
	if _, ok := wrongType.RewardAmount(); ok {
		t.Fatal("non-numeric reward must not be ok")
	}
}
