package ws

import (
	"context"
	"testing"

	"prediction_webapp/internal/domain"
)

type fakePublisher struct {
	published []*domain.NotificationEnvelope
}

func (f *fakePublisher) Publish(ctx context.Context, env *domain.NotificationEnvelope) error {
	f.published = append(f.published, env)
	return nil
}

func newHandledClient(h *Hub, pub Publisher) *Client {
	return &Client{
		ID:     "c1",
		UserID: 42,
		Send:   make(chan []byte, 16),
		hub:    h,
		pub:    pub,
	}
}

func TestClientJoinAndLeaveRoom(t *testing.T) {
	h := NewHub()
	c := newHandledClient(h, &fakePublisher{})

	c.handleMessage([]byte(`{"type":"joinRoom","room":"market-1"}`))
	if h.RoomSize("market-1") != 1 {
		t.Fatal("client not joined")
	}

	c.handleMessage([]byte(`{"type":"leaveRoom","room":"market-1"}`))
	if h.RoomSize("market-1") != 0 {
		t.Fatal("client not removed")
	}
}

func TestClientChatMessageRepublished(t *testing.T) {
	h := NewHub()
	pub := &fakePublisher{}
	c := newHandledClient(h, pub)

	c.handleMessage([]byte(`{"type":"chatMessage","room":"market-1","text":"hello"}`))

	if len(pub.published) != 1 {
		t.Fatalf("published %d envelopes, want 1", len(pub.published))
	}
	env := pub.published[0]
	if env.Event != domain.EventChatMessage {
		t.Fatalf("event = %s, want %s", env.Event, domain.EventChatMessage)
	}
	if env.To != "market-1" {
		t.Fatalf("to = %q, want market-1", env.To)
	}
	if env.Data["from"] != int64(42) {
		t.Fatalf("from = %v, want 42", env.Data["from"])
	}
	if env.Data["text"] != "hello" {
		t.Fatalf("text = %v, want hello", env.Data["text"])
	}
}

func TestClientRejectsMalformedAndUnknown(t *testing.T) {
	h := NewHub()
	pub := &fakePublisher{}
	c := newHandledClient(h, pub)

	cases := [][]byte{
		[]byte(`garbage`),
		[]byte(`{"type":"selfDestruct"}`),
		[]byte(`{"type":"joinRoom"}`),               // missing room
		[]byte(`{"type":"chatMessage","room":"r"}`), // missing text
	}

	for _, raw := range cases {
		c.handleMessage(raw)
	}

	if len(pub.published) != 0 {
		t.Fatalf("published %d envelopes, want 0", len(pub.published))
	}

	// each rejected message produced exactly one error frame
	var errs int
	for {
		select {
		case <-c.Send:
			errs++
			continue
		default:
		}
		break
	}
	if errs != len(cases) {
		t.Fatalf("got %d error frames, want %d", errs, len(cases))
	}
}
