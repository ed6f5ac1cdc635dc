package ws

import (
	"encoding/json"
	"testing"
)

func testClient() *Client {
	return &Client{
		ID:   "test",
		Send: make(chan []byte, 16),
	}
}

func received(c *Client) []Message {
	var out []Message
	for {
		select {
		case raw := <-c.Send:
			var m Message
			if err := json.Unmarshal(raw, &m); err == nil {
				out = append(out, m)
			}
		default:
			return out
		}
	}
}

func TestEmitOnlyToCurrentMembers(t *testing.T) {
	h := NewHub()
	a, b := testClient(), testClient()

	// emitted before join: a must not receive it
	h.Emit("room", "first", nil)

	h.Join(a, "room")
	h.Emit("room", "second", map[string]any{"n": 1})

	h.Join(b, "room")
	h.Emit("room", "third", nil)

	h.Leave(a, "room")
	h.Emit("room", "fourth", nil)

	gotA := received(a)
	if len(gotA) != 2 || gotA[0].Event != "second" || gotA[1].Event != "third" {
		t.Fatalf("a received %+v; want second, third", gotA)
	}

	gotB := received(b)
	if len(gotB) != 2 || gotB[0].Event != "third" || gotB[1].Event != "fourth" {
		t.Fatalf("b received %+v; want third, fourth", gotB)
	}
}

func TestJoinIdempotent(t *testing.T) {
	h := NewHub()
	c := testClient()

	h.Join(c, "room")
	h.Join(c, "room")

	if size := h.RoomSize("room"); size != 1 {
		t.Fatalf("room size = %d, want 1", size)
	}

	h.Emit("room", "ping", nil)
	if got := received(c); len(got) != 1 {
		t.Fatalf("received %d messages after double join, want 1", len(got))
	}
}

func TestLeaveAbsentIsNoop(t *testing.T) {
	h := NewHub()
	c := testClient()

	h.Leave(c, "nowhere")
	h.Join(c, "room")
	h.Leave(c, "other")

	h.Emit("room", "ping", nil)
	if got := received(c); len(got) != 1 {
		t.Fatalf("received %d messages, want 1", len(got))
	}
}

func TestLeaveAllRemovesFromEveryRoom(t *testing.T) {
	h := NewHub()
	c := testClient()

	h.Join(c, "a")
	h.Join(c, "b")
	h.LeaveAll(c)

	h.Emit("a", "ping", nil)
	h.Emit("b", "ping", nil)

	if got := received(c); len(got) != 0 {
		t.Fatalf("received %d messages after LeaveAll, want 0", len(got))
	}
	if h.RoomSize("a") != 0 || h.RoomSize("b") != 0 {
		t.Fatal("rooms not cleaned up")
	}
}

func TestBroadcastOncePerConnection(t *testing.T) {
	h := NewHub()
	c := testClient()
	other := testClient()

	// c sits in two rooms; broadcast must reach it exactly once
	h.Join(c, "a")
	h.Join(c, "b")
	h.Join(other, "b")

	h.Broadcast("announce", map[string]any{"x": 1})

	if got := received(c); len(got) != 1 {
		t.Fatalf("c received %d broadcasts, want 1", len(got))
	}
	if got := received(other); len(got) != 1 {
		t.Fatalf("other received %d broadcasts, want 1", len(got))
	}
}

func TestEmitDropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	c := &Client{ID: "slow", Send: make(chan []byte, 1)}
	h.Join(c, "room")

	h.Emit("room", "one", nil)
	h.Emit("room", "two", nil) // queue full: dropped, not blocked

	if got := received(c); len(got) != 1 || got[0].Event != "one" {
		t.Fatalf("received %+v; want only one", got)
	}
}
