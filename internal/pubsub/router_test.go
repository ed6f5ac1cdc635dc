package pubsub

import (
	"context"
	"testing"
)

type balanceCall struct {
	userID int64
	amount int64
}

type fakeBalances struct {
	calls []balanceCall
}

func (f *fakeBalances) IncreaseAmountWon(ctx context.Context, userID int64, amount int64) (int64, error) {
	f.calls = append(f.calls, balanceCall{userID, amount})
	return amount, nil
}

type emitCall struct {
	room  string
	event string
}

type fakeFanout struct {
	emits      []emitCall
	broadcasts []string
}

func (f *fakeFanout) Emit(room string, event string, payload map[string]any) {
	f.emits = append(f.emits, emitCall{room, event})
}

func (f *fakeFanout) Broadcast(event string, payload map[string]any) {
	f.broadcasts = append(f.broadcasts, event)
}

func testRouter() (*Router, *fakeBalances, *fakeFanout) {
	balances := &fakeBalances{}
	fanout := &fakeFanout{}
	return &Router{channel: Channel, balances: balances, fanout: fanout}, balances, fanout
}

func TestMalformedPayloadDropped(t *testing.T) {
	r, balances, fanout := testRouter()

	for _, raw := range []string{``, `garbage`, `{"producer":"x"}`} {
		r.handle(context.Background(), []byte(raw))
	}

	if len(balances.calls) != 0 || len(fanout.emits) != 0 || len(fanout.broadcasts) != 0 {
		t.Fatalf("malformed payloads must be dropped: %+v %+v", balances.calls, fanout.emits)
	}
}

func TestCasinoRewardAppliesBalanceThenForwards(t *testing.T) {
	r, balances, fanout := testRouter()

	raw := []byte(`{"event":"CASINO_REWARD","producer":"casino","producerId":"g1","data":{"reward":150},"date":1700000000000,"broadcast":false,"to":"42"}`)
	r.handle(context.Background(), raw)

	if len(balances.calls) != 1 || balances.calls[0] != (balanceCall{42, 150}) {
		t.Fatalf("balance calls = %+v; want one call (42, 150)", balances.calls)
	}
	if len(fanout.emits) != 1 || fanout.emits[0] != (emitCall{"42", "CASINO_REWARD"}) {
		t.Fatalf("emits = %+v; want one emit to room 42", fanout.emits)
	}
}

func TestPureNotificationSkipsBalance(t *testing.T) {
	r, balances, fanout := testRouter()

	raw := []byte(`{"event":"user_award","producer":"rewards","producerId":"1","data":{"amount":500},"date":1700000000000,"broadcast":false,"to":"7"}`)
	r.handle(context.Background(), raw)

	if len(balances.calls) != 0 {
		t.Fatalf("pure notification must not touch balances: %+v", balances.calls)
	}
	if len(fanout.emits) != 1 || fanout.emits[0].room != "7" {
		t.Fatalf("emits = %+v; want one emit to room 7", fanout.emits)
	}
}

func TestUndirectedEnvelopeBroadcasts(t *testing.T) {
	r, _, fanout := testRouter()

	raw := []byte(`{"event":"user_award","producer":"rewards","producerId":"1","data":{},"date":1700000000000,"broadcast":true}`)
	r.handle(context.Background(), raw)

	if len(fanout.emits) != 0 {
		t.Fatalf("undirected envelope must not emit to a room: %+v", fanout.emits)
	}
	if len(fanout.broadcasts) != 1 || fanout.broadcasts[0] != "user_award" {
		t.Fatalf("broadcasts = %+v; want one user_award", fanout.broadcasts)
	}
}

func TestUnknownEventTypeStillForwards(t *testing.T) {
	r, balances, fanout := testRouter()

	raw := []byte(`{"event":"market_settled","producer":"markets","producerId":"m1","data":{},"date":1700000000000,"to":"9"}`)
	r.handle(context.Background(), raw)

	if len(balances.calls) != 0 {
		t.Fatalf("unknown event must not touch balances: %+v", balances.calls)
	}
	if len(fanout.emits) != 1 || fanout.emits[0] != (emitCall{"9", "market_settled"}) {
		t.Fatalf("emits = %+v; want one emit to room 9", fanout.emits)
	}
}

func TestRewardWithBadRecipientStillForwards(t *testing.T) {
	r, balances, fanout := testRouter()

	// non-numeric recipient: the balance side effect is skipped but
	// delivery still happens
	raw := []byte(`{"event":"CASINO_REWARD","producer":"casino","producerId":"g1","data":{"reward":10},"date":1700000000000,"to":"lobby"}`)
	r.handle(context.Background(), raw)

	if len(balances.calls) != 0 {
		t.Fatalf("balance must not be touched: %+v", balances.calls)
	}
	if len(fanout.emits) != 1 || fanout.emits[0].room != "lobby" {
		t.Fatalf("emits = %+v; want one emit to lobby", fanout.emits)
	}
}
