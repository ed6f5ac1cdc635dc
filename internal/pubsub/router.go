package pubsub

import (
	"context"
	"strconv"

	"prediction_webapp/internal/domain"
	"prediction_webapp/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
)

var (
	envelopesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubsub_envelopes_processed_total",
			Help: "Envelopes decoded and dispatched by the router",
		},
		[]string{"event"},
	)
	envelopesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pubsub_envelopes_dropped_total",
			Help: "Malformed payloads dropped by the router",
		},
	)
)

func init() {
	prometheus.MustRegister(envelopesProcessed)
	prometheus.MustRegister(envelopesDropped)
}

// BalanceSink applies the balance side effect of a state-mutating envelope.
type BalanceSink interface {
	IncreaseAmountWon(ctx context.Context, userID int64, amount int64) (int64, error)
}

// Fanout delivers an event to live connections.
type Fanout interface {
	Emit(room string, event string, payload map[string]any)
	Broadcast(event string, payload map[string]any)
}

// Router is the single logical consumer of the notification channel.
// Messages are handled strictly sequentially to preserve the transport's
// delivery order; a malformed or failing message never aborts the loop.
type Router struct {
	rdb      *redis.Client
	channel  string
	balances BalanceSink
	fanout   Fanout
}

func NewRouter(rdb *redis.Client, balances BalanceSink, fanout Fanout) *Router {
	return &Router{
		rdb:      rdb,
		channel:  Channel,
		balances: balances,
		fanout:   fanout,
	}
}

// Run subscribes and consumes until ctx is cancelled.
func (r *Router) Run(ctx context.Context) {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	logger.Info("pubsub router subscribed", "channel", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			logger.Info("pubsub router stopped", "channel", r.channel)
			return
		case msg, ok := <-ch:
			if !ok {
				logger.Warn("pubsub subscription closed", "channel", r.channel)
				return
			}
			r.handle(ctx, []byte(msg.Payload))
		}
	}
}

func (r *Router) handle(ctx context.Context, raw []byte) {
	env, err := domain.DecodeEnvelope(raw)
	if err != nil {
		envelopesDropped.Inc()
		logger.Warn("dropping malformed envelope", "error", err)
		return
	}

	envelopesProcessed.WithLabelValues(string(env.Event)).Inc()

	// unknown event types are still forwarded, just flagged
	if !env.Event.Known() {
		logger.Warn("envelope with unknown event type", "event", env.Event)
	}

	if env.Event.MutatesBalance() {
		r.applyBalance(ctx, env)
	}

	if env.Directed() {
		r.fanout.Emit(env.To, string(env.Event), env.Data)
	} else {
		r.fanout.Broadcast(string(env.Event), env.Data)
	}
}

// applyBalance runs the reward side effect before fan-out. Failures are
// isolated to this message: logged, never propagated to the subscriber
// loop.
func (r *Router) applyBalance(ctx context.Context, env *domain.NotificationEnvelope) {
	userID, err := strconv.ParseInt(env.To, 10, 64)
	if err != nil {
		logger.Warn("balance envelope without numeric recipient", "event", env.Event, "to", env.To)
		return
	}

	amount, ok := env.RewardAmount()
	if !ok {
		logger.Warn("balance envelope without reward amount", "event", env.Event, "to", env.To)
		return
	}

	if _, err := r.balances.IncreaseAmountWon(ctx, userID, amount); err != nil {
		logger.Error("failed to apply reward", "user_id", userID, "amount", amount, "error", err)
	}
}
