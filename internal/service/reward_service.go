package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"prediction_webapp/internal/domain"
	"prediction_webapp/internal/logger"
	"prediction_webapp/internal/repository"
	"prediction_webapp/internal/wallet"

	"github.com/prometheus/client_golang/prometheus"
)

var awardsGranted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "awards_granted_total",
		Help: "Reward ledger entries written, by award type",
	},
	[]string{"award_type"},
)

func init() {
	prometheus.MustRegister(awardsGranted)
}

// Ledger is the append-only award store the service writes into.
type Ledger interface {
	Append(ctx context.Context, ev *domain.AwardEvent) (bool, error)
}

// UserStore covers the per-user mutations the reward flows need.
type UserStore interface {
	IncreaseAmountWon(ctx context.Context, userID int64, delta int64) (int64, error)
	IncrementQualifyingActions(ctx context.Context, userID int64) (int64, error)
	SetBonus(ctx context.Context, userID int64, bonus string) error
}

// BonusPool hands out capacity-bounded registration bonus slots.
type BonusPool interface {
	Claim(ctx context.Context) (int64, error)
	Release(ctx context.Context) error
}

// DeadLetterSink records external effects that failed after the ledger
// write.
type DeadLetterSink interface {
	Create(ctx context.Context, d *repository.DeadLetter) error
}

// Publisher pushes notification envelopes onto the pub/sub transport.
type Publisher interface {
	Publish(ctx context.Context, env *domain.NotificationEnvelope) error
}

// RewardService owns award issuance: the threshold evaluator, the
// registration bonus allocator, the wallet mint path and the publish
// fan-in. Ledger writes come first; wallet and publish failures are
// logged and dead-lettered, never rolled back.
type RewardService struct {
	users       UserStore
	ledger      Ledger
	bonuses     BonusPool
	wallet      wallet.Gateway
	pub         Publisher
	deadletters DeadLetterSink

	bonusAmount   int64
	bonusDeadline time.Time

	now func() time.Time
}

func NewRewardService(
	users UserStore,
	ledger Ledger,
	bonuses BonusPool,
	gw wallet.Gateway,
	pub Publisher,
	deadletters DeadLetterSink,
	bonusAmount int64,
	bonusDeadline time.Time,
) *RewardService {
	return &RewardService{
		users:         users,
		ledger:        ledger,
		bonuses:       bonuses,
		wallet:        gw,
		pub:           pub,
		deadletters:   deadletters,
		bonusAmount:   bonusAmount,
		bonusDeadline: bonusDeadline,
		now:           time.Now,
	}
}

// IncreaseAmountWon atomically bumps the user's winnings accumulator.
// Failures surface to the caller; no internal retry.
func (s *RewardService) IncreaseAmountWon(ctx context.Context, userID int64, amount int64) (int64, error) {
	return s.users.IncreaseAmountWon(ctx, userID, amount)
}

// MintUser credits tokens through the wallet gateway. The current gateway
// contract is a hard not-supported failure; callers treat it as
// non-fatal for the already-written award record.
func (s *RewardService) MintUser(ctx context.Context, userID int64, amount int64) error {
	return s.wallet.Mint(ctx, userID, amount)
}

// RecordQualifyingAction increments the user's lifetime action counter
// and fires a milestone award iff the new total lands exactly on a
// milestone. Skipped values never fire retroactively.
func (s *RewardService) RecordQualifyingAction(ctx context.Context, userID int64, broadcast bool) (*domain.AwardEvent, error) {
	total, err := s.users.IncrementQualifyingActions(ctx, userID)
	if err != nil {
		return nil, err
	}

	award, ok := domain.MilestoneAwards[total]
	if !ok {
		return nil, nil
	}

	return s.grant(ctx, userID, award.Type, award.Amount, domain.EventUserAward, broadcast)
}

// GrantOneShotAward issues a non-milestone one-shot award (username set,
// avatar uploaded). Duplicate grants are absorbed by the ledger.
func (s *RewardService) GrantOneShotAward(ctx context.Context, userID int64, t domain.AwardType, broadcast bool) (*domain.AwardEvent, error) {
	amount, ok := domain.OneShotAmounts[t]
	if !ok {
		return nil, errors.New("unknown one-shot award type")
	}
	return s.grant(ctx, userID, t, amount, domain.EventUserAward, broadcast)
}

// CheckRegistrationBonus grants the time-boxed promotional bonus if the
// program is still open and the pool has capacity left. Returns whether a
// bonus was granted. Exhaustion and a passed deadline are quiet no-ops.
func (s *RewardService) CheckRegistrationBonus(ctx context.Context, userID int64) (bool, error) {
	if s.now().After(s.bonusDeadline) {
		return false, nil
	}

	if _, err := s.bonuses.Claim(ctx); err != nil {
		if errors.Is(err, repository.ErrBonusExhausted) {
			logger.Info("registration bonus pool exhausted", "user_id", userID)
			return false, nil
		}
		return false, err
	}

	ev, err := s.grant(ctx, userID, domain.AwardRegistrationBonus, s.bonusAmount, domain.EventBonusGranted, false)
	if err != nil {
		s.releaseBonusSlot(ctx, userID)
		return false, err
	}
	if ev == nil {
		// ledger already had the record: hand the slot back
		s.releaseBonusSlot(ctx, userID)
		return false, nil
	}

	if err := s.users.SetBonus(ctx, userID, string(domain.AwardRegistrationBonus)); err != nil {
		logger.Error("failed to mark bonus on user", "user_id", userID, "error", err)
	}
	return true, nil
}

// grant appends the ledger record, then mints and publishes. Returns nil
// without error if the ledger already holds the record (duplicate fire).
func (s *RewardService) grant(ctx context.Context, userID int64, t domain.AwardType, amount int64, event domain.EventType, broadcast bool) (*domain.AwardEvent, error) {
	ev := &domain.AwardEvent{
		UserID:    userID,
		Type:      t,
		Amount:    amount,
		Broadcast: broadcast,
	}

	inserted, err := s.ledger.Append(ctx, ev)
	if err != nil {
		return nil, err
	}
	if !inserted {
		logger.Warn("duplicate award suppressed", "user_id", userID, "award_type", t)
		return nil, nil
	}

	awardsGranted.WithLabelValues(string(t)).Inc()

	if err := s.wallet.Mint(ctx, userID, amount); err != nil {
		logger.Error("wallet mint failed, credit pending", "user_id", userID, "award_type", t, "error", err)
		s.deadletter(ctx, "wallet_mint", userID, map[string]any{
			"award_type": string(t),
			"amount":     amount,
			"error":      err.Error(),
		})
	}

	env := domain.NewEnvelope(event, "rewards", strconv.FormatInt(ev.ID, 10), map[string]any{
		"award_type": string(t),
		"amount":     amount,
	})
	env.To = strconv.FormatInt(userID, 10)
	env.Broadcast = broadcast

	if err := s.pub.Publish(ctx, env); err != nil {
		logger.Error("award publish failed", "user_id", userID, "award_type", t, "error", err)
		s.deadletter(ctx, "publish", userID, map[string]any{
			"award_type": string(t),
			"error":      err.Error(),
		})
	}

	return ev, nil
}

func (s *RewardService) releaseBonusSlot(ctx context.Context, userID int64) {
	if err := s.bonuses.Release(ctx); err != nil {
		logger.Error("failed to release bonus slot", "user_id", userID, "error", err)
	}
}

func (s *RewardService) deadletter(ctx context.Context, kind string, userID int64, detail map[string]any) {
	if s.deadletters == nil {
		return
	}
	if err := s.deadletters.Create(ctx, &repository.DeadLetter{
		Kind:   kind,
		UserID: userID,
		Detail: detail,
	}); err != nil {
		logger.Error("dead letter write failed", "kind", kind, "user_id", userID, "error", err)
	}
}
