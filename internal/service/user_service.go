package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"prediction_webapp/internal/domain"
	"prediction_webapp/internal/logger"
	"prediction_webapp/internal/repository"
)

var ErrInvalidCurrency = errors.New("invalid currency")

// UserService owns the service-layer user mutations that originate
// award-worthy actions and status transitions.
type UserService struct {
	users   *repository.UserRepository
	rewards *RewardService
	pub     Publisher
}

func NewUserService(users *repository.UserRepository, rewards *RewardService, pub Publisher) *UserService {
	return &UserService{users: users, rewards: rewards, pub: pub}
}

func (s *UserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// lift expired bans lazily on read
	if u.Status == domain.StatusBanned && !u.Banned(time.Now()) {
		if err := s.users.SetStatus(ctx, userID, domain.StatusActive, nil); err != nil {
			logger.Error("failed to lift expired ban", "user_id", userID, "error", err)
		} else {
			u.Status = domain.StatusActive
			u.ReactivateOn = nil
		}
	}
	return u, nil
}

// SetNotifications replaces the user's notification settings set.
func (s *UserService) SetNotifications(ctx context.Context, userID int64, settings []string) error {
	return s.users.SetNotifications(ctx, userID, settings)
}

// Register creates the user and runs the registration bonus check. A
// failed bonus grant never fails registration.
func (s *UserService) Register(ctx context.Context, u *domain.User) error {
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}

	if _, err := s.rewards.CheckRegistrationBonus(ctx, u.ID); err != nil {
		logger.Error("registration bonus check failed", "user_id", u.ID, "error", err)
	}
	return nil
}

// SetCurrency updates the preferred display currency; values outside the
// enumerated set are rejected.
func (s *UserService) SetCurrency(ctx context.Context, userID int64, c domain.Currency) error {
	if !domain.ValidCurrency(c) {
		return ErrInvalidCurrency
	}
	return s.users.SetCurrency(ctx, userID, c)
}

// SetHandle updates the public handle and fires the one-shot award on the
// first set.
func (s *UserService) SetHandle(ctx context.Context, userID int64, handle string) error {
	first, err := s.users.SetHandle(ctx, userID, handle)
	if err != nil {
		return err
	}

	if first {
		if _, err := s.rewards.GrantOneShotAward(ctx, userID, domain.AwardUsernameSet, false); err != nil {
			logger.Error("username award failed", "user_id", userID, "error", err)
		}
	}
	return nil
}

// MarkAvatarUploaded fires the avatar one-shot award. Repeat uploads are
// absorbed by the ledger.
func (s *UserService) MarkAvatarUploaded(ctx context.Context, userID int64) error {
	_, err := s.rewards.GrantOneShotAward(ctx, userID, domain.AwardAvatarUploaded, false)
	return err
}

// Ban transitions the user to banned, optionally with an automatic
// reactivation date, and notifies the user's live connections.
func (s *UserService) Ban(ctx context.Context, userID int64, reactivateOn *time.Time) error {
	if err := s.users.SetStatus(ctx, userID, domain.StatusBanned, reactivateOn); err != nil {
		return err
	}

	env := domain.NewEnvelope(domain.EventUserBanned, "users", strconv.FormatInt(userID, 10), map[string]any{
		"reactivate_on": reactivateOn,
	})
	env.To = strconv.FormatInt(userID, 10)
	if err := s.pub.Publish(ctx, env); err != nil {
		logger.Error("ban notification publish failed", "user_id", userID, "error", err)
	}
	return nil
}

// Reactivate lifts a ban.
func (s *UserService) Reactivate(ctx context.Context, userID int64) error {
	return s.users.SetStatus(ctx, userID, domain.StatusActive, nil)
}
