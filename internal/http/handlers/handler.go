package handlers

import (
	"prediction_webapp/internal/repository"
	"prediction_webapp/internal/service"
	"prediction_webapp/internal/wallet"
)

type Handler struct {
	Users          *service.UserService
	Ranks          *service.RankService
	Rewards        *service.RewardService
	Awards         *repository.AwardRepository
	Bonuses        *repository.BonusRepository
	DeadLetterRepo *repository.DeadLetterRepository
	Wallet         wallet.Gateway
}

func NewHandler(
	users *service.UserService,
	ranks *service.RankService,
	rewards *service.RewardService,
	awards *repository.AwardRepository,
	bonuses *repository.BonusRepository,
	deadLetters *repository.DeadLetterRepository,
	gw wallet.Gateway,
) *Handler {
	return &Handler{
		Users:          users,
		Ranks:          ranks,
		Rewards:        rewards,
		Awards:         awards,
		Bonuses:        bonuses,
		DeadLetterRepo: deadLetters,
		Wallet:         gw,
	}
}
