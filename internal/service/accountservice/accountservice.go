package accountservice

import (
	"context"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"go.uber.org/zap"
)

//go:generate mockgen -source=accountservice.go -destination=mock_accountservice.go -package=accountservice

type AccountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

type Service struct {
	accountRepo AccountRepo
}

func New(accountRepo AccountRepo) *Service {
	return &Service{
		accountRepo: accountRepo,
	}
}

func (s *Service) GetBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		zap.L().Error("failed to get account balance", zap.Error(err))
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}
