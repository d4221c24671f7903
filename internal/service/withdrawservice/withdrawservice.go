package withdrawservice

import (
	"context"
	"errors"
	"time"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/dto"
	"github.com/antonyoatec/case-tecnofit/internal/pg"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=withdrawservice.go -destination=mock_withdrawservice.go -package=withdrawservice

type AccountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error
}

type WithdrawalRepo interface {
	Create(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error)
	CreatePixDetail(ctx context.Context, detail *domain.PixDetail) (*domain.PixDetail, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.WithdrawalStatus) (bool, error)
	MarkDone(ctx context.Context, id string) error
	MarkRejected(ctx context.Context, id string, reason string) error
}

type Notifier interface {
	Notify(ctx context.Context, withdrawID, accountID string, amount decimal.Decimal, destinationKey string)
}

const (
	StatusCompleted = "completed"
	StatusScheduled = "scheduled"
)

// Result is the outcome of an accepted withdrawal request.
type Result struct {
	WithdrawID   string
	Status       string
	Amount       decimal.Decimal
	PixKey       string
	NewBalance   *decimal.Decimal
	ScheduledFor *time.Time
	ProcessedAt  *time.Time
}

type Service struct {
	accountRepo    AccountRepo
	withdrawalRepo WithdrawalRepo
	txManager      pg.TXManager
	strategies     *StrategyRegistry
	notifier       Notifier
}

func New(accountRepo AccountRepo, withdrawalRepo WithdrawalRepo, txManager pg.TXManager, strategies *StrategyRegistry, notifier Notifier) *Service {
	return &Service{
		accountRepo:    accountRepo,
		withdrawalRepo: withdrawalRepo,
		txManager:      txManager,
		strategies:     strategies,
		notifier:       notifier,
	}
}

// Withdraw runs one withdrawal attempt through its full lifecycle. Strategy
// resolution and field validation happen before any transaction opens; the
// rest runs inside a single transaction holding an exclusive lock on the
// account row, which is the sole serialization point across processes.
//
// Business rejections (insufficient balance, settlement failure) commit a
// terminal REJECTED record and are returned as errors; infrastructure
// failures roll the transaction back.
func (s *Service) Withdraw(ctx context.Context, accountID string, req *dto.WithdrawRequestDTO) (*Result, error) {
	strategy, err := s.strategies.Resolve(req.Method)
	if err != nil {
		return nil, err
	}

	if verr := strategy.Validate(req); verr != nil {
		zap.L().Warn("withdrawal validation failed",
			zap.String("accountID", accountID),
			zap.String("field", verr.Field),
			zap.String("code", verr.Code),
		)
		return nil, verr
	}

	if req.IsScheduled() && !req.ScheduledFor.After(time.Now()) {
		return nil, domain.NewValidationError("scheduled_for", "INVALID_SCHEDULED_DATE", "scheduled date must be in the future")
	}

	var (
		result     *Result
		bizErr     error
		withdrawID string
	)

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrAccountNotFound
		}

		withdrawal := &domain.Withdrawal{
			AccountID:    accountID,
			Method:       strategy.Method(),
			Amount:       req.Amount,
			Scheduled:    req.IsScheduled(),
			ScheduledFor: req.ScheduledFor,
		}
		if _, err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
			return err
		}
		withdrawID = withdrawal.ID

		detail := &domain.PixDetail{
			WithdrawalID: withdrawal.ID,
			KeyType:      domain.PixKeyTypeEmail,
			KeyValue:     req.PixKey,
		}
		if _, err := s.withdrawalRepo.CreatePixDetail(ctx, detail); err != nil {
			return err
		}

		if withdrawal.Scheduled {
			// no balance check yet: the balance is validated at actual
			// processing time by the sweep
			result = &Result{
				WithdrawID:   withdrawal.ID,
				Status:       StatusScheduled,
				Amount:       withdrawal.Amount,
				PixKey:       detail.KeyValue,
				ScheduledFor: withdrawal.ScheduledFor,
			}
			return nil
		}

		res, err := s.settleLocked(ctx, account, withdrawal, detail, strategy, true)
		if err != nil && !isBusinessRejection(err) {
			return err
		}
		result, bizErr = res, err
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		if withdrawID != "" {
			s.markRejectedBestEffort(ctx, withdrawID, err)
		}
		if pg.IsConcurrencyError(err) {
			return nil, domain.ErrConcurrency
		}
		if errors.Is(err, domain.ErrConcurrency) {
			return nil, err
		}
		zap.L().Error("withdrawal failed with unexpected error",
			zap.String("accountID", accountID),
			zap.Error(err),
		)
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}

	if result.Status == StatusCompleted {
		s.notifier.Notify(ctx, result.WithdrawID, accountID, result.Amount, result.PixKey)
	}
	return result, nil
}

// ProcessClaimed finishes a scheduled withdrawal previously claimed by the
// sweep. The record is already PROCESSING; the account lock, balance check,
// settlement and debit run in their own transaction, independent of batch
// siblings.
func (s *Service) ProcessClaimed(ctx context.Context, claimed domain.ClaimedWithdrawal) (*Result, error) {
	withdrawal := claimed.Withdrawal
	detail := claimed.Detail

	strategy, err := s.strategies.Resolve(withdrawal.Method)
	if err != nil {
		if mErr := s.withdrawalRepo.MarkRejected(ctx, withdrawal.ID, err.Error()); mErr != nil {
			zap.L().Error("failed to reject withdrawal with unsupported method",
				zap.String("withdrawID", withdrawal.ID), zap.Error(mErr))
		}
		return nil, err
	}

	var (
		result *Result
		bizErr error
	)

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, withdrawal.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			if err := s.withdrawalRepo.MarkRejected(ctx, withdrawal.ID, domain.ErrAccountNotFound.Error()); err != nil {
				return err
			}
			bizErr = domain.ErrAccountNotFound
			return nil
		}

		res, err := s.settleLocked(ctx, account, &withdrawal, &detail, strategy, false)
		if err != nil && !isBusinessRejection(err) {
			return err
		}
		result, bizErr = res, err
		return nil
	})
	if err != nil {
		if pg.IsConcurrencyError(err) {
			return nil, domain.ErrConcurrency
		}
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}

	s.notifier.Notify(ctx, result.WithdrawID, withdrawal.AccountID, result.Amount, result.PixKey)
	return result, nil
}

// settleLocked performs the balance check, settlement and debit for a
// withdrawal whose account row is exclusively locked by the caller's
// transaction. When claim is set, the PENDING to PROCESSING transition is
// executed as a conditional update first.
//
// Business rejections write the terminal REJECTED row and return
// ErrInsufficientBalance or a *domain.SettlementError; the caller must commit
// in that case so the rejection stays visible.
func (s *Service) settleLocked(ctx context.Context, account *domain.Account, withdrawal *domain.Withdrawal, detail *domain.PixDetail, strategy Strategy, claim bool) (*Result, error) {
	if !account.HasBalance(withdrawal.Amount) {
		if err := s.withdrawalRepo.MarkRejected(ctx, withdrawal.ID, domain.ErrInsufficientBalance.Error()); err != nil {
			return nil, err
		}
		zap.L().Warn("withdrawal rejected: insufficient balance",
			zap.String("withdrawID", withdrawal.ID),
			zap.String("balance", account.Balance.String()),
			zap.String("amount", withdrawal.Amount.String()),
		)
		return nil, domain.ErrInsufficientBalance
	}

	if claim {
		ok, err := s.withdrawalRepo.UpdateStatus(ctx, withdrawal.ID, domain.StatusPending, domain.StatusProcessing)
		if err != nil {
			return nil, err
		}
		if !ok {
			// unreachable while the account lock is held; a zero-row CAS here
			// signals a logic bug, not a recoverable race
			return nil, domain.ErrConcurrency
		}
	}

	if err := strategy.Settle(ctx, account, withdrawal, detail); err != nil {
		var serr *domain.SettlementError
		if errors.As(err, &serr) {
			if mErr := s.withdrawalRepo.MarkRejected(ctx, withdrawal.ID, serr.Reason); mErr != nil {
				return nil, mErr
			}
			return nil, err
		}
		return nil, err
	}

	newBalance := account.Balance.Sub(withdrawal.Amount)
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, err
	}

	if err := s.withdrawalRepo.MarkDone(ctx, withdrawal.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	zap.L().Info("withdrawal completed",
		zap.String("withdrawID", withdrawal.ID),
		zap.String("accountID", account.ID),
		zap.String("amount", withdrawal.Amount.String()),
		zap.String("newBalance", newBalance.String()),
	)
	return &Result{
		WithdrawID:  withdrawal.ID,
		Status:      StatusCompleted,
		Amount:      withdrawal.Amount,
		PixKey:      detail.KeyValue,
		NewBalance:  &newBalance,
		ProcessedAt: &now,
	}, nil
}

func isBusinessRejection(err error) bool {
	var serr *domain.SettlementError
	return errors.Is(err, domain.ErrInsufficientBalance) || errors.As(err, &serr)
}

// markRejectedBestEffort tries to leave a visible rejection instead of a
// withdrawal stuck in a non-terminal state after an unexpected failure. A
// zero-row update is expected when the record itself was rolled back.
func (s *Service) markRejectedBestEffort(ctx context.Context, withdrawID string, cause error) {
	if err := s.withdrawalRepo.MarkRejected(context.WithoutCancel(ctx), withdrawID, cause.Error()); err != nil {
		zap.L().Warn("best-effort rejection mark failed",
			zap.String("withdrawID", withdrawID),
			zap.Error(err),
		)
	}
}
