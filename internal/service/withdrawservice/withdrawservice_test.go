package withdrawservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/dto"
	"github.com/antonyoatec/case-tecnofit/internal/pg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type stubStrategy struct {
	method    string
	settleErr error
}

func (s *stubStrategy) Method() string { return s.method }

func (s *stubStrategy) Validate(req *dto.WithdrawRequestDTO) *domain.ValidationError { return nil }

func (s *stubStrategy) Settle(ctx context.Context, account *domain.Account, withdrawal *domain.Withdrawal, detail *domain.PixDetail) error {
	return s.settleErr
}

func NewMock(t *testing.T, extra ...Strategy) (*Service, *MockAccountRepo, *MockWithdrawalRepo, *pg.MockTXManager, *MockNotifier) {
	ctrl := gomock.NewController(t)
	accountRepo := NewMockAccountRepo(ctrl)
	withdrawalRepo := NewMockWithdrawalRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	notifier := NewMockNotifier(ctrl)
	strategies := NewStrategyRegistry(append([]Strategy{NewPixStrategy()}, extra...)...)
	service := New(accountRepo, withdrawalRepo, txManager, strategies, notifier)
	defer ctrl.Finish()
	return service, accountRepo, withdrawalRepo, txManager, notifier
}

func passthroughTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	)
}

func TestWithdraw(t *testing.T) {
	failing := &stubStrategy{method: "ted", settleErr: &domain.SettlementError{Reason: "provider unavailable"}}
	service, accountRepo, withdrawalRepo, txManager, notifier := NewMock(t, failing)

	accountID := "a3f1c8d2-5b7e-4e21-9c40-1f2d3e4a5b6c"
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-time.Hour)

	account := func(balance int64) *domain.Account {
		return &domain.Account{
			ID:      accountID,
			Name:    "Maria Silva",
			Balance: decimal.NewFromInt(balance),
		}
	}
	createSettingID := func(id string) func(context.Context, *domain.Withdrawal) (*domain.Withdrawal, error) {
		return func(_ context.Context, w *domain.Withdrawal) (*domain.Withdrawal, error) {
			w.ID = id
			return w, nil
		}
	}

	tests := []struct {
		name           string
		req            *dto.WithdrawRequestDTO
		prepareMock    func()
		expectedStatus string
		expectedError  error
		checkError     func(t *testing.T, err error)
	}{
		{
			name: "Unsupported method",
			req: &dto.WithdrawRequestDTO{
				Method: "boleto",
				Amount: decimal.NewFromInt(100),
				PixKey: "user@example.com",
			},
			expectedError: domain.ErrUnsupportedMethod,
		},
		{
			name: "Invalid amount",
			req: &dto.WithdrawRequestDTO{
				Method: "pix",
				Amount: decimal.Zero,
				PixKey: "user@example.com",
			},
			checkError: func(t *testing.T, err error) {
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Equal(t, "INVALID_AMOUNT", verr.Code)
			},
		},
		{
			name: "Invalid pix key",
			req: &dto.WithdrawRequestDTO{
				Method: "pix",
				Amount: decimal.NewFromInt(100),
				PixKey: "not-an-email",
			},
			checkError: func(t *testing.T, err error) {
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Equal(t, "INVALID_FORMAT", verr.Code)
			},
		},
		{
			name: "Scheduled date in the past",
			req: &dto.WithdrawRequestDTO{
				Method:       "pix",
				Amount:       decimal.NewFromInt(100),
				PixKey:       "user@example.com",
				ScheduledFor: &past,
			},
			checkError: func(t *testing.T, err error) {
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Equal(t, "INVALID_SCHEDULED_DATE", verr.Code)
			},
		},
		{
			name: "Account not found",
			req: &dto.WithdrawRequestDTO{
				Method: "pix",
				Amount: decimal.NewFromInt(100),
				PixKey: "user@example.com",
			},
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(nil, nil)
			},
			expectedError: domain.ErrAccountNotFound,
		},
		{
			name: "Immediate withdrawal completes",
			req: &dto.WithdrawRequestDTO{
				Method: "pix",
				Amount: decimal.NewFromInt(100),
				PixKey: "user@example.com",
			},
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(account(1000), nil)
				withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(createSettingID("w-1"))
				withdrawalRepo.EXPECT().CreatePixDetail(gomock.Any(), gomock.Any()).Return(&domain.PixDetail{}, nil)
				withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), "w-1", domain.StatusPending, domain.StatusProcessing).Return(true, nil)
				accountRepo.EXPECT().UpdateBalance(gomock.Any(), accountID, gomock.Any()).DoAndReturn(
					func(_ context.Context, _ string, newBalance decimal.Decimal) error {
						assert.Equal(t, "900", newBalance.String())
						return nil
					},
				)
				withdrawalRepo.EXPECT().MarkDone(gomock.Any(), "w-1").Return(nil)
				notifier.EXPECT().Notify(gomock.Any(), "w-1", accountID, decimal.NewFromInt(100), "user@example.com")
			},
			expectedStatus: StatusCompleted,
		},
		{
			name: "Insufficient balance commits rejection",
			req: &dto.WithdrawRequestDTO{
				Method: "pix",
				Amount: decimal.NewFromInt(100),
				PixKey: "user@example.com",
			},
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(account(50), nil)
				withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(createSettingID("w-2"))
				withdrawalRepo.EXPECT().CreatePixDetail(gomock.Any(), gomock.Any()).Return(&domain.PixDetail{}, nil)
				withdrawalRepo.EXPECT().MarkRejected(gomock.Any(), "w-2", "saldo insuficiente").Return(nil)
			},
			expectedError: domain.ErrInsufficientBalance,
		},
		{
			name: "Scheduled withdrawal is stored without debit",
			req: &dto.WithdrawRequestDTO{
				Method:       "pix",
				Amount:       decimal.NewFromInt(100),
				PixKey:       "user@example.com",
				ScheduledFor: &future,
			},
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(account(50), nil)
				withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(createSettingID("w-3"))
				withdrawalRepo.EXPECT().CreatePixDetail(gomock.Any(), gomock.Any()).Return(&domain.PixDetail{}, nil)
			},
			expectedStatus: StatusScheduled,
		},
		{
			name: "Zero-row claim surfaces as concurrency error",
			req: &dto.WithdrawRequestDTO{
				Method: "pix",
				Amount: decimal.NewFromInt(100),
				PixKey: "user@example.com",
			},
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(account(1000), nil)
				withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(createSettingID("w-4"))
				withdrawalRepo.EXPECT().CreatePixDetail(gomock.Any(), gomock.Any()).Return(&domain.PixDetail{}, nil)
				withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), "w-4", domain.StatusPending, domain.StatusProcessing).Return(false, nil)
				withdrawalRepo.EXPECT().MarkRejected(gomock.Any(), "w-4", gomock.Any()).Return(nil)
			},
			expectedError: domain.ErrConcurrency,
		},
		{
			name: "Settlement failure commits rejection",
			req: &dto.WithdrawRequestDTO{
				Method: "ted",
				Amount: decimal.NewFromInt(100),
				PixKey: "user@example.com",
			},
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(account(1000), nil)
				withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(createSettingID("w-5"))
				withdrawalRepo.EXPECT().CreatePixDetail(gomock.Any(), gomock.Any()).Return(&domain.PixDetail{}, nil)
				withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), "w-5", domain.StatusPending, domain.StatusProcessing).Return(true, nil)
				withdrawalRepo.EXPECT().MarkRejected(gomock.Any(), "w-5", "provider unavailable").Return(nil)
			},
			checkError: func(t *testing.T, err error) {
				var serr *domain.SettlementError
				assert.ErrorAs(t, err, &serr)
				assert.Equal(t, "provider unavailable", serr.Reason)
			},
		},
		{
			name: "Infrastructure error rolls back",
			req: &dto.WithdrawRequestDTO{
				Method: "pix",
				Amount: decimal.NewFromInt(100),
				PixKey: "user@example.com",
			},
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(account(1000), nil)
				withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			checkError: func(t *testing.T, err error) {
				assert.EqualError(t, err, "db error")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := service.Withdraw(context.Background(), accountID, tt.req)
			switch {
			case tt.checkError != nil:
				assert.Error(t, err)
				tt.checkError(t, err)
				assert.Nil(t, result)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, result.Status)
				assert.Equal(t, tt.req.Amount, result.Amount)
				assert.Equal(t, tt.req.PixKey, result.PixKey)
				if tt.expectedStatus == StatusCompleted {
					assert.NotNil(t, result.NewBalance)
					assert.NotNil(t, result.ProcessedAt)
				} else {
					assert.Nil(t, result.NewBalance)
					assert.Equal(t, tt.req.ScheduledFor, result.ScheduledFor)
				}
			}
		})
	}
}

func TestProcessClaimed(t *testing.T) {
	service, accountRepo, withdrawalRepo, txManager, notifier := NewMock(t)

	accountID := "a3f1c8d2-5b7e-4e21-9c40-1f2d3e4a5b6c"
	claimed := func(method string, amount int64) domain.ClaimedWithdrawal {
		return domain.ClaimedWithdrawal{
			Withdrawal: domain.Withdrawal{
				ID:        "w-10",
				AccountID: accountID,
				Method:    method,
				Amount:    decimal.NewFromInt(amount),
				Scheduled: true,
				Status:    domain.StatusProcessing,
			},
			Detail: domain.PixDetail{
				WithdrawalID: "w-10",
				KeyType:      domain.PixKeyTypeEmail,
				KeyValue:     "user@example.com",
			},
		}
	}

	tests := []struct {
		name          string
		claimed       domain.ClaimedWithdrawal
		prepareMock   func()
		expectedError error
	}{
		{
			name:    "Claimed withdrawal completes",
			claimed: claimed("pix", 100),
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(&domain.Account{
					ID:      accountID,
					Balance: decimal.NewFromInt(1000),
				}, nil)
				accountRepo.EXPECT().UpdateBalance(gomock.Any(), accountID, gomock.Any()).Return(nil)
				withdrawalRepo.EXPECT().MarkDone(gomock.Any(), "w-10").Return(nil)
				notifier.EXPECT().Notify(gomock.Any(), "w-10", accountID, decimal.NewFromInt(100), "user@example.com")
			},
		},
		{
			name:    "Account missing at processing time",
			claimed: claimed("pix", 100),
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(nil, nil)
				withdrawalRepo.EXPECT().MarkRejected(gomock.Any(), "w-10", domain.ErrAccountNotFound.Error()).Return(nil)
			},
			expectedError: domain.ErrAccountNotFound,
		},
		{
			name:    "Balance gone by processing time",
			claimed: claimed("pix", 100),
			prepareMock: func() {
				passthroughTx(txManager)
				accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), accountID).Return(&domain.Account{
					ID:      accountID,
					Balance: decimal.NewFromInt(10),
				}, nil)
				withdrawalRepo.EXPECT().MarkRejected(gomock.Any(), "w-10", "saldo insuficiente").Return(nil)
			},
			expectedError: domain.ErrInsufficientBalance,
		},
		{
			name:    "Unsupported method rejected outside transaction",
			claimed: claimed("boleto", 100),
			prepareMock: func() {
				withdrawalRepo.EXPECT().MarkRejected(gomock.Any(), "w-10", domain.ErrUnsupportedMethod.Error()).Return(nil)
			},
			expectedError: domain.ErrUnsupportedMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := service.ProcessClaimed(context.Background(), tt.claimed)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, StatusCompleted, result.Status)
			}
		})
	}
}
