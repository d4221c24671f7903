package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/antonyoatec/case-tecnofit/internal/config"
	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/service/withdrawservice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockProcessor) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	processor := NewMockProcessor(ctrl)
	cfg := &config.Config{
		SweepInterval:   time.Minute,
		SweepBatchLimit: 50,
		SweepWorkers:    2,
	}
	service := New(cfg, repo, processor)
	defer ctrl.Finish()
	return service, repo, processor
}

func claimedItem(id string) domain.ClaimedWithdrawal {
	return domain.ClaimedWithdrawal{
		Withdrawal: domain.Withdrawal{
			ID:        id,
			AccountID: "a3f1c8d2-5b7e-4e21-9c40-1f2d3e4a5b6c",
			Method:    domain.MethodPix,
			Amount:    decimal.NewFromInt(100),
			Scheduled: true,
			Status:    domain.StatusProcessing,
		},
		Detail: domain.PixDetail{
			WithdrawalID: id,
			KeyType:      domain.PixKeyTypeEmail,
			KeyValue:     "user@example.com",
		},
	}
}

func TestSweep(t *testing.T) {
	service, repo, processor := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedStats Stats
	}{
		{
			name: "Claim failure yields empty stats",
			prepareMock: func() {
				repo.EXPECT().ClaimScheduled(gomock.Any(), 50).Return(nil, errors.New("db error"))
			},
			expectedStats: Stats{},
		},
		{
			name: "Nothing due",
			prepareMock: func() {
				repo.EXPECT().ClaimScheduled(gomock.Any(), 50).Return([]string{}, nil)
			},
			expectedStats: Stats{},
		},
		{
			name: "Load failure rejects the whole claimed batch",
			prepareMock: func() {
				repo.EXPECT().ClaimScheduled(gomock.Any(), 50).Return([]string{"w-1", "w-2"}, nil)
				repo.EXPECT().GetClaimed(gomock.Any(), []string{"w-1", "w-2"}).Return(nil, errors.New("db error"))
				repo.EXPECT().MarkRejected(gomock.Any(), "w-1", "db error").Return(nil)
				repo.EXPECT().MarkRejected(gomock.Any(), "w-2", "db error").Return(nil)
			},
			expectedStats: Stats{Claimed: 2, Rejected: 2},
		},
		{
			name: "Mixed batch counts completions and rejections",
			prepareMock: func() {
				items := []domain.ClaimedWithdrawal{claimedItem("w-1"), claimedItem("w-2"), claimedItem("w-3")}
				repo.EXPECT().ClaimScheduled(gomock.Any(), 50).Return([]string{"w-1", "w-2", "w-3"}, nil)
				repo.EXPECT().GetClaimed(gomock.Any(), []string{"w-1", "w-2", "w-3"}).Return(items, nil)
				processor.EXPECT().ProcessClaimed(gomock.Any(), items[0]).Return(&withdrawservice.Result{
					WithdrawID: "w-1",
					Status:     withdrawservice.StatusCompleted,
				}, nil)
				processor.EXPECT().ProcessClaimed(gomock.Any(), items[1]).Return(&withdrawservice.Result{
					WithdrawID: "w-2",
					Status:     withdrawservice.StatusCompleted,
				}, nil)
				// handled rejection: the terminal row was already written
				processor.EXPECT().ProcessClaimed(gomock.Any(), items[2]).Return(nil, domain.ErrInsufficientBalance)
			},
			expectedStats: Stats{Claimed: 3, Completed: 2, Rejected: 1},
		},
		{
			name: "Unexpected processing error marks the record rejected",
			prepareMock: func() {
				items := []domain.ClaimedWithdrawal{claimedItem("w-9")}
				repo.EXPECT().ClaimScheduled(gomock.Any(), 50).Return([]string{"w-9"}, nil)
				repo.EXPECT().GetClaimed(gomock.Any(), []string{"w-9"}).Return(items, nil)
				processor.EXPECT().ProcessClaimed(gomock.Any(), items[0]).Return(nil, errors.New("settlement backend down"))
				repo.EXPECT().MarkRejected(gomock.Any(), "w-9", "settlement backend down").Return(nil)
			},
			expectedStats: Stats{Claimed: 1, Rejected: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			stats := service.Sweep(context.Background())
			assert.Equal(t, tt.expectedStats, stats)
		})
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	service, repo, _ := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	repo.EXPECT().ClaimScheduled(gomock.Any(), 50).Return([]string{}, nil).AnyTimes()

	service.interval = 10 * time.Millisecond
	service.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
}
