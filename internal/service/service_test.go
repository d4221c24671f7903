package service

import (
	"testing"

	"github.com/antonyoatec/case-tecnofit/internal/pg"
	"github.com/antonyoatec/case-tecnofit/internal/repo"
	"github.com/antonyoatec/case-tecnofit/internal/service/withdrawservice"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccountRepo := withdrawservice.NewMockAccountRepo(ctrl)
	mockWithdrawalRepo := withdrawservice.NewMockWithdrawalRepo(ctrl)
	mockTxManager := pg.NewMockTXManager(ctrl)
	mockNotifier := withdrawservice.NewMockNotifier(ctrl)

	repos := &repo.Repositories{
		AccountRepo:    mockAccountRepo,
		WithdrawalRepo: mockWithdrawalRepo,
	}

	services := New(repos, mockTxManager, mockNotifier)

	assert.NotNil(t, services.AccountService)
	assert.NotNil(t, services.WithdrawService)
}
