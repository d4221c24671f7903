package service

import (
	"github.com/antonyoatec/case-tecnofit/internal/pg"
	"github.com/antonyoatec/case-tecnofit/internal/repo"
	"github.com/antonyoatec/case-tecnofit/internal/service/accountservice"
	"github.com/antonyoatec/case-tecnofit/internal/service/withdrawservice"
)

type Services struct {
	AccountService  *accountservice.Service
	WithdrawService *withdrawservice.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, notifier withdrawservice.Notifier) *Services {
	strategies := withdrawservice.NewStrategyRegistry(withdrawservice.NewPixStrategy())
	withdrawService := withdrawservice.New(repo.AccountRepo, repo.WithdrawalRepo, txManager, strategies, notifier)
	accountService := accountservice.New(repo.AccountRepo)

	return &Services{
		AccountService:  accountService,
		WithdrawService: withdrawService,
	}
}
