package repo

import (
	"github.com/antonyoatec/case-tecnofit/internal/pg"
	accountrepo "github.com/antonyoatec/case-tecnofit/internal/repo/account-repo"
	withdrawalrepo "github.com/antonyoatec/case-tecnofit/internal/repo/withdrawal-repo"
	"github.com/antonyoatec/case-tecnofit/internal/scheduler"
	"github.com/antonyoatec/case-tecnofit/internal/service/withdrawservice"
)

type Repositories struct {
	AccountRepo    withdrawservice.AccountRepo
	WithdrawalRepo withdrawservice.WithdrawalRepo
	SweepRepo      scheduler.Repo
}

func New(conn pg.Database) *Repositories {
	accountRepo := accountrepo.New(conn)
	withdrawalRepo := withdrawalrepo.New(conn)

	return &Repositories{
		AccountRepo:    accountRepo,
		WithdrawalRepo: withdrawalRepo,
		SweepRepo:      withdrawalRepo,
	}
}
