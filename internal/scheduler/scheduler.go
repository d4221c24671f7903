package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/antonyoatec/case-tecnofit/internal/config"
	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/service/withdrawservice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=scheduler.go -destination=mock_scheduler.go -package=scheduler

type Repo interface {
	ClaimScheduled(ctx context.Context, limit int) ([]string, error)
	GetClaimed(ctx context.Context, ids []string) ([]domain.ClaimedWithdrawal, error)
	MarkRejected(ctx context.Context, id string, reason string) error
}

type Processor interface {
	ProcessClaimed(ctx context.Context, claimed domain.ClaimedWithdrawal) (*withdrawservice.Result, error)
}

// Stats aggregates one sweep run.
type Stats struct {
	Claimed   int
	Completed int
	Rejected  int
}

// Service periodically claims due scheduled withdrawals and feeds each one to
// the withdrawal processor. A run never propagates an error outward; failures
// are logged and retried on the next tick.
type Service struct {
	repo       Repo
	processor  Processor
	batchLimit int
	interval   time.Duration
	workerPool WorkerPoolI
}

func New(cfg *config.Config, repo Repo, processor Processor) *Service {
	return &Service{
		repo:       repo,
		processor:  processor,
		batchLimit: cfg.SweepBatchLimit,
		interval:   cfg.SweepInterval,
		workerPool: NewWorkerPool(cfg.SweepWorkers),
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Scheduled withdrawal sweep started",
		zap.Duration("interval", s.interval),
		zap.Int("batchLimit", s.batchLimit),
	)
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping sweep")
			s.workerPool.Close()
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep claims one batch and processes every item independently. The claim is
// a single conditional bulk update, so concurrent sweeps against the same
// database each reserve a disjoint set of rows.
func (s *Service) Sweep(ctx context.Context) Stats {
	ids, err := s.repo.ClaimScheduled(ctx, s.batchLimit)
	if err != nil {
		zap.L().Error("Failed to claim scheduled withdrawals", zap.Error(err))
		return Stats{}
	}
	if len(ids) == 0 {
		return Stats{}
	}

	claimed, err := s.repo.GetClaimed(ctx, ids)
	if err != nil {
		zap.L().Error("Failed to load claimed withdrawals", zap.Error(err))
		s.rejectAll(ctx, ids, err)
		return Stats{Claimed: len(ids), Rejected: len(ids)}
	}

	var completed, rejected atomic.Int64
	var wg sync.WaitGroup
	var g errgroup.Group

	for _, item := range claimed {
		item := item
		wg.Add(1)

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer wg.Done()
				if err := s.processOne(ctx, item); err != nil {
					rejected.Add(1)
					return err
				}
				completed.Add(1)
				return nil
			})
			if err != nil {
				wg.Done()
				rejected.Add(1)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error dispatching scheduled withdrawals", zap.Error(err))
	}
	wg.Wait()

	stats := Stats{
		Claimed:   len(claimed),
		Completed: int(completed.Load()),
		Rejected:  int(rejected.Load()),
	}
	zap.L().Info("Scheduled withdrawal sweep completed",
		zap.Int("claimed", stats.Claimed),
		zap.Int("completed", stats.Completed),
		zap.Int("rejected", stats.Rejected),
	)
	return stats
}

// processOne finishes a single claimed withdrawal. Whatever happens here must
// leave the record in a terminal state: an unexpected processing error is
// converted into a best-effort rejection so no row sits in PROCESSING forever.
func (s *Service) processOne(ctx context.Context, item domain.ClaimedWithdrawal) error {
	result, err := s.processor.ProcessClaimed(ctx, item)
	if err != nil {
		// business rejections already wrote their terminal REJECTED row
		if !isHandledRejection(err) {
			if mErr := s.repo.MarkRejected(ctx, item.Withdrawal.ID, err.Error()); mErr != nil {
				zap.L().Error("Failed to mark withdrawal as rejected, manual intervention required",
					zap.String("withdrawID", item.Withdrawal.ID),
					zap.Error(mErr),
				)
			}
		}
		zap.L().Warn("Scheduled withdrawal rejected",
			zap.String("withdrawID", item.Withdrawal.ID),
			zap.Error(err),
		)
		return err
	}

	zap.L().Info("Scheduled withdrawal processed",
		zap.String("withdrawID", result.WithdrawID),
		zap.String("status", result.Status),
	)
	return nil
}

func isHandledRejection(err error) bool {
	var serr *domain.SettlementError
	return errors.Is(err, domain.ErrInsufficientBalance) ||
		errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrUnsupportedMethod) ||
		errors.As(err, &serr)
}

func (s *Service) rejectAll(ctx context.Context, ids []string, cause error) {
	for _, id := range ids {
		if err := s.repo.MarkRejected(ctx, id, cause.Error()); err != nil {
			zap.L().Error("Failed to mark withdrawal as rejected, manual intervention required",
				zap.String("withdrawID", id),
				zap.Error(err),
			)
		}
	}
}
