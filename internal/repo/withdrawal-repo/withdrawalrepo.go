package withdrawalrepo

import (
	"context"
	"fmt"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/pg"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error) {
	if withdrawal.ID == "" {
		withdrawal.ID = uuid.NewString()
	}
	withdrawal.Status = domain.StatusPending

	query := `
		INSERT INTO account_withdraw (id, account_id, method, amount, scheduled, scheduled_for, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		withdrawal.ID,
		withdrawal.AccountID,
		withdrawal.Method,
		withdrawal.Amount,
		withdrawal.Scheduled,
		withdrawal.ScheduledFor,
		withdrawal.Status,
	).Scan(&withdrawal.CreatedAt, &withdrawal.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save withdrawal", zap.Error(err))
		return nil, err
	}
	return withdrawal, nil
}

func (r *Repository) CreatePixDetail(ctx context.Context, detail *domain.PixDetail) (*domain.PixDetail, error) {
	if detail.ID == "" {
		detail.ID = uuid.NewString()
	}

	query := `
		INSERT INTO account_withdraw_pix (id, account_withdraw_id, type, key)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, detail.ID, detail.WithdrawalID, detail.KeyType, detail.KeyValue).
		Scan(&detail.CreatedAt)
	if err != nil {
		zap.L().Error("can't save pix detail", zap.Error(err))
		return nil, err
	}
	return detail, nil
}

// UpdateStatus flips the withdrawal status with compare-and-swap semantics:
// the update matches only when the row still carries the expected prior
// status. Zero affected rows means the precondition no longer held.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.WithdrawalStatus) (bool, error) {
	query := `
		UPDATE account_withdraw
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		zap.L().Error("failed to update withdrawal status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkDone(ctx context.Context, id string) error {
	query := `
		UPDATE account_withdraw
		SET status = $1, processed_at = now(), updated_at = now()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, domain.StatusDone, id)
	if err != nil {
		zap.L().Error("failed to mark withdrawal as done", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %s not found", id)
	}
	return nil
}

func (r *Repository) MarkRejected(ctx context.Context, id string, reason string) error {
	query := `
		UPDATE account_withdraw
		SET status = $1, error_reason = $2, updated_at = now()
		WHERE id = $3
	`
	tag, err := r.db.Exec(ctx, query, domain.StatusRejected, reason, id)
	if err != nil {
		zap.L().Error("failed to mark withdrawal as rejected", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %s not found", id)
	}
	return nil
}

// GetByAccountID lists an account's withdrawals, newest first.
func (r *Repository) GetByAccountID(ctx context.Context, accountID string) ([]domain.Withdrawal, error) {
	query := `
		SELECT id, account_id, method, amount, scheduled, scheduled_for, status, error_reason, created_at, updated_at, processed_at
		FROM account_withdraw
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		zap.L().Error("failed to list withdrawals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		err := rows.Scan(
			&w.ID,
			&w.AccountID,
			&w.Method,
			&w.Amount,
			&w.Scheduled,
			&w.ScheduledFor,
			&w.Status,
			&w.ErrorReason,
			&w.CreatedAt,
			&w.UpdatedAt,
			&w.ProcessedAt,
		)
		if err != nil {
			zap.L().Error("failed to scan withdrawal row", zap.Error(err))
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// ClaimScheduled atomically reserves up to limit due scheduled withdrawals by
// flipping PENDING to PROCESSING in a single conditional update. Concurrent
// sweeps claim disjoint sets: the status predicate is re-evaluated per row and
// SKIP LOCKED keeps competing transactions from waiting on each other.
func (r *Repository) ClaimScheduled(ctx context.Context, limit int) ([]string, error) {
	query := `
		UPDATE account_withdraw
		SET status = 'PROCESSING', updated_at = now()
		WHERE id IN (
			SELECT id
			FROM account_withdraw
			WHERE status = 'PENDING' AND scheduled = true AND scheduled_for <= now()
			ORDER BY scheduled_for
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("failed to claim scheduled withdrawals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			zap.L().Error("failed to scan claimed withdrawal id", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetClaimed loads the reserved withdrawals with their pix details.
func (r *Repository) GetClaimed(ctx context.Context, ids []string) ([]domain.ClaimedWithdrawal, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT w.id, w.account_id, w.method, w.amount, w.scheduled, w.scheduled_for, w.status,
		       p.id, p.type, p.key
		FROM account_withdraw w
		JOIN account_withdraw_pix p ON p.account_withdraw_id = w.id
		WHERE w.id = ANY($1)
		ORDER BY w.scheduled_for
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		zap.L().Error("failed to fetch claimed withdrawals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var claimed []domain.ClaimedWithdrawal
	for rows.Next() {
		var c domain.ClaimedWithdrawal
		err := rows.Scan(
			&c.Withdrawal.ID,
			&c.Withdrawal.AccountID,
			&c.Withdrawal.Method,
			&c.Withdrawal.Amount,
			&c.Withdrawal.Scheduled,
			&c.Withdrawal.ScheduledFor,
			&c.Withdrawal.Status,
			&c.Detail.ID,
			&c.Detail.KeyType,
			&c.Detail.KeyValue,
		)
		if err != nil {
			zap.L().Error("failed to scan claimed withdrawal row", zap.Error(err))
			return nil, err
		}
		c.Detail.WithdrawalID = c.Withdrawal.ID
		claimed = append(claimed, c)
	}
	return claimed, rows.Err()
}
