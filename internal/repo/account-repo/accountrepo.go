package accountrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/pg"
	"github.com/shopspring/decimal"
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

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
        SELECT id, name, balance
        FROM account
        WHERE id = $1
    `
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate acquires an exclusive row lock on the account. The lock is
// held until the surrounding transaction commits or rolls back and serializes
// all withdrawal attempts against the same account.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	query := `
        SELECT id, name, balance
        FROM account
        WHERE id = $1
        FOR UPDATE
    `
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.Name, &account.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

// UpdateBalance persists a new balance. Callers must hold the account row lock
// acquired by GetByIDForUpdate.
func (r *Repository) UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error {
	query := `
        UPDATE account
        SET balance = $1, updated_at = now()
        WHERE id = $2
    `
	tag, err := r.db.Exec(ctx, query, newBalance, id)
	if err != nil {
		zap.L().Error("failed to update account balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
