package accountrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	accountID := "a3f1c8d2-5b7e-4e21-9c40-1f2d3e4a5b6c"

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Account
	}{
		{
			name: "Account found",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "name", "balance"}).
					AddRow(accountID, "Maria Silva", decimal.NewFromInt(1000))
				mock.ExpectQuery(regexp.QuoteMeta(`
        SELECT id, name, balance
        FROM account
        WHERE id = $1
    `)).
					WithArgs(accountID).
					WillReturnRows(rows)
			},
			result: &domain.Account{
				ID:      accountID,
				Name:    "Maria Silva",
				Balance: decimal.NewFromInt(1000),
			},
		},
		{
			name: "Account not found",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
        SELECT id, name, balance
        FROM account
        WHERE id = $1
    `)).
					WithArgs(accountID).
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "balance"}))
			},
			result: nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
        SELECT id, name, balance
        FROM account
        WHERE id = $1
    `)).
					WithArgs(accountID).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetByID(ctx, accountID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_GetByIDForUpdate(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	accountID := "a3f1c8d2-5b7e-4e21-9c40-1f2d3e4a5b6c"

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Account
	}{
		{
			name: "Row locked and returned",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "name", "balance"}).
					AddRow(accountID, "Maria Silva", decimal.NewFromInt(500))
				mock.ExpectQuery(regexp.QuoteMeta(`
        SELECT id, name, balance
        FROM account
        WHERE id = $1
        FOR UPDATE
    `)).
					WithArgs(accountID).
					WillReturnRows(rows)
			},
			result: &domain.Account{
				ID:      accountID,
				Name:    "Maria Silva",
				Balance: decimal.NewFromInt(500),
			},
		},
		{
			name: "Lock wait timed out",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
        SELECT id, name, balance
        FROM account
        WHERE id = $1
        FOR UPDATE
    `)).
					WithArgs(accountID).
					WillReturnError(errors.New("canceling statement due to lock timeout"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetByIDForUpdate(ctx, accountID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_UpdateBalance(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	accountID := "a3f1c8d2-5b7e-4e21-9c40-1f2d3e4a5b6c"
	newBalance := decimal.NewFromInt(900)

	tests := []struct {
		name        string
		mockSetup   func()
		expectedErr error
	}{
		{
			name: "Balance updated",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`
        UPDATE account
        SET balance = $1, updated_at = now()
        WHERE id = $2
    `)).
					WithArgs(newBalance, accountID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "Account vanished",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`
        UPDATE account
        SET balance = $1, updated_at = now()
        WHERE id = $2
    `)).
					WithArgs(newBalance, accountID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectedErr: domain.ErrAccountNotFound,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`
        UPDATE account
        SET balance = $1, updated_at = now()
        WHERE id = $2
    `)).
					WithArgs(newBalance, accountID).
					WillReturnError(errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.UpdateBalance(ctx, accountID, newBalance)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedErr.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
