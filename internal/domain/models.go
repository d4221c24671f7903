package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	StatusPending    WithdrawalStatus = "PENDING"
	StatusProcessing WithdrawalStatus = "PROCESSING"
	StatusDone       WithdrawalStatus = "DONE"
	StatusRejected   WithdrawalStatus = "REJECTED"
)

const (
	MethodPix    = "pix"
	MethodTed    = "ted"
	MethodBoleto = "boleto"
)

type PixKeyType string

const PixKeyTypeEmail PixKeyType = "EMAIL"

type Account struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// HasBalance reports whether the account can cover amount.
// An exact-balance withdrawal is allowed.
func (a *Account) HasBalance(amount decimal.Decimal) bool {
	return !a.Balance.LessThan(amount)
}

type Withdrawal struct {
	ID           string           `db:"id"`
	AccountID    string           `db:"account_id"`
	Method       string           `db:"method"`
	Amount       decimal.Decimal  `db:"amount"`
	Scheduled    bool             `db:"scheduled"`
	ScheduledFor *time.Time       `db:"scheduled_for"`
	Status       WithdrawalStatus `db:"status"`
	ErrorReason  *string          `db:"error_reason"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`
	ProcessedAt  *time.Time       `db:"processed_at"`
}

func (w *Withdrawal) IsScheduled() bool {
	return w.Scheduled
}

func (w *Withdrawal) IsTerminal() bool {
	return w.Status == StatusDone || w.Status == StatusRejected
}

// ClaimedWithdrawal is a scheduled withdrawal reserved by the sweep, carried
// together with its settlement detail.
type ClaimedWithdrawal struct {
	Withdrawal Withdrawal
	Detail     PixDetail
}

type PixDetail struct {
	ID           string     `db:"id"`
	WithdrawalID string     `db:"account_withdraw_id"`
	KeyType      PixKeyType `db:"type"`
	KeyValue     string     `db:"key"`
	CreatedAt    time.Time  `db:"created_at"`
}
