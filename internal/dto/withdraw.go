package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawRequestDTO struct {
	Method       string          `json:"method"                  example:"pix"`
	Amount       decimal.Decimal `json:"amount"                  example:"100.00"`
	PixKey       string          `json:"pix_key"                 example:"user@example.com"`
	ScheduledFor *time.Time      `json:"scheduled_for,omitempty" example:"2026-09-02T10:00:00Z"`
}

func (r *WithdrawRequestDTO) IsScheduled() bool {
	return r.ScheduledFor != nil
}

type WithdrawResponseDTO struct {
	WithdrawID   string           `json:"withdraw_id"             example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Status       string           `json:"status"                  example:"completed"`
	Amount       decimal.Decimal  `json:"amount"                  example:"100.00"`
	PixKey       string           `json:"pix_key"                 example:"user@example.com"`
	NewBalance   *decimal.Decimal `json:"new_balance,omitempty"   example:"900.00"`
	ScheduledFor *time.Time       `json:"scheduled_for,omitempty" example:"2026-09-02T10:00:00Z"`
	ProcessedAt  *time.Time       `json:"processed_at,omitempty"  example:"2026-09-01T12:00:00Z"`
}
