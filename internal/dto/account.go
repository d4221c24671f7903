package dto

import "github.com/shopspring/decimal"

type BalanceResponseDTO struct {
	AccountID string          `json:"account_id" example:"a3f1c8d2-5b7e-4e21-9c40-1f2d3e4a5b6c"`
	Name      string          `json:"name"       example:"Maria Silva"`
	Balance   decimal.Decimal `json:"balance"    example:"1000.00"`
}
