package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/dto"
	"github.com/antonyoatec/case-tecnofit/internal/service/withdrawservice"
	"github.com/antonyoatec/case-tecnofit/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

//go:generate mockgen -source=account.go -destination=mock_account.go -package=account

type BalanceService interface {
	GetBalance(ctx context.Context, accountID string) (*domain.Account, error)
}

type WithdrawService interface {
	Withdraw(ctx context.Context, accountID string, req *dto.WithdrawRequestDTO) (*withdrawservice.Result, error)
}

type AccountHandler struct {
	balanceService  BalanceService
	withdrawService WithdrawService
}

func New(balanceService BalanceService, withdrawService WithdrawService) *AccountHandler {
	return &AccountHandler{
		balanceService:  balanceService,
		withdrawService: withdrawService,
	}
}

// GetBalance godoc
//
//	@Summary		Get account balance
//	@Description	Retrieve the current balance for the given account.
//	@Tags			Account
//	@Produce		json
//	@Param			id	path		string			true	"Account ID (UUID)"
//	@Success		200	{object}	utils.Response{data=dto.BalanceResponseDTO}	"Account balance"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/account/{id}/balance [get]
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(accountID); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
		return
	}

	account, err := h.balanceService.GetBalance(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		AccountID: account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
	})
}

// Withdraw godoc
//
//	@Summary		Request a PIX withdrawal
//	@Description	Withdraw an amount from the account balance, immediately or at a scheduled future time.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account ID (UUID)"
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdrawal request payload"
//	@Success		200		{object}	utils.Response{data=dto.WithdrawResponseDTO}	"Withdrawal accepted"
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		404		{object}	utils.Response	"Account not found"
//	@Failure		409		{object}	utils.Response	"Concurrent operation detected"
//	@Failure		422		{object}	utils.Response	"Insufficient balance"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/account/{id}/balance/withdraw [post]
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(accountID); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
		return
	}

	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if code, message, ok := validateRequest(&req); !ok {
		utils.RespondWithError(w, http.StatusBadRequest, code, message)
		return
	}

	result, err := h.withdrawService.Withdraw(r.Context(), accountID, &req)
	if err != nil {
		respondWithdrawError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.WithdrawResponseDTO{
		WithdrawID:   result.WithdrawID,
		Status:       result.Status,
		Amount:       result.Amount,
		PixKey:       result.PixKey,
		NewBalance:   result.NewBalance,
		ScheduledFor: result.ScheduledFor,
		ProcessedAt:  result.ProcessedAt,
	})
}

// validateRequest performs the basic shape checks that never reach the
// service layer. Deeper syntactic validation belongs to the strategy.
func validateRequest(req *dto.WithdrawRequestDTO) (code, message string, ok bool) {
	if strings.TrimSpace(req.Method) == "" {
		return "MISSING_METHOD", "Method is required", false
	}
	if !req.Amount.IsPositive() {
		return "INVALID_AMOUNT", "Amount must be greater than zero", false
	}
	if strings.TrimSpace(req.PixKey) == "" {
		return "MISSING_PIX_KEY", "PIX key is required", false
	}
	if req.IsScheduled() && !req.ScheduledFor.After(time.Now()) {
		return "INVALID_SCHEDULED_DATE", "Scheduled date must be in the future", false
	}
	return "", "", true
}

func respondWithdrawError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var serr *domain.SettlementError

	switch {
	case errors.As(err, &verr):
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
	case errors.Is(err, domain.ErrUnsupportedMethod):
		utils.RespondWithError(w, http.StatusBadRequest, "UNSUPPORTED_METHOD", "Only PIX method is supported")
	case errors.Is(err, domain.ErrAccountNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
	case errors.Is(err, domain.ErrInsufficientBalance):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", domain.ErrInsufficientBalance.Error())
	case errors.Is(err, domain.ErrConcurrency):
		utils.RespondWithError(w, http.StatusConflict, "CONCURRENCY_ERROR", "Concurrent operation detected, please try again")
	case errors.As(err, &serr):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "STRATEGY_FAILED", serr.Reason)
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
