package withdrawservice

import (
	"context"
	"strings"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
	"github.com/antonyoatec/case-tecnofit/internal/dto"
	"github.com/antonyoatec/case-tecnofit/pkg/validate"
	"go.uber.org/zap"
)

// Strategy holds the method-specific rules of a withdrawal: field validation
// before any state is created, and settlement against the method's backend.
type Strategy interface {
	Method() string
	Validate(req *dto.WithdrawRequestDTO) *domain.ValidationError
	Settle(ctx context.Context, account *domain.Account, withdrawal *domain.Withdrawal, detail *domain.PixDetail) error
}

type StrategyRegistry struct {
	strategies map[string]Strategy
}

func NewStrategyRegistry(strategies ...Strategy) *StrategyRegistry {
	r := &StrategyRegistry{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		r.strategies[strings.ToLower(s.Method())] = s
	}
	return r
}

// Resolve matches a withdrawal method case-insensitively against the
// registered strategies.
func (r *StrategyRegistry) Resolve(method string) (Strategy, error) {
	strategy, ok := r.strategies[strings.ToLower(method)]
	if !ok {
		return nil, domain.ErrUnsupportedMethod
	}
	return strategy, nil
}

// PixStrategy settles withdrawals over the PIX rail, identified by an
// email-type key. Settlement is a stub that always succeeds once reached; a
// real integration would call the PIX network here.
type PixStrategy struct{}

func NewPixStrategy() *PixStrategy {
	return &PixStrategy{}
}

func (s *PixStrategy) Method() string {
	return domain.MethodPix
}

func (s *PixStrategy) Validate(req *dto.WithdrawRequestDTO) *domain.ValidationError {
	if !req.Amount.IsPositive() {
		return domain.NewValidationError("amount", "INVALID_AMOUNT", "amount must be greater than zero")
	}
	return validate.ValidatePixKey(req.PixKey)
}

func (s *PixStrategy) Settle(ctx context.Context, account *domain.Account, withdrawal *domain.Withdrawal, detail *domain.PixDetail) error {
	zap.L().Info("pix settlement succeeded",
		zap.String("withdrawID", withdrawal.ID),
		zap.String("pixKey", detail.KeyValue),
	)
	return nil
}
