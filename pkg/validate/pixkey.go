package validate

import (
	"net/mail"
	"strings"

	"github.com/antonyoatec/case-tecnofit/internal/domain"
)

const maxPixKeyLen = 254

// ValidatePixKey checks an email-type PIX key for syntactic validity.
// It returns nil when the key is acceptable.
func ValidatePixKey(key string) *domain.ValidationError {
	key = strings.TrimSpace(key)

	if key == "" {
		return domain.NewValidationError("pix_key", "EMPTY_KEY", "PIX email cannot be empty")
	}

	if len(key) > maxPixKeyLen {
		return domain.NewValidationError("pix_key", "TOO_LONG", "PIX email is too long")
	}

	addr, err := mail.ParseAddress(key)
	if err != nil || addr.Address != key {
		return domain.NewValidationError("pix_key", "INVALID_FORMAT", "invalid email format")
	}

	return nil
}
