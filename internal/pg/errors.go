package pg

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsConcurrencyError reports whether err is a transient lock-contention
// failure: a bounded lock wait that timed out (55P03) or a deadlock broken by
// the engine (40P01). Both are retryable by the caller.
func IsConcurrencyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.LockNotAvailable || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}
