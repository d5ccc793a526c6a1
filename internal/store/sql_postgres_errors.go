package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the repository how to treat a failed statement.
type ErrorClassification int

const (
	// NonRetryable is the default for unrecognised errors.
	NonRetryable ErrorClassification = iota
	// Retryable marks transient failures: lost connections, deadlocks,
	// serialization failures, a busy database.
	Retryable
	// UniqueViolation marks a write rejected by a unique index. For the
	// resources table this is a remote id claimed by another row.
	UniqueViolation
)

func (c ErrorClassification) String() string {
	switch c {
	case Retryable:
		return "retryable"
	case UniqueViolation:
		return "unique_violation"
	default:
		return "non_retryable"
	}
}

// retryablePgCodes are the SQLSTATE codes of classes 08, 40 and 57 worth
// another attempt.
var retryablePgCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.CannotConnectNow:       {},
}

// PostgresErrorClassifier implements [ErrorClassificator] for pgx errors.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that do not unwrap to a
// *pgconn.PgError are [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}
	return ClassifyPgError(pgErr)
}

// ClassifyPgError maps a SQLSTATE code to an [ErrorClassification].
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	if pgErr.Code == pgerrcode.UniqueViolation {
		return UniqueViolation
	}
	if _, ok := retryablePgCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}
