package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TxBeginner is satisfied by *sqlx.DB.
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// RetryPolicy bounds how often a transaction is replayed after a transient failure.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// ErrRetriesExhausted wraps the last transient failure once the policy gives up.
var ErrRetriesExhausted = errors.New("transaction retries exhausted")

// WithTx runs fn inside a transaction, committing on success and rolling back on
// any error. Transient failures replay the whole transaction under policy.
func WithTx(ctx context.Context, db TxBeginner, policy RetryPolicy, fn func(tx *sqlx.Tx) error) error {
	attempts := policy.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = runTx(ctx, db, fn)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, policy.Delay*time.Duration(attempt)); err != nil {
			return fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
		}
	}
	return fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

func runTx(ctx context.Context, db TxBeginner, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTransient reports failures worth replaying: serialization failures,
// deadlocks, connection exceptions and dropped connections.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "40001", pqErr.Code == "40P01":
			return true
		case pqErr.Code.Class() == "08":
			return true
		case pqErr.Code == "57P01", pqErr.Code == "57P03":
			return true
		}
	}
	return false
}

// IsConstraintViolation reports integrity constraint violations (SQLSTATE class 23).
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}
