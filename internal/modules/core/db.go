package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so a handler can run the
// same statement inside or outside of a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

type TransactionOption func(*sql.TxOptions)

func WithIsolationLevel(isolationLevel sql.IsolationLevel) TransactionOption {
	return func(opts *sql.TxOptions) {
		opts.Isolation = isolationLevel
	}
}

// Tx runs transaction inside a single database transaction. The
// transaction is detached from ctx cancellation once started so a
// mutation always runs to commit or rollback.
func Tx(
	ctx context.Context,
	db *sql.DB,
	transaction func(context.Context, *sql.Tx) error,
	opts ...TransactionOption,
) (err error) {
	options := sql.TxOptions{}

	for _, opt := range opts {
		opt(&options)
	}

	ctx = context.WithoutCancel(ctx)

	tx, err := db.BeginTx(ctx, &options)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = pkgerrors.Wrapf(rollbackErr, "transaction panicked with: %v", r)
			} else {
				err = fmt.Errorf("transaction panicked with: %v", r)
			}
		}
	}()

	err = transaction(ctx, tx)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%s: %w", rollbackErr.Error(), err)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return pkgerrors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// TranslateDBError maps constraint violations to the business error
// taxonomy. Unique violations mean a concurrent writer got there first.
func TranslateDBError(err error, conflictReason string) error {
	if err == nil {
		return nil
	}

	if _, ok := AsCommandError(err); ok {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return Conflict(conflictReason)
		case pqForeignKeyViolation:
			return NotFound("ReferencedEntityNotFound")
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return Unexpected(err)
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
