package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
)

// TxFn is the body of a transaction. Returning an error rolls it back.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxBeginner starts transactions. *sql.DB satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// RunInTransaction runs fn inside a transaction on db and commits when fn
// returns nil.
//
// An error from fn is returned as is after the rollback, so callers can keep
// matching on their sentinels. If the rollback itself fails both errors are
// joined. A panic in fn rolls back and is re-raised.
func RunInTransaction(ctx context.Context, db TxBeginner, fn TxFn) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committing := false
	defer func() {
		p := recover()
		if committing || (p == nil && err == nil) {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.Any("cause", causeOf(err, p)))
			if p == nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		} else {
			log.Debug("transaction rolled back", slog.Any("cause", causeOf(err, p)))
		}
		if p != nil {
			// ALLOW-PANIC: re-raise after the rollback
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	committing = true
	if err = tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func causeOf(err error, p any) any {
	if p != nil {
		return p
	}
	return err.Error()
}
