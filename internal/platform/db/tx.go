package db

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/platform/querier"
)

// InTx runs fn inside a transaction started on q. The transaction commits when
// fn returns nil and rolls back otherwise.
func InTx(ctx context.Context, q querier.TxBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := q.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}
