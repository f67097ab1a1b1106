package repository

import (
	"context"
	"database/sql"
)

// withTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back on error or panic, so the connection is
// always released before withTx returns.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// lockRow checks that a row exists and locks it for the rest of the
// transaction. missing is returned when no row matches.
func lockRow(ctx context.Context, tx *sql.Tx, query string, id uint64, missing error) error {
	var got uint64
	if err := tx.QueryRowContext(ctx, query, id).Scan(&got); err != nil {
		if err == sql.ErrNoRows {
			return missing
		}
		return err
	}
	return nil
}
