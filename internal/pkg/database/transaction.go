package database

import (
	"context"
	"fmt"
)

type txContextKey struct{}

// TxManager runs a function inside a single database transaction. Repository
// calls made with the context it passes to fn share that transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// WithinTransaction begins a transaction, stores it in the context handed to
// fn, and commits when fn returns nil. Any error (or panic) rolls back.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetQuerier returns the transaction carried by ctx when one is present,
// falling back to the pool otherwise.
func GetQuerier(ctx context.Context, db *DB) Querier {
	if tx, ok := ctx.Value(txContextKey{}).(Querier); ok {
		return tx
	}
	return db.Pool
}
