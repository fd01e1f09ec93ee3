package sqlite

import (
	"context"

	"gorm.io/gorm"

	"polychat/internal/domain/repositories"
)

type txContextKey struct{}

// TransactionManager runs repository calls inside one GORM transaction
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *gorm.DB) repositories.TransactionManager {
	return &TransactionManager{db: db}
}

// ExecTx executes fn within a transaction; nested calls join the outer one.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// conn returns the transaction in ctx, or db. With one pooled connection,
// using db inside a transaction would block forever.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
