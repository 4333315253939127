package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside a transaction bound to ctx. Returning an
// error from fn rolls back.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return errors.New("db: transaction function is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx).Transaction(fn)
}
