package repositories

import (
	"context"

	"feedbackbox_backend/pkg/contextkeys"

	"gorm.io/gorm"
)

// dbFrom returns the *gorm.DB bound to ctx when one is present (a
// request-scoped handle or a test transaction), otherwise the
// repository's own pool, with ctx attached either way.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(contextkeys.DBContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}
