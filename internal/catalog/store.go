package catalog

import (
	"context"

	"gameportal/backend/internal/models"
)

// Store is the persistence provider behind the catalog. Implementations
// must honour ctx cancellation and return games with Tags loaded.
type Store interface {
	Find(ctx context.Context, q Query) ([]models.Game, error)
	Count(ctx context.Context, preds []Predicate) (int64, error)
}
