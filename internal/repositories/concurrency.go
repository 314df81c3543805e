package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

// EntityWithVersion is what the optimistic-locking loop needs from a row:
// identity, the current row_version, and comparability so a zero value
// (nil pointer) can signal "not found".
type EntityWithVersion interface {
	comparable
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

// UpdateIfVersionFunc writes the entity only when the stored row_version
// still equals expectedVersion. RowsAffected tells the loop whether it won.
type UpdateIfVersionFunc[T EntityWithVersion] func(
	ctx context.Context,
	entity T,
	expectedVersion int64,
) (pgconn.CommandTag, error)

type GetByIDFunc[T EntityWithVersion] func(
	ctx context.Context,
	id string,
) (T, error)

/*
WithRetry is the read-mutate-write loop behind every versioned update.
Each attempt re-reads the row, applies mutate to the fresh copy, and
writes it back guarded by the version it read. A lost race (zero rows
affected) retries from the read; exhausting maxRetries surfaces
utils.ErrRowVersionConflict so callers can map it to a conflict response.
*/
func WithRetry[T EntityWithVersion](
	ctx context.Context,
	maxRetries int,
	id string,
	getByID GetByIDFunc[T],
	updateIfVersion UpdateIfVersionFunc[T],
	mutate func(T) error,
) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		current, err := getByID(ctx, id)
		if err != nil {
			return err
		}

		var zero T
		if current == zero {
			return pgx.ErrNoRows
		}

		readVersion := current.GetRowVersion()

		if err := mutate(current); err != nil {
			return err
		}

		tag, err := updateIfVersion(ctx, current, readVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		// Another writer bumped the version between our read and write.
	}
	return fmt.Errorf("%w: updating %q", utils.ErrRowVersionConflict, id)
}
