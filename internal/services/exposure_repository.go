package services

import (
	"context"
	"database/sql"

	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// ExposureLedger tracks which catalog items a user has ever answered.
// The ledger is append-only; rows are never updated or removed, which is
// what makes the lifetime no-repeat guarantee hold.
type ExposureLedger interface {
	// ExposureSet returns the IDs of every item the user has been exposed to
	ExposureSet(ctx context.Context, userID int) (map[int64]struct{}, error)

	// HasAny reports whether the user has any exposure history at all
	HasAny(ctx context.Context, userID int) (bool, error)

	// Append records an exposure; appending the same (user, item) pair
	// again is a no-op
	Append(ctx context.Context, userID int, itemID int64) error

	// CountForUser returns the number of distinct items the user has answered
	CountForUser(ctx context.Context, userID int) (int, error)
}

// ExposureLedgerImpl implements ExposureLedger
type ExposureLedgerImpl struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewExposureLedger creates a new exposure ledger repository
func NewExposureLedger(db *sql.DB, logger *observability.Logger) ExposureLedger {
	return &ExposureLedgerImpl{
		db:     db,
		logger: logger,
	}
}

// ExposureSet returns the IDs of every item the user has been exposed to
func (r *ExposureLedgerImpl) ExposureSet(ctx context.Context, userID int) (result map[int64]struct{}, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "exposure_set",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM exposure_records WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		err = contextutils.WrapError(err, "failed to query exposure records")
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	set := make(map[int64]struct{})
	for rows.Next() {
		var itemID int64
		if err = rows.Scan(&itemID); err != nil {
			err = contextutils.WrapError(err, "failed to scan exposure record")
			return nil, err
		}
		set[itemID] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		err = contextutils.WrapError(err, "failed to iterate exposure records")
		return nil, err
	}

	span.SetAttributes(attribute.Int("exposure.count", len(set)))
	return set, nil
}

// HasAny reports whether the user has any exposure history at all
func (r *ExposureLedgerImpl) HasAny(ctx context.Context, userID int) (result bool, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "exposure_has_any",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM exposure_records WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		err = contextutils.WrapError(err, "failed to check exposure records")
		return false, err
	}

	return exists, nil
}

// Append records an exposure for the user
func (r *ExposureLedgerImpl) Append(ctx context.Context, userID int, itemID int64) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "exposure_append",
		observability.AttributeUserID(userID),
		observability.AttributeItemID(itemID),
	)
	defer observability.FinishSpan(span, &err)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO exposure_records (user_id, item_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, item_id) DO NOTHING
	`, userID, itemID)
	if err != nil {
		err = contextutils.WrapError(err, "failed to append exposure record")
		return err
	}

	return nil
}

// CountForUser returns the number of distinct items the user has answered
func (r *ExposureLedgerImpl) CountForUser(ctx context.Context, userID int) (result int, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "exposure_count_for_user",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	var count int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exposure_records WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		err = contextutils.WrapError(err, "failed to count exposure records")
		return 0, err
	}

	span.SetAttributes(attribute.Int("exposure.count", count))
	return count, nil
}
