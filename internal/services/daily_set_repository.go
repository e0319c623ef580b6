package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// DailySetStore persists daily sets and their assigned item snapshots.
type DailySetStore interface {
	// GetByUserAndDate returns the set for (user, date) with its items,
	// or nil when none exists
	GetByUserAndDate(ctx context.Context, userID int, date time.Time) (*models.DailySet, error)

	// InsertIfAbsent atomically creates the set unless one already exists
	// for (user, date). Returns the stored set and whether this call
	// created it; when another writer won the race the winner's set is
	// returned with created=false.
	InsertIfAbsent(ctx context.Context, set *models.DailySet) (*models.DailySet, bool, error)

	// AssignedItemIDs returns every catalog item ID that has ever been
	// assigned to the user across all their sets
	AssignedItemIDs(ctx context.Context, userID int) (map[int64]struct{}, error)

	// MarkItemCompleted marks one assigned item completed and recomputes
	// the set's counters. Returns the set state after the write and
	// whether this call changed anything.
	MarkItemCompleted(ctx context.Context, setID, itemID int64) (*SetCompletion, error)

	// IsFullyCompleted reports whether the set for (user, date) exists
	// and is fully completed
	IsFullyCompleted(ctx context.Context, userID int, date time.Time) (bool, error)

	// TotalCompletedDays returns how many of the user's sets are fully
	// completed, regardless of consecutiveness
	TotalCompletedDays(ctx context.Context, userID int) (int, error)
}

// SetCompletion is the set state after a completion write.
type SetCompletion struct {
	CompletedCount   int
	Total            int
	IsFullyCompleted bool
	Changed          bool
}

// DailySetStoreImpl implements DailySetStore
type DailySetStoreImpl struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewDailySetStore creates a new daily set store
func NewDailySetStore(db *sql.DB, logger *observability.Logger) DailySetStore {
	return &DailySetStoreImpl{
		db:     db,
		logger: logger,
	}
}

// GetByUserAndDate returns the set for (user, date) with its items
func (r *DailySetStoreImpl) GetByUserAndDate(ctx context.Context, userID int, date time.Time) (result *models.DailySet, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "get_daily_set",
		observability.AttributeUserID(userID),
		observability.AttributeDate(date),
	)
	defer observability.FinishSpan(span, &err)

	set := &models.DailySet{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, set_date, completed_count, is_fully_completed, generated_at
		FROM daily_sets
		WHERE user_id = $1 AND set_date = $2
	`, userID, date.Format("2006-01-02")).Scan(
		&set.ID,
		&set.UserID,
		&set.SetDate,
		&set.CompletedCount,
		&set.IsFullyCompleted,
		&set.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		span.SetAttributes(attribute.Bool("dailyset.found", false))
		return nil, nil
	}
	if err != nil {
		err = contextutils.WrapError(err, "failed to query daily set")
		return nil, err
	}

	if set.Items, err = r.loadItems(ctx, set.ID); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("dailyset.found", true))
	return set, nil
}

// loadItems loads the assigned items for a set ordered by position
func (r *DailySetStoreImpl) loadItems(ctx context.Context, setID int64) (result []models.DailySetItem, err error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, set_id, item_id, question_text, category, difficulty, position, is_completed, completed_at
		FROM daily_set_items
		WHERE set_id = $1
		ORDER BY position
	`, setID)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query daily set items")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var items []models.DailySetItem
	for rows.Next() {
		var item models.DailySetItem
		if err = rows.Scan(
			&item.ID,
			&item.SetID,
			&item.ItemID,
			&item.QuestionText,
			&item.Category,
			&item.Difficulty,
			&item.Position,
			&item.IsCompleted,
			&item.CompletedAt,
		); err != nil {
			return nil, contextutils.WrapError(err, "failed to scan daily set item")
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to iterate daily set items")
	}

	return items, nil
}

// InsertIfAbsent atomically creates the set unless one already exists
func (r *DailySetStoreImpl) InsertIfAbsent(ctx context.Context, set *models.DailySet) (result *models.DailySet, created bool, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "insert_daily_set_if_absent",
		observability.AttributeUserID(set.UserID),
		observability.AttributeDate(set.SetDate),
		attribute.Int("dailyset.item_count", len(set.Items)),
	)
	defer observability.FinishSpan(span, &err)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err = contextutils.WrapError(err, "failed to begin transaction")
		return nil, false, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				r.logger.Warn(ctx, "Failed to roll back transaction", map[string]interface{}{"error": rbErr.Error()})
			}
		}
	}()

	var setID int64
	var generatedAt time.Time
	insertErr := tx.QueryRowContext(ctx, `
		INSERT INTO daily_sets (user_id, set_date)
		VALUES ($1, $2)
		ON CONFLICT (user_id, set_date) DO NOTHING
		RETURNING id, generated_at
	`, set.UserID, set.SetDate.Format("2006-01-02")).Scan(&setID, &generatedAt)

	if insertErr == sql.ErrNoRows {
		// Another writer won the race; abandon ours and return the winner
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			r.logger.Warn(ctx, "Failed to roll back transaction", map[string]interface{}{"error": rbErr.Error()})
		}
		span.SetAttributes(attribute.Bool("dailyset.created", false))
		winner, getErr := r.GetByUserAndDate(ctx, set.UserID, set.SetDate)
		if getErr != nil {
			err = getErr
			return nil, false, err
		}
		if winner == nil {
			err = contextutils.WrapError(contextutils.ErrConflict, "daily set conflict but winner not found")
			return nil, false, err
		}
		return winner, false, nil
	}
	if insertErr != nil {
		err = contextutils.WrapError(insertErr, "failed to insert daily set")
		return nil, false, err
	}

	for i := range set.Items {
		item := &set.Items[i]
		item.SetID = setID
		item.Position = i
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO daily_set_items (set_id, item_id, question_text, category, difficulty, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, setID, item.ItemID, item.QuestionText, item.Category, item.Difficulty, item.Position).Scan(&item.ID); err != nil {
			err = contextutils.WrapError(err, "failed to insert daily set item")
			return nil, false, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = contextutils.WrapError(err, "failed to commit daily set")
		return nil, false, err
	}

	set.ID = setID
	set.GeneratedAt = generatedAt
	span.SetAttributes(attribute.Bool("dailyset.created", true))
	return set, true, nil
}

// AssignedItemIDs returns every item ID ever assigned to the user
func (r *DailySetStoreImpl) AssignedItemIDs(ctx context.Context, userID int) (result map[int64]struct{}, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "assigned_item_ids",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	rows, err := r.db.QueryContext(ctx, `
		SELECT dsi.item_id
		FROM daily_set_items dsi
		JOIN daily_sets ds ON ds.id = dsi.set_id
		WHERE ds.user_id = $1
	`, userID)
	if err != nil {
		err = contextutils.WrapError(err, "failed to query assigned item ids")
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			err = contextutils.WrapError(err, "failed to scan assigned item id")
			return nil, err
		}
		ids[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		err = contextutils.WrapError(err, "failed to iterate assigned item ids")
		return nil, err
	}

	span.SetAttributes(attribute.Int("dailyset.assigned_count", len(ids)))
	return ids, nil
}

// MarkItemCompleted marks one assigned item completed and recomputes counters
func (r *DailySetStoreImpl) MarkItemCompleted(ctx context.Context, setID, itemID int64) (result *SetCompletion, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "mark_item_completed",
		attribute.Int64("dailyset.set_id", setID),
		observability.AttributeItemID(itemID),
	)
	defer observability.FinishSpan(span, &err)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err = contextutils.WrapError(err, "failed to begin transaction")
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				r.logger.Warn(ctx, "Failed to roll back transaction", map[string]interface{}{"error": rbErr.Error()})
			}
		}
	}()

	// Conditional update: a second submission for the same item changes
	// zero rows and leaves the counters alone
	res, err := tx.ExecContext(ctx, `
		UPDATE daily_set_items
		SET is_completed = TRUE, completed_at = CURRENT_TIMESTAMP
		WHERE set_id = $1 AND item_id = $2 AND is_completed = FALSE
	`, setID, itemID)
	if err != nil {
		err = contextutils.WrapError(err, "failed to mark item completed")
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		err = contextutils.WrapError(err, "failed to read rows affected")
		return nil, err
	}
	changed := affected > 0

	if changed {
		if _, err = tx.ExecContext(ctx, `
			UPDATE daily_sets
			SET completed_count = sub.done,
			    is_fully_completed = (sub.done >= sub.total)
			FROM (
				SELECT COUNT(*) FILTER (WHERE is_completed) AS done, COUNT(*) AS total
				FROM daily_set_items
				WHERE set_id = $1
			) AS sub
			WHERE daily_sets.id = $1
		`, setID); err != nil {
			err = contextutils.WrapError(err, "failed to recompute set counters")
			return nil, err
		}
	}

	completion := &SetCompletion{Changed: changed}
	err = tx.QueryRowContext(ctx, `
		SELECT ds.completed_count, ds.is_fully_completed,
		       (SELECT COUNT(*) FROM daily_set_items WHERE set_id = ds.id)
		FROM daily_sets ds
		WHERE ds.id = $1
	`, setID).Scan(&completion.CompletedCount, &completion.IsFullyCompleted, &completion.Total)
	if err != nil {
		err = contextutils.WrapError(err, "failed to read set completion state")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = contextutils.WrapError(err, "failed to commit completion")
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("dailyset.changed", changed),
		attribute.Int("dailyset.completed_count", completion.CompletedCount),
		attribute.Bool("dailyset.fully_completed", completion.IsFullyCompleted),
	)
	return completion, nil
}

// IsFullyCompleted reports whether the set for (user, date) is fully completed
func (r *DailySetStoreImpl) IsFullyCompleted(ctx context.Context, userID int, date time.Time) (result bool, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "is_fully_completed",
		observability.AttributeUserID(userID),
		observability.AttributeDate(date),
	)
	defer observability.FinishSpan(span, &err)

	var completed bool
	err = r.db.QueryRowContext(ctx, `
		SELECT is_fully_completed
		FROM daily_sets
		WHERE user_id = $1 AND set_date = $2
	`, userID, date.Format("2006-01-02")).Scan(&completed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		err = contextutils.WrapError(err, "failed to query set completion")
		return false, err
	}

	return completed, nil
}

// TotalCompletedDays returns how many of the user's sets are fully completed
func (r *DailySetStoreImpl) TotalCompletedDays(ctx context.Context, userID int) (result int, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "total_completed_days",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	var count int
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM daily_sets WHERE user_id = $1 AND is_fully_completed = TRUE
	`, userID).Scan(&count)
	if err != nil {
		err = contextutils.WrapError(err, "failed to count completed days")
		return 0, err
	}

	span.SetAttributes(attribute.Int("streak.total_completed_days", count))
	return count, nil
}
