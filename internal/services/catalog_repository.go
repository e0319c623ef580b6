// Package services contains the rotation engine's business logic and its
// Postgres-backed repositories.
package services

import (
	"context"
	"database/sql"

	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

// ContentCatalogRepository defines the interface for the shared prompt catalog
type ContentCatalogRepository interface {
	// ActiveItems returns all active catalog items excluding the given IDs
	ActiveItems(ctx context.Context, excludeIDs map[int64]struct{}) ([]models.ContentItem, error)

	// CreateItem inserts a new catalog item; fails with ErrDuplicateQuestion
	// when an item with the same question text already exists
	CreateItem(ctx context.Context, item *models.ContentItem) error

	// QuestionTextExists reports whether any item carries the given text
	QuestionTextExists(ctx context.Context, questionText string) (bool, error)

	// CountActive returns the number of active catalog items
	CountActive(ctx context.Context) (int, error)

	// GetByIDs returns catalog items by ID, active or not
	GetByIDs(ctx context.Context, ids []int64) ([]models.ContentItem, error)
}

// ContentCatalogRepositoryImpl implements ContentCatalogRepository
type ContentCatalogRepositoryImpl struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewContentCatalogRepository creates a new content catalog repository
func NewContentCatalogRepository(db *sql.DB, logger *observability.Logger) ContentCatalogRepository {
	return &ContentCatalogRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// ActiveItems returns all active catalog items excluding the given IDs
func (r *ContentCatalogRepositoryImpl) ActiveItems(ctx context.Context, excludeIDs map[int64]struct{}) (result []models.ContentItem, err error) {
	ctx, span := observability.TraceCatalogFunction(ctx, "active_items",
		attribute.Int("catalog.exclude_count", len(excludeIDs)),
	)
	defer observability.FinishSpan(span, &err)

	// The exclusion set is per-user lifetime history and can exceed what is
	// reasonable to inline into the query, so filter in memory.
	query := `
		SELECT id, question_text, category, difficulty, tags, is_generated, is_active, created_at
		FROM content_items
		WHERE is_active = TRUE
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err = contextutils.WrapError(err, "failed to query active content items")
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err = rows.Scan(
			&item.ID,
			&item.QuestionText,
			&item.Category,
			&item.Difficulty,
			pq.Array(&item.Tags),
			&item.IsGenerated,
			&item.IsActive,
			&item.CreatedAt,
		); err != nil {
			err = contextutils.WrapError(err, "failed to scan content item")
			return nil, err
		}
		if _, excluded := excludeIDs[item.ID]; excluded {
			continue
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		err = contextutils.WrapError(err, "failed to iterate content items")
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.eligible_count", len(items)))
	return items, nil
}

// CreateItem inserts a new catalog item
func (r *ContentCatalogRepositoryImpl) CreateItem(ctx context.Context, item *models.ContentItem) (err error) {
	ctx, span := observability.TraceCatalogFunction(ctx, "create_item",
		attribute.String("catalog.category", item.Category),
		attribute.String("catalog.difficulty", string(item.Difficulty)),
		attribute.Bool("catalog.is_generated", item.IsGenerated),
	)
	defer observability.FinishSpan(span, &err)

	if item.QuestionText == "" {
		return contextutils.WrapError(contextutils.ErrMissingRequired, "question text is required")
	}
	if !item.Difficulty.Valid() {
		return contextutils.ErrorWithContextf("invalid difficulty: %s", item.Difficulty)
	}

	query := `
		INSERT INTO content_items (question_text, category, difficulty, tags, is_generated, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		item.QuestionText,
		item.Category,
		item.Difficulty,
		pq.Array(item.Tags),
		item.IsGenerated,
		item.IsActive,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			err = contextutils.WrapError(contextutils.ErrDuplicateQuestion, "question text already exists")
			return err
		}
		err = contextutils.WrapError(err, "failed to insert content item")
		return err
	}

	return nil
}

// QuestionTextExists reports whether any item carries the given text
func (r *ContentCatalogRepositoryImpl) QuestionTextExists(ctx context.Context, questionText string) (result bool, err error) {
	ctx, span := observability.TraceCatalogFunction(ctx, "question_text_exists")
	defer observability.FinishSpan(span, &err)

	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM content_items WHERE question_text = $1)`,
		questionText,
	).Scan(&exists)
	if err != nil {
		err = contextutils.WrapError(err, "failed to check question text existence")
		return false, err
	}

	span.SetAttributes(attribute.Bool("catalog.exists", exists))
	return exists, nil
}

// CountActive returns the number of active catalog items
func (r *ContentCatalogRepositoryImpl) CountActive(ctx context.Context) (result int, err error) {
	ctx, span := observability.TraceCatalogFunction(ctx, "count_active")
	defer observability.FinishSpan(span, &err)

	var count int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_items WHERE is_active = TRUE`,
	).Scan(&count)
	if err != nil {
		err = contextutils.WrapError(err, "failed to count active content items")
		return 0, err
	}

	span.SetAttributes(attribute.Int("catalog.active_count", count))
	return count, nil
}

// GetByIDs returns catalog items by ID, active or not
func (r *ContentCatalogRepositoryImpl) GetByIDs(ctx context.Context, ids []int64) (result []models.ContentItem, err error) {
	ctx, span := observability.TraceCatalogFunction(ctx, "get_by_ids",
		attribute.Int("catalog.id_count", len(ids)),
	)
	defer observability.FinishSpan(span, &err)

	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, question_text, category, difficulty, tags, is_generated, is_active, created_at
		FROM content_items
		WHERE id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		err = contextutils.WrapError(err, "failed to query content items by id")
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err = rows.Scan(
			&item.ID,
			&item.QuestionText,
			&item.Category,
			&item.Difficulty,
			pq.Array(&item.Tags),
			&item.IsGenerated,
			&item.IsActive,
			&item.CreatedAt,
		); err != nil {
			err = contextutils.WrapError(err, "failed to scan content item")
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		err = contextutils.WrapError(err, "failed to iterate content items")
		return nil, err
	}

	return items, nil
}
