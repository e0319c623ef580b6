package services

import (
	"context"
	"database/sql"

	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ResponseStore persists written responses and serves aggregate statistics.
type ResponseStore interface {
	// Insert stores a response, assigning it a UUID when none is set
	Insert(ctx context.Context, response *models.Response) error

	// CompletionStats aggregates the user's lifetime response activity
	CompletionStats(ctx context.Context, userID int) (*models.CompletionStats, error)
}

// ResponseStoreImpl implements ResponseStore
type ResponseStoreImpl struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewResponseStore creates a new response store
func NewResponseStore(db *sql.DB, logger *observability.Logger) ResponseStore {
	return &ResponseStoreImpl{
		db:     db,
		logger: logger,
	}
}

// Insert stores a response
func (r *ResponseStoreImpl) Insert(ctx context.Context, response *models.Response) (err error) {
	ctx, span := observability.TraceResponseFunction(ctx, "insert_response",
		observability.AttributeUserID(response.UserID),
		observability.AttributeItemID(response.ItemID),
		attribute.Int("response.word_count", response.WordCount),
	)
	defer observability.FinishSpan(span, &err)

	if response.ID == "" {
		response.ID = uuid.NewString()
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO responses (id, user_id, item_id, set_id, response_text, word_count, time_spent_seconds, mood)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`,
		response.ID,
		response.UserID,
		response.ItemID,
		response.SetID,
		response.ResponseText,
		response.WordCount,
		response.TimeSpentSeconds,
		response.Mood,
	).Scan(&response.CreatedAt)
	if err != nil {
		err = contextutils.WrapError(err, "failed to insert response")
		return err
	}

	return nil
}

// CompletionStats aggregates the user's lifetime response activity
func (r *ResponseStoreImpl) CompletionStats(ctx context.Context, userID int) (result *models.CompletionStats, err error) {
	ctx, span := observability.TraceResponseFunction(ctx, "completion_stats",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	stats := &models.CompletionStats{
		CategoryBreakdown: make(map[string]int),
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(word_count), 0)
		FROM responses
		WHERE user_id = $1
	`, userID).Scan(&stats.TotalResponses, &stats.TotalWordsWritten)
	if err != nil {
		err = contextutils.WrapError(err, "failed to aggregate responses")
		return nil, err
	}

	if stats.TotalResponses > 0 {
		stats.AverageWordCount = float64(stats.TotalWordsWritten) / float64(stats.TotalResponses)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.category, COUNT(*)
		FROM responses resp
		JOIN content_items ci ON ci.id = resp.item_id
		WHERE resp.user_id = $1
		GROUP BY ci.category
	`, userID)
	if err != nil {
		err = contextutils.WrapError(err, "failed to query category breakdown")
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	for rows.Next() {
		var category string
		var count int
		if err = rows.Scan(&category, &count); err != nil {
			err = contextutils.WrapError(err, "failed to scan category breakdown")
			return nil, err
		}
		stats.CategoryBreakdown[category] = count
	}
	if err = rows.Err(); err != nil {
		err = contextutils.WrapError(err, "failed to iterate category breakdown")
		return nil, err
	}

	span.SetAttributes(attribute.Int("response.total", stats.TotalResponses))
	return stats, nil
}
