package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// ResponseServiceInterface records written responses against assigned prompts.
type ResponseServiceInterface interface {
	// Submit records a response to an item in the user's set for today.
	// Fails with ErrSetNotFound when no set exists and ErrItemNotInSet
	// when the item is not part of it; neither failure mutates state.
	Submit(ctx context.Context, userID int, itemID int64, text string, timeSpentSeconds int, mood *int) (*models.SubmissionResult, error)

	// CompletionStats aggregates the user's lifetime response activity
	CompletionStats(ctx context.Context, userID int) (*models.CompletionStats, error)
}

// ResponseService implements ResponseServiceInterface.
type ResponseService struct {
	catalog   ContentCatalogRepository
	exposure  ExposureLedger
	sets      DailySetStore
	responses ResponseStore
	users     UserRepository
	cache     DailySetCache
	logger    *observability.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewResponseService creates a new response service
func NewResponseService(
	catalog ContentCatalogRepository,
	exposure ExposureLedger,
	sets DailySetStore,
	responses ResponseStore,
	users UserRepository,
	cache DailySetCache,
	logger *observability.Logger,
) *ResponseService {
	return &ResponseService{
		catalog:   catalog,
		exposure:  exposure,
		sets:      sets,
		responses: responses,
		users:     users,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit records a response to an item in the user's set for today
func (s *ResponseService) Submit(ctx context.Context, userID int, itemID int64, text string, timeSpentSeconds int, mood *int) (result *models.SubmissionResult, err error) {
	ctx, span := observability.TraceResponseFunction(ctx, "submit",
		observability.AttributeUserID(userID),
		observability.AttributeItemID(itemID),
	)
	defer observability.FinishSpan(span, &err)

	if strings.TrimSpace(text) == "" {
		return nil, contextutils.WrapError(contextutils.ErrInvalidInput, "response text is empty")
	}

	today, err := s.userToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	set, err := s.sets.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if set == nil {
		err = contextutils.ErrSetNotFound
		return nil, err
	}
	if set.ItemByItemID(itemID) == nil {
		err = contextutils.ErrItemNotInSet
		return nil, err
	}

	response := &models.Response{
		UserID:           userID,
		ItemID:           itemID,
		SetID:            set.ID,
		ResponseText:     text,
		WordCount:        len(strings.Fields(text)),
		TimeSpentSeconds: timeSpentSeconds,
	}
	if mood != nil {
		response.Mood = sql.NullInt32{Int32: int32(*mood), Valid: true}
	}

	if err = s.responses.Insert(ctx, response); err != nil {
		return nil, err
	}

	// Exposure append is idempotent, so repeat submissions are safe
	if err = s.exposure.Append(ctx, userID, itemID); err != nil {
		return nil, err
	}

	completion, err := s.sets.MarkItemCompleted(ctx, set.ID, itemID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(userID, today)
	}

	var tags []string
	items, err := s.catalog.GetByIDs(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		tags = items[0].Tags
	}

	span.SetAttributes(
		attribute.Int("response.word_count", response.WordCount),
		attribute.Bool("dailyset.fully_completed", completion.IsFullyCompleted),
	)
	return &models.SubmissionResult{
		ResponseID:       response.ID,
		CompletedCount:   completion.CompletedCount,
		Total:            completion.Total,
		IsFullyCompleted: completion.IsFullyCompleted,
		Tags:             tags,
	}, nil
}

// CompletionStats aggregates the user's lifetime response activity
func (s *ResponseService) CompletionStats(ctx context.Context, userID int) (result *models.CompletionStats, err error) {
	ctx, span := observability.TraceResponseFunction(ctx, "completion_stats",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	return s.responses.CompletionStats(ctx, userID)
}

// userToday resolves today's calendar date in the user's timezone,
// falling back to UTC when none is set.
func (s *ResponseService) userToday(ctx context.Context, userID int) (time.Time, error) {
	var timezone string
	if s.users != nil {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return time.Time{}, err
		}
		if user != nil && user.Timezone.Valid {
			timezone = user.Timezone.String
		}
	}
	loc, _ := contextutils.UserLocation(timezone)
	return contextutils.DateOnly(s.now(), loc), nil
}
