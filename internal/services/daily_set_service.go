package services

import (
	"context"
	"time"

	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// DailySetServiceInterface assembles and serves per-user daily sets.
type DailySetServiceInterface interface {
	// GetOrCreate returns the set for (user, date), assembling and
	// persisting it on first request. Idempotent per (user, date).
	GetOrCreate(ctx context.Context, userID int, date time.Time) (*models.DailySet, error)
}

// DailySetService implements DailySetServiceInterface.
type DailySetService struct {
	catalog     ContentCatalogRepository
	exposure    ExposureLedger
	sets        DailySetStore
	cache       DailySetCache
	selector    *DiversitySelector
	replenisher ReplenisherService
	cfg         *config.RotationConfig
	logger      *observability.Logger
}

// NewDailySetService creates a new daily set service
func NewDailySetService(
	catalog ContentCatalogRepository,
	exposure ExposureLedger,
	sets DailySetStore,
	cache DailySetCache,
	selector *DiversitySelector,
	replenisher ReplenisherService,
	cfg *config.RotationConfig,
	logger *observability.Logger,
) *DailySetService {
	return &DailySetService{
		catalog:     catalog,
		exposure:    exposure,
		sets:        sets,
		cache:       cache,
		selector:    selector,
		replenisher: replenisher,
		cfg:         cfg,
		logger:      logger,
	}
}

// GetOrCreate returns the set for (user, date), assembling it on first request
func (s *DailySetService) GetOrCreate(ctx context.Context, userID int, date time.Time) (result *models.DailySet, err error) {
	ctx, span := observability.TraceDailySetFunction(ctx, "get_or_create",
		observability.AttributeUserID(userID),
		observability.AttributeDate(date),
	)
	defer observability.FinishSpan(span, &err)

	if s.cache != nil {
		if cached, ok := s.cache.Get(userID, date); ok {
			span.SetAttributes(attribute.Bool("dailyset.cache_hit", true))
			return cached, nil
		}
	}
	span.SetAttributes(attribute.Bool("dailyset.cache_hit", false))

	existing, err := s.sets.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if s.cache != nil {
			s.cache.Put(userID, date, existing)
		}
		return existing, nil
	}

	candidates, err := s.eligibleItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Replenish when the pool cannot fill a batch, then re-query so the
	// fresh items become candidates
	if len(candidates) < s.cfg.BatchSize {
		span.SetAttributes(attribute.Bool("dailyset.replenished", true))
		if _, genErr := s.replenisher.Generate(ctx, s.cfg.ReplenishCount); genErr != nil {
			err = genErr
			return nil, err
		}
		if candidates, err = s.eligibleItems(ctx, userID); err != nil {
			return nil, err
		}
	}

	selected := s.selector.Select(ctx, candidates, s.cfg.BatchSize)

	shortBatch := len(selected) < s.cfg.BatchSize
	if shortBatch {
		s.logger.Warn(ctx, "Assembling short daily set, catalog exhausted for user", map[string]interface{}{
			"user_id":    userID,
			"selected":   len(selected),
			"batch_size": s.cfg.BatchSize,
		})
		span.SetAttributes(attribute.Bool("dailyset.short_batch", true))
	}

	set := &models.DailySet{
		UserID:  userID,
		SetDate: date,
		Items:   make([]models.DailySetItem, 0, len(selected)),
	}
	for i, item := range selected {
		set.Items = append(set.Items, models.DailySetItem{
			ItemID:       item.ID,
			QuestionText: item.QuestionText,
			Category:     item.Category,
			Difficulty:   item.Difficulty,
			Position:     i,
		})
	}

	stored, created, err := s.sets.InsertIfAbsent(ctx, set)
	if err != nil {
		return nil, err
	}
	if created {
		stored.ShortBatch = shortBatch
	}
	span.SetAttributes(attribute.Bool("dailyset.created", created))

	if s.cache != nil {
		s.cache.Put(userID, date, stored)
	}
	return stored, nil
}

// eligibleItems returns active catalog items the user has never been
// assigned or exposed to. Items already snapshotted into any of the
// user's sets are excluded even before a response lands, so a set
// generated for tomorrow never overlaps today's.
func (s *DailySetService) eligibleItems(ctx context.Context, userID int) ([]models.ContentItem, error) {
	exposed, err := s.exposure.ExposureSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.sets.AssignedItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for id := range assigned {
		exposed[id] = struct{}{}
	}
	return s.catalog.ActiveItems(ctx, exposed)
}
