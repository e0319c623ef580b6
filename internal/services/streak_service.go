package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// StreakServiceInterface computes consecutive-day completion streaks.
type StreakServiceInterface interface {
	// CurrentStreak counts consecutive fully-completed days ending today
	CurrentStreak(ctx context.Context, userID int, today time.Time) (int, error)

	// GetStreak returns the streak, total completed days, and message
	GetStreak(ctx context.Context, userID int, today time.Time) (*models.StreakSummary, error)
}

// StreakService implements StreakServiceInterface.
type StreakService struct {
	sets   DailySetStore
	cfg    *config.RotationConfig
	logger *observability.Logger
}

// NewStreakService creates a new streak service
func NewStreakService(sets DailySetStore, cfg *config.RotationConfig, logger *observability.Logger) *StreakService {
	return &StreakService{
		sets:   sets,
		cfg:    cfg,
		logger: logger,
	}
}

// CurrentStreak counts consecutive fully-completed days ending today.
// The scan walks backwards one day at a time and stops at the first
// missing or incomplete day, bounded by the configured lookback cap.
func (s *StreakService) CurrentStreak(ctx context.Context, userID int, today time.Time) (result int, err error) {
	ctx, span := observability.TraceStreakFunction(ctx, "current_streak",
		observability.AttributeUserID(userID),
		observability.AttributeDate(today),
	)
	defer observability.FinishSpan(span, &err)

	streak := 0
	current := today
	for {
		completed, checkErr := s.sets.IsFullyCompleted(ctx, userID, current)
		if checkErr != nil {
			err = checkErr
			return 0, err
		}
		if !completed {
			break
		}
		streak++
		current = current.AddDate(0, 0, -1)

		// Safety limit
		if streak > s.cfg.StreakMaxLookbackDays {
			break
		}
	}

	span.SetAttributes(attribute.Int("streak.current", streak))
	return streak, nil
}

// GetStreak returns the streak, total completed days, and message
func (s *StreakService) GetStreak(ctx context.Context, userID int, today time.Time) (result *models.StreakSummary, err error) {
	ctx, span := observability.TraceStreakFunction(ctx, "get_streak",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	streak, err := s.CurrentStreak(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	total, err := s.sets.TotalCompletedDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.StreakSummary{
		CurrentStreak:      streak,
		TotalCompletedDays: total,
		Message:            streakMessage(streak),
	}, nil
}

// streakMessage returns the motivational message for a streak length.
func streakMessage(streak int) string {
	switch {
	case streak == 0:
		return "Start your reflection journey today!"
	case streak == 1:
		return "Great start! Come back tomorrow! 🌱"
	case streak < 7:
		return fmt.Sprintf("%d days strong! Keep it going! 🔥", streak)
	case streak < 30:
		return fmt.Sprintf("Amazing! %d day streak! 🌟", streak)
	case streak < 100:
		return fmt.Sprintf("Incredible! %d days of reflection! 🏆", streak)
	default:
		return fmt.Sprintf("Legendary! %d day streak! 👑", streak)
	}
}
