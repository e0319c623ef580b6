// Package worker contains the background worker that pre-generates daily
// sets for active users so the first request of the day is served from
// storage instead of assembling a batch inline. The worker runs
// independently of any request handling.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	"github.com/aswin071/MindNotes/internal/services"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// Status represents the current state of the worker
type Status struct {
	IsRunning       bool      `json:"is_running"`
	CurrentActivity string    `json:"current_activity,omitempty"`
	LastRunStart    time.Time `json:"last_run_start"`
	LastRunFinish   time.Time `json:"last_run_finish"`
	LastRunError    string    `json:"last_run_error,omitempty"`
}

// RunRecord tracks individual worker runs
type RunRecord struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Status    string        `json:"status"` // Success, Failure
	Details   string        `json:"details"`
}

const maxRunHistory = 20

// Worker pre-generates daily sets in the background
type Worker struct {
	userRepo        services.UserRepository
	dailySetService services.DailySetServiceInterface
	instance        string
	cfg             *config.Config
	logger          *observability.Logger

	mu            sync.RWMutex
	status        Status
	history       []RunRecord
	manualTrigger chan bool

	// Time function for testing - defaults to time.Now
	timeNow func() time.Time
}

// NewWorker creates a new pre-generation worker
func NewWorker(
	userRepo services.UserRepository,
	dailySetService services.DailySetServiceInterface,
	instance string,
	cfg *config.Config,
	logger *observability.Logger,
) *Worker {
	return &Worker{
		userRepo:        userRepo,
		dailySetService: dailySetService,
		instance:        instance,
		cfg:             cfg,
		logger:          logger,
		manualTrigger:   make(chan bool, 1),
		timeNow:         time.Now,
	}
}

// Start runs the worker loop until the context is cancelled
func (w *Worker) Start(ctx context.Context) {
	w.setRunning(true)

	ticker := time.NewTicker(w.cfg.Rotation.WorkerInterval)
	defer ticker.Stop()

	w.logger.Info(ctx, "Worker started", map[string]interface{}{
		"instance": w.instance,
		"interval": w.cfg.Rotation.WorkerInterval.String(),
	})

	// Prime sets immediately on startup instead of waiting a full interval
	w.run()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Worker shutting down", map[string]interface{}{
				"instance": w.instance,
			})
			w.setRunning(false)
			return

		case <-ticker.C:
			w.run()

		case <-w.manualTrigger:
			w.logger.Info(ctx, "Worker triggered manually", map[string]interface{}{
				"instance": w.instance,
			})
			w.run()
		}
	}
}

// TriggerManualRun requests an immediate run outside the interval
func (w *Worker) TriggerManualRun() {
	select {
	case w.manualTrigger <- true:
	default:
		// A trigger is already pending
	}
}

// GetStatus returns a copy of the current worker status
func (w *Worker) GetStatus() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// GetHistory returns a copy of recent run records
func (w *Worker) GetHistory() []RunRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()
	history := make([]RunRecord, len(w.history))
	copy(history, w.history)
	return history
}

// run executes a single worker cycle
func (w *Worker) run() {
	ctx, span := observability.TraceWorkerFunction(context.Background(), "run",
		attribute.String("worker.instance", w.instance),
	)
	defer observability.FinishSpan(span, nil)

	start := w.timeNow()
	w.mu.Lock()
	w.status.LastRunStart = start
	w.status.CurrentActivity = "pre-generating daily sets"
	w.mu.Unlock()

	details, err := w.pregenerateDailySets(ctx)

	w.mu.Lock()
	w.status.LastRunFinish = w.timeNow()
	w.status.CurrentActivity = ""
	if err != nil {
		w.status.LastRunError = err.Error()
	} else {
		w.status.LastRunError = ""
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error(ctx, "Worker run failed", err, map[string]interface{}{
			"instance": w.instance,
		})
	}
	w.recordRunHistory(start, details, err)
}

// pregenerateDailySets generates sets for every active user over the
// configured horizon. Per-user failures are isolated so one user cannot
// block the rest of the run.
func (w *Worker) pregenerateDailySets(ctx context.Context) (result string, err error) {
	ctx, span := observability.TraceWorkerFunction(ctx, "pregenerate_daily_sets",
		attribute.String("worker.instance", w.instance),
	)
	defer observability.FinishSpan(span, &err)

	users, err := w.userRepo.ActiveUsers(ctx)
	if err != nil {
		return "", contextutils.WrapError(err, "failed to list active users")
	}

	if len(users) == 0 {
		w.logger.Info(ctx, "No active users for pre-generation", map[string]interface{}{
			"instance": w.instance,
		})
		return "no active users", nil
	}

	span.SetAttributes(attribute.Int("users.total", len(users)))

	horizon := w.cfg.Rotation.DailyHorizonDays
	if horizon < 0 {
		horizon = 0
	}

	generated := 0
	failed := 0
	for i := range users {
		user := &users[i]
		today := w.userToday(ctx, user)

		for d := 0; d <= horizon; d++ {
			target := today.AddDate(0, 0, d)
			genErr := contextutils.Retry(ctx, contextutils.RetryAttempts, func() error {
				_, e := w.dailySetService.GetOrCreate(ctx, user.ID, target)
				return e
			})
			if genErr != nil {
				failed++
				w.logger.Error(ctx, "Failed to pre-generate daily set", genErr, map[string]interface{}{
					"user_id":  user.ID,
					"username": user.Username,
					"date":     target.Format("2006-01-02"),
				})
				continue
			}
			generated++
		}
	}

	span.SetAttributes(
		attribute.Int("sets.generated", generated),
		attribute.Int("sets.failed", failed),
	)
	w.logger.Info(ctx, "Completed daily set pre-generation", map[string]interface{}{
		"instance":  w.instance,
		"users":     len(users),
		"generated": generated,
		"failed":    failed,
	})

	return fmt.Sprintf("generated %d sets for %d users (%d failures)", generated, len(users), failed), nil
}

// userToday resolves today's calendar date in the user's timezone
func (w *Worker) userToday(ctx context.Context, user *models.User) time.Time {
	timezone := ""
	if user.Timezone.Valid {
		timezone = user.Timezone.String
	}
	loc, resolved := contextutils.UserLocation(timezone)
	if timezone != "" && resolved != timezone {
		w.logger.Warn(ctx, "Invalid timezone for user, using UTC", map[string]interface{}{
			"user_id":  user.ID,
			"username": user.Username,
			"timezone": timezone,
		})
	}
	return contextutils.DateOnly(w.timeNow(), loc)
}

// recordRunHistory appends a run record, keeping a bounded history
func (w *Worker) recordRunHistory(start time.Time, details string, err error) {
	end := w.timeNow()
	record := RunRecord{
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Status:    "Success",
		Details:   details,
	}
	if err != nil {
		record.Status = "Failure"
		record.Details = err.Error()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.history = append(w.history, record)
	if len(w.history) > maxRunHistory {
		w.history = w.history[len(w.history)-maxRunHistory:]
	}
}

func (w *Worker) setRunning(running bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.IsRunning = running
}
