package worker

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users []models.User
	err   error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID int) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == userID {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ActiveUsers(ctx context.Context) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeUserRepo) EnsureUser(ctx context.Context, username, timezone string) (*models.User, error) {
	u := models.User{ID: len(f.users) + 1, Username: username, IsActive: true}
	f.users = append(f.users, u)
	return &u, nil
}

type generateCall struct {
	userID int
	date   string
}

type fakeDailySetService struct {
	mu       sync.Mutex
	calls    []generateCall
	failFor  map[int]error
	failOnce map[int]error
}

func (f *fakeDailySetService) GetOrCreate(ctx context.Context, userID int, date time.Time) (*models.DailySet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOnce[userID]; ok {
		delete(f.failOnce, userID)
		return nil, err
	}
	if err, ok := f.failFor[userID]; ok {
		return nil, err
	}
	f.calls = append(f.calls, generateCall{userID: userID, date: date.Format("2006-01-02")})
	return &models.DailySet{UserID: userID, SetDate: date}, nil
}

func (f *fakeDailySetService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func workerConfig(horizon int) *config.Config {
	cfg := &config.Config{}
	cfg.Rotation.WorkerInterval = time.Hour
	cfg.Rotation.DailyHorizonDays = horizon
	return cfg
}

func newTestWorker(users *fakeUserRepo, sets *fakeDailySetService, horizon int) *Worker {
	w := NewWorker(users, sets, "test-instance", workerConfig(horizon), observability.NewLogger(nil))
	w.timeNow = func() time.Time {
		return time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	}
	return w
}

func TestPregenerateCoversHorizonPerUser(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{
		{ID: 1, Username: "alice", IsActive: true},
		{ID: 2, Username: "bob", IsActive: true},
	}}
	sets := &fakeDailySetService{}
	w := newTestWorker(users, sets, 1)

	details, err := w.pregenerateDailySets(context.Background())
	require.NoError(t, err)

	// 2 users, today plus 1 day ahead.
	assert.Equal(t, 4, sets.callCount())
	assert.Contains(t, details, "generated 4 sets for 2 users")
	assert.Contains(t, sets.calls, generateCall{userID: 1, date: "2026-03-01"})
	assert.Contains(t, sets.calls, generateCall{userID: 1, date: "2026-03-02"})
	assert.Contains(t, sets.calls, generateCall{userID: 2, date: "2026-03-01"})
	assert.Contains(t, sets.calls, generateCall{userID: 2, date: "2026-03-02"})
}

func TestPregenerateNoActiveUsers(t *testing.T) {
	w := newTestWorker(&fakeUserRepo{}, &fakeDailySetService{}, 0)

	details, err := w.pregenerateDailySets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "no active users", details)
}

func TestPregenerateIsolatesUserFailures(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{
		{ID: 1, Username: "alice", IsActive: true},
		{ID: 2, Username: "bob", IsActive: true},
	}}
	sets := &fakeDailySetService{failFor: map[int]error{1: contextutils.ErrInvalidInput}}
	w := newTestWorker(users, sets, 0)

	details, err := w.pregenerateDailySets(context.Background())
	require.NoError(t, err)

	// Bob still gets a set despite Alice's failure.
	assert.Equal(t, 1, sets.callCount())
	assert.Contains(t, details, "1 failures")
	assert.Contains(t, sets.calls, generateCall{userID: 2, date: "2026-03-01"})
}

func TestPregenerateRetriesTransientFailure(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{
		{ID: 1, Username: "alice", IsActive: true},
	}}
	sets := &fakeDailySetService{failOnce: map[int]error{1: contextutils.ErrDatabaseConnection}}
	w := newTestWorker(users, sets, 0)

	details, err := w.pregenerateDailySets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sets.callCount())
	assert.Contains(t, details, "0 failures")
}

func TestPregenerateUsesUserTimezone(t *testing.T) {
	// 08:00 UTC on March 1 is still February 28 in Los Angeles.
	users := &fakeUserRepo{users: []models.User{
		{ID: 1, Username: "carol", IsActive: true, Timezone: sql.NullString{String: "America/Los_Angeles", Valid: true}},
	}}
	sets := &fakeDailySetService{}
	w := newTestWorker(users, sets, 0)

	_, err := w.pregenerateDailySets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets.calls, 1)
	assert.Equal(t, "2026-02-28", sets.calls[0].date)
}

func TestPregenerateInvalidTimezoneFallsBackToUTC(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{
		{ID: 1, Username: "dave", IsActive: true, Timezone: sql.NullString{String: "Mars/Olympus", Valid: true}},
	}}
	sets := &fakeDailySetService{}
	w := newTestWorker(users, sets, 0)

	_, err := w.pregenerateDailySets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets.calls, 1)
	assert.Equal(t, "2026-03-01", sets.calls[0].date)
}

func TestPregenerateUserListError(t *testing.T) {
	users := &fakeUserRepo{err: contextutils.ErrDatabaseQuery}
	w := newTestWorker(users, &fakeDailySetService{}, 0)

	_, err := w.pregenerateDailySets(context.Background())
	require.Error(t, err)
	assert.True(t, contextutils.IsError(err, contextutils.ErrDatabaseQuery))
}

func TestRunUpdatesStatusAndHistory(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{{ID: 1, Username: "alice", IsActive: true}}}
	sets := &fakeDailySetService{}
	w := newTestWorker(users, sets, 0)

	w.run()

	status := w.GetStatus()
	assert.False(t, status.LastRunStart.IsZero())
	assert.False(t, status.LastRunFinish.IsZero())
	assert.Empty(t, status.LastRunError)
	assert.Empty(t, status.CurrentActivity)

	history := w.GetHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "Success", history[0].Status)
	assert.Contains(t, history[0].Details, "generated 1 sets")
}

func TestRunRecordsFailure(t *testing.T) {
	users := &fakeUserRepo{err: contextutils.ErrDatabaseQuery}
	w := newTestWorker(users, &fakeDailySetService{}, 0)

	w.run()

	status := w.GetStatus()
	assert.NotEmpty(t, status.LastRunError)

	history := w.GetHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "Failure", history[0].Status)
}

func TestRunHistoryIsBounded(t *testing.T) {
	users := &fakeUserRepo{}
	w := newTestWorker(users, &fakeDailySetService{}, 0)

	for i := 0; i < maxRunHistory+5; i++ {
		w.recordRunHistory(w.timeNow(), fmt.Sprintf("run %d", i), nil)
	}

	history := w.GetHistory()
	assert.Len(t, history, maxRunHistory)
	assert.Equal(t, fmt.Sprintf("run %d", maxRunHistory+4), history[len(history)-1].Details)
}

func TestTriggerManualRunDoesNotBlock(t *testing.T) {
	w := newTestWorker(&fakeUserRepo{}, &fakeDailySetService{}, 0)

	// Second trigger while one is pending must not block.
	done := make(chan struct{})
	go func() {
		w.TriggerManualRun()
		w.TriggerManualRun()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TriggerManualRun blocked")
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{{ID: 1, Username: "alice", IsActive: true}}}
	sets := &fakeDailySetService{}
	w := newTestWorker(users, sets, 0)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	// The startup run happens before the first tick.
	assert.Eventually(t, func() bool { return sets.callCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, w.GetStatus().IsRunning)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
	assert.False(t, w.GetStatus().IsRunning)
}
