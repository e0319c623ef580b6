package services

import (
	"context"
	"sync"
	"time"

	"github.com/aswin071/MindNotes/internal/models"
	contextutils "github.com/aswin071/MindNotes/internal/utils"
)

// In-memory fakes backing the service tests. They honor the same
// contracts as the Postgres repositories (uniqueness, idempotent
// appends, insert-if-absent) without a database.

type fakeCatalog struct {
	mu     sync.Mutex
	nextID int64
	items  []models.ContentItem
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{nextID: 1}
}

func (f *fakeCatalog) ActiveItems(_ context.Context, excludeIDs map[int64]struct{}) ([]models.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ContentItem
	for _, item := range f.items {
		if !item.IsActive {
			continue
		}
		if _, excluded := excludeIDs[item.ID]; excluded {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeCatalog) CreateItem(_ context.Context, item *models.ContentItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.QuestionText == item.QuestionText {
			return contextutils.WrapError(contextutils.ErrDuplicateQuestion, "question text already exists")
		}
	}
	item.ID = f.nextID
	f.nextID++
	item.CreatedAt = time.Now()
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeCatalog) QuestionTextExists(_ context.Context, questionText string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.QuestionText == questionText {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalog) CountActive(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, item := range f.items {
		if item.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []int64) ([]models.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.ContentItem
	for _, item := range f.items {
		if _, ok := want[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCatalog) add(category, question string, difficulty models.Difficulty, tags ...string) models.ContentItem {
	item := models.ContentItem{
		QuestionText: question,
		Category:     category,
		Difficulty:   difficulty,
		Tags:         tags,
		IsActive:     true,
	}
	_ = f.CreateItem(context.Background(), &item)
	return item
}

type fakeExposure struct {
	mu      sync.Mutex
	records map[int]map[int64]struct{}
}

func newFakeExposure() *fakeExposure {
	return &fakeExposure{records: make(map[int]map[int64]struct{})}
}

func (f *fakeExposure) ExposureSet(_ context.Context, userID int) (map[int64]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]struct{})
	for id := range f.records[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (f *fakeExposure) HasAny(_ context.Context, userID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[userID]) > 0, nil
}

func (f *fakeExposure) Append(_ context.Context, userID int, itemID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records[userID] == nil {
		f.records[userID] = make(map[int64]struct{})
	}
	f.records[userID][itemID] = struct{}{}
	return nil
}

func (f *fakeExposure) CountForUser(_ context.Context, userID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[userID]), nil
}

type fakeSetStore struct {
	mu     sync.Mutex
	nextID int64
	sets   []*models.DailySet
}

func newFakeSetStore() *fakeSetStore {
	return &fakeSetStore{nextID: 1}
}

func setKeyDate(date time.Time) string {
	return date.Format("2006-01-02")
}

func (f *fakeSetStore) GetByUserAndDate(_ context.Context, userID int, date time.Time) (*models.DailySet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, set := range f.sets {
		if set.UserID == userID && setKeyDate(set.SetDate) == setKeyDate(date) {
			cp := *set
			cp.Items = append([]models.DailySetItem(nil), set.Items...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSetStore) InsertIfAbsent(ctx context.Context, set *models.DailySet) (*models.DailySet, bool, error) {
	f.mu.Lock()
	for _, existing := range f.sets {
		if existing.UserID == set.UserID && setKeyDate(existing.SetDate) == setKeyDate(set.SetDate) {
			f.mu.Unlock()
			winner, err := f.GetByUserAndDate(ctx, set.UserID, set.SetDate)
			return winner, false, err
		}
	}
	set.ID = f.nextID
	f.nextID++
	set.GeneratedAt = time.Now()
	for i := range set.Items {
		set.Items[i].SetID = set.ID
		set.Items[i].Position = i
	}
	stored := *set
	stored.Items = append([]models.DailySetItem(nil), set.Items...)
	f.sets = append(f.sets, &stored)
	f.mu.Unlock()
	return set, true, nil
}

func (f *fakeSetStore) AssignedItemIDs(_ context.Context, userID int) (map[int64]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]struct{})
	for _, set := range f.sets {
		if set.UserID != userID {
			continue
		}
		for _, item := range set.Items {
			out[item.ItemID] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeSetStore) MarkItemCompleted(_ context.Context, setID, itemID int64) (*SetCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, set := range f.sets {
		if set.ID != setID {
			continue
		}
		changed := false
		done := 0
		for i := range set.Items {
			if set.Items[i].ItemID == itemID && !set.Items[i].IsCompleted {
				set.Items[i].IsCompleted = true
				changed = true
			}
			if set.Items[i].IsCompleted {
				done++
			}
		}
		set.CompletedCount = done
		set.IsFullyCompleted = done >= len(set.Items) && len(set.Items) > 0
		return &SetCompletion{
			CompletedCount:   done,
			Total:            len(set.Items),
			IsFullyCompleted: set.IsFullyCompleted,
			Changed:          changed,
		}, nil
	}
	return nil, contextutils.ErrSetNotFound
}

func (f *fakeSetStore) IsFullyCompleted(_ context.Context, userID int, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, set := range f.sets {
		if set.UserID == userID && setKeyDate(set.SetDate) == setKeyDate(date) {
			return set.IsFullyCompleted, nil
		}
	}
	return false, nil
}

func (f *fakeSetStore) TotalCompletedDays(_ context.Context, userID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, set := range f.sets {
		if set.UserID == userID && set.IsFullyCompleted {
			count++
		}
	}
	return count, nil
}

// markFullyCompleted force-completes the set for (user, date) in tests.
func (f *fakeSetStore) markFullyCompleted(userID int, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, set := range f.sets {
		if set.UserID == userID && setKeyDate(set.SetDate) == setKeyDate(date) {
			for i := range set.Items {
				set.Items[i].IsCompleted = true
			}
			set.CompletedCount = len(set.Items)
			set.IsFullyCompleted = true
			return
		}
	}
	f.sets = append(f.sets, &models.DailySet{
		ID:               f.nextID,
		UserID:           userID,
		SetDate:          date,
		CompletedCount:   0,
		IsFullyCompleted: true,
		GeneratedAt:      time.Now(),
	})
	f.nextID++
}

type fakeResponseStore struct {
	mu        sync.Mutex
	responses []models.Response
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{}
}

func (f *fakeResponseStore) Insert(_ context.Context, response *models.Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if response.ID == "" {
		response.ID = "resp-" + time.Now().Format("150405.000000000")
	}
	response.CreatedAt = time.Now()
	f.responses = append(f.responses, *response)
	return nil
}

func (f *fakeResponseStore) CompletionStats(_ context.Context, userID int) (*models.CompletionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.CompletionStats{CategoryBreakdown: make(map[string]int)}
	for _, resp := range f.responses {
		if resp.UserID != userID {
			continue
		}
		stats.TotalResponses++
		stats.TotalWordsWritten += resp.WordCount
	}
	if stats.TotalResponses > 0 {
		stats.AverageWordCount = float64(stats.TotalWordsWritten) / float64(stats.TotalResponses)
	}
	return stats, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]models.User)}
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		cp := user
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) ActiveUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		if user.IsActive {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EnsureUser(_ context.Context, username, _ string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := len(f.users) + 1
	user := models.User{ID: id, Username: username, IsActive: true}
	f.users[id] = user
	return &user, nil
}
