// Package models defines the data structures for the MindNotes rotation
// engine: the content catalog, per-user exposure records, daily sets,
// recorded responses, and derived progress summaries.
package models

import (
	"database/sql"
	"time"
)

// Difficulty grades how much a prompt asks of the writer.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyDeep   Difficulty = "deep"
)

// Valid reports whether d is one of the known difficulty grades.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyDeep:
		return true
	}
	return false
}

// ContentItem is one prompt in the shared catalog. Items are append-only;
// IsActive retires an item from future selection without touching sets
// that already snapshot it.
type ContentItem struct {
	ID           int64      `json:"id" db:"id"`
	QuestionText string     `json:"question_text" db:"question_text"`
	Category     string     `json:"category" db:"category"`
	Difficulty   Difficulty `json:"difficulty" db:"difficulty"`
	Tags         []string   `json:"tags" db:"tags"`
	IsGenerated  bool       `json:"is_generated" db:"is_generated"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// DailySetItem is one assigned prompt inside a daily set. The question
// text, category, and difficulty are snapshotted at assignment time so
// later catalog edits never change what the user was shown.
type DailySetItem struct {
	ID           int64        `json:"id" db:"id"`
	SetID        int64        `json:"-" db:"set_id"`
	ItemID       int64        `json:"item_id" db:"item_id"`
	QuestionText string       `json:"question_text" db:"question_text"`
	Category     string       `json:"category" db:"category"`
	Difficulty   Difficulty   `json:"difficulty" db:"difficulty"`
	Position     int          `json:"position" db:"position"`
	IsCompleted  bool         `json:"is_completed" db:"is_completed"`
	CompletedAt  sql.NullTime `json:"completed_at,omitempty" db:"completed_at"`
}

// DailySet is the batch of prompts assigned to one user for one calendar
// date. There is at most one set per (user, date).
type DailySet struct {
	ID               int64          `json:"id" db:"id"`
	UserID           int            `json:"user_id" db:"user_id"`
	SetDate          time.Time      `json:"set_date" db:"set_date"`
	Items            []DailySetItem `json:"items" db:"-"`
	CompletedCount   int            `json:"completed_count" db:"completed_count"`
	IsFullyCompleted bool           `json:"is_fully_completed" db:"is_fully_completed"`
	GeneratedAt      time.Time      `json:"generated_at" db:"generated_at"`

	// ShortBatch marks a set assembled while the eligible pool was smaller
	// than the configured batch size even after replenishment. View-level
	// flag, not persisted.
	ShortBatch bool `json:"short_batch,omitempty" db:"-"`
}

// ItemByItemID returns the assigned item with the given catalog item ID,
// or nil when the set does not contain it.
func (s *DailySet) ItemByItemID(itemID int64) *DailySetItem {
	for i := range s.Items {
		if s.Items[i].ItemID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

// ExposureRecord marks that a user has answered a catalog item. The
// ledger is append-only and drives lifetime no-repeat selection.
type ExposureRecord struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	ItemID    int64     `json:"item_id" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Response is one written answer to an assigned prompt.
type Response struct {
	ID               string        `json:"id" db:"id"`
	UserID           int           `json:"user_id" db:"user_id"`
	ItemID           int64         `json:"item_id" db:"item_id"`
	SetID            int64         `json:"set_id" db:"set_id"`
	ResponseText     string        `json:"response_text" db:"response_text"`
	WordCount        int           `json:"word_count" db:"word_count"`
	TimeSpentSeconds int           `json:"time_spent_seconds" db:"time_spent_seconds"`
	Mood             sql.NullInt32 `json:"mood,omitempty" db:"mood"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
}

// SubmissionResult reports the outcome of recording one response,
// including the set's completion state after the write.
type SubmissionResult struct {
	ResponseID       string   `json:"response_id"`
	CompletedCount   int      `json:"completed_count"`
	Total            int      `json:"total"`
	IsFullyCompleted bool     `json:"is_fully_completed"`
	Tags             []string `json:"tags"`
}

// StreakSummary is the user-facing view of consecutive completed days.
type StreakSummary struct {
	CurrentStreak      int    `json:"current_streak"`
	TotalCompletedDays int    `json:"total_completed_days"`
	Message            string `json:"message"`
}

// CompletionStats aggregates a user's lifetime response activity.
type CompletionStats struct {
	TotalResponses    int            `json:"total_responses"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
	AverageWordCount  float64        `json:"average_word_count"`
	TotalWordsWritten int            `json:"total_words_written"`
}

// DailyProgress summarizes one day's set for progress displays.
type DailyProgress struct {
	Date             time.Time `json:"date"`
	CompletedCount   int       `json:"completed_count"`
	Total            int       `json:"total"`
	IsFullyCompleted bool      `json:"is_fully_completed"`
}

// User is the minimal account record the rotation engine needs: identity
// for set ownership and a timezone for calendar-date boundaries.
type User struct {
	ID        int            `json:"id" db:"id"`
	Username  string         `json:"username" db:"username"`
	Timezone  sql.NullString `json:"timezone" db:"timezone"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
