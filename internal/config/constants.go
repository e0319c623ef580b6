package config

import "time"

// Rotation engine defaults.
const (
	// DefaultBatchSize is the number of prompts assigned per user per day.
	DefaultBatchSize = 5

	// DefaultReplenishCount is how many new prompts a replenishment run
	// attempts to synthesize when the catalog runs low for a user.
	DefaultReplenishCount = 20

	// DefaultStreakMaxLookbackDays caps the backward streak scan.
	DefaultStreakMaxLookbackDays = 365

	// DefaultCacheTTL matches the original one-hour batch cache.
	DefaultCacheTTL = time.Hour

	// DefaultCacheSize is the maximum number of daily sets held in cache.
	DefaultCacheSize = 4096

	// DefaultWorkerInterval is how often the pre-generation worker wakes up.
	DefaultWorkerInterval = 15 * time.Minute

	// DatabaseConnMaxLifetime is the maximum lifetime of a pooled connection.
	DatabaseConnMaxLifetime = 5 * time.Minute
)

// DefaultCategories returns the reference category list with the tag
// vocabulary used when synthesizing new prompts. Mirrors the curated
// category set of the production catalog.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "Gratitude", Tags: []string{"Grateful", "Happy", "Calm", "Reflection"}},
		{Name: "Growth", Tags: []string{"Learning", "Achievement", "Goal", "Breakthrough"}},
		{Name: "Relationships", Tags: []string{"Family", "Relationships", "Grateful"}},
		{Name: "Challenges", Tags: []string{"Stressed", "Achievement", "Confident", "Reflection"}},
		{Name: "Self-Discovery", Tags: []string{"Reflection", "Important", "Question", "Learning"}},
		{Name: "Wellness", Tags: []string{"Health", "Self-care", "Meditation", "Calm"}},
		{Name: "Creativity", Tags: []string{"Idea", "Excited", "Dream", "Hobby"}},
		{Name: "Reflection", Tags: []string{"Reflection", "Memory", "Learning", "Review"}},
	}
}
