package services

import (
	"context"
	"math/rand"
	"sync"

	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// DiversitySelector picks a batch of items spread across categories.
// Selection is randomized but never repeats an item within a batch; the
// rand source is injected so tests can seed it.
type DiversitySelector struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *observability.Logger
}

// NewDiversitySelector creates a selector using the given rand source.
func NewDiversitySelector(rng *rand.Rand, logger *observability.Logger) *DiversitySelector {
	return &DiversitySelector{
		rng:    rng,
		logger: logger,
	}
}

// Select picks up to k items maximizing category spread: one item per
// category in random category order first, then fills from whatever
// remains, then shuffles the final order. When k or fewer candidates
// exist they are all returned.
func (s *DiversitySelector) Select(ctx context.Context, candidates []models.ContentItem, k int) []models.ContentItem {
	_, span := observability.TraceDailySetFunction(ctx, "select_diverse",
		attribute.Int("selector.candidates", len(candidates)),
		attribute.Int("selector.k", k),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidates) <= k {
		out := make([]models.ContentItem, len(candidates))
		copy(out, candidates)
		span.SetAttributes(attribute.Int("selector.selected", len(out)))
		return out
	}

	// Group by category
	byCategory := make(map[string][]models.ContentItem)
	var categories []string
	for _, item := range candidates {
		if _, seen := byCategory[item.Category]; !seen {
			categories = append(categories, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	s.rng.Shuffle(len(categories), func(i, j int) {
		categories[i], categories[j] = categories[j], categories[i]
	})

	selected := make([]models.ContentItem, 0, k)

	// First pass: one item per category until the batch is full
	for _, category := range categories {
		if len(selected) >= k {
			break
		}
		pool := byCategory[category]
		idx := s.rng.Intn(len(pool))
		selected = append(selected, pool[idx])
		byCategory[category] = append(pool[:idx:idx], pool[idx+1:]...)
	}

	// Second pass: fill from whatever remains
	for len(selected) < k {
		var remaining []models.ContentItem
		for _, pool := range byCategory {
			remaining = append(remaining, pool...)
		}
		if len(remaining) == 0 {
			break
		}
		pick := remaining[s.rng.Intn(len(remaining))]
		selected = append(selected, pick)
		pool := byCategory[pick.Category]
		for i := range pool {
			if pool[i].ID == pick.ID {
				byCategory[pick.Category] = append(pool[:i:i], pool[i+1:]...)
				break
			}
		}
	}

	s.rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	span.SetAttributes(attribute.Int("selector.selected", len(selected)))
	return selected
}
