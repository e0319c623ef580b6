package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// timePeriods are the phrases substituted into templated questions.
var timePeriods = []string{"today", "this week", "recently", "lately", "in the past few days"}

// promptTemplates is the generation pool. Templates containing
// {time_period} get a random phrase substituted, which multiplies the
// number of distinct questions each template can yield.
var promptTemplates = []string{
	// Gratitude variations
	"What unexpected moment brought you joy {time_period}?",
	"Who showed you kindness {time_period} and how did it impact you?",
	"What comfort or blessing did you take for granted {time_period}?",
	"What skill or strength are you currently grateful to possess?",
	"What lesson from your past continues to serve you well?",

	// Growth variations
	"What new perspective did you gain {time_period}?",
	"How did you challenge yourself {time_period}?",
	"What feedback or insight helped you improve recently?",
	"What pattern in your behavior are you becoming aware of?",
	"What would your future self thank you for doing today?",

	// Relationships variations
	"How did you strengthen a relationship {time_period}?",
	"What conversation left a lasting impression on you?",
	"Who needs your attention or support right now?",
	"What quality in others do you want to cultivate in yourself?",
	"How did you practice empathy or understanding {time_period}?",

	// Challenges variations
	"What difficult choice did you navigate {time_period}?",
	"How are you managing uncertainty in your life?",
	"What fear or doubt are you working through?",
	"What obstacle taught you something about your resilience?",
	"How did you practice self-compassion during difficulty?",

	// Self-Discovery variations
	"What truth about yourself became clearer {time_period}?",
	"What do you need to give yourself permission to do?",
	"What part of your identity is evolving right now?",
	"What value guides your decisions most strongly?",
	"What does authentic living mean to you currently?",

	// Wellness variations
	"How did you honor your body's needs {time_period}?",
	"What boundary protected your wellbeing recently?",
	"How did you create space for rest or restoration?",
	"What brings you a sense of groundedness or peace?",
	"How are you balancing effort and ease in your life?",

	// Creativity variations
	"What idea or possibility excites you right now?",
	"How did you express yourself uniquely {time_period}?",
	"What would you create if resources weren't a limitation?",
	"What problem are you approaching from a new angle?",
	"What inspired your imagination or curiosity {time_period}?",

	// Reflection variations
	"What moment from {time_period} will you remember and why?",
	"How has your perspective shifted over time?",
	"What pattern or theme keeps appearing in your life?",
	"What are you learning about what truly matters to you?",
	"If you could give advice to someone in your situation, what would it be?",
}

var difficultyLevels = []models.Difficulty{
	models.DifficultyEasy,
	models.DifficultyMedium,
	models.DifficultyDeep,
}

// ReplenisherService synthesizes new catalog items from templates when
// the eligible pool runs low for a user.
type ReplenisherService interface {
	// Generate tries to create n new catalog items; duplicates are
	// skipped, so fewer than n may come back
	Generate(ctx context.Context, n int) ([]models.ContentItem, error)
}

// TemplateReplenisher implements ReplenisherService on the template pool.
type TemplateReplenisher struct {
	catalog ContentCatalogRepository
	cfg     *config.RotationConfig
	logger  *observability.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTemplateReplenisher creates a replenisher using the given rand source.
func NewTemplateReplenisher(catalog ContentCatalogRepository, cfg *config.RotationConfig, rng *rand.Rand, logger *observability.Logger) *TemplateReplenisher {
	return &TemplateReplenisher{
		catalog: catalog,
		cfg:     cfg,
		rng:     rng,
		logger:  logger,
	}
}

// Generate tries to create n new catalog items
func (s *TemplateReplenisher) Generate(ctx context.Context, n int) (result []models.ContentItem, err error) {
	ctx, span := observability.TraceReplenisherFunction(ctx, "generate",
		attribute.Int("replenisher.requested", n),
	)
	defer observability.FinishSpan(span, &err)

	s.logger.Info(ctx, "Replenishing catalog", map[string]interface{}{"count": n})

	categories := s.cfg.CategoryNames()

	s.mu.Lock()
	defer s.mu.Unlock()

	var created []models.ContentItem
	used := make(map[string]struct{})

	for i := 0; i < n; i++ {
		template := s.nextTemplate(used)
		question := s.formatQuestion(template)

		item := models.ContentItem{
			QuestionText: question,
			Difficulty:   difficultyLevels[s.rng.Intn(len(difficultyLevels))],
			IsGenerated:  true,
			IsActive:     true,
		}
		if len(categories) > 0 {
			item.Category = categories[s.rng.Intn(len(categories))]
			item.Tags = s.sampleTags(s.cfg.TagsForCategory(item.Category))
		} else {
			item.Category = "General"
		}

		if createErr := s.catalog.CreateItem(ctx, &item); createErr != nil {
			if contextutils.IsError(createErr, contextutils.ErrDuplicateQuestion) {
				// Same template and phrase already realized; move on
				continue
			}
			err = createErr
			return nil, err
		}
		created = append(created, item)
	}

	s.logger.Info(ctx, "Replenishment finished", map[string]interface{}{
		"requested": n,
		"created":   len(created),
	})
	span.SetAttributes(attribute.Int("replenisher.created", len(created)))
	return created, nil
}

// nextTemplate picks an unused template, resetting the used set once
// every template has been consumed.
func (s *TemplateReplenisher) nextTemplate(used map[string]struct{}) string {
	available := make([]string, 0, len(promptTemplates))
	for _, t := range promptTemplates {
		if _, seen := used[t]; !seen {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		for t := range used {
			delete(used, t)
		}
		available = promptTemplates
	}

	template := available[s.rng.Intn(len(available))]
	used[template] = struct{}{}
	return template
}

// formatQuestion substitutes a random time phrase when the template asks
// for one.
func (s *TemplateReplenisher) formatQuestion(template string) string {
	if !strings.Contains(template, "{time_period}") {
		return template
	}
	period := timePeriods[s.rng.Intn(len(timePeriods))]
	return strings.ReplaceAll(template, "{time_period}", period)
}

// sampleTags picks two tags from the category vocabulary.
func (s *TemplateReplenisher) sampleTags(vocabulary []string) []string {
	if len(vocabulary) == 0 {
		return nil
	}
	if len(vocabulary) <= 2 {
		out := make([]string, len(vocabulary))
		copy(out, vocabulary)
		return out
	}
	idx := s.rng.Perm(len(vocabulary))[:2]
	return []string{vocabulary[idx[0]], vocabulary[idx[1]]}
}
