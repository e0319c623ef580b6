package commands

import "github.com/aswin071/MindNotes/internal/models"

// starterItems is the curated catalog loaded by `adm seed`. Five prompts
// per category; the replenisher takes over once a user works through
// these.
var starterItems = []models.ContentItem{
	{Category: "Gratitude", QuestionText: "What made you smile today?", Tags: []string{"Grateful", "Happy"}, Difficulty: models.DifficultyEasy},
	{Category: "Gratitude", QuestionText: "Who are you grateful for today and why?", Tags: []string{"Grateful", "Family", "Relationships"}, Difficulty: models.DifficultyEasy},
	{Category: "Gratitude", QuestionText: "What small thing brought you comfort today?", Tags: []string{"Grateful", "Calm"}, Difficulty: models.DifficultyEasy},
	{Category: "Gratitude", QuestionText: "What skill or ability are you thankful to have?", Tags: []string{"Grateful", "Achievement"}, Difficulty: models.DifficultyMedium},
	{Category: "Gratitude", QuestionText: "What lesson from the past are you grateful for?", Tags: []string{"Grateful", "Reflection", "Learning"}, Difficulty: models.DifficultyMedium},

	{Category: "Growth", QuestionText: "What did you learn today?", Tags: []string{"Learning", "Idea"}, Difficulty: models.DifficultyEasy},
	{Category: "Growth", QuestionText: "What skill do you want to develop next?", Tags: []string{"Learning", "Goal"}, Difficulty: models.DifficultyEasy},
	{Category: "Growth", QuestionText: "How have you grown in the past month?", Tags: []string{"Reflection", "Achievement"}, Difficulty: models.DifficultyMedium},
	{Category: "Growth", QuestionText: "What mistake taught you something valuable?", Tags: []string{"Reflection", "Learning"}, Difficulty: models.DifficultyMedium},
	{Category: "Growth", QuestionText: "What book, podcast, or video inspired you recently?", Tags: []string{"Learning", "Inspired", "Idea"}, Difficulty: models.DifficultyEasy},

	{Category: "Relationships", QuestionText: "How did you make someone's day better?", Tags: []string{"Grateful", "Family", "Relationships"}, Difficulty: models.DifficultyEasy},
	{Category: "Relationships", QuestionText: "Who inspired you today?", Tags: []string{"Inspired", "Relationships"}, Difficulty: models.DifficultyEasy},
	{Category: "Relationships", QuestionText: "What conversation made you think differently?", Tags: []string{"Idea", "Learning", "Relationships"}, Difficulty: models.DifficultyMedium},
	{Category: "Relationships", QuestionText: "How did you show love to someone today?", Tags: []string{"Family", "Relationships"}, Difficulty: models.DifficultyEasy},
	{Category: "Relationships", QuestionText: "What do you appreciate most about your closest friend?", Tags: []string{"Grateful", "Relationships"}, Difficulty: models.DifficultyEasy},

	{Category: "Challenges", QuestionText: "What challenge did you face today?", Tags: []string{"Reflection", "Stressed"}, Difficulty: models.DifficultyEasy},
	{Category: "Challenges", QuestionText: "How did you overcome an obstacle today?", Tags: []string{"Achievement", "Confident"}, Difficulty: models.DifficultyMedium},
	{Category: "Challenges", QuestionText: "What are you struggling with right now?", Tags: []string{"Anxious", "Stressed", "Reflection"}, Difficulty: models.DifficultyMedium},
	{Category: "Challenges", QuestionText: "What strength did you discover in yourself during a difficult time?", Tags: []string{"Achievement", "Reflection"}, Difficulty: models.DifficultyDeep},
	{Category: "Challenges", QuestionText: "What fear did you face today, even just a little?", Tags: []string{"Confident", "Achievement"}, Difficulty: models.DifficultyMedium},

	{Category: "Self-Discovery", QuestionText: "What value is most important to you right now?", Tags: []string{"Reflection", "Important"}, Difficulty: models.DifficultyMedium},
	{Category: "Self-Discovery", QuestionText: "What makes you unique?", Tags: []string{"Confident", "Reflection"}, Difficulty: models.DifficultyMedium},
	{Category: "Self-Discovery", QuestionText: "What do you need more of in your life?", Tags: []string{"Reflection", "Goal"}, Difficulty: models.DifficultyMedium},
	{Category: "Self-Discovery", QuestionText: "What energizes you?", Tags: []string{"Excited", "Reflection"}, Difficulty: models.DifficultyEasy},
	{Category: "Self-Discovery", QuestionText: "What drains your energy?", Tags: []string{"Reflection", "Stressed"}, Difficulty: models.DifficultyEasy},

	{Category: "Wellness", QuestionText: "How did you take care of yourself today?", Tags: []string{"Self-care", "Health"}, Difficulty: models.DifficultyEasy},
	{Category: "Wellness", QuestionText: "What physical activity made you feel good?", Tags: []string{"Fitness", "Health"}, Difficulty: models.DifficultyEasy},
	{Category: "Wellness", QuestionText: "How would you rate your sleep quality lately?", Tags: []string{"Health", "Reflection"}, Difficulty: models.DifficultyEasy},
	{Category: "Wellness", QuestionText: "What healthy choice did you make today?", Tags: []string{"Health", "Achievement"}, Difficulty: models.DifficultyEasy},
	{Category: "Wellness", QuestionText: "How is your body feeling right now?", Tags: []string{"Health", "Mindfulness"}, Difficulty: models.DifficultyEasy},

	{Category: "Creativity", QuestionText: "What idea excited you today?", Tags: []string{"Idea", "Excited"}, Difficulty: models.DifficultyEasy},
	{Category: "Creativity", QuestionText: "What problem would you love to solve?", Tags: []string{"Idea", "Goal"}, Difficulty: models.DifficultyMedium},
	{Category: "Creativity", QuestionText: "What would you create if you had no limitations?", Tags: []string{"Dream", "Idea"}, Difficulty: models.DifficultyMedium},
	{Category: "Creativity", QuestionText: "What creative activity brings you joy?", Tags: []string{"Happy", "Hobby"}, Difficulty: models.DifficultyEasy},
	{Category: "Creativity", QuestionText: "What inspired your imagination today?", Tags: []string{"Inspired", "Idea"}, Difficulty: models.DifficultyEasy},

	{Category: "Reflection", QuestionText: "What moment will you remember from today?", Tags: []string{"Memory", "Reflection"}, Difficulty: models.DifficultyEasy},
	{Category: "Reflection", QuestionText: "How has this week been different from last week?", Tags: []string{"Reflection", "Review"}, Difficulty: models.DifficultyMedium},
	{Category: "Reflection", QuestionText: "What surprised you today?", Tags: []string{"Reflection", "Excited"}, Difficulty: models.DifficultyEasy},
	{Category: "Reflection", QuestionText: "What would you do differently if you could relive today?", Tags: []string{"Reflection", "Learning"}, Difficulty: models.DifficultyMedium},
	{Category: "Reflection", QuestionText: "What are you looking forward to?", Tags: []string{"Excited", "Goal"}, Difficulty: models.DifficultyEasy},
}
