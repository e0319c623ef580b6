// Package commands implements the adm CLI subcommands.
package commands

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/observability"
	"github.com/aswin071/MindNotes/internal/services"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"github.com/spf13/cobra"
)

// SeedCommand loads the curated starter catalog, skipping existing texts.
func SeedCommand(cfg *config.Config, logger *observability.Logger, db *sql.DB) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the content catalog with the starter prompts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			catalog := services.NewContentCatalogRepository(db, logger)

			created := 0
			skipped := 0
			for i := range starterItems {
				item := starterItems[i]
				item.IsActive = true
				if err := catalog.CreateItem(ctx, &item); err != nil {
					if contextutils.IsError(err, contextutils.ErrDuplicateQuestion) {
						skipped++
						continue
					}
					return err
				}
				created++
			}

			cmd.Printf("Seeded catalog: %d created, %d already present\n", created, skipped)
			return nil
		},
	}
}

// UserCommands manages the minimal user records.
func UserCommands(cfg *config.Config, logger *observability.Logger, db *sql.DB) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var timezone string
	createCmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user (idempotent by username)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users := services.NewUserRepository(db, logger)
			user, err := users.EnsureUser(cmd.Context(), args[0], timezone)
			if err != nil {
				return err
			}
			cmd.Printf("User %q has id %d\n", user.Username, user.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Europe/Berlin")

	userCmd.AddCommand(createCmd)
	return userCmd
}

// SetCommands generates and inspects daily sets.
func SetCommands(cfg *config.Config, logger *observability.Logger, db *sql.DB) *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Generate and inspect daily sets",
	}

	var userID int
	var dateStr string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate (or fetch) the daily set for a user and date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date := contextutils.DateOnly(time.Now(), time.UTC)
			if dateStr != "" {
				parsed, err := contextutils.ParseDate(dateStr, time.UTC)
				if err != nil {
					return err
				}
				date = parsed
			}

			svc := buildDailySetService(cfg, logger, db)
			set, err := svc.GetOrCreate(ctx, userID, date)
			if err != nil {
				return err
			}

			cmd.Printf("Set %d for user %d on %s (%d/%d completed)\n",
				set.ID, set.UserID, set.SetDate.Format("2006-01-02"), set.CompletedCount, len(set.Items))
			if set.ShortBatch {
				cmd.Println("note: short batch, catalog exhausted for this user")
			}
			for _, item := range set.Items {
				status := " "
				if item.IsCompleted {
					status = "x"
				}
				cmd.Printf("  [%s] #%d %-14s %s\n", status, item.ItemID, item.Category, item.QuestionText)
			}
			return nil
		},
	}
	generateCmd.Flags().IntVar(&userID, "user", 0, "user id")
	generateCmd.Flags().StringVar(&dateStr, "date", "", "date as YYYY-MM-DD (default today, UTC)")
	_ = generateCmd.MarkFlagRequired("user")

	setCmd.AddCommand(generateCmd)
	return setCmd
}

// StatsCommands reports streaks and completion statistics.
func StatsCommands(cfg *config.Config, logger *observability.Logger, db *sql.DB) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Streaks and completion statistics",
	}

	var userID int
	streakCmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the user's completion streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sets := services.NewDailySetStore(db, logger)
			streaks := services.NewStreakService(sets, &cfg.Rotation, logger)

			today := contextutils.DateOnly(time.Now(), time.UTC)
			summary, err := streaks.GetStreak(cmd.Context(), userID, today)
			if err != nil {
				return err
			}
			cmd.Printf("Current streak: %d days\n", summary.CurrentStreak)
			cmd.Printf("Total completed days: %d\n", summary.TotalCompletedDays)
			cmd.Println(summary.Message)
			return nil
		},
	}
	streakCmd.Flags().IntVar(&userID, "user", 0, "user id")
	_ = streakCmd.MarkFlagRequired("user")

	var statsUserID int
	completionCmd := &cobra.Command{
		Use:   "completion",
		Short: "Show the user's lifetime response statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			responses := services.NewResponseStore(db, logger)
			stats, err := responses.CompletionStats(cmd.Context(), statsUserID)
			if err != nil {
				return err
			}
			cmd.Printf("Total responses: %d\n", stats.TotalResponses)
			cmd.Printf("Total words written: %d\n", stats.TotalWordsWritten)
			cmd.Printf("Average word count: %.1f\n", stats.AverageWordCount)
			for category, count := range stats.CategoryBreakdown {
				cmd.Printf("  %-14s %d\n", category, count)
			}
			return nil
		},
	}
	completionCmd.Flags().IntVar(&statsUserID, "user", 0, "user id")
	_ = completionCmd.MarkFlagRequired("user")

	statsCmd.AddCommand(streakCmd)
	statsCmd.AddCommand(completionCmd)
	return statsCmd
}

// buildDailySetService wires a one-shot daily set service for CLI use.
// No cache: the CLI reads fresh state every invocation.
func buildDailySetService(cfg *config.Config, logger *observability.Logger, db *sql.DB) *services.DailySetService {
	catalog := services.NewContentCatalogRepository(db, logger)
	exposure := services.NewExposureLedger(db, logger)
	sets := services.NewDailySetStore(db, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := services.NewDiversitySelector(rng, logger)
	replenisher := services.NewTemplateReplenisher(catalog, &cfg.Rotation, rng, logger)

	return services.NewDailySetService(catalog, exposure, sets, nil, selector, replenisher, &cfg.Rotation, logger)
}
