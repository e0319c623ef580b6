package services

import (
	"context"
	"database/sql"

	"github.com/aswin071/MindNotes/internal/models"
	"github.com/aswin071/MindNotes/internal/observability"
	contextutils "github.com/aswin071/MindNotes/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// UserRepository serves the minimal account data the rotation engine needs.
type UserRepository interface {
	// GetByID returns the user, or nil when not found
	GetByID(ctx context.Context, userID int) (*models.User, error)

	// ActiveUsers returns all active users, for worker pre-generation
	ActiveUsers(ctx context.Context) ([]models.User, error)

	// EnsureUser inserts a user by username if absent and returns the row
	EnsureUser(ctx context.Context, username, timezone string) (*models.User, error)
}

// UserRepositoryImpl implements UserRepository
type UserRepositoryImpl struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *observability.Logger) UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// GetByID returns the user, or nil when not found
func (r *UserRepositoryImpl) GetByID(ctx context.Context, userID int) (result *models.User, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "get_user_by_id",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	user := &models.User{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, username, timezone, is_active, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Username, &user.Timezone, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err = contextutils.WrapError(err, "failed to query user")
		return nil, err
	}

	return user, nil
}

// ActiveUsers returns all active users
func (r *UserRepositoryImpl) ActiveUsers(ctx context.Context) (result []models.User, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "active_users")
	defer observability.FinishSpan(span, &err)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, timezone, is_active, created_at
		FROM users
		WHERE is_active = TRUE
		ORDER BY id
	`)
	if err != nil {
		err = contextutils.WrapError(err, "failed to query active users")
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err = rows.Scan(&user.ID, &user.Username, &user.Timezone, &user.IsActive, &user.CreatedAt); err != nil {
			err = contextutils.WrapError(err, "failed to scan user")
			return nil, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		err = contextutils.WrapError(err, "failed to iterate users")
		return nil, err
	}

	span.SetAttributes(attribute.Int("users.active_count", len(users)))
	return users, nil
}

// EnsureUser inserts a user by username if absent and returns the row
func (r *UserRepositoryImpl) EnsureUser(ctx context.Context, username, timezone string) (result *models.User, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "ensure_user",
		attribute.String("user.username", username),
	)
	defer observability.FinishSpan(span, &err)

	if username == "" {
		return nil, contextutils.WrapError(contextutils.ErrMissingRequired, "username is required")
	}

	var tz sql.NullString
	if timezone != "" {
		tz = sql.NullString{String: timezone, Valid: true}
	}

	user := &models.User{}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, timezone)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id, username, timezone, is_active, created_at
	`, username, tz).Scan(&user.ID, &user.Username, &user.Timezone, &user.IsActive, &user.CreatedAt)
	if err != nil {
		err = contextutils.WrapError(err, "failed to ensure user")
		return nil, err
	}

	return user, nil
}
