package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/skill-tracker/internal/apperror"
	"github.com/sakif/skill-tracker/internal/model"
	"github.com/sakif/skill-tracker/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore implements repository.UserRepository over the shared
// connection pool. Obtain one from DB.Users.
type UserStore struct {
	conn *sql.DB
}

// Create inserts a new user, generating the ID and creation timestamp.
// A duplicate email hits the UNIQUE index and comes back as an
// apperror.Conflict; this is what resolves the race between two
// concurrent registrations with the same email.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullableID(user.GitHubID),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by email. Returns apperror.ErrNotFound if
// no user has that email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `email = ?`, email)
}

// GetByID retrieves a user by internal ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `id = ?`, id)
}

func (s *UserStore) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u        model.User
		githubID sql.NullInt64
	)

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, github_id, created_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&githubID,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	u.GitHubID = githubID.Int64
	return &u, nil
}

// UpsertByGitHubID inserts a user on their first GitHub sign-in and
// refreshes the profile fields on subsequent ones. The existing internal
// ID and creation time are kept on the update path.
func (s *UserStore) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	if user.GitHubID == 0 {
		return fmt.Errorf("sqlite: upsert requires a GitHub ID")
	}

	existing, err := s.getUser(ctx, `github_id = ?`, user.GitHubID)
	switch {
	case err == nil:
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
		_, err = s.conn.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ? WHERE id = ?`,
			user.Name, user.Email, user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil

	case isNotFound(err):
		return s.Create(ctx, user)

	default:
		return err
	}
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
