package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/skill-tracker/internal/apperror"
	"github.com/sakif/skill-tracker/internal/model"
	"github.com/sakif/skill-tracker/internal/repository"
)

// compile-time check that *SkillStore implements repository.SkillRepository
var _ repository.SkillRepository = (*SkillStore)(nil)

// SkillStore implements repository.SkillRepository over the shared
// connection pool. Obtain one from DB.Skills.
type SkillStore struct {
	conn *sql.DB
}

// Create inserts a new skill, generating the ID and the initial
// last-updated timestamp.
func (s *SkillStore) Create(ctx context.Context, skill *model.Skill) error {
	skill.ID = xid.New().String()
	skill.LastUpdated = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO skills (id, name, category, level, description, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		skill.ID,
		skill.Name,
		skill.Category,
		skill.Level,
		skill.Description,
		skill.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting skill: %w", err)
	}

	return nil
}

// GetByID retrieves a single skill. Returns apperror.ErrNotFound for an
// unknown ID.
func (s *SkillStore) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	var skill model.Skill

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name, category, level, description, last_updated
		 FROM skills WHERE id = ?`,
		id,
	).Scan(
		&skill.ID,
		&skill.Name,
		&skill.Category,
		&skill.Level,
		&skill.Description,
		&skill.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("skill", id)
		}
		return nil, fmt.Errorf("sqlite: getting skill %s: %w", id, err)
	}

	return &skill, nil
}

// List returns skills ordered by most recently updated. A non-positive
// Limit returns everything (SQLite treats LIMIT -1 as unbounded).
func (s *SkillStore) List(ctx context.Context, opts repository.ListOptions) ([]model.Skill, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, category, level, description, last_updated
		 FROM skills
		 ORDER BY last_updated DESC, id
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing skills: %w", err)
	}
	defer rows.Close()

	skills := []model.Skill{}
	for rows.Next() {
		var skill model.Skill
		if err := rows.Scan(
			&skill.ID,
			&skill.Name,
			&skill.Category,
			&skill.Level,
			&skill.Description,
			&skill.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning skill row: %w", err)
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating skill rows: %w", err)
	}

	return skills, nil
}

// Update rewrites a skill's fields and refreshes last_updated. Returns
// apperror.ErrNotFound when the ID matches no row. Last write wins;
// there is no optimistic-concurrency check.
func (s *SkillStore) Update(ctx context.Context, skill *model.Skill) error {
	skill.LastUpdated = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE skills
		 SET name = ?, category = ?, level = ?, description = ?, last_updated = ?
		 WHERE id = ?`,
		skill.Name,
		skill.Category,
		skill.Level,
		skill.Description,
		skill.LastUpdated,
		skill.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating skill %s: %w", skill.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update result for %s: %w", skill.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("skill", skill.ID)
	}

	return nil
}

// Delete removes a skill. Returns apperror.ErrNotFound when the ID
// matches no row, including a second delete of the same ID.
func (s *SkillStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting skill %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result for %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("skill", id)
	}

	return nil
}
