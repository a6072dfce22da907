package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/skill-tracker/internal/apperror"
	"github.com/sakif/skill-tracker/internal/model"
	"github.com/sakif/skill-tracker/internal/repository"
)

const (
	MaxSkillNameLength = 100
	MaxListLimit       = 100
)

// SkillService handles business logic for the skill catalog. Skills are
// shared across all users, with no ownership link.
type SkillService struct {
	repo   repository.SkillRepository
	logger *slog.Logger
}

// NewSkillService creates a SkillService. The caller decides which
// repository implementation to inject (sqlite in production, a fake in
// tests).
func NewSkillService(repo repository.SkillRepository, logger *slog.Logger) *SkillService {
	return &SkillService{
		repo:   repo,
		logger: logger,
	}
}

// validateSkillInput enforces the shared create/update rules: name and
// category must be non-empty and level must be present. Level arrives as
// a pointer because zero is a legal value; only absence is an error.
func validateSkillInput(name, category string, level *int) error {
	if name == "" || category == "" || level == nil {
		return apperror.ValidationFailed("skill", "All fields are required")
	}
	if len(name) > MaxSkillNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("skill name must be %d characters or less", MaxSkillNameLength))
	}
	return nil
}

// Create validates and saves a new skill.
func (s *SkillService) Create(ctx context.Context, name, category string, level *int, description string) (*model.Skill, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if err := validateSkillInput(name, category, level); err != nil {
		return nil, err
	}

	skill := &model.Skill{
		Name:        name,
		Category:    category,
		Level:       *level,
		Description: strings.TrimSpace(description),
	}

	if err := s.repo.Create(ctx, skill); err != nil {
		s.logger.Error("failed to create skill",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating skill: %w", err)
	}

	s.logger.Info("skill created",
		slog.String("id", skill.ID),
		slog.String("name", skill.Name),
	)

	return skill, nil
}

// GetByID retrieves a skill. Returns apperror.ErrNotFound for an unknown
// ID.
func (s *SkillService) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "skill ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// List retrieves skills. A non-positive limit returns the whole catalog;
// a positive one is clamped to MaxListLimit.
func (s *SkillService) List(ctx context.Context, limit, offset int) ([]model.Skill, error) {
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	skills, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list skills", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing skills: %w", err)
	}

	return skills, nil
}

// Update replaces a skill's fields. The same required-field rules apply
// as on create, and the repository refreshes lastUpdated. Returns
// apperror.ErrNotFound for an unknown ID.
func (s *SkillService) Update(ctx context.Context, id, name, category string, level *int, description string) (*model.Skill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "skill ID is required")
	}

	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if err := validateSkillInput(name, category, level); err != nil {
		return nil, err
	}

	skill := &model.Skill{
		ID:          id,
		Name:        name,
		Category:    category,
		Level:       *level,
		Description: strings.TrimSpace(description),
	}

	if err := s.repo.Update(ctx, skill); err != nil {
		return nil, err
	}

	s.logger.Info("skill updated",
		slog.String("id", skill.ID),
		slog.String("name", skill.Name),
	)

	return skill, nil
}

// Delete removes a skill. Returns apperror.ErrNotFound for an unknown ID
// (including the second of two back-to-back deletes).
func (s *SkillService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "skill ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("skill deleted", slog.String("id", id))
	return nil
}
