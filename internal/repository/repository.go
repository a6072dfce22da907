// Package repository declares the storage interfaces the services depend
// on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/skill-tracker/internal/model"
)

// ListOptions controls pagination. A Limit of zero or less means "no
// limit".
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the credential store.
//
// Create must enforce email uniqueness at the storage level and return
// an error matching apperror.ErrConflict when the email is taken: a
// race between two concurrent registrations is resolved by the store
// rejecting the second insert, not by application-level locking.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	// UpsertByGitHubID inserts the user on first GitHub sign-in and
	// refreshes the profile fields on subsequent ones, keyed by GitHubID.
	UpsertByGitHubID(ctx context.Context, user *model.User) error
}

// SkillRepository is the skill document store. GetByID, Update, and
// Delete return an error matching apperror.ErrNotFound for unknown IDs.
type SkillRepository interface {
	Create(ctx context.Context, skill *model.Skill) error
	GetByID(ctx context.Context, id string) (*model.Skill, error)
	List(ctx context.Context, opts ListOptions) ([]model.Skill, error)
	Update(ctx context.Context, skill *model.Skill) error
	Delete(ctx context.Context, id string) error
}
