// Package service contains the business logic layer: validation, rules,
// and orchestration between handlers and repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/skill-tracker/internal/apperror"
	"github.com/sakif/skill-tracker/internal/auth"
	"github.com/sakif/skill-tracker/internal/model"
	"github.com/sakif/skill-tracker/internal/repository"
)

// AuthService handles registration, login, and GitHub sign-in. It sits
// between the HTTP handlers and the credential store:
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT) / PasswordService (bcrypt)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the public user projection and the issued session
// token, so the handler can respond in one step.
type AuthResult struct {
	User  model.PublicUser
	Token string
}

// Register creates a new account and issues a session token.
//
// All three fields are required. The password is bcrypt-hashed before
// anything is persisted; the plaintext never leaves this method. Email
// uniqueness is enforced by the store, so a duplicate (including one
// racing a concurrent registration) surfaces as apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	switch {
	case name == "":
		return nil, apperror.ValidationFailed("name", "All fields are required")
	case email == "":
		return nil, apperror.ValidationFailed("email", "All fields are required")
	case password == "":
		return nil, apperror.ValidationFailed("password", "All fields are required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueToken(user)
}

// Login verifies credentials and issues a fresh session token.
//
// An unknown email and a wrong password both return the same generic
// apperror.InvalidCredentials; callers must not be able to tell which
// one failed. No server-side session state is created; the token is the
// whole session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	switch {
	case email == "":
		return nil, apperror.ValidationFailed("email", "Email and password are required")
	case password == "":
		return nil, apperror.ValidationFailed("password", "Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		s.logger.Error("failed to look up user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issueToken(user)
}

// LoginOrRegisterGitHub completes a GitHub sign-in: upsert the account
// keyed by GitHub ID, then issue the same session token shape as
// password login. GitHub users who hide their email get a stable
// noreply address so the unique-email invariant still holds.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}
	email := ghUser.Email
	if email == "" {
		email = fmt.Sprintf("%s@users.noreply.github.com", ghUser.Login)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		GitHubID: ghUser.ID,
	}

	if err := s.users.UpsertByGitHubID(ctx, user); err != nil {
		s.logger.Error("failed to upsert GitHub user",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("signing in via GitHub: %w", err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", ghUser.Login),
	)

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{
		User:  user.Public(),
		Token: token,
	}, nil
}
