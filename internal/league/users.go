// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/rinkside/internal/auth"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/store"
)

// MinPasswordLength is enforced on every new password.
const MinPasswordLength = 8

// UserInput carries the writable fields of a user. An empty Password on
// update keeps the current hash.
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     string
	ClubID   string
	Disabled bool
}

// ListUsers returns users sorted by username.
func (s *Service) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	users, err := s.store.Users.List(ctx, func(u *models.User) bool {
		return role == "" || u.Role == role
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Username) < strings.ToLower(users[j].Username)
	})
	return users, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users.Get(ctx, id)
}

func (s *Service) hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", invalidf("password must be at least %d characters", MinPasswordLength)
	}
	h, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func (s *Service) applyUserInput(ctx context.Context, u *models.User, in UserInput) error {
	u.Username = strings.TrimSpace(in.Username)
	u.Email = strings.TrimSpace(in.Email)
	u.Role = in.Role
	u.ClubID = in.ClubID
	u.Disabled = in.Disabled

	if u.Username == "" {
		return invalidf("username is required")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return invalidf("a valid email is required")
	}
	if u.Role == "" {
		u.Role = models.RoleViewer
	}
	if !models.IsValidRole(u.Role) {
		return invalidf("role %q is not one of %s", u.Role, strings.Join(models.ValidRoles, " "))
	}
	if u.Role == models.RoleManager && u.ClubID == "" {
		return invalidf("a manager needs a club_id")
	}
	if u.ClubID != "" {
		if err := s.mustExist(ctx, "club", u.ClubID, s.clubExists); err != nil {
			return err
		}
	}
	if in.Password != "" {
		h, err := s.hash(in.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = h
	}
	return nil
}

// CreateUser stores a new account. Admin only.
func (s *Service) CreateUser(ctx context.Context, actor Actor, in UserInput) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, invalidf("password is required")
	}
	u := &models.User{}
	if err := s.applyUserInput(ctx, u, in); err != nil {
		return nil, err
	}
	if err := s.store.Users.Insert(ctx, u); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "create", "users", u.ID, map[string]interface{}{"username": u.Username, "role": u.Role})
	return u, nil
}

// UpdateUser changes an account. Admins cannot demote or disable themselves.
func (s *Service) UpdateUser(ctx context.Context, actor Actor, id string, in UserInput) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := s.store.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.ID == actor.UserID && (in.Role != models.RoleAdmin || in.Disabled) {
		return nil, invalidf("you cannot demote or disable your own account")
	}
	if err := s.applyUserInput(ctx, u, in); err != nil {
		return nil, err
	}
	if err := s.store.Users.Replace(ctx, u); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "update", "users", u.ID, map[string]interface{}{
		"role":             u.Role,
		"disabled":         u.Disabled,
		"password_changed": in.Password != "",
	})
	return u, nil
}

// DeleteUser removes an account other than the caller's.
func (s *Service) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return invalidf("you cannot delete your own account")
	}
	if err := s.store.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "users", id, nil)
	return nil
}

// Authenticate checks a username and password and records the login time.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.store.Users.FindUnique(ctx, store.IndexUsername, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.Disabled || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	now := s.now().UTC()
	u.LastLoginAt = &now
	if err := s.store.Users.Replace(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates a viewer account when self sign-up is enabled.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if !s.cfg.RegistrationEnabled {
		return nil, ErrRegistrationClosed
	}
	if password == "" {
		return nil, invalidf("password is required")
	}
	u := &models.User{}
	if err := s.applyUserInput(ctx, u, UserInput{Username: username, Email: email, Password: password, Role: models.RoleViewer}); err != nil {
		return nil, err
	}
	if err := s.store.Users.Insert(ctx, u); err != nil {
		return nil, err
	}
	s.audit(ctx, Actor{UserID: u.ID, Username: u.Username, Role: u.Role}, "register", "users", u.ID, nil)
	return u, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that name exists.
// It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}
	_, err := s.store.Users.FindUnique(ctx, store.IndexUsername, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	email := username
	if !strings.Contains(email, "@") {
		email = username + "@localhost"
	}
	u := &models.User{}
	if err := s.applyUserInput(ctx, u, UserInput{Username: username, Email: email, Password: password, Role: models.RoleAdmin}); err != nil {
		return false, err
	}
	if err := s.store.Users.Insert(ctx, u); err != nil {
		return false, err
	}
	s.audit(ctx, System, "bootstrap", "users", u.ID, map[string]interface{}{"username": u.Username})
	s.log.Info().Str("username", u.Username).Msg("Created bootstrap admin user")
	return true, nil
}
