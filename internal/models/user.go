// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

import (
	"time"
)

// Role constants define the standard roles in the system.
// These align with the Casbin policy in internal/authz/policy.csv.
const (
	// RoleViewer can read published content.
	RoleViewer = "viewer"

	// RoleManager edits their own club, its roster, and its game results.
	RoleManager = "manager"

	// RoleAdmin has full access including user management.
	RoleAdmin = "admin"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []string{RoleViewer, RoleManager, RoleAdmin}

// IsValidRole checks if a role name is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether role may see drafts.
func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

// User is a login account. PasswordHash is persisted but never returned by the API;
// handlers respond with PublicUser.
type User struct {
	Base
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Role         string     `json:"role"`
	ClubID       string     `json:"club_id,omitempty"`
	Disabled     bool       `json:"disabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// PublicUser is the API representation of a User.
type PublicUser struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	ClubID      string     `json:"club_id,omitempty"`
	Disabled    bool       `json:"disabled"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Public strips credentials from the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		ClubID:      u.ClubID,
		Disabled:    u.Disabled,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
