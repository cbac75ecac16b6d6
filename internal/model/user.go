// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the shapes exchanged with the community backend:
// user profiles, token pairs, news, events and event registrations.
package model

import (
	"strings"
	"time"
)

// UserProfile is the identity returned by the backend profile endpoint.
type UserProfile struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	IsStaff          bool      `json:"is_staff"`
	IsSuperuser      bool      `json:"is_superuser"`
	CanCreateContent bool      `json:"can_create_content"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	DateJoined       time.Time `json:"date_joined,omitzero"`
}

// DisplayName returns "First Last", falling back to the username.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// AdminUser is a row of the admin user list.
type AdminUser struct {
	UserProfile
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Tokens is the JWT pair issued on login and registration.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is the body of a successful login or registration.
type AuthResponse struct {
	Tokens Tokens      `json:"tokens"`
	User   UserProfile `json:"user"`
}

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up form.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// ProfileUpdate is the editable part of a profile.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PermissionUpdate toggles the content creation flag of a user.
type PermissionUpdate struct {
	CanCreateContent bool `json:"can_create_content"`
}

// AvatarUpdate sets a user's avatar URL.
type AvatarUpdate struct {
	AvatarURL string `json:"avatar_url"`
}
