// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"

	"github.com/olegiv/connect-web/internal/model"
)

// Auth endpoints
const (
	pathLogin    = "/api/auth/login/"
	pathRegister = "/api/auth/register/"
	pathProfile  = "/api/auth/profile/"
)

// Login exchanges credentials for a token pair and profile.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.post(ctx, pathLogin, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns the same shape as Login.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.post(ctx, pathRegister, reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the profile of the token holder.
func (c *Client) Profile(ctx context.Context) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := c.get(ctx, pathProfile, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile replaces the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := c.put(ctx, pathProfile, upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
