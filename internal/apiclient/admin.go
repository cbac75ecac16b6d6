// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"fmt"

	"github.com/olegiv/connect-web/internal/model"
)

const (
	pathAdminUsers  = "/api/content/admin/users/"
	pathAdminEvents = "/api/content/admin/events/"
)

func adminUserPath(id int64) string { return fmt.Sprintf("%s%d/", pathAdminUsers, id) }

// AdminUsers lists every account. Requires an admin token.
func (c *Client) AdminUsers(ctx context.Context) ([]model.AdminUser, error) {
	var out []model.AdminUser
	if err := c.get(ctx, pathAdminUsers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetCanCreateContent grants or revokes content creation for a user.
func (c *Client) SetCanCreateContent(ctx context.Context, userID int64, allowed bool) error {
	return c.patch(ctx, adminUserPath(userID), model.PermissionUpdate{CanCreateContent: allowed}, nil)
}

// AdminEvents returns the registration overview of all events.
func (c *Client) AdminEvents(ctx context.Context) ([]model.EventSummary, error) {
	var out []model.EventSummary
	if err := c.get(ctx, pathAdminEvents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAvatar sets a user's avatar URL and returns the stored value.
func (c *Client) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (string, error) {
	var out model.AvatarUpdate
	if err := c.patch(ctx, adminUserPath(userID)+"avatar/", model.AvatarUpdate{AvatarURL: avatarURL}, &out); err != nil {
		return "", err
	}
	if out.AvatarURL == "" {
		out.AvatarURL = avatarURL
	}
	return out.AvatarURL, nil
}

// DeleteAvatar clears a user's avatar.
func (c *Client) DeleteAvatar(ctx context.Context, userID int64) error {
	return c.delete(ctx, adminUserPath(userID)+"avatar/delete/")
}
