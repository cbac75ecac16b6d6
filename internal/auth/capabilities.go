// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth derives what the current user may do from their profile.
// Capabilities are recomputed for every request and never stored.
package auth

import (
	"context"

	"github.com/olegiv/connect-web/internal/model"
)

// Role labels shown in the UI.
const (
	RoleAdmin   = "Administrator"
	RoleCreator = "Content Creator"
	RoleMember  = "Member"
)

// Capabilities is the set of permissions derived from a profile.
type Capabilities struct {
	Authenticated    bool
	IsMember         bool
	IsAdmin          bool
	CanCreateContent bool
}

// Resolve derives capabilities from p. A nil profile yields no capabilities.
func Resolve(p *model.UserProfile) Capabilities {
	if p == nil {
		return Capabilities{}
	}
	return Capabilities{
		Authenticated:    true,
		IsMember:         true,
		IsAdmin:          p.IsStaff || p.IsSuperuser,
		CanCreateContent: p.IsStaff || p.CanCreateContent,
	}
}

// RoleLabel returns the highest role held.
func (c Capabilities) RoleLabel() string {
	switch {
	case c.IsAdmin:
		return RoleAdmin
	case c.CanCreateContent:
		return RoleCreator
	case c.IsMember:
		return RoleMember
	default:
		return ""
	}
}

type profileKey struct{}

// WithProfile stores the bootstrapped profile in ctx.
func WithProfile(ctx context.Context, p *model.UserProfile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// ProfileFromContext returns the profile stored by WithProfile, or nil.
func ProfileFromContext(ctx context.Context) *model.UserProfile {
	p, _ := ctx.Value(profileKey{}).(*model.UserProfile)
	return p
}

// FromContext resolves the capabilities of the profile in ctx.
func FromContext(ctx context.Context) Capabilities {
	return Resolve(ProfileFromContext(ctx))
}
