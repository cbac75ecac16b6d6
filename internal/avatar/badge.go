// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package avatar resolves user avatars into badges. A badge starts in
// Loading and moves once to Loaded, when the image was fetched and
// thumbnailed, or to Failed, when it renders initials instead.
package avatar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// State is the load state of a badge.
type State int

// Badge states.
const (
	Loading State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Badge is what a page renders for a user: a thumbnail or initials.
type Badge struct {
	Name     string
	Initials string
	Src      string // set only when State is Loaded
	State    State
}

// NewBadge returns a badge in the Loading state.
func NewBadge(name, firstName, lastName string) Badge {
	return Badge{Name: name, Initials: Initials(firstName, lastName), State: Loading}
}

// load moves a Loading badge to Loaded. Other states are left unchanged.
func (b *Badge) load(src string) bool {
	if b.State != Loading {
		return false
	}
	b.State, b.Src = Loaded, src
	return true
}

// fail moves a Loading badge to Failed. Other states are left unchanged.
func (b *Badge) fail() bool {
	if b.State != Loading {
		return false
	}
	b.State, b.Src = Failed, ""
	return true
}

// ShowImage reports whether the thumbnail should be rendered.
func (b Badge) ShowImage() bool { return b.State == Loaded }

// Initials returns the uppercased first letters of the first and last
// name, or "?" when both are empty.
func Initials(firstName, lastName string) string {
	var sb strings.Builder
	for _, part := range []string{firstName, lastName} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(part)
		sb.WriteRune(unicode.ToUpper(r))
	}
	if sb.Len() == 0 {
		return "?"
	}
	return sb.String()
}
