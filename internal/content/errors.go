// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when neither the backend nor the mock dataset
	// holds the requested item.
	ErrNotFound = errors.New("content: not found")

	// ErrDemoReadOnly is returned by every write while demo mode is on.
	ErrDemoReadOnly = errors.New("content: demo mode is read-only")

	// ErrRegistrationNotFound is wrapped in a WriteFailure when the
	// registration to remove is not in the loaded attendee list.
	ErrRegistrationNotFound = errors.New("content: registration not found")
)

// WriteFailure reports a write that did not take effect on the backend.
// Writes never fall back to mock data.
type WriteFailure struct {
	Op     string // create, update, delete, remove-registration, ...
	Target string // news, event, user, registration
	ID     int64
	Err    error
}

func (e *WriteFailure) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d failed: %v", e.Op, e.Target, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Target, e.Err)
}

func (e *WriteFailure) Unwrap() error { return e.Err }

// IsWriteFailure reports whether err is a *WriteFailure.
func IsWriteFailure(err error) bool {
	var wf *WriteFailure
	return errors.As(err, &wf)
}
