// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"errors"
	"strings"

	"github.com/olegiv/connect-web/internal/apiclient"
)

// Sentinel errors returned by Store.
var (
	ErrUnauthenticated = errors.New("session: not signed in")
	ErrSessionExpired  = errors.New("session: expired or invalid token")
)

// Messages used when the backend gave no message of its own.
const (
	msgUnreachable  = "Unable to reach the server. Please try again later."
	msgLoginFailed  = "Login failed. Please check your credentials."
	msgSignupFailed = "Registration failed. Please try again."
)

// AuthError is a rejected login or registration. Fields holds the backend's
// messages per form field exactly as sent; messages that belong to no
// field are stored under apiclient.NonFieldKey.
type AuthError struct {
	Fields map[string][]string
	Err    error
}

func (e *AuthError) Error() string {
	if msg := e.Message(); msg != "" {
		return "auth: " + msg
	}
	return "auth: rejected"
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message returns the form-level messages joined, or the first field message
// when there is none.
func (e *AuthError) Message() string {
	if msgs := e.Fields[apiclient.NonFieldKey]; len(msgs) > 0 {
		return strings.Join(msgs, " ")
	}
	var apiErr *apiclient.Error
	if errors.As(e.Err, &apiErr) {
		return apiErr.Message()
	}
	return ""
}

// FieldMessages returns the messages attached to one field.
func (e *AuthError) FieldMessages(field string) []string {
	return e.Fields[field]
}

func newAuthError(err error, fallback string) *AuthError {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return &AuthError{Fields: map[string][]string{apiclient.NonFieldKey: {fallback}}, Err: err}
	}
	if len(apiErr.Fields) > 0 {
		return &AuthError{Fields: apiErr.Fields, Err: err}
	}
	msg := fallback
	if apiclient.IsTransient(err) {
		msg = msgUnreachable
	}
	return &AuthError{Fields: map[string][]string{apiclient.NonFieldKey: {msg}}, Err: err}
}
