// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failed backend call.
type Kind int

// Failure classes.
const (
	KindNetwork Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// NonFieldKey holds messages that do not belong to a form field.
const NonFieldKey = "non_field_errors"

// Error is returned by every failed call of the client.
type Error struct {
	Kind   Kind
	Status int
	Method string
	Path   string
	// Fields maps a field name (or NonFieldKey) to the server's messages.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: %s", e.Method, e.Path, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&sb, " (%d)", e.Status)
	}
	if msg := e.Message(); msg != "" {
		sb.WriteString(": ")
		sb.WriteString(msg)
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Message joins all server messages, non-field messages first and the rest
// ordered by field name.
func (e *Error) Message() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		if k != NonFieldKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := e.Fields[NonFieldKey]; ok {
		keys = append([]string{NonFieldKey}, keys...)
	}
	var parts []string
	for _, k := range keys {
		parts = append(parts, e.Fields[k]...)
	}
	return strings.Join(parts, " ")
}

// FieldMessages returns the messages for one field.
func (e *Error) FieldMessages(field string) []string {
	return e.Fields[field]
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsUnauthorized reports whether the backend rejected the bearer token.
func IsUnauthorized(err error) bool { return IsKind(err, KindUnauthorized) }

// IsTransient reports whether err is a backend outage rather than a decision:
// transport failures and 5xx responses.
func IsTransient(err error) bool {
	return IsKind(err, KindNetwork) || IsKind(err, KindServer)
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

// parseFields extracts messages from a DRF error body. Accepted shapes are
// {"field": ["msg", ...]}, {"field": "msg"}, {"detail": "msg"} and
// {"error": "msg"}; detail and error are reported under NonFieldKey.
func parseFields(body []byte) map[string][]string {
	if len(body) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	fields := make(map[string][]string, len(raw))
	for key, val := range raw {
		msgs := decodeMessages(val)
		if len(msgs) == 0 {
			continue
		}
		switch key {
		case "detail", "error", "message":
			key = NonFieldKey
		}
		fields[key] = append(fields[key], msgs...)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func decodeMessages(val json.RawMessage) []string {
	var one string
	if err := json.Unmarshal(val, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(val, &many); err == nil {
		return many
	}
	return nil
}
