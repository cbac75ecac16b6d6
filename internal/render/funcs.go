// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"strings"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/util"
)

// Funcs returns the template function map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     util.FormatDate,
		"formatDateTime": util.FormatDateTime,
		"count":          util.FormatCount,
		"percent":        util.FormatPercent,
		"truncate":       util.Truncate,
		"markdown":       Markdown,
		"plain":          StripHTML,
		"initials":       avatar.Initials,
		"roleLabel":      func(c auth.Capabilities) string { return c.RoleLabel() },
		"lower":          strings.ToLower,
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"dict":           dict,
	}
}

// dict builds a map from alternating keys and values so that partials can
// receive more than one argument.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}
