// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		634:     "634",
		1247:    "1,247",
		1000000: "1,000,000",
	}
	for n, want := range tests {
		if got := FormatCount(n); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(85); got != "85.0%" {
		t.Errorf("FormatPercent(85) = %q", got)
	}
	if got := FormatPercent(100); got != "100.0%" {
		t.Errorf("FormatPercent(100) = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "Mar 15, 2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDateTime(d); got != "Mar 15, 2024 09:00" {
		t.Errorf("FormatDateTime = %q", got)
	}
	if FormatDate(time.Time{}) != "" || FormatDateTime(time.Time{}) != "" {
		t.Error("zero time should render empty")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"hello world", 6, "hello…"},
		{"héllo wörld", 5, "héllo…"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
