// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import "sync"

type watchers struct {
	mu   sync.Mutex
	next uint64
	byTo map[string]map[uint64]chan struct{}
}

func newWatchers() *watchers {
	return &watchers{byTo: make(map[string]map[uint64]chan struct{})}
}

func (w *watchers) add(token string) (<-chan struct{}, func()) {
	ch := make(chan struct{})
	if token == "" {
		close(ch)
		return ch, func() {}
	}

	w.mu.Lock()
	w.next++
	id := w.next
	if w.byTo[token] == nil {
		w.byTo[token] = make(map[uint64]chan struct{})
	}
	w.byTo[token][id] = ch
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if set, ok := w.byTo[token]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(w.byTo, token)
			}
		}
	}
	return ch, cancel
}

// closeAll closes every channel watching token and forgets them.
func (w *watchers) closeAll(token string) {
	if token == "" {
		return
	}
	w.mu.Lock()
	set := w.byTo[token]
	delete(w.byTo, token)
	w.mu.Unlock()

	for _, ch := range set {
		close(ch)
	}
}

func (w *watchers) count(token string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.byTo[token])
}
