// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"
)

// MaxRemoteURLLength is the longest remote resource URL accepted.
const MaxRemoteURLLength = 2048

// ErrPrivateAddress is returned when a remote URL points into a private or
// reserved address range.
var ErrPrivateAddress = errors.New("private or reserved address")

// reservedPrefixes covers private, loopback, link-local, documentation,
// multicast and otherwise non-routable ranges.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("224.0.0.0/4"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("::/128"),
	netip.MustParsePrefix("fe80::/10"),
	netip.MustParsePrefix("fc00::/7"),
}

// IsPrivateAddr reports whether addr is private or reserved. The zero Addr
// counts as private.
func IsPrivateAddr(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}
	addr = addr.Unmap()
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// CheckRemoteURL checks that rawURL is an absolute http(s) URL whose host
// is not local. Hostnames are not resolved here; the dialer returned by
// SafeDialContext checks resolved addresses at connect time.
func CheckRemoteURL(rawURL string) (*url.URL, error) {
	if len(rawURL) > MaxRemoteURLLength {
		return nil, fmt.Errorf("URL exceeds %d characters", MaxRemoteURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, errors.New("URL has no host")
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return nil, fmt.Errorf("%s: %w", host, ErrPrivateAddress)
	}
	if addr, err := netip.ParseAddr(host); err == nil && IsPrivateAddr(addr) {
		return nil, fmt.Errorf("%s: %w", host, ErrPrivateAddress)
	}
	return u, nil
}

// SafeDialContext returns a DialContext that resolves the host itself and
// refuses to connect to private or reserved addresses. Dialing the resolved
// address directly closes the DNS rebinding window.
func SafeDialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", addr, err)
		}

		addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", host, err)
		}
		for _, a := range addrs {
			if IsPrivateAddr(a) {
				return nil, fmt.Errorf("%s (from %q): %w", a, host, ErrPrivateAddress)
			}
		}

		var lastErr error = fmt.Errorf("%q did not resolve", host)
		for _, a := range addrs {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(a.Unmap().String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, fmt.Errorf("connecting to %q: %w", host, lastErr)
	}
}

// NewRemoteClient returns an HTTP client for fetching user-supplied URLs.
// Unless allowPrivate is set, connections to private addresses are refused,
// including after redirects.
func NewRemoteClient(timeout time.Duration, allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if allowPrivate {
		transport.DialContext = dialer.DialContext
	} else {
		transport.DialContext = SafeDialContext(dialer)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}
