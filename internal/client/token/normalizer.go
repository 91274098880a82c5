// Package token normalizes raw join-token input. The same resolver handles
// camera-scanned QR payloads and pasted links; manually typed tokens bypass
// it entirely (the typed text, trimmed, is the token).
package token

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	runPathRe = regexp.MustCompile(`session/run/([^/]+)`)
	plainRe   = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
)

// Resolve extracts a join token from raw input. In order, first match wins:
//
//  1. raw parses as an absolute URL and its path contains session/run/<token>;
//  2. the URL carries a "token" or "join_token" query parameter;
//  3. raw is not a URL: the first whitespace-delimited word made up wholly
//     of 6+ alphanumeric/underscore/hyphen characters. Words carrying other
//     punctuation are skipped, so a label like "join-code:" never shadows
//     the token it announces.
//
// A URL-shaped payload with neither token shape yields no token at all; the
// plain-text scan never runs against a parsed URL, so path segments of an
// unrelated link cannot be mistaken for a token.
func Resolve(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if u, err := url.Parse(raw); err == nil && u.IsAbs() && u.Host != "" {
		if m := runPathRe.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
		q := u.Query()
		if v := q.Get("token"); v != "" {
			return v, true
		}
		if v := q.Get("join_token"); v != "" {
			return v, true
		}
		return "", false
	}

	for _, word := range strings.Fields(raw) {
		if plainRe.MatchString(word) {
			return word, true
		}
	}
	return "", false
}

// FromShareURL resolves the short share/redirect link form, which carries the
// token in an "s" or "token" query parameter. Returns false when raw is not
// an absolute URL or carries neither parameter.
func FromShareURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}
	q := u.Query()
	if v := q.Get("s"); v != "" {
		return v, true
	}
	if v := q.Get("token"); v != "" {
		return v, true
	}
	return "", false
}
