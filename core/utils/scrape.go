package utils

import (
	"net/url"
	"strconv"
	"strings"
)

var separators = strings.NewReplacer(",", "", ".", "", " ", "", "\u00a0", "", "\u202f", "")

// ParseCount parses a scraped count such as "1,234" or "1 234".
// Unparseable text yields 0.
func ParseCount(s string) int {
	n, err := strconv.Atoi(separators.Replace(strings.TrimSpace(s)))
	if err != nil {
		return 0
	}
	return n
}

// ParseFraction parses "unlocked / total" text. ok is false when the text
// has no slash or either side is not a number.
func ParseFraction(s string) (unlocked, total int, ok bool) {
	left, right, found := strings.Cut(s, "/")
	if !found {
		return 0, 0, false
	}
	left = separators.Replace(strings.TrimSpace(left))
	right = separators.Replace(strings.TrimSpace(right))

	u, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, false
	}
	t, err := strconv.Atoi(right)
	if err != nil {
		return 0, 0, false
	}
	return u, t, true
}

// LastPathSegment returns the last non-empty path segment of a URL or path.
func LastPathSegment(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	segments := strings.Split(strings.Trim(p, "/"), "/")
	return segments[len(segments)-1]
}

// QueryParam returns the named query parameter of a URL, or "".
func QueryParam(raw, name string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(name)
}
