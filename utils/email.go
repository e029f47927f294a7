package utils

import (
	"net/mail"
	"strings"
)

// ValidEmail reports whether addr is a plain syntactically valid address.
// Display names ("Bob <bob@x.com>") are rejected.
func ValidEmail(addr string) bool {
	addr = strings.TrimSpace(addr)
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	return parsed.Address == addr
}

// NormalizeGroups splits a comma separated group list, trims whitespace,
// drops empties and removes duplicates while preserving first-seen order.
func NormalizeGroups(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range strings.Split(raw, ",") {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
