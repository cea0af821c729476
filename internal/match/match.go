// Package match classifies foreground process names against the
// user-configured list of target (distracting) applications.
package match

import "strings"

// TargetMatcher holds the parsed target patterns. It is not safe for
// concurrent use; the engine guards it with its own lock.
type TargetMatcher struct {
	patterns []string
}

func New() *TargetMatcher {
	return &TargetMatcher{}
}

// SetFromText parses a comma-separated pattern list. Tokens are trimmed and
// lowercased; empty tokens are dropped.
func (m *TargetMatcher) SetFromText(text string) {
	patterns := make([]string, 0)
	for _, tok := range strings.Split(text, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			patterns = append(patterns, tok)
		}
	}
	m.patterns = patterns
}

// Patterns returns the currently active patterns.
func (m *TargetMatcher) Patterns() []string {
	return m.patterns
}

// MatchKey reports whether the process name matches any target pattern,
// first match wins. The returned key is the lowercased process name itself,
// so usage is aggregated per concrete process even for wildcard patterns.
//
// Pattern forms:
//   - contains "*": ordered-substring scan; all non-empty parts must occur
//     left to right in the name
//   - contains "." (no "*"): exact case-insensitive equality
//   - otherwise: case-insensitive substring containment
func (m *TargetMatcher) MatchKey(procName string) (string, bool) {
	if procName == "" {
		return "", false
	}
	name := strings.ToLower(procName)

	for _, pat := range m.patterns {
		switch {
		case strings.Contains(pat, "*"):
			if matchOrdered(name, pat) {
				return name, true
			}
		case strings.Contains(pat, "."):
			if name == pat {
				return name, true
			}
		default:
			if strings.Contains(name, pat) {
				return name, true
			}
		}
	}
	return "", false
}

// matchOrdered checks that every non-empty literal part of a wildcard pattern
// occurs in the name, in order, each search starting after the previous match.
func matchOrdered(name, pat string) bool {
	parts := make([]string, 0)
	for _, p := range strings.Split(pat, "*") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return false
	}

	idx := 0
	for _, part := range parts {
		found := strings.Index(name[idx:], part)
		if found < 0 {
			return false
		}
		idx += found + len(part)
	}
	return true
}
