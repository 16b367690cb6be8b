// Package tagging decides which tags apply to a task.
//
// Every function takes the tag catalog as an argument and returns new values.
// Nothing here does I/O, caches, or mutates its inputs; the caller owns
// loading and persisting the catalog and the task.
package tagging

import "strings"

// Content builds the text that keyword rules are matched against
func Content(title, description string) string {
	return strings.ToLower(title + " " + description)
}

// MatchesKeywords reports whether any keyword occurs in content.
// Matching is a case-insensitive substring test, so "art" matches "start".
// content is expected to be lowercase already (see Content).
func MatchesKeywords(content string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(content, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
