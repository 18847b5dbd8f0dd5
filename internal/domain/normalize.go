package domain

import (
	"strings"
)

// NormalizeSearch prepares free-text search input before it becomes a filter value:
//   - trims leading/trailing whitespace (tabs included)
//   - compresses runs of whitespace into one space
//
// Case and diacritics are preserved; the backend decides how "like" compares.
func NormalizeSearch(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
