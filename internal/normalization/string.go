package normalization

import (
	"strings"
)

// ParseInputString folds free-form request input for case-insensitive
// matching: trimmed and lowercased.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeTagName trims surrounding whitespace. Tag names stay
// case-sensitive: "SUV" and "suv" are distinct registry entries.
func NormalizeTagName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeQuery canonicalizes a search query for use as a row key:
// surrounding whitespace is trimmed and every internal whitespace run is
// collapsed to a single ASCII space. Case is preserved, matching how
// queries are shown back in the hot-search list.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
