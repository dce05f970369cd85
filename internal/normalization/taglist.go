package normalization

import (
	"encoding/json"
	"strings"
)

// HasTagValues is the canonical "non-empty tag list" predicate for the
// legacy denormalized tags column. Older writers left the column in one
// of several shapes that all mean "untagged": absent (nil), SQL/JSON
// null, an empty array, or the array serialized once more into a JSON
// string ("[]"). Every read site that distinguishes tagged from untagged
// images must go through this function rather than re-deriving the check.
//
// An array with at least one element counts as tagged even when that
// element is the empty string; length decides, not content.
func HasTagValues(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return false
	}
	switch s[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return false
		}
		return len(items) > 0
	case '"':
		// Double-serialized list: unwrap the string and re-evaluate.
		var inner string
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return false
		}
		return HasTagValues([]byte(inner))
	default:
		return false
	}
}
