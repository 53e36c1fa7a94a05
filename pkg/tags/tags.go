// Package tags canonicalizes free-text tag input into a deduplicated,
// lowercased list. None of its functions fail.
package tags

import (
	"fmt"
	"strings"
)

// NormalizeTag trims, collapses internal whitespace runs to a single space
// and lowercases. Nil input yields "".
func NormalizeTag(input any) string {
	s, ok := stringify(input)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SplitByComma splits scalar input on commas only, never on whitespace.
// Lists are flattened recursively. Fragments are trimmed and empty ones dropped.
func SplitByComma(input any) []string {
	out := []string{}
	switch v := input.(type) {
	case nil:
	case []string:
		for _, item := range v {
			out = append(out, SplitByComma(item)...)
		}
	case []any:
		for _, item := range v {
			out = append(out, SplitByComma(item)...)
		}
	default:
		s, _ := stringify(v)
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// NormalizeTags normalizes and deduplicates tags, keeping first-seen order.
// List input is normalized element by element without further splitting;
// anything else is comma-split first. NormalizeTags is idempotent.
func NormalizeTags(input any) []string {
	var raw []any
	switch v := input.(type) {
	case []string:
		for _, item := range v {
			raw = append(raw, item)
		}
	case []any:
		raw = v
	default:
		for _, item := range SplitByComma(input) {
			raw = append(raw, item)
		}
	}

	out := []string{}
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		tag := NormalizeTag(item)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func stringify(input any) (string, bool) {
	switch v := input.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
