package reflect

import "strings"

// TagEntry is one comma-separated item of a marker tag: "key" or "key=value".
type TagEntry struct {
	Key   string
	Value string
}

// ParseTag splits a struct tag body such as `named=primary,static`.
// Blank items are skipped and whitespace around keys and values is trimmed.
func ParseTag(tag string) []TagEntry {
	if strings.TrimSpace(tag) == "" {
		return nil
	}

	parts := strings.Split(tag, ",")
	entries := make([]TagEntry, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, _ := strings.Cut(part, "=")
		entries = append(
			entries, TagEntry{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			},
		)
	}
	return entries
}
