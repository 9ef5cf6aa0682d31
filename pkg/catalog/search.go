package catalog

import (
	"sort"
	"strings"
)

// Search returns framework names matching query, prefix matches first. An
// empty query returns every framework up to limit; limit <= 0 means no cap.
func (c *Catalog) Search(query string, limit int) []string {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return clip(c.Frameworks(), limit)
	}

	type match struct {
		name     string
		isPrefix bool
	}
	matches := make([]match, 0, len(c.names))
	for _, name := range c.names {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, query) {
			continue
		}
		matches = append(matches, match{name: name, isPrefix: strings.HasPrefix(lower, query)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	return clip(out, limit)
}

func clip(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
