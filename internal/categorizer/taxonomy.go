package categorizer

import (
	"strings"

	"github.com/forPelevin/gomoji"
)

// NormalizeCategories treats categories as a set: entries are trimmed, blanks
// removed and duplicates (compared case-insensitively) dropped, keeping the
// first spelling.
func NormalizeCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := matchKey(c)
		if key == "" {
			key = strings.ToLower(c)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// matchKey folds case, emoji decoration and whitespace runs.
func matchKey(s string) string {
	s = gomoji.RemoveEmojis(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

type matcher struct {
	canonical map[string]string
}

func newMatcher(taxonomy []string) *matcher {
	m := &matcher{canonical: make(map[string]string, len(taxonomy))}
	for _, c := range taxonomy {
		if key := matchKey(c); key != "" {
			m.canonical[key] = c
		}
		m.canonical[strings.ToLower(c)] = c
	}
	return m
}

// match returns the taxonomy spelling for a service-reported category.
func (m *matcher) match(reported string) (string, bool) {
	if strings.TrimSpace(reported) == "" {
		return "", false
	}
	if c, ok := m.canonical[strings.ToLower(strings.TrimSpace(reported))]; ok {
		return c, true
	}
	key := matchKey(reported)
	if key == "" {
		return "", false
	}
	c, ok := m.canonical[key]
	return c, ok
}
