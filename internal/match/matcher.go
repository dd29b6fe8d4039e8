// Package match resolves model-suggested category names against the
// canonical category list.
package match

import (
	"log/slog"
	"strings"

	"github.com/jcowell/sift/internal/model"
)

// Match is the result of resolving a suggested name to a category.
type Match struct {
	CategoryID int
	// Fuzzy marks a tier-3 substring resolution. Callers should treat these
	// as low confidence: a short query can land on an unrelated category.
	Fuzzy bool
}

// Resolve maps a name to a category id using three tiers, each
// short-circuiting on first hit: exact match, case-insensitive match, then
// a substring heuristic in either direction. The substring tier is a
// last-resort heuristic with no similarity bound; hits are flagged Fuzzy and
// logged at warning level.
func Resolve(name string, categories []model.Category) (Match, bool) {
	if name == "" {
		return Match{}, false
	}

	for _, c := range categories {
		if c.Name == name {
			return Match{CategoryID: c.ID}, true
		}
	}

	lower := strings.ToLower(name)
	for _, c := range categories {
		if strings.ToLower(c.Name) == lower {
			return Match{CategoryID: c.ID}, true
		}
	}

	for _, c := range categories {
		cl := strings.ToLower(c.Name)
		if strings.Contains(lower, cl) || strings.Contains(cl, lower) {
			slog.Warn("resolved category by substring match",
				"query", name,
				"category", c.Name,
				"fuzzy", true)
			return Match{CategoryID: c.ID, Fuzzy: true}, true
		}
	}

	return Match{}, false
}

// ResolveExact is Resolve restricted to tiers 1 and 2. It is used to
// annotate suggestions for display, where a fuzzy hit would mislabel the
// one-click option.
func ResolveExact(name string, categories []model.Category) (int, bool) {
	if name == "" {
		return 0, false
	}

	for _, c := range categories {
		if c.Name == name {
			return c.ID, true
		}
	}

	lower := strings.ToLower(name)
	for _, c := range categories {
		if strings.ToLower(c.Name) == lower {
			return c.ID, true
		}
	}

	return 0, false
}
